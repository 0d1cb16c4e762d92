package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dkoval/auth-backend/internal/apperror"
	"github.com/dkoval/auth-backend/internal/domain"
)

// JWTManager mints and validates signed access tokens. Refresh and email
// tokens are opaque random strings, not JWTs: for those the store is the
// source of truth, so opacity is the security property.
type JWTManager struct {
	secret            []byte
	accessTokenExpiry time.Duration
}

// NewJWTManager creates a new JWT manager.
func NewJWTManager(secret string, accessTokenExpiry time.Duration) *JWTManager {
	return &JWTManager{
		secret:            []byte(secret),
		accessTokenExpiry: accessTokenExpiry,
	}
}

// GenerateAccessToken mints a short-lived HS256 token carrying the user id,
// iat/exp and a jti usable for revocation.
func (j *JWTManager) GenerateAccessToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"jti":     uuid.New().String(),
		"iat":     now.Unix(),
		"exp":     now.Add(j.accessTokenExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// ValidateAccessToken verifies signature and expiry and returns the claims.
// Every failure mode (bad signature, expired, malformed) collapses to
// ErrInvalidAccessToken so callers cannot distinguish expired from invalid.
func (j *JWTManager) ValidateAccessToken(tokenString string) (*domain.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperror.ErrInvalidAccessToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperror.ErrInvalidAccessToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, apperror.ErrInvalidAccessToken
	}
	jti, ok := claims["jti"].(string)
	if !ok {
		return nil, apperror.ErrInvalidAccessToken
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, apperror.ErrInvalidAccessToken
	}
	iat, ok := claims["iat"].(float64)
	if !ok {
		return nil, apperror.ErrInvalidAccessToken
	}

	tokenClaims := &domain.TokenClaims{
		UserID: userID,
		JTI:    jti,
		Exp:    int64(exp),
		Iat:    int64(iat),
	}
	if tokenClaims.IsExpired() {
		return nil, apperror.ErrInvalidAccessToken
	}

	return tokenClaims, nil
}

// GetAccessTokenExpiry returns the access token expiry in seconds.
func (j *JWTManager) GetAccessTokenExpiry() int {
	return int(j.accessTokenExpiry.Seconds())
}

// GenerateRefreshToken returns a cryptographically random opaque token.
func GenerateRefreshToken() string {
	return uuid.New().String()
}

// GenerateEmailToken returns a shorter opaque token suited for embedding in
// a link or displaying as a code.
func GenerateEmailToken() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}
