package service

import (
	"context"

	"github.com/dkoval/auth-backend/internal/domain"
	"github.com/dkoval/auth-backend/internal/dto"
)

// LoginInput carries the credentials plus the device context resolved by
// the transport layer.
type LoginInput struct {
	Email       string
	Password    string
	Fingerprint domain.Fingerprint
	IP          string
}

// AuthService defines the session lifecycle operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) error
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	Logout(ctx context.Context, userID, refreshToken string) error
	VerifyEmail(ctx context.Context, email, token string, fp domain.Fingerprint, ip string) (*domain.Device, error)
	ForgetPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
	ValidateToken(ctx context.Context, token string) (*domain.TokenClaims, error)
	GetUser(ctx context.Context, userID string) (*dto.UserResponse, error)
}
