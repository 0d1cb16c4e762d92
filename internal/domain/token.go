package domain

import "time"

// TokenClaims represents the claims carried by a signed access token.
type TokenClaims struct {
	UserID string `json:"user_id"`
	JTI    string `json:"jti"`
	Exp    int64  `json:"exp"`
	Iat    int64  `json:"iat"`
}

// IsExpired checks if the token is expired.
func (tc TokenClaims) IsExpired() bool {
	return time.Now().Unix() > tc.Exp
}

// RefreshToken is an opaque, store-backed session credential tied to one
// (user, device) pair. The value is reused across logins from the same
// device until logout; the database row is the source of truth for validity.
type RefreshToken struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	DeviceID  string    `json:"device_id" db:"device_id"`
	Token     string    `json:"-" db:"token"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
}

// TokenPurpose distinguishes the two kinds of single-use email tokens.
type TokenPurpose string

const (
	PurposeVerification  TokenPurpose = "verification"
	PurposePasswordReset TokenPurpose = "password_reset"
)
