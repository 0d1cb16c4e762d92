package repository

import (
	"context"

	"github.com/dkoval/auth-backend/internal/domain"
)

// UserRepository defines methods for user operations
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	MarkVerified(ctx context.Context, userID string) error
	UpdatePassword(ctx context.Context, userID, passwordHash, salt string) error
}

// DeviceRepository defines methods for device trust records
type DeviceRepository interface {
	Create(ctx context.Context, userID string, fp domain.Fingerprint, ip string) (*domain.Device, error)
	GetTrustedByUserID(ctx context.Context, userID string) ([]*domain.Device, error)
	GetByID(ctx context.Context, deviceID string) (*domain.Device, error)
	TouchLastLogin(ctx context.Context, deviceID string) error
}

// TokenRepository defines methods for refresh token operations
type TokenRepository interface {
	// CreateOrGet persists a refresh token for (user, device), or returns
	// the surviving row if one already exists. Safe under concurrent calls.
	CreateOrGet(ctx context.Context, token *domain.RefreshToken) (*domain.RefreshToken, error)
	GetByUserAndDevice(ctx context.Context, userID, deviceID string) (*domain.RefreshToken, error)
	Delete(ctx context.Context, userID, tokenValue string) error
	DeleteExpired(ctx context.Context) error
}
