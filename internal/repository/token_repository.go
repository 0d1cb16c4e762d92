package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dkoval/auth-backend/internal/domain"
	"github.com/dkoval/auth-backend/pkg/database"
)

// tokenRepository implements TokenRepository interface
type tokenRepository struct {
	db *database.Postgres
}

// NewTokenRepository creates a new refresh token repository
func NewTokenRepository(db *database.Postgres) TokenRepository {
	return &tokenRepository{db: db}
}

const refreshTokenColumns = `id, user_id, device_id, token, created_at, expires_at`

// CreateOrGet inserts a refresh token for (user, device) in a single
// statement. The unique constraint on (user_id, device_id) plus the no-op
// DO UPDATE make concurrent first logins from the same device converge on
// exactly one row: the loser of the insert race gets the winner's token
// back instead of a duplicate.
func (r *tokenRepository) CreateOrGet(ctx context.Context, token *domain.RefreshToken) (*domain.RefreshToken, error) {
	query := `
		INSERT INTO refresh_tokens (id, user_id, device_id, token, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, device_id) DO UPDATE SET token = refresh_tokens.token
		RETURNING ` + refreshTokenColumns

	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	persisted := &domain.RefreshToken{}
	err := r.db.DB.QueryRowContext(ctx, query,
		token.ID,
		token.UserID,
		token.DeviceID,
		token.Token,
		token.CreatedAt,
		token.ExpiresAt,
	).Scan(
		&persisted.ID,
		&persisted.UserID,
		&persisted.DeviceID,
		&persisted.Token,
		&persisted.CreatedAt,
		&persisted.ExpiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create refresh token: %w", err)
	}

	return persisted, nil
}

// GetByUserAndDevice retrieves the refresh token for a (user, device) pair.
// Expired rows are treated as absent.
func (r *tokenRepository) GetByUserAndDevice(ctx context.Context, userID, deviceID string) (*domain.RefreshToken, error) {
	query := `
		SELECT ` + refreshTokenColumns + `
		FROM refresh_tokens
		WHERE user_id = $1 AND device_id = $2 AND expires_at > $3
	`

	token := &domain.RefreshToken{}
	err := r.db.DB.QueryRowContext(ctx, query, userID, deviceID, time.Now()).Scan(
		&token.ID,
		&token.UserID,
		&token.DeviceID,
		&token.Token,
		&token.CreatedAt,
		&token.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("refresh token not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	return token, nil
}

// Delete removes the refresh token row matching (user, token value).
func (r *tokenRepository) Delete(ctx context.Context, userID, tokenValue string) error {
	query := `DELETE FROM refresh_tokens WHERE user_id = $1 AND token = $2`

	result, err := r.db.DB.ExecContext(ctx, query, userID, tokenValue)
	if err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("refresh token not found: %w", ErrDeleteFailed)
	}

	return nil
}

// DeleteExpired deletes all expired refresh tokens
func (r *tokenRepository) DeleteExpired(ctx context.Context) error {
	query := `DELETE FROM refresh_tokens WHERE expires_at < $1`

	_, err := r.db.DB.ExecContext(ctx, query, time.Now())
	if err != nil {
		return fmt.Errorf("failed to delete expired tokens: %w", err)
	}

	return nil
}
