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

// deviceRepository implements DeviceRepository interface
type deviceRepository struct {
	db *database.Postgres
}

// NewDeviceRepository creates a new device repository
func NewDeviceRepository(db *database.Postgres) DeviceRepository {
	return &deviceRepository{db: db}
}

const deviceColumns = `id, user_id, ip, user_agent, os, device, is_trusted, last_login_at`

// Create inserts a trusted device record for the user. Only the challenge
// completion path creates devices, so trust is immediate.
func (r *deviceRepository) Create(ctx context.Context, userID string, fp domain.Fingerprint, ip string) (*domain.Device, error) {
	query := `
		INSERT INTO devices (id, user_id, ip, user_agent, os, device, is_trusted, last_login_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	device := &domain.Device{
		ID:          uuid.New().String(),
		UserID:      userID,
		IP:          ip,
		UserAgent:   fp.UserAgent,
		OS:          fp.OS,
		Device:      fp.Device,
		IsTrusted:   true,
		LastLoginAt: time.Now(),
	}

	_, err := r.db.DB.ExecContext(ctx, query,
		device.ID,
		device.UserID,
		device.IP,
		device.UserAgent,
		device.OS,
		device.Device,
		device.IsTrusted,
		device.LastLoginAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create device: %w", err)
	}

	return device, nil
}

// GetTrustedByUserID retrieves all trusted devices for a user. An empty
// slice is not an error.
func (r *deviceRepository) GetTrustedByUserID(ctx context.Context, userID string) ([]*domain.Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices WHERE user_id = $1 AND is_trusted = true`

	rows, err := r.db.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get trusted devices: %w", err)
	}
	defer rows.Close()

	var devices []*domain.Device
	for rows.Next() {
		device := &domain.Device{}
		err := rows.Scan(
			&device.ID,
			&device.UserID,
			&device.IP,
			&device.UserAgent,
			&device.OS,
			&device.Device,
			&device.IsTrusted,
			&device.LastLoginAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan device: %w", err)
		}
		devices = append(devices, device)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate devices: %w", err)
	}

	return devices, nil
}

// GetByID retrieves a device by ID
func (r *deviceRepository) GetByID(ctx context.Context, deviceID string) (*domain.Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices WHERE id = $1`

	device := &domain.Device{}
	err := r.db.DB.QueryRowContext(ctx, query, deviceID).Scan(
		&device.ID,
		&device.UserID,
		&device.IP,
		&device.UserAgent,
		&device.OS,
		&device.Device,
		&device.IsTrusted,
		&device.LastLoginAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("device with id %s not found: %w", deviceID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get device by id: %w", err)
	}

	return device, nil
}

// TouchLastLogin updates the last login timestamp for a device.
func (r *deviceRepository) TouchLastLogin(ctx context.Context, deviceID string) error {
	query := `UPDATE devices SET last_login_at = $1 WHERE id = $2`

	result, err := r.db.DB.ExecContext(ctx, query, time.Now(), deviceID)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("device with id %s not found: %w", deviceID, ErrNotFound)
	}

	return nil
}
