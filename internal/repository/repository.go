package repository

import (
	"github.com/dkoval/auth-backend/pkg/database"
)

// Repositories holds all repository interfaces
type Repositories struct {
	User   UserRepository
	Device DeviceRepository
	Token  TokenRepository
}

// NewRepositories creates all repositories
func NewRepositories(db *database.Postgres) *Repositories {
	return &Repositories{
		User:   NewUserRepository(db),
		Device: NewDeviceRepository(db),
		Token:  NewTokenRepository(db),
	}
}
