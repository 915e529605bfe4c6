package models

import (
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// AdminUser is an account allowed to sign in to the admin API.
type AdminUser struct {
	ID           uint64     `gorm:"primaryKey"                  json:"id"`
	Username     string     `gorm:"size:64;uniqueIndex;not null" json:"username"`
	PasswordHash string     `gorm:"size:255;not null"            json:"-"`
	IsActive     int        `gorm:"type:smallint;not null"       json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName implements gorm's tabler.
func (AdminUser) TableName() string { return "admin_user" }

// Active reports whether the account may sign in.
func (u *AdminUser) Active() bool { return u.IsActive == 1 }

// HashPassword hashes a plaintext password using Argon2id with default parameters.
func HashPassword(password string) (string, error) {
	return argon2id.CreateHash(password, argon2id.DefaultParams) //nolint:wrapcheck
}

// VerifyPassword compares password with the stored hash in constant time.
// Argon2id hashes are native; bcrypt ($2a$, $2b$, $2y$) hashes are accepted
// for accounts imported from the previous backend.
func (u *AdminUser) VerifyPassword(password string) bool {
	if strings.HasPrefix(u.PasswordHash, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
	}

	match, err := argon2id.ComparePasswordAndHash(password, u.PasswordHash)
	if err != nil {
		log.Error().Err(err).Uint64("admin_id", u.ID).Msg("failed to verify password")
		return false
	}

	return match
}
