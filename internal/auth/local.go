package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/Zsh123456-BOOP/jnu-web/internal/db/models"
)

// LocalProvider handles local database authentication.
type LocalProvider struct {
	db  *gorm.DB
	now func() time.Time
}

const whereUsername = "username = ?"

// NewLocalProvider creates a new local authentication provider.
func NewLocalProvider(db *gorm.DB) *LocalProvider {
	return &LocalProvider{
		db:  db,
		now: time.Now,
	}
}

// Authenticate checks username and password and stamps last_login_at.
// The username is trimmed before lookup.
func (p *LocalProvider) Authenticate(ctx context.Context, username, password string) (*models.AdminUser, error) {
	var user models.AdminUser

	err := p.db.WithContext(ctx).Where(whereUsername, strings.TrimSpace(username)).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to query user")
	}

	if !user.Active() {
		return nil, ErrUserAccountDisabled
	}

	if !user.VerifyPassword(password) {
		return nil, ErrInvalidPassword
	}

	loginAt := p.now()

	err = p.db.WithContext(ctx).Model(&models.AdminUser{}).
		Where("id = ?", user.ID).
		UpdateColumn("last_login_at", loginAt).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to update last login")
	}

	user.LastLoginAt = &loginAt

	return &user, nil
}

// GetUserByID returns an admin account by ID.
func (p *LocalProvider) GetUserByID(ctx context.Context, id uint64) (*models.AdminUser, error) {
	var user models.AdminUser

	err := p.db.WithContext(ctx).Take(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to query user")
	}

	return &user, nil
}

// CreateUser creates an active admin account.
func (p *LocalProvider) CreateUser(ctx context.Context, username, password string) (*models.AdminUser, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUsernameEmpty
	}

	if password == "" {
		return nil, ErrPasswordEmpty
	}

	var existing int64
	if err := p.db.WithContext(ctx).Model(&models.AdminUser{}).Where(whereUsername, username).Count(&existing).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "failed to check existing user")
	}

	if existing > 0 {
		return nil, ErrUserExists
	}

	hash, err := models.HashPassword(password)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to hash password")
	}

	user := models.AdminUser{
		Username:     username,
		PasswordHash: hash,
		IsActive:     1,
	}

	if err := p.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "failed to create user")
	}

	return &user, nil
}

// ResetPassword replaces the password of an account.
func (p *LocalProvider) ResetPassword(ctx context.Context, username, password string) error {
	if password == "" {
		return ErrPasswordEmpty
	}

	hash, err := models.HashPassword(password)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to hash password")
	}

	result := p.db.WithContext(ctx).Model(&models.AdminUser{}).
		Where(whereUsername, strings.TrimSpace(username)).
		Update("password_hash", hash)
	if result.Error != nil {
		return pkgerrors.Wrap(result.Error, "failed to reset password")
	}

	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// SetActive enables or disables an account.
func (p *LocalProvider) SetActive(ctx context.Context, id uint64, active bool) error {
	value := 0
	if active {
		value = 1
	}

	result := p.db.WithContext(ctx).Model(&models.AdminUser{}).Where("id = ?", id).Update("is_active", value)
	if result.Error != nil {
		return pkgerrors.Wrap(result.Error, "failed to update user")
	}

	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}
