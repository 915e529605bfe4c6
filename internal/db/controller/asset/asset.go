// Package asset provides access to the uploaded asset table.
package asset

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Zsh123456-BOOP/jnu-web/internal/db/models"
	"github.com/Zsh123456-BOOP/jnu-web/internal/pagination"
)

var (
	// ErrAssetNotFound is returned when no asset matches.
	ErrAssetNotFound = errors.New("asset not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// List returns one page of assets, newest first.
func List(db *gorm.DB, p pagination.Pagination) (pagination.Result[models.Asset], error) {
	if db == nil {
		return pagination.Result[models.Asset]{}, ErrDBNil
	}

	return pagination.Find[models.Asset](db.Model(&models.Asset{}), p, "created_at DESC", "id DESC")
}

// Get returns an asset by ID.
func Get(db *gorm.DB, id uint64) (*models.Asset, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var a models.Asset

	if err := db.Take(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}

		return nil, err
	}

	return &a, nil
}

// Create inserts a.
func Create(db *gorm.DB, a *models.Asset) error {
	if db == nil {
		return ErrDBNil
	}

	a.ID = 0

	return db.Create(a).Error
}

// Delete removes asset id.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.Asset{}, id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrAssetNotFound
	}

	return nil
}

// Count returns the number of assets.
func Count(db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var n int64

	return n, db.Model(&models.Asset{}).Count(&n).Error
}
