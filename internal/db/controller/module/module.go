// Package module provides access to the module (site section) table.
package module

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Zsh123456-BOOP/jnu-web/internal/db/models"
	"github.com/Zsh123456-BOOP/jnu-web/internal/pagination"
)

var (
	// ErrModuleNotFound is returned when no module matches.
	ErrModuleNotFound = errors.New("module not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// writableColumns are the columns Update replaces.
var writableColumns = []string{"name", "slug", "type", "enabled", "nav_visible", "sort_order", "config_json"}

var order = []string{"sort_order ASC", "id ASC"}

// List returns one page of all modules.
func List(db *gorm.DB, p pagination.Pagination) (pagination.Result[models.Module], error) {
	if db == nil {
		return pagination.Result[models.Module]{}, ErrDBNil
	}

	return pagination.Find[models.Module](db.Model(&models.Module{}), p, order...)
}

// ListPublic returns the enabled modules; with navOnly only those shown
// in the navigation.
func ListPublic(db *gorm.DB, navOnly bool) ([]models.Module, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	tx := db.Where("enabled = ?", 1)
	if navOnly {
		tx = tx.Where("nav_visible = ?", 1)
	}

	modules := make([]models.Module, 0)

	for _, o := range order {
		tx = tx.Order(o)
	}

	if err := tx.Find(&modules).Error; err != nil {
		return nil, err
	}

	return modules, nil
}

// Get returns a module by ID.
func Get(db *gorm.DB, id uint64) (*models.Module, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var m models.Module

	if err := db.Take(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrModuleNotFound
		}

		return nil, err
	}

	return &m, nil
}

// GetEnabledBySlug returns an enabled module by slug.
func GetEnabledBySlug(db *gorm.DB, slug string) (*models.Module, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var m models.Module

	if err := db.Where("slug = ? AND enabled = ?", slug, 1).Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrModuleNotFound
		}

		return nil, err
	}

	return &m, nil
}

// Create inserts m and fills its ID and timestamps.
func Create(db *gorm.DB, m *models.Module) error {
	if db == nil {
		return ErrDBNil
	}

	m.ID = 0

	return db.Create(m).Error
}

// Update replaces every writable column of module id with the values of m
// and returns the stored row.
func Update(db *gorm.DB, id uint64, m *models.Module) (*models.Module, error) {
	if _, err := Get(db, id); err != nil {
		return nil, err
	}

	err := db.Model(&models.Module{ID: id}).Select(writableColumns).Updates(m).Error
	if err != nil {
		return nil, err
	}

	return Get(db, id)
}

// Delete removes module id.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.Module{}, id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrModuleNotFound
	}

	return nil
}

// Count returns the number of modules.
func Count(db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var n int64

	return n, db.Model(&models.Module{}).Count(&n).Error
}
