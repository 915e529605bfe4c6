// Package member provides access to the team member table.
package member

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Zsh123456-BOOP/jnu-web/internal/db/models"
	"github.com/Zsh123456-BOOP/jnu-web/internal/pagination"
)

var (
	// ErrMemberNotFound is returned when no member matches.
	ErrMemberNotFound = errors.New("member not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

var writableColumns = []string{
	"name", "position", "type", "is_pi", "research_interests", "hobbies",
	"email", "image_asset_id", "sort_order", "enabled",
}

// Filter narrows a member listing. Nil fields are not applied.
type Filter struct {
	IsPI *int
	Type *models.MemberType
}

func (f Filter) scope(db *gorm.DB) *gorm.DB {
	if f.IsPI != nil {
		db = db.Where("is_pi = ?", *f.IsPI)
	}

	if f.Type != nil {
		db = db.Where("type = ?", *f.Type)
	}

	return db
}

// List returns one page of members for the admin, with their image.
func List(db *gorm.DB, p pagination.Pagination, f Filter) (pagination.Result[models.Member], error) {
	if db == nil {
		return pagination.Result[models.Member]{}, ErrDBNil
	}

	tx := f.scope(db.Model(&models.Member{}))

	return pagination.FindWith[models.Member](tx, p, withImage, "sort_order ASC", "id ASC")
}

// ListPublic returns every enabled member with image and PI info, the
// principal investigators first.
func ListPublic(db *gorm.DB, f Filter) ([]models.Member, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	members := make([]models.Member, 0)

	err := f.scope(withImage(db)).
		Preload("PIInfo").
		Where("enabled = ?", 1).
		Order("is_pi DESC").Order("sort_order ASC").Order("id ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}

	return members, nil
}

func withImage(db *gorm.DB) *gorm.DB {
	return db.Preload("Image")
}

// Get returns a member by ID with its image.
func Get(db *gorm.DB, id uint64) (*models.Member, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var m models.Member

	if err := withImage(db).Take(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}

		return nil, err
	}

	return &m, nil
}

// Exists reports whether member id exists.
func Exists(db *gorm.DB, id uint64) (bool, error) {
	if db == nil {
		return false, ErrDBNil
	}

	var n int64

	if err := db.Model(&models.Member{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}

	return n > 0, nil
}

// Create inserts m.
func Create(db *gorm.DB, m *models.Member) error {
	if db == nil {
		return ErrDBNil
	}

	m.ID = 0

	return db.Omit("Image", "PIInfo").Create(m).Error
}

// Update replaces the writable columns of member id and returns the stored row.
func Update(db *gorm.DB, id uint64, m *models.Member) (*models.Member, error) {
	if _, err := Get(db, id); err != nil {
		return nil, err
	}

	err := db.Model(&models.Member{ID: id}).Select(writableColumns).Updates(m).Error
	if err != nil {
		return nil, err
	}

	return Get(db, id)
}

// Delete removes member id together with its PI info.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("member_id = ?", id).Delete(&models.MemberPIInfo{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Member{}, id)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return ErrMemberNotFound
		}

		return nil
	})
}

// Count returns the number of members.
func Count(db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var n int64

	return n, db.Model(&models.Member{}).Count(&n).Error
}
