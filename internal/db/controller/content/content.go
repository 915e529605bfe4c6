// Package content provides access to the content table. Listings always
// join module, so every column is qualified with its table.
package content

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Zsh123456-BOOP/jnu-web/internal/db/models"
	"github.com/Zsh123456-BOOP/jnu-web/internal/pagination"
)

var (
	// ErrContentNotFound is returned when no content matches.
	ErrContentNotFound = errors.New("content not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

const joinModule = "JOIN module ON module.id = content.module_id"

var writableColumns = []string{
	"module_id", "title", "slug", "status", "content_format", "content_md",
	"content_html", "summary", "cover_asset_id", "year", "tags_json",
	"authors_json", "meta_json", "published_at",
}

var (
	adminOrder  = []string{"content.updated_at DESC", "content.created_at DESC", "content.id DESC"}
	publicOrder = []string{"content.published_at DESC", "content.created_at DESC", "content.id DESC"}
)

// Filter narrows a content listing. Zero fields are not applied.
type Filter struct {
	ModuleID   uint64
	ModuleSlug string
	Status     models.ContentStatus
	Year       *int
	Keyword    string
}

func (f Filter) apply(db *gorm.DB) *gorm.DB {
	if f.ModuleID > 0 {
		db = db.Where("content.module_id = ?", f.ModuleID)
	}

	if f.ModuleSlug != "" {
		db = db.Where("module.slug = ?", f.ModuleSlug)
	}

	if f.Status != "" {
		db = db.Where("content.status = ?", f.Status)
	}

	if f.Year != nil {
		db = db.Where("content.year = ?", *f.Year)
	}

	return pagination.Keyword(f.Keyword, "content.title", "content.summary")(db)
}

func withModule(db *gorm.DB) *gorm.DB {
	return db.Preload("Module")
}

func published(db *gorm.DB) *gorm.DB {
	return db.Where("content.status = ? AND module.enabled = ?", models.ContentStatusPublished, 1)
}

// List returns one page of contents for the admin, newest edits first.
func List(db *gorm.DB, p pagination.Pagination, f Filter) (pagination.Result[models.Content], error) {
	if db == nil {
		return pagination.Result[models.Content]{}, ErrDBNil
	}

	tx := f.apply(db.Model(&models.Content{}).Joins(joinModule))

	return pagination.FindWith[models.Content](tx, p, withModule, adminOrder...)
}

// ListPublished returns one page of published contents of enabled
// modules. Filter.Status is ignored.
func ListPublished(db *gorm.DB, p pagination.Pagination, f Filter) (pagination.Result[models.Content], error) {
	if db == nil {
		return pagination.Result[models.Content]{}, ErrDBNil
	}

	f.Status = ""
	tx := published(f.apply(db.Model(&models.Content{}).Joins(joinModule)))

	return pagination.FindWith[models.Content](tx, p, withModule, publicOrder...)
}

func take(tx *gorm.DB) (*models.Content, error) {
	var c models.Content

	if err := withModule(tx).Take(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}

		return nil, err
	}

	return &c, nil
}

// Get returns a content by ID regardless of its status.
func Get(db *gorm.DB, id uint64) (*models.Content, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	return take(db.Where("content.id = ?", id))
}

// GetPublished returns content id if it is published in an enabled module.
func GetPublished(db *gorm.DB, id uint64) (*models.Content, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	return take(published(db.Joins(joinModule).Where("content.id = ?", id)))
}

// GetPage returns the published content slug of module moduleSlug.
func GetPage(db *gorm.DB, moduleSlug, slug string) (*models.Content, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	tx := db.Joins(joinModule).Where("module.slug = ? AND content.slug = ?", moduleSlug, slug)

	return take(published(tx))
}

// Create inserts c and returns it with its module.
func Create(db *gorm.DB, c *models.Content) (*models.Content, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	c.ID = 0

	if err := db.Omit("Module", "CoverAsset").Create(c).Error; err != nil {
		return nil, err
	}

	return Get(db, c.ID)
}

// Update replaces the writable columns of content id and returns the
// stored row.
func Update(db *gorm.DB, id uint64, c *models.Content) (*models.Content, error) {
	if _, err := Get(db, id); err != nil {
		return nil, err
	}

	err := db.Model(&models.Content{ID: id}).Select(writableColumns).Updates(c).Error
	if err != nil {
		return nil, err
	}

	return Get(db, id)
}

// Delete removes content id.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.Content{}, id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrContentNotFound
	}

	return nil
}

// CountByStatus returns the number of contents per status. Statuses
// without rows are present with zero.
func CountByStatus(db *gorm.DB) (map[models.ContentStatus]int64, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var rows []struct {
		Status models.ContentStatus
		N      int64
	}

	err := db.Model(&models.Content{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := map[models.ContentStatus]int64{
		models.ContentStatusDraft:     0,
		models.ContentStatusPublished: 0,
	}

	for _, r := range rows {
		counts[r.Status] = r.N
	}

	return counts, nil
}
