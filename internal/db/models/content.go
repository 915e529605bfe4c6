package models

import (
	"time"

	"gorm.io/datatypes"
)

// ContentStatus is the publication state of a content entry.
type ContentStatus string

// Content statuses.
const (
	ContentStatusDraft     ContentStatus = "draft"
	ContentStatusPublished ContentStatus = "published"
)

// ContentFormat tells which body column is authoritative.
type ContentFormat string

// Content formats.
const (
	ContentFormatMarkdown ContentFormat = "markdown"
	ContentFormatRichText ContentFormat = "richtext"
)

// Content is a page or list entry belonging to a module. Slugs are unique
// within a module.
type Content struct {
	ID            uint64         `gorm:"primaryKey"                                                  json:"id"`
	ModuleID      uint64         `gorm:"not null;uniqueIndex:uk_content_module_slug,priority:1"      json:"module_id"`
	Module        *Module        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"               json:"-"`
	Title         string         `gorm:"size:255;not null"                                           json:"title"`
	Slug          string         `gorm:"size:255;not null;uniqueIndex:uk_content_module_slug,priority:2" json:"slug"`
	Status        ContentStatus  `gorm:"size:16;not null;index"                                      json:"status"`
	ContentFormat ContentFormat  `gorm:"size:16;not null"                                            json:"content_format"`
	ContentMD     *string        `json:"content_md"`
	ContentHTML   *string        `json:"content_html"`
	Summary       *string        `json:"summary"`
	CoverAssetID  *uint64        `json:"cover_asset_id"`
	CoverAsset    *Asset         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL"               json:"-"`
	Year          *int           `gorm:"index"                                                       json:"year"`
	TagsJSON      datatypes.JSON `json:"tags_json"`
	AuthorsJSON   datatypes.JSON `json:"authors_json"`
	MetaJSON      datatypes.JSON `json:"meta_json"`
	PublishedAt   *time.Time     `gorm:"index"                                                       json:"published_at"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// TableName implements gorm's tabler.
func (Content) TableName() string { return "content" }
