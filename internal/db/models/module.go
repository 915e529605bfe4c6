package models

import (
	"time"

	"gorm.io/datatypes"
)

// ModuleType selects how the public site renders a module.
type ModuleType string

// Module types.
const (
	ModuleTypeSinglePage   ModuleType = "SinglePage"
	ModuleTypeListDetail   ModuleType = "ListDetail"
	ModuleTypeExternalLink ModuleType = "ExternalLink"
	ModuleTypeLandingGrid  ModuleType = "LandingGrid"
	ModuleTypeContact      ModuleType = "Contact"
)

// ModuleTypes lists the accepted module types.
var ModuleTypes = []ModuleType{
	ModuleTypeSinglePage,
	ModuleTypeListDetail,
	ModuleTypeExternalLink,
	ModuleTypeLandingGrid,
	ModuleTypeContact,
}

// DefaultModuleSortOrder is used when sort_order is omitted.
const DefaultModuleSortOrder = 100

// Module is a site section (navigation entry).
type Module struct {
	ID         uint64         `gorm:"primaryKey"                                                 json:"id"`
	Name       string         `gorm:"size:128;not null"                                          json:"name"`
	Slug       string         `gorm:"size:128;not null;uniqueIndex:uk_module_slug"               json:"slug"`
	Type       ModuleType     `gorm:"size:32;not null"                                           json:"type"`
	Enabled    int            `gorm:"type:smallint;not null;index:idx_module_enabled_sort,priority:1" json:"enabled"`
	NavVisible int            `gorm:"type:smallint;not null"                                     json:"nav_visible"`
	SortOrder  int            `gorm:"not null;index:idx_module_enabled_sort,priority:2"          json:"sort_order"`
	ConfigJSON datatypes.JSON `json:"config_json"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// TableName implements gorm's tabler.
func (Module) TableName() string { return "module" }
