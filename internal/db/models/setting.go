package models

import (
	"time"

	"gorm.io/datatypes"
)

// Setting is a single JSON blob stored under a unique key.
type Setting struct {
	Key       string         `gorm:"column:key;primaryKey;size:128"     json:"key"`
	ValueJSON datatypes.JSON `gorm:"column:value_json;not null"         json:"value_json"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName implements gorm's tabler.
func (Setting) TableName() string { return "settings" }
