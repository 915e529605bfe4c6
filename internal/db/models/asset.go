package models

import "time"

// AssetKind classifies an uploaded file.
type AssetKind string

const (
	// AssetKindImage is any file with an image/* mime type.
	AssetKindImage AssetKind = "image"
	// AssetKindFile is everything else.
	AssetKindFile AssetKind = "file"
)

// Asset is an uploaded file. RelativePath is relative to the storage root,
// e.g. uploads/2024/05/<uuid>_photo.png.
type Asset struct {
	ID           uint64    `gorm:"primaryKey"           json:"id"`
	OriginalName string    `gorm:"size:255;not null"    json:"original_name"`
	Mime         string    `gorm:"size:128;not null"    json:"mime"`
	Size         int64     `gorm:"not null"             json:"size"`
	RelativePath string    `gorm:"size:512;not null"    json:"relative_path"`
	Kind         AssetKind `gorm:"size:16;not null"     json:"kind"`
	Width        *int      `json:"width"`
	Height       *int      `json:"height"`
	CreatedAt    time.Time `gorm:"index"                json:"created_at"`
}

// TableName implements gorm's tabler.
func (Asset) TableName() string { return "asset" }
