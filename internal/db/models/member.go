package models

import "time"

// MemberType groups team members on the people page.
type MemberType string

// Member types.
const (
	MemberTypeInService MemberType = "in_service"
	MemberTypeStudent   MemberType = "student"
	MemberTypeAlumni    MemberType = "alumni"
)

// Member is a person listed on the team page.
type Member struct {
	ID                uint64         `gorm:"primaryKey"                                     json:"id"`
	Name              string         `gorm:"size:100;not null"                              json:"name"`
	Position          *string        `gorm:"size:100"                                       json:"position"`
	Type              MemberType     `gorm:"size:16;not null;index"                         json:"type"`
	IsPI              int            `gorm:"column:is_pi;type:smallint;not null;index"      json:"is_pi"`
	ResearchInterests *string        `gorm:"size:500"                                       json:"research_interests"`
	Hobbies           *string        `gorm:"size:200"                                       json:"hobbies"`
	Email             *string        `gorm:"size:255"                                       json:"email"`
	ImageAssetID      *uint64        `json:"image_asset_id"`
	Image             *Asset         `gorm:"foreignKey:ImageAssetID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	PIInfo            *MemberPIInfo  `gorm:"foreignKey:MemberID"                                                 json:"-"`
	SortOrder         int            `gorm:"not null"                                       json:"sort_order"`
	Enabled           int            `gorm:"type:smallint;not null;index"                   json:"enabled"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// TableName implements gorm's tabler.
func (Member) TableName() string { return "member" }

// MemberPIInfo is the long form biography of a principal investigator.
type MemberPIInfo struct {
	ID            uint64        `gorm:"primaryKey"                 json:"id"`
	MemberID      uint64        `gorm:"not null;uniqueIndex"       json:"member_id"`
	ContentFormat ContentFormat `gorm:"size:16;not null"           json:"content_format"`
	ContentMD     *string       `json:"content_md"`
	ContentHTML   *string       `json:"content_html"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// TableName implements gorm's tabler.
func (MemberPIInfo) TableName() string { return "member_pi_info" }
