// Package memberpiinfo stores the long form biography attached to a
// principal investigator. There is at most one row per member.
package memberpiinfo

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Zsh123456-BOOP/jnu-web/internal/db/models"
)

var (
	// ErrPIInfoNotFound is returned when the member has no PI info.
	ErrPIInfoNotFound = errors.New("pi info not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get returns the PI info of member id.
func Get(db *gorm.DB, memberID uint64) (*models.MemberPIInfo, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var info models.MemberPIInfo

	if err := db.Where("member_id = ?", memberID).Take(&info).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPIInfoNotFound
		}

		return nil, err
	}

	return &info, nil
}

// Upsert writes info for info.MemberID in a single statement and returns
// the stored row.
func Upsert(db *gorm.DB, info *models.MemberPIInfo) (*models.MemberPIInfo, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	info.ID = 0

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "member_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"content_format", "content_md", "content_html", "updated_at"}),
	}).Create(info).Error
	if err != nil {
		return nil, err
	}

	return Get(db, info.MemberID)
}
