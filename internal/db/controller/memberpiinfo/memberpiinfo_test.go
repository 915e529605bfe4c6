package memberpiinfo

import (
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Zsh123456-BOOP/jnu-web/internal/db/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Asset{}, &models.Member{}, &models.MemberPIInfo{}))

	for _, id := range []uint64{1, 7} {
		require.NoError(t, db.Create(&models.Member{ID: id, Name: "member", Type: models.MemberTypeStudent, Enabled: 1}).Error)
	}

	return db
}

func TestUpsert(t *testing.T) {
	db := setupTestDB(t)

	_, err := Get(db, 1)
	require.ErrorIs(t, err, ErrPIInfoNotFound)

	md := "first"

	info, err := Upsert(db, &models.MemberPIInfo{MemberID: 1, ContentFormat: models.ContentFormatMarkdown, ContentMD: &md})
	require.NoError(t, err)
	assert.Equal(t, "first", *info.ContentMD)

	html := "<p>second</p>"

	info, err = Upsert(db, &models.MemberPIInfo{MemberID: 1, ContentFormat: models.ContentFormatRichText, ContentHTML: &html})
	require.NoError(t, err)
	assert.Equal(t, models.ContentFormatRichText, info.ContentFormat)
	assert.Equal(t, "<p>second</p>", *info.ContentHTML)
	assert.Nil(t, info.ContentMD)

	var n int64
	require.NoError(t, db.Model(&models.MemberPIInfo{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	_, err = Upsert(nil, &models.MemberPIInfo{})
	require.ErrorIs(t, err, ErrDBNil)
}

func TestUpsertConcurrentWritersKeepOneRow(t *testing.T) {
	db := setupTestDB(t)

	var wg sync.WaitGroup

	for range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, _ = Upsert(db, &models.MemberPIInfo{MemberID: 7, ContentFormat: models.ContentFormatMarkdown})
		}()
	}

	wg.Wait()

	var n int64
	require.NoError(t, db.Model(&models.MemberPIInfo{}).Where("member_id = ?", 7).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}
