package asset

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Zsh123456-BOOP/jnu-web/internal/db/models"
	"github.com/Zsh123456-BOOP/jnu-web/internal/pagination"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Asset{}))

	return db
}

func TestListNewestFirst(t *testing.T) {
	db := setupTestDB(t)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	created := []time.Time{base, base.Add(time.Hour), base}

	for i, at := range created {
		a := models.Asset{
			OriginalName: []string{"a.png", "b.png", "c.png"}[i],
			Mime:         "image/png",
			Size:         1,
			RelativePath: "uploads/x",
			Kind:         models.AssetKindImage,
			CreatedAt:    at,
		}
		require.NoError(t, Create(db, &a))
	}

	res, err := List(db, pagination.Compute("", ""))
	require.NoError(t, err)
	require.Len(t, res.Items, 3)
	assert.Equal(t, int64(3), res.Total)

	got := []string{res.Items[0].OriginalName, res.Items[1].OriginalName, res.Items[2].OriginalName}
	assert.Equal(t, []string{"b.png", "c.png", "a.png"}, got)
}

func TestGetDelete(t *testing.T) {
	db := setupTestDB(t)

	a := models.Asset{OriginalName: "doc.pdf", Mime: "application/pdf", Size: 3, RelativePath: "uploads/y", Kind: models.AssetKindFile}
	require.NoError(t, Create(db, &a))

	got, err := Get(db, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "doc.pdf", got.OriginalName)

	require.NoError(t, Delete(db, a.ID))
	require.ErrorIs(t, Delete(db, a.ID), ErrAssetNotFound)

	_, err = Get(db, a.ID)
	require.ErrorIs(t, err, ErrAssetNotFound)

	n, err := Count(db)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = Get(nil, 1)
	require.ErrorIs(t, err, ErrDBNil)
}
