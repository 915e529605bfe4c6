package module

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
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

	require.NoError(t, db.AutoMigrate(&models.Module{}))

	return db
}

func seedModules(t *testing.T, db *gorm.DB) {
	t.Helper()

	modules := []models.Module{
		{Name: "Research", Slug: "research", Type: models.ModuleTypeListDetail, Enabled: 1, NavVisible: 1, SortOrder: 20},
		{Name: "About", Slug: "about", Type: models.ModuleTypeSinglePage, Enabled: 1, NavVisible: 1, SortOrder: 10},
		{Name: "Hidden", Slug: "hidden", Type: models.ModuleTypeSinglePage, Enabled: 1, NavVisible: 0, SortOrder: 10},
		{Name: "Old", Slug: "old", Type: models.ModuleTypeSinglePage, Enabled: 0, NavVisible: 1, SortOrder: 1},
	}

	for i := range modules {
		require.NoError(t, Create(db, &modules[i]))
	}
}

func slugs(modules []models.Module) []string {
	out := make([]string, 0, len(modules))
	for _, m := range modules {
		out = append(out, m.Slug)
	}

	return out
}

func TestList(t *testing.T) {
	db := setupTestDB(t)
	seedModules(t, db)

	res, err := List(db, pagination.Compute("1", "3"))
	require.NoError(t, err)

	assert.Equal(t, int64(4), res.Total)
	assert.Equal(t, []string{"old", "about", "hidden"}, slugs(res.Items))

	_, err = List(nil, pagination.Compute("", ""))
	require.ErrorIs(t, err, ErrDBNil)
}

func TestListPublic(t *testing.T) {
	db := setupTestDB(t)
	seedModules(t, db)

	all, err := ListPublic(db, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"about", "hidden", "research"}, slugs(all))

	nav, err := ListPublic(db, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"about", "research"}, slugs(nav))
}

func TestGetEnabledBySlug(t *testing.T) {
	db := setupTestDB(t)
	seedModules(t, db)

	m, err := GetEnabledBySlug(db, "about")
	require.NoError(t, err)
	assert.Equal(t, "About", m.Name)

	_, err = GetEnabledBySlug(db, "old")
	require.ErrorIs(t, err, ErrModuleNotFound)

	_, err = GetEnabledBySlug(db, "missing")
	require.ErrorIs(t, err, ErrModuleNotFound)
}

func TestUpdate(t *testing.T) {
	db := setupTestDB(t)
	seedModules(t, db)

	about, err := GetEnabledBySlug(db, "about")
	require.NoError(t, err)

	updated, err := Update(db, about.ID, &models.Module{
		Name:       "About us",
		Slug:       "about-us",
		Type:       models.ModuleTypeContact,
		Enabled:    0,
		NavVisible: 0,
		SortOrder:  0,
		ConfigJSON: datatypes.JSON(`{"k":1}`),
	})
	require.NoError(t, err)

	// zero values are written too
	assert.Equal(t, "about-us", updated.Slug)
	assert.Equal(t, 0, updated.Enabled)
	assert.Equal(t, 0, updated.SortOrder)
	assert.JSONEq(t, `{"k":1}`, string(updated.ConfigJSON))
	assert.Equal(t, about.CreatedAt.Unix(), updated.CreatedAt.Unix())

	_, err = Update(db, 999, &models.Module{Name: "x"})
	require.ErrorIs(t, err, ErrModuleNotFound)
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)
	seedModules(t, db)

	m, err := GetEnabledBySlug(db, "research")
	require.NoError(t, err)

	require.NoError(t, Delete(db, m.ID))
	require.ErrorIs(t, Delete(db, m.ID), ErrModuleNotFound)

	_, err = Get(db, m.ID)
	require.ErrorIs(t, err, ErrModuleNotFound)

	n, err := Count(db)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
