// Package setting provides access to the key/value settings table.
//
// Each row holds one whole JSON blob. Writers replace the blob with Upsert,
// which is a single INSERT ... ON CONFLICT statement so concurrent writers
// to the same key never interleave a read-modify-write at the row level.
package setting

import (
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Zsh123456-BOOP/jnu-web/internal/db/models"
	"github.com/Zsh123456-BOOP/jnu-web/internal/jsonutil"
)

const keyColumn = "key"

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrSettingKeyEmpty is returned when the key is empty.
	ErrSettingKeyEmpty = errors.New("setting key cannot be empty")
	// ErrSettingAlreadyExists is returned by Create when the key is taken.
	ErrSettingAlreadyExists = errors.New("setting already exists")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

func byKey(key string) clause.Eq {
	return clause.Eq{Column: clause.Column{Name: keyColumn}, Value: key}
}

func check(db *gorm.DB, key string) error {
	if db == nil {
		return ErrDBNil
	}

	if key == "" {
		return ErrSettingKeyEmpty
	}

	return nil
}

// Get retrieves a setting by key.
func Get(db *gorm.DB, key string) (*models.Setting, error) {
	if err := check(db, key); err != nil {
		return nil, err
	}

	var setting models.Setting

	result := db.Where(byKey(key)).Take(&setting)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}

		return nil, result.Error
	}

	return &setting, nil
}

// GetAll retrieves all settings ordered by key.
func GetAll(db *gorm.DB) ([]models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var settings []models.Setting

	result := db.Order(clause.OrderByColumn{Column: clause.Column{Name: keyColumn}}).Find(&settings)
	if result.Error != nil {
		return nil, result.Error
	}

	return settings, nil
}

// Load returns the stored value of key decoded as JSON. A missing row
// yields an Undefined value and no error.
func Load(db *gorm.DB, key string) (jsonutil.Value, error) {
	s, err := Get(db, key)
	if errors.Is(err, ErrSettingNotFound) {
		return jsonutil.Value{}, nil
	}

	if err != nil {
		return jsonutil.Value{}, err
	}

	return jsonutil.FromColumn(s.ValueJSON), nil
}

// Create inserts a new setting and fails if the key already exists.
func Create(db *gorm.DB, key string, value []byte) (*models.Setting, error) {
	if err := check(db, key); err != nil {
		return nil, err
	}

	setting := &models.Setting{
		Key:       key,
		ValueJSON: datatypes.JSON(value),
	}

	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: keyColumn}},
		DoNothing: true,
	}).Create(setting)
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		return nil, ErrSettingAlreadyExists
	}

	return setting, nil
}

// Upsert inserts or replaces the whole value of key in one statement.
func Upsert(db *gorm.DB, key string, value []byte) (*models.Setting, error) {
	if err := check(db, key); err != nil {
		return nil, err
	}

	setting := &models.Setting{
		Key:       key,
		ValueJSON: datatypes.JSON(value),
	}

	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: keyColumn}},
		DoUpdates: clause.AssignmentColumns([]string{"value_json", "updated_at"}),
	}).Create(setting)
	if result.Error != nil {
		return nil, result.Error
	}

	return setting, nil
}

// Store encodes value and upserts it under key.
func Store(db *gorm.DB, key string, value jsonutil.Value) error {
	raw, err := value.MarshalJSON()
	if err != nil {
		return err
	}

	_, err = Upsert(db, key, raw)

	return err
}

// Delete removes a setting by key.
func Delete(db *gorm.DB, key string) error {
	if err := check(db, key); err != nil {
		return err
	}

	result := db.Where(byKey(key)).Delete(&models.Setting{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrSettingNotFound
	}

	return nil
}
