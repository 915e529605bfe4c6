package daemon

import (
	"context"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/Zsh123456-BOOP/jnu-web/internal/db/controller/setting"
	"github.com/Zsh123456-BOOP/jnu-web/internal/db/models"
)

// StoredSettings returns every settings row ordered by key.
func StoredSettings(ctx context.Context, db *gorm.DB) ([]models.Setting, error) {
	rows, err := setting.GetAll(db.WithContext(ctx))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to list settings")
	}

	return rows, nil
}

// ResetSetting deletes the row of key. Settings domains with defaults are
// seeded again, so reads return the defaults afterwards. A missing key
// yields setting.ErrSettingNotFound.
func ResetSetting(ctx context.Context, db *gorm.DB, key string) error {
	if err := setting.Delete(db.WithContext(ctx), key); err != nil {
		return pkgerrors.Wrapf(err, "failed to delete setting %s", key)
	}

	for _, d := range defaultSettings() {
		if d.key != key {
			continue
		}

		if err := seedSetting(ctx, db, d.key, d.value); err != nil {
			return err
		}
	}

	return nil
}
