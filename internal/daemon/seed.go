package daemon

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Zsh123456-BOOP/jnu-web/internal/auth"
	"github.com/Zsh123456-BOOP/jnu-web/internal/config"
	"github.com/Zsh123456-BOOP/jnu-web/internal/db/controller/setting"
	"github.com/Zsh123456-BOOP/jnu-web/internal/jsonutil"
	"github.com/Zsh123456-BOOP/jnu-web/internal/sitesettings"
	"github.com/Zsh123456-BOOP/jnu-web/internal/uniuri"
)

// Seed creates the admin account and the default settings domains when they
// are missing. It returns the generated admin password, empty unless an
// account was created without a configured password.
func Seed(ctx context.Context, cfg *config.Config, db *gorm.DB) (string, error) {
	generated, err := seedAdmin(ctx, cfg, db)
	if err != nil {
		return "", err
	}

	for _, d := range defaultSettings() {
		if err := seedSetting(ctx, db, d.key, d.value); err != nil {
			return "", err
		}
	}

	return generated, nil
}

type defaultSetting struct {
	key   string
	value jsonutil.Value
}

func defaultSettings() []defaultSetting {
	return []defaultSetting{
		{key: sitesettings.FooterKey, value: sitesettings.DefaultFooter()},
		{key: sitesettings.MetaKey, value: sitesettings.DefaultMeta()},
		{key: sitesettings.HomeTextKey, value: sitesettings.DefaultHomeText()},
	}
}

// seedSetting inserts value under key unless a row exists.
func seedSetting(ctx context.Context, db *gorm.DB, key string, value jsonutil.Value) error {
	raw, err := value.MarshalJSON()
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to encode setting %s", key)
	}

	_, err = setting.Create(db.WithContext(ctx), key, raw)
	if errors.Is(err, setting.ErrSettingAlreadyExists) {
		return nil
	}

	if err != nil {
		return pkgerrors.Wrapf(err, "failed to seed setting %s", key)
	}

	log.Info().Str("key", key).Msg("seeded default setting")

	return nil
}

func seedAdmin(ctx context.Context, cfg *config.Config, db *gorm.DB) (string, error) {
	username := cfg.Admin.Username
	if username == "" {
		username = config.DefaultAdminUsername
	}

	password, generated := cfg.Admin.Password, ""
	if password == "" {
		password = uniuri.New()
		generated = password
	}

	_, err := auth.NewLocalProvider(db).CreateUser(ctx, username, password)
	if errors.Is(err, auth.ErrUserExists) {
		return "", nil
	}

	if err != nil {
		return "", pkgerrors.Wrap(err, "failed to seed admin user")
	}

	if generated != "" {
		log.Warn().
			Str("username", username).
			Str("password", generated).
			Msg("created admin user with a generated password, change it after the first login")
	} else {
		log.Info().Str("username", username).Msg("created admin user")
	}

	return generated, nil
}
