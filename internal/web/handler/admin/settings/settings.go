// Package settings provides the admin endpoints of the free-form site blob
// and of the composite site settings.
package settings

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/Zsh123456-BOOP/jnu-web/internal/apperr"
	"github.com/Zsh123456-BOOP/jnu-web/internal/jsonutil"
	"github.com/Zsh123456-BOOP/jnu-web/internal/sitesettings"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/handler"
	mwauth "github.com/Zsh123456-BOOP/jnu-web/internal/web/middleware/auth"
)

const (
	// SitePath is the free-form site blob.
	SitePath = handler.AdminPath + "/settings/site"

	// SiteSettingsPath is the composite footer, meta and home text view.
	SiteSettingsPath = handler.AdminPath + "/site-settings"

	// ValueRequiredMessage is returned when the site blob update has no
	// value.
	ValueRequiredMessage = "value is required"
)

// ErrSettingsNotConfigured is returned by Init without a settings service.
var ErrSettingsNotConfigured = errors.New("site settings service is not configured")

// SiteValue is the document of the site blob endpoints.
type SiteValue struct {
	Key   string         `json:"key"`
	Value jsonutil.Value `json:"value"`
}

// Service serves the settings endpoints.
type Service struct {
	deps *handler.Deps
}

var _ handler.Service = (*Service)(nil)

// Init registers routes.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || deps.Check() != nil {
		return handler.ErrNilDeps
	}

	if deps.Settings == nil {
		return ErrSettingsNotConfigured
	}

	s.deps = deps

	requireAdmin := mwauth.RequireAdmin(deps.Sessions)

	router.Get(SitePath, requireAdmin, s.GetSite)
	router.Put(SitePath, requireAdmin, s.PutSite)
	router.Get(SiteSettingsPath, requireAdmin, s.GetSiteSettings)
	router.Put(SiteSettingsPath, requireAdmin, s.PutSiteSettings)

	return nil
}

// GetSite returns the site blob, {} when unset.
func (s *Service) GetSite(c *fiber.Ctx) error {
	value, err := s.deps.Settings.Site(c.UserContext())
	if err != nil {
		return err
	}

	return handler.OK(c, SiteValue{Key: sitesettings.SiteKey, Value: value})
}

// PutSite replaces the site blob with value, or value_json when value is
// absent or null. The result must be a JSON object.
func (s *Service) PutSite(c *fiber.Ctx) error {
	body, err := handler.Body(c)
	if err != nil {
		return err
	}

	raw := body.Get("value")
	if raw.IsNull() {
		raw = body.Get("value_json")
	}

	if raw.IsUndefined() {
		return apperr.Validation(ValueRequiredMessage)
	}

	value, err := s.deps.Settings.ReplaceSite(c.UserContext(), raw)
	if err != nil {
		return err
	}

	log.Info().Msg("site settings replaced")

	return handler.OK(c, SiteValue{Key: sitesettings.SiteKey, Value: value})
}

// GetSiteSettings returns meta, footer and home_text merged over their
// defaults.
func (s *Service) GetSiteSettings(c *fiber.Ctx) error {
	out, err := s.deps.Settings.Admin(c.UserContext())
	if err != nil {
		return err
	}

	return handler.OK(c, out)
}

// PutSiteSettings patches the domains present in the body and returns the
// full composite.
func (s *Service) PutSiteSettings(c *fiber.Ctx) error {
	body, err := handler.Body(c)
	if err != nil {
		return err
	}

	out, err := s.deps.Settings.UpdateAdmin(c.UserContext(), sitesettings.PatchFromBody(body))
	if err != nil {
		return err
	}

	log.Info().Msg("composite site settings updated")

	return handler.OK(c, out)
}
