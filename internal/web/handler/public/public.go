// Package public serves the read-only API of the public site. Only
// enabled modules and members and published contents are visible.
package public

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	contentctl "github.com/Zsh123456-BOOP/jnu-web/internal/db/controller/content"
	memberctl "github.com/Zsh123456-BOOP/jnu-web/internal/db/controller/member"
	"github.com/Zsh123456-BOOP/jnu-web/internal/db/controller/memberpiinfo"
	modulectl "github.com/Zsh123456-BOOP/jnu-web/internal/db/controller/module"
	"github.com/Zsh123456-BOOP/jnu-web/internal/db/models"
	"github.com/Zsh123456-BOOP/jnu-web/internal/pagination"
	"github.com/Zsh123456-BOOP/jnu-web/internal/sitesettings"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/handler"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/view"
)

// Routes relative to the API group.
const (
	ModulesPath      = "/modules"
	ContentsPath     = "/contents"
	PagesPath        = "/pages"
	SitePath         = "/settings/site"
	SiteSettingsPath = "/public/site-settings"
	MembersPath      = "/members"
)

const (
	moduleNotFoundMessage  = "Module not found"
	contentNotFoundMessage = "Content not found"
)

// ErrSettingsNotConfigured is returned by Init without a settings service.
var ErrSettingsNotConfigured = errors.New("site settings service is not configured")

// SiteValue is the document of the site blob endpoint.
type SiteValue struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// Service serves the public API.
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

	router.Get(ModulesPath, s.ListModules)
	router.Get(ModulesPath+"/:slug", s.GetModule)
	router.Get(ContentsPath, s.ListContents)
	router.Get(ContentsPath+"/:id", s.GetContent)
	router.Get(PagesPath+"/:moduleSlug/:pageSlug", s.GetPage)
	router.Get(SitePath, s.GetSite)
	router.Get(SiteSettingsPath, s.GetSiteSettings)
	router.Get(MembersPath, s.ListMembers)
	router.Get(MembersPath+"/:id/pi-info", s.GetPIInfo)

	return nil
}

// ListModules returns the enabled modules; nav=1 keeps only those shown in
// the navigation.
func (s *Service) ListModules(c *fiber.Ctx) error {
	rows, err := modulectl.ListPublic(s.deps.DB.WithContext(c.UserContext()), c.Query("nav") == "1")
	if err != nil {
		return err
	}

	return handler.OK(c, view.Modules(rows))
}

// GetModule returns an enabled module by slug.
func (s *Service) GetModule(c *fiber.Ctx) error {
	row, err := modulectl.GetEnabledBySlug(s.deps.DB.WithContext(c.UserContext()), c.Params("slug"))
	if err != nil {
		return handler.NotFound(err, modulectl.ErrModuleNotFound, moduleNotFoundMessage)
	}

	return handler.OK(c, view.NewModule(*row))
}

// ListContents returns one page of published contents, newest first.
func (s *Service) ListContents(c *fiber.Ctx) error {
	year, err := handler.QueryInt(c, "year", 0)
	if err != nil {
		return err
	}

	f := contentctl.Filter{
		ModuleSlug: strings.TrimSpace(c.Query("moduleSlug")),
		Year:       year,
		Keyword:    c.Query("keyword"),
	}

	p := pagination.Compute(c.Query("page"), c.Query("pageSize"))

	res, err := contentctl.ListPublished(s.deps.DB.WithContext(c.UserContext()), p, f)
	if err != nil {
		return err
	}

	return handler.OK(c, pagination.Map(res, view.NewRenderedContent))
}

// GetContent returns a published content by ID.
func (s *Service) GetContent(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return err
	}

	row, err := contentctl.GetPublished(s.deps.DB.WithContext(c.UserContext()), id)
	if err != nil {
		return handler.NotFound(err, contentctl.ErrContentNotFound, contentNotFoundMessage)
	}

	return handler.OK(c, view.NewRenderedContent(*row))
}

// GetPage returns the published content pageSlug of module moduleSlug.
func (s *Service) GetPage(c *fiber.Ctx) error {
	row, err := contentctl.GetPage(s.deps.DB.WithContext(c.UserContext()), c.Params("moduleSlug"), c.Params("pageSlug"))
	if err != nil {
		return handler.NotFound(err, contentctl.ErrContentNotFound, contentNotFoundMessage)
	}

	return handler.OK(c, view.NewRenderedContent(*row))
}

// GetSite returns the free-form site blob.
func (s *Service) GetSite(c *fiber.Ctx) error {
	value, err := s.deps.Settings.Site(c.UserContext())
	if err != nil {
		return err
	}

	return handler.OK(c, SiteValue{Key: sitesettings.SiteKey, Value: value})
}

// GetSiteSettings returns the site meta fields and the footer.
func (s *Service) GetSiteSettings(c *fiber.Ctx) error {
	out, err := s.deps.Settings.Public(c.UserContext())
	if err != nil {
		return err
	}

	return handler.OK(c, out)
}

// ListMembers returns every enabled member with their image and PI info.
// is_pi accepts 1, 0, true and false; other values are ignored.
func (s *Service) ListMembers(c *fiber.Ctx) error {
	var f memberctl.Filter

	switch strings.ToLower(strings.TrimSpace(c.Query("is_pi"))) {
	case "1", "true":
		one := 1
		f.IsPI = &one
	case "0", "false":
		zero := 0
		f.IsPI = &zero
	}

	if typ := c.Query("type"); typ != "" {
		t := models.MemberType(typ)
		f.Type = &t
	}

	rows, err := memberctl.ListPublic(s.deps.DB.WithContext(c.UserContext()), f)
	if err != nil {
		return err
	}

	url := s.deps.AssetURL(c)
	out := make([]view.PublicMember, 0, len(rows))

	for _, m := range rows {
		out = append(out, view.NewPublicMember(m, url))
	}

	return handler.OK(c, out)
}

// GetPIInfo returns the PI biography of a member, null when none exists.
func (s *Service) GetPIInfo(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return err
	}

	info, err := memberpiinfo.Get(s.deps.DB.WithContext(c.UserContext()), id)
	if errors.Is(err, memberpiinfo.ErrPIInfoNotFound) {
		return handler.OK(c, nil)
	}

	if err != nil {
		return err
	}

	return handler.OK(c, view.NewPIInfo(*info))
}
