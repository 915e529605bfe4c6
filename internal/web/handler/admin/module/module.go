// Package module provides the admin CRUD of site modules.
package module

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	modulectl "github.com/Zsh123456-BOOP/jnu-web/internal/db/controller/module"
	"github.com/Zsh123456-BOOP/jnu-web/internal/db/models"
	"github.com/Zsh123456-BOOP/jnu-web/internal/jsonutil"
	"github.com/Zsh123456-BOOP/jnu-web/internal/pagination"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/handler"
	mwauth "github.com/Zsh123456-BOOP/jnu-web/internal/web/middleware/auth"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/view"
)

const (
	// Path is the base path for module management.
	Path = handler.AdminPath + "/modules"

	// NotFoundMessage is returned for unknown module IDs.
	NotFoundMessage = "Module not found"
)

// Request is the create and update body of a module.
type Request struct {
	Name       jsonutil.Value `json:"name"        validate:"required,text,notblank,max=128"`
	Slug       jsonutil.Value `json:"slug"        validate:"required,text,notblank,max=128"`
	Type       jsonutil.Value `json:"type"        validate:"required,text,oneof=SinglePage ListDetail ExternalLink LandingGrid Contact"`
	Enabled    jsonutil.Value `json:"enabled"     validate:"omitempty,booleanlike"`
	NavVisible jsonutil.Value `json:"nav_visible" validate:"omitempty,booleanlike"`
	SortOrder  jsonutil.Value `json:"sort_order"  validate:"omitempty,intmin=0"`
	ConfigJSON jsonutil.Value `json:"config_json" validate:"omitempty,jsonlike"`
}

// Model converts a validated request into a row.
func (r Request) Model() (*models.Module, error) {
	config, err := jsonutil.EnsureObjectOrArray(r.ConfigJSON, "config_json")
	if err != nil {
		return nil, err
	}

	column, err := handler.Column(config)
	if err != nil {
		return nil, err
	}

	typ, _ := r.Type.Str()

	return &models.Module{
		Name:       handler.Text(r.Name),
		Slug:       handler.Text(r.Slug),
		Type:       models.ModuleType(typ),
		Enabled:    jsonutil.ToTinyInt(r.Enabled, 1),
		NavVisible: jsonutil.ToTinyInt(r.NavVisible, 1),
		SortOrder:  jsonutil.ToInt(r.SortOrder, models.DefaultModuleSortOrder),
		ConfigJSON: column,
	}, nil
}

// Service provides CRUD operations for modules.
type Service struct {
	deps *handler.Deps
}

var _ handler.Service = (*Service)(nil)

// Init registers routes.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || deps.Check() != nil {
		return handler.ErrNilDeps
	}

	s.deps = deps

	requireAdmin := mwauth.RequireAdmin(deps.Sessions)

	router.Get(Path, requireAdmin, s.List)
	router.Post(Path, requireAdmin, s.Create)
	router.Get(Path+"/:id", requireAdmin, s.Get)
	router.Put(Path+"/:id", requireAdmin, s.Update)
	router.Delete(Path+"/:id", requireAdmin, s.Delete)

	return nil
}

// List returns one page of modules ordered by sort_order.
func (s *Service) List(c *fiber.Ctx) error {
	p := pagination.Compute(c.Query("page"), c.Query("pageSize"), pagination.WithMaxPageSize(pagination.AdminMaxPageSize))

	res, err := modulectl.List(s.deps.DB.WithContext(c.UserContext()), p)
	if err != nil {
		return err
	}

	return handler.OK(c, pagination.Map(res, view.NewModule))
}

// Get returns one module.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return err
	}

	m, err := modulectl.Get(s.deps.DB.WithContext(c.UserContext()), id)
	if err != nil {
		return handler.NotFound(err, modulectl.ErrModuleNotFound, NotFoundMessage)
	}

	return handler.OK(c, view.NewModule(*m))
}

func (s *Service) parse(c *fiber.Ctx) (*models.Module, error) {
	var req Request

	if err := handler.BindJSON(c, &req); err != nil {
		return nil, err
	}

	if err := s.deps.Validate.Body(req); err != nil {
		return nil, err
	}

	return req.Model()
}

// Create inserts a module.
func (s *Service) Create(c *fiber.Ctx) error {
	m, err := s.parse(c)
	if err != nil {
		return err
	}

	if err := modulectl.Create(s.deps.DB.WithContext(c.UserContext()), m); err != nil {
		return err
	}

	created, err := modulectl.Get(s.deps.DB.WithContext(c.UserContext()), m.ID)
	if err != nil {
		return err
	}

	log.Info().Uint64("module_id", m.ID).Str("slug", m.Slug).Msg("module created")

	return handler.OK(c, view.NewModule(*created))
}

// Update replaces a module.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return err
	}

	m, err := s.parse(c)
	if err != nil {
		return err
	}

	updated, err := modulectl.Update(s.deps.DB.WithContext(c.UserContext()), id, m)
	if err != nil {
		return handler.NotFound(err, modulectl.ErrModuleNotFound, NotFoundMessage)
	}

	return handler.OK(c, view.NewModule(*updated))
}

// Delete removes a module.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return err
	}

	if err := modulectl.Delete(s.deps.DB.WithContext(c.UserContext()), id); err != nil {
		return handler.NotFound(err, modulectl.ErrModuleNotFound, NotFoundMessage)
	}

	log.Info().Uint64("module_id", id).Msg("module deleted")

	return handler.Done(c)
}
