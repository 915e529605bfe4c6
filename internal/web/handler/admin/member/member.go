// Package member provides the admin CRUD of team members and their PI
// biography.
package member

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	memberctl "github.com/Zsh123456-BOOP/jnu-web/internal/db/controller/member"
	"github.com/Zsh123456-BOOP/jnu-web/internal/db/models"
	"github.com/Zsh123456-BOOP/jnu-web/internal/jsonutil"
	"github.com/Zsh123456-BOOP/jnu-web/internal/pagination"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/handler"
	mwauth "github.com/Zsh123456-BOOP/jnu-web/internal/web/middleware/auth"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/view"
)

const (
	// Path is the base path for member management.
	Path = handler.AdminPath + "/members"

	// NotFoundMessage is returned for unknown member IDs.
	NotFoundMessage = "Member not found"
)

// Request is the create and update body of a member.
type Request struct {
	Name              jsonutil.Value `json:"name"               validate:"required,text,notblank,max=100"`
	Position          jsonutil.Value `json:"position"           validate:"omitempty,text,max=100"`
	Type              jsonutil.Value `json:"type"               validate:"omitempty,text,oneof=in_service student alumni"`
	IsPI              jsonutil.Value `json:"is_pi"              validate:"omitempty,booleanlike"`
	ResearchInterests jsonutil.Value `json:"research_interests" validate:"omitempty,text,max=500"`
	Hobbies           jsonutil.Value `json:"hobbies"            validate:"omitempty,text,max=200"`
	Email             jsonutil.Value `json:"email"              validate:"omitempty,text,max=255"`
	ImageAssetID      jsonutil.Value `json:"image_asset_id"     validate:"omitempty,intmin=1"`
	SortOrder         jsonutil.Value `json:"sort_order"         validate:"omitempty,intmin=0"`
	Enabled           jsonutil.Value `json:"enabled"            validate:"omitempty,booleanlike"`
}

// Model converts a validated request into a row.
func (r Request) Model() *models.Member {
	typ := models.MemberType(handler.Text(r.Type))
	if typ == "" {
		typ = models.MemberTypeStudent
	}

	return &models.Member{
		Name:              handler.Text(r.Name),
		Position:          handler.OptionalText(r.Position),
		Type:              typ,
		IsPI:              jsonutil.ToTinyInt(r.IsPI, 0),
		ResearchInterests: handler.OptionalText(r.ResearchInterests),
		Hobbies:           handler.OptionalText(r.Hobbies),
		Email:             handler.OptionalText(r.Email),
		ImageAssetID:      handler.OptionalID(r.ImageAssetID),
		SortOrder:         jsonutil.ToInt(r.SortOrder, 0),
		Enabled:           jsonutil.ToTinyInt(r.Enabled, 1),
	}
}

// Service provides CRUD operations for members.
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
	router.Get(Path+"/:id/pi-info", requireAdmin, s.GetPIInfo)
	router.Put(Path+"/:id/pi-info", requireAdmin, s.UpdatePIInfo)

	return nil
}

// List returns one page of members. is_pi narrows the listing when given.
func (s *Service) List(c *fiber.Ctx) error {
	p := pagination.Compute(c.Query("page"), c.Query("pageSize"), pagination.WithMaxPageSize(pagination.AdminMaxPageSize))

	var f memberctl.Filter

	if raw := c.Query("is_pi"); raw != "" {
		isPI := jsonutil.TinyIntFromString(raw, 0)
		f.IsPI = &isPI
	}

	res, err := memberctl.List(s.deps.DB.WithContext(c.UserContext()), p, f)
	if err != nil {
		return err
	}

	url := s.deps.AssetURL(c)

	return handler.OK(c, pagination.Map(res, func(m models.Member) view.Member {
		return view.NewMember(m, url)
	}))
}

// Get returns one member.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return err
	}

	m, err := memberctl.Get(s.deps.DB.WithContext(c.UserContext()), id)
	if err != nil {
		return handler.NotFound(err, memberctl.ErrMemberNotFound, NotFoundMessage)
	}

	return handler.OK(c, view.NewMember(*m, s.deps.AssetURL(c)))
}

func (s *Service) parse(c *fiber.Ctx) (*models.Member, error) {
	var req Request

	if err := handler.BindJSON(c, &req); err != nil {
		return nil, err
	}

	if err := s.deps.Validate.Body(req); err != nil {
		return nil, err
	}

	return req.Model(), nil
}

// Create inserts a member.
func (s *Service) Create(c *fiber.Ctx) error {
	m, err := s.parse(c)
	if err != nil {
		return err
	}

	db := s.deps.DB.WithContext(c.UserContext())

	if err := memberctl.Create(db, m); err != nil {
		return err
	}

	created, err := memberctl.Get(db, m.ID)
	if err != nil {
		return err
	}

	log.Info().Uint64("member_id", m.ID).Msg("member created")

	return handler.OK(c, view.NewMember(*created, s.deps.AssetURL(c)))
}

// Update replaces a member.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return err
	}

	m, err := s.parse(c)
	if err != nil {
		return err
	}

	updated, err := memberctl.Update(s.deps.DB.WithContext(c.UserContext()), id, m)
	if err != nil {
		return handler.NotFound(err, memberctl.ErrMemberNotFound, NotFoundMessage)
	}

	return handler.OK(c, view.NewMember(*updated, s.deps.AssetURL(c)))
}

// Delete removes a member and its PI info.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return err
	}

	if err := memberctl.Delete(s.deps.DB.WithContext(c.UserContext()), id); err != nil {
		return handler.NotFound(err, memberctl.ErrMemberNotFound, NotFoundMessage)
	}

	log.Info().Uint64("member_id", id).Msg("member deleted")

	return handler.Done(c)
}
