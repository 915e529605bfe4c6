// Package content provides the admin CRUD of module contents.
package content

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"

	"github.com/Zsh123456-BOOP/jnu-web/internal/apperr"
	contentctl "github.com/Zsh123456-BOOP/jnu-web/internal/db/controller/content"
	"github.com/Zsh123456-BOOP/jnu-web/internal/db/models"
	"github.com/Zsh123456-BOOP/jnu-web/internal/jsonutil"
	"github.com/Zsh123456-BOOP/jnu-web/internal/pagination"
	"github.com/Zsh123456-BOOP/jnu-web/internal/richtext"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/handler"
	mwauth "github.com/Zsh123456-BOOP/jnu-web/internal/web/middleware/auth"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/validate"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/view"
)

const (
	// Path is the base path for content management.
	Path = handler.AdminPath + "/contents"

	// NotFoundMessage is returned for unknown content IDs.
	NotFoundMessage = "Content not found"
)

// Request is the create and update body of a content.
type Request struct {
	ModuleID      jsonutil.Value `json:"module_id"      validate:"required,intmin=1"`
	Title         jsonutil.Value `json:"title"          validate:"required,text,notblank,max=255"`
	Slug          jsonutil.Value `json:"slug"           validate:"required,text,notblank,max=255"`
	Status        jsonutil.Value `json:"status"         validate:"omitempty,text,oneof=draft published"`
	ContentFormat jsonutil.Value `json:"content_format" validate:"required,text,oneof=markdown richtext"`
	ContentMD     jsonutil.Value `json:"content_md"     validate:"omitempty,text"`
	ContentHTML   jsonutil.Value `json:"content_html"   validate:"omitempty,text"`
	Summary       jsonutil.Value `json:"summary"        validate:"omitempty,text"`
	CoverAssetID  jsonutil.Value `json:"cover_asset_id" validate:"omitempty,intmin=1"`
	Year          jsonutil.Value `json:"year"           validate:"omitempty,intmin=0"`
	TagsJSON      jsonutil.Value `json:"tags_json"      validate:"omitempty,jsonlike"`
	AuthorsJSON   jsonutil.Value `json:"authors_json"   validate:"omitempty,jsonlike"`
	MetaJSON      jsonutil.Value `json:"meta_json"      validate:"omitempty,jsonlike"`
	PublishedAt   jsonutil.Value `json:"published_at"   validate:"omitempty,iso8601"`
}

// Model converts a validated request into a row. The body matching
// content_format must be non-empty; rich text is sanitized. A published
// content without published_at is stamped with now.
func (r Request) Model(now time.Time) (*models.Content, error) {
	c := &models.Content{
		ModuleID:      uint64(jsonutil.ToInt(r.ModuleID, 0)),
		Title:         handler.Text(r.Title),
		Slug:          handler.Text(r.Slug),
		Status:        models.ContentStatus(handler.Text(r.Status)),
		ContentFormat: models.ContentFormat(handler.Text(r.ContentFormat)),
		Summary:       nonEmpty(r.Summary),
		CoverAssetID:  handler.OptionalID(r.CoverAssetID),
	}

	if c.Status == "" {
		c.Status = models.ContentStatusDraft
	}

	switch c.ContentFormat {
	case models.ContentFormatMarkdown:
		c.ContentMD = nonEmpty(r.ContentMD)
		if c.ContentMD == nil {
			return nil, apperr.Validation("content_md is required for markdown")
		}
	case models.ContentFormatRichText:
		html := nonEmpty(r.ContentHTML)
		if html == nil {
			return nil, apperr.Validation("content_html is required for richtext")
		}

		sanitized := richtext.Sanitize(*html)
		c.ContentHTML = &sanitized
	}

	if year := jsonutil.ToInt(r.Year, 0); year > 0 {
		c.Year = &year
	}

	var err error

	if c.TagsJSON, err = jsonColumn(r.TagsJSON, "tags_json"); err != nil {
		return nil, err
	}

	if c.AuthorsJSON, err = jsonColumn(r.AuthorsJSON, "authors_json"); err != nil {
		return nil, err
	}

	if c.MetaJSON, err = jsonColumn(r.MetaJSON, "meta_json"); err != nil {
		return nil, err
	}

	if s := handler.Text(r.PublishedAt); s != "" {
		t, ok := validate.ParseTime(s)
		if !ok {
			return nil, apperr.Validation("published_at is invalid")
		}

		c.PublishedAt = &t
	} else if c.Status == models.ContentStatusPublished {
		c.PublishedAt = &now
	}

	return c, nil
}

func jsonColumn(v jsonutil.Value, field string) (datatypes.JSON, error) {
	parsed, err := jsonutil.EnsureObjectOrArray(v, field)
	if err != nil {
		return nil, err
	}

	return handler.Column(parsed)
}

func nonEmpty(v jsonutil.Value) *string {
	s, ok := v.Str()
	if !ok || s == "" {
		return nil
	}

	return &s
}

// ListQuery holds the filters of the admin listing.
type ListQuery struct {
	ModuleID   string `json:"moduleId"   validate:"omitempty,intmin=1"`
	ModuleSlug string `json:"moduleSlug"`
	Status     string `json:"status"     validate:"omitempty,oneof=draft published"`
	Year       string `json:"year"       validate:"omitempty,intmin=0"`
	Keyword    string `json:"keyword"`
}

// Filter converts a validated query into a controller filter.
func (q ListQuery) Filter() contentctl.Filter {
	f := contentctl.Filter{
		ModuleSlug: strings.TrimSpace(q.ModuleSlug),
		Status:     models.ContentStatus(q.Status),
		Keyword:    q.Keyword,
	}

	if id, ok := validate.StrictInt(q.ModuleID, false); ok {
		f.ModuleID = uint64(id)
	}

	if year, ok := validate.StrictInt(q.Year, false); ok {
		y := int(year)
		f.Year = &y
	}

	return f
}

// Service provides CRUD operations for contents.
type Service struct {
	deps *handler.Deps
	now  func() time.Time
}

var _ handler.Service = (*Service)(nil)

// Init registers routes.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || deps.Check() != nil {
		return handler.ErrNilDeps
	}

	s.deps = deps
	if s.now == nil {
		s.now = time.Now
	}

	requireAdmin := mwauth.RequireAdmin(deps.Sessions)

	router.Get(Path, requireAdmin, s.List)
	router.Post(Path, requireAdmin, s.Create)
	router.Get(Path+"/:id", requireAdmin, s.Get)
	router.Put(Path+"/:id", requireAdmin, s.Update)
	router.Delete(Path+"/:id", requireAdmin, s.Delete)

	return nil
}

// List returns one page of contents, last edited first.
func (s *Service) List(c *fiber.Ctx) error {
	q := ListQuery{
		ModuleID:   c.Query("moduleId"),
		ModuleSlug: c.Query("moduleSlug"),
		Status:     c.Query("status"),
		Year:       c.Query("year"),
		Keyword:    c.Query("keyword"),
	}

	if err := s.deps.Validate.Query(q); err != nil {
		return err
	}

	p := pagination.Compute(c.Query("page"), c.Query("pageSize"))

	res, err := contentctl.List(s.deps.DB.WithContext(c.UserContext()), p, q.Filter())
	if err != nil {
		return err
	}

	return handler.OK(c, pagination.Map(res, view.NewContent))
}

// Get returns one content regardless of its status.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return err
	}

	row, err := contentctl.Get(s.deps.DB.WithContext(c.UserContext()), id)
	if err != nil {
		return handler.NotFound(err, contentctl.ErrContentNotFound, NotFoundMessage)
	}

	return handler.OK(c, view.NewContent(*row))
}

func (s *Service) parse(c *fiber.Ctx) (*models.Content, error) {
	var req Request

	if err := handler.BindJSON(c, &req); err != nil {
		return nil, err
	}

	if err := s.deps.Validate.Body(req); err != nil {
		return nil, err
	}

	return req.Model(s.now())
}

// Create inserts a content.
func (s *Service) Create(c *fiber.Ctx) error {
	row, err := s.parse(c)
	if err != nil {
		return err
	}

	created, err := contentctl.Create(s.deps.DB.WithContext(c.UserContext()), row)
	if err != nil {
		return err
	}

	log.Info().Uint64("content_id", created.ID).Str("status", string(created.Status)).Msg("content created")

	return handler.OK(c, view.NewContent(*created))
}

// Update replaces a content.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return err
	}

	row, err := s.parse(c)
	if err != nil {
		return err
	}

	updated, err := contentctl.Update(s.deps.DB.WithContext(c.UserContext()), id, row)
	if err != nil {
		return handler.NotFound(err, contentctl.ErrContentNotFound, NotFoundMessage)
	}

	return handler.OK(c, view.NewContent(*updated))
}

// Delete removes a content.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return err
	}

	if err := contentctl.Delete(s.deps.DB.WithContext(c.UserContext()), id); err != nil {
		return handler.NotFound(err, contentctl.ErrContentNotFound, NotFoundMessage)
	}

	log.Info().Uint64("content_id", id).Msg("content deleted")

	return handler.Done(c)
}
