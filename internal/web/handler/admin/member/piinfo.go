package member

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Zsh123456-BOOP/jnu-web/internal/apperr"
	memberctl "github.com/Zsh123456-BOOP/jnu-web/internal/db/controller/member"
	"github.com/Zsh123456-BOOP/jnu-web/internal/db/controller/memberpiinfo"
	"github.com/Zsh123456-BOOP/jnu-web/internal/db/models"
	"github.com/Zsh123456-BOOP/jnu-web/internal/jsonutil"
	"github.com/Zsh123456-BOOP/jnu-web/internal/richtext"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/handler"
)

// PIInfoRequest is the body of a PI biography update.
type PIInfoRequest struct {
	ContentFormat jsonutil.Value `json:"content_format" validate:"omitempty,text,oneof=markdown richtext"`
	ContentMD     jsonutil.Value `json:"content_md"     validate:"omitempty,text"`
	ContentHTML   jsonutil.Value `json:"content_html"   validate:"omitempty,text"`
}

// Model builds the row for member memberID. Only the body matching the
// format is kept; rich text is sanitized.
func (r PIInfoRequest) Model(memberID uint64) *models.MemberPIInfo {
	info := &models.MemberPIInfo{
		MemberID:      memberID,
		ContentFormat: models.ContentFormat(handler.Text(r.ContentFormat)),
	}

	if info.ContentFormat == "" {
		info.ContentFormat = models.ContentFormatMarkdown
	}

	switch info.ContentFormat {
	case models.ContentFormatMarkdown:
		md, _ := r.ContentMD.Str()
		info.ContentMD = &md
	case models.ContentFormatRichText:
		html, _ := r.ContentHTML.Str()
		html = richtext.Sanitize(html)
		info.ContentHTML = &html
	}

	return info
}

// GetPIInfo returns the biography of a member, null when there is none.
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

	return handler.OK(c, info)
}

// UpdatePIInfo creates or replaces the biography of a member.
func (s *Service) UpdatePIInfo(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return err
	}

	var req PIInfoRequest

	if err := handler.BindJSON(c, &req); err != nil {
		return err
	}

	if err := s.deps.Validate.Body(req); err != nil {
		return err
	}

	db := s.deps.DB.WithContext(c.UserContext())

	exists, err := memberctl.Exists(db, id)
	if err != nil {
		return err
	}

	if !exists {
		return apperr.NotFound(NotFoundMessage)
	}

	info, err := memberpiinfo.Upsert(db, req.Model(id))
	if err != nil {
		return err
	}

	return handler.OK(c, info)
}
