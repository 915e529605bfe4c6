// Package view shapes database rows into the JSON documents the API
// returns. JSON columns are decoded with jsonutil.ParseStored so a broken
// column never fails a request.
package view

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"

	"github.com/Zsh123456-BOOP/jnu-web/internal/db/models"
	"github.com/Zsh123456-BOOP/jnu-web/internal/jsonutil"
	"github.com/Zsh123456-BOOP/jnu-web/internal/richtext"
)

// URLFunc maps a storage relative path to a public URL.
type URLFunc func(rel string) string

// Module is a module with its config decoded.
type Module struct {
	models.Module
	ConfigJSON jsonutil.Value `json:"config_json"`
}

// NewModule decodes config_json, {} when unusable.
func NewModule(m models.Module) Module {
	return Module{
		Module:     m,
		ConfigJSON: decode(m.ConfigJSON, jsonutil.EmptyObject()),
	}
}

// Modules maps NewModule over ms.
func Modules(ms []models.Module) []Module {
	out := make([]Module, 0, len(ms))
	for _, m := range ms {
		out = append(out, NewModule(m))
	}

	return out
}

// Content is a content entry with its JSON columns decoded and the slug and
// name of its module.
type Content struct {
	models.Content
	TagsJSON    jsonutil.Value `json:"tags_json"`
	AuthorsJSON jsonutil.Value `json:"authors_json"`
	MetaJSON    jsonutil.Value `json:"meta_json"`
	ModuleSlug  string         `json:"module_slug"`
	ModuleName  string         `json:"module_name"`
}

// NewContent decodes tags and authors ([] when unusable) and meta ({}).
func NewContent(c models.Content) Content {
	out := Content{
		Content:     c,
		TagsJSON:    decode(c.TagsJSON, jsonutil.ArrayOf()),
		AuthorsJSON: decode(c.AuthorsJSON, jsonutil.ArrayOf()),
		MetaJSON:    decode(c.MetaJSON, jsonutil.EmptyObject()),
	}

	if c.Module != nil {
		out.ModuleSlug = c.Module.Slug
		out.ModuleName = c.Module.Name
	}

	return out
}

// RenderedContent is a published content with its body as HTML.
type RenderedContent struct {
	Content
	ContentRendered string `json:"content_rendered"`
}

// NewRenderedContent renders markdown bodies; richtext bodies are already
// sanitized HTML.
func NewRenderedContent(c models.Content) RenderedContent {
	return RenderedContent{
		Content:         NewContent(c),
		ContentRendered: render(c.ContentFormat, c.ContentMD, c.ContentHTML),
	}
}

// Asset is an uploaded file with its public URL.
type Asset struct {
	models.Asset
	URL       string `json:"url"`
	SizeHuman string `json:"size_human"`
}

// NewAsset builds the asset document.
func NewAsset(a models.Asset, url URLFunc) Asset {
	size := a.Size
	if size < 0 {
		size = 0
	}

	return Asset{
		Asset:     a,
		URL:       url(a.RelativePath),
		SizeHuman: humanize.Bytes(uint64(size)),
	}
}

// Image is the member portrait reference.
type Image struct {
	ID           uint64  `json:"id"`
	URL          string  `json:"url"`
	Mime         *string `json:"mime"`
	OriginalName *string `json:"original_name"`
}

// Member is the admin view of a team member.
type Member struct {
	ID                uint64            `json:"id"`
	Name              string            `json:"name"`
	Position          *string           `json:"position"`
	Type              models.MemberType `json:"type"`
	IsPI              int               `json:"is_pi"`
	ResearchInterests *string           `json:"research_interests"`
	Hobbies           *string           `json:"hobbies"`
	Email             *string           `json:"email"`
	ImageAssetID      *uint64           `json:"image_asset_id"`
	SortOrder         int               `json:"sort_order"`
	Enabled           int               `json:"enabled"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	Image             *Image            `json:"image"`
}

// NewMember builds the member document. image is null unless the image
// asset is loaded and has a path.
func NewMember(m models.Member, url URLFunc) Member {
	out := Member{
		ID:                m.ID,
		Name:              m.Name,
		Position:          m.Position,
		Type:              m.Type,
		IsPI:              m.IsPI,
		ResearchInterests: m.ResearchInterests,
		Hobbies:           m.Hobbies,
		Email:             m.Email,
		ImageAssetID:      m.ImageAssetID,
		SortOrder:         m.SortOrder,
		Enabled:           m.Enabled,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}

	if img := m.Image; img != nil && img.RelativePath != "" {
		out.Image = &Image{
			ID:           img.ID,
			URL:          url(img.RelativePath),
			Mime:         nonEmpty(img.Mime),
			OriginalName: nonEmpty(img.OriginalName),
		}
	}

	return out
}

// PIInfoSummary is the PI biography embedded in public member listings.
type PIInfoSummary struct {
	ContentMD     *string              `json:"content_md"`
	ContentHTML   *string              `json:"content_html"`
	ContentFormat models.ContentFormat `json:"content_format"`
}

// PublicMember is a member as listed on the public team page.
type PublicMember struct {
	Member
	PIInfo *PIInfoSummary `json:"pi_info"`
}

// NewPublicMember embeds the PI info when it is loaded.
func NewPublicMember(m models.Member, url URLFunc) PublicMember {
	out := PublicMember{Member: NewMember(m, url)}

	if info := m.PIInfo; info != nil {
		out.PIInfo = &PIInfoSummary{
			ContentMD:     info.ContentMD,
			ContentHTML:   info.ContentHTML,
			ContentFormat: info.ContentFormat,
		}
	}

	return out
}

// PIInfo is the public PI biography with its body as HTML.
type PIInfo struct {
	models.MemberPIInfo
	ContentRendered string `json:"content_rendered"`
}

// NewPIInfo renders the biography.
func NewPIInfo(info models.MemberPIInfo) PIInfo {
	return PIInfo{
		MemberPIInfo:    info,
		ContentRendered: render(info.ContentFormat, info.ContentMD, info.ContentHTML),
	}
}

func decode(raw []byte, fallback jsonutil.Value) jsonutil.Value {
	return jsonutil.ParseStored(jsonutil.FromColumn(raw), fallback)
}

func render(format models.ContentFormat, md, html *string) string {
	if format == models.ContentFormatRichText {
		if html == nil {
			return ""
		}

		return *html
	}

	if md == nil {
		return ""
	}

	out, err := richtext.Render(*md)
	if err != nil {
		log.Error().Err(err).Msg("failed to render markdown")
		return ""
	}

	return out
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
