package sitesettings

import "github.com/Zsh123456-BOOP/jnu-web/internal/jsonutil"

// Setting keys.
const (
	FooterKey   = "site.footer"
	MetaKey     = "site.meta"
	HomeTextKey = "site.home_text"
	SiteKey     = "site"
)

// HomeTextFields is the allow-list of home page text fields.
var HomeTextFields = []string{
	"badge_text",
	"hero_title_prefix",
	"hero_title_highlight",
	"hero_title_suffix",
	"hero_subtitle",
	"hero_primary_label",
	"hero_secondary_label",
	"hero_image_alt",
	"latest_title",
	"latest_loading",
	"latest_error",
	"latest_empty",
	"sidebar_title",
	"card_title_fallback",
}

// DefaultFooter returns the footer used when nothing is stored.
func DefaultFooter() jsonutil.Value {
	return jsonutil.MustFromAny(map[string]any{
		"contact": map[string]any{
			"address": "123 Research Road, City",
			"email":   "lab@example.com",
		},
		"links": []any{
			map[string]any{
				"title": "Quick Links",
				"items": []any{
					map[string]any{"label": "Home", "url": "/"},
					map[string]any{"label": "Research", "url": "/research"},
					map[string]any{"label": "Team", "url": "/people"},
				},
			},
		},
	})
}

// DefaultMeta returns the site meta used when nothing is stored.
func DefaultMeta() jsonutil.Value {
	return jsonutil.MustFromAny(map[string]any{
		"site_title":  "JNU Web",
		"favicon_url": "",
	})
}

// DefaultHomeText returns the home page texts used when nothing is stored.
func DefaultHomeText() jsonutil.Value {
	return jsonutil.MustFromAny(map[string]any{
		"badge_text":           "Research Lab",
		"hero_title_prefix":    "Exploring",
		"hero_title_highlight": "Frontier Science",
		"hero_title_suffix":    "Together",
		"hero_subtitle":        "We study hard problems and share what we learn.",
		"hero_primary_label":   "Our Research",
		"hero_secondary_label": "Meet the Team",
		"hero_image_alt":       "Lab overview",
		"latest_title":         "Latest Updates",
		"latest_loading":       "Loading...",
		"latest_error":         "Failed to load content.",
		"latest_empty":         "Nothing published yet.",
		"sidebar_title":        "Quick Links",
		"card_title_fallback":  "Untitled",
	})
}
