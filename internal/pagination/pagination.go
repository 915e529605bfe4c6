// Package pagination turns untrusted page parameters into bounded
// limit/offset values and wraps listing results in a uniform envelope.
package pagination

import (
	"math"
	"strings"

	"gorm.io/gorm"

	"github.com/Zsh123456-BOOP/jnu-web/internal/jsonutil"
)

const (
	// DefaultPageSize is used when pageSize is missing or invalid.
	DefaultPageSize = 20
	// MaxPageSize is the default upper bound for pageSize.
	MaxPageSize = 100
	// AdminMaxPageSize is the bound used by admin module and member listings.
	AdminMaxPageSize = 200
)

// Pagination is the effective page window of a listing.
type Pagination struct {
	Page     int
	PageSize int
	Offset   int
}

type options struct {
	defaultPageSize int
	maxPageSize     int
}

// Option customizes Compute.
type Option func(*options)

// WithDefaultPageSize overrides DefaultPageSize.
func WithDefaultPageSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.defaultPageSize = size
		}
	}
}

// WithMaxPageSize overrides MaxPageSize.
func WithMaxPageSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.maxPageSize = size
		}
	}
}

// Compute derives the page window from raw query values. It never fails:
// an invalid or non positive page becomes 1, an invalid or non positive
// page size becomes the default and the page size is clamped to the max.
// The page is capped so the offset never overflows.
func Compute(rawPage, rawPageSize string, opts ...Option) Pagination {
	o := options{defaultPageSize: DefaultPageSize, maxPageSize: MaxPageSize}
	for _, opt := range opts {
		opt(&o)
	}

	page, ok := jsonutil.ParseInt(rawPage)
	if !ok || page < 1 {
		page = 1
	}

	pageSize, ok := jsonutil.ParseInt(rawPageSize)
	if !ok || pageSize < 1 {
		pageSize = o.defaultPageSize
	}

	pageSize = min(pageSize, o.maxPageSize)

	// Past this page the offset no longer fits in an int.
	page = min(page, math.MaxInt/pageSize+1)

	return Pagination{
		Page:     page,
		PageSize: pageSize,
		Offset:   (page - 1) * pageSize,
	}
}

// Scope applies the window to a gorm query.
func (p Pagination) Scope(db *gorm.DB) *gorm.DB {
	return db.Limit(p.PageSize).Offset(p.Offset)
}

var likeEscaper = strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)

// LikePattern returns a %keyword% pattern with LIKE wildcards escaped by '!'.
func LikePattern(keyword string) string {
	return "%" + likeEscaper.Replace(keyword) + "%"
}

// Keyword returns a scope matching keyword as a case-insensitive substring of
// any of columns. An empty keyword leaves the query untouched.
func Keyword(keyword string, columns ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" || len(columns) == 0 {
			return db
		}

		var (
			clauses = make([]string, 0, len(columns))
			args    = make([]any, 0, len(columns))
			pattern = LikePattern(keyword)
		)

		for _, c := range columns {
			clauses = append(clauses, "LOWER("+c+") LIKE LOWER(?) ESCAPE '!'")
			args = append(args, pattern)
		}

		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}
