package pagination

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Result is the envelope returned by every paginated listing. Total counts
// the rows matching the filters before the window is applied.
type Result[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
}

// Find counts the rows of tx, then loads the page in the given order.
// tx must carry the model and all filters.
func Find[T any](tx *gorm.DB, p Pagination, order ...string) (Result[T], error) {
	return FindWith[T](tx, p, nil, order...)
}

// FindWith is Find with an extra scope applied to the page query only,
// e.g. a Preload that must not take part in the count.
func FindWith[T any](tx *gorm.DB, p Pagination, page func(*gorm.DB) *gorm.DB, order ...string) (Result[T], error) {
	var (
		total int64
		items = make([]T, 0, p.PageSize)
		base  = tx.Session(&gorm.Session{})
	)

	if err := base.Count(&total).Error; err != nil {
		return Result[T]{}, errors.Wrap(err, "count failed")
	}

	query := base.Scopes(p.Scope)
	if page != nil {
		query = query.Scopes(page)
	}

	for _, o := range order {
		query = query.Order(o)
	}

	if err := query.Find(&items).Error; err != nil {
		return Result[T]{}, errors.Wrap(err, "query failed")
	}

	return Result[T]{
		Items:    items,
		Total:    total,
		Page:     p.Page,
		PageSize: p.PageSize,
	}, nil
}

// Map converts the items of r while keeping the page metadata.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	out := Result[U]{
		Items:    make([]U, 0, len(r.Items)),
		Total:    r.Total,
		Page:     r.Page,
		PageSize: r.PageSize,
	}

	for _, item := range r.Items {
		out.Items = append(out.Items, fn(item))
	}

	return out
}
