// Package pagination splits ordered queries into numbered pages.
package pagination

import (
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// Page is one page of a paginated query
type Page[T any] struct {
	Items        []T   `json:"items"`
	Number       int   `json:"number"`
	NumPages     int   `json:"num_pages"`
	PerPage      int   `json:"per_page"`
	Total        int64 `json:"count"`
	HasNext      bool  `json:"has_next"`
	HasPrevious  bool  `json:"has_previous"`
	NextPage     int   `json:"next_page_number,omitempty"`
	PreviousPage int   `json:"previous_page_number,omitempty"`
	StartIndex   int   `json:"start_index"`
	EndIndex     int   `json:"end_index"`
}

// NumPages returns the page count for total rows. An empty result still
// has one page.
func NumPages(total int64, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 1
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

// Resolve maps a raw page parameter onto a valid page number. Anything that
// is not an integer gives 1; an integer out of range, below 1 or past the
// end, gives the last page.
func Resolve(raw string, numPages int) int {
	raw = strings.TrimSpace(raw)
	if raw == "last" {
		return numPages
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	if n < 1 || n > numPages {
		return numPages
	}
	return n
}

// Paginate counts query, resolves raw and loads the selected page in order.
// load scopes, e.g. preloads, apply to the page query only.
func Paginate[T any](query *gorm.DB, order string, raw string, perPage int, load ...func(*gorm.DB) *gorm.DB) (*Page[T], error) {
	if perPage <= 0 {
		return nil, fmt.Errorf("invalid page size %d", perPage)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count rows: %w", err)
	}

	numPages := NumPages(total, perPage)
	number := Resolve(raw, numPages)

	items := make([]T, 0, perPage)
	if total > 0 {
		err := query.Session(&gorm.Session{}).
			Scopes(load...).
			Order(order).
			Limit(perPage).
			Offset((number - 1) * perPage).
			Find(&items).Error
		if err != nil {
			return nil, fmt.Errorf("failed to load page %d: %w", number, err)
		}
	}

	return build(items, number, numPages, perPage, total), nil
}

func build[T any](items []T, number, numPages, perPage int, total int64) *Page[T] {
	p := &Page[T]{
		Items:       items,
		Number:      number,
		NumPages:    numPages,
		PerPage:     perPage,
		Total:       total,
		HasNext:     number < numPages,
		HasPrevious: number > 1,
	}
	if p.HasNext {
		p.NextPage = number + 1
	}
	if p.HasPrevious {
		p.PreviousPage = number - 1
	}
	if total > 0 {
		p.StartIndex = (number-1)*perPage + 1
		p.EndIndex = p.StartIndex + len(items) - 1
	}
	return p
}

// Map converts the items of p, keeping the page metadata
func Map[T, V any](p *Page[T], f func(T) V) *Page[V] {
	items := make([]V, len(p.Items))
	for i, item := range p.Items {
		items[i] = f(item)
	}
	return &Page[V]{
		Items:        items,
		Number:       p.Number,
		NumPages:     p.NumPages,
		PerPage:      p.PerPage,
		Total:        p.Total,
		HasNext:      p.HasNext,
		HasPrevious:  p.HasPrevious,
		NextPage:     p.NextPage,
		PreviousPage: p.PreviousPage,
		StartIndex:   p.StartIndex,
		EndIndex:     p.EndIndex,
	}
}
