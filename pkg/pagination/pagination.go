package pagination

import (
	"math"
	"net/http"
	"strconv"
)

// Page size limits.
const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Params holds pagination parameters extracted from query strings.
type Params struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// DefaultParams returns the first page with the default size.
func DefaultParams() Params {
	return Params{Page: 1, PerPage: DefaultPerPage}
}

// FromRequest reads the page and per_page query parameters. Missing or
// invalid values fall back to the defaults.
func FromRequest(r *http.Request) Params {
	p := DefaultParams()
	q := r.URL.Query()

	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(q.Get("per_page")); err == nil && v > 0 && v <= MaxPerPage {
		p.PerPage = v
	}

	return p
}

// Offset returns the index of the first item on the page. Pages whose
// offset does not fit in an int report math.MaxInt.
func (p Params) Offset() int {
	if p.Page < 1 || p.PerPage < 1 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.PerPage {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PerPage
}

// Result is one page of items.
type Result[T any] struct {
	Items      []T  `json:"items"`
	TotalCount int  `json:"total_count"`
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// Slice returns the page of items selected by params. A page past the end
// is empty.
func Slice[T any](items []T, params Params) Result[T] {
	if params.PerPage < 1 {
		params.PerPage = DefaultPerPage
	}

	total := len(items)
	start := min(params.Offset(), total)
	end := start + min(params.PerPage, total-start)

	page := make([]T, end-start)
	copy(page, items[start:end])

	totalPages := total / params.PerPage
	if total%params.PerPage != 0 {
		totalPages++
	}

	return Result[T]{
		Items:      page,
		TotalCount: total,
		Page:       params.Page,
		PerPage:    params.PerPage,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1,
	}
}
