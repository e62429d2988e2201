package pagination

import "strconv"

const (
	DefaultPerPage = 25
	MaxPerPage     = 100
)

type Params struct {
	Page    int
	PerPage int
}

type Meta struct {
	CurrentPage int  `json:"current_page"`
	PrevPage    *int `json:"prev_page"`
	NextPage    *int `json:"next_page"`
	TotalItems  int  `json:"total_items"`
	TotalPages  int  `json:"total_pages"`
}

// ParseParams normalizes raw query values: page defaults to 1, per_page
// defaults to 25 and is capped at 100 to prevent abuse.
func ParseParams(pageRaw, perPageRaw string) Params {
	page, err := strconv.Atoi(pageRaw)
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := strconv.Atoi(perPageRaw)
	if err != nil || perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return Params{Page: page, PerPage: perPage}
}

// Paginate slices an already-ordered sequence into the requested page. Pages
// past the end yield an empty slice, never an error.
func Paginate[T any](items []T, p Params) ([]T, Meta) {
	total := len(items)
	totalPages := (total + p.PerPage - 1) / p.PerPage
	if totalPages == 0 {
		totalPages = 1
	}

	meta := Meta{
		CurrentPage: p.Page,
		TotalItems:  total,
		TotalPages:  totalPages,
	}
	if p.Page > 1 {
		prev := p.Page - 1
		meta.PrevPage = &prev
	}
	if p.Page < totalPages {
		next := p.Page + 1
		meta.NextPage = &next
	}

	start := (p.Page - 1) * p.PerPage
	if start >= total {
		return []T{}, meta
	}
	end := start + p.PerPage
	if end > total {
		end = total
	}
	return items[start:end], meta
}
