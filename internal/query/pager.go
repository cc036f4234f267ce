package query

import (
	"strconv"
	"strings"
)

const (
	// MaxLimit caps the page size a caller may request.
	MaxLimit = 100
	// MaxPage keeps Skip far from int overflow; later pages are simply empty.
	MaxPage = 1_000_000
)

// Page is a 1-based pagination window.
type Page struct {
	Number int
	Limit  int
}

// ParsePage reads "page" and "limit". Missing or invalid values fall back to
// page 1 and defaultLimit; page is capped at MaxPage and limit at MaxLimit.
func ParsePage(params map[string]string, defaultLimit int) Page {
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	p := Page{Number: 1, Limit: defaultLimit}
	if n, err := strconv.Atoi(strings.TrimSpace(params["page"])); err == nil && n > 0 {
		p.Number = n
	}
	if n, err := strconv.Atoi(strings.TrimSpace(params["limit"])); err == nil && n > 0 {
		p.Limit = n
	}
	if p.Number > MaxPage {
		p.Number = MaxPage
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

func (p Page) Skip() int {
	return (p.Number - 1) * p.Limit
}

// Pagination is the envelope returned next to every paginated data array.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

func NewPagination(p Page, total int) Pagination {
	return Pagination{
		Page:  p.Number,
		Limit: p.Limit,
		Total: total,
		Pages: TotalPages(total, p.Limit),
	}
}

// TotalPages is ceil(total/limit), and 0 when there is nothing to page.
func TotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
