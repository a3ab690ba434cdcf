// Package pagination validates page requests against a live row count.
//
// Every paginated listing goes through New so that words, groups and study
// sessions share the same off-by-one behaviour:
//
//	page, err := pagination.Parse(c.Query("page"))
//	p, err := pagination.New(page, total, perPage)
//	query.Offset(p.Offset()).Limit(p.Limit())
package pagination

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mrlokans/langportal/internal/apperr"
)

const ErrCode = "Invalid page number"

type Page struct {
	Number     int
	PerPage    int
	TotalPages int
	Total      int64
}

// Parse converts the raw page query parameter. An absent parameter means page 1.
func Parse(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validation(ErrCode, "Page number must be an integer")
	}
	return page, nil
}

// TotalPages is ceil(total/perPage) with a floor of one page, so an empty
// collection still has a valid first page.
func TotalPages(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 1
	}
	pages := (total + int64(perPage) - 1) / int64(perPage)
	return int(pages)
}

// New validates page against total. perPage must be positive.
func New(page int, total int64, perPage int) (Page, error) {
	if perPage <= 0 {
		return Page{}, fmt.Errorf("pagination: invalid page size %d", perPage)
	}
	if page < 1 {
		return Page{}, apperr.Validation(ErrCode, "Page number must be greater than 0")
	}
	totalPages := TotalPages(total, perPage)
	if page > totalPages {
		return Page{}, apperr.Validation(ErrCode, fmt.Sprintf("Page number must not exceed %d", totalPages))
	}
	return Page{
		Number:     page,
		PerPage:    perPage,
		TotalPages: totalPages,
		Total:      total,
	}, nil
}

func (p Page) Offset() int { return (p.Number - 1) * p.PerPage }
func (p Page) Limit() int  { return p.PerPage }

// Result is one validated page of items.
type Result[T any] struct {
	Items []T
	Page  Page
}
