package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Pagination is the envelope every listing endpoint returns.
type Pagination struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	HasNext bool  `json:"has_next"`
	HasPrev bool  `json:"has_prev"`
	NextNum *int  `json:"next_num"`
	PrevNum *int  `json:"prev_num"`
}

// NewPagination derives the full envelope from the requested page and the
// total row count.
func NewPagination(page, perPage int, total int64) Pagination {
	pages := int((total + int64(perPage) - 1) / int64(perPage))
	p := Pagination{
		Page:    page,
		PerPage: perPage,
		Total:   total,
		Pages:   pages,
		HasNext: page < pages,
		HasPrev: page > 1,
	}
	if p.HasNext {
		next := page + 1
		p.NextNum = &next
	}
	if p.HasPrev {
		prev := page - 1
		p.PrevNum = &prev
	}
	return p
}

// Offset returns the row offset for the current page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}

var (
	// ErrBadPage reports a page number below 1.
	ErrBadPage = errors.New("page must be 1 or greater")
	// ErrBadPerPage reports a page size below 1.
	ErrBadPerPage = errors.New("items per page must be 1 or greater")
)

// ParsePageParams reads page/per_page query parameters. Missing or
// non-numeric values fall back to defaults; values below 1 are rejected and
// per_page is clamped to maxPerPage.
func ParsePageParams(ctx *gin.Context, defaultPerPage, maxPerPage int) (int, int, error) {
	page := 1
	perPage := defaultPerPage
	if raw := ctx.Query("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			page = v
		}
	}
	if raw := ctx.Query("per_page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			perPage = v
		}
	}
	if page < 1 {
		return 0, 0, ErrBadPage
	}
	if perPage < 1 {
		return 0, 0, ErrBadPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage, nil
}
