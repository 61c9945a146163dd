package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// Claim and audit listings page through whole semesters of rows; the cap
// keeps one request from dragging an entire period's claims into memory.
const (
	firstPage    = 1
	defaultLimit = 20
	maxLimit     = 100
)

// Params is a validated page/limit pair taken from the query string.
type Params struct {
	Page  int
	Limit int
}

// Offset is the row offset of the current page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Parse reads the page and limit query parameters, falling back to the
// defaults for anything missing, non-numeric or non-positive.
func Parse(c *gin.Context) Params {
	p := Params{Page: firstPage, Limit: defaultLimit}

	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		p.Page = page
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		p.Limit = limit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}

	return p
}
