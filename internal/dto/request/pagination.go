package request

import (
	"net/url"
	"strconv"

	"movie-review/pkg/utils"
)

const MaxPageSize = 100

type PageRequest struct {
	Page     int
	PageSize int
	// Invalid is set when the page parameter is not a positive integer.
	Invalid bool
}

// ParsePageRequest reads page and page_size from query. A bad page_size
// falls back to defaultSize.
func ParsePageRequest(query url.Values, defaultSize int) PageRequest {
	if defaultSize < 1 {
		defaultSize = 10
	}
	req := PageRequest{
		Page:     1,
		PageSize: min(utils.ParseInt(query.Get("page_size"), defaultSize), MaxPageSize),
	}

	if raw := query.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			req.Invalid = true
			return req
		}
		req.Page = page
	}

	return req
}

func (p PageRequest) Offset() int {
	return utils.CalculateOffset(p.Page, p.Limit())
}

func (p PageRequest) Limit() int {
	if p.PageSize < 1 {
		return 10
	}
	if p.PageSize > MaxPageSize {
		return MaxPageSize
	}
	return p.PageSize
}

// TotalPages counts an empty result as one page.
func (p PageRequest) TotalPages(total int64) int {
	return max(utils.CalculateTotalPages(total, p.Limit()), 1)
}
