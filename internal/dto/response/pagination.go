package response

import (
	"net/url"
	"strconv"

	"movie-review/internal/dto/request"
)

// PaginatedResponse is a page of results with links to its neighbours.
type PaginatedResponse[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// NewPaginatedResponse builds the envelope; base is the absolute request URL
// whose page parameter is rewritten for the links.
func NewPaginatedResponse[T any](results []T, total int64, page request.PageRequest, base *url.URL) *PaginatedResponse[T] {
	if results == nil {
		results = []T{}
	}

	resp := &PaginatedResponse[T]{
		Count:   total,
		Results: results,
	}

	if base == nil {
		return resp
	}

	if int64(page.Page)*int64(page.Limit()) < total {
		resp.Next = pageLink(base, page.Page+1)
	}
	if page.Page > 1 {
		resp.Previous = pageLink(base, page.Page-1)
	}

	return resp
}

// pageLink drops the page parameter for the first page.
func pageLink(base *url.URL, page int) *string {
	u := *base
	query := u.Query()
	if page <= 1 {
		query.Del("page")
	} else {
		query.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = query.Encode()
	link := u.String()
	return &link
}
