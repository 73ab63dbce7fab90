package request

import "net/url"

// MovieListQuery holds the query parameters of GET /api/movies/.
type MovieListQuery struct {
	Search   string
	Ordering string
	Page     PageRequest
	BaseURL  *url.URL
}

// ReviewListQuery holds the query parameters of GET /api/reviews/.
type ReviewListQuery struct {
	MovieTitle string
	Rating     string
	Search     string
	Ordering   string
	Page       PageRequest
	BaseURL    *url.URL
}

// MovieReviewsQuery holds the query parameters of GET /api/movies/{id}/reviews/.
type MovieReviewsQuery struct {
	Rating   string
	Ordering string
	Page     PageRequest
	BaseURL  *url.URL
}

type UserListQuery struct {
	Page    PageRequest
	BaseURL *url.URL
}
