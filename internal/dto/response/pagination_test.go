package response

import (
	"net/url"
	"testing"

	"movie-review/internal/dto/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestNewPaginatedResponse_Links(t *testing.T) {
	base := mustURL(t, "http://api.test/api/movies/?search=heat&page=2&page_size=5")
	page := request.PageRequest{Page: 2, PageSize: 5}

	resp := NewPaginatedResponse([]int{6, 7, 8, 9, 10}, 12, page, base)

	assert.EqualValues(t, 12, resp.Count)
	require.NotNil(t, resp.Next)
	require.NotNil(t, resp.Previous)
	assert.Equal(t, "http://api.test/api/movies/?page=3&page_size=5&search=heat", *resp.Next)
	assert.Equal(t, "http://api.test/api/movies/?page_size=5&search=heat", *resp.Previous)
}

func TestNewPaginatedResponse_LastPage(t *testing.T) {
	base := mustURL(t, "http://api.test/api/reviews/?page=3")
	resp := NewPaginatedResponse([]string{"a"}, 21, request.PageRequest{Page: 3, PageSize: 10}, base)

	assert.Nil(t, resp.Next)
	require.NotNil(t, resp.Previous)
	assert.Equal(t, "http://api.test/api/reviews/?page=2", *resp.Previous)
}

func TestNewPaginatedResponse_Empty(t *testing.T) {
	base := mustURL(t, "http://api.test/api/movies/")
	resp := NewPaginatedResponse[MovieResponse](nil, 0, request.PageRequest{Page: 1, PageSize: 10}, base)

	assert.Nil(t, resp.Next)
	assert.Nil(t, resp.Previous)
	assert.NotNil(t, resp.Results)
	assert.Empty(t, resp.Results)
}
