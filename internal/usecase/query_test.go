package usecase

import (
	"net/http"
	"testing"

	"movie-review/internal/data/repository"
	"movie-review/internal/dto/request"

	"github.com/stretchr/testify/assert"
)

func TestParseSearchTerms(t *testing.T) {
	assert.Equal(t, []string{"dark", "knight"}, parseSearchTerms("  dark,knight "))
	assert.Equal(t, []string{"a", "b", "c"}, parseSearchTerms("a\tb\nc"))
	assert.Empty(t, parseSearchTerms(" , "))
}

func TestParseOrdering(t *testing.T) {
	fields := parseOrdering("-release_year, title,password", repository.MovieOrderColumns)
	assert.Equal(t, []repository.OrderField{
		{Column: "release_year", Desc: true},
		{Column: "title"},
	}, fields)

	assert.Empty(t, parseOrdering("", repository.MovieOrderColumns))
}

func TestParseRating(t *testing.T) {
	rating, ok := parseRating(" 4 ")
	assert.True(t, ok)
	assert.Equal(t, 4, rating)

	for _, raw := range []string{"", "0", "6", "four"} {
		_, ok := parseRating(raw)
		assert.False(t, ok, raw)
	}
}

func TestCheckPage(t *testing.T) {
	assert.NoError(t, checkPage(request.PageRequest{Page: 1, PageSize: 10}, 0))
	assert.NoError(t, checkPage(request.PageRequest{Page: 2, PageSize: 10}, 11))

	err := checkPage(request.PageRequest{Page: 3, PageSize: 10}, 11)
	appErr := requireAppError(t, err, http.StatusNotFound)
	assert.Equal(t, map[string]string{"detail": "Invalid page."}, appErr.Details)

	requireAppError(t, checkPage(request.PageRequest{Page: 1, PageSize: 10, Invalid: true}, 5), http.StatusNotFound)
}

func TestToPage(t *testing.T) {
	assert.Equal(t, repository.Page{Limit: 5, Offset: 10}, toPage(request.PageRequest{Page: 3, PageSize: 5}))
}
