package usecase

import (
	"context"
	"net/http"
	"testing"

	"movie-review/internal/dto/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProfile(t *testing.T) {
	f := newFixture(t)
	viewer := f.principal("viewer", false)
	movie := f.store.AddMovie("Heat", 1995)
	f.store.AddReview(movie.ID, viewer.UserID, 4, "Tense.")
	ctx := context.Background()

	_, err := f.service.User.GetProfile(ctx, nil, viewer.UserID.String())
	requireAppError(t, err, http.StatusUnauthorized)

	profile, err := f.service.User.GetProfile(ctx, viewer, viewer.UserID.String())
	require.NoError(t, err)
	assert.Equal(t, "viewer", profile.Username)
	assert.EqualValues(t, 1, profile.ReviewsCount)

	_, err = f.service.User.GetProfile(ctx, viewer, "missing")
	requireAppError(t, err, http.StatusNotFound)
}

func TestGetAllUsers(t *testing.T) {
	f := newFixture(t)
	viewer := f.principal("viewer", false)
	f.principal("second", false)

	resp, err := f.service.User.GetAllUsers(context.Background(), viewer, &request.UserListQuery{Page: firstPage()})
	require.NoError(t, err)
	assert.EqualValues(t, 2, resp.Count)
	assert.Len(t, resp.Results, 2)
}

func TestDeleteUser_CascadesReviews(t *testing.T) {
	f := newFixture(t)
	admin := f.principal("admin", true)
	victim := f.principal("victim", false)
	movie := f.store.AddMovie("Heat", 1995)
	f.store.AddReview(movie.ID, victim.UserID, 3, "Meh.")
	f.store.AddReview(movie.ID, admin.UserID, 5, "Superb.")
	ctx := context.Background()

	requireAppError(t, f.service.User.DeleteUser(ctx, nil, victim.UserID.String()), http.StatusUnauthorized)
	requireAppError(t, f.service.User.DeleteUser(ctx, victim, admin.UserID.String()), http.StatusForbidden)

	require.NoError(t, f.service.User.DeleteUser(ctx, admin, victim.UserID.String()))
	assert.Equal(t, 1, f.store.ReviewCount())

	requireAppError(t, f.service.User.DeleteUser(ctx, admin, victim.UserID.String()), http.StatusNotFound)
}
