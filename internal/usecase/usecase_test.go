package usecase

import (
	"net/url"
	"testing"
	"time"

	"movie-review/internal/data/repository/repotest"
	"movie-review/internal/dto/request"
	"movie-review/pkg/token"
	"movie-review/pkg/utils"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	store   *repotest.Store
	service *Service
	tokens  *token.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tokens, err := token.NewManager("usecase-test-secret", 5*time.Minute, time.Hour)
	require.NoError(t, err)

	store := repotest.New()
	return &fixture{
		store:   store,
		service: NewService(store.Repository(), tokens, zap.NewNop()),
		tokens:  tokens,
	}
}

// principal stores a user and returns its identity.
func (f *fixture) principal(username string, staff bool) *utils.Principal {
	user := f.store.AddUser(username, "password123", staff)
	return &utils.Principal{UserID: user.ID, Username: user.Username, IsStaff: user.IsStaff}
}

// requireAppError asserts err carries an *AppError with status.
func requireAppError(t *testing.T, err error, status int) *utils.AppError {
	t.Helper()
	require.Error(t, err)
	appErr, ok := utils.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	require.Equal(t, status, appErr.Status, "details: %v", appErr.Details)
	return appErr
}

func firstPage() request.PageRequest {
	return request.PageRequest{Page: 1, PageSize: 10}
}

func baseURL(raw string) *url.URL {
	u, _ := url.Parse(raw)
	return u
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func ratingPtr(v int) *request.Rating {
	r := request.Rating(v)
	return &r
}
