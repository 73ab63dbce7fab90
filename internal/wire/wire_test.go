package wire

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"movie-review/internal/data/repository/repotest"
	"movie-review/pkg/utils"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(ctx context.Context) error { return p.err }

type testApp struct {
	t      *testing.T
	store  *repotest.Store
	router http.Handler
}

func newTestApp(t *testing.T, db Pinger) *testApp {
	t.Helper()
	config := &utils.Config{
		App: utils.AppConfig{Name: "movie-review-test", PageSize: 2},
		JWT: utils.JWTConfig{
			Secret:          "wire-test-secret",
			AccessLifetime:  5 * time.Minute,
			RefreshLifetime: time.Hour,
		},
	}

	store := repotest.New()
	app, err := Wiring(store.Repository(), db, config, zap.NewNop())
	require.NoError(t, err)

	return &testApp{t: t, store: store, router: app.Router}
}

func (a *testApp) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}

	r := httptest.NewRequest(method, path, reader)
	r.Header.Set("Content-Type", "application/json")
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, r)
	return rec
}

// login stores a user and returns an access token obtained through the API.
func (a *testApp) login(username string, staff bool) string {
	a.t.Helper()
	a.store.AddUser(username, "password123", staff)

	rec := a.do(http.MethodPost, "/api/auth/token/", "", map[string]string{
		"username": username,
		"password": "password123",
	})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())

	var pair map[string]string
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &pair))
	return pair["access"]
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

// errorDetails returns the details of an error envelope.
func errorDetails(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	envelope, ok := decode(t, rec)["error"].(map[string]any)
	require.True(t, ok, "expected error envelope, got %s", rec.Body.String())
	assert.Equal(t, "An error occurred", envelope["message"])
	assert.EqualValues(t, rec.Code, envelope["status_code"])
	return envelope["details"].(map[string]any)
}

func TestHealth(t *testing.T) {
	rec := newTestApp(t, nil).do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])

	rec = newTestApp(t, stubPinger{err: errors.New("down")}).do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouting_NotFoundAndMethod(t *testing.T) {
	app := newTestApp(t, nil)

	rec := app.do(http.MethodGet, "/api/nothing/", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found.", errorDetails(t, rec)["detail"])

	rec = app.do(http.MethodPut, "/api/reviews/", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, `Method "PUT" not allowed.`, errorDetails(t, rec)["detail"])
}

func TestSafeMethods_HeadAndOptions(t *testing.T) {
	app := newTestApp(t, nil)
	author := app.store.AddUser("author", "password123", false)
	movie := app.store.AddMovie("Heat", 1995)
	review := app.store.AddReview(movie.ID, author.ID, 4, "Diner scene.")

	tests := []struct {
		path  string
		allow string
		name  string
	}{
		{"/api/movies/", "GET, POST, HEAD, OPTIONS", "Movie List"},
		{"/api/movies/" + movie.ID.String() + "/", "GET, PUT, PATCH, DELETE, HEAD, OPTIONS", "Movie Instance"},
		{"/api/movies/" + movie.ID.String() + "/reviews/", "GET, HEAD, OPTIONS", "Reviews"},
		{"/api/reviews/", "GET, POST, HEAD, OPTIONS", "Review List"},
		{"/api/reviews/" + review.ID.String() + "/", "GET, PUT, PATCH, DELETE, HEAD, OPTIONS", "Review Instance"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(http.MethodHead, tt.path, "", nil)
			assert.Equal(t, http.StatusOK, rec.Code, "HEAD %s", tt.path)

			rec = app.do(http.MethodOptions, tt.path, "", nil)
			require.Equal(t, http.StatusOK, rec.Code, "OPTIONS %s: %s", tt.path, rec.Body.String())
			assert.Equal(t, tt.allow, rec.Header().Get("Allow"))
			body := decode(t, rec)
			assert.Equal(t, tt.name, body["name"])
			assert.Equal(t, []any{"application/json"}, body["renders"])
		})
	}
}

func TestSafeMethods_UsersStillRequireAuth(t *testing.T) {
	app := newTestApp(t, nil)

	assert.Equal(t, http.StatusUnauthorized, app.do(http.MethodHead, "/api/users/", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, app.do(http.MethodOptions, "/api/users/", "", nil).Code)

	token := app.login("viewer", false)
	assert.Equal(t, http.StatusOK, app.do(http.MethodHead, "/api/users/", token, nil).Code)
	assert.Equal(t, http.StatusOK, app.do(http.MethodOptions, "/api/users/", token, nil).Code)
}

func TestRegister_Flow(t *testing.T) {
	app := newTestApp(t, nil)
	body := map[string]string{
		"username":         "newbie",
		"email":            "newbie@example.com",
		"password":         "longenough",
		"password_confirm": "longenough",
	}

	rec := app.do(http.MethodPost, "/api/auth/register/", "", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode(t, rec)
	assert.Equal(t, "User registered successfully.", created["message"])
	assert.Equal(t, "newbie", created["user"].(map[string]any)["username"])

	rec = app.do(http.MethodPost, "/api/auth/register/", "", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	dup := decode(t, rec)
	assert.NotContains(t, dup, "error", "registration errors are not wrapped")
	assert.Equal(t, []any{"A user with this email already exists."}, dup["email"])

	body["username"], body["email"], body["password_confirm"] = "other", "other@example.com", "different1"
	rec = app.do(http.MethodPost, "/api/auth/register/", "", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []any{"Passwords do not match."}, decode(t, rec)["password"])
}

func TestToken_Refresh(t *testing.T) {
	app := newTestApp(t, nil)
	app.store.AddUser("ann", "password123", false)

	rec := app.do(http.MethodPost, "/api/auth/token", "", map[string]string{"username": "ann", "password": "password123"})
	require.Equal(t, http.StatusOK, rec.Code)
	pair := decode(t, rec)

	rec = app.do(http.MethodPost, "/api/auth/token/refresh/", "", map[string]any{"refresh": pair["refresh"]})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode(t, rec)["access"])

	rec = app.do(http.MethodPost, "/api/auth/token/", "", map[string]string{"username": "ann", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "No active account found with the given credentials", errorDetails(t, rec)["detail"])
}

func TestInvalidToken_RejectedOnSafeMethod(t *testing.T) {
	rec := newTestApp(t, nil).do(http.MethodGet, "/api/movies/", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
}

func TestMovies_Permissions(t *testing.T) {
	app := newTestApp(t, nil)
	admin := app.login("admin", true)
	regular := app.login("regular", false)
	payload := map[string]any{"title": "Inception", "genre": "Sci-Fi", "release_year": 2010}

	rec := app.do(http.MethodPost, "/api/movies/", "", payload)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authentication credentials were not provided.", errorDetails(t, rec)["detail"])

	rec = app.do(http.MethodPost, "/api/movies/", regular, payload)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(http.MethodPost, "/api/movies/", admin, payload)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decode(t, rec)["id"].(string)

	rec = app.do(http.MethodGet, "/api/movies/"+id+"/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2010, decode(t, rec)["release_year"])

	rec = app.do(http.MethodPatch, "/api/movies/"+id+"/", regular, map[string]any{"title": "Nope"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(http.MethodPatch, "/api/movies/"+id+"/", admin, map[string]any{"genre": "Thriller"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Thriller", decode(t, rec)["genre"])

	rec = app.do(http.MethodDelete, "/api/movies/"+id+"/", admin, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = app.do(http.MethodGet, "/api/movies/"+id+"/", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMovies_Pagination(t *testing.T) {
	app := newTestApp(t, nil)
	for _, title := range []string{"A", "B", "C"} {
		app.store.AddMovie(title, 2000)
	}

	rec := app.do(http.MethodGet, "/api/movies/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode(t, rec)
	assert.EqualValues(t, 3, page["count"])
	assert.Len(t, page["results"], 2)
	assert.Equal(t, "http://example.com/api/movies/?page=2", page["next"])
	assert.Nil(t, page["previous"])

	rec = app.do(http.MethodGet, "/api/movies/?page=2", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page = decode(t, rec)
	assert.Len(t, page["results"], 1)
	assert.Equal(t, "http://example.com/api/movies/", page["previous"])

	rec = app.do(http.MethodGet, "/api/movies/?page=9", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Invalid page.", errorDetails(t, rec)["detail"])
}

func TestReviews_Flow(t *testing.T) {
	app := newTestApp(t, nil)
	author := app.login("author", false)
	intruder := app.login("intruder", false)
	movie := app.store.AddMovie("Heat", 1995)
	movieID := movie.ID.String()

	rec := app.do(http.MethodPost, "/api/reviews/", "", map[string]any{"movie_id": movieID, "rating": 5, "content": "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(http.MethodPost, "/api/reviews/", author, `{"movie_id":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(http.MethodPost, "/api/reviews/", author, map[string]any{"movie_id": movieID, "rating": 6, "content": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorDetails(t, rec), "rating")

	rec = app.do(http.MethodPost, "/api/reviews/", author, map[string]any{"movie_id": movieID, "rating": 5, "content": "Diner scene."})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	review := decode(t, rec)
	assert.Equal(t, "Heat (1995)", review["movie"])
	assert.Equal(t, "author", review["user"])
	reviewPath := "/api/reviews/" + review["id"].(string) + "/"

	rec = app.do(http.MethodPost, "/api/reviews/", author, map[string]any{"movie_id": movieID, "rating": 4, "content": "Again"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []any{"You have already reviewed this movie."}, errorDetails(t, rec)["movie"])

	rec = app.do(http.MethodGet, reviewPath, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(http.MethodPatch, reviewPath, intruder, map[string]any{"rating": 1})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(http.MethodDelete, reviewPath, "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(http.MethodPut, reviewPath, author, map[string]any{"movie_id": movieID, "rating": 3, "content": "Rewatched."})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 3, decode(t, rec)["rating"])

	rec = app.do(http.MethodGet, "/api/movies/"+movieID+"/reviews/?rating=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, map[string]any{"error": "Rating must be a valid integer."}, decode(t, rec))

	rec = app.do(http.MethodGet, "/api/movies/"+movieID+"/reviews/?rating=3", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode(t, rec)["count"])

	rec = app.do(http.MethodDelete, reviewPath, author, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestReviews_RatingAsString(t *testing.T) {
	app := newTestApp(t, nil)
	author := app.login("author", false)
	movie := app.store.AddMovie("Heat", 1995)

	rec := app.do(http.MethodPost, "/api/reviews/", author, map[string]any{"movie_id": movie.ID.String(), "rating": "four", "content": "x"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []any{"A valid integer is required."}, errorDetails(t, rec)["rating"])

	rec = app.do(http.MethodPost, "/api/reviews/", author, map[string]any{"movie_id": movie.ID.String(), "rating": "4", "content": "Diner scene."})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.EqualValues(t, 4, decode(t, rec)["rating"])
}

func TestUsers_Endpoints(t *testing.T) {
	app := newTestApp(t, nil)
	admin := app.login("admin", true)
	viewer := app.login("viewer", false)
	victim := app.store.AddUser("victim", "password123", false)
	victimPath := "/api/users/" + victim.ID.String() + "/"

	rec := app.do(http.MethodGet, "/api/users/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(http.MethodGet, victimPath, viewer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decode(t, rec)
	assert.Equal(t, "victim", profile["username"])
	assert.EqualValues(t, 0, profile["reviews_count"])
	assert.NotContains(t, profile, "password")

	rec = app.do(http.MethodDelete, victimPath, viewer, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(http.MethodDelete, victimPath, admin, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = app.do(http.MethodGet, victimPath, viewer, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
