//go:build integration

package repository

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"movie-review/internal/data/entity"
	"movie-review/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func dockerAvailable() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return exec.CommandContext(ctx, "docker", "info").Run() == nil
}

// startPostgres runs a throwaway Postgres with the schema applied.
func startPostgres(t *testing.T) database.PgxIface {
	t.Helper()
	if !dockerAvailable() {
		t.Skip("Skipping test: Docker not available")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "movie",
				"POSTGRES_PASSWORD": "movie",
				"POSTGRES_DB":       "movie_review",
			},
			WaitingFor: wait.ForAll(
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
				wait.ForListeningPort("5432/tcp"),
			).WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	connStr := fmt.Sprintf("postgres://movie:movie@%s:%s/movie_review?sslmode=disable", host, port.Port())
	db, err := database.Open(ctx, connStr, 4)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, database.Migrate(ctx, db))
	require.NoError(t, database.Migrate(ctx, db), "schema must be idempotent")
	return db
}

func TestPostgres_ReviewLifecycle(t *testing.T) {
	db := startPostgres(t)
	repo := NewRepository(db, zap.NewNop())
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	user := &entity.User{ID: uuid.New(), Username: "ann", Email: "Ann@Example.com", PasswordHash: "x", IsActive: true, DateJoined: now}
	require.NoError(t, repo.User.Create(ctx, user))
	assert.ErrorIs(t, repo.User.Create(ctx, &entity.User{ID: uuid.New(), Username: "ann", Email: "b@example.com", PasswordHash: "x", DateJoined: now}), ErrDuplicateUsername)

	found, err := repo.User.FindByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)

	year := 1995
	movie := &entity.Movie{BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now}, Title: "Heat", Genre: "Crime", ReleaseYear: &year}
	require.NoError(t, repo.Movie.Create(ctx, movie))

	review := &entity.Review{
		BaseNoDelete: entity.BaseNoDelete{BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now}, UpdatedAt: now},
		MovieID:      movie.ID,
		UserID:       user.ID,
		Rating:       5,
		Content:      "Diner scene.",
	}
	require.NoError(t, repo.Review.Create(ctx, review))

	dup := *review
	dup.ID = uuid.New()
	assert.ErrorIs(t, repo.Review.Create(ctx, &dup), ErrDuplicateReview)

	detail, err := repo.Review.FindByID(ctx, review.ID)
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, "Heat (1995)", detail.MovieDisplayName())
	assert.Equal(t, "ann", detail.Username)

	rating := 5
	reviews, err := repo.Review.FindAll(ctx, ReviewFilter{MovieTitle: "HEA", Rating: &rating, SearchTerms: []string{"diner"}}, Page{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, reviews, 1)

	count, err := repo.Review.CountByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	require.NoError(t, repo.Movie.Delete(ctx, movie.ID))
	gone, err := repo.Review.FindByID(ctx, review.ID)
	require.NoError(t, err)
	assert.Nil(t, gone, "reviews cascade with their movie")
}

func TestPostgres_RatingConstraint(t *testing.T) {
	db := startPostgres(t)
	repo := NewRepository(db, zap.NewNop())
	ctx := context.Background()
	now := time.Now().UTC()

	user := &entity.User{ID: uuid.New(), Username: "bob", Email: "bob@example.com", PasswordHash: "x", IsActive: true, DateJoined: now}
	require.NoError(t, repo.User.Create(ctx, user))
	movie := &entity.Movie{BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now}, Title: "Alien"}
	require.NoError(t, repo.Movie.Create(ctx, movie))

	err := repo.Review.Create(ctx, &entity.Review{
		BaseNoDelete: entity.BaseNoDelete{BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now}, UpdatedAt: now},
		MovieID:      movie.ID,
		UserID:       user.ID,
		Rating:       9,
		Content:      "Out of range.",
	})
	assert.Error(t, err)

	require.NoError(t, repo.User.Delete(ctx, user.ID))
	total, err := repo.Review.Count(ctx, ReviewFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}
