package seed

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"movie-review/internal/data/entity"
	"movie-review/internal/data/repository"
	"movie-review/pkg/database"
	"movie-review/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DemoPassword is shared by every seeded user.
const DemoPassword = "demo123"

// Demo mode sizes.
const (
	demoMovies  = 100
	demoUsers   = 20
	demoReviews = 500
)

var reviewTemplates = []string{
	"Great movie! Highly recommended.",
	"One of my favorites. Excellent storytelling.",
	"Really enjoyed this one. Worth watching.",
	"Good movie, but could be better.",
	"Not my cup of tea, but well made.",
	"Amazing cinematography and acting.",
	"Solid film with good performances.",
	"Entertaining and engaging throughout.",
	"Decent movie, nothing special.",
	"Could have been better, but still enjoyable.",
}

type Options struct {
	DataDir     string
	MoviesOnly  bool
	ReviewsOnly bool
	// Limit caps movie lines read and reviews created; 0 means no cap.
	Limit int
	Users int
	Demo  bool
}

// Report counts what a run did.
type Report struct {
	MoviesCreated  int
	MoviesUpdated  int
	UsersCreated   int
	ReviewsCreated int
	ReviewsSkipped int
}

type Seeder struct {
	db   database.PgxIface
	repo *repository.Repository
	log  *zap.Logger
	// pick returns an index in [0, n).
	pick func(n int) int
	now  func() time.Time
}

func NewSeeder(db database.PgxIface, log *zap.Logger) *Seeder {
	return &Seeder{
		db:   db,
		repo: repository.NewRepository(db, log),
		log:  log.With(zap.String("component", "seed")),
		pick: rand.IntN,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Run executes the phases selected by opts: movies, then users, then reviews.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Report, error) {
	if _, err := os.Stat(opts.DataDir); err != nil {
		return nil, fmt.Errorf("archive directory not found: %s: %w", opts.DataDir, err)
	}

	movieLimit, reviewLimit, users := opts.Limit, opts.Limit, opts.Users
	if opts.Demo {
		movieLimit, reviewLimit, users = demoMovies, demoReviews, demoUsers
		s.log.Info("Starting demo seeding",
			zap.Int("movies", demoMovies),
			zap.Int("users", demoUsers),
			zap.Int("reviews", demoReviews),
		)
	} else {
		s.log.Info("Starting database seeding", zap.String("data_dir", opts.DataDir))
	}

	report := &Report{}

	if !opts.ReviewsOnly {
		if err := s.SeedMovies(ctx, opts.DataDir, movieLimit, report); err != nil {
			return report, err
		}
	}

	if !opts.MoviesOnly && !opts.ReviewsOnly {
		if err := s.SeedUsers(ctx, opts.DataDir, users, report); err != nil {
			return report, err
		}
	}

	if !opts.MoviesOnly {
		if err := s.SeedReviews(ctx, opts.DataDir, reviewLimit, report); err != nil {
			return report, err
		}
	}

	s.log.Info("Database seeding completed",
		zap.Int("movies_created", report.MoviesCreated),
		zap.Int("movies_updated", report.MoviesUpdated),
		zap.Int("users_created", report.UsersCreated),
		zap.Int("reviews_created", report.ReviewsCreated),
		zap.Int("reviews_skipped", report.ReviewsSkipped),
	)
	return report, nil
}

// openData opens name in dir. A missing file is logged and reported as ok=false.
func (s *Seeder) openData(dir, name string) (*os.File, bool, error) {
	f, err := os.Open(filepath.Join(dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Error("Data file not found", zap.String("file", filepath.Join(dir, name)))
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("open %s: %w", name, err)
	}
	return f, true, nil
}

func (s *Seeder) loadGenres(dir string) ([]string, error) {
	f, ok, err := s.openData(dir, GenreFile)
	if err != nil || !ok {
		return nil, err
	}
	defer f.Close()
	return ParseGenres(f)
}

func (s *Seeder) loadItems(dir string, limit int) ([]Item, bool, error) {
	genres, err := s.loadGenres(dir)
	if err != nil {
		return nil, false, err
	}

	f, ok, err := s.openData(dir, ItemFile)
	if err != nil || !ok {
		return nil, ok, err
	}
	defer f.Close()

	items, skipped, err := ParseItems(f, genres, limit)
	if err != nil {
		return nil, true, err
	}
	if skipped > 0 {
		s.log.Warn("Skipped malformed movie lines", zap.Int("lines", skipped))
	}
	return items, true, nil
}

// SeedMovies creates movies by title, or fills in the missing fields of an
// existing one.
func (s *Seeder) SeedMovies(ctx context.Context, dir string, limit int, report *Report) error {
	items, ok, err := s.loadItems(dir, limit)
	if err != nil || !ok {
		return err
	}

	for _, item := range items {
		movie, err := s.repo.Movie.FindByTitle(ctx, item.Title)
		if err != nil {
			return err
		}

		if movie == nil {
			movie = &entity.Movie{
				BaseSimple:  entity.BaseSimple{ID: uuid.New(), CreatedAt: s.now()},
				Title:       item.Title,
				Description: item.Description(),
				Genre:       item.GenreText(),
				ReleaseYear: item.ReleaseYear,
			}
			if err := s.repo.Movie.Create(ctx, movie); err != nil {
				return err
			}
			report.MoviesCreated++
		} else {
			if movie.Genre == "" && len(item.Genres) > 0 {
				movie.Genre = item.GenreText()
			}
			if movie.ReleaseYear == nil && item.ReleaseYear != nil {
				movie.ReleaseYear = item.ReleaseYear
			}
			if movie.Description == "" {
				movie.Description = item.Description()
			}
			if err := s.repo.Movie.Update(ctx, movie); err != nil {
				return err
			}
			report.MoviesUpdated++
		}

		if processed := report.MoviesCreated + report.MoviesUpdated; processed%100 == 0 {
			s.log.Info("Processed movies", zap.Int("count", processed))
		}
	}

	s.log.Info("Movies seeded",
		zap.Int("created", report.MoviesCreated),
		zap.Int("updated", report.MoviesUpdated),
	)
	return nil
}

// SeedUsers creates user_N accounts, one per u.user line up to n, in a
// single transaction. Existing usernames are left alone.
func (s *Seeder) SeedUsers(ctx context.Context, dir string, n int, report *Report) error {
	f, ok, err := s.openData(dir, UserFile)
	if err != nil || !ok {
		return err
	}
	available, err := CountUsers(f)
	f.Close()
	if err != nil {
		return err
	}

	n = min(n, available)
	if n <= 0 {
		return nil
	}

	hash, err := utils.HashPassword(DemoPassword)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	err = repository.RunInTx(ctx, s.db, s.log, func(repo *repository.Repository) error {
		for i := 1; i <= n; i++ {
			username := fmt.Sprintf("user_%d", i)

			existing, err := repo.User.FindByUsername(ctx, username)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}

			user := &entity.User{
				ID:           uuid.New(),
				Username:     username,
				Email:        fmt.Sprintf("user%d@example.com", i),
				PasswordHash: hash,
				IsActive:     true,
				DateJoined:   s.now(),
			}
			if err := repo.User.Create(ctx, user); err != nil {
				return err
			}
			report.UsersCreated++

			if report.UsersCreated%10 == 0 {
				s.log.Info("Created users", zap.Int("count", report.UsersCreated))
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	s.log.Info("Users seeded", zap.Int("created", report.UsersCreated))
	return nil
}

// SeedReviews turns u.data ratings into reviews. MovieLens item ids are
// matched to movies by title and user ids to the N-th stored user.
func (s *Seeder) SeedReviews(ctx context.Context, dir string, limit int, report *Report) error {
	users, err := s.repo.User.FindAll(ctx, repository.Page{})
	if err != nil {
		return err
	}
	if len(users) == 0 {
		s.log.Error("No users found. Seed users first.")
		return nil
	}

	items, ok, err := s.loadItems(dir, 0)
	if err != nil || !ok {
		return err
	}

	movies := make(map[int]*entity.Movie, len(items))
	for _, item := range items {
		movie, err := s.repo.Movie.FindByTitle(ctx, item.Title)
		if err != nil {
			return err
		}
		if movie != nil {
			movies[item.MLID] = movie
		}
	}
	if len(movies) == 0 {
		s.log.Error("No movies found. Seed movies first.")
		return nil
	}

	f, ok, err := s.openData(dir, RatingFile)
	if err != nil || !ok {
		return err
	}
	defer f.Close()

	err = repository.RunInTx(ctx, s.db, s.log, func(repo *repository.Repository) error {
		var loopErr error
		malformed, err := EachRating(f, func(r Rating) bool {
			if limit > 0 && report.ReviewsCreated >= limit {
				return false
			}
			if r.Rating < 1 || r.Rating > 5 {
				return true
			}

			movie := movies[r.ItemID]
			if movie == nil || r.UserID < 1 || r.UserID > len(users) {
				report.ReviewsSkipped++
				return true
			}
			user := users[r.UserID-1]

			existing, err := repo.Review.FindByUserAndMovie(ctx, user.ID, movie.ID)
			if err != nil {
				loopErr = err
				return false
			}
			if existing != nil {
				report.ReviewsSkipped++
				return true
			}

			now := s.now()
			review := &entity.Review{
				BaseNoDelete: entity.BaseNoDelete{
					BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
					UpdatedAt:  now,
				},
				MovieID: movie.ID,
				UserID:  user.ID,
				Rating:  r.Rating,
				Content: s.reviewContent(r.Rating),
			}
			if err := repo.Review.Create(ctx, review); err != nil {
				loopErr = err
				return false
			}
			report.ReviewsCreated++

			if report.ReviewsCreated%500 == 0 {
				s.log.Info("Created reviews", zap.Int("count", report.ReviewsCreated))
			}
			return true
		})
		report.ReviewsSkipped += malformed
		if err != nil {
			return err
		}
		return loopErr
	})
	if err != nil {
		return fmt.Errorf("seed reviews: %w", err)
	}

	s.log.Info("Reviews seeded",
		zap.Int("created", report.ReviewsCreated),
		zap.Int("skipped", report.ReviewsSkipped),
	)
	return nil
}

// reviewContent picks a template and marks high and low ratings.
func (s *Seeder) reviewContent(rating int) string {
	content := reviewTemplates[s.pick(len(reviewTemplates))]
	switch {
	case rating >= 4:
		return "⭐ " + content
	case rating <= 2:
		return "⚠️ " + content
	}
	return content
}

// CreateSuperuser adds a staff account.
func CreateSuperuser(ctx context.Context, users repository.UserRepository, username, email, password string) (*entity.User, error) {
	type superuser struct {
		Username string `json:"username" validate:"required,max=150,username"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if errs := utils.ValidateStruct(superuser{username, email, password}); len(errs) > 0 {
		return nil, fmt.Errorf("invalid superuser: %s", utils.FormatValidationErrors(errs))
	}

	existing, err := users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("create superuser %s: %w", username, repository.ErrDuplicateUsername)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsStaff:      true,
		IsActive:     true,
		DateJoined:   time.Now().UTC(),
	}
	if err := users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
