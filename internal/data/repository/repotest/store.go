// Package repotest provides an in-memory repository.Repository for tests.
// It mirrors the Postgres schema's unique constraints and cascading deletes.
package repotest

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"movie-review/internal/data/entity"
	"movie-review/internal/data/repository"
	"movie-review/pkg/utils"

	"github.com/google/uuid"
)

type Store struct {
	mu      sync.Mutex
	users   map[uuid.UUID]entity.User
	movies  map[uuid.UUID]entity.Movie
	reviews map[uuid.UUID]entity.Review
}

func New() *Store {
	return &Store{
		users:   make(map[uuid.UUID]entity.User),
		movies:  make(map[uuid.UUID]entity.Movie),
		reviews: make(map[uuid.UUID]entity.Review),
	}
}

// Repository returns repositories backed by s.
func (s *Store) Repository() *repository.Repository {
	return &repository.Repository{
		User:   &userRepo{s},
		Movie:  &movieRepo{s},
		Review: &reviewRepo{s},
	}
}

// AddUser stores an active user with a bcrypt hash of password.
func (s *Store) AddUser(username, password string, staff bool) *entity.User {
	hash, err := utils.HashPassword(password)
	if err != nil {
		panic(err)
	}
	user := entity.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		IsStaff:      staff,
		IsActive:     true,
		DateJoined:   time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	return &user
}

// SetActive toggles a stored user's is_active flag.
func (s *Store) SetActive(id uuid.UUID, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.users[id]; ok {
		user.IsActive = active
		s.users[id] = user
	}
}

// AddMovie stores a movie created now.
func (s *Store) AddMovie(title string, year int) *entity.Movie {
	movie := entity.Movie{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now().UTC()},
		Title:      title,
	}
	if year > 0 {
		movie.ReleaseYear = &year
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.movies[movie.ID] = movie
	return &movie
}

// AddReview stores a review without checking the unique pair.
func (s *Store) AddReview(movieID, userID uuid.UUID, rating int, content string) *entity.Review {
	now := time.Now().UTC()
	review := entity.Review{
		BaseNoDelete: entity.BaseNoDelete{
			BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
			UpdatedAt:  now,
		},
		MovieID: movieID,
		UserID:  userID,
		Rating:  rating,
		Content: content,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews[review.ID] = review
	return &review
}

func (s *Store) ReviewCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reviews)
}

func paginate[T any](items []T, page repository.Page) []T {
	if page.Limit <= 0 {
		return items
	}
	if page.Offset >= len(items) {
		return nil
	}
	end := min(page.Offset+page.Limit, len(items))
	return items[page.Offset:end]
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// ==================== USERS ====================

type userRepo struct{ s *Store }

func (r *userRepo) Create(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == user.Username {
			return repository.ErrDuplicateUsername
		}
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepo) find(match func(entity.User) bool) *entity.User {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if match(u) {
			return &u
		}
	}
	return nil
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.ID == id }), nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return strings.EqualFold(u.Email, email) }), nil
}

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Username == username }), nil
}

func (r *userRepo) FindAll(ctx context.Context, page repository.Page) ([]*entity.User, error) {
	r.s.mu.Lock()
	users := make([]*entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, &u)
	}
	r.s.mu.Unlock()

	slices.SortFunc(users, func(a, b *entity.User) int {
		if c := a.DateJoined.Compare(b.DateJoined); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return paginate(users, page), nil
}

func (r *userRepo) CountAll(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.users)), nil
}

func (r *userRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.users, id)
	for rid, review := range r.s.reviews {
		if review.UserID == id {
			delete(r.s.reviews, rid)
		}
	}
	return nil
}

// ==================== MOVIES ====================

type movieRepo struct{ s *Store }

func (r *movieRepo) Create(ctx context.Context, movie *entity.Movie) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.movies[movie.ID] = *movie
	return nil
}

func (r *movieRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Movie, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	movie, ok := r.s.movies[id]
	if !ok {
		return nil, nil
	}
	return &movie, nil
}

func (r *movieRepo) FindByTitle(ctx context.Context, title string) (*entity.Movie, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var oldest *entity.Movie
	for _, m := range r.s.movies {
		if m.Title == title && (oldest == nil || m.CreatedAt.Before(oldest.CreatedAt)) {
			oldest = &m
		}
	}
	return oldest, nil
}

func (r *movieRepo) matching(filter repository.MovieFilter) []*entity.Movie {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var movies []*entity.Movie
outer:
	for _, m := range r.s.movies {
		for _, term := range filter.SearchTerms {
			if !containsFold(m.Title, term) && !containsFold(m.Genre, term) && !containsFold(m.Description, term) {
				continue outer
			}
		}
		movies = append(movies, &m)
	}
	return movies
}

func compareMovies(a, b *entity.Movie, field repository.OrderField) int {
	var c int
	switch field.Column {
	case "title":
		c = strings.Compare(a.Title, b.Title)
	case "release_year":
		c = cmp.Compare(yearOf(a.ReleaseYear), yearOf(b.ReleaseYear))
	case "created_at":
		c = a.CreatedAt.Compare(b.CreatedAt)
	}
	if field.Desc {
		c = -c
	}
	return c
}

func yearOf(year *int) int {
	if year == nil {
		return 0
	}
	return *year
}

func (r *movieRepo) FindAll(ctx context.Context, filter repository.MovieFilter, page repository.Page) ([]*entity.Movie, error) {
	movies := r.matching(filter)
	order := filter.OrderBy
	if len(order) == 0 {
		order = []repository.OrderField{{Column: "title"}}
	}

	slices.SortFunc(movies, func(a, b *entity.Movie) int {
		for _, field := range order {
			if c := compareMovies(a, b, field); c != 0 {
				return c
			}
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return paginate(movies, page), nil
}

func (r *movieRepo) Count(ctx context.Context, filter repository.MovieFilter) (int64, error) {
	return int64(len(r.matching(filter))), nil
}

func (r *movieRepo) Update(ctx context.Context, movie *entity.Movie) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.movies[movie.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.movies[movie.ID] = *movie
	return nil
}

func (r *movieRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.movies[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.movies, id)
	for rid, review := range r.s.reviews {
		if review.MovieID == id {
			delete(r.s.reviews, rid)
		}
	}
	return nil
}

// ==================== REVIEWS ====================

type reviewRepo struct{ s *Store }

// duplicate reports whether another review holds the (movie, user) pair. Caller holds mu.
func (r *reviewRepo) duplicate(review *entity.Review) bool {
	for _, existing := range r.s.reviews {
		if existing.ID != review.ID && existing.MovieID == review.MovieID && existing.UserID == review.UserID {
			return true
		}
	}
	return false
}

func (r *reviewRepo) Create(ctx context.Context, review *entity.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.duplicate(review) {
		return repository.ErrDuplicateReview
	}
	r.s.reviews[review.ID] = *review
	return nil
}

// detail joins review with its movie and author. Caller holds mu.
func (r *reviewRepo) detail(review entity.Review) *entity.ReviewDetail {
	d := &entity.ReviewDetail{Review: review}
	if movie, ok := r.s.movies[review.MovieID]; ok {
		d.MovieTitle = movie.Title
		d.MovieReleaseYear = movie.ReleaseYear
	}
	if user, ok := r.s.users[review.UserID]; ok {
		d.Username = user.Username
	}
	return d
}

func (r *reviewRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.ReviewDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	review, ok := r.s.reviews[id]
	if !ok {
		return nil, nil
	}
	return r.detail(review), nil
}

func (r *reviewRepo) FindByUserAndMovie(ctx context.Context, userID, movieID uuid.UUID) (*entity.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, review := range r.s.reviews {
		if review.UserID == userID && review.MovieID == movieID {
			return &review, nil
		}
	}
	return nil, nil
}

func (r *reviewRepo) matching(filter repository.ReviewFilter) []*entity.ReviewDetail {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var reviews []*entity.ReviewDetail
outer:
	for _, review := range r.s.reviews {
		d := r.detail(review)
		switch {
		case filter.MovieID != nil && review.MovieID != *filter.MovieID,
			filter.UserID != nil && review.UserID != *filter.UserID,
			filter.Rating != nil && review.Rating != *filter.Rating,
			filter.MovieTitle != "" && !containsFold(d.MovieTitle, filter.MovieTitle):
			continue
		}
		for _, term := range filter.SearchTerms {
			if !containsFold(d.MovieTitle, term) && !containsFold(review.Content, term) {
				continue outer
			}
		}
		reviews = append(reviews, d)
	}
	return reviews
}

func compareReviews(a, b *entity.ReviewDetail, field repository.OrderField) int {
	var c int
	switch field.Column {
	case "rating":
		c = cmp.Compare(a.Rating, b.Rating)
	case "created_at":
		c = a.CreatedAt.Compare(b.CreatedAt)
	case "updated_at":
		c = a.UpdatedAt.Compare(b.UpdatedAt)
	}
	if field.Desc {
		c = -c
	}
	return c
}

func (r *reviewRepo) FindAll(ctx context.Context, filter repository.ReviewFilter, page repository.Page) ([]*entity.ReviewDetail, error) {
	reviews := r.matching(filter)
	order := filter.OrderBy
	if len(order) == 0 {
		order = []repository.OrderField{{Column: "created_at", Desc: true}}
	}

	slices.SortFunc(reviews, func(a, b *entity.ReviewDetail) int {
		for _, field := range order {
			if c := compareReviews(a, b, field); c != 0 {
				return c
			}
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return paginate(reviews, page), nil
}

func (r *reviewRepo) Count(ctx context.Context, filter repository.ReviewFilter) (int64, error) {
	return int64(len(r.matching(filter))), nil
}

func (r *reviewRepo) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.Count(ctx, repository.ReviewFilter{UserID: &userID})
}

func (r *reviewRepo) Update(ctx context.Context, review *entity.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reviews[review.ID]; !ok {
		return repository.ErrNotFound
	}
	if r.duplicate(review) {
		return repository.ErrDuplicateReview
	}
	r.s.reviews[review.ID] = *review
	return nil
}

func (r *reviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reviews[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.reviews, id)
	return nil
}
