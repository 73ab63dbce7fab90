package repository

import (
	"context"
	"errors"
	"fmt"

	"movie-review/internal/data/entity"
	"movie-review/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ReviewUniqueConstraint guards one review per (movie, user).
const ReviewUniqueConstraint = "reviews_movie_user_key"

// ErrDuplicateReview is returned when the (movie, user) constraint rejects a write.
var ErrDuplicateReview = errors.New("review for this movie and user already exists")

// ReviewFilter narrows a review listing. Zero values mean "no constraint".
type ReviewFilter struct {
	MovieID     *uuid.UUID
	UserID      *uuid.UUID
	MovieTitle  string // case-insensitive substring
	Rating      *int
	SearchTerms []string // each must match movie title or content
	OrderBy     []OrderField
}

// ReviewOrderColumns are the keys accepted in ReviewFilter.OrderBy.
var ReviewOrderColumns = map[string]string{
	"rating":     "r.rating",
	"created_at": "r.created_at",
	"updated_at": "r.updated_at",
}

var defaultReviewOrder = []OrderField{{Column: "created_at", Desc: true}}

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ReviewDetail, error)
	FindByUserAndMovie(ctx context.Context, userID, movieID uuid.UUID) (*entity.Review, error)
	FindAll(ctx context.Context, filter ReviewFilter, page Page) ([]*entity.ReviewDetail, error)
	Count(ctx context.Context, filter ReviewFilter) (int64, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	Update(ctx context.Context, review *entity.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type reviewRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewReviewRepository(db database.Querier, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

const reviewDetailSelect = `
	SELECT r.id, r.movie_id, r.user_id, r.rating, r.content, r.created_at, r.updated_at,
	       m.title, m.release_year, u.username
	FROM reviews r
	JOIN movies m ON m.id = r.movie_id
	JOIN users u ON u.id = r.user_id`

func scanReviewDetail(row pgx.Row) (*entity.ReviewDetail, error) {
	var d entity.ReviewDetail
	err := row.Scan(
		&d.ID,
		&d.MovieID,
		&d.UserID,
		&d.Rating,
		&d.Content,
		&d.CreatedAt,
		&d.UpdatedAt,
		&d.MovieTitle,
		&d.MovieReleaseYear,
		&d.Username,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	query := `
		INSERT INTO reviews (id, movie_id, user_id, rating, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		review.ID,
		review.MovieID,
		review.UserID,
		review.Rating,
		review.Content,
		review.CreatedAt,
		review.UpdatedAt,
	)

	if database.IsUniqueViolation(err, ReviewUniqueConstraint) {
		return fmt.Errorf("create review for movie %s by user %s: %w",
			review.MovieID.String(), review.UserID.String(), ErrDuplicateReview)
	}
	if err != nil {
		r.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("user_id", review.UserID.String()),
			zap.String("movie_id", review.MovieID.String()),
		)
		return fmt.Errorf("create review for movie %s by user %s: %w",
			review.MovieID.String(), review.UserID.String(), err)
	}

	return nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ReviewDetail, error) {
	query := reviewDetailSelect + ` WHERE r.id = $1`

	review, err := scanReviewDetail(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by ID",
			zap.Error(err),
			zap.String("review_id", id.String()),
		)
		return nil, fmt.Errorf("find review by ID %s: %w", id.String(), err)
	}

	return review, nil
}

func (r *reviewRepository) FindByUserAndMovie(ctx context.Context, userID, movieID uuid.UUID) (*entity.Review, error) {
	query := `
		SELECT id, movie_id, user_id, rating, content, created_at, updated_at
		FROM reviews
		WHERE user_id = $1 AND movie_id = $2
		LIMIT 1
	`

	var review entity.Review
	err := r.db.QueryRow(ctx, query, userID, movieID).Scan(
		&review.ID,
		&review.MovieID,
		&review.UserID,
		&review.Rating,
		&review.Content,
		&review.CreatedAt,
		&review.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by user and movie",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("movie_id", movieID.String()),
		)
		return nil, fmt.Errorf("find review by user %s and movie %s: %w",
			userID.String(), movieID.String(), err)
	}

	return &review, nil
}

func (r *reviewRepository) filter(q *queryBuilder, filter ReviewFilter) {
	if filter.MovieID != nil {
		q.where("r.movie_id = " + q.arg(*filter.MovieID))
	}
	if filter.UserID != nil {
		q.where("r.user_id = " + q.arg(*filter.UserID))
	}
	if filter.MovieTitle != "" {
		q.where("m.title ILIKE " + q.arg(likePattern(filter.MovieTitle)))
	}
	if filter.Rating != nil {
		q.where("r.rating = " + q.arg(*filter.Rating))
	}
	q.searchAny(filter.SearchTerms, "m.title", "r.content")
}

func (r *reviewRepository) FindAll(ctx context.Context, filter ReviewFilter, page Page) ([]*entity.ReviewDetail, error) {
	var q queryBuilder
	r.filter(&q, filter)

	query := reviewDetailSelect +
		q.whereClause() +
		orderClause(filter.OrderBy, ReviewOrderColumns, defaultReviewOrder, "r.id") +
		q.paginate(page)

	rows, err := r.db.Query(ctx, query, q.args...)
	if err != nil {
		r.log.Error("Failed to find reviews",
			zap.Error(err),
			zap.Int("limit", page.Limit),
			zap.Int("offset", page.Offset),
		)
		return nil, fmt.Errorf("find reviews: %w", err)
	}
	defer rows.Close()

	reviews := []*entity.ReviewDetail{}
	for rows.Next() {
		review, err := scanReviewDetail(rows)
		if err != nil {
			r.log.Error("Failed to scan review row", zap.Error(err))
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	return reviews, nil
}

func (r *reviewRepository) Count(ctx context.Context, filter ReviewFilter) (int64, error) {
	var q queryBuilder
	r.filter(&q, filter)

	query := `
	SELECT COUNT(*)
	FROM reviews r
	JOIN movies m ON m.id = r.movie_id` + q.whereClause()

	var count int64
	if err := r.db.QueryRow(ctx, query, q.args...).Scan(&count); err != nil {
		r.log.Error("Failed to count reviews", zap.Error(err))
		return 0, fmt.Errorf("count reviews: %w", err)
	}

	return count, nil
}

func (r *reviewRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM reviews WHERE user_id = $1`

	var count int64
	err := r.db.QueryRow(ctx, query, userID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count reviews by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count reviews by user ID %s: %w", userID.String(), err)
	}

	return count, nil
}

// Update writes movie, rating and content and stamps updated_at.
func (r *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	query := `
		UPDATE reviews
		SET movie_id = $2, rating = $3, content = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		review.ID,
		review.MovieID,
		review.Rating,
		review.Content,
		review.UpdatedAt,
	)

	if database.IsUniqueViolation(err, ReviewUniqueConstraint) {
		return fmt.Errorf("update review %s: %w", review.ID.String(), ErrDuplicateReview)
	}
	if err != nil {
		r.log.Error("Failed to update review",
			zap.Error(err),
			zap.String("review_id", review.ID.String()),
		)
		return fmt.Errorf("update review %s: %w", review.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update review %s: %w", review.ID.String(), ErrNotFound)
	}

	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM reviews WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete review",
			zap.Error(err),
			zap.String("review_id", id.String()),
		)
		return fmt.Errorf("delete review %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete review %s: %w", id.String(), ErrNotFound)
	}

	r.log.Info("Review deleted", zap.String("review_id", id.String()))
	return nil
}
