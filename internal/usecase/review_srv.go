package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"movie-review/internal/data/entity"
	"movie-review/internal/data/repository"
	"movie-review/internal/dto/request"
	"movie-review/internal/dto/response"
	"movie-review/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const msgAlreadyReviewed = "You have already reviewed this movie."

type ReviewService interface {
	ListReviews(ctx context.Context, q *request.ReviewListQuery) (*response.PaginatedResponse[response.ReviewResponse], error)
	MovieReviews(ctx context.Context, movieID string, q *request.MovieReviewsQuery) (*response.PaginatedResponse[response.ReviewResponse], error)
	GetReview(ctx context.Context, reviewID string) (*response.ReviewResponse, error)
	CreateReview(ctx context.Context, p *utils.Principal, req *request.CreateReviewRequest) (*response.ReviewResponse, error)
	UpdateReview(ctx context.Context, p *utils.Principal, reviewID string, req *request.UpdateReviewRequest) (*response.ReviewResponse, error)
	PatchReview(ctx context.Context, p *utils.Principal, reviewID string, req *request.PatchReviewRequest) (*response.ReviewResponse, error)
	DeleteReview(ctx context.Context, p *utils.Principal, reviewID string) error
}

type reviewService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewReviewService(repo *repository.Repository, log *zap.Logger) ReviewService {
	return &reviewService{
		repo: repo,
		log:  log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) list(ctx context.Context, filter repository.ReviewFilter, page request.PageRequest, base *url.URL) (*response.PaginatedResponse[response.ReviewResponse], error) {
	total, err := s.repo.Review.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}

	if err := checkPage(page, total); err != nil {
		return nil, err
	}

	reviews, err := s.repo.Review.FindAll(ctx, filter, toPage(page))
	if err != nil {
		return nil, fmt.Errorf("get reviews: %w", err)
	}

	return response.NewPaginatedResponse(response.ReviewsToResponse(reviews), total, page, base), nil
}

// ListReviews ignores a rating that is not an integer in 1..5.
func (s *reviewService) ListReviews(ctx context.Context, q *request.ReviewListQuery) (*response.PaginatedResponse[response.ReviewResponse], error) {
	filter := repository.ReviewFilter{
		MovieTitle:  strings.TrimSpace(q.MovieTitle),
		SearchTerms: parseSearchTerms(q.Search),
		OrderBy:     parseOrdering(q.Ordering, repository.ReviewOrderColumns),
	}
	if rating, ok := parseRating(q.Rating); ok {
		filter.Rating = &rating
	}

	return s.list(ctx, filter, q.Page, q.BaseURL)
}

// MovieReviews lists one movie's reviews. Rating errors are reported
// without the error envelope and ordering accepts a single key.
func (s *reviewService) MovieReviews(ctx context.Context, movieID string, q *request.MovieReviewsQuery) (*response.PaginatedResponse[response.ReviewResponse], error) {
	id, err := uuid.Parse(movieID)
	if err != nil {
		return nil, utils.NotFound()
	}

	movie, err := s.repo.Movie.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get movie by id: %w", err)
	}
	if movie == nil {
		return nil, utils.NotFound()
	}

	filter := repository.ReviewFilter{MovieID: &movie.ID}

	if q.Rating != "" {
		rating, err := strconv.Atoi(strings.TrimSpace(q.Rating))
		if err != nil {
			return nil, utils.RawError(http.StatusBadRequest, map[string]string{"error": "Rating must be a valid integer."})
		}
		if rating < 1 || rating > 5 {
			return nil, utils.RawError(http.StatusBadRequest, map[string]string{"error": "Rating must be between 1 and 5."})
		}
		filter.Rating = &rating
	}

	key := strings.TrimPrefix(q.Ordering, "-")
	if _, ok := repository.ReviewOrderColumns[key]; ok && q.Ordering != "" {
		filter.OrderBy = []repository.OrderField{{Column: key, Desc: strings.HasPrefix(q.Ordering, "-")}}
	}

	return s.list(ctx, filter, q.Page, q.BaseURL)
}

// findReview returns a 404 AppError for unparsable or unknown ids.
func (s *reviewService) findReview(ctx context.Context, reviewID string) (*entity.ReviewDetail, error) {
	id, err := uuid.Parse(reviewID)
	if err != nil {
		return nil, utils.NotFound()
	}

	review, err := s.repo.Review.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get review by id: %w", err)
	}
	if review == nil {
		return nil, utils.NotFound()
	}

	return review, nil
}

func (s *reviewService) GetReview(ctx context.Context, reviewID string) (*response.ReviewResponse, error) {
	review, err := s.findReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

// resolveMovie checks that movieID names an existing movie, adding a field
// error to errs otherwise.
func (s *reviewService) resolveMovie(ctx context.Context, movieID string, errs utils.FieldErrors) (*entity.Movie, error) {
	id, err := uuid.Parse(movieID)
	if err != nil {
		errs.Add("movie_id", "Must be a valid UUID.")
		return nil, nil
	}

	movie, err := s.repo.Movie.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get movie by id: %w", err)
	}
	if movie == nil {
		errs.Add("movie_id", fmt.Sprintf("Invalid pk \"%s\" - object does not exist.", movieID))
	}
	return movie, nil
}

func (s *reviewService) CreateReview(ctx context.Context, p *utils.Principal, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	if !p.IsAuthenticated() {
		return nil, utils.NotAuthenticated()
	}

	// 1. Field validation; the author always comes from the principal
	req.Normalize()
	errs := utils.ValidateStruct(req)
	if errs == nil {
		errs = utils.FieldErrors{}
	}
	for _, field := range req.ReadOnlyFields() {
		errs.Add(field, "This field is set from the authenticated user and cannot be provided.")
	}

	var movie *entity.Movie
	if _, invalid := errs["movie_id"]; !invalid {
		var err error
		movie, err = s.resolveMovie(ctx, req.MovieID, errs)
		if err != nil {
			return nil, err
		}
	}
	if len(errs) > 0 {
		return nil, utils.Validation(errs)
	}

	// 2. One review per movie and user
	existing, err := s.repo.Review.FindByUserAndMovie(ctx, p.UserID, movie.ID)
	if err != nil {
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if existing != nil {
		return nil, utils.FieldError("movie", msgAlreadyReviewed)
	}

	// 3. Persist; the unique constraint catches a concurrent duplicate
	now := time.Now().UTC()
	review := &entity.Review{
		BaseNoDelete: entity.BaseNoDelete{
			BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
			UpdatedAt:  now,
		},
		MovieID: movie.ID,
		UserID:  p.UserID,
		Rating:  req.Rating.Int(),
		Content: req.Content,
	}

	if err := s.repo.Review.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicateReview) {
			return nil, utils.FieldError("movie", msgAlreadyReviewed)
		}
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.log.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("movie_id", movie.ID.String()),
		zap.String("by", p.Username),
	)

	return s.detail(ctx, review.ID)
}

// authorizeWrite loads the review and checks the caller owns it.
func (s *reviewService) authorizeWrite(ctx context.Context, p *utils.Principal, method, reviewID string) (*entity.ReviewDetail, error) {
	review, err := s.findReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if err := authorize(OwnerOrReadOnly(method, p, review.UserID), p); err != nil {
		s.log.Warn("Review write denied",
			zap.String("review_id", review.ID.String()),
			zap.String("method", method),
		)
		return nil, err
	}

	return review, nil
}

func (s *reviewService) UpdateReview(ctx context.Context, p *utils.Principal, reviewID string, req *request.UpdateReviewRequest) (*response.ReviewResponse, error) {
	current, err := s.authorizeWrite(ctx, p, http.MethodPut, reviewID)
	if err != nil {
		return nil, err
	}

	req.Normalize()
	errs := utils.ValidateStruct(req)
	if errs == nil {
		errs = utils.FieldErrors{}
	}

	review := current.Review
	if _, invalid := errs["movie_id"]; !invalid {
		movie, err := s.resolveMovie(ctx, req.MovieID, errs)
		if err != nil {
			return nil, err
		}
		if movie != nil {
			review.MovieID = movie.ID
		}
	}
	if len(errs) > 0 {
		return nil, utils.Validation(errs)
	}

	review.Rating = req.Rating.Int()
	review.Content = req.Content

	return s.save(ctx, &review)
}

func (s *reviewService) PatchReview(ctx context.Context, p *utils.Principal, reviewID string, req *request.PatchReviewRequest) (*response.ReviewResponse, error) {
	current, err := s.authorizeWrite(ctx, p, http.MethodPatch, reviewID)
	if err != nil {
		return nil, err
	}

	req.Normalize()
	errs := utils.ValidateStruct(req)
	if errs == nil {
		errs = utils.FieldErrors{}
	}
	if req.Content != nil && *req.Content == "" {
		errs.Add("content", "This field may not be blank.")
	}

	review := current.Review
	if _, invalid := errs["movie_id"]; !invalid && req.MovieID != nil {
		movie, err := s.resolveMovie(ctx, *req.MovieID, errs)
		if err != nil {
			return nil, err
		}
		if movie != nil {
			review.MovieID = movie.ID
		}
	}
	if len(errs) > 0 {
		return nil, utils.Validation(errs)
	}

	if req.Rating != nil {
		review.Rating = req.Rating.Int()
	}
	if req.Content != nil {
		review.Content = *req.Content
	}

	return s.save(ctx, &review)
}

func (s *reviewService) save(ctx context.Context, review *entity.Review) (*response.ReviewResponse, error) {
	review.UpdatedAt = time.Now().UTC()

	if err := s.repo.Review.Update(ctx, review); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateReview):
			return nil, utils.FieldError("movie", msgAlreadyReviewed)
		case errors.Is(err, repository.ErrNotFound):
			return nil, utils.NotFound()
		}
		return nil, fmt.Errorf("update review: %w", err)
	}

	s.log.Info("Review updated", zap.String("review_id", review.ID.String()))
	return s.detail(ctx, review.ID)
}

func (s *reviewService) DeleteReview(ctx context.Context, p *utils.Principal, reviewID string) error {
	review, err := s.authorizeWrite(ctx, p, http.MethodDelete, reviewID)
	if err != nil {
		return err
	}

	if err := s.repo.Review.Delete(ctx, review.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NotFound()
		}
		return fmt.Errorf("delete review: %w", err)
	}

	return nil
}

// detail reloads a review with its movie and author for the response.
func (s *reviewService) detail(ctx context.Context, id uuid.UUID) (*response.ReviewResponse, error) {
	review, err := s.repo.Review.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload review: %w", err)
	}
	if review == nil {
		return nil, utils.NotFound()
	}

	resp := response.ReviewToResponse(review)
	return &resp, nil
}
