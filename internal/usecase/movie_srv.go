package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"movie-review/internal/data/entity"
	"movie-review/internal/data/repository"
	"movie-review/internal/dto/request"
	"movie-review/internal/dto/response"
	"movie-review/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MovieService interface {
	ListMovies(ctx context.Context, q *request.MovieListQuery) (*response.PaginatedResponse[response.MovieResponse], error)
	GetMovie(ctx context.Context, movieID string) (*response.MovieResponse, error)
	CreateMovie(ctx context.Context, p *utils.Principal, req *request.MovieRequest) (*response.MovieResponse, error)
	UpdateMovie(ctx context.Context, p *utils.Principal, movieID string, req *request.MovieRequest) (*response.MovieResponse, error)
	PatchMovie(ctx context.Context, p *utils.Principal, movieID string, req *request.MovieUpdateRequest) (*response.MovieResponse, error)
	DeleteMovie(ctx context.Context, p *utils.Principal, movieID string) error
}

type movieService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewMovieService(
	repo *repository.Repository,
	log *zap.Logger,
) MovieService {
	return &movieService{
		repo: repo,
		log:  log.With(zap.String("service", "movie")),
	}
}

func (s *movieService) ListMovies(ctx context.Context, q *request.MovieListQuery) (*response.PaginatedResponse[response.MovieResponse], error) {
	filter := repository.MovieFilter{
		SearchTerms: parseSearchTerms(q.Search),
		OrderBy:     parseOrdering(q.Ordering, repository.MovieOrderColumns),
	}

	total, err := s.repo.Movie.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count movies: %w", err)
	}

	if err := checkPage(q.Page, total); err != nil {
		return nil, err
	}

	movies, err := s.repo.Movie.FindAll(ctx, filter, toPage(q.Page))
	if err != nil {
		return nil, fmt.Errorf("get movies: %w", err)
	}

	s.log.Debug("Movies retrieved",
		zap.Int("count", len(movies)),
		zap.Int64("total", total),
		zap.Int("page", q.Page.Page),
		zap.Int("page_size", q.Page.Limit()),
	)

	return response.NewPaginatedResponse(response.MoviesToResponse(movies), total, q.Page, q.BaseURL), nil
}

// findMovie returns a 404 AppError for unparsable or unknown ids.
func (s *movieService) findMovie(ctx context.Context, movieID string) (*entity.Movie, error) {
	id, err := uuid.Parse(movieID)
	if err != nil {
		s.log.Debug("Invalid movie ID format", zap.String("movie_id", movieID))
		return nil, utils.NotFound()
	}

	movie, err := s.repo.Movie.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get movie by id: %w", err)
	}
	if movie == nil {
		return nil, utils.NotFound()
	}

	return movie, nil
}

func (s *movieService) GetMovie(ctx context.Context, movieID string) (*response.MovieResponse, error) {
	movie, err := s.findMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *movieService) CreateMovie(ctx context.Context, p *utils.Principal, req *request.MovieRequest) (*response.MovieResponse, error) {
	if err := authorize(AdminOrReadOnly(http.MethodPost, p), p); err != nil {
		return nil, err
	}

	req.Normalize()
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, utils.Validation(errs)
	}

	movie := &entity.Movie{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now().UTC(),
		},
		Title:       req.Title,
		Description: req.Description,
		Genre:       req.Genre,
		ReleaseYear: req.ReleaseYear,
	}

	if err := s.repo.Movie.Create(ctx, movie); err != nil {
		return nil, fmt.Errorf("create movie: %w", err)
	}

	s.log.Info("Movie created",
		zap.String("movie_id", movie.ID.String()),
		zap.String("title", movie.Title),
		zap.String("by", p.Username),
	)

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *movieService) UpdateMovie(ctx context.Context, p *utils.Principal, movieID string, req *request.MovieRequest) (*response.MovieResponse, error) {
	if err := authorize(AdminOrReadOnly(http.MethodPut, p), p); err != nil {
		return nil, err
	}

	movie, err := s.findMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}

	req.Normalize()
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, utils.Validation(errs)
	}

	movie.Title = req.Title
	movie.Description = req.Description
	movie.Genre = req.Genre
	movie.ReleaseYear = req.ReleaseYear

	return s.save(ctx, movie)
}

func (s *movieService) PatchMovie(ctx context.Context, p *utils.Principal, movieID string, req *request.MovieUpdateRequest) (*response.MovieResponse, error) {
	if err := authorize(AdminOrReadOnly(http.MethodPatch, p), p); err != nil {
		return nil, err
	}

	movie, err := s.findMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}

	req.Normalize()
	errs := utils.ValidateStruct(req)
	if req.Title != nil && *req.Title == "" {
		if errs == nil {
			errs = utils.FieldErrors{}
		}
		errs.Add("title", "This field may not be blank.")
	}
	if len(errs) > 0 {
		return nil, utils.Validation(errs)
	}

	if req.Title != nil {
		movie.Title = *req.Title
	}
	if req.Description != nil {
		movie.Description = *req.Description
	}
	if req.Genre != nil {
		movie.Genre = *req.Genre
	}
	if req.ReleaseYear != nil {
		movie.ReleaseYear = req.ReleaseYear
	}

	return s.save(ctx, movie)
}

func (s *movieService) save(ctx context.Context, movie *entity.Movie) (*response.MovieResponse, error) {
	if err := s.repo.Movie.Update(ctx, movie); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFound()
		}
		return nil, fmt.Errorf("update movie: %w", err)
	}

	s.log.Info("Movie updated", zap.String("movie_id", movie.ID.String()))

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *movieService) DeleteMovie(ctx context.Context, p *utils.Principal, movieID string) error {
	if err := authorize(AdminOrReadOnly(http.MethodDelete, p), p); err != nil {
		return err
	}

	movie, err := s.findMovie(ctx, movieID)
	if err != nil {
		return err
	}

	if err := s.repo.Movie.Delete(ctx, movie.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NotFound()
		}
		return fmt.Errorf("delete movie: %w", err)
	}

	s.log.Info("Movie deleted",
		zap.String("movie_id", movie.ID.String()),
		zap.String("by", p.Username),
	)
	return nil
}
