package usecase

import (
	"context"
	"errors"
	"fmt"

	"movie-review/internal/data/entity"
	"movie-review/internal/data/repository"
	"movie-review/internal/dto/request"
	"movie-review/internal/dto/response"
	"movie-review/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	GetProfile(ctx context.Context, p *utils.Principal, userID string) (*response.UserResponse, error)
	GetAllUsers(ctx context.Context, p *utils.Principal, q *request.UserListQuery) (*response.PaginatedResponse[response.UserResponse], error)
	DeleteUser(ctx context.Context, p *utils.Principal, userID string) error
}

type userService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewUserService(repo *repository.Repository, log *zap.Logger) UserService {
	return &userService{
		repo: repo,
		log:  log.With(zap.String("service", "user")),
	}
}

func (us *userService) toResponse(ctx context.Context, user *entity.User) (response.UserResponse, error) {
	count, err := us.repo.Review.CountByUserID(ctx, user.ID)
	if err != nil {
		return response.UserResponse{}, fmt.Errorf("count reviews of user %s: %w", user.ID.String(), err)
	}
	return response.UserToResponse(user, count), nil
}

func (us *userService) findUser(ctx context.Context, userID string) (*entity.User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		us.log.Debug("Invalid user ID", zap.String("user_id", userID))
		return nil, utils.NotFound()
	}

	user, err := us.repo.User.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, utils.NotFound()
	}
	return user, nil
}

func (us *userService) GetProfile(ctx context.Context, p *utils.Principal, userID string) (*response.UserResponse, error) {
	if !p.IsAuthenticated() {
		return nil, utils.NotAuthenticated()
	}

	user, err := us.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp, err := us.toResponse(ctx, user)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (us *userService) GetAllUsers(ctx context.Context, p *utils.Principal, q *request.UserListQuery) (*response.PaginatedResponse[response.UserResponse], error) {
	if !p.IsAuthenticated() {
		return nil, utils.NotAuthenticated()
	}

	total, err := us.repo.User.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	if err := checkPage(q.Page, total); err != nil {
		return nil, err
	}

	users, err := us.repo.User.FindAll(ctx, toPage(q.Page))
	if err != nil {
		return nil, fmt.Errorf("get users: %w", err)
	}

	userResponses := make([]response.UserResponse, 0, len(users))
	for _, user := range users {
		resp, err := us.toResponse(ctx, user)
		if err != nil {
			return nil, err
		}
		userResponses = append(userResponses, resp)
	}

	us.log.Debug("Users retrieved",
		zap.Int("count", len(users)),
		zap.Int64("total", total),
		zap.Int("page", q.Page.Page),
		zap.Int("total_pages", q.Page.TotalPages(total)),
	)

	return response.NewPaginatedResponse(userResponses, total, q.Page, q.BaseURL), nil
}

// DeleteUser is restricted to staff; the user's reviews are removed with them.
func (us *userService) DeleteUser(ctx context.Context, p *utils.Principal, userID string) error {
	if !p.IsAuthenticated() {
		return utils.NotAuthenticated()
	}
	if !p.IsStaff {
		return utils.Forbidden()
	}

	user, err := us.findUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := us.repo.User.Delete(ctx, user.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NotFound()
		}
		return fmt.Errorf("delete user: %w", err)
	}

	us.log.Info("User deleted",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("by", p.Username),
	)
	return nil
}
