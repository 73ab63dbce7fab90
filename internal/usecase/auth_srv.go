package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"movie-review/internal/data/entity"
	"movie-review/internal/data/repository"
	"movie-review/internal/dto/request"
	"movie-review/internal/dto/response"
	"movie-review/pkg/token"
	"movie-review/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgNoActiveAccount = "No active account found with the given credentials"
	msgTokenInvalid    = "Token is invalid or expired"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.RegisterResponse, error)
	Token(ctx context.Context, req *request.TokenRequest) (*response.TokenPairResponse, error)
	Refresh(ctx context.Context, req *request.RefreshRequest) (*response.AccessTokenResponse, error)
	// Authenticate resolves an access token to the active user behind it.
	Authenticate(ctx context.Context, accessToken string) (*utils.Principal, error)
}

type authService struct {
	repo   *repository.Repository
	tokens *token.Manager
	log    *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	tokens *token.Manager,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		tokens: tokens,
		log:    log.With(zap.String("service", "auth")),
	}
}

// Register creates a regular user. Its validation failures are reported
// without the error envelope.
func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.RegisterResponse, error) {
	// 1. Field validation, then uniqueness of the fields that passed it
	req.Normalize()
	errs := utils.ValidateStruct(req)
	if errs == nil {
		errs = utils.FieldErrors{}
	}

	if _, invalid := errs["email"]; !invalid {
		existing, err := s.repo.User.FindByEmail(ctx, req.Email)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if existing != nil {
			errs.Add("email", "A user with this email already exists.")
		}
	}

	if _, invalid := errs["username"]; !invalid {
		existing, err := s.repo.User.FindByUsername(ctx, req.Username)
		if err != nil {
			return nil, fmt.Errorf("check username: %w", err)
		}
		if existing != nil {
			errs.Add("username", "A user with that username already exists.")
		}
	}

	if len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.String("errors", utils.FormatValidationErrors(errs)))
		return nil, utils.Validation(errs).Unwrapped()
	}

	// 2. Passwords must match
	if req.Password != req.PasswordConfirm {
		return nil, utils.FieldError("password", "Passwords do not match.").Unwrapped()
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		IsActive:     true,
		DateJoined:   time.Now().UTC(),
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, utils.FieldError("username", "A user with that username already exists.").Unwrapped()
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("New user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
	)

	return &response.RegisterResponse{
		Message: "User registered successfully.",
		User:    response.UserToResponse(user, 0),
	}, nil
}

func (s *authService) Token(ctx context.Context, req *request.TokenRequest) (*response.TokenPairResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, utils.Validation(errs)
	}

	user, err := s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil || !user.IsActive || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Token request rejected", zap.String("username", req.Username))
		return nil, utils.AuthFailed(msgNoActiveAccount)
	}

	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token pair: %w", err)
	}

	s.log.Info("Token pair issued", zap.String("user_id", user.ID.String()))
	return &response.TokenPairResponse{Refresh: pair.Refresh, Access: pair.Access}, nil
}

func (s *authService) Refresh(ctx context.Context, req *request.RefreshRequest) (*response.AccessTokenResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, utils.Validation(errs)
	}

	access, err := s.tokens.Refresh(req.Refresh)
	if err != nil {
		if errors.Is(err, token.ErrInvalid) || errors.Is(err, token.ErrWrongType) {
			return nil, utils.AuthFailed(msgTokenInvalid)
		}
		return nil, fmt.Errorf("refresh token: %w", err)
	}

	return &response.AccessTokenResponse{Access: access}, nil
}

func (s *authService) Authenticate(ctx context.Context, accessToken string) (*utils.Principal, error) {
	claims, err := s.tokens.Validate(accessToken, token.TypeAccess)
	if err != nil {
		return nil, utils.AuthFailed("Given token not valid for any token type")
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, utils.AuthFailed("Given token not valid for any token type")
	}

	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load token user: %w", err)
	}
	if user == nil {
		return nil, utils.AuthFailed("User not found")
	}
	if !user.IsActive {
		return nil, utils.AuthFailed("User is inactive")
	}

	return &utils.Principal{
		UserID:   user.ID,
		Username: user.Username,
		IsStaff:  user.IsStaff,
	}, nil
}
