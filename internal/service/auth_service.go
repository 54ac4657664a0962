package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-office-inventory/internal/model"
	"go-office-inventory/internal/repository"
	"go-office-inventory/pkg/jwt"

	"go.uber.org/zap"
)

type AuthService interface {
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,notblank"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *jwt.Manager
	logger   *zap.Logger
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager, logger *zap.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	// 1. Find user by username
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. Verify password before revealing account state
	if !user.CheckPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}

	// 3. Check if user is active
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	// 4. Generate JWT token
	token, err := s.tokens.GenerateToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		s.logger.Error("Failed to sign token", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, errors.New("failed to generate token")
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID.String()), zap.String("role", string(user.Role)))
	return &LoginResponse{Token: token, User: user.ToResponse()}, nil
}

// Authenticate resolves a bearer token to a live, active user
func (s *authService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, err.Error())
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: user no longer exists", ErrUnauthorized)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	return user, nil
}
