package service

import (
	"context"
	"strings"

	"go-office-inventory/internal/config"
	"go-office-inventory/internal/model"
	"go-office-inventory/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	ListOfficeBoys(ctx context.Context) ([]model.UserResponse, error)
	CreateOfficeBoy(ctx context.Context, req *CreateUserRequest, creatorID string) (*model.UserResponse, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req *UpdateUserRequest, updaterID string) (*model.UserResponse, error)
	ResetPassword(ctx context.Context, username, newPassword string) error
	SeedAdmin(ctx context.Context, admin config.AdminConfig) error
}

type CreateUserRequest struct {
	FullName string `json:"full_name" validate:"required,notblank,max=255"`
	Username string `json:"username" validate:"required,notblank,max=100"`
	Password string `json:"password" validate:"required,min=6"`
}

// UpdateUserRequest only touches the fields that are present
type UpdateUserRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,notblank,max=255"`
	Username *string `json:"username" validate:"omitempty,notblank,max=100"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	IsActive *bool   `json:"is_active"`
}

// Fields maps the present fields onto their columns. The password is hashed here.
func (r *UpdateUserRequest) Fields() (map[string]interface{}, error) {
	fields := map[string]interface{}{}
	if r.FullName != nil {
		fields["full_name"] = strings.TrimSpace(*r.FullName)
	}
	if r.Username != nil {
		fields["username"] = strings.TrimSpace(*r.Username)
	}
	if r.Password != nil {
		hashed, err := model.HashPassword(*r.Password)
		if err != nil {
			return nil, err
		}
		fields["password_hash"] = hashed
	}
	if r.IsActive != nil {
		fields["is_active"] = *r.IsActive
	}
	return fields, nil
}

type userService struct {
	userRepo repository.UserRepository
	logger   *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, logger *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		logger:   logger,
	}
}

func (s *userService) ListOfficeBoys(ctx context.Context) ([]model.UserResponse, error) {
	users, err := s.userRepo.FindByRole(ctx, model.RoleOfficeBoy)
	if err != nil {
		return nil, err
	}

	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}

func (s *userService) CreateOfficeBoy(ctx context.Context, req *CreateUserRequest, creatorID string) (*model.UserResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user := &model.User{
		FullName: strings.TrimSpace(req.FullName),
		Username: strings.TrimSpace(req.Username),
		Role:     model.RoleOfficeBoy,
		IsActive: true,
	}
	user.CreatedBy = creatorID
	user.UpdatedBy = creatorID

	if err := user.SetPassword(req.Password); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}

	s.logger.Info("Office boy created", zap.String("user_id", user.ID.String()), zap.String("username", user.Username))
	response := user.ToResponse()
	return &response, nil
}

func (s *userService) UpdateUser(ctx context.Context, id uuid.UUID, req *UpdateUserRequest, updaterID string) (*model.UserResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	fields, err := req.Fields()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, validationError("no fields to update")
	}
	fields["updated_by"] = updaterID

	affected, err := s.userRepo.UpdateFields(ctx, id, fields)
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}
	if affected == 0 {
		return nil, ErrUserNotFound
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := user.ToResponse()
	return &response, nil
}

func (s *userService) ResetPassword(ctx context.Context, username, newPassword string) error {
	if len(newPassword) < 6 {
		return validationError("password must be at least 6 characters")
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if isNotFound(err) {
			return ErrUserNotFound
		}
		return err
	}

	hashed, err := model.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(ctx, user.ID, hashed)
}

// SeedAdmin creates the configured admin account unless the username is already taken
func (s *userService) SeedAdmin(ctx context.Context, admin config.AdminConfig) error {
	_, err := s.userRepo.FindByUsername(ctx, admin.Username)
	if err == nil {
		return nil
	}
	if !isNotFound(err) {
		return err
	}

	user := &model.User{
		FullName: admin.FullName,
		Username: admin.Username,
		Role:     model.RoleAdmin,
		IsActive: true,
	}
	user.CreatedBy = "system"
	user.UpdatedBy = "system"
	if err := user.SetPassword(admin.Password); err != nil {
		return err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if isDuplicate(err) {
			return nil
		}
		return err
	}

	s.logger.Info("Admin account seeded", zap.String("username", admin.Username))
	return nil
}
