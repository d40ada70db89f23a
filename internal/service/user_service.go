package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/nig3l/OPTACOMP-InventorySystems/internal/model"
	"github.com/nig3l/OPTACOMP-InventorySystems/internal/repository"
	"github.com/nig3l/OPTACOMP-InventorySystems/pkg/validator"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type UserService interface {
	Register(ctx context.Context, req *RegisterRequest) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	List(ctx context.Context, skip, limit int) ([]model.UserResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *UpdateUserRequest) (*model.User, error)
	ResetPassword(ctx context.Context, email, newPassword string) error
	EnsureSuperadmin(ctx context.Context, email, password string) (bool, error)
}

type RegisterRequest struct {
	Email    string     `json:"email" validate:"required,email"`
	Password string     `json:"password" validate:"required,min=8"`
	FullName string     `json:"full_name"`
	Role     model.Role `json:"role" validate:"omitempty,oneof=superadmin staff intern"`
	IsActive *bool      `json:"is_active"`
}

// UpdateUserRequest only touches the fields that are present.
type UpdateUserRequest struct {
	Email    *string     `json:"email" validate:"omitempty,email"`
	FullName *string     `json:"full_name"`
	Password *string     `json:"password" validate:"omitempty,min=8"`
	Role     *model.Role `json:"role" validate:"omitempty,oneof=superadmin staff intern"`
	IsActive *bool       `json:"is_active"`
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Register(ctx context.Context, req *RegisterRequest) (*model.User, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validator.Check(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if err := s.ensureEmailFree(ctx, req.Email); err != nil {
		return nil, err
	}

	user := &model.User{
		Email:    req.Email,
		FullName: req.FullName,
		Role:     req.Role,
		IsActive: true,
	}
	if user.Role == "" {
		user.Role = model.RoleStaff
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	log.Info().Str("user_id", user.ID.String()).Str("role", string(user.Role)).Msg("user registered")
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, skip, limit int) ([]model.UserResponse, error) {
	users, err := s.userRepo.List(ctx, skip, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]model.UserResponse, len(users))
	for i := range users {
		responses[i] = users[i].ToResponse()
	}
	return responses, nil
}

func (s *userService) Update(ctx context.Context, id uuid.UUID, req *UpdateUserRequest) (*model.User, error) {
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		req.Email = &email
	}
	if err := validator.Check(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != user.Email {
		if err := s.ensureEmailFree(ctx, *req.Email); err != nil {
			return nil, err
		}
		user.Email = *req.Email
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Password != nil {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) ResetPassword(ctx context.Context, email, newPassword string) error {
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if repository.IsNotFound(err) {
			return fmt.Errorf("%w: user %s not found", ErrNotFound, email)
		}
		return err
	}

	if err := user.SetPassword(newPassword); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.userRepo.UpdatePassword(ctx, user.ID, user.Password)
}

// EnsureSuperadmin creates the bootstrap superadmin unless the email is
// already registered. It reports whether a user was created.
func (s *userService) EnsureSuperadmin(ctx context.Context, email, password string) (bool, error) {
	_, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err == nil {
		return false, nil
	}
	if !repository.IsNotFound(err) {
		return false, err
	}

	_, err = s.Register(ctx, &RegisterRequest{
		Email:    email,
		Password: password,
		FullName: "Administrator",
		Role:     model.RoleSuperadmin,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *userService) ensureEmailFree(ctx context.Context, email string) error {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return ErrEmailExists
	}
	if err != nil && !repository.IsNotFound(err) {
		return err
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
