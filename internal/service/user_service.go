package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/gradeflow/gradeflow-backend/internal/model"
	"github.com/gradeflow/gradeflow-backend/internal/repository"
	"github.com/rs/zerolog"
)

// UserService manages the account directory.
type UserService struct {
	users *repository.UserRepository
	auth  *AuthService
	log   zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(users *repository.UserRepository, auth *AuthService, log zerolog.Logger) *UserService {
	return &UserService{
		users: users,
		auth:  auth,
		log:   log.With().Str("component", "user_service").Logger(),
	}
}

// CreateUser provisions an account. New accounts start active.
func (s *UserService) CreateUser(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		Role:         req.Role,
		Status:       model.UserStatusActive,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("user_id", user.ID.String()).
		Str("role", string(user.Role)).
		Msg("user created")
	return user, nil
}

// GetUser fetches a single account by id.
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.users.ResolveByID(ctx, id)
}

// ListUsers lists accounts, optionally filtered by role.
func (s *UserService) ListUsers(ctx context.Context, role *model.UserRole) ([]model.User, error) {
	if role != nil {
		return s.users.ListByRole(ctx, *role)
	}
	return s.users.List(ctx)
}
