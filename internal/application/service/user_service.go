package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/matconsys/matcon-api/internal/domain/entity"
	"github.com/matconsys/matcon-api/internal/domain/repository"
	"github.com/matconsys/matcon-api/pkg/apperror"
	"github.com/matconsys/matcon-api/pkg/pagination"
)

// UserService handles user administration
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewStoreFailureError("fetch user", err)
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

// ListUsers lists users with an optional search term
func (s *UserService) ListUsers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.User], error) {
	users, total, err := s.userRepo.List(ctx, params, search)
	if err != nil {
		return nil, apperror.NewStoreFailureError("list users", err)
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(users, pag), nil
}

// UpdateUserInput represents the update user input
type UpdateUserInput struct {
	FirstName   *string
	LastName    *string
	PhoneNumber *string
	IsActive    *bool
}

// UpdateUser updates a user's profile fields
func (s *UserService) UpdateUser(ctx context.Context, id uuid.UUID, input *UpdateUserInput) (*entity.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.PhoneNumber != nil {
		user.PhoneNumber = input.PhoneNumber
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, apperror.NewStoreFailureError("update user", err)
	}
	return user, nil
}

// AssignRole grants a role to a user
func (s *UserService) AssignRole(ctx context.Context, userID uuid.UUID, roleName string) (*entity.User, error) {
	role, err := s.userRepo.GetRoleByName(ctx, roleName)
	if err != nil {
		return nil, apperror.NewStoreFailureError("fetch role", err)
	}
	if role == nil {
		return nil, apperror.NewNotFoundError("Role")
	}

	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.userRepo.AssignRole(ctx, userID, roleName); err != nil {
		return nil, apperror.NewStoreFailureError("assign role", err)
	}
	return s.GetUser(ctx, userID)
}

// DeactivateUser disables a user account without deleting its history
func (s *UserService) DeactivateUser(ctx context.Context, id uuid.UUID) error {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}
	user.IsActive = false
	if err := s.userRepo.Update(ctx, user); err != nil {
		return apperror.NewStoreFailureError("deactivate user", err)
	}
	return nil
}
