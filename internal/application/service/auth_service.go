package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/matconsys/matcon-api/internal/domain/entity"
	"github.com/matconsys/matcon-api/internal/domain/repository"
	"github.com/matconsys/matcon-api/pkg/apperror"
	"github.com/matconsys/matcon-api/pkg/utils"
)

// AuthService handles authentication-related operations
type AuthService struct {
	userRepo   repository.UserRepository
	jwtManager *utils.JWTManager
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, jwtManager *utils.JWTManager) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User         *entity.User
	AccessToken  string
	RefreshToken string
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, apperror.NewStoreFailureError("fetch user", err)
	}
	if user == nil {
		return nil, apperror.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperror.ErrForbidden
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		return nil, apperror.ErrInvalidCredentials
	}

	roles := make([]string, 0, len(user.Roles))
	permissionSet := make(map[string]struct{})
	for _, role := range user.Roles {
		roles = append(roles, role.Name)
		for _, p := range role.Permissions {
			permissionSet[p.Name] = struct{}{}
		}
	}
	permissions := make([]string, 0, len(permissionSet))
	for name := range permissionSet {
		permissions = append(permissions, name)
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, roles, permissions)
	if err != nil {
		return nil, apperror.ErrInternalServer
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, apperror.ErrInternalServer
	}

	// login timestamp is best effort
	now := time.Now()
	user.LastLoginAt = &now
	_ = s.userRepo.Update(ctx, user)

	return &LoginOutput{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// RegisterInput represents the registration input
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      string
}

// Register creates a new user account. New accounts default to the cashier
// role unless another is requested by an administrator.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*entity.User, error) {
	if input.Email == "" || input.Password == "" {
		return nil, apperror.NewBadRequestError("Email and password are required")
	}
	if len(input.Password) < 8 {
		return nil, apperror.NewBadRequestError("Password must be at least 8 characters")
	}

	existingUser, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, apperror.NewStoreFailureError("check email", err)
	}
	if existingUser != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, apperror.ErrInternalServer
	}

	user := &entity.User{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Password:  hashedPassword,
		IsActive:  true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperror.NewStoreFailureError("create user", err)
	}

	role := input.Role
	if role == "" {
		role = "cashier"
	}
	if err := s.userRepo.AssignRole(ctx, user.ID, role); err != nil {
		return nil, apperror.NewStoreFailureError("assign role", err)
	}

	return s.GetProfile(ctx, user.ID)
}

// RefreshToken exchanges a valid refresh token for a new token pair
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.NewStoreFailureError("fetch user", err)
	}
	if user == nil || !user.IsActive {
		return nil, apperror.ErrUnauthorized
	}

	roles := make([]string, 0, len(user.Roles))
	permissionSet := make(map[string]struct{})
	for _, role := range user.Roles {
		roles = append(roles, role.Name)
		for _, p := range role.Permissions {
			permissionSet[p.Name] = struct{}{}
		}
	}
	permissions := make([]string, 0, len(permissionSet))
	for name := range permissionSet {
		permissions = append(permissions, name)
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, roles, permissions)
	if err != nil {
		return nil, apperror.ErrInternalServer
	}
	newRefreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, apperror.ErrInternalServer
	}

	return &LoginOutput{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// GetProfile retrieves a user with roles and permissions
func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.NewStoreFailureError("fetch user", err)
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

// ChangePasswordInput represents the change password input
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

// ChangePassword updates the user's password after verifying the current one
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, input *ChangePasswordInput) error {
	if len(input.NewPassword) < 8 {
		return apperror.NewBadRequestError("Password must be at least 8 characters")
	}

	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	if !utils.CheckPasswordHash(input.CurrentPassword, user.Password) {
		return apperror.ErrInvalidCredentials
	}

	hashedPassword, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return apperror.ErrInternalServer
	}

	user.Password = hashedPassword
	if err := s.userRepo.Update(ctx, user); err != nil {
		return apperror.NewStoreFailureError("update password", err)
	}
	return nil
}
