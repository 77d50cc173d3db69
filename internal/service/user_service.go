package service

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"portfolio/internal/auth"
	apperrors "portfolio/internal/errors"
	"portfolio/internal/model"
	"portfolio/internal/repository"
)

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	FullName        string
	Email           string
	Password        string
	ConfirmPassword string
	Age             *int
}

// ProfileUpdate is a partial self-update. Nil fields are left untouched.
type ProfileUpdate struct {
	FullName *string
	Age      *int
}

// UserService handles registration, authentication and account management.
type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	List(ctx context.Context) ([]model.User, error)
	UpdateProfile(ctx context.Context, userID uint, patch ProfileUpdate) (*model.User, error)
	Delete(ctx context.Context, id uint) error
}

type userService struct {
	repo   repository.UserRepository
	tokens *auth.JWTService
}

// NewUserService creates a new user service.
func NewUserService(repo repository.UserRepository, tokens *auth.JWTService) UserService {
	return &userService{repo: repo, tokens: tokens}
}

// Register creates a user with a hashed password and role "user", then issues
// a token for the new identity.
func (s *userService) Register(ctx context.Context, input RegisterInput) (*model.User, string, error) {
	if input.FullName == "" || input.Email == "" || input.Password == "" || input.ConfirmPassword == "" {
		return nil, "", apperrors.NewValidation("Please provide all required fields")
	}
	if input.Password != input.ConfirmPassword {
		return nil, "", apperrors.NewValidation("Passwords do not match")
	}

	email := normalizeEmail(input.Email)

	existing, err := s.repo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, "", apperrors.ErrDuplicateEmail
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, "", fmt.Errorf("check user existence: %w", err)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		FullName:     strings.TrimSpace(input.FullName),
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleUser,
		Age:          input.Age,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return user, token, nil
}

// Login authenticates a user and issues a token. Unknown email and wrong
// password produce the same error so neither is leaked.
func (s *userService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	if email == "" || password == "" {
		return nil, "", apperrors.NewValidation("Please provide email and password")
	}

	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, "", apperrors.ErrInvalidCredentials
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return user, token, nil
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

// UpdateProfile applies a partial update to the caller's own record.
func (s *userService) UpdateProfile(ctx context.Context, userID uint, patch ProfileUpdate) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if patch.FullName != nil {
		name := strings.TrimSpace(*patch.FullName)
		if name == "" {
			return nil, apperrors.NewValidation("Full name cannot be empty")
		}
		user.FullName = name
	}
	if patch.Age != nil {
		user.Age = patch.Age
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}
	return s.repo.Delete(ctx, id)
}

// normalizeEmail folds email addresses to lowercase so lookups cannot diverge
// on letter case.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
