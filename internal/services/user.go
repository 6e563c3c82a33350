package services

import (
	"context"
	"errors"
	"fmt"

	"couple-journal-backend/internal/apperr"
	"couple-journal-backend/internal/models"
	"couple-journal-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// TokenIssuer signs session tokens for new users
type TokenIssuer interface {
	Generate(userID string) (string, error)
}

// UserService handles user-related business logic
type UserService struct {
	store  *repository.Store
	tokens TokenIssuer
}

// NewUserService creates a new user service
func NewUserService(store *repository.Store, tokens TokenIssuer) *UserService {
	return &UserService{store: store, tokens: tokens}
}

// CreatedUser is a freshly registered user together with its bearer token
type CreatedUser struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// CreateUser registers a user and issues a token for it
func (s *UserService) CreateUser(ctx context.Context, name, email string, image *string) (*CreatedUser, error) {
	user := &models.User{
		ID:    uuid.New().String(),
		Name:  &name,
		Email: &email,
		Image: image,
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if err := s.store.Users.Create(ctx, user); err != nil {
		if _, ok := repository.UniqueViolation(err); ok {
			return nil, apperr.Conflict("Email already registered", map[string]string{"target": "email"})
		}
		return nil, err
	}

	log.Info().Str("user_id", user.ID).Msg("User created")
	return &CreatedUser{User: user, Token: token}, nil
}

// Me returns the caller's profile
func (s *UserService) Me(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.store.Users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("User not found")
	}
	return u, err
}

// Update changes the caller's profile
func (s *UserService) Update(ctx context.Context, userID string, patch models.UserPatch) (*models.User, error) {
	u, err := s.store.Users.Update(ctx, userID, patch)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("User not found")
	}
	return u, err
}
