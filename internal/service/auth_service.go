package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/kavi/kavi-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// AuthService maps authenticated Auth0 subjects to users
type AuthService struct {
	userRepo domain.UserRepository
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo domain.UserRepository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
	}
}

// EnsureUser returns the user of an Auth0 subject, creating it on first sight
func (s *AuthService) EnsureUser(ctx context.Context, auth0ID, email string) (*domain.User, error) {
	user, err := s.userRepo.CreateOrGetByAuth0ID(ctx, auth0ID, email)
	if err != nil {
		log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Failed to create or get user")
		return nil, err
	}
	return user, nil
}

// ResolveUser implements middleware.UserProvider
func (s *AuthService) ResolveUser(ctx context.Context, auth0ID, email string) (uuid.UUID, error) {
	user, err := s.EnsureUser(ctx, auth0ID, email)
	if err != nil {
		return uuid.Nil, err
	}
	return user.ID, nil
}

// ResolveUserID looks up an existing user without creating one
func (s *AuthService) ResolveUserID(ctx context.Context, auth0ID string) (uuid.UUID, error) {
	user, err := s.userRepo.GetByAuth0ID(ctx, auth0ID)
	if err != nil {
		return uuid.Nil, err
	}
	return user.ID, nil
}

// GetUserByAuth0ID retrieves a user by their Auth0 ID
func (s *AuthService) GetUserByAuth0ID(ctx context.Context, auth0ID string) (*domain.User, error) {
	return s.userRepo.GetByAuth0ID(ctx, auth0ID)
}
