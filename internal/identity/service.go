package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service manages identity lifecycle.
type Service struct {
	repo Repository
}

// NewService creates a new identity service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a user from the supplied profile. The username and email
// must not already be present; either collision yields ErrConflict.
func (s *Service) Register(ctx context.Context, profile Profile) (User, error) {
	if profile.Username == "" {
		return User{}, fmt.Errorf("username is required")
	}
	if profile.Email == "" {
		return User{}, fmt.Errorf("email is required")
	}

	if _, err := s.repo.FindByUsername(ctx, profile.Username); err == nil {
		return User{}, ErrConflict
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}
	if _, err := s.repo.FindByEmail(ctx, profile.Email); err == nil {
		return User{}, ErrConflict
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	user := User{
		ID:          uuid.New().String(),
		Name:        profile.Name,
		Surname:     profile.Surname,
		Username:    profile.Username,
		PhoneNumber: profile.PhoneNumber,
		Email:       profile.Email,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, err
	}

	return user, nil
}

// FindByUsername resolves a username to its user record.
func (s *Service) FindByUsername(ctx context.Context, username string) (User, error) {
	return s.repo.FindByUsername(ctx, username)
}

// FindByEmail resolves an email address to its user record.
func (s *Service) FindByEmail(ctx context.Context, email string) (User, error) {
	return s.repo.FindByEmail(ctx, email)
}

// FindByID resolves a user identifier to its record.
func (s *Service) FindByID(ctx context.Context, id string) (User, error) {
	return s.repo.FindByID(ctx, id)
}
