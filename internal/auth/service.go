package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/safepay-connect/safepay/internal/config"
	"github.com/safepay-connect/safepay/internal/identity"
)

// ErrInvalidCredentials indicates the supplied password does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service maps credentials to identities and issues bearer tokens.
type Service struct {
	cfg   config.Config
	ids   identity.Repository
	creds Repository
}

// NewService creates a credential service.
func NewService(cfg config.Config, ids identity.Repository, creds Repository) *Service {
	return &Service{cfg: cfg, ids: ids, creds: creds}
}

// SetPassword hashes and stores the password for a newly registered user.
func (s *Service) SetPassword(ctx context.Context, userID, password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.creds.Save(ctx, userID, hash)
}

// Login verifies an email/password pair and issues a bearer token for the
// matching identity. Unknown emails surface identity.ErrNotFound; a wrong
// password surfaces ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (identity.User, string, error) {
	user, err := s.ids.FindByEmail(ctx, email)
	if err != nil {
		return identity.User{}, "", err
	}

	hash, err := s.creds.Find(ctx, user.ID)
	if err != nil {
		return identity.User{}, "", err
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return identity.User{}, "", ErrInvalidCredentials
	}

	token, err := s.issue(user)
	if err != nil {
		return identity.User{}, "", err
	}
	return user, token, nil
}

// Verify validates a bearer token and returns the subject user id it carries.
func (s *Service) Verify(token string) (string, error) {
	claims, err := ParseAndVerifyHS256(token, []byte(s.cfg.TokenSecret))
	if err != nil {
		return "", err
	}
	if exp, ok := claims["exp"].(float64); ok && time.Now().Unix() > int64(exp) {
		return "", errors.New("token expired")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", errors.New("missing subject claim")
	}
	return sub, nil
}

func (s *Service) issue(user identity.User) (string, error) {
	now := time.Now()
	claims := map[string]any{
		"sub":      user.ID,
		"username": user.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(s.cfg.TokenTTL).Unix(),
	}
	return SignHS256(claims, []byte(s.cfg.TokenSecret))
}
