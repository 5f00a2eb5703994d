package auth

import (
	"context"
	"errors"
	"time"

	"github.com/taskfolio/taskfolio/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo     Repository
	codec    *Codec
	loginTTL time.Duration
}

// NewService constructs a new Service. loginTTL is the validity window of
// tokens minted by a fresh login.
func NewService(repo Repository, codec *Codec, loginTTL time.Duration) *Service {
	return &Service{repo: repo, codec: codec, loginTTL: loginTTL}
}

// RegisterParams carries the fields collected by the registration form.
type RegisterParams struct {
	Username    string
	Email       string
	FirstName   string
	LastName    string
	PhoneNumber string
}

// Register creates a new active account with a freshly computed hash.
// The username/email pre-check keeps the common case friendly; the unique
// constraint in the repository remains the backstop for the race between
// concurrent registrations.
func (s *Service) Register(ctx context.Context, params RegisterParams, password string) (*User, error) {
	if _, err := s.repo.FindByUsername(ctx, params.Username); err == nil {
		return nil, shared.ErrDuplicateIdentity
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if params.Email != "" {
		if _, err := s.repo.FindByEmail(ctx, params.Email); err == nil {
			return nil, shared.ErrDuplicateIdentity
		} else if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &User{
		Username:       params.Username,
		Email:          params.Email,
		FirstName:      params.FirstName,
		LastName:       params.LastName,
		HashedPassword: hashed,
		IsActive:       true,
	}
	if params.PhoneNumber != "" {
		user.PhoneNumber = &params.PhoneNumber
	}
	return s.repo.Create(ctx, user)
}

// Authenticate validates username/password credentials. Every failure
// collapses to shared.ErrInvalidCredentials so the caller cannot tell an
// unknown username from a wrong password.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if !VerifyPassword(password, user.HashedPassword) {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// IssueToken mints a session token for an authenticated user using the
// login validity window.
func (s *Service) IssueToken(user *User) (string, error) {
	return s.codec.Mint(user.Username, user.Email, user.ID, s.loginTTL)
}

// LoginTTL exposes the configured login token lifetime.
func (s *Service) LoginTTL() time.Duration {
	return s.loginTTL
}
