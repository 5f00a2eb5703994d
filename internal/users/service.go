package users

import (
	"context"

	"github.com/taskfolio/taskfolio/internal/auth"
	"github.com/taskfolio/taskfolio/internal/shared"
)

// Service handles account maintenance for the authenticated user.
type Service struct {
	creds auth.Repository
	repo  Repository
}

// NewService builds a Service instance.
func NewService(creds auth.Repository, repo Repository) *Service {
	return &Service{creds: creds, repo: repo}
}

// ChangePassword re-verifies the current password before storing a new
// hash. The submitted username must match the authenticated identity; any
// failure collapses to shared.ErrInvalidCredentials.
func (s *Service) ChangePassword(ctx context.Context, identity *shared.Identity, username, current, next string) error {
	if username != identity.Username {
		return shared.ErrInvalidCredentials
	}
	user, err := s.creds.FindByUsername(ctx, username)
	if err != nil {
		return shared.ErrInvalidCredentials
	}
	if !auth.VerifyPassword(current, user.HashedPassword) {
		return shared.ErrInvalidCredentials
	}
	hashed, err := auth.HashPassword(next)
	if err != nil {
		return err
	}
	return s.creds.UpdatePassword(ctx, user.ID, hashed)
}

// Address returns the user's stored address, or nil when none exists yet.
func (s *Service) Address(ctx context.Context, userID int64) (*Address, error) {
	addr, err := s.repo.GetAddress(ctx, userID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return addr, nil
}

// SaveAddress creates or updates the user's address.
func (s *Service) SaveAddress(ctx context.Context, userID int64, addr *Address) error {
	return s.repo.SaveAddress(ctx, userID, addr)
}
