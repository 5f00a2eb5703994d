package todos

import (
	"context"
	"fmt"

	"github.com/taskfolio/taskfolio/internal/shared"
)

// Service handles todo business logic on behalf of one authenticated owner
// per call.
type Service struct {
	repo Repository
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the owner's todos.
func (s *Service) List(ctx context.Context, ownerID int64) ([]Todo, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// Get fetches one owned todo.
func (s *Service) Get(ctx context.Context, id, ownerID int64) (*Todo, error) {
	return s.repo.GetForOwner(ctx, id, ownerID)
}

// Create stores a new, not yet completed todo for the owner.
func (s *Service) Create(ctx context.Context, ownerID int64, title, description string, priority int) (*Todo, error) {
	if err := checkPriority(priority); err != nil {
		return nil, err
	}
	todo := &Todo{
		Title:       title,
		Description: description,
		Priority:    priority,
		Complete:    false,
		OwnerID:     ownerID,
	}
	return s.repo.Create(ctx, todo)
}

// Update rewrites an owned todo's editable fields.
func (s *Service) Update(ctx context.Context, id, ownerID int64, title, description string, priority int) error {
	if err := checkPriority(priority); err != nil {
		return err
	}
	return s.repo.Update(ctx, &Todo{
		ID:          id,
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Priority:    priority,
	})
}

// Delete removes an owned todo.
func (s *Service) Delete(ctx context.Context, id, ownerID int64) error {
	return s.repo.Delete(ctx, id, ownerID)
}

// ToggleComplete flips the complete flag of an owned todo.
func (s *Service) ToggleComplete(ctx context.Context, id, ownerID int64) error {
	return s.repo.ToggleComplete(ctx, id, ownerID)
}

func checkPriority(priority int) error {
	if priority < MinPriority || priority > MaxPriority {
		return fmt.Errorf("%w: priority must be between %d and %d", shared.ErrValidation, MinPriority, MaxPriority)
	}
	return nil
}
