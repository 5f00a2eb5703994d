package todos

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskfolio/taskfolio/internal/shared"
)

// Repository defines persistence operations for the todos module. Every
// method that touches an existing row takes the owner id; a row belonging
// to someone else behaves exactly like a missing row.
type Repository interface {
	ListByOwner(ctx context.Context, ownerID int64) ([]Todo, error)
	GetForOwner(ctx context.Context, id, ownerID int64) (*Todo, error)
	Create(ctx context.Context, todo *Todo) (*Todo, error)
	Update(ctx context.Context, todo *Todo) error
	Delete(ctx context.Context, id, ownerID int64) error
	ToggleComplete(ctx context.Context, id, ownerID int64) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// ListByOwner returns all todos belonging to ownerID, oldest first.
func (r *PGRepository) ListByOwner(ctx context.Context, ownerID int64) ([]Todo, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, description, priority, complete, owner_id, created_at, updated_at
		 FROM todos WHERE owner_id = $1 ORDER BY id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Todo
	for rows.Next() {
		var todo Todo
		if err := rows.Scan(&todo.ID, &todo.Title, &todo.Description, &todo.Priority, &todo.Complete, &todo.OwnerID, &todo.CreatedAt, &todo.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// GetForOwner fetches a single todo constrained by owner.
func (r *PGRepository) GetForOwner(ctx context.Context, id, ownerID int64) (*Todo, error) {
	var todo Todo
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, description, priority, complete, owner_id, created_at, updated_at
		 FROM todos WHERE id = $1 AND owner_id = $2`, id, ownerID).
		Scan(&todo.ID, &todo.Title, &todo.Description, &todo.Priority, &todo.Complete, &todo.OwnerID, &todo.CreatedAt, &todo.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &todo, nil
}

// Create inserts a new todo row.
func (r *PGRepository) Create(ctx context.Context, todo *Todo) (*Todo, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO todos (title, description, priority, complete, owner_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		todo.Title, todo.Description, todo.Priority, todo.Complete, todo.OwnerID).
		Scan(&todo.ID, &todo.CreatedAt, &todo.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return todo, nil
}

// Update rewrites title, description and priority of an owned todo.
func (r *PGRepository) Update(ctx context.Context, todo *Todo) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE todos SET title = $1, description = $2, priority = $3, updated_at = now()
		 WHERE id = $4 AND owner_id = $5`,
		todo.Title, todo.Description, todo.Priority, todo.ID, todo.OwnerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes an owned todo.
func (r *PGRepository) Delete(ctx context.Context, id, ownerID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM todos WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ToggleComplete flips the complete flag of an owned todo.
func (r *PGRepository) ToggleComplete(ctx context.Context, id, ownerID int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE todos SET complete = NOT complete, updated_at = now()
		 WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
