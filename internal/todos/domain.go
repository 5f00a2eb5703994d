package todos

import "time"

// Priority bounds for a todo item.
const (
	MinPriority = 1
	MaxPriority = 5
)

// Todo is a single task owned by exactly one user. All reads and writes
// are constrained by OwnerID so a guessed id never reaches another user's
// record.
type Todo struct {
	ID          int64
	Title       string
	Description string
	Priority    int
	Complete    bool
	OwnerID     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
