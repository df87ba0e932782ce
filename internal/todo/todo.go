package todo

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("todo: not found")
	ErrUnauthorized = errors.New("todo: unauthorized")
)

// Todo is a task owned by exactly one user. It is visible and mutable only
// through requests authenticated as that owner.
type Todo struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PerPage is the fixed page size for list responses.
const PerPage = 10

// Store describes todo persistence. ListByOwner returns the owner's todos
// most-recent-first, filtered by a case-insensitive substring match on title
// or description when search is non-empty, plus the total matching count.
type Store interface {
	Create(ctx context.Context, t *Todo) error
	Find(ctx context.Context, id string) (Todo, error)
	ListByOwner(ctx context.Context, ownerID, search string, page, perPage int) ([]Todo, int, error)
	Update(ctx context.Context, t *Todo) error
	Delete(ctx context.Context, id string) error
}
