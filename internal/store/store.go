// Package store defines the persistence boundary of the server.
package store

import (
	"context"
	"errors"

	"github.com/idilsaglam/todo-inline/internal/model"
)

// ErrNotFound is returned when no todo has the requested id.
var ErrNotFound = errors.New("todo not found")

// Repository persists todos. Implementations are safe for concurrent use.
type Repository interface {
	// Create stores t and sets t.ID.
	Create(ctx context.Context, t *model.Todo) error
	Get(ctx context.Context, id int64) (model.Todo, error)
	// List returns all todos ordered by id.
	List(ctx context.Context) ([]model.Todo, error)
	Update(ctx context.Context, t model.Todo) error
	// Mutate loads the todo with id, applies fn and saves the result as one
	// atomic step, returning the saved todo.
	Mutate(ctx context.Context, id int64, fn func(*model.Todo)) (model.Todo, error)
	Delete(ctx context.Context, id int64) error
	Close() error
}
