// Package tui implements the interactive todo list: one row component per
// todo with inline rename, status toggle, priority select and deadline edit.
package tui

import (
	"context"

	"github.com/idilsaglam/todo-inline/internal/date"
	"github.com/idilsaglam/todo-inline/internal/model"
)

// API is the server surface the board talks to. *client.Client satisfies it.
type API interface {
	ListTodos(ctx context.Context) ([]model.Row, error)
	CreateTodo(ctx context.Context, t model.NewTodo) error
	UpdateName(ctx context.Context, todoID int64, newName string) error
	UpdateIsDoneStatus(ctx context.Context, todoID int64) error
	UpdatePriority(ctx context.Context, todoID int64, selection string) error
	UpdateDeadline(ctx context.Context, todoID int64, d date.Date) error
	ClearDeadline(ctx context.Context, todoID int64) error
	DeleteTodo(ctx context.Context, todoID int64) error
}
