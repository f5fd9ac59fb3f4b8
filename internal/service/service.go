// Package service holds the todo business rules shared by every server endpoint.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/idilsaglam/todo-inline/internal/clierr"
	"github.com/idilsaglam/todo-inline/internal/date"
	"github.com/idilsaglam/todo-inline/internal/logging"
	"github.com/idilsaglam/todo-inline/internal/model"
	"github.com/idilsaglam/todo-inline/internal/store"
)

// Service applies validation and delegates persistence to a store.Repository.
type Service struct {
	repo   store.Repository
	now    func() time.Time
	logger *slog.Logger
}

// New returns a Service over repo.
func New(repo store.Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{repo: repo, now: time.Now, logger: logger}
}

// SetNow overrides the clock used for the past-deadline rule.
func (s *Service) SetNow(fn func() time.Time) {
	s.now = fn
}

// Create validates and saves a new todo.
func (s *Service) Create(ctx context.Context, in model.NewTodo) (model.Todo, error) {
	name, err := checkName(in.Name)
	if err != nil {
		return model.Todo{}, err
	}
	if err := s.checkDeadline(in.Deadline); err != nil {
		return model.Todo{}, err
	}
	t := model.Todo{Name: name, Done: in.Done, Deadline: in.Deadline, Priority: in.Priority}
	if err := s.repo.Create(ctx, &t); err != nil {
		return model.Todo{}, internal("create todo", err)
	}
	s.logger.Info("todo created", "todoId", t.ID)
	return t, nil
}

// Rows lists every todo in display form, ordered by id.
func (s *Service) Rows(ctx context.Context) ([]model.Row, error) {
	todos, err := s.repo.List(ctx)
	if err != nil {
		return nil, internal("list todos", err)
	}
	rows := make([]model.Row, 0, len(todos))
	for _, t := range todos {
		rows = append(rows, model.ToRow(t))
	}
	return rows, nil
}

// Get returns one todo.
func (s *Service) Get(ctx context.Context, id int64) (model.Todo, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return model.Todo{}, s.lookupErr(id, err)
	}
	return t, nil
}

// UpdateName renames a todo.
func (s *Service) UpdateName(ctx context.Context, id int64, newName string) (model.Todo, error) {
	name, err := checkName(newName)
	if err != nil {
		return model.Todo{}, err
	}
	return s.mutate(ctx, id, func(t *model.Todo) { t.Name = name })
}

// ToggleDone flips a todo's done flag.
func (s *Service) ToggleDone(ctx context.Context, id int64) (model.Todo, error) {
	return s.mutate(ctx, id, func(t *model.Todo) { t.ToggleDone() })
}

// UpdateDeadline sets a todo's deadline; nil clears it.
func (s *Service) UpdateDeadline(ctx context.Context, id int64, d *date.Date) (model.Todo, error) {
	if err := s.checkDeadline(d); err != nil {
		return model.Todo{}, err
	}
	return s.mutate(ctx, id, func(t *model.Todo) { t.Deadline = d })
}

// UpdatePriority sets a todo's priority; PriorityNone clears it.
func (s *Service) UpdatePriority(ctx context.Context, id int64, p model.Priority) (model.Todo, error) {
	return s.mutate(ctx, id, func(t *model.Todo) { t.Priority = p })
}

// Delete removes a todo.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.lookupErr(id, err)
	}
	s.logger.Info("todo deleted", "todoId", id)
	return nil
}

func (s *Service) mutate(ctx context.Context, id int64, fn func(*model.Todo)) (model.Todo, error) {
	t, err := s.repo.Mutate(ctx, id, fn)
	if err != nil {
		return model.Todo{}, s.lookupErr(id, err)
	}
	return t, nil
}

func (s *Service) checkDeadline(d *date.Date) error {
	if d != nil && d.InPast(s.now()) {
		return clierr.New(clierr.DeadlineInPast, "Deadline cannot be in past").
			WithDetails(map[string]any{"deadline": d.String()})
	}
	return nil
}

func (s *Service) lookupErr(id int64, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return clierr.Newf(clierr.TodoNotFound, "todo not found: %d", id)
	}
	s.logger.Error("store failure", "todoId", id, "err", err)
	return internal(fmt.Sprintf("todo %d", id), err)
}

// checkName trims name and rejects it when blank or too long.
func checkName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", clierr.New(clierr.InvalidName, "name must not be blank")
	}
	if err := model.ValidateName(name); err != nil {
		return "", clierr.New(clierr.InvalidName, "Name cannot exceed 100 characters.")
	}
	return name, nil
}

func internal(op string, err error) error {
	return clierr.Newf(clierr.InternalError, "%s: %v", op, err)
}
