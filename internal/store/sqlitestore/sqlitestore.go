// Package sqlitestore persists todos in a SQLite database.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/idilsaglam/todo-inline/internal/date"
	"github.com/idilsaglam/todo-inline/internal/model"
	"github.com/idilsaglam/todo-inline/internal/store"
)

// schemaVersion is bumped whenever migrations gains a step.
const schemaVersion = 1

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS todos (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		name     TEXT    NOT NULL CHECK (length(name) <= 100),
		is_done  INTEGER NOT NULL DEFAULT 0,
		deadline TEXT,
		priority TEXT
	)`,
}

// Store is a store.Repository backed by SQLite.
type Store struct {
	db *sql.DB
}

var _ store.Repository = (*Store)(nil)

// Open opens (creating if needed) the database at path and migrates it.
// The path ":memory:" opens a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir: %w", err)
		}
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps :memory: databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite pragma: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	var version int
	if err := db.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version >= schemaVersion {
		return nil
	}
	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range migrations[version:] {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`PRAGMA user_version = %d`, schemaVersion)); err != nil {
		return fmt.Errorf("set schema version: %w", err)
	}
	return tx.Commit()
}

// Create implements store.Repository.
func (s *Store) Create(ctx context.Context, t *model.Todo) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO todos(name, is_done, deadline, priority) VALUES(?, ?, ?, ?)`,
		t.Name, boolToInt(t.Done), deadlineValue(t.Deadline), priorityValue(t.Priority))
	if err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}
	t.ID = id
	return nil
}

// Get implements store.Repository.
func (s *Store) Get(ctx context.Context, id int64) (model.Todo, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, is_done, deadline, priority FROM todos WHERE id = ?`, id)
	t, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Todo{}, store.ErrNotFound
	}
	return t, err
}

// List implements store.Repository.
func (s *Store) List(ctx context.Context) ([]model.Todo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, is_done, deadline, priority FROM todos ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	out := []model.Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update implements store.Repository.
func (s *Store) Update(ctx context.Context, t model.Todo) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE todos SET name = ?, is_done = ?, deadline = ?, priority = ? WHERE id = ?`,
		t.Name, boolToInt(t.Done), deadlineValue(t.Deadline), priorityValue(t.Priority), t.ID)
	if err != nil {
		return fmt.Errorf("update todo: %w", err)
	}
	return requireOneRow(res)
}

// Mutate implements store.Repository. The read and the write share one
// transaction.
func (s *Store) Mutate(ctx context.Context, id int64, fn func(*model.Todo)) (model.Todo, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Todo{}, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `SELECT id, name, is_done, deadline, priority FROM todos WHERE id = ?`, id)
	t, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Todo{}, store.ErrNotFound
	}
	if err != nil {
		return model.Todo{}, err
	}
	fn(&t)
	t.ID = id
	if _, err := tx.ExecContext(ctx,
		`UPDATE todos SET name = ?, is_done = ?, deadline = ?, priority = ? WHERE id = ?`,
		t.Name, boolToInt(t.Done), deadlineValue(t.Deadline), priorityValue(t.Priority), t.ID); err != nil {
		return model.Todo{}, fmt.Errorf("update todo: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return model.Todo{}, fmt.Errorf("commit: %w", err)
	}
	return t, nil
}

// Delete implements store.Repository.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	return requireOneRow(res)
}

// Close implements store.Repository.
func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTodo(sc scanner) (model.Todo, error) {
	var (
		t        model.Todo
		done     int
		deadline sql.NullString
		priority sql.NullString
	)
	if err := sc.Scan(&t.ID, &t.Name, &done, &deadline, &priority); err != nil {
		return model.Todo{}, err
	}
	t.Done = done != 0
	if deadline.Valid && deadline.String != "" {
		d, err := date.Parse(deadline.String)
		if err != nil {
			return model.Todo{}, fmt.Errorf("todo %d: %w", t.ID, err)
		}
		t.Deadline = &d
	}
	if priority.Valid {
		p, err := model.ParsePriority(priority.String)
		if err != nil {
			return model.Todo{}, fmt.Errorf("todo %d: %w", t.ID, err)
		}
		t.Priority = p
	}
	return t, nil
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func deadlineValue(d *date.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func priorityValue(p model.Priority) any {
	if p == model.PriorityNone {
		return nil
	}
	return string(p)
}
