package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/idilsaglam/todo-inline/internal/model"
	"github.com/idilsaglam/todo-inline/internal/store"
)

// JSON-backed storage. Single file, human-readable, portable.
// One process owns the file; writes go through a temp file and rename.

type fileData struct {
	NextID int64        `json:"nextId"`
	Todos  []model.Todo `json:"todos"`
}

// Store keeps all todos in one JSON file.
type Store struct {
	path string
	mu   sync.Mutex
}

var _ store.Repository = (*Store)(nil)

// Open returns a Store for path, creating parent directories.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("jsonstore: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	return &Store{path: path}, nil
}

func (s *Store) load() (fileData, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileData{NextID: 1}, nil
		}
		return fileData{}, fmt.Errorf("read file: %w", err)
	}
	var d fileData
	if err := json.Unmarshal(b, &d); err != nil {
		return fileData{}, fmt.Errorf("json unmarshal: %w", err)
	}
	if d.NextID < 1 {
		d.NextID = 1
	}
	return d, nil
}

func (s *Store) save(d fileData) error {
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// Create implements store.Repository.
func (s *Store) Create(_ context.Context, t *model.Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.load()
	if err != nil {
		return err
	}
	t.ID = d.NextID
	d.NextID++
	d.Todos = append(d.Todos, *t)
	return s.save(d)
}

// Get implements store.Repository.
func (s *Store) Get(_ context.Context, id int64) (model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.load()
	if err != nil {
		return model.Todo{}, err
	}
	for _, t := range d.Todos {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Todo{}, store.ErrNotFound
}

// List implements store.Repository.
func (s *Store) List(_ context.Context) ([]model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.load()
	if err != nil {
		return nil, err
	}
	sort.Slice(d.Todos, func(i, j int) bool { return d.Todos[i].ID < d.Todos[j].ID })
	if d.Todos == nil {
		return []model.Todo{}, nil
	}
	return d.Todos, nil
}

// Update implements store.Repository.
func (s *Store) Update(_ context.Context, t model.Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.load()
	if err != nil {
		return err
	}
	for i := range d.Todos {
		if d.Todos[i].ID == t.ID {
			d.Todos[i] = t
			return s.save(d)
		}
	}
	return store.ErrNotFound
}

// Mutate implements store.Repository.
func (s *Store) Mutate(_ context.Context, id int64, fn func(*model.Todo)) (model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.load()
	if err != nil {
		return model.Todo{}, err
	}
	for i := range d.Todos {
		if d.Todos[i].ID == id {
			fn(&d.Todos[i])
			d.Todos[i].ID = id
			if err := s.save(d); err != nil {
				return model.Todo{}, err
			}
			return d.Todos[i], nil
		}
	}
	return model.Todo{}, store.ErrNotFound
}

// Delete implements store.Repository.
func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.load()
	if err != nil {
		return err
	}
	for i := range d.Todos {
		if d.Todos[i].ID == id {
			d.Todos = append(d.Todos[:i], d.Todos[i+1:]...)
			return s.save(d)
		}
	}
	return store.ErrNotFound
}

// Close implements store.Repository.
func (s *Store) Close() error { return nil }
