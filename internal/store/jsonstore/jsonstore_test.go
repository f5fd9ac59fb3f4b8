package jsonstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/idilsaglam/todo-inline/internal/model"
	"github.com/idilsaglam/todo-inline/internal/store"
	"github.com/idilsaglam/todo-inline/internal/store/storetest"
)

func TestRepository(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Repository {
		s, err := Open(filepath.Join(t.TempDir(), "todos.json"))
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		return s
	})
}

func TestPersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "todos.json")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	td := model.Todo{Name: "Keep me"}
	if err := s.Create(context.Background(), &td); err != nil {
		t.Fatal(err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	got, err := s2.Get(context.Background(), td.ID)
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if got.Name != "Keep me" {
		t.Errorf("name = %q", got.Name)
	}

	next := model.Todo{Name: "Next"}
	if err := s2.Create(context.Background(), &next); err != nil {
		t.Fatal(err)
	}
	if next.ID != td.ID+1 {
		t.Errorf("id counter not persisted: got %d, want %d", next.ID, td.ID+1)
	}
}
