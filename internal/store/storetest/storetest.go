// Package storetest holds the behaviour every store.Repository must have.
package storetest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/idilsaglam/todo-inline/internal/date"
	"github.com/idilsaglam/todo-inline/internal/model"
	"github.com/idilsaglam/todo-inline/internal/store"
)

// Run exercises a fresh repository returned by open.
func Run(t *testing.T, open func(t *testing.T) store.Repository) {
	t.Run("CreateAssignsIDs", func(t *testing.T) {
		r := open(t)
		ctx := context.Background()
		a := model.Todo{Name: "A"}
		b := model.Todo{Name: "B", Priority: model.PriorityHigh}
		if err := r.Create(ctx, &a); err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := r.Create(ctx, &b); err != nil {
			t.Fatalf("create: %v", err)
		}
		if a.ID == 0 || b.ID <= a.ID {
			t.Fatalf("ids not increasing: %d, %d", a.ID, b.ID)
		}
	})

	t.Run("GetRoundTrip", func(t *testing.T) {
		r := open(t)
		ctx := context.Background()
		d := date.New(2031, time.July, 4)
		in := model.Todo{Name: "Fireworks", Done: true, Deadline: &d, Priority: model.PriorityMedium}
		if err := r.Create(ctx, &in); err != nil {
			t.Fatal(err)
		}
		got, err := r.Get(ctx, in.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Name != "Fireworks" || !got.Done || got.Priority != model.PriorityMedium {
			t.Errorf("got %+v", got)
		}
		if got.Deadline == nil || got.Deadline.String() != "2031-07-04" {
			t.Errorf("deadline = %v", got.Deadline)
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		r := open(t)
		if _, err := r.Get(context.Background(), 404); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("UpdateClearsOptionalFields", func(t *testing.T) {
		r := open(t)
		ctx := context.Background()
		d := date.New(2031, time.July, 4)
		td := model.Todo{Name: "X", Deadline: &d, Priority: model.PriorityLow}
		if err := r.Create(ctx, &td); err != nil {
			t.Fatal(err)
		}
		td.Deadline = nil
		td.Priority = model.PriorityNone
		td.Name = "Y"
		if err := r.Update(ctx, td); err != nil {
			t.Fatalf("update: %v", err)
		}
		got, err := r.Get(ctx, td.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.Name != "Y" || got.Deadline != nil || got.Priority != model.PriorityNone {
			t.Errorf("got %+v", got)
		}
		if err := r.Update(ctx, model.Todo{ID: 999, Name: "ghost"}); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("update missing err = %v", err)
		}
	})

	t.Run("MutateMissing", func(t *testing.T) {
		r := open(t)
		_, err := r.Mutate(context.Background(), 404, func(*model.Todo) {})
		if !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("ConcurrentTogglesAreNotLost", func(t *testing.T) {
		r := open(t)
		ctx := context.Background()
		td := model.Todo{Name: "Flip me"}
		if err := r.Create(ctx, &td); err != nil {
			t.Fatal(err)
		}
		const toggles = 51
		var wg sync.WaitGroup
		errs := make(chan error, toggles)
		for range toggles {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := r.Mutate(ctx, td.ID, func(x *model.Todo) { x.ToggleDone() }); err != nil {
					errs <- err
				}
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			t.Fatalf("mutate: %v", err)
		}
		got, err := r.Get(ctx, td.ID)
		if err != nil {
			t.Fatal(err)
		}
		if !got.Done {
			t.Errorf("after %d toggles done = false, an update was lost", toggles)
		}
	})

	t.Run("ListAndDelete", func(t *testing.T) {
		r := open(t)
		ctx := context.Background()
		for _, n := range []string{"one", "two", "three"} {
			td := model.Todo{Name: n}
			if err := r.Create(ctx, &td); err != nil {
				t.Fatal(err)
			}
		}
		all, err := r.List(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(all) != 3 || all[0].Name != "one" || all[2].Name != "three" {
			t.Fatalf("list = %+v", all)
		}
		if err := r.Delete(ctx, all[1].ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if err := r.Delete(ctx, all[1].ID); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("second delete err = %v", err)
		}
		all, err = r.List(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(all) != 2 {
			t.Errorf("len after delete = %d", len(all))
		}
	})

	t.Run("EmptyListIsNotNil", func(t *testing.T) {
		r := open(t)
		all, err := r.List(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if all == nil {
			t.Error("List should return an empty slice, not nil")
		}
	})
}
