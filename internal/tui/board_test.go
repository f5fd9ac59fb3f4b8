package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todo-inline/internal/date"
	"github.com/idilsaglam/todo-inline/internal/model"
)

var errServer = errors.New("update name: server answered 500 Internal Server Error")

// call is one request the board made.
type call struct {
	op  string
	id  int64
	arg string
}

// fakeAPI records requests and fails the ops listed in fail.
type fakeAPI struct {
	mu    sync.Mutex
	rows  []model.Row
	calls []call
	fail  map[string]error
}

func newFakeAPI(rows ...model.Row) *fakeAPI {
	return &fakeAPI{rows: rows, fail: map[string]error{}}
}

func (f *fakeAPI) record(op string, id int64, arg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{op: op, id: id, arg: arg})
	return f.fail[op]
}

func (f *fakeAPI) callsFor(op string) []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []call
	for _, c := range f.calls {
		if c.op == op {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeAPI) mutations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.op != "list" {
			n++
		}
	}
	return n
}

func (f *fakeAPI) ListTodos(context.Context) ([]model.Row, error) {
	if err := f.record("list", 0, ""); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Row(nil), f.rows...), nil
}

func (f *fakeAPI) CreateTodo(_ context.Context, t model.NewTodo) error {
	arg := t.Name
	if t.Deadline != nil {
		arg += "|" + t.Deadline.String()
	}
	if t.Priority != model.PriorityNone {
		arg += "|" + string(t.Priority)
	}
	return f.record("create", 0, arg)
}

func (f *fakeAPI) UpdateName(_ context.Context, id int64, name string) error {
	return f.record("name", id, name)
}

func (f *fakeAPI) UpdateIsDoneStatus(_ context.Context, id int64) error {
	return f.record("status", id, "")
}

func (f *fakeAPI) UpdatePriority(_ context.Context, id int64, selection string) error {
	return f.record("priority", id, model.PriorityWireValue(selection))
}

func (f *fakeAPI) UpdateDeadline(_ context.Context, id int64, d date.Date) error {
	return f.record("deadline", id, d.String())
}

func (f *fakeAPI) ClearDeadline(_ context.Context, id int64) error {
	return f.record("clear", id, "")
}

func (f *fakeAPI) DeleteTodo(_ context.Context, id int64) error {
	return f.record("delete", id, "")
}

var today = time.Date(2026, time.October, 17, 9, 30, 0, 0, time.Local)

func sampleRows() []model.Row {
	return []model.Row{
		{ID: 1, Name: "Buy milk", IsDone: model.StatusNotFinished, Deadline: "2026-10-20", Priority: "HIGH"},
		{ID: 2, Name: "Write report", IsDone: model.StatusFinished, Deadline: model.NoDeadline, Priority: model.NoPriority},
	}
}

// setupBoard loads a board over api. Toast expiry is not scheduled so
// commands can be run to completion synchronously.
func setupBoard(t *testing.T, api *fakeAPI) *Board {
	t.Helper()
	b := New(api, Options{})
	b.SetNow(func() time.Time { return today })
	b.tick = func(time.Duration, func(time.Time) tea.Msg) tea.Cmd { return nil }
	b.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	run(b, b.Init())
	if b.loading {
		t.Fatal("board still loading after Init")
	}
	return b
}

// run executes cmd and feeds every resulting message back into the board
// until nothing is left to do.
func run(b *Board, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case nil:
	case tea.BatchMsg:
		for _, c := range msg {
			run(b, c)
		}
	default:
		_, next := b.Update(msg)
		run(b, next)
	}
}

func sendKey(b *Board, k string) *Board {
	_, cmd := b.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	run(b, cmd)
	return b
}

func sendSpecialKey(b *Board, k tea.KeyType) *Board {
	_, cmd := b.Update(tea.KeyMsg{Type: k})
	run(b, cmd)
	return b
}

// pressOnly delivers a key without running the commands it returns.
func pressOnly(b *Board, k tea.KeyType) tea.Cmd {
	_, cmd := b.Update(tea.KeyMsg{Type: k})
	return cmd
}

func typeText(b *Board, text string) *Board {
	for _, ch := range text {
		sendKey(b, string(ch))
	}
	return b
}

func clearInput(b *Board, n int) *Board {
	for range n {
		sendSpecialKey(b, tea.KeyBackspace)
	}
	return b
}

func hasToast(b *Board, sub string) bool {
	for _, ts := range b.toasts {
		if strings.Contains(ts.text, sub) {
			return true
		}
	}
	return false
}

func TestBoard_InitialState(t *testing.T) {
	api := newFakeAPI(sampleRows()...)
	b := setupBoard(t, api)

	if len(b.rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(b.rows))
	}
	v := b.View()
	for _, want := range []string{"Todos", "Buy milk", "Write report", "Not finished", "Finished", "2026-10-20", "HIGH", "None"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if b.rows[1].deadline != "" || b.rows[1].priority != model.SelectNone {
		t.Errorf("placeholders should map to empty deadline and None, got %+v", b.rows[1])
	}
}

func TestBoard_EmptyList(t *testing.T) {
	b := setupBoard(t, newFakeAPI())
	if !strings.Contains(b.View(), "No todos yet") {
		t.Error("expected empty-list hint")
	}
}

func TestBoard_LoadFailure(t *testing.T) {
	api := newFakeAPI()
	api.fail["list"] = errors.New("connection refused")
	b := setupBoard(t, api)
	if !hasToast(b, "Could not load todos") {
		t.Error("expected load failure notification")
	}
	if !strings.Contains(b.View(), "Press r to retry") {
		t.Error("expected retry hint")
	}
}

func TestBoard_NavigateRowsAndCells(t *testing.T) {
	b := setupBoard(t, newFakeAPI(sampleRows()...))
	sendKey(b, "j")
	if b.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", b.cursor)
	}
	sendKey(b, "j")
	if b.cursor != 1 {
		t.Errorf("cursor should stop at last row, got %d", b.cursor)
	}
	sendKey(b, "k")
	if b.cursor != 0 {
		t.Errorf("cursor = %d, want 0", b.cursor)
	}
	sendKey(b, "l")
	if b.cell != cellStatus {
		t.Errorf("cell = %d, want status", b.cell)
	}
	sendKey(b, "h")
	sendKey(b, "h")
	if b.cell != cellPriority {
		t.Errorf("cell should wrap to priority, got %d", b.cell)
	}
}

func TestBoard_EnterActsOnFocusedCell(t *testing.T) {
	api := newFakeAPI(sampleRows()...)
	b := setupBoard(t, api)

	sendKey(b, "l") // status cell
	sendSpecialKey(b, tea.KeyEnter)
	if got := api.callsFor("status"); len(got) != 1 || got[0].id != 1 {
		t.Fatalf("status calls = %+v", got)
	}

	sendKey(b, "l") // deadline cell
	sendSpecialKey(b, tea.KeyEnter)
	if b.rows[0].mode != modeDeadline {
		t.Errorf("mode = %d, want deadline editing", b.rows[0].mode)
	}
}

func TestBoard_DeleteConfirm(t *testing.T) {
	api := newFakeAPI(sampleRows()...)
	b := setupBoard(t, api)

	sendKey(b, "D")
	if !strings.Contains(b.View(), `Delete "Buy milk"? (y/n)`) {
		t.Fatal("expected delete confirmation")
	}
	sendKey(b, "n")
	if len(api.callsFor("delete")) != 0 || len(b.rows) != 2 {
		t.Fatal("cancel should not delete")
	}

	sendKey(b, "D")
	sendKey(b, "y")
	if got := api.callsFor("delete"); len(got) != 1 || got[0].id != 1 {
		t.Fatalf("delete calls = %+v", got)
	}
	if len(b.rows) != 1 || b.rows[0].id != 2 {
		t.Errorf("row not removed: %+v", b.rows)
	}
}

func TestBoard_DeleteFailureKeepsRow(t *testing.T) {
	api := newFakeAPI(sampleRows()...)
	api.fail["delete"] = errors.New("boom")
	b := setupBoard(t, api)
	sendKey(b, "D")
	sendKey(b, "y")
	if len(b.rows) != 2 || !hasToast(b, "Could not delete task") {
		t.Errorf("rows=%d toasts=%+v", len(b.rows), b.toasts)
	}
}

func TestBoard_HelpView(t *testing.T) {
	b := setupBoard(t, newFakeAPI(sampleRows()...))
	sendKey(b, "?")
	if !strings.Contains(b.View(), "clear deadline") {
		t.Error("help should list every binding")
	}
	sendKey(b, "x")
	if b.view != viewList {
		t.Error("any key should close help")
	}
}

func TestBoard_Quit(t *testing.T) {
	b := setupBoard(t, newFakeAPI(sampleRows()...))
	_, cmd := b.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestBoard_ToastExpires(t *testing.T) {
	b := setupBoard(t, newFakeAPI(sampleRows()...))
	b.notify("hello", false)
	id := b.toasts[0].id
	b.Update(toastExpiredMsg{id: id})
	if len(b.toasts) != 0 {
		t.Errorf("toast should be gone, got %+v", b.toasts)
	}
}

func TestBoard_ToastsCapped(t *testing.T) {
	b := setupBoard(t, newFakeAPI())
	for i := range maxToasts + 2 {
		b.notify(strings.Repeat("x", i+1), true)
	}
	if len(b.toasts) != maxToasts {
		t.Errorf("toasts = %d, want %d", len(b.toasts), maxToasts)
	}
}
