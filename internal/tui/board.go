package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todo-inline/internal/date"
	"github.com/idilsaglam/todo-inline/internal/lanes"
	"github.com/idilsaglam/todo-inline/internal/logging"
	"github.com/idilsaglam/todo-inline/internal/model"
	"github.com/idilsaglam/todo-inline/internal/ui"
)

type view int

const (
	viewList view = iota
	viewConfirmDelete
	viewHelp
)

const (
	keyEnter = "enter"
	keyTab   = "tab"
	keyEsc   = "esc"
)

// Options configure a Board.
type Options struct {
	// Context bounds every request. Defaults to context.Background.
	Context context.Context
	Logger  *slog.Logger
	// NotifyFor is how long a notification stays on screen.
	NotifyFor time.Duration
}

// Board is the top-level bubbletea model.
type Board struct {
	api       API
	ctx       context.Context
	logger    *slog.Logger
	now       func() time.Time
	tick      func(time.Duration, func(time.Time) tea.Msg) tea.Cmd
	notifyFor time.Duration
	lanes     lanes.Lanes

	rows   []*row
	cursor int
	cell   cell
	view   view
	form   *createForm

	deleteID   int64
	deleteName string

	loading  bool
	loadErr  error
	toasts   []toast
	toastSeq int

	help          help.Model
	width, height int
}

// New creates a Board backed by api. Call Init (or run it in a program) to
// load the list.
func New(api API, opts Options) *Board {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	notifyFor := opts.NotifyFor
	if notifyFor <= 0 {
		notifyFor = defaultNotifyFor
	}
	w, h := ui.Size()
	return &Board{
		api:       api,
		ctx:       ctx,
		logger:    logger,
		now:       time.Now,
		tick:      tea.Tick,
		notifyFor: notifyFor,
		help:      help.New(),
		width:     w,
		height:    h,
	}
}

// SetNow overrides the clock used for the past-deadline check.
func (b *Board) SetNow(fn func() time.Time) {
	b.now = fn
}

// Init implements tea.Model.
func (b *Board) Init() tea.Cmd {
	return b.load()
}

// Update implements tea.Model.
func (b *Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width, b.height = msg.Width, msg.Height
		b.help.Width = msg.Width
	case tea.KeyMsg:
		return b, b.handleKey(msg)
	case ReloadMsg:
		return b, b.load()
	case loadedMsg:
		return b, b.applyLoaded(msg)
	case renamedMsg:
		return b, b.onRenamed(msg)
	case toggledMsg:
		return b, b.onToggled(msg)
	case priorityMsg:
		return b, b.onPriority(msg)
	case deadlineMsg:
		return b, b.onDeadline(msg)
	case clearedMsg:
		return b, b.onCleared(msg)
	case deletedMsg:
		return b, b.onDeleted(msg)
	case createdMsg:
		return b, b.onCreated(msg)
	case toastExpiredMsg:
		b.dropToast(msg.id)
	}
	return b, nil
}

func (b *Board) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}
	if b.form != nil {
		return b.handleCreateKey(msg)
	}
	switch b.view {
	case viewConfirmDelete:
		return b.handleDeleteKey(msg)
	case viewHelp:
		b.view = viewList
		return nil
	}
	if r := b.selected(); r != nil && r.mode != modeDisplay {
		return b.handleEditKey(r, msg)
	}
	return b.handleListKey(msg)
}

func (b *Board) handleListKey(msg tea.KeyMsg) tea.Cmd {
	r := b.selected()
	switch {
	case key.Matches(msg, keys.Quit):
		return tea.Quit
	case key.Matches(msg, keys.Help):
		b.view = viewHelp
	case key.Matches(msg, keys.Up):
		if b.cursor > 0 {
			b.cursor--
		}
	case key.Matches(msg, keys.Down):
		if b.cursor < len(b.rows)-1 {
			b.cursor++
		}
	case key.Matches(msg, keys.Left):
		b.cell = (b.cell + cellCount - 1) % cellCount
	case key.Matches(msg, keys.Right):
		b.cell = (b.cell + 1) % cellCount
	case key.Matches(msg, keys.New):
		b.form = newCreateForm()
	case key.Matches(msg, keys.Reload):
		return b.load()
	case r == nil:
		return nil
	case key.Matches(msg, keys.Enter):
		return b.activateCell(r)
	case key.Matches(msg, keys.Rename):
		b.cell = cellName
		r.startRename(b.nameWidth())
	case key.Matches(msg, keys.Toggle):
		b.cell = cellStatus
		return b.toggle(r)
	case key.Matches(msg, keys.Deadline):
		b.cell = cellDeadline
		r.startDeadline()
	case key.Matches(msg, keys.Priority):
		b.cell = cellPriority
		r.startPriority()
	case key.Matches(msg, keys.Clear):
		return b.clearDeadline(r)
	case key.Matches(msg, keys.Delete):
		b.deleteID, b.deleteName = r.id, r.name
		b.view = viewConfirmDelete
	}
	return nil
}

// activateCell performs the action of the focused cell.
func (b *Board) activateCell(r *row) tea.Cmd {
	switch b.cell {
	case cellStatus:
		return b.toggle(r)
	case cellDeadline:
		r.startDeadline()
	case cellPriority:
		r.startPriority()
	default:
		r.startRename(b.nameWidth())
	}
	return nil
}

func (b *Board) handleEditKey(r *row, msg tea.KeyMsg) tea.Cmd {
	switch r.mode {
	case modeRename:
		return b.handleRenameKey(r, msg)
	case modeDeadline:
		return b.handleDeadlineKey(r, msg)
	case modePriority:
		return b.handlePriorityKey(r, msg)
	}
	return nil
}

func (b *Board) handleRenameKey(r *row, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case keyEnter, keyTab:
		return b.saveRename(r)
	case keyEsc:
		r.stopEditing()
		return nil
	}
	var cmd tea.Cmd
	r.input, cmd = r.input.Update(msg)
	if cut, truncated := model.TruncateName(r.input.Value()); truncated {
		r.input.SetValue(cut)
		r.input.CursorEnd()
		return tea.Batch(cmd, b.notify("Task name cannot exceed 100 characters", true))
	}
	return cmd
}

func (b *Board) saveRename(r *row) tea.Cmd {
	if r.saving {
		return nil
	}
	name := strings.TrimSpace(r.input.Value())
	if !model.NameLengthOK(name) {
		r.input.Focus()
		return b.notify("Task name cannot exceed 100 characters", true)
	}
	r.saving = true
	id, seq := r.id, r.renameSeq
	return b.send(r, func(ctx context.Context) error {
		return b.api.UpdateName(ctx, id, name)
	}, func(err error) tea.Msg {
		return renamedMsg{id: id, seq: seq, name: name, err: err}
	})
}

func (b *Board) toggle(r *row) tea.Cmd {
	id := r.id
	return b.send(r, func(ctx context.Context) error {
		return b.api.UpdateIsDoneStatus(ctx, id)
	}, func(err error) tea.Msg {
		return toggledMsg{id: id, err: err}
	})
}

func (b *Board) handlePriorityKey(r *row, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case keyEnter, keyTab:
		return b.commitPriority(r)
	case keyEsc:
		r.stopEditing()
	case "left", "h", "up", "k", "shift+tab":
		r.movePriority(-1)
	case "right", "l", "down", "j":
		r.movePriority(1)
	}
	return nil
}

// commitPriority applies the selection locally and sends it when it
// changed. The selection stays whatever the server answers.
func (b *Board) commitPriority(r *row) tea.Cmd {
	r.stopEditing()
	selection := model.PriorityOptions[r.choice]
	if selection == r.priority {
		return nil
	}
	r.priority = selection
	id := r.id
	return b.send(r, func(ctx context.Context) error {
		return b.api.UpdatePriority(ctx, id, selection)
	}, func(err error) tea.Msg {
		return priorityMsg{id: id, err: err}
	})
}

func (b *Board) handleDeadlineKey(r *row, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case keyEnter, keyTab:
		return b.commitDeadline(r)
	case keyEsc:
		r.stopEditing()
		return nil
	}
	var cmd tea.Cmd
	r.input, cmd = r.input.Update(msg)
	return cmd
}

func (b *Board) commitDeadline(r *row) tea.Cmd {
	raw := strings.TrimSpace(r.input.Value())
	if raw == r.deadline {
		r.stopEditing()
		return nil
	}
	if raw == "" {
		r.stopEditing()
		return b.clearDeadline(r)
	}
	d, err := date.Parse(raw)
	if err != nil {
		return b.notify(fmt.Sprintf("Invalid date %q, use %s", raw, date.Layout), true)
	}
	r.stopEditing()
	if d.InPast(b.now()) {
		r.deadline = ""
		return b.notify("Deadline cannot be in the past", true)
	}
	r.deadline = d.String()
	id := r.id
	return b.send(r, func(ctx context.Context) error {
		return b.api.UpdateDeadline(ctx, id, d)
	}, func(err error) tea.Msg {
		return deadlineMsg{id: id, value: d.String(), err: err}
	})
}

func (b *Board) clearDeadline(r *row) tea.Cmd {
	id := r.id
	return b.send(r, func(ctx context.Context) error {
		return b.api.ClearDeadline(ctx, id)
	}, func(err error) tea.Msg {
		return clearedMsg{id: id, err: err}
	})
}

func (b *Board) handleDeleteKey(msg tea.KeyMsg) tea.Cmd {
	b.view = viewList
	if msg.String() != "y" && msg.String() != "Y" {
		return nil
	}
	r := b.find(b.deleteID)
	if r == nil {
		return nil
	}
	id := r.id
	return b.send(r, func(ctx context.Context) error {
		return b.api.DeleteTodo(ctx, id)
	}, func(err error) tea.Msg {
		return deletedMsg{id: id, err: err}
	})
}

// send reserves the row's lane now and runs fn in a command, so requests of
// one row reach the server in the order the user made them.
func (b *Board) send(r *row, fn func(context.Context) error, done func(error) tea.Msg) tea.Cmd {
	r.pending++
	ticket := b.lanes.Reserve(r.id)
	ctx := b.ctx
	return func() tea.Msg {
		return done(ticket.Run(ctx, fn))
	}
}

func (b *Board) load() tea.Cmd {
	b.loading = true
	return func() tea.Msg {
		rows, err := b.api.ListTodos(b.ctx)
		return loadedMsg{rows: rows, err: err}
	}
}

// applyLoaded reconciles server rows into the board. Rows that are being
// edited or have requests in flight keep their local state.
func (b *Board) applyLoaded(msg loadedMsg) tea.Cmd {
	b.loading = false
	if msg.err != nil {
		b.loadErr = msg.err
		return b.failed("load todos", 0, "Could not load todos", msg.err)
	}
	b.loadErr = nil

	var selectedID int64 = -1
	if r := b.selected(); r != nil {
		selectedID = r.id
	}
	existing := make(map[int64]*row, len(b.rows))
	for _, r := range b.rows {
		existing[r.id] = r
	}
	next := make([]*row, 0, len(msg.rows))
	for _, m := range msg.rows {
		if r, ok := existing[m.ID]; ok {
			if !r.busy() {
				r.apply(m)
			}
			next = append(next, r)
			delete(existing, m.ID)
			continue
		}
		next = append(next, newRow(m))
	}
	for _, r := range b.rows {
		if _, gone := existing[r.id]; gone && r.busy() {
			next = append(next, r)
		}
	}
	b.rows = next

	b.cursor = 0
	for i, r := range b.rows {
		if r.id == selectedID {
			b.cursor = i
		}
	}
	return nil
}

func (b *Board) onRenamed(msg renamedMsg) tea.Cmd {
	r := b.find(msg.id)
	if r == nil {
		return nil
	}
	r.pending--
	current := r.mode == modeRename && r.renameSeq == msg.seq
	if current {
		r.saving = false
	}
	if msg.err != nil {
		if current {
			r.input.Focus()
		}
		return b.failed("update name", msg.id, "Could not rename task", msg.err)
	}
	r.name = msg.name
	if current {
		r.stopEditing()
	}
	return nil
}

// onToggled flips the displayed label on success. The new label comes from
// the old one; a later reload corrects any drift from the server.
func (b *Board) onToggled(msg toggledMsg) tea.Cmd {
	r := b.find(msg.id)
	if r == nil {
		return nil
	}
	r.pending--
	if msg.err != nil {
		return b.failed("update status", msg.id, "Could not change status", msg.err)
	}
	r.status = model.FlipStatus(r.status)
	return nil
}

func (b *Board) onPriority(msg priorityMsg) tea.Cmd {
	r := b.find(msg.id)
	if r == nil {
		return nil
	}
	r.pending--
	if msg.err != nil {
		return b.failed("update priority", msg.id, "Could not change priority", msg.err)
	}
	return nil
}

func (b *Board) onDeadline(msg deadlineMsg) tea.Cmd {
	r := b.find(msg.id)
	if r == nil {
		return nil
	}
	r.pending--
	if msg.err != nil {
		return b.failed("update deadline", msg.id, "Could not change deadline", msg.err)
	}
	return nil
}

func (b *Board) onCleared(msg clearedMsg) tea.Cmd {
	r := b.find(msg.id)
	if r == nil {
		return nil
	}
	r.pending--
	if msg.err != nil {
		return b.failed("clear deadline", msg.id, "Could not clear deadline", msg.err)
	}
	r.deadline = ""
	return nil
}

func (b *Board) onDeleted(msg deletedMsg) tea.Cmd {
	r := b.find(msg.id)
	if r != nil {
		r.pending--
	}
	if msg.err != nil {
		return b.failed("delete todo", msg.id, "Could not delete task", msg.err)
	}
	for i, rw := range b.rows {
		if rw.id == msg.id {
			b.rows = append(b.rows[:i], b.rows[i+1:]...)
			break
		}
	}
	if b.cursor >= len(b.rows) && b.cursor > 0 {
		b.cursor = len(b.rows) - 1
	}
	return b.notify("Task deleted", false)
}

// failed logs a request failure and shows it as a notification. Server
// rejections and transport errors look the same to the user.
func (b *Board) failed(op string, id int64, text string, err error) tea.Cmd {
	b.logger.Error("request failed", "op", op, "todoId", id, "err", err)
	return b.notify(fmt.Sprintf("%s: %v", text, err), true)
}

func (b *Board) selected() *row {
	if b.cursor < 0 || b.cursor >= len(b.rows) {
		return nil
	}
	return b.rows[b.cursor]
}

func (b *Board) find(id int64) *row {
	for _, r := range b.rows {
		if r.id == id {
			return r
		}
	}
	return nil
}
