package tui

import (
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/idilsaglam/todo-inline/internal/date"
	"github.com/idilsaglam/todo-inline/internal/model"
)

// cell is a column of a row that can take focus.
type cell int

const (
	cellName cell = iota
	cellStatus
	cellDeadline
	cellPriority
	cellCount
)

// mode is the editing state of a row.
type mode int

const (
	modeDisplay mode = iota
	modeRename
	modeDeadline
	modePriority
)

// row is one todo on the board. It owns its editing state and is patched as
// a unit when a request for it completes.
type row struct {
	id       int64
	name     string
	status   string
	deadline string // empty when unset
	priority string // one of model.PriorityOptions

	mode   mode
	input  textinput.Model
	choice int

	// saving is set while a rename request is in flight.
	saving bool
	// renameSeq numbers rename sessions so a late reply only closes its own.
	renameSeq int
	// pending counts requests in flight for this row.
	pending int
}

func newRow(r model.Row) *row {
	rw := &row{id: r.ID}
	rw.apply(r)
	return rw
}

// apply copies server state into the row.
func (r *row) apply(m model.Row) {
	r.name = m.Name
	r.status = m.IsDone
	r.deadline = m.Deadline
	if r.deadline == model.NoDeadline {
		r.deadline = ""
	}
	r.priority = model.SelectionFor(m.Priority)
}

// busy reports whether local state must not be overwritten by a reload.
func (r *row) busy() bool {
	return r.mode != modeDisplay || r.pending > 0
}

func (r *row) done() bool {
	return r.status == model.StatusFinished
}

func (r *row) startRename(width int) {
	r.mode = modeRename
	r.renameSeq++
	r.input = newInput(r.name, "Task name", width)
}

func (r *row) startDeadline() {
	r.mode = modeDeadline
	r.input = newInput(r.deadline, date.Layout, len(date.Layout)+1)
}

func (r *row) startPriority() {
	r.mode = modePriority
	r.choice = 0
	for i, opt := range model.PriorityOptions {
		if opt == r.priority {
			r.choice = i
		}
	}
}

func (r *row) movePriority(delta int) {
	n := len(model.PriorityOptions)
	r.choice = (r.choice + delta + n) % n
}

func (r *row) stopEditing() {
	r.mode = modeDisplay
	r.saving = false
	r.input.Blur()
}

func newInput(value, placeholder string, width int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.Cursor.SetMode(cursor.CursorStatic)
	if width > 0 {
		ti.Width = width
	}
	ti.SetValue(value)
	ti.CursorEnd()
	ti.Focus()
	return ti
}
