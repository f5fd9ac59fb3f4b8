package model

import (
	"github.com/idilsaglam/todo-inline/internal/date"
)

// Status labels shown for a todo's done flag.
const (
	StatusFinished    = "Finished"
	StatusNotFinished = "Not finished"
)

// Placeholders shown when a todo has no deadline or priority.
const (
	NoDeadline = "No deadline"
	NoPriority = "No priority"
)

// Todo is the domain model for a todo entry.
type Todo struct {
	ID       int64      `json:"todoId"`
	Name     string     `json:"name"`
	Done     bool       `json:"isDone"`
	Deadline *date.Date `json:"deadline,omitempty"`
	Priority Priority   `json:"priority,omitempty"`
}

// ToggleDone flips the done flag.
func (t *Todo) ToggleDone() {
	t.Done = !t.Done
}

// NewTodo carries the fields of a todo that has not been saved yet.
type NewTodo struct {
	Name     string     `json:"name"`
	Done     bool       `json:"isDone,omitempty"`
	Deadline *date.Date `json:"deadline,omitempty"`
	Priority Priority   `json:"priority,omitempty"`
}

// Row is the display form of a todo: every field is the text a row shows.
type Row struct {
	ID       int64  `json:"todoId" yaml:"todoId"`
	Name     string `json:"name" yaml:"name"`
	IsDone   string `json:"isDone" yaml:"isDone"`
	Deadline string `json:"deadline" yaml:"deadline"`
	Priority string `json:"priority" yaml:"priority"`
}

// ToRow maps a todo to its display form.
func ToRow(t Todo) Row {
	r := Row{
		ID:       t.ID,
		Name:     t.Name,
		IsDone:   StatusNotFinished,
		Deadline: NoDeadline,
		Priority: NoPriority,
	}
	if t.Done {
		r.IsDone = StatusFinished
	}
	if t.Deadline != nil {
		r.Deadline = t.Deadline.String()
	}
	if t.Priority != PriorityNone {
		r.Priority = string(t.Priority)
	}
	return r
}

// FlipStatus returns the label a status cell shows after a successful toggle.
// The new label is inferred from the old one only.
func FlipStatus(label string) string {
	if label == StatusNotFinished {
		return StatusFinished
	}
	return StatusNotFinished
}
