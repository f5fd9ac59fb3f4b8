package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todo-inline/internal/date"
	"github.com/idilsaglam/todo-inline/internal/model"
)

type field int

const (
	fieldName field = iota
	fieldDeadline
	fieldPriority
	fieldCount
)

// createForm collects a new todo. Only the name is required.
type createForm struct {
	name       textinput.Model
	deadline   textinput.Model
	priority   int
	focus      field
	submitting bool
}

func newCreateForm() *createForm {
	f := &createForm{
		name:     newInput("", "What needs doing?", 0),
		deadline: newInput("", date.Layout+" (optional)", len(date.Layout)+12),
	}
	f.focusField(fieldName)
	return f
}

func (f *createForm) focusField(fd field) {
	f.focus = fd
	f.name.Blur()
	f.deadline.Blur()
	switch fd {
	case fieldName:
		f.name.Focus()
	case fieldDeadline:
		f.deadline.Focus()
	}
}

func (b *Board) handleCreateKey(msg tea.KeyMsg) tea.Cmd {
	f := b.form
	switch msg.String() {
	case keyEsc:
		if !f.submitting {
			b.form = nil
		}
		return nil
	case keyTab, "down":
		f.focusField((f.focus + 1) % fieldCount)
		return nil
	case "shift+tab", "up":
		f.focusField((f.focus + fieldCount - 1) % fieldCount)
		return nil
	case keyEnter:
		return b.submitCreate()
	}

	var cmd tea.Cmd
	switch f.focus {
	case fieldName:
		f.name, cmd = f.name.Update(msg)
	case fieldDeadline:
		f.deadline, cmd = f.deadline.Update(msg)
	case fieldPriority:
		n := len(model.PriorityOptions)
		switch msg.String() {
		case "left", "h":
			f.priority = (f.priority + n - 1) % n
		case "right", "l", " ":
			f.priority = (f.priority + 1) % n
		}
	}
	return cmd
}

// submitCreate guards the form: a name that is blank or too long cancels the
// submission and puts focus back on the name field.
func (b *Board) submitCreate() tea.Cmd {
	f := b.form
	if f.submitting {
		return nil
	}
	name := strings.TrimSpace(f.name.Value())
	f.name.SetValue(name)
	if name == "" {
		f.focusField(fieldName)
		return b.notify("Task name cannot be empty", true)
	}
	if !model.NameLengthOK(name) {
		f.focusField(fieldName)
		return b.notify("Task name cannot exceed 100 characters", true)
	}

	in := model.NewTodo{Name: name}
	if raw := strings.TrimSpace(f.deadline.Value()); raw != "" {
		d, err := date.Parse(raw)
		if err != nil {
			f.focusField(fieldDeadline)
			return b.notify(fmt.Sprintf("Invalid date %q, use %s", raw, date.Layout), true)
		}
		in.Deadline = &d
	}
	p, err := model.ParsePriority(model.PriorityWireValue(model.PriorityOptions[f.priority]))
	if err != nil {
		return b.notify(err.Error(), true)
	}
	in.Priority = p

	f.submitting = true
	return func() tea.Msg {
		err := b.api.CreateTodo(b.ctx, in)
		return createdMsg{name: in.Name, err: err}
	}
}

func (b *Board) onCreated(msg createdMsg) tea.Cmd {
	if b.form != nil {
		b.form.submitting = false
	}
	if msg.err != nil {
		return b.failed("create todo", 0, "Could not create task", msg.err)
	}
	b.form = nil
	return tea.Batch(b.notify(fmt.Sprintf("Todo: %s was saved", msg.name), false), b.load())
}
