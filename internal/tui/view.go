package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/idilsaglam/todo-inline/internal/date"
	"github.com/idilsaglam/todo-inline/internal/model"
	"github.com/idilsaglam/todo-inline/internal/ui"
)

// Column widths in cells. The name column takes what is left.
const (
	prefixW   = 2
	idW       = 5
	statusW   = 14
	deadlineW = 12
	priorityW = 10
	chromeW   = 4 // panel border and padding
	minNameW  = 10
)

// View implements tea.Model.
func (b *Board) View() string {
	t := ui.Current()
	var sections []string
	sections = append(sections, b.viewHeader())

	switch b.view {
	case viewHelp:
		sections = append(sections, t.Title.Render("Keys"), b.help.FullHelpView(keys.FullHelp()))
		return ui.Panel(sections...)
	case viewConfirmDelete:
		sections = append(sections, fmt.Sprintf("Delete %q? (y/n)", b.deleteName))
		return ui.Panel(sections...)
	}

	sections = append(sections, b.viewRows())
	if b.form != nil {
		sections = append(sections, b.viewCreateForm())
	}
	if len(b.toasts) > 0 {
		sections = append(sections, b.viewToasts())
	}
	sections = append(sections, b.help.ShortHelpView(keys.ShortHelp()))
	return ui.Panel(sections...)
}

func (b *Board) viewHeader() string {
	t := ui.Current()
	done := 0
	for _, r := range b.rows {
		if r.done() {
			done++
		}
	}
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		t.Title.Render("Todos"),
		t.Success.Render(t.SymOK), done,
		t.Pending.Render("•"), len(b.rows)-done,
		t.Accent.Render("Total"), len(b.rows),
	)
}

func (b *Board) nameWidth() int {
	return max(minNameW, b.width-chromeW-prefixW-idW-statusW-deadlineW-priorityW)
}

func (b *Board) viewRows() string {
	t := ui.Current()
	switch {
	case b.loading && len(b.rows) == 0:
		return t.Muted.Render("Loading...")
	case b.loadErr != nil && len(b.rows) == 0:
		return t.Error.Render("Could not load todos.") + " " + t.Muted.Render("Press r to retry.")
	case len(b.rows) == 0:
		return t.Muted.Render("No todos yet. Press a to add one.")
	}

	nameW := b.nameWidth()
	header := strings.Repeat(" ", prefixW) +
		pad("ID", idW) + pad("NAME", nameW) + pad("STATUS", statusW) +
		pad("DEADLINE", deadlineW) + "PRIORITY"
	lines := []string{t.Muted.Render(header)}
	for i, r := range b.rows {
		lines = append(lines, b.viewRow(r, i == b.cursor, nameW))
	}
	return strings.Join(lines, "\n")
}

func (b *Board) viewRow(r *row, selected bool, nameW int) string {
	t := ui.Current()
	focus := func(c cell, s string) string {
		if selected && b.cell == c && r.mode == modeDisplay {
			return t.Selected.Render(s)
		}
		return s
	}

	prefix := strings.Repeat(" ", prefixW)
	if selected {
		prefix = t.Accent.Render(">") + " "
	}

	var name string
	if r.mode == modeRename {
		name = t.Editing.Render(pad(r.input.View(), nameW))
	} else {
		text := r.name
		if r.done() {
			text = t.Done.Render(ansi.Truncate(text, nameW-1, "…"))
		} else {
			text = ansi.Truncate(text, nameW-1, "…")
		}
		name = pad(focus(cellName, text), nameW)
	}

	statusStyle := t.Pending
	if r.done() {
		statusStyle = t.Success
	}
	status := pad(focus(cellStatus, statusStyle.Render(r.status)), statusW)

	var deadline string
	switch {
	case r.mode == modeDeadline:
		deadline = t.Editing.Render(pad(r.input.View(), deadlineW))
	case r.deadline == "":
		deadline = pad(focus(cellDeadline, t.Muted.Render(strings.Repeat("-", len(date.Layout)))), deadlineW)
	default:
		deadline = pad(focus(cellDeadline, r.deadline), deadlineW)
	}

	var priority string
	if r.mode == modePriority {
		opts := make([]string, len(model.PriorityOptions))
		for i, opt := range model.PriorityOptions {
			if i == r.choice {
				opts[i] = t.Selected.Render("[" + opt + "]")
			} else {
				opts[i] = " " + opt + " "
			}
		}
		priority = strings.Join(opts, "")
	} else {
		label := r.priority
		if label == model.SelectNone {
			label = t.Muted.Render(label)
		}
		priority = focus(cellPriority, label)
	}

	line := prefix + pad(strconv.FormatInt(r.id, 10), idW) + name + status + deadline + priority
	if r.pending > 0 {
		line += " " + t.Muted.Render("…")
	}
	return line
}

func (b *Board) viewCreateForm() string {
	t := ui.Current()
	f := b.form
	label := func(fd field, s string) string {
		if f.focus == fd {
			return t.Accent.Render("> " + s)
		}
		return "  " + s
	}
	opts := make([]string, len(model.PriorityOptions))
	for i, opt := range model.PriorityOptions {
		if i == f.priority {
			opts[i] = t.Selected.Render("[" + opt + "]")
		} else {
			opts[i] = " " + opt + " "
		}
	}
	title := t.Title.Render("New todo")
	if f.submitting {
		title += " " + t.Muted.Render("saving…")
	}
	box := lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1)
	return box.Render(strings.Join([]string{
		title,
		label(fieldName, "Name:     ") + f.name.View(),
		label(fieldDeadline, "Deadline: ") + f.deadline.View(),
		label(fieldPriority, "Priority: ") + strings.Join(opts, ""),
		t.Help.Render("tab next field • enter save • esc cancel"),
	}, "\n"))
}

func (b *Board) viewToasts() string {
	t := ui.Current()
	lines := make([]string, 0, len(b.toasts))
	for _, ts := range b.toasts {
		if ts.err {
			lines = append(lines, t.Error.Render(t.SymFail+" "+ts.text))
		} else {
			lines = append(lines, t.Success.Render(t.SymOK+" "+ts.text))
		}
	}
	return strings.Join(lines, "\n")
}

// pad right-pads s to width display cells.
func pad(s string, width int) string {
	if n := ansi.StringWidth(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
