package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/idilsaglam/todo-inline/internal/model"
	"github.com/idilsaglam/todo-inline/internal/ui"
)

const maxNameColumn = 50

// Table renders rows as an aligned table followed by a progress summary.
func Table(w io.Writer, rows []model.Row, opts Options) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No todos found.")
		return
	}
	t := ui.Current()
	header, dim := t.Muted.Bold(true), t.Muted
	if opts.Plain {
		header, dim = lipgloss.NewStyle(), lipgloss.NewStyle()
	}

	const pad = 2
	idW, nameW, statusW, deadlineW, prioW := 4, 6, 8, 10, 10
	nameMax := maxNameColumn
	if opts.Width > 0 {
		nameMax = max(10, min(nameMax, opts.Width-idW-statusW-deadlineW-prioW-4*pad))
	}
	done := 0
	for _, r := range rows {
		idW = max(idW, len(strconv.FormatInt(r.ID, 10))+pad)
		nameW = max(nameW, min(ansi.StringWidth(r.Name)+pad, nameMax))
		statusW = max(statusW, len(r.IsDone)+pad)
		deadlineW = max(deadlineW, len(r.Deadline)+pad)
		prioW = max(prioW, len(r.Priority)+pad)
		if r.IsDone == model.StatusFinished {
			done++
		}
	}

	fmt.Fprintln(w, header.Render(strings.Join([]string{
		cell("ID", idW), cell("NAME", nameW), cell("STATUS", statusW),
		cell("DEADLINE", deadlineW), cell("PRIORITY", prioW),
	}, " ")))

	for _, r := range rows {
		name := ansi.Truncate(r.Name, nameW-pad, "…")
		deadline := cell(r.Deadline, deadlineW)
		if r.Deadline == model.NoDeadline {
			deadline = dim.Render(deadline)
		}
		priority := cell(r.Priority, prioW)
		if r.Priority == model.NoPriority {
			priority = dim.Render(priority)
		}
		line := strings.Join([]string{
			cell(strconv.FormatInt(r.ID, 10), idW), cell(name, nameW), cell(r.IsDone, statusW),
			deadline, priority,
		}, " ")
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, ui.ProgressBar(done, len(rows), 20))
}

// cell pads s to width columns, measuring display width.
func cell(s string, width int) string {
	if n := ansi.StringWidth(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
