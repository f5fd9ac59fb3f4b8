package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/idilsaglam/todo-inline/internal/model"
)

const defaultWrap = 100

// MarkdownSource builds a markdown document listing rows as a table.
func MarkdownSource(rows []model.Row) string {
	var b strings.Builder
	b.WriteString("# Todos\n\n")
	if len(rows) == 0 {
		b.WriteString("_No todos found._\n")
		return b.String()
	}
	b.WriteString("| ID | Name | Status | Deadline | Priority |\n")
	b.WriteString("|---:|------|--------|----------|----------|\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n",
			r.ID, escapeCell(r.Name), r.IsDone, r.Deadline, r.Priority)
	}
	return b.String()
}

// Markdown renders rows through glamour.
func Markdown(w io.Writer, rows []model.Row, opts Options) error {
	wrap := opts.Width
	if wrap <= 0 {
		wrap = defaultWrap
	}
	style := glamour.WithAutoStyle()
	if opts.Plain {
		style = glamour.WithStandardStyle("notty")
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(wrap))
	if err != nil {
		return fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := r.Render(MarkdownSource(rows))
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
