// Package ui holds the shared look of the CLI and the TUI: themes, status
// lines, panels and terminal helpers.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles styles, symbols and the box border.
// All helpers pull from the current theme.
type Theme struct {
	Name string

	Title, Muted, Accent, Success, Error, Pending lipgloss.Style
	Selected, Done, Help, Editing                 lipgloss.Style

	Border lipgloss.Border

	SymOK, SymFail           string
	BoxChecked, BoxUnchecked string
}

// Theme names.
const (
	ThemeClassic = "classic"
	ThemeNeon    = "neon"
	ThemeMono    = "mono"
)

// Themes lists the known theme names.
var Themes = []string{ThemeClassic, ThemeNeon, ThemeMono}

var current = classic()

// SetTheme switches the current theme. Unknown names fall back to classic.
// The mono theme also turns colour off.
func SetTheme(name string) {
	switch strings.ToLower(name) {
	case ThemeNeon:
		current = neon()
	case ThemeMono:
		current = mono()
		SetNoColor(true)
	default:
		current = classic()
	}
}

// Current returns the active theme.
func Current() Theme { return current }

// KnownTheme reports whether name is a theme SetTheme recognizes.
func KnownTheme(name string) bool {
	for _, t := range Themes {
		if strings.EqualFold(t, name) {
			return true
		}
	}
	return false
}

func classic() Theme {
	return Theme{
		Name:         ThemeClassic,
		Title:        lipgloss.NewStyle().Bold(true),
		Muted:        lipgloss.NewStyle().Faint(true),
		Accent:       lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Success:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Pending:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Selected:     lipgloss.NewStyle().Bold(true).Reverse(true),
		Done:         lipgloss.NewStyle().Faint(true).Strikethrough(true),
		Help:         lipgloss.NewStyle().Faint(true),
		Editing:      lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Underline(true),
		Border:       lipgloss.RoundedBorder(),
		SymOK:        "✔",
		SymFail:      "✖",
		BoxChecked:   "☑",
		BoxUnchecked: "☐",
	}
}

func neon() Theme {
	t := classic()
	t.Name = ThemeNeon
	t.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	t.Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	t.Pending = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	t.Editing = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Underline(true)
	t.BoxChecked, t.BoxUnchecked = "◼", "◻"
	return t
}

func mono() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Name:         ThemeMono,
		Title:        plain,
		Muted:        plain,
		Accent:       plain,
		Success:      plain,
		Error:        plain,
		Pending:      plain,
		Selected:     plain.Reverse(true),
		Done:         plain,
		Help:         plain,
		Editing:      plain.Underline(true),
		Border:       lipgloss.NormalBorder(),
		SymOK:        "ok",
		SymFail:      "x",
		BoxChecked:   "[x]",
		BoxUnchecked: "[ ]",
	}
}
