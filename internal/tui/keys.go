package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up, Down, Left, Right key.Binding
	Enter                 key.Binding
	Rename, Toggle        key.Binding
	Priority, Deadline    key.Binding
	Clear, Delete         key.Binding
	New, Reload           key.Binding
	Help, Quit            key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
	Left:     key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("←/h", "prev cell")),
	Right:    key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("→/l", "next cell")),
	Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit cell")),
	Rename:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "rename")),
	Toggle:   key.NewBinding(key.WithKeys("x", " "), key.WithHelp("x/space", "toggle status")),
	Priority: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "priority")),
	Deadline: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "deadline")),
	Clear:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear deadline")),
	Delete:   key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete")),
	New:      key.NewBinding(key.WithKeys("a", "n"), key.WithHelp("a", "add")),
	Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Rename, k.Toggle, k.Priority, k.Deadline, k.New, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Enter},
		{k.Rename, k.Toggle, k.Priority, k.Deadline, k.Clear},
		{k.New, k.Delete, k.Reload, k.Help, k.Quit},
	}
}
