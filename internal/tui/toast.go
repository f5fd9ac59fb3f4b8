package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// maxToasts caps how many notifications are shown at once.
const maxToasts = 3

const defaultNotifyFor = 4 * time.Second

type toast struct {
	id   int
	text string
	err  bool
}

// notify shows a toast and schedules its removal.
func (b *Board) notify(text string, isErr bool) tea.Cmd {
	b.toastSeq++
	id := b.toastSeq
	b.toasts = append(b.toasts, toast{id: id, text: text, err: isErr})
	if len(b.toasts) > maxToasts {
		b.toasts = b.toasts[len(b.toasts)-maxToasts:]
	}
	return b.tick(b.notifyFor, func(time.Time) tea.Msg { return toastExpiredMsg{id: id} })
}

func (b *Board) dropToast(id int) {
	for i, t := range b.toasts {
		if t.id == id {
			b.toasts = append(b.toasts[:i], b.toasts[i+1:]...)
			return
		}
	}
}
