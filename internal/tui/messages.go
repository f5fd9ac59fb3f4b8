package tui

import "github.com/idilsaglam/todo-inline/internal/model"

// ReloadMsg asks the board to fetch the list again. The watcher sends it
// when the backing store changes.
type ReloadMsg struct{}

type loadedMsg struct {
	rows []model.Row
	err  error
}

type renamedMsg struct {
	id   int64
	seq  int
	name string
	err  error
}

type toggledMsg struct {
	id  int64
	err error
}

type priorityMsg struct {
	id  int64
	err error
}

type deadlineMsg struct {
	id    int64
	value string
	err   error
}

type clearedMsg struct {
	id  int64
	err error
}

type deletedMsg struct {
	id  int64
	err error
}

type createdMsg struct {
	name string
	err  error
}

type toastExpiredMsg struct {
	id int
}
