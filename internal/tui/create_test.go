package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todo-inline/internal/model"
)

func TestCreate_TooLongNameCancelsAndRefocuses(t *testing.T) {
	api := newFakeAPI(sampleRows()...)
	b := setupBoard(t, api)
	sendKey(b, "a")
	if b.form == nil {
		t.Fatal("form should open")
	}
	typeText(b, strings.Repeat("n", 101))
	sendSpecialKey(b, tea.KeyTab) // move away from the name field
	sendSpecialKey(b, tea.KeyEnter)

	if len(api.callsFor("create")) != 0 {
		t.Fatal("submission should be cancelled")
	}
	if b.form == nil || b.form.focus != fieldName || !b.form.name.Focused() {
		t.Error("focus should return to the name field")
	}
	if !hasToast(b, "cannot exceed 100 characters") {
		t.Error("expected notification")
	}
}

func TestCreate_HundredCharacterNameSubmits(t *testing.T) {
	api := newFakeAPI(sampleRows()...)
	b := setupBoard(t, api)
	sendKey(b, "a")
	name := strings.Repeat("n", model.MaxNameLength)
	typeText(b, "  "+name+"  ")
	sendSpecialKey(b, tea.KeyEnter)

	got := api.callsFor("create")
	if len(got) != 1 || got[0].arg != name {
		t.Fatalf("create calls = %+v", got)
	}
	if b.form != nil {
		t.Error("form should close after saving")
	}
	if len(api.callsFor("list")) != 2 {
		t.Error("list should be reloaded after create")
	}
	if !hasToast(b, "was saved") {
		t.Error("expected confirmation")
	}
}

func TestCreate_AllFields(t *testing.T) {
	api := newFakeAPI()
	b := setupBoard(t, api)
	sendKey(b, "a")
	typeText(b, "Pay rent")
	sendSpecialKey(b, tea.KeyTab)
	typeText(b, "2026-11-01")
	sendSpecialKey(b, tea.KeyTab)
	sendKey(b, "l") // None -> LOW
	sendKey(b, "l") // LOW -> MEDIUM
	sendSpecialKey(b, tea.KeyEnter)

	got := api.callsFor("create")
	if len(got) != 1 || got[0].arg != "Pay rent|2026-11-01|MEDIUM" {
		t.Fatalf("create calls = %+v", got)
	}
}

func TestCreate_BlankNameRejected(t *testing.T) {
	api := newFakeAPI()
	b := setupBoard(t, api)
	sendKey(b, "a")
	typeText(b, "   ")
	sendSpecialKey(b, tea.KeyEnter)
	if len(api.callsFor("create")) != 0 || !hasToast(b, "cannot be empty") {
		t.Errorf("blank name should be rejected, toasts=%+v", b.toasts)
	}
}

func TestCreate_BadDeadlineFocusesDeadline(t *testing.T) {
	api := newFakeAPI()
	b := setupBoard(t, api)
	sendKey(b, "a")
	typeText(b, "Pay rent")
	sendSpecialKey(b, tea.KeyTab)
	typeText(b, "tomorrow")
	sendSpecialKey(b, tea.KeyEnter)
	if len(api.callsFor("create")) != 0 {
		t.Fatal("should not submit")
	}
	if b.form.focus != fieldDeadline {
		t.Errorf("focus = %d, want deadline", b.form.focus)
	}
}

func TestCreate_ServerRejectionKeepsForm(t *testing.T) {
	api := newFakeAPI()
	api.fail["create"] = errors.New("create todo: server answered 400: Deadline cannot be in past")
	b := setupBoard(t, api)
	sendKey(b, "a")
	typeText(b, "Pay rent")
	sendSpecialKey(b, tea.KeyEnter)
	if b.form == nil || b.form.submitting {
		t.Fatal("form should stay open and ready")
	}
	if !hasToast(b, "Deadline cannot be in past") {
		t.Errorf("toasts = %+v", b.toasts)
	}
}

func TestCreate_EscCloses(t *testing.T) {
	b := setupBoard(t, newFakeAPI())
	sendKey(b, "a")
	sendSpecialKey(b, tea.KeyEsc)
	if b.form != nil {
		t.Error("esc should close the form")
	}
}

func TestCreate_FormVisible(t *testing.T) {
	b := setupBoard(t, newFakeAPI())
	sendKey(b, "a")
	v := b.View()
	for _, want := range []string{"New todo", "Name:", "Deadline:", "Priority:", "[None]"} {
		if !strings.Contains(v, want) {
			t.Errorf("form view missing %q", want)
		}
	}
}
