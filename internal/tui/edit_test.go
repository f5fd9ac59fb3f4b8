package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todo-inline/internal/model"
)

func TestRename_OpensFocusedInputWithCurrentName(t *testing.T) {
	b := setupBoard(t, newFakeAPI(sampleRows()...))
	sendKey(b, "e")

	r := b.rows[0]
	if r.mode != modeRename {
		t.Fatalf("mode = %d, want rename", r.mode)
	}
	if r.input.Value() != "Buy milk" || !r.input.Focused() {
		t.Errorf("input = %q focused=%v", r.input.Value(), r.input.Focused())
	}
}

func TestRename_EnterSendsOneTrimmedRequest(t *testing.T) {
	api := newFakeAPI(sampleRows()...)
	b := setupBoard(t, api)
	sendKey(b, "e")
	clearInput(b, len("Buy milk"))
	typeText(b, "  Buy oat milk  ")
	sendSpecialKey(b, tea.KeyEnter)

	got := api.callsFor("name")
	if len(got) != 1 {
		t.Fatalf("name calls = %d, want 1", len(got))
	}
	if got[0].id != 1 || got[0].arg != "Buy oat milk" {
		t.Errorf("call = %+v", got[0])
	}
	r := b.rows[0]
	if r.mode != modeDisplay || r.name != "Buy oat milk" {
		t.Errorf("row = %+v", r)
	}
	if !strings.Contains(b.View(), "Buy oat milk") {
		t.Error("view should show the new name")
	}
}

func TestRename_TabSaves(t *testing.T) {
	api := newFakeAPI(sampleRows()...)
	b := setupBoard(t, api)
	sendKey(b, "e")
	typeText(b, "!")
	sendSpecialKey(b, tea.KeyTab)
	if got := api.callsFor("name"); len(got) != 1 || got[0].arg != "Buy milk!" {
		t.Errorf("calls = %+v", got)
	}
}

func TestRename_EscAbandons(t *testing.T) {
	api := newFakeAPI(sampleRows()...)
	b := setupBoard(t, api)
	sendKey(b, "e")
	typeText(b, " and bread")
	sendSpecialKey(b, tea.KeyEsc)
	if b.rows[0].mode != modeDisplay || b.rows[0].name != "Buy milk" {
		t.Errorf("row = %+v", b.rows[0])
	}
	if api.mutations() != 0 {
		t.Error("esc must not send a request")
	}
}

func TestRename_FailureStaysEditing(t *testing.T) {
	api := newFakeAPI(sampleRows()...)
	api.fail["name"] = errServer
	b := setupBoard(t, api)
	sendKey(b, "e")
	typeText(b, "!")
	sendSpecialKey(b, tea.KeyEnter)

	r := b.rows[0]
	if r.mode != modeRename || r.input.Value() != "Buy milk!" {
		t.Errorf("row should stay editing with its input, got mode=%d value=%q", r.mode, r.input.Value())
	}
	if r.name != "Buy milk" {
		t.Errorf("name should be unchanged, got %q", r.name)
	}
	if !hasToast(b, "Could not rename task") {
		t.Errorf("toasts = %+v", b.toasts)
	}

	delete(api.fail, "name")
	sendSpecialKey(b, tea.KeyEnter)
	if r.mode != modeDisplay || r.name != "Buy milk!" {
		t.Errorf("retry should save, got %+v", r)
	}
}

func TestRename_LiveGuardTruncates(t *testing.T) {
	api := newFakeAPI(sampleRows()...)
	b := setupBoard(t, api)
	sendKey(b, "e")
	clearInput(b, len("Buy milk"))
	typeText(b, strings.Repeat("a", 105))

	r := b.rows[0]
	if got := len([]rune(r.input.Value())); got != model.MaxNameLength {
		t.Errorf("input length = %d, want %d", got, model.MaxNameLength)
	}
	if !hasToast(b, "cannot exceed 100 characters") {
		t.Error("expected a notification")
	}
	if api.mutations() != 0 {
		t.Error("no request should be sent while typing")
	}
	if r.mode != modeRename {
		t.Error("row should still be editing")
	}
}

func TestRename_LiveGuardOnPaste(t *testing.T) {
	b := setupBoard(t, newFakeAPI(sampleRows()...))
	sendKey(b, "e")
	clearInput(b, len("Buy milk"))
	b.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(strings.Repeat("é", 150)), Paste: true})
	if got := len([]rune(b.rows[0].input.Value())); got != model.MaxNameLength {
		t.Errorf("input length = %d, want %d", got, model.MaxNameLength)
	}
}

func TestRename_SecondSaveWhileInFlightIgnored(t *testing.T) {
	api := newFakeAPI(sampleRows()...)
	b := setupBoard(t, api)
	sendKey(b, "e")
	typeText(b, "!")
	first := pressOnly(b, tea.KeyEnter)
	if second := pressOnly(b, tea.KeyTab); second != nil {
		t.Error("blur after enter should not send again")
	}
	run(b, first)
	if got := len(api.callsFor("name")); got != 1 {
		t.Errorf("name calls = %d, want 1", got)
	}
}

func TestStatus_SuccessFlipsLabel(t *testing.T) {
	api := newFakeAPI(sampleRows()...)
	b := setupBoard(t, api)
	sendKey(b, "x")

	if got := api.callsFor("status"); len(got) != 1 || got[0].id != 1 {
		t.Fatalf("status calls = %+v", got)
	}
	if b.rows[0].status != model.StatusFinished {
		t.Errorf("status = %q, want Finished", b.rows[0].status)
	}

	sendKey(b, " ")
	if b.rows[0].status != model.StatusNotFinished {
		t.Errorf("status = %q, want Not finished", b.rows[0].status)
	}
}

func TestStatus_FailureKeepsLabel(t *testing.T) {
	api := newFakeAPI(sampleRows()...)
	api.fail["status"] = errors.New("update status: server answered 404 Not Found")
	b := setupBoard(t, api)
	sendKey(b, "x")

	if b.rows[0].status != model.StatusNotFinished {
		t.Errorf("status = %q, want Not finished", b.rows[0].status)
	}
	if !hasToast(b, "Could not change status") {
		t.Errorf("toasts = %+v", b.toasts)
	}
}

func TestPriority_NoneSendsNull(t *testing.T) {
	api := newFakeAPI(sampleRows()...)
	b := setupBoard(t, api)
	sendKey(b, "p")
	if b.rows[0].mode != modePriority || model.PriorityOptions[b.rows[0].choice] != "HIGH" {
		t.Fatalf("select should open on the current value, got choice %d", b.rows[0].choice)
	}
	sendKey(b, "l") // wraps from HIGH to None
	sendSpecialKey(b, tea.KeyEnter)

	got := api.callsFor("priority")
	if len(got) != 1 || got[0].arg != "null" {
		t.Fatalf("priority calls = %+v", got)
	}
	if b.rows[0].priority != model.SelectNone {
		t.Errorf("priority = %q", b.rows[0].priority)
	}
}

func TestPriority_SelectionKeptOnFailure(t *testing.T) {
	api := newFakeAPI(sampleRows()...)
	api.fail["priority"] = errors.New("boom")
	b := setupBoard(t, api)
	sendKey(b, "p")
	sendKey(b, "h") // HIGH -> MEDIUM
	sendSpecialKey(b, tea.KeyEnter)

	if got := api.callsFor("priority"); len(got) != 1 || got[0].arg != "MEDIUM" {
		t.Fatalf("priority calls = %+v", got)
	}
	if b.rows[0].priority != "MEDIUM" {
		t.Errorf("selection should stay MEDIUM, got %q", b.rows[0].priority)
	}
	if !hasToast(b, "Could not change priority") {
		t.Error("expected notification")
	}
}

func TestPriority_UnchangedSendsNothing(t *testing.T) {
	api := newFakeAPI(sampleRows()...)
	b := setupBoard(t, api)
	sendKey(b, "p")
	sendSpecialKey(b, tea.KeyEnter)
	sendKey(b, "p")
	sendKey(b, "l")
	sendSpecialKey(b, tea.KeyEsc)
	if api.mutations() != 0 {
		t.Errorf("expected no requests, got %d", api.mutations())
	}
	if b.rows[0].priority != "HIGH" {
		t.Errorf("priority = %q", b.rows[0].priority)
	}
}

func TestDeadline_YesterdayClearsWithoutRequest(t *testing.T) {
	api := newFakeAPI(sampleRows()...)
	b := setupBoard(t, api)
	sendKey(b, "d")
	clearInput(b, 10)
	typeText(b, "2026-10-16")
	sendSpecialKey(b, tea.KeyEnter)

	if api.mutations() != 0 {
		t.Errorf("expected no request, got %d", api.mutations())
	}
	if b.rows[0].deadline != "" || b.rows[0].mode != modeDisplay {
		t.Errorf("field should be reset, got %+v", b.rows[0])
	}
	if !hasToast(b, "Deadline cannot be in the past") {
		t.Error("expected notification")
	}
}

func TestDeadline_TodaySendsRequest(t *testing.T) {
	api := newFakeAPI(sampleRows()...)
	b := setupBoard(t, api)
	sendKey(b, "d")
	clearInput(b, 10)
	typeText(b, "2026-10-17")
	sendSpecialKey(b, tea.KeyEnter)

	got := api.callsFor("deadline")
	if len(got) != 1 || got[0].id != 1 || got[0].arg != "2026-10-17" {
		t.Fatalf("deadline calls = %+v", got)
	}
	if hasToast(b, "past") {
		t.Error("today must not trigger the past-date guard")
	}
	if b.rows[0].deadline != "2026-10-17" {
		t.Errorf("deadline = %q", b.rows[0].deadline)
	}
}

func TestDeadline_InvalidStaysEditing(t *testing.T) {
	api := newFakeAPI(sampleRows()...)
	b := setupBoard(t, api)
	sendKey(b, "d")
	clearInput(b, 10)
	typeText(b, "next week")
	sendSpecialKey(b, tea.KeyEnter)

	if b.rows[0].mode != modeDeadline {
		t.Error("row should stay editing")
	}
	if !hasToast(b, "Invalid date") || api.mutations() != 0 {
		t.Errorf("toasts=%+v mutations=%d", b.toasts, api.mutations())
	}
}

func TestDeadline_EmptyClears(t *testing.T) {
	api := newFakeAPI(sampleRows()...)
	b := setupBoard(t, api)
	sendKey(b, "d")
	clearInput(b, 10)
	sendSpecialKey(b, tea.KeyEnter)

	if got := api.callsFor("clear"); len(got) != 1 || got[0].id != 1 {
		t.Fatalf("clear calls = %+v", got)
	}
	if b.rows[0].deadline != "" {
		t.Errorf("deadline = %q", b.rows[0].deadline)
	}
}

func TestClearDeadline(t *testing.T) {
	t.Run("success empties the field", func(t *testing.T) {
		api := newFakeAPI(sampleRows()...)
		b := setupBoard(t, api)
		sendKey(b, "c")
		if got := api.callsFor("clear"); len(got) != 1 || got[0].id != 1 {
			t.Fatalf("clear calls = %+v", got)
		}
		if b.rows[0].deadline != "" {
			t.Errorf("deadline = %q", b.rows[0].deadline)
		}
	})
	t.Run("failure leaves it", func(t *testing.T) {
		api := newFakeAPI(sampleRows()...)
		api.fail["clear"] = errors.New("boom")
		b := setupBoard(t, api)
		sendKey(b, "c")
		if b.rows[0].deadline != "2026-10-20" {
			t.Errorf("deadline = %q", b.rows[0].deadline)
		}
		if !hasToast(b, "Could not clear deadline") {
			t.Error("expected notification")
		}
	})
}

func TestRename_LateReplyKeepsNewerEditOpen(t *testing.T) {
	api := newFakeAPI(sampleRows()...)
	b := setupBoard(t, api)
	sendKey(b, "e")
	typeText(b, "!")
	inFlight := pressOnly(b, tea.KeyEnter)

	sendSpecialKey(b, tea.KeyEsc)
	sendKey(b, "e")
	typeText(b, "?")
	run(b, inFlight)

	r := b.rows[0]
	if r.mode != modeRename {
		t.Fatalf("mode = %d, the second rename should still be open", r.mode)
	}
	if got := r.input.Value(); got != "Buy milk?" {
		t.Errorf("input = %q, want the second edit untouched", got)
	}
	if r.name != "Buy milk!" {
		t.Errorf("name = %q, want the saved name", r.name)
	}
	if r.saving {
		t.Error("second edit should not be marked as saving")
	}

	sendSpecialKey(b, tea.KeyEnter)
	if got := api.callsFor("name"); len(got) != 2 || got[1].arg != "Buy milk?" {
		t.Errorf("calls = %+v", got)
	}
}
