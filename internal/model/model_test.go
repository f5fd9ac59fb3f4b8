package model

import (
	"strings"
	"testing"
	"time"

	"github.com/idilsaglam/todo-inline/internal/date"
)

func TestNameLengthOK(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"empty", "", true},
		{"short", "Buy milk", true},
		{"exactly 100", strings.Repeat("a", 100), true},
		{"101", strings.Repeat("a", 101), false},
		{"100 multibyte", strings.Repeat("é", 100), true},
		{"101 multibyte", strings.Repeat("é", 101), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NameLengthOK(tt.in); got != tt.want {
				t.Errorf("NameLengthOK() = %v, want %v", got, tt.want)
			}
			if err := ValidateName(tt.in); (err == nil) != tt.want {
				t.Errorf("ValidateName() err = %v, want ok=%v", err, tt.want)
			}
		})
	}
}

func TestTruncateName(t *testing.T) {
	got, cut := TruncateName(strings.Repeat("x", 105))
	if !cut {
		t.Error("expected truncation")
	}
	if len(got) != MaxNameLength {
		t.Errorf("len = %d, want %d", len(got), MaxNameLength)
	}

	got, cut = TruncateName("short")
	if cut || got != "short" {
		t.Errorf("TruncateName(short) = %q, %v", got, cut)
	}
}

func TestPriorityWireValue(t *testing.T) {
	if got := PriorityWireValue(SelectNone); got != "null" {
		t.Errorf("None -> %q, want null", got)
	}
	if got := PriorityWireValue("HIGH"); got != "HIGH" {
		t.Errorf("HIGH -> %q", got)
	}
}

func TestParsePriority(t *testing.T) {
	for in, want := range map[string]Priority{"": PriorityNone, "null": PriorityNone, "LOW": PriorityLow, "HIGH": PriorityHigh} {
		got, err := ParsePriority(in)
		if err != nil {
			t.Fatalf("ParsePriority(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParsePriority(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := ParsePriority("low"); err == nil {
		t.Error("expected error for lower-case priority")
	}
}

func TestSelectionFor(t *testing.T) {
	if got := SelectionFor(NoPriority); got != SelectNone {
		t.Errorf("SelectionFor(No priority) = %q", got)
	}
	if got := SelectionFor("medium"); got != "MEDIUM" {
		t.Errorf("SelectionFor(medium) = %q", got)
	}
}

func TestFlipStatus(t *testing.T) {
	if got := FlipStatus(StatusNotFinished); got != StatusFinished {
		t.Errorf("FlipStatus(Not finished) = %q", got)
	}
	if got := FlipStatus(StatusFinished); got != StatusNotFinished {
		t.Errorf("FlipStatus(Finished) = %q", got)
	}
}

func TestToRow(t *testing.T) {
	d := date.New(2026, time.November, 1)
	r := ToRow(Todo{ID: 7, Name: "Ship", Done: true, Deadline: &d, Priority: PriorityHigh})
	want := Row{ID: 7, Name: "Ship", IsDone: StatusFinished, Deadline: "2026-11-01", Priority: "HIGH"}
	if r != want {
		t.Errorf("ToRow = %+v, want %+v", r, want)
	}

	r = ToRow(Todo{ID: 8, Name: "Idle"})
	if r.IsDone != StatusNotFinished || r.Deadline != NoDeadline || r.Priority != NoPriority {
		t.Errorf("ToRow empty = %+v", r)
	}
}
