package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestProgressBar(t *testing.T) {
	tests := []struct {
		done, total, width int
		want               string
	}{
		{0, 4, 8, "[░░░░░░░░] 0/4"},
		{2, 4, 8, "[████░░░░] 2/4"},
		{4, 4, 8, "[████████] 4/4"},
		{0, 0, 2, "[░░░░░] 0/1"},
	}
	for _, tt := range tests {
		if got := ProgressBar(tt.done, tt.total, tt.width); got != tt.want {
			t.Errorf("ProgressBar(%d,%d,%d) = %q, want %q", tt.done, tt.total, tt.width, got, tt.want)
		}
	}
}

func TestSetTheme(t *testing.T) {
	t.Cleanup(func() {
		SetTheme(ThemeClassic)
		SetNoColor(false)
	})

	SetTheme("NEON")
	if Current().Name != ThemeNeon {
		t.Errorf("theme = %q", Current().Name)
	}
	SetTheme("unknown")
	if Current().Name != ThemeClassic {
		t.Errorf("unknown theme should fall back to classic, got %q", Current().Name)
	}
	SetTheme(ThemeMono)
	var buf bytes.Buffer
	OK(&buf, "saved")
	if got := buf.String(); got != "ok saved\n" {
		t.Errorf("OK = %q", got)
	}
}

func TestKnownTheme(t *testing.T) {
	if !KnownTheme("Mono") || KnownTheme("solarized") {
		t.Error("KnownTheme mismatch")
	}
}

func TestPanel(t *testing.T) {
	SetNoColor(true)
	t.Cleanup(func() { SetNoColor(false) })
	out := Panel("one", "two")
	if !strings.Contains(out, "one") || !strings.Contains(out, "two") {
		t.Errorf("panel = %q", out)
	}
	if lines := strings.Split(out, "\n"); len(lines) != 4 {
		t.Errorf("expected 4 lines, got %d", len(lines))
	}
}
