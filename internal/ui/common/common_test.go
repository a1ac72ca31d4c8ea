package common

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/andyrewlee/boxpick/internal/messages"
)

func TestHitRegionContains(t *testing.T) {
	r := HitRegion{ID: "arm", X: 2, Y: 1, Width: 5, Height: 1}
	tests := []struct {
		x, y int
		want bool
	}{
		{2, 1, true},
		{6, 1, true},
		{7, 1, false},
		{1, 1, false},
		{3, 0, false},
		{3, 2, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
	if x, y := r.Local(4, 1); x != 2 || y != 0 {
		t.Fatalf("Local = %d,%d", x, y)
	}
}

func TestToastLifecycle(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewToastModel()
	m.now = func() time.Time { return now }

	if cmd := m.ShowWarning("config reloaded"); cmd == nil {
		t.Fatal("Show returned nil cmd")
	}
	if !m.Visible() || m.Message() != "config reloaded" {
		t.Fatalf("toast not visible: %q", m.Message())
	}
	if !strings.Contains(ansi.Strip(m.View()), "! config reloaded") {
		t.Fatalf("View = %q", ansi.Strip(m.View()))
	}

	// An early dismissal tick from an older toast keeps the current one.
	m.Update(ToastDismissed{})
	if !m.Visible() {
		t.Fatal("toast dismissed before its deadline")
	}

	now = now.Add(5 * time.Second)
	m.Update(ToastDismissed{})
	if m.Visible() || m.View() != "" {
		t.Fatal("toast still visible after deadline")
	}
}

func TestRenderBanner(t *testing.T) {
	out := ansi.Strip(RenderBanner(DefaultStyles(), "Unsupported CRS", "set project_crs", 60, 12))
	if !strings.Contains(out, "Unsupported CRS") || !strings.Contains(out, "set project_crs") {
		t.Fatalf("banner = %q", out)
	}
	if lines := strings.Split(out, "\n"); len(lines) != 12 {
		t.Fatalf("banner height = %d, want 12", len(lines))
	}
}

func TestHelpLineSkipsEmptyKeys(t *testing.T) {
	out := ansi.Strip(HelpLine(DefaultStyles(), [2]string{"space", "arm"}, [2]string{"", "hidden"}, [2]string{"q", "quit"}))
	if out != "space arm • q quit" {
		t.Fatalf("HelpLine = %q", out)
	}
}

func TestSafeCmdRecoversPanic(t *testing.T) {
	cmd := SafeCmd(func() tea.Msg { panic("boom") })
	msg := cmd()
	errMsg, ok := msg.(messages.Error)
	if !ok || errMsg.Context != "command" {
		t.Fatalf("msg = %#v, want messages.Error", msg)
	}
}

func TestSafeBatchSkipsNil(t *testing.T) {
	if SafeBatch(nil, nil) != nil {
		t.Fatal("SafeBatch of nils should be nil")
	}
	single := SafeBatch(nil, func() tea.Msg { return ToastDismissed{} })
	if _, ok := single().(ToastDismissed); !ok {
		t.Fatal("single command not passed through")
	}
}
