package app

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/andyrewlee/boxpick/internal/config"
	"github.com/andyrewlee/boxpick/internal/messages"
	"github.com/andyrewlee/boxpick/internal/picker"
)

type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) write(s string) error {
	f.text = s
	return f.err
}

func newTestApp(t *testing.T, mutate func(*config.Config)) (*App, *fakeClipboard) {
	t.Helper()
	cfg, err := config.LoadFile(config.PathsAt(t.TempDir()), "")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if mutate != nil {
		mutate(cfg)
	}
	clip := &fakeClipboard{}
	a, err := New(Options{
		Config:    cfg,
		Clipboard: clip.write,
		Now:       func() time.Time { return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Shutdown)
	a.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return a, clip
}

func click(a *App, x, y int, button tea.MouseButton) tea.Cmd {
	_, cmd := a.Update(tea.MouseClickMsg{X: x, Y: y, Button: button})
	return cmd
}

func pressKey(a *App, msg tea.KeyPressMsg) tea.Cmd {
	_, cmd := a.Update(msg)
	return cmd
}

func TestClickArmsAndSecondClickEmits(t *testing.T) {
	a, _ := newTestApp(t, nil)
	click(a, 40, 11, tea.MouseLeft)
	if !a.picker.Armed() {
		t.Fatal("left click did not arm")
	}
	box, ok := a.picker.Box()
	if !ok || box.ZoneNumber != 32 || box.ZoneLetter != "T" {
		t.Fatalf("box = %v ok=%v", box, ok)
	}
	if a.layer.Len() != 1 {
		t.Fatalf("layer has %d features", a.layer.Len())
	}

	cmd := click(a, 10, 3, tea.MouseLeft)
	if a.picker.Armed() {
		t.Fatal("second left click did not disarm")
	}
	emitted := a.Emitted()
	if len(emitted) != 1 || emitted[0] != box {
		t.Fatalf("emitted = %v, want [%v]", emitted, box)
	}
	if cmd == nil {
		t.Fatal("expected a BoxEmitted command")
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(a.lastJSON), &decoded); err != nil || decoded["zone_letter"] != "T" {
		t.Fatalf("lastJSON = %q err=%v", a.lastJSON, err)
	}
}

func TestMotionMovesBoxOnlyWhileArmed(t *testing.T) {
	a, _ := newTestApp(t, nil)
	a.Update(tea.MouseMotionMsg{X: 20, Y: 5})
	if _, ok := a.picker.Box(); ok {
		t.Fatal("motion while disarmed computed a box")
	}

	click(a, 40, 11, tea.MouseLeft)
	first, _ := a.picker.Box()
	a.Update(tea.MouseMotionMsg{X: 50, Y: 6})
	moved, _ := a.picker.Box()
	if moved == first {
		t.Fatal("motion while armed did not move the box")
	}
	if cx, cy := a.canvas.Cursor(); cx != 50 || cy != 5 {
		t.Fatalf("cursor = %d,%d, want 50,5", cx, cy)
	}
}

func TestRightClickDoesNotArm(t *testing.T) {
	a, _ := newTestApp(t, nil)
	click(a, 40, 11, tea.MouseRight)
	if a.picker.Armed() {
		t.Fatal("right click armed the picker")
	}
}

func TestKeyboardToggleAndEnd(t *testing.T) {
	a, _ := newTestApp(t, nil)
	pressKey(a, tea.KeyPressMsg{Code: tea.KeySpace})
	if !a.picker.Armed() {
		t.Fatal("space did not arm")
	}
	before, _ := a.picker.Box()
	pressKey(a, tea.KeyPressMsg{Code: 'l', Text: "l"})
	after, _ := a.picker.Box()
	if after == before {
		t.Fatal("cursor key did not move the box")
	}
	pressKey(a, tea.KeyPressMsg{Code: tea.KeyEnter})
	if a.picker.Armed() || len(a.Emitted()) != 1 || a.Emitted()[0] != after {
		t.Fatalf("enter: armed=%v emitted=%v", a.picker.Armed(), a.Emitted())
	}
}

func TestEndWithoutBoxWarns(t *testing.T) {
	a, _ := newTestApp(t, nil)
	pressKey(a, tea.KeyPressMsg{Code: tea.KeyEnter})
	if len(a.Emitted()) != 0 {
		t.Fatal("enter while disarmed emitted")
	}
}

func TestDisabledCRSShowsBannerAndIgnoresInput(t *testing.T) {
	a, _ := newTestApp(t, func(cfg *config.Config) { cfg.ProjectCRS = "EPSG:3857" })
	if !a.picker.Disabled() || !errors.Is(a.picker.Err(), picker.ErrUnsupportedCRS) {
		t.Fatalf("picker not disabled: %v", a.picker.Err())
	}
	click(a, 40, 11, tea.MouseLeft)
	pressKey(a, tea.KeyPressMsg{Code: tea.KeySpace})
	a.Update(tea.MouseMotionMsg{X: 30, Y: 8})
	if _, ok := a.picker.Box(); ok || a.layer.Len() != 0 {
		t.Fatal("disabled picker produced a box")
	}
	view := ansi.Strip(a.render())
	if !strings.Contains(view, "Unsupported project CRS") || !strings.Contains(view, "DISABLED") {
		t.Fatalf("banner missing:\n%s", view)
	}
}

func TestStatusBarShowsZone(t *testing.T) {
	a, _ := newTestApp(t, nil)
	click(a, 40, 11, tea.MouseLeft)
	status := ansi.Strip(a.renderStatus())
	if !strings.Contains(status, "ARMED") || !strings.Contains(status, "UTM 32T") {
		t.Fatalf("status = %q", status)
	}
	if w := ansi.StringWidth(a.renderStatus()); w != 80 {
		t.Fatalf("status width = %d, want 80", w)
	}
}

func TestViewFillsScreen(t *testing.T) {
	a, _ := newTestApp(t, nil)
	lines := strings.Split(a.render(), "\n")
	if len(lines) != 24 {
		t.Fatalf("rendered %d lines, want 24", len(lines))
	}
	v := a.View()
	if !v.AltScreen || v.MouseMode != tea.MouseModeAllMotion {
		t.Fatalf("view modes = %v %v", v.AltScreen, v.MouseMode)
	}
}

func TestCopyLastBox(t *testing.T) {
	a, clip := newTestApp(t, nil)
	pressKey(a, tea.KeyPressMsg{Code: 'y', Text: "y"})
	if clip.text != "" {
		t.Fatal("copied before any emission")
	}

	click(a, 40, 11, tea.MouseLeft)
	click(a, 40, 11, tea.MouseLeft)
	cmd := pressKey(a, tea.KeyPressMsg{Code: 'y', Text: "y"})
	if cmd == nil {
		t.Fatal("copy returned nil cmd")
	}
	msg := cmd()
	copied, ok := msg.(messages.ClipboardCopied)
	if !ok || copied.Err != nil {
		t.Fatalf("msg = %#v", msg)
	}
	if !strings.Contains(clip.text, `"bbox": [`) || clip.text != a.lastJSON {
		t.Fatalf("clipboard = %q", clip.text)
	}
}

func TestExportOverlay(t *testing.T) {
	a, _ := newTestApp(t, nil)
	click(a, 40, 11, tea.MouseLeft)
	cmd := pressKey(a, tea.KeyPressMsg{Code: 'e', Text: "e"})
	if cmd == nil {
		t.Fatal("export returned nil cmd")
	}
	done, ok := cmd().(messages.OverlayExported)
	if !ok || done.Err != nil {
		t.Fatalf("export msg = %#v", done)
	}
	if !strings.HasSuffix(done.Path, "box-20260301-093000.geojson") {
		t.Fatalf("path = %s", done.Path)
	}
	data, err := os.ReadFile(done.Path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(data), `"FeatureCollection"`) || !strings.Contains(string(data), "Temporary_Square") {
		t.Fatalf("export = %s", data)
	}
}

func TestConfigReloadAppliesOnNextUpdate(t *testing.T) {
	a, _ := newTestApp(t, nil)
	click(a, 40, 11, tea.MouseLeft)
	before, _ := a.picker.Box()

	cfg, err := config.LoadFile(a.cfg.Paths, "")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	cfg.BoxSizeKm = 2
	cfg.Rounding = "away"
	a.Update(messages.ConfigReloaded{Config: cfg})

	if a.picker.EdgeKm() != 2 || a.picker.Rounding() != picker.RoundHalfAwayFromZero {
		t.Fatalf("reload not applied: edge=%v rounding=%v", a.picker.EdgeKm(), a.picker.Rounding())
	}
	if !a.picker.Armed() {
		t.Fatal("reload reset the interaction")
	}
	if now, _ := a.picker.Box(); now != before {
		t.Fatal("box changed before the next update")
	}
	a.Update(tea.MouseMotionMsg{X: 41, Y: 11})
	if now, _ := a.picker.Box(); now.Width() != 2000 {
		t.Fatalf("width after move = %d, want 2000", now.Width())
	}
}

func TestConfigReloadFailureKeepsSettings(t *testing.T) {
	a, _ := newTestApp(t, nil)
	a.Update(messages.ConfigReloadFailed{Err: &config.ValidationError{Field: "box_size_km", Message: "must be positive"}})
	if a.picker.EdgeKm() != picker.DefaultEdgeKm {
		t.Fatalf("edge changed to %v", a.picker.EdgeKm())
	}
	if !strings.Contains(a.toast.Message(), "box_size_km") {
		t.Fatalf("toast = %q", a.toast.Message())
	}
}

func TestToolbarArmButton(t *testing.T) {
	a, _ := newTestApp(t, nil)
	_ = a.View()

	deadline := time.Now().Add(2 * time.Second)
	for {
		info := a.zone.Get(toolbarZoneID(toolbarArm))
		if info != nil && !info.IsZero() {
			click(a, info.StartX, info.StartY, tea.MouseLeft)
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("toolbar zone never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if !a.picker.Armed() {
		t.Fatal("arm button did not arm")
	}
}

func TestQuitKeepsEmissions(t *testing.T) {
	a, _ := newTestApp(t, nil)
	click(a, 40, 11, tea.MouseLeft)
	click(a, 40, 11, tea.MouseLeft)
	cmd := pressKey(a, tea.KeyPressMsg{Code: 'q', Text: "q"})
	if cmd == nil {
		t.Fatal("quit returned nil cmd")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("quit cmd did not produce QuitMsg")
	}
	if len(a.Emitted()) != 1 {
		t.Fatalf("emitted = %d", len(a.Emitted()))
	}
}
