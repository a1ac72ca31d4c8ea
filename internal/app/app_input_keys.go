package app

import (
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/andyrewlee/boxpick/internal/logging"
	"github.com/andyrewlee/boxpick/internal/picker"
)

func (a *App) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	km := a.keymap
	switch {
	case key.Matches(msg, km.Quit):
		a.quitting = true
		return tea.Quit
	case key.Matches(msg, km.Help):
		a.toggleHelp()
		return nil
	}

	// A refused CRS blocks everything but quit and help.
	if a.picker.Disabled() {
		return nil
	}

	switch {
	case key.Matches(msg, km.ToggleArm):
		return a.press(picker.ButtonTrigger)
	case key.Matches(msg, km.End):
		before := len(a.history.Boxes)
		return a.pickerResult(before, a.picker.End())
	case key.Matches(msg, km.CursorLeft):
		return a.moveCursor(-1, 0)
	case key.Matches(msg, km.CursorRight):
		return a.moveCursor(1, 0)
	case key.Matches(msg, km.CursorUp):
		return a.moveCursor(0, -1)
	case key.Matches(msg, km.CursorDown):
		return a.moveCursor(0, 1)
	case key.Matches(msg, km.PanLeft):
		a.canvas.Pan(-a.panStep(), 0)
	case key.Matches(msg, km.PanRight):
		a.canvas.Pan(a.panStep(), 0)
	case key.Matches(msg, km.PanUp):
		a.canvas.Pan(0, -max(a.panStep()/2, 1))
	case key.Matches(msg, km.PanDown):
		a.canvas.Pan(0, max(a.panStep()/2, 1))
	case key.Matches(msg, km.ZoomIn):
		a.canvas.Zoom(0.5)
	case key.Matches(msg, km.ZoomOut):
		a.canvas.Zoom(2)
	case key.Matches(msg, km.Recenter):
		a.canvas.CenterOnCursor()
	case key.Matches(msg, km.Graticule):
		a.canvas.SetGraticule(!a.canvas.Graticule())
		a.cfg.UI.ShowGraticule = a.canvas.Graticule()
		a.persistUI()
	case key.Matches(msg, km.Copy):
		return a.copyLastBox()
	case key.Matches(msg, km.Export):
		return a.exportOverlay()
	}
	return nil
}

// panStep pans a quarter of the canvas width per key press.
func (a *App) panStep() int {
	w, _ := a.canvas.Size()
	return max(w/4, 1)
}

func (a *App) toggleHelp() {
	a.showHelp = !a.showHelp
	a.cfg.UI.ShowKeymapHints = a.showHelp
	a.persistUI()
}

// press applies a button press at the cursor.
func (a *App) press(button picker.Button) tea.Cmd {
	before := len(a.history.Boxes)
	return a.pickerResult(before, a.picker.Press(button, a.canvas.CursorPoint()))
}

func (a *App) moveCursor(dx, dy int) tea.Cmd {
	a.canvas.MoveCursor(dx, dy)
	return a.pickerResult(len(a.history.Boxes), a.picker.Move(a.canvas.CursorPoint()))
}

func (a *App) persistUI() {
	if err := a.cfg.SaveUISettings(); err != nil {
		logging.Warn("Saving UI settings failed: %v", err)
	}
}
