package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/andyrewlee/boxpick/internal/perf"
	"github.com/andyrewlee/boxpick/internal/picker"
)

// inCanvas reports whether screen row y belongs to the map.
func (a *App) inCanvas(x, y int) bool {
	w, h := a.canvas.Size()
	return x >= 0 && x < w && y >= toolbarRows && y < toolbarRows+h
}

// handleMouseClick maps the left button to the picker trigger and every
// other button to a plain press.
func (a *App) handleMouseClick(msg tea.MouseClickMsg) tea.Cmd {
	if msg.Y < toolbarRows {
		if id, ok := a.toolbarHit(msg.X, msg.Y); ok {
			return a.runToolbar(id)
		}
		return nil
	}
	if a.picker.Disabled() || !a.inCanvas(msg.X, msg.Y) {
		return nil
	}
	a.canvas.SetCursor(msg.X, msg.Y-toolbarRows)
	button := picker.ButtonOther
	if msg.Button == tea.MouseLeft {
		button = picker.ButtonTrigger
	}
	return a.press(button)
}

func (a *App) handleMouseMotion(msg tea.MouseMotionMsg) tea.Cmd {
	if a.picker.Disabled() || !a.inCanvas(msg.X, msg.Y) {
		return nil
	}
	a.canvas.SetCursor(msg.X, msg.Y-toolbarRows)
	done := perf.Default().Time("picker.move")
	err := a.picker.Move(a.canvas.CursorPoint())
	done()
	return a.pickerResult(len(a.history.Boxes), err)
}
