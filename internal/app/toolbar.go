package app

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/andyrewlee/boxpick/internal/picker"
	"github.com/andyrewlee/boxpick/internal/ui/common"
)

const (
	toolbarArm    = "arm"
	toolbarEnd    = "end"
	toolbarCopy   = "copy"
	toolbarExport = "export"
	toolbarHelp   = "help"
)

func toolbarZoneID(id string) string { return "toolbar-" + id }

var toolbarIDs = []string{toolbarArm, toolbarEnd, toolbarCopy, toolbarExport, toolbarHelp}

func (a *App) toolbarLabel(id string) string {
	switch id {
	case toolbarArm:
		if a.picker.Armed() {
			return "Disarm"
		}
		return "Arm"
	case toolbarEnd:
		return "End"
	case toolbarCopy:
		return "Copy"
	case toolbarExport:
		return "Export"
	default:
		return "Help"
	}
}

func (a *App) renderToolbar() string {
	title := a.styles.Title.Render("boxpick") + " " + a.styles.Muted.Render(a.layer.Name())
	parts := []string{title}
	for _, id := range toolbarIDs {
		style := a.styles.Button
		if id == toolbarArm && a.picker.Armed() {
			style = a.styles.ButtonActive
		}
		parts = append(parts, a.zone.Mark(toolbarZoneID(id), style.Render(a.toolbarLabel(id))))
	}
	bar := strings.Join(parts, " ")
	if gap := a.width - lipgloss.Width(bar); gap > 0 {
		bar += strings.Repeat(" ", gap)
	}
	return bar
}

// toolbarHit resolves a click against the zones recorded by the last render.
func (a *App) toolbarHit(x, y int) (string, bool) {
	for _, id := range toolbarIDs {
		info := a.zone.Get(toolbarZoneID(id))
		if info == nil || info.IsZero() {
			continue
		}
		region := common.HitRegion{
			ID:     id,
			X:      info.StartX,
			Y:      info.StartY,
			Width:  info.EndX - info.StartX + 1,
			Height: info.EndY - info.StartY + 1,
		}
		if region.Contains(x, y) {
			return id, true
		}
	}
	return "", false
}

func (a *App) runToolbar(id string) tea.Cmd {
	if id == toolbarHelp {
		a.toggleHelp()
		return nil
	}
	if a.picker.Disabled() {
		return nil
	}
	switch id {
	case toolbarArm:
		return a.press(picker.ButtonTrigger)
	case toolbarEnd:
		return a.pickerResult(len(a.history.Boxes), a.picker.End())
	case toolbarCopy:
		return a.copyLastBox()
	case toolbarExport:
		return a.exportOverlay()
	}
	return nil
}
