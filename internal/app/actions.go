package app

import (
	"fmt"
	"os"
	"path/filepath"

	tea "charm.land/bubbletea/v2"

	"github.com/andyrewlee/boxpick/internal/messages"
)

// copyLastBox puts the most recent emission on the clipboard.
func (a *App) copyLastBox() tea.Cmd {
	if a.lastJSON == "" {
		return a.toast.ShowWarning("No box emitted yet")
	}
	text := a.lastJSON
	write := a.clipboard
	return func() tea.Msg {
		return messages.ClipboardCopied{Err: write(text)}
	}
}

// exportOverlay writes the overlay layer as GeoJSON under the exports directory.
func (a *App) exportOverlay() tea.Cmd {
	if a.layer.Len() == 0 {
		return a.toast.ShowWarning("Nothing to export")
	}
	data, err := a.layer.GeoJSON()
	if err != nil {
		return a.toast.ShowError("Export failed: " + err.Error())
	}
	dir := a.cfg.Paths.ExportsRoot
	name := fmt.Sprintf("box-%s.geojson", a.now().Format("20060102-150405"))
	return func() tea.Msg {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return messages.OverlayExported{Err: err}
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
			return messages.OverlayExported{Err: err}
		}
		return messages.OverlayExported{Path: path}
	}
}
