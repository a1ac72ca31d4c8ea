package app

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/andyrewlee/boxpick/internal/keymap"
	"github.com/andyrewlee/boxpick/internal/ui/common"
)

// View renders the toolbar, the map canvas, the status bar and the footer.
func (a *App) View() tea.View {
	var view tea.View
	view.AltScreen = true
	view.MouseMode = tea.MouseModeAllMotion
	view.BackgroundColor = common.ColorBackground
	view.ForegroundColor = common.ColorForeground

	switch {
	case a.quitting:
		view.SetContent("")
	case !a.ready:
		view.SetContent("Loading...")
	default:
		view.SetContent(a.zone.Scan(a.render()))
	}
	return view
}

func (a *App) render() string {
	rows := []string{
		a.renderToolbar(),
		a.renderBody(),
		a.renderStatus(),
		a.renderFooter(),
	}
	return strings.Join(rows, "\n")
}

func (a *App) renderBody() string {
	w, h := a.canvas.Size()
	if a.picker.Disabled() {
		body := fmt.Sprintf("%v\n\nThe picker is inactive. Set \"project_crs\" to EPSG:4326 in\n%s and restart.",
			a.picker.Err(), a.configPath())
		return common.RenderBanner(a.styles, "Unsupported project CRS", body, w, h)
	}
	return a.canvas.View()
}

func (a *App) configPath() string {
	if a.cfg.Paths == nil {
		return "the config file"
	}
	return a.cfg.Paths.ConfigPath
}

func (a *App) renderStatus() string {
	var badge string
	switch {
	case a.picker.Disabled():
		badge = a.styles.ToastError.Render("DISABLED")
	case a.picker.Armed():
		badge = a.styles.StatusArmed.Render("ARMED")
	default:
		badge = a.styles.StatusDisarmed.Render("IDLE")
	}

	cursor := a.canvas.CursorPoint()
	fields := []string{
		badge,
		a.field("WGS84", fmt.Sprintf("%.5f, %.5f", cursor.Lat, cursor.Lon)),
		a.field("edge", fmt.Sprintf("%g km", a.picker.EdgeKm())),
	}
	if box, ok := a.picker.Box(); ok {
		c := a.picker.Center()
		fields = append(fields,
			a.field("UTM", fmt.Sprintf("%d%s %.0fE %.0fN", c.ZoneNumber, c.ZoneLetter, c.Easting, c.Northing)),
			a.field("bbox", fmt.Sprintf("%v", box.BBox())),
		)
	}
	if a.pointerErr != nil {
		fields = append(fields, a.styles.Muted.Render(a.pointerErr.Error()))
	}
	if n := len(a.history.Boxes); n > 0 {
		fields = append(fields, a.field("emitted", fmt.Sprintf("%d", n)))
	}
	return a.fitLine(a.styles.StatusBar, strings.Join(fields, "  "))
}

func (a *App) field(label, value string) string {
	return a.styles.StatusLabel.Render(label+" ") + a.styles.StatusValue.Render(value)
}

func (a *App) renderFooter() string {
	if a.toast.Visible() {
		return a.fitLine(lipgloss.NewStyle(), a.toast.View())
	}
	if !a.showHelp {
		return a.fitLine(lipgloss.NewStyle(), "")
	}
	km := a.keymap
	line := common.HelpLine(a.styles,
		[2]string{keymap.BindingHint(km.ToggleArm), "arm"},
		[2]string{keymap.BindingHint(km.End), "end"},
		[2]string{keymap.SequenceHint(km.CursorLeft, km.CursorDown, km.CursorUp, km.CursorRight), "cursor"},
		[2]string{keymap.SequenceHint(km.PanLeft, km.PanDown, km.PanUp, km.PanRight), "pan"},
		[2]string{keymap.SequenceHint(km.ZoomIn, km.ZoomOut), "zoom"},
		[2]string{keymap.BindingHint(km.Copy), "copy"},
		[2]string{keymap.BindingHint(km.Export), "export"},
		[2]string{keymap.BindingHint(km.Quit), "quit"},
	)
	return a.fitLine(lipgloss.NewStyle(), line)
}

// fitLine truncates or pads s to the terminal width.
func (a *App) fitLine(style lipgloss.Style, s string) string {
	if a.width <= 0 {
		return s
	}
	s = ansi.Truncate(s, a.width, "…")
	if pad := a.width - ansi.StringWidth(s); pad > 0 {
		s += style.Render(strings.Repeat(" ", pad))
	}
	return s
}
