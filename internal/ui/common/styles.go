package common

import "charm.land/lipgloss/v2"

// Styles contains all the application styles
type Styles struct {
	Title lipgloss.Style
	Body  lipgloss.Style
	Muted lipgloss.Style
	Bold  lipgloss.Style

	// Status bar
	StatusBar      lipgloss.Style
	StatusArmed    lipgloss.Style
	StatusDisarmed lipgloss.Style
	StatusLabel    lipgloss.Style
	StatusValue    lipgloss.Style

	// Toolbar buttons
	Button       lipgloss.Style
	ButtonActive lipgloss.Style

	// Map
	Graticule lipgloss.Style
	Overlay   lipgloss.Style
	Rim       lipgloss.Style

	// Help bar
	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style

	// Blocking warning banner
	Banner lipgloss.Style

	// Toast notifications
	ToastSuccess lipgloss.Style
	ToastError   lipgloss.Style
	ToastWarning lipgloss.Style
	ToastInfo    lipgloss.Style
}

// DefaultStyles returns the default application styles using Tokyo Night palette
func DefaultStyles() Styles {
	toast := lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(ColorBackground)
	return Styles{
		Title: lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary),
		Body:  lipgloss.NewStyle().Foreground(ColorForeground),
		Muted: lipgloss.NewStyle().Foreground(ColorMuted),
		Bold:  lipgloss.NewStyle().Bold(true).Foreground(ColorForeground),

		StatusBar:      lipgloss.NewStyle().Background(ColorSurface1).Foreground(ColorForeground),
		StatusArmed:    lipgloss.NewStyle().Bold(true).Padding(0, 1).Background(ColorWarning).Foreground(ColorBackground),
		StatusDisarmed: lipgloss.NewStyle().Bold(true).Padding(0, 1).Background(ColorPrimary).Foreground(ColorBackground),
		StatusLabel:    lipgloss.NewStyle().Foreground(ColorMuted),
		StatusValue:    lipgloss.NewStyle().Foreground(ColorForeground),

		Button:       lipgloss.NewStyle().Padding(0, 1).Background(ColorSurface2).Foreground(ColorForeground),
		ButtonActive: lipgloss.NewStyle().Padding(0, 1).Background(ColorPrimary).Foreground(ColorBackground),

		Graticule: lipgloss.NewStyle().Foreground(ColorGraticule),
		Overlay:   lipgloss.NewStyle().Background(ColorOverlay),
		Rim:       lipgloss.NewStyle().Foreground(ColorOverlayRim).Background(ColorOverlay),

		HelpKey:  lipgloss.NewStyle().Foreground(ColorPrimary),
		HelpDesc: lipgloss.NewStyle().Foreground(ColorMuted),

		Banner: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorError).
			Foreground(ColorError).
			Padding(1, 2),

		ToastSuccess: toast.Background(ColorSuccess),
		ToastError:   toast.Background(ColorError),
		ToastWarning: toast.Background(ColorWarning),
		ToastInfo:    toast.Background(ColorInfo),
	}
}
