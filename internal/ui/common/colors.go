package common

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Tokyo Night-inspired color palette
var (
	// Base palette
	ColorBackground = lipgloss.Color("#1a1b26")
	ColorForeground = lipgloss.Color("#a9b1d6")
	ColorMuted      = lipgloss.Color("#565f89")
	ColorBorder     = lipgloss.Color("#292e42")

	// Semantic colors
	ColorPrimary = lipgloss.Color("#7aa2f7") // Blue - focus, toolbar
	ColorSuccess = lipgloss.Color("#9ece6a") // Green - overlay fill
	ColorWarning = lipgloss.Color("#e0af68") // Yellow - armed cursor
	ColorError   = lipgloss.Color("#f7768e") // Red - CRS refusal
	ColorInfo    = lipgloss.Color("#7dcfff") // Cyan - graticule labels

	// Map layers
	ColorGraticule  = lipgloss.Color("#3b4261")
	ColorOverlay    = lipgloss.Color("#2f5233") // overlay fill at ~30% over the background
	ColorOverlayRim = lipgloss.Color("#9ece6a")

	ColorSurface1 = lipgloss.Color("#1f2335")
	ColorSurface2 = lipgloss.Color("#24283b")
)

// StateColor returns the cursor color for the picker state.
func StateColor(armed, disabled bool) color.Color {
	switch {
	case disabled:
		return ColorError
	case armed:
		return ColorWarning
	default:
		return ColorPrimary
	}
}
