package common

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// RenderBanner draws a blocking message centred in a width x height area.
func RenderBanner(styles Styles, title, body string, width, height int) string {
	content := styles.Bold.Foreground(ColorError).Render(title)
	if body != "" {
		content += "\n\n" + styles.Body.Render(body)
	}
	box := styles.Banner.Render(content)
	if width <= 0 || height <= 0 {
		return box
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// HelpLine renders key/description pairs separated by a dot.
func HelpLine(styles Styles, pairs ...[2]string) string {
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if p[0] == "" {
			continue
		}
		parts = append(parts, styles.HelpKey.Render(p[0])+" "+styles.HelpDesc.Render(p[1]))
	}
	return strings.Join(parts, styles.HelpDesc.Render(" • "))
}
