package cli

import (
	"fmt"
	"io"

	"github.com/mattn/go-runewidth"
)

// field is one label/value row of human output.
type field struct {
	label string
	value string
}

// printFields writes rows as an aligned two-column list.
func printFields(w io.Writer, rows []field) {
	width := 0
	for _, row := range rows {
		if n := runewidth.StringWidth(row.label); n > width {
			width = n
		}
	}
	for _, row := range rows {
		fmt.Fprintf(w, "%s  %s\n", runewidth.FillRight(row.label, width), row.value)
	}
}
