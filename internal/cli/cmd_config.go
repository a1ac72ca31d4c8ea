package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/andyrewlee/boxpick/internal/config"
	"github.com/andyrewlee/boxpick/internal/geo"
)

type configResult struct {
	Path   string         `json:"path"`
	Config *config.Config `json:"config"`
	UI     uiResult       `json:"ui"`
	CRSOK  bool           `json:"crs_supported"`
}

type uiResult struct {
	ShowKeymapHints bool `json:"show_keymap_hints"`
	ShowGraticule   bool `json:"show_graticule"`
}

func cmdConfig(w, wErr io.Writer, gf GlobalFlags, args []string, version string) int {
	const usage = "Usage: boxpick config show [--json]"
	if len(args) == 0 || args[0] != "show" {
		return returnUsageError(w, wErr, gf, usage, version, nil)
	}
	fs := newFlagSet("config show")
	if err := fs.Parse(args[1:]); err != nil {
		return returnUsageError(w, wErr, gf, usage, version, err)
	}
	if err := rejectPositional(fs); err != nil {
		return returnUsageError(w, wErr, gf, usage, version, err)
	}

	cfg, err := loadConfig(gf)
	if err != nil {
		return returnConfigError(w, wErr, gf, err, version)
	}
	result := configResult{
		Path:   cfg.Paths.ConfigPath,
		Config: cfg,
		UI: uiResult{
			ShowKeymapHints: cfg.UI.ShowKeymapHints,
			ShowGraticule:   cfg.UI.ShowGraticule,
		},
		CRSOK: geo.IsWGS84(cfg.ProjectCRS),
	}
	if gf.JSON {
		PrintJSON(w, result, version)
		return ExitOK
	}

	crs := cfg.ProjectCRS
	if !result.CRSOK {
		crs += " (unsupported, picker disabled)"
	}
	PrintHuman(w, func(w io.Writer) {
		printFields(w, []field{
			{"Config", cfg.Paths.ConfigPath},
			{"Box size", strconv.FormatFloat(cfg.BoxSizeKm, 'f', -1, 64) + " km"},
			{"Project CRS", crs},
			{"Rounding", cfg.Rounding},
			{"Projection", cfg.Projection},
			{"Map centre", fmt.Sprintf("%.4f, %.4f", cfg.Map.CenterLat, cfg.Map.CenterLon)},
			{"Degrees/cell", strconv.FormatFloat(cfg.Map.DegreesPerCell, 'f', -1, 64)},
			{"Key hints", strconv.FormatBool(cfg.UI.ShowKeymapHints)},
			{"Graticule", strconv.FormatBool(cfg.UI.ShowGraticule)},
		})
	})
	return ExitOK
}
