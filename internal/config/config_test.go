package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/andyrewlee/boxpick/internal/picker"
)

func writeConfig(t *testing.T, body string) *Paths {
	t.Helper()
	paths := PathsAt(t.TempDir())
	if err := os.WriteFile(paths.ConfigPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return paths
}

func TestDefaultConfig(t *testing.T) {
	cfg, err := DefaultConfig()
	if err != nil {
		t.Fatalf("DefaultConfig() error = %v", err)
	}
	if cfg.Paths == nil {
		t.Fatal("DefaultConfig() returned nil Paths")
	}
	if cfg.BoxSizeKm != 10 || cfg.ProjectCRS != "EPSG:4326" || cfg.Rounding != "even" || cfg.Projection != "series" {
		t.Fatalf("DefaultConfig() = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}
}

func TestLoadFileMissingUsesDefaults(t *testing.T) {
	paths := PathsAt(t.TempDir())
	cfg, err := LoadFile(paths, "")
	if err != nil {
		t.Fatalf("LoadFile error = %v", err)
	}
	if cfg.BoxSizeKm != picker.DefaultEdgeKm {
		t.Fatalf("BoxSizeKm = %v", cfg.BoxSizeKm)
	}
}

func TestLoadFileOverrides(t *testing.T) {
	paths := writeConfig(t, `{
		"box_size_km": 2.5,
		"project_crs": "EPSG:3857",
		"rounding": "away",
		"map": {"center_lat": -33.9},
		"keymap": {"bindings": {"toggle_arm": ["a"]}},
		"ui": {"show_graticule": false}
	}`)
	cfg, err := LoadFile(paths, "")
	if err != nil {
		t.Fatalf("LoadFile error = %v", err)
	}
	if cfg.BoxSizeKm != 2.5 || cfg.ProjectCRS != "EPSG:3857" || cfg.RoundingMode() != picker.RoundHalfAwayFromZero {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Map.CenterLat != -33.9 || cfg.Map.CenterLon != 7 || cfg.Map.DegreesPerCell != 0.05 {
		t.Fatalf("map = %+v, want partial override", cfg.Map)
	}
	if keys, ok := cfg.KeyMap.BindingFor("toggle_arm"); !ok || keys[0] != "a" {
		t.Fatalf("keymap = %+v", cfg.KeyMap)
	}
	if cfg.UI.ShowGraticule {
		t.Fatal("ui.show_graticule not loaded")
	}
}

func TestLoadFileExplicitPath(t *testing.T) {
	paths := PathsAt(t.TempDir())
	other := filepath.Join(t.TempDir(), "custom.json")
	if err := os.WriteFile(other, []byte(`{"box_size_km": 1}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadFile(paths, other)
	if err != nil {
		t.Fatalf("LoadFile error = %v", err)
	}
	if cfg.BoxSizeKm != 1 || cfg.Paths.ConfigPath != other {
		t.Fatalf("cfg = %+v paths = %+v", cfg, cfg.Paths)
	}
	if paths.ConfigPath == other {
		t.Fatal("LoadFile mutated caller paths")
	}
}

func TestLoadFileValidation(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"zero size", `{"box_size_km": 0}`, "box_size_km"},
		{"negative size", `{"box_size_km": -3}`, "box_size_km"},
		{"size beyond a zone", `{"box_size_km": 1500}`, "box_size_km"},
		{"huge size", `{"box_size_km": 1e300}`, "box_size_km"},
		{"rounding", `{"rounding": "up"}`, "rounding"},
		{"projection", `{"projection": "mercator"}`, "projection"},
		{"center", `{"map": {"center_lat": 95}}`, "map"},
		{"zoom", `{"map": {"degrees_per_cell": 0}}`, "map.degrees_per_cell"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.body), "")
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error = %v, want ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Fatalf("Field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}

func TestValidateRejectsNonFinite(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Config)
		field string
	}{
		{"nan size", func(c *Config) { c.BoxSizeKm = math.NaN() }, "box_size_km"},
		{"inf size", func(c *Config) { c.BoxSizeKm = math.Inf(1) }, "box_size_km"},
		{"nan zoom", func(c *Config) { c.Map.DegreesPerCell = math.NaN() }, "map.degrees_per_cell"},
		{"nan centre", func(c *Config) { c.Map.CenterLon = math.NaN() }, "map"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults(PathsAt(t.TempDir()))
			tt.edit(cfg)
			var verr *ValidationError
			if err := cfg.Validate(); !errors.As(err, &verr) || verr.Field != tt.field {
				t.Fatalf("Validate() error = %v, want field %q", err, tt.field)
			}
		})
	}
}

func TestLoadFileMalformed(t *testing.T) {
	_, err := LoadFile(writeConfig(t, `{"box_size_km":`), "")
	if err == nil {
		t.Fatal("expected parse error")
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		t.Fatal("parse error reported as validation error")
	}
}
