package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/andyrewlee/boxpick/internal/geo"
	"github.com/andyrewlee/boxpick/internal/picker"
	"github.com/andyrewlee/boxpick/internal/utm"
)

// KeyMapConfig holds user overrides for keybindings.
type KeyMapConfig struct {
	Bindings map[string][]string `json:"bindings,omitempty"`
}

// BindingFor returns the configured keys for an action, if present.
func (k KeyMapConfig) BindingFor(action string) ([]string, bool) {
	if len(k.Bindings) == 0 {
		return nil, false
	}
	if keys, ok := k.Bindings[action]; ok {
		return keys, true
	}
	if keys, ok := k.Bindings[strings.ToLower(action)]; ok {
		return keys, true
	}
	return nil, false
}

// MapConfig is the initial canvas viewport.
type MapConfig struct {
	CenterLat      float64 `json:"center_lat"`
	CenterLon      float64 `json:"center_lon"`
	DegreesPerCell float64 `json:"degrees_per_cell"`
}

// Config holds the application configuration
type Config struct {
	Paths      *Paths       `json:"-"`
	BoxSizeKm  float64      `json:"box_size_km"`
	ProjectCRS string       `json:"project_crs"`
	Rounding   string       `json:"rounding"`
	Projection string       `json:"projection"`
	Map        MapConfig    `json:"map"`
	KeyMap     KeyMapConfig `json:"keymap"`
	UI         UISettings   `json:"-"`
}

// ValidationError reports an invalid configuration value.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// DefaultConfig returns the default configuration
func DefaultConfig() (*Config, error) {
	paths, err := DefaultPaths()
	if err != nil {
		return nil, err
	}
	return Defaults(paths), nil
}

// Defaults returns the default configuration rooted at paths.
func Defaults(paths *Paths) *Config {
	return &Config{
		Paths:      paths,
		BoxSizeKm:  picker.DefaultEdgeKm,
		ProjectCRS: geo.CRSWGS84,
		Rounding:   picker.RoundHalfEven.String(),
		Projection: utm.BackendSeries,
		Map: MapConfig{
			CenterLat:      45,
			CenterLon:      7,
			DegreesPerCell: 0.05,
		},
		KeyMap: KeyMapConfig{},
		UI:     defaultUISettings(),
	}
}

// Load loads config overrides from ~/.boxpick/config.json if present.
func Load() (*Config, error) {
	paths, err := DefaultPaths()
	if err != nil {
		return nil, err
	}
	return LoadFile(paths, "")
}

// LoadFile loads overrides from path, or from paths.ConfigPath when path is
// empty. A missing file yields the defaults.
func LoadFile(paths *Paths, path string) (*Config, error) {
	if path != "" && paths.ConfigPath != path {
		copied := *paths
		copied.ConfigPath = path
		paths = &copied
	}
	cfg := Defaults(paths)

	data, err := os.ReadFile(paths.ConfigPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if err := cfg.apply(data); err != nil {
		return nil, fmt.Errorf("parse %s: %w", paths.ConfigPath, err)
	}
	cfg.UI = loadUISettings(paths.ConfigPath)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// apply overlays the keys present in data onto c.
func (c *Config) apply(data []byte) error {
	var user struct {
		BoxSizeKm  *float64 `json:"box_size_km"`
		ProjectCRS *string  `json:"project_crs"`
		Rounding   *string  `json:"rounding"`
		Projection *string  `json:"projection"`
		Map        *struct {
			CenterLat      *float64 `json:"center_lat"`
			CenterLon      *float64 `json:"center_lon"`
			DegreesPerCell *float64 `json:"degrees_per_cell"`
		} `json:"map"`
		KeyMap KeyMapConfig `json:"keymap,omitempty"`
	}
	if err := json.Unmarshal(data, &user); err != nil {
		return err
	}

	if user.BoxSizeKm != nil {
		c.BoxSizeKm = *user.BoxSizeKm
	}
	if user.ProjectCRS != nil {
		c.ProjectCRS = *user.ProjectCRS
	}
	if user.Rounding != nil {
		c.Rounding = *user.Rounding
	}
	if user.Projection != nil {
		c.Projection = *user.Projection
	}
	if m := user.Map; m != nil {
		if m.CenterLat != nil {
			c.Map.CenterLat = *m.CenterLat
		}
		if m.CenterLon != nil {
			c.Map.CenterLon = *m.CenterLon
		}
		if m.DegreesPerCell != nil {
			c.Map.DegreesPerCell = *m.DegreesPerCell
		}
	}
	if len(user.KeyMap.Bindings) > 0 {
		c.KeyMap = user.KeyMap
	}
	return nil
}

// Validate checks every value the picker and canvas depend on. The project
// CRS is not checked here; a foreign CRS disables the picker instead.
func (c *Config) Validate() error {
	if err := picker.ValidateEdgeKm(c.BoxSizeKm); err != nil {
		return &ValidationError{Field: "box_size_km", Message: err.Error()}
	}
	if _, err := picker.ParseRounding(c.Rounding); err != nil {
		return &ValidationError{Field: "rounding", Message: err.Error()}
	}
	switch strings.ToLower(strings.TrimSpace(c.Projection)) {
	case "", utm.BackendSeries, utm.BackendProj:
	default:
		return &ValidationError{Field: "projection", Message: fmt.Sprintf("unknown backend %q", c.Projection)}
	}
	center := geo.Point{Lat: c.Map.CenterLat, Lon: c.Map.CenterLon}
	if err := center.Validate(); err != nil {
		return &ValidationError{Field: "map", Message: err.Error()}
	}
	if d := c.Map.DegreesPerCell; math.IsNaN(d) || d <= 0 || d > 10 {
		return &ValidationError{Field: "map.degrees_per_cell", Message: fmt.Sprintf("must be in (0, 10], got %v", c.Map.DegreesPerCell)}
	}
	return nil
}

// RoundingMode returns the parsed tie rule. Validate guarantees it parses.
func (c *Config) RoundingMode() picker.Rounding {
	r, _ := picker.ParseRounding(c.Rounding)
	return r
}
