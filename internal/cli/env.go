package cli

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/andyrewlee/boxpick/internal/config"
	"github.com/andyrewlee/boxpick/internal/geo"
	"github.com/andyrewlee/boxpick/internal/logging"
	"github.com/andyrewlee/boxpick/internal/overlay"
	"github.com/andyrewlee/boxpick/internal/picker"
	"github.com/andyrewlee/boxpick/internal/utm"
)

// initHeadlessLogging honours BOXPICK_LOG. Headless commands stay silent
// unless it is set.
func initHeadlessLogging(wErr io.Writer) func() {
	level := logging.ParseLevel(os.Getenv("BOXPICK_LOG_LEVEL"))
	switch strings.ToLower(strings.TrimSpace(os.Getenv("BOXPICK_LOG"))) {
	case "stderr":
		logging.InitializeWriter(wErr, level)
		return func() { logging.SetEnabled(false) }
	case "file", "1", "true":
		paths, err := config.DefaultPaths()
		if err != nil {
			return func() {}
		}
		if err := logging.Initialize(paths.LogsRoot, level); err != nil {
			Errorf(wErr, "cannot open log: %v", err)
			return func() {}
		}
		return func() { _ = logging.Close() }
	default:
		return func() {}
	}
}

func loadConfig(gf GlobalFlags) (*config.Config, error) {
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, err
	}
	if gf.ConfigPath != "" {
		if _, err := os.Stat(gf.ConfigPath); err != nil {
			return nil, err
		}
	}
	return config.LoadFile(paths, gf.ConfigPath)
}

// returnConfigError maps a config load failure to an exit code.
func returnConfigError(w, wErr io.Writer, gf GlobalFlags, err error, version string) int {
	var verr *config.ValidationError
	switch {
	case errors.As(err, &verr):
		return returnFailure(w, wErr, gf, "invalid_config", err, map[string]any{"field": verr.Field}, ExitUsage, version)
	case errors.Is(err, os.ErrNotExist):
		return returnFailure(w, wErr, gf, "config_not_found", err, map[string]any{"path": gf.ConfigPath}, ExitNotFound, version)
	default:
		return returnFailure(w, wErr, gf, "config_error", err, nil, ExitInternalError, version)
	}
}

// returnPickError maps geometry and picker errors to an exit code.
func returnPickError(w, wErr io.Writer, gf GlobalFlags, err error, version string) int {
	switch {
	case errors.Is(err, picker.ErrUnsupportedCRS):
		return returnFailure(w, wErr, gf, "unsupported_crs", err, nil, ExitDependency, version)
	case errors.Is(err, utm.ErrBackendUnavailable):
		return returnFailure(w, wErr, gf, "backend_unavailable", err, nil, ExitDependency, version)
	case errors.Is(err, utm.ErrOutOfRange), errors.Is(err, geo.ErrInvalidPoint):
		return returnFailure(w, wErr, gf, "out_of_range", err, nil, ExitUsage, version)
	case errors.Is(err, utm.ErrInvalidZone):
		return returnFailure(w, wErr, gf, "invalid_zone", err, nil, ExitUsage, version)
	case errors.Is(err, picker.ErrNoBox):
		return returnFailure(w, wErr, gf, "no_box", err, nil, ExitUsage, version)
	default:
		return returnFailure(w, wErr, gf, "internal_error", err, nil, ExitInternalError, version)
	}
}

// boxOptions are the per-command overrides of the configured box.
type boxOptions struct {
	sizeKm   float64
	rounding string
}

// session is one picker wired to an overlay layer.
type session struct {
	picker    *picker.Picker
	layer     *overlay.Layer
	projector utm.Projector
}

func (s *session) Close() {
	if c, ok := s.projector.(io.Closer); ok {
		_ = c.Close()
	}
}

// newSession builds a picker from cfg with opts applied. A non-WGS84 project
// CRS is reported as picker.ErrUnsupportedCRS.
func newSession(cfg *config.Config, opts boxOptions, emitter picker.Emitter) (*session, error) {
	edge := cfg.BoxSizeKm
	if opts.sizeKm != 0 {
		edge = opts.sizeKm
	}
	if err := picker.ValidateEdgeKm(edge); err != nil {
		return nil, &config.ValidationError{Field: "size-km", Message: err.Error()}
	}
	rounding := cfg.RoundingMode()
	if opts.rounding != "" {
		r, err := picker.ParseRounding(opts.rounding)
		if err != nil {
			return nil, &config.ValidationError{Field: "rounding", Message: err.Error()}
		}
		rounding = r
	}
	projector, err := utm.NewProjector(cfg.Projection)
	if err != nil {
		return nil, err
	}

	layer := overlay.New(overlay.DefaultName)
	p, err := picker.New(picker.Options{
		EdgeKm:    edge,
		CRS:       cfg.ProjectCRS,
		Rounding:  rounding,
		Projector: projector,
		Overlay:   layer,
		Emitter:   emitter,
	})
	if err != nil {
		return nil, err
	}
	s := &session{picker: p, layer: layer, projector: projector}
	if p.Disabled() {
		s.Close()
		return nil, p.Err()
	}
	return s, nil
}

// pickOnce arms at point and disarms, which is one click to open and one to
// close the interaction.
func (s *session) pickOnce(point geo.Point) (picker.BoundingBox, error) {
	if err := point.Validate(); err != nil {
		return picker.BoundingBox{}, err
	}
	if err := s.picker.Press(picker.ButtonTrigger, point); err != nil {
		return picker.BoundingBox{}, err
	}
	box, _ := s.picker.Box()
	if err := s.picker.End(); err != nil {
		return picker.BoundingBox{}, err
	}
	return box, nil
}

// returnSessionError reports a failure to set up a picker or projector:
// refusals exit with ExitDependency, everything else is a config problem.
func returnSessionError(w, wErr io.Writer, gf GlobalFlags, err error, version string) int {
	if errors.Is(err, picker.ErrUnsupportedCRS) || errors.Is(err, utm.ErrBackendUnavailable) {
		return returnPickError(w, wErr, gf, err, version)
	}
	return returnConfigError(w, wErr, gf, err, version)
}
