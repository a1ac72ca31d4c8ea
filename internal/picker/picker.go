// Package picker implements the box picking interaction: a two-state
// armed/disarmed machine driven by pointer events that keeps a fixed-size
// UTM square centred on the pointer and emits it when the interaction ends.
package picker

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/paulmach/orb"

	"github.com/andyrewlee/boxpick/internal/geo"
	"github.com/andyrewlee/boxpick/internal/logging"
	"github.com/andyrewlee/boxpick/internal/utm"
)

var (
	// ErrUnsupportedCRS disables a picker whose project CRS is not WGS84.
	ErrUnsupportedCRS = errors.New("project CRS is not EPSG:4326")
	// ErrNoBox is returned when an interaction ends before any box was computed.
	ErrNoBox = errors.New("no bounding box computed")
	// ErrInvalidEdge rejects an edge length the projection cannot serve.
	ErrInvalidEdge = errors.New("invalid edge length")
)

// State is the interaction state.
type State int

const (
	Disarmed State = iota
	Armed
)

func (s State) String() string {
	if s == Armed {
		return "armed"
	}
	return "disarmed"
}

// Button identifies the pointer button of a press.
type Button int

const (
	// ButtonTrigger is the designated toggle button (left mouse button).
	ButtonTrigger Button = iota
	// ButtonOther is any other button.
	ButtonOther
)

// Overlay receives the polygon to draw. Replace must drop whatever was
// drawn before.
type Overlay interface {
	Replace(ring orb.Ring)
	Truncate()
}

// Emitter receives the final box when an interaction ends.
type Emitter interface {
	Emit(box BoundingBox) error
}

// Options configures a Picker.
type Options struct {
	// EdgeKm is the square's edge length; zero means DefaultEdgeKm.
	EdgeKm float64
	// CRS is the host project's reference system, read once.
	CRS       string
	Rounding  Rounding
	Projector utm.Projector
	Overlay   Overlay
	Emitter   Emitter
}

// Picker owns the state of one tool instance. It is not safe for concurrent
// use; all calls are expected from the UI event loop.
type Picker struct {
	edgeKm    float64
	rounding  Rounding
	projector utm.Projector
	overlay   Overlay
	emitter   Emitter

	err    error
	state  State
	hasBox bool
	point  geo.Point
	center utm.Coordinate
	box    BoundingBox
	ring   orb.Ring
}

// New builds a picker. A non-WGS84 CRS does not fail construction: the
// picker comes back disabled and Err reports ErrUnsupportedCRS.
func New(opts Options) (*Picker, error) {
	edge := opts.EdgeKm
	if edge == 0 {
		edge = DefaultEdgeKm
	}
	if err := ValidateEdgeKm(edge); err != nil {
		return nil, err
	}
	projector := opts.Projector
	if projector == nil {
		projector = utm.Series{}
	}
	p := &Picker{
		edgeKm:    edge,
		rounding:  opts.Rounding,
		projector: projector,
		overlay:   opts.Overlay,
		emitter:   opts.Emitter,
	}
	if !geo.IsWGS84(opts.CRS) {
		p.err = fmt.Errorf("%w: got %q", ErrUnsupportedCRS, opts.CRS)
		logging.Warn("Picker disabled: %v", p.err)
	}
	return p, nil
}

// Err returns the reason the picker is disabled, or nil.
func (p *Picker) Err() error { return p.err }

// Disabled reports whether the picker refuses to operate.
func (p *Picker) Disabled() bool { return p.err != nil }

// State returns the current interaction state.
func (p *Picker) State() State { return p.state }

// Armed reports whether pointer moves currently update the box.
func (p *Picker) Armed() bool { return p.state == Armed }

// EdgeKm returns the configured edge length.
func (p *Picker) EdgeKm() float64 { return p.edgeKm }

// Rounding returns the tie rule in use.
func (p *Picker) Rounding() Rounding { return p.rounding }

// Point returns the last applied pointer position.
func (p *Picker) Point() geo.Point { return p.point }

// Center returns the projected centre of the current box.
func (p *Picker) Center() utm.Coordinate { return p.center }

// Box returns the current box and whether one has been computed.
func (p *Picker) Box() (BoundingBox, bool) { return p.box, p.hasBox }

// Ring returns the WGS84 overlay ring of the current box.
func (p *Picker) Ring() orb.Ring { return p.ring }

// SetEdgeKm changes the edge length; it applies from the next update.
func (p *Picker) SetEdgeKm(km float64) error {
	if err := ValidateEdgeKm(km); err != nil {
		return err
	}
	p.edgeKm = km
	return nil
}

// SetRounding changes the tie rule; it applies from the next update.
func (p *Picker) SetRounding(r Rounding) { p.rounding = r }

// Toggle flips the armed state. Leaving the armed state emits the current box.
func (p *Picker) Toggle() error {
	if p.Disabled() {
		return nil
	}
	if p.state == Armed {
		p.state = Disarmed
		return p.emit()
	}
	p.arm()
	return nil
}

// arm starts a new interaction. Nothing from the previous one survives.
func (p *Picker) arm() {
	p.state = Armed
	p.hasBox = false
	p.point = geo.Point{}
	p.center = utm.Coordinate{}
	p.box = BoundingBox{}
	p.ring = nil
	if p.overlay != nil {
		p.overlay.Truncate()
	}
}

// Update recomputes the box around point. It is a no-op unless armed.
// Points outside the UTM domain leave the previous box untouched.
func (p *Picker) Update(point geo.Point) error {
	if p.Disabled() || p.state != Armed {
		return nil
	}
	logging.Debug("WGS84 coordinates: Latitude: %v, Longitude: %v", point.Lat, point.Lon)

	center, err := p.projector.Forward(point)
	if err != nil {
		logging.Warn("Ignoring pointer update at %s: %v", point, err)
		return err
	}
	box := boxAround(center, p.edgeKm, p.rounding)
	ring, err := CornerRing(p.projector, box)
	if err != nil {
		logging.Warn("Ignoring pointer update at %s: %v", point, err)
		return err
	}

	p.point = point
	p.center = center
	p.box = box
	p.ring = ring
	p.hasBox = true
	if p.overlay != nil {
		p.overlay.Replace(ring)
	}
	return nil
}

// Press handles a button press at point. The trigger button toggles the
// armed state: arming applies the press point, disarming emits. Other
// buttons only move the box while armed.
func (p *Picker) Press(button Button, point geo.Point) error {
	if p.Disabled() {
		return nil
	}
	if button != ButtonTrigger {
		return p.Update(point)
	}
	if p.state == Armed {
		p.state = Disarmed
		return p.emit()
	}
	p.arm()
	return p.Update(point)
}

// Move handles pointer motion.
func (p *Picker) Move(point geo.Point) error {
	return p.Update(point)
}

// End finishes an armed interaction and emits. It is a no-op when disarmed.
func (p *Picker) End() error {
	if p.Disabled() || p.state != Armed {
		return nil
	}
	p.state = Disarmed
	return p.emit()
}

func (p *Picker) emit() error {
	if !p.hasBox {
		return ErrNoBox
	}
	if raw, err := json.Marshal(p.box); err == nil {
		logging.Info("Emitted bounding box %s", raw)
	}
	if p.emitter == nil {
		return nil
	}
	if err := p.emitter.Emit(p.box); err != nil {
		return fmt.Errorf("emit bounding box: %w", err)
	}
	return nil
}
