// Package utm converts between WGS84 geographic coordinates and Universal
// Transverse Mercator grid coordinates.
package utm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/andyrewlee/boxpick/internal/geo"
)

var (
	// ErrOutOfRange is returned for inputs outside the UTM domain.
	ErrOutOfRange = errors.New("coordinate out of range")
	// ErrInvalidZone is returned for an unknown zone number or band letter.
	ErrInvalidZone = errors.New("invalid utm zone")
	// ErrBackendUnavailable is returned when a projection backend was not compiled in.
	ErrBackendUnavailable = errors.New("projection backend unavailable")
)

// Coordinate is a position inside a UTM zone, in metres.
type Coordinate struct {
	Easting    float64 `json:"easting"`
	Northing   float64 `json:"northing"`
	ZoneNumber int     `json:"zone_number"`
	ZoneLetter string  `json:"zone_letter"`
}

// Northern reports whether the coordinate uses the northern false northing.
func (c Coordinate) Northern() bool { return Northern(c.ZoneLetter) }

func (c Coordinate) String() string {
	return fmt.Sprintf("%d%s %.1fE %.1fN", c.ZoneNumber, c.ZoneLetter, c.Easting, c.Northing)
}

// Projector converts between geographic and UTM coordinates.
type Projector interface {
	// Forward projects p into the zone it falls in.
	Forward(p geo.Point) (Coordinate, error)
	// ForwardInZone projects p into a fixed zone. An empty letter derives
	// the band from the latitude.
	ForwardInZone(p geo.Point, zone int, letter string) (Coordinate, error)
	// Inverse converts c back to WGS84. Easting and northing are not range
	// checked; use ValidateStrict for that.
	Inverse(c Coordinate) (geo.Point, error)
}

// Backend names accepted by NewProjector.
const (
	BackendSeries = "series"
	BackendProj   = "proj"
)

// NewProjector returns the projector registered under name.
func NewProjector(name string) (Projector, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BackendSeries:
		return Series{}, nil
	case BackendProj:
		return newProjBackend()
	default:
		return nil, fmt.Errorf("unknown projection backend %q", name)
	}
}

// ValidateStrict rejects grid coordinates outside the nominal UTM extents.
func ValidateStrict(c Coordinate) error {
	if err := validateZone(c.ZoneNumber, c.ZoneLetter); err != nil {
		return err
	}
	if c.Easting < 100000 || c.Easting >= 1000000 {
		return fmt.Errorf("%w: easting %.1f outside [100000, 1000000)", ErrOutOfRange, c.Easting)
	}
	if c.Northing < 0 || c.Northing > 10000000 {
		return fmt.Errorf("%w: northing %.1f outside [0, 10000000]", ErrOutOfRange, c.Northing)
	}
	return nil
}

// FromLatLon projects p with the pure-Go series projector.
func FromLatLon(p geo.Point) (Coordinate, error) {
	return Series{}.Forward(p)
}

// FromLatLonInZone projects p into the given zone with the series projector.
func FromLatLonInZone(p geo.Point, zone int, letter string) (Coordinate, error) {
	return Series{}.ForwardInZone(p, zone, letter)
}

// ToLatLon inverts c with the pure-Go series projector.
func ToLatLon(c Coordinate) (geo.Point, error) {
	return Series{}.Inverse(c)
}
