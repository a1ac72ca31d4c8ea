package picker

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/paulmach/orb"

	"github.com/andyrewlee/boxpick/internal/geo"
	"github.com/andyrewlee/boxpick/internal/utm"
)

// DefaultEdgeKm is the edge length of the picked square.
const DefaultEdgeKm = 10.0

// MaxEdgeKm caps the edge near the east-west extent of one zone at the
// equator. Larger squares leave the projection's useful range.
const MaxEdgeKm = 1000.0

// ValidateEdgeKm reports ErrInvalidEdge unless km is finite and in
// (0, MaxEdgeKm].
func ValidateEdgeKm(km float64) error {
	if math.IsNaN(km) || math.IsInf(km, 0) || km <= 0 || km > MaxEdgeKm {
		return fmt.Errorf("%w: must be in (0, %g] km, got %v", ErrInvalidEdge, MaxEdgeKm, km)
	}
	return nil
}

// Rounding selects how half-metre ties are resolved when corner values are
// rounded to whole metres.
type Rounding int

const (
	// RoundHalfEven sends ties to the even neighbour (2.5 -> 2, 3.5 -> 4).
	// This is the default and reproduces the values the desktop tool emitted.
	RoundHalfEven Rounding = iota
	// RoundHalfAwayFromZero sends ties away from zero (2.5 -> 3).
	RoundHalfAwayFromZero
)

// ParseRounding accepts "even" and "away" (plus a few spellings of each).
func ParseRounding(s string) (Rounding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "even", "half_even", "half-even", "bankers":
		return RoundHalfEven, nil
	case "away", "half_away", "half-away", "half_up":
		return RoundHalfAwayFromZero, nil
	default:
		return RoundHalfEven, fmt.Errorf("unknown rounding mode %q (want even or away)", s)
	}
}

func (r Rounding) String() string {
	if r == RoundHalfAwayFromZero {
		return "away"
	}
	return "even"
}

// Round rounds v to the nearest whole metre using r's tie rule.
func (r Rounding) Round(v float64) int {
	if r == RoundHalfAwayFromZero {
		return int(math.Round(v))
	}
	return int(math.RoundToEven(v))
}

// BoundingBox is a square in UTM grid metres. All four values share the
// centre point's zone.
type BoundingBox struct {
	EastingMin  int
	NorthingMin int
	EastingMax  int
	NorthingMax int
	ZoneNumber  int
	ZoneLetter  string
}

type boxJSON struct {
	BBox       [4]int `json:"bbox"`
	ZoneNumber int    `json:"zone_number"`
	ZoneLetter string `json:"zone_letter"`
}

// BBox returns [eastingMin, northingMin, eastingMax, northingMax].
func (b BoundingBox) BBox() [4]int {
	return [4]int{b.EastingMin, b.NorthingMin, b.EastingMax, b.NorthingMax}
}

// Width returns the easting extent in metres.
func (b BoundingBox) Width() int { return b.EastingMax - b.EastingMin }

// Height returns the northing extent in metres.
func (b BoundingBox) Height() int { return b.NorthingMax - b.NorthingMin }

// IsZero reports whether b is the zero box.
func (b BoundingBox) IsZero() bool { return b.ZoneNumber == 0 }

func (b BoundingBox) String() string {
	return fmt.Sprintf("%d%s [%d %d %d %d]", b.ZoneNumber, b.ZoneLetter, b.EastingMin, b.NorthingMin, b.EastingMax, b.NorthingMax)
}

// MarshalJSON encodes b as {"bbox": [...], "zone_number": N, "zone_letter": "L"}.
func (b BoundingBox) MarshalJSON() ([]byte, error) {
	return json.Marshal(boxJSON{BBox: b.BBox(), ZoneNumber: b.ZoneNumber, ZoneLetter: b.ZoneLetter})
}

// UnmarshalJSON decodes the emission format.
func (b *BoundingBox) UnmarshalJSON(data []byte) error {
	var raw boxJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*b = BoundingBox{
		EastingMin:  raw.BBox[0],
		NorthingMin: raw.BBox[1],
		EastingMax:  raw.BBox[2],
		NorthingMax: raw.BBox[3],
		ZoneNumber:  raw.ZoneNumber,
		ZoneLetter:  raw.ZoneLetter,
	}
	return nil
}

// ComputeBoundingBox projects p and returns the edgeKm square centred on it.
func ComputeBoundingBox(proj utm.Projector, p geo.Point, edgeKm float64, r Rounding) (BoundingBox, error) {
	if err := ValidateEdgeKm(edgeKm); err != nil {
		return BoundingBox{}, err
	}
	center, err := proj.Forward(p)
	if err != nil {
		return BoundingBox{}, err
	}
	return boxAround(center, edgeKm, r), nil
}

func boxAround(center utm.Coordinate, edgeKm float64, r Rounding) BoundingBox {
	half := edgeKm * 1000 / 2
	return BoundingBox{
		EastingMin:  r.Round(center.Easting - half),
		NorthingMin: r.Round(center.Northing - half),
		EastingMax:  r.Round(center.Easting + half),
		NorthingMax: r.Round(center.Northing + half),
		ZoneNumber:  center.ZoneNumber,
		ZoneLetter:  center.ZoneLetter,
	}
}

// Corners returns the box corners in grid coordinates: bottom-left,
// bottom-right, top-right, top-left.
func (b BoundingBox) Corners() [4]utm.Coordinate {
	at := func(e, n int) utm.Coordinate {
		return utm.Coordinate{Easting: float64(e), Northing: float64(n), ZoneNumber: b.ZoneNumber, ZoneLetter: b.ZoneLetter}
	}
	return [4]utm.Coordinate{
		at(b.EastingMin, b.NorthingMin),
		at(b.EastingMax, b.NorthingMin),
		at(b.EastingMax, b.NorthingMax),
		at(b.EastingMin, b.NorthingMax),
	}
}

// CornerRing converts the corners back to WGS84 and closes the ring.
// All corners are inverted with the box's zone, even when the square
// reaches into a neighbouring zone.
func CornerRing(proj utm.Projector, b BoundingBox) (orb.Ring, error) {
	ring := make(orb.Ring, 0, 5)
	for _, c := range b.Corners() {
		p, err := proj.Inverse(c)
		if err != nil {
			return nil, fmt.Errorf("invert corner %v: %w", c, err)
		}
		ring = append(ring, orb.Point{p.Lon, p.Lat})
	}
	ring = append(ring, ring[0])
	return ring, nil
}
