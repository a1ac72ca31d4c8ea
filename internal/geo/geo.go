package geo

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// CRSWGS84 is the authority id of the WGS84 geographic reference system.
const CRSWGS84 = "EPSG:4326"

// UTM covers latitudes from 80°S to 84°N.
const (
	MinLatitude  = -80.0
	MaxLatitude  = 84.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// ErrInvalidPoint is returned for NaN/Inf coordinates or points outside the UTM domain.
var ErrInvalidPoint = errors.New("invalid geographic point")

// Point is a WGS84 position in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate reports whether p lies inside the UTM domain.
func (p Point) Validate() error {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lon, 0) {
		return fmt.Errorf("%w: non-finite coordinate", ErrInvalidPoint)
	}
	if p.Lat < MinLatitude || p.Lat > MaxLatitude {
		return fmt.Errorf("%w: latitude %.6f outside [%.0f, %.0f]", ErrInvalidPoint, p.Lat, MinLatitude, MaxLatitude)
	}
	if p.Lon < MinLongitude || p.Lon > MaxLongitude {
		return fmt.Errorf("%w: longitude %.6f outside [%.0f, %.0f]", ErrInvalidPoint, p.Lon, MinLongitude, MaxLongitude)
	}
	return nil
}

func (p Point) String() string {
	return fmt.Sprintf("%.6f,%.6f", p.Lat, p.Lon)
}

// IsWGS84 reports whether a CRS identifier names WGS84 geographic coordinates.
// Authority ids compare case-insensitively; "WGS84" and "OGC:CRS84" are accepted
// as aliases since both use the same datum with degrees.
func IsWGS84(crs string) bool {
	switch strings.ToUpper(strings.TrimSpace(crs)) {
	case CRSWGS84, "WGS84", "WGS 84", "CRS84", "OGC:CRS84":
		return true
	default:
		return false
	}
}
