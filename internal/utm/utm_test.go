package utm

import (
	"errors"
	"math"
	"testing"

	"github.com/andyrewlee/boxpick/internal/geo"
)

func TestZoneNumber(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		want     int
	}{
		{name: "turin", lat: 45, lon: 7, want: 32},
		{name: "new york", lat: 40.71435, lon: -74.00597, want: 18},
		{name: "sydney", lat: -33.8688, lon: 151.2093, want: 56},
		{name: "antimeridian west", lat: 0, lon: -180, want: 1},
		{name: "antimeridian east", lat: 0, lon: 180, want: 60},
		{name: "norway exception", lat: 60, lon: 5, want: 32},
		{name: "norway edge outside", lat: 64, lon: 5, want: 31},
		{name: "svalbard 31", lat: 78, lon: 8.9, want: 31},
		{name: "svalbard 33", lat: 78, lon: 15, want: 33},
		{name: "svalbard 35", lat: 78, lon: 25, want: 35},
		{name: "svalbard 37", lat: 78, lon: 41.9, want: 37},
		{name: "svalbard east of 42", lat: 78, lon: 43, want: 38},
		{name: "svalbard west of 0", lat: 78, lon: -1, want: 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ZoneNumber(tt.lat, tt.lon); got != tt.want {
				t.Fatalf("ZoneNumber(%v, %v) = %d, want %d", tt.lat, tt.lon, got, tt.want)
			}
		})
	}
}

func TestZoneLetter(t *testing.T) {
	tests := []struct {
		lat  float64
		want string
	}{
		{lat: -80, want: "C"},
		{lat: -72.1, want: "C"},
		{lat: -0.001, want: "M"},
		{lat: 0, want: "N"},
		{lat: 45, want: "T"},
		{lat: 71.9, want: "W"},
		{lat: 72, want: "X"},
		{lat: 84, want: "X"},
		{lat: 84.1, want: ""},
		{lat: -80.1, want: ""},
	}
	for _, tt := range tests {
		if got := ZoneLetter(tt.lat); got != tt.want {
			t.Errorf("ZoneLetter(%v) = %q, want %q", tt.lat, got, tt.want)
		}
	}
}

func TestFromLatLonKnownValues(t *testing.T) {
	tests := []struct {
		point    geo.Point
		easting  float64
		northing float64
		zone     int
		letter   string
	}{
		{point: geo.Point{Lat: 45, Lon: 7}, easting: 342369.3593, northing: 4984896.1715, zone: 32, letter: "T"},
		{point: geo.Point{Lat: 40.71435, Lon: -74.00597}, easting: 583959.9590, northing: 4507523.0871, zone: 18, letter: "T"},
		{point: geo.Point{Lat: -33.8688, Lon: 151.2093}, easting: 334368.6336, northing: 6250948.3454, zone: 56, letter: "H"},
		{point: geo.Point{Lat: 60, Lon: 5}, easting: 276979.9264, northing: 6658157.2031, zone: 32, letter: "V"},
		{point: geo.Point{Lat: 78, Lon: 15}, easting: 500000.0000, northing: 8658369.5866, zone: 33, letter: "X"},
		{point: geo.Point{Lat: 51.5, Lon: -0.12}, easting: 699889.8070, northing: 5709362.2932, zone: 30, letter: "U"},
	}
	for _, tt := range tests {
		got, err := FromLatLon(tt.point)
		if err != nil {
			t.Fatalf("FromLatLon(%v) error = %v", tt.point, err)
		}
		if got.ZoneNumber != tt.zone || got.ZoneLetter != tt.letter {
			t.Fatalf("FromLatLon(%v) zone = %d%s, want %d%s", tt.point, got.ZoneNumber, got.ZoneLetter, tt.zone, tt.letter)
		}
		if math.Abs(got.Easting-tt.easting) > 0.01 {
			t.Errorf("FromLatLon(%v) easting = %.4f, want %.4f", tt.point, got.Easting, tt.easting)
		}
		if math.Abs(got.Northing-tt.northing) > 0.01 {
			t.Errorf("FromLatLon(%v) northing = %.4f, want %.4f", tt.point, got.Northing, tt.northing)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	points := []geo.Point{
		{Lat: 45, Lon: 7},
		{Lat: -33.8688, Lon: 151.2093},
		{Lat: 0.001, Lon: 0.5},
		{Lat: -79.5, Lon: -120.3},
		{Lat: 83.9, Lon: 30},
		{Lat: 12.34, Lon: 179.99},
	}
	for _, p := range points {
		c, err := FromLatLon(p)
		if err != nil {
			t.Fatalf("FromLatLon(%v) error = %v", p, err)
		}
		back, err := ToLatLon(c)
		if err != nil {
			t.Fatalf("ToLatLon(%v) error = %v", c, err)
		}
		if math.Abs(back.Lat-p.Lat) > 1e-6 || math.Abs(back.Lon-p.Lon) > 1e-6 {
			t.Errorf("round trip %v -> %v -> %v", p, c, back)
		}
	}
}

func TestForwardInZoneKeepsHemisphereFromLetter(t *testing.T) {
	// A point just south of the equator projected with a northern band
	// letter yields a small negative northing instead of wrapping.
	c, err := Series{}.ForwardInZone(geo.Point{Lat: -0.01, Lon: 3}, 31, "N")
	if err != nil {
		t.Fatalf("ForwardInZone error = %v", err)
	}
	if c.Northing >= 0 || c.Northing < -2000 {
		t.Fatalf("northing = %.2f, want small negative value", c.Northing)
	}
	back, err := ToLatLon(c)
	if err != nil {
		t.Fatalf("ToLatLon error = %v", err)
	}
	if math.Abs(back.Lat+0.01) > 1e-6 {
		t.Fatalf("lat = %v, want -0.01", back.Lat)
	}
}

func TestFromLatLonOutOfRange(t *testing.T) {
	for _, p := range []geo.Point{{Lat: 85, Lon: 0}, {Lat: -81, Lon: 0}, {Lat: 0, Lon: 200}} {
		if _, err := FromLatLon(p); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("FromLatLon(%v) error = %v, want ErrOutOfRange", p, err)
		}
	}
}

func TestInverseRejectsBadZone(t *testing.T) {
	tests := []Coordinate{
		{Easting: 500000, Northing: 0, ZoneNumber: 0, ZoneLetter: "N"},
		{Easting: 500000, Northing: 0, ZoneNumber: 61, ZoneLetter: "N"},
		{Easting: 500000, Northing: 0, ZoneNumber: 31, ZoneLetter: "I"},
		{Easting: 500000, Northing: 0, ZoneNumber: 31, ZoneLetter: ""},
	}
	for _, c := range tests {
		if _, err := ToLatLon(c); !errors.Is(err, ErrInvalidZone) {
			t.Errorf("ToLatLon(%+v) error = %v, want ErrInvalidZone", c, err)
		}
	}
}

func TestValidateStrict(t *testing.T) {
	ok := Coordinate{Easting: 342369, Northing: 4984896, ZoneNumber: 32, ZoneLetter: "T"}
	if err := ValidateStrict(ok); err != nil {
		t.Fatalf("ValidateStrict(%v) error = %v", ok, err)
	}
	for _, c := range []Coordinate{
		{Easting: 99999, Northing: 1, ZoneNumber: 32, ZoneLetter: "T"},
		{Easting: 1000000, Northing: 1, ZoneNumber: 32, ZoneLetter: "T"},
		{Easting: 500000, Northing: -1, ZoneNumber: 32, ZoneLetter: "N"},
		{Easting: 500000, Northing: 10000001, ZoneNumber: 32, ZoneLetter: "M"},
	} {
		if err := ValidateStrict(c); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("ValidateStrict(%+v) error = %v, want ErrOutOfRange", c, err)
		}
	}
}

func TestNewProjector(t *testing.T) {
	p, err := NewProjector("")
	if err != nil {
		t.Fatalf("NewProjector(\"\") error = %v", err)
	}
	if _, ok := p.(Series); !ok {
		t.Fatalf("default projector = %T, want Series", p)
	}
	if _, err := NewProjector("mercator"); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestFromLatLonInZoneNeighbour(t *testing.T) {
	p := geo.Point{Lat: 45, Lon: 11.9}
	own, err := FromLatLon(p)
	if err != nil {
		t.Fatalf("FromLatLon(%v) error = %v", p, err)
	}
	if own.ZoneNumber != 32 {
		t.Fatalf("zone = %d, want 32", own.ZoneNumber)
	}

	forced, err := FromLatLonInZone(p, 33, "")
	if err != nil {
		t.Fatalf("FromLatLonInZone(%v, 33) error = %v", p, err)
	}
	if forced.ZoneNumber != 33 || forced.ZoneLetter != "T" {
		t.Fatalf("forced zone = %d%s, want 33T", forced.ZoneNumber, forced.ZoneLetter)
	}
	if forced.Easting >= 500000 {
		t.Fatalf("west of the central meridian should give easting < 500000, got %v", forced.Easting)
	}

	back, err := ToLatLon(forced)
	if err != nil {
		t.Fatalf("ToLatLon(%v) error = %v", forced, err)
	}
	if math.Abs(back.Lat-p.Lat) > 1e-5 || math.Abs(back.Lon-p.Lon) > 1e-5 {
		t.Fatalf("round trip = %v, want %v", back, p)
	}

	if _, err := FromLatLonInZone(p, 61, ""); !errors.Is(err, ErrInvalidZone) {
		t.Fatalf("zone 61 error = %v, want ErrInvalidZone", err)
	}
}
