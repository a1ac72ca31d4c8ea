package utm

import (
	"fmt"
	"strings"
)

// zoneLetters are the 8° latitude bands from 80°S; X is repeated so that
// latitudes in [80, 84] stay in band X.
const zoneLetters = "CDEFGHJKLMNPQRSTUVWXX"

// ZoneNumber returns the UTM zone for a position, including the Norway and
// Svalbard exceptions. Longitude 180 maps to zone 60.
func ZoneNumber(lat, lon float64) int {
	if lat >= 56 && lat < 64 && lon >= 3 && lon < 12 {
		return 32
	}
	if lat >= 72 && lat <= 84 && lon >= 0 {
		switch {
		case lon < 9:
			return 31
		case lon < 21:
			return 33
		case lon < 33:
			return 35
		case lon < 42:
			return 37
		}
	}
	if lon == 180 {
		return 60
	}
	return int((lon+180)/6) + 1
}

// ZoneLetter returns the latitude band letter, or "" outside [-80, 84].
func ZoneLetter(lat float64) string {
	if lat < -80 || lat > 84 {
		return ""
	}
	i := int(lat+80) >> 3
	return zoneLetters[i : i+1]
}

// CentralLongitude returns the central meridian of a zone in degrees.
func CentralLongitude(zone int) float64 {
	return float64((zone-1)*6 - 180 + 3)
}

// Northern reports whether a band letter lies in the northern hemisphere.
func Northern(letter string) bool {
	return strings.ToUpper(letter) >= "N"
}

func validateZone(zone int, letter string) error {
	if zone < 1 || zone > 60 {
		return fmt.Errorf("%w: zone number %d outside [1, 60]", ErrInvalidZone, zone)
	}
	if letter == "" {
		return nil
	}
	if len(letter) != 1 || !strings.Contains(zoneLetters, strings.ToUpper(letter)) {
		return fmt.Errorf("%w: zone letter %q", ErrInvalidZone, letter)
	}
	return nil
}
