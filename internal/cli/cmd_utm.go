package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/andyrewlee/boxpick/internal/geo"
	"github.com/andyrewlee/boxpick/internal/utm"
)

type inverseResult struct {
	Point      geo.Point      `json:"point"`
	Coordinate utm.Coordinate `json:"utm"`
	Strict     bool           `json:"strict"`
}

func projectorFor(gf GlobalFlags) (utm.Projector, func(), error) {
	cfg, err := loadConfig(gf)
	if err != nil {
		return nil, nil, err
	}
	p, err := utm.NewProjector(cfg.Projection)
	if err != nil {
		return nil, nil, err
	}
	release := func() {
		if c, ok := p.(io.Closer); ok {
			_ = c.Close()
		}
	}
	return p, release, nil
}

func cmdUTMForward(w, wErr io.Writer, gf GlobalFlags, args []string, version string) int {
	const usage = "Usage: boxpick utm forward --lat <deg> --lon <deg> [--json]"
	fs := newFlagSet("utm forward")
	lat := fs.Float64("lat", 0, "latitude in decimal degrees")
	lon := fs.Float64("lon", 0, "longitude in decimal degrees")
	if err := fs.Parse(args); err != nil {
		return returnUsageError(w, wErr, gf, usage, version, err)
	}
	if err := rejectPositional(fs); err != nil {
		return returnUsageError(w, wErr, gf, usage, version, err)
	}
	if err := requireFlags(fs, "lat", "lon"); err != nil {
		return returnUsageError(w, wErr, gf, usage, version, err)
	}

	proj, release, err := projectorFor(gf)
	if err != nil {
		return returnSessionError(w, wErr, gf, err, version)
	}
	defer release()

	point := geo.Point{Lat: *lat, Lon: *lon}
	coord, err := proj.Forward(point)
	if err != nil {
		return returnPickError(w, wErr, gf, err, version)
	}
	if gf.JSON {
		PrintJSON(w, coord, version)
		return ExitOK
	}
	PrintHuman(w, func(w io.Writer) {
		printFields(w, []field{
			{"Zone", strconv.Itoa(coord.ZoneNumber) + coord.ZoneLetter},
			{"Easting", fmt.Sprintf("%.3f", coord.Easting)},
			{"Northing", fmt.Sprintf("%.3f", coord.Northing)},
		})
	})
	return ExitOK
}

func cmdUTMInverse(w, wErr io.Writer, gf GlobalFlags, args []string, version string) int {
	const usage = "Usage: boxpick utm inverse --easting <m> --northing <m> --zone <1-60> --letter <C-X> [--strict] [--json]"
	fs := newFlagSet("utm inverse")
	easting := fs.Float64("easting", 0, "easting in metres")
	northing := fs.Float64("northing", 0, "northing in metres")
	zone := fs.Int("zone", 0, "zone number")
	letter := fs.String("letter", "", "latitude band letter")
	strict := fs.Bool("strict", false, "reject grid values outside the nominal UTM extents")
	if err := fs.Parse(args); err != nil {
		return returnUsageError(w, wErr, gf, usage, version, err)
	}
	if err := rejectPositional(fs); err != nil {
		return returnUsageError(w, wErr, gf, usage, version, err)
	}
	if err := requireFlags(fs, "easting", "northing", "zone", "letter"); err != nil {
		return returnUsageError(w, wErr, gf, usage, version, err)
	}

	coord := utm.Coordinate{
		Easting:    *easting,
		Northing:   *northing,
		ZoneNumber: *zone,
		ZoneLetter: strings.ToUpper(strings.TrimSpace(*letter)),
	}
	if *strict {
		if err := utm.ValidateStrict(coord); err != nil {
			return returnPickError(w, wErr, gf, err, version)
		}
	}

	proj, release, err := projectorFor(gf)
	if err != nil {
		return returnSessionError(w, wErr, gf, err, version)
	}
	defer release()

	point, err := proj.Inverse(coord)
	if err != nil {
		return returnPickError(w, wErr, gf, err, version)
	}
	if gf.JSON {
		PrintJSON(w, inverseResult{Point: point, Coordinate: coord, Strict: *strict}, version)
		return ExitOK
	}
	PrintHuman(w, func(w io.Writer) {
		printFields(w, []field{
			{"Latitude", fmt.Sprintf("%.6f", point.Lat)},
			{"Longitude", fmt.Sprintf("%.6f", point.Lon)},
		})
	})
	return ExitOK
}
