package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/paulmach/orb"

	"github.com/andyrewlee/boxpick/internal/geo"
	"github.com/andyrewlee/boxpick/internal/picker"
)

type bboxResult struct {
	BBox       [4]int       `json:"bbox"`
	ZoneNumber int          `json:"zone_number"`
	ZoneLetter string       `json:"zone_letter"`
	Center     geo.Point    `json:"center"`
	EdgeKm     float64      `json:"edge_km"`
	Rounding   string       `json:"rounding"`
	Corners    [][2]float64 `json:"corners"`
}

// pointFlags registers --lat/--lon plus the box overrides shared by bbox
// and overlay.
func pointFlags(fs *flag.FlagSet) (*float64, *float64, *boxOptions) {
	lat := fs.Float64("lat", 0, "latitude in decimal degrees")
	lon := fs.Float64("lon", 0, "longitude in decimal degrees")
	opts := &boxOptions{}
	fs.Float64Var(&opts.sizeKm, "size-km", 0, "box edge in kilometres (default from config)")
	fs.StringVar(&opts.rounding, "rounding", "", "tie rounding: even or away (default from config)")
	return lat, lon, opts
}

func parsePointCommand(name string, args []string) (geo.Point, boxOptions, error) {
	fs := newFlagSet(name)
	lat, lon, opts := pointFlags(fs)
	if err := fs.Parse(args); err != nil {
		return geo.Point{}, boxOptions{}, err
	}
	if err := rejectPositional(fs); err != nil {
		return geo.Point{}, boxOptions{}, err
	}
	if err := requireFlags(fs, "lat", "lon"); err != nil {
		return geo.Point{}, boxOptions{}, err
	}
	if flagWasSet(fs, "size-km") {
		if err := picker.ValidateEdgeKm(opts.sizeKm); err != nil {
			return geo.Point{}, boxOptions{}, fmt.Errorf("--size-km: %w", err)
		}
	}
	return geo.Point{Lat: *lat, Lon: *lon}, *opts, nil
}

func cmdBBox(w, wErr io.Writer, gf GlobalFlags, args []string, version string) int {
	const usage = "Usage: boxpick bbox --lat <deg> --lon <deg> [--size-km N] [--rounding even|away] [--json]"
	point, opts, err := parsePointCommand("bbox", args)
	if err != nil {
		return returnUsageError(w, wErr, gf, usage, version, err)
	}
	cfg, err := loadConfig(gf)
	if err != nil {
		return returnConfigError(w, wErr, gf, err, version)
	}

	// Human mode prints the emission itself.
	var emitter picker.Emitter
	if !gf.JSON {
		emitter = picker.NewJSONEmitter(w)
	}
	s, err := newSession(cfg, opts, emitter)
	if err != nil {
		return returnSessionError(w, wErr, gf, err, version)
	}
	defer s.Close()

	box, err := s.pickOnce(point)
	if err != nil {
		return returnPickError(w, wErr, gf, err, version)
	}
	if gf.JSON {
		PrintJSON(w, bboxResult{
			BBox:       box.BBox(),
			ZoneNumber: box.ZoneNumber,
			ZoneLetter: box.ZoneLetter,
			Center:     point,
			EdgeKm:     s.picker.EdgeKm(),
			Rounding:   s.picker.Rounding().String(),
			Corners:    ringCoords(s.picker.Ring()),
		}, version)
	}
	return ExitOK
}

func cmdOverlay(w, wErr io.Writer, gf GlobalFlags, args []string, version string) int {
	const usage = "Usage: boxpick overlay --lat <deg> --lon <deg> [--size-km N] [--rounding even|away] [--json]"
	point, opts, err := parsePointCommand("overlay", args)
	if err != nil {
		return returnUsageError(w, wErr, gf, usage, version, err)
	}
	cfg, err := loadConfig(gf)
	if err != nil {
		return returnConfigError(w, wErr, gf, err, version)
	}
	s, err := newSession(cfg, opts, nil)
	if err != nil {
		return returnSessionError(w, wErr, gf, err, version)
	}
	defer s.Close()

	if _, err := s.pickOnce(point); err != nil {
		return returnPickError(w, wErr, gf, err, version)
	}
	data, err := s.layer.GeoJSON()
	if err != nil {
		return returnFailure(w, wErr, gf, "encode_failed", err, nil, ExitInternalError, version)
	}
	if gf.JSON {
		PrintJSON(w, json.RawMessage(data), version)
		return ExitOK
	}
	PrintHuman(w, func(w io.Writer) {
		fmt.Fprintln(w, string(data))
	})
	return ExitOK
}

// ringCoords lists the ring as [lon, lat] pairs, GeoJSON order.
func ringCoords(r orb.Ring) [][2]float64 {
	out := make([][2]float64, 0, len(r))
	for _, pt := range r {
		out = append(out, [2]float64{pt[0], pt[1]})
	}
	return out
}
