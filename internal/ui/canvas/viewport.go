package canvas

import (
	"math"

	"github.com/andyrewlee/boxpick/internal/geo"
)

// Zoom limits in degrees of longitude per terminal column.
const (
	MinDegreesPerCell = 0.0005
	MaxDegreesPerCell = 2.0
)

// CellAspect is the latitude span of a row relative to the longitude span of
// a column; terminal cells are roughly twice as tall as wide.
const CellAspect = 2.0

// Viewport maps terminal cells to WGS84 coordinates with a plate carrée
// projection centred on Center.
type Viewport struct {
	Center         geo.Point
	DegreesPerCell float64
	Width          int
	Height         int
}

func (v Viewport) latPerRow() float64 { return v.DegreesPerCell * CellAspect }

// CellToGeo returns the WGS84 position of the centre of cell (x, y).
func (v Viewport) CellToGeo(x, y int) geo.Point {
	dx := float64(x) + 0.5 - float64(v.Width)/2
	dy := float64(y) + 0.5 - float64(v.Height)/2
	return geo.Point{
		Lat: v.Center.Lat - dy*v.latPerRow(),
		Lon: v.Center.Lon + dx*v.DegreesPerCell,
	}
}

// GeoToCell returns the cell containing p and whether it is on screen.
func (v Viewport) GeoToCell(p geo.Point) (int, int, bool) {
	x := int(math.Floor((p.Lon-v.Center.Lon)/v.DegreesPerCell + float64(v.Width)/2))
	y := int(math.Floor((v.Center.Lat-p.Lat)/v.latPerRow() + float64(v.Height)/2))
	ok := x >= 0 && x < v.Width && y >= 0 && y < v.Height
	return x, y, ok
}

// Pan moves the centre by whole cells; positive dy moves south.
func (v *Viewport) Pan(dx, dy int) {
	v.Center.Lon += float64(dx) * v.DegreesPerCell
	v.Center.Lat -= float64(dy) * v.latPerRow()
	v.clamp()
}

// Zoom scales the cell size by factor; factors below one zoom in.
func (v *Viewport) Zoom(factor float64) {
	if factor <= 0 {
		return
	}
	v.DegreesPerCell = math.Min(MaxDegreesPerCell, math.Max(MinDegreesPerCell, v.DegreesPerCell*factor))
	v.clamp()
}

// ZoomAt zooms while keeping the position under cell (x, y) fixed.
func (v *Viewport) ZoomAt(x, y int, factor float64) {
	anchor := v.CellToGeo(x, y)
	v.Zoom(factor)
	moved := v.CellToGeo(x, y)
	v.Center.Lat += anchor.Lat - moved.Lat
	v.Center.Lon += anchor.Lon - moved.Lon
	v.clamp()
}

func (v *Viewport) clamp() {
	v.Center.Lat = math.Max(geo.MinLatitude, math.Min(geo.MaxLatitude, v.Center.Lat))
	v.Center.Lon = math.Max(geo.MinLongitude, math.Min(geo.MaxLongitude, v.Center.Lon))
}

var graticuleSteps = []float64{0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1, 2, 5, 10, 15, 30}

// GraticuleStep picks the smallest grid spacing that leaves at least
// minCells cells between lines for the given span per cell.
func GraticuleStep(degreesPerCell float64, minCells int) float64 {
	for _, step := range graticuleSteps {
		if step/degreesPerCell >= float64(minCells) {
			return step
		}
	}
	return graticuleSteps[len(graticuleSteps)-1]
}

// crossesLine reports whether a multiple of step lies in [center-half, center+half).
func crossesLine(center, half, step float64) bool {
	lo := center - half
	k := math.Ceil(lo/step - 1e-9)
	return k*step < center+half
}
