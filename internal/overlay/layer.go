// Package overlay holds the temporary polygon layer the picker draws into.
package overlay

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// DefaultName is the layer name shown to the user.
const DefaultName = "Temporary_Square"

// Style describes how the layer is painted.
type Style struct {
	Fill    color.RGBA
	Opacity float64
}

// DefaultStyle is a semi-transparent green fill.
var DefaultStyle = Style{Fill: color.RGBA{R: 0, G: 255, B: 0, A: 255}, Opacity: 0.3}

// Layer is an in-memory polygon layer. It is safe for concurrent use so the
// UI can export it from a command goroutine while the picker updates it.
type Layer struct {
	mu       sync.RWMutex
	name     string
	style    Style
	polygons []orb.Polygon
	revision uint64
}

// New returns an empty layer with the default style.
func New(name string) *Layer {
	if name == "" {
		name = DefaultName
	}
	return &Layer{name: name, style: DefaultStyle}
}

// Name returns the layer name.
func (l *Layer) Name() string { return l.name }

// Style returns the paint style.
func (l *Layer) Style() Style {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.style
}

// SetStyle changes the paint style and requests a repaint.
func (l *Layer) SetStyle(s Style) {
	l.mu.Lock()
	l.style = s
	l.revision++
	l.mu.Unlock()
}

// Truncate removes every feature.
func (l *Layer) Truncate() {
	l.mu.Lock()
	l.polygons = nil
	l.revision++
	l.mu.Unlock()
}

// Add appends a polygon built from ring.
func (l *Layer) Add(ring orb.Ring) {
	l.mu.Lock()
	l.polygons = append(l.polygons, orb.Polygon{cloneRing(ring)})
	l.revision++
	l.mu.Unlock()
}

// Replace truncates the layer and adds ring as its only feature.
func (l *Layer) Replace(ring orb.Ring) {
	l.mu.Lock()
	l.polygons = []orb.Polygon{{cloneRing(ring)}}
	l.revision++
	l.mu.Unlock()
}

// Features returns a copy of the layer's polygons.
func (l *Layer) Features() []orb.Polygon {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]orb.Polygon, len(l.polygons))
	for i, poly := range l.polygons {
		out[i] = orb.Polygon{cloneRing(poly[0])}
	}
	return out
}

// Len returns the number of features.
func (l *Layer) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.polygons)
}

// Revision increases on every change; renderers compare it to skip repaints.
func (l *Layer) Revision() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.revision
}

// Bound returns the bounding rectangle of all features.
func (l *Layer) Bound() (orb.Bound, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.polygons) == 0 {
		return orb.Bound{}, false
	}
	b := l.polygons[0].Bound()
	for _, poly := range l.polygons[1:] {
		b = b.Union(poly.Bound())
	}
	return b, true
}

// FeatureCollection converts the layer to GeoJSON features carrying the
// layer name and style as properties.
func (l *Layer) FeatureCollection() *geojson.FeatureCollection {
	l.mu.RLock()
	defer l.mu.RUnlock()
	fc := geojson.NewFeatureCollection()
	for i, poly := range l.polygons {
		f := geojson.NewFeature(orb.Polygon{cloneRing(poly[0])})
		f.Properties["layer"] = l.name
		f.Properties["index"] = i
		f.Properties["fill"] = hexColor(l.style.Fill)
		f.Properties["fill-opacity"] = l.style.Opacity
		fc.Append(f)
	}
	return fc
}

// GeoJSON marshals the layer as a feature collection.
func (l *Layer) GeoJSON() ([]byte, error) {
	return l.FeatureCollection().MarshalJSON()
}

func cloneRing(r orb.Ring) orb.Ring {
	out := make(orb.Ring, len(r))
	copy(out, r)
	return out
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
