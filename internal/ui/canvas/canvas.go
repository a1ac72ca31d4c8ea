// Package canvas renders a WGS84 plate carrée map into terminal cells and
// translates cell positions back to geographic coordinates.
package canvas

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/andyrewlee/boxpick/internal/geo"
	"github.com/andyrewlee/boxpick/internal/perf"
	"github.com/andyrewlee/boxpick/internal/ui/common"
)

// Cell glyphs.
const (
	glyphEmpty     = ' '
	glyphOutside   = '·'
	glyphMeridian  = '│'
	glyphParallel  = '─'
	glyphCrossing  = '┼'
	glyphFill      = '░'
	glyphRim       = '▒'
	glyphCursor    = '+'
	graticuleGapPx = 8
)

type cellKind int

const (
	kindEmpty cellKind = iota
	kindOutside
	kindGrid
	kindFill
	kindRim
	kindCursor
)

type cell struct {
	r    rune
	kind cellKind
}

// Model is the map canvas.
type Model struct {
	view     Viewport
	cursorX  int
	cursorY  int
	placed   bool
	ring     orb.Ring
	bound    orb.Bound
	armed    bool
	disabled bool
	grid     bool
	styles   common.Styles
}

// New creates a canvas centred on center.
func New(center geo.Point, degreesPerCell float64) *Model {
	m := &Model{
		view:   Viewport{Center: center, DegreesPerCell: degreesPerCell},
		grid:   true,
		styles: common.DefaultStyles(),
	}
	m.view.Zoom(1)
	return m
}

// Viewport returns the current viewport.
func (m *Model) Viewport() Viewport { return m.view }

// SetSize resizes the canvas and keeps the cursor on screen.
func (m *Model) SetSize(width, height int) {
	m.view.Width = max(width, 0)
	m.view.Height = max(height, 0)
	if !m.placed {
		m.cursorX, m.cursorY = m.view.Width/2, m.view.Height/2
	}
	m.SetCursor(m.cursorX, m.cursorY)
}

// Size returns the canvas size in cells.
func (m *Model) Size() (int, int) { return m.view.Width, m.view.Height }

// CellToGeo converts a canvas cell to WGS84.
func (m *Model) CellToGeo(x, y int) geo.Point { return m.view.CellToGeo(x, y) }

// GeoToCell converts WGS84 to a canvas cell.
func (m *Model) GeoToCell(p geo.Point) (int, int, bool) { return m.view.GeoToCell(p) }

// SetCursor moves the cursor, clamped to the canvas.
func (m *Model) SetCursor(x, y int) {
	m.cursorX = clampInt(x, 0, m.view.Width-1)
	m.cursorY = clampInt(y, 0, m.view.Height-1)
	m.placed = m.view.Width > 0 && m.view.Height > 0
}

// MoveCursor moves the cursor by a cell delta.
func (m *Model) MoveCursor(dx, dy int) { m.SetCursor(m.cursorX+dx, m.cursorY+dy) }

// Cursor returns the cursor cell.
func (m *Model) Cursor() (int, int) { return m.cursorX, m.cursorY }

// CursorPoint returns the WGS84 position under the cursor.
func (m *Model) CursorPoint() geo.Point { return m.view.CellToGeo(m.cursorX, m.cursorY) }

// Pan moves the map by whole cells.
func (m *Model) Pan(dx, dy int) { m.view.Pan(dx, dy) }

// Zoom scales the map around the cursor.
func (m *Model) Zoom(factor float64) { m.view.ZoomAt(m.cursorX, m.cursorY, factor) }

// CenterOnCursor recentres the map on the cursor and moves the cursor with it.
func (m *Model) CenterOnCursor() {
	m.view.Center = m.CursorPoint()
	m.view.clamp()
	m.SetCursor(m.view.Width/2, m.view.Height/2)
}

// SetRing sets the overlay polygon to draw; nil clears it. Longitudes are
// unwrapped so a ring crossing the antimeridian stays one small polygon.
func (m *Model) SetRing(ring orb.Ring) {
	m.ring = unwrapRing(ring)
	m.bound = orb.Bound{}
	if len(m.ring) > 0 {
		m.bound = m.ring.Bound()
	}
}

// unwrapRing shifts each vertex by whole turns so consecutive vertices are
// never more than 180 degrees of longitude apart.
func unwrapRing(ring orb.Ring) orb.Ring {
	if len(ring) == 0 {
		return nil
	}
	out := make(orb.Ring, len(ring))
	copy(out, ring)
	for i := 1; i < len(out); i++ {
		prev := out[i-1][0]
		for out[i][0]-prev > 180 {
			out[i][0] -= 360
		}
		for out[i][0]-prev < -180 {
			out[i][0] += 360
		}
	}
	return out
}

// SetState selects the cursor colour for the picker state.
func (m *Model) SetState(armed, disabled bool) {
	m.armed = armed
	m.disabled = disabled
}

// SetGraticule shows or hides the grid.
func (m *Model) SetGraticule(on bool) { m.grid = on }

// Graticule reports whether the grid is shown.
func (m *Model) Graticule() bool { return m.grid }

// Update handles wheel zoom over the canvas. Coordinates are canvas-local.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	if wheel, ok := msg.(tea.MouseWheelMsg); ok {
		switch wheel.Button {
		case tea.MouseWheelUp:
			m.view.ZoomAt(wheel.X, wheel.Y, 0.5)
		case tea.MouseWheelDown:
			m.view.ZoomAt(wheel.X, wheel.Y, 2)
		}
	}
	return m, nil
}

// Inside reports whether cell (x, y) lies inside the overlay polygon.
func (m *Model) Inside(x, y int) bool {
	if len(m.ring) < 4 {
		return false
	}
	p := m.view.CellToGeo(x, y)
	for _, shift := range [...]float64{0, 360, -360} {
		pt := orb.Point{p.Lon + shift, p.Lat}
		if m.bound.Contains(pt) && planar.RingContains(m.ring, pt) {
			return true
		}
	}
	return false
}

// View renders the canvas.
func (m *Model) View() string {
	w, h := m.view.Width, m.view.Height
	if w <= 0 || h <= 0 {
		return ""
	}
	defer perf.Default().Time("canvas.render")()
	cells := m.rasterize()
	lines := make([]string, h)
	for y := 0; y < h; y++ {
		lines[y] = m.renderRow(cells[y*w : (y+1)*w])
	}
	return strings.Join(lines, "\n")
}

func (m *Model) rasterize() []cell {
	w, h := m.view.Width, m.view.Height
	cells := make([]cell, w*h)

	inside := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			inside[y*w+x] = m.Inside(x, y)
		}
	}
	isInside := func(x, y int) bool {
		if x < 0 || y < 0 || x >= w || y >= h {
			return false
		}
		return inside[y*w+x]
	}

	lonStep := GraticuleStep(m.view.DegreesPerCell, graticuleGapPx)
	latStep := GraticuleStep(m.view.latPerRow(), graticuleGapPx/2)
	halfLon := m.view.DegreesPerCell / 2
	halfLat := m.view.latPerRow() / 2

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := cell{r: glyphEmpty, kind: kindEmpty}
			p := m.view.CellToGeo(x, y)
			switch {
			case p.Validate() != nil:
				c = cell{r: glyphOutside, kind: kindOutside}
			case m.grid:
				meridian := crossesLine(p.Lon, halfLon, lonStep)
				parallel := crossesLine(p.Lat, halfLat, latStep)
				switch {
				case meridian && parallel:
					c = cell{r: glyphCrossing, kind: kindGrid}
				case meridian:
					c = cell{r: glyphMeridian, kind: kindGrid}
				case parallel:
					c = cell{r: glyphParallel, kind: kindGrid}
				}
			}
			if inside[y*w+x] {
				rim := !isInside(x-1, y) || !isInside(x+1, y) || !isInside(x, y-1) || !isInside(x, y+1)
				if rim {
					c = cell{r: glyphRim, kind: kindRim}
				} else {
					c = cell{r: glyphFill, kind: kindFill}
				}
			}
			cells[y*w+x] = c
		}
	}
	if m.cursorX >= 0 && m.cursorX < w && m.cursorY >= 0 && m.cursorY < h {
		cells[m.cursorY*w+m.cursorX] = cell{r: glyphCursor, kind: kindCursor}
	}
	return cells
}

func (m *Model) styleFor(kind cellKind) lipgloss.Style {
	switch kind {
	case kindOutside:
		return m.styles.Muted
	case kindGrid:
		return m.styles.Graticule
	case kindFill:
		return m.styles.Overlay.Foreground(common.ColorSuccess)
	case kindRim:
		return m.styles.Rim
	case kindCursor:
		return lipgloss.NewStyle().Bold(true).Foreground(common.StateColor(m.armed, m.disabled))
	default:
		return lipgloss.NewStyle()
	}
}

// renderRow styles runs of equal kind together.
func (m *Model) renderRow(row []cell) string {
	var b strings.Builder
	start := 0
	for i := 1; i <= len(row); i++ {
		if i < len(row) && row[i].kind == row[start].kind {
			continue
		}
		run := make([]rune, i-start)
		for j := range run {
			run[j] = row[start+j].r
		}
		if row[start].kind == kindEmpty {
			b.WriteString(string(run))
		} else {
			b.WriteString(m.styleFor(row[start].kind).Render(string(run)))
		}
		start = i
	}
	return b.String()
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
