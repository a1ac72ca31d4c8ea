//go:build proj

package utm

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pebbe/proj/v5"

	"github.com/andyrewlee/boxpick/internal/geo"
)

// projBackend delegates the transverse Mercator math to PROJ. Pipelines are
// created lazily per zone and hemisphere and reused.
type projBackend struct {
	mu    sync.Mutex
	ctx   *proj.Context
	zones map[string]*proj.PJ
}

func newProjBackend() (Projector, error) {
	return &projBackend{
		ctx:   proj.NewContext(),
		zones: make(map[string]*proj.PJ),
	}, nil
}

func (b *projBackend) pipeline(zone int, northern bool) (*proj.PJ, error) {
	key := fmt.Sprintf("%d/%t", zone, northern)
	if pj, ok := b.zones[key]; ok {
		return pj, nil
	}
	def := fmt.Sprintf(
		"+proj=pipeline +step +proj=unitconvert +xy_in=deg +xy_out=rad +step +proj=utm +zone=%d +ellps=WGS84",
		zone,
	)
	if !northern {
		def += " +south"
	}
	pj, err := b.ctx.Create(def)
	if err != nil {
		return nil, fmt.Errorf("create utm pipeline for zone %d: %w", zone, err)
	}
	b.zones[key] = pj
	return pj, nil
}

func (b *projBackend) Forward(p geo.Point) (Coordinate, error) {
	if err := p.Validate(); err != nil {
		return Coordinate{}, fmt.Errorf("%w: %v", ErrOutOfRange, err)
	}
	return b.ForwardInZone(p, ZoneNumber(p.Lat, p.Lon), "")
}

func (b *projBackend) ForwardInZone(p geo.Point, zone int, letter string) (Coordinate, error) {
	if err := p.Validate(); err != nil {
		return Coordinate{}, fmt.Errorf("%w: %v", ErrOutOfRange, err)
	}
	if err := validateZone(zone, letter); err != nil {
		return Coordinate{}, err
	}
	if letter == "" {
		letter = ZoneLetter(p.Lat)
	}
	letter = strings.ToUpper(letter)

	b.mu.Lock()
	defer b.mu.Unlock()
	pj, err := b.pipeline(zone, Northern(letter))
	if err != nil {
		return Coordinate{}, err
	}
	easting, northing, _, _, err := pj.Trans(proj.Fwd, p.Lon, p.Lat, 0, 0)
	if err != nil {
		return Coordinate{}, fmt.Errorf("%w: %v", ErrOutOfRange, err)
	}
	return Coordinate{Easting: easting, Northing: northing, ZoneNumber: zone, ZoneLetter: letter}, nil
}

func (b *projBackend) Inverse(c Coordinate) (geo.Point, error) {
	if c.ZoneLetter == "" {
		return geo.Point{}, fmt.Errorf("%w: zone letter required", ErrInvalidZone)
	}
	if err := validateZone(c.ZoneNumber, c.ZoneLetter); err != nil {
		return geo.Point{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	pj, err := b.pipeline(c.ZoneNumber, c.Northern())
	if err != nil {
		return geo.Point{}, err
	}
	lon, lat, _, _, err := pj.Trans(proj.Inv, c.Easting, c.Northing, 0, 0)
	if err != nil {
		return geo.Point{}, fmt.Errorf("%w: %v", ErrOutOfRange, err)
	}
	return geo.Point{Lat: lat, Lon: lon}, nil
}

// Close releases the PROJ context and every cached pipeline.
func (b *projBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ctx.Close()
	b.zones = map[string]*proj.PJ{}
	return nil
}
