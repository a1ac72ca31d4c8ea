package utm

import (
	"fmt"
	"math"
	"strings"

	"github.com/andyrewlee/boxpick/internal/geo"
)

const (
	k0            = 0.9996
	equatorRadius = 6378137.0
	e             = 0.00669438 // WGS84 first eccentricity squared
	falseEasting  = 500000.0
	falseNorthing = 10000000.0
)

var (
	e2  = e * e
	e3  = e2 * e
	eP2 = e / (1 - e)

	sqrtE = math.Sqrt(1 - e)
	n1    = (1 - sqrtE) / (1 + sqrtE)
	n2    = n1 * n1
	n3    = n2 * n1
	n4    = n3 * n1
	n5    = n4 * n1

	m1 = 1 - e/4 - 3*e2/64 - 5*e3/256
	m2 = 3*e/8 + 3*e2/32 + 45*e3/1024
	m3 = 15*e2/256 + 45*e3/1024
	m4 = 35 * e3 / 3072

	p2 = 3.0/2*n1 - 27.0/32*n3 + 269.0/512*n5
	p3 = 21.0/16*n2 - 55.0/32*n4
	p4 = 151.0/96*n3 - 417.0/128*n5
	p5 = 1097.0 / 512 * n4
)

// Series is a pure-Go transverse Mercator projector using the classic
// series expansion on the WGS84 ellipsoid. It is accurate to well below a
// metre inside a zone.
type Series struct{}

// Forward implements Projector.
func (s Series) Forward(p geo.Point) (Coordinate, error) {
	if err := p.Validate(); err != nil {
		return Coordinate{}, fmt.Errorf("%w: %v", ErrOutOfRange, err)
	}
	return s.ForwardInZone(p, ZoneNumber(p.Lat, p.Lon), "")
}

// ForwardInZone implements Projector.
func (Series) ForwardInZone(p geo.Point, zone int, letter string) (Coordinate, error) {
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

	latRad := radians(p.Lat)
	latSin, latCos := math.Sin(latRad), math.Cos(latRad)
	latTan := latSin / latCos
	latTan2 := latTan * latTan
	latTan4 := latTan2 * latTan2

	centralLonRad := radians(CentralLongitude(zone))
	n := equatorRadius / math.Sqrt(1-e*latSin*latSin)
	c := eP2 * latCos * latCos

	a := latCos * modAngle(radians(p.Lon)-centralLonRad)
	a2 := a * a
	a3 := a2 * a
	a4 := a3 * a
	a5 := a4 * a
	a6 := a5 * a

	m := equatorRadius * (m1*latRad -
		m2*math.Sin(2*latRad) +
		m3*math.Sin(4*latRad) -
		m4*math.Sin(6*latRad))

	easting := k0*n*(a+
		a3/6*(1-latTan2+c)+
		a5/120*(5-18*latTan2+latTan4+72*c-58*eP2)) + falseEasting

	northing := k0 * (m + n*latTan*(a2/2+
		a4/24*(5-latTan2+9*c+4*c*c)+
		a6/720*(61-58*latTan2+latTan4+600*c-330*eP2)))

	if !Northern(letter) {
		northing += falseNorthing
	}

	return Coordinate{
		Easting:    easting,
		Northing:   northing,
		ZoneNumber: zone,
		ZoneLetter: letter,
	}, nil
}

// Inverse implements Projector.
func (Series) Inverse(c Coordinate) (geo.Point, error) {
	if c.ZoneLetter == "" {
		return geo.Point{}, fmt.Errorf("%w: zone letter required", ErrInvalidZone)
	}
	if err := validateZone(c.ZoneNumber, c.ZoneLetter); err != nil {
		return geo.Point{}, err
	}
	if math.IsNaN(c.Easting) || math.IsNaN(c.Northing) || math.IsInf(c.Easting, 0) || math.IsInf(c.Northing, 0) {
		return geo.Point{}, fmt.Errorf("%w: non-finite grid coordinate", ErrOutOfRange)
	}

	x := c.Easting - falseEasting
	y := c.Northing
	if !c.Northern() {
		y -= falseNorthing
	}

	mu := y / k0 / (equatorRadius * m1)
	pRad := mu +
		p2*math.Sin(2*mu) +
		p3*math.Sin(4*mu) +
		p4*math.Sin(6*mu) +
		p5*math.Sin(8*mu)

	pSin, pCos := math.Sin(pRad), math.Cos(pRad)
	pTan := pSin / pCos
	pTan2 := pTan * pTan
	pTan4 := pTan2 * pTan2

	epSin := 1 - e*pSin*pSin
	n := equatorRadius / math.Sqrt(epSin)
	r := (1 - e) / epSin

	cc := eP2 * pCos * pCos
	cc2 := cc * cc

	d := x / (n * k0)
	d2 := d * d
	d3 := d2 * d
	d4 := d3 * d
	d5 := d4 * d
	d6 := d5 * d

	lat := pRad - (pTan/r)*(d2/2-
		d4/24*(5+3*pTan2+10*cc-4*cc2-9*eP2)+
		d6/720*(61+90*pTan2+298*cc+45*pTan4-252*eP2-3*cc2))

	lon := (d -
		d3/6*(1+2*pTan2+cc) +
		d5/120*(5-2*cc+28*pTan2-3*cc2+8*eP2+24*pTan4)) / pCos

	lon = modAngle(lon + radians(CentralLongitude(c.ZoneNumber)))

	return geo.Point{Lat: degrees(lat), Lon: degrees(lon)}, nil
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }

// modAngle wraps an angle into [-pi, pi).
func modAngle(v float64) float64 {
	return math.Mod(math.Mod(v+math.Pi, 2*math.Pi)+2*math.Pi, 2*math.Pi) - math.Pi
}
