// Package proj converts geographic WGS84 coordinates to planar UTM meters.
//
// go-geom deliberately ships no CRS transforms and the PROJ bindings require
// cgo, so the forward and inverse transverse Mercator series (Snyder,
// "Map Projections: A Working Manual", USGS 1987) are implemented directly.
// Accuracy is well under a meter inside a zone, which is far tighter than
// the kilometer-scale thresholds the classifier compares against.
package proj

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/sells-group/windprox-cli/internal/model"
)

// WGS84 ellipsoid.
const (
	semiMajor  = 6378137.0
	flattening = 1.0 / 298.257223563

	scaleFactor   = 0.9996
	falseEasting  = 500000.0
	falseNorthing = 10000000.0 // southern hemisphere only
)

var (
	e2  = flattening * (2 - flattening) // first eccentricity squared
	ep2 = e2 / (1 - e2)                 // second eccentricity squared
)

// Zone computes the standard UTM zone (1-60) for a longitude in degrees.
func Zone(lon float64) int {
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	zone := int(lon/6) + 1
	if zone > 60 {
		zone = 60
	}
	return zone
}

// ZoneCRS returns the EPSG code for a UTM zone: 326xx north, 327xx south.
func ZoneCRS(zone int, north bool) model.CRS {
	if north {
		return model.CRS(32600 + zone)
	}
	return model.CRS(32700 + zone)
}

// UTM projects between EPSG:4326 and a single UTM zone.
type UTM struct {
	zone  int
	north bool
	lam0  float64 // central meridian, radians
}

// NewUTM builds a projector for the given zone and hemisphere.
func NewUTM(zone int, north bool) (*UTM, error) {
	if zone < 1 || zone > 60 {
		return nil, eris.Errorf("proj: invalid UTM zone %d", zone)
	}
	centralDeg := float64((zone-1)*6) - 180 + 3
	return &UTM{zone: zone, north: north, lam0: centralDeg * math.Pi / 180}, nil
}

// ForZone derives the projector covering a representative coordinate,
// typically the dataset's mean position.
func ForZone(lon, lat float64) *UTM {
	u, _ := NewUTM(Zone(lon), lat >= 0)
	return u
}

// Zone returns the projector's UTM zone number.
func (u *UTM) Zone() int { return u.zone }

// CRS returns the EPSG code of the target planar system.
func (u *UTM) CRS() model.CRS { return ZoneCRS(u.zone, u.north) }

// Forward converts lon/lat degrees to easting/northing meters.
func (u *UTM) Forward(lon, lat float64) (x, y float64) {
	phi := lat * math.Pi / 180
	lam := lon * math.Pi / 180

	sinPhi, cosPhi := math.Sincos(phi)
	tanPhi := sinPhi / cosPhi

	n := semiMajor / math.Sqrt(1-e2*sinPhi*sinPhi)
	t := tanPhi * tanPhi
	c := ep2 * cosPhi * cosPhi
	a := cosPhi * normalizeLon(lam-u.lam0)

	m := meridianArc(phi)

	a2 := a * a
	a3 := a2 * a
	a4 := a3 * a
	a5 := a4 * a
	a6 := a5 * a

	x = scaleFactor*n*(a+(1-t+c)*a3/6+(5-18*t+t*t+72*c-58*ep2)*a5/120) + falseEasting
	y = scaleFactor * (m + n*tanPhi*(a2/2+(5-t+9*c+4*c*c)*a4/24+(61-58*t+t*t+600*c-330*ep2)*a6/720))
	if !u.north {
		y += falseNorthing
	}
	return x, y
}

// Inverse converts easting/northing meters back to lon/lat degrees.
func (u *UTM) Inverse(x, y float64) (lon, lat float64) {
	x -= falseEasting
	if !u.north {
		y -= falseNorthing
	}

	m := y / scaleFactor
	mu := m / (semiMajor * (1 - e2/4 - 3*e2*e2/64 - 5*e2*e2*e2/256))

	e1 := (1 - math.Sqrt(1-e2)) / (1 + math.Sqrt(1-e2))
	phi1 := mu +
		(3*e1/2-27*math.Pow(e1, 3)/32)*math.Sin(2*mu) +
		(21*e1*e1/16-55*math.Pow(e1, 4)/32)*math.Sin(4*mu) +
		(151*math.Pow(e1, 3)/96)*math.Sin(6*mu) +
		(1097*math.Pow(e1, 4)/512)*math.Sin(8*mu)

	sinPhi1, cosPhi1 := math.Sincos(phi1)
	tanPhi1 := sinPhi1 / cosPhi1

	n1 := semiMajor / math.Sqrt(1-e2*sinPhi1*sinPhi1)
	r1 := semiMajor * (1 - e2) / math.Pow(1-e2*sinPhi1*sinPhi1, 1.5)
	t1 := tanPhi1 * tanPhi1
	c1 := ep2 * cosPhi1 * cosPhi1
	d := x / (n1 * scaleFactor)

	d2 := d * d
	d3 := d2 * d
	d4 := d3 * d
	d5 := d4 * d
	d6 := d5 * d

	phi := phi1 - (n1*tanPhi1/r1)*(d2/2-
		(5+3*t1+10*c1-4*c1*c1-9*ep2)*d4/24+
		(61+90*t1+298*c1+45*t1*t1-252*ep2-3*c1*c1)*d6/720)
	lam := u.lam0 + (d-(1+2*t1+c1)*d3/6+
		(5-2*c1+28*t1-3*c1*c1+8*ep2+24*t1*t1)*d5/120)/cosPhi1

	return lam * 180 / math.Pi, phi * 180 / math.Pi
}

// meridianArc returns the distance along the meridian from the equator.
func meridianArc(phi float64) float64 {
	e4 := e2 * e2
	e6 := e4 * e2
	return semiMajor * ((1-e2/4-3*e4/64-5*e6/256)*phi -
		(3*e2/8+3*e4/32+45*e6/1024)*math.Sin(2*phi) +
		(15*e4/256+45*e6/1024)*math.Sin(4*phi) -
		(35*e6/3072)*math.Sin(6*phi))
}

// normalizeLon wraps a longitude difference into (-pi, pi].
func normalizeLon(lam float64) float64 {
	for lam > math.Pi {
		lam -= 2 * math.Pi
	}
	for lam < -math.Pi {
		lam += 2 * math.Pi
	}
	return lam
}
