package geo

import (
	"math"

	"site-intel-service/internal/domain"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
)

const (
	EarthRadiusMiles = 3958.8
	EarthRadiusFeet  = 20902231.0
	SqFtPerAcre      = 43560.0
)

func toPoint(c domain.Coordinate) s2.Point {
	return s2.PointFromLatLng(s2.LatLngFromDegrees(c.Lat, c.Lon))
}

// Distance returns the great-circle distance in miles between a and b.
// The result is symmetric and exactly zero when a == b.
func Distance(a, b domain.Coordinate) float64 {
	angle := s1.Angle(s2.ChordAngleBetweenPoints(toPoint(a), toPoint(b)).Angle())
	return angle.Radians() * EarthRadiusMiles
}

// ContainsPoint reports whether p lies inside the closed rectangle b.
// All four edges are inclusive.
func ContainsPoint(b domain.CountyBounds, p domain.Coordinate) bool {
	bound := orb.Bound{
		Min: orb.Point{b.MinLon, b.MinLat},
		Max: orb.Point{b.MaxLon, b.MaxLat},
	}
	return bound.Contains(orb.Point{p.Lon, p.Lat})
}

// signedAreaSqFt accumulates the spherical excess sum over the implicitly
// closed ring. Clockwise rings come out positive.
func signedAreaSqFt(ring []domain.Coordinate) float64 {
	var sum float64
	n := len(ring)
	for i := 0; i < n; i++ {
		p1 := ring[i]
		p2 := ring[(i+1)%n]
		lat1 := p1.Lat * math.Pi / 180
		lat2 := p2.Lat * math.Pi / 180
		dLon := (p2.Lon - p1.Lon) * math.Pi / 180
		sum += dLon * (2 + math.Sin(lat1) + math.Sin(lat2))
	}
	return sum * EarthRadiusFeet * EarthRadiusFeet / 2
}

// PolygonAreaAcres returns the area enclosed by poly in acres.
// Winding direction does not affect the result. Self-intersecting rings are
// not rejected; use SelfIntersects to detect them.
func PolygonAreaAcres(poly domain.Polygon) (float64, error) {
	if len(poly) < 3 {
		return 0, domain.ErrDegeneratePolygon
	}
	for _, c := range poly {
		if err := c.Validate(); err != nil {
			return 0, err
		}
	}
	return math.Abs(signedAreaSqFt(poly)) / SqFtPerAcre, nil
}

// PathLength sums the great-circle distance of consecutive vertices, in miles.
func PathLength(path domain.Path) (float64, error) {
	if len(path) < 2 {
		return 0, domain.ErrDegeneratePath
	}
	for _, c := range path {
		if err := c.Validate(); err != nil {
			return 0, err
		}
	}
	var total float64
	for i := 0; i < len(path)-1; i++ {
		total += Distance(path[i], path[i+1])
	}
	return total, nil
}

// SelfIntersects reports whether any two non-adjacent edges of the ring cross
// or touch. A repeated closing vertex is ignored.
func SelfIntersects(poly domain.Polygon) bool {
	ring := trimClosing(poly)
	n := len(ring)
	if n < 4 {
		return false
	}

	pts := make([]s2.Point, n)
	for i, c := range ring {
		pts[i] = toPoint(c)
	}

	for i := 0; i < n; i++ {
		a, b := pts[i], pts[(i+1)%n]
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				// edges sharing the closing vertex
				continue
			}
			c, d := pts[j], pts[(j+1)%n]
			if s2.CrossingSign(a, b, c, d) != s2.DoNotCross {
				return true
			}
		}
	}
	return false
}

func trimClosing(poly domain.Polygon) domain.Polygon {
	if n := len(poly); n > 1 && poly[0].Lat == poly[n-1].Lat && poly[0].Lon == poly[n-1].Lon {
		return poly[:n-1]
	}
	return poly
}
