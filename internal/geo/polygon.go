// README: Polygon containment test for geofenced zones.
package geo

import (
	"errors"

	"ridefare/internal/types"
)

// ErrInvalidGeometry indicates a degenerate zone boundary. This is a
// configuration error: admins must fix the zone before fares can be computed.
var ErrInvalidGeometry = errors.New("polygon must have at least 3 vertices")

// epsilon for on-edge checks in degree space (~0.1mm at the equator).
const epsilon = 1e-9

// Polygon is a simple (non-self-intersecting) boundary. The first and last
// vertex need not repeat. Longitude wraparound across the antimeridian is not
// handled; the service area is assumed not to cross it.
type Polygon []types.Point

func (p Polygon) Validate() error {
	if len(p) < 3 {
		return ErrInvalidGeometry
	}
	return nil
}

// Contains reports whether pt lies inside the polygon using the even-odd
// ray-casting rule. Points exactly on an edge or vertex count as inside, so
// fares do not flap at zone borders.
func (p Polygon) Contains(pt types.Point) (bool, error) {
	if err := p.Validate(); err != nil {
		return false, err
	}

	inside := false
	for i, j := 0, len(p)-1; i < len(p); j, i = i, i+1 {
		a, b := p[j], p[i]
		if onSegment(a, b, pt) {
			return true, nil
		}
		if (a.Lat > pt.Lat) != (b.Lat > pt.Lat) {
			crossLng := a.Lng + (pt.Lat-a.Lat)*(b.Lng-a.Lng)/(b.Lat-a.Lat)
			if pt.Lng < crossLng {
				inside = !inside
			}
		}
	}
	return inside, nil
}

// onSegment reports whether pt lies on the segment a-b (within epsilon).
func onSegment(a, b, pt types.Point) bool {
	cross := (b.Lat-a.Lat)*(pt.Lng-a.Lng) - (b.Lng-a.Lng)*(pt.Lat-a.Lat)
	if cross > epsilon || cross < -epsilon {
		return false
	}
	if pt.Lat < min(a.Lat, b.Lat)-epsilon || pt.Lat > max(a.Lat, b.Lat)+epsilon {
		return false
	}
	if pt.Lng < min(a.Lng, b.Lng)-epsilon || pt.Lng > max(a.Lng, b.Lng)+epsilon {
		return false
	}
	return true
}
