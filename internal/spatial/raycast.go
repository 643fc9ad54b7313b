package spatial

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/parking-zone-service/internal/domain"
)

const (
	rayCount = 36
	// rayLength - длина луча в градусах (долгота/широта)
	rayLength = 0.01
	// parallelEpsilon - знаменатель меньше этого считается параллельностью
	parallelEpsilon = 1e-10
)

// RayCasting выпускает лучи из адреса и рассматривает только зоны,
// отрезок которых пересекает хотя бы один луч. Индекс не строится.
type RayCasting struct {
	rays [rayCount]orb.Point
}

func NewRayCasting() *RayCasting {
	r := &RayCasting{}
	for i := range r.rays {
		angle := float64(i) * 2 * math.Pi / rayCount
		r.rays[i] = orb.Point{math.Cos(angle) * rayLength, math.Sin(angle) * rayLength}
	}
	return r
}

func (r *RayCasting) Name() string {
	return AlgorithmRaycast.DisplayName()
}

func (r *RayCasting) Correlate(addr domain.Address, zones []domain.Zone) *domain.Match {
	q, ok := projectAddress(addr)
	if !ok {
		return nil
	}
	origin := orb.Point{q.lon, q.lat}

	best := -1
	bestDist := math.Inf(1)
	for i, z := range zones {
		pz, ok := projectZone(z)
		if !ok {
			continue
		}
		a := orb.Point{pz.start.lon, pz.start.lat}
		b := orb.Point{pz.end.lon, pz.end.lat}
		if !r.hits(origin, a, b) {
			continue
		}

		d := pz.distanceTo(q)
		if d <= domain.MaxDistanceMeters && d < bestDist {
			best, bestDist = i, d
		}
	}

	if best < 0 {
		return nil
	}
	return &domain.Match{ZoneIndex: best, DistanceMeters: bestDist}
}

func (r *RayCasting) hits(origin, a, b orb.Point) bool {
	for _, dir := range r.rays {
		end := orb.Point{origin.X() + dir.X(), origin.Y() + dir.Y()}
		if segmentsIntersect(origin, end, a, b) {
			return true
		}
	}
	return false
}

// segmentsIntersect решает p1 + t(p2-p1) = p3 + u(p4-p3) для t, u в [0, 1].
func segmentsIntersect(p1, p2, p3, p4 orb.Point) bool {
	denom := (p1.X()-p2.X())*(p3.Y()-p4.Y()) - (p1.Y()-p2.Y())*(p3.X()-p4.X())
	if math.Abs(denom) < parallelEpsilon {
		return false
	}

	t := ((p1.X()-p3.X())*(p3.Y()-p4.Y()) - (p1.Y()-p3.Y())*(p3.X()-p4.X())) / denom
	u := -((p1.X()-p2.X())*(p1.Y()-p3.Y()) - (p1.Y()-p2.Y())*(p1.X()-p3.X())) / denom

	return t >= 0 && t <= 1 && u >= 0 && u <= 1
}
