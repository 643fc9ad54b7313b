package spatial

import (
	"math"
	"sort"

	"github.com/parking-zone-service/internal/domain"
	"github.com/parking-zone-service/internal/pkg/geo"
)

// pruneTolerance допускает погрешность округления при сравнении границ с лучшим расстоянием
const pruneTolerance = 1e-9

const (
	axisLon = 0
	axisLat = 1
)

type kdNode struct {
	point latLon
	zone  int
	left  int
	right int
	axis  int
}

type kdPoint struct {
	point latLon
	zone  int
}

// KDTree - k-d дерево по обоим концам каждой зоны.
// Узлы лежат в одном срезе, дети адресуются индексами.
// Ось чередуется по глубине: долгота, затем широта.
type KDTree struct {
	nodes  []kdNode
	root   int
	zones  []projectedZone
	maxLat float64
}

// NewKDTree строит дерево один раз; запросы после этого только читают его.
func NewKDTree(zones []domain.Zone) *KDTree {
	projected, valid := indexedZones(zones)

	points := make([]kdPoint, 0, 2*len(zones))
	for i, z := range projected {
		if !valid[i] {
			continue
		}
		points = append(points, kdPoint{z.start, i}, kdPoint{z.end, i})
	}

	t := &KDTree{
		nodes:  make([]kdNode, 0, len(points)),
		zones:  projected,
		maxLat: maxAbsLat(projected, valid),
	}
	t.root = t.build(points, 0)
	return t
}

func (t *KDTree) build(points []kdPoint, depth int) int {
	if len(points) == 0 {
		return -1
	}

	axis := depth % 2
	sort.Slice(points, func(i, j int) bool {
		return axisValue(points[i].point, axis) < axisValue(points[j].point, axis)
	})
	median := len(points) / 2

	idx := len(t.nodes)
	t.nodes = append(t.nodes, kdNode{
		point: points[median].point,
		zone:  points[median].zone,
		axis:  axis,
	})

	left := t.build(points[:median], depth+1)
	right := t.build(points[median+1:], depth+1)
	t.nodes[idx].left = left
	t.nodes[idx].right = right

	return idx
}

func axisValue(p latLon, axis int) float64 {
	if axis == axisLon {
		return p.lon
	}
	return p.lat
}

func (t *KDTree) Name() string {
	return AlgorithmKDTree.DisplayName()
}

// Correlate ищет ближайший конец зоны. zones должна быть той же коллекцией,
// по которой построено дерево.
func (t *KDTree) Correlate(addr domain.Address, _ []domain.Zone) *domain.Match {
	q, ok := projectAddress(addr)
	if !ok || t.root < 0 {
		return nil
	}

	s := kdSearch{
		query:  q,
		maxLat: math.Max(t.maxLat, math.Abs(q.lat)),
		dist:   math.Inf(1),
		zone:   -1,
	}
	t.nearest(t.root, &s)
	if s.zone < 0 {
		return nil
	}

	d := t.zones[s.zone].distanceTo(q)
	if d > domain.MaxDistanceMeters {
		return nil
	}
	return &domain.Match{ZoneIndex: s.zone, DistanceMeters: d}
}

type kdSearch struct {
	query  latLon
	maxLat float64
	dist   float64
	zone   int
}

func (t *KDTree) nearest(idx int, s *kdSearch) {
	if idx < 0 {
		return
	}
	n := &t.nodes[idx]

	d := geo.HaversineDistance(s.query.lat, s.query.lon, n.point.lat, n.point.lon)
	if d < s.dist {
		s.dist, s.zone = d, n.zone
	}

	diff := axisValue(s.query, n.axis) - axisValue(n.point, n.axis)
	near, far := n.left, n.right
	if diff > 0 {
		near, far = n.right, n.left
	}

	t.nearest(near, s)

	var bound float64
	if n.axis == axisLon {
		bound = geo.LonGapLowerBound(diff, s.maxLat)
	} else {
		bound = geo.LatGapLowerBound(diff)
	}
	if bound <= s.dist+pruneTolerance {
		t.nearest(far, s)
	}
}
