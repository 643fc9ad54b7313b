package spatial

import (
	"container/heap"
	"math"
	"sort"

	"github.com/paulmach/orb"

	"github.com/parking-zone-service/internal/domain"
	"github.com/parking-zone-service/internal/pkg/geo"
)

// nodeCapacity - максимум детей у узла дерева
const nodeCapacity = 8

type bvNode struct {
	bound    orb.Bound
	children []int
	// zone >= 0 только у листовых записей
	zone int
	a, b orb.Point
}

// BoundingVolumeTree - R-дерево прямоугольников зон в локальной метрической плоскости,
// загружаемое целиком методом STR. Узлы хранятся в одном срезе.
//
// В отличие от остальных алгоритмов, расстояние до зоны здесь - перпендикуляр
// к отрезку между её концами, поэтому адрес у середины длинной зоны может
// совпасть, хотя оба конца дальше порога.
type BoundingVolumeTree struct {
	nodes []bvNode
	root  int
	frame geo.LocalFrame
}

// NewBoundingVolumeTree строит дерево по корректным зонам
func NewBoundingVolumeTree(zones []domain.Zone) *BoundingVolumeTree {
	projected, valid := indexedZones(zones)
	t := &BoundingVolumeTree{
		frame: geo.NewLocalFrame(maxAbsLat(projected, valid)),
		root:  -1,
	}

	level := make([]int, 0, len(zones))
	for i, z := range projected {
		if !valid[i] {
			continue
		}
		a := t.frame.Project(z.start.lat, z.start.lon)
		b := t.frame.Project(z.end.lat, z.end.lon)
		t.nodes = append(t.nodes, bvNode{
			bound: orb.LineString{a, b}.Bound(),
			zone:  i,
			a:     a,
			b:     b,
		})
		level = append(level, len(t.nodes)-1)
	}
	if len(level) == 0 {
		return t
	}

	for len(level) > 1 {
		level = t.packLevel(level)
	}
	t.root = level[0]
	return t
}

// packLevel группирует узлы уровня в родителей (Sort-Tile-Recursive)
func (t *BoundingVolumeTree) packLevel(level []int) []int {
	pages := int(math.Ceil(float64(len(level)) / nodeCapacity))
	slices := int(math.Ceil(math.Sqrt(float64(pages))))
	sliceSize := slices * nodeCapacity

	sort.Slice(level, func(i, j int) bool {
		return t.nodes[level[i]].bound.Center().X() < t.nodes[level[j]].bound.Center().X()
	})

	parents := make([]int, 0, pages)
	for start := 0; start < len(level); start += sliceSize {
		slice := level[start:min(start+sliceSize, len(level))]
		sort.Slice(slice, func(i, j int) bool {
			return t.nodes[slice[i]].bound.Center().Y() < t.nodes[slice[j]].bound.Center().Y()
		})

		for g := 0; g < len(slice); g += nodeCapacity {
			group := slice[g:min(g+nodeCapacity, len(slice))]
			children := make([]int, len(group))
			copy(children, group)

			bound := t.nodes[children[0]].bound
			for _, c := range children[1:] {
				bound = bound.Union(t.nodes[c].bound)
			}
			t.nodes = append(t.nodes, bvNode{bound: bound, children: children, zone: -1})
			parents = append(parents, len(t.nodes)-1)
		}
	}
	return parents
}

func (t *BoundingVolumeTree) Name() string {
	return AlgorithmRTree.DisplayName()
}

// Correlate - поиск ближайшего отрезка по принципу best-first.
func (t *BoundingVolumeTree) Correlate(addr domain.Address, _ []domain.Zone) *domain.Match {
	q, ok := projectAddress(addr)
	if !ok || t.root < 0 {
		return nil
	}
	p := t.frame.Project(q.lat, q.lon)

	queue := &bvQueue{{node: t.root, dist: t.distance(t.root, p)}}
	for queue.Len() > 0 {
		item := heap.Pop(queue).(bvItem)
		if item.dist > domain.MaxDistanceMeters {
			return nil
		}

		n := &t.nodes[item.node]
		if n.zone >= 0 {
			return &domain.Match{ZoneIndex: n.zone, DistanceMeters: item.dist}
		}
		for _, c := range n.children {
			heap.Push(queue, bvItem{node: c, dist: t.distance(c, p)})
		}
	}
	return nil
}

// distance - точное расстояние до отрезка для листа, до прямоугольника для узла
func (t *BoundingVolumeTree) distance(idx int, p orb.Point) float64 {
	n := &t.nodes[idx]
	if n.zone >= 0 {
		return geo.DistancePointToSegment(p, n.a, n.b)
	}
	dx := math.Max(math.Max(n.bound.Min.X()-p.X(), 0), p.X()-n.bound.Max.X())
	dy := math.Max(math.Max(n.bound.Min.Y()-p.Y(), 0), p.Y()-n.bound.Max.Y())
	return math.Hypot(dx, dy)
}

type bvItem struct {
	node int
	dist float64
}

type bvQueue []bvItem

func (q bvQueue) Len() int            { return len(q) }
func (q bvQueue) Less(i, j int) bool  { return q[i].dist < q[j].dist }
func (q bvQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *bvQueue) Push(x interface{}) { *q = append(*q, x.(bvItem)) }
func (q *bvQueue) Pop() interface{} {
	old := *q
	item := old[len(old)-1]
	*q = old[:len(old)-1]
	return item
}
