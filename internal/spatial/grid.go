package spatial

import (
	"math"

	"github.com/parking-zone-service/internal/domain"
	"github.com/parking-zone-service/internal/pkg/geo"
)

const (
	// ChunkSize - сторона чанка в метрах
	ChunkSize = 100.0
	// ChunkOverlap - перекрытие соседних чанков в метрах
	ChunkOverlap = 50.0

	chunkStride = ChunkSize - ChunkOverlap
)

type chunkKey struct {
	x, y int64
}

// OverlappingGrid - хеш-сетка перекрывающихся чанков в локальной метрической плоскости.
// Каждый конец зоны регистрируется в блоке 2x2 чанков, запрос адреса
// объединяет свои четыре чанка. Шаг сетки равен порогу, поэтому любая зона
// ближе порога обязательно попадает в кандидаты.
type OverlappingGrid struct {
	chunks map[chunkKey][]int
	zones  []projectedZone
	frame  geo.LocalFrame
}

func NewOverlappingGrid(zones []domain.Zone) *OverlappingGrid {
	projected, valid := indexedZones(zones)
	g := &OverlappingGrid{
		chunks: make(map[chunkKey][]int),
		zones:  projected,
		frame:  geo.NewLocalFrame(maxAbsLat(projected, valid)),
	}

	for i, z := range projected {
		if !valid[i] {
			continue
		}
		seen := make(map[chunkKey]struct{}, 8)
		for _, end := range []latLon{z.start, z.end} {
			for _, key := range g.chunksFor(end) {
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				g.chunks[key] = append(g.chunks[key], i)
			}
		}
	}
	return g
}

func (g *OverlappingGrid) chunksFor(p latLon) [4]chunkKey {
	pt := g.frame.Project(p.lat, p.lon)
	cx := int64(math.Floor(pt.X() / chunkStride))
	cy := int64(math.Floor(pt.Y() / chunkStride))
	return [4]chunkKey{
		{cx, cy},
		{cx + 1, cy},
		{cx, cy + 1},
		{cx + 1, cy + 1},
	}
}

func (g *OverlappingGrid) Name() string {
	return AlgorithmGrid.DisplayName()
}

func (g *OverlappingGrid) Correlate(addr domain.Address, _ []domain.Zone) *domain.Match {
	q, ok := projectAddress(addr)
	if !ok {
		return nil
	}
	best := -1
	bestDist := math.Inf(1)
	checked := make(map[int]struct{})
	for _, key := range g.chunksFor(q) {
		for _, i := range g.chunks[key] {
			if _, done := checked[i]; done {
				continue
			}
			checked[i] = struct{}{}

			d := g.zones[i].distanceTo(q)
			if d > domain.MaxDistanceMeters {
				continue
			}
			if d < bestDist || (d == bestDist && i < best) {
				best, bestDist = i, d
			}
		}
	}

	if best < 0 {
		return nil
	}
	return &domain.Match{ZoneIndex: best, DistanceMeters: bestDist}
}
