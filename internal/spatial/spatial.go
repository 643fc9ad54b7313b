// Package spatial содержит взаимозаменяемые алгоритмы привязки адреса к
// ближайшей зоне ограничения. Все алгоритмы сравнивают расстояние по
// большому кругу до концов зоны с порогом domain.MaxDistanceMeters.
package spatial

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/parking-zone-service/internal/domain"
	"github.com/parking-zone-service/internal/pkg/geo"
)

// SpatialCorrelator - общий интерфейс всех алгоритмов.
// Индексные реализации строятся по коллекции зон один раз и дальше
// только читают индекс, поэтому безопасны для конкурентных запросов.
// Correlate возвращает nil, если ни одна зона не ближе порога.
type SpatialCorrelator interface {
	Correlate(addr domain.Address, zones []domain.Zone) *domain.Match
	Name() string
}

// Algorithm - идентификатор алгоритма
type Algorithm string

const (
	AlgorithmDistance Algorithm = "distance"
	AlgorithmKDTree   Algorithm = "kdtree"
	AlgorithmRTree    Algorithm = "rtree"
	AlgorithmGrid     Algorithm = "grid"
	AlgorithmRaycast  Algorithm = "raycast"
)

var displayNames = map[Algorithm]string{
	AlgorithmDistance: "Distance-Based",
	AlgorithmKDTree:   "KD-Tree Spatial Index",
	AlgorithmRTree:    "R-Tree Spatial Index",
	AlgorithmGrid:     "Overlapping Chunks",
	AlgorithmRaycast:  "Raycasting",
}

// DisplayName - человекочитаемое имя алгоритма без построения индекса
func (a Algorithm) DisplayName() string {
	return displayNames[a]
}

// ErrUnknownAlgorithm - неизвестное имя алгоритма
var ErrUnknownAlgorithm = errors.New("unknown correlation algorithm")

// Algorithms - все алгоритмы в порядке для бенчмарка
func Algorithms() []Algorithm {
	return []Algorithm{AlgorithmDistance, AlgorithmKDTree, AlgorithmRTree, AlgorithmGrid, AlgorithmRaycast}
}

// ParseAlgorithm разбирает имя алгоритма без учёта регистра
func ParseAlgorithm(s string) (Algorithm, error) {
	algo := Algorithm(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Algorithms() {
		if algo == known {
			return algo, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}

// New создаёт алгоритм и строит его индекс по зонам
func New(algo Algorithm, zones []domain.Zone) (SpatialCorrelator, error) {
	switch algo {
	case AlgorithmDistance:
		return NewBruteForce(), nil
	case AlgorithmKDTree:
		return NewKDTree(zones), nil
	case AlgorithmRTree:
		return NewBoundingVolumeTree(zones), nil
	case AlgorithmGrid:
		return NewOverlappingGrid(zones), nil
	case AlgorithmRaycast:
		return NewRayCasting(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algo)
	}
}

type latLon struct {
	lat float64
	lon float64
}

// projectedZone - зона в географических координатах
type projectedZone struct {
	start latLon
	end   latLon
}

func projectZone(z domain.Zone) (projectedZone, bool) {
	sLat, sLon, err := z.Start.Geographic()
	if err != nil {
		return projectedZone{}, false
	}
	eLat, eLon, err := z.End.Geographic()
	if err != nil {
		return projectedZone{}, false
	}
	return projectedZone{start: latLon{sLat, sLon}, end: latLon{eLat, eLon}}, true
}

// distanceTo - минимум расстояний до двух концов зоны
func (z projectedZone) distanceTo(p latLon) float64 {
	return math.Min(
		geo.HaversineDistance(p.lat, p.lon, z.start.lat, z.start.lon),
		geo.HaversineDistance(p.lat, p.lon, z.end.lat, z.end.lon),
	)
}

func projectAddress(addr domain.Address) (latLon, bool) {
	lat, lon, err := addr.Coordinates.Geographic()
	if err != nil {
		return latLon{}, false
	}
	return latLon{lat, lon}, true
}

// indexedZones проецирует коллекцию; некорректные зоны помечаются и не индексируются,
// но сохраняют позицию, чтобы индексы совпадали с исходной коллекцией.
func indexedZones(zones []domain.Zone) ([]projectedZone, []bool) {
	projected := make([]projectedZone, len(zones))
	valid := make([]bool, len(zones))
	for i, z := range zones {
		projected[i], valid[i] = projectZone(z)
	}
	return projected, valid
}

// maxAbsLat - наибольшая |широта| среди корректных зон
func maxAbsLat(projected []projectedZone, valid []bool) float64 {
	m := 0.0
	for i, z := range projected {
		if !valid[i] {
			continue
		}
		m = math.Max(m, math.Max(math.Abs(z.start.lat), math.Abs(z.end.lat)))
	}
	return m
}
