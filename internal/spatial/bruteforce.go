package spatial

import (
	"math"

	"github.com/parking-zone-service/internal/domain"
)

// BruteForce - линейный перебор всех зон. Эталон для остальных алгоритмов.
type BruteForce struct{}

func NewBruteForce() *BruteForce {
	return &BruteForce{}
}

func (b *BruteForce) Name() string {
	return AlgorithmDistance.DisplayName()
}

func (b *BruteForce) Correlate(addr domain.Address, zones []domain.Zone) *domain.Match {
	p, ok := projectAddress(addr)
	if !ok {
		return nil
	}

	best := -1
	bestDist := math.Inf(1)
	for i, z := range zones {
		pz, ok := projectZone(z)
		if !ok {
			continue
		}
		d := pz.distanceTo(p)
		if d <= domain.MaxDistanceMeters && d < bestDist {
			best, bestDist = i, d
		}
	}

	if best < 0 {
		return nil
	}
	return &domain.Match{ZoneIndex: best, DistanceMeters: bestDist}
}
