package spatial_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parking-zone-service/internal/domain"
	"github.com/parking-zone-service/internal/spatial"
)

// Адрес у середины длинной зоны: концы дальше порога, сам отрезок - нет.
// На самой границе порога R-дерево считает в метрах кадра от northing порядка
// 6.2e6 м, поэтому его разрешение около 1e-9 м: адрес в нанометрах от 50 м
// может оказаться по любую сторону, тогда как остальные варианты сравнивают haversine.
func TestBoundingVolumeTree_MatchesSegmentInterior(t *testing.T) {
	m := planarPerMeterNorth
	addr := addressAt(baseX, baseY)
	zones := []domain.Zone{
		zoneBetween(baseX-400, baseY+10*m, baseX+400, baseY+10*m),
	}

	assert.Nil(t, spatial.NewBruteForce().Correlate(addr, zones))

	got := spatial.NewBoundingVolumeTree(zones).Correlate(addr, zones)
	require.NotNil(t, got)
	assert.Equal(t, 0, got.ZoneIndex)
	assert.InDelta(t, 10.0, got.DistanceMeters, 1e-3)
}

func TestBoundingVolumeTree_ManyLevels(t *testing.T) {
	// больше nodeCapacity^2 записей, чтобы дерево имело несколько уровней
	zones, addresses := randomDataset(21, 1000, 300)
	tree := spatial.NewBoundingVolumeTree(zones)
	oracle := spatial.NewBruteForce()

	for i, addr := range addresses {
		if oracle.Correlate(addr, zones) == nil {
			continue
		}
		got := tree.Correlate(addr, zones)
		require.NotNil(t, got, "address %d", i)
		assert.LessOrEqual(t, got.DistanceMeters, domain.MaxDistanceMeters)
	}
}

func TestKDTree_SingleZone(t *testing.T) {
	m := planarPerMeterNorth
	addr := addressAt(baseX, baseY)
	zones := []domain.Zone{zoneBetween(baseX+1000, baseY, baseX, baseY+25*m)}

	got := spatial.NewKDTree(zones).Correlate(addr, zones)
	require.NotNil(t, got)
	assert.Equal(t, 0, got.ZoneIndex)
	// ближним оказывается второй конец зоны
	assert.InDelta(t, 25.0, got.DistanceMeters, 1e-6)
}

func TestOverlappingGrid_EastWestNeighbour(t *testing.T) {
	addr := addressAt(baseX, baseY)
	// ~45 м на восток: плоская единица X на этой широте около 0.565 м
	zones := []domain.Zone{zoneBetween(baseX+80, baseY, baseX+80, baseY)}

	want := spatial.NewBruteForce().Correlate(addr, zones)
	require.NotNil(t, want)

	got := spatial.NewOverlappingGrid(zones).Correlate(addr, zones)
	require.NotNil(t, got)
	assert.InDelta(t, want.DistanceMeters, got.DistanceMeters, 1e-9)
}
