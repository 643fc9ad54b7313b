package usecase_test

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/parking-zone-service/internal/domain"
	"github.com/parking-zone-service/internal/observability"
	"github.com/parking-zone-service/internal/pkg/errors"
	"github.com/parking-zone-service/internal/spatial"
	"github.com/parking-zone-service/internal/usecase"
	"github.com/parking-zone-service/internal/usecase/dto"
)

// lon 13.0, lat 55.6 после проекции
const (
	baseX = 277360.0
	baseY = 11132.0
)

func fixture() ([]domain.Address, []domain.Zone) {
	addresses := []domain.Address{
		{FullAddress: "Nygatan 5", Coordinates: domain.NewPlanarPoint(baseX, baseY)},
		{FullAddress: "Far away 1", Coordinates: domain.NewPlanarPoint(baseX, baseY+5000)},
		{FullAddress: "Broken", Coordinates: domain.NewPlanarPoint(1e12, 1e12)},
		{FullAddress: "Södergatan 2", Coordinates: domain.NewPlanarPoint(baseX+400, baseY)},
	}
	zones := []domain.Zone{
		{Start: domain.NewPlanarPoint(baseX+400, baseY+20), End: domain.NewPlanarPoint(baseX+440, baseY+20), Info: "Tisdag 8-9"},
		{Start: domain.NewPlanarPoint(baseX, baseY+10), End: domain.NewPlanarPoint(baseX+30, baseY+10), Info: "Måndag 0-6"},
	}
	return addresses, zones
}

func newCorrelationUseCase(t *testing.T) (*usecase.CorrelationUseCase, *observability.Metrics) {
	t.Helper()
	m := observability.NewMetricsForTesting()
	return usecase.NewCorrelationUseCase(spatial.AlgorithmKDTree, 2, m, zap.NewNop()), m
}

func TestCorrelationUseCase_Correlate(t *testing.T) {
	uc, m := newCorrelationUseCase(t)
	addresses, zones := fixture()

	for _, algo := range []spatial.Algorithm{
		spatial.AlgorithmDistance,
		spatial.AlgorithmKDTree,
		spatial.AlgorithmRTree,
		spatial.AlgorithmGrid,
	} {
		t.Run(string(algo), func(t *testing.T) {
			results, err := uc.Correlate(context.Background(), addresses, zones, algo)
			require.NoError(t, err)
			require.Len(t, results, len(addresses))

			for i, r := range results {
				assert.Equal(t, i, r.AddressIndex)
			}

			require.NotNil(t, results[0].Match)
			assert.Equal(t, 1, results[0].Match.ZoneIndex)
			assert.Nil(t, results[1].Match)
			assert.Nil(t, results[2].Match, "malformed address is skipped")
			require.NotNil(t, results[3].Match)
			assert.Equal(t, 0, results[3].Match.ZoneIndex)
		})
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Correlations.WithLabelValues("kdtree", "matched")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Correlations.WithLabelValues("kdtree", "skipped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Correlations.WithLabelValues("kdtree", "unmatched")))
}

func TestCorrelationUseCase_CorrelateLargeBatchKeepsOrder(t *testing.T) {
	uc, _ := newCorrelationUseCase(t)
	_, zones := fixture()

	// больше одного чанка, чтобы задействовать несколько горутин
	addresses := make([]domain.Address, 1000)
	for i := range addresses {
		y := baseY
		if i%2 == 1 {
			y += 5000
		}
		addresses[i] = domain.Address{Coordinates: domain.NewPlanarPoint(baseX, y)}
	}

	results, err := uc.Correlate(context.Background(), addresses, zones, spatial.AlgorithmGrid)
	require.NoError(t, err)
	require.Len(t, results, len(addresses))

	for i, r := range results {
		assert.Equal(t, i, r.AddressIndex)
		if i%2 == 0 {
			assert.NotNil(t, r.Match, "address %d", i)
		} else {
			assert.Nil(t, r.Match, "address %d", i)
		}
	}
}

func TestCorrelationUseCase_CorrelateCancelled(t *testing.T) {
	uc, _ := newCorrelationUseCase(t)
	addresses, zones := fixture()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := uc.Correlate(ctx, addresses, zones, spatial.AlgorithmDistance)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCorrelationUseCase_CorrelateDoesNotMutateInput(t *testing.T) {
	uc, _ := newCorrelationUseCase(t)
	addresses, zones := fixture()

	zonesCopy := make([]domain.Zone, len(zones))
	copy(zonesCopy, zones)

	_, err := uc.Correlate(context.Background(), addresses, zones, spatial.AlgorithmRTree)
	require.NoError(t, err)
	assert.Equal(t, zonesCopy, zones)
}

func TestCorrelationUseCase_CorrelateBatch(t *testing.T) {
	uc, _ := newCorrelationUseCase(t)
	addresses, zones := fixture()
	ctx := context.Background()

	t.Run("default algorithm", func(t *testing.T) {
		resp, err := uc.CorrelateBatch(ctx, dto.CorrelateRequest{Addresses: addresses, Zones: zones})
		require.NoError(t, err)
		assert.Equal(t, "kdtree", resp.Algorithm)
		assert.Equal(t, 2, resp.Matched)
		assert.Len(t, resp.Results, len(addresses))
	})

	t.Run("explicit algorithm", func(t *testing.T) {
		resp, err := uc.CorrelateBatch(ctx, dto.CorrelateRequest{Algorithm: "raycast", Addresses: addresses, Zones: zones})
		require.NoError(t, err)
		assert.Equal(t, "raycast", resp.Algorithm)
	})

	t.Run("zone rings appended after zones", func(t *testing.T) {
		rings := []dto.ZoneRing{{
			Ring: []domain.PlanarPoint{
				domain.NewPlanarPoint(baseX, baseY+5005),
				domain.NewPlanarPoint(baseX+10, baseY+5030),
				domain.NewPlanarPoint(baseX+40, baseY+5005),
			},
			Info: "Onsdag 10-12",
		}}
		resp, err := uc.CorrelateBatch(ctx, dto.CorrelateRequest{Addresses: addresses, Zones: zones, ZoneRings: rings})
		require.NoError(t, err)
		assert.Equal(t, 3, resp.Matched)
		require.NotNil(t, resp.Results[1].Match)
		assert.Equal(t, len(zones), resp.Results[1].Match.ZoneIndex)
	})

	t.Run("empty ring", func(t *testing.T) {
		_, err := uc.CorrelateBatch(ctx, dto.CorrelateRequest{
			Addresses: addresses,
			ZoneRings: []dto.ZoneRing{{Info: "broken"}},
		})
		assert.ErrorIs(t, err, errors.ErrInvalidRequest)
	})

	t.Run("unknown algorithm", func(t *testing.T) {
		_, err := uc.CorrelateBatch(ctx, dto.CorrelateRequest{Algorithm: "quadtree", Addresses: addresses, Zones: zones})
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrUnknownAlgorithm)
	})
}

func TestCorrelationUseCase_CorrelateJob(t *testing.T) {
	uc, _ := newCorrelationUseCase(t)
	addresses, zones := fixture()

	job := &domain.CorrelationJob{Algorithm: "distance", Addresses: addresses, Zones: zones}
	done, err := uc.CorrelateJob(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, job.JobID, done.JobID)
	assert.Equal(t, "distance", done.Algorithm)
	assert.Equal(t, 2, done.Matched)
	assert.Empty(t, done.Error)
}

func TestCorrelationUseCase_Benchmark(t *testing.T) {
	uc, m := newCorrelationUseCase(t)
	addresses, zones := fixture()

	resp, err := uc.Benchmark(context.Background(), dto.BenchmarkRequest{Addresses: addresses, Zones: zones})
	require.NoError(t, err)
	assert.Equal(t, len(addresses), resp.Addresses)
	assert.Equal(t, len(zones), resp.Zones)
	require.Len(t, resp.Results, len(spatial.Algorithms()))

	for i, algo := range spatial.Algorithms() {
		assert.Equal(t, string(algo), resp.Results[i].Algorithm)
		assert.Equal(t, algo.DisplayName(), resp.Results[i].Name)
		assert.GreaterOrEqual(t, resp.Results[i].TimeMSec, 0.0)
	}

	// один индекс на алгоритм
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	for _, algo := range spatial.Algorithms() {
		assert.Contains(t, rec.Body.String(),
			fmt.Sprintf(`zone_service_index_build_duration_seconds_count{algorithm="%s"} 1`+"\n", algo))
	}
	assert.Equal(t, 2, resp.Results[0].Matched, "brute force")
}
