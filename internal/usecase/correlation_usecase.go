package usecase

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/parking-zone-service/internal/domain"
	"github.com/parking-zone-service/internal/observability"
	"github.com/parking-zone-service/internal/pkg/errors"
	"github.com/parking-zone-service/internal/spatial"
	"github.com/parking-zone-service/internal/usecase/dto"
)

// correlationChunk - сколько адресов обрабатывает одна горутина за раз
const correlationChunk = 256

var (
	_ JobCorrelator   = (*CorrelationUseCase)(nil)
	_ BatchCorrelator = (*CorrelationUseCase)(nil)
)

// CorrelationUseCase - привязка адресов к зонам ограничений
type CorrelationUseCase struct {
	defaultAlgorithm spatial.Algorithm
	parallelism      int
	metrics          *observability.Metrics
	logger           *zap.Logger
}

// NewCorrelationUseCase создает новый CorrelationUseCase
func NewCorrelationUseCase(
	defaultAlgorithm spatial.Algorithm,
	parallelism int,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *CorrelationUseCase {
	if parallelism < 1 {
		parallelism = 1
	}
	return &CorrelationUseCase{
		defaultAlgorithm: defaultAlgorithm,
		parallelism:      parallelism,
		metrics:          metrics,
		logger:           logger,
	}
}

// Correlate строит индекс выбранного алгоритма один раз и привязывает каждый адрес.
// Результат в порядке входных адресов; некорректный адрес получает пустой результат.
// Входные коллекции не изменяются.
func (uc *CorrelationUseCase) Correlate(
	ctx context.Context,
	addresses []domain.Address,
	zones []domain.Zone,
	algo spatial.Algorithm,
) ([]domain.AddressCorrelation, error) {
	start := time.Now()

	correlator, err := spatial.New(algo, zones)
	if err != nil {
		return nil, err
	}
	uc.metrics.IndexBuildDuration.WithLabelValues(string(algo)).Observe(time.Since(start).Seconds())

	results := make([]domain.AddressCorrelation, len(addresses))
	var matched, skipped atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.parallelism)

	for lo := 0; lo < len(addresses); lo += correlationChunk {
		lo, hi := lo, min(lo+correlationChunk, len(addresses))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				results[i].AddressIndex = i

				if _, _, err := addresses[i].Coordinates.Geographic(); err != nil {
					skipped.Add(1)
					continue
				}
				if m := correlator.Correlate(addresses[i], zones); m != nil {
					results[i].Match = m
					matched.Add(1)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("correlation cancelled: %w", err)
	}

	unmatched := int64(len(addresses)) - matched.Load() - skipped.Load()
	uc.metrics.Correlations.WithLabelValues(string(algo), "matched").Add(float64(matched.Load()))
	uc.metrics.Correlations.WithLabelValues(string(algo), "unmatched").Add(float64(unmatched))
	uc.metrics.Correlations.WithLabelValues(string(algo), "skipped").Add(float64(skipped.Load()))
	uc.metrics.CorrelationDuration.WithLabelValues(string(algo)).Observe(time.Since(start).Seconds())

	uc.logger.Info("Correlation completed",
		zap.String("algorithm", correlator.Name()),
		zap.Int("addresses", len(addresses)),
		zap.Int("zones", len(zones)),
		zap.Int64("matched", matched.Load()),
		zap.Int64("skipped", skipped.Load()),
		zap.Duration("elapsed", time.Since(start)))

	return results, nil
}

// CorrelateBatch - HTTP вариант Correlate с алгоритмом по умолчанию
func (uc *CorrelationUseCase) CorrelateBatch(ctx context.Context, req dto.CorrelateRequest) (*dto.CorrelateResponse, error) {
	algo, err := uc.resolveAlgorithm(req.Algorithm)
	if err != nil {
		return nil, err
	}

	zones, err := zonesWithRings(req.Zones, req.ZoneRings)
	if err != nil {
		return nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{"zone_rings": err.Error()})
	}

	start := time.Now()
	results, err := uc.Correlate(ctx, req.Addresses, zones, algo)
	if err != nil {
		uc.logger.Warn("Correlation failed", zap.Error(err))
		return nil, errors.ErrInternalServer
	}

	return &dto.CorrelateResponse{
		Algorithm: string(algo),
		Results:   results,
		Matched:   countMatched(results),
		TimeMSec:  float64(time.Since(start).Microseconds()) / 1000,
	}, nil
}

// CorrelateJob обрабатывает задачу из стрима
func (uc *CorrelationUseCase) CorrelateJob(ctx context.Context, job *domain.CorrelationJob) (*domain.CorrelationJobDone, error) {
	algo, err := uc.resolveAlgorithm(job.Algorithm)
	if err != nil {
		return nil, err
	}

	results, err := uc.Correlate(ctx, job.Addresses, job.Zones, algo)
	if err != nil {
		return nil, err
	}

	return &domain.CorrelationJobDone{
		JobID:     job.JobID,
		Algorithm: string(algo),
		Results:   results,
		Matched:   countMatched(results),
	}, nil
}

// Benchmark прогоняет все алгоритмы на одних данных
func (uc *CorrelationUseCase) Benchmark(ctx context.Context, req dto.BenchmarkRequest) (*dto.BenchmarkResponse, error) {
	resp := &dto.BenchmarkResponse{
		Addresses: len(req.Addresses),
		Zones:     len(req.Zones),
		Results:   make([]dto.BenchmarkResult, 0, len(spatial.Algorithms())),
	}

	for _, algo := range spatial.Algorithms() {
		start := time.Now()
		results, err := uc.Correlate(ctx, req.Addresses, req.Zones, algo)
		if err != nil {
			return nil, fmt.Errorf("benchmark %s: %w", algo, err)
		}
		elapsed := time.Since(start)

		resp.Results = append(resp.Results, dto.BenchmarkResult{
			Algorithm: string(algo),
			Name:      algo.DisplayName(),
			Matched:   countMatched(results),
			TimeMSec:  float64(elapsed.Microseconds()) / 1000,
		})
	}

	return resp, nil
}

func (uc *CorrelationUseCase) resolveAlgorithm(name string) (spatial.Algorithm, error) {
	if name == "" {
		return uc.defaultAlgorithm, nil
	}
	algo, err := spatial.ParseAlgorithm(name)
	if stderrors.Is(err, spatial.ErrUnknownAlgorithm) {
		return "", errors.ErrUnknownAlgorithm.WithDetails(map[string]interface{}{"algorithm": name})
	}
	return algo, err
}

// zonesWithRings добавляет зоны из контуров после готовых зон, не трогая исходный срез
func zonesWithRings(zones []domain.Zone, rings []dto.ZoneRing) ([]domain.Zone, error) {
	if len(rings) == 0 {
		return zones, nil
	}

	out := make([]domain.Zone, 0, len(zones)+len(rings))
	out = append(out, zones...)
	for i, r := range rings {
		z, err := domain.ZoneFromRing(r.Ring, r.Info, r.Day, r.TimeWindow)
		if err != nil {
			return nil, fmt.Errorf("ring %d: %w", i, err)
		}
		out = append(out, z)
	}
	return out, nil
}

func countMatched(results []domain.AddressCorrelation) int {
	n := 0
	for _, r := range results {
		if r.Match != nil {
			n++
		}
	}
	return n
}
