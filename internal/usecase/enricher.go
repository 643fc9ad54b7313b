package usecase

import (
	"context"

	"github.com/parking-zone-service/internal/domain"
	"github.com/parking-zone-service/internal/usecase/dto"
)

// JobCorrelator обрабатывает задачи из стрима correlation:request
type JobCorrelator interface {
	CorrelateJob(ctx context.Context, job *domain.CorrelationJob) (*domain.CorrelationJobDone, error)
}

// BatchCorrelator - привязка пачки адресов для HTTP слоя
type BatchCorrelator interface {
	CorrelateBatch(ctx context.Context, req dto.CorrelateRequest) (*dto.CorrelateResponse, error)
	Benchmark(ctx context.Context, req dto.BenchmarkRequest) (*dto.BenchmarkResponse, error)
}
