package repository

import (
	"context"
	"time"

	"github.com/parking-zone-service/internal/domain"
)

// CacheRepository хранит последний снимок расписаний
type CacheRepository interface {
	// GetSchedules получает последний снимок расписаний; nil при промахе
	GetSchedules(ctx context.Context) (*domain.ScheduleSnapshot, error)

	// SetSchedules заменяет снимок расписаний целиком
	SetSchedules(ctx context.Context, snapshot *domain.ScheduleSnapshot, ttl time.Duration) error
}
