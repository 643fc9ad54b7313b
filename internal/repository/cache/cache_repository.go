package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/parking-zone-service/internal/domain"
	"github.com/parking-zone-service/internal/domain/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func (r *cacheRepository) get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

// schedulesKey - ключ снимка последнего анализа расписаний
const schedulesKey = "schedules:current"

// GetSchedules получает снимок расписаний из кеша
func (r *cacheRepository) GetSchedules(ctx context.Context) (*domain.ScheduleSnapshot, error) {
	data, err := r.get(ctx, schedulesKey)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil // Cache miss
	}

	var snapshot domain.ScheduleSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		r.logger.Error("Failed to unmarshal schedules from cache", zap.Error(err))
		return nil, fmt.Errorf("unmarshal schedules: %w", err)
	}

	return &snapshot, nil
}

// SetSchedules сохраняет снимок расписаний в кеше
func (r *cacheRepository) SetSchedules(ctx context.Context, snapshot *domain.ScheduleSnapshot, ttl time.Duration) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		r.logger.Error("Failed to marshal schedules", zap.Error(err))
		return fmt.Errorf("marshal schedules: %w", err)
	}

	return r.set(ctx, schedulesKey, data, ttl)
}
