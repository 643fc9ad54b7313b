package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/parking-zone-service/internal/domain"
	"github.com/parking-zone-service/internal/repository/cache"
)

func getTestRedis(t *testing.T) *cache.Redis {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   1, // Use DB 1 for tests
	})

	r, err := cache.NewRedisFromClient(client, zap.NewNop())
	if err != nil {
		_ = client.Close()
		t.Skipf("Redis not available for integration tests: %v", err)
	}
	return r
}

func TestCacheRepository_SchedulesMiss(t *testing.T) {
	r := getTestRedis(t)
	defer r.Close()

	repo := cache.NewCacheRepository(r)
	ctx := context.Background()
	require.NoError(t, r.Client().Del(ctx, "schedules:current").Err())

	got, err := repo.GetSchedules(ctx)
	require.NoError(t, err)
	assert.Nil(t, got, "miss returns nil without error")
}

func TestCacheRepository_SchedulesTTL(t *testing.T) {
	r := getTestRedis(t)
	defer r.Close()

	repo := cache.NewCacheRepository(r)
	ctx := context.Background()
	defer r.Client().Del(ctx, "schedules:current")

	require.NoError(t, repo.SetSchedules(ctx, &domain.ScheduleSnapshot{EventCount: 1}, time.Minute))

	ttl, err := r.Client().TTL(ctx, "schedules:current").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}

func TestCacheRepository_Schedules(t *testing.T) {
	r := getTestRedis(t)
	defer r.Close()

	repo := cache.NewCacheRepository(r)
	ctx := context.Background()
	defer r.Client().Del(ctx, "schedules:current")

	last := time.Date(2024, 1, 30, 8, 0, 0, 0, time.UTC)
	snapshot := &domain.ScheduleSnapshot{
		Schedules: map[string]domain.CleaningSchedule{
			"Nygatan 5": {
				Address:        "Nygatan 5",
				FrequencyHours: 168,
				Confidence:     1,
				DayOfWeek:      "Tuesday",
				TimeOfDay:      "08:00-09:00",
				LastCleaning:   last,
				NextCleaning:   last.Add(168 * time.Hour),
				SampleSize:     5,
			},
		},
		AnalyzedAt: last,
		EventCount: 5,
	}

	require.NoError(t, repo.SetSchedules(ctx, snapshot, time.Minute))

	got, err := repo.GetSchedules(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 5, got.EventCount)
	assert.True(t, got.AnalyzedAt.Equal(last))
	require.Contains(t, got.Schedules, "Nygatan 5")
	assert.Equal(t, "Tuesday", got.Schedules["Nygatan 5"].DayOfWeek)
}
