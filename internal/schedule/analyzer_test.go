package schedule_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/parking-zone-service/internal/domain"
	"github.com/parking-zone-service/internal/schedule"
)

var nygatan = domain.GpsCoordinate{
	Latitude:  decimal.RequireFromString("55.6050"),
	Longitude: decimal.RequireFromString("13.0038"),
}

func weeklyEvents(address string, start time.Time, n int) []domain.CleaningEvent {
	events := make([]domain.CleaningEvent, n)
	for i := range events {
		events[i] = domain.CleaningEvent{
			Address:    address,
			Coordinate: nygatan,
			Timestamp:  start.Add(time.Duration(i) * 7 * 24 * time.Hour),
			Active:     true,
		}
	}
	return events
}

func TestAnalyzer_WeeklyPattern(t *testing.T) {
	// вторник, 08:00 UTC
	start := time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)
	events := weeklyEvents("Nygatan 5", start, 5)

	analyzer := schedule.NewAnalyzer(0.75, zap.NewNop())
	schedules := analyzer.Analyze(events)

	require.Contains(t, schedules, "Nygatan 5")
	s := schedules["Nygatan 5"]

	assert.InDelta(t, 168.0, s.FrequencyHours, 1.0)
	assert.Greater(t, s.Confidence, 0.95)
	assert.Equal(t, 5, s.SampleSize)
	assert.Equal(t, "Tuesday", s.DayOfWeek)
	assert.Equal(t, "08:00-09:00", s.TimeOfDay)
	assert.Equal(t, start.Add(4*7*24*time.Hour), s.LastCleaning)
	assert.Equal(t, start.Add(5*7*24*time.Hour), s.NextCleaning)
	assert.True(t, s.Coordinate.Latitude.Equal(nygatan.Latitude))
}

func TestAnalyzer_InsufficientSample(t *testing.T) {
	start := time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)
	events := append(
		weeklyEvents("Ensam 1", start, 1),
		domain.CleaningEvent{Address: "Ensam 1", Timestamp: start.Add(time.Hour), Active: false},
	)

	analyzer := schedule.NewAnalyzer(0, zap.NewNop())
	report := analyzer.Report(events)

	assert.Empty(t, report.Schedules)
	assert.Equal(t, 1, report.Insufficient)
}

func TestAnalyzer_UnsortedInputAndInactiveEvents(t *testing.T) {
	start := time.Date(2024, 3, 4, 6, 0, 0, 0, time.UTC)
	events := weeklyEvents("Södra Förstadsgatan 10", start, 4)
	// обратный порядок и неактивные события между уборками
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	events = append(events,
		domain.CleaningEvent{Address: "Södra Förstadsgatan 10", Timestamp: start.Add(30 * time.Hour)},
		domain.CleaningEvent{Address: "Södra Förstadsgatan 10", Timestamp: start.Add(200 * time.Hour)},
	)

	schedules := schedule.NewAnalyzer(0.75, zap.NewNop()).Analyze(events)

	require.Contains(t, schedules, "Södra Förstadsgatan 10")
	s := schedules["Södra Förstadsgatan 10"]
	assert.Equal(t, 168.0, s.FrequencyHours)
	assert.Equal(t, 4, s.SampleSize)
	assert.Equal(t, "Monday", s.DayOfWeek)
}

func TestAnalyzer_LowConfidenceDropped(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	offsets := []time.Duration{0, 10, 200, 230, 600}
	events := make([]domain.CleaningEvent, len(offsets))
	for i, h := range offsets {
		events[i] = domain.CleaningEvent{Address: "Rörig 3", Timestamp: start.Add(h * time.Hour), Active: true}
	}

	report := schedule.NewAnalyzer(0.75, zap.NewNop()).Report(events)
	assert.Empty(t, report.Schedules)
	assert.Equal(t, 1, report.LowConfidence)

	// без порога то же расписание попадает в результат
	all := schedule.NewAnalyzer(0, zap.NewNop()).Analyze(events)
	require.Contains(t, all, "Rörig 3")
	assert.Less(t, all["Rörig 3"].Confidence, 0.75)
}

func TestAnalyzer_MultipleAddresses(t *testing.T) {
	start := time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)
	events := append(weeklyEvents("A 1", start, 3), weeklyEvents("B 2", start.Add(24*time.Hour), 3)...)

	schedules := schedule.NewAnalyzer(0.75, zap.NewNop()).Analyze(events)
	assert.Len(t, schedules, 2)
	assert.Equal(t, "Wednesday", schedules["B 2"].DayOfWeek)
}

func TestDominantInterval(t *testing.T) {
	t.Run("identical intervals", func(t *testing.T) {
		v, err := schedule.DominantInterval([]float64{168, 168, 168})
		require.NoError(t, err)
		assert.Equal(t, 168.0, v)
	})

	t.Run("mode bin center", func(t *testing.T) {
		// ширина корзины 10, три значения в первой корзине
		v, err := schedule.DominantInterval([]float64{100, 101, 102, 300})
		require.NoError(t, err)
		assert.InDelta(t, 105.0, v, 1e-9)
	})

	t.Run("max value lands in last bin", func(t *testing.T) {
		v, err := schedule.DominantInterval([]float64{0, 200, 200})
		require.NoError(t, err)
		assert.InDelta(t, 195.0, v, 1e-9)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := schedule.DominantInterval(nil)
		assert.ErrorIs(t, err, schedule.ErrNoIntervals)
	})

	t.Run("deterministic", func(t *testing.T) {
		in := []float64{150, 168, 170, 168, 190, 240}
		a, _ := schedule.DominantInterval(in)
		b, _ := schedule.DominantInterval(in)
		assert.Equal(t, a, b)
	})
}

func TestConfidence(t *testing.T) {
	perfect := schedule.Confidence([]float64{168, 168, 168}, 168)
	noisy := schedule.Confidence([]float64{168, 100, 200}, 168)

	assert.Greater(t, perfect, 0.95)
	assert.Less(t, noisy, perfect)
	assert.GreaterOrEqual(t, noisy, 0.0)

	assert.Equal(t, 0.0, schedule.Confidence([]float64{168}, 168))
	assert.Equal(t, 0.0, schedule.Confidence([]float64{1, 1000, 5000}, 1))
	assert.Equal(t, 0.0, schedule.Confidence([]float64{0, 0}, 0))
}
