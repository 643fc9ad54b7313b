package dto

import (
	"time"

	"github.com/parking-zone-service/internal/domain"
)

// CorrelateResponse - результаты в порядке входных адресов
type CorrelateResponse struct {
	Algorithm string                      `json:"algorithm"`
	Results   []domain.AddressCorrelation `json:"results"`
	Matched   int                         `json:"matched"`
	TimeMSec  float64                     `json:"time_ms"`
}

// BenchmarkResponse - сравнение алгоритмов
type BenchmarkResponse struct {
	Addresses int               `json:"addresses"`
	Zones     int               `json:"zones"`
	Results   []BenchmarkResult `json:"results"`
}

// BenchmarkResult - результат одного алгоритма
type BenchmarkResult struct {
	Algorithm string  `json:"algorithm"`
	Name      string  `json:"name"`
	Matched   int     `json:"matched"`
	TimeMSec  float64 `json:"time_ms"`
}

// AnalyzeSchedulesResponse - итог анализа
type AnalyzeSchedulesResponse struct {
	Schedules     map[string]domain.CleaningSchedule `json:"schedules"`
	Events        int                                `json:"events"`
	Insufficient  int                                `json:"insufficient"`
	LowConfidence int                                `json:"low_confidence"`
	Invalid       int                                `json:"invalid"`
	AnalyzedAt    time.Time                          `json:"analyzed_at"`
}

// ScheduleListResponse - расписания и контрольная сумма выдачи
type ScheduleListResponse struct {
	Schedules  interface{} `json:"schedules"`
	Count      int         `json:"count"`
	Checksum   string      `json:"checksum"`
	AnalyzedAt time.Time   `json:"analyzed_at"`
}

// MinimalSchedule - сокращённый формат расписания
type MinimalSchedule struct {
	Address        string    `json:"address"`
	NextCleaning   time.Time `json:"next_cleaning"`
	FrequencyHours float64   `json:"frequency_hours"`
}

// AddressCheckResponse - ответ на проверку адреса
type AddressCheckResponse struct {
	Found        bool              `json:"found"`
	Address      string            `json:"address"`
	NextCleaning *time.Time        `json:"next_cleaning,omitempty"`
	HoursUntil   *int64            `json:"hours_until,omitempty"`
	AlertLevel   domain.AlertLevel `json:"alert_level,omitempty"`
	Frequency    string            `json:"frequency,omitempty"`
	Confidence   *float64          `json:"confidence,omitempty"`
}

// HealthResponse - состояние сервиса
type HealthResponse struct {
	Status     string     `json:"status"`
	Timestamp  time.Time  `json:"timestamp"`
	LastUpdate *time.Time `json:"last_update,omitempty"`
	DataPoints int        `json:"data_points"`
	Version    string     `json:"version"`
}
