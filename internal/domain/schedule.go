package domain

import "time"

// CleaningEvent - наблюдение уборки (или её отсутствия) по адресу
type CleaningEvent struct {
	Address    string        `json:"address"`
	Coordinate GpsCoordinate `json:"coordinate"`
	Timestamp  time.Time     `json:"timestamp"`
	Active     bool          `json:"is_active"`
}

// CleaningSchedule - выведенное расписание уборки для адреса.
// Создаётся заново при каждом анализе и не изменяется.
type CleaningSchedule struct {
	Address        string        `json:"address"`
	Coordinate     GpsCoordinate `json:"coordinate"`
	FrequencyHours float64       `json:"frequency_hours"`
	Confidence     float64       `json:"confidence"`
	DayOfWeek      string        `json:"day_of_week"`
	TimeOfDay      string        `json:"time_of_day"`
	LastCleaning   time.Time     `json:"last_cleaning"`
	NextCleaning   time.Time     `json:"next_cleaning"`
	SampleSize     int           `json:"sample_size"`
}

// AlertLevel - уровень оповещения по времени до следующей уборки
type AlertLevel string

const (
	AlertActive  AlertLevel = "active"
	AlertUrgent  AlertLevel = "urgent"
	AlertWarning AlertLevel = "warning"
	AlertInfo    AlertLevel = "info"
)

// AlertLevelFromHours: <=0 - уборка идёт, до 6 часов - срочно, до суток - предупреждение.
func AlertLevelFromHours(hoursUntil int64) AlertLevel {
	switch {
	case hoursUntil <= 0:
		return AlertActive
	case hoursUntil <= 6:
		return AlertUrgent
	case hoursUntil <= 24:
		return AlertWarning
	default:
		return AlertInfo
	}
}

// ScheduleSnapshot - результат последнего анализа, хранится в кеше целиком
type ScheduleSnapshot struct {
	Schedules  map[string]CleaningSchedule `json:"schedules"`
	AnalyzedAt time.Time                   `json:"analyzed_at"`
	EventCount int                         `json:"event_count"`
}
