package dto

import "github.com/parking-zone-service/internal/domain"

// CorrelateRequest - запрос на привязку адресов к зонам.
// Зоны можно передать готовыми отрезками или контурами полигонов (ZoneRings);
// контуры добавляются после Zones, индексы продолжают нумерацию.
type CorrelateRequest struct {
	Algorithm string           `json:"algorithm,omitempty" validate:"omitempty,oneof=distance kdtree rtree grid raycast"`
	Addresses []domain.Address `json:"addresses" validate:"required,min=1,max=100000"`
	Zones     []domain.Zone    `json:"zones,omitempty" validate:"required_without=ZoneRings,max=100000"`
	ZoneRings []ZoneRing       `json:"zone_rings,omitempty" validate:"omitempty,max=100000,dive"`
}

// ZoneRing - зона в виде контура полигона, как её отдаёт источник данных
type ZoneRing struct {
	Ring       []domain.PlanarPoint `json:"ring" validate:"required,min=1"`
	Info       string               `json:"info"`
	Day        string               `json:"day,omitempty"`
	TimeWindow string               `json:"time_window,omitempty"`
}

// BenchmarkRequest - запрос на сравнение алгоритмов на одних данных
type BenchmarkRequest struct {
	Addresses []domain.Address `json:"addresses" validate:"required,min=1,max=10000"`
	Zones     []domain.Zone    `json:"zones" validate:"required,min=1,max=10000"`
}

// AnalyzeSchedulesRequest - запрос на анализ истории уборок
type AnalyzeSchedulesRequest struct {
	Events []domain.CleaningEvent `json:"events" validate:"required,min=1,dive"`
	// MinConfidence переопределяет порог из конфигурации
	MinConfidence *float64 `json:"min_confidence,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// ScheduleListRequest - фильтр списка расписаний
type ScheduleListRequest struct {
	Addresses []string `json:"addresses,omitempty"`
	Format    string   `json:"format" validate:"omitempty,oneof=minimal full"`
}

// CheckAddressRequest - запрос на проверку адреса
type CheckAddressRequest struct {
	Address string `json:"address" validate:"required,min=2"`
}
