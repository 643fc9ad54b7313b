package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/parking-zone-service/internal/domain"
	"github.com/parking-zone-service/internal/domain/repository"
	"github.com/parking-zone-service/internal/observability"
	"github.com/parking-zone-service/internal/pkg/errors"
	"github.com/parking-zone-service/internal/schedule"
	"github.com/parking-zone-service/internal/usecase/dto"
)

const (
	FormatMinimal = "minimal"
	FormatFull    = "full"
)

// ScheduleUseCase - анализ истории уборок и выдача расписаний
type ScheduleUseCase struct {
	cacheRepo     repository.CacheRepository
	clock         clockwork.Clock
	metrics       *observability.Metrics
	logger        *zap.Logger
	minConfidence float64
	cacheTTL      time.Duration
	version       string
}

// NewScheduleUseCase создает новый ScheduleUseCase
func NewScheduleUseCase(
	cacheRepo repository.CacheRepository,
	clock clockwork.Clock,
	metrics *observability.Metrics,
	logger *zap.Logger,
	minConfidence float64,
	cacheTTL time.Duration,
	version string,
) *ScheduleUseCase {
	return &ScheduleUseCase{
		cacheRepo:     cacheRepo,
		clock:         clock,
		metrics:       metrics,
		logger:        logger,
		minConfidence: minConfidence,
		cacheTTL:      cacheTTL,
		version:       version,
	}
}

// Analyze выводит расписания без сохранения
func (uc *ScheduleUseCase) Analyze(ctx context.Context, events []domain.CleaningEvent, minConfidence float64) (schedule.Report, error) {
	if err := ctx.Err(); err != nil {
		return schedule.Report{}, err
	}
	return schedule.NewAnalyzer(minConfidence, uc.logger).Report(events), nil
}

// AnalyzeAndStore анализирует события и заменяет снимок расписаний в кеше
func (uc *ScheduleUseCase) AnalyzeAndStore(ctx context.Context, req dto.AnalyzeSchedulesRequest) (*dto.AnalyzeSchedulesResponse, error) {
	minConfidence := uc.minConfidence
	if req.MinConfidence != nil {
		minConfidence = *req.MinConfidence
	}

	// событие с координатой вне диапазона отбрасывается, остальные анализируются
	valid := make([]domain.CleaningEvent, 0, len(req.Events))
	outside := 0
	for i, e := range req.Events {
		if _, err := domain.NewGpsCoordinate(e.Coordinate.Latitude, e.Coordinate.Longitude); err != nil {
			uc.logger.Debug("Skipping event with invalid coordinate",
				zap.Int("event", i),
				zap.String("address", e.Address),
				zap.Error(err))
			continue
		}
		if !e.Coordinate.InMalmo() {
			outside++
		}
		valid = append(valid, e)
	}
	invalid := len(req.Events) - len(valid)
	if invalid > 0 {
		uc.logger.Warn("Events with invalid coordinates skipped", zap.Int("count", invalid))
	}
	if outside > 0 {
		uc.logger.Warn("Events outside Malmö bounds", zap.Int("count", outside))
	}

	report, err := uc.Analyze(ctx, valid, minConfidence)
	if err != nil {
		return nil, err
	}

	uc.metrics.SchedulesEmitted.Add(float64(len(report.Schedules)))
	uc.metrics.SchedulesDropped.WithLabelValues("insufficient").Add(float64(report.Insufficient))
	uc.metrics.SchedulesDropped.WithLabelValues("low_confidence").Add(float64(report.LowConfidence))
	uc.metrics.SchedulesDropped.WithLabelValues("invalid").Add(float64(invalid))

	snapshot := &domain.ScheduleSnapshot{
		Schedules:  report.Schedules,
		AnalyzedAt: uc.clock.Now().UTC(),
		EventCount: len(valid),
	}

	if err := uc.cacheRepo.SetSchedules(ctx, snapshot, uc.cacheTTL); err != nil {
		uc.logger.Error("Failed to store schedules", zap.Error(err))
		return nil, errors.ErrCacheError
	}

	uc.logger.Info("Schedule snapshot stored",
		zap.Int("events", len(valid)),
		zap.Int("invalid", invalid),
		zap.Int("schedules", len(report.Schedules)),
		zap.Int("insufficient", report.Insufficient),
		zap.Int("low_confidence", report.LowConfidence))

	return &dto.AnalyzeSchedulesResponse{
		Schedules:     report.Schedules,
		Events:        len(req.Events),
		Insufficient:  report.Insufficient,
		LowConfidence: report.LowConfidence,
		Invalid:       invalid,
		AnalyzedAt:    snapshot.AnalyzedAt,
	}, nil
}

// ListSchedules возвращает расписания, отсортированные по адресу, с SHA-256 выдачи
func (uc *ScheduleUseCase) ListSchedules(ctx context.Context, req dto.ScheduleListRequest) (*dto.ScheduleListResponse, error) {
	snapshot, err := uc.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	var filter map[string]struct{}
	if len(req.Addresses) > 0 {
		filter = make(map[string]struct{}, len(req.Addresses))
		for _, a := range req.Addresses {
			filter[a] = struct{}{}
		}
	}

	selected := make([]domain.CleaningSchedule, 0, len(snapshot.Schedules))
	for address, s := range snapshot.Schedules {
		if filter != nil {
			if _, ok := filter[address]; !ok {
				continue
			}
		}
		selected = append(selected, s)
	}
	sort.Slice(selected, func(i, j int) bool { return selected[i].Address < selected[j].Address })

	var payload interface{} = selected
	if req.Format == FormatMinimal {
		minimal := make([]dto.MinimalSchedule, len(selected))
		for i, s := range selected {
			minimal[i] = dto.MinimalSchedule{
				Address:        s.Address,
				NextCleaning:   s.NextCleaning,
				FrequencyHours: s.FrequencyHours,
			}
		}
		payload = minimal
	}

	checksum, err := Checksum(payload)
	if err != nil {
		return nil, errors.ErrInternalServer
	}

	return &dto.ScheduleListResponse{
		Schedules:  payload,
		Count:      len(selected),
		Checksum:   checksum,
		AnalyzedAt: snapshot.AnalyzedAt,
	}, nil
}

// CheckAddress сообщает, когда по адресу следующая уборка.
// Адрес можно передать и координатой "lat,lon".
func (uc *ScheduleUseCase) CheckAddress(ctx context.Context, req dto.CheckAddressRequest) (*dto.AddressCheckResponse, error) {
	snapshot, err := uc.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	s, ok := findSchedule(snapshot.Schedules, req.Address)
	if !ok {
		return nil, errors.ErrScheduleNotFound.WithDetails(map[string]interface{}{"address": req.Address})
	}

	hoursUntil := int64(s.NextCleaning.Sub(uc.clock.Now()).Hours())
	next := s.NextCleaning
	confidence := s.Confidence

	return &dto.AddressCheckResponse{
		Found:        true,
		Address:      s.Address,
		NextCleaning: &next,
		HoursUntil:   &hoursUntil,
		AlertLevel:   domain.AlertLevelFromHours(hoursUntil),
		Frequency:    fmt.Sprintf("Every %.1f hours", s.FrequencyHours),
		Confidence:   &confidence,
	}, nil
}

// Health - состояние сервиса и время последнего анализа
func (uc *ScheduleUseCase) Health(ctx context.Context) *dto.HealthResponse {
	resp := &dto.HealthResponse{
		Status:    "healthy",
		Timestamp: uc.clock.Now().UTC(),
		Version:   uc.version,
	}

	snapshot, err := uc.cacheRepo.GetSchedules(ctx)
	if err != nil {
		uc.logger.Warn("Health: failed to read schedules", zap.Error(err))
		resp.Status = "degraded"
		return resp
	}
	if snapshot != nil {
		analyzed := snapshot.AnalyzedAt
		resp.LastUpdate = &analyzed
		resp.DataPoints = len(snapshot.Schedules)
	}
	return resp
}

// findSchedule: точное совпадение, затем без учёта регистра, затем ближайшее
// расписание не дальше MaxDistanceMeters, если запрос - координата
func findSchedule(schedules map[string]domain.CleaningSchedule, query string) (domain.CleaningSchedule, bool) {
	if s, ok := schedules[query]; ok {
		return s, true
	}

	addresses := make([]string, 0, len(schedules))
	for address := range schedules {
		addresses = append(addresses, address)
	}
	sort.Strings(addresses)

	for _, address := range addresses {
		if strings.EqualFold(address, query) {
			return schedules[address], true
		}
	}

	point, err := domain.ParseGpsCoordinate(query)
	if err != nil {
		return domain.CleaningSchedule{}, false
	}

	var (
		best     domain.CleaningSchedule
		bestDist = domain.MaxDistanceMeters
		found    bool
	)
	for _, address := range addresses {
		s := schedules[address]
		if d := point.DistanceTo(s.Coordinate); d <= bestDist && (!found || d < bestDist) {
			best, bestDist, found = s, d, true
		}
	}
	return best, found
}

func (uc *ScheduleUseCase) snapshot(ctx context.Context) (*domain.ScheduleSnapshot, error) {
	snapshot, err := uc.cacheRepo.GetSchedules(ctx)
	if err != nil {
		uc.logger.Error("Failed to read schedules", zap.Error(err))
		return nil, errors.ErrCacheError
	}
	if snapshot == nil {
		return nil, errors.ErrNoScheduleData
	}
	return snapshot, nil
}

// Checksum - hex SHA-256 от JSON представления
func Checksum(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
