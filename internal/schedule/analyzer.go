// Package schedule выводит периодическое расписание уборки по истории событий.
package schedule

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/montanaflynn/stats"
	"go.uber.org/zap"

	"github.com/parking-zone-service/internal/domain"
)

const (
	histogramBins = 20
	// minActiveEvents - меньше активных событий анализировать нельзя
	minActiveEvents = 2
)

// ErrNoIntervals - нет интервалов для анализа
var ErrNoIntervals = errors.New("no intervals to analyze")

var weekdays = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Report - результат анализа вместе со счётчиками отброшенных адресов
type Report struct {
	Schedules     map[string]domain.CleaningSchedule
	Insufficient  int
	LowConfidence int
}

// Analyzer - чистый анализатор, не хранит состояния между вызовами
type Analyzer struct {
	minConfidence float64
	logger        *zap.Logger
}

func NewAnalyzer(minConfidence float64, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		minConfidence: minConfidence,
		logger:        logger,
	}
}

// Analyze возвращает расписания адресов с уверенностью не ниже порога.
// Адреса с менее чем двумя активными событиями отсутствуют в результате.
func (a *Analyzer) Analyze(events []domain.CleaningEvent) map[string]domain.CleaningSchedule {
	return a.Report(events).Schedules
}

// Report - то же, что Analyze, плюс статистика отброшенных адресов
func (a *Analyzer) Report(events []domain.CleaningEvent) Report {
	byAddress := make(map[string][]domain.CleaningEvent)
	for _, e := range events {
		byAddress[e.Address] = append(byAddress[e.Address], e)
	}

	report := Report{Schedules: make(map[string]domain.CleaningSchedule)}
	for address, addressEvents := range byAddress {
		sorted := make([]domain.CleaningEvent, len(addressEvents))
		copy(sorted, addressEvents)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Timestamp.Before(sorted[j].Timestamp)
		})

		schedule, err := a.analyzeAddress(address, sorted)
		if err != nil {
			a.logger.Debug("Skipping address",
				zap.String("address", address),
				zap.Int("events", len(sorted)),
				zap.Error(err))
			report.Insufficient++
			continue
		}

		if schedule.Confidence < a.minConfidence {
			a.logger.Debug("Schedule below confidence threshold",
				zap.String("address", address),
				zap.Float64("confidence", schedule.Confidence),
				zap.Float64("min_confidence", a.minConfidence))
			report.LowConfidence++
			continue
		}
		report.Schedules[address] = schedule
	}

	a.logger.Info("Schedules analyzed",
		zap.Int("events", len(events)),
		zap.Int("addresses", len(byAddress)),
		zap.Int("schedules", len(report.Schedules)))

	return report
}

// analyzeAddress ожидает события одного адреса, отсортированные по времени
func (a *Analyzer) analyzeAddress(address string, events []domain.CleaningEvent) (domain.CleaningSchedule, error) {
	active := make([]domain.CleaningEvent, 0, len(events))
	for _, e := range events {
		if e.Active {
			active = append(active, e)
		}
	}
	if len(active) < minActiveEvents {
		return domain.CleaningSchedule{}, fmt.Errorf("only %d cleaning events", len(active))
	}

	intervals := make([]float64, 0, len(active)-1)
	for i := 1; i < len(active); i++ {
		intervals = append(intervals, active[i].Timestamp.Sub(active[i-1].Timestamp).Hours())
	}

	dominant, err := DominantInterval(intervals)
	if err != nil {
		return domain.CleaningSchedule{}, err
	}

	last := active[len(active)-1].Timestamp
	return domain.CleaningSchedule{
		Address:        address,
		Coordinate:     active[0].Coordinate,
		FrequencyHours: dominant,
		Confidence:     Confidence(intervals, dominant),
		DayOfWeek:      dominantWeekday(events),
		TimeOfDay:      dominantHourWindow(active),
		LastCleaning:   last,
		NextCleaning:   last.Add(time.Duration(math.Round(dominant)) * time.Hour),
		SampleSize:     len(active),
	}, nil
}

// DominantInterval - центр самой заполненной корзины гистограммы из 20 корзин.
// Если все интервалы равны, возвращается само значение.
func DominantInterval(intervals []float64) (float64, error) {
	if len(intervals) == 0 {
		return 0, ErrNoIntervals
	}

	lo, _ := stats.Min(intervals)
	hi, _ := stats.Max(intervals)
	width := (hi - lo) / histogramBins
	if width == 0 {
		return lo, nil
	}

	var bins [histogramBins]int
	for _, v := range intervals {
		idx := int(math.Floor((v - lo) / width))
		if idx < 0 {
			idx = 0
		}
		if idx >= histogramBins {
			idx = histogramBins - 1
		}
		bins[idx]++
	}

	best := argmax(bins[:])
	return lo + (float64(best)+0.5)*width, nil
}

// Confidence = 1 - σ/dominant, где σ - стандартное отклонение генеральной совокупности.
// Результат в [0, 1]; для менее чем двух интервалов - 0.
func Confidence(intervals []float64, dominant float64) float64 {
	if len(intervals) < 2 || dominant <= 0 {
		return 0
	}

	sd, err := stats.StandardDeviationPopulation(intervals)
	if err != nil {
		return 0
	}
	return math.Min(math.Max(1-sd/dominant, 0), 1)
}

// dominantWeekday - мода дня недели (ISO, с понедельника) по всем событиям адреса
func dominantWeekday(events []domain.CleaningEvent) string {
	var counts [7]int
	for _, e := range events {
		counts[(int(e.Timestamp.UTC().Weekday())+6)%7]++
	}
	return weekdays[argmax(counts[:])]
}

// dominantHourWindow - мода часа уборки в виде "HH:00-HH+1:00"
func dominantHourWindow(events []domain.CleaningEvent) string {
	var counts [24]int
	for _, e := range events {
		counts[e.Timestamp.UTC().Hour()]++
	}
	hour := argmax(counts[:])
	return fmt.Sprintf("%02d:00-%02d:00", hour, (hour+1)%24)
}

// argmax - первый индекс максимума
func argmax(counts []int) int {
	best := 0
	for i := 1; i < len(counts); i++ {
		if counts[i] > counts[best] {
			best = i
		}
	}
	return best
}
