package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// EarthRadiusMeters - средний радиус Земли
const EarthRadiusMeters = 6371000.0

// Параметры упрощённой проекции локальной плоской системы (SWEREF-подобной) в WGS84.
const (
	falseEasting    = 500000.0
	metersPerDegree = 111320.0
	centralMeridian = 15.0
	baseLatitude    = 55.5
)

// HaversineDistance вычисляет расстояние между двумя точками в метрах
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180.0
	dLon := (lon2 - lon1) * math.Pi / 180.0

	lat1Rad := lat1 * math.Pi / 180.0
	lat2Rad := lat2 * math.Pi / 180.0

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// ProjectToGeographic переводит плоские координаты (x, y) в широту и долготу.
// Это линейное приближение, а не настоящая геодезическая проекция.
func ProjectToGeographic(x, y float64) (lat, lon float64) {
	lon = (x-falseEasting)/metersPerDegree + centralMeridian
	lat = y/metersPerDegree + baseLatitude
	return lat, lon
}

// DistancePointToSegment возвращает расстояние от точки p до отрезка ab.
// Проекция зажимается на концы отрезка; отрезок нулевой длины даёт расстояние до точки.
func DistancePointToSegment(p, a, b orb.Point) float64 {
	return planar.DistanceFromSegment(a, b, p)
}

// ValidateCoordinates проверяет валидность координат
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}
