package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// frameLatMargin расширяет широтную полосу кадра (в радианах), чтобы
// восточная компонента гарантированно не превышала haversine-расстояние.
const frameLatMargin = 0.001

// LocalFrame - равнопромежуточная плоскость в метрах (восток, север).
// Восточная ось масштабируется косинусом наибольшей широты полосы,
// поэтому разность по каждой оси не больше расстояния по большому кругу.
type LocalFrame struct {
	cosLat float64
}

// NewLocalFrame создаёт кадр для точек с |lat| <= maxAbsLat (градусы).
func NewLocalFrame(maxAbsLat float64) LocalFrame {
	phi := math.Min(toRad(math.Abs(maxAbsLat))+frameLatMargin, math.Pi/2)
	return LocalFrame{cosLat: math.Max(math.Cos(phi), 0)}
}

// Project возвращает точку кадра: X - метры на восток, Y - метры на север.
func (f LocalFrame) Project(lat, lon float64) orb.Point {
	return orb.Point{
		EarthRadiusMeters * toRad(lon) * f.cosLat,
		EarthRadiusMeters * toRad(lat),
	}
}

// LatGapLowerBound - нижняя граница haversine-расстояния между точками,
// широты которых отличаются на dLat градусов.
func LatGapLowerBound(dLat float64) float64 {
	return EarthRadiusMeters * toRad(math.Abs(dLat))
}

// LonGapLowerBound - нижняя граница haversine-расстояния между точками,
// долготы которых отличаются на dLon градусов, а |lat| обеих не больше maxAbsLat.
func LonGapLowerBound(dLon, maxAbsLat float64) float64 {
	dl := math.Min(toRad(math.Abs(dLon)), math.Pi)
	s := math.Cos(toRad(math.Min(math.Abs(maxAbsLat), 90))) * math.Sin(dl/2)
	if s > 1 {
		s = 1
	}
	return 2 * EarthRadiusMeters * math.Asin(s)
}
