package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/parking-zone-service/internal/pkg/geo"
)

// Границы Мальмё
var (
	malmoMinLat = decimal.RequireFromString("55.55")
	malmoMaxLat = decimal.RequireFromString("55.65")
	malmoMinLon = decimal.RequireFromString("12.90")
	malmoMaxLon = decimal.RequireFromString("13.10")

	minLat = decimal.NewFromInt(-90)
	maxLat = decimal.NewFromInt(90)
	minLon = decimal.NewFromInt(-180)
	maxLon = decimal.NewFromInt(180)
)

// GpsCoordinate - GPS координата с точной десятичной арифметикой
type GpsCoordinate struct {
	Latitude  decimal.Decimal `json:"latitude"`
	Longitude decimal.Decimal `json:"longitude"`
}

// NewGpsCoordinate проверяет диапазоны и создаёт координату
func NewGpsCoordinate(lat, lon decimal.Decimal) (GpsCoordinate, error) {
	if lat.LessThan(minLat) || lat.GreaterThan(maxLat) {
		return GpsCoordinate{}, fmt.Errorf("%w: latitude %s out of range", ErrMalformedCoordinate, lat)
	}
	if lon.LessThan(minLon) || lon.GreaterThan(maxLon) {
		return GpsCoordinate{}, fmt.Errorf("%w: longitude %s out of range", ErrMalformedCoordinate, lon)
	}
	return GpsCoordinate{Latitude: lat, Longitude: lon}, nil
}

// ParseGpsCoordinate разбирает строку вида "55.6050,13.0038"
func ParseGpsCoordinate(s string) (GpsCoordinate, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return GpsCoordinate{}, fmt.Errorf("%w: %q", ErrMalformedCoordinate, s)
	}

	lat, err := decimal.NewFromString(strings.TrimSpace(parts[0]))
	if err != nil {
		return GpsCoordinate{}, fmt.Errorf("%w: latitude: %v", ErrMalformedCoordinate, err)
	}
	lon, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
	if err != nil {
		return GpsCoordinate{}, fmt.Errorf("%w: longitude: %v", ErrMalformedCoordinate, err)
	}

	return NewGpsCoordinate(lat, lon)
}

// Float64 возвращает координату в float64
func (c GpsCoordinate) Float64() (lat, lon float64) {
	lat, _ = c.Latitude.Float64()
	lon, _ = c.Longitude.Float64()
	return lat, lon
}

// InMalmo проверяет, попадает ли точка в границы Мальмё
func (c GpsCoordinate) InMalmo() bool {
	return c.Latitude.GreaterThanOrEqual(malmoMinLat) && c.Latitude.LessThanOrEqual(malmoMaxLat) &&
		c.Longitude.GreaterThanOrEqual(malmoMinLon) && c.Longitude.LessThanOrEqual(malmoMaxLon)
}

// DistanceTo - расстояние до другой координаты в метрах
func (c GpsCoordinate) DistanceTo(other GpsCoordinate) float64 {
	lat1, lon1 := c.Float64()
	lat2, lon2 := other.Float64()
	return geo.HaversineDistance(lat1, lon1, lat2, lon2)
}

func (c GpsCoordinate) String() string {
	return fmt.Sprintf("%s,%s", c.Latitude, c.Longitude)
}
