package domain

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/parking-zone-service/internal/pkg/geo"
)

// MaxDistanceMeters - порог привязки адреса к зоне, общий для всех алгоритмов
const MaxDistanceMeters = 50.0

// ErrMalformedCoordinate - координата не переводится в допустимую широту/долготу
var ErrMalformedCoordinate = errors.New("malformed coordinate")

// PlanarPoint - точка в локальной плоской системе координат.
// В JSON кодируется как массив [x, y].
type PlanarPoint struct {
	X decimal.Decimal
	Y decimal.Decimal
}

// NewPlanarPoint создаёт точку из float64
func NewPlanarPoint(x, y float64) PlanarPoint {
	return PlanarPoint{X: decimal.NewFromFloat(x), Y: decimal.NewFromFloat(y)}
}

// Geographic проецирует точку в широту и долготу.
func (p PlanarPoint) Geographic() (lat, lon float64, err error) {
	x, _ := p.X.Float64()
	y, _ := p.Y.Float64()

	lat, lon = geo.ProjectToGeographic(x, y)
	if !geo.ValidateCoordinates(lat, lon) {
		return 0, 0, fmt.Errorf("%w: [%s, %s]", ErrMalformedCoordinate, p.X, p.Y)
	}
	return lat, lon, nil
}

func (p PlanarPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]decimal.Decimal{p.X, p.Y})
}

func (p *PlanarPoint) UnmarshalJSON(data []byte) error {
	var pair []decimal.Decimal
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("%w: expected [x, y], got %d values", ErrMalformedCoordinate, len(pair))
	}
	p.X, p.Y = pair[0], pair[1]
	return nil
}

// Address - геокодированный адрес
type Address struct {
	Street      string      `json:"street"`
	HouseNumber string      `json:"house_number"`
	PostalCode  string      `json:"postal_code,omitempty"`
	FullAddress string      `json:"full_address"`
	Coordinates PlanarPoint `json:"coordinates"`
}

// Zone - участок ограничения (уборка улиц / запрет парковки).
// Геометрия сведена к первой и последней вершине исходного контура.
type Zone struct {
	Start      PlanarPoint `json:"start"`
	End        PlanarPoint `json:"end"`
	Info       string      `json:"info"`
	Day        string      `json:"day,omitempty"`
	TimeWindow string      `json:"time_window,omitempty"`
}

// ZoneFromRing строит зону по контуру: первая и последняя вершина.
func ZoneFromRing(ring []PlanarPoint, info, day, timeWindow string) (Zone, error) {
	if len(ring) == 0 {
		return Zone{}, fmt.Errorf("%w: empty ring", ErrMalformedCoordinate)
	}
	return Zone{
		Start:      ring[0],
		End:        ring[len(ring)-1],
		Info:       info,
		Day:        day,
		TimeWindow: timeWindow,
	}, nil
}

// Match - найденная зона и расстояние до неё
type Match struct {
	ZoneIndex      int     `json:"zone_index"`
	DistanceMeters float64 `json:"distance_meters"`
}

// AddressCorrelation - результат привязки одного адреса; Match == nil, если зона не найдена
type AddressCorrelation struct {
	AddressIndex int    `json:"address_index"`
	Match        *Match `json:"match,omitempty"`
}
