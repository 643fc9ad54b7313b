package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertLevelFromHours(t *testing.T) {
	tests := []struct {
		hours    int64
		expected AlertLevel
	}{
		{-3, AlertActive},
		{0, AlertActive},
		{1, AlertUrgent},
		{6, AlertUrgent},
		{7, AlertWarning},
		{24, AlertWarning},
		{25, AlertInfo},
		{168, AlertInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, AlertLevelFromHours(tt.hours), "hours=%d", tt.hours)
	}
}

func TestParseGpsCoordinate(t *testing.T) {
	t.Run("valid Malmö coordinate", func(t *testing.T) {
		c, err := ParseGpsCoordinate("55.6050, 13.0038")
		require.NoError(t, err)
		assert.Equal(t, "55.605", c.Latitude.String())
		assert.True(t, c.InMalmo())
	})

	t.Run("valid but outside Malmö", func(t *testing.T) {
		c, err := ParseGpsCoordinate("59.3293,18.0686")
		require.NoError(t, err)
		assert.False(t, c.InMalmo())
	})

	t.Run("latitude out of range", func(t *testing.T) {
		_, err := ParseGpsCoordinate("91,13")
		assert.ErrorIs(t, err, ErrMalformedCoordinate)
	})

	t.Run("longitude out of range", func(t *testing.T) {
		_, err := ParseGpsCoordinate("55,-181")
		assert.ErrorIs(t, err, ErrMalformedCoordinate)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseGpsCoordinate("north,east")
		assert.ErrorIs(t, err, ErrMalformedCoordinate)

		_, err = ParseGpsCoordinate("55.6")
		assert.ErrorIs(t, err, ErrMalformedCoordinate)
	})
}

func TestGpsCoordinate_DistanceTo(t *testing.T) {
	a, err := NewGpsCoordinate(decimal.RequireFromString("55.0"), decimal.RequireFromString("13.0"))
	require.NoError(t, err)
	b, err := NewGpsCoordinate(decimal.RequireFromString("56.0"), decimal.RequireFromString("13.0"))
	require.NoError(t, err)

	assert.InDelta(t, 111195.0, a.DistanceTo(b), 1.0)
	assert.InDelta(t, a.DistanceTo(b), b.DistanceTo(a), 1e-9)
}
