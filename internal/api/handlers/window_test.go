package handlers

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

func TestParseWindowSpec(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)

	tests := []struct {
		name  string
		query string
		want  domain.WindowSpec
	}{
		{"default rolling", "", domain.RollingSpec(0)},
		{"rolling with horizon", "mode=rolling&horizon=90", domain.RollingSpec(90 * time.Minute)},
		{"rolling max horizon", "mode=rolling&horizon=10080", domain.RollingSpec(domain.MaxRollingHorizon)},
		{"slot", "mode=slot&date=2026-01-15&time=10:00", domain.HourlySpec(time.Date(2026, 1, 15, 10, 0, 0, 0, loc))},
		{"day", "mode=day&date=2026-01-15", domain.DaySpec(time.Date(2026, 1, 15, 0, 0, 0, 0, loc))},
		{"month", "mode=month&date=2026-01-15", domain.MonthSpec(time.Date(2026, 1, 15, 0, 0, 0, 0, loc))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			got, err := ParseWindowSpec(q, loc)
			require.NoError(t, err)
			assert.Equal(t, tt.want.Mode, got.Mode)
			assert.Equal(t, tt.want.Horizon, got.Horizon)
			assert.True(t, tt.want.Start.Equal(got.Start))
			assert.Equal(t, tt.want.Descriptor(), got.Descriptor())
		})
	}
}

func TestParseWindowSpec_Errors(t *testing.T) {
	for _, query := range []string{
		"mode=weekly",
		"mode=rolling&horizon=-5",
		"mode=rolling&horizon=abc",
		"mode=rolling&horizon=10081",
		"mode=rolling&horizon=9223372036854775807",
		"mode=slot&date=2026-01-15",
		"mode=slot&date=15.01.2026&time=10:00",
		"mode=day",
	} {
		q, err := url.ParseQuery(query)
		require.NoError(t, err)

		_, err = ParseWindowSpec(q, time.UTC)
		assert.ErrorIs(t, err, ErrInvalidQuery, query)
	}
}

func TestParseSpotID(t *testing.T) {
	id, err := ParseSpotID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = ParseSpotID("0")
	assert.ErrorIs(t, err, ErrInvalidQuery)

	_, err = ParseSpotID("abc")
	assert.ErrorIs(t, err, ErrInvalidQuery)
}
