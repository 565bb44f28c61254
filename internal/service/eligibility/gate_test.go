package eligibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

func at(day, hour, min int) time.Time {
	return time.Date(2026, 1, day, hour, min, 0, 0, time.UTC)
}

func hourly(start time.Time, available, total int) Slot {
	return Slot{
		Type:         domain.BookingHourly,
		Start:        start,
		TotalSlots:   total,
		Availability: domain.AvailabilityResult{AvailableSlots: available, BookedSlots: total - available},
		BasePrice:    20,
	}
}

func TestGate_TooLateToBook_LessThanMinRemaining(t *testing.T) {
	g := NewGate(DefaultPolicy())
	now := at(15, 10, 45)

	d := g.Evaluate(hourly(at(15, 10, 0), 5, 5), now)
	assert.Equal(t, domain.EligibilityTooLateToBook, d.Status)
	assert.Nil(t, d.Price)
	assert.False(t, d.Bookable())
}

func TestGate_StateOrder(t *testing.T) {
	g := NewGate(DefaultPolicy())
	now := at(15, 10, 0)

	tests := []struct {
		name string
		slot Slot
		want domain.EligibilityStatus
	}{
		{
			name: "loading wins over past",
			slot: func() Slot {
				s := hourly(at(15, 8, 0), 5, 5)
				s.Availability = domain.LoadingResult(5)
				return s
			}(),
			want: domain.EligibilityLoading,
		},
		{
			name: "past with free slots",
			slot: hourly(at(15, 9, 0), 5, 5),
			want: domain.EligibilityPast,
		},
		{
			name: "blocked slot",
			slot: func() Slot {
				s := hourly(at(15, 12, 0), 5, 5)
				s.Blocked = true
				return s
			}(),
			want: domain.EligibilityBooked,
		},
		{
			name: "full",
			slot: hourly(at(15, 12, 0), 0, 5),
			want: domain.EligibilityFull,
		},
		{
			name: "limited",
			slot: hourly(at(15, 12, 0), 2, 5),
			want: domain.EligibilityLimited,
		},
		{
			name: "available at threshold",
			slot: hourly(at(15, 12, 0), 3, 5),
			want: domain.EligibilityAvailable,
		},
		{
			name: "single slot spot never limited",
			slot: hourly(at(15, 12, 0), 1, 1),
			want: domain.EligibilityAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.Evaluate(tt.slot, now).Status)
		})
	}
}

func TestGate_PastNeverSelectable(t *testing.T) {
	g := NewGate(DefaultPolicy())
	now := at(15, 10, 0)

	for available := 0; available <= 10; available++ {
		d := g.Evaluate(hourly(at(15, 8, 0), available, 10), now)
		assert.Equal(t, domain.EligibilityPast, d.Status)
		assert.False(t, d.Status.IsSelectable())
	}
}

func TestGate_HourlyEndAtNowIsPast(t *testing.T) {
	g := NewGate(DefaultPolicy())
	assert.Equal(t, domain.EligibilityPast, g.Evaluate(hourly(at(15, 9, 0), 5, 5), at(15, 10, 0)).Status)
}

func TestGate_DailyCutoff(t *testing.T) {
	g := NewGate(DefaultPolicy())

	daily := func(date time.Time) Slot {
		return Slot{
			Type:         domain.BookingDaily,
			Start:        date,
			TotalSlots:   4,
			Availability: domain.AvailabilityResult{AvailableSlots: 4},
			BasePrice:    80,
		}
	}

	d := g.Evaluate(daily(at(15, 0, 0)), at(15, 11, 59))
	require.Equal(t, domain.EligibilityAvailable, d.Status)
	require.NotNil(t, d.Price)
	assert.Equal(t, 80.0, *d.Price)

	assert.Equal(t, domain.EligibilityPast, g.Evaluate(daily(at(15, 0, 0)), at(15, 12, 0)).Status)
	assert.Equal(t, domain.EligibilityPast, g.Evaluate(daily(at(14, 0, 0)), at(15, 8, 0)).Status)
	assert.Equal(t, domain.EligibilityAvailable, g.Evaluate(daily(at(16, 0, 0)), at(15, 23, 0)).Status)
}

func TestGate_CutoffUsesPolicyLocation(t *testing.T) {
	p := DefaultPolicy()
	p.Location = time.FixedZone("UTC+3", 3*60*60)
	g := NewGate(p)

	slot := Slot{
		Type:         domain.BookingMonthly,
		Start:        time.Date(2026, 1, 15, 0, 0, 0, 0, p.Location),
		TotalSlots:   2,
		Availability: domain.AvailabilityResult{AvailableSlots: 2},
		BasePrice:    500,
	}

	// 10:00 UTC is 13:00 local, past the noon cutoff
	assert.Equal(t, domain.EligibilityPast, g.Evaluate(slot, at(15, 10, 0)).Status)
	// 08:00 UTC is 11:00 local
	assert.Equal(t, domain.EligibilityAvailable, g.Evaluate(slot, at(15, 8, 0)).Status)
}

func TestGate_Prorate(t *testing.T) {
	g := NewGate(DefaultPolicy())

	assert.Equal(t, 20.0, g.Prorate(20, 2*time.Hour))
	assert.Equal(t, 20.0, g.Prorate(20, 60*time.Minute))
	assert.Equal(t, 15.0, g.Prorate(20, 45*time.Minute))
	assert.Equal(t, 10.0, g.Prorate(20, 30*time.Minute))
	assert.Equal(t, 0.0, g.Prorate(20, 29*time.Minute))
}

func TestGate_Prorate_NonRoundBase(t *testing.T) {
	g := NewGate(DefaultPolicy())

	tests := []struct {
		name      string
		base      float64
		remaining time.Duration
		want      float64
	}{
		{"99.99 at 30m", 99.99, 30 * time.Minute, 0.5 * 99.99},
		{"0.01 at 30m", 0.01, 30 * time.Minute, 0.5 * 0.01},
		{"12.345 at 30m", 12.345, 30 * time.Minute, 0.5 * 12.345},
		{"99.99 at 45m", 99.99, 45 * time.Minute, 0.75 * 99.99},
		{"99.99 at 60m", 99.99, 60 * time.Minute, 99.99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, g.Prorate(tt.base, tt.remaining), 1e-9)
		})
	}

	// ровно на границе floor без округления
	assert.Equal(t, 0.5*99.99, g.Prorate(99.99, 30*time.Minute))
}

func TestGate_ProratedPriceInDecision(t *testing.T) {
	g := NewGate(DefaultPolicy())

	// 45 minutes remain until 11:00
	d := g.Evaluate(hourly(at(15, 10, 0), 5, 5), at(15, 10, 15))
	require.Equal(t, domain.EligibilityAvailable, d.Status)
	require.NotNil(t, d.Price)
	assert.Equal(t, 15.0, *d.Price)

	// exactly 30 minutes remain
	d = g.Evaluate(hourly(at(15, 10, 0), 5, 5), at(15, 10, 30))
	require.Equal(t, domain.EligibilityAvailable, d.Status)
	assert.Equal(t, 10.0, *d.Price)

	// future slot
	d = g.Evaluate(hourly(at(15, 14, 0), 5, 5), at(15, 10, 30))
	assert.Equal(t, 20.0, *d.Price)
}

func TestPolicy_Validate(t *testing.T) {
	assert.NoError(t, DefaultPolicy().Validate())

	p := DefaultPolicy()
	p.FullPriceRemaining = p.MinRemaining
	assert.ErrorIs(t, p.Validate(), ErrInvalidPolicy)

	p = DefaultPolicy()
	p.ProrateFloor = 1.5
	assert.ErrorIs(t, p.Validate(), ErrInvalidPolicy)
}
