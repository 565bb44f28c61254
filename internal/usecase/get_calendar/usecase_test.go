package get_calendar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	spotRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/spot"
	"github.com/m04kA/SMC-ParkingService/internal/service/eligibility"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeSpots struct{ spot *domain.Spot }

func (f *fakeSpots) GetByID(_ context.Context, id int64) (*domain.Spot, error) {
	if f.spot == nil || f.spot.ID != id {
		return nil, spotRepo.ErrSpotNotFound
	}
	return f.spot, nil
}

type fakeBookings struct {
	intervals []domain.BookingInterval
	blocks    []domain.SlotBlock
	from, to  time.Time
}

func (f *fakeBookings) FetchIntervals(_ context.Context, _ int64, from, to time.Time) ([]domain.BookingInterval, error) {
	f.from, f.to = from, to
	return f.intervals, nil
}

func (f *fakeBookings) ListBlocks(_ context.Context, _ int64, _, _ time.Time) ([]domain.SlotBlock, error) {
	return f.blocks, nil
}

func date(month time.Month, day, hour int) time.Time {
	return time.Date(2026, month, day, hour, 0, 0, 0, time.UTC)
}

func confirmed(start, end time.Time) domain.BookingInterval {
	return domain.BookingInterval{SpotID: 1, Interval: domain.Interval{Start: start, End: end}, Status: domain.StatusConfirmed}
}

func newUseCase(totalSlots int, bookings BookingRepository, now time.Time) *UseCase {
	spot := &domain.Spot{ID: 1, TotalSlots: totalSlots, DailyPrice: 20, MonthlyPrice: 300}
	uc := NewUseCase(&fakeSpots{spot: spot}, bookings, eligibility.NewGate(eligibility.DefaultPolicy()), nopLogger{})
	uc.timeProvider = fixedTime{now}
	return uc
}

func dayOf(t *testing.T, resp *Response, day int) Day {
	t.Helper()
	require.GreaterOrEqual(t, len(resp.Days), day)
	d := resp.Days[day-1]
	require.Equal(t, day, d.Date.Day())
	return d
}

func TestExecute_DailyCalendar(t *testing.T) {
	bookings := &fakeBookings{
		intervals: []domain.BookingInterval{
			confirmed(date(time.January, 20, 9), date(time.January, 20, 18)),
			confirmed(date(time.January, 20, 8), date(time.January, 20, 12)),
			confirmed(date(time.January, 21, 9), date(time.January, 21, 18)),
		},
		blocks: []domain.SlotBlock{{ID: 1, SpotID: 1, Interval: domain.Interval{Start: date(time.January, 22, 0), End: date(time.January, 23, 0)}}},
	}
	uc := newUseCase(2, bookings, date(time.January, 15, 10))

	resp, err := uc.Execute(context.Background(), &Request{SpotID: 1, Month: date(time.January, 17, 0), Type: domain.BookingDaily})
	require.NoError(t, err)

	assert.Len(t, resp.Days, 31)
	assert.Equal(t, date(time.January, 1, 0), resp.Month)
	assert.Equal(t, date(time.January, 1, 0), bookings.from)
	assert.Equal(t, date(time.February, 1, 0), bookings.to)

	assert.Equal(t, domain.EligibilityPast, dayOf(t, resp, 14).Status)

	today := dayOf(t, resp, 15)
	assert.Equal(t, domain.EligibilityAvailable, today.Status)
	require.NotNil(t, today.Price)
	assert.Equal(t, 20.0, *today.Price)

	full := dayOf(t, resp, 20)
	assert.Equal(t, domain.EligibilityFull, full.Status)
	assert.Equal(t, 0, full.AvailableSlots)
	assert.Nil(t, full.Price)

	assert.Equal(t, domain.EligibilityAvailable, dayOf(t, resp, 21).Status)
	assert.Equal(t, 1, dayOf(t, resp, 21).AvailableSlots)
	assert.Equal(t, domain.EligibilityBooked, dayOf(t, resp, 22).Status)
}

func TestExecute_TodayAfterCutoff(t *testing.T) {
	uc := newUseCase(2, &fakeBookings{}, date(time.January, 15, 13))

	resp, err := uc.Execute(context.Background(), &Request{SpotID: 1, Month: date(time.January, 1, 0), Type: domain.BookingDaily})
	require.NoError(t, err)

	assert.Equal(t, domain.EligibilityPast, dayOf(t, resp, 15).Status)
	assert.Equal(t, domain.EligibilityAvailable, dayOf(t, resp, 16).Status)
}

func TestExecute_MonthlyCalendar(t *testing.T) {
	bookings := &fakeBookings{
		intervals: []domain.BookingInterval{
			confirmed(date(time.February, 10, 0), date(time.February, 11, 0)),
		},
	}
	uc := newUseCase(1, bookings, date(time.January, 5, 10))

	resp, err := uc.Execute(context.Background(), &Request{SpotID: 1, Month: date(time.January, 1, 0), Type: domain.BookingMonthly})
	require.NoError(t, err)

	assert.Equal(t, 300.0, resp.BasePrice)
	assert.True(t, bookings.to.After(date(time.February, 28, 0)))

	// окно 10 января [10.01, 10.02) граничит с бронью и не пересекается
	tenth := dayOf(t, resp, 10)
	assert.Equal(t, domain.EligibilityAvailable, tenth.Status)
	require.NotNil(t, tenth.Price)
	assert.Equal(t, 300.0, *tenth.Price)

	assert.Equal(t, domain.EligibilityFull, dayOf(t, resp, 11).Status)
}

func TestExecute_Errors(t *testing.T) {
	uc := newUseCase(2, &fakeBookings{}, date(time.January, 15, 10))

	tests := []struct {
		name string
		req  *Request
		want error
	}{
		{"hourly type", &Request{SpotID: 1, Month: date(time.January, 1, 0), Type: domain.BookingHourly}, ErrInvalidInput},
		{"missing month", &Request{SpotID: 1, Type: domain.BookingDaily}, ErrInvalidInput},
		{"past month", &Request{SpotID: 1, Month: time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC), Type: domain.BookingDaily}, ErrInvalidDate},
		{"unknown spot", &Request{SpotID: 7, Month: date(time.January, 1, 0), Type: domain.BookingDaily}, ErrSpotNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
