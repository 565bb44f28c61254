package get_availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	spotRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/spot"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeSpots struct {
	spot *domain.Spot
	err  error
}

func (f *fakeSpots) GetByID(_ context.Context, id int64) (*domain.Spot, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.spot == nil || f.spot.ID != id {
		return nil, spotRepo.ErrSpotNotFound
	}
	return f.spot, nil
}

type fakeCalc struct {
	last domain.AvailabilityWindow
	res  domain.AvailabilityResult
}

func (c *fakeCalc) ComputeOrOptimistic(_ context.Context, w domain.AvailabilityWindow) domain.AvailabilityResult {
	c.last = w
	return c.res
}

var now = time.Date(2026, 1, 15, 10, 20, 0, 0, time.UTC)

func newUseCase(spots SpotRepository, calc Calculator) *UseCase {
	uc := NewUseCase(spots, calc, 0, nopLogger{})
	uc.timeProvider = fixedTime{now}
	return uc
}

func TestExecute_Rolling(t *testing.T) {
	calc := &fakeCalc{res: domain.AvailabilityResult{AvailableSlots: 1, BookedSlots: 3}}
	uc := newUseCase(&fakeSpots{spot: &domain.Spot{ID: 9, TotalSlots: 4}}, calc)

	resp, err := uc.Execute(context.Background(), &Request{SpotID: 9, Spec: domain.RollingSpec(0)})
	require.NoError(t, err)

	assert.Equal(t, domain.KindRollingLookahead, calc.last.Kind())
	assert.Equal(t, now, resp.WindowStart)
	assert.Equal(t, now.Add(2*time.Hour), resp.WindowEnd)
	assert.Equal(t, 1, resp.AvailableSlots)
	assert.Equal(t, 3, resp.BookedSlots)
	assert.Equal(t, 75.0, resp.OccupancyRate)
}

func TestExecute_Slot(t *testing.T) {
	calc := &fakeCalc{res: domain.AvailabilityResult{AvailableSlots: 4, BookedSlots: 1}}
	uc := newUseCase(&fakeSpots{spot: &domain.Spot{ID: 9, TotalSlots: 5}}, calc)

	start := time.Date(2026, 1, 15, 14, 0, 0, 0, time.UTC)
	resp, err := uc.Execute(context.Background(), &Request{SpotID: 9, Spec: domain.HourlySpec(start)})
	require.NoError(t, err)

	assert.Equal(t, domain.KindExactSlot, calc.last.Kind())
	assert.Equal(t, start.Add(time.Hour), resp.WindowEnd)
	assert.Equal(t, 5, resp.TotalSlots)
}

func TestExecute_Errors(t *testing.T) {
	spots := &fakeSpots{spot: &domain.Spot{ID: 9, TotalSlots: 5}}

	tests := []struct {
		name  string
		spots SpotRepository
		req   *Request
		want  error
	}{
		{"bad spot id", spots, &Request{SpotID: 0, Spec: domain.RollingSpec(0)}, ErrInvalidInput},
		{"bad mode", spots, &Request{SpotID: 9, Spec: domain.WindowSpec{Mode: "weekly"}}, ErrInvalidInput},
		{"slot without start", spots, &Request{SpotID: 9, Spec: domain.WindowSpec{Mode: domain.WindowSlot}}, ErrInvalidInput},
		{"unknown spot", spots, &Request{SpotID: 10, Spec: domain.RollingSpec(0)}, ErrSpotNotFound},
		{"repository failure", &fakeSpots{err: errors.New("db down")}, &Request{SpotID: 9, Spec: domain.RollingSpec(0)}, ErrInternal},
		{"spot without capacity", &fakeSpots{spot: &domain.Spot{ID: 9}}, &Request{SpotID: 9, Spec: domain.RollingSpec(0)}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newUseCase(tt.spots, &fakeCalc{})
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
