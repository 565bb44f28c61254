package jobs

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeNotifier struct {
	mu      sync.Mutex
	keys    []domain.SubscriptionKey
	matched []domain.SubscriptionKey
}

func (n *fakeNotifier) NotifyMatching(match func(domain.SubscriptionKey) bool) int {
	n.mu.Lock()
	defer n.mu.Unlock()

	count := 0
	for _, k := range n.keys {
		if match(k) {
			n.matched = append(n.matched, k)
			count++
		}
	}
	return count
}

func (n *fakeNotifier) Matched() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.matched)
}

type fakeMetrics struct {
	mu   sync.Mutex
	runs int
}

func (m *fakeMetrics) ObserveJobRun(string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs++
}

func TestScheduler_RefreshRollingOnlyRollingKeys(t *testing.T) {
	slotStart := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	n := &fakeNotifier{keys: []domain.SubscriptionKey{
		domain.RollingSpec(0).Key(1),
		domain.HourlySpec(slotStart).Key(1),
		domain.RollingSpec(0).Key(2),
		domain.DaySpec(slotStart).Key(2),
	}}
	m := &fakeMetrics{}

	s := NewScheduler(n, m, nopLogger{})
	assert.Equal(t, 2, s.RefreshRolling())
	for _, k := range n.matched {
		assert.True(t, k.IsRolling())
	}
	assert.Equal(t, 1, m.runs)
}

func TestScheduler_InvalidSpec(t *testing.T) {
	s := NewScheduler(&fakeNotifier{}, nil, nopLogger{})
	assert.ErrorIs(t, s.ScheduleRollingRefresh("every minute"), ErrInvalidSchedule)
}

func TestScheduler_RunsOnSchedule(t *testing.T) {
	n := &fakeNotifier{keys: []domain.SubscriptionKey{domain.RollingSpec(0).Key(1)}}
	s := NewScheduler(n, nil, nopLogger{})

	require.NoError(t, s.ScheduleRollingRefresh("@every 1s"))
	s.Start()
	defer s.Stop(context.Background())

	assert.Eventually(t, func() bool { return n.Matched() >= 1 }, 3*time.Second, 50*time.Millisecond)
}
