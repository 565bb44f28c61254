package feed

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

const testDebounce = 20 * time.Millisecond

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeConn struct {
	feed   *fakeFeed
	spotID int64
	closed atomic.Bool
}

func (c *fakeConn) Close() error {
	c.closed.Store(true)
	c.feed.mu.Lock()
	defer c.feed.mu.Unlock()
	delete(c.feed.listeners, c)
	return nil
}

// fakeFeed имитирует ленту изменений: Emit вызывает onChange всех открытых подписок spot
type fakeFeed struct {
	mu         sync.Mutex
	listeners  map[*fakeConn]func()
	subscribes int
	failures   int
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{listeners: make(map[*fakeConn]func())}
}

func (f *fakeFeed) Subscribe(_ context.Context, spotID int64, onChange func()) (io.Closer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.subscribes++
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("feed unavailable")
	}

	c := &fakeConn{feed: f, spotID: spotID}
	f.listeners[c] = onChange
	return c, nil
}

func (f *fakeFeed) Emit(spotID int64) {
	f.mu.Lock()
	var callbacks []func()
	for c, cb := range f.listeners {
		if c.spotID == spotID {
			callbacks = append(callbacks, cb)
		}
	}
	f.mu.Unlock()

	for _, cb := range callbacks {
		cb()
	}
}

func (f *fakeFeed) Open() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listeners)
}

func (f *fakeFeed) SubscribeCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subscribes
}

type fakeMetrics struct {
	connections   atomic.Int64
	callbacks     atomic.Int64
	notifications atomic.Int64
	errors        atomic.Int64
}

func (m *fakeMetrics) SetFeedConnections(n int)   { m.connections.Store(int64(n)) }
func (m *fakeMetrics) SetFeedCallbacks(n int)     { m.callbacks.Store(int64(n)) }
func (m *fakeMetrics) AddFeedNotifications(n int) { m.notifications.Add(int64(n)) }
func (m *fakeMetrics) IncFeedSubscribeErrors()    { m.errors.Add(1) }

func newTestMultiplexer(f ChangeFeed, metrics Metrics) *Multiplexer {
	return NewMultiplexer(f, Config{Debounce: testDebounce, RetryInterval: 30 * time.Millisecond}, metrics, nopLogger{})
}

func slotKey(spotID int64) domain.SubscriptionKey {
	return domain.HourlySpec(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)).Key(spotID)
}

func TestMultiplexer_SharedKey_OneConnectionOneNotification(t *testing.T) {
	f := newFakeFeed()
	m := newTestMultiplexer(f, nil)
	defer m.Close()

	var first, second atomic.Int32
	key := slotKey(1)

	h1, err := m.Register(key, 1, func() { first.Add(1) })
	require.NoError(t, err)
	h2, err := m.Register(key, 1, func() { second.Add(1) })
	require.NoError(t, err)

	assert.Equal(t, 1, f.SubscribeCalls())
	assert.Equal(t, 1, f.Open())
	assert.Equal(t, 1, m.ConnectionCount())
	assert.Equal(t, 2, m.CallbackCount(key))

	f.Emit(1)

	assert.Eventually(t, func() bool {
		return first.Load() == 1 && second.Load() == 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(3 * testDebounce)
	assert.Equal(t, int32(1), first.Load())
	assert.Equal(t, int32(1), second.Load())

	m.Unregister(h1)
	assert.Equal(t, 1, m.ConnectionCount())
	m.Unregister(h2)
	assert.Equal(t, 0, m.ConnectionCount())
	assert.Equal(t, 0, m.KeyCount())
	assert.Equal(t, 0, f.Open())
}

func TestMultiplexer_ManyBindingsOneConnection(t *testing.T) {
	f := newFakeFeed()
	metrics := &fakeMetrics{}
	m := newTestMultiplexer(f, metrics)
	defer m.Close()

	key := slotKey(3)
	const n = 50

	handles := make([]Handle, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h, err := m.Register(key, 3, func() {})
			assert.NoError(t, err)
			handles[i] = h
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, f.SubscribeCalls())
	assert.Equal(t, int64(1), metrics.connections.Load())
	assert.Equal(t, int64(n), metrics.callbacks.Load())

	for _, h := range handles {
		wg.Add(1)
		go func(h Handle) {
			defer wg.Done()
			m.Unregister(h)
		}(h)
	}
	wg.Wait()

	assert.Equal(t, 0, f.Open())
	assert.Equal(t, 0, m.KeyCount())
	assert.Equal(t, int64(0), metrics.connections.Load())
}

func TestMultiplexer_DebounceCoalescesBurst(t *testing.T) {
	f := newFakeFeed()
	m := newTestMultiplexer(f, nil)
	defer m.Close()

	var calls atomic.Int32
	_, err := m.Register(slotKey(1), 1, func() { calls.Add(1) })
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		f.Emit(1)
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(3 * testDebounce)
	assert.Equal(t, int32(1), calls.Load())

	f.Emit(1)
	assert.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestMultiplexer_DifferentKeysSameSpot(t *testing.T) {
	f := newFakeFeed()
	m := newTestMultiplexer(f, nil)
	defer m.Close()

	var slot, rolling atomic.Int32
	_, err := m.Register(slotKey(1), 1, func() { slot.Add(1) })
	require.NoError(t, err)
	_, err = m.Register(domain.RollingSpec(0).Key(1), 1, func() { rolling.Add(1) })
	require.NoError(t, err)
	_, err = m.Register(slotKey(2), 2, func() { t.Error("spot 2 must not be notified") })
	require.NoError(t, err)

	assert.Equal(t, 3, m.ConnectionCount())

	f.Emit(1)
	assert.Eventually(t, func() bool {
		return slot.Load() == 1 && rolling.Load() == 1
	}, time.Second, 5*time.Millisecond)
	time.Sleep(3 * testDebounce)
}

func TestMultiplexer_UnregisteredCallbackNotInvoked(t *testing.T) {
	f := newFakeFeed()
	m := newTestMultiplexer(f, nil)
	defer m.Close()

	var stay, gone atomic.Int32
	key := slotKey(1)
	_, err := m.Register(key, 1, func() { stay.Add(1) })
	require.NoError(t, err)
	h, err := m.Register(key, 1, func() { gone.Add(1) })
	require.NoError(t, err)

	f.Emit(1)
	m.Unregister(h)

	assert.Eventually(t, func() bool { return stay.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(0), gone.Load())

	// повторный Unregister безопасен
	m.Unregister(h)
	m.Unregister(Handle{})
	assert.Equal(t, 1, m.CallbackCount(key))
}

func TestMultiplexer_RetryOnSubscribeFailure(t *testing.T) {
	f := newFakeFeed()
	f.failures = 2
	metrics := &fakeMetrics{}
	m := newTestMultiplexer(f, metrics)
	defer m.Close()

	var calls atomic.Int32
	key := slotKey(1)
	_, err := m.Register(key, 1, func() { calls.Add(1) })
	require.NoError(t, err)

	assert.Equal(t, 0, m.ConnectionCount())
	assert.Equal(t, 1, m.CallbackCount(key))

	assert.Eventually(t, func() bool { return m.ConnectionCount() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 3, f.SubscribeCalls())
	assert.Equal(t, int64(2), metrics.errors.Load())

	// после переподключения потребители получают уведомление о возможных пропущенных изменениях
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestMultiplexer_RetryStopsAfterUnregister(t *testing.T) {
	f := newFakeFeed()
	f.failures = 1
	m := newTestMultiplexer(f, nil)
	defer m.Close()

	h, err := m.Register(slotKey(1), 1, func() {})
	require.NoError(t, err)
	m.Unregister(h)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, f.SubscribeCalls())
	assert.Equal(t, 0, f.Open())
}

func TestMultiplexer_NotifyMatching(t *testing.T) {
	f := newFakeFeed()
	m := newTestMultiplexer(f, nil)
	defer m.Close()

	var rolling, slot atomic.Int32
	_, err := m.Register(domain.RollingSpec(0).Key(1), 1, func() { rolling.Add(1) })
	require.NoError(t, err)
	_, err = m.Register(slotKey(1), 1, func() { slot.Add(1) })
	require.NoError(t, err)

	n := m.NotifyMatching(domain.SubscriptionKey.IsRolling)
	assert.Equal(t, 1, n)

	assert.Eventually(t, func() bool { return rolling.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(3 * testDebounce)
	assert.Equal(t, int32(0), slot.Load())
}

func TestMultiplexer_Close(t *testing.T) {
	f := newFakeFeed()
	m := newTestMultiplexer(f, nil)

	var calls atomic.Int32
	_, err := m.Register(slotKey(1), 1, func() { calls.Add(1) })
	require.NoError(t, err)

	f.Emit(1)
	require.NoError(t, m.Close())

	assert.Equal(t, 0, f.Open())
	assert.Equal(t, 0, m.KeyCount())

	time.Sleep(3 * testDebounce)
	assert.Equal(t, int32(0), calls.Load())

	_, err = m.Register(slotKey(1), 1, func() {})
	assert.ErrorIs(t, err, ErrClosed)
	assert.NoError(t, m.Close())
}

func TestMultiplexer_NilCallback(t *testing.T) {
	m := newTestMultiplexer(newFakeFeed(), nil)
	defer m.Close()

	_, err := m.Register(slotKey(1), 1, nil)
	assert.ErrorIs(t, err, ErrNilCallback)
}

// deliverOnCloseFeed перед закрытием подписки дожидается раздачи уведомления,
// как лента, у которой UNLISTEN ждет, пока вычитаны накопленные уведомления
type deliverOnCloseFeed struct {
	closeErr atomic.Value
}

type deliverOnCloseConn struct {
	feed     *deliverOnCloseFeed
	onChange func()
}

func (f *deliverOnCloseFeed) Subscribe(_ context.Context, _ int64, onChange func()) (io.Closer, error) {
	return &deliverOnCloseConn{feed: f, onChange: onChange}, nil
}

func (c *deliverOnCloseConn) Close() error {
	delivered := make(chan struct{})
	go func() {
		c.onChange()
		close(delivered)
	}()

	select {
	case <-delivered:
		return nil
	case <-time.After(time.Second):
		err := errors.New("notification delivery blocked while closing")
		c.feed.closeErr.Store(err)
		return err
	}
}

func TestMultiplexer_UnregisterWhileFeedDelivers(t *testing.T) {
	f := &deliverOnCloseFeed{}
	m := newTestMultiplexer(f, nil)
	defer m.Close()

	h, err := m.Register(slotKey(1), 1, func() {})
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		m.Unregister(h)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Unregister did not return")
	}
	assert.Nil(t, f.closeErr.Load())
	assert.Equal(t, 0, m.KeyCount())
}

func TestMultiplexer_FeedCallbackDoesNotWaitForLock(t *testing.T) {
	f := newFakeFeed()
	m := newTestMultiplexer(f, nil)
	defer m.Close()

	var calls atomic.Int32
	_, err := m.Register(slotKey(1), 1, func() { calls.Add(1) })
	require.NoError(t, err)

	m.mu.Lock()
	emitted := make(chan struct{})
	go func() {
		f.Emit(1)
		f.Emit(1)
		close(emitted)
	}()

	select {
	case <-emitted:
	case <-time.After(time.Second):
		m.mu.Unlock()
		t.Fatal("feed callback blocked on multiplexer lock")
	}
	m.mu.Unlock()

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(3 * testDebounce)
	assert.Equal(t, int32(1), calls.Load())
}
