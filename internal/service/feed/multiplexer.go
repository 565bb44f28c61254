package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// Config параметры мультиплексора
type Config struct {
	// Debounce окно, в которое схлопываются уведомления одной пачки
	Debounce time.Duration
	// RetryInterval пауза перед повторной попыткой открыть подписку
	RetryInterval time.Duration
}

// Handle регистрация потребителя в мультиплексоре
type Handle struct {
	ID  uuid.UUID
	Key domain.SubscriptionKey
}

// IsZero returns true for a handle that was never registered
func (h Handle) IsZero() bool {
	return h.ID == uuid.Nil
}

type entry struct {
	key       domain.SubscriptionKey
	spotID    int64
	conn      io.Closer
	callbacks map[uuid.UUID]func()
	pending   *time.Timer
	retry     *time.Timer
	// signaled выставлен, пока уведомление ленты ждет передачи в debounce
	signaled atomic.Bool
}

// Multiplexer дедуплицирует подписки на ленту изменений
// На каждый ключ открывается не более одной подписки, уведомления раздаются всем зарегистрированным callback.
// Все операции над картой ключей сериализованы мьютексом, callback вызываются вне блокировки.
// Подписки закрываются после снятия мьютекса, а callback ленты не ждут мьютекс
type Multiplexer struct {
	mu       sync.Mutex
	feed     ChangeFeed
	debounce time.Duration
	retry    time.Duration
	entries  map[domain.SubscriptionKey]*entry
	closed   bool

	ctx    context.Context
	cancel context.CancelFunc

	metrics Metrics
	logger  Logger
}

// NewMultiplexer создает новый экземпляр мультиплексора
func NewMultiplexer(feed ChangeFeed, cfg Config, metrics Metrics, logger Logger) *Multiplexer {
	if cfg.Debounce <= 0 {
		cfg.Debounce = domain.DefaultFeedDebounce
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = domain.DefaultFeedRetry
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Multiplexer{
		feed:     feed,
		debounce: cfg.Debounce,
		retry:    cfg.RetryInterval,
		entries:  make(map[domain.SubscriptionKey]*entry),
		ctx:      ctx,
		cancel:   cancel,
		metrics:  metrics,
		logger:   logger,
	}
}

// Register регистрирует callback для ключа
// Первая регистрация ключа открывает подписку, последующие присоединяются к существующей.
// Если подписку открыть не удалось, ключ остается зарегистрированным и подписка переоткрывается в фоне
func (m *Multiplexer) Register(key domain.SubscriptionKey, spotID int64, onChange func()) (Handle, error) {
	if onChange == nil {
		return Handle{}, ErrNilCallback
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return Handle{}, ErrClosed
	}

	e, ok := m.entries[key]
	if !ok {
		e = &entry{
			key:       key,
			spotID:    spotID,
			callbacks: make(map[uuid.UUID]func()),
		}
		m.entries[key] = e

		if err := m.subscribeLocked(e); err != nil {
			m.logger.Warn("Register: key=%s subscribe failed, retry in %s: %v", key, m.retry, err)
			m.scheduleRetryLocked(e)
		} else {
			m.logger.Info("Register: key=%s subscribed to spot=%d", key, spotID)
		}
	}

	h := Handle{ID: uuid.New(), Key: key}
	e.callbacks[h.ID] = onChange
	m.reportLocked()

	return h, nil
}

// Unregister удаляет callback
// Когда у ключа не остается callback, подписка закрывается и ключ удаляется
func (m *Multiplexer) Unregister(h Handle) {
	if h.IsZero() {
		return
	}

	m.mu.Lock()
	e, ok := m.entries[h.Key]
	if !ok {
		m.mu.Unlock()
		return
	}
	if _, ok := e.callbacks[h.ID]; !ok {
		m.mu.Unlock()
		return
	}

	var conn io.Closer
	delete(e.callbacks, h.ID)
	if len(e.callbacks) == 0 {
		conn = m.detachLocked(e)
		m.logger.Info("Unregister: key=%s released", h.Key)
	}
	m.reportLocked()
	m.mu.Unlock()

	if conn != nil {
		if err := conn.Close(); err != nil {
			m.logger.Warn("Unregister: key=%s close connection: %v", h.Key, err)
		}
	}
}

// NotifyMatching планирует уведомление для всех ключей, подходящих под предикат
// Возвращает количество затронутых ключей
func (m *Multiplexer) NotifyMatching(match func(domain.SubscriptionKey) bool) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0
	}

	n := 0
	for key, e := range m.entries {
		if match(key) {
			m.scheduleLocked(e)
			n++
		}
	}
	return n
}

// Close закрывает все подписки, дальнейшие регистрации возвращают ErrClosed
func (m *Multiplexer) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.cancel()

	conns := make(map[domain.SubscriptionKey]io.Closer, len(m.entries))
	for key, e := range m.entries {
		if conn := m.detachLocked(e); conn != nil {
			conns[key] = conn
		}
	}
	m.reportLocked()
	m.mu.Unlock()

	var errs []error
	for key, conn := range conns {
		if err := conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("key %s: %w", key, err))
		}
	}

	return errors.Join(errs...)
}

// ConnectionCount количество открытых подписок
func (m *Multiplexer) ConnectionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connectionsLocked()
}

// CallbackCount количество callback для ключа
func (m *Multiplexer) CallbackCount(key domain.SubscriptionKey) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.entries[key]; ok {
		return len(e.callbacks)
	}
	return 0
}

// KeyCount количество зарегистрированных ключей
func (m *Multiplexer) KeyCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Multiplexer) subscribeLocked(e *entry) error {
	conn, err := m.feed.Subscribe(m.ctx, e.spotID, func() { m.onChange(e) })
	if err != nil {
		if m.metrics != nil {
			m.metrics.IncFeedSubscribeErrors()
		}
		return err
	}
	e.conn = conn
	return nil
}

func (m *Multiplexer) scheduleRetryLocked(e *entry) {
	e.retry = time.AfterFunc(m.retry, func() { m.resubscribe(e) })
}

func (m *Multiplexer) resubscribe(e *entry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || m.entries[e.key] != e || e.conn != nil {
		return
	}

	if err := m.subscribeLocked(e); err != nil {
		m.logger.Warn("resubscribe: key=%s still failing, retry in %s: %v", e.key, m.retry, err)
		m.scheduleRetryLocked(e)
		return
	}

	m.logger.Info("resubscribe: key=%s subscribed to spot=%d", e.key, e.spotID)
	m.reportLocked()

	// изменения за время без подписки могли быть пропущены
	m.scheduleLocked(e)
}

// onChange вызывается из горутины ленты и не блокируется:
// пока callback не вернул управление, лента не вычитывает следующие уведомления
func (m *Multiplexer) onChange(e *entry) {
	if !e.signaled.CompareAndSwap(false, true) {
		return
	}
	go m.signal(e)
}

func (m *Multiplexer) signal(e *entry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e.signaled.Store(false)
	if m.closed || m.entries[e.key] != e {
		return
	}
	m.scheduleLocked(e)
}

// scheduleLocked запускает окно debounce, если оно еще не запущено
// Все уведомления внутри окна схлопываются в один вызов callback
func (m *Multiplexer) scheduleLocked(e *entry) {
	if e.pending != nil {
		return
	}
	e.pending = time.AfterFunc(m.debounce, func() { m.fire(e) })
}

func (m *Multiplexer) fire(e *entry) {
	m.mu.Lock()
	e.pending = nil
	if m.closed || m.entries[e.key] != e {
		m.mu.Unlock()
		return
	}

	callbacks := make([]func(), 0, len(e.callbacks))
	for _, cb := range e.callbacks {
		callbacks = append(callbacks, cb)
	}
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.AddFeedNotifications(len(callbacks))
	}

	for _, cb := range callbacks {
		cb()
	}
}

// detachLocked удаляет ключ и возвращает подписку, которую нужно закрыть после снятия мьютекса
func (m *Multiplexer) detachLocked(e *entry) io.Closer {
	if e.pending != nil {
		e.pending.Stop()
		e.pending = nil
	}
	if e.retry != nil {
		e.retry.Stop()
		e.retry = nil
	}
	delete(m.entries, e.key)

	conn := e.conn
	e.conn = nil
	return conn
}

func (m *Multiplexer) connectionsLocked() int {
	n := 0
	for _, e := range m.entries {
		if e.conn != nil {
			n++
		}
	}
	return n
}

func (m *Multiplexer) reportLocked() {
	if m.metrics == nil {
		return
	}

	callbacks := 0
	for _, e := range m.entries {
		callbacks += len(e.callbacks)
	}
	m.metrics.SetFeedConnections(m.connectionsLocked())
	m.metrics.SetFeedCallbacks(callbacks)
}
