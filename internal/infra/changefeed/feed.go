package changefeed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/lib/pq"
)

// Config параметры ленты изменений
type Config struct {
	// ChannelPrefix префикс канала, полный канал: <prefix>_<spotID>
	ChannelPrefix string
	MinReconnect  time.Duration
	MaxReconnect  time.Duration
	// PingInterval период проверки соединения, 0 отключает проверку
	PingInterval time.Duration
}

// Feed лента изменений бронирований поверх PostgreSQL LISTEN/NOTIFY
// Одно соединение на процесс, один канал на spot. Каналы считаются по ссылкам:
// LISTEN выполняется при первой подписке на spot, UNLISTEN - при закрытии последней.
// Триггер на таблице bookings публикует NOTIFY <prefix>_<spot_id> на каждое изменение
//
// LISTEN/UNLISTEN ждут ответа сервера, а соединение pq не читает ответ, пока канал уведомлений
// переполнен. Поэтому вызовы listener сериализуются отдельным listenMu, а раздача берет только mu
type Feed struct {
	listener Listener
	prefix   string
	ping     time.Duration
	logger   Logger

	listenMu sync.Mutex

	mu     sync.Mutex
	subs   map[string]map[uint64]func()
	nextID uint64
	closed bool

	done chan struct{}
	wg   sync.WaitGroup
}

// NewPostgresFeed открывает LISTEN соединение к PostgreSQL
func NewPostgresFeed(dsn string, cfg Config, logger Logger) *Feed {
	listener := pq.NewListener(dsn, cfg.MinReconnect, cfg.MaxReconnect, eventLogger(logger))
	return New(listener, cfg, logger)
}

// New создает ленту поверх готового соединения и запускает раздачу уведомлений
func New(listener Listener, cfg Config, logger Logger) *Feed {
	prefix := cfg.ChannelPrefix
	if prefix == "" {
		prefix = "spot_bookings"
	}

	f := &Feed{
		listener: listener,
		prefix:   prefix,
		ping:     cfg.PingInterval,
		logger:   logger,
		subs:     make(map[string]map[uint64]func()),
		done:     make(chan struct{}),
	}

	f.wg.Add(1)
	go f.dispatch()

	return f
}

// ChannelName имя канала LISTEN для spot
func ChannelName(prefix string, spotID int64) string {
	return prefix + "_" + strconv.FormatInt(spotID, 10)
}

// Subscribe подписывается на изменения бронирований spot
// onChange вызывается из горутины раздачи, никогда синхронно внутри Subscribe
func (f *Feed) Subscribe(ctx context.Context, spotID int64, onChange func()) (io.Closer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	channel := ChannelName(f.prefix, spotID)

	f.listenMu.Lock()
	defer f.listenMu.Unlock()

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil, ErrClosed
	}
	if _, ok := f.subs[channel]; ok {
		id := f.addLocked(channel, onChange)
		f.mu.Unlock()
		return &subscription{feed: f, channel: channel, id: id}, nil
	}
	f.mu.Unlock()

	// Listen блокируется, пока соединение не восстановлено, поэтому сначала проверяем его
	if err := f.listener.Ping(); err != nil {
		return nil, fmt.Errorf("%w: Subscribe - channel=%s: %v", ErrNotConnected, channel, err)
	}
	if err := f.listener.Listen(channel); err != nil && !errors.Is(err, pq.ErrChannelAlreadyOpen) {
		return nil, fmt.Errorf("%w: Subscribe - channel=%s: %v", ErrListen, channel, err)
	}
	f.logger.Info("Subscribe: LISTEN %s", channel)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, ErrClosed
	}
	f.subs[channel] = make(map[uint64]func())
	id := f.addLocked(channel, onChange)

	return &subscription{feed: f, channel: channel, id: id}, nil
}

func (f *Feed) addLocked(channel string, onChange func()) uint64 {
	f.nextID++
	f.subs[channel][f.nextID] = onChange
	return f.nextID
}

// Close закрывает соединение и останавливает раздачу
func (f *Feed) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	f.subs = make(map[string]map[uint64]func())
	f.mu.Unlock()

	close(f.done)
	err := f.listener.Close()
	f.wg.Wait()

	return err
}

// Channels количество каналов, на которые выполнен LISTEN
func (f *Feed) Channels() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

func (f *Feed) unsubscribe(channel string, id uint64) error {
	f.listenMu.Lock()
	defer f.listenMu.Unlock()

	f.mu.Lock()
	subs, ok := f.subs[channel]
	if !ok {
		f.mu.Unlock()
		return nil
	}
	delete(subs, id)
	if len(subs) > 0 {
		f.mu.Unlock()
		return nil
	}

	delete(f.subs, channel)
	closed := f.closed
	f.mu.Unlock()

	if closed {
		return nil
	}

	f.logger.Info("unsubscribe: UNLISTEN %s", channel)
	if err := f.listener.Unlisten(channel); err != nil && !errors.Is(err, pq.ErrChannelNotOpen) {
		return fmt.Errorf("%w: unsubscribe - channel=%s: %v", ErrListen, channel, err)
	}
	return nil
}

func (f *Feed) dispatch() {
	defer f.wg.Done()

	var tick <-chan time.Time
	if f.ping > 0 {
		ticker := time.NewTicker(f.ping)
		defer ticker.Stop()
		tick = ticker.C
	}

	notifications := f.listener.NotificationChannel()
	for {
		select {
		case <-f.done:
			return
		case <-tick:
			if err := f.listener.Ping(); err != nil {
				f.logger.Warn("dispatch: ping failed: %v", err)
			}
		case n, ok := <-notifications:
			if !ok {
				return
			}
			f.deliver(n)
		}
	}
}

// deliver раздает уведомление подписчикам канала
// nil приходит после переподключения: уведомления за время разрыва потеряны, будим всех
func (f *Feed) deliver(n *pq.Notification) {
	f.mu.Lock()
	var callbacks []func()
	if n == nil {
		for _, subs := range f.subs {
			for _, cb := range subs {
				callbacks = append(callbacks, cb)
			}
		}
	} else {
		for _, cb := range f.subs[n.Channel] {
			callbacks = append(callbacks, cb)
		}
	}
	f.mu.Unlock()

	if n == nil {
		f.logger.Warn("deliver: listener reconnected, notifying %d subscribers", len(callbacks))
	}

	for _, cb := range callbacks {
		cb()
	}
}

type subscription struct {
	feed    *Feed
	channel string
	id      uint64
	once    sync.Once
}

func (s *subscription) Close() error {
	var err error
	s.once.Do(func() {
		err = s.feed.unsubscribe(s.channel, s.id)
	})
	return err
}

func eventLogger(logger Logger) pq.EventCallbackType {
	return func(event pq.ListenerEventType, err error) {
		switch event {
		case pq.ListenerEventConnected:
			logger.Info("changefeed: listener connected")
		case pq.ListenerEventDisconnected:
			logger.Warn("changefeed: listener disconnected: %v", err)
		case pq.ListenerEventReconnected:
			logger.Info("changefeed: listener reconnected")
		case pq.ListenerEventConnectionAttemptFailed:
			logger.Error("changefeed: connection attempt failed: %v", err)
		}
	}
}
