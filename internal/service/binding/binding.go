package binding

import (
	"context"
	"sync"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/availability"
	"github.com/m04kA/SMC-ParkingService/internal/service/feed"
)

// Binding живое значение доступности для одного потребителя (spot, окно)
//
// Жизненный цикл:
// 1. Bind считает доступность сразу и регистрируется в мультиплексоре
// 2. Каждое уведомление мультиплексора перезапускает запрос
// 3. Bind с тем же окном ничего не делает, с другим ключом - перерегистрируется и пересчитывает
//    Тот же ключ с другим окном (горизонт rolling) пересчитывает без перерегистрации
// 4. Close снимает регистрацию и отменяет запросы в полете, их результаты отбрасываются
//
// Ошибки запроса переводятся в оптимистичное значение на этой границе
type Binding struct {
	calc   Calculator
	mux    Multiplexer
	clock  TimeProvider
	logger Logger

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	closed bool

	bound  bool
	spotID int64
	total  int
	spec   domain.WindowSpec
	key    domain.SubscriptionKey
	handle feed.Handle
	// gen увеличивается при каждой смене параметров, результаты старых поколений отбрасываются
	gen uint64

	value   domain.AvailabilityResult
	updates chan domain.AvailabilityResult
}

// New создает новый binding
func New(calc Calculator, mux Multiplexer, clock TimeProvider, logger Logger) *Binding {
	if clock == nil {
		clock = &RealTimeProvider{}
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Binding{
		calc:    calc,
		mux:     mux,
		clock:   clock,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		updates: make(chan domain.AvailabilityResult, 1),
	}
}

// Bind привязывает binding к spot и окну
// Первичный расчет выполняется синхронно, к возврату Value уже содержит результат
func (b *Binding) Bind(ctx context.Context, spotID int64, totalSlots int, spec domain.WindowSpec) error {
	w, err := spec.Build(spotID, totalSlots, b.clock.Now())
	if err != nil {
		return err
	}
	key := spec.Key(spotID)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}

	if b.bound && b.key == key && b.total == totalSlots && b.spec.Equal(spec) {
		b.mu.Unlock()
		return nil
	}

	sameKey := b.bound && b.key == key
	if !sameKey {
		if b.bound {
			b.mux.Unregister(b.handle)
			b.handle = feed.Handle{}
		}

		h, err := b.mux.Register(key, spotID, b.onChange)
		if err != nil {
			b.logger.Warn("Bind: key=%s register failed, live updates disabled: %v", key, err)
		}
		b.handle = h
	}

	b.bound = true
	b.spotID = spotID
	b.total = totalSlots
	b.spec = spec
	b.key = key
	b.gen++
	gen := b.gen
	b.setLocked(domain.LoadingResult(totalSlots))
	b.mu.Unlock()

	res, err := b.calc.Compute(ctx, w)
	b.apply(gen, totalSlots, res, err)

	return nil
}

// Value текущее значение доступности
func (b *Binding) Value() domain.AvailabilityResult {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.value
}

// Key текущий ключ подписки
func (b *Binding) Key() domain.SubscriptionKey {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.key
}

// Updates канал обновлений значения
// Хранит только последнее значение, закрывается в Close
func (b *Binding) Updates() <-chan domain.AvailabilityResult {
	return b.updates
}

// Close снимает регистрацию и отменяет запросы в полете
func (b *Binding) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.cancel()

	h := b.handle
	b.handle = feed.Handle{}
	b.bound = false
	close(b.updates)
	b.mu.Unlock()

	b.mux.Unregister(h)
}

func (b *Binding) onChange() {
	go b.refresh()
}

func (b *Binding) refresh() {
	b.mu.Lock()
	if b.closed || !b.bound {
		b.mu.Unlock()
		return
	}
	gen, spotID, total, spec, ctx := b.gen, b.spotID, b.total, b.spec, b.ctx
	b.mu.Unlock()

	w, err := spec.Build(spotID, total, b.clock.Now())
	if err != nil {
		b.logger.Error("refresh: spot=%d build window: %v", spotID, err)
		return
	}

	res, err := b.calc.Compute(ctx, w)
	if ctx.Err() != nil {
		return
	}
	b.apply(gen, total, res, err)
}

// apply сохраняет результат, если binding жив и параметры не менялись
// Побеждает результат, пришедший последним
func (b *Binding) apply(gen uint64, total int, res domain.AvailabilityResult, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed || gen != b.gen {
		return
	}
	if err != nil {
		b.logger.Warn("apply: key=%s query failed, using optimistic value: %v", b.key, err)
	}
	b.setLocked(availability.OrOptimistic(res, err, total))
}

func (b *Binding) setLocked(v domain.AvailabilityResult) {
	b.value = v
	select {
	case <-b.updates:
	default:
	}
	select {
	case b.updates <- v:
	default:
	}
}
