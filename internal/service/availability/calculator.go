package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// Query outcomes for metrics
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
)

// Config параметры калькулятора
type Config struct {
	CheckpointCount int
	QueryTimeout    time.Duration
}

// Calculator калькулятор доступности
// Получает интервалы из хранилища и считает доступность для окна.
// Ошибки возвращаются как есть, перевод в оптимистичное значение - через OrOptimistic
type Calculator struct {
	store           BookingStore
	checkpointCount int
	queryTimeout    time.Duration
	metrics         Metrics
	logger          Logger
}

// NewCalculator создает новый экземпляр калькулятора
func NewCalculator(store BookingStore, cfg Config, metrics Metrics, logger Logger) *Calculator {
	if cfg.CheckpointCount < domain.MinCheckpointCount {
		cfg.CheckpointCount = domain.DefaultCheckpointCount
	}
	if cfg.CheckpointCount > domain.MaxCheckpointCount {
		cfg.CheckpointCount = domain.MaxCheckpointCount
	}

	return &Calculator{
		store:           store,
		checkpointCount: cfg.CheckpointCount,
		queryTimeout:    cfg.QueryTimeout,
		metrics:         metrics,
		logger:          logger,
	}
}

// Compute получает интервалы окна и считает доступность
func (c *Calculator) Compute(ctx context.Context, w domain.AvailabilityWindow) (domain.AvailabilityResult, error) {
	if w.IsZero() {
		return domain.AvailabilityResult{}, fmt.Errorf("%w: Compute - window was not constructed", domain.ErrInvalidWindow)
	}

	if c.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.queryTimeout)
		defer cancel()
	}

	mode := w.Kind().String()
	started := time.Now()

	intervals, err := c.store.FetchIntervals(ctx, w.SpotID(), w.Start(), w.End())
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			c.observe(mode, OutcomeTimeout, started)
			return domain.AvailabilityResult{}, fmt.Errorf("%w: Compute - spot=%d: %v", ErrQueryTimeout, w.SpotID(), err)
		}
		c.observe(mode, OutcomeError, started)
		return domain.AvailabilityResult{}, fmt.Errorf("%w: Compute - spot=%d: %v", ErrQueryFailed, w.SpotID(), err)
	}

	c.observe(mode, OutcomeOK, started)
	return Count(w, intervals, c.checkpointCount), nil
}

// ComputeOrOptimistic считает доступность и при любой ошибке возвращает оптимистичное значение
func (c *Calculator) ComputeOrOptimistic(ctx context.Context, w domain.AvailabilityWindow) domain.AvailabilityResult {
	res, err := c.Compute(ctx, w)
	if err != nil {
		c.logger.Warn("ComputeOrOptimistic: spot=%d mode=%s falling back to optimistic: %v", w.SpotID(), w.Kind(), err)
		if c.metrics != nil {
			c.metrics.IncAvailabilityFallback(w.Kind().String())
		}
	}
	return OrOptimistic(res, err, w.TotalSlots())
}

// CheckpointCount количество равномерных контрольных точек скользящего окна
func (c *Calculator) CheckpointCount() int {
	return c.checkpointCount
}

func (c *Calculator) observe(mode, outcome string, started time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.ObserveAvailabilityQuery(mode, outcome, time.Since(started))
}

// OrOptimistic переводит ошибку запроса в оптимистичное значение {total, 0, false}
// Лучше показать ошибочно свободное место, чем заблокировать бронирование из-за сбоя
func OrOptimistic(res domain.AvailabilityResult, err error, totalSlots int) domain.AvailabilityResult {
	if err != nil {
		return domain.OptimisticResult(totalSlots)
	}
	return res
}
