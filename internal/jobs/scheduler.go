package jobs

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// JobRollingRefresh имя задачи обновления скользящих окон
const JobRollingRefresh = "rolling_refresh"

// Scheduler планировщик фоновых задач
type Scheduler struct {
	cron     *cron.Cron
	notifier Notifier
	metrics  Metrics
	logger   Logger
}

// NewScheduler создает планировщик
func NewScheduler(notifier Notifier, metrics Metrics, logger Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
	}
}

// ScheduleRollingRefresh регистрирует задачу обновления скользящих окон
// Скользящее окно привязано к "сейчас" и устаревает даже без изменений бронирований,
// поэтому ключи rolling периодически получают уведомление и пересчитываются
func (s *Scheduler) ScheduleRollingRefresh(spec string) error {
	if _, err := s.cron.AddFunc(spec, func() { s.RefreshRolling() }); err != nil {
		return fmt.Errorf("%w: ScheduleRollingRefresh - spec %q: %v", ErrInvalidSchedule, spec, err)
	}
	s.logger.Info("ScheduleRollingRefresh: scheduled with %q", spec)
	return nil
}

// RefreshRolling уведомляет все ключи скользящих окон
func (s *Scheduler) RefreshRolling() int {
	n := s.notifier.NotifyMatching(domain.SubscriptionKey.IsRolling)
	if n > 0 {
		s.logger.Info("RefreshRolling: notified %d rolling keys", n)
	}
	if s.metrics != nil {
		s.metrics.ObserveJobRun(JobRollingRefresh, nil)
	}
	return n
}

// Start запускает планировщик
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop останавливает планировщик и ждет завершения запущенных задач
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("Stop: running jobs did not finish: %v", ctx.Err())
	}
}
