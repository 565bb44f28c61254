package check_eligibility

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/eligibility"
)

// SpotRepository интерфейс репозитория парковочных мест
type SpotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Spot, error)
}

// BlockRepository интерфейс чтения ручных блокировок
type BlockRepository interface {
	ListBlocks(ctx context.Context, spotID int64, from, to time.Time) ([]domain.SlotBlock, error)
}

// Calculator интерфейс калькулятора доступности
type Calculator interface {
	ComputeOrOptimistic(ctx context.Context, w domain.AvailabilityWindow) domain.AvailabilityResult
}

// Gate интерфейс гейта допустимости бронирования
type Gate interface {
	Evaluate(s eligibility.Slot, now time.Time) domain.EligibilityDecision
	Policy() eligibility.Policy
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
