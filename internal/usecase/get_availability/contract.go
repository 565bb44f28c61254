package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// SpotRepository интерфейс репозитория парковочных мест
type SpotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Spot, error)
}

// Calculator интерфейс калькулятора доступности
// Ошибки запроса уже переведены в оптимистичное значение
type Calculator interface {
	ComputeOrOptimistic(ctx context.Context, w domain.AvailabilityWindow) domain.AvailabilityResult
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
