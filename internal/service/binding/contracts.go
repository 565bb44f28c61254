package binding

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/feed"
)

// Calculator интерфейс калькулятора доступности
type Calculator interface {
	Compute(ctx context.Context, w domain.AvailabilityWindow) (domain.AvailabilityResult, error)
}

// Multiplexer интерфейс мультиплексора подписок
type Multiplexer interface {
	Register(key domain.SubscriptionKey, spotID int64, onChange func()) (feed.Handle, error)
	Unregister(h feed.Handle)
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
