package watch_availability

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// SpotRepository интерфейс репозитория парковочных мест
type SpotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Spot, error)
}

// Binding живое значение доступности одного потребителя
type Binding interface {
	Bind(ctx context.Context, spotID int64, totalSlots int, spec domain.WindowSpec) error
	Value() domain.AvailabilityResult
	Key() domain.SubscriptionKey
	Updates() <-chan domain.AvailabilityResult
	Close()
}

// BindingFactory создает binding на каждого потребителя
type BindingFactory func() Binding

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
