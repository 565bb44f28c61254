package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// BookingStore интерфейс хранилища бронирований
// Возвращает интервалы, пересекающиеся с [from, to); фильтрация по статусу выполняется калькулятором
type BookingStore interface {
	FetchIntervals(ctx context.Context, spotID int64, from, to time.Time) ([]domain.BookingInterval, error)
}

// Metrics интерфейс метрик запросов доступности
type Metrics interface {
	ObserveAvailabilityQuery(mode, outcome string, duration time.Duration)
	IncAvailabilityFallback(mode string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
