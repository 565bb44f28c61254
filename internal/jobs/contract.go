package jobs

import "github.com/m04kA/SMC-ParkingService/internal/domain"

// Notifier интерфейс мультиплексора для принудительного уведомления ключей
type Notifier interface {
	NotifyMatching(match func(domain.SubscriptionKey) bool) int
}

// Metrics интерфейс метрик фоновых задач
type Metrics interface {
	ObserveJobRun(job string, err error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
