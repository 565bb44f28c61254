package availability_stream

import (
	"context"

	watchAvailability "github.com/m04kA/SMC-ParkingService/internal/usecase/watch_availability"
)

type WatchAvailabilityUseCase interface {
	Execute(ctx context.Context, req *watchAvailability.Request) (*watchAvailability.Response, error)
}

// Metrics учет открытых потоков
type Metrics interface {
	StreamOpened()
	StreamClosed()
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
