package feed

import (
	"context"
	"io"
)

// ChangeFeed источник уведомлений об изменениях бронирований
// Subscribe открывает подписку на изменения бронирований одного spot (фильтр на стороне сервера).
// onChange не должен вызываться синхронно внутри Subscribe
type ChangeFeed interface {
	Subscribe(ctx context.Context, spotID int64, onChange func()) (io.Closer, error)
}

// Metrics интерфейс метрик мультиплексора
type Metrics interface {
	SetFeedConnections(n int)
	SetFeedCallbacks(n int)
	AddFeedNotifications(n int)
	IncFeedSubscribeErrors()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
