package changefeed

import "github.com/lib/pq"

// Listener интерфейс LISTEN/NOTIFY соединения, реализуется *pq.Listener
type Listener interface {
	Listen(channel string) error
	Unlisten(channel string) error
	Ping() error
	NotificationChannel() <-chan *pq.Notification
	Close() error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
