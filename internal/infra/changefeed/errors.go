package changefeed

import "errors"

var (
	// ErrClosed возвращается при подписке на закрытую ленту
	ErrClosed = errors.New("changefeed: closed")

	// ErrNotConnected возвращается, когда соединение LISTEN сейчас не установлено
	ErrNotConnected = errors.New("changefeed: listener is not connected")

	// ErrListen возвращается при ошибке LISTEN
	ErrListen = errors.New("changefeed: failed to listen channel")
)
