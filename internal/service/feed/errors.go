package feed

import "errors"

var (
	// ErrClosed возвращается при регистрации в закрытом мультиплексоре
	ErrClosed = errors.New("feed.multiplexer: closed")

	// ErrNilCallback возвращается при регистрации без callback
	ErrNilCallback = errors.New("feed.multiplexer: callback is nil")
)
