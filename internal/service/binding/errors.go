package binding

import "errors"

var (
	// ErrClosed возвращается при Bind на закрытом binding
	ErrClosed = errors.New("binding: closed")
)
