package domain

import "errors"

var (
	// ErrInvalidWindow возвращается при попытке построить некорректное окно доступности
	ErrInvalidWindow = errors.New("domain: invalid availability window")
)
