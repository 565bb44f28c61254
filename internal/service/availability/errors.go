package availability

import "errors"

var (
	// ErrQueryFailed возвращается, когда не удалось получить интервалы из хранилища
	ErrQueryFailed = errors.New("availability: booking store query failed")

	// ErrQueryTimeout возвращается, когда запрос к хранилищу не уложился в таймаут
	ErrQueryTimeout = errors.New("availability: booking store query timed out")
)
