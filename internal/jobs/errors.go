package jobs

import "errors"

var (
	// ErrInvalidSchedule возвращается при некорректном cron выражении
	ErrInvalidSchedule = errors.New("jobs: invalid schedule")
)
