package eligibility

import "errors"

var (
	// ErrInvalidPolicy возвращается при несогласованных константах политики
	ErrInvalidPolicy = errors.New("eligibility: invalid booking policy")
)
