package get_slot_grid

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.SpotID <= 0 {
		return fmt.Errorf("%w: spotID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

// validateDate проверяет, что дата не раньше сегодняшней
func validateDate(date, now time.Time) error {
	if domain.StartOfDay(date).Before(domain.StartOfDay(now.In(date.Location()))) {
		return fmt.Errorf("%w: %s", ErrInvalidDate, date.Format(domain.DateFormat))
	}
	return nil
}
