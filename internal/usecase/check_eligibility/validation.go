package check_eligibility

import (
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.SpotID <= 0 {
		return fmt.Errorf("%w: spotID must be positive", ErrInvalidInput)
	}

	if _, err := domain.ParseBookingType(string(req.Type)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if req.Start.IsZero() {
		return fmt.Errorf("%w: start is required", ErrInvalidInput)
	}

	return nil
}
