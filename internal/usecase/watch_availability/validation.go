package watch_availability

import (
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.SpotID <= 0 {
		return fmt.Errorf("%w: spotID must be positive", ErrInvalidInput)
	}

	if !req.Spec.Mode.IsValid() {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, req.Spec.Mode)
	}

	if req.Spec.Mode != domain.WindowRolling && req.Spec.Start.IsZero() {
		return fmt.Errorf("%w: start is required for mode %s", ErrInvalidInput, req.Spec.Mode)
	}

	if req.Spec.Horizon < 0 {
		return fmt.Errorf("%w: horizon must not be negative", ErrInvalidInput)
	}

	return nil
}
