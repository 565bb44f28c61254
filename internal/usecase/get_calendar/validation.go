package get_calendar

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

	if req.Month.IsZero() {
		return fmt.Errorf("%w: month is required", ErrInvalidInput)
	}

	// Почасовые брони выбираются в сетке на день, а не в календаре
	if req.Type != domain.BookingDaily && req.Type != domain.BookingMonthly {
		return fmt.Errorf("%w: calendar supports daily and monthly bookings, got %q", ErrInvalidInput, req.Type)
	}

	return nil
}

// validateMonth проверяет, что месяц не закончился
func validateMonth(monthStart, now time.Time) error {
	monthEnd := monthStart.AddDate(0, 1, 0)
	if !monthEnd.After(domain.StartOfDay(now.In(monthStart.Location()))) {
		return fmt.Errorf("%w: %s", ErrInvalidDate, monthStart.Format(domain.MonthFormat))
	}
	return nil
}
