package check_eligibility

import (
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// Request модель запроса проверки возможности бронирования
type Request struct {
	SpotID int64
	Type   domain.BookingType
	// Start начало часового слота, для daily и monthly - дата начала
	Start time.Time
}

// Response модель ответа гейта
type Response struct {
	SpotID         int64
	Type           domain.BookingType
	Start          time.Time
	End            time.Time
	Status         domain.EligibilityStatus
	Bookable       bool
	Price          *float64
	AvailableSlots int
	TotalSlots     int
}
