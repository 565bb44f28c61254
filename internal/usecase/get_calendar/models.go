package get_calendar

import (
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// Request модель запроса календаря
type Request struct {
	SpotID int64              // ID парковочного места
	Month  time.Time          // Любая дата внутри месяца
	Type   domain.BookingType // daily или monthly
}

// Response модель ответа с календарем на месяц
type Response struct {
	SpotID     int64
	Month      time.Time // Первое число месяца
	Type       domain.BookingType
	TotalSlots int
	BasePrice  float64
	Days       []Day
}

// Day модель дня календаря
// Для monthly окно дня - месяц, начинающийся с этой даты
type Day struct {
	Date           time.Time
	AvailableSlots int
	BookedSlots    int
	Status         domain.EligibilityStatus
	Price          *float64
}
