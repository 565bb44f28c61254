package get_calendar

import (
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	getCalendar "github.com/m04kA/SMC-ParkingService/internal/usecase/get_calendar"
)

// CalendarResponse HTTP response model
type CalendarResponse struct {
	SpotID     int64         `json:"spotId"`
	Month      string        `json:"month"`
	Type       string        `json:"type"`
	TotalSlots int           `json:"totalSlots"`
	BasePrice  float64       `json:"basePrice"`
	Days       []CalendarDay `json:"days"`
}

// CalendarDay модель дня календаря
type CalendarDay struct {
	Date           string   `json:"date"`
	AvailableSlots int      `json:"availableSlots"`
	BookedSlots    int      `json:"bookedSlots"`
	Status         string   `json:"status"`
	Price          *float64 `json:"price,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getCalendar.Response) *CalendarResponse {
	days := make([]CalendarDay, len(resp.Days))
	for i, day := range resp.Days {
		days[i] = CalendarDay{
			Date:           day.Date.Format(domain.DateFormat),
			AvailableSlots: day.AvailableSlots,
			BookedSlots:    day.BookedSlots,
			Status:         string(day.Status),
			Price:          day.Price,
		}
	}

	return &CalendarResponse{
		SpotID:     resp.SpotID,
		Month:      resp.Month.Format(domain.MonthFormat),
		Type:       string(resp.Type),
		TotalSlots: resp.TotalSlots,
		BasePrice:  resp.BasePrice,
		Days:       days,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(spotID int64, monthStr, typeStr string, loc *time.Location) (*getCalendar.Request, error) {
	month, err := time.ParseInLocation(domain.MonthFormat, monthStr, loc)
	if err != nil {
		return nil, err
	}

	bookingType, err := domain.ParseBookingType(typeStr)
	if err != nil {
		return nil, err
	}

	return &getCalendar.Request{
		SpotID: spotID,
		Month:  month,
		Type:   bookingType,
	}, nil
}
