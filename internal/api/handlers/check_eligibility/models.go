package check_eligibility

import (
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	checkEligibility "github.com/m04kA/SMC-ParkingService/internal/usecase/check_eligibility"
)

// EligibilityResponse HTTP response model
type EligibilityResponse struct {
	SpotID         int64    `json:"spotId"`
	Type           string   `json:"type"`
	Start          string   `json:"start"`
	End            string   `json:"end"`
	Status         string   `json:"status"`
	Bookable       bool     `json:"bookable"`
	Price          *float64 `json:"price,omitempty"`
	AvailableSlots int      `json:"availableSlots"`
	TotalSlots     int      `json:"totalSlots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *checkEligibility.Response) *EligibilityResponse {
	return &EligibilityResponse{
		SpotID:         resp.SpotID,
		Type:           string(resp.Type),
		Start:          resp.Start.Format(time.RFC3339),
		End:            resp.End.Format(time.RFC3339),
		Status:         string(resp.Status),
		Bookable:       resp.Bookable,
		Price:          resp.Price,
		AvailableSlots: resp.AvailableSlots,
		TotalSlots:     resp.TotalSlots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
// Для hourly требуется time, для daily и monthly только date
func ToUseCaseRequest(spotID int64, typeStr, dateStr, timeStr string, loc *time.Location) (*checkEligibility.Request, error) {
	bookingType, err := domain.ParseBookingType(typeStr)
	if err != nil {
		return nil, err
	}

	var start time.Time
	if bookingType == domain.BookingHourly {
		start, err = handlers.ParseDateTime(dateStr, timeStr, loc)
	} else {
		start, err = handlers.ParseDate(dateStr, loc)
	}
	if err != nil {
		return nil, err
	}

	return &checkEligibility.Request{
		SpotID: spotID,
		Type:   bookingType,
		Start:  start,
	}, nil
}
