package get_availability

import (
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	getAvailability "github.com/m04kA/SMC-ParkingService/internal/usecase/get_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	SpotID         int64   `json:"spotId"`
	Mode           string  `json:"mode"`
	WindowStart    string  `json:"windowStart"`
	WindowEnd      string  `json:"windowEnd"`
	TotalSlots     int     `json:"totalSlots"`
	AvailableSlots int     `json:"availableSlots"`
	BookedSlots    int     `json:"bookedSlots"`
	OccupancyRate  float64 `json:"occupancyRate"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	return &AvailabilityResponse{
		SpotID:         resp.SpotID,
		Mode:           string(resp.Mode),
		WindowStart:    resp.WindowStart.Format(time.RFC3339),
		WindowEnd:      resp.WindowEnd.Format(time.RFC3339),
		TotalSlots:     resp.TotalSlots,
		AvailableSlots: resp.AvailableSlots,
		BookedSlots:    resp.BookedSlots,
		OccupancyRate:  resp.OccupancyRate,
	}
}

// ToUseCaseRequest создает запрос use case
func ToUseCaseRequest(spotID int64, spec domain.WindowSpec) *getAvailability.Request {
	return &getAvailability.Request{
		SpotID: spotID,
		Spec:   spec,
	}
}
