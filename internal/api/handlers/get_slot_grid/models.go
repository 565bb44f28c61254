package get_slot_grid

import (
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	getSlotGrid "github.com/m04kA/SMC-ParkingService/internal/usecase/get_slot_grid"
)

// SlotGridResponse HTTP response model
type SlotGridResponse struct {
	SpotID      int64      `json:"spotId"`
	Date        string     `json:"date"`
	TotalSlots  int        `json:"totalSlots"`
	HourlyPrice float64    `json:"hourlyPrice"`
	Slots       []GridSlot `json:"slots"`
}

// GridSlot модель часового слота
type GridSlot struct {
	StartTime      string   `json:"startTime"`
	EndTime        string   `json:"endTime"`
	AvailableSlots int      `json:"availableSlots"`
	BookedSlots    int      `json:"bookedSlots"`
	Status         string   `json:"status"`
	Price          *float64 `json:"price,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getSlotGrid.Response) *SlotGridResponse {
	slots := make([]GridSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = GridSlot{
			StartTime:      slot.Start.Format(domain.TimeFormat),
			EndTime:        slot.End.Format(domain.TimeFormat),
			AvailableSlots: slot.AvailableSlots,
			BookedSlots:    slot.BookedSlots,
			Status:         string(slot.Status),
			Price:          slot.Price,
		}
	}

	return &SlotGridResponse{
		SpotID:      resp.SpotID,
		Date:        resp.Date.Format(domain.DateFormat),
		TotalSlots:  resp.TotalSlots,
		HourlyPrice: resp.HourlyPrice,
		Slots:       slots,
	}
}
