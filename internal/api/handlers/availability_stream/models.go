package availability_stream

import (
	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

const eventAvailability = "availability"

// AvailabilityEvent данные события availability
type AvailabilityEvent struct {
	SpotID         int64  `json:"spotId"`
	Key            string `json:"key"`
	TotalSlots     int    `json:"totalSlots"`
	AvailableSlots int    `json:"availableSlots"`
	BookedSlots    int    `json:"bookedSlots"`
	Loading        bool   `json:"loading"`
}

// NewAvailabilityEvent создает событие из текущего значения подписки
func NewAvailabilityEvent(spotID int64, totalSlots int, key domain.SubscriptionKey, v domain.AvailabilityResult) AvailabilityEvent {
	return AvailabilityEvent{
		SpotID:         spotID,
		Key:            key.String(),
		TotalSlots:     totalSlots,
		AvailableSlots: v.AvailableSlots,
		BookedSlots:    v.BookedSlots,
		Loading:        v.Loading,
	}
}
