package watch_availability

import (
	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// Request модель запроса на подписку
type Request struct {
	SpotID int64
	Spec   domain.WindowSpec
}

// Response открытая подписка на доступность
// Вызывающий обязан вызвать Close, когда потребитель отключился
type Response struct {
	SpotID     int64
	TotalSlots int
	Key        domain.SubscriptionKey
	Initial    domain.AvailabilityResult
	// Updates закрывается после Close
	Updates <-chan domain.AvailabilityResult
	Close   func()
}
