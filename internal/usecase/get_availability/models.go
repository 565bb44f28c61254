package get_availability

import (
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// Request модель запроса доступности
type Request struct {
	SpotID int64             // ID парковочного места
	Spec   domain.WindowSpec // Окно: скользящее или конкретный слот/день/месяц
}

// Response модель ответа с доступностью
type Response struct {
	SpotID         int64
	Mode           domain.WindowMode
	WindowStart    time.Time
	WindowEnd      time.Time
	TotalSlots     int
	AvailableSlots int
	BookedSlots    int
	OccupancyRate  float64
}
