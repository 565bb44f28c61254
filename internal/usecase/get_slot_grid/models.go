package get_slot_grid

import (
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// Request модель запроса почасовой сетки
type Request struct {
	SpotID int64     // ID парковочного места
	Date   time.Time // Дата (время и часовой пояс берутся из политики)
}

// Response модель ответа с почасовой сеткой на день
type Response struct {
	SpotID      int64
	Date        time.Time
	TotalSlots  int
	HourlyPrice float64
	Slots       []Slot
}

// Slot модель часового слота
type Slot struct {
	Start          time.Time
	End            time.Time
	AvailableSlots int
	BookedSlots    int
	Status         domain.EligibilityStatus
	Price          *float64 // Цена с учетом оставшегося времени, только для доступных слотов
}
