package domain

// AvailabilityResult количество свободных и занятых мест для окна
type AvailabilityResult struct {
	AvailableSlots int
	BookedSlots    int
	Loading        bool
}

// OptimisticResult результат по умолчанию при ошибке запроса: все места свободны
// Лучше показать ошибочно свободное место, чем ложное "мест нет"
func OptimisticResult(totalSlots int) AvailabilityResult {
	return AvailabilityResult{
		AvailableSlots: totalSlots,
		BookedSlots:    0,
		Loading:        false,
	}
}

// LoadingResult результат на время первого запроса
func LoadingResult(totalSlots int) AvailabilityResult {
	return AvailabilityResult{
		AvailableSlots: totalSlots,
		BookedSlots:    0,
		Loading:        true,
	}
}

// TotalSlots returns the capacity the result was computed for
func (r AvailabilityResult) TotalSlots() int {
	return r.AvailableSlots + r.BookedSlots
}

// IsFull returns true if the window has no available slots
func (r AvailabilityResult) IsFull() bool {
	return !r.Loading && r.AvailableSlots <= 0
}

// IsFullyAvailable returns true if no slot is booked
func (r AvailabilityResult) IsFullyAvailable() bool {
	return r.BookedSlots == 0
}

// OccupancyRate returns the occupancy rate as a percentage (0-100)
func (r AvailabilityResult) OccupancyRate() float64 {
	total := r.TotalSlots()
	if total == 0 {
		return 0
	}
	return float64(r.BookedSlots) / float64(total) * 100
}
