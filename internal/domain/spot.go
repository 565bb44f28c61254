package domain

import "time"

// Spot парковочное место, выставленное владельцем
// TotalSlots - количество физических мест, сами места по отдельности не отслеживаются
type Spot struct {
	ID           int64
	TotalSlots   int
	HourlyPrice  float64
	DailyPrice   float64
	MonthlyPrice float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BasePrice базовая цена для типа бронирования без скидок
func (s *Spot) BasePrice(t BookingType) float64 {
	switch t {
	case BookingHourly:
		return s.HourlyPrice
	case BookingDaily:
		return s.DailyPrice
	case BookingMonthly:
		return s.MonthlyPrice
	default:
		return 0
	}
}

// LimitedThreshold количество свободных мест, ниже которого слот помечается как "мало мест"
// ceil(totalSlots / 2)
func LimitedThreshold(totalSlots int) int {
	return (totalSlots + 1) / 2
}
