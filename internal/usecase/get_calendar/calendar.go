package get_calendar

import (
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/availability"
	"github.com/m04kA/SMC-ParkingService/internal/service/eligibility"
)

// startOfMonth возвращает первое число месяца в часовом поясе t
func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// dayWindow окно, которое занимает бронь выбранного типа, начинающаяся в day
func dayWindow(day time.Time, bookingType domain.BookingType) domain.Interval {
	if bookingType == domain.BookingMonthly {
		return domain.Interval{Start: day, End: day.AddDate(0, 1, 0)}
	}
	return domain.Interval{Start: day, End: day.AddDate(0, 0, 1)}
}

// fetchRange диапазон, покрывающий окна всех дней месяца
func fetchRange(monthStart time.Time, bookingType domain.BookingType) (time.Time, time.Time) {
	lastDay := monthStart.AddDate(0, 1, -1)
	return monthStart, dayWindow(lastDay, bookingType).End
}

// buildCalendar считает доступность и решение гейта для каждого дня месяца
func buildCalendar(
	spot *domain.Spot,
	monthStart time.Time,
	bookingType domain.BookingType,
	intervals []domain.BookingInterval,
	blocks []domain.SlotBlock,
	gate Gate,
	now time.Time,
) []Day {
	monthEnd := monthStart.AddDate(0, 1, 0)
	basePrice := spot.BasePrice(bookingType)

	days := make([]Day, 0, 31)
	for day := monthStart; day.Before(monthEnd); day = day.AddDate(0, 0, 1) {
		window := dayWindow(day, bookingType)
		res := availability.CountExactSlot(spot.TotalSlots, intervals, window)

		decision := gate.Evaluate(eligibility.Slot{
			Type:         bookingType,
			Start:        window.Start,
			End:          window.End,
			TotalSlots:   spot.TotalSlots,
			Availability: res,
			Blocked:      isBlocked(window, blocks),
			BasePrice:    basePrice,
		}, now)

		days = append(days, Day{
			Date:           day,
			AvailableSlots: res.AvailableSlots,
			BookedSlots:    res.BookedSlots,
			Status:         decision.Status,
			Price:          decision.Price,
		})
	}

	return days
}

func isBlocked(window domain.Interval, blocks []domain.SlotBlock) bool {
	for _, b := range blocks {
		if domain.Overlaps(window, b.Interval) {
			return true
		}
	}
	return false
}
