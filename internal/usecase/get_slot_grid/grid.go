package get_slot_grid

import (
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/availability"
	"github.com/m04kA/SMC-ParkingService/internal/service/eligibility"
)

// hourlySlots нарезает день на часовые слоты [00:00, 01:00), ..., [23:00, 24:00)
func hourlySlots(dayStart time.Time) []domain.Interval {
	dayEnd := dayStart.AddDate(0, 0, 1)

	slots := make([]domain.Interval, 0, 24)
	for start := dayStart; start.Before(dayEnd); start = start.Add(domain.HourlySlotDuration) {
		slots = append(slots, domain.Interval{Start: start, End: start.Add(domain.HourlySlotDuration)})
	}
	return slots
}

// isBlocked проверяет, что слот пересекается хотя бы с одной блокировкой
func isBlocked(slot domain.Interval, blocks []domain.SlotBlock) bool {
	for _, b := range blocks {
		if domain.Overlaps(slot, b.Interval) {
			return true
		}
	}
	return false
}

// buildGrid считает доступность и решение гейта для каждого часа
func buildGrid(
	spot *domain.Spot,
	slots []domain.Interval,
	intervals []domain.BookingInterval,
	blocks []domain.SlotBlock,
	gate Gate,
	now time.Time,
) []Slot {
	grid := make([]Slot, 0, len(slots))

	for _, slot := range slots {
		res := availability.CountExactSlot(spot.TotalSlots, intervals, slot)

		decision := gate.Evaluate(eligibility.Slot{
			Type:         domain.BookingHourly,
			Start:        slot.Start,
			End:          slot.End,
			TotalSlots:   spot.TotalSlots,
			Availability: res,
			Blocked:      isBlocked(slot, blocks),
			BasePrice:    spot.HourlyPrice,
		}, now)

		grid = append(grid, Slot{
			Start:          slot.Start,
			End:            slot.End,
			AvailableSlots: res.AvailableSlots,
			BookedSlots:    res.BookedSlots,
			Status:         decision.Status,
			Price:          decision.Price,
		})
	}

	return grid
}
