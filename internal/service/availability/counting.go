package availability

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// CountExactSlot считает занятые места в слоте
// Каждое подтвержденное или активное бронирование, пересекающееся со слотом, занимает одно место.
// Количество занятых мест ограничено сверху totalSlots, поэтому available + booked == totalSlots
//
// Примеры для слота 11:00-12:00:
// - бронирование 11:20-11:40 → пересекается
// - бронирование 10:00-11:00 → НЕ пересекается (граничат)
// - бронирование 12:00-12:30 → НЕ пересекается (граничат)
func CountExactSlot(totalSlots int, intervals []domain.BookingInterval, slot domain.Interval) domain.AvailabilityResult {
	booked := 0
	for i := range intervals {
		if !intervals[i].OccupiesSlot() {
			continue
		}
		if domain.Overlaps(intervals[i].Interval, slot) {
			booked++
		}
	}

	if booked > totalSlots {
		booked = totalSlots
	}

	return domain.AvailabilityResult{
		AvailableSlots: totalSlots - booked,
		BookedSlots:    booked,
	}
}

// CountRollingLookahead считает худшую загрузку окна по контрольным точкам
// В каждой точке t занятость = число бронирований с start <= t < end.
// Результат отражает максимум занятости по всем точкам, а не среднее
func CountRollingLookahead(totalSlots int, intervals []domain.BookingInterval, window domain.Interval, checkpointCount int) domain.AvailabilityResult {
	relevant := make([]domain.BookingInterval, 0, len(intervals))
	for i := range intervals {
		if intervals[i].OccupiesSlot() && domain.Overlaps(intervals[i].Interval, window) {
			relevant = append(relevant, intervals[i])
		}
	}

	maxOccupancy := 0
	for _, t := range Checkpoints(window, checkpointCount, relevant) {
		if occ := occupancyAt(t, relevant); occ > maxOccupancy {
			maxOccupancy = occ
		}
	}

	available := totalSlots - maxOccupancy
	if available < 0 {
		available = 0
	}

	return domain.AvailabilityResult{
		AvailableSlots: available,
		BookedSlots:    totalSlots - available,
	}
}

// Checkpoints возвращает отсортированные контрольные точки окна
// Равномерные точки от начала до конца окна включительно (0%, 25%, 50%, 75%, 100% для count=5)
// плюс начало каждого бронирования внутри окна: пик занятости всегда приходится на чьё-то начало
func Checkpoints(window domain.Interval, count int, intervals []domain.BookingInterval) []time.Time {
	if count < domain.MinCheckpointCount {
		count = domain.MinCheckpointCount
	}

	horizon := window.Duration()
	points := make([]time.Time, 0, count+len(intervals))
	for i := 0; i < count; i++ {
		offset := time.Duration(int64(horizon) * int64(i) / int64(count-1))
		points = append(points, window.Start.Add(offset))
	}

	for i := range intervals {
		start := intervals[i].Start
		if window.Contains(start) {
			points = append(points, start)
		}
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Before(points[j]) })
	return dedupTimes(points)
}

func occupancyAt(t time.Time, intervals []domain.BookingInterval) int {
	n := 0
	for i := range intervals {
		if intervals[i].Contains(t) {
			n++
		}
	}
	return n
}

func dedupTimes(sorted []time.Time) []time.Time {
	if len(sorted) == 0 {
		return sorted
	}
	out := sorted[:1]
	for _, t := range sorted[1:] {
		if !t.Equal(out[len(out)-1]) {
			out = append(out, t)
		}
	}
	return out
}

// Count считает доступность для окна по уже полученным интервалам
func Count(w domain.AvailabilityWindow, intervals []domain.BookingInterval, checkpointCount int) domain.AvailabilityResult {
	if w.Kind() == domain.KindRollingLookahead {
		return CountRollingLookahead(w.TotalSlots(), intervals, w.Interval(), checkpointCount)
	}
	return CountExactSlot(w.TotalSlots(), intervals, w.Interval())
}
