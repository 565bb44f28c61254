package domain

import (
	"fmt"
	"time"
)

// WindowMode тип окна, для которого считается доступность
type WindowMode string

const (
	// WindowRolling окно от текущего момента на фиксированный горизонт вперёд
	WindowRolling WindowMode = "rolling"
	// WindowSlot конкретный слот, по умолчанию часовой
	WindowSlot WindowMode = "slot"
	// WindowDay календарный день (дневное бронирование)
	WindowDay WindowMode = "day"
	// WindowMonth месяц начиная с выбранной даты (месячное бронирование)
	WindowMonth WindowMode = "month"
)

// RollingDescriptor канонический дескриптор скользящего окна
const RollingDescriptor = "rolling"

// IsValid returns true if the mode is one of the known window modes
func (m WindowMode) IsValid() bool {
	switch m {
	case WindowRolling, WindowSlot, WindowDay, WindowMonth:
		return true
	default:
		return false
	}
}

// WindowKind вид окна для калькулятора
type WindowKind int

const (
	KindRollingLookahead WindowKind = iota + 1
	KindExactSlot
)

func (k WindowKind) String() string {
	switch k {
	case KindRollingLookahead:
		return "rolling"
	case KindExactSlot:
		return "exact"
	default:
		return "unknown"
	}
}

// AvailabilityWindow окно запроса доступности
// Создается заново для каждого запроса, валидируется в конструкторе
type AvailabilityWindow struct {
	kind       WindowKind
	spotID     int64
	totalSlots int
	interval   Interval
}

// NewRollingLookahead создает скользящее окно [from, from+horizon)
func NewRollingLookahead(spotID int64, totalSlots int, from time.Time, horizon time.Duration) (AvailabilityWindow, error) {
	if err := validateWindowOwner(spotID, totalSlots); err != nil {
		return AvailabilityWindow{}, err
	}
	if horizon <= 0 {
		return AvailabilityWindow{}, fmt.Errorf("%w: horizon must be positive, got %s", ErrInvalidWindow, horizon)
	}
	if horizon > MaxRollingHorizon {
		return AvailabilityWindow{}, fmt.Errorf("%w: horizon %s exceeds %s", ErrInvalidWindow, horizon, MaxRollingHorizon)
	}

	return AvailabilityWindow{
		kind:       KindRollingLookahead,
		spotID:     spotID,
		totalSlots: totalSlots,
		interval:   Interval{Start: from, End: from.Add(horizon)},
	}, nil
}

// NewExactSlot создает окно конкретного слота [start, end)
func NewExactSlot(spotID int64, totalSlots int, start, end time.Time) (AvailabilityWindow, error) {
	if err := validateWindowOwner(spotID, totalSlots); err != nil {
		return AvailabilityWindow{}, err
	}
	if !start.Before(end) {
		return AvailabilityWindow{}, fmt.Errorf("%w: slot start %s must be before end %s",
			ErrInvalidWindow, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	return AvailabilityWindow{
		kind:       KindExactSlot,
		spotID:     spotID,
		totalSlots: totalSlots,
		interval:   Interval{Start: start, End: end},
	}, nil
}

func validateWindowOwner(spotID int64, totalSlots int) error {
	if spotID <= 0 {
		return fmt.Errorf("%w: spotID must be positive, got %d", ErrInvalidWindow, spotID)
	}
	if totalSlots < 1 {
		return fmt.Errorf("%w: totalSlots must be at least 1, got %d", ErrInvalidWindow, totalSlots)
	}
	return nil
}

func (w AvailabilityWindow) Kind() WindowKind   { return w.kind }
func (w AvailabilityWindow) SpotID() int64      { return w.spotID }
func (w AvailabilityWindow) TotalSlots() int    { return w.totalSlots }
func (w AvailabilityWindow) Interval() Interval { return w.interval }
func (w AvailabilityWindow) Start() time.Time   { return w.interval.Start }
func (w AvailabilityWindow) End() time.Time     { return w.interval.End }

// Horizon длина окна
func (w AvailabilityWindow) Horizon() time.Duration {
	return w.interval.Duration()
}

// IsZero returns true for a window that was not built by a constructor
func (w AvailabilityWindow) IsZero() bool {
	return w.kind == 0
}

// WindowSpec описание окна, из которого окно строится заново на каждый запрос
// Для скользящего окна используется Horizon, для остальных режимов Start (и End для нестандартного слота)
type WindowSpec struct {
	Mode    WindowMode
	Horizon time.Duration
	Start   time.Time
	End     time.Time
}

// RollingSpec описание скользящего окна
func RollingSpec(horizon time.Duration) WindowSpec {
	return WindowSpec{Mode: WindowRolling, Horizon: horizon}
}

// HourlySpec описание часового слота, начинающегося в start
func HourlySpec(start time.Time) WindowSpec {
	return WindowSpec{Mode: WindowSlot, Start: start, End: start.Add(HourlySlotDuration)}
}

// DaySpec описание дневного окна для даты (в часовом поясе date)
func DaySpec(date time.Time) WindowSpec {
	return WindowSpec{Mode: WindowDay, Start: StartOfDay(date)}
}

// MonthSpec описание месячного окна, начинающегося с даты
func MonthSpec(date time.Time) WindowSpec {
	return WindowSpec{Mode: WindowMonth, Start: StartOfDay(date)}
}

// Equal true, если оба описания строят одно и то же окно
// Скользящие окна с разным горизонтом делят ключ подписки, но не окно
func (s WindowSpec) Equal(o WindowSpec) bool {
	return s.Mode == o.Mode &&
		s.Horizon == o.Horizon &&
		s.Start.Equal(o.Start) &&
		s.End.Equal(o.End)
}

// Bounds вычисляет границы окна относительно now
func (s WindowSpec) Bounds(now time.Time) (Interval, error) {
	switch s.Mode {
	case WindowRolling:
		horizon := s.Horizon
		if horizon == 0 {
			horizon = DefaultRollingHorizon
		}
		return Interval{Start: now, End: now.Add(horizon)}, nil
	case WindowSlot:
		end := s.End
		if end.IsZero() {
			end = s.Start.Add(HourlySlotDuration)
		}
		return Interval{Start: s.Start, End: end}, nil
	case WindowDay:
		start := StartOfDay(s.Start)
		return Interval{Start: start, End: start.AddDate(0, 0, 1)}, nil
	case WindowMonth:
		start := StartOfDay(s.Start)
		return Interval{Start: start, End: start.AddDate(0, 1, 0)}, nil
	default:
		return Interval{}, fmt.Errorf("%w: unknown window mode %q", ErrInvalidWindow, s.Mode)
	}
}

// Build строит окно для spot на момент now
func (s WindowSpec) Build(spotID int64, totalSlots int, now time.Time) (AvailabilityWindow, error) {
	bounds, err := s.Bounds(now)
	if err != nil {
		return AvailabilityWindow{}, err
	}
	if s.Mode == WindowRolling {
		return NewRollingLookahead(spotID, totalSlots, bounds.Start, bounds.Duration())
	}
	return NewExactSlot(spotID, totalSlots, bounds.Start, bounds.End)
}

// Descriptor канонический дескриптор окна для ключа подписки
//
// Примеры:
// - rolling
// - 2026-01-15|10:00 (часовой слот, UTC)
// - 2026-01-15|10:00/30m0s (слот нестандартной длины)
// - day|2026-01-15
// - month|2026-01-15
func (s WindowSpec) Descriptor() string {
	switch s.Mode {
	case WindowRolling:
		return RollingDescriptor
	case WindowSlot:
		start := s.Start.UTC()
		d := start.Format(DateFormat) + "|" + start.Format(TimeFormat)
		if !s.End.IsZero() && s.End.Sub(s.Start) != HourlySlotDuration {
			d += "/" + s.End.Sub(s.Start).String()
		}
		return d
	case WindowDay:
		return "day|" + s.Start.Format(DateFormat)
	case WindowMonth:
		return "month|" + s.Start.Format(DateFormat)
	default:
		return string(s.Mode)
	}
}

// Key ключ подписки для spot
func (s WindowSpec) Key(spotID int64) SubscriptionKey {
	return SubscriptionKey{SpotID: spotID, Window: s.Descriptor()}
}

// SubscriptionKey ключ дедупликации подписок на изменения
// Два потребителя с одинаковым ключом разделяют одно подключение к ленте изменений
type SubscriptionKey struct {
	SpotID int64
	Window string
}

func (k SubscriptionKey) String() string {
	return fmt.Sprintf("%d:%s", k.SpotID, k.Window)
}

// IsRolling returns true if the key tracks a rolling lookahead window
func (k SubscriptionKey) IsRolling() bool {
	return k.Window == RollingDescriptor
}

// StartOfDay обнуляет время, оставляя дату и часовой пояс
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsSameDay проверяет, что две даты относятся к одному и тому же дню
func IsSameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
