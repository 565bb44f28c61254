package domain

import "fmt"

// BookingType тип бронирования
type BookingType string

const (
	BookingHourly  BookingType = "hourly"
	BookingDaily   BookingType = "daily"
	BookingMonthly BookingType = "monthly"
)

// ParseBookingType парсит тип бронирования из строки
func ParseBookingType(s string) (BookingType, error) {
	switch t := BookingType(s); t {
	case BookingHourly, BookingDaily, BookingMonthly:
		return t, nil
	default:
		return "", fmt.Errorf("unknown booking type %q", s)
	}
}

// WindowMode режим окна доступности, соответствующий типу бронирования
func (t BookingType) WindowMode() WindowMode {
	switch t {
	case BookingDaily:
		return WindowDay
	case BookingMonthly:
		return WindowMonth
	default:
		return WindowSlot
	}
}

// EligibilityStatus состояние слота для действия "забронировать"
type EligibilityStatus string

const (
	EligibilityLoading       EligibilityStatus = "loading"
	EligibilityPast          EligibilityStatus = "past"
	EligibilityTooLateToBook EligibilityStatus = "tooLateToBook"
	EligibilityBooked        EligibilityStatus = "booked"
	EligibilityFull          EligibilityStatus = "full"
	EligibilityLimited       EligibilityStatus = "limited"
	EligibilityAvailable     EligibilityStatus = "available"
)

// IsSelectable returns true if the slot can be clicked to book
func (s EligibilityStatus) IsSelectable() bool {
	return s == EligibilityAvailable || s == EligibilityLimited
}

// EligibilityDecision решение гейта для одного слота
// Price заполняется только для слотов, которые можно выбрать
type EligibilityDecision struct {
	Status EligibilityStatus
	Price  *float64
}

// Bookable returns true if the decision allows booking
func (d EligibilityDecision) Bookable() bool {
	return d.Status.IsSelectable()
}
