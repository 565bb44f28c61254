package domain

import (
	"time"
)

// BookingStatus represents the status of a booking in the booking store
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusActive    BookingStatus = "active"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// Interval полуоткрытый интервал времени [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// IsValid returns true if Start is strictly before End
func (i Interval) IsValid() bool {
	return i.Start.Before(i.End)
}

// Overlaps проверяет РЕАЛЬНОЕ пересечение интервалов
// Граничащие интервалы не пересекаются: бронирование 09:00-10:00 не конфликтует с 10:00-11:00
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Contains returns true if t falls inside [Start, End)
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

// Duration длительность интервала
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Overlaps функциональная форма проверки пересечения, используется при подсчёте занятых мест
func Overlaps(a, b Interval) bool {
	return a.Overlaps(b)
}

// BookingInterval снимок бронирования, прочитанный из хранилища бронирований
// Сервис никогда не изменяет бронирования, переходы статусов принадлежат хранилищу
type BookingInterval struct {
	ID     string
	SpotID int64
	Interval
	Status BookingStatus
}

// OccupiesSlot returns true if the booking holds one slot of the spot
func (b *BookingInterval) OccupiesSlot() bool {
	for _, s := range OccupyingStatuses {
		if b.Status == s {
			return true
		}
	}
	return false
}

// IsCancelled returns true if the booking has been cancelled
func (b *BookingInterval) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// SlotBlock ручная блокировка слота владельцем или администратором
// Слот с блокировкой считается занятым вне зависимости от количества свободных мест
type SlotBlock struct {
	ID     int64
	SpotID int64
	Interval
}
