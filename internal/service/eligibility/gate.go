package eligibility

import (
	"math"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// Policy константы политики бронирования
type Policy struct {
	// SameDayCutoffHour час (локальное время), после которого дневные и месячные брони на сегодня закрыты
	SameDayCutoffHour int
	// MinRemaining минимальный остаток времени до конца почасового слота
	MinRemaining time.Duration
	// FullPriceRemaining остаток, начиная с которого слот стоит полную цену
	FullPriceRemaining time.Duration
	// ProrateFloor минимальная доля базовой цены
	ProrateFloor float64
	// Location часовой пояс для "сегодня" и часа отсечки
	Location *time.Location
}

// DefaultPolicy политика по умолчанию
func DefaultPolicy() Policy {
	return Policy{
		SameDayCutoffHour:  domain.DefaultSameDayCutoffHour,
		MinRemaining:       domain.DefaultMinRemaining,
		FullPriceRemaining: domain.DefaultFullPriceRemaining,
		ProrateFloor:       domain.DefaultProrateFloor,
		Location:           time.UTC,
	}
}

// Validate проверяет согласованность констант политики
func (p Policy) Validate() error {
	switch {
	case p.SameDayCutoffHour < 0 || p.SameDayCutoffHour > 24:
		return ErrInvalidPolicy
	case p.MinRemaining < 0:
		return ErrInvalidPolicy
	case p.FullPriceRemaining <= p.MinRemaining:
		return ErrInvalidPolicy
	case p.ProrateFloor < 0 || p.ProrateFloor > 1:
		return ErrInvalidPolicy
	}
	return nil
}

// Slot входные данные гейта для одного слота
type Slot struct {
	Type  domain.BookingType
	Start time.Time
	// End для почасовых слотов, по умолчанию Start + 1 час
	End          time.Time
	TotalSlots   int
	Availability domain.AvailabilityResult
	// Blocked слот отмечен как занятый отдельной записью блокировки
	Blocked   bool
	BasePrice float64
}

// Gate гейт допустимости бронирования и расчета цены
type Gate struct {
	policy Policy
}

// NewGate создает новый экземпляр гейта
func NewGate(policy Policy) *Gate {
	if policy.Location == nil {
		policy.Location = time.UTC
	}
	return &Gate{policy: policy}
}

// Policy возвращает политику гейта
func (g *Gate) Policy() Policy {
	return g.policy
}

// Evaluate вычисляет состояние слота на момент now
// Порядок проверок: loading → past → tooLateToBook → booked → full → limited → available
func (g *Gate) Evaluate(s Slot, now time.Time) domain.EligibilityDecision {
	status := g.status(s, now)
	if !status.IsSelectable() {
		return domain.EligibilityDecision{Status: status}
	}

	price := g.price(s, now)
	return domain.EligibilityDecision{Status: status, Price: &price}
}

func (g *Gate) status(s Slot, now time.Time) domain.EligibilityStatus {
	if s.Availability.Loading {
		return domain.EligibilityLoading
	}

	if g.IsPast(s, now) {
		return domain.EligibilityPast
	}

	if s.Type == domain.BookingHourly && slotEnd(s).Sub(now) < g.policy.MinRemaining {
		return domain.EligibilityTooLateToBook
	}

	if s.Blocked {
		return domain.EligibilityBooked
	}

	available := s.Availability.AvailableSlots
	if available <= 0 {
		return domain.EligibilityFull
	}

	if available < domain.LimitedThreshold(s.TotalSlots) {
		return domain.EligibilityLimited
	}

	return domain.EligibilityAvailable
}

// IsPast проверяет, что слот уже нельзя забронировать по времени
// Почасовой: конец слота <= now
// Дневной и месячный: дата раньше сегодняшней, либо сегодня после часа отсечки
func (g *Gate) IsPast(s Slot, now time.Time) bool {
	if s.Type == domain.BookingHourly {
		return !slotEnd(s).After(now)
	}

	localNow := now.In(g.policy.Location)
	date := domain.StartOfDay(s.Start.In(g.policy.Location))
	today := domain.StartOfDay(localNow)

	if date.Before(today) {
		return true
	}
	return date.Equal(today) && localNow.Hour() >= g.policy.SameDayCutoffHour
}

func (g *Gate) price(s Slot, now time.Time) float64 {
	if s.Type != domain.BookingHourly {
		return s.BasePrice
	}
	return g.Prorate(s.BasePrice, slotEnd(s).Sub(now))
}

// Prorate вычисляет цену почасового слота по оставшемуся времени
//
// remaining >= FullPriceRemaining → полная цена
// MinRemaining <= remaining < FullPriceRemaining → floor + доля (remaining - MinRemaining) от (base - floor)
// remaining < MinRemaining → 0, слот нельзя забронировать
//
// При политике по умолчанию: 60 минут → 100%, 45 минут → 75%, 30 минут → 50%
func (g *Gate) Prorate(basePrice float64, remaining time.Duration) float64 {
	p := g.policy
	if remaining >= p.FullPriceRemaining {
		return basePrice
	}
	if remaining < p.MinRemaining {
		return 0
	}

	floor := p.ProrateFloor * basePrice
	fraction := float64(remaining-p.MinRemaining) / float64(p.FullPriceRemaining-p.MinRemaining)
	price := floor + fraction*(basePrice-floor)

	return math.Max(floor, price)
}

func slotEnd(s Slot) time.Time {
	if s.End.IsZero() {
		return s.Start.Add(domain.HourlySlotDuration)
	}
	return s.End
}
