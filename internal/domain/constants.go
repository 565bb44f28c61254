package domain

import "time"

// Default configuration values
const (
	DefaultRollingHorizon   = 2 * time.Hour
	MaxRollingHorizon       = 7 * 24 * time.Hour
	DefaultCheckpointCount  = 5
	DefaultQueryTimeout     = 5 * time.Second
	DefaultFeedDebounce     = 100 * time.Millisecond
	DefaultFeedRetry        = 5 * time.Second
	DefaultRollingRefresh   = "@every 1m"
	DefaultPolicyTimezone   = "UTC"
	HourlySlotDuration      = time.Hour
	MinCheckpointCount      = 2
	MaxCheckpointCount      = 240
	MaxTotalSlots           = 10000
	DefaultStreamHeartbeat  = 15 * time.Second
	DefaultListenerMinRetry = 10 * time.Second
	DefaultListenerMaxRetry = time.Minute
)

// Booking policy defaults
// Значения вынесены в конфигурацию ([policy] в config.toml), здесь только дефолты
const (
	// DefaultSameDayCutoffHour после этого часа (локальное время) дневные и месячные брони на сегодня запрещены
	DefaultSameDayCutoffHour = 12
	// DefaultMinRemaining меньше этого времени до конца почасового слота бронировать нельзя
	DefaultMinRemaining = 30 * time.Minute
	// DefaultFullPriceRemaining начиная с этого остатка слот стоит полную цену
	DefaultFullPriceRemaining = 60 * time.Minute
	// DefaultProrateFloor минимальная доля базовой цены для частично прошедшего слота
	DefaultProrateFloor = 0.5
)

// Time format constants
const (
	TimeFormat  = "15:04"      // HH:MM
	DateFormat  = "2006-01-02" // YYYY-MM-DD
	MonthFormat = "2006-01"    // YYYY-MM
)

// OccupyingStatuses список статусов, занимающих место на парковке
// Используется для фильтрации при подсчёте доступных слотов
var OccupyingStatuses = []BookingStatus{
	StatusConfirmed,
	StatusActive,
}
