package handlers

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

var (
	// ErrInvalidQuery возвращается при некорректных query параметрах окна
	ErrInvalidQuery = errors.New("handlers: invalid query parameters")
)

// ParseSpotID разбирает {spotId} из URL
func ParseSpotID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: spotId=%q", ErrInvalidQuery, raw)
	}
	return id, nil
}

// ParseWindowSpec разбирает окно из query параметров
//
// mode=rolling[&horizon=<минуты>], горизонт не больше domain.MaxRollingHorizon
// mode=slot&date=YYYY-MM-DD&time=HH:MM
// mode=day&date=YYYY-MM-DD
// mode=month&date=YYYY-MM-DD
//
// Даты и время трактуются в часовом поясе loc
func ParseWindowSpec(q url.Values, loc *time.Location) (domain.WindowSpec, error) {
	mode := domain.WindowMode(q.Get("mode"))
	if mode == "" {
		mode = domain.WindowRolling
	}

	switch mode {
	case domain.WindowRolling:
		var horizon time.Duration
		if raw := q.Get("horizon"); raw != "" {
			minutes, err := strconv.Atoi(raw)
			if err != nil || minutes <= 0 || minutes > int(domain.MaxRollingHorizon/time.Minute) {
				return domain.WindowSpec{}, fmt.Errorf("%w: horizon=%q", ErrInvalidQuery, raw)
			}
			horizon = time.Duration(minutes) * time.Minute
		}
		return domain.RollingSpec(horizon), nil

	case domain.WindowSlot:
		start, err := ParseDateTime(q.Get("date"), q.Get("time"), loc)
		if err != nil {
			return domain.WindowSpec{}, err
		}
		return domain.HourlySpec(start), nil

	case domain.WindowDay, domain.WindowMonth:
		date, err := ParseDate(q.Get("date"), loc)
		if err != nil {
			return domain.WindowSpec{}, err
		}
		if mode == domain.WindowDay {
			return domain.DaySpec(date), nil
		}
		return domain.MonthSpec(date), nil

	default:
		return domain.WindowSpec{}, fmt.Errorf("%w: mode=%q", ErrInvalidQuery, mode)
	}
}

// ParseDate разбирает дату YYYY-MM-DD в часовом поясе loc
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: date is required", ErrInvalidQuery)
	}
	date, err := time.ParseInLocation(domain.DateFormat, raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date=%q", ErrInvalidQuery, raw)
	}
	return date, nil
}

// ParseDateTime разбирает дату YYYY-MM-DD и время HH:MM в часовом поясе loc
func ParseDateTime(rawDate, rawTime string, loc *time.Location) (time.Time, error) {
	if rawTime == "" {
		return time.Time{}, fmt.Errorf("%w: time is required", ErrInvalidQuery)
	}
	if rawDate == "" {
		return time.Time{}, fmt.Errorf("%w: date is required", ErrInvalidQuery)
	}
	t, err := time.ParseInLocation(domain.DateFormat+" "+domain.TimeFormat, rawDate+" "+rawTime, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date=%q time=%q", ErrInvalidQuery, rawDate, rawTime)
	}
	return t, nil
}
