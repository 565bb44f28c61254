package get_calendar

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	spotRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/spot"
)

// UseCase use case для получения календаря дневных и месячных бронирований
type UseCase struct {
	spotRepo     SpotRepository
	bookingRepo  BookingRepository
	gate         Gate
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	spotRepo SpotRepository,
	bookingRepo BookingRepository,
	gate Gate,
	logger Logger,
) *UseCase {
	return &UseCase{
		spotRepo:     spotRepo,
		bookingRepo:  bookingRepo,
		gate:         gate,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения календаря
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetCalendar: spot=%d, month=%s, type=%s",
		req.SpotID, req.Month.Format(domain.MonthFormat), req.Type)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetCalendar: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Месяц в часовом поясе политики
	monthStart := startOfMonth(req.Month.In(uc.gate.Policy().Location))
	if err := validateMonth(monthStart, now); err != nil {
		uc.logger.Warn("GetCalendar: month validation failed: %v", err)
		return nil, err
	}

	// 3. Получаем парковочное место
	spot, err := uc.spotRepo.GetByID(ctx, req.SpotID)
	if err != nil {
		if errors.Is(err, spotRepo.ErrSpotNotFound) {
			uc.logger.Warn("GetCalendar: spot id=%d not found", req.SpotID)
			return nil, ErrSpotNotFound
		}
		uc.logger.Error("GetCalendar: failed to get spot id=%d: %v", req.SpotID, err)
		return nil, fmt.Errorf("%w: failed to get spot: %v", ErrInternal, err)
	}

	// 4. Бронирования и блокировки одним запросом на весь диапазон
	from, to := fetchRange(monthStart, req.Type)

	intervals, err := uc.bookingRepo.FetchIntervals(ctx, spot.ID, from, to)
	if err != nil {
		uc.logger.Warn("GetCalendar: spot=%d failed to fetch bookings, using optimistic availability: %v", spot.ID, err)
		intervals = nil
	}

	blocks, err := uc.bookingRepo.ListBlocks(ctx, spot.ID, from, to)
	if err != nil {
		uc.logger.Warn("GetCalendar: spot=%d failed to list blocks: %v", spot.ID, err)
		blocks = nil
	}

	// 5. Доступность и состояние каждого дня
	days := buildCalendar(spot, monthStart, req.Type, intervals, blocks, uc.gate, now)

	uc.logger.Info("GetCalendar: generated %d days for spot=%d, month=%s, type=%s",
		len(days), spot.ID, monthStart.Format(domain.MonthFormat), req.Type)

	return &Response{
		SpotID:     spot.ID,
		Month:      monthStart,
		Type:       req.Type,
		TotalSlots: spot.TotalSlots,
		BasePrice:  spot.BasePrice(req.Type),
		Days:       days,
	}, nil
}
