package get_slot_grid

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	spotRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/spot"
)

// UseCase use case для получения почасовой сетки бронирования на день
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

// Execute выполняет use case получения почасовой сетки
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetSlotGrid: spot=%d, date=%s", req.SpotID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetSlotGrid: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Дата в часовом поясе политики
	date := domain.StartOfDay(req.Date.In(uc.gate.Policy().Location))
	if err := validateDate(date, now); err != nil {
		uc.logger.Warn("GetSlotGrid: date validation failed: %v", err)
		return nil, err
	}

	// 4. Получаем парковочное место
	spot, err := uc.spotRepo.GetByID(ctx, req.SpotID)
	if err != nil {
		if errors.Is(err, spotRepo.ErrSpotNotFound) {
			uc.logger.Warn("GetSlotGrid: spot id=%d not found", req.SpotID)
			return nil, ErrSpotNotFound
		}
		uc.logger.Error("GetSlotGrid: failed to get spot id=%d: %v", req.SpotID, err)
		return nil, fmt.Errorf("%w: failed to get spot: %v", ErrInternal, err)
	}

	slots := hourlySlots(date)
	from, to := slots[0].Start, slots[len(slots)-1].End

	// 5. Бронирования за день одним запросом
	// Ошибка запроса не ломает сетку: слоты показываются свободными
	intervals, err := uc.bookingRepo.FetchIntervals(ctx, spot.ID, from, to)
	if err != nil {
		uc.logger.Warn("GetSlotGrid: spot=%d failed to fetch bookings, using optimistic availability: %v", spot.ID, err)
		intervals = nil
	}

	// 6. Блокировки за день
	blocks, err := uc.bookingRepo.ListBlocks(ctx, spot.ID, from, to)
	if err != nil {
		uc.logger.Warn("GetSlotGrid: spot=%d failed to list blocks: %v", spot.ID, err)
		blocks = nil
	}

	// 7. Доступность и состояние каждого часа
	grid := buildGrid(spot, slots, intervals, blocks, uc.gate, now)

	uc.logger.Info("GetSlotGrid: generated %d slots for spot=%d, date=%s",
		len(grid), spot.ID, date.Format(domain.DateFormat))

	return &Response{
		SpotID:      spot.ID,
		Date:        date,
		TotalSlots:  spot.TotalSlots,
		HourlyPrice: spot.HourlyPrice,
		Slots:       grid,
	}, nil
}
