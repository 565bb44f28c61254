package check_eligibility

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	spotRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/spot"
	"github.com/m04kA/SMC-ParkingService/internal/service/eligibility"
)

// UseCase use case для проверки, можно ли забронировать выбранный слот
type UseCase struct {
	spotRepo     SpotRepository
	blockRepo    BlockRepository
	calculator   Calculator
	gate         Gate
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	spotRepo SpotRepository,
	blockRepo BlockRepository,
	calculator Calculator,
	gate Gate,
	logger Logger,
) *UseCase {
	return &UseCase{
		spotRepo:     spotRepo,
		blockRepo:    blockRepo,
		calculator:   calculator,
		gate:         gate,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case проверки бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CheckEligibility: spot=%d, type=%s, start=%s",
		req.SpotID, req.Type, req.Start.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CheckEligibility: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Получаем парковочное место
	spot, err := uc.spotRepo.GetByID(ctx, req.SpotID)
	if err != nil {
		if errors.Is(err, spotRepo.ErrSpotNotFound) {
			uc.logger.Warn("CheckEligibility: spot id=%d not found", req.SpotID)
			return nil, ErrSpotNotFound
		}
		uc.logger.Error("CheckEligibility: failed to get spot id=%d: %v", req.SpotID, err)
		return nil, fmt.Errorf("%w: failed to get spot: %v", ErrInternal, err)
	}

	// 3. Окно, которое займет бронь выбранного типа
	spec := uc.windowSpec(req)
	// Запрос уже провалидирован, окно может не собраться только из-за данных места
	window, err := spec.Build(spot.ID, spot.TotalSlots, now)
	if err != nil {
		uc.logger.Error("CheckEligibility: spot=%d failed to build window: %v", spot.ID, err)
		return nil, fmt.Errorf("%w: failed to build window: %v", ErrInternal, err)
	}

	// 4. Доступность (ошибка запроса → оптимистичное значение)
	res := uc.calculator.ComputeOrOptimistic(ctx, window)

	// 5. Блокировки
	blocks, err := uc.blockRepo.ListBlocks(ctx, spot.ID, window.Start(), window.End())
	if err != nil {
		uc.logger.Warn("CheckEligibility: spot=%d failed to list blocks: %v", spot.ID, err)
		blocks = nil
	}

	// 6. Гейт
	decision := uc.gate.Evaluate(eligibility.Slot{
		Type:         req.Type,
		Start:        window.Start(),
		End:          window.End(),
		TotalSlots:   spot.TotalSlots,
		Availability: res,
		Blocked:      len(blocks) > 0,
		BasePrice:    spot.BasePrice(req.Type),
	}, now)

	uc.logger.Info("CheckEligibility: spot=%d, type=%s, status=%s, available=%d/%d",
		spot.ID, req.Type, decision.Status, res.AvailableSlots, spot.TotalSlots)

	return &Response{
		SpotID:         spot.ID,
		Type:           req.Type,
		Start:          window.Start(),
		End:            window.End(),
		Status:         decision.Status,
		Bookable:       decision.Bookable(),
		Price:          decision.Price,
		AvailableSlots: res.AvailableSlots,
		TotalSlots:     spot.TotalSlots,
	}, nil
}

// windowSpec описание окна по типу брони
// Дни считаются в часовом поясе политики
func (uc *UseCase) windowSpec(req *Request) domain.WindowSpec {
	switch req.Type {
	case domain.BookingDaily:
		return domain.DaySpec(req.Start.In(uc.gate.Policy().Location))
	case domain.BookingMonthly:
		return domain.MonthSpec(req.Start.In(uc.gate.Policy().Location))
	default:
		return domain.HourlySpec(req.Start)
	}
}
