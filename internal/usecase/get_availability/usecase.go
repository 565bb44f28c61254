package get_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	spotRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/spot"
)

// UseCase use case для разового расчета доступности (превью карточки места)
type UseCase struct {
	spotRepo       SpotRepository
	calculator     Calculator
	rollingHorizon time.Duration
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	spotRepo SpotRepository,
	calculator Calculator,
	rollingHorizon time.Duration,
	logger Logger,
) *UseCase {
	if rollingHorizon <= 0 {
		rollingHorizon = domain.DefaultRollingHorizon
	}

	return &UseCase{
		spotRepo:       spotRepo,
		calculator:     calculator,
		rollingHorizon: rollingHorizon,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// Execute выполняет use case получения доступности
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: spot=%d, mode=%s", req.SpotID, req.Spec.Mode)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем парковочное место
	spot, err := uc.spotRepo.GetByID(ctx, req.SpotID)
	if err != nil {
		if errors.Is(err, spotRepo.ErrSpotNotFound) {
			uc.logger.Warn("GetAvailability: spot id=%d not found", req.SpotID)
			return nil, ErrSpotNotFound
		}
		uc.logger.Error("GetAvailability: failed to get spot id=%d: %v", req.SpotID, err)
		return nil, fmt.Errorf("%w: failed to get spot: %v", ErrInternal, err)
	}

	// 3. Строим окно
	spec := req.Spec
	if spec.Mode == domain.WindowRolling && spec.Horizon == 0 {
		spec.Horizon = uc.rollingHorizon
	}

	window, err := spec.Build(spot.ID, spot.TotalSlots, uc.timeProvider.Now())
	if err != nil {
		uc.logger.Warn("GetAvailability: spot=%d invalid window: %v", spot.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 4. Считаем доступность (ошибка запроса → оптимистичное значение)
	res := uc.calculator.ComputeOrOptimistic(ctx, window)

	uc.logger.Info("GetAvailability: spot=%d, mode=%s, available=%d/%d",
		spot.ID, spec.Mode, res.AvailableSlots, spot.TotalSlots)

	return &Response{
		SpotID:         spot.ID,
		Mode:           spec.Mode,
		WindowStart:    window.Start(),
		WindowEnd:      window.End(),
		TotalSlots:     spot.TotalSlots,
		AvailableSlots: res.AvailableSlots,
		BookedSlots:    res.BookedSlots,
		OccupancyRate:  res.OccupancyRate(),
	}, nil
}
