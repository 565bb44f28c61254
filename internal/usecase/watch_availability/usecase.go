package watch_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	spotRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/spot"
)

// UseCase use case для живой подписки на доступность места
type UseCase struct {
	spotRepo       SpotRepository
	newBinding     BindingFactory
	rollingHorizon time.Duration
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	spotRepo SpotRepository,
	newBinding BindingFactory,
	rollingHorizon time.Duration,
	logger Logger,
) *UseCase {
	if rollingHorizon <= 0 {
		rollingHorizon = domain.DefaultRollingHorizon
	}

	return &UseCase{
		spotRepo:       spotRepo,
		newBinding:     newBinding,
		rollingHorizon: rollingHorizon,
		logger:         logger,
	}
}

// Execute открывает подписку: первичное значение уже посчитано, дальше обновления по изменениям
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("WatchAvailability: spot=%d, mode=%s", req.SpotID, req.Spec.Mode)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("WatchAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем парковочное место
	spot, err := uc.spotRepo.GetByID(ctx, req.SpotID)
	if err != nil {
		if errors.Is(err, spotRepo.ErrSpotNotFound) {
			uc.logger.Warn("WatchAvailability: spot id=%d not found", req.SpotID)
			return nil, ErrSpotNotFound
		}
		uc.logger.Error("WatchAvailability: failed to get spot id=%d: %v", req.SpotID, err)
		return nil, fmt.Errorf("%w: failed to get spot: %v", ErrInternal, err)
	}

	spec := req.Spec
	if spec.Mode == domain.WindowRolling && spec.Horizon == 0 {
		spec.Horizon = uc.rollingHorizon
	}

	// 3. Binding: первичный расчет и регистрация в мультиплексоре
	b := uc.newBinding()
	if err := b.Bind(ctx, spot.ID, spot.TotalSlots, spec); err != nil {
		b.Close()
		if errors.Is(err, domain.ErrInvalidWindow) {
			uc.logger.Warn("WatchAvailability: spot=%d invalid window: %v", spot.ID, err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		uc.logger.Error("WatchAvailability: spot=%d bind failed: %v", spot.ID, err)
		return nil, fmt.Errorf("%w: bind: %v", ErrInternal, err)
	}

	// Первичное значение отдается отдельно, из канала его убираем
	select {
	case <-b.Updates():
	default:
	}
	initial := b.Value()

	uc.logger.Info("WatchAvailability: key=%s opened, available=%d/%d",
		b.Key(), initial.AvailableSlots, spot.TotalSlots)

	return &Response{
		SpotID:     spot.ID,
		TotalSlots: spot.TotalSlots,
		Key:        b.Key(),
		Initial:    initial,
		Updates:    b.Updates(),
		Close: func() {
			b.Close()
			uc.logger.Info("WatchAvailability: key=%s closed", b.Key())
		},
	}, nil
}
