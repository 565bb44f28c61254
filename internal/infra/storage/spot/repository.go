package spot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/pkg/psqlbuilder"
)

// Repository репозиторий чтения парковочных мест
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория парковочных мест
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает парковочное место по ID
// Цены могут быть NULL, если владелец не выставил соответствующий тип бронирования
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Spot, error) {
	query, args, err := buildGetByIDQuery(id)
	if err != nil {
		return nil, err
	}

	var (
		s                      domain.Spot
		hourly, daily, monthly sql.NullFloat64
		createdAt, updatedAt   sql.NullTime
	)
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.TotalSlots,
		&hourly,
		&daily,
		&monthly,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSpotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan spot id=%d: %v", ErrScanRow, id, err)
	}

	s.HourlyPrice = hourly.Float64
	s.DailyPrice = daily.Float64
	s.MonthlyPrice = monthly.Float64
	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	if err := validateSpot(&s); err != nil {
		return nil, err
	}

	return &s, nil
}

// validateSpot отсекает строки, по которым нельзя построить окно доступности
func validateSpot(s *domain.Spot) error {
	if s.TotalSlots < 1 || s.TotalSlots > domain.MaxTotalSlots {
		return fmt.Errorf("%w: GetByID - spot id=%d total_slots=%d", ErrInvalidSpot, s.ID, s.TotalSlots)
	}
	return nil
}

func buildGetByIDQuery(id int64) (string, []interface{}, error) {
	query, args, err := psqlbuilder.Select(
		"id",
		"total_slots",
		"hourly_price",
		"daily_price",
		"monthly_price",
		"created_at",
		"updated_at",
	).
		From("parking_spots").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return "", nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	return query, args, nil
}
