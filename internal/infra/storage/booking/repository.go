package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/pkg/psqlbuilder"
)

// Repository репозиторий чтения бронирований
// Схема принадлежит маркетплейсу, сервис только читает
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// FetchIntervals получает бронирования spot, пересекающиеся с [from, to)
// Возвращаются только статусы, занимающие место (confirmed, active)
func (r *Repository) FetchIntervals(ctx context.Context, spotID int64, from, to time.Time) ([]domain.BookingInterval, error) {
	query, args, err := buildFetchIntervalsQuery(spotID, from, to)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FetchIntervals - spot=%d: %v", ErrExecQuery, spotID, err)
	}
	defer rows.Close()

	intervals := make([]domain.BookingInterval, 0)
	for rows.Next() {
		var (
			b      domain.BookingInterval
			status string
		)
		if err := rows.Scan(&b.ID, &b.SpotID, &b.Start, &b.End, &status); err != nil {
			return nil, fmt.Errorf("%w: FetchIntervals - scan booking: %v", ErrScanRow, err)
		}
		b.Status = domain.BookingStatus(status)
		b.Start = b.Start.UTC()
		b.End = b.End.UTC()
		intervals = append(intervals, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: FetchIntervals - rows iteration: %v", ErrScanRow, err)
	}

	return intervals, nil
}

// ListBlocks получает ручные блокировки spot, пересекающиеся с [from, to)
func (r *Repository) ListBlocks(ctx context.Context, spotID int64, from, to time.Time) ([]domain.SlotBlock, error) {
	query, args, err := buildListBlocksQuery(spotID, from, to)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBlocks - spot=%d: %v", ErrExecQuery, spotID, err)
	}
	defer rows.Close()

	return scanBlocks(rows)
}

func scanBlocks(rows *sql.Rows) ([]domain.SlotBlock, error) {
	blocks := make([]domain.SlotBlock, 0)
	for rows.Next() {
		var b domain.SlotBlock
		if err := rows.Scan(&b.ID, &b.SpotID, &b.Start, &b.End); err != nil {
			return nil, fmt.Errorf("%w: ListBlocks - scan block: %v", ErrScanRow, err)
		}
		b.Start = b.Start.UTC()
		b.End = b.End.UTC()
		blocks = append(blocks, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBlocks - rows iteration: %v", ErrScanRow, err)
	}

	return blocks, nil
}

// buildFetchIntervalsQuery строит запрос пересечения с окном
// Строгие неравенства: граничащие бронирования не попадают в выборку
func buildFetchIntervalsQuery(spotID int64, from, to time.Time) (string, []interface{}, error) {
	if !from.Before(to) {
		return "", nil, fmt.Errorf("%w: FetchIntervals - from=%s to=%s", ErrInvalidRange,
			from.Format(time.RFC3339), to.Format(time.RFC3339))
	}

	statuses := make([]string, len(domain.OccupyingStatuses))
	for i, s := range domain.OccupyingStatuses {
		statuses[i] = string(s)
	}

	query, args, err := psqlbuilder.Select(
		"id",
		"spot_id",
		"start_time",
		"end_time",
		"status",
	).
		From("bookings").
		Where(squirrel.Eq{"spot_id": spotID}).
		Where(squirrel.Eq{"status": statuses}).
		Where(squirrel.Lt{"start_time": to}).
		Where(squirrel.Gt{"end_time": from}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return "", nil, fmt.Errorf("%w: FetchIntervals - build select query: %v", ErrBuildQuery, err)
	}

	return query, args, nil
}

func buildListBlocksQuery(spotID int64, from, to time.Time) (string, []interface{}, error) {
	if !from.Before(to) {
		return "", nil, fmt.Errorf("%w: ListBlocks - from=%s to=%s", ErrInvalidRange,
			from.Format(time.RFC3339), to.Format(time.RFC3339))
	}

	query, args, err := psqlbuilder.Select(
		"id",
		"spot_id",
		"start_time",
		"end_time",
	).
		From("spot_blocks").
		Where(squirrel.Eq{"spot_id": spotID}).
		Where(squirrel.Lt{"start_time": to}).
		Where(squirrel.Gt{"end_time": from}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return "", nil, fmt.Errorf("%w: ListBlocks - build select query: %v", ErrBuildQuery, err)
	}

	return query, args, nil
}
