package booking

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	from = time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	to   = from.Add(2 * time.Hour)
)

func TestBuildFetchIntervalsQuery(t *testing.T) {
	query, args, err := buildFetchIntervalsQuery(7, from, to)
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id, spot_id, start_time, end_time, status FROM bookings "+
			"WHERE spot_id = $1 AND status IN ($2,$3) AND start_time < $4 AND end_time > $5 "+
			"ORDER BY start_time ASC",
		query)
	assert.Equal(t, []interface{}{int64(7), "confirmed", "active", to, from}, args)
}

func TestBuildListBlocksQuery(t *testing.T) {
	query, args, err := buildListBlocksQuery(7, from, to)
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id, spot_id, start_time, end_time FROM spot_blocks "+
			"WHERE spot_id = $1 AND start_time < $2 AND end_time > $3 ORDER BY start_time ASC",
		query)
	assert.Equal(t, []interface{}{int64(7), to, from}, args)
}

func TestBuildQuery_InvalidRange(t *testing.T) {
	_, _, err := buildFetchIntervalsQuery(7, to, from)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, _, err = buildListBlocksQuery(7, from, from)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

type failingDB struct{}

func (failingDB) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, errors.New("connection reset")
}

func TestRepository_QueryError(t *testing.T) {
	repo := NewRepository(failingDB{})

	_, err := repo.FetchIntervals(context.Background(), 7, from, to)
	assert.ErrorIs(t, err, ErrExecQuery)

	_, err = repo.ListBlocks(context.Background(), 7, from, to)
	assert.ErrorIs(t, err, ErrExecQuery)
}
