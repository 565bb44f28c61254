package spot

import (
	"context"
	"database/sql"
)

// DBExecutor интерфейс для выполнения запросов
type DBExecutor interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}
