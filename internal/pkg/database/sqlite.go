package database

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"modernc.org/sqlite"

	"github.com/vermy/vermy/internal/config"
	"github.com/vermy/vermy/internal/pkg/logger"
)

const (
	sqliteDriver = "sqlite"

	// sqliteLower folds the full Unicode range; SQLite's LOWER only folds ASCII
	sqliteLower = "unicode_lower"
)

func init() {
	sqlx.BindDriver(sqliteDriver, sqlx.QUESTION)
	sqlite.MustRegisterDeterministicScalarFunction(sqliteLower, 1, unicodeLower)
}

func unicodeLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// LowerFunc names the SQL function that lower-cases text like
// strings.ToLower on the given driver
func LowerFunc(driverName string) string {
	if driverName == sqliteDriver {
		return sqliteLower
	}
	return "LOWER"
}

// NewSQLite opens the embedded database at path. ":memory:" opens a private
// in-memory database.
func NewSQLite(ctx context.Context, path string) (*DB, error) {
	db, err := sqlx.Open(sqliteDriver, sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// SQLite serialises writers; a single connection also keeps an
	// in-memory database alive for the lifetime of the pool.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite: %w", err)
	}

	logger.Info("opened SQLite database",
		zap.String("path", path),
	)

	return &DB{DB: db, Backend: config.BackendSQLite}, nil
}

func sqliteDSN(path string) string {
	params := "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
	if path == ":memory:" {
		return "file::memory:?" + params
	}
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	if strings.Contains(path, "?") {
		return path + "&" + params
	}
	return path + "?" + params
}
