package database

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/vermy/vermy/internal/config"
	"github.com/vermy/vermy/internal/pkg/logger"
	"github.com/vermy/vermy/internal/pkg/metrics"
)

// tracedExecutor records duration metrics for every statement and logs the
// slow ones.
type tracedExecutor struct {
	ext     sqlx.ExtContext
	backend string
}

func (t *tracedExecutor) DriverName() string {
	return t.ext.DriverName()
}

func (t *tracedExecutor) Rebind(query string) string {
	return t.ext.Rebind(query)
}

func (t *tracedExecutor) BindNamed(query string, arg interface{}) (string, []interface{}, error) {
	return t.ext.BindNamed(query, arg)
}

func (t *tracedExecutor) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.ext.QueryContext(ctx, query, t.args(args)...)
	t.observe(query, start, err)
	return rows, err
}

func (t *tracedExecutor) QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error) {
	start := time.Now()
	rows, err := t.ext.QueryxContext(ctx, query, t.args(args)...)
	t.observe(query, start, err)
	return rows, err
}

func (t *tracedExecutor) QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row {
	start := time.Now()
	row := t.ext.QueryRowxContext(ctx, query, t.args(args)...)
	t.observe(query, start, row.Err())
	return row
}

func (t *tracedExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := t.ext.ExecContext(ctx, query, t.args(args)...)
	t.observe(query, start, err)
	return res, err
}

func (t *tracedExecutor) observe(query string, start time.Time, err error) {
	duration := time.Since(start)
	op := operation(query)

	metrics.RecordDBQuery(t.backend, op, duration)
	if err != nil && err != sql.ErrNoRows {
		metrics.RecordDBError(t.backend, op)
		logger.Debug("query failed",
			zap.String("backend", t.backend),
			zap.String("sql", truncateSQL(query, 200)),
			zap.Error(err),
		)
	}

	if duration > metrics.SlowQueryThreshold {
		logger.Warn("slow query detected",
			zap.String("backend", t.backend),
			zap.Int64("duration_ms", duration.Milliseconds()),
			zap.String("sql", truncateSQL(query, 200)),
		)
	}
}

// args normalises time values to UTC on SQLite, where timestamps are stored
// as text and compared lexically.
func (t *tracedExecutor) args(args []interface{}) []interface{} {
	if t.backend != config.BackendSQLite {
		return args
	}
	for i, a := range args {
		switch v := a.(type) {
		case time.Time:
			args[i] = v.UTC()
		case *time.Time:
			if v != nil {
				args[i] = v.UTC()
			}
		}
	}
	return args
}

// operation returns the lower-cased leading SQL keyword
func operation(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "unknown"
	}
	return strings.ToLower(fields[0])
}

func truncateSQL(sql string, maxLen int) string {
	if len(sql) <= maxLen {
		return sql
	}
	return sql[:maxLen] + "..."
}
