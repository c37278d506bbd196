package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vermy/vermy/internal/config"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(context.Background()))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func insertUser(ctx context.Context, db *DB, id, email string) error {
	now := time.Now()
	_, err := db.Conn(ctx).ExecContext(ctx,
		db.Rebind("INSERT INTO users (id, email, name, password_hash, created_at, updated_at) VALUES (?, ?, '', 'x', ?, ?)"),
		id, email, now, now)
	return err
}

func countUsers(t *testing.T, db *DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.GetContext(context.Background(), &n, "SELECT COUNT(*) FROM users"))
	return n
}

func TestTruncateSQL(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		maxLen   int
		expected string
	}{
		{"short SQL unchanged", "SELECT * FROM users", 100, "SELECT * FROM users"},
		{"exactly at max length", "SELECT * FROM users", 19, "SELECT * FROM users"},
		{"truncated with ellipsis", "SELECT * FROM users WHERE id = 1", 20, "SELECT * FROM users ..."},
		{"empty string", "", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, truncateSQL(tt.sql, tt.maxLen))
		})
	}
}

func TestOperation(t *testing.T) {
	assert.Equal(t, "select", operation("SELECT 1"))
	assert.Equal(t, "insert", operation("\n\tINSERT INTO properties (id) VALUES (?)"))
	assert.Equal(t, "unknown", operation("   "))
}

func TestSQLiteDSN(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		dsn := sqliteDSN(":memory:")
		assert.Contains(t, dsn, "file::memory:?")
		assert.Contains(t, dsn, "_pragma=foreign_keys(1)")
	})

	t.Run("plain path", func(t *testing.T) {
		assert.Regexp(t, `^file:data/vermy\.db\?_pragma=`, sqliteDSN("data/vermy.db"))
	})

	t.Run("path with query", func(t *testing.T) {
		assert.Regexp(t, `^file:vermy\.db\?mode=rwc&_pragma=`, sqliteDSN("file:vermy.db?mode=rwc"))
	})
}

func TestOpen(t *testing.T) {
	t.Run("unknown backend", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Storage.Backend = "oracle"

		_, err := Open(context.Background(), cfg)
		assert.ErrorContains(t, err, "unknown storage backend")
	})

	t.Run("sqlite with auto migrate", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Storage.Backend = config.BackendSQLite
		cfg.Storage.SQLitePath = ":memory:"
		cfg.Storage.AutoMigrate = true

		db, err := Open(context.Background(), cfg)
		require.NoError(t, err)
		defer db.Close()

		assert.Equal(t, config.BackendSQLite, db.Backend)
		version, err := db.SchemaVersion(context.Background())
		require.NoError(t, err)
		assert.Greater(t, version, int64(0))
	})
}

func TestMigrateDown(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.MigrateDown(ctx))
	version, err := db.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), version)

	require.NoError(t, db.Migrate(ctx))
	assert.Equal(t, 0, countUsers(t, db))
}

func TestTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		db := openTestDB(t)
		err := db.Transaction(ctx, func(ctx context.Context) error {
			assert.True(t, InTransaction(ctx))
			return insertUser(ctx, db, "u1", "a@vermy.local")
		})
		require.NoError(t, err)
		assert.Equal(t, 1, countUsers(t, db))
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db := openTestDB(t)
		boom := errors.New("boom")
		err := db.Transaction(ctx, func(ctx context.Context) error {
			require.NoError(t, insertUser(ctx, db, "u1", "a@vermy.local"))
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 0, countUsers(t, db))
	})

	t.Run("nested call joins the outer transaction", func(t *testing.T) {
		db := openTestDB(t)
		err := db.Transaction(ctx, func(ctx context.Context) error {
			if err := insertUser(ctx, db, "u1", "a@vermy.local"); err != nil {
				return err
			}
			_ = db.Transaction(ctx, func(ctx context.Context) error {
				return insertUser(ctx, db, "u2", "b@vermy.local")
			})
			return errors.New("abort")
		})
		require.Error(t, err)
		assert.Equal(t, 0, countUsers(t, db))
	})

	t.Run("rolls back and repanics", func(t *testing.T) {
		db := openTestDB(t)
		assert.Panics(t, func() {
			_ = db.Transaction(ctx, func(ctx context.Context) error {
				_ = insertUser(ctx, db, "u1", "a@vermy.local")
				panic("kaboom")
			})
		})
		assert.Equal(t, 0, countUsers(t, db))
	})
}

func TestConstraintErrors(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, insertUser(ctx, db, "u1", "a@vermy.local"))

	err := insertUser(ctx, db, "u2", "a@vermy.local")
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
	assert.False(t, IsForeignKeyViolation(err))

	now := time.Now()
	_, err = db.ExecContext(ctx,
		"INSERT INTO properties (id, designation, kind, status, parent_id, created_at, updated_at) VALUES (?, 'Unit', 'apartment', 'vacant', 'missing', ?, ?)",
		"p1", now, now)
	require.Error(t, err)
	assert.True(t, IsForeignKeyViolation(err))
	assert.False(t, IsUniqueViolation(err))

	assert.False(t, IsUniqueViolation(errors.New("plain")))
}

func TestClose_NilPool(t *testing.T) {
	db := &DB{}
	assert.NoError(t, db.Close())
}

func TestSQLiteUnicodeLower(t *testing.T) {
	db := openTestDB(t)

	var got string
	require.NoError(t, db.GetContext(context.Background(), &got, "SELECT "+LowerFunc(db.DriverName())+"(?)", "Ömer MÜLLER, STRAßE"))
	assert.Equal(t, "ömer müller, straße", got)

	var null *string
	require.NoError(t, db.GetContext(context.Background(), &null, "SELECT unicode_lower(NULL)"))
	assert.Nil(t, null)

	assert.Equal(t, "LOWER", LowerFunc("pgx"))
}
