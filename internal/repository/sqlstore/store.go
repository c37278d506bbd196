package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vermy/vermy/internal/domain"
	"github.com/vermy/vermy/internal/pkg/database"
	apperrors "github.com/vermy/vermy/internal/pkg/errors"
)

var baseColumns = []string{"id", "created_at", "updated_at", "deleted_at", "version"}

// table describes how one entity is stored
type table struct {
	name     string
	resource string
	columns  []string
	search   []string
	orderBy  string
	// uniqueMessage replaces the generic conflict message on unique violations
	uniqueMessage string
}

func (t table) allColumns() []string {
	cols := make([]string, 0, len(baseColumns)+len(t.columns))
	cols = append(cols, baseColumns...)
	return append(cols, t.columns...)
}

func (t table) selectList() string {
	return strings.Join(t.allColumns(), ", ")
}

// record is satisfied by pointers to entities embedding domain.Base
type record[T any] interface {
	*T
	Record() *domain.Base
}

// Store implements the CRUD operations shared by every entity repository.
// Soft deleted rows stay readable through GetByID and All.
type Store[T any, P record[T]] struct {
	db  *database.DB
	t   table
	now func() time.Time
}

func newStore[T any, P record[T]](db *database.DB, t table) *Store[T, P] {
	return &Store[T, P]{
		db:  db,
		t:   t,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store[T, P]) conn(ctx context.Context) database.Executor {
	return s.db.Conn(ctx)
}

// GetByID retrieves a record by ID, including soft deleted ones
func (s *Store[T, P]) GetByID(ctx context.Context, id uuid.UUID) (*T, error) {
	conn := s.conn(ctx)
	query := conn.Rebind(`SELECT ` + s.t.selectList() + ` FROM ` + s.t.name + ` WHERE id = ?`)

	var out T
	if err := sqlx.GetContext(ctx, conn, &out, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound(s.t.resource)
		}
		return nil, fmt.Errorf("failed to get %s: %w", s.t.resource, err)
	}
	return &out, nil
}

// Create assigns id, timestamps and the initial version, then inserts
func (s *Store[T, P]) Create(ctx context.Context, entity P) error {
	b := entity.Record()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	now := s.now()
	b.CreatedAt = now
	b.UpdatedAt = now
	b.DeletedAt = nil
	b.Version = 1
	return s.Insert(ctx, entity)
}

// Insert writes the record exactly as given. Backups use it to restore rows
// with their original ids, timestamps and versions.
func (s *Store[T, P]) Insert(ctx context.Context, entity P) error {
	cols := s.t.allColumns()
	query := `INSERT INTO ` + s.t.name + ` (` + strings.Join(cols, ", ") + `) VALUES (:` +
		strings.Join(cols, ", :") + `)`

	if err := s.namedExec(ctx, query, entity, nil); err != nil {
		return s.mapWriteError("create", err)
	}
	return nil
}

// Update writes all columns and bumps the version. The entity must carry the
// version it was read with; a mismatch means someone else changed the row.
func (s *Store[T, P]) Update(ctx context.Context, entity P) error {
	b := entity.Record()
	expected := b.Version

	sets := make([]string, 0, len(s.t.columns)+2)
	for _, c := range s.t.columns {
		sets = append(sets, c+" = :"+c)
	}
	sets = append(sets, "updated_at = :updated_at", "version = :version")

	prevUpdated := b.UpdatedAt
	b.UpdatedAt = s.now()
	b.Version = expected + 1

	query := `UPDATE ` + s.t.name + ` SET ` + strings.Join(sets, ", ") + ` WHERE id = :id AND version = ?`
	res, err := s.namedExecResult(ctx, query, entity, []interface{}{expected})
	if err != nil {
		b.UpdatedAt, b.Version = prevUpdated, expected
		return s.mapWriteError("update", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		b.UpdatedAt, b.Version = prevUpdated, expected
		if _, err := s.GetByID(ctx, b.ID); err != nil {
			return err
		}
		return apperrors.Conflict(fmt.Sprintf("%s was modified concurrently", s.t.resource))
	}
	return nil
}

// SoftDelete marks a record deleted. Deleting a deleted record is a no-op.
func (s *Store[T, P]) SoftDelete(ctx context.Context, id uuid.UUID) error {
	conn := s.conn(ctx)
	now := s.now()
	query := conn.Rebind(`UPDATE ` + s.t.name +
		` SET deleted_at = ?, updated_at = ?, version = version + 1 WHERE id = ? AND deleted_at IS NULL`)

	res, err := conn.ExecContext(ctx, query, now, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", s.t.resource, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		_, err := s.GetByID(ctx, id)
		return err
	}
	return nil
}

// Restore clears the soft delete marker. Restoring a live record is a no-op.
func (s *Store[T, P]) Restore(ctx context.Context, id uuid.UUID) error {
	conn := s.conn(ctx)
	query := conn.Rebind(`UPDATE ` + s.t.name +
		` SET deleted_at = NULL, updated_at = ?, version = version + 1 WHERE id = ? AND deleted_at IS NOT NULL`)

	res, err := conn.ExecContext(ctx, query, s.now(), id)
	if err != nil {
		return s.mapWriteError("restore", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		_, err := s.GetByID(ctx, id)
		return err
	}
	return nil
}

// Purge removes a record permanently
func (s *Store[T, P]) Purge(ctx context.Context, id uuid.UUID) error {
	conn := s.conn(ctx)
	res, err := conn.ExecContext(ctx, conn.Rebind(`DELETE FROM `+s.t.name+` WHERE id = ?`), id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return apperrors.Conflict(fmt.Sprintf("%s is still referenced by other records", s.t.resource))
		}
		return fmt.Errorf("failed to purge %s: %w", s.t.resource, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound(s.t.resource)
	}
	return nil
}

// All returns every row, soft deleted ones included, oldest first
func (s *Store[T, P]) All(ctx context.Context) ([]T, error) {
	conn := s.conn(ctx)
	query := `SELECT ` + s.t.selectList() + ` FROM ` + s.t.name + ` ORDER BY created_at, id`

	var out []T
	if err := sqlx.SelectContext(ctx, conn, &out, query); err != nil {
		return nil, fmt.Errorf("failed to read all %s records: %w", s.t.resource, err)
	}
	return out, nil
}

// DeleteAll removes every row of the table
func (s *Store[T, P]) DeleteAll(ctx context.Context) error {
	if _, err := s.conn(ctx).ExecContext(ctx, `DELETE FROM `+s.t.name); err != nil {
		return fmt.Errorf("failed to clear %s: %w", s.t.name, err)
	}
	return nil
}

// list applies the shared list options on top of w and returns one page
func (s *Store[T, P]) list(ctx context.Context, opts domain.ListOptions, w *where) ([]T, int64, error) {
	opts = opts.Normalized()
	conn := s.conn(ctx)

	w.search(opts.Search, s.t.search, database.LowerFunc(conn.DriverName()))
	if !opts.IncludeDeleted {
		w.add("deleted_at IS NULL")
	}

	var total int64
	countQuery := conn.Rebind(`SELECT COUNT(*) FROM ` + s.t.name + w.sql())
	if err := sqlx.GetContext(ctx, conn, &total, countQuery, w.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count %s records: %w", s.t.resource, err)
	}

	query := conn.Rebind(`SELECT ` + s.t.selectList() + ` FROM ` + s.t.name + w.sql() +
		` ORDER BY ` + s.t.orderBy + ` LIMIT ? OFFSET ?`)
	args := append(append([]interface{}{}, w.args...), opts.Limit, opts.Offset)

	var out []T
	if err := sqlx.SelectContext(ctx, conn, &out, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list %s records: %w", s.t.resource, err)
	}
	return out, total, nil
}

// count returns the number of rows matching w
func (s *Store[T, P]) count(ctx context.Context, w *where) (int64, error) {
	conn := s.conn(ctx)
	var n int64
	query := conn.Rebind(`SELECT COUNT(*) FROM ` + s.t.name + w.sql())
	if err := sqlx.GetContext(ctx, conn, &n, query, w.args...); err != nil {
		return 0, fmt.Errorf("failed to count %s records: %w", s.t.resource, err)
	}
	return n, nil
}

// first returns the first row matching w in table order, or nil
func (s *Store[T, P]) first(ctx context.Context, w *where) (*T, error) {
	conn := s.conn(ctx)
	query := conn.Rebind(`SELECT ` + s.t.selectList() + ` FROM ` + s.t.name + w.sql() +
		` ORDER BY ` + s.t.orderBy + ` LIMIT 1`)

	var out T
	if err := sqlx.GetContext(ctx, conn, &out, query, w.args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query %s: %w", s.t.resource, err)
	}
	return &out, nil
}

func (s *Store[T, P]) namedExec(ctx context.Context, query string, arg interface{}, extra []interface{}) error {
	_, err := s.namedExecResult(ctx, query, arg, extra)
	return err
}

// namedExecResult binds :name parameters from arg, appends extra positional
// arguments and rebinds for the backend.
func (s *Store[T, P]) namedExecResult(ctx context.Context, query string, arg interface{}, extra []interface{}) (sql.Result, error) {
	q, args, err := sqlx.Named(query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to bind %s parameters: %w", s.t.resource, err)
	}
	args = append(args, extra...)
	conn := s.conn(ctx)
	return conn.ExecContext(ctx, conn.Rebind(q), args...)
}

func (s *Store[T, P]) mapWriteError(op string, err error) error {
	switch {
	case database.IsUniqueViolation(err):
		msg := s.t.uniqueMessage
		if msg == "" {
			msg = fmt.Sprintf("%s conflicts with an existing record", s.t.resource)
		}
		return apperrors.Conflict(msg).WithError(err)
	case database.IsForeignKeyViolation(err):
		return apperrors.Validation(fmt.Sprintf("%s references a record that does not exist", s.t.resource)).WithError(err)
	default:
		return fmt.Errorf("failed to %s %s: %w", op, s.t.resource, err)
	}
}
