package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vermy/vermy/internal/domain"
	"github.com/vermy/vermy/internal/pkg/database"
	apperrors "github.com/vermy/vermy/internal/pkg/errors"
)

const userColumns = `id, email, name, password_hash, created_at, updated_at`

// UserRepository handles user data operations
type UserRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (` + userColumns + `)
		VALUES (:id, :email, :name, :password_hash, :created_at, :updated_at)`

	q, args, err := sqlx.Named(query, user)
	if err != nil {
		return fmt.Errorf("failed to bind user parameters: %w", err)
	}

	conn := r.db.Conn(ctx)
	if _, err := conn.ExecContext(ctx, conn.Rebind(q), args...); err != nil {
		if database.IsUniqueViolation(err) {
			return apperrors.Conflict("a user with this email already exists")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.get(ctx, `id = ?`, id)
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.get(ctx, `email = ?`, email)
}

// Count returns the number of users
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := sqlx.GetContext(ctx, r.db.Conn(ctx), &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

func (r *UserRepository) get(ctx context.Context, cond string, arg interface{}) (*domain.User, error) {
	conn := r.db.Conn(ctx)
	query := conn.Rebind(`SELECT ` + userColumns + ` FROM users WHERE ` + cond)

	var user domain.User
	if err := sqlx.GetContext(ctx, conn, &user, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("user")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
