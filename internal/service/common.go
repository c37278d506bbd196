package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vermy/vermy/internal/domain"
	apperrors "github.com/vermy/vermy/internal/pkg/errors"
)

// Transactor runs fn inside one storage transaction. Repository calls made
// with the context handed to fn take part in it.
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type getter[T any] func(ctx context.Context, id uuid.UUID) (*T, error)

// liveRef loads a referenced record and turns a missing or soft deleted
// target into a validation error.
func liveRef[T any, P interface {
	*T
	IsDeleted() bool
}](ctx context.Context, resource string, id uuid.UUID, get getter[T]) (*T, error) {
	rec, err := get(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Validation(fmt.Sprintf("%s %s does not exist", resource, id))
		}
		return nil, err
	}
	if P(rec).IsDeleted() {
		return nil, apperrors.Validation(fmt.Sprintf("%s %s is deleted", resource, id))
	}
	return rec, nil
}

// liveOptionalRef is liveRef for nullable references
func liveOptionalRef[T any, P interface {
	*T
	IsDeleted() bool
}](ctx context.Context, resource string, id *uuid.UUID, get getter[T]) error {
	if id == nil {
		return nil
	}
	_, err := liveRef[T, P](ctx, resource, *id, get)
	return err
}

// checkVersion compares the version a client last read with the stored one
func checkVersion(resource string, expected *int, stored domain.Base) error {
	if expected != nil && *expected != stored.Version {
		return apperrors.Conflict(fmt.Sprintf("%s was modified by someone else (version %d, expected %d)",
			resource, stored.Version, *expected)).
			WithDetail("currentVersion", fmt.Sprint(stored.Version))
	}
	return nil
}

// loadForUpdate fetches a live record that is about to be replaced
func loadForUpdate[T any, P interface {
	*T
	Record() *domain.Base
}](ctx context.Context, resource string, id uuid.UUID, expected *int, get getter[T]) (*T, error) {
	rec, err := get(ctx, id)
	if err != nil {
		return nil, err
	}
	base := P(rec).Record()
	if base.DeletedAt != nil {
		return nil, apperrors.Conflict(fmt.Sprintf("%s is deleted; restore it before editing", resource))
	}
	if err := checkVersion(resource, expected, *base); err != nil {
		return nil, err
	}
	return rec, nil
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

func validateDateOrder(field string, from time.Time, to *time.Time) error {
	if to != nil && to.Before(from) {
		return apperrors.Validation(fmt.Sprintf("%s must not be before the start", field)).
			WithDetail(field, "must not be before the start")
	}
	return nil
}

// restoreLive undoes a soft delete once check accepts the record again.
// References that are no longer live turn into a conflict. Restoring a live
// record skips the check.
func restoreLive[T any, P interface {
	*T
	IsDeleted() bool
}](ctx context.Context, tx Transactor, resource string, id uuid.UUID, get getter[T],
	restore func(ctx context.Context, id uuid.UUID) error, check func(ctx context.Context, rec *T) error) (*T, error) {
	var rec *T
	err := tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		rec, err = get(ctx, id)
		if err != nil {
			return err
		}
		if P(rec).IsDeleted() {
			if err := check(ctx, rec); err != nil {
				if apperrors.IsValidation(err) {
					return apperrors.Conflict(fmt.Sprintf("cannot restore %s: %s", resource, apperrors.GetAppError(err).Message)).
						WithError(err)
				}
				return err
			}
		}
		if err := restore(ctx, id); err != nil {
			return err
		}
		rec, err = get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}
