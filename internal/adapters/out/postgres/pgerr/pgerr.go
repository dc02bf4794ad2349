// Package pgerr maps PostgreSQL driver errors onto the typed errors of the custody core.
package pgerr

import (
	"errors"

	"custody/internal/core/ports"
	"custody/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// SQLSTATE codes the repositories react to.
const (
	UniqueViolation     = "23505"
	ForeignKeyViolation = "23503"
	LockNotAvailable    = "55P03"
	SerializationFail   = "40001"
)

// Code returns the SQLSTATE of err, or "" when err did not come from the server.
func Code(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	return Code(err) == UniqueViolation || errors.Is(err, gorm.ErrDuplicatedKey)
}

// Insert translates the error of an INSERT of resource keyed by key.
func Insert(err error, resource string, key any) error {
	switch {
	case err == nil:
		return nil
	case IsUniqueViolation(err):
		return errs.NewAlreadyExistsErrorWithCause(resource, key, ports.ErrDuplicateKey)
	case Code(err) == ForeignKeyViolation:
		return errs.NewObjectNotFoundErrorWithCause(resource+" reference", key, err)
	default:
		return err
	}
}

// Read translates the error of a single-row SELECT.
func Read(err error, resource string, key any) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errs.NewObjectNotFoundError(resource, key)
	case Code(err) == LockNotAvailable || Code(err) == SerializationFail:
		return errs.NewInvalidStateErrorWithCause(resource, "locked", "read", ports.ErrConcurrentUpdate)
	default:
		return err
	}
}
