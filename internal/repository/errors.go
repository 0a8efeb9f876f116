// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as handlers
// to distinguish between different failure scenarios: a missing container
// maps to HTTP 404, a uniqueness violation to 409, an occupied well to 409,
// an out-of-bounds well to 422 and a lost store connection to 503.
// translateDBError converts raw Postgres errors into these sentinels so
// that no SQLSTATE strings leak past this package.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a referenced entity does not exist.  Use
// notFound(kind, key) to attach the entity kind and key for the caller's
// error message.
var ErrNotFound = errors.New("not found")

// ErrDuplicateKey is returned when an insert collides with an existing
// primary key or unique constraint on an inventory entity.
var ErrDuplicateKey = errors.New("duplicate key")

// ErrDuplicateIdentity is returned when a username or email is already
// registered.
var ErrDuplicateIdentity = errors.New("username or email already exists")

// ErrWellOutOfBounds is returned when a well position is malformed or lies
// outside the owning box's declared rows×columns grid.
var ErrWellOutOfBounds = errors.New("well out of bounds")

// ErrWellOccupied is returned when a well already holds a sample.  At most
// one sample may occupy a well.
var ErrWellOccupied = errors.New("well occupied")

// ErrInvalidCredentials is returned for unknown users, wrong passwords and
// inactive accounts.  The three cases are deliberately indistinguishable to
// the caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrRateLimited is returned when the login throttle rejects an attempt
// before any credential comparison takes place.
var ErrRateLimited = errors.New("too many attempts")

// ErrForbidden is returned when the caller's role does not permit an
// operation. Handlers translate this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrStoreUnavailable is returned when the store cannot be reached.  The
// repositories never retry; callers decide whether to surface or retry.
var ErrStoreUnavailable = errors.New("store unavailable")

// notFound wraps ErrNotFound with the entity kind and key so the handler
// can render an actionable message while errors.Is still matches.
func notFound(kind, key string) error {
	return fmt.Errorf("%s %q: %w", kind, key, ErrNotFound)
}

// translateDBError maps a raw database error onto the package sentinels.
// uniqueAs selects which sentinel a unique violation becomes, since the
// same SQLSTATE covers duplicate identities, duplicate container ids and
// double-occupied wells.
func translateDBError(err error, uniqueAs error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			if uniqueAs != nil {
				return uniqueAs
			}
			return ErrDuplicateKey
		case "23503": // foreign_key_violation: referenced container is gone
			return fmt.Errorf("%s: %w", pgErr.ConstraintName, ErrNotFound)
		}
		// connection exceptions (class 08)
		if len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08" {
			return fmt.Errorf("%v: %w", err, ErrStoreUnavailable)
		}
		return err
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, sql.ErrConnDone) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%v: %w", err, ErrStoreUnavailable)
	}
	return err
}
