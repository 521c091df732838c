package postgres

import (
	"database/sql"
	"errors"

	"github.com/alloyhq/console/backend-go/internal/domain"
	"github.com/lib/pq"
)

// Postgres error codes that signal a lost race rather than a broken query.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeUniqueViolation      = "23505"
)

// translateErr maps driver-level failures onto the domain taxonomy so callers
// never see raw SQLSTATE strings. Anything unrecognized passes through.
func translateErr(err error, entity string, id int64) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return &domain.NotFoundError{Entity: entity, ID: id}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case codeSerializationFailure, codeDeadlockDetected:
			return &domain.ConflictError{Reason: "concurrent modification, retry"}
		case codeUniqueViolation:
			return &domain.ConflictError{Reason: pqErr.Constraint}
		}
	}

	return err
}
