package pgstore

import (
	"context"
	"errors"

	"stayops/internal/infra"
	"stayops/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation    = "23505"
	codeExclusionViolation = "23P01"
	codeSerialization      = "40001"
	codeDeadlockDetected   = "40P01"
)

// classify maps a pgx error onto a repository error kind. The exclusion
// constraint on bookings surfaces as KindConflict so the usecase can translate
// it into a room-not-available failure.
func classify(msg string, err error) error {
	if err == nil {
		return nil
	}
	if pgconv.IsNoRows(err) {
		return infra.WrapRepoErr(msg, err, infra.KindNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return infra.WrapRepoErr(msg, err, infra.KindDuplicateKey)
		case codeExclusionViolation:
			return infra.WrapRepoErr(msg, err, infra.KindConflict)
		case codeSerialization, codeDeadlockDetected:
			return infra.WrapRepoErr(msg, err, infra.KindTransient)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return infra.WrapRepoErr(msg, err, infra.KindTransient)
	}
	return infra.WrapRepoErr(msg, err)
}
