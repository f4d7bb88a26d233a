package postgres

import (
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taskhive/backend/domain"
)

const uniqueViolationCode = "23505"

// mapUniqueViolation converts a unique-constraint error into the matching
// duplicate error so DB-level races surface exactly like the pre-insert checks.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolationCode {
		return err
	}
	switch {
	case strings.Contains(pgErr.ConstraintName, "email"):
		return domain.ErrEmailTaken
	case strings.Contains(pgErr.ConstraintName, "username"):
		return domain.ErrUsernameTaken
	default:
		return domain.WrapError(domain.ErrCodeConflict, "unique constraint violated", err)
	}
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 100
	}
	return limit
}

func nullTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
