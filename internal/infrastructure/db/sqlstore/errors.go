package sqlstore

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"github.com/99minutos/users-api/internal/core/domain"
)

const pgUniqueViolation = "23505"

// userConflict translates a unique index violation on users into the
// matching domain error, or returns nil when err is not such a violation.
func userConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		switch pgErr.ConstraintName {
		case "idx_users_username":
			return domain.ErrDuplicateUsername
		case "idx_users_email":
			return domain.ErrDuplicateEmail
		}
		return nil
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) && liteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		// message: "UNIQUE constraint failed: users.username"
		msg := liteErr.Error()
		switch {
		case strings.Contains(msg, "users.username"):
			return domain.ErrDuplicateUsername
		case strings.Contains(msg, "users.email"):
			return domain.ErrDuplicateEmail
		}
	}
	return nil
}
