package repository

import (
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// constraintViolation returns the violated constraint name when err is a
// postgres error with the given SQLSTATE code.
func constraintViolation(err error, code string) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == code {
		return pgErr.ConstraintName, true
	}
	return "", false
}

func isUniqueViolation(err error, constraint string) bool {
	name, ok := constraintViolation(err, pgerrcode.UniqueViolation)
	return ok && name == constraint
}
