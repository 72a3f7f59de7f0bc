package dbx

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"

	"github.com/dmitrijs2005/gophdiary/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Kind maps err onto one of the common sentinel errors.
//
// Errors that already carry a common kind (validation, not found, connection)
// keep it. Driver and pool errors meaning "no usable connection" become
// common.ErrConnection; everything else is common.ErrDatabase.
func Kind(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, common.ErrValidation):
		return common.ErrValidation
	case errors.Is(err, common.ErrNotFound):
		return common.ErrNotFound
	case IsConnectionError(err):
		return common.ErrConnection
	default:
		return common.ErrDatabase
	}
}

// IsConnectionError reports whether err means the database could not be
// reached or a connection could not be obtained.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, common.ErrConnection) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) || pgconn.Timeout(err) {
		return true
	}

	// SQLSTATE class 08: connection exception; 57P03: cannot connect now.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "08") || pgErr.Code == "57P03"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED, sqlite3.SQLITE_CANTOPEN:
			return true
		}
	}

	return false
}
