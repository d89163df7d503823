package history

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

var (
	ErrUnsupportedDriver = errors.New("unsupported history driver")
	ErrInvalidConnection = errors.New("invalid history connection")
	ErrDuplicateRecord   = errors.New("duplicate history record")
	ErrValueTooLong      = errors.New("history value too long")
	ErrInvalidLimit      = errors.New("history limit must be positive")
	ErrStorage           = errors.New("history storage failed")
)

// classify maps a driver error to one of the package sentinels. Errors
// that are not recognized are wrapped in ErrStorage.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%w: %s: %w", ErrDuplicateRecord, op, err)
		case "22001": // string_data_right_truncation
			return fmt.Errorf("%w: %s: %w", ErrValueTooLong, op, err)
		}
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1062: // ER_DUP_ENTRY
			return fmt.Errorf("%w: %s: %w", ErrDuplicateRecord, op, err)
		case 1406: // ER_DATA_TOO_LONG
			return fmt.Errorf("%w: %s: %w", ErrValueTooLong, op, err)
		}
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%w: %s: %w", ErrDuplicateRecord, op, err)
		}

		if sqliteErr.Code == sqlite3.ErrTooBig {
			return fmt.Errorf("%w: %s: %w", ErrValueTooLong, op, err)
		}
	}

	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
