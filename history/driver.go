package history

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver (pgx)
	_ "github.com/mattn/go-sqlite3"    // SQLite driver
)

// Driver names as registered with database/sql.
const (
	DriverPostgres = "pgx"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite3"
)

// NormalizeDriver maps the accepted aliases to a registered driver name.
func NormalizeDriver(driver string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "postgres", "postgresql", "pgx":
		return DriverPostgres, nil
	case "mysql", "mariadb":
		return DriverMySQL, nil
	case "sqlite", "sqlite3":
		return DriverSQLite, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}

// prepareDSN adjusts a connection string for the driver. MySQL needs
// parseTime so that DATETIME columns scan into time.Time.
func prepareDSN(driver, dsn string) (string, error) {
	if driver != DriverMySQL {
		return dsn, nil
	}

	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidConnection, err)
	}

	cfg.ParseTime = true

	return cfg.FormatDSN(), nil
}

// placeholder returns the n-th (1-based) bind parameter marker.
func placeholder(driver string, n int) string {
	if driver == DriverPostgres {
		return "$" + strconv.Itoa(n)
	}

	return "?"
}

func placeholders(driver string, count int) string {
	marks := make([]string, count)
	for i := range marks {
		marks[i] = placeholder(driver, i+1)
	}

	return strings.Join(marks, ", ")
}

func createTableSQL(driver string) string {
	switch driver {
	case DriverPostgres:
		return `CREATE TABLE IF NOT EXISTS calc_history (
	id VARCHAR(36) PRIMARY KEY,
	expression TEXT NOT NULL,
	status VARCHAR(32) NOT NULL,
	result TEXT NOT NULL,
	display_text TEXT NOT NULL,
	rolls TEXT NOT NULL,
	error_message TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
)`
	case DriverMySQL:
		return `CREATE TABLE IF NOT EXISTS calc_history (
	id VARCHAR(36) PRIMARY KEY,
	expression TEXT NOT NULL,
	status VARCHAR(32) NOT NULL,
	result TEXT NOT NULL,
	display_text MEDIUMTEXT NOT NULL,
	rolls MEDIUMTEXT NOT NULL,
	error_message TEXT NOT NULL,
	created_at DATETIME(6) NOT NULL
)`
	default:
		return `CREATE TABLE IF NOT EXISTS calc_history (
	id TEXT PRIMARY KEY,
	expression TEXT NOT NULL,
	status TEXT NOT NULL,
	result TEXT NOT NULL,
	display_text TEXT NOT NULL,
	rolls TEXT NOT NULL,
	error_message TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
)`
	}
}
