// Package history persists answered calculations in a SQL database.
// SQLite, PostgreSQL and MySQL are supported.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ivorydice/dicecalc/calc"
	"github.com/ivorydice/dicecalc/eval"
	"go.uber.org/zap"
)

// Record is one stored calculation.
type Record struct {
	ID         uuid.UUID         `json:"id" yaml:"id"`
	Expression string            `json:"expression" yaml:"expression"`
	Status     calc.Status       `json:"status" yaml:"status"`
	Value      string            `json:"value,omitempty" yaml:"value,omitempty"`
	Text       string            `json:"text" yaml:"text"`
	Rolls      []eval.RollRecord `json:"rolls,omitempty" yaml:"rolls,omitempty"`
	Error      string            `json:"error,omitempty" yaml:"error,omitempty"`
	CreatedAt  time.Time         `json:"created_at" yaml:"created_at"`
}

// NewRecord converts an outcome into a record stamped with now.
func NewRecord(outcome calc.Outcome, now time.Time) Record {
	r := Record{
		ID:         uuid.New(),
		Expression: outcome.Expression,
		Status:     outcome.Status,
		Value:      outcome.Value,
		Text:       outcome.Text,
		Rolls:      outcome.Rolls,
		CreatedAt:  now.UTC(),
	}
	if outcome.Err != nil {
		r.Error = outcome.Err.Error()
	}

	return r
}

// Store reads and writes history records.
type Store struct {
	db     *sql.DB
	driver string
	logger *zap.Logger
	now    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithClock replaces time.Now for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Open connects to the database and prepares the schema.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (*Store, error) {
	name, err := NormalizeDriver(driver)
	if err != nil {
		return nil, err
	}

	dsn, err = prepareDSN(name, dsn)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConnection, err)
	}

	if name == DriverSQLite {
		// one connection keeps ":memory:" databases alive and serializes writers
		db.SetMaxOpenConns(1)
	}

	s, err := New(db, name, opts...)
	if err != nil {
		db.Close()
		return nil, err
	}

	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// New wraps an open database. driver accepts the same aliases as Open.
func New(db *sql.DB, driver string, opts ...Option) (*Store, error) {
	name, err := NormalizeDriver(driver)
	if err != nil {
		return nil, err
	}

	s := &Store{
		db:     db,
		driver: name,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Driver returns the normalized driver name.
func (s *Store) Driver() string {
	return s.driver
}

// Migrate creates the history table when it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTableSQL(s.driver)); err != nil {
		return classify("migrate", err)
	}

	s.logger.Debug("history schema ready", zap.String("driver", s.driver))

	return nil
}

// Record stores an outcome. It satisfies router.Recorder.
func (s *Store) Record(ctx context.Context, outcome calc.Outcome) error {
	return s.Save(ctx, NewRecord(outcome, s.now()))
}

// Save inserts a record.
func (s *Store) Save(ctx context.Context, record Record) error {
	rolls, err := json.Marshal(record.Rolls)
	if err != nil {
		return fmt.Errorf("%w: encode rolls: %w", ErrStorage, err)
	}

	query := "INSERT INTO calc_history (id, expression, status, result, display_text, rolls, error_message, created_at) VALUES (" +
		placeholders(s.driver, 8) + ")"

	_, err = s.db.ExecContext(ctx, query,
		record.ID.String(),
		record.Expression,
		string(record.Status),
		record.Value,
		record.Text,
		string(rolls),
		record.Error,
		record.CreatedAt.UTC(),
	)
	if err != nil {
		return classify("save", err)
	}

	s.logger.Debug("history record saved", zap.Stringer("id", record.ID), zap.String("status", string(record.Status)))

	return nil
}

// List returns up to limit records, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}

	query := "SELECT id, expression, status, result, display_text, rolls, error_message, created_at FROM calc_history ORDER BY created_at DESC, id DESC LIMIT " +
		placeholder(s.driver, 1)

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, classify("list", err)
	}
	defer rows.Close()

	var records []Record

	for rows.Next() {
		var (
			record Record
			id     string
			status string
			rolls  string
		)

		if err := rows.Scan(&id, &record.Expression, &status, &record.Value, &record.Text, &rolls, &record.Error, &record.CreatedAt); err != nil {
			return nil, classify("list", err)
		}

		record.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("%w: record id %q: %w", ErrStorage, id, err)
		}

		record.Status = calc.Status(status)
		record.CreatedAt = record.CreatedAt.UTC()

		if err := json.Unmarshal([]byte(rolls), &record.Rolls); err != nil {
			return nil, fmt.Errorf("%w: decode rolls of %s: %w", ErrStorage, id, err)
		}

		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, classify("list", err)
	}

	return records, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
