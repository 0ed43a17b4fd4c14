package inspector

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/information-sharing-networks/uploads-apicheck/internal/database"
)

// DefaultTable is the table the service writes uploads to
const DefaultTable = "uploads"

// Record is a stored upload as seen in the backing store
type Record struct {
	ID            int64
	Login         string
	PayloadDigest string
}

// IsEmpty reports whether the record is the empty result returned when no row matched
func (r Record) IsEmpty() bool {
	return r == Record{}
}

// Opener opens a database handle for a DSN. database.Open is used unless overridden.
type Opener func(dsn string) (*sql.DB, database.Dialect, error)

type Inspector struct {
	dsn    string
	table  string
	open   Opener
	logger *slog.Logger
}

type Option func(*Inspector)

// WithTable sets the uploads table name
func WithTable(name string) Option {
	return func(i *Inspector) { i.table = name }
}

// WithOpener replaces the function used to open connections
func WithOpener(open Opener) Option {
	return func(i *Inspector) { i.open = open }
}

func WithLogger(logger *slog.Logger) Option {
	return func(i *Inspector) { i.logger = logger }
}

// New returns an inspector for the store at dsn (a SQLite file path or a postgres URL).
// No connection is opened until the first operation.
func New(dsn string, opts ...Option) (*Inspector, error) {
	i := &Inspector{
		dsn:    strings.TrimSpace(dsn),
		table:  DefaultTable,
		open:   database.Open,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(i)
	}

	if i.dsn == "" {
		return nil, NewConfigError("database path is required")
	}
	if !database.ValidIdentifier(i.table) {
		return nil, NewConfigError(fmt.Sprintf("invalid table name %q", i.table))
	}
	return i, nil
}

// FetchRecord returns the row with the given id.
// When no row matches the empty Record is returned with a nil error.
func (i *Inspector) FetchRecord(ctx context.Context, id int64) (Record, error) {
	var rec Record
	err := i.withConn(ctx, "fetch record", func(ctx context.Context, db *sql.DB, dialect database.Dialect) error {
		query := dialect.Rebind(fmt.Sprintf(`SELECT id, login, payload FROM %s WHERE id = ?`, i.table))
		return scanRecord(db.QueryRowContext(ctx, query, id), &rec)
	})
	return rec, err
}

// FetchLastRecord returns the most recently inserted row (greatest id), or the empty Record
func (i *Inspector) FetchLastRecord(ctx context.Context) (Record, error) {
	var rec Record
	err := i.withConn(ctx, "fetch last record", func(ctx context.Context, db *sql.DB, _ database.Dialect) error {
		query := fmt.Sprintf(`SELECT id, login, payload FROM %s ORDER BY id DESC LIMIT 1`, i.table)
		return scanRecord(db.QueryRowContext(ctx, query), &rec)
	})
	return rec, err
}

// CountRows returns the current number of rows in the uploads table
func (i *Inspector) CountRows(ctx context.Context) (int, error) {
	var n int
	err := i.withConn(ctx, "count rows", func(ctx context.Context, db *sql.DB, _ database.Dialect) error {
		return db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, i.table)).Scan(&n)
	})
	return n, err
}

// Truncate deletes every row of the uploads table
func (i *Inspector) Truncate(ctx context.Context) error {
	return i.withConn(ctx, "truncate", func(ctx context.Context, db *sql.DB, _ database.Dialect) error {
		res, err := db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, i.table))
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil {
			i.logger.Info("uploads table truncated",
				slog.String("table", i.table),
				slog.Int64("rows_deleted", n),
			)
		}
		return nil
	})
}

// withConn opens a connection, runs fn and closes the connection whatever the outcome
func (i *Inspector) withConn(ctx context.Context, op string, fn func(context.Context, *sql.DB, database.Dialect) error) (err error) {
	db, dialect, err := i.open(i.dsn)
	if err != nil {
		return WrapStoreError(err, op, "failed to open database")
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = WrapStoreError(cerr, op, "failed to close database")
		}
	}()

	i.logger.Debug("store operation",
		slog.String("operation", op),
		slog.String("table", i.table),
		slog.String("dialect", string(dialect)),
	)

	if err := fn(ctx, db, dialect); err != nil {
		return WrapStoreError(err, op, "statement failed")
	}
	return nil
}

func scanRecord(row *sql.Row, rec *Record) error {
	err := row.Scan(&rec.ID, &rec.Login, &rec.PayloadDigest)
	if errors.Is(err, sql.ErrNoRows) {
		*rec = Record{}
		return nil
	}
	return err
}
