package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/information-sharing-networks/uploads-apicheck/internal/database/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// sqliteBusyTimeout makes readers wait for the service's writes instead of failing with SQLITE_BUSY
const sqliteBusyTimeout = "_pragma=busy_timeout(5000)"

// Open opens a handle for the DSN and returns it with the detected dialect.
//
// The handle is not pinged - callers decide whether to verify connectivity.
func Open(dsn string) (*sql.DB, Dialect, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, "", fmt.Errorf("database DSN is empty")
	}

	dialect := DetectDialect(dsn)

	connString := dsn
	if dialect == DialectSQLite && !strings.Contains(dsn, "?") {
		connString = dsn + "?" + sqliteBusyTimeout
	}

	db, err := sql.Open(dialect.DriverName(), connString)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %s database: %w", dialect, err)
	}
	return db, dialect, nil
}

// migrationLogger sends goose output to the default slog logger
type migrationLogger struct {
	logger *slog.Logger
}

func (l migrationLogger) Printf(format string, v ...any) {
	msg := strings.TrimSpace(strings.TrimPrefix(fmt.Sprintf(format, v...), "goose: "))
	l.logger.Info(msg, slog.String("component", "goose"))
}

func (l migrationLogger) Fatalf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...), slog.String("component", "goose"))
	os.Exit(1)
}

// Migrate applies all pending goose migrations for the dialect
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect) error {
	goose.SetLogger(migrationLogger{logger: slog.Default()})
	goose.SetBaseFS(migrations.FS)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(dialect.GooseDialect()); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, dialect.MigrationDir()); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}
