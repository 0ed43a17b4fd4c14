package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Store persists upload records for the reference uploads service
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// NewStore wraps an open handle. The schema is expected to be migrated already.
func NewStore(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// OpenStore opens the DSN, applies migrations and returns a ready Store
func OpenStore(ctx context.Context, dsn string) (*Store, error) {
	db, dialect, err := Open(dsn)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := Migrate(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, err
	}

	return NewStore(db, dialect), nil
}

// InsertUpload stores the digest of an accepted payload and returns the new row id
func (s *Store) InsertUpload(ctx context.Context, login, digest string) (int64, error) {
	query := s.dialect.Rebind(`INSERT INTO uploads (login, payload) VALUES (?, ?) RETURNING id`)

	var id int64
	if err := s.db.QueryRowContext(ctx, query, login, digest).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert upload: %w", err)
	}
	return id, nil
}

// CountUploads returns the number of stored uploads
func (s *Store) CountUploads(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM uploads`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count uploads: %w", err)
	}
	return n, nil
}

// Ping checks the database is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}
