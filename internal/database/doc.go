// Package database opens the relational store that holds upload records and applies its schema.
//
// Two dialects are supported: a SQLite file (modernc.org/sqlite) and PostgreSQL
// (pgx via database/sql). The dialect is detected from the DSN - postgres:// and
// postgresql:// URLs use PostgreSQL, anything else is treated as a SQLite file path.
//
// The Store type is used by the reference uploads service to persist records. The
// inspector package uses Open directly so it can read and truncate the table out-of-band.
package database
