package store

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// DB wraps sql.DB for Postgres using pgx.
type DB struct {
	Client *sql.DB
}

// NewDB creates a Postgres connection with sane defaults.
func NewDB(connString string) (*DB, error) {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	return &DB{Client: db}, db.PingContext(context.Background())
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	if d == nil || d.Client == nil {
		return nil
	}
	return d.Client.Close()
}

// Migrate creates the schema when it does not exist yet. The UNIQUE
// constraint on attendance is load-bearing: it is what turns the
// duplicate check into an atomic insert.
func (d *DB) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS students (
			id BIGSERIAL PRIMARY KEY,
			roll_no TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL,
			password TEXT NOT NULL,
			device_token TEXT UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS teachers (
			id BIGSERIAL PRIMARY KEY,
			teacher_id TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL,
			password_hash TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS active_code (
			id SMALLINT PRIMARY KEY CHECK (id = 1),
			code TEXT NOT NULL,
			issued_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS code_history (
			id BIGSERIAL PRIMARY KEY,
			code TEXT NOT NULL,
			issued_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS attendance (
			id UUID PRIMARY KEY,
			att_date DATE NOT NULL,
			roll_no TEXT NOT NULL,
			name TEXT NOT NULL,
			class_code TEXT NOT NULL,
			marked_at TIMESTAMPTZ NOT NULL,
			snapshot_file TEXT NOT NULL,
			snapshot_url TEXT,
			teacher_id BIGINT NOT NULL DEFAULT 1,
			gps_lat DOUBLE PRECISION NOT NULL,
			gps_lon DOUBLE PRECISION NOT NULL,
			UNIQUE (att_date, roll_no, class_code)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := d.Client.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
