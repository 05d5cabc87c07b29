package ledger

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"secureattend/internal/apperr"
)

// PGLedger persists attendance rows in Postgres. The duplicate check is a
// UNIQUE (att_date, roll_no, class_code) constraint with ON CONFLICT DO
// NOTHING, so concurrent attempts cannot race past it.
type PGLedger struct {
	db *sql.DB
}

// NewPGLedger creates a Postgres-backed ledger.
func NewPGLedger(db *sql.DB) *PGLedger {
	return &PGLedger{db: db}
}

// Append inserts the record; zero rows affected means the triple already
// exists and the attempt is reported as a duplicate.
func (l *PGLedger) Append(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.MarkedAt.IsZero() {
		rec.MarkedAt = time.Now()
	}
	if rec.TeacherID == 0 {
		rec.TeacherID = 1 // placeholder until issuance is attributed
	}
	res, err := l.db.ExecContext(ctx, `
		INSERT INTO attendance (id, att_date, roll_no, name, class_code, marked_at, snapshot_file, teacher_id, gps_lat, gps_lon)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (att_date, roll_no, class_code) DO NOTHING
	`, rec.ID, rec.Date, rec.RollNo, rec.Name, rec.Code, rec.MarkedAt, rec.Snapshot, rec.TeacherID, rec.Lat, rec.Lon)
	if err != nil {
		return Record{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Record{}, err
	}
	if n == 0 {
		return Record{}, apperr.ErrDuplicateAttendance
	}
	return rec, nil
}

// ListByDate returns the records for one date, oldest first.
func (l *PGLedger) ListByDate(ctx context.Context, date string) ([]Record, error) {
	query := `
		SELECT id, att_date::text, roll_no, name, class_code, marked_at, snapshot_file, teacher_id, gps_lat, gps_lon
		FROM attendance`
	args := []any{}
	if date != "" {
		query += ` WHERE att_date = $1`
		args = append(args, date)
	}
	query += ` ORDER BY marked_at`

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Date, &rec.RollNo, &rec.Name, &rec.Code,
			&rec.MarkedAt, &rec.Snapshot, &rec.TeacherID, &rec.Lat, &rec.Lon); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Get returns a single record by id, or nil when absent.
func (l *PGLedger) Get(ctx context.Context, id string) (*Record, error) {
	row := l.db.QueryRowContext(ctx, `
		SELECT id, att_date::text, roll_no, name, class_code, marked_at, snapshot_file, teacher_id, gps_lat, gps_lon
		FROM attendance WHERE id = $1
	`, id)
	var rec Record
	if err := row.Scan(&rec.ID, &rec.Date, &rec.RollNo, &rec.Name, &rec.Code,
		&rec.MarkedAt, &rec.Snapshot, &rec.TeacherID, &rec.Lat, &rec.Lon); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// UpdateSnapshotURL back-fills the snapshot reference with an archive URL
// after the worker mirrors the file.
func (l *PGLedger) UpdateSnapshotURL(ctx context.Context, id, url string) error {
	_, err := l.db.ExecContext(ctx, `UPDATE attendance SET snapshot_url = $2 WHERE id = $1`, id, url)
	return err
}
