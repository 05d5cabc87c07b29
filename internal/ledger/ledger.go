// Package ledger is the append-only attendance record store. At most one
// record exists per (date, roll number, code); a duplicate attempt is
// rejected idempotently, never treated as corruption.
package ledger

import (
	"context"
	"time"
)

// Layouts for the date and timestamp columns.
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
)

// Record is one attendance row. Records are created once and never
// updated or deleted by the marking flow; only the snapshot reference may
// be back-filled with an archive URL later.
type Record struct {
	ID        string
	Date      string
	RollNo    string
	Name      string
	Code      string
	MarkedAt  time.Time
	Snapshot  string
	TeacherID int64
	Lat       float64
	Lon       float64
}

// Ledger appends and reads attendance records. Append must serialize the
// duplicate check with the write; concurrent attempts for the same
// (date, roll_no, code) yield exactly one record.
type Ledger interface {
	// Append stores the record, or returns ErrDuplicateAttendance when a
	// record with the same (date, roll_no, code) already exists.
	Append(ctx context.Context, rec Record) (Record, error)
	// ListByDate returns the records for one date, oldest first. An
	// empty date returns everything.
	ListByDate(ctx context.Context, date string) ([]Record, error)
}
