package ledger

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"secureattend/internal/apperr"
)

func parseTimestamp(s string) (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, s, time.Local)
}

var csvHeader = []string{"Date", "Roll No", "Name", "Code", "Timestamp", "Snapshot"}

// CSVLedger appends rows to attendance.csv. The header row is written
// lazily on first append. A mutex serializes the duplicate scan with the
// append so concurrent attempts cannot both pass the check.
type CSVLedger struct {
	Path string

	mu sync.Mutex
}

// NewCSVLedger creates a ledger over the given CSV file.
func NewCSVLedger(path string) *CSVLedger {
	return &CSVLedger{Path: path}
}

// Append scans existing rows for the (date, roll_no, code) triple and
// appends one row if absent.
func (l *CSVLedger) Append(_ context.Context, rec Record) (Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows, err := l.readAll()
	if err != nil {
		return Record{}, err
	}
	for _, row := range rows {
		if len(row) >= 4 && row[0] == rec.Date && row[1] == rec.RollNo && row[3] == rec.Code {
			return Record{}, apperr.ErrDuplicateAttendance
		}
	}

	f, err := os.OpenFile(l.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return Record{}, fmt.Errorf("open attendance ledger: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if len(rows) == 0 {
		if err := w.Write(csvHeader); err != nil {
			return Record{}, err
		}
	}
	row := []string{rec.Date, rec.RollNo, rec.Name, rec.Code, rec.MarkedAt.Format(TimestampLayout), rec.Snapshot}
	if err := w.Write(row); err != nil {
		return Record{}, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return Record{}, fmt.Errorf("append attendance row: %w", err)
	}
	return rec, nil
}

// ListByDate returns records for the given date, or all records when date
// is empty.
func (l *CSVLedger) ListByDate(_ context.Context, date string) ([]Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows, err := l.readAll()
	if err != nil {
		return nil, err
	}
	var out []Record
	for i, row := range rows {
		if i == 0 || len(row) < 6 {
			continue // header or malformed
		}
		if date != "" && row[0] != date {
			continue
		}
		rec := Record{Date: row[0], RollNo: row[1], Name: row[2], Code: row[3], Snapshot: row[5]}
		if ts, err := parseTimestamp(row[4]); err == nil {
			rec.MarkedAt = ts
		}
		out = append(out, rec)
	}
	return out, nil
}

func (l *CSVLedger) readAll() ([][]string, error) {
	f, err := os.Open(l.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read attendance ledger: %w", err)
	}
	return rows, nil
}
