package ledger

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"secureattend/internal/apperr"
)

func TestPGLedgerAppend(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	l := NewPGLedger(db)

	mock.ExpectExec("INSERT INTO attendance").
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec, err := l.Append(context.Background(), Record{
		Date: "2024-01-01", RollNo: "R100", Name: "Alice", Code: "123456",
		MarkedAt: time.Date(2024, 1, 1, 9, 1, 0, 0, time.UTC),
		Snapshot: "R100_20240101_090100.jpg",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.EqualValues(t, 1, rec.TeacherID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGLedgerAppendDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	l := NewPGLedger(db)

	// ON CONFLICT DO NOTHING reports zero rows affected.
	mock.ExpectExec("INSERT INTO attendance").
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err = l.Append(context.Background(), Record{Date: "2024-01-01", RollNo: "R100", Code: "123456"})
	assert.ErrorIs(t, err, apperr.ErrDuplicateAttendance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGLedgerListByDate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	l := NewPGLedger(db)

	cols := []string{"id", "att_date", "roll_no", "name", "class_code", "marked_at", "snapshot_file", "teacher_id", "gps_lat", "gps_lon"}
	mock.ExpectQuery("SELECT (.+) FROM attendance").
		WithArgs("2024-01-01").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("id-1", "2024-01-01", "R100", "Alice", "123456", time.Now(), "R100_x.jpg", 1, 11.00314, 76.20058))

	recs, err := l.ListByDate(context.Background(), "2024-01-01")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "R100", recs[0].RollNo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGLedgerGetMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	l := NewPGLedger(db)

	cols := []string{"id", "att_date", "roll_no", "name", "class_code", "marked_at", "snapshot_file", "teacher_id", "gps_lat", "gps_lon"}
	mock.ExpectQuery("SELECT (.+) FROM attendance WHERE id").
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(cols))

	rec, err := l.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, rec)
}
