package attendance

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"secureattend/internal/apperr"
	"secureattend/internal/code"
	"secureattend/internal/directory"
	"secureattend/internal/geo"
	"secureattend/internal/ledger"
	"secureattend/internal/snapshot"
)

var classroom = geo.Point{Lat: 11.00314, Lon: 76.20058}

type stubDetector struct {
	faces int
	err   error
	calls int
}

func (d *stubDetector) CountFaces(_ context.Context, _ []byte) (int, error) {
	d.calls++
	return d.faces, d.err
}

type stubCamera struct {
	frame []byte
	err   error
}

func (c *stubCamera) Capture(_ context.Context) ([]byte, error) {
	return c.frame, c.err
}

type fixture struct {
	svc      *Service
	codes    *code.FileStore
	ledger   *ledger.CSVLedger
	snapDir  string
	detector *stubDetector
	camera   *stubCamera
}

func newFixture(t *testing.T, now time.Time) *fixture {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "students.json"),
		[]byte(`[{"roll_no": "R100", "name": "Alice", "password": "secret1"}]`), 0o644))

	f := &fixture{
		codes:    code.NewFileStore(filepath.Join(dir, "active_code.json"), filepath.Join(dir, "codes_history.json")),
		ledger:   ledger.NewCSVLedger(filepath.Join(dir, "attendance.csv")),
		snapDir:  filepath.Join(dir, "snapshots"),
		detector: &stubDetector{faces: 1},
		camera:   &stubCamera{frame: []byte{0xff, 0xd8}},
	}
	f.svc = NewService(Options{
		Registry:  directory.NewFileRegistry(filepath.Join(dir, "students.json")),
		Codes:     f.codes,
		Ledger:    f.ledger,
		Snaps:     snapshot.NewStore(f.snapDir),
		Detector:  f.detector,
		Camera:    f.camera,
		Classroom: classroom,
		RadiusM:   50,
		Validity:  code.DefaultValidity,
		Now:       func() time.Time { return now },
	})
	return f
}

func validRequest(t *testing.T, f *fixture, now time.Time) RemoteRequest {
	// Code issued one minute ago.
	require.NoError(t, f.codes.Save(context.Background(),
		code.ActiveCode{Code: "123456", IssuedAt: now.Add(-time.Minute)}))
	return RemoteRequest{
		RollNo:      "R100",
		Code:        "123456",
		Lat:         classroom.Lat,
		Lon:         classroom.Lon,
		SnapshotB64: base64.StdEncoding.EncodeToString([]byte("jpegbytes")),
	}
}

func TestMarkRemoteEndToEnd(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local)
	f := newFixture(t, now)
	req := validRequest(t, f, now)

	rec, err := f.svc.MarkRemote(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", rec.Date)
	assert.Equal(t, "Alice", rec.Name)
	assert.Equal(t, "R100_20240101_090000.jpg", rec.Snapshot)

	recs, err := f.ledger.ListByDate(context.Background(), "2024-01-01")
	require.NoError(t, err)
	assert.Len(t, recs, 1)

	// Repeating the identical request adds no row.
	_, err = f.svc.MarkRemote(context.Background(), req)
	assert.ErrorIs(t, err, apperr.ErrDuplicateAttendance)

	recs, err = f.ledger.ListByDate(context.Background(), "2024-01-01")
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestMarkRemoteUnknownStudent(t *testing.T) {
	now := time.Now()
	f := newFixture(t, now)
	req := validRequest(t, f, now)
	req.RollNo = "R999"

	_, err := f.svc.MarkRemote(context.Background(), req)
	assert.ErrorIs(t, err, apperr.ErrStudentNotFound)
}

func TestMarkRemoteOutOfRadius(t *testing.T) {
	now := time.Now()
	f := newFixture(t, now)
	req := validRequest(t, f, now)
	req.Lat = classroom.Lat + 0.01 // ~1.1 km north

	_, err := f.svc.MarkRemote(context.Background(), req)
	assert.ErrorIs(t, err, apperr.ErrLocationOutOfRange)
}

func TestMarkRemoteExpiredCode(t *testing.T) {
	now := time.Now()
	f := newFixture(t, now)
	req := validRequest(t, f, now)
	require.NoError(t, f.codes.Save(context.Background(),
		code.ActiveCode{Code: "123456", IssuedAt: now.Add(-6 * time.Minute)}))

	_, err := f.svc.MarkRemote(context.Background(), req)
	assert.ErrorIs(t, err, apperr.ErrCodeExpired)
}

func TestMarkRemoteNoActiveCode(t *testing.T) {
	now := time.Now()
	f := newFixture(t, now)

	_, err := f.svc.MarkRemote(context.Background(), RemoteRequest{
		RollNo: "R100", Code: "123456", Lat: classroom.Lat, Lon: classroom.Lon,
		SnapshotB64: base64.StdEncoding.EncodeToString([]byte("x")),
	})
	assert.ErrorIs(t, err, apperr.ErrNoActiveCode)
}

func TestMarkRemoteNoFaceLeavesNothing(t *testing.T) {
	now := time.Now()
	f := newFixture(t, now)
	req := validRequest(t, f, now)
	f.detector.faces = 0

	_, err := f.svc.MarkRemote(context.Background(), req)
	assert.ErrorIs(t, err, apperr.ErrNoFaceDetected)

	// No snapshot persisted, no ledger row created.
	_, statErr := os.Stat(f.snapDir)
	assert.True(t, os.IsNotExist(statErr))
	recs, err := f.ledger.ListByDate(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestMarkRemoteBadSnapshot(t *testing.T) {
	now := time.Now()
	f := newFixture(t, now)
	req := validRequest(t, f, now)
	req.SnapshotB64 = "!!not base64!!"

	_, err := f.svc.MarkRemote(context.Background(), req)
	assert.ErrorIs(t, err, apperr.ErrSnapshotDecode)
	assert.Zero(t, f.detector.calls)
}

func TestMarkConsole(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local)
	f := newFixture(t, now)
	require.NoError(t, f.codes.Save(context.Background(),
		code.ActiveCode{Code: "123456", IssuedAt: now.Add(-time.Minute)}))

	rec, err := f.svc.MarkConsole(context.Background(), "R100", "alice", "123456", classroom.Lat, classroom.Lon)
	require.NoError(t, err)
	assert.Equal(t, "R100", rec.RollNo)

	// Wrong roll/name pair fails before anything else runs.
	_, err = f.svc.MarkConsole(context.Background(), "R100", "Mallory", "123456", classroom.Lat, classroom.Lon)
	assert.ErrorIs(t, err, apperr.ErrAuthentication)
}

func TestMarkConsoleCameraFailure(t *testing.T) {
	now := time.Now()
	f := newFixture(t, now)
	require.NoError(t, f.codes.Save(context.Background(),
		code.ActiveCode{Code: "123456", IssuedAt: now}))
	f.camera.err = apperr.ErrCameraUnavailable
	f.camera.frame = nil

	_, err := f.svc.MarkConsole(context.Background(), "R100", "Alice", "123456", classroom.Lat, classroom.Lon)
	assert.ErrorIs(t, err, apperr.ErrCameraUnavailable)

	recs, lerr := f.ledger.ListByDate(context.Background(), "")
	require.NoError(t, lerr)
	assert.Empty(t, recs)
}
