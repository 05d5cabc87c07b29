// Package snapshot stores the face images that evidence an attendance
// attempt.
package snapshot

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"secureattend/internal/apperr"
)

// TimestampLayout is the second-precision stamp embedded in filenames.
const TimestampLayout = "20060102_150405"

// Filename derives the deterministic snapshot name for a roll number at a
// given instant: <roll_no>_<YYYYMMDD_HHMMSS>.jpg.
func Filename(rollNo string, ts time.Time) string {
	return fmt.Sprintf("%s_%s.jpg", rollNo, ts.Format(TimestampLayout))
}

// Store writes snapshots into a dedicated directory created on demand.
type Store struct {
	Dir string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// Save persists the image and returns the stored filename. The file is
// owned by whichever ledger record ends up referencing it and is never
// reused across records.
func (s *Store) Save(rollNo string, img []byte, ts time.Time) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}
	name := Filename(rollNo, ts)
	if err := os.WriteFile(filepath.Join(s.Dir, name), img, 0o644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return name, nil
}

// Path returns the full path of a stored snapshot.
func (s *Store) Path(name string) string {
	return filepath.Join(s.Dir, name)
}

// Decode turns a base64 snapshot payload into image bytes. A data-URL
// prefix ("data:image/jpeg;base64,") is tolerated.
func Decode(payload string) ([]byte, error) {
	if idx := strings.Index(payload, ","); idx >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}
	img, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrSnapshotDecode, err)
	}
	if len(img) == 0 {
		return nil, apperr.ErrSnapshotDecode
	}
	return img, nil
}
