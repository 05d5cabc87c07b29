package code

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"
)

// wireCode is the on-disk shape shared by active_code.json and
// codes_history.json: {"code": "...", "time": "YYYY-MM-DD HH:MM:SS"}.
type wireCode struct {
	Code string `json:"code"`
	Time string `json:"time"`
}

func toWire(ac ActiveCode) wireCode {
	return wireCode{Code: ac.Code, Time: ac.IssuedAt.Format(TimeLayout)}
}

func fromWire(w wireCode) (ActiveCode, error) {
	t, err := time.ParseInLocation(TimeLayout, w.Time, time.Local)
	if err != nil {
		return ActiveCode{}, fmt.Errorf("parse code time %q: %w", w.Time, err)
	}
	return ActiveCode{Code: w.Code, IssuedAt: t}, nil
}

// FileStore keeps the active code and history in two JSON files. A mutex
// makes it a single writer; the active file is always overwritten whole.
type FileStore struct {
	ActivePath  string
	HistoryPath string

	mu sync.Mutex
}

// NewFileStore creates a store over the given file paths.
func NewFileStore(activePath, historyPath string) *FileStore {
	return &FileStore{ActivePath: activePath, HistoryPath: historyPath}
}

// Save overwrites the active code file, then appends to the history file.
func (s *FileStore) Save(_ context.Context, ac ActiveCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	active, err := json.Marshal(toWire(ac))
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.ActivePath, active, 0o644); err != nil {
		return fmt.Errorf("write active code: %w", err)
	}

	history, err := s.readHistory()
	if err != nil {
		return fmt.Errorf("history diverged from active code: %w", err)
	}
	history = append(history, toWire(ac))
	data, err := json.MarshalIndent(history, "", "    ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.HistoryPath, data, 0o644); err != nil {
		return fmt.Errorf("history diverged from active code: %w", err)
	}
	return nil
}

// Active loads the current code; a missing file means no code was issued.
func (s *FileStore) Active(_ context.Context) (*ActiveCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.ActivePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var w wireCode
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode active code: %w", err)
	}
	ac, err := fromWire(w)
	if err != nil {
		return nil, err
	}
	return &ac, nil
}

// History returns every code ever issued, oldest first.
func (s *FileStore) History(_ context.Context) ([]ActiveCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wires, err := s.readHistory()
	if err != nil {
		return nil, err
	}
	out := make([]ActiveCode, 0, len(wires))
	for _, w := range wires {
		ac, err := fromWire(w)
		if err != nil {
			return nil, err
		}
		out = append(out, ac)
	}
	return out, nil
}

// readHistory tolerates a missing or corrupt file, matching the issuer's
// append behavior of starting a fresh history in that case.
func (s *FileStore) readHistory() ([]wireCode, error) {
	data, err := os.ReadFile(s.HistoryPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var wires []wireCode
	if err := json.Unmarshal(data, &wires); err != nil {
		return nil, nil
	}
	return wires, nil
}
