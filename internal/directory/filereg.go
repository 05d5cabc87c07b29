package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"secureattend/internal/apperr"
)

// FileRegistry reads students.json on every query.
type FileRegistry struct {
	Path string
}

// NewFileRegistry creates a registry over a students.json file.
func NewFileRegistry(path string) *FileRegistry {
	return &FileRegistry{Path: path}
}

func (r *FileRegistry) load() ([]Student, error) {
	data, err := os.ReadFile(r.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.Wrap(apperr.ErrRegistryNotFound, err)
		}
		return nil, err
	}
	var students []Student
	if err := json.Unmarshal(data, &students); err != nil {
		return nil, fmt.Errorf("decode student registry: %w", err)
	}
	return students, nil
}

// Find returns the student with the given roll number, or nil.
func (r *FileRegistry) Find(_ context.Context, rollNo string) (*Student, error) {
	students, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range students {
		if students[i].RollNo == rollNo {
			return &students[i], nil
		}
	}
	return nil, nil
}

// Authenticate matches roll number and password exactly.
func (r *FileRegistry) Authenticate(_ context.Context, rollNo, password string) (*Student, error) {
	students, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range students {
		if students[i].RollNo == rollNo && students[i].Password == password {
			return &students[i], nil
		}
	}
	return nil, apperr.ErrAuthentication
}

// Verify checks the roll number exactly and the name case-insensitively.
func (r *FileRegistry) Verify(_ context.Context, rollNo, name string) (bool, error) {
	students, err := r.load()
	if err != nil {
		return false, err
	}
	for i := range students {
		if students[i].RollNo == rollNo && strings.EqualFold(students[i].Name, name) {
			return true, nil
		}
	}
	return false, nil
}
