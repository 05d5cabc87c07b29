package directory

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"secureattend/internal/apperr"
)

// PGRegistry reads students and teacher accounts from Postgres.
type PGRegistry struct {
	db *sql.DB
}

// NewPGRegistry creates a Postgres-backed registry.
func NewPGRegistry(db *sql.DB) *PGRegistry {
	return &PGRegistry{db: db}
}

// Find returns the student with the given roll number, or nil.
func (r *PGRegistry) Find(ctx context.Context, rollNo string) (*Student, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT roll_no, name, password, COALESCE(device_token, '')
		FROM students WHERE roll_no = $1
	`, rollNo)
	var s Student
	if err := row.Scan(&s.RollNo, &s.Name, &s.Password, &s.DeviceToken); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// Authenticate matches roll number and password exactly.
func (r *PGRegistry) Authenticate(ctx context.Context, rollNo, password string) (*Student, error) {
	s, err := r.Find(ctx, rollNo)
	if err != nil {
		return nil, err
	}
	if s == nil || s.Password != password {
		return nil, apperr.ErrAuthentication
	}
	return s, nil
}

// Verify checks the roll number exactly and the name case-insensitively.
func (r *PGRegistry) Verify(ctx context.Context, rollNo, name string) (bool, error) {
	s, err := r.Find(ctx, rollNo)
	if err != nil {
		return false, err
	}
	return s != nil && strings.EqualFold(s.Name, name), nil
}

// Teacher is an instructor account allowed to issue codes and read the
// ledger. Passwords are stored bcrypt-hashed.
type Teacher struct {
	ID        int64
	TeacherID string
	Name      string
}

// AuthenticateTeacher checks a teacher login against the stored hash.
func (r *PGRegistry) AuthenticateTeacher(ctx context.Context, teacherID, password string) (*Teacher, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, teacher_id, name, password_hash
		FROM teachers WHERE teacher_id = $1
	`, teacherID)
	var (
		t    Teacher
		hash string
	)
	if err := row.Scan(&t.ID, &t.TeacherID, &t.Name, &hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrAuthentication
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, apperr.ErrAuthentication
	}
	return &t, nil
}
