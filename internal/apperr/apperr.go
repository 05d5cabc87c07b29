package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a typed domain error carrying an HTTP status for the service
// variant. Every failure in the marking flow is terminal for that attempt.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors by taxonomy code, so a wrapped clone still compares
// equal to its base var under errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e != nil && t != nil && e.Code == t.Code
}

// New creates a typed error.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches an underlying cause to a typed error.
func Wrap(base *Error, err error) *Error {
	if base == nil {
		return nil
	}
	clone := *base
	clone.Err = err
	return &clone
}

// The full failure taxonomy of an attendance attempt.
var (
	ErrAuthentication      = New("AUTHENTICATION_FAILURE", http.StatusUnauthorized, "Invalid roll number or credentials")
	ErrStudentNotFound     = New("STUDENT_NOT_FOUND", http.StatusNotFound, "Student not found")
	ErrRegistryNotFound    = New("REGISTRY_NOT_FOUND", http.StatusInternalServerError, "Student registry not found")
	ErrNoActiveCode        = New("NO_ACTIVE_CODE", http.StatusBadRequest, "No active attendance code")
	ErrCodeExpired         = New("CODE_EXPIRED", http.StatusBadRequest, "Code has expired")
	ErrCodeMismatch        = New("CODE_MISMATCH", http.StatusBadRequest, "Wrong code")
	ErrLocationOutOfRange  = New("LOCATION_OUT_OF_RANGE", http.StatusBadRequest, "Not within classroom radius")
	ErrCameraUnavailable   = New("CAMERA_UNAVAILABLE", http.StatusInternalServerError, "Could not access the camera")
	ErrSnapshotDecode      = New("SNAPSHOT_DECODE_FAILURE", http.StatusBadRequest, "Snapshot decode failed")
	ErrNoFaceDetected      = New("NO_FACE_DETECTED", http.StatusBadRequest, "No face detected in snapshot")
	ErrDuplicateAttendance = New("DUPLICATE_ATTENDANCE", http.StatusConflict, "Attendance already marked")
	ErrInternal            = New("INTERNAL_ERROR", http.StatusInternalServerError, "Internal error")
)

// FromError normalises any error into an *Error, defaulting to ErrInternal.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(ErrInternal, err)
}
