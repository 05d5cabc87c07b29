// Package directory looks students up in the registry. The registry is
// created by an external registration step and is read-only here.
package directory

import "context"

// Student is one registry entry. Roll numbers are unique and compared
// case-sensitively; names are compared case-insensitively.
type Student struct {
	RollNo      string `json:"roll_no"`
	Name        string `json:"name"`
	Password    string `json:"password"`
	DeviceToken string `json:"device_token,omitempty"`
}

// Registry answers identity queries against the student registry. Every
// call reads the registry fresh; the registry is small and read-mostly.
type Registry interface {
	// Find returns the student with the given roll number, or nil.
	Find(ctx context.Context, rollNo string) (*Student, error)
	// Authenticate matches roll number and password exactly.
	Authenticate(ctx context.Context, rollNo, password string) (*Student, error)
	// Verify reports whether the roll number and name identify a
	// registered student.
	Verify(ctx context.Context, rollNo, name string) (bool, error)
}
