// Package members keeps the club roster: the people ledger assignments
// reference and auth logs in.
package members

import (
	"errors"
	"time"

	"github.com/ensemble-club/ensemble/internal/authz"
)

// Status tracks a member's standing in the club.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusGraduated Status = "graduated"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusGraduated:
		return true
	}
	return false
}

// Member represents one club member.
type Member struct {
	ID              string     `json:"id"`
	FullName        string     `json:"full_name"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone,omitempty"`
	Role            authz.Role `json:"role"`
	Status          Status     `json:"status"`
	ClassID         string     `json:"class_id,omitempty"`
	DepartmentID    string     `json:"department_id,omitempty"`
	InstrumentTypes []string   `json:"instrument_types,omitempty"`
	PasswordHash    string     `json:"-"`
	CreatedAt       time.Time  `json:"created_at"`
}

// CreateInput describes a new member.
type CreateInput struct {
	FullName     string
	Email        string
	Phone        string
	Role         authz.Role
	ClassID      string
	DepartmentID string
	Password     string
}

// Filter narrows List results.
type Filter struct {
	Role   authz.Role
	Status Status
}

// ErrNotFound indicates the member does not exist.
var ErrNotFound = errors.New("members: not found")

// ErrDuplicateEmail indicates another member already uses the email.
var ErrDuplicateEmail = errors.New("members: duplicate email")

// ErrInvalidArgument indicates malformed input.
var ErrInvalidArgument = errors.New("members: invalid argument")
