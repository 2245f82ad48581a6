package model

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of account roles. Attendees register for events,
// organizers create and manage them.
type Role string

const (
	RoleAttendee  Role = "attendee"
	RoleOrganizer Role = "organizer"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAttendee, RoleOrganizer:
		return true
	}
	return false
}

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	Phone        *string   `json:"phone,omitempty" db:"phone"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type UpdateUserParams struct {
	Name  *string
	Phone *string
}
