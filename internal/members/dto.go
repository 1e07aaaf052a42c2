package members

import (
	"time"

	"github.com/google/uuid"
)

// CreateMemberInput is the validated payload for enrolling a member.
type CreateMemberInput struct {
	MemberNumber *int
	FirstName    string
	LastName     string
	Email        *string
	Phone        *string
	Address      string
	City         string
	State        string
	ZipCode      string
	MemberTypeID uuid.UUID
	JoinedOn     *time.Time
	// ExpirationDate is normalized to end-of-month before persisting.
	ExpirationDate *time.Time
	Notes          string
}

// UpdateMemberInput carries partial updates; nil fields are left untouched.
type UpdateMemberInput struct {
	MemberNumber   *int
	FirstName      *string
	LastName       *string
	Email          *string
	Phone          *string
	Address        *string
	City           *string
	State          *string
	ZipCode        *string
	MemberTypeID   *uuid.UUID
	ExpirationDate *time.Time
	Notes          *string
}

// SearchInput mirrors the member-search surface: a free-text query that is
// either a club number or a name fragment, plus an optional status filter.
type SearchInput struct {
	Query  string
	Status string
	Limit  int
}
