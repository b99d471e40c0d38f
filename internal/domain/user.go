package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is a registered account. Every other entity is owned by a user.
// A user owns itself: its metadata is derived from its own id and email.
type User struct {
	ID           uuid.UUID `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Version      int64     `json:"-"`
}

func (u User) Meta() Metadata {
	return Metadata{CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt, OwnerID: u.ID, OwnerEmail: u.Email}
}

func (u User) Revision() int64 { return u.Version }

func (u User) Validate() error {
	if err := requireText("firstName", u.FirstName); err != nil {
		return err
	}
	if err := requireText("lastName", u.LastName); err != nil {
		return err
	}
	if !strings.Contains(u.Email, "@") {
		return Invalid("a valid email address is required")
	}
	if u.PasswordHash == "" {
		return Invalid("password is required")
	}
	return nil
}

func (u User) WithMetadata(m Metadata) User {
	u.CreatedAt = m.CreatedAt
	u.UpdatedAt = m.UpdatedAt
	return u
}

// UserAllowlist lists the profile fields a user may change. Email and
// password are not updatable.
var UserAllowlist = Allowlist{
	"firstName": {Column: "first_name", Decode: RequiredText},
	"lastName":  {Column: "last_name", Decode: RequiredText},
}
