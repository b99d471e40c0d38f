package domain

import (
	"time"

	"github.com/google/uuid"
)

// Claim is the verified identity carried by a request's bearer token.
type Claim struct {
	UserID    uuid.UUID
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

// Valid reports whether the claim identifies a user.
func (c Claim) Valid() bool {
	return c.UserID != uuid.Nil
}

// Resource is implemented by every owned entity kind. T is the implementing
// type itself, so WithMetadata can return a fully typed copy.
type Resource[T any] interface {
	// Meta returns the ownership and audit block.
	Meta() Metadata
	// Revision returns the optimistic-concurrency version read from the store.
	Revision() int64
	// Validate enforces the kind's business rules on a draft before creation.
	Validate() error
	// WithMetadata returns a copy of the draft stamped with m, ready to insert.
	WithMetadata(m Metadata) T
}
