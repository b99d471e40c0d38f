package domain

import (
	"time"

	"github.com/google/uuid"
)

// Metadata is the ownership and audit block shared by every mutable entity.
// OwnerID and CreatedAt never change after the first write. OwnerEmail is the
// owner's email as it was at creation time and is not re-synced.
type Metadata struct {
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	OwnerID    uuid.UUID `json:"ownerID"`
	OwnerEmail string    `json:"ownerEmail"`
}

// Resolution is the timestamp precision the store keeps. Timestamps are
// truncated to it before they are compared or written.
const Resolution = time.Microsecond

// NewMetadata returns the block for a freshly created entity:
// CreatedAt and UpdatedAt are both now.
func NewMetadata(owner User, now time.Time) Metadata {
	now = now.UTC().Truncate(Resolution)
	return Metadata{
		CreatedAt:  now,
		UpdatedAt:  now,
		OwnerID:    owner.ID,
		OwnerEmail: owner.Email,
	}
}

// MergeMetadata computes the block written alongside an update. Everything
// but UpdatedAt is carried over from existing. UpdatedAt becomes now, bumped
// by one Resolution step when the clock has not advanced past the previous
// value, so successive updates always observe a strictly larger UpdatedAt.
func MergeMetadata(existing Metadata, now time.Time) Metadata {
	now = now.UTC().Truncate(Resolution)
	if !now.After(existing.UpdatedAt) {
		now = existing.UpdatedAt.Add(Resolution)
	}
	return Metadata{
		CreatedAt:  existing.CreatedAt,
		UpdatedAt:  now,
		OwnerID:    existing.OwnerID,
		OwnerEmail: existing.OwnerEmail,
	}
}
