package service

import (
	"github.com/google/uuid"

	"github.com/pkordes/travel-planner/internal/domain"
)

// Authorize allows the request only when the claim's user owns the resource.
// An empty claim is ErrUnauthenticated; a valid claim for someone else is
// ErrForbidden.
func Authorize(claim domain.Claim, ownerID uuid.UUID) error {
	if !claim.Valid() {
		return domain.ErrUnauthenticated
	}
	if claim.UserID != ownerID {
		return domain.ErrForbidden
	}
	return nil
}

// ResolveOwner returns the owner a new resource is created for: the
// requested id when one is supplied, otherwise the claim's user. The
// requested id is checked against the claim later, by Authorize, once the
// owner is known to exist.
func ResolveOwner(claim domain.Claim, requested string) (uuid.UUID, error) {
	if !claim.Valid() {
		return uuid.Nil, domain.ErrUnauthenticated
	}
	if requested == "" {
		return claim.UserID, nil
	}
	id, err := uuid.Parse(requested)
	if err != nil {
		// Cannot name the requester, so it names someone else.
		return uuid.Nil, domain.ErrForbidden
	}
	return id, nil
}

// checkPatchOwner rejects an update body whose ownerId is not the requester.
// Ownership is never reassigned through an update.
func checkPatchOwner(claim domain.Claim, ownerID *string) error {
	if ownerID == nil || *ownerID == claim.UserID.String() {
		return nil
	}
	return domain.ErrForbidden
}
