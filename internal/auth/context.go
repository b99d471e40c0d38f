package auth

import (
	"context"

	"github.com/pkordes/travel-planner/internal/domain"
)

type claimKey struct{}

// WithClaim returns a copy of ctx carrying the verified claim.
func WithClaim(ctx context.Context, c domain.Claim) context.Context {
	return context.WithValue(ctx, claimKey{}, c)
}

// ClaimFrom returns the claim stored by WithClaim, or the zero Claim.
func ClaimFrom(ctx context.Context) domain.Claim {
	c, _ := ctx.Value(claimKey{}).(domain.Claim)
	return c
}
