// Package service contains the business logic for the travel planner.
// Services enforce ownership, validate inputs, merge partial updates and
// orchestrate repo calls. No SQL lives here; services depend on repo
// interfaces, not implementations.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/travel-planner/internal/domain"
	"github.com/pkordes/travel-planner/internal/repo"
)

// UserGetter resolves the owner of a resource being created.
type UserGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
}

// OwnedResource implements create, read, partial update and delete for one
// owned entity kind. Every kind (trips, the three catalog kinds and users)
// is an instance of it; they differ only in store, allowlist and the
// optional cross-field check on patches.
type OwnedResource[T domain.Resource[T]] struct {
	kind   domain.Kind
	name   string
	store  repo.Store[T]
	owners UserGetter
	allow  domain.Allowlist
	check  func(existing T, p domain.Patch) error
	w      *Writer
	log    *slog.Logger
}

// NewOwnedResource wires one kind. check may be nil.
func NewOwnedResource[T domain.Resource[T]](
	kind domain.Kind,
	store repo.Store[T],
	owners UserGetter,
	allow domain.Allowlist,
	check func(existing T, p domain.Patch) error,
	w *Writer,
) *OwnedResource[T] {
	return &OwnedResource[T]{
		kind:   kind,
		name:   serviceName(kind),
		store:  store,
		owners: owners,
		allow:  allow,
		check:  check,
		w:      w,
		log:    w.log,
	}
}

func serviceName(k domain.Kind) string { return title(k) + "Service" }

// title is the capitalized kind name ("Trip"), used in op names.
func title(k domain.Kind) string {
	s := k.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// Kind reports which entity kind this resource serves.
func (r *OwnedResource[T]) Kind() domain.Kind { return r.kind }

// Create resolves the owner (the claim's user unless ownerID is given),
// checks the owner exists, authorizes the claim against it and persists the
// draft with fresh metadata.
func (r *OwnedResource[T]) Create(ctx context.Context, claim domain.Claim, ownerID string, draft T) (T, error) {
	var zero T
	op := r.name + ".Create"

	if err := draft.Validate(); err != nil {
		return zero, err
	}
	resolved, err := ResolveOwner(claim, ownerID)
	if err != nil {
		return zero, r.deny(ctx, op, claim, uuid.Nil, err)
	}
	owner, err := r.owners.GetByID(ctx, resolved)
	if errors.Is(err, domain.ErrNotFound) {
		return zero, fmt.Errorf("service.%s: %w", op, domain.ErrOwnerNotFound)
	}
	if err != nil {
		return zero, fmt.Errorf("service.%s: %w", op, err)
	}
	if err := Authorize(claim, owner.ID); err != nil {
		return zero, r.deny(ctx, op, claim, owner.ID, err)
	}

	created, err := r.store.Create(ctx, draft.WithMetadata(domain.NewMetadata(owner, r.w.Now())))
	if err != nil {
		return zero, fmt.Errorf("service.%s: %w", op, err)
	}
	return created, nil
}

// GetByID returns a NotFound naming the kind when the id is unknown.
func (r *OwnedResource[T]) GetByID(ctx context.Context, id uuid.UUID) (T, error) {
	v, err := r.load(ctx, id)
	if err != nil {
		return v, fmt.Errorf("service.%s.GetByID: %w", r.name, err)
	}
	return v, nil
}

// List returns every entity of the kind. An empty result is NotFound.
func (r *OwnedResource[T]) List(ctx context.Context, p domain.PageParams) ([]T, error) {
	out, err := r.store.List(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("service.%s.List: %w", r.name, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("service.%s.List: %w", r.name, domain.NotFound(r.kind.Plural()))
	}
	return out, nil
}

// ListByOwner returns the entities owned by ownerID. An empty result is
// NotFound.
func (r *OwnedResource[T]) ListByOwner(ctx context.Context, ownerID uuid.UUID, p domain.PageParams) ([]T, error) {
	out, err := r.store.ListByOwner(ctx, ownerID, p)
	if err != nil {
		return nil, fmt.Errorf("service.%s.ListByOwner: %w", r.name, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("service.%s.ListByOwner: %w", r.name, domain.NotFound(r.kind.Plural()))
	}
	return out, nil
}

// Count returns the number of stored entities of the kind.
func (r *OwnedResource[T]) Count(ctx context.Context) (int64, error) {
	n, err := r.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("service.%s.Count: %w", r.name, err)
	}
	return n, nil
}

// Update applies an allowlisted partial update. Existence is checked before
// ownership, ownership before the body. Only the fields present in the body
// are written, together with the merged metadata.
func (r *OwnedResource[T]) Update(ctx context.Context, claim domain.Claim, id uuid.UUID, fields map[string]json.RawMessage) (T, error) {
	return r.mutate(ctx, claim, id, "Update", func(existing T) (domain.Patch, error) {
		ch, err := r.allow.Parse(fields)
		if err != nil {
			return nil, err
		}
		if err := checkPatchOwner(claim, ch.OwnerID); err != nil {
			return nil, r.deny(ctx, r.name+".Update", claim, existing.Meta().OwnerID, err)
		}
		if err := ch.RequireFields(); err != nil {
			return nil, err
		}
		if r.check != nil {
			if err := r.check(existing, ch.Fields); err != nil {
				return nil, err
			}
		}
		return ch.Fields, nil
	})
}

// Delete removes the entity. A second delete of the same id is NotFound,
// never Forbidden.
func (r *OwnedResource[T]) Delete(ctx context.Context, claim domain.Claim, id uuid.UUID) error {
	op := r.name + ".Delete"
	if !claim.Valid() {
		return fmt.Errorf("service.%s: %w", op, domain.ErrUnauthenticated)
	}
	err := r.w.withLock(id, func() error {
		existing, err := r.load(ctx, id)
		if err != nil {
			return err
		}
		if err := Authorize(claim, existing.Meta().OwnerID); err != nil {
			return r.deny(ctx, op, claim, existing.Meta().OwnerID, err)
		}
		if err := r.store.Delete(ctx, id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.NotFound(r.kind.String())
			}
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("service.%s: %w", op, err)
	}
	return nil
}

// mutate is the read-modify-write cycle behind every change to an existing
// entity: lock the id, load, authorize, compute the patch, merge metadata and
// write conditioned on the version that was read. A stale write starts the
// cycle again from the load.
func (r *OwnedResource[T]) mutate(ctx context.Context, claim domain.Claim, id uuid.UUID, op string, change func(existing T) (domain.Patch, error)) (T, error) {
	var out T
	op = r.name + "." + op
	if !claim.Valid() {
		return out, fmt.Errorf("service.%s: %w", op, domain.ErrUnauthenticated)
	}

	err := r.w.withLock(id, func() error {
		return r.w.retry(ctx, r.kind, id, func() error {
			existing, err := r.load(ctx, id)
			if err != nil {
				return err
			}
			meta := existing.Meta()
			if err := Authorize(claim, meta.OwnerID); err != nil {
				return r.deny(ctx, op, claim, meta.OwnerID, err)
			}
			patch, err := change(existing)
			if err != nil {
				return err
			}
			next := domain.MergeMetadata(meta, r.w.Now())
			out, err = r.store.Update(ctx, id, patch, next.UpdatedAt, existing.Revision())
			return err
		})
	})
	if err != nil {
		var zero T
		return zero, fmt.Errorf("service.%s: %w", op, err)
	}
	return out, nil
}

// load fetches by id, naming the kind in the not-found error.
func (r *OwnedResource[T]) load(ctx context.Context, id uuid.UUID) (T, error) {
	v, err := r.store.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return v, domain.NotFound(r.kind.String())
	}
	return v, err
}

// deny logs an ownership rejection and returns err unchanged.
func (r *OwnedResource[T]) deny(ctx context.Context, op string, claim domain.Claim, ownerID uuid.UUID, err error) error {
	if errors.Is(err, domain.ErrForbidden) {
		r.log.WarnContext(ctx, "ownership check failed",
			"op", op, "kind", r.kind, "user_id", claim.UserID, "owner_id", ownerID)
	}
	return err
}
