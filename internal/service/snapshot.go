package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/travel-planner/internal/domain"
)

// membership adds and removes one kind of snapshot on a trip. Both return
// the patch that writes the whole updated sequence.
type membership interface {
	add(ctx context.Context, t domain.Trip, entityID uuid.UUID) (domain.Patch, error)
	remove(t domain.Trip, entityID uuid.UUID) (domain.Patch, error)
}

// listMembership is the membership of catalog kind E, projected to S.
type listMembership[E any, S domain.Snapshot] struct {
	kind    domain.Kind
	column  string
	load    func(ctx context.Context, id uuid.UUID) (E, error)
	project func(E) S
	list    func(domain.Trip) []S
}

func (m listMembership[E, S]) add(ctx context.Context, t domain.Trip, entityID uuid.UUID) (domain.Patch, error) {
	entity, err := m.load(ctx, entityID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound(m.kind.String())
	}
	if err != nil {
		return nil, err
	}
	next, err := domain.AppendUnique(m.list(t), m.project(entity))
	if errors.Is(err, domain.ErrDuplicate) {
		return nil, domain.Duplicate(m.kind.String())
	}
	if err != nil {
		return nil, err
	}
	return domain.Patch{m.column: next}, nil
}

func (m listMembership[E, S]) remove(t domain.Trip, entityID uuid.UUID) (domain.Patch, error) {
	next, err := domain.RemoveByID(m.list(t), entityID, m.kind.String()+" in trip")
	if err != nil {
		return nil, err
	}
	return domain.Patch{m.column: next}, nil
}

// SnapshotMerger adds catalog items to trips and removes them. Each change
// runs through the trip's read-modify-write cycle, so concurrent adds to the
// same trip never lose one another.
type SnapshotMerger struct {
	trips *OwnedResource[domain.Trip]
	kinds map[domain.Kind]membership
}

// CatalogGetters are the lookups a merger projects snapshots from.
type CatalogGetters struct {
	Attractions func(ctx context.Context, id uuid.UUID) (domain.Attraction, error)
	Restaurants func(ctx context.Context, id uuid.UUID) (domain.Restaurant, error)
	Activities  func(ctx context.Context, id uuid.UUID) (domain.Activity, error)
}

// NewSnapshotMerger wires the three snapshot kinds onto the trip resource.
func NewSnapshotMerger(trips *OwnedResource[domain.Trip], c CatalogGetters) *SnapshotMerger {
	return &SnapshotMerger{
		trips: trips,
		kinds: map[domain.Kind]membership{
			domain.KindAttraction: listMembership[domain.Attraction, domain.AttractionSnapshot]{
				kind:    domain.KindAttraction,
				column:  domain.ColAttractions,
				load:    c.Attractions,
				project: domain.Attraction.Snapshot,
				list:    func(t domain.Trip) []domain.AttractionSnapshot { return t.AttractionsSnapshot },
			},
			domain.KindRestaurant: listMembership[domain.Restaurant, domain.RestaurantSnapshot]{
				kind:    domain.KindRestaurant,
				column:  domain.ColRestaurants,
				load:    c.Restaurants,
				project: domain.Restaurant.Snapshot,
				list:    func(t domain.Trip) []domain.RestaurantSnapshot { return t.RestaurantsSnapshot },
			},
			domain.KindActivity: listMembership[domain.Activity, domain.ActivitySnapshot]{
				kind:    domain.KindActivity,
				column:  domain.ColActivities,
				load:    c.Activities,
				project: domain.Activity.Snapshot,
				list:    func(t domain.Trip) []domain.ActivitySnapshot { return t.ActivitiesSnapshot },
			},
		},
	}
}

// Add appends a snapshot of the catalog entity to the trip. Adding an entity
// already present fails with domain.ErrDuplicate and changes nothing.
func (m *SnapshotMerger) Add(ctx context.Context, claim domain.Claim, tripID uuid.UUID, kind domain.Kind, entityID uuid.UUID) (domain.Trip, error) {
	mem, err := m.lookup(kind)
	if err != nil {
		return domain.Trip{}, err
	}
	return m.trips.mutate(ctx, claim, tripID, "Add"+title(kind), func(t domain.Trip) (domain.Patch, error) {
		return mem.add(ctx, t, entityID)
	})
}

// Remove drops the entity's snapshot from the trip, keeping the order of the
// others. An entity not on the trip is NotFound.
func (m *SnapshotMerger) Remove(ctx context.Context, claim domain.Claim, tripID uuid.UUID, kind domain.Kind, entityID uuid.UUID) (domain.Trip, error) {
	mem, err := m.lookup(kind)
	if err != nil {
		return domain.Trip{}, err
	}
	return m.trips.mutate(ctx, claim, tripID, "Remove"+title(kind), func(t domain.Trip) (domain.Patch, error) {
		return mem.remove(t, entityID)
	})
}

func (m *SnapshotMerger) lookup(kind domain.Kind) (membership, error) {
	mem, ok := m.kinds[kind]
	if !ok {
		return nil, fmt.Errorf("service.SnapshotMerger: %w: %s cannot be added to a trip", domain.ErrValidation, kind)
	}
	return mem, nil
}
