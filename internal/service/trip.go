package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pkordes/travel-planner/internal/domain"
	"github.com/pkordes/travel-planner/internal/repo"
)

// TripService is the trip aggregate: lifecycle through the generic owned
// resource, plus snapshot membership through the merger.
type TripService struct {
	*OwnedResource[domain.Trip]
	snapshots *SnapshotMerger
}

// Catalog groups the catalog stores a trip takes snapshots from.
type Catalog struct {
	Attractions repo.AttractionRepo
	Restaurants repo.RestaurantRepo
	Activities  repo.ActivityRepo
}

// NewTripService constructs a TripService. Patches that touch either date
// are checked against the stored trip so endDate stays after startDate.
func NewTripService(trips repo.TripRepo, users UserGetter, catalog Catalog, w *Writer) *TripService {
	res := NewOwnedResource(domain.KindTrip, trips, users, domain.TripAllowlist, domain.CheckTripPatch, w)
	return &TripService{
		OwnedResource: res,
		snapshots: NewSnapshotMerger(res, CatalogGetters{
			Attractions: catalog.Attractions.GetByID,
			Restaurants: catalog.Restaurants.GetByID,
			Activities:  catalog.Activities.GetByID,
		}),
	}
}

// AddItem adds a snapshot of a catalog entity to the trip.
func (s *TripService) AddItem(ctx context.Context, claim domain.Claim, tripID uuid.UUID, kind domain.Kind, entityID uuid.UUID) (domain.Trip, error) {
	return s.snapshots.Add(ctx, claim, tripID, kind, entityID)
}

// RemoveItem removes a catalog entity's snapshot from the trip.
func (s *TripService) RemoveItem(ctx context.Context, claim domain.Claim, tripID uuid.UUID, kind domain.Kind, entityID uuid.UUID) (domain.Trip, error) {
	return s.snapshots.Remove(ctx, claim, tripID, kind, entityID)
}
