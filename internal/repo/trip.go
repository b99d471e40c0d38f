package repo

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/travel-planner/internal/domain"
)

// TripRepo is the persistence contract for trips.
type TripRepo = Store[domain.Trip]

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return newStore(db, tripTable, "TripRepo")
}

var tripTable = table[domain.Trip]{
	name: "trips",
	columns: []string{
		"id", "name", "budget", "start_date", "end_date", "description",
		"attractions_snapshot", "restaurants_snapshot", "activities_snapshot",
		"owner_id", "owner_email", "created_at", "updated_at", "version",
	},
	writable: []string{
		"name", "budget", "start_date", "end_date", "description",
		"attractions_snapshot", "restaurants_snapshot", "activities_snapshot",
	},
	owner: "owner_id",
	scan:  scanTrip,
	insert: func(t domain.Trip) pgx.NamedArgs {
		return pgx.NamedArgs{
			"name":                 t.Name,
			"budget":               t.Budget,
			"start_date":           t.StartDate,
			"end_date":             t.EndDate,
			"description":          t.Description,
			"attractions_snapshot": nonNil(t.AttractionsSnapshot),
			"restaurants_snapshot": nonNil(t.RestaurantsSnapshot),
			"activities_snapshot":  nonNil(t.ActivitiesSnapshot),
			"owner_id":             t.Metadata.OwnerID,
			"owner_email":          t.Metadata.OwnerEmail,
			"created_at":           t.Metadata.CreatedAt,
			"updated_at":           t.Metadata.UpdatedAt,
		}
	},
}

// scanTrip maps a single database row into a domain.Trip. Snapshot columns
// are JSONB arrays decoded by pgx.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t         domain.Trip
		id, owner pgtype.UUID
		start     pgtype.Date
		end       pgtype.Date
	)

	err := s.Scan(&id, &t.Name, &t.Budget, &start, &end, &t.Description,
		&t.AttractionsSnapshot, &t.RestaurantsSnapshot, &t.ActivitiesSnapshot,
		&owner, &t.Metadata.OwnerEmail, &t.Metadata.CreatedAt, &t.Metadata.UpdatedAt, &t.Version)
	if err != nil {
		return domain.Trip{}, notFound(err)
	}

	t.ID = uuid.UUID(id.Bytes)
	t.Metadata.OwnerID = uuid.UUID(owner.Bytes)
	t.StartDate = start.Time
	t.EndDate = end.Time
	t.Metadata.CreatedAt = t.Metadata.CreatedAt.UTC()
	t.Metadata.UpdatedAt = t.Metadata.UpdatedAt.UTC()
	t.AttractionsSnapshot = nonNil(t.AttractionsSnapshot)
	t.RestaurantsSnapshot = nonNil(t.RestaurantsSnapshot)
	t.ActivitiesSnapshot = nonNil(t.ActivitiesSnapshot)
	return t, nil
}

// nonNil makes empty sequences serialize as [] rather than null.
func nonNil[S any](s []S) []S {
	if s == nil {
		return []S{}
	}
	return s
}
