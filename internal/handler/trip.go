package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/travel-planner/internal/domain"
)

// CreateTripRequest is the body of POST /trips. Snapshot sequences are never
// accepted on create; items are added through the item routes.
type CreateTripRequest struct {
	OwnerID     string   `json:"ownerId"`
	Name        string   `json:"name"`
	Budget      *float64 `json:"budget"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Description string   `json:"description"`
}

// Trip is the wire shape of a trip. Dates are calendar dates.
type Trip struct {
	ID                  uuid.UUID                   `json:"id"`
	Name                string                      `json:"name"`
	Budget              float64                     `json:"budget"`
	StartDate           openapi_types.Date          `json:"startDate"`
	EndDate             openapi_types.Date          `json:"endDate"`
	Description         string                      `json:"description"`
	AttractionsSnapshot []domain.AttractionSnapshot `json:"attractionsSnapshot"`
	RestaurantsSnapshot []domain.RestaurantSnapshot `json:"restaurantsSnapshot"`
	ActivitiesSnapshot  []domain.ActivitySnapshot   `json:"activitiesSnapshot"`
	Metadata            domain.Metadata             `json:"metadata"`
}

func newTripHandler(svc TripServicer, log *slog.Logger) *resourceHandler[domain.Trip] {
	return &resourceHandler[domain.Trip]{
		kind:    domain.KindTrip,
		svc:     svc,
		idParam: "tripId",
		decode:  decodeTrip,
		present: func(t domain.Trip) any { return tripToResponse(t) },
		idOf:    func(t domain.Trip) uuid.UUID { return t.ID },
		log:     log,
	}
}

// decodeTrip converts a CreateTripRequest body into a domain.Trip.
// Returns a validation error if required fields are missing or malformed.
func decodeTrip(r *http.Request) (domain.Trip, string, error) {
	var body CreateTripRequest
	if err := decodeJSON(r, &body); err != nil {
		return domain.Trip{}, "", err
	}
	if body.Budget == nil {
		return domain.Trip{}, "", domain.Invalid("budget is required")
	}
	start, err := parseDate("startDate", body.StartDate)
	if err != nil {
		return domain.Trip{}, "", err
	}
	end, err := parseDate("endDate", body.EndDate)
	if err != nil {
		return domain.Trip{}, "", err
	}
	return domain.Trip{
		Name:        body.Name,
		Budget:      *body.Budget,
		StartDate:   start,
		EndDate:     end,
		Description: body.Description,
	}, body.OwnerID, nil
}

// parseDate reads a required ISO 8601 date, keeping only the calendar day.
func parseDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, domain.Invalid("%s is required", field)
	}
	t, err := domain.ParseDateTime(s)
	if err != nil {
		return time.Time{}, domain.Invalid("%s: %v", field, err)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// tripToResponse converts a domain.Trip into its wire shape.
func tripToResponse(t domain.Trip) Trip {
	return Trip{
		ID:                  t.ID,
		Name:                t.Name,
		Budget:              t.Budget,
		StartDate:           openapi_types.Date{Time: t.StartDate},
		EndDate:             openapi_types.Date{Time: t.EndDate},
		Description:         t.Description,
		AttractionsSnapshot: nonNil(t.AttractionsSnapshot),
		RestaurantsSnapshot: nonNil(t.RestaurantsSnapshot),
		ActivitiesSnapshot:  nonNil(t.ActivitiesSnapshot),
		Metadata:            t.Metadata,
	}
}

// nonNil renders a nil sequence as [] rather than null.
func nonNil[S any](s []S) []S {
	if s == nil {
		return []S{}
	}
	return s
}
