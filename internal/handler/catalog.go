package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/pkordes/travel-planner/internal/domain"
)

// Catalog create bodies are the entity itself plus an optional ownerId.
// Server-managed fields (id, metadata) in the body are ignored.

type attractionRequest struct {
	domain.Attraction
	OwnerID string `json:"ownerId"`
}

type restaurantRequest struct {
	domain.Restaurant
	OwnerID string `json:"ownerId"`
}

// activityRequest shadows Date so calendar dates are accepted as well as
// RFC 3339 timestamps.
type activityRequest struct {
	domain.Activity
	OwnerID string `json:"ownerId"`
	Date    string `json:"date"`
}

func newAttractionHandler(svc Resource[domain.Attraction], log *slog.Logger) *resourceHandler[domain.Attraction] {
	return &resourceHandler[domain.Attraction]{
		kind:    domain.KindAttraction,
		svc:     svc,
		idParam: "attractionId",
		decode: func(r *http.Request) (domain.Attraction, string, error) {
			var body attractionRequest
			if err := decodeJSON(r, &body); err != nil {
				return domain.Attraction{}, "", err
			}
			a := body.Attraction
			a.ID, a.Metadata = uuid.Nil, domain.Metadata{}
			return a, body.OwnerID, nil
		},
		present: func(a domain.Attraction) any { return a },
		idOf:    func(a domain.Attraction) uuid.UUID { return a.ID },
		log:     log,
	}
}

func newRestaurantHandler(svc Resource[domain.Restaurant], log *slog.Logger) *resourceHandler[domain.Restaurant] {
	return &resourceHandler[domain.Restaurant]{
		kind:    domain.KindRestaurant,
		svc:     svc,
		idParam: "restaurantId",
		decode: func(r *http.Request) (domain.Restaurant, string, error) {
			var body restaurantRequest
			if err := decodeJSON(r, &body); err != nil {
				return domain.Restaurant{}, "", err
			}
			rs := body.Restaurant
			rs.ID, rs.Metadata = uuid.Nil, domain.Metadata{}
			return rs, body.OwnerID, nil
		},
		present: func(rs domain.Restaurant) any { return rs },
		idOf:    func(rs domain.Restaurant) uuid.UUID { return rs.ID },
		log:     log,
	}
}

func newActivityHandler(svc Resource[domain.Activity], log *slog.Logger) *resourceHandler[domain.Activity] {
	return &resourceHandler[domain.Activity]{
		kind:    domain.KindActivity,
		svc:     svc,
		idParam: "activityId",
		decode: func(r *http.Request) (domain.Activity, string, error) {
			var body activityRequest
			if err := decodeJSON(r, &body); err != nil {
				return domain.Activity{}, "", err
			}
			a := body.Activity
			a.ID, a.Metadata = uuid.Nil, domain.Metadata{}
			if body.Date == "" {
				return domain.Activity{}, "", domain.Invalid("date is required")
			}
			date, err := domain.ParseDateTime(body.Date)
			if err != nil {
				return domain.Activity{}, "", domain.Invalid("date: %v", err)
			}
			a.Date = date
			return a, body.OwnerID, nil
		},
		present: func(a domain.Activity) any { return a },
		idOf:    func(a domain.Activity) uuid.UUID { return a.ID },
		log:     log,
	}
}
