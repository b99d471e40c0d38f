// Package domain contains the core data types for the travel planner.
// It depends only on google/uuid and is imported by every other internal
// package (repo, service, handler).
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Trip is the aggregate a user composes from catalog items. The three
// snapshot sequences are ordered and unique by referenced id.
type Trip struct {
	ID                  uuid.UUID            `json:"id"`
	Name                string               `json:"name"`
	Budget              float64              `json:"budget"`
	StartDate           time.Time            `json:"startDate"`
	EndDate             time.Time            `json:"endDate"`
	Description         string               `json:"description"`
	AttractionsSnapshot []AttractionSnapshot `json:"attractionsSnapshot"`
	RestaurantsSnapshot []RestaurantSnapshot `json:"restaurantsSnapshot"`
	ActivitiesSnapshot  []ActivitySnapshot   `json:"activitiesSnapshot"`
	Metadata            Metadata             `json:"metadata"`
	Version             int64                `json:"-"`
}

func (t Trip) Meta() Metadata  { return t.Metadata }
func (t Trip) Revision() int64 { return t.Version }

// Validate checks a trip draft. Snapshot sequences are reset on create, so
// only the scalar fields are inspected.
func (t Trip) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return Invalid("name is required")
	}
	if strings.TrimSpace(t.Description) == "" {
		return Invalid("description is required")
	}
	if t.Budget < 0 {
		return Invalid("budget must not be negative")
	}
	if t.StartDate.IsZero() || t.EndDate.IsZero() {
		return Invalid("startDate and endDate are required")
	}
	return CheckTripDates(t.StartDate, t.EndDate)
}

// WithMetadata returns a copy ready to insert: snapshot sequences are empty.
func (t Trip) WithMetadata(m Metadata) Trip {
	t.Metadata = m
	t.AttractionsSnapshot = []AttractionSnapshot{}
	t.RestaurantsSnapshot = []RestaurantSnapshot{}
	t.ActivitiesSnapshot = []ActivitySnapshot{}
	return t
}

// CheckTripDates enforces endDate > startDate.
func CheckTripDates(start, end time.Time) error {
	if !end.After(start) {
		return Invalid("endDate must be after startDate")
	}
	return nil
}

// Trip column names, shared by the allowlist, the repo and the date
// cross-check in the service.
const (
	ColTripStartDate = "start_date"
	ColTripEndDate   = "end_date"
	ColAttractions   = "attractions_snapshot"
	ColRestaurants   = "restaurants_snapshot"
	ColActivities    = "activities_snapshot"
)

// TripAllowlist lists the trip fields a client may update. Snapshot
// sequences may be replaced wholesale; they are validated for unique ids.
var TripAllowlist = Allowlist{
	"name":                {Column: "name", Decode: RequiredText},
	"budget":              {Column: "budget", Decode: NonNegative},
	"startDate":           {Column: ColTripStartDate, Decode: Date},
	"endDate":             {Column: ColTripEndDate, Decode: Date},
	"description":         {Column: "description", Decode: RequiredText},
	"attractionsSnapshot": {Column: ColAttractions, Decode: SnapshotList[AttractionSnapshot]()},
	"restaurantsSnapshot": {Column: ColRestaurants, Decode: SnapshotList[RestaurantSnapshot]()},
	"activitiesSnapshot":  {Column: ColActivities, Decode: SnapshotList[ActivitySnapshot]()},
}

// CheckTripPatch validates a trip patch against the stored trip: when either
// date is patched, the resulting pair must still satisfy endDate > startDate.
func CheckTripPatch(existing Trip, p Patch) error {
	start, end := existing.StartDate, existing.EndDate
	s, hasStart := p[ColTripStartDate]
	e, hasEnd := p[ColTripEndDate]
	if !hasStart && !hasEnd {
		return nil
	}
	if hasStart {
		start = s.(time.Time)
	}
	if hasEnd {
		end = e.(time.Time)
	}
	return CheckTripDates(start, end)
}
