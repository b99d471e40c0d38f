package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/travel-planner/internal/auth"
	"github.com/pkordes/travel-planner/internal/domain"
)

// itemTarget resolves the trip id and item kind from the URL.
func itemTarget(r *http.Request) (uuid.UUID, domain.Kind, error) {
	tripID, err := pathUUID(r, "tripId")
	if err != nil {
		return uuid.Nil, "", err
	}
	kind, err := domain.ParseSnapshotKind(chi.URLParam(r, "kind"))
	if err != nil {
		return uuid.Nil, "", err
	}
	return tripID, kind, nil
}

// itemID reads the referenced entity id from a body of the form
// {"attractionId": "..."} or {"id": "..."}.
func itemID(r *http.Request, kind domain.Kind) (uuid.UUID, error) {
	var body map[string]json.RawMessage
	if err := decodeJSON(r, &body); err != nil {
		return uuid.Nil, err
	}
	key := kind.String() + "Id"
	raw, ok := body[key]
	if !ok {
		raw, ok = body["id"]
	}
	if !ok {
		return uuid.Nil, domain.Invalid("%s is required", key)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return uuid.Nil, domain.Invalid("%s must be a string", key)
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, domain.Invalid("%s must be a UUID, got %q", key, s)
	}
	return id, nil
}

// AddItem handles PUT /trips/{tripId}/{kind}. The entity's current fields
// are copied into the trip as a snapshot.
func (s *Server) AddItem(w http.ResponseWriter, r *http.Request) {
	tripID, kind, err := itemTarget(r)
	if err != nil {
		respondError(w, r, s.log, err)
		return
	}
	entityID, err := itemID(r, kind)
	if err != nil {
		respondError(w, r, s.log, err)
		return
	}
	trip, err := s.trips.AddItem(r.Context(), auth.ClaimFrom(r.Context()), tripID, kind, entityID)
	if err != nil {
		respondError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": title(kind) + " added to trip successfully",
		"trip":    tripToResponse(trip),
	})
}

// RemoveItem handles DELETE /trips/{tripId}/{kind}/{entityId}, and
// DELETE /trips/{tripId}/{kind} with the id in the body.
func (s *Server) RemoveItem(w http.ResponseWriter, r *http.Request) {
	tripID, kind, err := itemTarget(r)
	if err != nil {
		respondError(w, r, s.log, err)
		return
	}
	var entityID uuid.UUID
	if chi.URLParam(r, "entityId") != "" {
		entityID, err = pathUUID(r, "entityId")
	} else {
		entityID, err = itemID(r, kind)
	}
	if err != nil {
		respondError(w, r, s.log, err)
		return
	}
	trip, err := s.trips.RemoveItem(r.Context(), auth.ClaimFrom(r.Context()), tripID, kind, entityID)
	if err != nil {
		respondError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": title(kind) + " removed from trip successfully",
		"trip":    tripToResponse(trip),
	})
}
