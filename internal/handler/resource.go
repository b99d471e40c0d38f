package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/travel-planner/internal/auth"
	"github.com/pkordes/travel-planner/internal/domain"
)

// resourceHandler serves the create, list, count, get, update and delete
// routes of one entity kind. The kind-specific parts are the create body
// decoder and the presenter.
type resourceHandler[T any] struct {
	kind    domain.Kind
	svc     Resource[T]
	idParam string
	// decode reads a create body; nil means the kind has no create route.
	decode  func(r *http.Request) (draft T, ownerID string, err error)
	present func(T) any
	idOf    func(T) uuid.UUID
	log     *slog.Logger
}

func (h *resourceHandler[T]) routes(r chi.Router) {
	if h.decode != nil {
		r.Post("/", h.create)
	}
	r.Get("/", h.list)
	r.Get("/count", h.count)
	r.Get("/{"+h.idParam+"}", h.get)
	r.Put("/{"+h.idParam+"}", h.update)
	r.Delete("/{"+h.idParam+"}", h.delete)
}

// title is the capitalized kind name used in response messages.
func title(k domain.Kind) string {
	s := k.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// create handles POST /{kind}. Responds 201 {message, id}.
func (h *resourceHandler[T]) create(w http.ResponseWriter, r *http.Request) {
	draft, ownerID, err := h.decode(r)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	created, err := h.svc.Create(r.Context(), auth.ClaimFrom(r.Context()), ownerID, draft)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": title(h.kind) + " created successfully",
		"id":      h.idOf(created),
	})
}

// list handles GET /{kind}. Supports ?page= and ?limit=; without them the
// whole collection is returned.
func (h *resourceHandler[T]) list(w http.ResponseWriter, r *http.Request) {
	p, err := pageParams(r)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	items, err := h.svc.List(r.Context(), p)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{h.kind.Plural(): h.presentAll(items)})
}

// listByOwner handles GET /users/{userId}/{kind}.
func (h *resourceHandler[T]) listByOwner(w http.ResponseWriter, r *http.Request) {
	ownerID, err := pathUUID(r, "userId")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	p, err := pageParams(r)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	items, err := h.svc.ListByOwner(r.Context(), ownerID, p)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{h.kind.Plural(): h.presentAll(items)})
}

// count handles GET /{kind}/count.
func (h *resourceHandler[T]) count(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Count(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": n})
}

// get handles GET /{kind}/{id}.
func (h *resourceHandler[T]) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, h.idParam)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	v, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{h.kind.String(): h.present(v)})
}

// update handles PUT /{kind}/{id} with a partial body.
func (h *resourceHandler[T]) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, h.idParam)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	fields, err := decodeFields(r)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	updated, err := h.svc.Update(r.Context(), auth.ClaimFrom(r.Context()), id, fields)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":       title(h.kind) + " updated successfully",
		h.kind.String(): h.present(updated),
	})
}

// delete handles DELETE /{kind}/{id}.
func (h *resourceHandler[T]) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, h.idParam)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	if err := h.svc.Delete(r.Context(), auth.ClaimFrom(r.Context()), id); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": title(h.kind) + " deleted successfully"})
}

func (h *resourceHandler[T]) presentAll(items []T) []any {
	out := make([]any, len(items))
	for i, v := range items {
		out[i] = h.present(v)
	}
	return out
}
