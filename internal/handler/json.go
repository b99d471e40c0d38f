package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/travel-planner/internal/domain"
)

// errBodyTooLarge is returned by decodeJSON when the body exceeds the limit
// set by middleware.NewMaxBodySizeHandler.
var errBodyTooLarge = errors.New("request body too large")

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // the client may have gone away; nothing to do about it.
	json.NewEncoder(w).Encode(v)
}

// unknownFieldPrefix starts the error encoding/json reports for a key that
// does not match dst when DisallowUnknownFields is set.
const unknownFieldPrefix = "json: unknown field "

// decodeJSON decodes the request body into dst. A missing or malformed body,
// or one with fields dst does not declare, is a validation error.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(dst)
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &tooLarge):
		return errBodyTooLarge
	case errors.Is(err, io.EOF):
		return domain.Invalid("request body is required")
	case errors.Is(err, openapi_types.ErrValidationEmail):
		return domain.Invalid("a valid email address is required")
	case strings.HasPrefix(err.Error(), unknownFieldPrefix):
		return domain.Invalid("field %s is not accepted", strings.TrimPrefix(err.Error(), unknownFieldPrefix))
	}
	return domain.Invalid("malformed JSON body: %v", err)
}

// decodeFields decodes a partial-update body as raw fields.
func decodeFields(r *http.Request) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := decodeJSON(r, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, domain.Invalid("request body must be a JSON object")
	}
	return fields, nil
}

// pathUUID parses the named chi URL parameter as a UUID.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.Invalid("%s must be a UUID, got %q", name, raw)
	}
	return id, nil
}

// pageParams reads the optional ?page= and ?limit= query parameters.
func pageParams(r *http.Request) (domain.PageParams, error) {
	q := r.URL.Query()
	page, err := optionalInt(q.Get("page"), "page")
	if err != nil {
		return domain.PageParams{}, err
	}
	limit, err := optionalInt(q.Get("limit"), "limit")
	if err != nil {
		return domain.PageParams{}, err
	}
	return domain.NewPageParams(page, limit), nil
}

func optionalInt(s, name string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, domain.Invalid("%s must be an integer", name)
	}
	return &n, nil
}
