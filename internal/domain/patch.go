package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Patch holds the columns a partial update writes, keyed by store column
// name. Values are already decoded and validated by an Allowlist.
type Patch map[string]any

// Columns returns the patch's column names in sorted order.
func (p Patch) Columns() []string {
	cols := make([]string, 0, len(p))
	for c := range p {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// Changes is a parsed partial update: the allowlisted fields plus the owner
// id the client claimed, if any. OwnerID is only ever checked against the
// requester; it is never written.
type Changes struct {
	OwnerID *string
	Fields  Patch
}

// Field describes one client-writable attribute of an entity kind.
type Field struct {
	Column string
	Decode func(raw json.RawMessage) (any, error)
}

// Allowlist maps JSON field names to the attributes a client may update.
type Allowlist map[string]Field

// ownerField is accepted in every update body for the ownership cross-check.
const ownerField = "ownerId"

// ErrNoFields is returned for an update that names no writable field.
var ErrNoFields = Invalid("no updatable fields supplied")

// Parse validates a raw JSON object against the allowlist. Unknown fields,
// including read-only ones such as "id" and "metadata", are rejected. A body
// carrying only ownerId parses, so the caller can check ownership before
// calling RequireFields.
func (a Allowlist) Parse(raw map[string]json.RawMessage) (Changes, error) {
	ch := Changes{Fields: Patch{}}
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value := raw[name]
		if name == ownerField {
			var owner string
			if err := json.Unmarshal(value, &owner); err != nil {
				return Changes{}, Invalid("%s must be a string", ownerField)
			}
			ch.OwnerID = &owner
			continue
		}
		f, ok := a[name]
		if !ok {
			return Changes{}, Invalid("field %q cannot be updated", name)
		}
		v, err := f.Decode(value)
		if err != nil {
			return Changes{}, Invalid("%s: %v", name, err)
		}
		ch.Fields[f.Column] = v
	}
	if len(ch.Fields) == 0 && ch.OwnerID == nil {
		return Changes{}, ErrNoFields
	}
	return ch, nil
}

// RequireFields rejects changes that would write nothing.
func (c Changes) RequireFields() error {
	if len(c.Fields) == 0 {
		return ErrNoFields
	}
	return nil
}

// ---- decoders --------------------------------------------------------------

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// Text accepts any JSON string.
func Text(raw json.RawMessage) (any, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("must be a string")
	}
	return s, nil
}

// RequiredText accepts a string that is not blank.
func RequiredText(raw json.RawMessage) (any, error) {
	v, err := Text(raw)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(v.(string)) == "" {
		return nil, fmt.Errorf("must not be empty")
	}
	return v, nil
}

// NonNegative accepts a number >= 0.
func NonNegative(raw json.RawMessage) (any, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("must be a number")
	}
	if f < 0 {
		return nil, fmt.Errorf("must not be negative")
	}
	return f, nil
}

// OptionalNonNegative accepts null or a number >= 0. Null clears the value.
func OptionalNonNegative(raw json.RawMessage) (any, error) {
	if isNull(raw) {
		return (*float64)(nil), nil
	}
	v, err := NonNegative(raw)
	if err != nil {
		return nil, err
	}
	f := v.(float64)
	return &f, nil
}

// OptionalRange accepts null or a number within [lo, hi].
func OptionalRange(lo, hi float64) func(json.RawMessage) (any, error) {
	return func(raw json.RawMessage) (any, error) {
		if isNull(raw) {
			return (*float64)(nil), nil
		}
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("must be a number")
		}
		if f < lo || f > hi {
			return nil, fmt.Errorf("must be between %g and %g", lo, hi)
		}
		return &f, nil
	}
}

// OneOf accepts a string from the given set.
func OneOf(allowed ...string) func(json.RawMessage) (any, error) {
	return func(raw json.RawMessage) (any, error) {
		v, err := Text(raw)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(allowed, v.(string)) {
			return nil, fmt.Errorf("must be one of %s", strings.Join(allowed, ", "))
		}
		return v, nil
	}
}

// Strings accepts an array of strings. Null becomes an empty array.
func Strings(raw json.RawMessage) (any, error) {
	if isNull(raw) {
		return []string{}, nil
	}
	var ss []string
	if err := json.Unmarshal(raw, &ss); err != nil {
		return nil, fmt.Errorf("must be an array of strings")
	}
	if ss == nil {
		ss = []string{}
	}
	return ss, nil
}

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// ParseDateTime accepts either a calendar date or an RFC 3339 timestamp.
func ParseDateTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("must be an ISO 8601 date")
	}
	return t, nil
}

// Date accepts a calendar date ("2025-06-01") or an RFC 3339 timestamp,
// keeping only the date part.
func Date(raw json.RawMessage) (any, error) {
	v, err := Timestamp(raw)
	if err != nil {
		return nil, err
	}
	t := v.(time.Time)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// Timestamp accepts an RFC 3339 timestamp or a calendar date.
func Timestamp(raw json.RawMessage) (any, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("must be an ISO 8601 date string")
	}
	return ParseDateTime(s)
}

// SnapshotList returns a decoder for a full snapshot sequence of type S.
// Entries must carry an id and ids must be unique.
func SnapshotList[S Snapshot]() func(json.RawMessage) (any, error) {
	return func(raw json.RawMessage) (any, error) {
		var list []S
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("must be an array of snapshot entries")
		}
		if list == nil {
			list = []S{}
		}
		for _, s := range list {
			if s.SnapshotID() == uuid.Nil {
				return nil, fmt.Errorf("every entry needs an id")
			}
		}
		if err := ValidateUnique(list); err != nil {
			return nil, err
		}
		return list, nil
	}
}
