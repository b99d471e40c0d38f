package domain

import "fmt"

// Kind names a persisted entity type. Its string form is the singular,
// lowercase name used in messages and JSON envelopes ("trip", "attraction").
type Kind string

const (
	KindTrip       Kind = "trip"
	KindAttraction Kind = "attraction"
	KindRestaurant Kind = "restaurant"
	KindActivity   Kind = "activity"
	KindUser       Kind = "user"
)

func (k Kind) String() string { return string(k) }

// Plural returns the collection name, also used as the JSON key for lists
// and as the URL segment ("activities").
func (k Kind) Plural() string {
	if k == KindActivity {
		return "activities"
	}
	return string(k) + "s"
}

// SnapshotKinds are the catalog kinds a trip embeds snapshots of, in the
// order they appear on the trip.
var SnapshotKinds = []Kind{KindAttraction, KindRestaurant, KindActivity}

// ParseSnapshotKind maps a URL segment ("attractions", "restaurants",
// "activities") to its Kind.
func ParseSnapshotKind(segment string) (Kind, error) {
	for _, k := range SnapshotKinds {
		if segment == k.Plural() {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: unknown trip item kind %q", ErrNotFound, segment)
}
