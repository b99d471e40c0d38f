package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Snapshot is a point-in-time projection of a catalog entity embedded in a
// trip. It is never re-synced when the source entity changes.
type Snapshot interface {
	SnapshotID() uuid.UUID
}

// AttractionSnapshot is the projection of an Attraction kept on a trip.
type AttractionSnapshot struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	EntryFee    *float64  `json:"entryFee"`
}

func (s AttractionSnapshot) SnapshotID() uuid.UUID { return s.ID }

// RestaurantSnapshot is the projection of a Restaurant kept on a trip.
type RestaurantSnapshot struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	AverageCost *float64  `json:"averageCost"`
}

func (s RestaurantSnapshot) SnapshotID() uuid.UUID { return s.ID }

// ActivitySnapshot is the projection of an Activity kept on a trip.
type ActivitySnapshot struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       *float64  `json:"price"`
}

func (s ActivitySnapshot) SnapshotID() uuid.UUID { return s.ID }

// AppendUnique returns a new sequence with entry appended. The input slice is
// not modified. If an entry with the same id is already present the sequence
// is returned unchanged together with ErrDuplicate.
func AppendUnique[S Snapshot](list []S, entry S) ([]S, error) {
	for _, s := range list {
		if s.SnapshotID() == entry.SnapshotID() {
			return list, ErrDuplicate
		}
	}
	out := make([]S, 0, len(list)+1)
	out = append(out, list...)
	return append(out, entry), nil
}

// RemoveByID returns a new sequence without the entry whose id is id,
// preserving the order of the others. what names the entry in the not-found
// error ("attraction in trip").
func RemoveByID[S Snapshot](list []S, id uuid.UUID, what string) ([]S, error) {
	for i, s := range list {
		if s.SnapshotID() != id {
			continue
		}
		out := make([]S, 0, len(list)-1)
		out = append(out, list[:i]...)
		return append(out, list[i+1:]...), nil
	}
	return list, NotFound(what)
}

// ValidateUnique reports the first id that appears more than once.
func ValidateUnique[S Snapshot](list []S) error {
	seen := make(map[uuid.UUID]struct{}, len(list))
	for _, s := range list {
		id := s.SnapshotID()
		if _, ok := seen[id]; ok {
			return fmt.Errorf("duplicate entry %s", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
