package service_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/juju/clock"

	"github.com/pkordes/travel-planner/internal/domain"
	"github.com/pkordes/travel-planner/internal/repo"
	"github.com/pkordes/travel-planner/internal/service"
)

// mockStore is a hand-written test double for repo.Store[T].
// Each method is a function field; set only the ones your test needs.
type mockStore[T any] struct {
	create      func(ctx context.Context, v T) (T, error)
	getByID     func(ctx context.Context, id uuid.UUID) (T, error)
	list        func(ctx context.Context, p domain.PageParams) ([]T, error)
	listByOwner func(ctx context.Context, owner uuid.UUID, p domain.PageParams) ([]T, error)
	count       func(ctx context.Context) (int64, error)
	update      func(ctx context.Context, id uuid.UUID, p domain.Patch, at time.Time, version int64) (T, error)
	delete      func(ctx context.Context, id uuid.UUID) error
}

func (m *mockStore[T]) Create(ctx context.Context, v T) (T, error) { return m.create(ctx, v) }
func (m *mockStore[T]) GetByID(ctx context.Context, id uuid.UUID) (T, error) {
	return m.getByID(ctx, id)
}
func (m *mockStore[T]) List(ctx context.Context, p domain.PageParams) ([]T, error) {
	return m.list(ctx, p)
}
func (m *mockStore[T]) ListByOwner(ctx context.Context, owner uuid.UUID, p domain.PageParams) ([]T, error) {
	return m.listByOwner(ctx, owner, p)
}
func (m *mockStore[T]) Count(ctx context.Context) (int64, error) { return m.count(ctx) }
func (m *mockStore[T]) Update(ctx context.Context, id uuid.UUID, p domain.Patch, at time.Time, version int64) (T, error) {
	return m.update(ctx, id, p, at, version)
}
func (m *mockStore[T]) Delete(ctx context.Context, id uuid.UUID) error { return m.delete(ctx, id) }

// compile-time check: mockStore must satisfy repo.Store.
var _ repo.TripRepo = (*mockStore[domain.Trip])(nil)

// users is a UserGetter over a fixed set of accounts.
type users map[uuid.UUID]domain.User

func (u users) GetByID(_ context.Context, id uuid.UUID) (domain.User, error) {
	if v, ok := u[id]; ok {
		return v, nil
	}
	return domain.User{}, domain.ErrNotFound
}

// memTrips is an in-memory, versioned TripRepo. Update enforces the same
// compare-and-set contract as the Postgres store.
type memTrips struct {
	mu      sync.Mutex
	rows    map[uuid.UUID]domain.Trip
	writes  int
	stales  int
	deletes int
}

func newMemTrips() *memTrips { return &memTrips{rows: map[uuid.UUID]domain.Trip{}} }

var _ repo.TripRepo = (*memTrips)(nil)

func (m *memTrips) Create(_ context.Context, t domain.Trip) (domain.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = uuid.New()
	t.Version = 1
	m.rows[t.ID] = t
	return t, nil
}

func (m *memTrips) GetByID(_ context.Context, id uuid.UUID) (domain.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.rows[id]
	if !ok {
		return domain.Trip{}, domain.ErrNotFound
	}
	return t, nil
}

func (m *memTrips) List(_ context.Context, _ domain.PageParams) ([]domain.Trip, error) {
	return m.filter(func(domain.Trip) bool { return true }), nil
}

func (m *memTrips) ListByOwner(_ context.Context, owner uuid.UUID, _ domain.PageParams) ([]domain.Trip, error) {
	return m.filter(func(t domain.Trip) bool { return t.Metadata.OwnerID == owner }), nil
}

func (m *memTrips) filter(keep func(domain.Trip) bool) []domain.Trip {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Trip
	for _, t := range m.rows {
		if keep(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (m *memTrips) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.rows)), nil
}

func (m *memTrips) Update(_ context.Context, id uuid.UUID, p domain.Patch, at time.Time, version int64) (domain.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.rows[id]
	if !ok || t.Version != version {
		m.stales++
		return domain.Trip{}, domain.ErrStaleWrite
	}
	for col, v := range p {
		switch col {
		case "name":
			t.Name = v.(string)
		case "budget":
			t.Budget = v.(float64)
		case "description":
			t.Description = v.(string)
		case domain.ColTripStartDate:
			t.StartDate = v.(time.Time)
		case domain.ColTripEndDate:
			t.EndDate = v.(time.Time)
		case domain.ColAttractions:
			t.AttractionsSnapshot = v.([]domain.AttractionSnapshot)
		case domain.ColRestaurants:
			t.RestaurantsSnapshot = v.([]domain.RestaurantSnapshot)
		case domain.ColActivities:
			t.ActivitiesSnapshot = v.([]domain.ActivitySnapshot)
		default:
			return domain.Trip{}, fmt.Errorf("memTrips: column %q is not writable", col)
		}
	}
	t.Metadata.UpdatedAt = at
	t.Version++
	m.rows[id] = t
	m.writes++
	return t, nil
}

func (m *memTrips) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.rows, id)
	m.deletes++
	return nil
}

// bumpVersion simulates a write from another process that the in-process
// lock cannot see.
func (m *memTrips) bumpVersion(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.rows[id]
	t.Version++
	m.rows[id] = t
}

// recorder counts the conflict notifications a Writer sends.
type recorder struct {
	mu        sync.Mutex
	retried   int
	conflicts int
}

func (r *recorder) WriteRetried(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.retried++
}

func (r *recorder) WriteConflict(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conflicts++
}

var _ service.ConflictRecorder = (*recorder)(nil)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newWriter(rec service.ConflictRecorder) *service.Writer {
	return service.NewWriter(service.RetryPolicy{
		Attempts: 3,
		Delay:    time.Millisecond,
		Clock:    clock.WallClock,
	}, discardLogger(), rec)
}

// noCatalog is a Catalog in which every lookup misses.
func noCatalog() service.Catalog {
	return service.Catalog{
		Attractions: &mockStore[domain.Attraction]{getByID: lookup(map[uuid.UUID]domain.Attraction{})},
		Restaurants: &mockStore[domain.Restaurant]{getByID: lookup(map[uuid.UUID]domain.Restaurant{})},
		Activities:  &mockStore[domain.Activity]{getByID: lookup(map[uuid.UUID]domain.Activity{})},
	}
}
