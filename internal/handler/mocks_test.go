package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/travel-planner/internal/auth"
	"github.com/pkordes/travel-planner/internal/domain"
	"github.com/pkordes/travel-planner/internal/handler"
	"github.com/pkordes/travel-planner/internal/observability"
	"github.com/pkordes/travel-planner/internal/service"
)

// ---- mock Resource ---------------------------------------------------------

// mockResource is a test double for handler.Resource[T].
// Set only the method fields your test needs.
type mockResource[T any] struct {
	create      func(ctx context.Context, claim domain.Claim, ownerID string, draft T) (T, error)
	getByID     func(ctx context.Context, id uuid.UUID) (T, error)
	list        func(ctx context.Context, p domain.PageParams) ([]T, error)
	listByOwner func(ctx context.Context, ownerID uuid.UUID, p domain.PageParams) ([]T, error)
	count       func(ctx context.Context) (int64, error)
	update      func(ctx context.Context, claim domain.Claim, id uuid.UUID, fields map[string]json.RawMessage) (T, error)
	delete      func(ctx context.Context, claim domain.Claim, id uuid.UUID) error
}

func (m *mockResource[T]) Create(ctx context.Context, claim domain.Claim, ownerID string, draft T) (T, error) {
	return m.create(ctx, claim, ownerID, draft)
}
func (m *mockResource[T]) GetByID(ctx context.Context, id uuid.UUID) (T, error) {
	return m.getByID(ctx, id)
}
func (m *mockResource[T]) List(ctx context.Context, p domain.PageParams) ([]T, error) {
	return m.list(ctx, p)
}
func (m *mockResource[T]) ListByOwner(ctx context.Context, ownerID uuid.UUID, p domain.PageParams) ([]T, error) {
	return m.listByOwner(ctx, ownerID, p)
}
func (m *mockResource[T]) Count(ctx context.Context) (int64, error) {
	return m.count(ctx)
}
func (m *mockResource[T]) Update(ctx context.Context, claim domain.Claim, id uuid.UUID, fields map[string]json.RawMessage) (T, error) {
	return m.update(ctx, claim, id, fields)
}
func (m *mockResource[T]) Delete(ctx context.Context, claim domain.Claim, id uuid.UUID) error {
	return m.delete(ctx, claim, id)
}

// compile-time check: mockResource must satisfy handler.Resource.
var _ handler.Resource[domain.Attraction] = (*mockResource[domain.Attraction])(nil)

// ---- mock TripServicer -----------------------------------------------------

type mockTrips struct {
	mockResource[domain.Trip]
	addItem    func(ctx context.Context, claim domain.Claim, tripID uuid.UUID, kind domain.Kind, entityID uuid.UUID) (domain.Trip, error)
	removeItem func(ctx context.Context, claim domain.Claim, tripID uuid.UUID, kind domain.Kind, entityID uuid.UUID) (domain.Trip, error)
}

func (m *mockTrips) AddItem(ctx context.Context, claim domain.Claim, tripID uuid.UUID, kind domain.Kind, entityID uuid.UUID) (domain.Trip, error) {
	return m.addItem(ctx, claim, tripID, kind, entityID)
}
func (m *mockTrips) RemoveItem(ctx context.Context, claim domain.Claim, tripID uuid.UUID, kind domain.Kind, entityID uuid.UUID) (domain.Trip, error) {
	return m.removeItem(ctx, claim, tripID, kind, entityID)
}

// compile-time check: mockTrips must satisfy handler.TripServicer.
var _ handler.TripServicer = (*mockTrips)(nil)

// ---- mock AuthServicer -----------------------------------------------------

type mockAuth struct {
	register func(ctx context.Context, in service.Registration) (domain.User, error)
	login    func(ctx context.Context, email, password string) (domain.User, string, error)
	logout   func(ctx context.Context, claim domain.Claim) error
}

func (m *mockAuth) Register(ctx context.Context, in service.Registration) (domain.User, error) {
	return m.register(ctx, in)
}
func (m *mockAuth) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	return m.login(ctx, email, password)
}
func (m *mockAuth) Logout(ctx context.Context, claim domain.Claim) error {
	return m.logout(ctx, claim)
}

// compile-time check: mockAuth must satisfy handler.AuthServicer.
var _ handler.AuthServicer = (*mockAuth)(nil)

// ---- mock Pinger -----------------------------------------------------------

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(context.Context) error { return m.err }

var _ handler.Pinger = (*mockPinger)(nil)

// ---- verifier --------------------------------------------------------------

// validToken is the only bearer token the test verifier accepts.
const validToken = "valid-token"

type tokenVerifier struct {
	claim domain.Claim
}

func (v tokenVerifier) Verify(_ context.Context, token string) (domain.Claim, error) {
	if token != validToken {
		return domain.Claim{}, auth.ErrInvalidToken
	}
	return v.claim, nil
}

// ---- fixture ---------------------------------------------------------------

// fixture wires mocks into the real router. Fields may be replaced before
// calling do.
type fixture struct {
	claim       domain.Claim
	trips       *mockTrips
	attractions *mockResource[domain.Attraction]
	restaurants *mockResource[domain.Restaurant]
	activities  *mockResource[domain.Activity]
	users       *mockResource[domain.User]
	auth        *mockAuth
	db          handler.Pinger
	metrics     *observability.Metrics
	maxBody     int64
}

func newFixture() *fixture {
	return &fixture{
		claim:       domain.Claim{UserID: uuid.New(), Email: "ana@example.com", TokenID: "jti-1"},
		trips:       &mockTrips{},
		attractions: &mockResource[domain.Attraction]{},
		restaurants: &mockResource[domain.Restaurant]{},
		activities:  &mockResource[domain.Activity]{},
		users:       &mockResource[domain.User]{},
		auth:        &mockAuth{},
	}
}

func (f *fixture) router(t *testing.T) http.Handler {
	t.Helper()
	h, err := handler.NewRouter(handler.Deps{
		Trips:        f.trips,
		Attractions:  f.attractions,
		Restaurants:  f.restaurants,
		Activities:   f.activities,
		Users:        f.users,
		Auth:         f.auth,
		Verifier:     tokenVerifier{claim: f.claim},
		DB:           f.db,
		Metrics:      f.metrics,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		CORSOrigins:  []string{"http://localhost:5173"},
		MaxBodyBytes: f.maxBody,
	})
	require.NoError(t, err)
	return h
}

// do sends an authenticated request. An empty body sends no body.
func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := newRequest(method, path, body)
	req.Header.Set("Authorization", "Bearer "+validToken)
	return serve(t, f, req)
}

// doAnon sends a request without an Authorization header.
func (f *fixture) doAnon(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	return serve(t, f, newRequest(method, path, body))
}

// serve sends req as is.
func serve(t *testing.T, f *fixture, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	f.router(t).ServeHTTP(rec, req)
	return rec
}

func newRequest(method, path, body string) *http.Request {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// decode unmarshals the response body into a T.
func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// requireError asserts the status and the error envelope's code, and
// returns the message.
func requireError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) string {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	body := decode[handler.ErrorResponse](t, rec)
	require.Equal(t, code, body.Error.Code)
	return body.Error.Message
}

func ptr[T any](v T) *T { return &v }
