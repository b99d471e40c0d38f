// Package handler implements the HTTP handlers for the travel planner API.
// NewRouter builds the full chi router: middleware stack, public routes and
// the authenticated resource routes. Handlers depend on the small servicer
// interfaces below, never on concrete services, so tests can inject mocks.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/pkordes/travel-planner/internal/domain"
	"github.com/pkordes/travel-planner/internal/middleware"
	"github.com/pkordes/travel-planner/internal/observability"
	"github.com/pkordes/travel-planner/internal/service"
)

// Resource defines the operations shared by every owned entity kind.
// *service.OwnedResource[T] implements it.
type Resource[T any] interface {
	Create(ctx context.Context, claim domain.Claim, ownerID string, draft T) (T, error)
	GetByID(ctx context.Context, id uuid.UUID) (T, error)
	List(ctx context.Context, p domain.PageParams) ([]T, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, p domain.PageParams) ([]T, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, claim domain.Claim, id uuid.UUID, fields map[string]json.RawMessage) (T, error)
	Delete(ctx context.Context, claim domain.Claim, id uuid.UUID) error
}

// TripServicer adds snapshot membership to the trip resource.
type TripServicer interface {
	Resource[domain.Trip]
	AddItem(ctx context.Context, claim domain.Claim, tripID uuid.UUID, kind domain.Kind, entityID uuid.UUID) (domain.Trip, error)
	RemoveItem(ctx context.Context, claim domain.Claim, tripID uuid.UUID, kind domain.Kind, entityID uuid.UUID) (domain.Trip, error)
}

// AuthServicer defines registration, login and logout.
type AuthServicer interface {
	Register(ctx context.Context, in service.Registration) (domain.User, error)
	Login(ctx context.Context, email, password string) (domain.User, string, error)
	Logout(ctx context.Context, claim domain.Claim) error
}

// Pinger reports whether the database is reachable. *pgxpool.Pool implements it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are everything NewRouter wires. Metrics and DB may be nil;
// MaxBodyBytes <= 0 disables the body limit.
type Deps struct {
	Trips       TripServicer
	Attractions Resource[domain.Attraction]
	Restaurants Resource[domain.Restaurant]
	Activities  Resource[domain.Activity]
	Users       Resource[domain.User]
	Auth        AuthServicer
	Verifier    middleware.Verifier

	DB           Pinger
	Metrics      *observability.Metrics
	Logger       *slog.Logger
	CORSOrigins  []string
	MaxBodyBytes int64
}

// Server holds the handler dependencies. Methods are split into
// domain-specific files (trip.go, item.go, auth.go, etc.).
type Server struct {
	trips TripServicer
	auth  AuthServicer
	db    Pinger
	log   *slog.Logger
}

// NewRouter builds the HTTP handler for the whole API.
// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer →
// metrics → CORS → body limit; authenticated routes add RequireAuth.
func NewRouter(d Deps) (http.Handler, error) {
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}
	s := &Server{trips: d.Trips, auth: d.Auth, db: d.DB, log: log}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(log))
	r.Use(chimiddleware.Recoverer)
	if d.Metrics != nil {
		r.Use(d.Metrics.Instrument)
	}
	r.Use(middleware.NewCORSHandler(d.CORSOrigins))
	if d.MaxBodyBytes > 0 {
		r.Use(middleware.NewMaxBodySizeHandler(d.MaxBodyBytes))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody("not_found", "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("method_not_allowed", "method not allowed"))
	})

	// Public routes.
	r.Get("/healthz", s.GetHealth)
	r.Get("/readyz", s.GetReady)
	r.Get("/openapi.yaml", s.GetOpenAPI)
	if d.Metrics != nil {
		h, err := observability.Handler(d.Metrics)
		if err != nil {
			return nil, err
		}
		r.Method(http.MethodGet, "/metrics", h)
	}
	r.Post("/auth/register", s.Register)
	r.Post("/auth/login", s.Login)

	trips := newTripHandler(d.Trips, log)
	attractions := newAttractionHandler(d.Attractions, log)
	restaurants := newRestaurantHandler(d.Restaurants, log)
	activities := newActivityHandler(d.Activities, log)
	users := newUserHandler(d.Users, log)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(d.Verifier, log))

		r.Post("/auth/logout", s.Logout)

		r.Route("/trips", func(r chi.Router) {
			trips.routes(r)
			r.Get("/{tripId}/export", s.ExportTrip)
			r.Put("/{tripId}/{kind}", s.AddItem)
			r.Delete("/{tripId}/{kind}", s.RemoveItem)
			r.Delete("/{tripId}/{kind}/{entityId}", s.RemoveItem)
		})
		r.Route("/attractions", attractions.routes)
		r.Route("/restaurants", restaurants.routes)
		r.Route("/activities", activities.routes)
		r.Route("/users", func(r chi.Router) {
			users.routes(r)
			r.Get("/{userId}/trips", trips.listByOwner)
			r.Get("/{userId}/attractions", attractions.listByOwner)
			r.Get("/{userId}/restaurants", restaurants.listByOwner)
			r.Get("/{userId}/activities", activities.listByOwner)
		})
	})

	return r, nil
}
