package handler

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/travel-planner/internal/domain"
)

// User is the public shape of an account. The password hash never leaves
// the service layer.
type User struct {
	ID        uuid.UUID           `json:"id"`
	FirstName string              `json:"firstName"`
	LastName  string              `json:"lastName"`
	Email     openapi_types.Email `json:"email"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// newUserHandler serves /users. Accounts are created through
// /auth/register, so there is no create route.
func newUserHandler(svc Resource[domain.User], log *slog.Logger) *resourceHandler[domain.User] {
	return &resourceHandler[domain.User]{
		kind:    domain.KindUser,
		svc:     svc,
		idParam: "userId",
		present: func(u domain.User) any { return userToResponse(u) },
		idOf:    func(u domain.User) uuid.UUID { return u.ID },
		log:     log,
	}
}

func userToResponse(u domain.User) User {
	return User{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     openapi_types.Email(u.Email),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
