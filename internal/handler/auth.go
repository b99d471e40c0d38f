package handler

import (
	"net/http"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/travel-planner/internal/auth"
	"github.com/pkordes/travel-planner/internal/service"
)

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	FirstName string              `json:"firstName"`
	LastName  string              `json:"lastName"`
	Email     openapi_types.Email `json:"email"`
	Password  string              `json:"password"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	UserID  uuid.UUID `json:"userId"`
	Token   string    `json:"token"`
	Message string    `json:"message"`
}

// Register handles POST /auth/register.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var body RegisterRequest
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, r, s.log, err)
		return
	}
	u, err := s.auth.Register(r.Context(), service.Registration{
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Email:     string(body.Email),
		Password:  body.Password,
	})
	if err != nil {
		respondError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"id":      u.ID,
	})
}

// Login handles POST /auth/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var body LoginRequest
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, r, s.log, err)
		return
	}
	u, token, err := s.auth.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		respondError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{UserID: u.ID, Token: token, Message: "Login successful"})
}

// Logout handles POST /auth/logout. The presented token stops verifying
// once revoked.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.Logout(r.Context(), auth.ClaimFrom(r.Context())); err != nil {
		respondError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Logged out successfully"})
}
