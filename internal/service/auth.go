package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pkordes/travel-planner/internal/auth"
	"github.com/pkordes/travel-planner/internal/domain"
	"github.com/pkordes/travel-planner/internal/repo"
)

// Tokens issues and revokes bearer tokens. *auth.JWTManager implements it.
type Tokens interface {
	Issue(user domain.User) (string, error)
	Revoke(ctx context.Context, c domain.Claim) error
}

// Registration is the input to AuthService.Register.
type Registration struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// AuthService handles registration, login and logout.
type AuthService struct {
	users  repo.UserRepo
	tokens Tokens
	w      *Writer
	log    *slog.Logger
}

// NewAuthService constructs an AuthService.
func NewAuthService(users repo.UserRepo, tokens Tokens, w *Writer) *AuthService {
	return &AuthService{users: users, tokens: tokens, w: w, log: w.log}
}

// Register creates an account. Emails are unique case-insensitively.
func (s *AuthService) Register(ctx context.Context, in Registration) (domain.User, error) {
	hash, err := auth.HashPassword(in.Password)
	if errors.Is(err, domain.ErrValidation) {
		return domain.User{}, err
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}

	now := s.w.Now().UTC().Truncate(domain.Resolution)
	u := domain.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.Validate(); err != nil {
		return domain.User{}, err
	}

	_, err = s.users.GetByEmail(ctx, u.Email)
	switch {
	case err == nil:
		return domain.User{}, auth.ErrEmailExists
	case !errors.Is(err, domain.ErrNotFound):
		return domain.User{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}

	created, err := s.users.Create(ctx, u)
	if errors.Is(err, domain.ErrConflict) {
		// Lost a race with a concurrent registration of the same email.
		return domain.User{}, auth.ErrEmailExists
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}
	s.log.InfoContext(ctx, "user registered", "user_id", created.ID)
	return created, nil
}

// Login checks the credentials and issues a token. Unknown emails and wrong
// passwords both return auth.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, "", auth.ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, "", fmt.Errorf("service.AuthService.Login: %w", err)
	}
	if err := auth.CheckPassword(u.PasswordHash, password); err != nil {
		return domain.User{}, "", err
	}

	token, err := s.tokens.Issue(u)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("service.AuthService.Login: %w", err)
	}
	return u, token, nil
}

// Logout revokes the token the claim came from.
func (s *AuthService) Logout(ctx context.Context, claim domain.Claim) error {
	if !claim.Valid() {
		return domain.ErrUnauthenticated
	}
	if err := s.tokens.Revoke(ctx, claim); err != nil {
		return fmt.Errorf("service.AuthService.Logout: %w", err)
	}
	return nil
}
