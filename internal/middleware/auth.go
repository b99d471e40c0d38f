package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pkordes/travel-planner/internal/auth"
	"github.com/pkordes/travel-planner/internal/domain"
)

// Verifier turns a bearer token into a claim. *auth.JWTManager implements it.
type Verifier interface {
	Verify(ctx context.Context, token string) (domain.Claim, error)
}

// RequireAuth rejects requests without a valid "Authorization: Bearer" token
// with 401 and stores the verified claim in the request context for
// auth.ClaimFrom. A Verify failure that is not about the token itself, such
// as an unreachable revocation store, is logged and answered with 500.
func RequireAuth(v Verifier, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, "unauthenticated", auth.ErrMissingToken.Error())
				return
			}
			claim, err := v.Verify(r.Context(), token)
			switch {
			case err == nil:
			case errors.Is(err, auth.ErrRevokedToken):
				writeError(w, http.StatusUnauthorized, "unauthenticated", auth.ErrRevokedToken.Error())
				return
			case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrMissingToken):
				writeError(w, http.StatusUnauthorized, "unauthenticated", auth.ErrInvalidToken.Error())
				return
			default:
				log.ErrorContext(r.Context(), "token verification failed", "error", err)
				writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithClaim(r.Context(), claim)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// writeError writes the {"error":{"code","message"}} envelope.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}
