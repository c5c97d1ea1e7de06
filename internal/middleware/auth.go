package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/authctx"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/identity"
)

// Authenticator resolves a bearer token to the signed-in profile.
type Authenticator interface {
	Current(ctx context.Context, token string) (*identity.MergedProfile, error)
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}

// BearerToken reads "Authorization: Bearer <token>".
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) < len("Bearer ") || !strings.EqualFold(h[:len("Bearer ")], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[len("Bearer "):])
}

// WithAuth rejects requests without a valid session and stores the merged
// profile and the raw token in the request context.
func WithAuth(a Authenticator) func(http.Handler) http.Handler {
	return withAuth(a, BearerToken)
}

// WithQueryAuth is WithAuth for websocket upgrades, where browsers cannot
// set headers. The token comes from ?token= when the header is absent.
func WithQueryAuth(a Authenticator) func(http.Handler) http.Handler {
	return withAuth(a, func(r *http.Request) string {
		if t := BearerToken(r); t != "" {
			return t
		}
		return r.URL.Query().Get("token")
	})
}

func withAuth(a Authenticator, token func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := token(r)
			if tok == "" {
				unauthorized(w, "missing Authorization: Bearer <token>")
				return
			}
			p, err := a.Current(r.Context(), tok)
			if err != nil {
				unauthorized(w, "invalid or expired session")
				return
			}
			ctx := authctx.WithToken(authctx.WithProfile(r.Context(), p), tok)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin must run after WithAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !authctx.Viewer(r.Context()).IsAdmin() {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "admin role required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
