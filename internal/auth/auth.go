// Package auth resolves the caller identity from a bearer token. Everything
// below the HTTP layer is scoped by the user id it extracts; token issuance
// happens elsewhere.
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"moneyger/internal/user"
)

type contextKey struct{}

var userIDKey contextKey

// Resolver maps an authenticated email to a user record.
type Resolver interface {
	Resolve(ctx context.Context, email string) (*user.User, error)
}

type Middleware struct {
	secret []byte
	users  Resolver
}

func NewMiddleware(secret string, users Resolver) *Middleware {
	return &Middleware{secret: []byte(secret), users: users}
}

// Authenticate validates the Authorization header, resolves the token
// subject to a user, and stores the user id in the request context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")

		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}

		token, err := jwt.Parse(raw, func(*jwt.Token) (any, error) {
			return m.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		email, err := token.Claims.GetSubject()
		if err != nil || email == "" {
			http.Error(w, "invalid token subject", http.StatusUnauthorized)
			return
		}

		u, err := m.users.Resolve(r.Context(), email)
		if err != nil {
			http.Error(w, "unknown user", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, u.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID returns the authenticated user id stored by Authenticate.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok
}
