package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/marquelabs/marque/internal/store"
)

type contextKey string

const UserContextKey contextKey = "user"

// Middleware resolves the session cookie to a user record for API routes.
type Middleware struct {
	sessions *scs.SessionManager
	users    store.UserStore
}

func NewMiddleware(sm *scs.SessionManager, us store.UserStore) *Middleware {
	return &Middleware{sessions: sm, users: us}
}

// RequireUser rejects unauthenticated requests with a 401 JSON body.
// On success, sets the *store.User on the request context.
func (m *Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := m.sessions.GetString(r.Context(), SessionUserIDKey)
		if userID == "" {
			unauthorized(w)
			return
		}

		user, err := m.users.GetByID(r.Context(), userID)
		if err != nil {
			// Session references a deleted user; destroy it.
			_ = m.sessions.Destroy(r.Context())
			unauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext retrieves the authenticated user from the context.
func UserFromContext(ctx context.Context) *store.User {
	u, _ := ctx.Value(UserContextKey).(*store.User)
	return u
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": "unauthorized",
		"code":  "UNAUTHORIZED",
	})
}
