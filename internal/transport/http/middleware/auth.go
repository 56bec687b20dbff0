package middleware

import (
	"context"
	"net/http"

	"minigram/internal/httputil"
	"minigram/internal/model"
	"minigram/internal/service"
)

type contextKey string

const userContextKey contextKey = "user"

// RequireAuth guards protected routes. It reads the session cookie,
// resolves it to a user and attaches the user to the request context.
// Any failure short-circuits with a 401.
func RequireAuth(sessions *service.SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(service.SessionCookieName)
			if err != nil {
				httputil.WriteUnauthorized(w, "Not authenticated")
				return
			}

			user, err := sessions.Resolve(r.Context(), cookie.Value)
			if err != nil {
				httputil.WriteUnauthorized(w, "Not authenticated")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches the user to the context when a valid session
// cookie is present, and lets the request through anonymously otherwise.
func OptionalAuth(sessions *service.SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(service.SessionCookieName)
			if err == nil {
				if user, err := sessions.Resolve(r.Context(), cookie.Value); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), userContextKey, user))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUserFromContext returns the authenticated user set by RequireAuth.
func GetUserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userContextKey).(*model.User)
	return user, ok
}
