package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"larpilot/backoffice/internal/apperr"
	"larpilot/backoffice/internal/auth"
	"larpilot/backoffice/internal/common"
	"larpilot/backoffice/internal/logging"
)

// TokenParser validates a bearer token.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// ActorSource resolves a user id into an actor.
type ActorSource interface {
	Load(ctx context.Context, userID string) (*auth.Actor, error)
}

// AuthMiddleware authenticates the bearer token and stores the actor in the
// request context.
func AuthMiddleware(tokens TokenParser, actors ActorSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			initTime := time.Now()

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				common.RespondError(w, initTime, "Unauthorized. Missing bearer token", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.Parse(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				common.RespondError(w, initTime, "Unauthorized. Invalid token", http.StatusUnauthorized)
				return
			}

			actor, err := actors.Load(r.Context(), claims.UserID())
			if err != nil {
				if apperr.Is(err, apperr.CodeNotFound) {
					common.RespondError(w, initTime, "Unauthorized. Unknown user", http.StatusUnauthorized)
					return
				}
				logging.WithRequest(GetRequestID(r.Context()), claims.UserID(), r.URL.Path).
					Errorw("Failed to load actor", "error", err.Error())
				common.RespondError(w, initTime, "Internal server error", http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.SetActor(r.Context(), actor)))
		})
	}
}

// RequireActor rejects requests that reached it without an authenticated actor.
func RequireActor() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth.GetActor(r.Context()) == nil {
				common.RespondError(w, time.Now(), "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IsSuperAdminMiddleware gates the platform administration routes.
func IsSuperAdminMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := auth.GetActor(r.Context())
			if actor.IsSuperAdmin() {
				next.ServeHTTP(w, r)
				return
			}

			userID := ""
			if actor != nil {
				userID = actor.UserID
			}
			logging.Warn("Super admin route denied", "user_id", userID, "endpoint", r.URL.Path)
			common.RespondPermissionDenied(w, time.Now(), "super admin")
		})
	}
}
