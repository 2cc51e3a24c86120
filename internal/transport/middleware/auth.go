package middleware

import (
	"net/http"

	errors "github.com/frahmantamala/bengkelku/internal"
	"github.com/frahmantamala/bengkelku/internal/auth"
	"github.com/frahmantamala/bengkelku/internal/transport"
	"github.com/frahmantamala/bengkelku/pkg/logger"
)

// Authenticate requires a valid bearer token and puts the caller in the
// request context and logger.
func Authenticate(validator auth.TokenValidator, base *transport.BaseHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := transport.BearerToken(r)
			if token == "" {
				base.HandleServiceError(w, r, errors.NewUnauthorizedError("missing authorization token", errors.ErrCodeInvalidToken))
				return
			}

			actor, err := validator.Validate(token)
			if err != nil {
				base.HandleServiceError(w, r, err)
				return
			}

			ctx := errors.ContextWithActor(r.Context(), actor)
			ctx = logger.With(ctx, "actor", actor.Subject, "role", actor.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole lets through callers holding any of roles.
func RequireRole(base *transport.BaseHandler, roles ...errors.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := errors.ActorFromContext(r.Context())
			if !ok {
				base.HandleServiceError(w, r, errors.ErrInvalidToken)
				return
			}
			if !actor.HasAnyRole(roles...) {
				base.HandleServiceError(w, r, errors.ErrInsufficientAccess.WithDetails(map[string]interface{}{
					"role":     actor.Role,
					"required": roles,
				}))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
