package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"watchshop/internal/apperrors"
	"watchshop/internal/logs"
	"watchshop/internal/repository"
)

// RequireAdmin allows the request only when the caller's user document has the
// admin role. The role is read from the store on every request, so a grant or
// revoke takes effect without re-issuing tokens. It must run after AuthRequired.
func RequireAdmin(users repository.Users, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			Abort(c, apperrors.ErrMissingToken)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		logger := logs.FromContext(ctx)
		user, err := users.FindByEmail(ctx, claims.Email)
		if err != nil {
			logger.Error("admin lookup failed", slog.String("error", err.Error()))
			Abort(c, apperrors.ErrUpstream)
			return
		}
		if !user.IsAdmin() {
			logger.Warn("admin route refused", slog.String("caller", claims.Email), slog.String("path", c.FullPath()))
			Abort(c, apperrors.ErrForbidden)
			return
		}

		c.Next()
	}
}
