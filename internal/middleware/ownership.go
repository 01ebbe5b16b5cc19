package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"watchshop/internal/apperrors"
	"watchshop/internal/logs"
)

// RequireOwner allows the request only when the path parameter param equals the
// email of the authenticated caller. It must run after AuthRequired.
func RequireOwner(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			Abort(c, apperrors.ErrMissingToken)
			return
		}

		if c.Param(param) != claims.Email {
			logs.FromContext(c.Request.Context()).Warn("ownership check failed",
				slog.String("path", c.FullPath()),
				slog.String("caller", claims.Email),
			)
			Abort(c, apperrors.ErrForbidden)
			return
		}

		c.Next()
	}
}
