package middleware

import (
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"

	"watchshop/internal/apperrors"
	"watchshop/internal/logs"
)

// Recovery turns a handler panic into a 500 for that request only.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		logs.FromContext(c.Request.Context()).Error("panic recovered",
			slog.String("panic", fmt.Sprint(recovered)),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
		)
		Abort(c, apperrors.ErrUpstream)
	})
}
