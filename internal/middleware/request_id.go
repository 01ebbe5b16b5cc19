package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"watchshop/internal/logs"
)

const HeaderXRequestID = "X-Request-ID"

const maxRequestIDLength = 64

// validRequestID accepts short ids made of letters, digits, '-', '_' and '.'.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}

// RequestID reuses a well-formed client id or generates one, echoes it on the
// response and stores a logger carrying it in the request context.
func RequestID(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderXRequestID)
		if !validRequestID(requestID) {
			requestID = uuid.New().String()
			c.Request.Header.Set(HeaderXRequestID, requestID)
		}

		c.Header(HeaderXRequestID, requestID)
		c.Set("request_id", requestID)

		reqLogger := logger.With(slog.String("request_id", requestID))
		c.Request = c.Request.WithContext(logs.WithLogger(c.Request.Context(), reqLogger))

		c.Next()
	}
}
