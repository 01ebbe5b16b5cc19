package middleware

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"watchshop/internal/apperrors"
	"watchshop/internal/auth"
	"watchshop/internal/logs"
)

const claimsKey = "claims"

// TokenVerifier is satisfied by *auth.TokenService.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// AuthRequired rejects requests without a valid bearer token and stores the
// decoded claims for the handlers.
func AuthRequired(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			Abort(c, apperrors.ErrMissingToken)
			return
		}

		claims, err := tokens.Verify(bearerToken(header))
		if err != nil {
			logs.FromContext(c.Request.Context()).Debug("token rejected", slog.String("path", c.FullPath()))
			Abort(c, apperrors.ErrInvalidToken)
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// bearerToken returns the credential after the scheme. A header with no scheme
// yields an empty token, which never verifies.
func bearerToken(header string) string {
	fields := strings.Fields(header)
	if len(fields) != 2 || !strings.EqualFold(fields[0], "Bearer") {
		return ""
	}
	return fields[1]
}

// ClaimsFrom returns the claims stored by AuthRequired.
func ClaimsFrom(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

// Abort writes the error body for err and stops the chain.
func Abort(c *gin.Context, err error) {
	c.AbortWithStatusJSON(apperrors.Status(err), apperrors.NewResponse(err))
}
