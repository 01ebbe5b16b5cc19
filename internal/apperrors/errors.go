// Package apperrors defines the error taxonomy shared by the handlers, the access
// guard and the payment bridge, and maps each kind to its HTTP response.
package apperrors

import (
	"net/http"

	"github.com/pkg/errors"
)

var (
	ErrMissingToken      = errors.New("missing token")
	ErrInvalidToken      = errors.New("invalid or expired token")
	ErrForbidden         = errors.New("forbidden access")
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrInvalidBody       = errors.New("invalid request body")
	ErrDuplicateUser     = errors.New("user already exists")
	ErrUpstream          = errors.New("upstream failure")
)

// Response is the JSON body written for every error.
type Response struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// Status maps err to an HTTP status. Unknown errors are treated as upstream failures.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrMissingToken), errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidIdentifier), errors.Is(err, ErrInvalidBody):
		return http.StatusBadRequest
	case errors.Is(err, ErrDuplicateUser):
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing message for err. Internal details never leak.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrMissingToken), errors.Is(err, ErrInvalidToken):
		return "unauthorized access"
	case errors.Is(err, ErrForbidden):
		return "forbidden access"
	case errors.Is(err, ErrInvalidIdentifier):
		return "invalid identifier"
	case errors.Is(err, ErrInvalidBody):
		return "invalid request body"
	case errors.Is(err, ErrDuplicateUser):
		return "user already exists"
	default:
		return "internal server error"
	}
}

// NewResponse builds the error body for err.
func NewResponse(err error) Response {
	return Response{Error: true, Message: Message(err)}
}
