// Package httpx provides HTTP response utilities.
package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/shopdesk/shopdesk/internal/shared"
)

// Status maps a domain error to its HTTP status and problem title.
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, shared.ErrValidation):
		return http.StatusBadRequest, "Validation Failed"
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound, "Not Found"
	case errors.Is(err, shared.ErrIdempotencyConflict):
		return http.StatusConflict, "Conflict"
	case errors.Is(err, shared.ErrCSRFTokenMissing), errors.Is(err, shared.ErrCSRFTokenMismatch):
		return http.StatusForbidden, "Forbidden"
	case errors.Is(err, shared.ErrUpstream):
		return http.StatusBadGateway, "Bad Gateway"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Gateway Timeout"
	default:
		return http.StatusInternalServerError, "Internal Error"
	}
}

// RespondError maps domain errors to HTTP responses using RFC7807. Details
// of server-side failures are not echoed to the client.
func RespondError(w http.ResponseWriter, err error) {
	status, title := Status(err)
	problem := ProblemDetail{Title: title, Status: status}
	if status < http.StatusInternalServerError {
		problem.Detail = err.Error()
	}
	var verr *shared.ValidationError
	if errors.As(err, &verr) {
		problem.Field = verr.Field
		problem.Detail = verr.Reason
	}
	writeProblem(w, problem)
}
