package http

import (
	stdhttp "net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// apiError is the fixed-shape JSON error body returned for every non-2xx
// response: {error, message, status_code}. Internal error text never reaches
// the client; handlers log it and return one of these instead.
type apiError struct {
	status     int
	ErrorLabel string `json:"error"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

func (e *apiError) Error() string {
	return e.Message
}

func (e *apiError) GetStatus() int {
	return e.status
}

// ContentType keeps error bodies as plain application/json rather than
// problem+json.
func (e *apiError) ContentType(string) string {
	return "application/json"
}

var _ huma.StatusError = (*apiError)(nil)

func newAPIError(status int, label, message string) *apiError {
	return &apiError{
		status:     status,
		ErrorLabel: label,
		Message:    message,
		StatusCode: status,
	}
}

func init() {
	// Validation failures raised inside huma (malformed bodies, bad
	// parameters) come through here; collapse them onto the service's
	// error shape and report them as plain 400s.
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		if status == stdhttp.StatusUnprocessableEntity {
			status = stdhttp.StatusBadRequest
		}

		detail := message
		if len(errs) > 0 {
			parts := make([]string, 0, len(errs))
			for _, err := range errs {
				if err != nil {
					parts = append(parts, err.Error())
				}
			}
			if len(parts) > 0 {
				detail = message + ": " + strings.Join(parts, "; ")
			}
		}

		return newAPIError(status, stdhttp.StatusText(status), detail)
	}
}

func unauthorizedError() *apiError {
	return newAPIError(stdhttp.StatusUnauthorized, "Unauthorized access", "Valid credentials are required.")
}

func pageNotFoundError() *apiError {
	return newAPIError(stdhttp.StatusNotFound, "Page not found", "No page matches the requested tokens.")
}

func conflictError() *apiError {
	return newAPIError(stdhttp.StatusConflict, "Page already exists", "A page with the same tokens already exists.")
}

func missingFieldsError(fields []string) *apiError {
	return newAPIError(
		stdhttp.StatusBadRequest,
		"Missing required fields",
		"Missing required fields: "+strings.Join(fields, ", "),
	)
}

func serverError() *apiError {
	return newAPIError(stdhttp.StatusInternalServerError, "Internal server error", "We couldn't process your request right now.")
}
