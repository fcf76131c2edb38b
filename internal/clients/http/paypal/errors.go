package paypal

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int           `json:"-"`
	Name       string        `json:"name"`
	Message    string        `json:"message"`
	DebugID    string        `json:"debug_id"`
	Details    []ErrorDetail `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	issue := ""
	if len(e.Details) > 0 {
		issue = " (" + e.Details[0].Issue + ")"
	}
	return fmt.Sprintf("paypal: %d %s: %s%s [debug_id=%s]", e.StatusCode, e.Name, e.Message, issue, e.DebugID)
}

// IsUnprocessable reports whether err is a 422 business rejection, such as a declined instrument.
func IsUnprocessable(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnprocessableEntity
}
