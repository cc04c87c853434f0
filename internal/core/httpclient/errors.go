package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// APIError carries an error reported by the upstream API. Message is the
// server-supplied human-readable text and is treated as opaque: the upstream
// publishes no canonical error-code set.
type APIError struct {
	// StatusCode is the HTTP status returned by the upstream.
	StatusCode int
	// Message is the server-supplied error description.
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.StatusCode, e.Message)
}

// ErrorFromResponse builds an APIError from a non-2xx upstream response.
// The upstream reports errors as {"error": "..."}; older endpoints use
// {"message": "..."}. A generic fallback is used when neither is present.
func ErrorFromResponse(resp *http.Response) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    "request failed",
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return apiErr
	}

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return apiErr
	}

	if payload.Error != "" {
		apiErr.Message = payload.Error
	} else if payload.Message != "" {
		apiErr.Message = payload.Message
	}

	return apiErr
}
