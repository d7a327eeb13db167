package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrAuthExpired means the session cannot be recovered by refreshing, the caller has to log in again
var ErrAuthExpired = errors.New("authentication expired")

// ErrTokenStoreUnavailable means the stored tokens could not be read, they are left untouched
var ErrTokenStoreUnavailable = errors.New("the token store is unavailable")

// ErrMissingAccessToken is returned when a login or refresh response carries no access token
var ErrMissingAccessToken = errors.New("the response does not contain an access token")

// NetworkError wraps transport level failures, the request may or may not have reached the backend
type NetworkError struct {
	Op  string
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// APIError is any non-2xx answer of the backend that is not handled by the refresh flow
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend responded with %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("backend responded with %d: %s", e.StatusCode, e.Message)
}

func newAPIError(resp *Response) *APIError {
	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    extractMessage(resp.Body),
		Body:       resp.Body,
	}
}

// extractMessage looks for the human readable message the backend puts in its error bodies
func extractMessage(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if msg, ok := payload["message"].(string); ok && msg != "" {
		return msg
	}
	switch val := payload["error"].(type) {
	case string:
		if val != "" {
			return val
		}
	case map[string]any:
		if msg, ok := val["message"].(string); ok && msg != "" {
			return msg
		}
	}
	if data, ok := payload["data"].(map[string]any); ok {
		if msg, ok := data["message"].(string); ok && msg != "" {
			return msg
		}
	}
	if msg, ok := payload["return_message"].(string); ok {
		return msg
	}
	return ""
}

// StatusCode reports the HTTP status a gateway should answer with for an error of this package
func StatusCode(err error) int {
	var apiErr *APIError
	var netErr *NetworkError
	switch {
	case errors.Is(err, ErrAuthExpired):
		return http.StatusUnauthorized
	case errors.Is(err, ErrTokenStoreUnavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &apiErr):
		return apiErr.StatusCode
	case errors.As(err, &netErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
