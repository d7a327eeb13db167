package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return fmt.Errorf("cannot decode an empty response body")
	}
	return json.Unmarshal(r.Body, v)
}

// DecodeData decodes the payload of a backend answer. The backend wraps some payloads in a
// {"status": "...", "data": ...} envelope and returns others bare, both are accepted.
// An envelope whose status is not "success" is returned as an *APIError.
func (r *Response) DecodeData(v any) error {
	body := bytes.TrimSpace(r.Body)
	if len(body) == 0 {
		return fmt.Errorf("cannot decode an empty response body")
	}
	if body[0] != '{' {
		return json.Unmarshal(body, v)
	}
	var env map[string]json.RawMessage
	if err := json.Unmarshal(body, &env); err != nil {
		return err
	}
	var status string
	if raw, ok := env["status"]; ok {
		_ = json.Unmarshal(raw, &status)
	}
	data, wrapped := env["data"]
	if status == "error" || status == "fail" || (wrapped && status != "" && status != "success") {
		return newAPIError(r)
	}
	if !wrapped || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return json.Unmarshal(body, v)
	}
	return json.Unmarshal(data, v)
}

func (r *Response) ContentType() string {
	return r.Header.Get("Content-Type")
}

type outcome int

const (
	outcomeOK outcome = iota
	outcomeUnauthorized
	outcomeFailed
)

func classify(resp *Response) outcome {
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return outcomeUnauthorized
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		return outcomeOK
	default:
		return outcomeFailed
	}
}
