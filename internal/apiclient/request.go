package apiclient

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

type requestSpec struct {
	method      string
	path        string
	query       url.Values
	header      map[string]string
	body        []byte
	contentType string
	skipAuth    bool
}

type RequestOption func(*requestSpec)

func WithQuery(query url.Values) RequestOption {
	return func(r *requestSpec) {
		r.query = query
	}
}

func WithHeader(key string, value string) RequestOption {
	return func(r *requestSpec) {
		r.header[key] = value
	}
}

// WithRawBody sends data as is, used for multipart uploads. It takes precedence over the body argument.
func WithRawBody(contentType string, data []byte) RequestOption {
	return func(r *requestSpec) {
		r.contentType = contentType
		r.body = data
	}
}

// WithoutAuth sends the request without a bearer token, a 401 answer is then returned as an APIError
func WithoutAuth() RequestOption {
	return func(r *requestSpec) {
		r.skipAuth = true
	}
}

// newRequestSpec encodes the body once so that the request can be replayed after a refresh
func newRequestSpec(method string, path string, body any, options ...RequestOption) (*requestSpec, error) {
	spec := &requestSpec{
		method: strings.ToUpper(method),
		path:   "/" + strings.TrimPrefix(path, "/"),
		header: map[string]string{},
	}
	switch val := body.(type) {
	case nil:
	case []byte:
		spec.body = val
		spec.contentType = "application/json"
	case json.RawMessage:
		spec.body = val
		spec.contentType = "application/json"
	default:
		encoded, err := json.Marshal(val)
		if err != nil {
			return nil, fmt.Errorf("cannot encode request body: %w", err)
		}
		spec.body = encoded
		spec.contentType = "application/json"
	}
	for _, opt := range options {
		opt(spec)
	}
	return spec, nil
}
