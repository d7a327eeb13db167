package revproxy

import (
	"fmt"
	"io"
	"strings"

	"github.com/cinebook/booking-gateway/internal/apiclient"
	"github.com/labstack/echo/v4"
)

// forwardedHeaders are the request headers the backend needs besides the ones the client sets
var forwardedHeaders = []string{"Idempotency-Key", "Accept-Language"}

// Forward passes the request to the backend through the client of the session and relays the answer
func (r *Revproxy) Forward(c echo.Context) error {
	handle, authenticated, err := r.handle(c)
	if err != nil {
		return err
	}
	req := c.Request()
	path := strings.TrimPrefix(req.URL.EscapedPath(), r.basePath)
	opts := []apiclient.RequestOption{}
	if len(req.URL.Query()) > 0 {
		opts = append(opts, apiclient.WithQuery(req.URL.Query()))
	}
	if req.Body != nil {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return fmt.Errorf("cannot read the request body: %w", err)
		}
		if len(body) > 0 {
			contentType := req.Header.Get(echo.HeaderContentType)
			if contentType == "" {
				contentType = echo.MIMEApplicationJSON
			}
			opts = append(opts, apiclient.WithRawBody(contentType, body))
		}
	}
	for _, header := range forwardedHeaders {
		if value := req.Header.Get(header); value != "" {
			opts = append(opts, apiclient.WithHeader(header, value))
		}
	}
	if !authenticated {
		opts = append(opts, apiclient.WithoutAuth())
	}

	resp, err := handle.Client.Request(req.Context(), req.Method, path, nil, opts...)
	if err != nil {
		return r.respondWithError(c, handle, err)
	}
	contentType := resp.ContentType()
	if contentType == "" {
		contentType = echo.MIMEApplicationJSON
	}
	if len(resp.Body) == 0 {
		return c.NoContent(resp.StatusCode)
	}
	return c.Blob(resp.StatusCode, contentType, resp.Body)
}
