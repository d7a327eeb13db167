package utils

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cinebook/booking-gateway/internal/apiclient"
	"github.com/cinebook/booking-gateway/internal/gwerrors"
	"github.com/labstack/echo/v4"
)

// ErrorBody is the shape of the errors the gateway writes itself
type ErrorBody struct {
	Error string `json:"error"`
}

// RespondWithError writes the answer for an error raised while calling the backend.
// Backend errors are relayed with their own status and body.
func RespondWithError(c echo.Context, err error) error {
	var apiErr *apiclient.APIError
	var netErr *apiclient.NetworkError
	switch {
	case errors.Is(err, apiclient.ErrAuthExpired):
		return c.JSON(http.StatusUnauthorized, ErrorBody{"session expired"})
	case errors.Is(err, apiclient.ErrTokenStoreUnavailable):
		slog.Error("GATEWAY", "message", "the session tokens cannot be read", "error", err, "requestID", GetRequestID(c))
		return c.JSON(http.StatusServiceUnavailable, ErrorBody{"the session store is unavailable"})
	case errors.Is(err, gwerrors.ErrForbidden):
		return c.JSON(http.StatusForbidden, ErrorBody{"admin rights are required"})
	case errors.As(err, &apiErr):
		if len(apiErr.Body) > 0 && json.Valid(apiErr.Body) {
			return c.JSONBlob(apiErr.StatusCode, apiErr.Body)
		}
		return c.JSON(apiErr.StatusCode, ErrorBody{apiErr.Message})
	case errors.As(err, &netErr):
		slog.Error(
			"GATEWAY",
			"message",
			"the cinema backend is unreachable",
			"error",
			err,
			"requestID",
			GetRequestID(c),
			"traceID",
			GetTraceID(c),
		)
		return c.JSON(http.StatusBadGateway, ErrorBody{"the cinema backend is unreachable"})
	case errors.Is(err, context.DeadlineExceeded):
		return c.JSON(http.StatusGatewayTimeout, ErrorBody{"the cinema backend took too long to answer"})
	default:
		slog.Error(
			"GATEWAY",
			"message",
			"unexpected error",
			"error",
			err,
			"requestID",
			GetRequestID(c),
			"traceID",
			GetTraceID(c),
		)
		return c.JSON(http.StatusInternalServerError, ErrorBody{"internal error"})
	}
}
