package utils

import (
	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
)

// GetTraceID returns the sentry trace of the request, empty when tracing is off
func GetTraceID(c echo.Context) string {
	if span := sentry.TransactionFromContext(c.Request().Context()); span != nil {
		return span.TraceID.String()
	}
	return ""
}
