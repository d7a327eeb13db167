package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

var logLevel = new(slog.LevelVar)
var jsonLogger *slog.Logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
var requestLogger echo.MiddlewareFunc = middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
	LogStatus:    true,
	LogURI:       true,
	LogError:     true,
	LogRequestID: true,
	LogRoutePath: true,
	LogMethod:    true,
	LogLatency:   true,
	LogUserAgent: true,
	HandleError:  true, // lets the global error handler pick the status code
	LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
		attrs := []slog.Attr{
			slog.String("uri", v.URI),
			slog.Int("status", v.Status),
			slog.String("requestID", v.RequestID),
			slog.String("method", v.Method),
			slog.String("handler", v.RoutePath),
			slog.Duration("latency", v.Latency),
			slog.String("userAgent", v.UserAgent),
		}
		if v.Error != nil {
			jsonLogger.LogAttrs(context.Background(), slog.LevelError, "REQUEST_ERROR", append(attrs, slog.String("error", v.Error.Error()))...)
			return nil
		}
		jsonLogger.LogAttrs(context.Background(), slog.LevelInfo, "REQUEST", attrs...)
		return nil
	},
})
var commonMiddlewares []echo.MiddlewareFunc = []echo.MiddlewareFunc{requestLogger}
