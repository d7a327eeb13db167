package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"time"

	"github.com/cinebook/booking-gateway/internal/clientpool"
	"github.com/cinebook/booking-gateway/internal/config"
	"github.com/cinebook/booking-gateway/internal/db"
	"github.com/cinebook/booking-gateway/internal/login"
	"github.com/cinebook/booking-gateway/internal/revproxy"
	"github.com/cinebook/booking-gateway/internal/sessions"
	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/go-co-op/gocron"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

const maxRequestBody = "10M"

// setupServer wires the gateway. The returned scheduler sweeps idle backend clients and is not started.
func setupServer(gwConfig config.Config) (*echo.Echo, *gocron.Scheduler, error) {
	e := echo.New()
	e.Pre(middleware.RequestID(), middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.BodyLimit(maxRequestBody))
	// The banner and the port do not respect the logger formatting so they are hidden,
	// the address is logged when the server starts.
	e.HideBanner = true
	e.HidePort = true
	// Rate limiting
	if gwConfig.Server.RateLimits.Enabled {
		e.Use(middleware.RateLimiter(
			middleware.NewRateLimiterMemoryStoreWithConfig(
				middleware.RateLimiterMemoryStoreConfig{
					Rate:      rate.Limit(gwConfig.Server.RateLimits.Rate),
					Burst:     gwConfig.Server.RateLimits.Burst,
					ExpiresIn: 3 * time.Minute,
				}),
		),
		)
	}
	// CORS, credentials are needed for the session cookie
	if len(gwConfig.Server.AllowOrigin) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     gwConfig.Server.AllowOrigin,
			AllowCredentials: true,
			AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderXRequestID, "Idempotency-Key"},
		}))
	}
	// Sentry
	if gwConfig.Monitoring.Sentry.Enabled {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              string(gwConfig.Monitoring.Sentry.Dsn),
			TracesSampleRate: gwConfig.Monitoring.Sentry.SampleRate,
			Environment:      gwConfig.Monitoring.Sentry.Environment,
		})
		if err != nil {
			slog.Error("sentry initialization failed", "error", err)
		}
		e.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	}
	// Prometheus
	if gwConfig.Monitoring.Prometheus.Enabled {
		e.Use(echoprometheus.NewMiddleware("gateway"))
	}
	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	// Version endpoint
	buildInfo, ok := debug.ReadBuildInfo()
	version := ""
	if ok && buildInfo != nil {
		version = buildInfo.Main.Version
	}
	e.GET("/version", func(c echo.Context) error {
		return c.String(http.StatusOK, version)
	})
	// Initialize the db adapter
	dbAdapter, err := db.NewRedisAdapter(db.WithRedisConfig(gwConfig.Redis), db.WithTokenEncryption(gwConfig.TokenEncryption))
	if err != nil {
		return nil, nil, fmt.Errorf("DB adapter initialization failed: %w", err)
	}
	if gwConfig.TokenEncryption.Enabled {
		slog.Info("redis token encryption is enabled")
	}
	// Create session store
	sessionStore, err := sessions.NewSessionStore(
		sessions.WithSessionRepository(dbAdapter),
		sessions.WithConfig(gwConfig.Sessions),
		sessions.WithCookieTemplate(func() http.Cookie {
			return http.Cookie{
				Name:     sessions.SessionCookieName,
				Path:     "/",
				Secure:   gwConfig.RunningEnvironment == config.Production,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			}
		}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize sessions: %w", err)
	}
	// One backend client per session
	pool, err := clientpool.NewPool(
		clientpool.WithTokenRepository(dbAdapter),
		clientpool.WithBackendConfig(gwConfig.Backend),
		clientpool.WithSessionConfig(gwConfig.Sessions),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("client pool initialization failed: %w", err)
	}
	scheduler, err := pool.Scheduler()
	if err != nil {
		return nil, nil, fmt.Errorf("client pool sweeper initialization failed: %w", err)
	}
	// Add the session store to the common middlewares
	gwMiddlewares := append(append([]echo.MiddlewareFunc{}, commonMiddlewares...), sessionStore.Middleware())
	// Initialize login server
	loginServer, err := login.NewLoginServer(login.WithConfig(gwConfig.Backend), login.WithSessionStore(sessionStore), login.WithClientPool(pool))
	if err != nil {
		return nil, nil, fmt.Errorf("login handlers initialization failed: %w", err)
	}
	loginServer.RegisterHandlers(e, gwMiddlewares...)
	// Initialize the reverse proxy
	proxy, err := revproxy.NewServer(revproxy.WithConfig(gwConfig.Backend), revproxy.WithSessionStore(sessionStore), revproxy.WithClientPool(pool))
	if err != nil {
		return nil, nil, fmt.Errorf("revproxy handlers initialization failed: %w", err)
	}
	proxy.RegisterHandlers(e, gwMiddlewares...)
	return e, scheduler, nil
}

func main() {
	// Logging setup
	slog.SetDefault(jsonLogger)
	// Load configuration
	ch := config.NewConfigHandler()
	gwConfig, err := ch.Config()
	if err != nil {
		slog.Error("loading the configuration failed", "error", err)
		os.Exit(1)
	}
	slog.Info("loaded config", "config", gwConfig)
	// Set log level to "debug" if activated
	if gwConfig.DebugMode {
		logLevel.Set(slog.LevelDebug)
	}
	// Only the log level is picked up from changed config files, the rest needs a restart
	ch.HandleChanges(func(newConfig config.Config, err error) {
		if err != nil {
			slog.Error("CONFIG", "message", "ignoring the invalid config change", "error", err)
			return
		}
		if newConfig.DebugMode {
			logLevel.Set(slog.LevelDebug)
		} else {
			logLevel.Set(slog.LevelInfo)
		}
	})
	ch.Watch()
	e, scheduler, err := setupServer(gwConfig)
	if err != nil {
		slog.Error("gateway setup failed", "error", err)
		os.Exit(1)
	}
	scheduler.StartAsync()
	// Prometheus metrics are served on their own port
	if gwConfig.Monitoring.Prometheus.Enabled {
		go func() {
			metrics := echo.New()
			metrics.HideBanner = true
			metrics.HidePort = true
			metrics.GET("/metrics", echoprometheus.NewHandler())
			err := metrics.Start(fmt.Sprintf(":%d", gwConfig.Monitoring.Prometheus.Port))
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("prometheus server failed to start", "error", err)
				os.Exit(1)
			}
		}()
	}
	// Start server
	address := fmt.Sprintf("%s:%d", gwConfig.Server.Host, gwConfig.Server.Port)
	slog.Info("starting the server on address " + address)
	go func() {
		err := e.Start(address)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("the server stopped unexpectedly", "error", err)
			os.Exit(1)
		}
	}()
	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	slog.Info("received signal to shut down the server")
	scheduler.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		slog.Error("shutting down the server gracefully failed", "error", err)
		os.Exit(1)
	}
}
