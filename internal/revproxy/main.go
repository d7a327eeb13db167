// Package revproxy forwards the cinema API to the backend on behalf of the session user and
// serves the views that combine several backend calls into one answer.
package revproxy

import (
	"fmt"
	"strings"

	"github.com/cinebook/booking-gateway/internal/clientpool"
	"github.com/cinebook/booking-gateway/internal/config"
	"github.com/cinebook/booking-gateway/internal/sessions"
	"github.com/labstack/echo/v4"
)

// forwardedPrefixes are the backend resources reachable through the gateway
var forwardedPrefixes = []string{"/movies", "/bookings", "/payments", "/users", "/rooms", "/showtimes", "/genres"}

// adminPrefixes are the resources where only admins may write
var adminPrefixes = map[string]bool{"/movies": true, "/showtimes": true, "/rooms": true}

type Revproxy struct {
	basePath string
	sessions *sessions.SessionStore
	pool     *clientpool.Pool
}

func (r *Revproxy) RegisterHandlers(e *echo.Echo, commonMiddlewares ...echo.MiddlewareFunc) {
	views := e.Group(r.basePath+"/views", append(append([]echo.MiddlewareFunc{}, commonMiddlewares...), noCookies)...)
	views.GET("/movies/:id/booking", r.GetMovieBooking)
	views.GET("/showtimes/:id/seats", r.GetShowtimeSeats)

	for _, prefix := range forwardedPrefixes {
		mws := append([]echo.MiddlewareFunc{}, commonMiddlewares...)
		if adminPrefixes[prefix] {
			mws = append(mws, r.adminWrites)
		}
		mws = append(mws, noCookies)
		g := e.Group(r.basePath+prefix, mws...)
		g.Any("", r.Forward)
		g.Any("/*", r.Forward)
	}
}

type RevproxyOption func(*Revproxy)

func WithConfig(c config.BackendConfig) RevproxyOption {
	return func(r *Revproxy) {
		r.basePath = strings.TrimSuffix(c.APIBasePath, "/")
	}
}

func WithBasePath(basePath string) RevproxyOption {
	return func(r *Revproxy) {
		r.basePath = strings.TrimSuffix(basePath, "/")
	}
}

func WithSessionStore(sessions *sessions.SessionStore) RevproxyOption {
	return func(r *Revproxy) {
		r.sessions = sessions
	}
}

func WithClientPool(pool *clientpool.Pool) RevproxyOption {
	return func(r *Revproxy) {
		r.pool = pool
	}
}

func NewServer(options ...RevproxyOption) (*Revproxy, error) {
	server := Revproxy{}
	for _, opt := range options {
		opt(&server)
	}
	if server.sessions == nil {
		return &Revproxy{}, fmt.Errorf("session store is not initialized")
	}
	if server.pool == nil {
		return &Revproxy{}, fmt.Errorf("client pool is not initialized")
	}
	return &server, nil
}
