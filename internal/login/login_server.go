// Package login serves the auth endpoints of the gateway. The browser only ever holds the
// session cookie, the backend tokens stay in the gateway.
package login

import (
	"fmt"
	"strings"

	"github.com/cinebook/booking-gateway/internal/clientpool"
	"github.com/cinebook/booking-gateway/internal/config"
	"github.com/cinebook/booking-gateway/internal/sessions"
	"github.com/labstack/echo/v4"
)

type LoginServer struct {
	basePath string
	sessions *sessions.SessionStore
	pool     *clientpool.Pool
}

func (l *LoginServer) RegisterHandlers(server *echo.Echo, commonMiddlewares ...echo.MiddlewareFunc) {
	e := server.Group(l.basePath + "/auth")
	e.Use(commonMiddlewares...)
	e.POST("/login", l.PostLogin, NoCaching)
	e.POST("/logout", l.PostLogout, NoCaching)
	e.GET("/me", l.GetMe, NoCaching)
}

type LoginServerOption func(*LoginServer) error

func WithConfig(c config.BackendConfig) LoginServerOption {
	return func(l *LoginServer) error {
		l.basePath = strings.TrimSuffix(c.APIBasePath, "/")
		return nil
	}
}

func WithBasePath(basePath string) LoginServerOption {
	return func(l *LoginServer) error {
		l.basePath = strings.TrimSuffix(basePath, "/")
		return nil
	}
}

func WithSessionStore(sessions *sessions.SessionStore) LoginServerOption {
	return func(l *LoginServer) error {
		l.sessions = sessions
		return nil
	}
}

func WithClientPool(pool *clientpool.Pool) LoginServerOption {
	return func(l *LoginServer) error {
		l.pool = pool
		return nil
	}
}

// NewLoginServer creates the server behind the login, logout and current user endpoints
func NewLoginServer(options ...LoginServerOption) (*LoginServer, error) {
	server := LoginServer{}
	for _, opt := range options {
		err := opt(&server)
		if err != nil {
			return &LoginServer{}, err
		}
	}
	if server.sessions == nil {
		return &LoginServer{}, fmt.Errorf("session store is not initialized")
	}
	if server.pool == nil {
		return &LoginServer{}, fmt.Errorf("client pool is not initialized")
	}
	return &server, nil
}
