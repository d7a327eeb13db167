// Package sessions keeps the browser session of the gateway. The session only carries its
// lifetime, the backend tokens of a session are stored next to it under the same ID.
package sessions

import (
	"github.com/cinebook/booking-gateway/internal/gwerrors"
	"github.com/cinebook/booking-gateway/internal/models"
	"github.com/labstack/echo/v4"
)

// GetSession returns the live session the middleware put in the request context
func GetSession(c echo.Context) (*models.Session, error) {
	sessionRaw := c.Get(SessionCtxKey)
	if sessionRaw == nil {
		return nil, gwerrors.ErrSessionNotFound
	}
	session, ok := sessionRaw.(*models.Session)
	if !ok {
		return nil, gwerrors.ErrSessionParse
	}
	if session == nil || session.ID == "" {
		return nil, gwerrors.ErrSessionNotFound
	}
	if session.Expired() {
		return nil, gwerrors.ErrSessionExpired
	}
	return session, nil
}
