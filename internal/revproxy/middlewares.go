package revproxy

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cinebook/booking-gateway/internal/apiclient"
	"github.com/cinebook/booking-gateway/internal/clientpool"
	"github.com/cinebook/booking-gateway/internal/sessions"
	"github.com/cinebook/booking-gateway/internal/utils"
	"github.com/labstack/echo/v4"
)

// noCookies keeps the gateway cookies away from the backend
func noCookies(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Request().Header.Del("Cookie")
		return next(c)
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// adminWrites lets only admins change movies, showtimes and rooms. The role comes from the
// backend profile and any doubt denies the request.
func (r *Revproxy) adminWrites(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !isMutating(c.Request().Method) {
			return next(c)
		}
		session, err := sessions.GetSession(c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, utils.ErrorBody{Error: "not logged in"})
		}
		handle, err := r.pool.Get(session.ID)
		if err != nil {
			return err
		}
		user, err := handle.Provider.RequireAdmin(c.Request().Context())
		if err != nil {
			if errors.Is(err, apiclient.ErrAuthExpired) {
				return r.respondWithError(c, handle, err)
			}
			slog.Info(
				"REVPROXY",
				"message",
				"admin check denied the request",
				"error",
				err,
				"method",
				c.Request().Method,
				"path",
				c.Request().URL.Path,
				"requestID",
				utils.GetRequestID(c),
			)
			return c.JSON(http.StatusForbidden, utils.ErrorBody{Error: "admin rights are required"})
		}
		slog.Debug("REVPROXY", "message", "admin write allowed", "userID", user.ID, "requestID", utils.GetRequestID(c))
		return next(c)
	}
}

// handle picks the backend client of the request. Visitors without a session, or whose session
// has no tokens, get the anonymous client and authenticated is false.
func (r *Revproxy) handle(c echo.Context) (handle *clientpool.Handle, authenticated bool, err error) {
	session, err := sessions.GetSession(c)
	if err != nil {
		handle, err = r.pool.Anonymous()
		return handle, false, err
	}
	handle, err = r.pool.Get(session.ID)
	if err != nil {
		return nil, false, err
	}
	if _, ok := handle.Client.TokenStore().Get(c.Request().Context()); !ok {
		return handle, false, nil
	}
	return handle, true, nil
}

// respondWithError drops the client of a session whose tokens are gone before answering
func (r *Revproxy) respondWithError(c echo.Context, handle *clientpool.Handle, err error) error {
	if errors.Is(err, apiclient.ErrAuthExpired) && handle != nil && handle.SessionID != "" {
		r.pool.Remove(handle.SessionID)
	}
	return utils.RespondWithError(c, err)
}
