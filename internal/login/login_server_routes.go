package login

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cinebook/booking-gateway/internal/apiclient"
	"github.com/cinebook/booking-gateway/internal/authentication"
	"github.com/cinebook/booking-gateway/internal/sessions"
	"github.com/cinebook/booking-gateway/internal/utils"
	"github.com/labstack/echo/v4"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (l *LoginServer) PostLogin(c echo.Context) error {
	var body loginRequest
	if err := c.Bind(&body); err != nil || body.Email == "" || body.Password == "" {
		return c.JSON(http.StatusBadRequest, utils.ErrorBody{Error: "email and password are required"})
	}
	// the tokens go to a fresh session, a session ID known before the login is never authenticated
	session, err := l.sessions.Prepare()
	if err != nil {
		return err
	}
	handle, err := l.pool.Get(session.ID)
	if err != nil {
		return err
	}
	identity, err := handle.Provider.Login(c.Request().Context(), body.Email, body.Password)
	if err != nil {
		l.pool.Remove(session.ID)
		slog.Info(
			"LOGIN",
			"message",
			"login failed",
			"error",
			err,
			"requestID",
			utils.GetRequestID(c),
		)
		if errors.Is(err, authentication.ErrInvalidLoginResponse) {
			return c.JSON(http.StatusBadGateway, utils.ErrorBody{Error: "the cinema backend sent an unusable login answer"})
		}
		return utils.RespondWithError(c, err)
	}
	previousID, err := l.sessions.Rotate(c, session)
	if err != nil {
		slog.Error(
			"LOGIN",
			"message",
			"cannot remove the session replaced by the login",
			"error",
			err,
			"requestID",
			utils.GetRequestID(c),
		)
	}
	if previousID != "" {
		l.pool.Remove(previousID)
	}
	return c.JSON(http.StatusOK, map[string]any{"user": identity})
}

// PostLogout always ends the gateway session, a failing backend logout is only logged
func (l *LoginServer) PostLogout(c echo.Context) error {
	if session, err := sessions.GetSession(c); err == nil {
		handle, err := l.pool.Get(session.ID)
		if err == nil {
			err = handle.Provider.Logout(c.Request().Context())
		}
		if err != nil && !errors.Is(err, authentication.ErrNotLoggedIn) {
			slog.Info(
				"LOGIN",
				"message",
				"backend logout failed",
				"error",
				err,
				"requestID",
				utils.GetRequestID(c),
			)
		}
		l.pool.Remove(session.ID)
	}
	err := l.sessions.Delete(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

// GetMe returns the profile confirmed by the backend. When the backend cannot confirm it the
// identity read from the token is returned, flagged as not verified.
func (l *LoginServer) GetMe(c echo.Context) error {
	session, err := sessions.GetSession(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, utils.ErrorBody{Error: "not logged in"})
	}
	handle, err := l.pool.Get(session.ID)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if _, ok := handle.Client.TokenStore().Get(ctx); !ok {
		return c.JSON(http.StatusUnauthorized, utils.ErrorBody{Error: "not logged in"})
	}
	user, err := handle.Provider.CurrentUser(ctx)
	if err == nil {
		return c.JSON(http.StatusOK, map[string]any{"user": user})
	}
	if errors.Is(err, apiclient.ErrAuthExpired) {
		l.pool.Remove(session.ID)
		return utils.RespondWithError(c, err)
	}
	if identity, ok := handle.Provider.Identity(ctx); ok {
		slog.Info(
			"LOGIN",
			"message",
			"profile unavailable, answering with the token identity",
			"error",
			err,
			"requestID",
			utils.GetRequestID(c),
		)
		return c.JSON(http.StatusOK, map[string]any{"user": identity})
	}
	return utils.RespondWithError(c, err)
}
