package sessions

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cinebook/booking-gateway/internal/config"
	"github.com/cinebook/booking-gateway/internal/gwerrors"
	"github.com/cinebook/booking-gateway/internal/models"
	"github.com/cinebook/booking-gateway/internal/utils"
	"github.com/labstack/echo/v4"
)

type SessionStore struct {
	cookieTemplate func() http.Cookie
	sessionMaker   SessionMaker
	sessionRepo    models.SessionRepository
}

// Middleware loads the session of the request, touches it and saves it once the handler is done
func (sessions *SessionStore) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			_, loadErr := sessions.Get(c)
			if loadErr != nil && !errors.Is(loadErr, gwerrors.ErrSessionNotFound) && !errors.Is(loadErr, gwerrors.ErrSessionExpired) {
				slog.Info(
					"SESSION MIDDLEWARE",
					"message",
					"could not load session",
					"error",
					loadErr,
					"requestID",
					utils.GetRequestID(c),
				)
			}
			err := next(c)
			saveErr := sessions.Save(c)
			if saveErr != nil && !errors.Is(saveErr, gwerrors.ErrSessionNotFound) && !errors.Is(saveErr, gwerrors.ErrSessionExpired) {
				slog.Info(
					"SESSION MIDDLEWARE",
					"message",
					"could not save session",
					"error",
					saveErr,
					"requestID",
					utils.GetRequestID(c),
				)
			}
			return err
		}
	}
}

// Get returns the session of the request, looking at the context first and at the cookie second
func (sessions *SessionStore) Get(c echo.Context) (*models.Session, error) {
	session, err := GetSession(c)
	if err == nil {
		return session, nil
	}
	cookie, err := c.Cookie(SessionCookieName)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return nil, gwerrors.ErrSessionNotFound
		}
		return nil, err
	}
	if cookie.Value == "" {
		return nil, gwerrors.ErrSessionNotFound
	}
	stored, err := sessions.sessionRepo.GetSession(c.Request().Context(), cookie.Value)
	if err != nil {
		return nil, err
	}
	if stored.Expired() {
		return nil, gwerrors.ErrSessionExpired
	}
	stored.Touch()
	c.Set(SessionCtxKey, &stored)
	return &stored, nil
}

// Create starts a new session and sends its cookie. The session is persisted by Save.
func (sessions *SessionStore) Create(c echo.Context) (*models.Session, error) {
	session, err := sessions.sessionMaker.NewSession()
	if err != nil {
		return nil, err
	}
	c.Set(SessionCtxKey, &session)
	cookie := sessions.Cookie(session)
	c.SetCookie(&cookie)
	return &session, nil
}

func (sessions *SessionStore) Save(c echo.Context) error {
	session, err := GetSession(c)
	if err != nil {
		return err
	}
	return sessions.sessionRepo.SetSession(c.Request().Context(), *session)
}

// Prepare makes a new session without attaching it to the request
func (sessions *SessionStore) Prepare() (models.Session, error) {
	return sessions.sessionMaker.NewSession()
}

// Rotate attaches session to the request in place of the current one, which is removed with its tokens.
// It returns the ID of the replaced session, empty when the request had none.
func (sessions *SessionStore) Rotate(c echo.Context, session models.Session) (string, error) {
	previousID := sessions.currentID(c)
	c.Set(SessionCtxKey, &session)
	cookie := sessions.Cookie(session)
	c.SetCookie(&cookie)
	if previousID == "" || previousID == session.ID {
		return previousID, nil
	}
	return previousID, sessions.sessionRepo.RemoveSession(c.Request().Context(), previousID)
}

// currentID is the ID of the session in the context, or in the cookie when the context has none
func (sessions *SessionStore) currentID(c echo.Context) string {
	if session, err := GetSession(c); err == nil {
		return session.ID
	}
	if cookie, err := c.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// Delete removes the session with its tokens and expires the cookie
func (sessions *SessionStore) Delete(c echo.Context) error {
	sessionID := sessions.currentID(c)

	expired := sessions.cookieTemplate()
	expired.MaxAge = -1
	c.SetCookie(&expired)
	c.Set(SessionCtxKey, &models.Session{})

	if sessionID == "" {
		return nil
	}
	return sessions.sessionRepo.RemoveSession(c.Request().Context(), sessionID)
}

func (sessions *SessionStore) Cookie(session models.Session) http.Cookie {
	cookie := sessions.cookieTemplate()
	cookie.Value = session.ID
	return cookie
}

type SessionStoreOption func(*SessionStore) error

func WithSessionRepository(repo models.SessionRepository) SessionStoreOption {
	return func(sessions *SessionStore) error {
		sessions.sessionRepo = repo
		return nil
	}
}

func WithSessionMaker(sm SessionMaker) SessionStoreOption {
	return func(sessions *SessionStore) error {
		sessions.sessionMaker = sm
		return nil
	}
}

func WithCookieTemplate(f func() http.Cookie) SessionStoreOption {
	return func(sessions *SessionStore) error {
		sessions.cookieTemplate = f
		return nil
	}
}

func WithConfig(c config.SessionConfig) SessionStoreOption {
	return func(sessions *SessionStore) error {
		sm, err := NewSessionMaker(WithIdleSessionTTLSeconds(c.IdleSessionTTLSeconds), WithMaxSessionTTLSeconds(c.MaxSessionTTLSeconds))
		if err != nil {
			return err
		}
		sessions.sessionMaker = sm
		return nil
	}
}

func NewSessionStore(options ...SessionStoreOption) (*SessionStore, error) {
	sessions := SessionStore{
		cookieTemplate: func() http.Cookie {
			return http.Cookie{
				Name:     SessionCookieName,
				Path:     "/",
				Secure:   true,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode}
		},
	}
	for _, opt := range options {
		err := opt(&sessions)
		if err != nil {
			return &SessionStore{}, err
		}
	}
	if sessions.cookieTemplate == nil {
		return &SessionStore{}, fmt.Errorf("cookie template is not initialized")
	}
	if sessions.sessionMaker == nil {
		return &SessionStore{}, fmt.Errorf("session maker is not initialized")
	}
	if sessions.sessionRepo == nil {
		return &SessionStore{}, fmt.Errorf("session repository is not initialized")
	}
	return &sessions, nil
}
