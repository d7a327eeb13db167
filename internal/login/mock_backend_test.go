package login

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

// testBackend mimics the auth endpoints of the cinema backend
type testBackend struct {
	*httptest.Server
	lock          sync.Mutex
	accessToken   string
	profileStatus int
	logoutStatus  int
	logoutAuth    []string
}

func (b *testBackend) setProfileStatus(status int) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.profileStatus = status
}

func (b *testBackend) setLogoutStatus(status int) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.logoutStatus = status
}

func (b *testBackend) logoutCalls() []string {
	b.lock.Lock()
	defer b.lock.Unlock()
	return append([]string{}, b.logoutAuth...)
}

func setupTestBackend(t *testing.T) *testBackend {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":   42,
		"email":     "lan@example.com",
		"role_id":   2,
		"full_name": "Lan Nguyen",
	})
	signed, err := token.SignedString([]byte("backend-signing-key"))
	require.NoError(t, err)
	backend := &testBackend{accessToken: signed, profileStatus: http.StatusOK, logoutStatus: http.StatusOK}

	e := echo.New()
	e.POST("/auth/login", func(c echo.Context) error {
		var body map[string]string
		if err := c.Bind(&body); err != nil {
			return err
		}
		if body["password"] != "correct-horse" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"status": "error", "message": "Invalid email or password"})
		}
		return c.JSON(http.StatusOK, map[string]any{
			"status": "success",
			"data":   map[string]string{"accessToken": backend.accessToken, "refreshToken": "R1"},
		})
	})
	e.POST("/auth/logout", func(c echo.Context) error {
		backend.lock.Lock()
		defer backend.lock.Unlock()
		backend.logoutAuth = append(backend.logoutAuth, c.Request().Header.Get(echo.HeaderAuthorization))
		return c.NoContent(backend.logoutStatus)
	})
	e.GET("/users/profile", func(c echo.Context) error {
		backend.lock.Lock()
		status := backend.profileStatus
		backend.lock.Unlock()
		if c.Request().Header.Get(echo.HeaderAuthorization) != "Bearer "+backend.accessToken {
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "expired"})
		}
		if status != http.StatusOK {
			return c.JSON(status, map[string]string{"message": "maintenance"})
		}
		return c.JSONBlob(http.StatusOK, []byte(`{"status":"success","data":{"id":42,"email":"lan@example.com","full_name":"Lan Nguyen","role_id":2}}`))
	})
	e.POST("/auth/refresh", func(c echo.Context) error {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "refresh token revoked"})
	})
	backend.Server = httptest.NewServer(e)
	t.Cleanup(backend.Close)
	return backend
}
