package revproxy

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
)

type seenRequest struct {
	method         string
	path           string
	query          string
	auth           string
	cookie         string
	contentType    string
	idempotencyKey string
	body           string
}

// testBackend mimics the cinema backend and records what reached it
type testBackend struct {
	*httptest.Server
	lock sync.Mutex
	seen []seenRequest
}

func (b *testBackend) requests() []seenRequest {
	b.lock.Lock()
	defer b.lock.Unlock()
	return append([]seenRequest{}, b.seen...)
}

func (b *testBackend) last() seenRequest {
	seen := b.requests()
	if len(seen) == 0 {
		return seenRequest{}
	}
	return seen[len(seen)-1]
}

func (b *testBackend) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		body, _ := io.ReadAll(req.Body)
		b.lock.Lock()
		b.seen = append(b.seen, seenRequest{
			method:         req.Method,
			path:           req.URL.Path,
			query:          req.URL.RawQuery,
			auth:           req.Header.Get(echo.HeaderAuthorization),
			cookie:         req.Header.Get("Cookie"),
			contentType:    req.Header.Get(echo.HeaderContentType),
			idempotencyKey: req.Header.Get("Idempotency-Key"),
			body:           string(body),
		})
		b.lock.Unlock()
		return next(c)
	}
}

func requireBearer(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		switch c.Request().Header.Get(echo.HeaderAuthorization) {
		case "Bearer ADMIN", "Bearer CUSTOMER":
			return next(c)
		}
		return c.JSON(http.StatusUnauthorized, map[string]string{"status": "error", "message": "Unauthorized"})
	}
}

func setupTestBackend(t *testing.T) *testBackend {
	backend := &testBackend{}
	e := echo.New()
	e.Use(backend.record)
	e.GET("/movies", func(c echo.Context) error {
		return c.JSONBlob(http.StatusOK, []byte(`{"status":"success","data":[{"id":1,"title":"Dune"}]}`))
	})
	e.GET("/movies/:id", func(c echo.Context) error {
		if c.Param("id") != "1" {
			return c.JSON(http.StatusNotFound, map[string]string{"status": "error", "message": "Movie not found"})
		}
		return c.JSONBlob(http.StatusOK, []byte(`{"status":"success","data":{"id":1,"title":"Dune","poster_url":"/p/1.jpg"}}`))
	})
	e.GET("/movies/:id/showtimes", func(c echo.Context) error {
		if c.Param("id") != "1" {
			return c.JSON(http.StatusNotFound, map[string]string{"status": "error", "message": "Movie not found"})
		}
		return c.JSONBlob(http.StatusOK, []byte(`{"status":"success","data":[{"id":12,"movieId":1,"showDate":"2024-05-01","startTime":"19:30"}]}`))
	})
	e.POST("/movies", func(c echo.Context) error {
		return c.JSONBlob(http.StatusCreated, []byte(`{"status":"success","data":{"id":99,"title":"New"}}`))
	}, requireBearer)
	e.DELETE("/rooms/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, requireBearer)
	e.GET("/genres", func(c echo.Context) error {
		return c.Blob(http.StatusOK, "text/plain; charset=utf-8", []byte("lang="+c.QueryParam("lang")))
	})
	e.GET("/users/profile", func(c echo.Context) error {
		roleID := "2"
		if c.Request().Header.Get(echo.HeaderAuthorization) == "Bearer ADMIN" {
			roleID = "1"
		}
		return c.JSONBlob(http.StatusOK, []byte(`{"status":"success","data":{"id":7,"email":"x@example.com","role_id":`+roleID+`}}`))
	}, requireBearer)
	e.POST("/auth/refresh", func(c echo.Context) error {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "refresh token revoked"})
	})
	e.GET("/bookings/me", func(c echo.Context) error {
		return c.JSONBlob(http.StatusOK, []byte(`{"status":"success","data":[]}`))
	}, requireBearer)
	e.GET("/bookings/showtimes/:id/seats", func(c echo.Context) error {
		return c.JSONBlob(http.StatusOK, []byte(`{"status":"success","data":{
			"showtime": {"id": 12, "startTime": "19:30"},
			"room": {"id": 3, "name": "Room 3"},
			"seats": [
				{"row": "B", "seats": [{"id": 21, "seatNumber": 1, "status": "booked"}]},
				{"row": "A", "seats": [{"id": 11, "seatNumber": 1, "status": "active"}, {"id": 12, "seatNumber": 2, "status": "active"}]}
			]
		}}`))
	})
	e.POST("/payments/zalopay/orders", func(c echo.Context) error {
		return c.JSONBlob(http.StatusOK, []byte(`{"status":"success","data":{"order_url":"https://pay.example.com/abc"}}`))
	}, requireBearer)
	backend.Server = httptest.NewServer(e)
	t.Cleanup(backend.Close)
	return backend
}
