package cinema

import (
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cinebook/booking-gateway/internal/apiclient"
	"github.com/cinebook/booking-gateway/internal/models"
	"github.com/cinebook/booking-gateway/internal/tokenstore"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

const seatMapResponse = `{
  "status": "success",
  "data": {
    "showtime": {"id": 12, "showDate": "2024-05-01", "startTime": "19:30", "basePrice": "85000"},
    "room": {"id": 3, "name": "Room 3"},
    "seats": [
      {"row": "C", "seats": [{"id": 31, "seatNumber": 1, "type": "Couple", "status": "active"}]},
      {"row": "A", "seats": [
        {"id": 11, "seatNumber": 1, "type": "Standard", "status": "active", "price": 85000},
        {"id": 12, "seatNumber": 2, "type": "Standard", "status": "booked"}
      ]},
      {"row": "B", "seats": [{"id": 21, "seatNumber": "1", "type": "VIP", "status": "pending"}]}
    ]
  }
}`

// testCinemaBackend records the last request so tests can check what was sent
type testCinemaBackend struct {
	*httptest.Server
	lastBody        string
	lastHeader      http.Header
	lastContentType string
	uploadedFields  map[string][]string
	uploadedPoster  string
}

func (b *testCinemaBackend) record(c echo.Context) {
	body, _ := io.ReadAll(c.Request().Body)
	b.lastBody = string(body)
	b.lastHeader = c.Request().Header.Clone()
	b.lastContentType = c.Request().Header.Get(echo.HeaderContentType)
}

func (b *testCinemaBackend) createMovie(c echo.Context) error {
	_, params, err := mime.ParseMediaType(c.Request().Header.Get(echo.HeaderContentType))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	}
	reader := multipart.NewReader(c.Request().Body, params["boundary"])
	form, err := reader.ReadForm(1 << 20)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	}
	b.uploadedFields = form.Value
	if files := form.File["poster"]; len(files) == 1 {
		f, err := files[0].Open()
		if err != nil {
			return err
		}
		defer f.Close()
		raw, _ := io.ReadAll(f)
		b.uploadedPoster = files[0].Filename + ":" + string(raw)
	}
	return c.JSONBlob(http.StatusCreated, []byte(`{"status":"success","data":{"id":99,"title":"`+form.Value["title"][0]+`","poster_url":"/posters/99.jpg"}}`))
}

func setupTestCinemaBackend(t *testing.T) *testCinemaBackend {
	backend := &testCinemaBackend{}
	e := echo.New()
	e.GET("/movies", func(c echo.Context) error {
		return c.JSONBlob(http.StatusOK, []byte(`{"status":"success","data":[{"id":1,"title":"Dune","poster":"/p/1.jpg","duration":155},{"id":"2","title":"Mai","duration":"131"}]}`))
	})
	e.GET("/movies/:id", func(c echo.Context) error {
		if c.Param("id") != "1" {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Movie not found"})
		}
		return c.JSONBlob(http.StatusOK, []byte(`{"id":1,"title":"Dune","posterUrl":"/p/1.jpg","release_date":"2024-03-01"}`))
	})
	e.GET("/movies/:id/showtimes", func(c echo.Context) error {
		return c.JSONBlob(http.StatusOK, []byte(`{"data":[{"id":12,"movieId":1,"roomId":3,"showDate":"2024-05-01","startTime":"19:30"}]}`))
	})
	e.GET("/genres", func(c echo.Context) error {
		return c.JSONBlob(http.StatusOK, []byte(`[{"genre_id":1,"name":"Sci-Fi"},{"genre_id":2,"name":"Drama"}]`))
	})
	e.POST("/movies", backend.createMovie)
	e.POST("/showtimes/movies/:id", func(c echo.Context) error {
		backend.record(c)
		return c.JSONBlob(http.StatusCreated, []byte(`{"status":"success","data":{"id":40,"movieId":`+c.Param("id")+`,"roomId":3,"showDate":"2024-06-01","startTime":"20:00"}}`))
	})
	e.GET("/rooms", func(c echo.Context) error {
		return c.JSONBlob(http.StatusOK, []byte(`{"status":"success","data":[{"id":3,"name":"Room 3","capacity":120}]}`))
	})
	e.GET("/bookings/showtimes/:id/seats", func(c echo.Context) error {
		return c.JSONBlob(http.StatusOK, []byte(seatMapResponse))
	})
	e.POST("/bookings", func(c echo.Context) error {
		backend.record(c)
		return c.JSONBlob(http.StatusCreated, []byte(`{"status":"success","data":{"bookingId":501}}`))
	})
	e.POST("/bookings/confirmation", func(c echo.Context) error {
		backend.record(c)
		return c.JSONBlob(http.StatusOK, []byte(`{"status":"success","data":{"confirmation":{
			"id": 501,
			"movie": {"title": "Dune", "posterUrl": "/p/1.jpg"},
			"showtime": {"startTime": "19:30", "showDate": "2024-05-01"},
			"room": {"name": "Room 3"},
			"customer": {"name": "Lan", "email": "lan@example.com"},
			"seats": [{"seatId": 11, "rowName": "A", "seatNumber": 1, "price": 85000}],
			"basePrice": 85000,
			"totalAmount": 85000
		}}}`))
	})
	e.GET("/bookings/me", func(c echo.Context) error {
		return c.JSONBlob(http.StatusOK, []byte(`{"status":"success","data":[{
			"booking_id": 501, "booking_code": "BK501", "booking_date": "2024-04-30",
			"movie": {"title": "Dune", "poster_url": "/p/1.jpg"},
			"showtime": {"show_date": "2024-05-01", "start_time": "19:30", "room": {"name": "Room 3"}},
			"seats": [{"seat_id": 11, "row": "A", "seat_number": 1, "ticket_code": "T-1"}],
			"total_amount": "85000.00"
		}]}`))
	})
	e.POST("/payments/zalopay/orders", func(c echo.Context) error {
		backend.record(c)
		if strings.Contains(backend.lastBody, `"bookingId":404`) {
			return c.JSONBlob(http.StatusOK, []byte(`{"status":"success","data":{}}`))
		}
		return c.JSONBlob(http.StatusOK, []byte(`{"status":"success","data":{"order_url":"https://sb-openapi.zalopay.vn/v2/pay?order=abc","app_trans_id":"240501_501"}}`))
	})
	e.GET("/payments/zalopay/status/:id", func(c echo.Context) error {
		codes := map[string]string{"501": "1", "502": "0", "503": "3"}
		return c.JSONBlob(http.StatusOK, []byte(`{"status":"success","data":{"return_code":`+codes[c.Param("id")]+`,"return_message":"done"}}`))
	})
	e.POST("/users/register", func(c echo.Context) error {
		backend.record(c)
		if strings.Contains(backend.lastBody, "taken@example.com") {
			return c.JSON(http.StatusConflict, map[string]string{"status": "error", "message": "Email already exists"})
		}
		return c.JSONBlob(http.StatusCreated, []byte(`{"status":"success","data":{"id":8,"email":"new@example.com","full_name":"New User"}}`))
	})
	e.GET("/users/profile", func(c echo.Context) error {
		return c.JSONBlob(http.StatusOK, []byte(`{"id":42,"email":"lan@example.com","full_name":"Lan Nguyen","role_id":2}`))
	})
	e.GET("/users/:id", func(c echo.Context) error {
		return c.JSONBlob(http.StatusOK, []byte(`{"data":{"id":`+c.Param("id")+`,"email":"x@example.com"}}`))
	})
	backend.Server = httptest.NewServer(e)
	t.Cleanup(backend.Close)
	return backend
}

func setupTestServices(t *testing.T) (*Services, *testCinemaBackend) {
	backend := setupTestCinemaBackend(t)
	store := tokenstore.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), models.TokenPair{Access: "A1", Refresh: "R1"}))
	client, err := apiclient.NewClient(apiclient.WithBaseURL(backend.URL), apiclient.WithTokenStore(store))
	require.NoError(t, err)
	services, err := NewServices(client)
	require.NoError(t, err)
	return services, backend
}
