package revproxy

import (
	"net/http"

	"github.com/cinebook/booking-gateway/internal/cinema"
	"github.com/cinebook/booking-gateway/internal/models"
	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
)

type movieBookingView struct {
	Movie     cinema.Movie      `json:"movie"`
	Showtimes []cinema.Showtime `json:"showtimes"`
}

// GetMovieBooking answers with a movie and its showtimes, both fetched at the same time
func (r *Revproxy) GetMovieBooking(c echo.Context) error {
	handle, _, err := r.handle(c)
	if err != nil {
		return err
	}
	movieID := models.FlexibleID(c.Param("id"))
	var view movieBookingView
	g, ctx := errgroup.WithContext(c.Request().Context())
	g.Go(func() error {
		movie, err := handle.Services.Movies.Get(ctx, movieID)
		view.Movie = movie
		return err
	})
	g.Go(func() error {
		showtimes, err := handle.Services.Movies.Showtimes(ctx, movieID)
		view.Showtimes = showtimes
		return err
	})
	if err := g.Wait(); err != nil {
		return r.respondWithError(c, handle, err)
	}
	if view.Showtimes == nil {
		view.Showtimes = []cinema.Showtime{}
	}
	return c.JSON(http.StatusOK, view)
}

type seatView struct {
	cinema.Seat
	Label      string `json:"label"`
	Selectable bool   `json:"selectable"`
}

type seatRowView struct {
	Row   string     `json:"row"`
	Seats []seatView `json:"seats"`
}

type seatMapView struct {
	Showtime        cinema.Showtime `json:"showtime"`
	Room            cinema.Room     `json:"room"`
	Rows            []seatRowView   `json:"rows"`
	SelectableCount int             `json:"selectableCount"`
}

// GetShowtimeSeats answers with the seat map of a showtime, rows in backend order
func (r *Revproxy) GetShowtimeSeats(c echo.Context) error {
	handle, _, err := r.handle(c)
	if err != nil {
		return err
	}
	seatMap, err := handle.Services.Bookings.SeatMap(c.Request().Context(), models.FlexibleID(c.Param("id")))
	if err != nil {
		return r.respondWithError(c, handle, err)
	}
	view := seatMapView{
		Showtime:        seatMap.Showtime,
		Room:            seatMap.Room,
		Rows:            make([]seatRowView, 0, seatMap.Rows.Len()),
		SelectableCount: seatMap.SelectableCount(),
	}
	for pair := seatMap.Rows.Oldest(); pair != nil; pair = pair.Next() {
		row := seatRowView{Row: pair.Key, Seats: make([]seatView, 0, len(pair.Value))}
		for _, seat := range pair.Value {
			row.Seats = append(row.Seats, seatView{Seat: seat, Label: seat.Label(), Selectable: seat.Selectable()})
		}
		view.Rows = append(view.Rows, row)
	}
	return c.JSON(http.StatusOK, view)
}
