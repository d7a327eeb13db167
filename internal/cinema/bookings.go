package cinema

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cinebook/booking-gateway/internal/apiclient"
	"github.com/cinebook/booking-gateway/internal/models"
)

type BookingService struct {
	client *apiclient.Client
}

type BookingRequest struct {
	ShowtimeID models.FlexibleID   `json:"showtimeId"`
	SeatIDs    []models.FlexibleID `json:"seatIds"`
}

type ConfirmationSeat struct {
	SeatID     models.FlexibleID `json:"seatId"`
	RowName    string            `json:"rowName"`
	SeatNumber models.FlexibleID `json:"seatNumber"`
	Price      json.Number       `json:"price,omitempty"`
}

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Confirmation is the priced summary the backend computes before payment
type Confirmation struct {
	ID          models.FlexibleID  `json:"id"`
	Movie       Movie              `json:"movie"`
	Showtime    Showtime           `json:"showtime"`
	Room        Room               `json:"room"`
	Customer    Customer           `json:"customer"`
	Seats       []ConfirmationSeat `json:"seats"`
	BasePrice   json.Number        `json:"basePrice,omitempty"`
	TotalAmount json.Number        `json:"totalAmount,omitempty"`
}

type TicketSeat struct {
	SeatID     models.FlexibleID `json:"seat_id"`
	Row        string            `json:"row"`
	SeatNumber models.FlexibleID `json:"seat_number"`
	TicketCode string            `json:"ticket_code,omitempty"`
}

func (s TicketSeat) Label() string {
	return s.Row + s.SeatNumber.String()
}

type TicketShowtime struct {
	ShowDate  string `json:"show_date"`
	StartTime string `json:"start_time"`
	Room      Room   `json:"room"`
}

// Ticket is one booking of the current user
type Ticket struct {
	BookingID   models.FlexibleID `json:"booking_id"`
	BookingCode string            `json:"booking_code"`
	BookingDate string            `json:"booking_date"`
	Movie       Movie             `json:"movie"`
	Showtime    TicketShowtime    `json:"showtime"`
	Seats       []TicketSeat      `json:"seats"`
	TotalAmount json.Number       `json:"total_amount,omitempty"`
}

func (s *BookingService) SeatMap(ctx context.Context, showtimeID models.FlexibleID) (SeatMap, error) {
	if showtimeID == "" {
		return SeatMap{}, fmt.Errorf("a showtime ID is required")
	}
	payload, err := get[seatMapPayload](ctx, s.client, "/bookings/showtimes/"+pathID(showtimeID)+"/seats")
	if err != nil {
		return SeatMap{}, err
	}
	return payload.seatMap(), nil
}

// Book submits the seat selection, the raw backend answer is returned since its shape is owned by the backend
func (s *BookingService) Book(ctx context.Context, request BookingRequest) (json.RawMessage, error) {
	return post[json.RawMessage](ctx, s.client, "/bookings", request)
}

func (s *BookingService) Confirmation(ctx context.Context, showtimeID models.FlexibleID, seatIDs []models.FlexibleID) (Confirmation, error) {
	if len(seatIDs) == 0 {
		return Confirmation{}, fmt.Errorf("at least one seat is required")
	}
	payload, err := post[struct {
		Confirmation Confirmation `json:"confirmation"`
	}](ctx, s.client, "/bookings/confirmation", BookingRequest{ShowtimeID: showtimeID, SeatIDs: seatIDs})
	if err != nil {
		return Confirmation{}, err
	}
	return payload.Confirmation, nil
}

func (s *BookingService) Mine(ctx context.Context) ([]Ticket, error) {
	return get[[]Ticket](ctx, s.client, "/bookings/me")
}
