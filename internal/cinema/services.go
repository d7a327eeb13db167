// Package cinema wraps the endpoints of the cinema backend in typed calls. Pricing, seat locking
// and payment settlement stay on the backend, this package only moves their data around.
package cinema

import (
	"context"
	"fmt"
	"net/url"

	"github.com/cinebook/booking-gateway/internal/apiclient"
	"github.com/cinebook/booking-gateway/internal/models"
)

type Services struct {
	Movies    *MovieService
	Showtimes *ShowtimeService
	Rooms     *RoomService
	Bookings  *BookingService
	Payments  *PaymentService
	Users     *UserService
}

func NewServices(client *apiclient.Client) (*Services, error) {
	if client == nil {
		return nil, fmt.Errorf("the API client is not initialized")
	}
	return &Services{
		Movies:    &MovieService{client},
		Showtimes: &ShowtimeService{client},
		Rooms:     &RoomService{client},
		Bookings:  &BookingService{client},
		Payments:  &PaymentService{client},
		Users:     &UserService{client},
	}, nil
}

func get[T any](ctx context.Context, client *apiclient.Client, path string) (T, error) {
	var output T
	resp, err := client.Get(ctx, path)
	if err != nil {
		return output, err
	}
	err = resp.DecodeData(&output)
	return output, err
}

func post[T any](ctx context.Context, client *apiclient.Client, path string, body any, opts ...apiclient.RequestOption) (T, error) {
	var output T
	resp, err := client.Post(ctx, path, body, opts...)
	if err != nil {
		return output, err
	}
	err = resp.DecodeData(&output)
	return output, err
}

func pathID(id models.FlexibleID) string {
	return url.PathEscape(id.String())
}
