package cinema

import (
	"context"

	"github.com/cinebook/booking-gateway/internal/apiclient"
	"github.com/cinebook/booking-gateway/internal/models"
)

type ShowtimeService struct {
	client *apiclient.Client
}

func (s *ShowtimeService) Create(ctx context.Context, movieID models.FlexibleID, input ShowtimeInput) (Showtime, error) {
	return post[Showtime](ctx, s.client, "/showtimes/movies/"+pathID(movieID), input)
}

type RoomService struct {
	client *apiclient.Client
}

func (s *RoomService) List(ctx context.Context) ([]Room, error) {
	return get[[]Room](ctx, s.client, "/rooms")
}
