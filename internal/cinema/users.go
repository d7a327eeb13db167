package cinema

import (
	"context"

	"github.com/cinebook/booking-gateway/internal/apiclient"
	"github.com/cinebook/booking-gateway/internal/models"
)

type UserService struct {
	client *apiclient.Client
}

func (s *UserService) Register(ctx context.Context, registration Registration) (Profile, error) {
	return post[Profile](ctx, s.client, "/users/register", registration)
}

func (s *UserService) Profile(ctx context.Context) (Profile, error) {
	return get[Profile](ctx, s.client, "/users/profile")
}

func (s *UserService) Get(ctx context.Context, id models.FlexibleID) (Profile, error) {
	return get[Profile](ctx, s.client, "/users/"+pathID(id))
}
