package cinema

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"

	"github.com/cinebook/booking-gateway/internal/apiclient"
	"github.com/cinebook/booking-gateway/internal/models"
)

type MovieService struct {
	client *apiclient.Client
}

func (s *MovieService) List(ctx context.Context) ([]Movie, error) {
	return get[[]Movie](ctx, s.client, "/movies")
}

func (s *MovieService) Get(ctx context.Context, id models.FlexibleID) (Movie, error) {
	return get[Movie](ctx, s.client, "/movies/"+pathID(id))
}

func (s *MovieService) Showtimes(ctx context.Context, movieID models.FlexibleID) ([]Showtime, error) {
	return get[[]Showtime](ctx, s.client, "/movies/"+pathID(movieID)+"/showtimes")
}

func (s *MovieService) Genres(ctx context.Context) ([]Genre, error) {
	return get[[]Genre](ctx, s.client, "/genres")
}

// Poster is an image uploaded together with a new movie
type Poster struct {
	Filename string
	Content  io.Reader
}

// Create uploads a new movie as a multipart form, the poster is optional
func (s *MovieService) Create(ctx context.Context, input MovieInput, poster *Poster) (Movie, error) {
	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	fields := [][2]string{
		{"title", input.Title},
		{"description", input.Description},
		{"duration", strconv.Itoa(input.Duration)},
		{"releaseDate", input.ReleaseDate},
		{"director", input.Director},
		{"cast", input.Cast},
		{"language", input.Language},
		{"subtitle", input.Subtitle},
	}
	for _, field := range fields {
		if err := form.WriteField(field[0], field[1]); err != nil {
			return Movie{}, err
		}
	}
	for _, genreID := range input.GenreIDs {
		if err := form.WriteField("genreIds[]", genreID); err != nil {
			return Movie{}, err
		}
	}
	if poster != nil {
		part, err := form.CreateFormFile("poster", poster.Filename)
		if err != nil {
			return Movie{}, err
		}
		if _, err := io.Copy(part, poster.Content); err != nil {
			return Movie{}, fmt.Errorf("cannot read the poster: %w", err)
		}
	}
	if err := form.Close(); err != nil {
		return Movie{}, err
	}
	return post[Movie](ctx, s.client, "/movies", nil, apiclient.WithRawBody(form.FormDataContentType(), body.Bytes()))
}
