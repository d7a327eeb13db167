package cinema

import (
	"encoding/json"

	"github.com/cinebook/booking-gateway/internal/models"
)

type Genre struct {
	ID   models.FlexibleID `json:"genre_id"`
	Name string            `json:"name"`
}

type Movie struct {
	ID          models.FlexibleID `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Duration    json.Number       `json:"duration,omitempty"`
	ReleaseDate string            `json:"releaseDate,omitempty"`
	Director    string            `json:"director,omitempty"`
	Cast        string            `json:"cast,omitempty"`
	Language    string            `json:"language,omitempty"`
	Subtitle    string            `json:"subtitle,omitempty"`
	PosterURL   string            `json:"posterUrl,omitempty"`
}

// UnmarshalJSON accepts the different names the backend uses for the poster
func (m *Movie) UnmarshalJSON(data []byte) error {
	type plain Movie
	var payload struct {
		plain
		Poster       string `json:"poster"`
		PosterURLOld string `json:"poster_url"`
		ReleaseOld   string `json:"release_date"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	*m = Movie(payload.plain)
	if m.PosterURL == "" {
		m.PosterURL = payload.Poster
	}
	if m.PosterURL == "" {
		m.PosterURL = payload.PosterURLOld
	}
	if m.ReleaseDate == "" {
		m.ReleaseDate = payload.ReleaseOld
	}
	return nil
}

type MovieInput struct {
	Title       string
	Description string
	Duration    int
	ReleaseDate string
	Director    string
	Cast        string
	Language    string
	Subtitle    string
	GenreIDs    []string
}

type Showtime struct {
	ID        models.FlexibleID `json:"id"`
	MovieID   models.FlexibleID `json:"movieId,omitempty"`
	RoomID    models.FlexibleID `json:"roomId,omitempty"`
	ShowDate  string            `json:"showDate"`
	StartTime string            `json:"startTime"`
	EndTime   string            `json:"endTime,omitempty"`
	BasePrice json.Number       `json:"basePrice,omitempty"`
}

type ShowtimeInput struct {
	RoomID    models.FlexibleID `json:"roomId"`
	ShowDate  string            `json:"showDate"`
	StartTime string            `json:"startTime"`
	BasePrice json.Number       `json:"basePrice,omitempty"`
}

type Room struct {
	ID       models.FlexibleID `json:"id"`
	Name     string            `json:"name"`
	Type     string            `json:"type,omitempty"`
	Capacity int               `json:"capacity,omitempty"`
}

type Profile struct {
	ID       models.FlexibleID `json:"id"`
	Email    string            `json:"email"`
	FullName string            `json:"full_name"`
	Phone    string            `json:"phone,omitempty"`
	RoleID   models.FlexibleID `json:"role_id,omitempty"`
}

type Registration struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone,omitempty"`
}
