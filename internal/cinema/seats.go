package cinema

import (
	"encoding/json"

	"github.com/cinebook/booking-gateway/internal/models"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const SeatStatusActive = "active"

type Seat struct {
	ID         models.FlexibleID `json:"id"`
	SeatNumber models.FlexibleID `json:"seatNumber"`
	Type       string            `json:"type"`
	Status     string            `json:"status"`
	Price      json.Number       `json:"price,omitempty"`
	Row        string            `json:"row"`
}

// Selectable reports whether the seat can be picked. Holds and bookings are owned by the backend.
func (s Seat) Selectable() bool {
	return s.Status == SeatStatusActive
}

func (s Seat) Label() string {
	return s.Row + s.SeatNumber.String()
}

// SeatMap is the seating of one showtime. Rows keep the order the backend sent them in.
type SeatMap struct {
	Showtime Showtime                                `json:"showtime"`
	Room     Room                                    `json:"room"`
	Rows     *orderedmap.OrderedMap[string, []Seat] `json:"rows"`
}

type seatRow struct {
	Row   string `json:"row"`
	Seats []Seat `json:"seats"`
}

type seatMapPayload struct {
	Showtime Showtime  `json:"showtime"`
	Room     Room      `json:"room"`
	Seats    []seatRow `json:"seats"`
}

func (p seatMapPayload) seatMap() SeatMap {
	rows := orderedmap.New[string, []Seat]()
	for _, row := range p.Seats {
		seats := make([]Seat, 0, len(row.Seats))
		for _, seat := range row.Seats {
			seat.Row = row.Row
			seats = append(seats, seat)
		}
		if existing, found := rows.Get(row.Row); found {
			seats = append(existing, seats...)
		}
		rows.Set(row.Row, seats)
	}
	return SeatMap{Showtime: p.Showtime, Room: p.Room, Rows: rows}
}

// Seat finds a seat by its ID
func (m SeatMap) Seat(id models.FlexibleID) (Seat, bool) {
	for pair := m.Rows.Oldest(); pair != nil; pair = pair.Next() {
		for _, seat := range pair.Value {
			if seat.ID == id {
				return seat, true
			}
		}
	}
	return Seat{}, false
}

func (m SeatMap) RowNames() []string {
	output := make([]string, 0, m.Rows.Len())
	for pair := m.Rows.Oldest(); pair != nil; pair = pair.Next() {
		output = append(output, pair.Key)
	}
	return output
}

func (m SeatMap) SelectableCount() int {
	count := 0
	for pair := m.Rows.Oldest(); pair != nil; pair = pair.Next() {
		for _, seat := range pair.Value {
			if seat.Selectable() {
				count++
			}
		}
	}
	return count
}
