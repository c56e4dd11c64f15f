package http

import (
	"context"
	"net/http"
	"time"

	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/app"
	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/domain"
)

// EventScheduler is the minimal interface needed to create and edit matches.
type EventScheduler interface {
	CreateEvent(ctx context.Context, in app.CreateEventInput) (domain.Event, error)
	EditEvent(ctx context.Context, in app.EditEventInput) (domain.Event, error)
}

// EventReader is the minimal interface needed to read matches and their seats.
type EventReader interface {
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
	ListSeats(ctx context.Context, eventID string) ([]domain.Seat, error)
	SeatLayout(ctx context.Context, eventID string) ([][]domain.LayoutCell, error)
}

// HandleCreateEvent returns an HTTP handler for scheduling a match.
func HandleCreateEvent(svc EventScheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createEventRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		event, err := svc.CreateEvent(r.Context(), app.CreateEventInput{
			HomeTeamID:       req.HomeTeamID,
			AwayTeamID:       req.AwayTeamID,
			VenueID:          req.VenueID,
			Date:             req.Date,
			Time:             req.Time,
			MainRefereeID:    req.MainRefereeID,
			FirstLinesmanID:  req.FirstLinesmanID,
			SecondLinesmanID: req.SecondLinesmanID,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, toEventResponse(event))
	}
}

// HandleEditEvent returns an HTTP handler for partially updating a match. Omitted or empty
// fields keep their current value.
func HandleEditEvent(svc EventScheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req editEventRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		event, err := svc.EditEvent(r.Context(), app.EditEventInput{
			EventID:          r.PathValue("id"),
			HomeTeamID:       req.HomeTeamID,
			AwayTeamID:       req.AwayTeamID,
			VenueID:          req.VenueID,
			Date:             req.Date,
			Time:             req.Time,
			MainRefereeID:    req.MainRefereeID,
			FirstLinesmanID:  req.FirstLinesmanID,
			SecondLinesmanID: req.SecondLinesmanID,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toEventResponse(event))
	}
}

func HandleGetEvent(svc EventReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event, err := svc.GetEvent(r.Context(), r.PathValue("id"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toEventResponse(event))
	}
}

func HandleListEvents(svc EventReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := svc.ListEvents(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		resp := make([]eventResponse, 0, len(events))
		for _, e := range events {
			resp = append(resp, toEventResponse(e))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func HandleListSeats(svc EventReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seats, err := svc.ListSeats(r.Context(), r.PathValue("id"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		resp := make([]seatResponse, 0, len(seats))
		for _, s := range seats {
			resp = append(resp, toSeatResponse(s))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// HandleSeatLayout returns the seat matrix of a match. Each cell is null for a free seat, the
// reservation id for a taken one and false where no seat exists.
func HandleSeatLayout(svc EventReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		layout, err := svc.SeatLayout(r.Context(), r.PathValue("id"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, encodeLayout(layout))
	}
}

func encodeLayout(layout [][]domain.LayoutCell) [][]any {
	out := make([][]any, len(layout))
	for i, row := range layout {
		cells := make([]any, len(row))
		for j, cell := range row {
			switch {
			case !cell.Exists:
				cells[j] = false
			case cell.ReservationID == "":
				cells[j] = nil
			default:
				cells[j] = cell.ReservationID
			}
		}
		out[i] = cells
	}
	return out
}

type createEventRequest struct {
	HomeTeamID       string `json:"home_team_id"`
	AwayTeamID       string `json:"away_team_id"`
	VenueID          string `json:"venue_id"`
	Date             string `json:"date"`
	Time             string `json:"time"`
	MainRefereeID    string `json:"main_referee_id"`
	FirstLinesmanID  string `json:"first_linesman_id"`
	SecondLinesmanID string `json:"second_linesman_id"`
}

type editEventRequest struct {
	HomeTeamID       *string `json:"home_team_id"`
	AwayTeamID       *string `json:"away_team_id"`
	VenueID          *string `json:"venue_id"`
	Date             *string `json:"date"`
	Time             *string `json:"time"`
	MainRefereeID    *string `json:"main_referee_id"`
	FirstLinesmanID  *string `json:"first_linesman_id"`
	SecondLinesmanID *string `json:"second_linesman_id"`
}

type eventResponse struct {
	ID               string    `json:"id"`
	HomeTeamID       string    `json:"home_team_id"`
	AwayTeamID       string    `json:"away_team_id"`
	VenueID          string    `json:"venue_id"`
	Date             string    `json:"date"`
	Time             string    `json:"time"`
	StartsAt         time.Time `json:"starts_at"`
	MainRefereeID    string    `json:"main_referee_id,omitempty"`
	FirstLinesmanID  string    `json:"first_linesman_id,omitempty"`
	SecondLinesmanID string    `json:"second_linesman_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

func toEventResponse(e domain.Event) eventResponse {
	return eventResponse{
		ID:               e.ID,
		HomeTeamID:       e.HomeTeamID,
		AwayTeamID:       e.AwayTeamID,
		VenueID:          e.VenueID,
		Date:             e.Date,
		Time:             e.Time,
		StartsAt:         e.StartsAt,
		MainRefereeID:    e.MainRefereeID,
		FirstLinesmanID:  e.FirstLinesmanID,
		SecondLinesmanID: e.SecondLinesmanID,
		CreatedAt:        e.CreatedAt,
	}
}

type seatResponse struct {
	ID            string `json:"id"`
	EventID       string `json:"event_id"`
	Row           int    `json:"row"`
	Column        int    `json:"column"`
	ReservationID string `json:"reservation_id,omitempty"`
}

func toSeatResponse(s domain.Seat) seatResponse {
	return seatResponse{
		ID:            s.ID,
		EventID:       s.EventID,
		Row:           s.Row,
		Column:        s.Column,
		ReservationID: s.ReservationID,
	}
}
