package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/app"
)

const userIDHeader = "X-User-ID"

// SeatReserver is the minimal interface needed to claim and cancel seats.
type SeatReserver interface {
	ClaimSeat(ctx context.Context, in app.ClaimSeatInput) (app.ClaimSeatResult, error)
	CancelSeat(ctx context.Context, in app.CancelSeatInput) (app.CancelSeatResult, error)
}

// HandleClaimSeat returns an HTTP handler that reserves one seat for a user.
func HandleClaimSeat(svc SeatReserver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req claimSeatRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.UserID == "" || req.EventID == "" || req.Row == nil || req.Column == nil {
			writeError(w, http.StatusBadRequest, codeMissingRequiredField, "user_id, event_id, row and column are required")
			return
		}

		res, err := svc.ClaimSeat(r.Context(), app.ClaimSeatInput{
			UserID:  req.UserID,
			EventID: req.EventID,
			Row:     *req.Row,
			Column:  *req.Column,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, claimSeatResponse{
			ReservationID: res.ReservationID,
			TicketID:      res.Ticket.ID,
			Seat:          toSeatResponse(res.Seat),
		})
	}
}

// HandleCancelReservation returns an HTTP handler that frees a seat. Cancelling a seat that is
// already free succeeds with status not_reserved.
func HandleCancelReservation(svc SeatReserver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(userIDHeader))
		if userID == "" {
			writeError(w, http.StatusBadRequest, codeMissingUserID, userIDHeader+" header required")
			return
		}

		res, err := svc.CancelSeat(r.Context(), app.CancelSeatInput{
			SeatID:      r.PathValue("id"),
			RequestedBy: userID,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, cancelReservationResponse{
			Status:        string(res.Outcome),
			ReservationID: res.ReservationID,
			Seat:          toSeatResponse(res.Seat),
		})
	}
}

// claimSeatRequest accepts the payment fields the booking form sends; they are not processed.
type claimSeatRequest struct {
	UserID     string `json:"user_id"`
	EventID    string `json:"event_id"`
	Row        *int   `json:"row"`
	Column     *int   `json:"column"`
	CardNumber string `json:"card_number,omitempty"`
	PinNumber  string `json:"pin_number,omitempty"`
}

type claimSeatResponse struct {
	ReservationID string       `json:"reservation_id"`
	TicketID      string       `json:"ticket_id"`
	Seat          seatResponse `json:"seat"`
}

type cancelReservationResponse struct {
	Status        string       `json:"status"`
	ReservationID string       `json:"reservation_id,omitempty"`
	Seat          seatResponse `json:"seat"`
}
