package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/domain"
)

const (
	codeNotFound             = "not_found"
	codeInvalidRequestBody   = "invalid_request_body"
	codeMissingRequiredField = "missing_required_field"
	codeMissingUserID        = "missing_user_id"
	codeForbidden            = "forbidden"
	codeUnavailable          = "unavailable"
	codeInternalError        = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type errorMapping struct {
	target error
	status int
	code   string
}

// serviceErrors is matched in order with errors.Is; the first hit wins.
var serviceErrors = []errorMapping{
	{domain.ErrInvalidID, http.StatusBadRequest, "invalid_id"},
	{domain.ErrInvalidEvent, http.StatusBadRequest, "invalid_event"},
	{domain.ErrSameTeams, http.StatusBadRequest, "same_teams"},
	{domain.ErrDuplicateOfficial, http.StatusBadRequest, "duplicate_official"},
	{domain.ErrInvalidTimestamp, http.StatusBadRequest, "invalid_timestamp"},
	{domain.ErrPastStartTime, http.StatusBadRequest, "past_start_time"},
	{domain.ErrInvalidDimensions, http.StatusBadRequest, "invalid_dimensions"},
	{domain.ErrNameRequired, http.StatusBadRequest, "name_required"},
	{domain.ErrEventNotFound, http.StatusNotFound, "event_not_found"},
	{domain.ErrSeatNotFound, http.StatusNotFound, "seat_not_found"},
	{domain.ErrVenueNotFound, http.StatusNotFound, "venue_not_found"},
	{domain.ErrTeamNotFound, http.StatusNotFound, "team_not_found"},
	{domain.ErrOfficialNotFound, http.StatusNotFound, "official_not_found"},
	{domain.ErrScheduleConflict, http.StatusConflict, "schedule_conflict"},
	{domain.ErrUserScheduleConflict, http.StatusConflict, "user_schedule_conflict"},
	{domain.ErrSeatAlreadyReserved, http.StatusConflict, "seat_already_reserved"},
	{domain.ErrVenueTooSmall, http.StatusConflict, "venue_too_small"},
	{domain.ErrShrinkNotAllowed, http.StatusConflict, "shrink_not_allowed"},
	{domain.ErrTeamAlreadyExists, http.StatusConflict, "team_already_exists"},
	{domain.ErrTeamLimitReached, http.StatusConflict, "team_limit_reached"},
	{domain.ErrReservationIDTaken, http.StatusConflict, "reservation_id_taken"},
	{domain.ErrTicketNotFound, http.StatusConflict, "ticket_not_found"},
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeServiceError translates a service error into its HTTP status and code. Anything not in
// serviceErrors is logged and reported as a bare 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	for _, m := range serviceErrors {
		if errors.Is(err, m.target) {
			writeError(w, m.status, m.code, m.target.Error())
			return
		}
	}
	slog.ErrorContext(r.Context(), "request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads a single JSON object and rejects unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return false
	}
	return true
}
