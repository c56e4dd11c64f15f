package http

import (
	"log/slog"
	"net/http"
)

// EventService covers every event route.
type EventService interface {
	EventScheduler
	EventReader
}

// Services groups the application services the router dispatches to.
type Services struct {
	Events       EventService
	Reservations SeatReserver
	Catalog      CatalogManager
	Store        Pinger
}

// NewRouter wires every route and wraps the mux with CORS and request logging.
func NewRouter(svc Services, allowedOrigins []string, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /health", HealthHandler(svc.Store))

	mux.Handle("POST /events", HandleCreateEvent(svc.Events))
	mux.Handle("GET /events", HandleListEvents(svc.Events))
	mux.Handle("GET /events/{id}", HandleGetEvent(svc.Events))
	mux.Handle("PATCH /events/{id}", HandleEditEvent(svc.Events))
	mux.Handle("GET /events/{id}/seats", HandleListSeats(svc.Events))
	mux.Handle("GET /events/{id}/layout", HandleSeatLayout(svc.Events))

	mux.Handle("POST /seats/claim", HandleClaimSeat(svc.Reservations))
	mux.Handle("DELETE /seats/{id}/reservation", HandleCancelReservation(svc.Reservations))

	mux.Handle("/venues", HandleVenues(svc.Catalog))
	mux.Handle("/teams", HandleTeams(svc.Catalog))
	mux.Handle("/officials", HandleOfficials(svc.Catalog))

	mux.Handle("/", NotFoundHandler())

	return RequestLogger(CORS(allowedOrigins, mux), logger)
}
