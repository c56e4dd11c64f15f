package http

import (
	"context"
	"net/http"

	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/app"
	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/domain"
)

// CatalogManager is the minimal interface needed to manage venues, teams and officials.
type CatalogManager interface {
	CreateVenue(ctx context.Context, in app.CreateVenueInput) (domain.Venue, error)
	ListVenues(ctx context.Context) ([]domain.Venue, error)
	CreateTeam(ctx context.Context, name string) (domain.Team, error)
	ListTeams(ctx context.Context) ([]domain.Team, error)
	CreateOfficial(ctx context.Context, name string) (domain.Official, error)
	ListOfficials(ctx context.Context) ([]domain.Official, error)
}

// HandleVenues serves GET and POST on /venues.
func HandleVenues(svc CatalogManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			venues, err := svc.ListVenues(r.Context())
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			resp := make([]venueResponse, 0, len(venues))
			for _, v := range venues {
				resp = append(resp, venueResponse(v))
			}
			writeJSON(w, http.StatusOK, resp)
		case http.MethodPost:
			var req createVenueRequest
			if !decodeJSON(w, r, &req) {
				return
			}
			venue, err := svc.CreateVenue(r.Context(), app.CreateVenueInput{
				Name:    req.Name,
				Rows:    req.Rows,
				Columns: req.Columns,
			})
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			writeJSON(w, http.StatusCreated, venueResponse(venue))
		default:
			w.Header().Set("Allow", "GET, POST")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandleTeams serves GET and POST on /teams.
func HandleTeams(svc CatalogManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			teams, err := svc.ListTeams(r.Context())
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			resp := make([]namedResponse, 0, len(teams))
			for _, t := range teams {
				resp = append(resp, namedResponse(t))
			}
			writeJSON(w, http.StatusOK, resp)
		case http.MethodPost:
			var req namedRequest
			if !decodeJSON(w, r, &req) {
				return
			}
			team, err := svc.CreateTeam(r.Context(), req.Name)
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			writeJSON(w, http.StatusCreated, namedResponse(team))
		default:
			w.Header().Set("Allow", "GET, POST")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandleOfficials serves GET and POST on /officials.
func HandleOfficials(svc CatalogManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			officials, err := svc.ListOfficials(r.Context())
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			resp := make([]namedResponse, 0, len(officials))
			for _, o := range officials {
				resp = append(resp, namedResponse(o))
			}
			writeJSON(w, http.StatusOK, resp)
		case http.MethodPost:
			var req namedRequest
			if !decodeJSON(w, r, &req) {
				return
			}
			official, err := svc.CreateOfficial(r.Context(), req.Name)
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			writeJSON(w, http.StatusCreated, namedResponse(official))
		default:
			w.Header().Set("Allow", "GET, POST")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

type createVenueRequest struct {
	Name    string `json:"name"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
}

type venueResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
}

type namedRequest struct {
	Name string `json:"name"`
}

type namedResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
