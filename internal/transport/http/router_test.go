package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/app"
	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/domain"
)

func newTestRouter(t *testing.T) (http.Handler, *stubEventService, *stubSeatReserver, *bytes.Buffer) {
	t.Helper()

	events := &stubEventService{event: sampleEvent, layout: [][]domain.LayoutCell{{{Exists: true}}}}
	seats := &stubSeatReserver{cancel: app.CancelSeatResult{Outcome: app.CancelOutcomeReleased}}
	buf := &bytes.Buffer{}
	router := NewRouter(Services{
		Events:       events,
		Reservations: seats,
		Catalog:      &stubCatalog{},
		Store:        stubPinger{},
	}, []string{"http://localhost:3000"}, slog.New(slog.NewTextHandler(buf, nil)))
	return router, events, seats, buf
}

func TestRouter_Routes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		method         string
		path           string
		body           string
		header         string
		expectedStatus int
	}{
		{method: http.MethodGet, path: "/health", expectedStatus: http.StatusOK},
		{method: http.MethodGet, path: "/events", expectedStatus: http.StatusOK},
		{method: http.MethodGet, path: "/events/e1", expectedStatus: http.StatusOK},
		{method: http.MethodPatch, path: "/events/e1", body: `{}`, expectedStatus: http.StatusOK},
		{method: http.MethodGet, path: "/events/e1/seats", expectedStatus: http.StatusOK},
		{method: http.MethodGet, path: "/events/e1/layout", expectedStatus: http.StatusOK},
		{method: http.MethodPost, path: "/seats/claim", body: `{"user_id":"u","event_id":"e1","row":1,"column":1}`, expectedStatus: http.StatusCreated},
		{method: http.MethodDelete, path: "/seats/s1/reservation", header: "u", expectedStatus: http.StatusOK},
		{method: http.MethodGet, path: "/venues", expectedStatus: http.StatusOK},
		{method: http.MethodGet, path: "/teams", expectedStatus: http.StatusOK},
		{method: http.MethodGet, path: "/officials", expectedStatus: http.StatusOK},
		{method: http.MethodGet, path: "/tickets", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			t.Parallel()

			router, _, _, _ := newTestRouter(t)
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.header != "" {
				req.Header.Set(userIDHeader, tt.header)
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d (%s)", tt.expectedStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRouter_PassesPathIDs(t *testing.T) {
	t.Parallel()

	router, events, seats, buf := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events/match-42/layout", nil))
	if events.gotID != "match-42" {
		t.Fatalf("expected layout for match-42, got %q", events.gotID)
	}

	req := httptest.NewRequest(http.MethodDelete, "/seats/seat-7/reservation", nil)
	req.Header.Set(userIDHeader, "fan-1")
	router.ServeHTTP(httptest.NewRecorder(), req)
	if seats.cancelIn.SeatID != "seat-7" || seats.cancelIn.RequestedBy != "fan-1" {
		t.Fatalf("unexpected cancel input %+v", seats.cancelIn)
	}

	if !strings.Contains(buf.String(), "path=/seats/seat-7/reservation") {
		t.Fatalf("expected request to be logged, got %q", buf.String())
	}
}
