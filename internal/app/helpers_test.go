package app

import (
	"context"
	"testing"
	"time"

	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/clock"
	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/domain"
)

var testNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

type testEnv struct {
	store        *fakeStore
	events       *EventService
	reservations *ReservationService
	notifier     *recordingNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := newFakeStore()
	seedCatalog(store)

	// Stepping so that a re-claim of the same seat is issued a different reservation id.
	clk := clock.NewStepping(testNow, time.Millisecond)
	conflicts := NewConflictDetector(store, store)
	notifier := &recordingNotifier{}

	return &testEnv{
		store:        store,
		events:       NewEventService(store, store, conflicts, clk),
		reservations: NewReservationService(store, store, NewSeatLedger(store), conflicts, clk, WithSeatNotifier(notifier)),
		notifier:     notifier,
	}
}

func seedCatalog(store *fakeStore) {
	for _, v := range []domain.Venue{
		{ID: "venue-5x5", Name: "Cairo International", Rows: 5, Columns: 5},
		{ID: "venue-3x3", Name: "Small Ground", Rows: 3, Columns: 3},
		{ID: "venue-4x4", Name: "Medium Ground", Rows: 4, Columns: 4},
		{ID: "venue-3x5", Name: "Wide Ground", Rows: 3, Columns: 5},
		{ID: "venue-5x3", Name: "Deep Ground", Rows: 5, Columns: 3},
	} {
		store.venues[v.ID] = v
	}
	for _, id := range []string{"team-1", "team-2", "team-3", "team-4", "team-5", "team-6"} {
		store.teams[id] = domain.Team{ID: id, Name: id}
	}
	for _, id := range []string{"ref-1", "ref-2", "ref-3", "ref-4"} {
		store.officials[id] = domain.Official{ID: id, Name: id}
	}
}

func matchInput(venueID, date, clockTime string) CreateEventInput {
	return CreateEventInput{
		HomeTeamID: "team-1",
		AwayTeamID: "team-2",
		VenueID:    venueID,
		Date:       date,
		Time:       clockTime,
	}
}

func (e *testEnv) createEvent(t *testing.T, in CreateEventInput) domain.Event {
	t.Helper()
	event, err := e.events.CreateEvent(context.Background(), in)
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	return event
}

func (e *testEnv) claim(t *testing.T, userID, eventID string, row, column int) ClaimSeatResult {
	t.Helper()
	res, err := e.reservations.ClaimSeat(context.Background(), ClaimSeatInput{
		UserID:  userID,
		EventID: eventID,
		Row:     row,
		Column:  column,
	})
	if err != nil {
		t.Fatalf("claim (%d,%d): %v", row, column, err)
	}
	return res
}

func seedEvent(t *testing.T, store *fakeStore, event domain.Event) domain.Event {
	t.Helper()
	startsAt, err := domain.ParseStart(event.Date, event.Time, time.UTC)
	if err != nil {
		t.Fatalf("parse start: %v", err)
	}
	event.StartsAt = startsAt
	store.events[event.ID] = event
	return event
}
