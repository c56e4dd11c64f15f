package sqlitestore

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/app"
	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/clock"
	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), Config{
		Path:     filepath.Join(t.TempDir(), "tazkarti.db"),
		PoolSize: 4,
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return store
}

type services struct {
	catalog      *app.CatalogService
	events       *app.EventService
	reservations *app.ReservationService
}

func newServices(store *Store) services {
	clk := clock.NewStepping(time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC), time.Millisecond)
	conflicts := app.NewConflictDetector(store, store)
	return services{
		catalog:      app.NewCatalogService(store),
		events:       app.NewEventService(store, store, conflicts, clk),
		reservations: app.NewReservationService(store, store, app.NewSeatLedger(store), conflicts, clk),
	}
}

type match struct {
	venue domain.Venue
	home  domain.Team
	away  domain.Team
	ref   domain.Official
	event domain.Event
}

func createMatch(t *testing.T, svc services, label string, rows, columns int, date, clockTime string) match {
	t.Helper()
	ctx := context.Background()
	var (
		m   match
		err error
	)
	if m.venue, err = svc.catalog.CreateVenue(ctx, app.CreateVenueInput{Name: label, Rows: rows, Columns: columns}); err != nil {
		t.Fatalf("create venue: %v", err)
	}
	if m.home, err = svc.catalog.CreateTeam(ctx, label+" home"); err != nil {
		t.Fatalf("create team: %v", err)
	}
	if m.away, err = svc.catalog.CreateTeam(ctx, label+" away"); err != nil {
		t.Fatalf("create team: %v", err)
	}
	if m.ref, err = svc.catalog.CreateOfficial(ctx, label+" referee"); err != nil {
		t.Fatalf("create official: %v", err)
	}
	m.event, err = svc.events.CreateEvent(ctx, app.CreateEventInput{
		HomeTeamID:    m.home.ID,
		AwayTeamID:    m.away.ID,
		VenueID:       m.venue.ID,
		Date:          date,
		Time:          clockTime,
		MainRefereeID: m.ref.ID,
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	return m
}

func TestStore_PingAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tazkarti.db")
	ctx := context.Background()

	store, err := Open(ctx, Config{Path: path, PoolSize: 2})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if _, err := app.NewCatalogService(store).CreateTeam(ctx, "Zamalek"); err != nil {
		t.Fatalf("create team: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	reopened, err := Open(ctx, Config{Path: path, PoolSize: 2})
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer reopened.Close()
	teams, err := reopened.ListTeams(ctx)
	if err != nil {
		t.Fatalf("list teams: %v", err)
	}
	if len(teams) != 1 || teams[0].Name != "Zamalek" {
		t.Fatalf("expected persisted team, got %+v", teams)
	}
}

func TestStore_ReservationRoundTrip(t *testing.T) {
	store := openTestStore(t)
	svc := newServices(store)
	ctx := context.Background()

	m := createMatch(t, svc, "Cairo", 5, 5, "2030-02-01", "18:00")

	seats, err := svc.events.ListSeats(ctx, m.event.ID)
	if err != nil {
		t.Fatalf("list seats: %v", err)
	}
	if len(seats) != 25 {
		t.Fatalf("expected 25 seats, got %d", len(seats))
	}

	first, err := svc.reservations.ClaimSeat(ctx, app.ClaimSeatInput{UserID: "user-1", EventID: m.event.ID, Row: 3, Column: 3})
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if _, err := svc.reservations.ClaimSeat(ctx, app.ClaimSeatInput{UserID: "user-2", EventID: m.event.ID, Row: 3, Column: 3}); !errors.Is(err, domain.ErrSeatAlreadyReserved) {
		t.Fatalf("expected ErrSeatAlreadyReserved, got %v", err)
	}

	layout, _ := svc.events.SeatLayout(ctx, m.event.ID)
	if layout[2][2].ReservationID != first.ReservationID {
		t.Fatalf("expected layout to show %s, got %q", first.ReservationID, layout[2][2].ReservationID)
	}

	res, err := svc.reservations.CancelSeat(ctx, app.CancelSeatInput{SeatID: first.Seat.ID, RequestedBy: "user-1"})
	if err != nil || res.Outcome != app.CancelOutcomeReleased {
		t.Fatalf("expected release, got %+v (%v)", res, err)
	}
	active, _ := store.ListActiveTicketsByUser(ctx, "user-1")
	if len(active) != 0 {
		t.Fatalf("expected ticket cancelled, got %+v", active)
	}

	res, err = svc.reservations.CancelSeat(ctx, app.CancelSeatInput{SeatID: first.Seat.ID})
	if err != nil || res.Outcome != app.CancelOutcomeNotReserved {
		t.Fatalf("expected not_reserved, got %+v (%v)", res, err)
	}

	second, err := svc.reservations.ClaimSeat(ctx, app.ClaimSeatInput{UserID: "user-2", EventID: m.event.ID, Row: 3, Column: 3})
	if err != nil {
		t.Fatalf("re-claim: %v", err)
	}
	if second.ReservationID == first.ReservationID {
		t.Fatalf("expected a fresh reservation id")
	}
}

func TestStore_ConcurrentClaims(t *testing.T) {
	store := openTestStore(t)
	svc := newServices(store)
	m := createMatch(t, svc, "Race", 2, 2, "2030-02-01", "18:00")

	const users = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
		others  []error
	)
	for i := 0; i < users; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.reservations.ClaimSeat(context.Background(), app.ClaimSeatInput{
				UserID:  fmt.Sprintf("user-%d", i),
				EventID: m.event.ID,
				Row:     2,
				Column:  2,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners++
			case errors.Is(err, domain.ErrSeatAlreadyReserved):
			default:
				others = append(others, err)
			}
		}(i)
	}
	wg.Wait()

	if len(others) > 0 {
		t.Fatalf("unexpected errors: %v", others)
	}
	if winners != 1 {
		t.Fatalf("expected exactly one winner, got %d", winners)
	}
}

func TestStore_Scheduling(t *testing.T) {
	store := openTestStore(t)
	svc := newServices(store)
	ctx := context.Background()

	a := createMatch(t, svc, "Alpha", 3, 3, "2030-02-01", "08:00")

	t.Run("shared referee inside the window", func(t *testing.T) {
		other := createMatch(t, svc, "Beta", 2, 2, "2030-03-01", "18:00")
		_, err := svc.events.EditEvent(ctx, app.EditEventInput{
			EventID:       other.event.ID,
			Date:          strPtr("2030-02-01"),
			MainRefereeID: &a.ref.ID,
		})
		if !errors.Is(err, domain.ErrScheduleConflict) {
			t.Fatalf("expected ErrScheduleConflict, got %v", err)
		}
	})

	t.Run("larger venue keeps bindings", func(t *testing.T) {
		held, err := svc.reservations.ClaimSeat(ctx, app.ClaimSeatInput{UserID: "user-9", EventID: a.event.ID, Row: 2, Column: 2})
		if err != nil {
			t.Fatalf("claim: %v", err)
		}
		bigger, _ := svc.catalog.CreateVenue(ctx, app.CreateVenueInput{Name: "Bigger", Rows: 4, Columns: 4})
		if _, err := svc.events.EditEvent(ctx, app.EditEventInput{EventID: a.event.ID, VenueID: &bigger.ID}); err != nil {
			t.Fatalf("edit: %v", err)
		}
		seats, _ := svc.events.ListSeats(ctx, a.event.ID)
		if len(seats) != 16 {
			t.Fatalf("expected 16 seats, got %d", len(seats))
		}
		seat, _ := store.FindSeat(ctx, a.event.ID, 2, 2)
		if seat.ReservationID != held.ReservationID {
			t.Fatalf("expected binding kept, got %q", seat.ReservationID)
		}

		smaller, _ := svc.catalog.CreateVenue(ctx, app.CreateVenueInput{Name: "Smaller", Rows: 4, Columns: 3})
		if _, err := svc.events.EditEvent(ctx, app.EditEventInput{EventID: a.event.ID, VenueID: &smaller.ID}); !errors.Is(err, domain.ErrVenueTooSmall) {
			t.Fatalf("expected ErrVenueTooSmall, got %v", err)
		}
	})

	t.Run("duplicate team name", func(t *testing.T) {
		if _, err := svc.catalog.CreateTeam(ctx, a.home.Name); !errors.Is(err, domain.ErrTeamAlreadyExists) {
			t.Fatalf("expected ErrTeamAlreadyExists, got %v", err)
		}
	})

	t.Run("unknown ids", func(t *testing.T) {
		if _, err := store.GetEvent(ctx, "missing"); !errors.Is(err, domain.ErrEventNotFound) {
			t.Fatalf("expected ErrEventNotFound, got %v", err)
		}
		if _, err := store.CompareAndSwapReservation(ctx, "missing", "", "x"); !errors.Is(err, domain.ErrSeatNotFound) {
			t.Fatalf("expected ErrSeatNotFound, got %v", err)
		}
	})
}

func strPtr(s string) *string { return &s }
