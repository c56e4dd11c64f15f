package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/domain"
	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/testutil"
)

func TestEventRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewEventRepository(pool)
	catalog := NewCatalogRepository(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	startsAt := time.Date(2030, 5, 1, 18, 0, 0, 0, time.UTC)

	t.Run("create, get and update event with seats", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		f := testutil.InsertMatch(t, ctx, pool, "base", 2, 2, startsAt.Add(-72*time.Hour))

		event := domain.Event{
			ID:            uuid.NewString(),
			HomeTeamID:    f.HomeTeamID,
			AwayTeamID:    f.AwayTeamID,
			VenueID:       f.VenueID,
			Date:          "2030-05-01",
			Time:          "18:00",
			StartsAt:      startsAt,
			MainRefereeID: f.RefereeID,
			CreatedAt:     startsAt.Add(-240 * time.Hour),
		}
		seats, _ := domain.Materialize(event.ID, 2, 3)
		for i := range seats {
			seats[i].ID = uuid.NewString()
		}

		err := repo.WithTx(ctx, func(txCtx context.Context) error {
			if err := repo.CreateEvent(txCtx, event); err != nil {
				return err
			}
			return repo.InsertSeats(txCtx, seats)
		})
		if err != nil {
			t.Fatalf("create event: %v", err)
		}

		got, err := repo.GetEvent(ctx, event.ID)
		if err != nil {
			t.Fatalf("get event: %v", err)
		}
		if got.MainRefereeID != f.RefereeID || got.FirstLinesmanID != "" || !got.StartsAt.Equal(startsAt) {
			t.Fatalf("unexpected event: %+v", got)
		}

		listed, err := repo.ListSeats(ctx, event.ID)
		if err != nil {
			t.Fatalf("list seats: %v", err)
		}
		if len(listed) != 6 || listed[0].Row != 1 || listed[0].Column != 1 || listed[5].Row != 2 || listed[5].Column != 3 {
			t.Fatalf("unexpected seats: %+v", listed)
		}

		got.Time = "20:00"
		got.StartsAt = startsAt.Add(2 * time.Hour)
		got.MainRefereeID = ""
		if err := repo.UpdateEvent(ctx, got); err != nil {
			t.Fatalf("update event: %v", err)
		}
		updated, _ := repo.GetEvent(ctx, event.ID)
		if updated.Time != "20:00" || updated.MainRefereeID != "" {
			t.Fatalf("unexpected updated event: %+v", updated)
		}
	})

	t.Run("missing references map to not found", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		f := testutil.InsertMatch(t, ctx, pool, "refs", 1, 1, startsAt)

		event := domain.Event{
			ID:         uuid.NewString(),
			HomeTeamID: f.HomeTeamID,
			AwayTeamID: f.AwayTeamID,
			VenueID:    uuid.NewString(),
			Date:       "2030-06-01",
			Time:       "18:00",
			StartsAt:   startsAt.Add(31 * 24 * time.Hour),
			CreatedAt:  startsAt,
		}
		if err := repo.CreateEvent(ctx, event); err != domain.ErrVenueNotFound {
			t.Fatalf("expected ErrVenueNotFound, got %v", err)
		}

		if _, err := repo.GetEvent(ctx, uuid.NewString()); err != domain.ErrEventNotFound {
			t.Fatalf("expected ErrEventNotFound, got %v", err)
		}
		if _, err := repo.GetEvent(ctx, "not-a-uuid"); err != domain.ErrEventNotFound {
			t.Fatalf("expected ErrEventNotFound, got %v", err)
		}
		if err := repo.UpdateEvent(ctx, domain.Event{ID: uuid.NewString(), HomeTeamID: f.HomeTeamID, AwayTeamID: f.AwayTeamID, VenueID: f.VenueID, StartsAt: startsAt}); err != domain.ErrEventNotFound {
			t.Fatalf("expected ErrEventNotFound, got %v", err)
		}
	})

	t.Run("FindEventsByAny matches any shared resource", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		a := testutil.InsertMatch(t, ctx, pool, "a", 1, 1, startsAt)
		b := testutil.InsertMatch(t, ctx, pool, "b", 1, 1, startsAt)

		cases := []struct {
			name   string
			filter domain.ResourceFilter
			want   []string
		}{
			{"venue", domain.ResourceFilter{VenueID: a.VenueID}, []string{a.EventID}},
			{"away team as candidate home", domain.ResourceFilter{TeamIDs: []string{b.AwayTeamID}}, []string{b.EventID}},
			{"official", domain.ResourceFilter{OfficialIDs: []string{a.RefereeID, b.RefereeID}}, []string{a.EventID, b.EventID}},
			{"nothing shared", domain.ResourceFilter{VenueID: uuid.NewString(), TeamIDs: []string{uuid.NewString()}}, nil},
			{"inside start bounds", domain.ResourceFilter{OfficialIDs: []string{a.RefereeID, b.RefereeID}, StartsFrom: startsAt.Add(-time.Hour), StartsTo: startsAt}, []string{a.EventID, b.EventID}},
			{"after start bounds", domain.ResourceFilter{OfficialIDs: []string{a.RefereeID, b.RefereeID}, StartsFrom: startsAt.Add(time.Minute)}, nil},
		}
		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				events, err := repo.FindEventsByAny(ctx, c.filter)
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if len(events) != len(c.want) {
					t.Fatalf("expected %d events, got %d", len(c.want), len(events))
				}
				found := make(map[string]bool)
				for _, e := range events {
					found[e.ID] = true
				}
				for _, id := range c.want {
					if !found[id] {
						t.Fatalf("expected event %s in %+v", id, events)
					}
				}
			})
		}
	})

	t.Run("catalog", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		team := domain.Team{ID: uuid.NewString(), Name: "Zamalek"}
		if err := catalog.CreateTeam(ctx, team); err != nil {
			t.Fatalf("create team: %v", err)
		}
		if err := catalog.CreateTeam(ctx, domain.Team{ID: uuid.NewString(), Name: "Zamalek"}); err != domain.ErrTeamAlreadyExists {
			t.Fatalf("expected ErrTeamAlreadyExists, got %v", err)
		}
		n, err := catalog.CountTeams(ctx)
		if err != nil || n != 1 {
			t.Fatalf("expected 1 team, got %d (%v)", n, err)
		}

		venue := domain.Venue{ID: uuid.NewString(), Name: "Cairo", Rows: 10, Columns: 12}
		if err := catalog.CreateVenue(ctx, venue); err != nil {
			t.Fatalf("create venue: %v", err)
		}
		got, err := catalog.GetVenue(ctx, venue.ID)
		if err != nil || got != venue {
			t.Fatalf("expected %+v, got %+v (%v)", venue, got, err)
		}
		if _, err := catalog.GetOfficial(ctx, uuid.NewString()); err != domain.ErrOfficialNotFound {
			t.Fatalf("expected ErrOfficialNotFound, got %v", err)
		}
	})
}
