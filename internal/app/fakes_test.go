package app

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/domain"
)

// fakeStore is an in-memory implementation of every repository the services depend on.
type fakeStore struct {
	mu        sync.Mutex
	venues    map[string]domain.Venue
	teams     map[string]domain.Team
	officials map[string]domain.Official
	events    map[string]domain.Event
	seats     map[string]domain.Seat
	tickets   []domain.Ticket

	createTicketErr error
	releaseErr      error
	lastFilter      domain.ResourceFilter
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		venues:    make(map[string]domain.Venue),
		teams:     make(map[string]domain.Team),
		officials: make(map[string]domain.Official),
		events:    make(map[string]domain.Event),
		seats:     make(map[string]domain.Seat),
	}
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeStore) CreateVenue(_ context.Context, venue domain.Venue) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.venues[venue.ID] = venue
	return nil
}

func (f *fakeStore) ListVenues(_ context.Context) ([]domain.Venue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Venue, 0, len(f.venues))
	for _, v := range f.venues {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeStore) GetVenue(_ context.Context, venueID string) (domain.Venue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.venues[venueID]
	if !ok {
		return domain.Venue{}, domain.ErrVenueNotFound
	}
	return v, nil
}

func (f *fakeStore) CreateTeam(_ context.Context, team domain.Team) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.teams {
		if t.Name == team.Name {
			return domain.ErrTeamAlreadyExists
		}
	}
	f.teams[team.ID] = team
	return nil
}

func (f *fakeStore) ListTeams(_ context.Context) ([]domain.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Team, 0, len(f.teams))
	for _, t := range f.teams {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeStore) CountTeams(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.teams), nil
}

func (f *fakeStore) GetTeam(_ context.Context, teamID string) (domain.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.teams[teamID]
	if !ok {
		return domain.Team{}, domain.ErrTeamNotFound
	}
	return t, nil
}

func (f *fakeStore) CreateOfficial(_ context.Context, official domain.Official) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.officials[official.ID] = official
	return nil
}

func (f *fakeStore) ListOfficials(_ context.Context) ([]domain.Official, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Official, 0, len(f.officials))
	for _, o := range f.officials {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeStore) GetOfficial(_ context.Context, officialID string) (domain.Official, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.officials[officialID]
	if !ok {
		return domain.Official{}, domain.ErrOfficialNotFound
	}
	return o, nil
}

func (f *fakeStore) CreateEvent(_ context.Context, event domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events[event.ID] = event
	return nil
}

func (f *fakeStore) UpdateEvent(_ context.Context, event domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[event.ID]; !ok {
		return domain.ErrEventNotFound
	}
	f.events[event.ID] = event
	return nil
}

func (f *fakeStore) GetEvent(_ context.Context, eventID string) (domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[eventID]
	if !ok {
		return domain.Event{}, domain.ErrEventNotFound
	}
	return e, nil
}

func (f *fakeStore) ListEvents(_ context.Context) ([]domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Event, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

func (f *fakeStore) FindEventsByAny(_ context.Context, filter domain.ResourceFilter) ([]domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	probe := domain.Event{VenueID: filter.VenueID}
	if len(filter.TeamIDs) > 0 {
		probe.HomeTeamID = filter.TeamIDs[0]
	}
	if len(filter.TeamIDs) > 1 {
		probe.AwayTeamID = filter.TeamIDs[1]
	}
	officials := make([]string, 3)
	copy(officials, filter.OfficialIDs)
	probe.MainRefereeID, probe.FirstLinesmanID, probe.SecondLinesmanID = officials[0], officials[1], officials[2]

	f.lastFilter = filter

	var out []domain.Event
	for _, e := range f.events {
		if probe.SharesResource(e) && filter.StartsWithin(e.StartsAt) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) InsertSeats(_ context.Context, seats []domain.Seat) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range seats {
		f.seats[s.ID] = s
	}
	return nil
}

func (f *fakeStore) ListSeats(_ context.Context, eventID string) ([]domain.Seat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Seat
	for _, s := range f.seats {
		if s.EventID == eventID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Column < out[j].Column
	})
	return out, nil
}

func (f *fakeStore) FindSeat(_ context.Context, eventID string, row, column int) (domain.Seat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.seats {
		if s.EventID == eventID && s.Row == row && s.Column == column {
			return s, nil
		}
	}
	return domain.Seat{}, domain.ErrSeatNotFound
}

func (f *fakeStore) GetSeat(_ context.Context, seatID string) (domain.Seat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.seats[seatID]
	if !ok {
		return domain.Seat{}, domain.ErrSeatNotFound
	}
	return s, nil
}

func (f *fakeStore) CompareAndSwapReservation(_ context.Context, seatID, expected, next string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.seats[seatID]
	if !ok {
		return false, domain.ErrSeatNotFound
	}
	if next == "" && f.releaseErr != nil {
		return false, f.releaseErr
	}
	if s.ReservationID != expected {
		return false, nil
	}
	s.ReservationID = next
	f.seats[seatID] = s
	return true, nil
}

func (f *fakeStore) CreateTicket(_ context.Context, ticket domain.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createTicketErr != nil {
		return f.createTicketErr
	}
	for _, t := range f.tickets {
		if t.ReservationID == ticket.ReservationID {
			return domain.ErrReservationIDTaken
		}
	}
	f.tickets = append(f.tickets, ticket)
	return nil
}

func (f *fakeStore) CancelTicket(_ context.Context, reservationID, cancelledBy string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tickets {
		if f.tickets[i].ReservationID == reservationID && f.tickets[i].Active() {
			stamp := at
			f.tickets[i].CancelledAt = &stamp
			f.tickets[i].CancelledBy = cancelledBy
			return nil
		}
	}
	return domain.ErrTicketNotFound
}

func (f *fakeStore) ListActiveTicketsByUser(_ context.Context, userID string) ([]domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Ticket
	for _, t := range f.tickets {
		if t.UserID == userID && t.Active() {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) seatAt(eventID string, row, column int) domain.Seat {
	s, _ := f.FindSeat(context.Background(), eventID, row, column)
	return s
}

type recordingNotifier struct {
	mu      sync.Mutex
	changes []domain.SeatChange
	err     error
}

func (n *recordingNotifier) SeatChanged(_ context.Context, change domain.SeatChange) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changes = append(n.changes, change)
	return n.err
}

// blockingNotifier waits for its context and reports how it ended.
type blockingNotifier struct {
	done chan error
}

func (n *blockingNotifier) SeatChanged(ctx context.Context, _ domain.SeatChange) error {
	<-ctx.Done()
	n.done <- ctx.Err()
	return ctx.Err()
}
