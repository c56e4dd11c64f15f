package app

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/clock"
	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/domain"
)

type EventRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateEvent(ctx context.Context, event domain.Event) error
	UpdateEvent(ctx context.Context, event domain.Event) error
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
	InsertSeats(ctx context.Context, seats []domain.Seat) error
	ListSeats(ctx context.Context, eventID string) ([]domain.Seat, error)
}

// ReferenceReader resolves the catalog entries an event points at.
type ReferenceReader interface {
	GetVenue(ctx context.Context, venueID string) (domain.Venue, error)
	GetTeam(ctx context.Context, teamID string) (domain.Team, error)
	GetOfficial(ctx context.Context, officialID string) (domain.Official, error)
}

type EventService struct {
	repo      EventRepository
	refs      ReferenceReader
	conflicts *ConflictDetector
	clock     clock.Clock
	location  *time.Location
}

type EventServiceOption func(*EventService)

// WithEventLocation sets the time zone event dates and times are interpreted in.
func WithEventLocation(loc *time.Location) EventServiceOption {
	return func(s *EventService) {
		if loc != nil {
			s.location = loc
		}
	}
}

func NewEventService(repo EventRepository, refs ReferenceReader, conflicts *ConflictDetector, clk clock.Clock, opts ...EventServiceOption) *EventService {
	svc := &EventService{
		repo:      repo,
		refs:      refs,
		conflicts: conflicts,
		clock:     clk,
		location:  time.UTC,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type CreateEventInput struct {
	HomeTeamID       string
	AwayTeamID       string
	VenueID          string
	Date             string
	Time             string
	MainRefereeID    string
	FirstLinesmanID  string
	SecondLinesmanID string
}

// CreateEvent schedules a match and materializes its full seating grid.
func (s *EventService) CreateEvent(ctx context.Context, in CreateEventInput) (event domain.Event, err error) {
	ctx, span := tracer.Start(ctx, "EventService.CreateEvent")
	defer func() { endSpan(span, err) }()

	event = domain.Event{
		HomeTeamID:       in.HomeTeamID,
		AwayTeamID:       in.AwayTeamID,
		VenueID:          in.VenueID,
		Date:             in.Date,
		Time:             in.Time,
		MainRefereeID:    in.MainRefereeID,
		FirstLinesmanID:  in.FirstLinesmanID,
		SecondLinesmanID: in.SecondLinesmanID,
	}
	if err := validateEvent(event); err != nil {
		return domain.Event{}, err
	}

	now := s.clock.Now()
	startsAt, err := domain.ParseStart(event.Date, event.Time, s.location)
	if err != nil {
		return domain.Event{}, err
	}
	if !startsAt.After(now) {
		return domain.Event{}, domain.ErrPastStartTime
	}
	event.StartsAt = startsAt

	venue, err := s.refs.GetVenue(ctx, event.VenueID)
	if err != nil {
		return domain.Event{}, err
	}
	if err := s.resolveParticipants(ctx, event); err != nil {
		return domain.Event{}, err
	}

	conflict, err := s.conflicts.HasEventConflict(ctx, event, "")
	if err != nil {
		return domain.Event{}, err
	}
	if conflict {
		return domain.Event{}, domain.ErrScheduleConflict
	}

	event.ID = newUUID()
	event.CreatedAt = now
	seats, err := domain.Materialize(event.ID, venue.Rows, venue.Columns)
	if err != nil {
		return domain.Event{}, err
	}
	assignSeatIDs(seats)
	span.SetAttributes(attribute.String("event.id", event.ID), attribute.Int("seats.created", len(seats)))

	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.CreateEvent(txCtx, event); err != nil {
			return err
		}
		return s.repo.InsertSeats(txCtx, seats)
	})
	if err != nil {
		return domain.Event{}, err
	}
	return event, nil
}

// EditEventInput carries a partial update; nil or empty fields leave the event unchanged.
type EditEventInput struct {
	EventID          string
	HomeTeamID       *string
	AwayTeamID       *string
	VenueID          *string
	Date             *string
	Time             *string
	MainRefereeID    *string
	FirstLinesmanID  *string
	SecondLinesmanID *string
}

// EditEvent applies a partial update under the same scheduling rules as creation. Moving to a
// larger venue materializes only the newly exposed seats; existing bindings stay untouched.
func (s *EventService) EditEvent(ctx context.Context, in EditEventInput) (event domain.Event, err error) {
	ctx, span := tracer.Start(ctx, "EventService.EditEvent")
	span.SetAttributes(attribute.String("event.id", in.EventID))
	defer func() { endSpan(span, err) }()

	if in.EventID == "" {
		return domain.Event{}, domain.ErrInvalidID
	}

	current, err := s.repo.GetEvent(ctx, in.EventID)
	if err != nil {
		return domain.Event{}, err
	}

	updated := current
	patch(&updated.HomeTeamID, in.HomeTeamID)
	patch(&updated.AwayTeamID, in.AwayTeamID)
	patch(&updated.VenueID, in.VenueID)
	patch(&updated.Date, in.Date)
	patch(&updated.Time, in.Time)
	patch(&updated.MainRefereeID, in.MainRefereeID)
	patch(&updated.FirstLinesmanID, in.FirstLinesmanID)
	patch(&updated.SecondLinesmanID, in.SecondLinesmanID)

	if err := validateEvent(updated); err != nil {
		return domain.Event{}, err
	}

	if updated.Date != current.Date || updated.Time != current.Time {
		startsAt, err := domain.ParseStart(updated.Date, updated.Time, s.location)
		if err != nil {
			return domain.Event{}, err
		}
		if !startsAt.After(s.clock.Now()) {
			return domain.Event{}, domain.ErrPastStartTime
		}
		updated.StartsAt = startsAt
	}

	var newSeats []domain.Seat
	if updated.VenueID != current.VenueID {
		oldVenue, err := s.refs.GetVenue(ctx, current.VenueID)
		if err != nil {
			return domain.Event{}, err
		}
		newVenue, err := s.refs.GetVenue(ctx, updated.VenueID)
		if err != nil {
			return domain.Event{}, err
		}
		if newVenue.Rows < oldVenue.Rows || newVenue.Columns < oldVenue.Columns {
			return domain.Event{}, domain.ErrVenueTooSmall
		}
		newSeats, err = domain.Expand(current.ID, oldVenue.Rows, oldVenue.Columns, newVenue.Rows, newVenue.Columns)
		if err != nil {
			return domain.Event{}, err
		}
		assignSeatIDs(newSeats)
	}

	if err := s.resolveParticipants(ctx, changedParticipants(current, updated)); err != nil {
		return domain.Event{}, err
	}

	conflict, err := s.conflicts.HasEventConflict(ctx, updated, current.ID)
	if err != nil {
		return domain.Event{}, err
	}
	if conflict {
		return domain.Event{}, domain.ErrScheduleConflict
	}

	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if len(newSeats) > 0 {
			if err := s.repo.InsertSeats(txCtx, newSeats); err != nil {
				return err
			}
		}
		return s.repo.UpdateEvent(txCtx, updated)
	})
	if err != nil {
		return domain.Event{}, err
	}
	return updated, nil
}

func (s *EventService) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	if eventID == "" {
		return domain.Event{}, domain.ErrInvalidID
	}
	return s.repo.GetEvent(ctx, eventID)
}

func (s *EventService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	return s.repo.ListEvents(ctx)
}

// ListSeats returns every seat recorded for an event.
func (s *EventService) ListSeats(ctx context.Context, eventID string) ([]domain.Seat, error) {
	if _, err := s.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return s.repo.ListSeats(ctx, eventID)
}

// SeatLayout returns the event's seats arranged as a matrix sized by the observed extrema.
func (s *EventService) SeatLayout(ctx context.Context, eventID string) ([][]domain.LayoutCell, error) {
	seats, err := s.ListSeats(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return domain.BuildLayout(seats), nil
}

func (s *EventService) resolveParticipants(ctx context.Context, event domain.Event) error {
	for _, teamID := range event.Teams() {
		if _, err := s.refs.GetTeam(ctx, teamID); err != nil {
			return err
		}
	}
	for _, officialID := range event.Officials() {
		if _, err := s.refs.GetOfficial(ctx, officialID); err != nil {
			return err
		}
	}
	return nil
}

// changedParticipants keeps only the teams and officials that differ from the current event,
// so unchanged references are not re-resolved.
func changedParticipants(current, updated domain.Event) domain.Event {
	var out domain.Event
	if updated.HomeTeamID != current.HomeTeamID {
		out.HomeTeamID = updated.HomeTeamID
	}
	if updated.AwayTeamID != current.AwayTeamID {
		out.AwayTeamID = updated.AwayTeamID
	}
	if updated.MainRefereeID != current.MainRefereeID {
		out.MainRefereeID = updated.MainRefereeID
	}
	if updated.FirstLinesmanID != current.FirstLinesmanID {
		out.FirstLinesmanID = updated.FirstLinesmanID
	}
	if updated.SecondLinesmanID != current.SecondLinesmanID {
		out.SecondLinesmanID = updated.SecondLinesmanID
	}
	return out
}

func validateEvent(e domain.Event) error {
	if e.HomeTeamID == "" || e.AwayTeamID == "" || e.VenueID == "" || e.Date == "" || e.Time == "" {
		return domain.ErrInvalidEvent
	}
	if e.HomeTeamID == e.AwayTeamID {
		return domain.ErrSameTeams
	}
	officials := e.Officials()
	for i := range officials {
		for j := i + 1; j < len(officials); j++ {
			if officials[i] == officials[j] {
				return domain.ErrDuplicateOfficial
			}
		}
	}
	return nil
}

func patch(dst *string, v *string) {
	if v != nil && *v != "" {
		*dst = *v
	}
}

func assignSeatIDs(seats []domain.Seat) {
	for i := range seats {
		seats[i].ID = newUUID()
	}
}
