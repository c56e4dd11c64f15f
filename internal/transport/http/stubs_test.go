package http

import (
	"context"

	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/app"
	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/domain"
)

type stubEventService struct {
	event  domain.Event
	events []domain.Event
	seats  []domain.Seat
	layout [][]domain.LayoutCell
	err    error

	createIn app.CreateEventInput
	editIn   app.EditEventInput
	gotID    string
}

func (s *stubEventService) CreateEvent(_ context.Context, in app.CreateEventInput) (domain.Event, error) {
	s.createIn = in
	return s.event, s.err
}

func (s *stubEventService) EditEvent(_ context.Context, in app.EditEventInput) (domain.Event, error) {
	s.editIn = in
	return s.event, s.err
}

func (s *stubEventService) GetEvent(_ context.Context, eventID string) (domain.Event, error) {
	s.gotID = eventID
	return s.event, s.err
}

func (s *stubEventService) ListEvents(context.Context) ([]domain.Event, error) {
	return s.events, s.err
}

func (s *stubEventService) ListSeats(_ context.Context, eventID string) ([]domain.Seat, error) {
	s.gotID = eventID
	return s.seats, s.err
}

func (s *stubEventService) SeatLayout(_ context.Context, eventID string) ([][]domain.LayoutCell, error) {
	s.gotID = eventID
	return s.layout, s.err
}

type stubSeatReserver struct {
	claim  app.ClaimSeatResult
	cancel app.CancelSeatResult
	err    error

	claimIn  app.ClaimSeatInput
	cancelIn app.CancelSeatInput
}

func (s *stubSeatReserver) ClaimSeat(_ context.Context, in app.ClaimSeatInput) (app.ClaimSeatResult, error) {
	s.claimIn = in
	return s.claim, s.err
}

func (s *stubSeatReserver) CancelSeat(_ context.Context, in app.CancelSeatInput) (app.CancelSeatResult, error) {
	s.cancelIn = in
	return s.cancel, s.err
}

type stubCatalog struct {
	venues    []domain.Venue
	teams     []domain.Team
	officials []domain.Official
	err       error

	venueIn app.CreateVenueInput
	name    string
}

func (s *stubCatalog) CreateVenue(_ context.Context, in app.CreateVenueInput) (domain.Venue, error) {
	s.venueIn = in
	return domain.Venue{ID: "v1", Name: in.Name, Rows: in.Rows, Columns: in.Columns}, s.err
}

func (s *stubCatalog) ListVenues(context.Context) ([]domain.Venue, error) {
	return s.venues, s.err
}

func (s *stubCatalog) CreateTeam(_ context.Context, name string) (domain.Team, error) {
	s.name = name
	return domain.Team{ID: "t1", Name: name}, s.err
}

func (s *stubCatalog) ListTeams(context.Context) ([]domain.Team, error) {
	return s.teams, s.err
}

func (s *stubCatalog) CreateOfficial(_ context.Context, name string) (domain.Official, error) {
	s.name = name
	return domain.Official{ID: "o1", Name: name}, s.err
}

func (s *stubCatalog) ListOfficials(context.Context) ([]domain.Official, error) {
	return s.officials, s.err
}
