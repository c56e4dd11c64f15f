package domain

import "errors"

var (
	ErrInvalidDimensions    = errors.New("invalid seat grid dimensions")
	ErrShrinkNotAllowed     = errors.New("seat grid cannot shrink")
	ErrInvalidTimestamp     = errors.New("invalid date or time")
	ErrPastStartTime        = errors.New("event start must be in the future")
	ErrScheduleConflict     = errors.New("venue, team or official already scheduled within the conflict window")
	ErrVenueTooSmall        = errors.New("new venue is smaller than the current venue")
	ErrUserScheduleConflict = errors.New("user already holds a ticket for an overlapping event")
	ErrSeatNotFound         = errors.New("seat not found")
	ErrSeatAlreadyReserved  = errors.New("seat already reserved")
	ErrEventNotFound        = errors.New("event not found")
	// ErrNotReserved is a soft outcome: releasing a free seat is a no-op, not a failure.
	ErrNotReserved = errors.New("seat is not reserved")

	ErrVenueNotFound      = errors.New("venue not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrOfficialNotFound   = errors.New("official not found")
	ErrInvalidID          = errors.New("invalid id")
	ErrInvalidEvent       = errors.New("event requires home team, away team, venue, date and time")
	ErrSameTeams          = errors.New("home and away team must differ")
	ErrDuplicateOfficial  = errors.New("an official cannot hold two roles in one event")
	ErrNameRequired       = errors.New("name required")
	ErrTeamAlreadyExists  = errors.New("team already exists")
	ErrTeamLimitReached   = errors.New("team limit reached")
	ErrReservationIDTaken = errors.New("reservation id already issued")
	ErrTicketNotFound     = errors.New("no active ticket for reservation")
)
