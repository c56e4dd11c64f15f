package domain

import "time"

// Seat is one cell of an event's seating grid. An empty ReservationID means the seat is free.
type Seat struct {
	ID            string
	EventID       string
	Row           int
	Column        int
	ReservationID string
}

func (s Seat) Reserved() bool {
	return s.ReservationID != ""
}

// Ticket binds one user to one seat of one event.
type Ticket struct {
	ID            string
	ReservationID string
	SeatID        string
	EventID       string
	UserID        string
	CreatedAt     time.Time
	CancelledAt   *time.Time
	CancelledBy   string
}

func (t Ticket) Active() bool {
	return t.CancelledAt == nil
}

type SeatAction string

const (
	SeatActionReserved SeatAction = "reserved"
	SeatActionReleased SeatAction = "released"
)

// SeatChange describes a decided claim or release, for broadcasting to other viewers.
type SeatChange struct {
	EventID       string
	SeatID        string
	Row           int
	Column        int
	ReservationID string
	Action        SeatAction
	At            time.Time
}
