package app

import (
	"context"
	"fmt"

	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/domain"
)

// SeatStore is the persistence contract for seat bindings. An empty reservation id stands for
// a free seat. CompareAndSwapReservation must be a single conditional update.
type SeatStore interface {
	FindSeat(ctx context.Context, eventID string, row, column int) (domain.Seat, error)
	GetSeat(ctx context.Context, seatID string) (domain.Seat, error)
	CompareAndSwapReservation(ctx context.Context, seatID, expected, next string) (bool, error)
}

const releaseAttempts = 3

// SeatLedger is the only writer of Seat.ReservationID.
type SeatLedger struct {
	store SeatStore
}

func NewSeatLedger(store SeatStore) *SeatLedger {
	return &SeatLedger{store: store}
}

func (l *SeatLedger) FindSeat(ctx context.Context, eventID string, row, column int) (domain.Seat, error) {
	if row < 1 || column < 1 {
		return domain.Seat{}, domain.ErrSeatNotFound
	}
	return l.store.FindSeat(ctx, eventID, row, column)
}

func (l *SeatLedger) GetSeat(ctx context.Context, seatID string) (domain.Seat, error) {
	return l.store.GetSeat(ctx, seatID)
}

// Claim binds reservationID to a free seat. At most one claim succeeds until the seat is released.
func (l *SeatLedger) Claim(ctx context.Context, seatID, reservationID string) error {
	if reservationID == "" {
		return fmt.Errorf("claim seat %s: empty reservation id", seatID)
	}
	ok, err := l.store.CompareAndSwapReservation(ctx, seatID, "", reservationID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrSeatAlreadyReserved
	}
	return nil
}

// Release frees a seat and returns the reservation id it held. A free seat yields
// domain.ErrNotReserved, which callers treat as a no-op.
func (l *SeatLedger) Release(ctx context.Context, seatID string) (string, error) {
	for i := 0; i < releaseAttempts; i++ {
		seat, err := l.store.GetSeat(ctx, seatID)
		if err != nil {
			return "", err
		}
		if !seat.Reserved() {
			return "", domain.ErrNotReserved
		}
		ok, err := l.store.CompareAndSwapReservation(ctx, seatID, seat.ReservationID, "")
		if err != nil {
			return "", err
		}
		if ok {
			return seat.ReservationID, nil
		}
	}
	return "", fmt.Errorf("release seat %s: binding kept changing", seatID)
}

// ReleaseIf frees the seat only while it is still bound to reservationID.
func (l *SeatLedger) ReleaseIf(ctx context.Context, seatID, reservationID string) error {
	ok, err := l.store.CompareAndSwapReservation(ctx, seatID, reservationID, "")
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotReserved
	}
	return nil
}
