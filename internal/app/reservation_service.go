package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/clock"
	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/domain"
)

type TicketRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateTicket(ctx context.Context, ticket domain.Ticket) error
	CancelTicket(ctx context.Context, reservationID, cancelledBy string, at time.Time) error
}

// SeatNotifier is told about decided seat changes. Delivery failures never affect the outcome.
type SeatNotifier interface {
	SeatChanged(ctx context.Context, change domain.SeatChange) error
}

// DefaultNotifyTimeout bounds a single seat notification.
const DefaultNotifyTimeout = 5 * time.Second

type ReservationService struct {
	events        EventFinder
	tickets       TicketRepository
	ledger        *SeatLedger
	conflicts     *ConflictDetector
	notifier      SeatNotifier
	notifyTimeout time.Duration
	clock         clock.Clock
	logger        *slog.Logger
}

type ReservationServiceOption func(*ReservationService)

// WithSeatNotifier sets the hook called after successful claims and releases.
func WithSeatNotifier(n SeatNotifier) ReservationServiceOption {
	return func(s *ReservationService) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithNotifyTimeout overrides how long a notification may block a claim or cancel.
func WithNotifyTimeout(d time.Duration) ReservationServiceOption {
	return func(s *ReservationService) {
		if d > 0 {
			s.notifyTimeout = d
		}
	}
}

func WithReservationLogger(logger *slog.Logger) ReservationServiceOption {
	return func(s *ReservationService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewReservationService(events EventFinder, tickets TicketRepository, ledger *SeatLedger, conflicts *ConflictDetector, clk clock.Clock, opts ...ReservationServiceOption) *ReservationService {
	svc := &ReservationService{
		events:        events,
		tickets:       tickets,
		ledger:        ledger,
		conflicts:     conflicts,
		notifyTimeout: DefaultNotifyTimeout,
		clock:         clk,
		logger:        discardLogger(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type ClaimSeatInput struct {
	UserID  string
	EventID string
	Row     int
	Column  int
}

type ClaimSeatResult struct {
	ReservationID string
	Seat          domain.Seat
	Ticket        domain.Ticket
}

// ClaimSeat reserves one seat for a user. The seat's compare-and-set decides the winner among
// concurrent callers. The claim and the ticket write share one transaction; if it fails after
// the claim, the seat is released again before returning.
func (s *ReservationService) ClaimSeat(ctx context.Context, in ClaimSeatInput) (res ClaimSeatResult, err error) {
	ctx, span := tracer.Start(ctx, "ReservationService.ClaimSeat")
	span.SetAttributes(
		attribute.String("event.id", in.EventID),
		attribute.Int("seat.row", in.Row),
		attribute.Int("seat.column", in.Column),
	)
	defer func() { endSpan(span, err) }()

	if in.UserID == "" || in.EventID == "" {
		return ClaimSeatResult{}, domain.ErrInvalidID
	}

	event, err := s.events.GetEvent(ctx, in.EventID)
	if err != nil {
		return ClaimSeatResult{}, err
	}

	collides, err := s.conflicts.HasUserCollision(ctx, in.UserID, event)
	if err != nil {
		return ClaimSeatResult{}, err
	}
	if collides {
		return ClaimSeatResult{}, domain.ErrUserScheduleConflict
	}

	seat, err := s.ledger.FindSeat(ctx, event.ID, in.Row, in.Column)
	if err != nil {
		return ClaimSeatResult{}, err
	}

	now := s.clock.Now()
	reservationID := NewReservationID(event.ID, seat.Row, seat.Column, now)
	ticket := domain.Ticket{
		ID:            newUUID(),
		ReservationID: reservationID,
		SeatID:        seat.ID,
		EventID:       event.ID,
		UserID:        in.UserID,
		CreatedAt:     now,
	}

	// The binding and its ticket commit together, so a concurrent cancel sees both or neither.
	claimed := false
	err = s.tickets.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.ledger.Claim(txCtx, seat.ID, reservationID); err != nil {
			return err
		}
		claimed = true
		return s.tickets.CreateTicket(txCtx, ticket)
	})
	if err != nil {
		if !claimed {
			return ClaimSeatResult{}, err
		}
		return ClaimSeatResult{}, s.compensateClaim(ctx, seat, reservationID, err)
	}

	seat.ReservationID = reservationID
	s.notify(ctx, domain.SeatChange{
		EventID:       event.ID,
		SeatID:        seat.ID,
		Row:           seat.Row,
		Column:        seat.Column,
		ReservationID: reservationID,
		Action:        domain.SeatActionReserved,
		At:            now,
	})

	return ClaimSeatResult{
		ReservationID: reservationID,
		Seat:          seat,
		Ticket:        ticket,
	}, nil
}

// compensateClaim frees a seat whose ticket could not be written. A seat no longer bound to
// reservationID was already rolled back with the transaction.
func (s *ReservationService) compensateClaim(ctx context.Context, seat domain.Seat, reservationID string, cause error) error {
	// The caller may have gone away; the seat must still be freed.
	releaseCtx := context.WithoutCancel(ctx)
	err := s.ledger.ReleaseIf(releaseCtx, seat.ID, reservationID)
	if err != nil && !errors.Is(err, domain.ErrNotReserved) {
		s.logger.Error("compensating seat release failed",
			"seat_id", seat.ID,
			"reservation_id", reservationID,
			"error", err,
		)
		return errors.Join(fmt.Errorf("persist ticket: %w", cause), fmt.Errorf("release seat: %w", err))
	}
	s.logger.Warn("seat released after ticket persistence failure",
		"seat_id", seat.ID,
		"reservation_id", reservationID,
		"error", cause,
	)
	if errors.Is(cause, domain.ErrReservationIDTaken) {
		return cause
	}
	return fmt.Errorf("persist ticket: %w", cause)
}

type CancelSeatInput struct {
	SeatID      string
	RequestedBy string
}

type CancelOutcome string

const (
	CancelOutcomeReleased    CancelOutcome = "released"
	CancelOutcomeNotReserved CancelOutcome = "not_reserved"
)

type CancelSeatResult struct {
	Outcome       CancelOutcome
	ReservationID string
	Seat          domain.Seat
}

// CancelSeat frees a seat and stamps its ticket as cancelled. A free seat is reported as
// CancelOutcomeNotReserved rather than an error. A bound seat without an active ticket fails
// with domain.ErrTicketNotFound and keeps its binding.
func (s *ReservationService) CancelSeat(ctx context.Context, in CancelSeatInput) (res CancelSeatResult, err error) {
	ctx, span := tracer.Start(ctx, "ReservationService.CancelSeat")
	span.SetAttributes(attribute.String("seat.id", in.SeatID))
	defer func() { endSpan(span, err) }()

	if in.SeatID == "" {
		return CancelSeatResult{}, domain.ErrInvalidID
	}

	now := s.clock.Now()
	var result CancelSeatResult

	err = s.tickets.WithTx(ctx, func(txCtx context.Context) error {
		seat, err := s.ledger.GetSeat(txCtx, in.SeatID)
		if err != nil {
			return err
		}

		reservationID, err := s.ledger.Release(txCtx, in.SeatID)
		if errors.Is(err, domain.ErrNotReserved) {
			result = CancelSeatResult{Outcome: CancelOutcomeNotReserved, Seat: seat}
			return nil
		}
		if err != nil {
			return err
		}

		if err := s.tickets.CancelTicket(txCtx, reservationID, in.RequestedBy, now); err != nil {
			return err
		}

		seat.ReservationID = ""
		result = CancelSeatResult{
			Outcome:       CancelOutcomeReleased,
			ReservationID: reservationID,
			Seat:          seat,
		}
		return nil
	})
	if err != nil {
		return CancelSeatResult{}, err
	}

	if result.Outcome == CancelOutcomeReleased {
		s.notify(ctx, domain.SeatChange{
			EventID:       result.Seat.EventID,
			SeatID:        result.Seat.ID,
			Row:           result.Seat.Row,
			Column:        result.Seat.Column,
			ReservationID: result.ReservationID,
			Action:        domain.SeatActionReleased,
			At:            now,
		})
	}
	return result, nil
}

func (s *ReservationService) notify(ctx context.Context, change domain.SeatChange) {
	if s.notifier == nil {
		return
	}
	// The change is already committed; a caller that leaves must not cut the publish short.
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
	defer cancel()
	if err := s.notifier.SeatChanged(notifyCtx, change); err != nil {
		s.logger.Warn("seat notification failed",
			"event_id", change.EventID,
			"seat_id", change.SeatID,
			"action", string(change.Action),
			"error", err,
		)
	}
}
