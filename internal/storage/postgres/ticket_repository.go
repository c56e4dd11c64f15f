package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/domain"
)

type TicketRepository struct {
	querier
}

func NewTicketRepository(pool *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{querier: querier{pool: pool}}
}

func (r *TicketRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *TicketRepository) CreateTicket(ctx context.Context, ticket domain.Ticket) error {
	const stmt = `
INSERT INTO tickets (id, reservation_id, seat_id, event_id, user_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.exec(ctx, stmt,
		ticket.ID,
		ticket.ReservationID,
		ticket.SeatID,
		ticket.EventID,
		ticket.UserID,
		ticket.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrReservationIDTaken
		}
		if mapped := foreignKeyError(err); mapped != nil {
			return mapped
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create ticket: %w", err)
	}
	return nil
}

// CancelTicket stamps the active ticket holding reservationID. It returns domain.ErrTicketNotFound
// when no active ticket matches, so a surrounding seat release can be rolled back.
func (r *TicketRepository) CancelTicket(ctx context.Context, reservationID, cancelledBy string, at time.Time) error {
	const stmt = `
UPDATE tickets
SET cancelled_at = $3, cancelled_by = $2
WHERE reservation_id = $1 AND cancelled_at IS NULL`

	tag, err := r.exec(ctx, stmt, reservationID, nullIfEmpty(cancelledBy), at)
	if err != nil {
		return fmt.Errorf("cancel ticket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}

func (r *TicketRepository) ListActiveTicketsByUser(ctx context.Context, userID string) ([]domain.Ticket, error) {
	const query = `
SELECT id, reservation_id, seat_id, event_id, user_id, created_at, cancelled_at, cancelled_by
FROM tickets
WHERE user_id = $1 AND cancelled_at IS NULL
ORDER BY created_at`

	rows, err := r.query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	tickets, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Ticket, error) {
		var (
			t           domain.Ticket
			cancelledBy *string
		)
		err := row.Scan(&t.ID, &t.ReservationID, &t.SeatID, &t.EventID, &t.UserID, &t.CreatedAt, &t.CancelledAt, &cancelledBy)
		t.CancelledBy = deref(cancelledBy)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return tickets, nil
}
