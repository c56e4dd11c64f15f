package sqlitestore

import (
	"context"
	"fmt"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/domain"
)

func (s *Store) CreateTicket(ctx context.Context, ticket domain.Ticket) error {
	const stmt = `
INSERT INTO tickets (id, reservation_id, seat_id, event_id, user_id, created_at)
VALUES (?, ?, ?, ?, ?, ?)`

	return s.withConn(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn, stmt, &sqlitex.ExecOptions{Args: []any{
			ticket.ID,
			ticket.ReservationID,
			ticket.SeatID,
			ticket.EventID,
			ticket.UserID,
			ticket.CreatedAt.UnixNano(),
		}})
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrReservationIDTaken
			}
			if isForeignKeyViolation(err) {
				return domain.ErrSeatNotFound
			}
			return fmt.Errorf("create ticket: %w", err)
		}
		return nil
	})
}

// CancelTicket stamps the active ticket holding reservationID, or returns domain.ErrTicketNotFound.
func (s *Store) CancelTicket(ctx context.Context, reservationID, cancelledBy string, at time.Time) error {
	const stmt = `
UPDATE tickets
SET cancelled_at = ?, cancelled_by = ?
WHERE reservation_id = ? AND cancelled_at IS NULL`

	return s.withConn(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn, stmt, &sqlitex.ExecOptions{
			Args: []any{at.UnixNano(), nullable(cancelledBy), reservationID},
		})
		if err != nil {
			return fmt.Errorf("cancel ticket: %w", err)
		}
		if conn.Changes() == 0 {
			return domain.ErrTicketNotFound
		}
		return nil
	})
}

func (s *Store) ListActiveTicketsByUser(ctx context.Context, userID string) ([]domain.Ticket, error) {
	const query = `
SELECT id, reservation_id, seat_id, event_id, user_id, created_at, cancelled_at, cancelled_by
FROM tickets
WHERE user_id = ? AND cancelled_at IS NULL
ORDER BY created_at`

	var tickets []domain.Ticket
	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
			Args: []any{userID},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				tickets = append(tickets, domain.Ticket{
					ID:            stmt.ColumnText(0),
					ReservationID: stmt.ColumnText(1),
					SeatID:        stmt.ColumnText(2),
					EventID:       stmt.ColumnText(3),
					UserID:        stmt.ColumnText(4),
					CreatedAt:     columnTime(stmt, 5),
					CancelledAt:   columnOptionalTime(stmt, 6),
					CancelledBy:   stmt.ColumnText(7),
				})
				return nil
			},
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return tickets, nil
}
