package sqlitestore

import (
	"context"
	"fmt"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/domain"
)

const seatColumns = `id, event_id, seat_row, seat_column, reservation_id`

func (s *Store) FindSeat(ctx context.Context, eventID string, row, column int) (domain.Seat, error) {
	return s.oneSeat(ctx, `SELECT `+seatColumns+` FROM seats WHERE event_id = ? AND seat_row = ? AND seat_column = ?`, eventID, row, column)
}

func (s *Store) GetSeat(ctx context.Context, seatID string) (domain.Seat, error) {
	return s.oneSeat(ctx, `SELECT `+seatColumns+` FROM seats WHERE id = ?`, seatID)
}

// CompareAndSwapReservation sets the seat's reservation to next only while it equals expected.
// Empty strings stand for NULL on both sides. SQLite serializes writers, so the single UPDATE
// decides concurrent claims.
func (s *Store) CompareAndSwapReservation(ctx context.Context, seatID, expected, next string) (bool, error) {
	var swapped, exists bool
	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn, `UPDATE seats SET reservation_id = ? WHERE id = ? AND reservation_id IS ?`,
			&sqlitex.ExecOptions{Args: []any{nullable(next), seatID, nullable(expected)}})
		if err != nil {
			return err
		}
		if conn.Changes() == 1 {
			swapped, exists = true, true
			return nil
		}
		return sqlitex.Execute(conn, `SELECT 1 FROM seats WHERE id = ?`, &sqlitex.ExecOptions{
			Args: []any{seatID},
			ResultFunc: func(*sqlite.Stmt) error {
				exists = true
				return nil
			},
		})
	})
	if err != nil {
		return false, fmt.Errorf("swap seat reservation: %w", err)
	}
	if !exists {
		return false, domain.ErrSeatNotFound
	}
	return swapped, nil
}

func (s *Store) oneSeat(ctx context.Context, query string, args ...any) (domain.Seat, error) {
	var (
		seat  domain.Seat
		found bool
	)
	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
			Args: args,
			ResultFunc: func(stmt *sqlite.Stmt) error {
				seat = scanSeat(stmt)
				found = true
				return nil
			},
		})
	})
	if err != nil {
		return domain.Seat{}, fmt.Errorf("get seat: %w", err)
	}
	if !found {
		return domain.Seat{}, domain.ErrSeatNotFound
	}
	return seat, nil
}

func scanSeat(stmt *sqlite.Stmt) domain.Seat {
	return domain.Seat{
		ID:            stmt.ColumnText(0),
		EventID:       stmt.ColumnText(1),
		Row:           stmt.ColumnInt(2),
		Column:        stmt.ColumnInt(3),
		ReservationID: stmt.ColumnText(4),
	}
}
