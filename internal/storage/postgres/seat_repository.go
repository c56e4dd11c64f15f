package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/domain"
)

// SeatRepository owns the reservation binding on seats. Every write is a single conditional
// UPDATE, so concurrent claimers are serialized by the row lock.
type SeatRepository struct {
	querier
}

func NewSeatRepository(pool *pgxpool.Pool) *SeatRepository {
	return &SeatRepository{querier: querier{pool: pool}}
}

func (r *SeatRepository) FindSeat(ctx context.Context, eventID string, row, column int) (domain.Seat, error) {
	const query = `
SELECT id, event_id, seat_row, seat_column, reservation_id
FROM seats
WHERE event_id = $1 AND seat_row = $2 AND seat_column = $3`

	seat, err := scanSeat(r.queryRow(ctx, query, eventID, row, column))
	if err != nil {
		if isInvalidUUID(err) || errors.Is(err, pgx.ErrNoRows) {
			return domain.Seat{}, domain.ErrSeatNotFound
		}
		return domain.Seat{}, fmt.Errorf("find seat: %w", err)
	}
	return seat, nil
}

func (r *SeatRepository) GetSeat(ctx context.Context, seatID string) (domain.Seat, error) {
	const query = `SELECT id, event_id, seat_row, seat_column, reservation_id FROM seats WHERE id = $1`

	seat, err := scanSeat(r.queryRow(ctx, query, seatID))
	if err != nil {
		if isInvalidUUID(err) || errors.Is(err, pgx.ErrNoRows) {
			return domain.Seat{}, domain.ErrSeatNotFound
		}
		return domain.Seat{}, fmt.Errorf("get seat: %w", err)
	}
	return seat, nil
}

// CompareAndSwapReservation sets the seat's reservation to next only while it equals expected.
// Empty strings stand for NULL on both sides.
func (r *SeatRepository) CompareAndSwapReservation(ctx context.Context, seatID, expected, next string) (bool, error) {
	const stmt = `
UPDATE seats
SET reservation_id = NULLIF($3, '')
WHERE id = $1 AND reservation_id IS NOT DISTINCT FROM NULLIF($2, '')`

	tag, err := r.exec(ctx, stmt, seatID, expected, next)
	if err != nil {
		if isInvalidUUID(err) {
			return false, domain.ErrSeatNotFound
		}
		return false, fmt.Errorf("swap seat reservation: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}

	var exists bool
	if err := r.queryRow(ctx, `SELECT EXISTS (SELECT 1 FROM seats WHERE id = $1)`, seatID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check seat: %w", err)
	}
	if !exists {
		return false, domain.ErrSeatNotFound
	}
	return false, nil
}
