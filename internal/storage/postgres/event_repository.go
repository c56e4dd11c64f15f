package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/domain"
)

const eventColumns = `id, home_team_id, away_team_id, venue_id, match_date, match_time, starts_at,
	main_referee_id, first_linesman_id, second_linesman_id, created_at`

type EventRepository struct {
	querier
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{querier: querier{pool: pool}}
}

func (r *EventRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *EventRepository) CreateEvent(ctx context.Context, event domain.Event) error {
	const stmt = `
INSERT INTO events (id, home_team_id, away_team_id, venue_id, match_date, match_time, starts_at,
	main_referee_id, first_linesman_id, second_linesman_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.exec(ctx, stmt,
		event.ID,
		event.HomeTeamID,
		event.AwayTeamID,
		event.VenueID,
		event.Date,
		event.Time,
		event.StartsAt,
		nullIfEmpty(event.MainRefereeID),
		nullIfEmpty(event.FirstLinesmanID),
		nullIfEmpty(event.SecondLinesmanID),
		event.CreatedAt,
	)
	if err != nil {
		return eventWriteError("create event", err)
	}
	return nil
}

func (r *EventRepository) UpdateEvent(ctx context.Context, event domain.Event) error {
	const stmt = `
UPDATE events SET
	home_team_id = $2,
	away_team_id = $3,
	venue_id = $4,
	match_date = $5,
	match_time = $6,
	starts_at = $7,
	main_referee_id = $8,
	first_linesman_id = $9,
	second_linesman_id = $10
WHERE id = $1`

	tag, err := r.exec(ctx, stmt,
		event.ID,
		event.HomeTeamID,
		event.AwayTeamID,
		event.VenueID,
		event.Date,
		event.Time,
		event.StartsAt,
		nullIfEmpty(event.MainRefereeID),
		nullIfEmpty(event.FirstLinesmanID),
		nullIfEmpty(event.SecondLinesmanID),
	)
	if err != nil {
		return eventWriteError("update event", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	event, err := scanEvent(r.queryRow(ctx, query, eventID))
	if err != nil {
		if isInvalidUUID(err) || errors.Is(err, pgx.ErrNoRows) {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (r *EventRepository) ListEvents(ctx context.Context) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY starts_at, id`
	return r.listEvents(ctx, "list events", query)
}

// FindEventsByAny returns every event that uses the filter's venue, any of its teams in either
// slot, or any of its officials in any role, and starts inside the filter's start bounds.
func (r *EventRepository) FindEventsByAny(ctx context.Context, filter domain.ResourceFilter) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events
WHERE (venue_id = NULLIF($1, '')::uuid
	OR home_team_id = ANY($2::text[]::uuid[])
	OR away_team_id = ANY($2::text[]::uuid[])
	OR main_referee_id = ANY($3::text[]::uuid[])
	OR first_linesman_id = ANY($3::text[]::uuid[])
	OR second_linesman_id = ANY($3::text[]::uuid[]))
	AND ($4::timestamptz IS NULL OR starts_at >= $4)
	AND ($5::timestamptz IS NULL OR starts_at <= $5)`

	teams := filter.TeamIDs
	if teams == nil {
		teams = []string{}
	}
	officials := filter.OfficialIDs
	if officials == nil {
		officials = []string{}
	}
	events, err := r.listEvents(ctx, "find events by resource", query,
		filter.VenueID, teams, officials, nullIfZero(filter.StartsFrom), nullIfZero(filter.StartsTo))
	if err != nil && isInvalidUUID(err) {
		return nil, domain.ErrInvalidID
	}
	return events, err
}

func (r *EventRepository) InsertSeats(ctx context.Context, seats []domain.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	ids := make([]string, len(seats))
	eventIDs := make([]string, len(seats))
	rowNums := make([]int32, len(seats))
	colNums := make([]int32, len(seats))
	for i, s := range seats {
		ids[i] = s.ID
		eventIDs[i] = s.EventID
		rowNums[i] = int32(s.Row)
		colNums[i] = int32(s.Column)
	}

	const stmt = `
INSERT INTO seats (id, event_id, seat_row, seat_column)
SELECT id::uuid, event_id::uuid, seat_row, seat_column
FROM unnest($1::text[], $2::text[], $3::int[], $4::int[]) AS s(id, event_id, seat_row, seat_column)`

	if _, err := r.exec(ctx, stmt, ids, eventIDs, rowNums, colNums); err != nil {
		if mapped := foreignKeyError(err); mapped != nil {
			return mapped
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("insert seats: %w", err)
	}
	return nil
}

func (r *EventRepository) ListSeats(ctx context.Context, eventID string) ([]domain.Seat, error) {
	const query = `
SELECT id, event_id, seat_row, seat_column, reservation_id
FROM seats
WHERE event_id = $1
ORDER BY seat_row, seat_column`

	rows, err := r.query(ctx, query, eventID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("list seats: %w", err)
	}
	seats, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Seat, error) {
		return scanSeat(row)
	})
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("list seats: %w", err)
	}
	return seats, nil
}

func (r *EventRepository) listEvents(ctx context.Context, op, query string, args ...any) ([]domain.Event, error) {
	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	events, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Event, error) {
		return scanEvent(row)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return events, nil
}

func scanEvent(row pgx.Row) (domain.Event, error) {
	var (
		e                            domain.Event
		mainRef, firstLine, secondLn *string
	)
	err := row.Scan(
		&e.ID,
		&e.HomeTeamID,
		&e.AwayTeamID,
		&e.VenueID,
		&e.Date,
		&e.Time,
		&e.StartsAt,
		&mainRef,
		&firstLine,
		&secondLn,
		&e.CreatedAt,
	)
	if err != nil {
		return domain.Event{}, err
	}
	e.MainRefereeID = deref(mainRef)
	e.FirstLinesmanID = deref(firstLine)
	e.SecondLinesmanID = deref(secondLn)
	return e, nil
}

func scanSeat(row pgx.Row) (domain.Seat, error) {
	var (
		s             domain.Seat
		reservationID *string
	)
	if err := row.Scan(&s.ID, &s.EventID, &s.Row, &s.Column, &reservationID); err != nil {
		return domain.Seat{}, err
	}
	s.ReservationID = deref(reservationID)
	return s, nil
}

func eventWriteError(op string, err error) error {
	if mapped := foreignKeyError(err); mapped != nil {
		return mapped
	}
	if isInvalidUUID(err) {
		return domain.ErrInvalidID
	}
	return fmt.Errorf("%s: %w", op, err)
}
