package sqlitestore

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/domain"
)

const eventColumns = `id, home_team_id, away_team_id, venue_id, match_date, match_time, starts_at,
	main_referee_id, first_linesman_id, second_linesman_id, created_at`

func (s *Store) CreateEvent(ctx context.Context, event domain.Event) error {
	const stmt = `
INSERT INTO events (id, home_team_id, away_team_id, venue_id, match_date, match_time, starts_at,
	main_referee_id, first_linesman_id, second_linesman_id, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	return s.withConn(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn, stmt, &sqlitex.ExecOptions{Args: []any{
			event.ID,
			event.HomeTeamID,
			event.AwayTeamID,
			event.VenueID,
			event.Date,
			event.Time,
			event.StartsAt.UnixNano(),
			nullable(event.MainRefereeID),
			nullable(event.FirstLinesmanID),
			nullable(event.SecondLinesmanID),
			event.CreatedAt.UnixNano(),
		}})
		if err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrInvalidEvent
			}
			return fmt.Errorf("create event: %w", err)
		}
		return nil
	})
}

func (s *Store) UpdateEvent(ctx context.Context, event domain.Event) error {
	const stmt = `
UPDATE events SET
	home_team_id = ?, away_team_id = ?, venue_id = ?, match_date = ?, match_time = ?, starts_at = ?,
	main_referee_id = ?, first_linesman_id = ?, second_linesman_id = ?
WHERE id = ?`

	return s.withConn(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn, stmt, &sqlitex.ExecOptions{Args: []any{
			event.HomeTeamID,
			event.AwayTeamID,
			event.VenueID,
			event.Date,
			event.Time,
			event.StartsAt.UnixNano(),
			nullable(event.MainRefereeID),
			nullable(event.FirstLinesmanID),
			nullable(event.SecondLinesmanID),
			event.ID,
		}})
		if err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrInvalidEvent
			}
			return fmt.Errorf("update event: %w", err)
		}
		if conn.Changes() == 0 {
			return domain.ErrEventNotFound
		}
		return nil
	})
}

func (s *Store) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	events, err := s.queryEvents(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, eventID)
	if err != nil {
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	if len(events) == 0 {
		return domain.Event{}, domain.ErrEventNotFound
	}
	return events[0], nil
}

func (s *Store) ListEvents(ctx context.Context) ([]domain.Event, error) {
	events, err := s.queryEvents(ctx, `SELECT `+eventColumns+` FROM events ORDER BY starts_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// FindEventsByAny returns every event that uses the filter's venue, any of its teams in either
// slot, or any of its officials in any role, and starts inside the filter's start bounds. Id lists
// are bound as JSON arrays.
func (s *Store) FindEventsByAny(ctx context.Context, filter domain.ResourceFilter) ([]domain.Event, error) {
	teams, err := jsonList(filter.TeamIDs)
	if err != nil {
		return nil, err
	}
	officials, err := jsonList(filter.OfficialIDs)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + eventColumns + ` FROM events
WHERE (venue_id = ?1
	OR home_team_id IN (SELECT value FROM json_each(?2))
	OR away_team_id IN (SELECT value FROM json_each(?2))
	OR main_referee_id IN (SELECT value FROM json_each(?3))
	OR first_linesman_id IN (SELECT value FROM json_each(?3))
	OR second_linesman_id IN (SELECT value FROM json_each(?3)))
	AND starts_at BETWEEN ?4 AND ?5`

	from, to := int64(math.MinInt64), int64(math.MaxInt64)
	if !filter.StartsFrom.IsZero() {
		from = filter.StartsFrom.UnixNano()
	}
	if !filter.StartsTo.IsZero() {
		to = filter.StartsTo.UnixNano()
	}
	events, err := s.queryEvents(ctx, query, filter.VenueID, teams, officials, from, to)
	if err != nil {
		return nil, fmt.Errorf("find events by resource: %w", err)
	}
	return events, nil
}

func (s *Store) InsertSeats(ctx context.Context, seats []domain.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	return s.withConn(ctx, func(conn *sqlite.Conn) (err error) {
		defer sqlitex.Save(conn)(&err)
		for _, seat := range seats {
			err := sqlitex.Execute(conn, `INSERT INTO seats (id, event_id, seat_row, seat_column) VALUES (?, ?, ?, ?)`,
				&sqlitex.ExecOptions{Args: []any{seat.ID, seat.EventID, seat.Row, seat.Column}})
			if err != nil {
				if isForeignKeyViolation(err) {
					return domain.ErrEventNotFound
				}
				return fmt.Errorf("insert seats: %w", err)
			}
		}
		return nil
	})
}

func (s *Store) ListSeats(ctx context.Context, eventID string) ([]domain.Seat, error) {
	const query = `
SELECT id, event_id, seat_row, seat_column, reservation_id
FROM seats
WHERE event_id = ?
ORDER BY seat_row, seat_column`

	var seats []domain.Seat
	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
			Args: []any{eventID},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				seats = append(seats, scanSeat(stmt))
				return nil
			},
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list seats: %w", err)
	}
	return seats, nil
}

func (s *Store) queryEvents(ctx context.Context, query string, args ...any) ([]domain.Event, error) {
	var events []domain.Event
	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
			Args: args,
			ResultFunc: func(stmt *sqlite.Stmt) error {
				events = append(events, domain.Event{
					ID:               stmt.ColumnText(0),
					HomeTeamID:       stmt.ColumnText(1),
					AwayTeamID:       stmt.ColumnText(2),
					VenueID:          stmt.ColumnText(3),
					Date:             stmt.ColumnText(4),
					Time:             stmt.ColumnText(5),
					StartsAt:         columnTime(stmt, 6),
					MainRefereeID:    stmt.ColumnText(7),
					FirstLinesmanID:  stmt.ColumnText(8),
					SecondLinesmanID: stmt.ColumnText(9),
					CreatedAt:        columnTime(stmt, 10),
				})
				return nil
			},
		})
	})
	return events, err
}

func jsonList(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("encode id list: %w", err)
	}
	return string(b), nil
}
