package sqlitestore

import (
	"context"
	"fmt"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/domain"
)

func (s *Store) CreateVenue(ctx context.Context, venue domain.Venue) error {
	return s.withConn(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn, `INSERT INTO venues (id, name, seat_rows, seat_columns) VALUES (?, ?, ?, ?)`,
			&sqlitex.ExecOptions{Args: []any{venue.ID, venue.Name, venue.Rows, venue.Columns}})
		if err != nil {
			return fmt.Errorf("create venue: %w", err)
		}
		return nil
	})
}

func (s *Store) GetVenue(ctx context.Context, venueID string) (domain.Venue, error) {
	var (
		v     domain.Venue
		found bool
	)
	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, `SELECT id, name, seat_rows, seat_columns FROM venues WHERE id = ?`, &sqlitex.ExecOptions{
			Args: []any{venueID},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				v = scanVenue(stmt)
				found = true
				return nil
			},
		})
	})
	if err != nil {
		return domain.Venue{}, fmt.Errorf("get venue: %w", err)
	}
	if !found {
		return domain.Venue{}, domain.ErrVenueNotFound
	}
	return v, nil
}

func (s *Store) ListVenues(ctx context.Context) ([]domain.Venue, error) {
	var venues []domain.Venue
	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, `SELECT id, name, seat_rows, seat_columns FROM venues ORDER BY name, id`, &sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				venues = append(venues, scanVenue(stmt))
				return nil
			},
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	return venues, nil
}

func (s *Store) CreateTeam(ctx context.Context, team domain.Team) error {
	return s.withConn(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn, `INSERT INTO teams (id, name) VALUES (?, ?)`,
			&sqlitex.ExecOptions{Args: []any{team.ID, team.Name}})
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrTeamAlreadyExists
			}
			return fmt.Errorf("create team: %w", err)
		}
		return nil
	})
}

func (s *Store) GetTeam(ctx context.Context, teamID string) (domain.Team, error) {
	name, found, err := s.lookupName(ctx, `SELECT name FROM teams WHERE id = ?`, teamID)
	if err != nil {
		return domain.Team{}, fmt.Errorf("get team: %w", err)
	}
	if !found {
		return domain.Team{}, domain.ErrTeamNotFound
	}
	return domain.Team{ID: teamID, Name: name}, nil
}

func (s *Store) ListTeams(ctx context.Context) ([]domain.Team, error) {
	var teams []domain.Team
	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, `SELECT id, name FROM teams ORDER BY name`, &sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				teams = append(teams, domain.Team{ID: stmt.ColumnText(0), Name: stmt.ColumnText(1)})
				return nil
			},
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return teams, nil
}

func (s *Store) CountTeams(ctx context.Context) (int, error) {
	var n int
	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, `SELECT COUNT(*) FROM teams`, &sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				n = stmt.ColumnInt(0)
				return nil
			},
		})
	})
	if err != nil {
		return 0, fmt.Errorf("count teams: %w", err)
	}
	return n, nil
}

func (s *Store) CreateOfficial(ctx context.Context, official domain.Official) error {
	return s.withConn(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn, `INSERT INTO officials (id, name) VALUES (?, ?)`,
			&sqlitex.ExecOptions{Args: []any{official.ID, official.Name}})
		if err != nil {
			return fmt.Errorf("create official: %w", err)
		}
		return nil
	})
}

func (s *Store) GetOfficial(ctx context.Context, officialID string) (domain.Official, error) {
	name, found, err := s.lookupName(ctx, `SELECT name FROM officials WHERE id = ?`, officialID)
	if err != nil {
		return domain.Official{}, fmt.Errorf("get official: %w", err)
	}
	if !found {
		return domain.Official{}, domain.ErrOfficialNotFound
	}
	return domain.Official{ID: officialID, Name: name}, nil
}

func (s *Store) ListOfficials(ctx context.Context) ([]domain.Official, error) {
	var officials []domain.Official
	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, `SELECT id, name FROM officials ORDER BY name, id`, &sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				officials = append(officials, domain.Official{ID: stmt.ColumnText(0), Name: stmt.ColumnText(1)})
				return nil
			},
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list officials: %w", err)
	}
	return officials, nil
}

func (s *Store) lookupName(ctx context.Context, query, id string) (name string, found bool, err error) {
	err = s.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
			Args: []any{id},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				name = stmt.ColumnText(0)
				found = true
				return nil
			},
		})
	})
	return name, found, err
}

func scanVenue(stmt *sqlite.Stmt) domain.Venue {
	return domain.Venue{
		ID:      stmt.ColumnText(0),
		Name:    stmt.ColumnText(1),
		Rows:    stmt.ColumnInt(2),
		Columns: stmt.ColumnInt(3),
	}
}
