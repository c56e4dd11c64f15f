package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/domain"
)

type CatalogRepository struct {
	querier
}

func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{querier: querier{pool: pool}}
}

func (r *CatalogRepository) CreateVenue(ctx context.Context, venue domain.Venue) error {
	const stmt = `INSERT INTO venues (id, name, seat_rows, seat_columns) VALUES ($1, $2, $3, $4)`
	if _, err := r.exec(ctx, stmt, venue.ID, venue.Name, venue.Rows, venue.Columns); err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create venue: %w", err)
	}
	return nil
}

func (r *CatalogRepository) GetVenue(ctx context.Context, venueID string) (domain.Venue, error) {
	const query = `SELECT id, name, seat_rows, seat_columns FROM venues WHERE id = $1`
	var v domain.Venue
	err := r.queryRow(ctx, query, venueID).Scan(&v.ID, &v.Name, &v.Rows, &v.Columns)
	if err != nil {
		if isInvalidUUID(err) || errors.Is(err, pgx.ErrNoRows) {
			return domain.Venue{}, domain.ErrVenueNotFound
		}
		return domain.Venue{}, fmt.Errorf("get venue: %w", err)
	}
	return v, nil
}

func (r *CatalogRepository) ListVenues(ctx context.Context) ([]domain.Venue, error) {
	const query = `SELECT id, name, seat_rows, seat_columns FROM venues ORDER BY name, id`
	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	defer rows.Close()

	var venues []domain.Venue
	for rows.Next() {
		var v domain.Venue
		if err := rows.Scan(&v.ID, &v.Name, &v.Rows, &v.Columns); err != nil {
			return nil, fmt.Errorf("scan venue: %w", err)
		}
		venues = append(venues, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate venues: %w", err)
	}
	return venues, nil
}

func (r *CatalogRepository) CreateTeam(ctx context.Context, team domain.Team) error {
	const stmt = `INSERT INTO teams (id, name) VALUES ($1, $2)`
	if _, err := r.exec(ctx, stmt, team.ID, team.Name); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrTeamAlreadyExists
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create team: %w", err)
	}
	return nil
}

func (r *CatalogRepository) GetTeam(ctx context.Context, teamID string) (domain.Team, error) {
	var t domain.Team
	err := r.queryRow(ctx, `SELECT id, name FROM teams WHERE id = $1`, teamID).Scan(&t.ID, &t.Name)
	if err != nil {
		if isInvalidUUID(err) || errors.Is(err, pgx.ErrNoRows) {
			return domain.Team{}, domain.ErrTeamNotFound
		}
		return domain.Team{}, fmt.Errorf("get team: %w", err)
	}
	return t, nil
}

func (r *CatalogRepository) ListTeams(ctx context.Context) ([]domain.Team, error) {
	rows, err := r.query(ctx, `SELECT id, name FROM teams ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	teams, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Team, error) {
		var t domain.Team
		err := row.Scan(&t.ID, &t.Name)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return teams, nil
}

func (r *CatalogRepository) CountTeams(ctx context.Context) (int, error) {
	var n int
	if err := r.queryRow(ctx, `SELECT COUNT(*) FROM teams`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count teams: %w", err)
	}
	return n, nil
}

func (r *CatalogRepository) CreateOfficial(ctx context.Context, official domain.Official) error {
	if _, err := r.exec(ctx, `INSERT INTO officials (id, name) VALUES ($1, $2)`, official.ID, official.Name); err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create official: %w", err)
	}
	return nil
}

func (r *CatalogRepository) GetOfficial(ctx context.Context, officialID string) (domain.Official, error) {
	var o domain.Official
	err := r.queryRow(ctx, `SELECT id, name FROM officials WHERE id = $1`, officialID).Scan(&o.ID, &o.Name)
	if err != nil {
		if isInvalidUUID(err) || errors.Is(err, pgx.ErrNoRows) {
			return domain.Official{}, domain.ErrOfficialNotFound
		}
		return domain.Official{}, fmt.Errorf("get official: %w", err)
	}
	return o, nil
}

func (r *CatalogRepository) ListOfficials(ctx context.Context) ([]domain.Official, error) {
	rows, err := r.query(ctx, `SELECT id, name FROM officials ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list officials: %w", err)
	}
	officials, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Official, error) {
		var o domain.Official
		err := row.Scan(&o.ID, &o.Name)
		return o, err
	})
	if err != nil {
		return nil, fmt.Errorf("list officials: %w", err)
	}
	return officials, nil
}
