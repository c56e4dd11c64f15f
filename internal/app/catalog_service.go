package app

import (
	"context"
	"strings"

	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/domain"
)

// MaxTeams caps the number of registered teams.
const MaxTeams = 18

type CatalogRepository interface {
	CreateVenue(ctx context.Context, venue domain.Venue) error
	ListVenues(ctx context.Context) ([]domain.Venue, error)
	CreateTeam(ctx context.Context, team domain.Team) error
	ListTeams(ctx context.Context) ([]domain.Team, error)
	CountTeams(ctx context.Context) (int, error)
	CreateOfficial(ctx context.Context, official domain.Official) error
	ListOfficials(ctx context.Context) ([]domain.Official, error)
}

// CatalogService manages the venues, teams and officials events refer to.
type CatalogService struct {
	repo CatalogRepository
}

func NewCatalogService(repo CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

type CreateVenueInput struct {
	Name    string
	Rows    int
	Columns int
}

func (s *CatalogService) CreateVenue(ctx context.Context, in CreateVenueInput) (domain.Venue, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Venue{}, domain.ErrNameRequired
	}
	if in.Rows < 1 || in.Columns < 1 {
		return domain.Venue{}, domain.ErrInvalidDimensions
	}

	venue := domain.Venue{
		ID:      newUUID(),
		Name:    name,
		Rows:    in.Rows,
		Columns: in.Columns,
	}
	if err := s.repo.CreateVenue(ctx, venue); err != nil {
		return domain.Venue{}, err
	}
	return venue, nil
}

func (s *CatalogService) ListVenues(ctx context.Context) ([]domain.Venue, error) {
	return s.repo.ListVenues(ctx)
}

// CreateTeam registers a team. Names are unique; the store reports duplicates as
// domain.ErrTeamAlreadyExists.
func (s *CatalogService) CreateTeam(ctx context.Context, name string) (domain.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Team{}, domain.ErrNameRequired
	}

	count, err := s.repo.CountTeams(ctx)
	if err != nil {
		return domain.Team{}, err
	}
	if count >= MaxTeams {
		return domain.Team{}, domain.ErrTeamLimitReached
	}

	team := domain.Team{ID: newUUID(), Name: name}
	if err := s.repo.CreateTeam(ctx, team); err != nil {
		return domain.Team{}, err
	}
	return team, nil
}

func (s *CatalogService) ListTeams(ctx context.Context) ([]domain.Team, error) {
	return s.repo.ListTeams(ctx)
}

func (s *CatalogService) CreateOfficial(ctx context.Context, name string) (domain.Official, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Official{}, domain.ErrNameRequired
	}

	official := domain.Official{ID: newUUID(), Name: name}
	if err := s.repo.CreateOfficial(ctx, official); err != nil {
		return domain.Official{}, err
	}
	return official, nil
}

func (s *CatalogService) ListOfficials(ctx context.Context) ([]domain.Official, error) {
	return s.repo.ListOfficials(ctx)
}
