package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/app"
	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/config"
	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/storage/postgres"
	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/storage/sqlitestore"
	transporthttp "github.com/AhmedZahran02/Tazkarti-BackEnd/internal/transport/http"
	"github.com/AhmedZahran02/Tazkarti-BackEnd/migrations"
)

// stores bundles the repositories for the configured driver.
type stores struct {
	events interface {
		app.EventRepository
		app.EventFinder
	}
	tickets interface {
		app.TicketRepository
		app.TicketReader
	}
	seats   app.SeatStore
	refs    app.ReferenceReader
	catalog app.CatalogRepository
	pinger  transporthttp.Pinger
	close   func()
}

func openStores(ctx context.Context, cfg config.App, logger *slog.Logger, skipMigrations bool) (stores, error) {
	switch cfg.StorageDriver {
	case config.DriverSQLite:
		return openSQLite(ctx, cfg, logger)
	default:
		return openPostgres(ctx, cfg, logger, skipMigrations)
	}
}

func openPostgres(ctx context.Context, cfg config.App, logger *slog.Logger, skipMigrations bool) (stores, error) {
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return stores{}, fmt.Errorf("connect to db: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return stores{}, fmt.Errorf("db ping: %w", err)
	}
	if !skipMigrations {
		applied, err := migrations.Apply(ctx, pool)
		if err != nil {
			pool.Close()
			return stores{}, fmt.Errorf("apply migrations: %w", err)
		}
		logger.Info("migrations applied", slog.Int("count", len(applied)), slog.Any("names", applied))
	}

	catalog := postgres.NewCatalogRepository(pool)
	return stores{
		events:  postgres.NewEventRepository(pool),
		tickets: postgres.NewTicketRepository(pool),
		seats:   postgres.NewSeatRepository(pool),
		refs:    catalog,
		catalog: catalog,
		pinger:  pool,
		close:   pool.Close,
	}, nil
}

func openSQLite(ctx context.Context, cfg config.App, logger *slog.Logger) (stores, error) {
	store, err := sqlitestore.Open(ctx, sqlitestore.Config{
		Path:   cfg.SQLitePath,
		Logger: logger,
	})
	if err != nil {
		return stores{}, err
	}
	return stores{
		events:  store,
		tickets: store,
		seats:   store,
		refs:    store,
		catalog: store,
		pinger:  store,
		close: func() {
			if err := store.Close(); err != nil {
				logger.Warn("close sqlite store", slog.Any("error", err))
			}
		},
	}, nil
}
