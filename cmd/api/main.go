package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/app"
	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/clock"
	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/config"
	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/notify"
	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/obs"
	transporthttp "github.com/AhmedZahran02/Tazkarti-BackEnd/internal/transport/http"
)

const (
	serviceName    = "tazkarti-api"
	startupTimeout = 10 * time.Second
)

var version = "dev"

func main() {
	envFile := pflag.String("env-file", "", "load variables from this file instead of the nearest .env")
	skipMigrations := pflag.Bool("skip-migrations", false, "do not apply Postgres migrations at startup")
	pflag.Parse()

	if err := run(*envFile, *skipMigrations); err != nil {
		slog.Error("api exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(envFile string, skipMigrations bool) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startupCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	shutdownTracer, err := obs.InitTracer(startupCtx, obs.TracerConfig{
		ServiceName: serviceName,
		Version:     version,
		Environment: cfg.Environment,
		Endpoint:    cfg.OTLPEndpoint,
	})
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer flushCancel()
		if err := shutdownTracer(flushCtx); err != nil {
			logger.Warn("tracer shutdown", slog.Any("error", err))
		}
	}()

	st, err := openStores(startupCtx, cfg, logger, skipMigrations)
	if err != nil {
		return err
	}
	defer st.close()

	notifier, closeNotifier, err := newNotifier(cfg, logger)
	if err != nil {
		return err
	}
	defer closeNotifier()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	clk := clock.NewSystem()
	conflicts := app.NewConflictDetector(st.events, st.tickets,
		app.WithResourceWindow(cfg.ResourceConflictWindow),
		app.WithUserWindow(cfg.UserCollisionWindow),
	)
	events := app.NewEventService(st.events, st.refs, conflicts, clk, app.WithEventLocation(loc))
	reservations := app.NewReservationService(st.events, st.tickets, app.NewSeatLedger(st.seats), conflicts, clk,
		app.WithSeatNotifier(notifier),
		app.WithNotifyTimeout(cfg.NotifyTimeout),
		app.WithReservationLogger(logger),
	)
	catalog := app.NewCatalogService(st.catalog)

	handler := transporthttp.NewRouter(transporthttp.Services{
		Events:       events,
		Reservations: reservations,
		Catalog:      catalog,
		Store:        st.pinger,
	}, cfg.Origins(), logger)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("api listening",
		slog.String("addr", server.Addr),
		slog.String("storage", cfg.StorageDriver),
		slog.String("version", version),
	)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server shutdown", slog.Any("error", err))
	}
	logger.Info("server stopped")
	return nil
}

func newLogger(cfg config.App) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		h = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(h).With(slog.String("service", serviceName))
}

// newNotifier publishes to RabbitMQ when RABBIT_URL is set and logs seat changes otherwise.
func newNotifier(cfg config.App, logger *slog.Logger) (app.SeatNotifier, func(), error) {
	if cfg.RabbitURL == "" {
		return notify.NewLogNotifier(logger), func() {}, nil
	}
	pub, err := notify.NewPublisher(cfg.RabbitURL, cfg.SeatExchange)
	if err != nil {
		return nil, nil, fmt.Errorf("connect broker: %w", err)
	}
	logger.Info("publishing seat changes", slog.String("exchange", cfg.SeatExchange))
	return pub, func() {
		if err := pub.Close(); err != nil {
			logger.Warn("close publisher", slog.Any("error", err))
		}
	}, nil
}
