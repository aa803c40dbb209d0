package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ridgeline-travel/tripbook-api/internal/adapters/fixtures"
	"github.com/ridgeline-travel/tripbook-api/internal/adapters/httpapi"
	membookingrepo "github.com/ridgeline-travel/tripbook-api/internal/adapters/memory/bookingrepo"
	memgrouprepo "github.com/ridgeline-travel/tripbook-api/internal/adapters/memory/grouprepo"
	memidempotency "github.com/ridgeline-travel/tripbook-api/internal/adapters/memory/idempotency"
	mempackagerepo "github.com/ridgeline-travel/tripbook-api/internal/adapters/memory/packagerepo"
	"github.com/ridgeline-travel/tripbook-api/internal/adapters/memory/table"
	memwizardstore "github.com/ridgeline-travel/tripbook-api/internal/adapters/memory/wizardstore"
	"github.com/ridgeline-travel/tripbook-api/internal/app/bookings"
	"github.com/ridgeline-travel/tripbook-api/internal/app/groups"
	"github.com/ridgeline-travel/tripbook-api/internal/app/packages"
	platformclock "github.com/ridgeline-travel/tripbook-api/internal/platform/clock"
	"github.com/ridgeline-travel/tripbook-api/internal/platform/config"
	"github.com/ridgeline-travel/tripbook-api/internal/platform/logger"
	"github.com/ridgeline-travel/tripbook-api/internal/platform/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// The logger is not configured yet; write plainly and exit.
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.LogLevel, cfg.LogPretty)

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("api stopped")
	}
}

func run(cfg config.Config) error {
	data, err := fixtures.Load()
	if err != nil {
		return fmt.Errorf("load seed data: %w", err)
	}

	opts := table.Options{
		Latency:             cfg.SimulatedLatency.Duration,
		RejectCreateOnEmpty: cfg.StrictIDs,
	}
	packageRepo := mempackagerepo.NewRepo(opts)
	groupRepo := memgrouprepo.NewRepo(opts)
	bookingRepo := membookingrepo.NewRepo(opts)
	if err := packageRepo.Seed(data.Packages...); err != nil {
		return fmt.Errorf("seed packages: %w", err)
	}
	if err := groupRepo.Seed(data.Groups...); err != nil {
		return fmt.Errorf("seed groups: %w", err)
	}
	if err := bookingRepo.Seed(data.Bookings...); err != nil {
		return fmt.Errorf("seed bookings: %w", err)
	}

	clk := platformclock.NewSystemClock()
	base := logger.Logger()

	packageSvc := packages.NewService(packageRepo, groupRepo, base)
	groupSvc := groups.NewService(groupRepo, packageRepo, clk, base)
	bookingSvc := bookings.NewService(bookingRepo, packageRepo, groupRepo, clk, base)
	sessions := memwizardstore.NewStore[*bookings.Wizard](memwizardstore.Options{
		Clock:       clk,
		IdleTimeout: cfg.WizardIdleTimeout.Duration,
		OnExpire:    func(n int) { metrics.WizardSessions.Sub(float64(n)) },
	})
	wizardSvc := bookings.NewWizardService(sessions, bookingSvc, base)
	idemStore := memidempotency.NewStore(clk, cfg.IdempotencyRetention.Duration)

	api := httpapi.NewServer(packageSvc, groupSvc, bookingSvc, wizardSvc, idemStore, clk, base)
	handler := httpapi.NewRouterWithOptions(api, httpapi.RouterOptions{
		Logger:         logger.Component("http"),
		MetricsEnabled: cfg.MetricsEnabled,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Int("packages", len(data.Packages)).
			Int("groups", len(data.Groups)).
			Int("bookings", len(data.Bookings)).
			Dur("simulatedLatency", cfg.SimulatedLatency.Duration).
			Bool("strictIds", cfg.StrictIDs).
			Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout.Duration)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
