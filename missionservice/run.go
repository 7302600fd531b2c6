package missionservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/vibegen/mission-control/internal/api"
	"github.com/vibegen/mission-control/internal/calendar"
	"github.com/vibegen/mission-control/internal/config"
	"github.com/vibegen/mission-control/internal/events"
	"github.com/vibegen/mission-control/internal/factory"
	"github.com/vibegen/mission-control/internal/health"
	"github.com/vibegen/mission-control/internal/logger"
	"github.com/vibegen/mission-control/internal/metrics"
	"github.com/vibegen/mission-control/internal/search"
	"github.com/vibegen/mission-control/internal/services"
	"github.com/vibegen/mission-control/internal/store"
)

// Run starts the mission-control HTTP server and blocks until shutdown or error.
func Run() error {
	log := logger.New("mission-control")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Bool("supabase_sync", cfg.SyncEnabled()).
		Float64("calendar_units_per_hour", cfg.CalendarUnitsPerHour).
		Msg("Mission control starting")

	// Create cancellable root context bound to SIGINT/SIGTERM
	ctx, stop := newServerContext()
	defer stop()

	st, err := factory.NewStore(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Store adapter unavailable")
		return err
	}

	// Event bus carries write notifications to in-process subscribers.
	bus := events.NewBus(cfg.EventBufferSize)
	go logEvents(ctx, bus, log)

	router := buildRouter(st, bus, cfg, log)

	// Start health checkers and bind service health
	svcHealth := startHealthCheckers(ctx, cfg, log, st)

	// Block startup until dependencies report healthy; fail fast otherwise
	if err := waitUntilHealthy(ctx, cfg, svcHealth); err != nil {
		log.Error().Stack().Err(err).Msg("startup health check failed")
		return err
	}

	server := newHTTPServer(ctx, cfg, router)
	errCh := serveHTTP(server, log, cfg)

	// Graceful shutdown on context cancel or server error
	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

// buildRouter wires services and handlers onto the mux router.
func buildRouter(st store.Store, bus *events.Bus, cfg *config.Config, log zerolog.Logger) *mux.Router {
	activitySvc := services.NewActivityService(st, bus)

	var supabase *metrics.SupabaseClient
	if cfg.SyncEnabled() {
		supabase = metrics.NewSupabaseClient(cfg.SupabaseURL, cfg.SupabaseServiceRoleKey)
	}

	return api.NewRouter(api.Deps{
		Activities: activitySvc,
		Tasks:      services.NewTaskService(st, bus),
		Documents:  services.NewDocumentService(st, bus),
		Memories:   services.NewMemoryService(st, bus),
		Search:     search.NewAggregator(st, log),
		Metrics:    metrics.NewService(activitySvc, supabase, log),
		Layout:     calendar.NewLayout(cfg.CalendarUnitsPerHour),
	})
}

// logEvents drains the bus so publishers never observe a full buffer, and
// gives operators a debug trail of writes.
func logEvents(ctx context.Context, bus *events.Bus, log zerolog.Logger) {
	ch := bus.Subscribe()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-ch:
			log.Debug().Str("kind", string(ev.Kind)).Str("id", ev.ID).Msg("entity event")
		}
	}
}

// startHealthCheckers starts component checkers and service-level aggregator; binds health.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, st store.Store) *health.ServiceHealthChecker {
	probeTimeout := time.Duration(cfg.HealthProbeTimeoutSeconds) * time.Second
	interval := time.Duration(cfg.HealthIntervalSeconds) * time.Second

	storeChecker := store.NewStoreHealthChecker(st, log, probeTimeout)
	go storeChecker.Start(ctx, interval)

	svcHealth := health.NewServiceHealthChecker(log, storeChecker)
	go svcHealth.Start(ctx, interval)
	api.BindServiceHealth(svcHealth.IsHealthy)
	return svcHealth
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

// calculateStartupHealthTimeout returns the startup health timeout in seconds,
// calculated as interval*2 with a minimum of 60 seconds.
func calculateStartupHealthTimeout(healthIntervalSeconds int) int {
	timeout := healthIntervalSeconds * 2
	if timeout < 60 {
		return 60
	}
	return timeout
}

// waitUntilHealthy blocks until service health is healthy or the startup window expires.
func waitUntilHealthy(ctx context.Context, cfg *config.Config, svcHealth *health.ServiceHealthChecker) error {
	timeoutSeconds := calculateStartupHealthTimeout(cfg.HealthIntervalSeconds)
	deadline := time.Now().Add(time.Duration(timeoutSeconds) * time.Second)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		if svcHealth.IsHealthy() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("startup aborted: dependencies not healthy within %d seconds", timeoutSeconds)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// newServerContext returns a cancellable context that is cancelled on SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
