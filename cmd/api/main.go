package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tennisclub/internal/api"
	"tennisclub/internal/config"
	"tennisclub/internal/database"
	"tennisclub/internal/domain"
	"tennisclub/internal/events"
	"tennisclub/internal/export"
	"tennisclub/internal/logging"
	"tennisclub/internal/metrics"
	"tennisclub/internal/repository"
	"tennisclub/internal/service"
	"tennisclub/internal/weather"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	if !cfg.API.Enabled {
		logger.Warn().Msg("API is disabled in config, but starting API application. Check your config.")
	}

	state := initStateRepository(cfg, &logger)
	defer state.Close()

	eventBus := events.NewEventBus()

	pricing := service.NewPricingService(db, cfg.Pricing, &logger)
	bookings := service.NewBookingService(db, pricing, eventBus, &logger)
	insoluti := service.NewInsolutiService(db, eventBus, &logger)
	httpServer := api.NewHTTPServer(&cfg.API, api.Services{
		Bookings: bookings,
		Serie:    service.NewSerieService(db, eventBus, &logger),
		Insoluti: insoluti,
		Reports:  service.NewReportService(db, &logger),
		Registry: service.NewRegistryService(db, &logger),
		Pricing:  pricing,
		Exporter: export.NewExporter(cfg.Exports.Path, bookings, insoluti, &logger),
	}, state, &logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startMetrics(ctx, cfg, &logger)
	startWeatherPoller(ctx, cfg, state, eventBus, &logger)
	startBackups(ctx, cfg, &logger)

	return startServer(ctx, httpServer, cfg, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

// initStateRepository builds the forecast/logo store: redis primary
// with an in-memory failover, or memory alone when redis is not
// configured or unreachable.
func initStateRepository(cfg *config.Config, logger *zerolog.Logger) domain.StateRepository {
	memory := repository.NewMemoryStateRepository()
	if cfg.Redis.Address == "" {
		logger.Info().Msg("redis not configured, using in-memory state store")
		return memory
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing with in-memory state store")
		_ = redisClient.Close()
		return memory
	}
	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")

	return repository.NewFailoverStateRepository(
		repository.NewRedisStateRepository(redisClient), memory, logger)
}

func startWeatherPoller(ctx context.Context, cfg *config.Config, state domain.StateRepository, eventBus *events.EventBus, logger *zerolog.Logger) {
	if !cfg.Weather.Enabled {
		return
	}

	interval := time.Duration(cfg.Weather.PollMinutes) * time.Minute
	poller := weather.NewPoller(weather.NewClient(cfg.Weather), state, eventBus, interval, logger)
	go poller.Start(ctx)
}

func startBackups(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Backup.Enabled {
		return
	}

	backupService := database.NewBackupService(cfg.Database.Path, cfg.Backup, logger)
	go backupService.Start(ctx)
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startServer(ctx context.Context, httpServer *api.HTTPServer, cfg *config.Config, logger *zerolog.Logger) error {
	go func() {
		if !cfg.API.HTTP.Enabled {
			return
		}
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	logger.Info().Int("http_port", cfg.API.HTTP.Port).Msg("API server started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("API server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
