package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"taxi24/internal/app"
	"taxi24/internal/config"
	"taxi24/internal/domain"
	"taxi24/internal/endpoint"
	"taxi24/internal/logger"
	internalRedis "taxi24/internal/redis"
	"taxi24/internal/repository/postgres"
	"taxi24/internal/rpc"
	"taxi24/internal/service"
)

func main() {
	cfg, err := config.Load("dispatch")
	if err != nil {
		logger.New("dispatch", logger.LevelError).Error(context.Background(), "invalid configuration", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Service, cfg.Log.Level)

	if err := run(cfg, log); err != nil {
		log.Error(context.Background(), "dispatch service stopped", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// New Relic first so the database driver can be instrumented.
	nrApp := app.NewNewRelic(startCtx, cfg.NewRelic, log)
	if nrApp != nil {
		defer nrApp.Shutdown(5 * time.Second)
	}

	db, err := app.NewDatabase(startCtx, cfg.Database, nrApp, log)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.Migrate(startCtx, db); err != nil {
		return err
	}
	log.Info(startCtx, "database migrated")

	redisClient, err := app.NewRedisClient(startCtx, cfg.Redis, nrApp, log)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	conn, err := app.NewRabbitConnection(startCtx, cfg.RabbitMQ, cfg.Log.Service, log)
	if err != nil {
		return err
	}
	defer conn.Close()

	server, err := wireServer(startCtx, db, redisClient, conn, nrApp, cfg, log)
	if err != nil {
		return err
	}

	metricsServer := app.NewMetricsServer(cfg.Metrics.Port)
	go func() {
		log.Info(ctx, "metrics listening", "port", cfg.Metrics.Port)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "metrics server error", err)
		}
	}()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Run(ctx)
	}()

	select {
	case <-ctx.Done():
		log.Info(context.Background(), "shutting down dispatch service")
		err = <-serveErr
	case err = <-serveErr:
		stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if serr := metricsServer.Shutdown(shutdownCtx); serr != nil {
		log.Error(shutdownCtx, "metrics server forced to shutdown", serr)
	}

	if err != nil {
		return err
	}
	log.Info(shutdownCtx, "dispatch service exited")
	return nil
}

// wireServer wires all dependencies and returns the RPC server.
func wireServer(
	ctx context.Context,
	db *sql.DB,
	redisClient *redis.Client,
	conn *amqp.Connection,
	nrApp *newrelic.Application,
	cfg *config.Config,
	log logger.Logger,
) (*rpc.Server, error) {
	locationStore := internalRedis.NewLocationStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient, internalRedis.InvoiceCacheTTL)

	transactor := postgres.NewTransactor(db)
	driverRepo := postgres.NewDriverRepository(db)
	passengerRepo := postgres.NewPassengerRepository(db)
	tripRepo := postgres.NewTripRepository(db)
	invoiceRepo := postgres.NewInvoiceRepository(db)
	settingRepo := postgres.NewSettingRepository(db)

	settingService := service.NewSettingService(settingRepo, log)
	if err := settingService.Seed(ctx, service.DefaultSettings(cfg.Invoice.DefaultTaxPercentage)); err != nil {
		return nil, err
	}
	if override := cfg.Invoice.TaxPercentageOverride; override != "" {
		if err := settingService.Set(ctx, domain.SettingTaxPercentage, override); err != nil {
			return nil, err
		}
	}

	invoiceService := service.NewInvoiceService(transactor, invoiceRepo, cacheStore, log)
	tripService := service.NewTripService(transactor, tripRepo, driverRepo, passengerRepo, invoiceRepo, invoiceService, log)
	driverService := service.NewDriverService(driverRepo, locationStore, log)
	passengerService := service.NewPassengerService(passengerRepo)

	// A stale index only degrades nearby searches.
	if err := driverService.RebuildLocationIndex(ctx); err != nil {
		log.Warn(ctx, "driver location index not rebuilt", "error", err.Error())
	}

	router := rpc.NewRouter(cfg.Log.Service, log)
	endpoint.New(driverService, passengerService, tripService, invoiceService, log).Register(router)

	server := rpc.NewServer(conn, cfg.RabbitMQ.Queue, cfg.RabbitMQ.Prefetch, router, log).
		WithNewRelic(nrApp)
	return server, nil
}
