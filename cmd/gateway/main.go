package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"taxi24/internal/app"
	"taxi24/internal/config"
	"taxi24/internal/handler"
	"taxi24/internal/logger"
	"taxi24/internal/rpc"
)

func main() {
	cfg, err := config.Load("gateway")
	if err != nil {
		logger.New("gateway", logger.LevelError).Error(context.Background(), "invalid configuration", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Service, cfg.Log.Level)

	if err := run(cfg, log); err != nil {
		log.Error(context.Background(), "gateway stopped", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	nrApp := app.NewNewRelic(ctx, cfg.NewRelic, log)
	if nrApp != nil {
		defer nrApp.Shutdown(5 * time.Second)
	}

	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp, log)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	conn, err := app.NewRabbitConnection(ctx, cfg.RabbitMQ, cfg.Log.Service, log)
	if err != nil {
		return err
	}
	defer conn.Close()

	dispatch, err := rpc.NewClient(conn, cfg.Log.Service, cfg.RabbitMQ.Queue, cfg.RabbitMQ.RPCTimeout, log)
	if err != nil {
		return err
	}
	defer dispatch.Close()

	server := wireServer(dispatch, redisClient, nrApp, cfg, log)

	serveErr := make(chan error, 1)
	go func() {
		log.Info(context.Background(), "starting server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serveErr:
		return err
	}
	log.Info(context.Background(), "shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info(shutdownCtx, "server exited")
	return nil
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(dispatch handler.Caller, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config, log logger.Logger) *http.Server {
	router := app.NewRouter(app.RouterDeps{
		Service:          cfg.Log.Service,
		DriverHandler:    handler.NewDriverHandler(dispatch, log),
		PassengerHandler: handler.NewPassengerHandler(dispatch, log),
		TripHandler:      handler.NewTripHandler(dispatch, log),
		InvoiceHandler:   handler.NewInvoiceHandler(dispatch, log),
		Idempotency:      redisClient,
		NewRelicApp:      nrApp,
		Logger:           log,
	})

	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
