package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"taxi24/internal/handler"
	"taxi24/internal/logger"
	"taxi24/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	Service          string
	DriverHandler    *handler.DriverHandler
	PassengerHandler *handler.PassengerHandler
	TripHandler      *handler.TripHandler
	InvoiceHandler   *handler.InvoiceHandler
	Idempotency      middleware.IdempotencyStore
	NewRelicApp      *newrelic.Application
	Logger           logger.Logger
}

// NewRouter creates the gateway router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.NewRelic(deps.NewRelicApp))
	router.Use(middleware.TagTransaction())
	router.Use(middleware.Logging(deps.Logger))
	router.Use(middleware.Metrics(deps.Service))
	router.Use(middleware.CORSMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	if deps.Idempotency != nil {
		v1.Use(middleware.Idempotency(deps.Idempotency, deps.Logger))
	}
	{
		drivers := v1.Group("/drivers")
		{
			drivers.GET("", deps.DriverHandler.GetAll)
			drivers.GET("/nearby", deps.DriverHandler.Nearby)
			drivers.GET("/:id", deps.DriverHandler.GetByID)
			drivers.POST("/:id/location", deps.DriverHandler.UpdateLocation)
		}

		passengers := v1.Group("/passengers")
		{
			passengers.GET("", deps.PassengerHandler.GetAll)
			passengers.GET("/:id", deps.PassengerHandler.GetByID)
		}

		trips := v1.Group("/trips")
		{
			trips.GET("", deps.TripHandler.GetAll)
			trips.POST("", deps.TripHandler.Create)
			trips.PATCH("/:id/complete", deps.TripHandler.Complete)
		}

		invoices := v1.Group("/invoices")
		{
			invoices.GET("/:id", deps.InvoiceHandler.GetByID)
		}
	}

	return router
}

// NewMetricsServer serves Prometheus metrics on their own port, for binaries
// without an HTTP API.
func NewMetricsServer(port string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	return &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
