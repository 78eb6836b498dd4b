package app

import (
	"context"

	"github.com/newrelic/go-agent/v3/newrelic"

	"taxi24/internal/config"
	"taxi24/internal/logger"
)

// NewNewRelic starts the APM agent when enabled. A nil application disables
// every integration, so a failed start only costs the traces.
func NewNewRelic(ctx context.Context, cfg config.NewRelicConfig, log logger.Logger) *newrelic.Application {
	if !cfg.Enabled || cfg.LicenseKey == "" {
		return nil
	}

	nrApp, err := newrelic.NewApplication(
		newrelic.ConfigAppName(cfg.AppName),
		newrelic.ConfigLicense(cfg.LicenseKey),
		newrelic.ConfigDistributedTracerEnabled(true),
		newrelic.ConfigAppLogForwardingEnabled(true),
	)
	if err != nil {
		log.Error(ctx, "failed to initialize new relic", err)
		return nil
	}

	log.Info(ctx, "new relic enabled", "app", cfg.AppName)
	return nrApp
}
