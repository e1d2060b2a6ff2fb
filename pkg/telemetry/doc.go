// Package telemetry provides structured logging and metrics for the
// local-db sync service.
//
// Logging is built on zerolog with component-scoped child loggers:
//
//	logger, err := telemetry.NewLogger(cfg.Logging)
//	syncLog := logger.NewComponentLogger("sync").WithRunID(runID)
//	syncLog.WithOrderbook("Alpha").Info("starting sync")
//
// Metrics use a dedicated Prometheus registry. When disabled via
// MetricsConfig.Enabled all recording methods are no-ops, so callers
// never need to guard their instrumentation.
package telemetry
