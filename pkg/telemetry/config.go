package telemetry

// Config holds the telemetry configuration for the sync service.
type Config struct {
	// ServiceName identifies this service in logs and metrics.
	ServiceName string

	// Logging configures structured logging.
	Logging LoggingConfig

	// Metrics configures Prometheus metrics collection.
	Metrics MetricsConfig
}

// LoggingConfig configures the zerolog-based logger.
type LoggingConfig struct {
	// Level is one of: trace, debug, info, warn, error, fatal.
	Level string

	// Format is "json" or "console".
	Format string

	// Output is "stdout", "stderr", or a file path.
	Output string
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	// Enabled toggles metrics collection. When false all recording
	// methods are no-ops.
	Enabled bool

	// Namespace is the metric name prefix.
	Namespace string

	// ListenAddress is the address for the metrics HTTP endpoint.
	ListenAddress string
}

// DefaultConfig returns the default telemetry configuration.
func DefaultConfig() Config {
	return Config{
		ServiceName: "local-db-remote",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
		Metrics: MetricsConfig{
			Enabled:       false,
			Namespace:     "localdb",
			ListenAddress: ":9090",
		},
	}
}
