package sync

import (
	"os"
	"strings"
	"time"

	"github.com/findolor/local-db-remote/pkg/archive"
	"github.com/findolor/local-db-remote/pkg/checkpoint"
	"github.com/findolor/local-db-remote/pkg/fetch"
	"github.com/findolor/local-db-remote/pkg/runner"
	"github.com/findolor/local-db-remote/pkg/telemetry"
)

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// Runtime bundles the orchestrator's collaborators. Every field is an
// interface (or injectable value) so the full sync flow can run
// against mocks.
type Runtime struct {
	Env       map[string]string
	Cwd       string
	Fetcher   fetch.Client
	Runner    runner.Runner
	Inspector checkpoint.StoreInspector
	Archive   archive.Capabilities
	Clock     Clock
	Logger    *telemetry.Logger
	Metrics   *telemetry.Metrics
}

// DefaultRuntime builds the production runtime from the process
// environment.
func DefaultRuntime(logger *telemetry.Logger, metrics *telemetry.Metrics) (*Runtime, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	env := make(map[string]string)
	for _, pair := range os.Environ() {
		if key, value, ok := strings.Cut(pair, "="); ok {
			env[key] = value
		}
	}

	return &Runtime{
		Env:       env,
		Cwd:       cwd,
		Fetcher:   fetch.NewHTTPClient(),
		Runner:    runner.NewCLIRunner(logger),
		Inspector: checkpoint.NewSQLiteInspector(),
		Archive:   archive.NewDiskCapabilities(),
		Clock:     systemClock{},
		Logger:    logger,
		Metrics:   metrics,
	}, nil
}
