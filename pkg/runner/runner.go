// Package runner invokes the external, independently versioned sync
// CLI and manages its download and extraction.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/findolor/local-db-remote/pkg/telemetry"
)

// Options describes one invocation of the external sync CLI.
type Options struct {
	Binary       string
	StorePath    string
	Orderbook    string
	ChainID      uint64
	APIToken     string
	SettingsPath string
	StartBlock   *uint64
	EndBlock     *uint64
}

// ExitError reports a non-zero exit from the external CLI.
// Code is -1 when the process failed to start or was killed.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("sync CLI exited with code %d: %v", e.Code, e.Err)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Runner runs the external sync CLI against a working store.
type Runner interface {
	Run(ctx context.Context, opts Options) error
}

// CLIRunner executes the real CLI binary. The CLI's output streams to
// the parent's stdout/stderr; it is never inspected for control
// decisions.
type CLIRunner struct {
	log *telemetry.Logger
}

// NewCLIRunner creates a runner that executes the external CLI.
func NewCLIRunner(log *telemetry.Logger) *CLIRunner {
	return &CLIRunner{log: log.NewComponentLogger("runner")}
}

// Run invokes the CLI and returns an *ExitError on non-zero exit.
func (r *CLIRunner) Run(ctx context.Context, opts Options) error {
	if opts.APIToken == "" {
		return fmt.Errorf("no API token provided for orderbook %s", opts.Orderbook)
	}

	storeDir := filepath.Dir(opts.StorePath)
	if err := os.MkdirAll(storeDir, 0755); err != nil {
		return fmt.Errorf("failed to create store directory %s: %w", storeDir, err)
	}

	args := buildArgs(opts)
	r.log.Infof("running: %s %s", opts.Binary, strings.Join(redactToken(args), " "))

	cmd := exec.CommandContext(ctx, opts.Binary, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return &ExitError{Code: code, Err: err}
	}
	return nil
}

func buildArgs(opts Options) []string {
	args := []string{
		"local-db", "sync",
		"--db-path", opts.StorePath,
		"--orderbook", opts.Orderbook,
		"--chain-id", strconv.FormatUint(opts.ChainID, 10),
		"--settings", opts.SettingsPath,
		"--api-token", opts.APIToken,
	}
	if opts.StartBlock != nil {
		args = append(args, "--start-block", strconv.FormatUint(*opts.StartBlock, 10))
	}
	if opts.EndBlock != nil {
		args = append(args, "--end-block", strconv.FormatUint(*opts.EndBlock, 10))
	}
	return args
}

// redactToken masks the API token value in a copy of the argument list
// so credentials never reach the logs.
func redactToken(args []string) []string {
	redacted := append([]string(nil), args...)
	for i, arg := range redacted {
		if arg == "--api-token" && i+1 < len(redacted) {
			redacted[i+1] = "***"
		}
	}
	return redacted
}
