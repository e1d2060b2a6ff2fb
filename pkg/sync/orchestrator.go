package sync

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/findolor/local-db-remote/pkg/archive"
	"github.com/findolor/local-db-remote/pkg/checkpoint"
	"github.com/findolor/local-db-remote/pkg/manifest"
	"github.com/findolor/local-db-remote/pkg/runner"
	"github.com/findolor/local-db-remote/pkg/settings"
	"github.com/findolor/local-db-remote/pkg/telemetry"
)

// Orchestrator drives the full sync flow: fetch settings and tool,
// then for each configured orderbook hydrate, resolve the resume
// point, run the external CLI, finalize the archive, update the
// manifest, and clean up. Orderbooks are processed strictly
// sequentially.
type Orchestrator struct {
	rt  *Runtime
	cfg Config
}

// New creates an orchestrator with the given runtime and
// configuration.
func New(rt *Runtime, cfg Config) *Orchestrator {
	return &Orchestrator{rt: rt, cfg: cfg}
}

// Run executes one full sync pass. On a per-orderbook fatal failure
// the remaining orderbooks are skipped unless ContinueOnError is set,
// in which case the run continues and reports a combined error.
// Orderbooks finalized before a failure retain their archives.
func (o *Orchestrator) Run(ctx context.Context) error {
	runID := uuid.NewString()
	log := o.rt.Logger.NewComponentLogger("sync").WithRunID(runID)

	start := o.rt.Clock.Now()
	log.Infof("sync started at %s", start.UTC().Format(time.RFC3339))

	cliURL := envValue(o.rt.Env, EnvCLIBinaryURL)
	if cliURL == "" {
		return NewFatalError(EnvCLIBinaryURL+" must be set to a valid CLI binary URL", nil)
	}

	settingsURL := envValue(o.rt.Env, EnvSettingsURL)
	if settingsURL == "" {
		return NewFatalError(EnvSettingsURL+" must be set to a valid settings document URL", nil)
	}
	log.Infof("fetching settings from %s", settingsURL)
	settingsText, err := o.rt.Fetcher.Text(ctx, settingsURL)
	if err != nil {
		return NewFatalError("failed to download settings document", err)
	}

	dataDir := resolvePath(o.rt.Cwd, o.cfg.DataDir)
	if err := o.rt.Archive.MkdirAll(dataDir); err != nil {
		return NewFatalError("failed to create data directory "+dataDir, err)
	}

	settingsPath := filepath.Join(dataDir, SettingsFileName)
	if err := os.WriteFile(settingsPath, []byte(settingsText), 0644); err != nil {
		return NewFatalError("failed to stage settings document", err)
	}

	binary, err := o.fetchTool(ctx, log, cliURL)
	if err != nil {
		return err
	}

	apiToken, err := resolveAPIToken(o.rt.Env)
	if err != nil {
		return err
	}
	log.Info("using API token sourced from environment")

	manifestPath := filepath.Join(dataDir, ManifestFileName)
	m, err := o.fetchManifest(ctx, log, manifestPath)
	if err != nil {
		return err
	}
	if err := o.hydrateArchives(ctx, log, m, dataDir); err != nil {
		return err
	}

	doc, err := settings.Parse(settingsText)
	if err != nil {
		return NewFatalError("failed to parse settings document", err)
	}

	selection := append([]string(nil), o.cfg.Orderbooks...)
	selection = append(selection, splitSelection(envValue(o.rt.Env, EnvSyncOrderbooks))...)

	configs, skips := settings.BuildConfigs(doc, selection)
	for _, skip := range skips {
		log.WithOrderbook(skip.Orderbook).Warnf("skipping orderbook: %s", skip.Reason)
		o.rt.Metrics.RecordError(string(ErrorClassDataQuality))
	}
	if len(configs) == 0 {
		log.Warn("no orderbooks to sync")
	}

	resolver := checkpoint.NewResolver(o.rt.Inspector, o.rt.Logger)

	var failures []error
	for _, sc := range configs {
		if err := o.syncOne(ctx, log, resolver, sc, syncInputs{
			binary:       binary,
			apiToken:     apiToken,
			settingsPath: settingsPath,
			dataDir:      dataDir,
			manifestPath: manifestPath,
		}); err != nil {
			o.rt.Metrics.RecordError(string(Classify(err)))
			if !o.cfg.ContinueOnError {
				return err
			}
			failures = append(failures, err)
		}
	}

	elapsed := o.rt.Clock.Now().Sub(start)
	log.Infof("all syncs completed in %.1fs", elapsed.Seconds())

	if len(failures) > 0 {
		return errors.Join(failures...)
	}
	return nil
}

// syncInputs carries the run-wide values each per-orderbook sync
// needs.
type syncInputs struct {
	binary       string
	apiToken     string
	settingsPath string
	dataDir      string
	manifestPath string
}

func (o *Orchestrator) syncOne(ctx context.Context, log *telemetry.Logger, resolver *checkpoint.Resolver, sc settings.SyncConfig, in syncInputs) error {
	obLog := log.WithOrderbook(sc.Orderbook).WithChainID(sc.ChainID)
	obLog.Info("starting sync")

	start := o.rt.Clock.Now()
	o.rt.Metrics.RecordSyncStarted(sc.Orderbook)

	lc := archive.NewLifecycle(sc.Orderbook, in.dataDir, o.rt.Archive, o.rt.Logger)
	if err := lc.Prepare(); err != nil {
		o.rt.Metrics.RecordArchiveOperation("prepare", "failure")
		return NewFatalError("failed to prepare working store", err).
			WithOrderbook(sc.Orderbook).WithStep("prepare")
	}
	o.rt.Metrics.RecordArchiveOperation("prepare", "success")

	err := func() error {
		plan := resolver.Resolve(ctx, lc.StorePath(), lc.ArchivePath(), sc.DeploymentBlock)
		logPlan(obLog, fmt.Sprintf("orderbook %s (chain %d)", sc.Orderbook, sc.ChainID), plan)
		if plan.LastBlock != nil {
			o.rt.Metrics.SetLastSyncedBlock(sc.Orderbook, *plan.LastBlock)
		}

		startBlock := plan.StartBlock
		if err := o.rt.Runner.Run(ctx, runner.Options{
			Binary:       in.binary,
			StorePath:    lc.StorePath(),
			Orderbook:    sc.Orderbook,
			ChainID:      sc.ChainID,
			APIToken:     in.apiToken,
			SettingsPath: in.settingsPath,
			StartBlock:   &startBlock,
		}); err != nil {
			serr := NewFatalError("sync CLI failed", err).
				WithOrderbook(sc.Orderbook).WithStep("sync")
			var exitErr *runner.ExitError
			if errors.As(err, &exitErr) {
				serr = serr.WithExitCode(exitErr.Code)
			}
			return serr
		}

		if err := lc.MarkSynced(); err != nil {
			return NewFatalError("lifecycle out of order", err).
				WithOrderbook(sc.Orderbook).WithStep("sync")
		}
		if err := lc.Finalize(); err != nil {
			o.rt.Metrics.RecordArchiveOperation("finalize", "failure")
			return NewFatalError("failed to archive working store", err).
				WithOrderbook(sc.Orderbook).WithStep("finalize")
		}
		o.rt.Metrics.RecordArchiveOperation("finalize", "success")
		return nil
	}()

	// The working store is scratch; dispose of it even after a failed
	// sync.
	lc.Cleanup()

	duration := o.rt.Clock.Now().Sub(start)
	if err != nil {
		o.rt.Metrics.RecordSyncCompleted(sc.Orderbook, "failure", duration)
		obLog.WithError(err).Error("sync failed")
		return err
	}

	downloadURL := strings.ReplaceAll(ReleaseDownloadURLTemplate, "{file}", filepath.Base(lc.ArchivePath()))
	if err := manifest.Update(in.manifestPath, sc.ChainID, downloadURL, o.rt.Clock.Now()); err != nil {
		o.rt.Metrics.RecordSyncCompleted(sc.Orderbook, "failure", duration)
		return NewFatalError("failed to update manifest", err).
			WithOrderbook(sc.Orderbook).WithStep("manifest")
	}

	o.rt.Metrics.RecordSyncCompleted(sc.Orderbook, "success", duration)
	obLog.Infof("sync completed in %.1fs", duration.Seconds())
	return nil
}

// fetchTool downloads and extracts the external sync CLI, returning
// the binary path. The downloaded archive is removed afterwards.
func (o *Orchestrator) fetchTool(ctx context.Context, log *telemetry.Logger, cliURL string) (string, error) {
	archivePath := filepath.Join(o.rt.Cwd, CLIArchiveName)
	log.Infof("downloading sync CLI from %s", cliURL)
	if err := runner.DownloadTool(ctx, o.rt.Fetcher, cliURL, archivePath); err != nil {
		return "", NewFatalError("failed to download sync CLI", err)
	}

	binDir := resolvePath(o.rt.Cwd, o.cfg.BinDir)
	binary, err := runner.ExtractTool(archivePath, binDir)
	if err != nil {
		return "", NewFatalError("failed to extract sync CLI", err)
	}

	if err := os.Remove(archivePath); err != nil {
		log.WithError(err).Warn("failed to remove CLI archive")
	}
	return binary, nil
}

// fetchManifest downloads the published manifest, falling back to a
// fresh one when none is available yet. Either way the manifest is
// staged on disk for per-orderbook updates.
func (o *Orchestrator) fetchManifest(ctx context.Context, log *telemetry.Logger, manifestPath string) (*manifest.Manifest, error) {
	url := strings.ReplaceAll(ReleaseDownloadURLTemplate, "{file}", ManifestFileName)
	log.Infof("fetching manifest from %s", url)

	contents, err := o.rt.Fetcher.Text(ctx, url)
	if err != nil {
		log.Infof("no manifest available; starting with an empty one (%v)", err)
		m := manifest.New()
		if err := m.Save(manifestPath); err != nil {
			return nil, NewFatalError("failed to write manifest", err)
		}
		return m, nil
	}

	m, err := manifest.Decode([]byte(contents))
	if err != nil {
		return nil, NewFatalError("failed to parse downloaded manifest", err)
	}
	if err := m.Save(manifestPath); err != nil {
		return nil, NewFatalError("failed to write manifest", err)
	}
	return m, nil
}

// hydrateArchives downloads the published store archives listed in the
// manifest so prepare can resume from them.
func (o *Orchestrator) hydrateArchives(ctx context.Context, log *telemetry.Logger, m *manifest.Manifest, dataDir string) error {
	if len(m.Networks) == 0 {
		log.Info("manifest has no networks; skipping archive hydration")
		return nil
	}

	for chainID, entry := range m.Networks {
		if entry.DumpURL == "" {
			continue
		}
		destination := filepath.Join(dataDir, filepath.Base(entry.DumpURL))
		log.WithChainID(chainID).Infof("downloading archive from %s", entry.DumpURL)
		bytes, err := o.rt.Fetcher.Binary(ctx, entry.DumpURL)
		if err != nil {
			return NewFatalError(fmt.Sprintf("failed to download archive for chain %d", chainID), err)
		}
		if err := os.WriteFile(destination, bytes, 0644); err != nil {
			return NewFatalError(fmt.Sprintf("failed to write archive for chain %d", chainID), err)
		}
	}
	return nil
}

func envValue(env map[string]string, key string) string {
	return strings.TrimSpace(env[key])
}

// resolveAPIToken checks the known token variables in order and
// returns the first non-empty value.
func resolveAPIToken(env map[string]string) (string, error) {
	for _, key := range APITokenEnvVars {
		if value := strings.TrimSpace(env[key]); value != "" {
			return value, nil
		}
	}
	return "", NewFatalError(
		"missing API token; set one of: "+strings.Join(APITokenEnvVars, ", "), nil)
}

func resolvePath(base, configured string) string {
	if filepath.IsAbs(configured) {
		return configured
	}
	return filepath.Join(base, configured)
}

func splitSelection(raw string) []string {
	if raw == "" {
		return nil
	}
	var names []string
	for _, token := range strings.Split(raw, ",") {
		if token = strings.TrimSpace(token); token != "" {
			names = append(names, token)
		}
	}
	return names
}
