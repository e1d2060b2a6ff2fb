package archive

import (
	"fmt"
	"path/filepath"

	"github.com/findolor/local-db-remote/pkg/telemetry"
)

// State is the lifecycle state of one orderbook's store and archive.
// Transitions are strictly ordered; invalid transitions are rejected
// so the "exactly one of {no archive, valid archive}" invariant stays
// auditable.
type State int

const (
	StateIdle State = iota
	StateHydrated
	StateSynced
	StateArchived
	StateCleanedUp
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateHydrated:
		return "hydrated"
	case StateSynced:
		return "synced"
	case StateArchived:
		return "archived"
	case StateCleanedUp:
		return "cleaned-up"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// File naming convention: the working store lives at <name>.db, the
// canonical archive at <name>.db.tar.gz, and finalization stages the
// new archive at <name>.db.tar.gz.tmp before the atomic rename.
const (
	storeSuffix   = ".db"
	archiveSuffix = ".db.tar.gz"
	tempSuffix    = ".tmp"
)

// Capabilities is the filesystem and codec surface the lifecycle
// depends on. Injecting it keeps the state machine testable without
// real archives.
type Capabilities interface {
	Exists(path string) (bool, error)
	Remove(path string) error
	Rename(oldPath, newPath string) error
	MkdirAll(dir string) error

	// Extract materializes the single working-store file contained in
	// the archive into destDir.
	Extract(archivePath, destDir string) error

	// Compress produces an archive containing exactly the file at
	// srcPath.
	Compress(srcPath, archivePath string) error
}

// Lifecycle drives one orderbook's store through
// prepare -> sync -> finalize -> cleanup for a single sync attempt.
// The working store is a disposable scratch artifact; only the
// compressed archive is canonical at rest.
type Lifecycle struct {
	name  string
	dir   string
	state State
	caps  Capabilities
	log   *telemetry.Logger
}

// NewLifecycle creates an idle lifecycle for the named orderbook with
// its store and archive under dir.
func NewLifecycle(name, dir string, caps Capabilities, log *telemetry.Logger) *Lifecycle {
	return &Lifecycle{
		name:  name,
		dir:   dir,
		state: StateIdle,
		caps:  caps,
		log:   log.NewComponentLogger("archive").WithOrderbook(name),
	}
}

// StorePath returns the working store path for this orderbook.
func (l *Lifecycle) StorePath() string {
	return filepath.Join(l.dir, l.name+storeSuffix)
}

// ArchivePath returns the canonical archive path for this orderbook.
func (l *Lifecycle) ArchivePath() string {
	return filepath.Join(l.dir, l.name+archiveSuffix)
}

// State returns the current lifecycle state.
func (l *Lifecycle) State() State {
	return l.state
}

// Prepare hydrates the working store from the archive, transitioning
// Idle -> Hydrated. A stale working store is never trusted and is
// deleted first. When no archive exists the store is left absent: the
// external CLI initializes a fresh one.
func (l *Lifecycle) Prepare() error {
	if l.state != StateIdle {
		return fmt.Errorf("cannot prepare from state %s", l.state)
	}

	if err := l.caps.MkdirAll(l.dir); err != nil {
		return fmt.Errorf("failed to create store directory %s: %w", l.dir, err)
	}

	storePath := l.StorePath()
	if exists, err := l.caps.Exists(storePath); err != nil {
		return fmt.Errorf("failed to check working store %s: %w", storePath, err)
	} else if exists {
		if err := l.caps.Remove(storePath); err != nil {
			return fmt.Errorf("failed to remove stale working store %s: %w", storePath, err)
		}
	}

	archivePath := l.ArchivePath()
	exists, err := l.caps.Exists(archivePath)
	if err != nil {
		return fmt.Errorf("failed to check archive %s: %w", archivePath, err)
	}
	if exists {
		l.log.Infof("extracting archive %s", archivePath)
		if err := l.caps.Extract(archivePath, l.dir); err != nil {
			return fmt.Errorf("failed to extract archive %s: %w", archivePath, err)
		}
	} else {
		l.log.Info("no existing archive; a fresh store will be created")
	}

	l.state = StateHydrated
	return nil
}

// MarkSynced records that the external sync step has completed,
// transitioning Hydrated -> Synced.
func (l *Lifecycle) MarkSynced() error {
	if l.state != StateHydrated {
		return fmt.Errorf("cannot mark synced from state %s", l.state)
	}
	l.state = StateSynced
	return nil
}

// Finalize repackages the working store into the canonical archive,
// transitioning Synced -> Archived. The new archive is compressed to a
// temporary path first; only after compression succeeds is the old
// archive deleted and the temporary file renamed into place, so a
// compression failure leaves the previous archive untouched. A missing
// working store skips archiving entirely: nothing to persist is not an
// error.
func (l *Lifecycle) Finalize() error {
	if l.state != StateSynced {
		return fmt.Errorf("cannot finalize from state %s", l.state)
	}

	storePath := l.StorePath()
	exists, err := l.caps.Exists(storePath)
	if err != nil {
		return fmt.Errorf("failed to check working store %s: %w", storePath, err)
	}
	if !exists {
		l.log.Info("no working store produced; skipping archive")
		l.state = StateArchived
		return nil
	}

	archivePath := l.ArchivePath()
	tempPath := archivePath + tempSuffix
	l.log.Infof("archiving store to %s", archivePath)
	if err := l.caps.Compress(storePath, tempPath); err != nil {
		if exists, existsErr := l.caps.Exists(tempPath); existsErr == nil && exists {
			_ = l.caps.Remove(tempPath)
		}
		return fmt.Errorf("failed to compress store for %s: %w", l.name, err)
	}

	// The old archive may not exist on a first sync.
	_ = l.caps.Remove(archivePath)
	if err := l.caps.Rename(tempPath, archivePath); err != nil {
		return fmt.Errorf("failed to move archive %s to %s: %w", tempPath, archivePath, err)
	}

	l.state = StateArchived
	return nil
}

// Cleanup deletes the working store, transitioning to CleanedUp.
// It is best-effort and valid from any state so the driver can always
// dispose of the scratch store, including after a failed sync.
func (l *Lifecycle) Cleanup() {
	storePath := l.StorePath()
	if exists, err := l.caps.Exists(storePath); err == nil && exists {
		if err := l.caps.Remove(storePath); err != nil {
			l.log.WithError(err).Warn("failed to remove working store")
		}
	}
	l.state = StateCleanedUp
}
