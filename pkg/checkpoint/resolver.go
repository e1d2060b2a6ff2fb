package checkpoint

import (
	"context"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/findolor/local-db-remote/pkg/telemetry"
)

// syncStatusTable is the checkpoint-tracking table the external CLI
// maintains inside each local store.
const syncStatusTable = "sync_status"

// Availability is the result of probing the store inspector once per
// run. An unavailable inspector is a soft condition: resolution simply
// reports no resume point.
type Availability struct {
	Available bool
	Reason    string
}

// StoreInspector answers schema and value queries against a local
// store. Implementations must treat the store as read-only.
type StoreInspector interface {
	// Probe reports whether the inspector can be used at all.
	Probe(ctx context.Context) Availability

	// HasTable reports whether the named table exists in the store.
	HasTable(ctx context.Context, storePath, table string) (bool, error)

	// Columns returns the column names of the named table.
	Columns(ctx context.Context, storePath, table string) ([]string, error)

	// MaxValue returns the maximum value of the named column as text.
	MaxValue(ctx context.Context, storePath, table, column string) (string, error)
}

// Plan describes one sync attempt: where the working store and archive
// live, the last checkpoint found in the store (nil when none), and
// the block the sync should start from.
type Plan struct {
	StorePath   string
	ArchivePath string
	LastBlock   *uint64
	StartBlock  uint64
}

// Resolver determines the resume point for a sync by inspecting an
// existing local store. Every lookup failure degrades to "no resume
// point found"; a full resync is always a safe fallback.
type Resolver struct {
	inspector StoreInspector
	log       *telemetry.Logger

	probeOnce sync.Once
	avail     Availability
}

// NewResolver creates a resolver backed by the given inspector.
func NewResolver(inspector StoreInspector, log *telemetry.Logger) *Resolver {
	return &Resolver{
		inspector: inspector,
		log:       log.NewComponentLogger("checkpoint"),
	}
}

// Resolve computes the sync plan for one orderbook. The start block is
// the deployment block when no checkpoint is recorded, otherwise one
// past the last checkpoint, floor-clamped to the deployment block.
func (r *Resolver) Resolve(ctx context.Context, storePath, archivePath string, deploymentBlock uint64) Plan {
	last := r.lastSyncedBlock(ctx, storePath)

	start := deploymentBlock
	if last != nil && *last+1 > deploymentBlock {
		start = *last + 1
	}

	return Plan{
		StorePath:   storePath,
		ArchivePath: archivePath,
		LastBlock:   last,
		StartBlock:  start,
	}
}

func (r *Resolver) lastSyncedBlock(ctx context.Context, storePath string) *uint64 {
	if _, err := os.Stat(storePath); err != nil {
		return nil
	}

	r.probeOnce.Do(func() {
		r.avail = r.inspector.Probe(ctx)
		if !r.avail.Available {
			r.log.Warnf("store inspector unavailable; skipping resume-point lookup (%s)", r.avail.Reason)
		}
	})
	if !r.avail.Available {
		return nil
	}

	hasTable, err := r.inspector.HasTable(ctx, storePath, syncStatusTable)
	if err != nil || !hasTable {
		// A missing checkpoint table just means "full resync".
		return nil
	}

	columns, err := r.inspector.Columns(ctx, storePath, syncStatusTable)
	if err != nil {
		return nil
	}
	column := ""
	for _, name := range columns {
		if strings.Contains(strings.ToLower(name), "block") {
			column = name
			break
		}
	}
	if column == "" {
		return nil
	}

	value, err := r.inspector.MaxValue(ctx, storePath, syncStatusTable, column)
	if err != nil {
		return nil
	}
	parsed, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return nil
	}
	return &parsed
}
