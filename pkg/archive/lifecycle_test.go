package archive

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/findolor/local-db-remote/pkg/telemetry"
)

func newTestLifecycle(t *testing.T, dir string) *Lifecycle {
	t.Helper()
	return NewLifecycle("orderbook", dir, NewDiskCapabilities(), telemetry.Nop())
}

func TestPrepareWithoutArchiveLeavesStoreAbsent(t *testing.T) {
	dir := t.TempDir()
	lc := newTestLifecycle(t, dir)

	if err := lc.Prepare(); err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}
	if lc.State() != StateHydrated {
		t.Errorf("Expected hydrated state, got %s", lc.State())
	}
	if _, err := os.Stat(lc.StorePath()); !errors.Is(err, os.ErrNotExist) {
		t.Error("Expected working store to be absent for a fresh start")
	}
}

func TestPrepareRemovesStaleWorkingStore(t *testing.T) {
	dir := t.TempDir()
	lc := newTestLifecycle(t, dir)
	if err := os.WriteFile(lc.StorePath(), []byte("stale"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := lc.Prepare(); err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}
	if _, err := os.Stat(lc.StorePath()); !errors.Is(err, os.ErrNotExist) {
		t.Error("Expected stale working store to be deleted")
	}
}

func TestFinalizeRoundTrip(t *testing.T) {
	dir := t.TempDir()

	// First attempt: fresh start, the "sync" writes the store.
	first := newTestLifecycle(t, dir)
	if err := first.Prepare(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(first.StorePath(), []byte("contents"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := first.MarkSynced(); err != nil {
		t.Fatal(err)
	}
	if err := first.Finalize(); err != nil {
		t.Fatalf("Finalize returned error: %v", err)
	}
	first.Cleanup()

	if _, err := os.Stat(first.StorePath()); !errors.Is(err, os.ErrNotExist) {
		t.Error("Expected working store to be removed after cleanup")
	}
	if _, err := os.Stat(first.ArchivePath()); err != nil {
		t.Fatalf("Expected archive to exist: %v", err)
	}

	// Second attempt: hydrating from the archive reproduces the store.
	second := newTestLifecycle(t, dir)
	if err := second.Prepare(); err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}
	restored, err := os.ReadFile(second.StorePath())
	if err != nil {
		t.Fatalf("Expected hydrated working store: %v", err)
	}
	if string(restored) != "contents" {
		t.Errorf("Expected restored contents, got %q", restored)
	}
}

func TestNoOpSyncIsIdempotent(t *testing.T) {
	dir := t.TempDir()

	seed := newTestLifecycle(t, dir)
	if err := seed.Prepare(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(seed.StorePath(), []byte("stable"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := seed.MarkSynced(); err != nil {
		t.Fatal(err)
	}
	if err := seed.Finalize(); err != nil {
		t.Fatal(err)
	}
	seed.Cleanup()

	// prepare -> finalize -> cleanup with no sync in between.
	lc := newTestLifecycle(t, dir)
	if err := lc.Prepare(); err != nil {
		t.Fatal(err)
	}
	if err := lc.MarkSynced(); err != nil {
		t.Fatal(err)
	}
	if err := lc.Finalize(); err != nil {
		t.Fatalf("Finalize returned error: %v", err)
	}
	lc.Cleanup()

	if _, err := os.Stat(lc.StorePath()); !errors.Is(err, os.ErrNotExist) {
		t.Error("Expected no working store left on disk")
	}

	verify := newTestLifecycle(t, dir)
	if err := verify.Prepare(); err != nil {
		t.Fatal(err)
	}
	contents, err := os.ReadFile(verify.StorePath())
	if err != nil {
		t.Fatal(err)
	}
	if string(contents) != "stable" {
		t.Errorf("Expected archive content unchanged, got %q", contents)
	}
}

func TestFinalizeSkipsWhenStoreMissing(t *testing.T) {
	dir := t.TempDir()
	lc := newTestLifecycle(t, dir)
	if err := lc.Prepare(); err != nil {
		t.Fatal(err)
	}
	if err := lc.MarkSynced(); err != nil {
		t.Fatal(err)
	}

	if err := lc.Finalize(); err != nil {
		t.Fatalf("Expected missing store to be a no-op, got %v", err)
	}
	if _, err := os.Stat(lc.ArchivePath()); !errors.Is(err, os.ErrNotExist) {
		t.Error("Expected no archive to be produced")
	}
}

// failingCompressCaps wraps the disk capabilities with a compression
// failure.
type failingCompressCaps struct {
	Capabilities
}

func (f failingCompressCaps) Compress(srcPath, archivePath string) error {
	// Leave a partial temp file behind; finalize must remove it.
	_ = os.WriteFile(archivePath, []byte("partial"), 0644)
	return errors.New("compression failed")
}

func TestFinalizeFailureLeavesPreviousArchiveUntouched(t *testing.T) {
	dir := t.TempDir()
	previous := []byte("previous-archive")
	archivePath := filepath.Join(dir, "orderbook.db.tar.gz")
	if err := os.WriteFile(archivePath, previous, 0644); err != nil {
		t.Fatal(err)
	}

	lc := NewLifecycle("orderbook", dir, failingCompressCaps{NewDiskCapabilities()}, telemetry.Nop())
	lc.state = StateSynced
	if err := os.WriteFile(lc.StorePath(), []byte("new"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := lc.Finalize(); err == nil {
		t.Fatal("Expected finalize to fail")
	}

	after, err := os.ReadFile(archivePath)
	if err != nil {
		t.Fatalf("Expected previous archive to survive: %v", err)
	}
	if string(after) != string(previous) {
		t.Error("Expected previous archive content unchanged")
	}
	if _, err := os.Stat(archivePath + tempSuffix); !errors.Is(err, os.ErrNotExist) {
		t.Error("Expected no temporary archive left on disk")
	}
}

func TestLifecycleRejectsInvalidTransitions(t *testing.T) {
	dir := t.TempDir()

	lc := newTestLifecycle(t, dir)
	if err := lc.MarkSynced(); err == nil {
		t.Error("Expected MarkSynced to fail from idle")
	}
	if err := lc.Finalize(); err == nil {
		t.Error("Expected Finalize to fail from idle")
	}

	if err := lc.Prepare(); err != nil {
		t.Fatal(err)
	}
	if err := lc.Prepare(); err == nil {
		t.Error("Expected second Prepare to fail")
	}
	if err := lc.Finalize(); err == nil {
		t.Error("Expected Finalize to fail before MarkSynced")
	}
}

func TestCleanupIsBestEffortFromAnyState(t *testing.T) {
	dir := t.TempDir()
	lc := newTestLifecycle(t, dir)

	// No store, idle state: still transitions.
	lc.Cleanup()
	if lc.State() != StateCleanedUp {
		t.Errorf("Expected cleaned-up state, got %s", lc.State())
	}
}

func TestStateString(t *testing.T) {
	states := map[State]string{
		StateIdle:      "idle",
		StateHydrated:  "hydrated",
		StateSynced:    "synced",
		StateArchived:  "archived",
		StateCleanedUp: "cleaned-up",
	}
	for state, want := range states {
		if got := state.String(); got != want {
			t.Errorf("State %d: expected %q, got %q", int(state), want, got)
		}
	}
}
