// Package archive manages the lifecycle of a working store and its
// compressed archive across one sync attempt.
//
// Each orderbook's data is canonical at rest only as a tar.gz archive.
// A Lifecycle walks the explicit state machine
// Idle -> Hydrated -> Synced -> Archived -> CleanedUp: prepare
// hydrates a working store from the archive (or signals a fresh
// start), finalize re-compresses the store with an atomic
// temp-then-rename replacement, and cleanup disposes of the scratch
// store. Filesystem and codec access goes through the Capabilities
// interface so the state machine can be tested in isolation.
package archive
