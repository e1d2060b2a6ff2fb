// Package sync is the composition root of the local-db sync service.
//
// An Orchestrator processes configured orderbooks strictly
// sequentially: each one's hydrate -> resolve -> sync -> finalize ->
// cleanup sequence completes (or fails) before the next begins. All
// collaborators — HTTP fetcher, external CLI runner, store inspector,
// archive capabilities, clock — are injected through Runtime so the
// flow is testable end to end without the network or the real CLI.
//
// Failures are classified (soft, data_quality, fatal) via SyncError.
// A fatal per-orderbook failure aborts the batch by default;
// Config.ContinueOnError makes the policy per-run configurable.
package sync
