// Package settings parses the remote settings document and builds
// per-orderbook sync configurations.
//
// The document is a semi-structured, indentation-sensitive text with
// two top-level sections, "networks:" and "orderbooks:". Parsing is
// deliberately tolerant: the document comes from an independently
// maintained remote source, so a malformed entry is skipped (leaving
// its field absent) instead of aborting the whole parse. Only input
// that cannot be decoded as text at all yields a ParseError.
//
// BuildConfigs joins the two parsed mappings into validated
// SyncConfigs, emitting a Skip diagnostic for every orderbook that
// fails a data-quality check.
package settings
