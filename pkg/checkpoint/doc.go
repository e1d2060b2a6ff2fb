// Package checkpoint resolves the resume point for a sync by
// inspecting an existing local store.
//
// The store's schema belongs to the external CLI and may vary in the
// name of its checkpoint column, so resolution is tolerant: the
// checkpoint-tracking table is located by name, its block column by a
// case-insensitive substring match, and any lookup failure along the
// way resolves to "no resume point found" rather than an error. The
// inspector is probed once per run and an unavailable inspector is a
// soft condition, not a failure.
package checkpoint
