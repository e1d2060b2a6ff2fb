// Package manifest maintains the manifest.yaml that indexes published
// store archives: one entry per network with the archive download URL,
// its timestamp, and a seed generation counter used to force full
// re-seeds downstream.
package manifest
