package settings

// Network holds the connection info parsed for one named network.
// ChainID stays nil until a valid integer value is seen; malformed
// values leave it absent rather than zero.
type Network struct {
	Name    string
	ChainID *uint64
	// RPCs keeps duplicates and blanks as parsed; the config builder
	// trims and de-duplicates.
	RPCs []string
}

// Orderbook holds the deployment metadata parsed for one named orderbook.
type Orderbook struct {
	Name            string
	Address         string
	DeploymentBlock *uint64
}

// Document is the result of parsing a settings document: the two
// per-name mappings joined later by the config builder.
type Document struct {
	Networks   map[string]Network
	Orderbooks map[string]Orderbook
}

// SyncConfig is a fully validated per-orderbook sync configuration.
// Construction fails closed: an orderbook missing any required field
// is skipped, never defaulted.
type SyncConfig struct {
	Orderbook       string   `validate:"required"`
	ChainID         uint64   `validate:"required"`
	Address         string   `validate:"required"`
	DeploymentBlock uint64
	RPCs            []string `validate:"min=1"`
}

// Skip describes why an orderbook was excluded from the built configs.
// Skips are diagnostics, not errors; they never abort the build.
type Skip struct {
	Orderbook string
	Reason    string
}
