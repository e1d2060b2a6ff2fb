package sync

// Environment variables consumed by the orchestrator.
const (
	// EnvCLIBinaryURL locates the external sync CLI release archive.
	EnvCLIBinaryURL = "CLI_BINARY_URL"

	// EnvSettingsURL locates the remote settings document.
	EnvSettingsURL = "SETTINGS_YAML_URL"

	// EnvSyncOrderbooks is an optional comma-separated selection of
	// orderbook names to sync.
	EnvSyncOrderbooks = "SYNC_ORDERBOOKS"
)

// APITokenEnvVars are checked in order for the sync CLI's access
// credential; the first non-empty value wins.
var APITokenEnvVars = []string{
	"RAIN_API_TOKEN",
	"RAIN_ORDERBOOK_API_TOKEN",
	"HYPERRPC_API_TOKEN",
}

// CLIArchiveName is the local file name for the downloaded CLI
// archive.
const CLIArchiveName = "rain-orderbook-cli.tar.gz"

// ReleaseDownloadURLTemplate is where published store archives and the
// manifest are downloaded from; {file} is replaced with the file name.
const ReleaseDownloadURLTemplate = "https://github.com/findolor/local-db-remote/releases/latest/download/{file}"

// ManifestFileName is the manifest file kept alongside the store
// archives.
const ManifestFileName = "manifest.yaml"

// SettingsFileName is where the fetched settings document is staged
// for the external CLI.
const SettingsFileName = "settings.yaml"

// Config controls one orchestrator run.
type Config struct {
	// DataDir holds working stores, archives, and the manifest.
	// Relative paths resolve against the runtime's working directory.
	DataDir string

	// BinDir is where the CLI binary is extracted.
	BinDir string

	// Orderbooks optionally restricts the run to these orderbook
	// names (case-insensitive). Merged with EnvSyncOrderbooks.
	Orderbooks []string

	// ContinueOnError keeps processing remaining orderbooks after a
	// fatal per-orderbook failure instead of aborting the batch. The
	// run still reports failure.
	ContinueOnError bool
}

// DefaultConfig returns the default orchestrator configuration.
func DefaultConfig() Config {
	return Config{
		DataDir: "data",
		BinDir:  "bin",
	}
}
