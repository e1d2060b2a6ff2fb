package manifest

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// CurrentSchemaVersion is the manifest schema this service writes and
// accepts.
const CurrentSchemaVersion = 1

// DefaultSeedGeneration is the seed generation assigned to networks
// that have never been bumped.
const DefaultSeedGeneration = 1

// Manifest records, per network, where the latest archive can be
// downloaded and when it was produced.
type Manifest struct {
	SchemaVersion int              `yaml:"schema_version"`
	Networks      map[uint64]Entry `yaml:"networks"`
}

// Entry is the manifest record for one network.
type Entry struct {
	DumpURL        string `yaml:"dump_url"`
	DumpTimestamp  string `yaml:"dump_timestamp"`
	SeedGeneration uint32 `yaml:"seed_generation"`
}

// New returns an empty manifest at the current schema version.
func New() *Manifest {
	return &Manifest{
		SchemaVersion: CurrentSchemaVersion,
		Networks:      make(map[uint64]Entry),
	}
}

// Load reads a manifest from disk. A missing file yields a fresh
// manifest; entries without a recorded seed generation get the
// default.
func Load(path string) (*Manifest, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil
		}
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	return Decode(contents)
}

// Decode parses manifest YAML.
func Decode(contents []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(contents, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if m.Networks == nil {
		m.Networks = make(map[uint64]Entry)
	}
	for id, entry := range m.Networks {
		if entry.SeedGeneration == 0 {
			entry.SeedGeneration = DefaultSeedGeneration
			m.Networks[id] = entry
		}
	}
	return &m, nil
}

// Save writes the manifest to disk.
func (m *Manifest) Save(path string) error {
	serialized, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to serialize manifest: %w", err)
	}
	if err := os.WriteFile(path, serialized, 0644); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", path, err)
	}
	return nil
}

// Update records a fresh archive for a network, preserving its seed
// generation. The manifest file is created if missing.
func Update(path string, chainID uint64, dumpURL string, timestamp time.Time) error {
	m, err := Load(path)
	if err != nil {
		return err
	}
	if m.SchemaVersion != CurrentSchemaVersion {
		return fmt.Errorf("unsupported manifest schema version %d; expected %d",
			m.SchemaVersion, CurrentSchemaVersion)
	}

	seedGeneration := uint32(DefaultSeedGeneration)
	if existing, ok := m.Networks[chainID]; ok {
		seedGeneration = existing.SeedGeneration
	}

	m.Networks[chainID] = Entry{
		DumpURL:        dumpURL,
		DumpTimestamp:  timestamp.UTC().Format(time.RFC3339),
		SeedGeneration: seedGeneration,
	}
	return m.Save(path)
}

// SeedGenerationBump is the result of bumping one network's seed
// generation.
type SeedGenerationBump struct {
	ChainID  uint64
	Previous uint32
	Next     uint32
}

// BumpSeedGeneration increments the seed generation for one network.
// The network must already have a manifest entry.
func BumpSeedGeneration(path string, chainID uint64) (SeedGenerationBump, error) {
	m, err := Load(path)
	if err != nil {
		return SeedGenerationBump{}, err
	}
	entry, ok := m.Networks[chainID]
	if !ok {
		return SeedGenerationBump{}, fmt.Errorf("no manifest entry for chain %d", chainID)
	}

	bump := SeedGenerationBump{
		ChainID:  chainID,
		Previous: entry.SeedGeneration,
		Next:     entry.SeedGeneration + 1,
	}
	entry.SeedGeneration = bump.Next
	m.Networks[chainID] = entry
	if err := m.Save(path); err != nil {
		return SeedGenerationBump{}, err
	}
	return bump, nil
}

// SchemaVersionBump is the result of bumping the manifest schema
// version.
type SchemaVersionBump struct {
	Previous int
	Next     int
}

// BumpSchemaVersion increments the manifest's schema version and
// rewrites the file.
func BumpSchemaVersion(path string) (SchemaVersionBump, error) {
	m, err := Load(path)
	if err != nil {
		return SchemaVersionBump{}, err
	}

	bump := SchemaVersionBump{
		Previous: m.SchemaVersion,
		Next:     m.SchemaVersion + 1,
	}
	m.SchemaVersion = bump.Next
	if err := m.Save(path); err != nil {
		return SchemaVersionBump{}, err
	}
	return bump, nil
}
