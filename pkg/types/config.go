package types

import (
	"errors"
	"path/filepath"
)

// Config holds the on-disk layout for a satchel store. DataDir is the
// only required field; every other path defaults to a location derived
// from it.
type Config struct {
	// DataDir holds the database file, the migration report, and the
	// error log.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// BackupsDir receives auto-named backup snapshots. Defaults to
	// DataDir/backups.
	BackupsDir string `json:"backups_dir" yaml:"backups_dir"`

	// Legacy flat-file locations consumed by the one-time migration.
	// LegacyEventsFile defaults to DataDir/../eventos.json,
	// LegacyNotesDir to DataDir/../notas, and LegacyConfigFile to
	// DataDir/config.json, matching the layout the assistant used
	// before the database existed.
	LegacyEventsFile string `json:"legacy_events_file" yaml:"legacy_events_file"`
	LegacyNotesDir   string `json:"legacy_notes_dir" yaml:"legacy_notes_dir"`
	LegacyConfigFile string `json:"legacy_config_file" yaml:"legacy_config_file"`
}

// ErrDataDirEmpty is returned by Validate when DataDir is not set.
var ErrDataDirEmpty = errors.New("data dir must not be empty")

// Validate checks that the Config is well-formed.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return ErrDataDirEmpty
	}
	return nil
}

// WithDefaults returns a copy of the config with every unset path
// replaced by its DataDir-derived default.
func (c Config) WithDefaults() Config {
	out := c
	if out.BackupsDir == "" {
		out.BackupsDir = filepath.Join(out.DataDir, "backups")
	}
	parent := filepath.Dir(out.DataDir)
	if out.LegacyEventsFile == "" {
		out.LegacyEventsFile = filepath.Join(parent, "eventos.json")
	}
	if out.LegacyNotesDir == "" {
		out.LegacyNotesDir = filepath.Join(parent, "notas")
	}
	if out.LegacyConfigFile == "" {
		out.LegacyConfigFile = filepath.Join(out.DataDir, "config.json")
	}
	return out
}
