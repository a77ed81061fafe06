// Config loading for the satchel CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	configFileName     = "config"
	configFileType     = "yaml"
	configFileFullName = "config.yaml"

	// Config keys mirrored from types.Config.
	cfgKeyDataDir      = "data_dir"
	cfgKeyBackupsDir   = "backups_dir"
	cfgKeyLegacyEvents = "legacy_events_file"
	cfgKeyLegacyNotes  = "legacy_notes_dir"
	cfgKeyLegacyConfig = "legacy_config_file"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# Satchel CLI configuration

# Data directory (optional; overridable by --data-dir flag)
# data_dir:

# Backups directory (default: <data_dir>/backups)
# backups_dir:

# Legacy flat-file locations consumed by one-time migration
# legacy_events_file:
# legacy_notes_dir:
# legacy_config_file:
`

// loadConfig reads config.yaml from the resolved config directory using
// Viper, creating the directory and a default config.yaml on first run.
// A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file
// does not exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileFullName)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
