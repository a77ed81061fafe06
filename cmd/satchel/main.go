// Package main provides the satchel CLI: every store operation of the
// assistant's storage layer exposed for scripting and diagnostics.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/satchel/internal/paths"
	"github.com/mesh-intelligence/satchel/pkg/sqlite"
	"github.com/mesh-intelligence/satchel/pkg/types"
)

var (
	// Global flag values.
	flagConfigDir string
	flagDataDir   string

	// store is the shared store instance, opened on startup.
	store types.Store
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "satchel",
	Short: "Satchel is the assistant's local storage layer",
	Long: `Satchel manages the calendar events, notes, and settings of a desktop
assistant in a single embedded database, with one-time migration from
the legacy flat-file formats and JSON backup snapshots.`,
	SilenceUsage:       true,
	PersistentPreRunE:  initStore,
	PersistentPostRunE: closeStore,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory holding the database")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(newEventCmd())
	rootCmd.AddCommand(newNoteCmd())
	rootCmd.AddCommand(newSettingCmd())
	rootCmd.AddCommand(newBackupCmd())
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(newLegacyCmd())
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("satchel v0.1.0")
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the store",
	Long: `Initialize the database, running legacy migration and schema upgrades.
Prints the one-time migration notice if one is pending.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := store.ConsumeMigrationReport()
		if err != nil {
			return err
		}
		if report != nil {
			fmt.Printf("Migrated %d events and %d notes from legacy files.\n",
				report.EventsMigrated, report.NotesMigrated)
			if !report.LegacyArchived {
				fmt.Println("Run 'satchel legacy cleanup' to archive the legacy files.")
			}
		}
		fmt.Println("Store initialized.")
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the database integrity check",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !store.IntegrityCheck() {
			return fmt.Errorf("integrity check failed")
		}
		fmt.Println("ok")
		return nil
	},
}

// initStore resolves directories, loads config.yaml, and opens the
// shared store.
func initStore(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(flagConfigDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	dataDir, err := paths.ResolveDataDir(flagDataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}

	s, err := sqlite.Open(types.Config{
		DataDir:          dataDir,
		BackupsDir:       v.GetString(cfgKeyBackupsDir),
		LegacyEventsFile: v.GetString(cfgKeyLegacyEvents),
		LegacyNotesDir:   v.GetString(cfgKeyLegacyNotes),
		LegacyConfigFile: v.GetString(cfgKeyLegacyConfig),
	})
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	store = s
	return nil
}

// closeStore releases the shared store.
func closeStore(cmd *cobra.Command, args []string) error {
	if store != nil {
		return store.Close()
	}
	return nil
}
