// Backup and legacy-archive subcommands.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export and import JSON snapshots",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "export [path]",
		Short: "Write a full snapshot (auto-named under the backups dir by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			written, err := store.BackupExport(path)
			if err != nil {
				return err
			}
			fmt.Println(written)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "import <path>",
		Short: "Merge a snapshot into the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := store.BackupImport(args[0]); err != nil {
				return err
			}
			fmt.Println("Snapshot imported.")
			return nil
		},
	})
	return cmd
}

func newLegacyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "legacy",
		Short: "Manage the pre-database legacy files",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "cleanup",
		Short: "Archive the legacy event file and notes directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			changed, err := store.CleanupLegacy()
			if err != nil {
				return err
			}
			if !changed {
				fmt.Println("Nothing to archive.")
				return nil
			}
			fmt.Println("Legacy files archived.")
			return nil
		},
	})
	return cmd
}
