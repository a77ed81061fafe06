// Setting subcommands: the generic key/value config table.
package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newSettingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setting",
		Short: "Manage assistant settings",
	}
	cmd.AddCommand(newSettingSetCmd())
	cmd.AddCommand(newSettingGetCmd())
	cmd.AddCommand(newSettingListCmd())
	return cmd
}

func newSettingSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a setting (value parsed as JSON, else stored as string)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var value any
			if err := json.Unmarshal([]byte(args[1]), &value); err != nil {
				// Bare words are stored as plain strings.
				value = args[1]
			}
			if err := store.ConfigSet(args[0], value); err != nil {
				return err
			}
			fmt.Println("Setting saved.")
			return nil
		},
	}
}

func newSettingGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print a setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value := store.ConfigGet(args[0], nil)
			if value == nil {
				return fmt.Errorf("setting %q not found", args[0])
			}
			data, err := json.Marshal(value)
			if err != nil {
				return fmt.Errorf("rendering value: %w", err)
			}
			fmt.Println(string(data))
			return nil
		},
	}
}

func newSettingListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print all settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all := store.ConfigLoadAll()
			keys := make([]string, 0, len(all))
			for k := range all {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				data, err := json.Marshal(all[k])
				if err != nil {
					continue
				}
				fmt.Printf("%s = %s\n", k, string(data))
			}
			return nil
		},
	}
}
