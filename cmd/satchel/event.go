// Event subcommands for the satchel CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

func newEventCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Manage calendar events",
	}
	cmd.AddCommand(newEventAddCmd())
	cmd.AddCommand(newEventListCmd())
	cmd.AddCommand(newEventDoneCmd())
	cmd.AddCommand(newEventDeleteCmd())
	return cmd
}

func newEventAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <title> <date> [time]",
		Short: "Create an event (duplicate triples are a no-op)",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			tm := ""
			if len(args) == 3 {
				tm = args[2]
			}
			if err := store.EventCreate(args[0], args[1], tm); err != nil {
				return err
			}
			fmt.Println("Event saved.")
			return nil
		},
	}
}

func newEventListCmd() *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "list <date>",
		Short: "List events for a day, or a range with --to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var events []types.Event
			var err error
			if to != "" {
				events, err = store.EventListRange(args[0], to)
			} else {
				events, err = store.EventListDay(args[0])
			}
			if err != nil {
				return err
			}
			if len(events) == 0 {
				fmt.Println("No events.")
				return nil
			}
			for _, e := range events {
				printEvent(e)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "inclusive end date for a range query")
	return cmd
}

func newEventDoneCmd() *cobra.Command {
	var undone bool
	cmd := &cobra.Command{
		Use:   "done <title> <date> [time]",
		Short: "Mark an event completed (or pending with --undone)",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			tm := ""
			if len(args) == 3 {
				tm = args[2]
			}
			if err := store.EventToggleComplete(args[0], args[1], tm, !undone); err != nil {
				return err
			}
			fmt.Println("Event updated.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&undone, "undone", false, "mark the event as pending instead")
	return cmd
}

func newEventDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <title> <date> [time]",
		Short: "Delete an event by exact match",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			tm := ""
			if len(args) == 3 {
				tm = args[2]
			}
			n, err := store.EventDelete(args[0], args[1], tm)
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Println("No matching event found.")
				return nil
			}
			fmt.Printf("Deleted %d event(s).\n", n)
			return nil
		},
	}
}

func printEvent(e types.Event) {
	tm := e.Time
	if tm == "" {
		tm = "--:--"
	}
	mark := " "
	if e.Completed {
		mark = "x"
	}
	fmt.Printf("[%s] %s %s  %s\n", mark, e.Date, tm, e.Title)
}
