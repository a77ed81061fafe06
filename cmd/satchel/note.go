// Note subcommands for the satchel CLI.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

func newNoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Manage notes",
	}
	cmd.AddCommand(newNoteSaveCmd())
	cmd.AddCommand(newNoteShowCmd())
	cmd.AddCommand(newNoteDeleteCmd())
	cmd.AddCommand(newNoteSearchCmd())
	cmd.AddCommand(newNoteFoldersCmd())
	cmd.AddCommand(newNoteListCmd())
	return cmd
}

func newNoteSaveCmd() *cobra.Command {
	var folder string
	cmd := &cobra.Command{
		Use:   "save <title> [content]",
		Short: "Create or overwrite a note (content from arg or stdin)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var content string
			if len(args) == 2 {
				content = args[1]
			} else {
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				content = string(data)
			}
			if err := store.NoteUpsert(args[0], content, folder); err != nil {
				return err
			}
			fmt.Println("Note saved.")
			return nil
		},
	}
	cmd.Flags().StringVar(&folder, "folder", "", "folder for the note (default: root)")
	return cmd
}

func newNoteShowCmd() *cobra.Command {
	var folder string
	cmd := &cobra.Command{
		Use:   "show <title>",
		Short: "Print a note's content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := store.NoteGet(args[0], folder)
			if errors.Is(err, types.ErrNotFound) {
				return fmt.Errorf("note %q not found", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Println(content)
			return nil
		},
	}
	cmd.Flags().StringVar(&folder, "folder", "", "folder of the note (default: root)")
	return cmd
}

func newNoteDeleteCmd() *cobra.Command {
	var folder string
	cmd := &cobra.Command{
		Use:   "delete <title>",
		Short: "Delete a note by exact key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deleted, err := store.NoteDelete(args[0], folder)
			if err != nil {
				return err
			}
			if !deleted {
				fmt.Println("No matching note found.")
				return nil
			}
			fmt.Println("Note deleted.")
			return nil
		},
	}
	cmd.Flags().StringVar(&folder, "folder", "", "folder of the note (default: root)")
	return cmd
}

func newNoteSearchCmd() *cobra.Command {
	var folder string
	var limit int
	var plain bool
	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search notes by title or content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var scope *string
			if cmd.Flags().Changed("folder") {
				scope = &folder
			}
			var refs []types.NoteRef
			var err error
			if plain {
				refs, err = store.NoteSearch(args[0], scope)
			} else {
				refs, err = store.NoteSearchFTS(args[0], scope, limit)
			}
			if err != nil {
				return err
			}
			if len(refs) == 0 {
				fmt.Println("No matches.")
				return nil
			}
			for _, r := range refs {
				if r.Folder == "" {
					fmt.Println(r.Title)
					continue
				}
				fmt.Printf("%s/%s\n", r.Folder, r.Title)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&folder, "folder", "", "restrict to a folder (empty string: root notes)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of results")
	cmd.Flags().BoolVar(&plain, "plain", false, "force substring search instead of full-text")
	return cmd
}

func newNoteFoldersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "folders",
		Short: "List note folders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			folders, err := store.NoteListFolders()
			if err != nil {
				return err
			}
			for _, f := range folders {
				fmt.Println(f)
			}
			return nil
		},
	}
}

func newNoteListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [folder]",
		Short: "List note titles (root notes when no folder is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder := ""
			if len(args) == 1 {
				folder = args[0]
			}
			titles, err := store.NoteListTitles(folder)
			if err != nil {
				return err
			}
			for _, t := range titles {
				fmt.Println(t)
			}
			return nil
		},
	}
}
