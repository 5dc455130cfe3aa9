package notes

import (
	"fmt"
	"strconv"
	"time"

	"github.com/crucial707/notehub/cmd/cli/config"
	"github.com/crucial707/notehub/cmd/cli/output"
	"github.com/crucial707/notehub/internal/models"
	"github.com/spf13/cobra"
)

// ==========================
// Init Notes
// ==========================
func InitNotes(rootCmd *cobra.Command) {
	notesCmd := &cobra.Command{
		Use:   "notes",
		Short: "List and manage notes",
	}

	notesCmd.AddCommand(
		listNotesCmd(),
		getNoteCmd(),
		createNoteCmd(),
		updateNoteCmd(),
		deleteNoteCmd(),
	)

	rootCmd.AddCommand(notesCmd)
}

// ==========================
// LIST
// ==========================
func listNotesCmd() *cobra.Command {
	var page, perPage int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes, one page at a time",
		RunE: func(cmd *cobra.Command, args []string) error {
			if page < 1 || perPage < 1 {
				return fmt.Errorf("--page and --per-page must be at least 1")
			}
			p, err := config.Client().ListNotes(cmd.Context(), page, perPage)
			if err != nil {
				return err
			}
			if asJSON {
				return output.RenderJSON(cmd.OutOrStdout(), p.Notes)
			}

			rows := make([][]interface{}, 0, len(p.Notes))
			for _, n := range p.Notes {
				rows = append(rows, noteRow(n))
			}
			output.RenderTable(cmd.OutOrStdout(), noteHeaders, rows)

			pages := (p.Total + perPage - 1) / perPage
			if pages < 1 {
				pages = 1
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Page %d of %d (%d notes)\n", page, pages, p.Total)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&perPage, "per-page", 10, "Notes per page")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

// ==========================
// GET
// ==========================
func getNoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			n, err := config.Client().GetNote(cmd.Context(), id)
			if err != nil {
				return err
			}
			output.RenderTable(cmd.OutOrStdout(), noteHeaders, [][]interface{}{noteRow(n)})
			return nil
		},
	}
}

// ==========================
// CREATE
// ==========================
func createNoteCmd() *cobra.Command {
	var in models.NoteInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a note as the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := config.LoadToken()
			if err != nil {
				return err
			}
			n, err := config.Client().CreateNote(cmd.Context(), token, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created note %d\n", n.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Title, "title", "", "Note title")
	cmd.Flags().StringVar(&in.Content, "content", "", "Note content")
	_ = cmd.MarkFlagRequired("content")
	return cmd
}

// ==========================
// UPDATE
// ==========================
func updateNoteCmd() *cobra.Command {
	var in models.NoteInput

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Replace the title and content of a note you wrote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			token, err := config.LoadToken()
			if err != nil {
				return err
			}
			n, err := config.Client().UpdateNote(cmd.Context(), token, id, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated note %d\n", n.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Title, "title", "", "Note title")
	cmd.Flags().StringVar(&in.Content, "content", "", "Note content")
	_ = cmd.MarkFlagRequired("content")
	return cmd
}

// ==========================
// DELETE
// ==========================
func deleteNoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a note you wrote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			token, err := config.LoadToken()
			if err != nil {
				return err
			}
			if err := config.Client().DeleteNote(cmd.Context(), token, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted note %d\n", id)
			return nil
		},
	}
}

var noteHeaders = []string{"ID", "Title", "Content", "Author", "Created", "Updated"}

func noteRow(n models.Note) []interface{} {
	updated := ""
	if n.UpdatedAt != nil {
		updated = n.UpdatedAt.Local().Format(time.DateTime)
	}
	return []interface{}{n.ID, n.Title, n.Content, n.Author.Email, n.CreatedAt.Local().Format(time.DateTime), updated}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid note id %q", s)
	}
	return id, nil
}
