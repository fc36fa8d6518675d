package root

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"mak/internal/journal"
	"mak/internal/storage"
)

var errClearNotConfirmed = errors.New("refusing to clear without --yes")

func newJournalCmd() *cobra.Command {
	var ownerID string

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Export, import or clear an owner's journal",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(ownerID); err != nil {
				return fmt.Errorf("--owner must be a uuid: %w", err)
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&ownerID, "owner", "", "owner id (required)")
	_ = cmd.MarkPersistentFlagRequired("owner")

	cmd.AddCommand(
		newJournalExportCmd(&ownerID),
		newJournalImportCmd(&ownerID),
		newJournalClearCmd(&ownerID),
	)
	return cmd
}

// openJournal loads the owner's journal from the database.
func openJournal(ctx context.Context, ownerID string) (*journal.Repository, error) {
	a, err := loadApp()
	if err != nil {
		return nil, err
	}
	if a.gdb == nil {
		return nil, errNoDatabase
	}
	repo := journal.NewRepository(storage.NewAdapter(a.store, ownerID, a.logger))
	repo.Load(ctx)
	return repo, nil
}

func newJournalExportCmd(ownerID *string) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the journal backup JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openJournal(cmd.Context(), *ownerID)
			if err != nil {
				return err
			}
			doc, err := repo.ExportJSON()
			if err != nil {
				return err
			}
			if out == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), doc)
				return err
			}
			if out == "auto" {
				out = journal.BackupFileName(time.Now())
			}
			if err := os.WriteFile(out, []byte(doc), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "exported %d sessions and %d free cards to %s\n",
				len(repo.Sessions()), len(repo.FreeCards()), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", `output file ("auto" names it by date, default stdout)`)
	return cmd
}

func newJournalImportCmd(ownerID *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace the journal from a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw []byte
			var err error
			if args[0] == "-" {
				raw, err = io.ReadAll(cmd.InOrStdin())
			} else {
				raw, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}

			repo, err := openJournal(cmd.Context(), *ownerID)
			if err != nil {
				return err
			}
			res, err := repo.ImportJSON(cmd.Context(), string(raw))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d sessions and %d free cards\n", res.Sessions, res.FreeCards)
			return nil
		},
	}
	return cmd
}

func newJournalClearCmd(ownerID *string) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all sessions and free cards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errClearNotConfirmed
			}
			repo, err := openJournal(cmd.Context(), *ownerID)
			if err != nil {
				return err
			}
			if !repo.Clear(cmd.Context(), func() bool { return yes }) {
				return errors.New("journal not cleared")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "journal cleared")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deletion")
	return cmd
}
