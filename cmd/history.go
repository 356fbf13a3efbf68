package cmd

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/zjrosen/panediff/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent comparisons",
	Long: `List comparisons recorded when a diff view was closed, newest first.

Examples:
  panediff history
  panediff history --limit 5
  panediff history delete 3f2c9a1e-5b7d-4c8e-9f10-2a3b4c5d6e7f
  panediff --last          # reopen the newest file comparison`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete one history entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

var historyLimit int

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyDeleteCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum entries to show (0 for all)")
}

func openHistory() (*history.DB, error) {
	if !cfg.History.Enabled {
		return nil, errors.New("history is disabled (history.enabled: false)")
	}
	return history.NewDB(cfg.History.Path)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	db, err := openHistory()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	entries, err := db.Store().List(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	return printHistory(cmd.OutOrStdout(), entries, time.Now())
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	db, err := openHistory()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := db.Store().Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("deleting %s: %w", args[0], err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
	return err
}

// printHistory writes entries as an aligned table.
func printHistory(w io.Writer, entries []history.Entry, now time.Time) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No comparisons recorded yet.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tWHEN\tCOMPARISON\tCHANGES")
	for _, e := range entries {
		changes := fmt.Sprintf("+%d -%d ~%d", e.Inserted, e.Deleted, e.Modified)
		if e.Failed {
			changes = "failed"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s ↔ %s\t%s\n",
			e.ID, history.FormatRelative(e.ClosedAt, now), e.LeftName, e.RightName, changes)
	}
	return tw.Flush()
}
