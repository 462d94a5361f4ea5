package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/nao1215/dehashscan/internal/config"
	"github.com/nao1215/dehashscan/internal/database"
	"github.com/nao1215/dehashscan/internal/model"
	"github.com/nao1215/dehashscan/internal/report"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [domain]",
		Short: "List previous scans",
		Long: `History lists the scans recorded in the history database, newest first.

Only scan summaries are stored (counts, hashcat modes and a digest of the
records); breach records themselves never leave the workspace.

Examples:
  # List every recorded scan
  dehashscan history

  # List scans of one domain
  dehashscan history example.com

  # Output JSON
  dehashscan history --json example.com`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("json", "j", false, "Output JSON")
	cmd.Flags().String("db-dir", config.XDGDataDir(), "Directory holding the history database")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}

	var domain string
	if len(args) == 1 {
		domain, err = config.NormalizeDomain(args[0])
		if err != nil {
			return err
		}
	}

	scans, err := loadHistory(cmd.Context(), dbDir, domain)
	if err != nil {
		return err
	}

	var w report.HistoryWriter = report.NewSimpleWriter(cmd.OutOrStdout())
	if jsonOutput {
		w = report.NewJSONWriter(cmd.OutOrStdout(), report.WithPrettyPrint())
	}
	_, err = w.WriteHistory(scans)
	return err
}

// loadHistory reads the recorded scans of domain (all when empty).
// A missing database means nothing has been recorded yet.
func loadHistory(ctx context.Context, dbDir, domain string) ([]*model.Scan, error) {
	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []*model.Scan{}, nil
		}
		return nil, err
	}
	defer db.Close()

	scans, err := db.ListScans(ctx, domain)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	return scans, nil
}
