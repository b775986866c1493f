package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"genai-hq/inference/pkg/cli"
	"genai-hq/inference/pkg/config"
	"genai-hq/inference/pkg/ledger"
	"genai-hq/inference/pkg/ledger/retention"
	"genai-hq/inference/pkg/ledger/storage"
	"genai-hq/inference/pkg/telemetry/logging"
)

var (
	ledgerListLimit int
	ledgerPruneDays int
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect and maintain the generation ledger",
	Long: `The generation ledger records the outcome of every /generate request
served while ledger.enabled is set. These commands read the store configured
under ledger.backend; the in-memory store is empty outside a running server.`,
}

var ledgerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent generation records, newest first",
	Long: `List recent generation records, newest first.

Examples:
  inference ledger list --config config.yaml
  inference ledger list --limit 5 -o json`,
	RunE: runLedgerList,
}

var ledgerPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete generation records older than the retention period",
	Long: `Delete generation records older than --days (defaults to
ledger.retention.days). The scheduled pruner in "inference serve" does the
same on ledger.retention.schedule.

Examples:
  inference ledger prune --config config.yaml
  inference ledger prune --days 7`,
	RunE: runLedgerPrune,
}

func init() {
	ledgerListCmd.Flags().IntVarP(&ledgerListLimit, "limit", "n", 20, "maximum records to print (0 for all)")
	ledgerPruneCmd.Flags().IntVar(&ledgerPruneDays, "days", 0, "retention in days (defaults to ledger.retention.days)")

	ledgerCmd.AddCommand(ledgerListCmd)
	ledgerCmd.AddCommand(ledgerPruneCmd)
	rootCmd.AddCommand(ledgerCmd)
}

// openLedger loads the config, sets up logging and opens the ledger store.
func openLedger() (*config.Config, ledger.Store, error) {
	cfg, err := loadConfig(nil)
	if err != nil {
		return nil, nil, err
	}

	if _, err := logging.Setup(logging.FromConfig(cfg.Telemetry.Logging)); err != nil {
		return nil, nil, cli.NewConfigError("telemetry.logging", err.Error(), err)
	}

	store, err := storage.Open(cfg.Ledger)
	if err != nil {
		return nil, nil, cli.NewConfigError("ledger", "failed to open ledger store", err)
	}
	return cfg, store, nil
}

func runLedgerList(cmd *cobra.Command, args []string) error {
	f, err := formatter()
	if err != nil {
		return cli.NewConfigError("output", err.Error(), err)
	}

	_, store, err := openLedger()
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(cmd.Context(), ledgerListLimit)
	if err != nil {
		return cli.NewCommandError("ledger list", err)
	}

	out := cmd.OutOrStdout()
	if _, ok := f.(*cli.JSONFormatter); ok {
		return f.FormatTo(out, records)
	}
	return writeRecords(out, records)
}

func runLedgerPrune(cmd *cobra.Command, args []string) error {
	cfg, store, err := openLedger()
	if err != nil {
		return err
	}
	defer store.Close()

	days := cfg.Ledger.Retention.Days
	if cmd.Flags().Changed("days") {
		days = ledgerPruneDays
	}
	if days <= 0 {
		return cli.NewConfigError("days", "retention must be at least one day", nil)
	}

	pruner := retention.NewPruner(store, retention.Config{RetentionDays: days})
	deleted, err := pruner.Prune(cmd.Context())
	if err != nil {
		return cli.NewCommandError("ledger prune", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d record(s) older than %d day(s)\n", deleted, days)
	return nil
}

// writeRecords prints records as an aligned table.
func writeRecords(w io.Writer, records []*ledger.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No records")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CREATED\tREQUEST\tMODEL\tSOURCE\tSTATUS\tTOKENS\tLATENCY_MS")
	for _, r := range records {
		source := r.Source
		if source == "" {
			source = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%.1f\n",
			r.CreatedAt.Format(time.RFC3339), r.RequestID, r.Model, source, r.Status, r.TokensUsed, r.LatencyMS)
	}
	return tw.Flush()
}
