package cli

import (
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rosterd/rosterd/internal/config"
	"github.com/rosterd/rosterd/internal/logging"
	"github.com/rosterd/rosterd/internal/metrics"
	"github.com/rosterd/rosterd/internal/roster"
	"github.com/rosterd/rosterd/internal/sheet"
	"github.com/rosterd/rosterd/internal/store"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one sync and print the result",
	Long: `Fetches the registration sheet once, converts its rows, mirrors
them through the simulated backend, and prints a summary. Useful for
verifying sheet access and field mapping before running serve.`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	if cfg.Sync.Timeout > 0 {
		roster.SyncTimeout = cfg.Sync.Timeout
	}

	fetcher := sheet.NewClient(sheet.Config{
		URL:      cfg.Sheet.URL,
		Timeout:  cfg.Sheet.Timeout,
		MaxBytes: cfg.Sheet.MaxBytes,
	}, log)
	writer := store.NewSim(store.Config{Latency: cfg.Sim.Latency}, log)
	service := roster.NewService(fetcher, writer, metrics.New(), log)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := service.Sync(ctx)
	if err != nil {
		return errors.New(roster.FormatUserError(err))
	}

	cmd.Printf("Sync %s finished in %dms\n", result.RunID, result.DurationMs)
	cmd.Printf("  rows fetched: %d\n", result.RowCount)
	cmd.Printf("  imported:     %d (added %d, updated %d)\n", result.Imported, result.Added, result.Updated)
	cmd.Printf("  skipped:      %d\n", len(result.Skipped))
	for _, skip := range result.Skipped {
		cmd.Printf("    line %d: %s\n", skip.Line, skip.Reason)
	}
	return nil
}
