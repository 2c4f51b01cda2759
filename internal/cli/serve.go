package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rosterd/rosterd/internal/config"
	"github.com/rosterd/rosterd/internal/logging"
	"github.com/rosterd/rosterd/internal/metrics"
	"github.com/rosterd/rosterd/internal/roster"
	"github.com/rosterd/rosterd/internal/sheet"
	"github.com/rosterd/rosterd/internal/store"
	"github.com/rosterd/rosterd/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the roster API server with background syncs",
	Long: `Starts the HTTP server and the sync scheduler. The roster is
fetched from the configured sheet on the configured interval and served
from memory; member writes are simulated.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := logging.Setup(cfg.Log.Level, cfg.Log.Format)
	log.Info("configuration loaded", "config", cfg.String())

	if cfg.Sync.Timeout > 0 {
		roster.SyncTimeout = cfg.Sync.Timeout
	}

	m := metrics.New()
	fetcher := sheet.NewClient(sheet.Config{
		URL:      cfg.Sheet.URL,
		Timeout:  cfg.Sheet.Timeout,
		MaxBytes: cfg.Sheet.MaxBytes,
	}, log)
	writer := store.NewSim(store.Config{Latency: cfg.Sim.Latency}, log)
	service := roster.NewService(fetcher, writer, m, log)
	server := web.NewServer(service, m, cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go service.StartScheduler(ctx, roster.SchedulerConfig{
		Interval:   cfg.Sync.Interval,
		RunOnStart: cfg.Sync.RunOnStart,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case <-ctx.Done():
		// Signal received, fall through to graceful shutdown.
	case err := <-errCh:
		// The listener failed before any signal.
		return err
	}

	log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if service.Busy() {
		log.Info("waiting for running sync to finish")
		if err := service.Drain(shutdownCtx); err != nil {
			log.Warn("sync did not finish in time", "error", err)
		}
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	log.Info("server stopped")
	return nil
}
