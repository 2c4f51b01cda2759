// Package cli implements the rosterd command line interface.
package cli

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// version is stamped at build time via -ldflags.
var version = "dev"

// configPath holds the --config flag shared by all commands.
var configPath string

var rootCmd = &cobra.Command{
	Use:   "rosterd",
	Short: "Coaching academy roster sync service",
	Long: `rosterd mirrors a coaching academy's registration sheet into a
member roster. It fetches the published CSV export, converts rows into
member records, and serves the roster over a JSON API while simulating
writes to the academy's member system.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		// Load .env if present (Overload overwrites existing env vars)
		if err := godotenv.Overload(); err != nil {
			slog.Debug("no .env file found, using environment variables")
		} else {
			slog.Info("loaded .env file (overwriting existing env vars)")
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"path to a YAML config file (default: the ROSTERD_CONFIG env var)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
