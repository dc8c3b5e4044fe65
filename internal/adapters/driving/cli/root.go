// Package cli implements the gwatch command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/gwatch/internal/config"
	"github.com/custodia-labs/gwatch/internal/core/ports/driving"
	"github.com/custodia-labs/gwatch/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services injected by main before Execute.
var (
	renewer   driving.Renewer
	appConfig config.Config
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "gwatch",
	Short: "Keep Gmail push-notification watches alive",
	Long: `gwatch maintains Gmail push-notification watches for a set of
accounts. Watches expire after roughly seven days; gwatch re-registers
each one before expiry so Pub/Sub notifications keep flowing.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logger.SetVerbose(true)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetServices injects the renewer and configuration. Must be called
// before Execute.
func SetServices(r driving.Renewer, cfg config.Config) {
	renewer = r
	appConfig = cfg
}

// SetVersion sets the version string shown by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
