package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/gwatch/internal/adapters/driven/auth"
	"github.com/custodia-labs/gwatch/internal/adapters/driving/health"
	"github.com/custodia-labs/gwatch/internal/logger"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the renewal daemon",
	Long: `Starts the background renewal loop. The daemon checks every
account on an interval, re-registers watches approaching expiry, reacts
to token files appearing or disappearing, and serves health endpoints
until interrupted.`,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runDaemon(cmd *cobra.Command, _ []string) error {
	if renewer == nil {
		return errors.New("renewer service not configured")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if appConfig.HealthAddr != "" {
		server := health.NewServer(appConfig.HealthAddr, renewer)
		go func() {
			if err := server.ListenAndServe(); err != nil {
				logger.Warn("health server stopped: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.Warn("health server shutdown: %v", err)
			}
		}()
	}

	// React to accounts added or removed while running. The watcher is
	// best-effort: a failure falls back to interval polling only.
	if trigger, ok := renewer.(auth.CycleTrigger); ok {
		watcher, err := auth.NewDirWatcher(appConfig.TokensDir, trigger)
		if err != nil {
			logger.Warn("token directory watch disabled: %v", err)
		} else {
			defer watcher.Close()
			go func() {
				if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Warn("token directory watch stopped: %v", err)
				}
			}()
		}
	}

	cmd.Printf("gwatch daemon started (interval %s, window %s)\n",
		appConfig.CheckInterval.Std(), appConfig.RenewalWindow.Std())

	err := renewer.Run(ctx)
	if errors.Is(err, context.Canceled) {
		cmd.Println("gwatch daemon stopped.")
		return nil
	}
	return err
}
