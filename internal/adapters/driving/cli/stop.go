package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var stopCmd = &cobra.Command{
	Use:   "stop <subject>",
	Short: "Stop the watch for an account",
	Long: `Tears down the push-notification watch for one account and
marks its lease stopped. The account is re-registered on the next setup
unless its token file is removed.`,
	Args: cobra.ExactArgs(1),
	RunE: runStop,
}

func init() {
	rootCmd.AddCommand(stopCmd)
}

func runStop(cmd *cobra.Command, args []string) error {
	if renewer == nil {
		return errors.New("renewer service not configured")
	}

	subject := args[0]
	if err := renewer.StopWatch(cmd.Context(), subject); err != nil {
		return fmt.Errorf("stopping watch for %s: %w", subject, err)
	}

	cmd.Printf("Watch stopped for %s.\n", subject)
	return nil
}
