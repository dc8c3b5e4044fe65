package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var renewCmd = &cobra.Command{
	Use:   "renew",
	Short: "Run a single renewal cycle",
	Long: `Checks every known account and re-registers any watch that is
within the renewal window of its expiry, then exits.`,
	RunE: runRenew,
}

func init() {
	rootCmd.AddCommand(renewCmd)
}

func runRenew(cmd *cobra.Command, _ []string) error {
	if renewer == nil {
		return errors.New("renewer service not configured")
	}

	cmd.Println("Checking watch leases...")

	summary, err := renewer.CheckAndRenewAll(cmd.Context())
	cmd.Printf("Checked %d, renewed %d, failed %d, not yet due %d.\n",
		summary.Checked, summary.Renewed, summary.Failed, summary.Skipped)

	if err != nil {
		return fmt.Errorf("renewal cycle finished with errors: %w", err)
	}
	return nil
}
