package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup [subject]",
	Short: "Register watches for one or all accounts",
	Long: `Force-registers the push-notification watch, regardless of
current expiry. With a subject argument only that account is
registered; otherwise every account with credentials is. Use after
adding new accounts or changing the Pub/Sub topic.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	if renewer == nil {
		return errors.New("renewer service not configured")
	}

	if len(args) > 0 {
		subject := args[0]
		cmd.Printf("Registering watch for %s...\n", subject)
		if err := renewer.Setup(cmd.Context(), subject); err != nil {
			return fmt.Errorf("setup failed: %w", err)
		}
		cmd.Printf("Watch registered for %s.\n", subject)
		return nil
	}

	cmd.Println("Registering watches for all accounts...")

	results, err := renewer.SetupAll(cmd.Context())
	if err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}

	subjects := make([]string, 0, len(results))
	for subject := range results {
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)

	failed := 0
	for _, subject := range subjects {
		if resErr := results[subject]; resErr != nil {
			failed++
			cmd.Printf("  %s: FAILED: %v\n", subject, resErr)
		} else {
			cmd.Printf("  %s: OK\n", subject)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d accounts failed", failed, len(results))
	}
	cmd.Printf("All %d accounts registered.\n", len(results))
	return nil
}
