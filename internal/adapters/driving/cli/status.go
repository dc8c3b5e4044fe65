package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/gwatch/internal/adapters/driving/tui"
	"github.com/custodia-labs/gwatch/internal/core/domain"
)

var statusFollow bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show watch lease state for all accounts",
	Long: `Prints the current lease for every known account: status,
expiry, and the last error if any. With --follow, opens a live view
that refreshes until interrupted.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVarP(&statusFollow, "follow", "f", false, "refresh continuously")
	rootCmd.AddCommand(statusCmd)
}

var (
	statusOKStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	statusFailedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headerStyle       = lipgloss.NewStyle().Bold(true)
)

func runStatus(cmd *cobra.Command, _ []string) error {
	if renewer == nil {
		return errors.New("renewer service not configured")
	}

	if statusFollow {
		model := tui.NewModel(renewer, 5*time.Second)
		program := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("status view error: %w", err)
		}
		return nil
	}

	leases, err := renewer.Leases(cmd.Context())
	if err != nil {
		return fmt.Errorf("loading lease state: %w", err)
	}

	if len(leases) == 0 {
		cmd.Println("No accounts found. Add token files to the tokens directory.")
		return nil
	}

	styled := term.IsTerminal(int(os.Stdout.Fd()))
	cmd.Print(renderLeaseTable(leases, styled, time.Now()))
	return nil
}

// renderLeaseTable formats leases as an aligned text table. Styling is
// skipped when output is not a terminal so the output stays greppable.
func renderLeaseTable(leases []domain.Lease, styled bool, now time.Time) string {
	rows := make([][]string, 0, len(leases)+1)
	rows = append(rows, []string{"SUBJECT", "STATUS", "EXPIRY", "EXPIRES IN", "RETRIES", "LAST ERROR"})

	for _, lease := range leases {
		expiry, expiresIn := "-", "-"
		if !lease.Expiry.IsZero() {
			expiry = lease.Expiry.Local().Format("2006-01-02 15:04")
			expiresIn = formatDurationUntil(lease.Expiry, now)
		}
		lastErr := lease.LastError
		if len(lastErr) > 40 {
			lastErr = lastErr[:37] + "..."
		}
		rows = append(rows, []string{
			lease.Subject,
			string(lease.Status),
			expiry,
			expiresIn,
			fmt.Sprintf("%d", lease.RetryCount),
			lastErr,
		})
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	for ri, row := range rows {
		var cells []string
		for i, cell := range row {
			cells = append(cells, fmt.Sprintf("%-*s", widths[i], cell))
		}
		line := strings.TrimRight(strings.Join(cells, "  "), " ")
		if styled {
			line = styleLine(ri, row, line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func styleLine(rowIndex int, row []string, line string) string {
	if rowIndex == 0 {
		return headerStyle.Render(line)
	}
	switch domain.LeaseStatus(row[1]) {
	case domain.LeaseStatusOK:
		return statusOKStyle.Render(line)
	case domain.LeaseStatusFailed:
		return statusFailedStyle.Render(line)
	case domain.LeaseStatusStopped:
		return statusDimStyle.Render(line)
	default:
		return line
	}
}

// formatDurationUntil renders a coarse countdown like "6d17h" or "43m".
func formatDurationUntil(t, now time.Time) string {
	d := t.Sub(now)
	if d < 0 {
		return "expired"
	}
	switch {
	case d >= 24*time.Hour:
		days := int(d / (24 * time.Hour))
		hours := int(d % (24 * time.Hour) / time.Hour)
		return fmt.Sprintf("%dd%dh", days, hours)
	case d >= time.Hour:
		return fmt.Sprintf("%dh%dm", int(d/time.Hour), int(d%time.Hour/time.Minute))
	default:
		return fmt.Sprintf("%dm", int(d/time.Minute))
	}
}
