// Package tui provides the live lease status view.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/gwatch/internal/core/domain"
	"github.com/custodia-labs/gwatch/internal/core/ports/driving"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// keyMap defines the key bindings for the status view.
type keyMap struct {
	Refresh key.Binding
	Quit    key.Binding
}

var defaultKeyMap = keyMap{
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

type leasesMsg []domain.Lease

type leasesErrMsg struct{ err error }

type tickMsg time.Time

// Model is the bubbletea model for the live lease status view.
type Model struct {
	renewer  driving.Renewer
	interval time.Duration
	keys     keyMap

	leases    []domain.Lease
	err       error
	refreshed time.Time
	width     int
}

// NewModel creates a status view refreshing on the given interval.
func NewModel(renewer driving.Renewer, interval time.Duration) Model {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return Model{
		renewer:  renewer,
		interval: interval,
		keys:     defaultKeyMap,
		width:    80,
	}
}

// Init starts the first fetch and the refresh ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchLeases, m.tick())
}

// Update handles refresh ticks, fetch results, and key presses.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			return m, m.fetchLeases
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case leasesMsg:
		m.leases = msg
		m.err = nil
		m.refreshed = time.Now()
	case leasesErrMsg:
		m.err = msg.err
		m.refreshed = time.Now()
	case tickMsg:
		return m, tea.Batch(m.fetchLeases, m.tick())
	}
	return m, nil
}

// View renders the lease table with a title and key hints.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("gwatch: watch leases"))
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	case len(m.leases) == 0:
		b.WriteString(mutedStyle.Render("No accounts found."))
		b.WriteString("\n")
	default:
		b.WriteString(m.renderTable())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderTable() string {
	now := time.Now()
	rows := make([][]string, 0, len(m.leases)+1)
	rows = append(rows, []string{"SUBJECT", "STATUS", "EXPIRES IN", "RETRIES"})

	for _, lease := range m.leases {
		expiresIn := "-"
		if !lease.Expiry.IsZero() {
			if d := lease.Expiry.Sub(now); d < 0 {
				expiresIn = "expired"
			} else {
				expiresIn = d.Round(time.Minute).String()
			}
		}
		rows = append(rows, []string{
			lease.Subject,
			string(lease.Status),
			expiresIn,
			fmt.Sprintf("%d", lease.RetryCount),
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
		if ri == 0 {
			line = headerStyle.Render(line)
		} else {
			line = m.styleRow(domain.LeaseStatus(row[1]), line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m Model) styleRow(status domain.LeaseStatus, line string) string {
	switch status {
	case domain.LeaseStatusOK:
		return okStyle.Render(line)
	case domain.LeaseStatusFailed:
		return failedStyle.Render(line)
	case domain.LeaseStatusStopped:
		return mutedStyle.Render(line)
	default:
		return line
	}
}

func (m Model) renderFooter() string {
	refreshed := "never"
	if !m.refreshed.IsZero() {
		refreshed = m.refreshed.Format("15:04:05")
	}
	hints := []string{
		fmt.Sprintf("%s: %s", m.keys.Refresh.Help().Key, m.keys.Refresh.Help().Desc),
		fmt.Sprintf("%s: %s", m.keys.Quit.Help().Key, m.keys.Quit.Help().Desc),
	}
	return mutedStyle.Render(
		fmt.Sprintf("refreshed %s | %s", refreshed, strings.Join(hints, " | ")),
	)
}

// fetchLeases loads the current lease state.
func (m Model) fetchLeases() tea.Msg {
	leases, err := m.renewer.Leases(context.Background())
	if err != nil {
		return leasesErrMsg{err: err}
	}
	return leasesMsg(leases)
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
