// cli/health.go
package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/bookshelf/internal/api"
)

// healthStatus represents the last known state of the archive service.
type healthStatus string

const (
	// healthUnknown indicates the health probe has not returned yet.
	healthUnknown healthStatus = "unknown"
	// healthOK indicates the archive responded and reports ok.
	healthOK healthStatus = "ok"
	// healthDegraded indicates the archive responded with a non-ok status.
	healthDegraded healthStatus = "degraded"
	// healthDown indicates the health probe failed outright.
	healthDown healthStatus = "down"
)

// deriveHealthStatus maps a health snapshot to a display status.
func deriveHealthStatus(h api.Health) healthStatus {
	if h.Status == "ok" {
		return healthOK
	}
	return healthDegraded
}

// formatHealthIndicator returns a human-readable string for the given status.
func formatHealthIndicator(status healthStatus, vectors int) string {
	switch status {
	case healthOK:
		return fmt.Sprintf("Archive: ok (%d vectors)", vectors)
	case healthDegraded:
		return "Archive: degraded"
	case healthDown:
		return "Archive: down"
	default:
		return "Archive: ..."
	}
}

// renderHealthBadge returns a Lipgloss-styled badge string for the archive status.
func renderHealthBadge(status healthStatus, vectors int) string {
	badgeStyle := lipgloss.NewStyle().Background(lipgloss.Color("229")).Foreground(lipgloss.Color("0")).Padding(0, 1).MarginLeft(1)
	if status == healthDown {
		badgeStyle = badgeStyle.Background(lipgloss.Color("9")).Foreground(lipgloss.Color("230"))
	}
	return badgeStyle.Render(formatHealthIndicator(status, vectors))
}
