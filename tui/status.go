package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const scrollHint = "PgUp/PgDn "

// renderStatusBar produces a full-width inverted status line: the game's
// status on the left, the scroll hint on the right when it fits.
func (m Model) renderStatusBar() string {
	left := " " + m.status
	right := scrollHint
	if lipgloss.Width(left)+lipgloss.Width(right)+2 > m.width {
		right = ""
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
