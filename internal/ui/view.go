package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/pathpilot/internal/command"
)

func (m Model) renderMain() string {
	styles := m.theme.Styles()

	sections := []string{
		m.renderHeader(styles),
		m.renderEntry(styles),
		m.renderQueue(styles),
	}
	if t, ok := m.toasts.current(); ok {
		sections = append(sections, styles.ToastStyle(t.kind).Render(t.message))
	}
	if m.showLogs {
		sections = append(sections, styles.Panel.Render(m.logViewport.View()))
	}
	sections = append(sections, styles.Footer.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader(styles Styles) string {
	left := styles.Logo.Render("PATHPILOT")
	if m.controlURL != "" {
		left += " " + styles.FaintText.Render(m.controlURL)
	}
	right := m.renderPose(styles)
	switch {
	case m.run != nil:
		right = styles.InfoText.Render(m.runLabel()) + "  " + right
	case m.lastResult != nil:
		right = styles.MutedText.Render(fmt.Sprintf("Last run: %s %d/%d", m.lastResult.Outcome, m.lastResult.Sent, m.lastResult.Total)) + "  " + right
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return styles.Header.Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) runLabel() string {
	done := 0
	for _, c := range m.run.snapshot {
		switch m.statuses[c.CommandID()] {
		case statusSent, statusRejected, statusFailed:
			done++
		}
	}
	if m.run.stopping {
		return fmt.Sprintf("Stopping %d/%d", done, len(m.run.snapshot))
	}
	return fmt.Sprintf("Sending %d/%d", done, len(m.run.snapshot))
}

func (m Model) renderEntry(styles Styles) string {
	moveTab, turnTab := styles.InactiveTab, styles.InactiveTab
	label := "Distance (m)"
	if m.tab == TabTurn {
		turnTab = styles.ActiveTab
		label = "Angle (°)"
	} else {
		moveTab = styles.ActiveTab
	}
	tabs := lipgloss.JoinHorizontal(lipgloss.Top, moveTab.Render("Movement"), " ", turnTab.Render("Turn"))
	line := styles.MutedText.Render(label+" ") + m.input.View()
	return lipgloss.JoinVertical(lipgloss.Left, tabs, line)
}

func (m Model) renderQueue(styles Styles) string {
	items := m.session.Queue.Snapshot()
	title := styles.AccentText.Bold(true).Render(fmt.Sprintf("Commands (%d)", len(items)))
	if len(items) == 0 {
		return styles.Panel.Render(title + "\n" + styles.FaintText.Render("No commands yet. Type a value and press enter."))
	}

	rows := make([]string, 0, len(items))
	for i, c := range items {
		row := fmt.Sprintf("%3d  %s", i+1, blockLabel(c))
		if status, ok := m.statuses[c.CommandID()]; ok {
			row += "  " + styles.StatusStyle(status).Render(string(status))
		}
		if i == m.selected {
			row = styles.Selected.Render("> " + row)
		} else {
			row = styles.Text.Render("  " + row)
		}
		rows = append(rows, row)
	}
	return styles.Panel.Render(title + "\n" + strings.Join(m.visibleRows(rows), "\n"))
}

// visibleRows keeps the selected row on screen when the queue is taller
// than the space left by the other sections.
func (m Model) visibleRows(rows []string) []string {
	avail := m.height - 12
	if m.showLogs {
		avail -= m.logViewport.Height + 2
	}
	if avail < 3 || len(rows) <= avail {
		return rows
	}
	start := m.selected - avail/2
	if start < 0 {
		start = 0
	}
	if start+avail > len(rows) {
		start = len(rows) - avail
	}
	return rows[start : start+avail]
}

// blockLabel renders a queued command, e.g. "MOVE 0.2m forward #m1".
func blockLabel(c command.Command) string {
	return fmt.Sprintf("%s %s #%s", strings.ToUpper(string(c.Kind())), command.Describe(c), c.CommandID())
}
