package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/pathpilot/internal/logtail"
)

const (
	logTailLines   = 200
	logRefreshTick = time.Second
)

type logLinesMsg struct {
	gen   int
	lines []string
	err   error
}

type logTickMsg struct{ gen int }

// toggleLogs shows or hides the log pane. Each opening starts a new
// refresh generation so ticks from an earlier opening are ignored.
func (m *Model) toggleLogs() tea.Cmd {
	if m.logPath == "" {
		return m.toasts.push(toastInfo, "Logging to stderr; no log file to show")
	}
	m.showLogs = !m.showLogs
	m.logGen++
	m.resize()
	if !m.showLogs {
		return nil
	}
	return readLogCmd(m.logPath, m.logGen)
}

func readLogCmd(path string, gen int) tea.Cmd {
	return func() tea.Msg {
		lines, err := logtail.Read(path, logTailLines)
		return logLinesMsg{gen: gen, lines: lines, err: err}
	}
}

func (m *Model) handleLogLines(msg logLinesMsg) tea.Cmd {
	if msg.gen != m.logGen || !m.showLogs {
		return nil
	}
	if msg.err != nil {
		m.logViewport.SetContent(m.theme.Styles().DangerText.Render(msg.err.Error()))
	} else {
		atBottom := m.logViewport.AtBottom() || m.logViewport.TotalLineCount() == 0
		m.logViewport.SetContent(m.formatLogLines(msg.lines))
		if atBottom {
			m.logViewport.GotoBottom()
		}
	}
	gen := msg.gen
	return tea.Tick(logRefreshTick, func(time.Time) tea.Msg { return logTickMsg{gen: gen} })
}

func (m *Model) handleLogTick(msg logTickMsg) tea.Cmd {
	if msg.gen != m.logGen || !m.showLogs {
		return nil
	}
	return readLogCmd(m.logPath, msg.gen)
}

func (m Model) formatLogLines(lines []string) string {
	styles := m.theme.Styles()
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		e := logtail.Parse(line)
		if e.Level == "" {
			out = append(out, styles.Text.Render(e.Message))
			continue
		}

		var level string
		switch e.Level {
		case "DEBUG":
			level = styles.InfoText.Render(e.Level)
		case "INFO":
			level = styles.SuccessText.Render(e.Level)
		case "WARN":
			level = styles.WarningText.Render(e.Level)
		default:
			level = styles.DangerText.Render(e.Level)
		}

		parts := []string{styles.FaintText.Render(shortTime(e.Time)), level}
		if e.Logger != "" {
			parts = append(parts, styles.AccentText.Render("["+e.Logger+"]"))
		}
		parts = append(parts, styles.Text.Render(e.Message))
		if e.Fields != "" {
			parts = append(parts, styles.MutedText.Render(e.Fields))
		}
		out = append(out, strings.Join(parts, " "))
	}
	return strings.Join(out, "\n")
}

// shortTime trims an ISO8601 timestamp to its clock part.
func shortTime(ts string) string {
	if i := strings.IndexByte(ts, 'T'); i >= 0 && len(ts) >= i+9 {
		return ts[i+1 : i+9]
	}
	return ts
}
