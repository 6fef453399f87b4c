package ui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/pathpilot/internal/robot"
	"github.com/five82/pathpilot/internal/state"
)

// PoseRefresher polls the robot once and records the result.
type PoseRefresher func(ctx context.Context) (robot.Pose, error)

type poseMsg struct {
	err      error
	snapshot state.Snapshot
}

func (m *Model) pollPose() tea.Cmd {
	if m.refreshPose == nil {
		return m.toasts.push(toastError, "Pose endpoint is not configured")
	}
	if m.polling {
		return nil
	}
	m.polling = true

	ctx, refresh, store := m.ctx, m.refreshPose, m.store
	return func() tea.Msg {
		_, err := refresh(ctx)
		var snap state.Snapshot
		if store != nil {
			snap = store.Snapshot()
		}
		return poseMsg{err: err, snapshot: snap}
	}
}

func (m *Model) handlePose(msg poseMsg) tea.Cmd {
	m.polling = false
	m.pose = msg.snapshot
	if msg.err != nil {
		return m.toasts.push(toastError, "Pose: "+robot.Summary(msg.err))
	}
	return nil
}

// renderPose renders the pose line, e.g. "X: 0.50  Y: 0.00".
func (m Model) renderPose(styles Styles) string {
	snap := m.pose
	if m.polling {
		return styles.InfoText.Render("Pose: polling...")
	}
	if !snap.HasPose {
		if snap.LastError != nil {
			return styles.DangerText.Render("Pose: unavailable")
		}
		return styles.MutedText.Render("Pose: unknown (ctrl+p)")
	}

	line := styles.Text.Render(fmt.Sprintf("X: %.2f  Y: %.2f", snap.Pose.X, snap.Pose.Y))
	switch {
	case snap.IsOffline():
		line += " " + styles.DangerText.Render("offline")
	case snap.IsStale():
		line += " " + styles.WarningText.Render("stale")
	}
	if !snap.PosedAt.IsZero() {
		line += " " + styles.FaintText.Render(formatAge(m.now().Sub(snap.PosedAt)))
	}
	return line
}

func formatAge(d time.Duration) string {
	switch {
	case d < time.Second:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d/time.Second))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	default:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	}
}
