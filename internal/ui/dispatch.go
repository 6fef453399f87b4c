package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/pathpilot/internal/command"
	"github.com/five82/pathpilot/internal/robot"
)

// rowStatus is a command's delivery state in the most recent run.
type rowStatus string

const (
	statusQueued   rowStatus = "queued"
	statusSending  rowStatus = "sending"
	statusSent     rowStatus = "sent"
	statusRejected rowStatus = "rejected" // error status that did not end the run
	statusFailed   rowStatus = "failed"
	statusSkipped  rowStatus = "skipped"
)

// runState tracks an in-flight dispatch. The snapshot is fixed at start, so
// queue edits during the run do not change what is sent.
type runState struct {
	snapshot []command.Command
	stop     chan struct{}
	stopping bool
	events   chan tea.Msg
}

type progressMsg robot.Progress

type dispatchDoneMsg robot.Result

// startDispatch snapshots the queue and runs the dispatcher on its own
// goroutine. Progress flows back through run.events one message at a time.
func (m *Model) startDispatch() tea.Cmd {
	snapshot := m.session.Queue.Snapshot()
	if len(snapshot) == 0 {
		return m.toasts.push(toastWarning, "No commands to send")
	}
	if m.dispatcher == nil {
		return m.toasts.push(toastError, "Robot is not configured")
	}

	run := &runState{
		snapshot: snapshot,
		stop:     make(chan struct{}),
		events:   make(chan tea.Msg, len(snapshot)+1),
	}
	m.run = run
	m.statuses = make(map[string]rowStatus, len(snapshot))
	for _, c := range snapshot {
		m.statuses[c.CommandID()] = statusQueued
	}
	m.statuses[snapshot[0].CommandID()] = statusSending

	ctx := m.ctx
	dispatcher := m.dispatcher
	go func() {
		result := dispatcher.Dispatch(ctx, snapshot, robot.DispatchOptions{
			Stop: run.stop,
			OnProgress: func(p robot.Progress) {
				run.events <- progressMsg(p)
			},
		})
		run.events <- dispatchDoneMsg(result)
		close(run.events)
	}()

	return tea.Batch(
		m.toasts.push(toastInfo, fmt.Sprintf("Sending %d commands...", len(snapshot))),
		waitForRun(run.events),
	)
}

// stopDispatch asks the running dispatch to end after the current command.
func (m *Model) stopDispatch() tea.Cmd {
	if m.run == nil || m.run.stopping {
		return nil
	}
	m.run.stopping = true
	close(m.run.stop)
	return m.toasts.push(toastInfo, "Stopping after the current command...")
}

func waitForRun(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}

func (m *Model) handleProgress(p progressMsg) tea.Cmd {
	if m.run == nil {
		return nil
	}
	id := p.Command.CommandID()
	switch {
	case p.Err == nil:
		m.statuses[id] = statusSent
	case robot.KindOf(p.Err) == robot.FailureHTTPStatus && !m.dispatcher.Policy().AbortOnHTTPError:
		m.statuses[id] = statusRejected
	default:
		m.statuses[id] = statusFailed
	}
	advanced := m.statuses[id] == statusSent || m.statuses[id] == statusRejected
	if next := p.Index + 1; advanced && !m.run.stopping && next < len(m.run.snapshot) {
		m.statuses[m.run.snapshot[next].CommandID()] = statusSending
	}
	return waitForRun(m.run.events)
}

func (m *Model) handleDispatchDone(res dispatchDoneMsg) tea.Cmd {
	run := m.run
	m.run = nil
	if run != nil {
		for _, c := range run.snapshot {
			if s := m.statuses[c.CommandID()]; s == statusQueued || s == statusSending {
				m.statuses[c.CommandID()] = statusSkipped
			}
		}
	}
	m.lastResult = (*robot.Result)(&res)
	kind, message := outcomeToast(robot.Result(res))
	return m.toasts.push(kind, message)
}

// outcomeToast maps a finished run to its notification.
func outcomeToast(res robot.Result) (toastKind, string) {
	switch res.Outcome {
	case robot.OutcomeEmpty:
		return toastWarning, "No commands to send"
	case robot.OutcomeAborted:
		return toastError, fmt.Sprintf("Error sending command %d: %s", res.FailedIndex+1, robot.Summary(res.Cause))
	case robot.OutcomeStopped:
		return toastWarning, fmt.Sprintf("Stopped after %d of %d commands", res.Sent, res.Total)
	default:
		if n := len(res.HTTPErrors); n > 0 {
			return toastWarning, fmt.Sprintf("Sent %d commands, robot rejected %d", res.Sent, n)
		}
		return toastSuccess, "All commands sent successfully!"
	}
}
