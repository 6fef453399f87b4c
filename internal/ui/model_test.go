package ui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/pathpilot/internal/command"
	"github.com/five82/pathpilot/internal/prefs"
	"github.com/five82/pathpilot/internal/robot"
	"github.com/five82/pathpilot/internal/state"
)

func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	if opts.PrefsPath == "" {
		opts.PrefsPath = filepath.Join(t.TempDir(), "prefs.toml")
	}
	m := New(opts)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model)
}

func press(m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func typeAndEnter(m Model, value string) Model {
	m.input.SetValue(value)
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	return m
}

func lastToast(t *testing.T, m Model) toast {
	t.Helper()
	if len(m.toasts.items) == 0 {
		t.Fatal("no toast queued")
	}
	return m.toasts.items[len(m.toasts.items)-1]
}

func queueIDs(m Model) []string {
	var ids []string
	for _, c := range m.session.Queue.Snapshot() {
		ids = append(ids, c.CommandID())
	}
	return ids
}

func TestAddMove(t *testing.T) {
	m := newTestModel(t, Options{})
	m = typeAndEnter(m, "0.2")

	if got := queueIDs(m); len(got) != 1 || got[0] != "m1" {
		t.Fatalf("queue = %v, want [m1]", got)
	}
	if tt := lastToast(t, m); tt.kind != toastSuccess || tt.message != "Movement command added" {
		t.Fatalf("toast = %+v", tt)
	}
	if m.input.Value() != "" {
		t.Fatalf("input not cleared: %q", m.input.Value())
	}
}

func TestAddRejectsEmptyInput(t *testing.T) {
	m := newTestModel(t, Options{})
	m = typeAndEnter(m, "   ")

	if m.session.Queue.Len() != 0 {
		t.Fatal("empty distance was queued")
	}
	if tt := lastToast(t, m); tt.kind != toastError || tt.message != "Please enter a distance" {
		t.Fatalf("toast = %+v", tt)
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeAndEnter(m, "")
	if tt := lastToast(t, m); tt.message != "Please enter an angle" {
		t.Fatalf("toast = %+v", tt)
	}
}

func TestAddStrictRejectsText(t *testing.T) {
	session := command.NewSession(command.SessionOptions{StrictNumbers: true})
	m := newTestModel(t, Options{Session: session})
	m = typeAndEnter(m, "far")

	if m.session.Queue.Len() != 0 {
		t.Fatal("non-numeric distance was queued")
	}
	if tt := lastToast(t, m); tt.kind != toastError {
		t.Fatalf("toast = %+v, want error", tt)
	}
	m = typeAndEnter(m, "1")
	if got := queueIDs(m); len(got) != 1 || got[0] != "m1" {
		t.Fatalf("queue = %v, want [m1]; rejected input must not use an id", got)
	}
}

func TestTabSwitchAddsTurnAndSavesPrefs(t *testing.T) {
	prefsPath := filepath.Join(t.TempDir(), "prefs.toml")
	m := newTestModel(t, Options{PrefsPath: prefsPath})

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.tab != TabTurn {
		t.Fatalf("tab = %v, want turn", m.tab)
	}
	m = typeAndEnter(m, "90")

	items := m.session.Queue.Snapshot()
	if len(items) != 1 || blockLabel(items[0]) != "TURN 90° #t1" {
		t.Fatalf("queue = %v", items)
	}
	if p := prefs.Load(prefsPath); p.Tab != "turn" {
		t.Fatalf("saved tab = %q, want turn", p.Tab)
	}
}

func TestReorderAndRemove(t *testing.T) {
	m := newTestModel(t, Options{})
	m = typeAndEnter(m, "0.5")
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeAndEnter(m, "45")
	m = typeAndEnter(m, "135")

	// Selection follows the newest command.
	if m.selected != 2 {
		t.Fatalf("selected = %d, want 2", m.selected)
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyUp, Alt: true})
	if got := queueIDs(m); got[1] != "t2" || got[2] != "t1" || m.selected != 1 {
		t.Fatalf("after alt+up queue = %v selected = %d", got, m.selected)
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyUp})
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyUp, Alt: true})
	if got := queueIDs(m); got[0] != "m1" || m.selected != 0 {
		t.Fatalf("move up at top changed queue: %v selected = %d", got, m.selected)
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlZ})
	if got := queueIDs(m); len(got) != 2 || got[1] != "t2" {
		t.Fatalf("after remove last queue = %v", got)
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlL})
	if m.session.Queue.Len() != 0 {
		t.Fatal("clear left commands behind")
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlZ})
	if m.session.Queue.Len() != 0 {
		t.Fatal("remove on empty queue changed it")
	}
	m = typeAndEnter(m, "1")
	if got := queueIDs(m); got[len(got)-1] != "t3" {
		t.Fatalf("ids reused after removal: %v", got)
	}
}

func TestSendEmptyQueue(t *testing.T) {
	m := newTestModel(t, Options{Dispatcher: robot.NewDispatcher(nil, robot.Policy{}, nil)})
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlS})

	if m.run != nil {
		t.Fatal("empty queue started a run")
	}
	if tt := lastToast(t, m); tt.kind != toastWarning || tt.message != "No commands to send" {
		t.Fatalf("toast = %+v", tt)
	}
}

// drainRun feeds dispatch messages back into the model until the run ends.
func drainRun(t *testing.T, m Model) Model {
	t.Helper()
	for m.run != nil {
		msg := waitForRun(m.run.events)()
		if msg == nil {
			t.Fatal("run channel closed before completion")
		}
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func TestSendDispatchesSnapshot(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"H":"x","status":"success"}`))
	}))
	defer srv.Close()

	client, err := robot.NewClient(robot.Endpoints{ControlURL: srv.URL + "/api/command", PoseURL: srv.URL + "/api/pose"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	m := newTestModel(t, Options{Dispatcher: robot.NewDispatcher(client, robot.Policy{}, nil)})
	m = typeAndEnter(m, "0.2")
	m = typeAndEnter(m, "0.3")
	m = typeAndEnter(m, "0.4")

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.run == nil {
		t.Fatal("send did not start a run")
	}
	if tt := lastToast(t, m); tt.message != "Sending 3 commands..." {
		t.Fatalf("toast = %+v", tt)
	}
	// Edits during the run do not reach the robot.
	m = typeAndEnter(m, "9")

	m = drainRun(t, m)
	if got := requests.Load(); got != 3 {
		t.Fatalf("robot saw %d requests, want 3", got)
	}
	if m.statuses["m1"] != statusSent || m.statuses["m2"] != statusRejected || m.statuses["m3"] != statusSent {
		t.Fatalf("statuses = %v", m.statuses)
	}
	if _, ok := m.statuses["m4"]; ok {
		t.Fatal("command added during the run has a delivery status")
	}
	if tt := lastToast(t, m); tt.kind != toastWarning || tt.message != "Sent 3 commands, robot rejected 1" {
		t.Fatalf("toast = %+v", tt)
	}
}

func TestSendAbortsOnTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client, err := robot.NewClient(robot.Endpoints{ControlURL: url + "/api/command", PoseURL: url + "/api/pose"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	m := newTestModel(t, Options{Dispatcher: robot.NewDispatcher(client, robot.Policy{}, nil)})
	m = typeAndEnter(m, "0.2")
	m = typeAndEnter(m, "0.3")

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m = drainRun(t, m)

	if m.statuses["m1"] != statusFailed || m.statuses["m2"] != statusSkipped {
		t.Fatalf("statuses = %v", m.statuses)
	}
	if tt := lastToast(t, m); tt.kind != toastError || tt.message != "Error sending command 1: Could not reach the robot" {
		t.Fatalf("toast = %+v", tt)
	}
}

func TestPollPoseUpdatesLine(t *testing.T) {
	store := &state.Store{}
	refresh := func(context.Context) (robot.Pose, error) {
		store.Update(robot.Pose{X: 0.5, Y: -1}, nil)
		return robot.Pose{X: 0.5, Y: -1}, nil
	}
	m := newTestModel(t, Options{RefreshPose: refresh, Store: store})

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlP})
	if cmd == nil || !m.polling {
		t.Fatal("ctrl+p did not start a poll")
	}
	updated, _ := m.Update(cmd())
	m = updated.(Model)

	if m.polling || !m.pose.HasPose || m.pose.Pose.X != 0.5 {
		t.Fatalf("pose = %+v polling = %v", m.pose, m.polling)
	}
}

func TestPollPoseFailureKeepsPose(t *testing.T) {
	store := &state.Store{}
	store.Update(robot.Pose{X: 1, Y: 2}, nil)
	refresh := func(context.Context) (robot.Pose, error) {
		err := &robot.PollError{Kind: robot.FailureTimeout}
		store.Update(robot.Pose{}, err)
		return robot.Pose{}, err
	}
	m := newTestModel(t, Options{RefreshPose: refresh, Store: store})

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlP})
	updated, _ := m.Update(cmd())
	m = updated.(Model)

	if !m.pose.IsStale() || m.pose.Pose.X != 1 {
		t.Fatalf("pose = %+v, want stale (1, 2)", m.pose)
	}
	if tt := lastToast(t, m); tt.kind != toastError || tt.message != "Pose: Robot did not answer in time" {
		t.Fatalf("toast = %+v", tt)
	}
}

func TestOutcomeToast(t *testing.T) {
	tests := []struct {
		name    string
		result  robot.Result
		kind    toastKind
		message string
	}{
		{"sent", robot.Result{Outcome: robot.OutcomeSent, Sent: 2, Total: 2}, toastSuccess, "All commands sent successfully!"},
		{"empty", robot.Result{Outcome: robot.OutcomeEmpty}, toastWarning, "No commands to send"},
		{"stopped", robot.Result{Outcome: robot.OutcomeStopped, Sent: 1, Total: 3}, toastWarning, "Stopped after 1 of 3 commands"},
		{
			"aborted",
			robot.Result{Outcome: robot.OutcomeAborted, FailedIndex: 2, Cause: &robot.HTTPError{StatusCode: 500}},
			toastError,
			"Error sending command 3: Robot returned HTTP 500",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, message := outcomeToast(tt.result)
			if kind != tt.kind || message != tt.message {
				t.Fatalf("outcomeToast = %v %q, want %v %q", kind, message, tt.kind, tt.message)
			}
		})
	}
}

func TestViewRendersQueue(t *testing.T) {
	m := newTestModel(t, Options{ControlURL: "http://robot/api/command"})
	m = typeAndEnter(m, "0.2")

	view := m.View()
	for _, want := range []string{"PATHPILOT", "MOVE 0.2m forward #m1", "Commands (1)"} {
		if !containsPlain(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
