package robot

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"syscall"
	"testing"

	"github.com/five82/pathpilot/internal/command"
)

// fakeSender replays scripted results per call and records what it saw.
type fakeSender struct {
	calls   []string
	results map[int]fakeResult
	onCall  func(n int)
}

type fakeResult struct {
	status int
	err    error
}

func (f *fakeSender) SendCommand(_ context.Context, c command.Command) (int, error) {
	n := len(f.calls)
	f.calls = append(f.calls, c.CommandID())
	if f.onCall != nil {
		f.onCall(n)
	}
	if r, ok := f.results[n]; ok {
		return r.status, r.err
	}
	return http.StatusOK, nil
}

func plan() []command.Command {
	return []command.Command{
		command.Move{Distance: "0.5", Direction: command.Forward, ID: "m1"},
		command.Turn{Angle: "90", ID: "t1"},
		command.Move{Distance: "1", Direction: command.Forward, ID: "m2"},
	}
}

func TestDispatch_EmptySnapshotMakesNoCalls(t *testing.T) {
	sender := &fakeSender{}
	d := NewDispatcher(sender, Policy{}, nil)

	res := d.Dispatch(context.Background(), nil, DispatchOptions{})
	if res.Outcome != OutcomeEmpty {
		t.Fatalf("Outcome = %q, want empty", res.Outcome)
	}
	if len(sender.calls) != 0 {
		t.Fatalf("calls = %v, want none", sender.calls)
	}
	if res.FailedIndex != -1 || res.Sent != 0 {
		t.Fatalf("Result = %+v", res)
	}
}

func TestDispatch_SendsInOrder(t *testing.T) {
	sender := &fakeSender{}
	var seen []int
	d := NewDispatcher(sender, Policy{}, nil)

	res := d.Dispatch(context.Background(), plan(), DispatchOptions{
		OnProgress: func(p Progress) { seen = append(seen, p.Index) },
	})
	if res.Outcome != OutcomeSent || res.Sent != 3 || res.Total != 3 {
		t.Fatalf("Result = %+v, want sent 3/3", res)
	}
	if got := sender.calls; len(got) != 3 || got[0] != "m1" || got[1] != "t1" || got[2] != "m2" {
		t.Fatalf("calls = %v, want [m1 t1 m2]", got)
	}
	if len(seen) != 3 || seen[0] != 0 || seen[2] != 2 {
		t.Fatalf("progress indices = %v", seen)
	}
	if res.RunID == "" {
		t.Fatal("RunID is empty")
	}
}

func TestDispatch_TransportFailureAborts(t *testing.T) {
	fault := &TransportError{Kind: FailureConnection, Op: "send t1", Err: syscall.ECONNREFUSED}
	sender := &fakeSender{results: map[int]fakeResult{1: {err: fault}}}
	var last Progress
	d := NewDispatcher(sender, Policy{}, nil)

	res := d.Dispatch(context.Background(), plan(), DispatchOptions{
		OnProgress: func(p Progress) { last = p },
	})
	if res.Outcome != OutcomeAborted {
		t.Fatalf("Outcome = %q, want aborted", res.Outcome)
	}
	if len(sender.calls) != 2 {
		t.Fatalf("calls = %v, want exactly 2", sender.calls)
	}
	if res.FailedIndex != 1 || res.Sent != 1 {
		t.Fatalf("FailedIndex/Sent = %d/%d, want 1/1", res.FailedIndex, res.Sent)
	}
	var transportErr *TransportError
	if !errors.As(res.Cause, &transportErr) {
		t.Fatalf("Cause = %v, want TransportError", res.Cause)
	}
	if last.Index != 1 || last.Err == nil {
		t.Fatalf("last progress = %+v, want failure at 1", last)
	}
}

func TestDispatch_HTTPErrorPolicy(t *testing.T) {
	rejected := &HTTPError{StatusCode: http.StatusInternalServerError, URL: "http://robot/api/command"}

	t.Run("continue", func(t *testing.T) {
		sender := &fakeSender{results: map[int]fakeResult{0: {status: 500, err: rejected}}}
		res := NewDispatcher(sender, Policy{AbortOnHTTPError: false}, nil).Dispatch(context.Background(), plan(), DispatchOptions{})
		if res.Outcome != OutcomeSent || len(sender.calls) != 3 {
			t.Fatalf("Result = %+v calls=%v, want sent with 3 calls", res, sender.calls)
		}
		if len(res.HTTPErrors) != 1 || res.HTTPErrors[0].StatusCode != 500 {
			t.Fatalf("HTTPErrors = %+v, want one 500", res.HTTPErrors)
		}
	})

	t.Run("abort", func(t *testing.T) {
		sender := &fakeSender{results: map[int]fakeResult{0: {status: 500, err: rejected}}}
		res := NewDispatcher(sender, Policy{AbortOnHTTPError: true}, nil).Dispatch(context.Background(), plan(), DispatchOptions{})
		if res.Outcome != OutcomeAborted || res.FailedIndex != 0 || len(sender.calls) != 1 {
			t.Fatalf("Result = %+v calls=%v, want aborted at 0 after 1 call", res, sender.calls)
		}
		if KindOf(res.Cause) != FailureHTTPStatus {
			t.Fatalf("Cause kind = %v, want http error", KindOf(res.Cause))
		}
	})
}

func TestDispatch_StopAfterCurrentCommand(t *testing.T) {
	stop := make(chan struct{})
	sender := &fakeSender{onCall: func(n int) {
		if n == 0 {
			close(stop)
		}
	}}

	res := NewDispatcher(sender, Policy{}, nil).Dispatch(context.Background(), plan(), DispatchOptions{Stop: stop})
	if res.Outcome != OutcomeStopped {
		t.Fatalf("Outcome = %q, want stopped", res.Outcome)
	}
	if len(sender.calls) != 1 || res.Sent != 1 {
		t.Fatalf("calls=%v Sent=%d, want 1/1", sender.calls, res.Sent)
	}
}

func TestDispatch_CanceledContextAborts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sender := &fakeSender{onCall: func(int) { cancel() }}

	res := NewDispatcher(sender, Policy{}, nil).Dispatch(ctx, plan(), DispatchOptions{})
	if res.Outcome != OutcomeAborted || res.FailedIndex != 1 {
		t.Fatalf("Result = %+v, want aborted at 1", res)
	}
	if KindOf(res.Cause) != FailureCanceled {
		t.Fatalf("Cause kind = %v, want canceled", KindOf(res.Cause))
	}
	if len(sender.calls) != 1 {
		t.Fatalf("calls = %v, want 1", sender.calls)
	}
}

func TestDispatch_OverHTTPAbortsOnDroppedConnection(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := requests.Add(1)
		if n == 2 {
			hj, ok := w.(http.Hijacker)
			if !ok {
				t.Errorf("response writer cannot hijack")
				return
			}
			conn, _, err := hj.Hijack()
			if err != nil {
				t.Errorf("Hijack: %v", err)
				return
			}
			_ = conn.Close()
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	c := newTestClient(t, server.URL)
	res := NewDispatcher(c, Policy{}, nil).Dispatch(context.Background(), plan(), DispatchOptions{})

	if got := requests.Load(); got != 2 {
		t.Fatalf("server saw %d requests, want 2", got)
	}
	if res.Outcome != OutcomeAborted || res.FailedIndex != 1 {
		t.Fatalf("Result = %+v, want aborted at index 1", res)
	}
	var transportErr *TransportError
	if !errors.As(res.Cause, &transportErr) {
		t.Fatalf("Cause = %v, want TransportError", res.Cause)
	}
}
