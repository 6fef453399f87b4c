package robot

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/looplab/fsm"

	"github.com/five82/pathpilot/internal/command"
	"github.com/five82/pathpilot/internal/log"
)

// Dispatch run states.
const (
	StateIdle    = "idle"
	StateSending = "sending"
	StateSent    = "sent"
	StateAborted = "aborted"
	StateStopped = "stopped"
)

const (
	eventBegin    = "begin"
	eventComplete = "complete"
	eventFail     = "fail"
	eventHalt     = "halt"
)

// Outcome is how a dispatch run ended.
type Outcome string

const (
	OutcomeEmpty   Outcome = "empty"
	OutcomeSent    Outcome = StateSent
	OutcomeAborted Outcome = StateAborted
	OutcomeStopped Outcome = StateStopped
)

// Policy decides which failures end a run.
type Policy struct {
	// AbortOnHTTPError ends the run on a 4xx/5xx reply. Transport failures
	// always end it.
	AbortOnHTTPError bool
}

// Progress reports one command attempt.
type Progress struct {
	Index      int
	Total      int
	Command    command.Command
	StatusCode int
	Err        error
}

// DispatchOptions carry per-run hooks.
type DispatchOptions struct {
	// Stop, once closed, ends the run before the next command is sent. The
	// in-flight request, if any, completes first.
	Stop <-chan struct{}

	// OnProgress is called after every attempt, in order.
	OnProgress func(Progress)
}

// Result summarizes a dispatch run.
type Result struct {
	RunID   string
	Outcome Outcome
	Total   int

	// Sent counts commands delivered before the run ended. A reply with an
	// error status that did not end the run still counts.
	Sent int

	// FailedIndex is the index of the command that ended an aborted run, -1 otherwise.
	FailedIndex int
	Cause       error

	// HTTPErrors lists replies with an error status that did not end the run.
	HTTPErrors []Progress
}

// Dispatcher sends a snapshot to the control endpoint one command at a time.
type Dispatcher struct {
	sender CommandSender
	policy Policy
	logger log.Logger
}

// NewDispatcher builds a Dispatcher. A nil logger discards output.
func NewDispatcher(sender CommandSender, policy Policy, logger log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Dispatcher{sender: sender, policy: policy, logger: logger.WithName("dispatch")}
}

// Policy returns the dispatcher's failure policy.
func (d *Dispatcher) Policy() Policy {
	return d.policy
}

// Dispatch sends snapshot in order and waits for each reply before sending
// the next command. An empty snapshot returns OutcomeEmpty without touching
// the network. There are no retries.
func (d *Dispatcher) Dispatch(ctx context.Context, snapshot []command.Command, opts DispatchOptions) Result {
	result := Result{
		RunID:       uuid.NewString(),
		Outcome:     OutcomeEmpty,
		Total:       len(snapshot),
		FailedIndex: -1,
	}
	if len(snapshot) == 0 {
		return result
	}

	logger := d.logger.WithValues("run", result.RunID)
	run := newRunFSM(logger)
	d.fire(ctx, run, eventBegin, logger)
	logger.Info("dispatch started", "commands", len(snapshot), "abort_on_http_error", d.policy.AbortOnHTTPError)

	for i, cmd := range snapshot {
		if stopRequested(opts.Stop) {
			logger.Info("dispatch stopped", "sent", result.Sent, "remaining", len(snapshot)-i)
			d.fire(ctx, run, eventHalt, logger)
			result.Outcome = Outcome(run.Current())
			return result
		}
		if err := ctx.Err(); err != nil {
			cause := &TransportError{Kind: classifyTransport(err), Op: "send " + cmd.CommandID(), Err: err}
			return d.abort(ctx, run, result, i, cmd, 0, cause, opts, logger)
		}

		status, err := d.sender.SendCommand(ctx, cmd)
		var httpErr *HTTPError
		switch {
		case err == nil:
		case errors.As(err, &httpErr):
			if d.policy.AbortOnHTTPError {
				return d.abort(ctx, run, result, i, cmd, status, err, opts, logger)
			}
			logger.Warn("command rejected", "index", i, "id", cmd.CommandID(), "status", status)
			result.HTTPErrors = append(result.HTTPErrors, Progress{Index: i, Total: len(snapshot), Command: cmd, StatusCode: status, Err: err})
		default:
			return d.abort(ctx, run, result, i, cmd, status, err, opts, logger)
		}

		result.Sent++
		if err == nil {
			logger.Info("command sent", "index", i, "id", cmd.CommandID(), "status", status)
		}
		notify(opts.OnProgress, Progress{Index: i, Total: len(snapshot), Command: cmd, StatusCode: status, Err: err})
	}

	d.fire(ctx, run, eventComplete, logger)
	result.Outcome = Outcome(run.Current())
	logger.Info("dispatch finished", "sent", result.Sent, "http_errors", len(result.HTTPErrors))
	return result
}

func (d *Dispatcher) abort(ctx context.Context, run *fsm.FSM, result Result, index int, cmd command.Command, status int, cause error, opts DispatchOptions, logger log.Logger) Result {
	logger.Error(cause, "dispatch aborted", "index", index, "id", cmd.CommandID(), "status", status)
	notify(opts.OnProgress, Progress{Index: index, Total: result.Total, Command: cmd, StatusCode: status, Err: cause})
	d.fire(ctx, run, eventFail, logger)
	result.Outcome = Outcome(run.Current())
	result.FailedIndex = index
	result.Cause = cause
	return result
}

// fire applies a run transition. The transitions are fixed, so an error here
// means the run logic is wrong; it is logged rather than returned.
func (d *Dispatcher) fire(ctx context.Context, run *fsm.FSM, event string, logger log.Logger) {
	if err := run.Event(context.WithoutCancel(ctx), event); err != nil {
		logger.Error(err, "invalid dispatch transition", "event", event, "state", run.Current())
	}
}

func newRunFSM(logger log.Logger) *fsm.FSM {
	return fsm.NewFSM(
		StateIdle,
		fsm.Events{
			{Name: eventBegin, Src: []string{StateIdle}, Dst: StateSending},
			{Name: eventComplete, Src: []string{StateSending}, Dst: StateSent},
			{Name: eventFail, Src: []string{StateSending}, Dst: StateAborted},
			{Name: eventHalt, Src: []string{StateSending}, Dst: StateStopped},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				logger.Debug("dispatch state", "from", e.Src, "to", e.Dst)
			},
		},
	)
}

func stopRequested(stop <-chan struct{}) bool {
	if stop == nil {
		return false
	}
	select {
	case <-stop:
		return true
	default:
		return false
	}
}

func notify(fn func(Progress), p Progress) {
	if fn != nil {
		fn(p)
	}
}
