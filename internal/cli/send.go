package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/five82/pathpilot/internal/command"
	"github.com/five82/pathpilot/internal/robot"
)

type sendOptions struct {
	dryRun           bool
	abortOnHTTPError bool
}

func newSendCommand(root *rootOptions) *cobra.Command {
	opts := &sendOptions{}
	cmd := &cobra.Command{
		Use:   "send STEP...",
		Short: "Send a command sequence without the console",
		Long: "Build a sequence from the arguments and send it in order.\n\n" +
			"Steps are move:<meters>[:<dir>] and turn:<degrees>, e.g.\n" +
			"  pathpilot send move:0.5 turn:90 move:0.2\n" +
			"dir is 1 (forward, the default) or -1. A turn of 90 keeps the heading.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := root.runtime(cmd, "send")
			if err != nil {
				return err
			}
			defer func() { _ = rt.Logger.Sync() }()

			session := rt.NewSession()
			for _, arg := range args {
				if err := addStep(session, arg); err != nil {
					return err
				}
			}
			snapshot := session.Queue.Snapshot()

			out := cmd.OutOrStdout()
			if opts.dryRun {
				return printPlan(out, snapshot)
			}

			dispatcher := rt.Dispatcher
			if cmd.Flags().Changed("abort-on-http-error") {
				dispatcher = robot.NewDispatcher(rt.Client, robot.Policy{AbortOnHTTPError: opts.abortOnHTTPError}, rt.Logger)
			}

			fmt.Fprintf(out, "Sending %d commands to %s...\n", len(snapshot), rt.Client.ControlURL())
			result := dispatcher.Dispatch(cmd.Context(), snapshot, robot.DispatchOptions{
				OnProgress: func(p robot.Progress) { printProgress(out, p) },
			})
			return reportResult(out, result)
		},
	}
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the sequence and the request bodies without sending.")
	cmd.Flags().BoolVar(&opts.abortOnHTTPError, "abort-on-http-error", false, "Stop at the first 4xx/5xx reply (overrides config).")
	return cmd
}

// addStep parses one step argument into the session.
func addStep(session *command.Session, arg string) error {
	kind, rest, ok := strings.Cut(strings.TrimSpace(arg), ":")
	if !ok {
		return fmt.Errorf("step %q: want move:<meters> or turn:<degrees>", arg)
	}
	switch strings.ToLower(kind) {
	case "move", "m":
		distance, dirText, hasDir := strings.Cut(rest, ":")
		dir := command.Forward
		if hasDir {
			n, err := strconv.Atoi(strings.TrimSpace(dirText))
			if err != nil {
				return fmt.Errorf("step %q: direction %q is not 1 or -1", arg, dirText)
			}
			dir = command.Direction(n)
		}
		if _, err := session.CreateMove(distance, dir); err != nil {
			return fmt.Errorf("step %q: %w", arg, err)
		}
	case "turn", "t":
		if _, err := session.CreateTurn(rest); err != nil {
			return fmt.Errorf("step %q: %w", arg, err)
		}
	default:
		return fmt.Errorf("step %q: unknown command %q", arg, kind)
	}
	return nil
}

func printPlan(w io.Writer, snapshot []command.Command) error {
	table := uitable.New()
	table.MaxColWidth = 60
	table.AddRow("#", "ID", "COMMAND", "BODY")
	for i, c := range snapshot {
		body, err := robot.EncodeCommand(c)
		if err != nil {
			return err
		}
		table.AddRow(i+1, c.CommandID(), strings.ToUpper(string(c.Kind()))+" "+command.Describe(c), string(body))
	}
	_, err := fmt.Fprintln(w, table)
	return err
}

func printProgress(w io.Writer, p robot.Progress) {
	label := fmt.Sprintf("[%d/%d] %s %s", p.Index+1, p.Total, p.Command.CommandID(), command.Describe(p.Command))
	switch {
	case p.Err == nil:
		fmt.Fprintf(w, "%s: ok (%d)\n", label, p.StatusCode)
	default:
		fmt.Fprintf(w, "%s: %s\n", label, robot.Summary(p.Err))
	}
}

// errAborted marks a run that ended early; the process exits non-zero.
var errAborted = errors.New("dispatch aborted")

func reportResult(w io.Writer, res robot.Result) error {
	switch res.Outcome {
	case robot.OutcomeAborted:
		fmt.Fprintf(w, "Error sending command %d; %d of %d sent\n", res.FailedIndex+1, res.Sent, res.Total)
		return fmt.Errorf("%w at command %d: %s", errAborted, res.FailedIndex+1, robot.Summary(res.Cause))
	case robot.OutcomeStopped:
		fmt.Fprintf(w, "Stopped after %d of %d commands\n", res.Sent, res.Total)
	case robot.OutcomeEmpty:
		fmt.Fprintln(w, "No commands to send")
	default:
		if n := len(res.HTTPErrors); n > 0 {
			fmt.Fprintf(w, "Sent %d commands, robot rejected %d\n", res.Sent, n)
		} else {
			fmt.Fprintln(w, "All commands sent successfully!")
		}
	}
	return nil
}
