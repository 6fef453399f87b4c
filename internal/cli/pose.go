package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/pathpilot/internal/app"
	"github.com/five82/pathpilot/internal/robot"
	"github.com/five82/pathpilot/internal/state"
)

func newPoseCommand(root *rootOptions) *cobra.Command {
	var (
		watch    bool
		interval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "pose",
		Short: "Print the robot's current position",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := root.runtime(cmd, "pose")
			if err != nil {
				return err
			}
			defer func() { _ = rt.Logger.Sync() }()
			out := cmd.OutOrStdout()

			if watch {
				app.WatchPose(cmd.Context(), rt.Store, rt.Poller, interval, func(s state.Snapshot) {
					fmt.Fprintln(out, formatSnapshot(s))
				})
				return nil
			}

			pose, err := app.RefreshPose(cmd.Context(), rt.Store, rt.Poller)
			if err != nil {
				return fmt.Errorf("%s: %w", robot.Summary(err), err)
			}
			fmt.Fprintf(out, "x=%.2f y=%.2f\n", pose.X, pose.Y)
			return nil
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "Keep polling until interrupted.")
	cmd.Flags().DurationVar(&interval, "interval", 2*time.Second, "Time between polls with --watch.")
	return cmd
}

func formatSnapshot(s state.Snapshot) string {
	ts := s.LastPolled.Format("15:04:05")
	if s.LastError == nil {
		return fmt.Sprintf("%s x=%.2f y=%.2f", ts, s.Pose.X, s.Pose.Y)
	}
	status := "stale"
	if s.IsOffline() {
		status = "offline"
	}
	if !s.HasPose {
		return fmt.Sprintf("%s %s: %s", ts, status, robot.Summary(s.LastError))
	}
	return fmt.Sprintf("%s x=%.2f y=%.2f (%s: %s)", ts, s.Pose.X, s.Pose.Y, status, robot.Summary(s.LastError))
}
