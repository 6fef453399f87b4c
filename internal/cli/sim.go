package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/pathpilot/internal/log"
	"github.com/five82/pathpilot/internal/sim"
)

func newSimCommand(root *rootOptions) *cobra.Command {
	opts := sim.Options{}
	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Run a simulated robot for rehearsing sequences",
		Long: "Serve the robot control and pose endpoints locally. Moves advance the " +
			"simulated robot along its heading and turns rotate it, so pose reads " +
			"reflect the commands sent.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				opts.Addr = cfg.Sim.Addr
			}
			logger, err := log.New(root.loggerOptions(cmd.Flags(), cfg, false))
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			fmt.Fprintf(cmd.OutOrStdout(), "Simulated robot on http://%s (pose at /api/pose, metrics at /metrics)\n", opts.Addr)
			return sim.NewServer(opts, logger).Start(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&opts.Addr, "addr", "127.0.0.1:8080", "Listen address (default from config [sim] addr).")
	cmd.Flags().DurationVar(&opts.Latency, "latency", 0, "Delay every command reply by this long.")
	cmd.Flags().StringSliceVar(&opts.FailIDs, "fail", nil, "Command ids to answer with HTTP 500, e.g. m2,t1.")
	return cmd
}
