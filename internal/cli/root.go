// Package cli defines the pathpilot command line. The bare command opens the
// console; send, pose and sim run headless.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/five82/pathpilot/internal/app"
	"github.com/five82/pathpilot/internal/config"
	"github.com/five82/pathpilot/internal/log"
)

type rootOptions struct {
	configPath string
	prefsPath  string
	log        *log.Options
}

// NewRootCommand builds the pathpilot command tree. ctx is cancelled on
// SIGINT/SIGTERM by the caller.
func NewRootCommand(ctx context.Context) *cobra.Command {
	opts := &rootOptions{log: log.NewOptions()}

	cmd := &cobra.Command{
		Use:   "pathpilot",
		Short: "Build and send motion command sequences to a robot",
		Long: "pathpilot builds an ordered list of moves and turns, sends it to the robot's " +
			"HTTP control endpoint one command at a time and reads back the robot's pose.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			logOpts := opts.loggerOptions(cmd.Flags(), cfg, true)
			logger, err := log.New(logOpts)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			return app.Run(ctx, app.Options{
				Config:    cfg,
				Logger:    logger,
				PrefsPath: opts.prefsPath,
				LogPath:   logOpts.File,
			})
		},
	}
	cmd.SetContext(ctx)

	fs := cmd.PersistentFlags()
	fs.StringVar(&opts.configPath, "config", "", "Config file (default "+config.DefaultPath()+").")
	fs.StringVar(&opts.prefsPath, "prefs", "", "Preferences file (default ~/.config/pathpilot/prefs.toml).")
	opts.log.AddFlags(fs)

	cmd.AddCommand(
		newSendCommand(opts),
		newPoseCommand(opts),
		newSimCommand(opts),
	)
	return cmd
}

func (o *rootOptions) loadConfig() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// loggerOptions merges the [log] config section with any log flags given on
// the command line. Headless commands log to stderr unless --log.file is set.
func (o *rootOptions) loggerOptions(fs *pflag.FlagSet, cfg config.Config, toFile bool) *log.Options {
	merged := &log.Options{
		Level:         cfg.Log.Level,
		Format:        cfg.Log.Format,
		DisableCaller: o.log.DisableCaller,
	}
	if toFile {
		merged.File = cfg.Log.File
	}
	if fs.Changed("log.level") {
		merged.Level = o.log.Level
	}
	if fs.Changed("log.format") {
		merged.Format = o.log.Format
	}
	if fs.Changed("log.file") {
		merged.File = o.log.File
	}
	return merged
}

// runtime loads config and builds the robot runtime for a headless command.
func (o *rootOptions) runtime(cmd *cobra.Command, name string) (*app.Runtime, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := log.New(o.loggerOptions(cmd.Flags(), cfg, false))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return app.NewRuntime(cfg, logger.WithName(name))
}
