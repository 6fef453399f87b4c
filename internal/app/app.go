package app

import (
	"context"
	"fmt"

	"github.com/five82/pathpilot/internal/command"
	"github.com/five82/pathpilot/internal/config"
	"github.com/five82/pathpilot/internal/log"
	"github.com/five82/pathpilot/internal/prefs"
	"github.com/five82/pathpilot/internal/robot"
	"github.com/five82/pathpilot/internal/state"
	"github.com/five82/pathpilot/internal/ui"
)

// Options configure the console.
type Options struct {
	Config    config.Config
	Logger    log.Logger
	PrefsPath string // empty uses default ~/.config/pathpilot/prefs.toml
	LogPath   string // file shown in the log pane; empty hides it
}

// Runtime is the robot-facing half of pathpilot, shared by the console and
// the headless commands.
type Runtime struct {
	Config     config.Config
	Logger     log.Logger
	Client     *robot.Client
	Dispatcher *robot.Dispatcher
	Poller     *robot.PosePoller
	Store      *state.Store
}

// NewRuntime wires the robot client, dispatcher and pose poller from cfg.
func NewRuntime(cfg config.Config, logger log.Logger) (*Runtime, error) {
	if logger == nil {
		logger = log.NewNop()
	}
	client, err := robot.NewClient(robot.Endpoints{
		ControlURL:     cfg.ControlURL,
		PoseURL:        cfg.PoseURL,
		RequestTimeout: cfg.RequestTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("init robot client: %w", err)
	}
	return &Runtime{
		Config:     cfg,
		Logger:     logger,
		Client:     client,
		Dispatcher: robot.NewDispatcher(client, robot.Policy{AbortOnHTTPError: cfg.AbortOnHTTPError}, logger),
		Poller:     robot.NewPosePoller(client, cfg.PoseTimeout, logger),
		Store:      &state.Store{},
	}, nil
}

// NewSession starts an empty command session using the configured number policy.
func (r *Runtime) NewSession() *command.Session {
	return command.NewSession(command.SessionOptions{StrictNumbers: r.Config.StrictNumbers})
}

// Run boots the console until the operator quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	rt, err := NewRuntime(opts.Config, opts.Logger)
	if err != nil {
		return err
	}
	session := rt.NewSession()
	userPrefs := prefs.Load(opts.PrefsPath)

	rt.Logger.Info("console starting",
		"session", session.ID,
		"control_url", rt.Client.ControlURL(),
		"pose_url", rt.Client.PoseURL(),
	)
	defer func() { _ = rt.Logger.Sync() }()

	return ui.Run(ui.Options{
		Context:    ctx,
		Session:    session,
		Dispatcher: rt.Dispatcher,
		RefreshPose: func(ctx context.Context) (robot.Pose, error) {
			return RefreshPose(ctx, rt.Store, rt.Poller)
		},
		Store:      rt.Store,
		Logger:     rt.Logger,
		LogPath:    opts.LogPath,
		ControlURL: rt.Client.ControlURL(),
		PoseURL:    rt.Client.PoseURL(),
		ThemeName:  userPrefs.Theme,
		Tab:        userPrefs.Tab,
		PrefsPath:  opts.PrefsPath,
	})
}
