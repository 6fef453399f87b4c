package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/pathpilot/internal/command"
	"github.com/five82/pathpilot/internal/log"
	"github.com/five82/pathpilot/internal/prefs"
	"github.com/five82/pathpilot/internal/robot"
	"github.com/five82/pathpilot/internal/state"
)

// Tab is the command entry tab.
type Tab int

const (
	TabMove Tab = iota
	TabTurn
)

func (t Tab) String() string {
	if t == TabTurn {
		return "turn"
	}
	return "move"
}

func parseTab(s string) Tab {
	if strings.EqualFold(strings.TrimSpace(s), "turn") {
		return TabTurn
	}
	return TabMove
}

// Options configures the console.
type Options struct {
	Context     context.Context
	Session     *command.Session
	Dispatcher  *robot.Dispatcher
	RefreshPose PoseRefresher
	Store       *state.Store
	Logger      log.Logger

	LogPath    string
	ControlURL string
	PoseURL    string

	ThemeName string
	Tab       string
	PrefsPath string
}

// Model is the root console state for Bubble Tea.
type Model struct {
	ctx         context.Context
	session     *command.Session
	dispatcher  *robot.Dispatcher
	refreshPose PoseRefresher
	store       *state.Store
	logger      log.Logger
	logPath     string
	controlURL  string
	prefsPath   string
	now         func() time.Time

	theme  Theme
	keys   keyMap
	help   help.Model
	width  int
	height int
	ready  bool

	tab      Tab
	input    textinput.Model
	selected int
	showHelp bool

	toasts toastQueue

	run        *runState
	statuses   map[string]rowStatus
	lastResult *robot.Result

	pose    state.Snapshot
	polling bool

	showLogs    bool
	logGen      int
	logViewport viewport.Model
}

// New creates the console model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	session := opts.Session
	if session == nil {
		session = command.NewSession(command.SessionOptions{})
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNop()
	}
	themeName := opts.ThemeName
	if themeName == "" {
		themeName = themeOrder[0]
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 32
	input.Focus()

	m := Model{
		ctx:         ctx,
		session:     session,
		dispatcher:  opts.Dispatcher,
		refreshPose: opts.RefreshPose,
		store:       opts.Store,
		logger:      logger.WithName("ui"),
		logPath:     opts.LogPath,
		controlURL:  opts.ControlURL,
		prefsPath:   prefsPath,
		now:         time.Now,
		theme:       GetTheme(themeName),
		keys:        DefaultKeyMap(),
		help:        help.New(),
		tab:         parseTab(opts.Tab),
		input:       input,
		statuses:    make(map[string]rowStatus),
		logViewport: viewport.New(0, 0),
	}
	m.applyTab()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case toastExpiredMsg:
		return m, m.toasts.expire(msg.id)

	case progressMsg:
		return m, m.handleProgress(msg)

	case dispatchDoneMsg:
		return m, m.handleDispatchDone(msg)

	case poseMsg:
		return m, m.handlePose(msg)

	case logLinesMsg:
		return m, m.handleLogLines(msg)

	case logTickMsg:
		return m, m.handleLogTick(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.run != nil {
			_ = m.stopDispatch()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.ToggleLogs):
		return m, m.toggleLogs()

	case key.Matches(msg, m.keys.SwitchTab):
		if m.tab == TabMove {
			m.tab = TabTurn
		} else {
			m.tab = TabMove
		}
		m.applyTab()
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Add):
		return m, m.addCommand()

	case key.Matches(msg, m.keys.MoveUp):
		if m.selected > 0 && m.selected < m.session.Queue.Len() {
			m.session.Queue.MoveUp(m.selected)
			m.selected--
		}
		return m, nil

	case key.Matches(msg, m.keys.MoveDown):
		if m.selected >= 0 && m.selected < m.session.Queue.Len()-1 {
			m.session.Queue.MoveDown(m.selected)
			m.selected++
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.selected < m.session.Queue.Len()-1 {
			m.selected++
		}
		return m, nil

	case key.Matches(msg, m.keys.RemoveLast):
		if removed, ok := m.session.Queue.RemoveLast(); ok {
			m.clampSelection()
			return m, m.toasts.push(toastInfo, "Removed "+blockLabel(removed))
		}
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		if m.session.Queue.Len() == 0 {
			return m, nil
		}
		m.session.Queue.Clear()
		m.selected = 0
		return m, m.toasts.push(toastInfo, "All commands cleared")

	case key.Matches(msg, m.keys.Send):
		if m.run != nil {
			return m, m.stopDispatch()
		}
		return m, m.startDispatch()

	case key.Matches(msg, m.keys.PollPose):
		return m, m.pollPose()
	}

	if m.showLogs {
		switch msg.String() {
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.logViewport, cmd = m.logViewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// addCommand creates a command from the input line on the current tab.
func (m *Model) addCommand() tea.Cmd {
	value := m.input.Value()
	var err error
	var added string

	switch m.tab {
	case TabTurn:
		if strings.TrimSpace(value) == "" {
			return m.toasts.push(toastError, "Please enter an angle")
		}
		_, err = m.session.CreateTurn(value)
		added = "Turn command added"
	default:
		if strings.TrimSpace(value) == "" {
			return m.toasts.push(toastError, "Please enter a distance")
		}
		_, err = m.session.CreateMove(value, command.Forward)
		added = "Movement command added"
	}

	if err != nil {
		var verr *command.ValidationError
		if errors.As(err, &verr) {
			return m.toasts.push(toastError, fmt.Sprintf("Invalid %s: %s", verr.Field, verr.Reason))
		}
		return m.toasts.push(toastError, err.Error())
	}

	m.input.Reset()
	m.selected = m.session.Queue.Len() - 1
	return m.toasts.push(toastSuccess, added)
}

func (m *Model) applyTab() {
	if m.tab == TabTurn {
		m.input.Placeholder = "angle in degrees, 90 = straight ahead"
	} else {
		m.input.Placeholder = "distance in meters, e.g. 0.2"
	}
}

func (m *Model) clampSelection() {
	n := m.session.Queue.Len()
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, Tab: m.tab.String()}); err != nil {
		m.logger.Warn("save prefs failed", "path", m.prefsPath, "error", err.Error())
	}
}

// resize fits the log viewport to the window.
func (m *Model) resize() {
	m.help.Width = m.width
	m.input.Width = max(m.width-24, 10)
	logHeight := 0
	if m.showLogs {
		logHeight = max(m.height/3, 5)
	}
	m.logViewport.Width = max(m.width-4, 10)
	m.logViewport.Height = logHeight
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
