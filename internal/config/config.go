package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the endpoints and policies pathpilot runs with.
type Config struct {
	ControlURL     string
	PoseURL        string
	PoseTimeout    time.Duration
	RequestTimeout time.Duration

	// AbortOnHTTPError stops a dispatch run when the robot answers with a
	// 4xx/5xx status. Transport failures always stop the run.
	AbortOnHTTPError bool

	// StrictNumbers rejects non-numeric distance and angle input.
	StrictNumbers bool

	Log LogConfig
	Sim SimConfig
}

// LogConfig selects where and how pathpilot logs.
type LogConfig struct {
	Level  string
	Format string
	File   string
}

// SimConfig configures the bundled robot simulator.
type SimConfig struct {
	Addr string
}

const (
	defaultConfigPath     = "~/.config/pathpilot/config.toml"
	defaultControlURL     = "http://127.0.0.1:8080/api/command"
	defaultPoseURL        = "http://127.0.0.1:8080/api/pose"
	defaultPoseTimeout    = 2 * time.Second
	defaultRequestTimeout = 5 * time.Second
	defaultLogLevel       = "info"
	defaultLogFormat      = "console"
	defaultLogFile        = "~/.local/state/pathpilot/pathpilot.log"
	defaultSimAddr        = "127.0.0.1:8080"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		ControlURL:     defaultControlURL,
		PoseURL:        defaultPoseURL,
		PoseTimeout:    defaultPoseTimeout,
		RequestTimeout: defaultRequestTimeout,
		Log: LogConfig{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
			File:   mustExpand(defaultLogFile),
		},
		Sim: SimConfig{Addr: defaultSimAddr},
	}
}

// DefaultPath returns the config location used when none is given.
func DefaultPath() string {
	return defaultConfigPath
}

// Load reads the config at path (or the default location), falling back to
// defaults when the file is missing and for any empty field.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		ControlURL       string `toml:"control_url"`
		PoseURL          string `toml:"pose_url"`
		PoseTimeout      string `toml:"pose_timeout"`
		RequestTimeout   string `toml:"request_timeout"`
		AbortOnHTTPError bool   `toml:"abort_on_http_error"`
		StrictNumbers    bool   `toml:"strict_numbers"`
		Log              struct {
			Level  string `toml:"level"`
			Format string `toml:"format"`
			File   string `toml:"file"`
		} `toml:"log"`
		Sim struct {
			Addr string `toml:"addr"`
		} `toml:"sim"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.ControlURL = orDefault(raw.ControlURL, defaultControlURL)
	cfg.PoseURL = orDefault(raw.PoseURL, defaultPoseURL)
	if cfg.PoseTimeout, err = parseTimeout("pose_timeout", raw.PoseTimeout, defaultPoseTimeout); err != nil {
		return Config{}, err
	}
	if cfg.RequestTimeout, err = parseTimeout("request_timeout", raw.RequestTimeout, defaultRequestTimeout); err != nil {
		return Config{}, err
	}
	cfg.AbortOnHTTPError = raw.AbortOnHTTPError
	cfg.StrictNumbers = raw.StrictNumbers

	cfg.Log.Level = orDefault(raw.Log.Level, defaultLogLevel)
	cfg.Log.Format = orDefault(raw.Log.Format, defaultLogFormat)
	cfg.Log.File = mustExpand(orDefault(raw.Log.File, defaultLogFile))
	cfg.Sim.Addr = orDefault(raw.Sim.Addr, defaultSimAddr)

	return cfg, nil
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func parseTimeout(key, value string, fallback time.Duration) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("parse %s: must be positive, got %s", key, d)
	}
	return d, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
