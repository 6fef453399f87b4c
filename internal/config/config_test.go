package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ControlURL != defaultControlURL || cfg.PoseURL != defaultPoseURL {
		t.Fatalf("endpoints = %q/%q, want defaults", cfg.ControlURL, cfg.PoseURL)
	}
	if cfg.PoseTimeout != 2*time.Second || cfg.RequestTimeout != 5*time.Second {
		t.Fatalf("timeouts = %v/%v, want 2s/5s", cfg.PoseTimeout, cfg.RequestTimeout)
	}
	if cfg.AbortOnHTTPError || cfg.StrictNumbers {
		t.Fatalf("policies = %v/%v, want false/false", cfg.AbortOnHTTPError, cfg.StrictNumbers)
	}
	if !strings.HasPrefix(cfg.Log.File, home) {
		t.Fatalf("Log.File = %q, want it under HOME %q", cfg.Log.File, home)
	}
	if cfg.Sim.Addr != defaultSimAddr {
		t.Fatalf("Sim.Addr = %q, want %q", cfg.Sim.Addr, defaultSimAddr)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
control_url = "  http://10.0.0.5/api/command  "
pose_url = "http://10.0.0.5/api/pose"
pose_timeout = "750ms"
request_timeout = " 3s "
abort_on_http_error = true
strict_numbers = true

[log]
level = "debug"
format = "json"
file = "~/logs/pp.log"

[sim]
addr = ":9090"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ControlURL != "http://10.0.0.5/api/command" {
		t.Fatalf("ControlURL = %q", cfg.ControlURL)
	}
	if cfg.PoseTimeout != 750*time.Millisecond || cfg.RequestTimeout != 3*time.Second {
		t.Fatalf("timeouts = %v/%v", cfg.PoseTimeout, cfg.RequestTimeout)
	}
	if !cfg.AbortOnHTTPError || !cfg.StrictNumbers {
		t.Fatalf("policies not parsed: %+v", cfg)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Fatalf("Log = %+v", cfg.Log)
	}
	if cfg.Log.File != filepath.Join(home, "logs", "pp.log") {
		t.Fatalf("Log.File = %q", cfg.Log.File)
	}
	if cfg.Sim.Addr != ":9090" {
		t.Fatalf("Sim.Addr = %q", cfg.Sim.Addr)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(writeConfig(t, `
control_url = "   "
pose_url = ""
pose_timeout = ""
`))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ControlURL != defaultControlURL || cfg.PoseURL != defaultPoseURL {
		t.Fatalf("endpoints = %q/%q, want defaults", cfg.ControlURL, cfg.PoseURL)
	}
	if cfg.PoseTimeout != defaultPoseTimeout {
		t.Fatalf("PoseTimeout = %v, want %v", cfg.PoseTimeout, defaultPoseTimeout)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	_, err := Load(writeConfig(t, `control_url = [`))
	if err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %v, want parse config error", err)
	}
}

func TestLoad_RejectsBadTimeouts(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"garbage", `pose_timeout = "soon"`, "parse pose_timeout"},
		{"zero", `pose_timeout = "0s"`, "parse pose_timeout"},
		{"negative", `request_timeout = "-1s"`, "parse request_timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	if want := filepath.Join(home, "a/b"); got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
