package log

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap/zapcore"
)

// Options configure logger construction.
type Options struct {
	// Name is added as the logger name on every entry.
	Name string

	// Level is the minimum level: debug, info, warn, error.
	Level string

	// Format is "console" or "json".
	Format string

	// File receives log output. Empty writes to stderr.
	File string

	DisableCaller bool
}

// NewOptions returns options with pathpilot's defaults.
func NewOptions() *Options {
	return &Options{
		Level:  "info",
		Format: "console",
	}
}

// Validate reports option values the logger cannot use.
func (o *Options) Validate() []error {
	var errs []error
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(o.Level)); err != nil {
		errs = append(errs, fmt.Errorf("invalid log level %q", o.Level))
	}
	switch o.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid log format %q (want console or json)", o.Format))
	}
	return errs
}

// AddFlags binds the options to fs.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Level, "log.level", o.Level, "Minimum log level (debug, info, warn, error).")
	fs.StringVar(&o.Format, "log.format", o.Format, "Log output format (console or json).")
	fs.StringVar(&o.File, "log.file", o.File, "Write logs to this file instead of stderr.")
	fs.BoolVar(&o.DisableCaller, "log.disable-caller", o.DisableCaller, "Omit the caller field from log entries.")
}

func (o *Options) outputPaths() []string {
	if file := strings.TrimSpace(o.File); file != "" {
		return []string{file}
	}
	return []string{"stderr"}
}
