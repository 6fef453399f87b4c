// Package config loads pathpilot's TOML configuration.
//
// # Resolution
//
//  1. An explicit path (the --config flag) wins
//  2. Otherwise ~/.config/pathpilot/config.toml
//  3. A missing file yields Default()
//  4. Empty or whitespace-only fields fall back to their defaults
//
// # Format
//
//	control_url = "http://192.168.4.1/api/command"
//	pose_url = "http://192.168.4.1/api/pose"
//	pose_timeout = "2s"
//	request_timeout = "5s"
//	abort_on_http_error = false
//	strict_numbers = false
//
//	[log]
//	level = "info"
//	format = "console"
//	file = "~/.local/state/pathpilot/pathpilot.log"
//
//	[sim]
//	addr = "127.0.0.1:8080"
//
// Durations use Go syntax and must be positive. Paths starting with ~ are
// expanded against $HOME and made absolute.
//
// abort_on_http_error decides whether a 4xx/5xx reply from the control
// endpoint ends a dispatch run. It defaults to false: the status is reported
// and the run continues. Transport failures end the run either way.
//
// strict_numbers decides whether distance and angle text must parse as a
// number before a command is queued. It defaults to false, so the text is
// sent to the robot exactly as typed.
package config
