// Package ui implements the pathpilot operator console on Bubble Tea.
//
// The console has one screen: a Movement/Turn entry line, the ordered
// command list, the latest robot pose and a notification banner. A log pane
// showing the tail of the pathpilot log file can be toggled underneath.
//
// All queue edits happen on the Bubble Tea update loop. Sending takes a
// snapshot and runs the dispatcher on a goroutine; progress comes back as
// messages, so the operator can keep editing (or ask the run to stop after
// the current command) while it is in flight. Pose polls run the same way.
//
// Notifications are queued and shown one at a time. Theme and the last used
// tab are saved to prefs.
package ui
