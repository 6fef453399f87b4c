// Package app is the composition root for pathpilot.
//
// NewRuntime turns a loaded config.Config into the pieces that talk to the
// robot: an HTTP client, a Dispatcher carrying the configured failure policy,
// a PosePoller bounded by pose_timeout and a state.Store holding the last
// known pose. The console (Run) and the headless commands in internal/cli
// share it.
//
// Pose polling is on demand. RefreshPose performs one poll and records the
// result; WatchPose repeats it for `pathpilot pose --watch`, backing off
// while the robot keeps failing.
package app
