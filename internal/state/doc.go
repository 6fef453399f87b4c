// Package state keeps the last known robot pose for display.
//
// A failed poll never erases the previous pose: Update records the error and
// bumps ConsecutiveFailures while Pose keeps its old value, so the UI can
// show a stale position alongside the failure. After two consecutive
// failures IsOffline reports true; any successful poll clears the error and
// resets the counter.
//
// Snapshot returns a copy, and its LastError wraps the stored error so
// callers can still match it with errors.As.
package state
