package app

import (
	"context"
	"time"

	"github.com/five82/pathpilot/internal/robot"
	"github.com/five82/pathpilot/internal/state"
)

const (
	defaultWatchInterval = 2 * time.Second
	maxBackoff           = 30 * time.Second
)

// RefreshPose polls once and records the result in store. The store keeps
// the previous pose when the poll fails.
func RefreshPose(ctx context.Context, store *state.Store, poller *robot.PosePoller) (robot.Pose, error) {
	pose, err := poller.Poll(ctx)
	store.Update(pose, err)
	return pose, err
}

// WatchPose polls repeatedly until ctx is done, calling onUpdate after every
// attempt. Consecutive failures stretch the wait between polls.
func WatchPose(ctx context.Context, store *state.Store, poller *robot.PosePoller, interval time.Duration, onUpdate func(state.Snapshot)) {
	if interval <= 0 {
		interval = defaultWatchInterval
	}
	for {
		_, _ = RefreshPose(ctx, store, poller)
		snap := store.Snapshot()
		if onUpdate != nil {
			onUpdate(snap)
		}

		timer := time.NewTimer(calculateBackoff(snap.ConsecutiveFailures, interval))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// calculateBackoff doubles the interval per consecutive failure, capped at maxBackoff.
func calculateBackoff(failures int, interval time.Duration) time.Duration {
	if failures <= 0 {
		return interval
	}
	wait := interval
	for i := 0; i < failures; i++ {
		wait *= 2
		if wait >= maxBackoff {
			return maxBackoff
		}
	}
	return wait
}
