package robot

import (
	"context"
	"errors"
	"time"

	"github.com/five82/pathpilot/internal/log"
)

// DefaultPoseTimeout bounds a pose request when none is configured.
const DefaultPoseTimeout = 2 * time.Second

// PosePoller reads the pose endpoint on demand. It shares no state with the
// command queue or the dispatcher.
type PosePoller struct {
	fetcher PoseFetcher
	timeout time.Duration
	logger  log.Logger
}

// NewPosePoller builds a poller. A non-positive timeout uses DefaultPoseTimeout.
func NewPosePoller(fetcher PoseFetcher, timeout time.Duration, logger log.Logger) *PosePoller {
	if timeout <= 0 {
		timeout = DefaultPoseTimeout
	}
	if logger == nil {
		logger = log.NewNop()
	}
	return &PosePoller{fetcher: fetcher, timeout: timeout, logger: logger.WithName("pose")}
}

// Timeout returns the per-request bound.
func (p *PosePoller) Timeout() time.Duration {
	return p.timeout
}

// Poll issues one pose request. Every failure is a *PollError.
func (p *PosePoller) Poll(ctx context.Context) (Pose, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	pose, token, err := p.fetcher.FetchPose(ctx)
	if err != nil {
		pollErr := toPollError(err)
		p.logger.Warn("pose poll failed", "kind", pollErr.Kind, "elapsed", time.Since(start), "error", err)
		return Pose{}, pollErr
	}
	p.logger.Debug("pose polled", "H", token, "x", pose.X, "y", pose.Y, "elapsed", time.Since(start))
	return pose, nil
}

func toPollError(err error) *PollError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return &PollError{Kind: FailureHTTPStatus, StatusCode: httpErr.StatusCode, Err: err}
	}
	return &PollError{Kind: KindOf(err), Err: err}
}
