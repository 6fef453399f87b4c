package sim

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/five82/pathpilot/internal/command"
	"github.com/five82/pathpilot/internal/robot"
)

// Odometry tracks the simulated robot's position and heading. Heading is in
// degrees counter-clockwise from the +x axis, so a fresh robot drives along x.
type Odometry struct {
	mu      sync.Mutex
	x, y    float64
	heading float64
	polls   int
}

// Pose returns the current position.
func (o *Odometry) Pose() robot.Pose {
	o.mu.Lock()
	defer o.mu.Unlock()
	return robot.Pose{X: o.x, Y: o.y}
}

// Heading returns the current heading in degrees, normalized to [0, 360).
func (o *Odometry) Heading() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.heading
}

// Observe returns the current pose and the next pose correlation token.
func (o *Odometry) Observe() (robot.Pose, string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.polls++
	return robot.Pose{X: o.x, Y: o.y}, fmt.Sprintf("pose_%d", o.polls)
}

// Apply integrates c. A move advances distance*direction along the heading;
// a turn rotates the heading by angle-90, so 90 leaves it unchanged.
func (o *Odometry) Apply(c command.Command) error {
	switch v := c.(type) {
	case command.Move:
		d, err := parseFinite("d", v.Distance)
		if err != nil {
			return err
		}
		step := d * float64(v.Direction)
		o.mu.Lock()
		rad := o.heading * math.Pi / 180
		o.x += step * math.Cos(rad)
		o.y += step * math.Sin(rad)
		o.mu.Unlock()
	case command.Turn:
		a, err := parseFinite("a", v.Angle)
		if err != nil {
			return err
		}
		o.mu.Lock()
		o.heading = normalizeDegrees(o.heading + a - 90)
		o.mu.Unlock()
	default:
		return fmt.Errorf("unsupported command %T", c)
	}
	return nil
}

// Reset returns the robot to the origin facing +x.
func (o *Odometry) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.x, o.y, o.heading = 0, 0, 0
}

func parseFinite(field, text string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", field, text)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%s: %q is not finite", field, text)
	}
	return f, nil
}

func normalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
