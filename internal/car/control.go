package car

import "sync"

// Control is the driver command set. It is written by the UI goroutine and
// read by force generators inside the stepping loop, so access is locked.
type Control struct {
	mu       sync.Mutex
	throttle float64
	brake    float64
	steering float64
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Set replaces the full command, clamping throttle and brake to [0, 1] and
// steering to [-1, 1].
func (c *Control) Set(throttle, brake, steering float64) {
	c.mu.Lock()
	c.throttle = clamp(throttle, 0, 1)
	c.brake = clamp(brake, 0, 1)
	c.steering = clamp(steering, -1, 1)
	c.mu.Unlock()
}

// Get returns the current command.
func (c *Control) Get() (throttle, brake, steering float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.throttle, c.brake, c.steering
}
