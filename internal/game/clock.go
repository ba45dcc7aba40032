package game

// Clock turns wall-clock frame timestamps (ms) into capped deltas.
type Clock struct {
	MaxDeltaMs float64
	last       float64
	started    bool
}

// Delta returns the ms elapsed since the previous call, in [0, MaxDeltaMs].
// The first call returns 0.
func (c *Clock) Delta(nowMs float64) float64 {
	if !c.started {
		c.started = true
		c.last = nowMs
		return 0
	}
	dt := nowMs - c.last
	c.last = nowMs
	if dt < 0 {
		return 0
	}
	if c.MaxDeltaMs > 0 && dt > c.MaxDeltaMs {
		return c.MaxDeltaMs
	}
	return dt
}
