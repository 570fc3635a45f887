package playback

import "time"

func (c *Controller) startMonitorLocked() {
	c.generation++
	c.monitoring = true
	gen := c.generation

	c.wg.Add(1)
	go c.monitor(gen)
}

func (c *Controller) stopMonitorLocked() {
	c.generation++
	c.monitoring = false
}

func (c *Controller) monitor(gen uint64) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			if !c.checkBoundary(gen) {
				return
			}
		}
	}
}

// checkBoundary samples the device once and reports whether the monitor for
// gen should keep running.
func (c *Controller) checkBoundary(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return false
	}

	switch c.device.State() {
	case StateUnstarted, StateBuffering:
		return true
	case StatePaused, StateEnded:
		c.monitoring = false
		return false
	}

	if c.current == nil {
		c.monitoring = false
		return false
	}
	if c.device.CurrentTime() < float64(c.current.End) {
		return true
	}

	c.stopMonitorLocked()
	if c.mode == ModePlaylist {
		if err := c.nextLocked(c.ctx); err != nil {
			c.logger.Warn("advance at segment end failed", "error", err)
		}
		return false
	}
	if err := c.device.Pause(c.ctx); err != nil {
		c.logger.Warn("pause at segment end failed", "error", err)
	}
	return false
}
