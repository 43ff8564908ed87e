package engine

import "github.com/jonboulle/clockwork"

// roundTimer is the single repeating ticker of one round. gen ties its ticks
// to the round that armed it.
type roundTimer struct {
	gen    uint64
	ticker clockwork.Ticker
	stop   chan struct{}
}

// armTimerLocked cancels any previous round timer before arming a new one,
// so at most one timer is live at a time.
func (c *Controller) armTimerLocked() {
	c.stopTimerLocked()

	c.gen++
	t := &roundTimer{
		gen:    c.gen,
		ticker: c.clock.NewTicker(c.cfg.TickInterval),
		stop:   make(chan struct{}),
	}
	c.timer = t
	c.liveTimers++

	go c.runTimer(t)
}

func (c *Controller) stopTimerLocked() {
	if c.timer == nil {
		return
	}
	c.timer.ticker.Stop()
	close(c.timer.stop)
	c.timer = nil
	c.liveTimers--
}

func (c *Controller) runTimer(t *roundTimer) {
	for {
		select {
		case <-t.stop:
			return
		case <-t.ticker.Chan():
			c.fire(t.gen)
		}
	}
}

// fire handles one tick. A tick from a timer that has since been replaced
// is dropped.
func (c *Controller) fire(gen uint64) {
	c.mu.Lock()
	if c.timer == nil || c.timer.gen != gen {
		c.mu.Unlock()
		return
	}
	c.tickLocked(c.clock.Now())
	events := c.drainLocked()
	c.mu.Unlock()

	c.emit(events)
}
