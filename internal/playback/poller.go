package playback

import (
	"context"
	"time"
)

// poller is the running progress loop.
type poller struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// startPollingLocked starts the progress loop unless one is running.
// The loop lives under the coordinator's root context.
func (c *Coordinator) startPollingLocked() {
	if c.poll != nil || c.closed {
		return
	}
	ctx, cancel := context.WithCancel(c.ctx)
	p := &poller{cancel: cancel, done: make(chan struct{})}
	prev := c.lastPoll
	c.poll = p
	c.lastPoll = p.done
	go c.runPoller(ctx, p, prev)
}

// stopPolling cancels the progress loop and waits for it to exit. Once it
// returns no further Progress is emitted until polling restarts.
func (c *Coordinator) stopPolling() {
	c.mu.Lock()
	p := c.poll
	c.poll = nil
	if p != nil {
		p.cancel()
	}
	c.mu.Unlock()

	if p != nil {
		<-p.done
	}
}

// runPoller waits for the previous loop, if any, to exit first so two
// loops never overlap.
func (c *Coordinator) runPoller(ctx context.Context, p *poller, prev <-chan struct{}) {
	defer close(p.done)
	if prev != nil {
		<-prev
	}

	n := c.pollers.Add(1)
	defer c.pollers.Add(-1)
	for {
		m := c.maxPollers.Load()
		if n <= m || c.maxPollers.CompareAndSwap(m, n) {
			break
		}
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		pos := c.engine.Position()
		c.mu.Lock()
		// Cancellation happens under mu, so a stopped loop cannot emit.
		if ctx.Err() != nil {
			c.mu.Unlock()
			return
		}
		c.state.Progress = known(pos)
		c.emitLocked(FacetProgress)
		c.mu.Unlock()
	}
}
