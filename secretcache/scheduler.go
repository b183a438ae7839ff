package secretcache

import (
	"context"
	"time"

	"github.com/evergreen-ci/cachette"
	"github.com/mongodb/grip/message"
	"github.com/mongodb/grip/recovery"
)

// StartScheduledRefresh starts the recurring background refresh at the
// configured interval. It is a no-op if the refresh is already running, so
// the timer is never armed twice.
func (c *BasicSecretCache) StartScheduledRefresh() {
	c.schedMu.Lock()
	defer c.schedMu.Unlock()

	if c.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.done = make(chan struct{})
	c.running = true

	go c.refreshLoop(ctx, c.done)

	c.publish(cachette.Event{
		Kind:      cachette.EventStart,
		Timestamp: time.Now(),
	})
	c.logInfo(message.Fields{
		"message":  "started scheduled secret refresh",
		"interval": c.opts.RefreshInterval.String(),
	})
}

// StopScheduledRefresh stops the recurring background refresh. It is a no-op
// if the refresh is already stopped. Stopping only prevents future cycles; a
// cycle already in flight runs to completion.
func (c *BasicSecretCache) StopScheduledRefresh() {
	c.schedMu.Lock()
	defer c.schedMu.Unlock()

	if !c.running {
		return
	}

	c.cancel()
	<-c.done
	c.cancel = nil
	c.done = nil
	c.running = false

	c.publish(cachette.Event{
		Kind:      cachette.EventStop,
		Timestamp: time.Now(),
	})
	c.logInfo(message.Fields{
		"message": "stopped scheduled secret refresh",
	})
}

// refreshLoop drives refresh cycles until the scheduler is stopped. The loop
// context only governs the timer - cycles run under their own background
// context so that stopping the scheduler never cancels an in-flight cycle.
func (c *BasicSecretCache) refreshLoop(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer recovery.LogStackTraceAndContinue("scheduled secret refresh")

	ticker := time.NewTicker(*c.opts.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Cycles are allowed to overlap if a refresh outlasts the
			// interval; per-alias attempts remain ordered within each cycle.
			go c.runScheduledCycle()
		}
	}
}

// runScheduledCycle runs one full refresh cycle. Failures inside a cycle are
// confined to it: fetch failures become error notifications, and a panic is
// converted to an error notification and logged, so the timer keeps firing.
func (c *BasicSecretCache) runScheduledCycle() {
	defer func() {
		if p := recover(); p != nil {
			err := recovery.HandlePanicWithError(p, nil, "secret refresh cycle")
			c.publish(cachette.Event{
				Kind:      cachette.EventError,
				Err:       err,
				Timestamp: time.Now(),
			})
			c.logError(message.WrapError(err, message.Fields{
				"message": "scheduled refresh cycle failed",
			}))
		}
	}()

	_ = c.FetchAllSecrets(context.Background())
}
