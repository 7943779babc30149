package poller

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Start begins ticking at the configured interval. Calling Start on a
// running poller does nothing.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.startLocked()
}

func (p *Poller) startLocked() {
	if p.running || p.baseCtx.Err() != nil {
		return
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.loopDone = make(chan struct{})

	ticker := p.newTicker(p.interval)
	go p.loop(ticker, p.stopCh, p.loopDone)
}

// Stop halts ticking. A tick already in progress runs to completion, and a
// later Start waits for it before ticking again.
// Calling Stop on a stopped poller does nothing.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Poller) stopLocked() {
	if !p.running {
		return
	}
	p.running = false
	close(p.stopCh)
}

func (p *Poller) loop(ticker Ticker, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-p.baseCtx.Done():
			return
		case <-ticker.C():
			select {
			case <-stop:
				return
			default:
			}
			p.Tick(p.baseCtx)
		}
	}
}

// SetInterval changes the tick interval, restarting the timer if running.
func (p *Poller) SetInterval(d time.Duration) {
	if d <= 0 {
		d = DefaultInterval
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if d == p.interval {
		return
	}
	p.interval = d
	if p.running {
		p.stopLocked()
		p.startLocked()
	}
}

// OnDaemonDead pauses polling while the daemon is down.
func (p *Poller) OnDaemonDead() {
	p.log.Debug("pausing message poller when daemon is dead")
	p.Stop()
}

// OnDaemonRestarted resumes polling at the current interval: the default
// unless settings or SetInterval changed it.
func (p *Poller) OnDaemonRestarted() {
	p.log.Info("resuming message poller after daemon restart")
	p.Start()
}

// Close stops the poller, waits for the loop to exit and declines every
// unanswered confirmation. The poller cannot be restarted afterwards.
func (p *Poller) Close(ctx context.Context) error {
	p.mu.Lock()
	p.stopLocked()
	done := p.loopDone
	p.mu.Unlock()

	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	p.declinePending()
	p.cancel()
	p.log.Debug("poller closed", zap.Int("pending_confirmations", p.PendingConfirmations()))
	return nil
}
