package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/seadrive-io/seadrive-tray/internal/watcher"
)

// monitor checks the daemon on a fixed interval until ctx is done.
func (a *App) monitor(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.checkDaemon()
		}
	}
}

// checkDaemon compares the daemon's current state with the last one seen and
// pauses or resumes the poller on a transition.
func (a *App) checkDaemon() {
	running, info, err := a.probe()
	if err != nil {
		a.log.Warn("failed to check daemon status", zap.Error(err))
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	switch {
	case running && (!a.alive || !info.SameInstance(a.daemon)):
		if err := a.conn.connect(info); err != nil {
			a.log.Warn("failed to connect to daemon", zap.Error(err))
			return
		}
		a.log.Info("daemon is running",
			zap.String("host", info.Host),
			zap.Int("port", info.Port),
			zap.Int("pid", info.PID))
		a.alive = true
		a.daemon = info
		a.sink.SetDaemonAlive(true)
		a.poller.OnDaemonRestarted()

	case !running && a.alive:
		a.log.Info("daemon stopped")
		a.alive = false
		a.daemon = nil
		a.poller.OnDaemonDead()
		a.sink.SetDaemonAlive(false)
	}
}

func (a *App) watch(ctx context.Context, events <-chan watcher.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			a.handleEvent(ev)
		}
	}
}

func (a *App) handleEvent(ev watcher.Event) {
	a.log.Debug("config changed", zap.Stringer("event", ev.Type), zap.String("path", ev.Path))

	switch ev.Type {
	case watcher.EventDaemonStarted, watcher.EventDaemonStopped:
		a.checkDaemon()

	case watcher.EventSettingsChanged:
		if err := a.settings.Reload(); err != nil {
			a.log.Warn("failed to reload settings", zap.Error(err))
			return
		}
		a.poller.SetInterval(a.interval())

	case watcher.EventAccountsChanged:
		if err := a.accounts.Reload(); err != nil {
			a.log.Warn("failed to reload accounts", zap.Error(err))
		}
	}
}
