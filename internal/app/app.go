// Package app wires the poller to the daemon, the settings files and the
// chosen action sink.
package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/seadrive-io/seadrive-tray/internal/classify"
	"github.com/seadrive-io/seadrive-tray/internal/config"
	"github.com/seadrive-io/seadrive-tray/internal/console"
	"github.com/seadrive-io/seadrive-tray/internal/i18n"
	"github.com/seadrive-io/seadrive-tray/internal/logger"
	"github.com/seadrive-io/seadrive-tray/internal/models"
	"github.com/seadrive-io/seadrive-tray/internal/platform"
	"github.com/seadrive-io/seadrive-tray/internal/poller"
	"github.com/seadrive-io/seadrive-tray/internal/rpc"
	"github.com/seadrive-io/seadrive-tray/internal/tray"
	"github.com/seadrive-io/seadrive-tray/internal/watcher"
)

// MonitorInterval is how often the daemon PID is checked.
const MonitorInterval = 5 * time.Second

const shutdownTimeout = 5 * time.Second

// Sink is an action sink that also shows whether the daemon is running.
type Sink interface {
	poller.ActionSink
	SetDaemonAlive(alive bool)
}

// Options configures Run.
type Options struct {
	// Foreground uses the console sink instead of the system tray.
	Foreground bool
	// Interval overrides the poll interval from settings when positive.
	Interval time.Duration
}

// App owns every long-running component of the client.
type App struct {
	opts     Options
	log      *zap.Logger
	settings *config.SettingsStore
	accounts *config.AccountStore
	conn     *daemonConn
	poller   *poller.Poller
	sink     Sink

	probe func() (bool, *models.DaemonInfo, error)

	mu     sync.Mutex
	alive  bool
	daemon *models.DaemonInfo
}

// New loads settings and accounts and builds the poller around sink.
func New(opts Options, sink Sink) (*App, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, err
	}
	accounts, err := config.LoadAccounts()
	if err != nil {
		return nil, err
	}
	return newApp(opts, sink, config.NewSettingsStore(settings), config.NewAccountStore(accounts), nil), nil
}

func newApp(opts Options, sink Sink, settings *config.SettingsStore, accounts *config.AccountStore, newTicker func(time.Duration) poller.Ticker) *App {
	log := logger.Named("app")
	cur := settings.Current()

	a := &App{
		opts:     opts,
		log:      log,
		settings: settings,
		accounts: accounts,
		conn:     &daemonConn{opts: rpc.Options{Logger: logger.Log}},
		sink:     sink,
		probe:    config.ProbeDaemon,
	}

	rules := classify.NewRules(settings, accounts, i18n.New(cur.Language))
	a.poller = poller.New(a.conn, sink, rules, poller.Options{
		Interval:       a.interval(),
		RequestTimeout: cur.RequestTimeout(),
		ConfirmTimeout: cur.ConfirmTimeout(),
		Platform:       platform.Select(cur.Platform.Actions),
		Logger:         logger.Log,
		NewTicker:      newTicker,
	})
	return a
}

func (a *App) interval() time.Duration {
	if a.opts.Interval > 0 {
		return a.opts.Interval
	}
	return a.settings.Current().PollInterval()
}

// Poller returns the message poller.
func (a *App) Poller() *poller.Poller {
	return a.poller
}

// Run runs the client until ctx is done. In tray mode this must be called on
// the main goroutine.
func Run(ctx context.Context, opts Options) error {
	if err := config.EnsureGlobalDir(); err != nil {
		return err
	}

	if opts.Foreground {
		con, err := console.NewStdio(logger.Log)
		if err != nil {
			return err
		}
		a, err := New(opts, con)
		if err != nil {
			return err
		}
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return con.Run(gctx) })
		a.start(gctx, g)
		err = g.Wait()
		a.shutdown()
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	ready := make(chan struct{})

	var a *App
	var t *tray.Tray
	var runErr error
	t = tray.New(logger.Log, func() {
		defer close(ready)
		var err error
		if a, err = New(opts, t); err != nil {
			runErr = err
			cancel()
		} else {
			a.start(gctx, g)
		}
		go func() {
			<-gctx.Done()
			t.Quit()
		}()
	}, cancel)

	t.Run(func() {
		cancel()
		select {
		case <-ready:
		default:
			return
		}
		if err := g.Wait(); err != nil && runErr == nil {
			runErr = err
		}
		if a != nil {
			a.shutdown()
		}
	})
	return runErr
}

func (a *App) start(ctx context.Context, g *errgroup.Group) {
	a.checkDaemon()

	w, err := watcher.New("", a.log)
	if err != nil {
		a.log.Warn("config watcher unavailable", zap.Error(err))
	} else if err := w.Start(); err != nil {
		a.log.Warn("config watcher unavailable", zap.Error(err))
		w.Stop()
	} else {
		g.Go(func() error {
			defer w.Stop()
			a.watch(ctx, w.Events())
			return nil
		})
	}

	g.Go(func() error {
		a.monitor(ctx, MonitorInterval)
		return nil
	})

	loaded := a.poller.SubscribeFSLoaded()
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-loaded:
				a.log.Info("daemon filesystem loaded")
			}
		}
	})
}

func (a *App) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.poller.Close(ctx); err != nil && !errors.Is(err, context.Canceled) {
		a.log.Warn("poller did not stop cleanly", zap.Error(err))
	}
	if err := a.conn.close(); err != nil {
		a.log.Debug("failed to close daemon connection", zap.Error(err))
	}
}
