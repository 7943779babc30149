// Package poller runs the fixed-interval loop that drains the daemon's
// notification channels and routes each event to the action sink.
package poller

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/seadrive-io/seadrive-tray/internal/classify"
	"github.com/seadrive-io/seadrive-tray/internal/message"
	"github.com/seadrive-io/seadrive-tray/internal/models"
	"github.com/seadrive-io/seadrive-tray/internal/platform"
)

// DefaultInterval is the tick interval used when none is configured.
const DefaultInterval = models.DefaultPollIntervalMS * time.Millisecond

// DaemonClient is the poller's view of the daemon RPC channel. Channel
// getters return a nil payload and nil error when nothing is pending.
type DaemonClient interface {
	IsConnected() bool
	GetSeaDriveEvents(ctx context.Context) (message.Payload, error)
	GetSyncNotification(ctx context.Context) (message.Payload, error)
	GetGlobalSyncStatus(ctx context.Context) (message.Payload, error)
	GetSyncErrors(ctx context.Context) ([]message.Payload, error)
	AddDelConfirmation(ctx context.Context, confirmationID string, declined bool) error
}

// ActionSink presents notifications and tray state. Implementations must
// return promptly; RequestConfirmation in particular must not wait for the
// user.
type ActionSink interface {
	ShowMessage(msg classify.ShowMessage)
	ShowWarningMessage(title, body string)
	SetTransferRate(sent, recv int64)
	Rotate(active bool)
	SetSyncErrors(errs []message.SyncError)
	RequestConfirmation(req *ConfirmRequest)
}

// Ticker is the subset of time.Ticker the poller uses.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct {
	t *time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

func newTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// Options configures a Poller. Zero values pick defaults.
type Options struct {
	Interval       time.Duration
	RequestTimeout time.Duration
	// ConfirmTimeout declines unanswered confirmations after this long.
	// Zero disables the timeout.
	ConfirmTimeout time.Duration
	Catalog        message.ErrorCatalog
	Platform       platform.Actions
	Logger         *zap.Logger
	NewTicker      func(time.Duration) Ticker
}

// State is a snapshot of the poller's own bookkeeping.
type State struct {
	Interval      time.Duration
	LastEventPath string
	LastEventType string
	Running       bool
}

// Poller drains the four daemon channels on every tick.
type Poller struct {
	client   DaemonClient
	sink     ActionSink
	rules    *classify.Rules
	platform platform.Actions
	catalog  message.ErrorCatalog
	log      *zap.Logger

	requestTimeout time.Duration
	confirmTimeout time.Duration
	newTicker      func(time.Duration) Ticker

	baseCtx context.Context
	cancel  context.CancelFunc

	// tickMu serializes ticks; a loop replaced by Stop and Start may still
	// be finishing its last tick.
	tickMu sync.Mutex

	mu       sync.Mutex
	interval time.Duration
	running  bool
	stopCh   chan struct{}
	loopDone chan struct{}

	// lastEventPath and lastEventType are recorded for diagnostics only.
	lastEventPath string
	lastEventType string

	confirmMu sync.Mutex
	nextID    uint64
	pending   map[uint64]*ConfirmRequest

	subMu       sync.Mutex
	fsLoadedSub []chan struct{}
}

// New creates a stopped poller.
func New(client DaemonClient, sink ActionSink, rules *classify.Rules, opts Options) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = models.DefaultRequestTimeoutMS * time.Millisecond
	}
	if opts.Catalog == nil {
		opts.Catalog = message.DefaultCatalog
	}
	if opts.Platform == nil {
		opts.Platform = platform.Noop{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.NewTicker == nil {
		opts.NewTicker = newTimeTicker
	}
	if rules == nil {
		rules = classify.NewRules(nil, nil, nil)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Poller{
		client:         client,
		sink:           sink,
		rules:          rules,
		platform:       opts.Platform,
		catalog:        opts.Catalog,
		log:            opts.Logger.With(zap.String("component", "poller")),
		requestTimeout: opts.RequestTimeout,
		confirmTimeout: opts.ConfirmTimeout,
		newTicker:      opts.NewTicker,
		baseCtx:        ctx,
		cancel:         cancel,
		interval:       opts.Interval,
		pending:        make(map[uint64]*ConfirmRequest),
	}
}

// State returns a snapshot of the poller state.
func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return State{
		Interval:      p.interval,
		LastEventPath: p.lastEventPath,
		LastEventType: p.lastEventType,
		Running:       p.running,
	}
}

// Tick runs one poll cycle over every channel, in a fixed order. It never
// fails; errors are logged and the affected channel is skipped.
func (p *Poller) Tick(ctx context.Context) {
	p.tickMu.Lock()
	defer p.tickMu.Unlock()
	p.checkSeaDriveEvents(ctx)
	p.checkNotification(ctx)
	p.checkSyncStatus(ctx)
	p.checkSyncErrors(ctx)
}

func (p *Poller) requestCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, p.requestTimeout)
}

func (p *Poller) checkSeaDriveEvents(ctx context.Context) {
	if !p.client.IsConnected() {
		return
	}
	rctx, cancel := p.requestCtx(ctx)
	payload, err := p.client.GetSeaDriveEvents(rctx)
	cancel()
	if err != nil {
		p.log.Debug("get seadrive events failed", zap.Error(err))
		return
	}
	if payload == nil {
		return
	}

	ev := message.DecodeFsOpEvent(payload)
	p.recordEvent(ev)
	if ev.Kind == message.FsEventUnknown {
		p.log.Warn("unknown type of seadrive event", zap.String("type", ev.RawType))
		return
	}
	p.dispatch(ctx, p.rules.ClassifyFsEvent(ev))
}

func (p *Poller) recordEvent(ev message.FsOpEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastEventPath = ev.Path
	if ev.Kind == message.FsEventDownloadStart || ev.Kind == message.FsEventDownloadDone {
		p.lastEventType = ev.RawType
	}
}

func (p *Poller) checkNotification(ctx context.Context) {
	if !p.client.IsConnected() {
		return
	}
	rctx, cancel := p.requestCtx(ctx)
	payload, err := p.client.GetSyncNotification(rctx)
	cancel()
	if err != nil {
		p.log.Debug("get sync notification failed", zap.Error(err))
		return
	}
	if payload == nil {
		return
	}

	n := message.DecodeSyncNotification(payload, p.catalog)
	if n.Kind == message.KindUnknown {
		p.log.Warn("unknown message", zap.String("type", n.Type))
		return
	}
	p.dispatch(ctx, p.rules.Classify(n))
}

func (p *Poller) checkSyncStatus(ctx context.Context) {
	if !p.client.IsConnected() {
		return
	}
	rctx, cancel := p.requestCtx(ctx)
	payload, err := p.client.GetGlobalSyncStatus(rctx)
	cancel()
	if err != nil {
		p.log.Debug("get global sync status failed", zap.Error(err))
		return
	}
	if payload == nil {
		return
	}

	status := message.DecodeGlobalSyncStatus(payload)
	if status.IsSyncing {
		p.sink.Rotate(true)
		p.sink.SetTransferRate(status.SentBytes, status.RecvBytes)
	} else {
		p.sink.Rotate(false)
		p.sink.SetTransferRate(0, 0)
	}
}

func (p *Poller) checkSyncErrors(ctx context.Context) {
	if !p.client.IsConnected() {
		p.sink.SetSyncErrors([]message.SyncError{})
		return
	}
	rctx, cancel := p.requestCtx(ctx)
	items, err := p.client.GetSyncErrors(rctx)
	cancel()
	if err != nil {
		p.log.Debug("get sync errors failed", zap.Error(err))
		p.sink.SetSyncErrors([]message.SyncError{})
		return
	}
	p.sink.SetSyncErrors(message.DecodeSyncErrors(items, p.catalog))
}
