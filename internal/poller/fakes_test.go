package poller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/seadrive-io/seadrive-tray/internal/classify"
	"github.com/seadrive-io/seadrive-tray/internal/message"
	"github.com/seadrive-io/seadrive-tray/internal/models"
)

type answer struct {
	id       string
	declined bool
}

type fakeClient struct {
	mu            sync.Mutex
	connected     bool
	events        []message.Payload
	notifications []message.Payload
	status        message.Payload
	syncErrors    []message.Payload
	syncErrorsErr error
	calls         []string
	answers       []answer
	// onEvents runs outside the lock on every GetSeaDriveEvents call.
	onEvents func()
}

func newFakeClient() *fakeClient {
	return &fakeClient{connected: true}
}

func (c *fakeClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *fakeClient) pop(name string, q *[]message.Payload) message.Payload {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, name)
	if len(*q) == 0 {
		return nil
	}
	p := (*q)[0]
	*q = (*q)[1:]
	return p
}

func (c *fakeClient) GetSeaDriveEvents(ctx context.Context) (message.Payload, error) {
	if c.onEvents != nil {
		c.onEvents()
	}
	return c.pop("events", &c.events), nil
}

func (c *fakeClient) GetSyncNotification(ctx context.Context) (message.Payload, error) {
	return c.pop("notification", &c.notifications), nil
}

func (c *fakeClient) GetGlobalSyncStatus(ctx context.Context) (message.Payload, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, "status")
	return c.status, nil
}

func (c *fakeClient) GetSyncErrors(ctx context.Context) ([]message.Payload, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, "errors")
	return c.syncErrors, c.syncErrorsErr
}

func (c *fakeClient) AddDelConfirmation(ctx context.Context, id string, declined bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.answers = append(c.answers, answer{id: id, declined: declined})
	return nil
}

func (c *fakeClient) snapshotCalls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

func (c *fakeClient) snapshotAnswers() []answer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]answer(nil), c.answers...)
}

var errUnavailable = errors.New("unavailable")

type fakeSink struct {
	mu         sync.Mutex
	messages   []classify.ShowMessage
	warnings   [][2]string
	rates      [][2]int64
	rotations  []bool
	syncErrors [][]message.SyncError
	confirms   []*ConfirmRequest
}

func (s *fakeSink) ShowMessage(msg classify.ShowMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

func (s *fakeSink) ShowWarningMessage(title, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warnings = append(s.warnings, [2]string{title, body})
}

func (s *fakeSink) SetTransferRate(sent, recv int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates = append(s.rates, [2]int64{sent, recv})
}

func (s *fakeSink) Rotate(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rotations = append(s.rotations, active)
}

func (s *fakeSink) SetSyncErrors(errs []message.SyncError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncErrors = append(s.syncErrors, errs)
}

func (s *fakeSink) RequestConfirmation(req *ConfirmRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirms = append(s.confirms, req)
}

type prefs struct {
	notify bool
}

func (p prefs) Notify() bool                         { return p.notify }
func (p prefs) HideWindowsIncompatiblePathMsg() bool { return false }

type accounts map[string]models.Account

func (a accounts) AccountByDomainID(id string) (models.Account, bool) {
	acc, ok := a[id]
	return acc, ok
}

type fakeTicker struct {
	d       time.Duration
	c       chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (t *fakeTicker) C() <-chan time.Time { return t.c }

func (t *fakeTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

func (t *fakeTicker) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

type tickerFactory struct {
	mu      sync.Mutex
	created []*fakeTicker
}

func (f *tickerFactory) New(d time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTicker{d: d, c: make(chan time.Time)}
	f.created = append(f.created, t)
	return t
}

func (f *tickerFactory) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

func (f *tickerFactory) last() *fakeTicker {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.created[len(f.created)-1]
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
