package poller

import (
	"context"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/seadrive-io/seadrive-tray/internal/classify"
	"github.com/seadrive-io/seadrive-tray/internal/message"
	"github.com/seadrive-io/seadrive-tray/internal/models"
)

func newTestPoller(client *fakeClient, sink *fakeSink, opts Options) *Poller {
	rules := classify.NewRules(prefs{notify: true}, nil, nil)
	return New(client, sink, rules, opts)
}

func TestTickChannelOrder(t *testing.T) {
	client := newFakeClient()
	client.events = []message.Payload{{"type": message.TagDownloadStart, "path": "/a/b.txt"}}
	client.notifications = []message.Payload{{"type": message.TagSyncDone, "repo_name": "Docs"}}
	client.status = message.Payload{"is_syncing": false}

	p := newTestPoller(client, &fakeSink{}, Options{})
	p.Tick(context.Background())

	want := []string{"events", "notification", "status", "errors"}
	if got := client.snapshotCalls(); !reflect.DeepEqual(got, want) {
		t.Errorf("calls = %v, want %v", got, want)
	}
}

func TestTickDisconnected(t *testing.T) {
	client := newFakeClient()
	client.connected = false
	client.notifications = []message.Payload{{"type": message.TagSyncDone, "repo_name": "Docs"}}
	sink := &fakeSink{}

	p := newTestPoller(client, sink, Options{})
	p.Tick(context.Background())

	if got := client.snapshotCalls(); len(got) != 0 {
		t.Errorf("calls = %v, want none", got)
	}
	if len(sink.messages) != 0 || len(sink.rotations) != 0 || len(sink.rates) != 0 {
		t.Errorf("unexpected sink activity: %+v", sink)
	}
	if len(sink.syncErrors) != 1 {
		t.Fatalf("SetSyncErrors called %d times, want 1", len(sink.syncErrors))
	}
	if errs := sink.syncErrors[0]; errs == nil || len(errs) != 0 {
		t.Errorf("sync errors = %#v, want empty non-nil list", errs)
	}
}

func TestTickSyncDone(t *testing.T) {
	tests := []struct {
		name   string
		notify bool
		want   int
	}{
		{name: "notify on", notify: true, want: 1},
		{name: "notify off", notify: false, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newFakeClient()
			client.notifications = []message.Payload{{
				"type":        message.TagSyncDone,
				"repo_id":     "r1",
				"repo_name":   "Docs",
				"commit_id":   "c2",
				"commit_desc": "Modified \"a.txt\"",
			}}
			sink := &fakeSink{}
			rules := classify.NewRules(prefs{notify: tt.notify}, nil, nil)
			p := New(client, sink, rules, Options{})
			p.Tick(context.Background())

			if len(sink.messages) != tt.want {
				t.Fatalf("messages = %d, want %d", len(sink.messages), tt.want)
			}
			if tt.want == 0 {
				return
			}
			msg := sink.messages[0]
			if !strings.Contains(msg.Title, "Docs") {
				t.Errorf("title = %q, want repo name", msg.Title)
			}
			if msg.RepoID != "r1" || msg.CommitID != "c2" {
				t.Errorf("message ids = %q/%q", msg.RepoID, msg.CommitID)
			}
		})
	}
}

func TestTickFsOpError(t *testing.T) {
	client := newFakeClient()
	client.events = []message.Payload{{"type": message.TagCreateRootFile, "path": "/mnt/x/foo.txt"}}
	sink := &fakeSink{}

	p := newTestPoller(client, sink, Options{})
	p.Tick(context.Background())

	if len(sink.warnings) != 1 {
		t.Fatalf("warnings = %d, want 1", len(sink.warnings))
	}
	w := sink.warnings[0]
	if !strings.Contains(w[1], "foo.txt") {
		t.Errorf("warning body %q does not mention the file", w[1])
	}
	if len(sink.messages) != 0 {
		t.Errorf("messages = %d, want 0", len(sink.messages))
	}
}

func TestTickSyncStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   message.Payload
		rotate   bool
		wantRate [2]int64
	}{
		{
			name:     "syncing",
			status:   message.Payload{"is_syncing": true, "sent_bytes": float64(100), "recv_bytes": float64(200)},
			rotate:   true,
			wantRate: [2]int64{100, 200},
		},
		{
			name:     "idle resets rate",
			status:   message.Payload{"is_syncing": false, "sent_bytes": float64(100), "recv_bytes": float64(200)},
			rotate:   false,
			wantRate: [2]int64{0, 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newFakeClient()
			client.status = tt.status
			sink := &fakeSink{}
			p := newTestPoller(client, sink, Options{})

			p.Tick(context.Background())
			p.Tick(context.Background())

			if len(sink.rotations) != 2 {
				t.Fatalf("rotations = %d, want one per tick", len(sink.rotations))
			}
			for _, r := range sink.rotations {
				if r != tt.rotate {
					t.Errorf("Rotate(%v), want %v", r, tt.rotate)
				}
			}
			if got := sink.rates[len(sink.rates)-1]; got != tt.wantRate {
				t.Errorf("rate = %v, want %v", got, tt.wantRate)
			}
		})
	}
}

func TestTickSyncErrors(t *testing.T) {
	tests := []struct {
		name  string
		items []message.Payload
		err   error
		want  int
	}{
		{
			name: "replaced each tick",
			items: []message.Payload{
				{"repo_id": "r1", "repo_name": "Docs", "path": "/a", "err_id": float64(message.SyncErrorIDQuotaFull)},
				{"repo_id": "r2", "repo_name": "Pics", "path": "/b", "err_id": float64(message.SyncErrorIDNetwork)},
			},
			want: 2,
		},
		{name: "none", items: nil, want: 0},
		{name: "rpc failure", err: errUnavailable, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newFakeClient()
			client.syncErrors = tt.items
			client.syncErrorsErr = tt.err
			sink := &fakeSink{}
			p := newTestPoller(client, sink, Options{})
			p.Tick(context.Background())

			if len(sink.syncErrors) != 1 {
				t.Fatalf("SetSyncErrors called %d times", len(sink.syncErrors))
			}
			got := sink.syncErrors[0]
			if got == nil {
				t.Fatal("sync errors list is nil")
			}
			if len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestTickUnknownMessagesAreLogged(t *testing.T) {
	tests := []struct {
		name    string
		client  func(*fakeClient)
		logText string
	}{
		{
			name: "unknown notification",
			client: func(c *fakeClient) {
				c.notifications = []message.Payload{{"type": "sync.mystery"}}
			},
			logText: "unknown message",
		},
		{
			name: "notification without type",
			client: func(c *fakeClient) {
				c.notifications = []message.Payload{{"repo_name": "Docs"}}
			},
			logText: "unknown message",
		},
		{
			name: "unknown fs event",
			client: func(c *fakeClient) {
				c.events = []message.Payload{{"type": "fs_op_error.mystery", "path": "/x"}}
			},
			logText: "unknown type of seadrive event",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.WarnLevel)
			client := newFakeClient()
			tt.client(client)
			sink := &fakeSink{}
			p := newTestPoller(client, sink, Options{Logger: zap.New(core)})
			p.Tick(context.Background())

			if n := logs.FilterMessage(tt.logText).Len(); n != 1 {
				t.Errorf("%q logged %d times, want 1", tt.logText, n)
			}
			if len(sink.messages) != 0 || len(sink.warnings) != 0 || len(sink.confirms) != 0 {
				t.Errorf("unexpected sink activity")
			}
		})
	}
}

func TestTickRecordsLastEvent(t *testing.T) {
	client := newFakeClient()
	client.events = []message.Payload{
		{"type": message.TagDownloadStart, "path": "/lib/a.txt"},
		{"type": message.TagCreateRootFile, "path": "/b.txt"},
	}
	p := newTestPoller(client, &fakeSink{}, Options{})

	p.Tick(context.Background())
	st := p.State()
	if st.LastEventPath != "/lib/a.txt" || st.LastEventType != message.TagDownloadStart {
		t.Errorf("state after download = %+v", st)
	}

	p.Tick(context.Background())
	st = p.State()
	if st.LastEventPath != "/b.txt" {
		t.Errorf("LastEventPath = %q, want /b.txt", st.LastEventPath)
	}
	if st.LastEventType != message.TagDownloadStart {
		t.Errorf("LastEventType = %q, want it unchanged by error events", st.LastEventType)
	}
}

func TestFSLoadedSignal(t *testing.T) {
	client := newFakeClient()
	client.notifications = []message.Payload{{"type": message.TagFSLoaded}}
	sink := &fakeSink{}
	p := newTestPoller(client, sink, Options{})
	loaded := p.SubscribeFSLoaded()

	p.Tick(context.Background())

	select {
	case <-loaded:
	default:
		t.Fatal("fs-loaded signal not emitted")
	}
	if len(sink.messages) != 1 {
		t.Errorf("messages = %d, want 1", len(sink.messages))
	}
}

type recordingActions struct {
	mu    sync.Mutex
	calls []string
	done  chan struct{}
}

func (r *recordingActions) record(call string) error {
	r.mu.Lock()
	r.calls = append(r.calls, call)
	r.mu.Unlock()
	r.done <- struct{}{}
	return nil
}

func (r *recordingActions) ShareLink(_ context.Context, a models.Account, repoID, path string) error {
	return r.record("share:" + a.Username + ":" + repoID + ":" + path)
}

func (r *recordingActions) InternalLink(_ context.Context, a models.Account, repoID, path string, isDir bool) error {
	return r.record("internal:" + repoID + ":" + path)
}

func (r *recordingActions) UploadLink(_ context.Context, a models.Account, repoID, path string) error {
	return r.record("upload:" + repoID + ":" + path)
}

func (r *recordingActions) FileHistory(_ context.Context, a models.Account, repoID, path string) error {
	return r.record("history:" + repoID + ":" + path)
}

func TestPlatformActionDispatch(t *testing.T) {
	client := newFakeClient()
	client.notifications = []message.Payload{
		{"type": message.TagGetShareLink, "repo_id": "r1", "repo_path": "/a.txt", "domain_id": "d1"},
		{"type": message.TagGetUploadLink, "repo_id": "r1", "repo_path": "/dir", "domain_id": "unknown"},
	}
	actions := &recordingActions{done: make(chan struct{}, 4)}
	rules := classify.NewRules(prefs{notify: true}, accounts{
		"d1": {DomainID: "d1", ServerURL: "https://cloud.example.com", Username: "alice"},
	}, nil)
	p := New(client, &fakeSink{}, rules, Options{Platform: actions})

	p.Tick(context.Background())
	select {
	case <-actions.done:
	case <-time.After(2 * time.Second):
		t.Fatal("platform action not performed")
	}

	// The second notification has no matching account.
	p.Tick(context.Background())
	select {
	case <-actions.done:
		t.Fatal("platform action performed for unknown account")
	case <-time.After(50 * time.Millisecond):
	}

	actions.mu.Lock()
	defer actions.mu.Unlock()
	want := []string{"share:alice:r1:/a.txt"}
	if !reflect.DeepEqual(actions.calls, want) {
		t.Errorf("calls = %v, want %v", actions.calls, want)
	}
}
