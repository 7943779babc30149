package tray

import (
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/seadrive-io/seadrive-tray/internal/message"
	"github.com/seadrive-io/seadrive-tray/internal/poller"
)

func TestFormatTooltip(t *testing.T) {
	tests := []struct {
		name     string
		alive    bool
		syncing  bool
		sent     int64
		recv     int64
		errCount int
		want     string
	}{
		{name: "not running", alive: false, want: "SeaDrive: not running"},
		{name: "idle", alive: true, want: "SeaDrive"},
		{
			name: "syncing", alive: true, syncing: true, sent: 2000, recv: 3000000,
			want: "SeaDrive\nUploading 2.0 kB/s, downloading 3.0 MB/s",
		},
		{name: "one error", alive: true, errCount: 1, want: "SeaDrive\n1 sync error"},
		{name: "negative rate", alive: true, syncing: true, sent: -5, want: "SeaDrive\nUploading 0 B/s, downloading 0 B/s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatTooltip(tt.alive, tt.syncing, tt.sent, tt.recv, tt.errCount)
			if got != tt.want {
				t.Errorf("formatTooltip() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatSyncErrorTitle(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	tests := []struct {
		name string
		err  message.SyncError
		want string
	}{
		{
			name: "repo name",
			err:  message.SyncError{RepoName: "Docs", Message: "Network error"},
			want: "Docs: Network error",
		},
		{
			name: "falls back to path",
			err:  message.SyncError{Path: "/a/b.txt", Message: "Path is invalid"},
			want: "/a/b.txt: Path is invalid",
		},
		{
			name: "with timestamp",
			err:  message.SyncError{RepoName: "Docs", Message: "Server error", Timestamp: now.Add(-2 * time.Hour).Unix()},
			want: "Docs: Server error (2 hours ago)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatSyncErrorTitle(tt.err, now); got != tt.want {
				t.Errorf("formatSyncErrorTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("é", 100)
	got := truncate(long, 10)
	if n := len([]rune(got)); n != 10 {
		t.Errorf("truncated to %d runes, want 10", n)
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("missing ellipsis: %q", got)
	}
	if truncate("short", 10) != "short" {
		t.Error("short string changed")
	}
	wide := truncate(strings.Repeat("文", 20), 10)
	if w := runewidth.StringWidth(wide); w > 10 {
		t.Errorf("wide title is %d cells, want at most 10", w)
	}
}

func TestStatus(t *testing.T) {
	var s State
	if got := s.Status(); got != "SeaDrive is not running" {
		t.Errorf("Status() = %q", got)
	}
	s.SetDaemonAlive(true)
	if got := s.Status(); got != "Up to date" {
		t.Errorf("Status() = %q", got)
	}
	s.SetSyncErrors([]message.SyncError{{}, {}})
	if got := s.Status(); got != "2 sync errors" {
		t.Errorf("Status() = %q", got)
	}
	s.SetSyncing(true)
	if got := s.Status(); got != "Syncing" {
		t.Errorf("Status() = %q", got)
	}
}

func TestSyncingAnimation(t *testing.T) {
	var s State
	if !s.SetSyncing(true) {
		t.Error("first SetSyncing(true) reported no change")
	}
	if s.SetSyncing(true) {
		t.Error("repeated SetSyncing(true) reported a change")
	}
	frames := []int{s.NextFrame(4), s.NextFrame(4), s.NextFrame(4), s.NextFrame(4)}
	if frames[0] != 1 || frames[3] != 0 {
		t.Errorf("frames = %v", frames)
	}
	s.SetSyncing(false)
	if f := s.NextFrame(4); f != 1 {
		t.Errorf("frame after stop = %d, want 1", f)
	}
}

func TestConfirmationSlots(t *testing.T) {
	var s State
	reqs := make([]*poller.ConfirmRequest, maxConfirmSlots+1)
	for i := range reqs {
		reqs[i] = &poller.ConfirmRequest{ConfirmationID: string(rune('a' + i))}
	}

	for i := 0; i < maxConfirmSlots; i++ {
		if slot := s.AddConfirmation(reqs[i]); slot != i {
			t.Fatalf("slot = %d, want %d", slot, i)
		}
	}
	if slot := s.AddConfirmation(reqs[maxConfirmSlots]); slot != -1 {
		t.Errorf("overflow slot = %d, want -1", slot)
	}

	if got := s.TakeConfirmation(2); got != reqs[2] {
		t.Errorf("TakeConfirmation(2) = %v", got)
	}
	if got := s.TakeConfirmation(2); got != nil {
		t.Errorf("slot 2 taken twice")
	}
	if s.ReleaseConfirmation(3, reqs[0]) {
		t.Error("released slot held by another request")
	}
	if !s.ReleaseConfirmation(3, reqs[3]) {
		t.Error("failed to release slot 3")
	}
	if slot := s.AddConfirmation(reqs[maxConfirmSlots]); slot != 2 {
		t.Errorf("reused slot = %d, want 2", slot)
	}
	if !s.HasConfirmations() {
		t.Error("HasConfirmations() = false")
	}
}

func TestSyncErrorAt(t *testing.T) {
	var s State
	s.SetSyncErrors([]message.SyncError{{RepoID: "r1"}, {RepoID: "r2"}})
	if e, ok := s.SyncErrorAt(1); !ok || e.RepoID != "r2" {
		t.Errorf("SyncErrorAt(1) = %+v, %v", e, ok)
	}
	if _, ok := s.SyncErrorAt(2); ok {
		t.Error("SyncErrorAt(2) out of range reported ok")
	}
}
