package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/seadrive-io/seadrive-tray/internal/config"
	"github.com/seadrive-io/seadrive-tray/internal/message"
	"github.com/seadrive-io/seadrive-tray/internal/models"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestSettingsCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	out, err := execute(t, "settings", "notify", "false")
	if err != nil {
		t.Fatalf("settings set: %v", err)
	}
	if !strings.Contains(out, "notify") {
		t.Errorf("output = %q", out)
	}

	s, err := config.LoadSettings()
	if err != nil {
		t.Fatal(err)
	}
	if s.Notify {
		t.Error("notify still true after settings command")
	}

	out, err = execute(t, "settings", "notify")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "false" {
		t.Errorf("settings get = %q, want false", out)
	}

	out, err = execute(t, "settings")
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range config.SettingKeys() {
		if !strings.Contains(out, k) {
			t.Errorf("settings list missing %s", k)
		}
	}
}

func TestSettingsCommandRejectsBadValue(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	if _, err := execute(t, "settings", "poller.interval_ms", "soon"); err == nil {
		t.Error("expected error for non-numeric interval")
	}
}

func TestStatusWithoutDaemon(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	out, err := execute(t, "status")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "not running") {
		t.Errorf("output = %q", out)
	}
}

func TestPrintStatus(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	info := &models.DaemonInfo{Host: "127.0.0.1", Port: 4000, PID: 42, StartedAt: now.Add(-3 * time.Minute)}

	tests := []struct {
		name   string
		status message.GlobalSyncStatus
		errs   []message.SyncError
		want   []string
	}{
		{
			name: "idle",
			want: []string{"127.0.0.1:4000", "42", "3 minutes ago", "up to date", "No sync errors."},
		},
		{
			name:   "syncing with errors",
			status: message.GlobalSyncStatus{IsSyncing: true, SentBytes: 1000, RecvBytes: 2000000},
			errs: []message.SyncError{
				{RepoName: "Docs", Path: "/Docs/a.txt", Message: "Network error", Timestamp: now.Add(-time.Hour).Unix()},
			},
			want: []string{"up 1.0 kB/s", "down 2.0 MB/s", "Sync errors (1):", "Docs: Network error", "1 hour ago", "/Docs/a.txt"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printStatus(&buf, info, tt.status, tt.errs, now)
			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("output missing %q:\n%s", w, buf.String())
				}
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "seadrive-tray") {
		t.Errorf("output = %q", out)
	}
}
