// Package tray implements the system tray icon and menu that present daemon
// notifications to the user.
package tray

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/seadrive-io/seadrive-tray/internal/message"
	"github.com/seadrive-io/seadrive-tray/internal/poller"
)

const (
	maxErrorSlots   = 10
	maxConfirmSlots = 5
	maxTitleWidth   = 64
)

// State is the tray's view of the daemon. It holds no systray handles so it
// can be updated before the menu exists.
type State struct {
	mu          sync.Mutex
	daemonAlive bool
	syncing     bool
	frame       int
	sent, recv  int64
	errors      []message.SyncError
	confirms    [maxConfirmSlots]*poller.ConfirmRequest
}

// SetDaemonAlive records whether the daemon process is running.
func (s *State) SetDaemonAlive(alive bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.daemonAlive = alive
}

// SetSyncing records whether the daemon is transferring data and returns
// true if the value changed.
func (s *State) SetSyncing(active bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := s.syncing != active
	s.syncing = active
	if !active {
		s.frame = 0
	}
	return changed
}

// NextFrame advances the sync animation and returns the frame to show.
func (s *State) NextFrame(frames int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame = (s.frame + 1) % frames
	return s.frame
}

// SetTransferRate records the current upload and download rates in bytes
// per second.
func (s *State) SetTransferRate(sent, recv int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent, s.recv = sent, recv
}

// SetSyncErrors replaces the sync error list.
func (s *State) SetSyncErrors(errs []message.SyncError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors[:0], errs...)
}

// SyncErrors returns a copy of the sync error list.
func (s *State) SyncErrors() []message.SyncError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]message.SyncError(nil), s.errors...)
}

// SyncErrorAt returns the error shown in the given menu slot.
func (s *State) SyncErrorAt(slot int) (message.SyncError, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slot < 0 || slot >= len(s.errors) || slot >= maxErrorSlots {
		return message.SyncError{}, false
	}
	return s.errors[slot], true
}

// AddConfirmation assigns req to a free confirmation slot. It returns -1
// when every slot is taken.
func (s *State) AddConfirmation(req *poller.ConfirmRequest) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.confirms {
		if r == nil {
			s.confirms[i] = req
			return i
		}
	}
	return -1
}

// TakeConfirmation removes and returns the request in slot.
func (s *State) TakeConfirmation(slot int) *poller.ConfirmRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slot < 0 || slot >= maxConfirmSlots {
		return nil
	}
	req := s.confirms[slot]
	s.confirms[slot] = nil
	return req
}

// ReleaseConfirmation frees slot if it still holds req.
func (s *State) ReleaseConfirmation(slot int, req *poller.ConfirmRequest) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slot < 0 || slot >= maxConfirmSlots || s.confirms[slot] != req {
		return false
	}
	s.confirms[slot] = nil
	return true
}

// Tooltip renders the tray tooltip.
func (s *State) Tooltip() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return formatTooltip(s.daemonAlive, s.syncing, s.sent, s.recv, len(s.errors))
}

// Status renders the status line shown at the top of the menu.
func (s *State) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case !s.daemonAlive:
		return "SeaDrive is not running"
	case s.syncing:
		return "Syncing"
	case len(s.errors) > 0:
		return fmt.Sprintf("%d sync %s", len(s.errors), plural(len(s.errors), "error", "errors"))
	default:
		return "Up to date"
	}
}

func formatTooltip(alive, syncing bool, sent, recv int64, errCount int) string {
	if !alive {
		return "SeaDrive: not running"
	}
	var b strings.Builder
	b.WriteString("SeaDrive")
	if syncing {
		fmt.Fprintf(&b, "\nUploading %s/s, downloading %s/s",
			humanize.Bytes(nonNegative(sent)), humanize.Bytes(nonNegative(recv)))
	}
	if errCount > 0 {
		fmt.Fprintf(&b, "\n%d sync %s", errCount, plural(errCount, "error", "errors"))
	}
	return b.String()
}

func formatSyncErrorTitle(e message.SyncError, now time.Time) string {
	subject := e.RepoName
	if subject == "" {
		subject = e.Path
	}
	title := fmt.Sprintf("%s: %s", subject, e.Message)
	if e.Timestamp > 0 {
		title += " (" + humanize.RelTime(time.Unix(e.Timestamp, 0), now, "ago", "from now") + ")"
	}
	return truncate(title, maxTitleWidth)
}

func formatSyncErrorDetail(e message.SyncError) string {
	var b strings.Builder
	if e.RepoName != "" {
		fmt.Fprintf(&b, "Library: %s\n", e.RepoName)
	}
	if e.Path != "" {
		fmt.Fprintf(&b, "Path: %s\n", e.Path)
	}
	b.WriteString(e.Message)
	return b.String()
}

func formatConfirmTitle(req *poller.ConfirmRequest) string {
	if req.Text != "" {
		return truncate(req.Text, maxTitleWidth)
	}
	return truncate(req.Info, maxTitleWidth)
}

// truncate limits s to n terminal cells; wide runes count twice.
func truncate(s string, n int) string {
	return runewidth.Truncate(s, n, "…")
}

func nonNegative(n int64) uint64 {
	if n < 0 {
		return 0
	}
	return uint64(n)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// HasConfirmations reports whether any confirmation slot is in use.
func (s *State) HasConfirmations() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.confirms {
		if r != nil {
			return true
		}
	}
	return false
}
