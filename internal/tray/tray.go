package tray

import (
	"embed"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/gen2brain/beeep"
	"github.com/getlantern/systray"
	"go.uber.org/zap"

	"github.com/seadrive-io/seadrive-tray/internal/classify"
	"github.com/seadrive-io/seadrive-tray/internal/message"
	"github.com/seadrive-io/seadrive-tray/internal/poller"
)

//go:embed icons/*.png
var iconFS embed.FS

const animationInterval = 250 * time.Millisecond

var (
	iconIdle  = mustIcon("icons/idle.png")
	iconError = mustIcon("icons/error.png")
	syncIcons = [][]byte{
		mustIcon("icons/sync_0.png"),
		mustIcon("icons/sync_1.png"),
		mustIcon("icons/sync_2.png"),
		mustIcon("icons/sync_3.png"),
	}
)

func mustIcon(name string) []byte {
	data, err := iconFS.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return data
}

// Tray presents poller actions through the system tray and desktop
// notifications. It implements poller.ActionSink.
type Tray struct {
	state State
	log   *zap.Logger

	onReady func()
	onQuit  func()

	mu       sync.Mutex
	ready    bool
	stopAnim chan struct{}

	statusItem   *systray.MenuItem
	errorsHeader *systray.MenuItem
	noErrorsItem *systray.MenuItem
	errorSlots   [maxErrorSlots]*systray.MenuItem
	errorCopy    [maxErrorSlots]*systray.MenuItem

	confirmHeader *systray.MenuItem
	confirmSlots  [maxConfirmSlots]*systray.MenuItem
	confirmYes    [maxConfirmSlots]*systray.MenuItem
	confirmNo     [maxConfirmSlots]*systray.MenuItem

	quitItem *systray.MenuItem
}

// New creates a tray. onReady runs once the menu exists; onQuit runs when the
// user picks Quit.
func New(log *zap.Logger, onReady, onQuit func()) *Tray {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tray{
		log:     log.With(zap.String("component", "tray")),
		onReady: onReady,
		onQuit:  onQuit,
	}
}

// Run starts the system tray. This blocks the calling goroutine (must be main).
// onExit is called when the tray exits.
func (t *Tray) Run(onExit func()) {
	systray.Run(t.build, onExit)
}

// Quit signals the tray to exit.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) build() {
	systray.SetTemplateIcon(iconIdle, iconIdle)
	systray.SetTooltip(t.state.Tooltip())

	header := systray.AddMenuItem("SeaDrive", "")
	header.Disable()
	t.statusItem = systray.AddMenuItem(t.state.Status(), "")
	t.statusItem.Disable()

	systray.AddSeparator()

	t.errorsHeader = systray.AddMenuItem("Sync errors", "")
	t.errorsHeader.Disable()
	t.errorsHeader.Hide()
	for i := 0; i < maxErrorSlots; i++ {
		t.errorSlots[i] = systray.AddMenuItem("", "")
		t.errorCopy[i] = t.errorSlots[i].AddSubMenuItem("Copy error details", "")
		t.errorSlots[i].Hide()
	}
	t.noErrorsItem = systray.AddMenuItem("No sync errors", "")
	t.noErrorsItem.Disable()

	systray.AddSeparator()

	t.confirmHeader = systray.AddMenuItem("Waiting for confirmation", "")
	t.confirmHeader.Disable()
	t.confirmHeader.Hide()
	for i := 0; i < maxConfirmSlots; i++ {
		t.confirmSlots[i] = systray.AddMenuItem("", "")
		t.confirmYes[i] = t.confirmSlots[i].AddSubMenuItem("Delete", "Let the deletion proceed")
		t.confirmNo[i] = t.confirmSlots[i].AddSubMenuItem("Keep", "Cancel the deletion")
		t.confirmSlots[i].Hide()
	}

	systray.AddSeparator()
	t.quitItem = systray.AddMenuItem("Quit", "Quit SeaDrive tray")

	t.mu.Lock()
	t.ready = true
	t.mu.Unlock()

	t.handleClicks()
	t.refresh()

	if t.onReady != nil {
		t.onReady()
	}
}

func (t *Tray) isReady() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ready
}

func (t *Tray) handleClicks() {
	go func() {
		for range t.quitItem.ClickedCh {
			if t.onQuit != nil {
				t.onQuit()
			}
		}
	}()

	for i := 0; i < maxErrorSlots; i++ {
		go func(slot int) {
			for range t.errorCopy[slot].ClickedCh {
				t.copySyncError(slot)
			}
		}(i)
	}

	for i := 0; i < maxConfirmSlots; i++ {
		go func(slot int) {
			for {
				select {
				case <-t.confirmYes[slot].ClickedCh:
					t.answer(slot, true)
				case <-t.confirmNo[slot].ClickedCh:
					t.answer(slot, false)
				}
			}
		}(i)
	}
}

// SetDaemonAlive updates the status line when the daemon starts or stops.
func (t *Tray) SetDaemonAlive(alive bool) {
	t.state.SetDaemonAlive(alive)
	if !alive {
		t.Rotate(false)
	}
	t.refresh()
}

// ShowMessage shows an informational desktop notification.
func (t *Tray) ShowMessage(msg classify.ShowMessage) {
	var err error
	if msg.Severity == classify.SeverityWarning {
		err = beeep.Alert(msg.Title, msg.Body, "")
	} else {
		err = beeep.Notify(msg.Title, msg.Body, "")
	}
	if err != nil {
		t.log.Warn("failed to show notification", zap.String("title", msg.Title), zap.Error(err))
	}
}

// ShowWarningMessage shows a warning desktop notification.
func (t *Tray) ShowWarningMessage(title, body string) {
	if err := beeep.Alert(title, body, ""); err != nil {
		t.log.Warn("failed to show warning", zap.String("title", title), zap.Error(err))
	}
}

// SetTransferRate updates the tooltip with the current rates.
func (t *Tray) SetTransferRate(sent, recv int64) {
	t.state.SetTransferRate(sent, recv)
	if t.isReady() {
		systray.SetTooltip(t.state.Tooltip())
	}
}

// Rotate starts or stops the sync animation.
func (t *Tray) Rotate(active bool) {
	if !t.state.SetSyncing(active) {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if active && t.stopAnim == nil {
		t.stopAnim = make(chan struct{})
		go t.animate(t.stopAnim)
	} else if !active && t.stopAnim != nil {
		close(t.stopAnim)
		t.stopAnim = nil
	}
	if t.ready {
		t.statusItem.SetTitle(t.state.Status())
	}
}

func (t *Tray) animate(stop <-chan struct{}) {
	ticker := time.NewTicker(animationInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			t.setIcon()
			return
		case <-ticker.C:
			if t.isReady() {
				frame := syncIcons[t.state.NextFrame(len(syncIcons))]
				systray.SetTemplateIcon(frame, frame)
			}
		}
	}
}

func (t *Tray) setIcon() {
	if !t.isReady() {
		return
	}
	icon := iconIdle
	if len(t.state.SyncErrors()) > 0 {
		icon = iconError
	}
	systray.SetTemplateIcon(icon, icon)
}

// SetSyncErrors replaces the sync error menu entries.
func (t *Tray) SetSyncErrors(errs []message.SyncError) {
	t.state.SetSyncErrors(errs)
	t.refresh()
}

func (t *Tray) refresh() {
	if !t.isReady() {
		return
	}

	errs := t.state.SyncErrors()
	now := time.Now()
	for i := 0; i < maxErrorSlots; i++ {
		if i < len(errs) {
			t.errorSlots[i].SetTitle(formatSyncErrorTitle(errs[i], now))
			t.errorSlots[i].SetTooltip(formatSyncErrorDetail(errs[i]))
			t.errorSlots[i].Show()
		} else {
			t.errorSlots[i].Hide()
		}
	}
	if len(errs) == 0 {
		t.errorsHeader.Hide()
		t.noErrorsItem.Show()
	} else {
		t.errorsHeader.Show()
		t.noErrorsItem.Hide()
	}

	t.statusItem.SetTitle(t.state.Status())
	systray.SetTooltip(t.state.Tooltip())

	t.mu.Lock()
	animating := t.stopAnim != nil
	t.mu.Unlock()
	if !animating {
		t.setIcon()
	}
}

func (t *Tray) copySyncError(slot int) {
	e, ok := t.state.SyncErrorAt(slot)
	if !ok {
		return
	}
	if err := clipboard.WriteAll(formatSyncErrorDetail(e)); err != nil {
		t.log.Warn("failed to copy sync error", zap.Error(err))
	}
}

// RequestConfirmation shows the question in the menu and as a desktop
// notification. The request is declined if no menu slot is free.
func (t *Tray) RequestConfirmation(req *poller.ConfirmRequest) {
	slot := t.state.AddConfirmation(req)
	if slot < 0 {
		t.log.Warn("too many pending confirmations, declining",
			zap.String("confirmation_id", req.ConfirmationID))
		go req.Answer(false)
		return
	}

	if t.isReady() {
		t.confirmSlots[slot].SetTitle(formatConfirmTitle(req))
		t.confirmSlots[slot].SetTooltip(req.Info)
		t.confirmSlots[slot].Show()
		t.confirmHeader.Show()
	}
	if err := beeep.Notify(req.Info, req.Text, ""); err != nil {
		t.log.Warn("failed to show confirmation", zap.Error(err))
	}

	// The request may also be answered by timeout or shutdown.
	go func() {
		<-req.Done()
		if t.state.ReleaseConfirmation(slot, req) {
			t.hideConfirmation(slot)
		}
	}()
}

func (t *Tray) answer(slot int, accepted bool) {
	req := t.state.TakeConfirmation(slot)
	if req == nil {
		return
	}
	t.hideConfirmation(slot)
	req.Answer(accepted)
}

func (t *Tray) hideConfirmation(slot int) {
	if !t.isReady() {
		return
	}
	t.confirmSlots[slot].Hide()
	if !t.state.HasConfirmations() {
		t.confirmHeader.Hide()
	}
}
