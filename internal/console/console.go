// Package console implements the foreground action sink: notifications are
// printed to the terminal and confirmations are asked on stdin.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/seadrive-io/seadrive-tray/internal/classify"
	"github.com/seadrive-io/seadrive-tray/internal/message"
	"github.com/seadrive-io/seadrive-tray/internal/poller"
)

var (
	colorDim    = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "30", Dark: "45"}
	colorYellow = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}
	colorRed    = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}

	styleInfo    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleWarning = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	styleError   = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	styleBody    = lipgloss.NewStyle().Foreground(colorDim)
)

// LineReader reads answers to confirmation prompts.
type LineReader interface {
	SetPrompt(prompt string)
	Readline() (string, error)
	Close() error
}

// Console prints poller actions and asks confirmations one at a time. It
// implements poller.ActionSink.
type Console struct {
	out    io.Writer
	reader LineReader
	log    *zap.Logger

	prompts chan *poller.ConfirmRequest

	printMu sync.Mutex

	mu         sync.Mutex
	syncing    bool
	errorCount int
}

// New creates a console writing to out. A nil reader makes every
// confirmation decline immediately.
func New(out io.Writer, reader LineReader, log *zap.Logger) *Console {
	if log == nil {
		log = zap.NewNop()
	}
	return &Console{
		out:     out,
		reader:  reader,
		log:     log.With(zap.String("component", "console")),
		prompts: make(chan *poller.ConfirmRequest, 16),
	}
}

// NewStdio creates a console on the process's terminal. When stdin is not a
// terminal, confirmations are declined.
func NewStdio(log *zap.Logger) (*Console, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return New(os.Stdout, nil, log), nil
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:                 "> ",
		InterruptPrompt:        "^C\n",
		DisableAutoSaveHistory: true,
		Stdin:                  os.Stdin,
		Stdout:                 os.Stdout,
		Stderr:                 os.Stderr,
	})
	if err != nil {
		return nil, err
	}
	return New(rl.Stdout(), rl, log), nil
}

// Run asks queued confirmations until ctx is done. Cancelling ctx closes
// the reader, which unblocks a prompt waiting for input.
func (c *Console) Run(ctx context.Context) error {
	if c.reader != nil {
		stop := context.AfterFunc(ctx, func() { _ = c.reader.Close() })
		defer func() {
			if stop() {
				_ = c.reader.Close()
			}
		}()
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case req := <-c.prompts:
			c.ask(req)
		}
	}
}

func (c *Console) ask(req *poller.ConfirmRequest) {
	select {
	case <-req.Done():
		return
	default:
	}

	if c.reader == nil {
		c.log.Info("no terminal to confirm on, declining", zap.String("confirmation_id", req.ConfirmationID))
		req.Answer(false)
		return
	}

	if req.Text != "" {
		c.println(styleWarning.Render(req.Text))
	}
	c.reader.SetPrompt(req.Info + " [y/N] ")
	line, err := c.reader.Readline()
	if err != nil {
		if !errors.Is(err, io.EOF) && !errors.Is(err, readline.ErrInterrupt) {
			c.log.Warn("failed to read answer", zap.Error(err))
		}
		req.Answer(false)
		return
	}
	req.Answer(isYes(line))
}

func isYes(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func (c *Console) println(s string) {
	c.printMu.Lock()
	defer c.printMu.Unlock()
	fmt.Fprintln(c.out, s)
}

func (c *Console) render(style lipgloss.Style, title, body string) {
	line := style.Render(title)
	if body != "" {
		line += "\n  " + styleBody.Render(strings.ReplaceAll(body, "\n", "\n  "))
	}
	c.println(line)
}

// ShowMessage prints a notification.
func (c *Console) ShowMessage(msg classify.ShowMessage) {
	style := styleInfo
	if msg.Severity == classify.SeverityWarning {
		style = styleWarning
	}
	c.render(style, msg.Title, msg.Body)
	c.log.Debug("message",
		zap.String("title", msg.Title),
		zap.String("repo_id", msg.RepoID),
		zap.String("commit_id", msg.CommitID))
}

// ShowWarningMessage prints a warning.
func (c *Console) ShowWarningMessage(title, body string) {
	c.render(styleError, title, body)
}

// SetTransferRate logs the transfer rates.
func (c *Console) SetTransferRate(sent, recv int64) {
	if sent == 0 && recv == 0 {
		return
	}
	c.log.Debug("transfer rate",
		zap.String("up", humanize.Bytes(uint64(max(sent, 0)))+"/s"),
		zap.String("down", humanize.Bytes(uint64(max(recv, 0)))+"/s"))
}

// Rotate prints when syncing starts or stops.
func (c *Console) Rotate(active bool) {
	c.mu.Lock()
	changed := c.syncing != active
	c.syncing = active
	c.mu.Unlock()

	if !changed {
		return
	}
	if active {
		c.println(styleBody.Render("syncing..."))
	} else {
		c.println(styleBody.Render("up to date"))
	}
}

// SetSyncErrors prints the error list when its size changes.
func (c *Console) SetSyncErrors(errs []message.SyncError) {
	c.mu.Lock()
	changed := c.errorCount != len(errs)
	c.errorCount = len(errs)
	c.mu.Unlock()

	if !changed {
		return
	}
	if len(errs) == 0 {
		c.println(styleBody.Render("sync errors cleared"))
		return
	}
	c.println(styleError.Render(fmt.Sprintf("%d sync errors:", len(errs))))
	for _, e := range errs {
		subject := e.RepoName
		if subject == "" {
			subject = e.Path
		}
		c.println(fmt.Sprintf("  %s: %s", subject, e.Message))
	}
}

// RequestConfirmation queues the question for Run. A full queue declines
// the request.
func (c *Console) RequestConfirmation(req *poller.ConfirmRequest) {
	select {
	case c.prompts <- req:
	default:
		c.log.Warn("too many pending confirmations, declining", zap.String("confirmation_id", req.ConfirmationID))
		go req.Answer(false)
	}
}

// SetDaemonAlive prints when the daemon starts or stops.
func (c *Console) SetDaemonAlive(alive bool) {
	if alive {
		c.println(styleInfo.Render("connected to SeaDrive daemon"))
	} else {
		c.println(styleWarning.Render("SeaDrive daemon stopped"))
	}
}
