package poller

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/seadrive-io/seadrive-tray/internal/classify"
	"github.com/seadrive-io/seadrive-tray/internal/message"
	"github.com/seadrive-io/seadrive-tray/internal/platform"
)

func (p *Poller) dispatch(ctx context.Context, act classify.Action) {
	switch a := act.(type) {
	case nil:
		return
	case classify.ShowMessage:
		p.sink.ShowMessage(a)
	case classify.ShowWarning:
		p.sink.ShowWarningMessage(a.Title, a.Body)
	case classify.FSLoaded:
		p.sink.ShowMessage(classify.ShowMessage{Title: a.Title, Body: a.Body, Severity: classify.SeverityInfo})
		p.emitFSLoaded()
	case classify.PlatformAction:
		p.runPlatformAction(a)
	case classify.Confirm:
		p.beginConfirmation(a)
	default:
		p.log.Warn("unhandled action", zap.Any("action", act))
	}
}

// runPlatformAction performs a link/history action off the tick goroutine.
// These actions may call the server API.
func (p *Poller) runPlatformAction(a classify.PlatformAction) {
	go func() {
		ctx, cancel := context.WithTimeout(p.baseCtx, 30*time.Second)
		defer cancel()
		if err := platform.Dispatch(ctx, p.platform, a); err != nil {
			p.log.Warn("platform action failed",
				zap.Stringer("op", a.Op),
				zap.String("repo_id", a.RepoID),
				zap.String("path", a.RepoPath),
				zap.Error(err))
		}
	}()
}

// ConfirmRequest is a pending yes/no question from the daemon. Exactly one
// answer reaches the daemon no matter how many times Answer is called.
type ConfirmRequest struct {
	ConfirmationID string
	Kind           message.Kind
	Text           string
	Info           string
	CreatedAt      time.Time

	once   sync.Once
	answer func(accepted bool)
	done   chan struct{}
}

// Answer replies to the daemon. accepted=true lets the deletion proceed.
func (r *ConfirmRequest) Answer(accepted bool) {
	r.once.Do(func() {
		r.answer(accepted)
		close(r.done)
	})
}

// Done is closed once the request has been answered.
func (r *ConfirmRequest) Done() <-chan struct{} {
	return r.done
}

// NewConfirmRequest creates a request whose first answer is passed to reply.
func NewConfirmRequest(c classify.Confirm, reply func(accepted bool)) *ConfirmRequest {
	return &ConfirmRequest{
		ConfirmationID: c.ConfirmationID,
		Kind:           c.Kind,
		Text:           c.Text,
		Info:           c.Info,
		CreatedAt:      time.Now(),
		answer:         reply,
		done:           make(chan struct{}),
	}
}

func (p *Poller) beginConfirmation(c classify.Confirm) {
	p.confirmMu.Lock()
	p.nextID++
	key := p.nextID
	p.confirmMu.Unlock()

	req := NewConfirmRequest(c, func(accepted bool) {
		p.confirmMu.Lock()
		delete(p.pending, key)
		p.confirmMu.Unlock()
		p.sendConfirmation(c.ConfirmationID, accepted)
	})

	p.confirmMu.Lock()
	p.pending[key] = req
	p.confirmMu.Unlock()

	if p.confirmTimeout > 0 {
		timer := time.AfterFunc(p.confirmTimeout, func() {
			p.log.Info("confirmation timed out, declining", zap.String("confirmation_id", req.ConfirmationID))
			req.Answer(false)
		})
		go func() {
			<-req.done
			timer.Stop()
		}()
	}

	p.sink.RequestConfirmation(req)
}

// sendConfirmation answers the daemon. The daemon's flag means "declined":
// false lets the deletion proceed, true cancels it.
func (p *Poller) sendConfirmation(confirmationID string, accepted bool) {
	ctx, cancel := context.WithTimeout(p.baseCtx, p.requestTimeout)
	defer cancel()

	declined := !accepted
	if err := p.client.AddDelConfirmation(ctx, confirmationID, declined); err != nil {
		p.log.Warn("failed to answer delete confirmation",
			zap.String("confirmation_id", confirmationID),
			zap.Bool("declined", declined),
			zap.Error(err))
		return
	}
	p.log.Info("answered delete confirmation",
		zap.String("confirmation_id", confirmationID),
		zap.Bool("declined", declined))
}

// PendingConfirmations returns the number of unanswered confirmations.
func (p *Poller) PendingConfirmations() int {
	p.confirmMu.Lock()
	defer p.confirmMu.Unlock()
	return len(p.pending)
}

func (p *Poller) declinePending() {
	p.confirmMu.Lock()
	reqs := make([]*ConfirmRequest, 0, len(p.pending))
	for _, r := range p.pending {
		reqs = append(reqs, r)
	}
	p.confirmMu.Unlock()

	for _, r := range reqs {
		r.Answer(false)
	}
}

// SubscribeFSLoaded returns a channel that receives a value every time the
// daemon reports that the filesystem is loaded. Slow receivers miss
// signals rather than stall the poller.
func (p *Poller) SubscribeFSLoaded() <-chan struct{} {
	ch := make(chan struct{}, 1)
	p.subMu.Lock()
	p.fsLoadedSub = append(p.fsLoadedSub, ch)
	p.subMu.Unlock()
	return ch
}

func (p *Poller) emitFSLoaded() {
	p.subMu.Lock()
	defer p.subMu.Unlock()
	for _, ch := range p.fsLoadedSub {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
