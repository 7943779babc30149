// Package platform performs link and history actions requested by the daemon.
//
// Only some desktop platforms support these actions. The strategy is chosen
// from settings at startup; the default on unsupported platforms is Noop.
package platform

import (
	"context"
	"fmt"
	"runtime"

	"github.com/seadrive-io/seadrive-tray/internal/classify"
	"github.com/seadrive-io/seadrive-tray/internal/models"
)

// Actions is the platform action strategy.
type Actions interface {
	ShareLink(ctx context.Context, account models.Account, repoID, path string) error
	InternalLink(ctx context.Context, account models.Account, repoID, path string, isDir bool) error
	UploadLink(ctx context.Context, account models.Account, repoID, path string) error
	FileHistory(ctx context.Context, account models.Account, repoID, path string) error
}

// Noop ignores every action.
type Noop struct{}

func (Noop) ShareLink(context.Context, models.Account, string, string) error          { return nil }
func (Noop) InternalLink(context.Context, models.Account, string, string, bool) error { return nil }
func (Noop) UploadLink(context.Context, models.Account, string, string) error         { return nil }
func (Noop) FileHistory(context.Context, models.Account, string, string) error        { return nil }

// Dispatch routes a classified platform action to the strategy.
func Dispatch(ctx context.Context, a Actions, act classify.PlatformAction) error {
	switch act.Op {
	case classify.OpShareLink:
		return a.ShareLink(ctx, act.Account, act.RepoID, act.RepoPath)
	case classify.OpInternalLink:
		return a.InternalLink(ctx, act.Account, act.RepoID, act.RepoPath, act.IsDir)
	case classify.OpUploadLink:
		return a.UploadLink(ctx, act.Account, act.RepoID, act.RepoPath)
	case classify.OpFileHistory:
		return a.FileHistory(ctx, act.Account, act.RepoID, act.RepoPath)
	default:
		return fmt.Errorf("unknown platform action %v", act.Op)
	}
}

// Supported reports whether the current OS has the link and history actions.
func Supported() bool {
	return runtime.GOOS == "darwin"
}

// Select returns the strategy named by the settings value: "none" disables
// actions, "browser" forces the browser strategy and "auto" picks the browser
// strategy only where the platform supports it.
func Select(mode string) Actions {
	switch mode {
	case "browser":
		return NewBrowser(nil)
	case "none":
		return Noop{}
	default:
		if Supported() {
			return NewBrowser(nil)
		}
		return Noop{}
	}
}
