package server

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/seadrive-io/seadrive-tray/internal/message"
)

// DemoStep pushes one scripted message into the queues.
type DemoStep struct {
	Name string
	Run  func(q *Queues) error
}

func notification(tag string, fields message.Payload) func(q *Queues) error {
	return func(q *Queues) error {
		p := message.Payload{"type": tag}
		for k, v := range fields {
			p[k] = v
		}
		return q.PushNotification(p)
	}
}

func fsEvent(tag, path string) func(q *Queues) error {
	return func(q *Queues) error {
		return q.PushEvent(message.Payload{"type": tag, "path": path})
	}
}

// DemoScript returns a script that exercises every message kind the client
// understands. domainID is used for the link actions.
func DemoScript(domainID string) []DemoStep {
	return []DemoStep{
		{Name: "fs loaded", Run: notification(message.TagFSLoaded, nil)},
		{Name: "syncing", Run: func(q *Queues) error {
			q.SetStatus(true, 512*1024, 3*1024*1024)
			return nil
		}},
		{Name: "download start", Run: fsEvent(message.TagDownloadStart, "/My Library/report.pdf")},
		{Name: "download done", Run: fsEvent(message.TagDownloadDone, "/My Library/report.pdf")},
		{Name: "sync done", Run: notification(message.TagSyncDone, message.Payload{
			"repo_id":          "9f1c2a7e",
			"repo_name":        "My Library",
			"commit_id":        "c0ffee01",
			"parent_commit_id": "c0ffee00",
			"commit_desc":      "Added \"report.pdf\"\nModified \"notes.md\"",
		})},
		{Name: "multipart upload", Run: notification(message.TagMultipartUpload, message.Payload{
			"repo_id":     "9f1c2a7e",
			"repo_name":   "My Library",
			"commit_desc": "Added \"video.mp4\"",
		})},
		{Name: "sync error", Run: notification(message.TagSyncError, message.Payload{
			"repo_id":   "9f1c2a7e",
			"repo_name": "My Library",
			"path":      "/My Library/locked.xlsx",
			"err_id":    message.SyncErrorIDFileLockedByApp,
		})},
		{Name: "sync error list", Run: func(q *Queues) error {
			return q.SetSyncErrors([]message.Payload{{
				"repo_id":   "9f1c2a7e",
				"repo_name": "My Library",
				"path":      "/My Library/locked.xlsx",
				"err_id":    message.SyncErrorIDFileLockedByApp,
				"timestamp": time.Now().Unix(),
			}})
		}},
		{Name: "root file rejected", Run: fsEvent(message.TagCreateRootFile, "/stray.txt")},
		{Name: "library delete rejected", Run: fsEvent(message.TagRemoveRepo, "/My Library")},
		{Name: "move start", Run: notification(message.TagCrossRepoMovePrefix+"start", message.Payload{
			"srcpath": "/My Library/a.txt",
			"dstpath": "/Shared/docs/a.txt",
		})},
		{Name: "move done", Run: notification(message.TagCrossRepoMovePrefix+"done", message.Payload{
			"srcpath": "/My Library/a.txt",
			"dstpath": "/Shared/docs/a.txt",
		})},
		{Name: "delete confirmation", Run: notification(message.TagDelConfirmation, message.Payload{
			"repo_name":       "My Library",
			"confirmation_id": uuid.NewString(),
			"delete_files":    `Deleted "old.txt" and 41 more files.`,
		})},
		{Name: "library delete confirmation", Run: notification(message.TagDelRepoConfirmation, message.Payload{
			"repo_name":       "Shared",
			"confirmation_id": uuid.NewString(),
		})},
		{Name: "share link", Run: notification(message.TagGetShareLink, message.Payload{
			"repo_id":   "9f1c2a7e",
			"repo_path": "/report.pdf",
			"domain_id": domainID,
		})},
		{Name: "idle", Run: func(q *Queues) error {
			q.SetStatus(false, 0, 0)
			return q.SetSyncErrors(nil)
		}},
	}
}

// RunDemo plays the script once, one step per interval, until ctx is done.
func RunDemo(ctx context.Context, q *Queues, steps []DemoStep, every time.Duration) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for _, step := range steps {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if err := step.Run(q); err != nil {
			return err
		}
	}
	return nil
}
