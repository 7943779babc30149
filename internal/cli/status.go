package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/seadrive-io/seadrive-tray/internal/config"
	"github.com/seadrive-io/seadrive-tray/internal/logger"
	"github.com/seadrive-io/seadrive-tray/internal/message"
	"github.com/seadrive-io/seadrive-tray/internal/models"
	"github.com/seadrive-io/seadrive-tray/internal/rpc"
)

const statusTimeout = 5 * time.Second

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon sync status",
	Long:  `Query the SeaDrive daemon once and print its transfer state and sync errors.`,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	running, info, err := config.ProbeDaemon()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}
	if !running || info == nil {
		fmt.Fprintln(out, styleWarning.Render("SeaDrive daemon is not running."))
		return nil
	}

	client, err := rpc.DialDaemon(info, rpc.Options{Logger: logger.Log})
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), statusTimeout)
	defer cancel()
	if err := client.WaitForReady(ctx); err != nil {
		return fmt.Errorf("failed to reach daemon at %s: %w", rpc.Target(info), err)
	}

	payload, err := client.GetGlobalSyncStatus(ctx)
	if err != nil {
		return err
	}
	items, err := client.GetSyncErrors(ctx)
	if err != nil {
		return err
	}

	printStatus(out, info, message.DecodeGlobalSyncStatus(payload), message.DecodeSyncErrors(items, nil), time.Now())
	return nil
}

func printStatus(out io.Writer, info *models.DaemonInfo, status message.GlobalSyncStatus, errs []message.SyncError, now time.Time) {
	fmt.Fprintln(out, styleSuccess.Render("SeaDrive daemon is running."))
	fmt.Fprintf(out, "  %s  %s\n", styleLabel.Render("Address"), styleValue.Render(rpc.Target(info)))
	fmt.Fprintf(out, "  %s      %s\n", styleLabel.Render("PID"), styleValue.Render(fmt.Sprint(info.PID)))
	if info.Build != "" {
		fmt.Fprintf(out, "  %s    %s\n", styleLabel.Render("Build"), styleValue.Render(info.Build))
	}
	if !info.StartedAt.IsZero() {
		fmt.Fprintf(out, "  %s  %s\n", styleLabel.Render("Started"),
			styleValue.Render(humanize.RelTime(info.StartedAt, now, "ago", "from now")))
	}

	if status.IsSyncing {
		fmt.Fprintf(out, "  %s   %s\n", styleLabel.Render("Status"), styleValue.Render(fmt.Sprintf("syncing, up %s/s, down %s/s",
			humanize.Bytes(uint64(max(status.SentBytes, 0))),
			humanize.Bytes(uint64(max(status.RecvBytes, 0))))))
	} else {
		fmt.Fprintf(out, "  %s   %s\n", styleLabel.Render("Status"), styleValue.Render("up to date"))
	}

	if len(errs) == 0 {
		fmt.Fprintln(out, "\n"+styleHint.Render("No sync errors."))
		return
	}
	fmt.Fprintf(out, "\n%s\n", styleError.Render(fmt.Sprintf("Sync errors (%d):", len(errs))))
	for _, e := range errs {
		subject := e.RepoName
		if subject == "" {
			subject = e.Path
		}
		line := fmt.Sprintf("  %s: %s", subject, e.Message)
		if e.Timestamp > 0 {
			line += styleHint.Render(" (" + humanize.RelTime(time.Unix(e.Timestamp, 0), now, "ago", "from now") + ")")
		}
		fmt.Fprintln(out, line)
		if e.Path != "" && e.RepoName != "" {
			fmt.Fprintf(out, "    %s\n", styleHint.Render(e.Path))
		}
	}
}
