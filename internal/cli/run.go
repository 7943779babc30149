package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/seadrive-io/seadrive-tray/internal/app"
)

var (
	runForeground bool
	runInterval   time.Duration
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the tray and poll the daemon",
	Long: `Start polling the SeaDrive daemon.

By default notifications are shown through the system tray. With --foreground
they are printed to the terminal and deletion confirmations are asked on stdin.`,
	RunE: runRun,
}

func init() {
	addRunFlags(runCmd)
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&runForeground, "foreground", "f", false, "Print notifications to the terminal instead of the tray")
	cmd.Flags().DurationVar(&runInterval, "interval", 0, "Poll interval (overrides settings)")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return app.Run(ctx, app.Options{
		Foreground: runForeground,
		Interval:   runInterval,
	})
}
