// Package cmd implements the seadrive-devd commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/seadrive-io/seadrive-tray/internal/buildinfo"
	"github.com/seadrive-io/seadrive-tray/internal/config"
	"github.com/seadrive-io/seadrive-tray/internal/daemon/server"
	"github.com/seadrive-io/seadrive-tray/internal/logger"
	"github.com/seadrive-io/seadrive-tray/internal/models"
)

var (
	port         int
	debug        bool
	demo         bool
	demoInterval time.Duration
	domainID     string
)

var rootCmd = &cobra.Command{
	Use:   "seadrive-devd",
	Short: "Development daemon for seadrive-tray",
	Long: `seadrive-devd serves the daemon RPC service from in-memory queues and
registers itself in ~/.seadrive-tray/daemon.yaml so a running tray connects
to it. With --demo it plays a script covering every notification type.`,
	SilenceUsage: true,
	RunE:         run,
}

// Execute runs the daemon CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().IntVar(&port, "port", 0, "Port to listen on (0 for dynamic allocation)")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.Flags().BoolVar(&demo, "demo", false, "Play the demo notification script")
	rootCmd.Flags().DurationVar(&demoInterval, "demo-interval", 3*time.Second, "Delay between demo steps")
	rootCmd.Flags().StringVar(&domainID, "domain-id", "", "Account domain id used by demo link actions")
}

func run(cmd *cobra.Command, args []string) error {
	if err := logger.Init(debug, "info", ""); err != nil {
		return err
	}
	defer logger.Sync()
	log := logger.Named("devd")

	if err := config.EnsureGlobalDir(); err != nil {
		return fmt.Errorf("failed to create global directory: %w", err)
	}

	running, info, err := config.ProbeDaemon()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}
	if running {
		return fmt.Errorf("daemon already running on port %d (PID %d)", info.Port, info.PID)
	}

	srv, err := server.New(port, logger.Log)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	daemonInfo := models.NewDaemonInfo("127.0.0.1", srv.Port(), os.Getpid())
	daemonInfo.Build = buildinfo.Version
	if err := config.PublishDaemonInfo(daemonInfo); err != nil {
		return fmt.Errorf("failed to write daemon info: %w", err)
	}
	defer func() {
		if err := config.WithdrawDaemonInfo(); err != nil {
			log.Warn("failed to remove daemon info", zap.Error(err))
		}
	}()

	log.Info("daemon started", zap.Int("port", srv.Port()), zap.Int("pid", os.Getpid()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Serve)
	g.Go(func() error {
		<-gctx.Done()
		srv.Stop()
		return nil
	})
	if demo {
		g.Go(func() error {
			err := server.RunDemo(gctx, srv.Queues(), server.DemoScript(domainID), demoInterval)
			if err != nil && gctx.Err() == nil {
				return err
			}
			log.Info("demo script finished")
			return nil
		})
	}

	err = g.Wait()
	log.Info("daemon stopped")
	return err
}
