// Package cli implements the seadrive-tray CLI commands.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/seadrive-io/seadrive-tray/internal/config"
	"github.com/seadrive-io/seadrive-tray/internal/logger"
)

var debugFlag bool

var rootCmd = &cobra.Command{
	Use:   "seadrive-tray",
	Short: "Desktop companion for the SeaDrive daemon",
	Long: `seadrive-tray polls the SeaDrive daemon for sync notifications and shows
them as desktop notifications and a system tray menu.

Run without a subcommand to start the tray.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogger()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
	RunE: runRun,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
	addRunFlags(rootCmd)

	// Add subcommands (alphabetical)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
}

func initLogger() error {
	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}
	file := settings.Log.File
	if file == "" {
		if file, err = config.DefaultLogFile(); err != nil {
			return err
		}
	}
	return logger.Init(debugFlag, settings.Log.Level, file)
}
