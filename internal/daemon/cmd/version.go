package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/seadrive-io/seadrive-tray/internal/buildinfo"
	"github.com/seadrive-io/seadrive-tray/internal/rpc"
)

var (
	styleName  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "166", Dark: "214"})
	styleLabel = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "244", Dark: "245"})
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s (%s)\n", styleName.Render("seadrive-devd"), buildinfo.Version, rpc.ServiceName)
		for _, f := range buildinfo.Details() {
			fmt.Fprintf(out, "  %s %s\n", styleLabel.Render(f.Label+":"), f.Value)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
