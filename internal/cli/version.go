package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/seadrive-io/seadrive-tray/internal/buildinfo"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		printVersion(cmd.OutOrStdout(), "seadrive-tray")
	},
}

func printVersion(out io.Writer, name string) {
	fmt.Fprintf(out, "  %s %s\n", styleBrand.Render(name), styleVersion.Render(buildinfo.Version))
	width := 0
	for _, f := range buildinfo.Details() {
		width = max(width, len(f.Label))
	}
	for _, f := range buildinfo.Details() {
		fmt.Fprintf(out, "    %s %s\n", styleLabel.Render(fmt.Sprintf("%-*s", width, f.Label)), styleValue.Render(f.Value))
	}
}
