package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/seadrive-io/seadrive-tray/internal/config"
	"github.com/seadrive-io/seadrive-tray/internal/models"
)

var settingsCmd = &cobra.Command{
	Use:   "settings [key [value]]",
	Short: "Show or change settings",
	Long: `Show or change ~/.seadrive-tray/settings.yaml.

With no arguments every setting is listed. With a key, its value is printed.
With a key and a value, the setting is changed. A running tray picks up the
change automatically.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runSettings,
}

func runSettings(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	switch len(args) {
	case 0:
		return printSettings(out, settings)
	case 1:
		v, err := config.GetSetting(settings, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(out, v)
		return nil
	}

	if err := config.SetSetting(settings, args[0], args[1]); err != nil {
		return err
	}
	if err := config.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	fmt.Fprintf(out, "%s %s = %s\n", styleSuccess.Render("✓"), args[0], styleValue.Render(args[1]))
	return nil
}

func printSettings(out io.Writer, settings *models.Settings) error {
	keys := config.SettingKeys()
	width := 0
	for _, k := range keys {
		width = max(width, len(k))
	}
	for _, k := range keys {
		v, err := config.GetSetting(settings, k)
		if err != nil {
			return err
		}
		if v == "" {
			v = styleHint.Render("(unset)")
		} else {
			v = styleValue.Render(v)
		}
		fmt.Fprintf(out, "  %s  %s\n", styleLabel.Render(fmt.Sprintf("%-*s", width, k)), v)
	}
	return nil
}
