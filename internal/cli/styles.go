package cli

import "github.com/charmbracelet/lipgloss"

// SeaDrive palette; each entry pairs a light-background and a dark-background ANSI code.
var (
	seaBlue   = lipgloss.AdaptiveColor{Light: "25", Dark: "39"}
	seaOrange = lipgloss.AdaptiveColor{Light: "166", Dark: "214"}
	seaGrey   = lipgloss.AdaptiveColor{Light: "244", Dark: "245"}
	seaText   = lipgloss.AdaptiveColor{Light: "235", Dark: "252"}
	seaOK     = lipgloss.AdaptiveColor{Light: "29", Dark: "42"}
	seaFault  = lipgloss.AdaptiveColor{Light: "124", Dark: "203"}
)

var (
	styleBrand   = lipgloss.NewStyle().Bold(true).Foreground(seaOrange)
	styleVersion = lipgloss.NewStyle().Foreground(seaBlue)
	styleLabel   = lipgloss.NewStyle().Foreground(seaGrey)
	styleValue   = lipgloss.NewStyle().Foreground(seaText)
	styleSuccess = lipgloss.NewStyle().Foreground(seaOK)
	styleWarning = lipgloss.NewStyle().Bold(true).Foreground(seaOrange)
	styleError   = lipgloss.NewStyle().Bold(true).Foreground(seaFault)
	styleHint    = styleLabel.Italic(true)
)
