package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/securescan/securescan/pkg/scan"
)

// Color palette
var (
	ColorPrimary   = lipgloss.Color("#60A5FA") // Blue
	ColorAccent    = lipgloss.Color("#22D3EE") // Cyan
	ColorSecondary = lipgloss.Color("#4ADE80") // Green
	ColorError     = lipgloss.Color("#F87171") // Red
	ColorWarning   = lipgloss.Color("#FACC15") // Yellow
	ColorOrange    = lipgloss.Color("#FB923C")
	ColorSubtle    = lipgloss.Color("#94A3B8") // Gray
)

// Common styles
var (
	// Output styles
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleInfo    = lipgloss.NewStyle().Foreground(ColorPrimary)
	StyleSubtle  = lipgloss.NewStyle().Foreground(ColorSubtle)

	// Box styles
	StyleBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(1, 2)

	StyleDropZone = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ColorPrimary).
			Padding(1, 4).
			Align(lipgloss.Center)

	// Header styles
	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#1E3A8A")).
			Padding(0, 2)

	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			MarginBottom(1)
)

// Icons
const (
	IconShield = "🛡"
	IconClean  = "✅"
	IconThreat = "⚠️"
	IconFile   = "📄"
)

// threatColor picks the summary border color for a threat level
func threatColor(level string) lipgloss.Color {
	switch level {
	case scan.ThreatClean:
		return ColorSecondary
	case scan.ThreatLow:
		return ColorWarning
	case scan.ThreatMedium:
		return ColorOrange
	default:
		return ColorError
	}
}
