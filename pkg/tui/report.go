package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/securescan/securescan/pkg/scan"
	"github.com/securescan/securescan/pkg/screen"
)

// RenderFileInfo renders the selected file's name, size and type
func RenderFileInfo(v screen.View) string {
	if v.File == nil {
		return ""
	}
	var s strings.Builder
	s.WriteString(lipgloss.NewStyle().Bold(true).Render(IconFile + " " + v.File.Name))
	s.WriteString("\n")
	s.WriteString(StyleSubtle.Render("Size: ") + v.File.SizeText)
	s.WriteString("    ")
	s.WriteString(StyleSubtle.Render("Type: ") + v.File.Type)
	return s.String()
}

// RenderSummary renders the threat summary box of a completed view
func RenderSummary(v screen.View, width int) string {
	if v.Summary == nil || v.File == nil {
		return ""
	}
	color := threatColor(v.Summary.ThreatLevel)

	icon := IconThreat
	if v.Summary.ThreatLevel == scan.ThreatClean {
		icon = IconClean
	}

	var s strings.Builder
	s.WriteString(lipgloss.NewStyle().Bold(true).Foreground(color).Render(icon + " " + v.Summary.Headline))
	s.WriteString("\n")
	s.WriteString(v.Summary.Detail)
	s.WriteString("\n\n")
	s.WriteString(StyleSubtle.Render("File Name: ") + v.File.Name)
	s.WriteString("\n")
	s.WriteString(StyleSubtle.Render("File Size: ") + v.File.SizeText)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(1, 2)
	if width > 4 {
		box = box.Width(width - 4)
	}
	return box.Render(s.String())
}

// RenderRows renders the per-engine table
func RenderRows(v screen.View) string {
	if len(v.Rows) == 0 {
		return ""
	}
	engineWidth := 0
	for _, r := range v.Rows {
		if len(r.Engine) > engineWidth {
			engineWidth = len(r.Engine)
		}
	}

	var s strings.Builder
	s.WriteString(StyleTitle.Render("Detection Results"))
	s.WriteString("\n")
	for _, r := range v.Rows {
		mark := StyleSuccess.Render("✓")
		verdict := StyleSuccess.Render(r.Verdict)
		if r.Detected {
			mark = StyleError.Render("✗")
			verdict = StyleError.Render(r.Verdict)
		}
		s.WriteString(fmt.Sprintf("  %s %-*s  %s\n", mark, engineWidth, r.Engine, verdict))
	}
	return s.String()
}

// RenderReport renders a completed view for non-interactive output
func RenderReport(v screen.View, width int) string {
	var s strings.Builder
	s.WriteString(RenderSummary(v, width))
	s.WriteString("\n\n")
	s.WriteString(RenderRows(v))
	s.WriteString("\n")
	s.WriteString(StyleWarning.Render(v.Notice))
	s.WriteString("\n")
	return s.String()
}
