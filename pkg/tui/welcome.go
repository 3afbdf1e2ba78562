package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const logo = `
   _____                          _____                 
  / ___/___  _______  __________ / ___/_________ _____  
  \__ \/ _ \/ ___/ / / / ___/ _ \\__ \/ ___/ __ ` + "`" + `/ __ \ 
 ___/ /  __/ /__/ /_/ / /  /  __/__/ / /__/ /_/ / / / / 
/____/\___/\___/\__,_/_/   \___/____/\___/\__,_/_/ /_/  
`

// Banner returns the styled logo and tagline
func Banner() string {
	// Gradient effect for logo (simulated with 2 colors)
	lines := strings.Split(logo, "\n")
	var out strings.Builder
	for i, line := range lines {
		if i%2 == 0 {
			out.WriteString(lipgloss.NewStyle().Foreground(ColorPrimary).Render(line))
		} else {
			out.WriteString(lipgloss.NewStyle().Foreground(ColorAccent).Render(line))
		}
		out.WriteString("\n")
	}

	out.WriteString(lipgloss.NewStyle().
		Foreground(ColorSubtle).
		Italic(true).
		Render("Multi-Engine Malware Scanner"))
	out.WriteString("\n")
	return out.String()
}

// Box renders a content box with title
func Box(title string, content string) string {
	return StyleBox.Render(StyleTitle.Render(title) + "\n" + content)
}
