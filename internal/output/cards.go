package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/blackwell-systems/teamlens/internal/insight"
)

// cardColor picks the accent color for an insight card type.
func cardColor(t insight.CardType) lipgloss.Color {
	switch t {
	case insight.TrendUp:
		return ColorSuccess
	case insight.TrendDown:
		return ColorError
	case insight.PowerUser:
		return ColorAccent
	default:
		return ColorPrimary
	}
}

// RenderCard renders one insight card with a type-colored left border.
func RenderCard(c insight.Card, width int) string {
	if width <= 0 {
		width = 72
	}

	color := cardColor(c.Type)
	border := lipgloss.NewStyle().Foreground(color)
	title := lipgloss.NewStyle().Foreground(color).Bold(true)
	if noColor {
		border = lipgloss.NewStyle()
		title = lipgloss.NewStyle().Bold(true)
	}

	var sb strings.Builder
	sb.WriteString(border.Render("┃ "))
	sb.WriteString(title.Render(string(c.Type)))
	sb.WriteString("  ")
	sb.WriteString(StyleBold.Render(c.Title))
	sb.WriteString("\n")

	for _, line := range wrap(c.Description, width-2) {
		sb.WriteString(border.Render("┃ "))
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

// wrap breaks text into lines no longer than width, on word boundaries.
func wrap(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	var lines []string
	var line string
	for _, word := range strings.Fields(text) {
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}
