package cli

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Narration marks colour with short tags: "[r]You have died.[/]".
var tagPattern = regexp.MustCompile(`\[([roygbmkw])\](.*?)\[/\]`)

// Standard ANSI foregrounds, except orange and yellow from the 256-colour
// table.
var palette = map[string]lipgloss.Style{
	"r": lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	"o": lipgloss.NewStyle().Foreground(lipgloss.Color("215")),
	"y": lipgloss.NewStyle().Foreground(lipgloss.Color("227")),
	"g": lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	"b": lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	"m": lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	"k": lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	"w": lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
}

// Colorize renders colour tags. With color off the tags are stripped.
func Colorize(text string, color bool) string {
	if !strings.Contains(text, "[/]") {
		return text
	}
	return tagPattern.ReplaceAllStringFunc(text, func(m string) string {
		sub := tagPattern.FindStringSubmatch(m)
		if !color {
			return sub[2]
		}
		return palette[sub[1]].Render(sub[2])
	})
}
