package tui

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarration = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleYouSee = lipgloss.NewStyle().
			Bold(true)

	styleExits = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleDialogue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleOption = lipgloss.NewStyle().
			Foreground(lipgloss.Color("117"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarration lineKind = iota
	kindYouSee
	kindExits
	kindDialogue
	kindOption
	kindError
	kindTagged
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case tagged(line):
		return kindTagged
	case strings.HasPrefix(line, "You see "):
		return kindYouSee
	case strings.HasPrefix(line, "Exits:"),
		strings.HasPrefix(line, "There is no obvious way out"):
		return kindExits
	case strings.HasPrefix(line, "You don't see"),
		strings.HasPrefix(line, "You can't"),
		strings.HasPrefix(line, "You don't have"),
		strings.HasPrefix(line, "Command not understood"),
		strings.HasSuffix(line, "is not a valid verb"):
		return kindError
	case isOption(line):
		return kindOption
	case isSpeech(line):
		return kindDialogue
	default:
		return kindNarration
	}
}

// tagged reports whether the line carries colour markup.
func tagged(line string) bool {
	return strings.Contains(line, "[/]")
}

// isOption matches a numbered reply like "2. Tell me about the road."
func isOption(line string) bool {
	num, rest, ok := strings.Cut(line, ". ")
	if !ok || num == "" || rest == "" {
		return false
	}
	for _, r := range num {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// isSpeech matches "Speaker: words", where the speaker is a short
// capitalized name.
func isSpeech(line string) bool {
	name, words, ok := strings.Cut(line, ": ")
	if !ok || words == "" || name == "" || len(name) > 24 {
		return false
	}
	if !unicode.IsUpper([]rune(name)[0]) {
		return false
	}
	return !strings.HasPrefix(name, "You ") || strings.Contains(words, "\"")
}

// styledYouSee renders "You see a, b and c." with the list bold.
func styledYouSee(line string) string {
	const prefix = "You see "
	if !strings.HasPrefix(line, prefix) {
		return styleNarration.Render(line)
	}
	return styleNarration.Render(prefix) + styleYouSee.Render(line[len(prefix):])
}
