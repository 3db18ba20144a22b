package engine

import (
	"io"
	"strings"

	"github.com/nathoo/serpens/types"
)

// ScriptConsole feeds the engine a fixed list of lines and keeps what it
// prints. It reports io.EOF once the lines run out.
type ScriptConsole struct {
	Lines  []string
	Output []string
	Echo   bool // record each line read as "> line"
}

var _ types.Console = (*ScriptConsole)(nil)

// NewScriptConsole returns a console that will read lines in order.
func NewScriptConsole(lines ...string) *ScriptConsole {
	return &ScriptConsole{Lines: lines}
}

func (s *ScriptConsole) ReadLine(prompt string) (string, error) {
	if len(s.Lines) == 0 {
		return "", io.EOF
	}
	line := s.Lines[0]
	s.Lines = s.Lines[1:]
	if s.Echo {
		s.Output = append(s.Output, prompt+line)
	}
	return line, nil
}

func (s *ScriptConsole) Print(text string) { s.Output = append(s.Output, text) }

func (s *ScriptConsole) WaitKey() error { return nil }

func (s *ScriptConsole) Clear() {}

// Feed queues more input.
func (s *ScriptConsole) Feed(lines ...string) { s.Lines = append(s.Lines, lines...) }

// Text returns everything printed so far.
func (s *ScriptConsole) Text() string { return strings.Join(s.Output, "\n") }

// Reset forgets the output.
func (s *ScriptConsole) Reset() { s.Output = nil }
