// Package cli is the plain terminal front end: a line-oriented Console
// over any reader and writer, and the main menu.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nathoo/serpens/types"
)

// RealClock sleeps for real.
type RealClock struct{}

func (RealClock) Sleep(d time.Duration) { time.Sleep(d) }

// Console reads commands line by line and prints narration, one line at a
// time with an optional typewriter pause.
type Console struct {
	In    *bufio.Reader
	Out   io.Writer
	Clock types.Clock
	Delay time.Duration
	Color bool
	// Echo repeats each line read after its prompt, for script playback.
	Echo bool
}

var _ types.Console = (*Console)(nil)

// NewConsole creates a console over in and out.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{In: bufio.NewReader(in), Out: out, Clock: RealClock{}}
}

// ReadLine prints prompt and returns the next line. Lines starting with
// "#" are comments and skipped, so scripts can be annotated.
func (c *Console) ReadLine(prompt string) (string, error) {
	for {
		fmt.Fprint(c.Out, prompt)
		line, err := c.In.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF {
				fmt.Fprintln(c.Out)
			}
			return "", err
		}
		line = strings.TrimRight(line, "\r\n")
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			if c.Echo {
				fmt.Fprintln(c.Out)
			}
			continue
		}
		if c.Echo {
			fmt.Fprintln(c.Out, line)
		}
		return line, nil
	}
}

func (c *Console) Print(text string) {
	for _, line := range strings.Split(text, "\n") {
		if c.Delay > 0 && c.Clock != nil {
			c.Clock.Sleep(c.Delay)
		}
		fmt.Fprintln(c.Out, Colorize(line, c.Color))
	}
}

// WaitKey waits for Enter.
func (c *Console) WaitKey() error {
	_, err := c.ReadLine("(press Enter) ")
	return err
}

func (c *Console) Clear() {
	if c.Color {
		fmt.Fprint(c.Out, "\033[H\033[2J")
		return
	}
	fmt.Fprintln(c.Out)
}
