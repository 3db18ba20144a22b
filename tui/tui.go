package tui

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/nathoo/serpens/cli"
	"github.com/nathoo/serpens/types"
)

// outputMsg carries narration into the Update loop.
type outputMsg struct{ lines []string }

// promptMsg asks the model for a line of input.
type promptMsg struct{ prompt string }

type clearMsg struct{}

type statusMsg string

// Console is a types.Console drawn by a Bubble Tea program. The game runs
// on its own goroutine and blocks in ReadLine until the player presses
// Enter.
type Console struct {
	send   func(tea.Msg)
	lines  chan string
	done   chan struct{}
	status func() string
}

func newConsole() *Console {
	return &Console{
		lines: make(chan string, 1),
		done:  make(chan struct{}),
	}
}

// SetStatus sets the function that fills the status bar before each
// prompt.
func (c *Console) SetStatus(status func() string) { c.status = status }

// ReadLine shows the prompt and waits for the player. It returns io.EOF
// once the window has closed.
func (c *Console) ReadLine(prompt string) (string, error) {
	select {
	case <-c.done:
		return "", io.EOF
	default:
	}
	if c.status != nil {
		c.send(statusMsg(c.status()))
	}
	c.send(promptMsg{prompt: prompt})
	select {
	case line := <-c.lines:
		return line, nil
	case <-c.done:
		return "", io.EOF
	}
}

func (c *Console) Print(text string) {
	c.send(outputMsg{lines: strings.Split(text, "\n")})
}

func (c *Console) WaitKey() error {
	_, err := c.ReadLine("(press Enter) ")
	return err
}

func (c *Console) Clear() { c.send(clearMsg{}) }

// Run opens the terminal UI and hands play a console drawn inside it.
// It returns when play returns or the player closes the window.
func Run(ctx context.Context, play func(context.Context, types.Console) error) error {
	c := newConsole()
	p := tea.NewProgram(New(c.lines), tea.WithAltScreen(), tea.WithContext(ctx))
	c.send = p.Send

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(c.done)
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		defer p.Quit()
		return play(gctx, c)
	})
	return g.Wait()
}

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text    string
	kind    lineKind
	isInput bool
}

// Model is the Bubble Tea model behind Console.
type Model struct {
	submit chan<- string

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine
	status   string
	prompt   string
	waiting  bool

	width    int
	height   int
	ready    bool
	quitting bool
}

// New creates a model that delivers submitted lines to submit.
func New(submit chan<- string) Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	return Model{
		submit:  submit,
		input:   ti,
		history: NewHistory(100),
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key presses, window resizes and console traffic.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 2 // 1 status bar + 1 input line
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.refreshViewport()
		return m, nil

	case outputMsg:
		for _, line := range msg.lines {
			m.rawLines = append(m.rawLines, rawLine{text: line, kind: classifyLine(line)})
		}
		m.refreshViewport()
		return m, nil

	case promptMsg:
		m.prompt = msg.prompt
		m.input.Prompt = msg.prompt
		m.waiting = true
		return m, nil

	case statusMsg:
		m.status = string(msg)
		return m, nil

	case clearMsg:
		m.rawLines = nil
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter(), nil

		case "up":
			if prev, ok := m.history.Prev(m.input.Value()); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			next, _ := m.history.Next()
			m.input.SetValue(next)
			m.input.CursorEnd()
			return m, nil

		case "pgup", "pgdown", "ctrl+u", "ctrl+d":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	return m, inputCmd
}

// handleEnter passes the typed line to the waiting ReadLine. Enter with no
// prompt showing is ignored.
func (m Model) handleEnter() Model {
	if !m.waiting {
		return m
	}
	line := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	m.history.Push(line)

	m.rawLines = append(m.rawLines, rawLine{text: m.prompt + line, isInput: true})
	m.refreshViewport()

	m.waiting = false
	m.input.Prompt = ""
	select {
	case m.submit <- line:
	default:
	}
	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	styled := make([]string, 0, len(m.rawLines))
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}
		wrapped := wordWrap(rl.text, width)
		if rl.isInput {
			styled = append(styled, stylePlayerInput.Render(wrapped))
			continue
		}
		styled = append(styled, renderLineKind(wrapped, rl.kind))
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindTagged:
		return cli.Colorize(line, true)
	case kindYouSee:
		return styledYouSee(line)
	case kindExits:
		return styleExits.Render(line)
	case kindDialogue:
		return styleDialogue.Render(line)
	case kindOption:
		return styleOption.Render(line)
	case kindError:
		return styleError.Render(line)
	default:
		return styleNarration.Render(line)
	}
}

// wordWrap wraps text to fit within the given width, breaking at word
// boundaries.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var result strings.Builder
	lineLen := 0
	for i, word := range strings.Fields(text) {
		wLen := len(word)
		switch {
		case i == 0:
			lineLen = wLen
		case lineLen+1+wLen > width:
			result.WriteString("\n")
			lineLen = wLen
		default:
			result.WriteString(" ")
			lineLen += 1 + wLen
		}
		result.WriteString(word)
	}
	return result.String()
}

// View renders the full TUI layout: viewport + status bar + input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}
	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
