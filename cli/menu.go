package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nathoo/serpens/content"
	"github.com/nathoo/serpens/engine"
	"github.com/nathoo/serpens/engine/dice"
	"github.com/nathoo/serpens/engine/save"
	"github.com/nathoo/serpens/engine/tick"
	"github.com/nathoo/serpens/engine/world"
	"github.com/nathoo/serpens/loader"
	"github.com/nathoo/serpens/observability"
	"github.com/nathoo/serpens/types"
)

// MenuPrompt is shown while the main menu waits for a choice.
const MenuPrompt = "menu> "

// StatusLine is implemented by consoles that keep a status bar.
type StatusLine interface {
	SetStatus(func() string)
}

// Menu is the main menu. It starts, loads and deletes games and hands
// each game to an engine.
type Menu struct {
	Game   *loader.Game
	Dict   *content.Dict
	Slots  save.Slots
	Logger *zap.Logger
	Clock  types.Clock
	Cheats bool
	Silent bool
	// Seed fixes the dice of new games. Zero seeds from the clock.
	Seed int64

	console types.Console
}

var titler = cases.Title(language.English)

// Run shows the menu on console until the player quits or input ends.
func (m *Menu) Run(ctx context.Context, console types.Console) error {
	m.console = console
	if m.Logger == nil {
		m.Logger = zap.NewNop()
	}
	m.banner()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := console.ReadLine(MenuPrompt)
		if err != nil {
			return nil
		}
		cmd, arg, _ := strings.Cut(strings.TrimSpace(strings.ToLower(line)), " ")
		arg = strings.TrimSpace(arg)
		switch cmd {
		case "":
		case "info":
			m.info()
		case "new", "n":
			err = m.newGame(ctx)
		case "load", "l":
			err = m.load(ctx, arg)
		case "delete", "del":
			m.delete(arg)
		case "test":
			m.test()
		case "help", "?", "menu":
			m.options()
		case "quit", "q", "exit":
			m.say("Farewell.")
			return nil
		default:
			m.say("Unknown option %q.", cmd)
			m.options()
		}
		if err != nil {
			return err
		}
	}
}

func (m *Menu) say(format string, args ...any) {
	m.console.Print(fmt.Sprintf(format, args...))
}

func (m *Menu) banner() {
	m.console.Clear()
	m.say("[g]%s[/]", strings.ToUpper(m.Game.Title))
	if m.Game.Author != "" {
		m.say("by %s", m.Game.Author)
	}
	m.options()
}

func (m *Menu) options() {
	m.say("info | new | load [name] | delete [name | all] | test | quit")
}

func (m *Menu) info() {
	m.say("%s %s", m.Game.Title, m.Game.Version)
	if m.Game.Author != "" {
		m.say("Written by %s.", m.Game.Author)
	}
	if m.Game.Intro != "" {
		m.console.Print(m.Game.Intro)
	}
	saves, err := m.Slots.List()
	switch {
	case err != nil:
		m.say("Saves are unreadable: %v", err)
	case len(saves) == 0:
		m.say("There are no saved games.")
	default:
		m.say("Saved games: %s", strings.Join(saves, ", "))
	}
}

func (m *Menu) ask(prompt string) (string, error) {
	line, err := m.console.ReadLine(prompt)
	return strings.TrimSpace(line), err
}

func (m *Menu) confirm(prompt string) bool {
	ans, err := m.ask(prompt + " (y/n) ")
	return err == nil && strings.HasPrefix(strings.ToLower(ans), "y")
}

func (m *Menu) rng() *dice.RNG {
	if m.Seed != 0 {
		return dice.NewRNG(m.Seed)
	}
	return dice.NewRNG(time.Now().UnixNano())
}

func (m *Menu) newGame(ctx context.Context) error {
	name, err := m.ask("What is your name? ")
	if err != nil {
		return nil
	}
	w, err := m.Game.NewWorld(m.rng())
	if err != nil {
		m.Logger.Error("building new world", zap.Error(err))
		m.say("The world could not be built: %v", err)
		return nil
	}
	if name != "" {
		w.Player.Name = titler.String(name)
	}
	slot, err := m.ask(fmt.Sprintf("Name this save [%s]: ", strings.ToLower(w.Player.Name)))
	if err != nil {
		return nil
	}
	if slot == "" {
		slot = strings.ToLower(w.Player.Name)
	}
	if m.Slots.Exists(slot) && !m.confirm(fmt.Sprintf("A save called %s exists. Overwrite it?", slot)) {
		m.say("Cancelled.")
		return nil
	}
	if m.Game.Intro != "" {
		m.console.Clear()
		m.console.Print(m.Game.Intro)
		if err := m.console.WaitKey(); err != nil {
			return nil
		}
	}
	return m.play(ctx, w, slot)
}

func (m *Menu) load(ctx context.Context, name string) error {
	if name == "" {
		saves, err := m.Slots.List()
		if err != nil || len(saves) == 0 {
			m.say("There are no saved games.")
			return nil
		}
		m.say("Saved games: %s", strings.Join(saves, ", "))
		if name, err = m.ask("Load which? "); err != nil || name == "" {
			return nil
		}
	}
	w, err := m.Slots.Load(name)
	if err != nil {
		m.Logger.Warn("load failed", zap.String("save", name), zap.Error(err))
		if errors.Is(err, save.ErrNoSave) {
			m.say("There is no save called %s.", name)
		} else {
			m.say("Could not load %s: %v", name, err)
		}
		return nil
	}
	if w.Game.Mode == world.ModeDead {
		m.say("That adventurer is dead.")
		return nil
	}
	w.Game.Mode = world.ModePlay
	return m.play(ctx, w, name)
}

func (m *Menu) delete(name string) {
	switch name {
	case "":
		m.say("Delete which save? Try \"delete <name>\" or \"delete all\".")
	case "all":
		if !m.confirm("Delete every saved game?") {
			return
		}
		n, err := m.Slots.DeleteAll()
		if err != nil {
			m.say("Could not delete saves: %v", err)
			return
		}
		m.say("Deleted %d saves.", n)
	default:
		if !m.Slots.Exists(name) {
			m.say("There is no save called %s.", name)
			return
		}
		if !m.confirm(fmt.Sprintf("Delete %s?", name)) {
			return
		}
		if err := m.Slots.Delete(name); err != nil {
			m.say("Could not delete %s: %v", name, err)
			return
		}
		m.say("Deleted %s.", name)
	}
}

// play runs one game to its end and returns to the menu.
func (m *Menu) play(ctx context.Context, w *world.World, slot string) error {
	logger, session := observability.Session(m.Logger)
	logger.Info("session started", zap.String("save", slot), zap.String("player", w.Player.Name))
	w.Game.Silent = m.Silent

	e := engine.New(w, m.Dict, m.console, engine.Options{
		Clock:    m.Clock,
		Logger:   logger,
		Cheats:   m.Cheats,
		Slots:    &m.Slots,
		SaveName: slot,
	})
	if s, ok := m.console.(StatusLine); ok {
		s.SetStatus(func() string { return Status(w) })
		defer s.SetStatus(nil)
	}
	if err := e.Run(ctx); err != nil {
		logger.Error("game ended with error", zap.Error(err))
		return err
	}
	if w.Game.Mode == world.ModeDead {
		m.say("[r]Game over.[/]")
	}
	logger.Info("session ended", zap.String("session", session), zap.String("mode", w.Game.Mode))
	m.options()
	return nil
}

// Status summarizes the player's situation for a status bar.
func Status(w *world.World) string {
	p := w.Player
	if p == nil {
		return ""
	}
	return fmt.Sprintf("%s | HP %d/%d | MP %d/%d | %s",
		titler.String(w.Game.Current), p.HP, p.MXHP(), p.MP, p.MXMP(), tick.Clockface(w.Game.Time))
}

// test builds a fresh world and plays a few harmless commands in it,
// reporting anything inconsistent.
func (m *Menu) test() {
	w, err := m.Game.NewWorld(dice.NewRNG(1))
	if err != nil {
		m.say("[r]The world could not be built:[/] %v", err)
		return
	}
	for _, warn := range m.Game.Warnings {
		m.say("[y]warning:[/] %s", warn)
	}
	script := engine.NewScriptConsole("look", "inventory", "stats", "wait", "time")
	e := engine.New(w, m.Dict, script, engine.Options{Logger: m.Logger})
	for len(script.Lines) > 0 || len(e.Queued()) > 0 {
		if err := e.Turn(); err != nil {
			m.say("[r]Turn failed:[/] %v", err)
			return
		}
	}
	if errs := world.CheckInvariants(w); len(errs) > 0 {
		for _, err := range errs {
			m.say("[r]%v[/]", err)
		}
		return
	}
	m.say("[g]All checks passed:[/] %d rooms, %d objects, %d warnings.",
		len(w.Rooms), w.Registry.Len(), len(m.Game.Warnings))
}
