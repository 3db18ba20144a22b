// Package engine runs a game: it reads commands from the console, hands
// them to the verb handlers and lets the rest of the world take its turn.
package engine

import (
	"context"
	"errors"
	"io"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/nathoo/serpens/content"
	"github.com/nathoo/serpens/engine/behavior"
	"github.com/nathoo/serpens/engine/effects"
	"github.com/nathoo/serpens/engine/parser"
	"github.com/nathoo/serpens/engine/resolve"
	"github.com/nathoo/serpens/engine/save"
	"github.com/nathoo/serpens/engine/tick"
	"github.com/nathoo/serpens/engine/world"
	"github.com/nathoo/serpens/types"
)

// Prompt is printed before each command is read.
const Prompt = "> "

// HelpAfter is how many failed commands in a row earn a pointer to help.
const HelpAfter = 3

// Options configures an Engine. Every field is optional.
type Options struct {
	Clock    types.Clock
	Logger   *zap.Logger
	Cheats   bool
	Slots    *save.Slots
	SaveName string
}

// Engine holds one running game and everything it talks to.
type Engine struct {
	World    *world.World
	Dict     *content.Dict
	Console  types.Console
	Clock    types.Clock
	Logger   *zap.Logger
	Effects  *effects.Registry
	Cheats   bool
	Slots    *save.Slots
	SaveName string

	parser   *parser.Parser
	resolver *resolve.Resolver
	verbs    map[string]handler
	queue    []string
	last     string
	fails    int
}

// New wires an engine around w. The world's narrator, effector and logger
// are replaced with the engine's own.
func New(w *world.World, dict *content.Dict, console types.Console, opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	world.UseDict(dict)
	fx := effects.New()
	w.Out = console
	w.Effects = fx
	w.Logger = opts.Logger
	w.RNG.WithLogger(opts.Logger)
	if opts.Cheats {
		w.Game.Cheats = true
	}
	e := &Engine{
		World:    w,
		Dict:     dict,
		Console:  console,
		Clock:    opts.Clock,
		Logger:   opts.Logger,
		Effects:  fx,
		Cheats:   w.Game.Cheats,
		Slots:    opts.Slots,
		SaveName: opts.SaveName,
	}
	e.parser = parser.New(dict, lexicon{e}, e.referent)
	e.resolver = resolve.New(w, dict, console)
	e.verbs = verbTable()
	return e
}

// Run plays until the player quits or dies, the console runs dry or ctx
// is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	e.Logger.Info("game started", zap.String("room", e.World.Game.Current), zap.Int("time", e.World.Game.Time))
	e.describe(e.World.Here(), true)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch e.World.Game.Mode {
		case world.ModeQuit:
			e.Logger.Info("game quit", zap.Int("time", e.World.Game.Time))
			return nil
		case world.ModeDead:
			e.say("[r]You have died.[/]")
			e.Logger.Info("player died", zap.Int("time", e.World.Game.Time))
			return nil
		}
		if err := e.Turn(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// Turn reads one command, queued or fresh, and advances the world if the
// command took any time.
func (e *Engine) Turn() error {
	line, err := e.next()
	if err != nil {
		return err
	}
	if e.Step(line) {
		e.Advance()
	}
	return nil
}

func (e *Engine) next() (string, error) {
	if len(e.queue) > 0 {
		line := e.queue[0]
		e.queue = e.queue[1:]
		return line, nil
	}
	return e.Console.ReadLine(Prompt)
}

// Step runs one line of input and reports whether it used up a tick. A
// line chaining several commands runs the first and queues the rest.
func (e *Engine) Step(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	// 1. Repeat the last command.
	switch strings.ToLower(line) {
	case "again", "g":
		if e.last == "" {
			e.say("There is nothing to repeat.")
			return false
		}
		line = e.last
	}
	e.last = line

	// 2. Cheats bypass the parser.
	if strings.HasPrefix(line, `\`) {
		return e.cheat(line)
	}

	// 3. Split "and"/"then" chains.
	parts := e.parser.Split(line)
	if len(parts) == 0 {
		return false
	}
	if len(parts) > 1 {
		e.queue = append(slices.Clone(parts[1:]), e.queue...)
	}
	return e.execute(parts[0])
}

func (e *Engine) execute(cmd string) bool {
	log := e.Logger.With(zap.String("command", cmd))

	// 1. A bare trait or ability name reports it.
	if e.query(cmd) {
		e.fails = 0
		return false
	}

	// 2. Parse.
	in, err := e.parser.Parse(cmd)
	if err != nil {
		log.Debug("parse failed", zap.Error(err))
		e.report(err)
		e.failed()
		return false
	}
	if in.Verb == "" {
		return false
	}

	// 3. Dispatch.
	h, ok := e.verbs[in.Verb]
	if !ok {
		log.Warn("verb has no handler", zap.String("verb", in.Verb))
		e.say("You can't do that.")
		e.failed()
		return false
	}
	res := h(e, in)
	log.Debug("verb handled", zap.String("verb", in.Verb), zap.String("direct", in.Direct),
		zap.String("indirect", in.Indirect), zap.Stringer("result", res))

	// 4. Only acted verbs take time.
	switch res {
	case rejected:
		e.failed()
		return false
	case instant:
		e.fails = 0
		return false
	}
	e.fails = 0
	return e.World.Game.Mode == world.ModePlay
}

// failed counts a failed command and drops whatever was chained after it.
func (e *Engine) failed() {
	e.queue = nil
	e.fails++
	if e.fails == HelpAfter {
		e.say("Type 'help' for a list of commands, or 'examples' for some ideas.")
	}
}

// Advance lets every creature near the player act, fastest first, and
// then moves the clock on by one tick.
func (e *Engine) Advance() {
	w := e.World
	acted := map[world.ID]bool{}
	act := func(room *world.Room) {
		living := slices.Clone(room.Living())
		slices.SortStableFunc(living, func(a, b world.Being) int {
			return b.Body().MVMT() - a.Body().MVMT()
		})
		for _, b := range living {
			id := b.Core().ID()
			if acted[id] || world.RoomOf(b) != room {
				continue
			}
			acted[id] = true
			behavior.Act(w, b)
		}
	}
	here := w.Here()
	if here != nil {
		act(here)
	}
	for _, key := range tick.Render(w) {
		if room, ok := w.Room(key); ok && room != here {
			act(room)
		}
	}
	tick.PassTime(w, 1)
}

// Queued returns the commands waiting to run.
func (e *Engine) Queued() []string { return slices.Clone(e.queue) }

func (e *Engine) say(format string, args ...any) {
	e.World.Say(format, args...)
}
