package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/serpens/engine/dialogue"
	"github.com/nathoo/serpens/engine/tick"
	"github.com/nathoo/serpens/engine/world"
)

// maxAsks bounds how often an unclear reply is asked for again.
const maxAsks = 3

// talkEnv connects a conversation with one speaker to the running game.
type talkEnv struct {
	e       *Engine
	speaker *world.Person
}

var _ dialogue.Env = (*talkEnv)(nil)

func (t *talkEnv) Fact(name string) (dialogue.Value, bool) {
	w := t.e.World
	switch name {
	case "events":
		return dialogue.List(w.Game.Events.List()), true
	case "time":
		return dialogue.Int(w.Game.Time), true
	case "hour":
		return dialogue.Int(tick.Hour(w.Game.Time)), true
	}
	who, field, ok := strings.Cut(name, ".")
	if !ok {
		return dialogue.Value{}, false
	}
	switch who {
	case "player":
		p := w.Player
		switch field {
		case "xp":
			return dialogue.Int(p.XP), true
		case "rp":
			return dialogue.Int(p.RP), true
		case "spells":
			return dialogue.List(p.Spells), true
		}
		return creatureFact(p.Body(), field)
	case "speaker":
		s := t.speaker
		switch field {
		case "rapport":
			return dialogue.Int(s.Rapport), true
		}
		return creatureFact(s.Body(), field)
	}
	return dialogue.Value{}, false
}

func creatureFact(c *world.Creature, field string) (dialogue.Value, bool) {
	switch field {
	case "name":
		return dialogue.Str(c.Name), true
	case "hp":
		return dialogue.Int(c.HP), true
	case "mp":
		return dialogue.Int(c.MP), true
	case "money":
		return dialogue.Int(c.Money), true
	case "love":
		return dialogue.Int(c.Love), true
	case "fear":
		return dialogue.Int(c.Fear), true
	case "hostile":
		return dialogue.Bool(c.Hostile), true
	case "dead":
		return dialogue.Bool(c.Dead()), true
	case "memories":
		return dialogue.List(c.Memories.List()), true
	case "statuses":
		return dialogue.List(c.Status.Names()), true
	case "items":
		names := make([]string, 0, len(c.Inventory))
		for _, it := range c.Inventory {
			names = append(names, strings.ToLower(it.Core().Name))
		}
		return dialogue.List(names), true
	}
	if _, ok := c.Traits.Get(field); ok {
		return dialogue.Int(c.Trait(field)), true
	}
	if v, ok := c.Ability(field); ok {
		return dialogue.Int(v), true
	}
	return dialogue.Value{}, false
}

func (t *talkEnv) Say(text string) {
	t.e.say("%s: %s", t.speaker.Name, text)
}

// Choose lists the replies and reads the player's pick.
func (t *talkEnv) Choose(options []string) (int, error) {
	e := t.e
	for i, o := range options {
		e.say("%d. %s", i+1, o)
	}
	for range maxAsks {
		line, err := e.Console.ReadLine(Prompt)
		if err != nil {
			return 0, err
		}
		line = strings.ToLower(strings.TrimSpace(line))
		if e.Dict.IsCancel(line) {
			return 0, dialogue.ErrCancelled
		}
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
		for i, o := range options {
			if line != "" && strings.EqualFold(o, line) {
				return i, nil
			}
		}
		e.say("Pick a number from 1 to %d.", len(options))
	}
	return 0, dialogue.ErrCancelled
}

func (t *talkEnv) Roll(sides int) int { return t.e.World.RNG.Roll(sides) }

func (t *talkEnv) Trite(pool string) []string { return t.e.Dict.Trites[pool] }

func (t *talkEnv) Apply(m dialogue.Mods) {
	w, s := t.e.World, t.speaker
	s.Love += m.Love
	s.Fear += m.Fear
	w.Player.RP += m.Rep
	for _, mem := range m.Memories {
		s.Remember(mem)
	}
	for _, ev := range m.Events {
		w.Game.Events.Add(ev)
	}
}

func (t *talkEnv) Now() int { return t.e.World.Game.Time }

// converse runs a parley with p and records the meeting when anything was
// said. Only a colloquy builds rapport.
func (e *Engine) converse(p *world.Person) (bool, error) {
	out, err := dialogue.Parley(p.Tree, &talkEnv{e: e, speaker: p})
	if out.Spoke {
		if out.Branch == dialogue.Colloquy {
			p.Rapport++
		}
		p.Remember("met")
		e.World.Refer(p)
	}
	if err != nil {
		return out.Spoke, fmt.Errorf("talking to %s: %w", p.Name, err)
	}
	return out.Spoke, nil
}
