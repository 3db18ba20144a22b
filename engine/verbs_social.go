package engine

import (
	"errors"

	"github.com/nathoo/serpens/engine/dialogue"
	"github.com/nathoo/serpens/engine/resolve"
	"github.com/nathoo/serpens/engine/world"
	"github.com/nathoo/serpens/types"
)

func talk(e *Engine, in types.Intent) result {
	if in.Direct == "" {
		e.say("Talk to whom?")
		return rejected
	}
	b := e.findBeing(in.Direct)
	if b == nil {
		return rejected
	}
	c := b.Body()
	switch {
	case isPlayer(e, b):
		e.say("You mutter to yourself.")
		return rejected
	case c.Dead():
		e.say("%s is in no state to talk.", capThe(b))
		return rejected
	case c.Status.Has("sleeping"):
		e.say("%s is asleep.", capThe(b))
		return rejected
	}
	person, ok := b.(*world.Person)
	if !ok || person.Tree == nil {
		e.say("%s stares at you blankly.", capThe(b))
		return rejected
	}
	spoke, err := e.converse(person)
	switch {
	case errors.Is(err, dialogue.ErrCancelled):
		e.say("You end the conversation.")
	case err != nil:
		e.report(err)
		if !spoke {
			return rejected
		}
	case !spoke:
		e.say("%s has nothing to say to you.", capThe(b))
	}
	return acted
}

func give(e *Engine, in types.Intent) result {
	if in.Direct == "" {
		e.say("Give what?")
		return rejected
	}
	if in.Indirect == "" {
		e.say("Give %s to whom?", in.Direct)
		return rejected
	}
	w, p := e.World, e.World.Player
	what, whom := in.Direct, in.Indirect
	// "give dorn the bread"
	if e.resolver.Candidates(what, resolve.ScopePlayer, resolve.Accessible) == nil &&
		e.resolver.Candidates(whom, resolve.ScopePlayer, resolve.Accessible) != nil {
		what, whom = whom, what
	}
	t := e.find(what, resolve.ScopePlayer, resolve.Accessible)
	if t == nil {
		return rejected
	}
	b := e.findBeing(whom)
	if b == nil {
		return rejected
	}
	c := b.Body()
	switch {
	case isPlayer(e, b):
		e.say("You already have %s.", the(t))
		return rejected
	case c.Dead():
		e.say("%s is dead.", capThe(b))
		return rejected
	}

	accepted := false
	switch x := b.(type) {
	case *world.Person:
		if x.Tree != nil {
			ok, _, err := dialogue.React(x.Tree, "give", &talkEnv{e: e, speaker: x})
			if err != nil && !errors.Is(err, dialogue.ErrCancelled) {
				e.report(err)
			}
			accepted = ok
		}
	case *world.Animal:
		if _, isFood := t.(*world.Food); isFood {
			if p.SlotOf(t) != "" {
				_ = p.Unequip(t)
			}
			w.Destroy(t)
			c.Love++
			c.Hostile = false
			e.say("%s eats %s.", capThe(b), the(t))
			e.burden()
			return acted
		}
	default:
		accepted = !c.Hostile
	}
	if !accepted {
		e.say("%s doesn't want %s.", capThe(b), the(t))
		return acted
	}
	if p.SlotOf(t) != "" {
		_ = p.Unequip(t)
	}
	if _, err := w.Put(t, b); err != nil {
		e.report(err)
		return rejected
	}
	c.Love++
	e.say("You give %s to %s.", the(t), the(b))
	e.burden()
	return acted
}

var emoteLines = map[string]string{
	"yawn":   "You yawn.",
	"sing":   "You sing a little tune.",
	"laugh":  "You laugh.",
	"shout":  "You shout!",
	"cry":    "You weep.",
	"dance":  "You dance a jig.",
	"wink":   "You wink.",
	"smile":  "You smile.",
	"frown":  "You frown.",
	"nod":    "You nod.",
	"wave":   "You wave.",
	"shrug":  "You shrug.",
	"bow":    "You bow.",
	"sigh":   "You sigh.",
	"tongue": "You stick out your tongue.",
	"gasp":   "You gasp.",
}

// emote performs an expressive action. People present may react to it.
func emote(e *Engine, in types.Intent) result {
	w := e.World
	switch in.Direct {
	case "curse":
		e.say("You curse: \"%s!\"", world.Capitalize(pick(w, e.Dict.Curses, "drat")))
	case "pray":
		e.say("You pray. %s.", world.Capitalize(pick(w, e.Dict.Blessings, "amen")))
	default:
		line, ok := emoteLines[in.Direct]
		if !ok {
			e.say("You %s.", in.Direct)
		} else {
			e.say("%s", line)
		}
	}
	for _, b := range w.Here().Living() {
		person, ok := b.(*world.Person)
		if !ok || person.Tree == nil || person.Status.Has("sleeping") {
			continue
		}
		if in.Direct == "shout" {
			person.Status.Remove("sleeping")
		}
		if _, _, err := dialogue.React(person.Tree, in.Direct, &talkEnv{e: e, speaker: person}); err != nil &&
			!errors.Is(err, dialogue.ErrCancelled) {
			e.report(err)
		}
	}
	if in.Direct == "shout" {
		for _, b := range w.Here().Creatures {
			b.Body().Status.Remove("sleeping")
		}
	}
	return acted
}

func pick(w *world.World, pool []string, fallback string) string {
	if len(pool) == 0 {
		return fallback
	}
	return pool[w.RNG.Intn(len(pool))]
}
