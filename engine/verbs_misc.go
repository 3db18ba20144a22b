package engine

import (
	"slices"
	"strings"
	"time"

	"github.com/nathoo/serpens/engine/resolve"
	"github.com/nathoo/serpens/engine/tick"
	"github.com/nathoo/serpens/engine/world"
	"github.com/nathoo/serpens/types"
)

// SleepTicks is the longest a single sleep lasts.
const SleepTicks = 8 * tick.HourLength

// threatened reports whether anything in the room wants to fight.
func (e *Engine) threatened() bool {
	for _, b := range e.World.Here().Living() {
		if !isPlayer(e, b) && b.Body().Hostile {
			return true
		}
	}
	return false
}

// sleep rests until morning, the sleep runs out or something hostile turns
// up. The world advances tick by tick, so sleep reports instant.
func sleep(e *Engine, _ types.Intent) result {
	w, p := e.World, e.World.Player
	if e.threatened() {
		e.say("You can't sleep with enemies nearby!")
		return rejected
	}
	comfort := 0
	if p.Status.HasAny("sitting", "lying") {
		comfort = 2
	}
	if bed, ok := e.restingOn(); ok {
		comfort = bed.Comfortable()
	}
	e.say("You lie down and close your eyes.")
	if e.Clock != nil {
		e.Clock.Sleep(500 * time.Millisecond)
	}
	p.Status.Add("sleeping", world.Sticky)
	slept := 0
	for slept < SleepTicks && w.Game.Mode == world.ModePlay {
		e.Advance()
		slept++
		if slept%tick.HourLength == 0 {
			p.Heal(1 + comfort)
		}
		if e.threatened() || (slept >= tick.HourLength && tick.Hour(w.Game.Time) == 7) {
			break
		}
	}
	p.Status.Remove("sleeping")
	if w.Game.Mode != world.ModePlay {
		return instant
	}
	p.LastSlept = w.Game.Time
	p.Status.Remove("tired")
	p.Status.Remove("fatigued")
	if e.threatened() {
		e.say("You wake with a start!")
	} else {
		e.say("You wake up feeling rested. It is %s.", tick.Clockface(w.Game.Time))
	}
	return instant
}

// restingOn returns the furniture the player is sitting or lying on.
func (e *Engine) restingOn() (world.Sittable, bool) {
	for _, t := range e.World.Here().Contents() {
		if s, ok := t.(world.Sittable); ok && t.Core().Status.Has("occupied") {
			return s, true
		}
	}
	return nil, false
}

// sit handles both sitting and lying down, on the ground or on furniture.
func sit(e *Engine, in types.Intent) result {
	p := e.World.Player
	posture, other := "sitting", "lying"
	if in.Verb == "lay" {
		posture, other = "lying", "sitting"
	}
	if p.Status.Has(posture) {
		e.say("You are already %s.", posture)
		return rejected
	}
	if _, riding := e.World.Steed(p.Body()); riding {
		e.say("You can't do that while riding.")
		return rejected
	}
	verb := "sit"
	if posture == "lying" {
		verb = "lie"
	}
	if in.Direct == "" {
		p.Status.Remove(other)
		p.Status.Add(posture, world.Sticky)
		e.say("You %s down on the ground.", verb)
		return acted
	}
	t := e.find(in.Direct, resolve.ScopeRoom, resolve.Visible)
	if t == nil {
		return rejected
	}
	if _, ok := t.(world.Sittable); !ok {
		e.say("You can't %s on %s.", verb, the(t))
		return rejected
	}
	if prev, ok := e.restingOn(); ok && prev.Core() != t.Core() {
		prev.Core().Status.Remove("occupied")
	}
	t.Core().Status.Add("occupied", world.Sticky)
	p.Status.Remove(other)
	p.Status.Add(posture, world.Sticky)
	e.say("You %s down on %s.", verb, the(t))
	return acted
}

func stand(e *Engine, _ types.Intent) result {
	p := e.World.Player
	if !p.Status.HasAny("sitting", "lying") {
		e.say("You are already standing.")
		return rejected
	}
	p.Status.Remove("sitting")
	p.Status.Remove("lying")
	if s, ok := e.restingOn(); ok {
		s.Core().Status.Remove("occupied")
	}
	e.say("You stand up.")
	return acted
}

func wait(e *Engine, _ types.Intent) result {
	e.say("Time passes.")
	return acted
}

// sense handles smell, taste and touch.
func sense(e *Engine, in types.Intent) result {
	if in.Direct == "" {
		if in.Verb == "smell" {
			e.say("You smell nothing unusual.")
			return acted
		}
		e.say("%s what?", world.Capitalize(in.Verb))
		return rejected
	}
	t := e.find(in.Direct, resolve.ScopeBoth, resolve.Accessible)
	if t == nil {
		return rejected
	}
	b := t.Core()
	var text string
	switch in.Verb {
	case "smell":
		text = b.ScentText()
	case "taste":
		text = b.TasteText()
	default:
		text = b.TextureText()
	}
	if text == "" {
		e.say("You %s %s. Nothing remarkable.", in.Verb, the(t))
		return acted
	}
	e.say("You %s %s. %s", in.Verb, the(t), world.Capitalize(text))
	return acted
}

func listen(e *Engine, _ types.Intent) result {
	w := e.World
	heard := false
	for _, x := range w.Exits(w.Here()) {
		if len(x.To.Living()) > 0 && x.Blocked() == "" {
			e.say("You hear movement to the %s.", x.Dir)
			heard = true
		}
	}
	for _, b := range w.Here().Living() {
		if !isPlayer(e, b) && b.Body().Status.Has("sleeping") {
			e.say("You hear %s snoring.", the(b))
			heard = true
		}
	}
	if !heard {
		e.say("You hear nothing but silence.")
	}
	return acted
}

func help(e *Engine, in types.Intent) result {
	if in.Direct != "" {
		if text, ok := e.Dict.Glossary[strings.ToLower(in.Direct)]; ok {
			e.say("%s: %s", in.Direct, text)
			return instant
		}
	}
	verbs := make([]string, 0, len(e.Dict.Verbs))
	for v := range e.Dict.Verbs {
		verbs = append(verbs, v)
	}
	slices.Sort(verbs)
	e.say("Commands: %s.", strings.Join(verbs, ", "))
	e.say("Short commands: %s.", strings.Join(e.Dict.StatCommands, ", "))
	e.say("Chain commands with 'and'. Type 'again' to repeat the last one.")
	if len(e.Dict.Examples) > 0 {
		e.say("For example: %s.", e.Dict.Examples[0])
	}
	return instant
}
