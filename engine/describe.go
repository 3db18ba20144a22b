package engine

import (
	"fmt"
	"strings"

	"github.com/nathoo/serpens/engine/behavior"
	"github.com/nathoo/serpens/engine/resolve"
	"github.com/nathoo/serpens/engine/tick"
	"github.com/nathoo/serpens/engine/world"
	"github.com/nathoo/serpens/types"
)

// describe narrates a room. Long descriptions include the room's prose.
func (e *Engine) describe(room *world.Room, long bool) {
	if room == nil {
		return
	}
	w, p := e.World, e.World.Player
	e.say("[y]%s[/]", room.Name)
	if long && room.Desc != "" {
		e.say("%s", room.Desc)
	}
	if room.Status.Has("dark") {
		e.say("It is too dark to see much.")
		return
	}

	var things []string
	for _, t := range room.Contents() {
		if _, ok := t.(world.Being); ok || t.Core().Status.Has("hidden") {
			continue
		}
		things = append(things, t.Core().Indefinite())
	}
	if len(things) > 0 {
		e.say("You see %s.", joinAnd(things))
	}

	for _, b := range room.Creatures {
		c := b.Body()
		switch {
		case isPlayer(e, b):
		case c.Dead():
			e.say("The body of %s lies here.", the(b))
		case c.Status.Has("hiding") && !behavior.Spotted(w, p, b):
		case c.Carrier != 0:
		default:
			e.say("%s is here.%s", world.Capitalize(b.Core().Indefinite()), e.creatureNote(c))
		}
	}

	var dirs []string
	for _, x := range w.Exits(room) {
		switch x.Blocked() {
		case "":
			dirs = append(dirs, x.Dir)
		default:
			dirs = append(dirs, fmt.Sprintf("%s (%s)", x.Dir, the(x.Via)))
		}
	}
	if len(dirs) == 0 {
		e.say("There is no obvious way out.")
		return
	}
	e.say("Exits: %s.", strings.Join(dedupe(dirs), ", "))
}

func (e *Engine) creatureNote(c *world.Creature) string {
	var notes []string
	if c.Hostile {
		notes = append(notes, "[r]hostile[/]")
	}
	if rider, ok := e.World.RiderOf(c); ok {
		notes = append(notes, "ridden by "+the(rider))
	}
	for _, s := range []string{"sleeping", "restrained", "burning", "poisoned"} {
		if c.Status.Has(s) {
			notes = append(notes, s)
		}
	}
	if len(notes) == 0 {
		return ""
	}
	return " (" + strings.Join(notes, ", ") + ")"
}

func dedupe(in []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func look(e *Engine, in types.Intent) result {
	if in.Direct != "" {
		return examine(e, in)
	}
	e.describe(e.World.Here(), true)
	return instant
}

func examine(e *Engine, in types.Intent) result {
	if in.Direct == "" {
		e.say("Examine what?")
		return rejected
	}
	if dir := e.Dict.ExpandDirection(in.Direct); dir != "" {
		return lookDir(e, dir)
	}
	if _, ok := e.Dict.Glossary[in.Direct]; ok && e.resolver.Candidates(in.Direct, resolve.ScopeBoth, resolve.Visible) == nil {
		e.say("%s", e.Dict.Glossary[in.Direct])
		return instant
	}
	t := e.find(in.Direct, resolve.ScopeBoth, resolve.Visible)
	if t == nil {
		return rejected
	}
	e.examineThing(t)
	return instant
}

func (e *Engine) examineThing(t world.Thing) {
	b := t.Core()
	if b.Desc != "" {
		e.say("%s", b.Desc)
	} else {
		e.say("You see nothing special about %s.", the(t))
	}
	switch x := t.(type) {
	case world.Being:
		c := x.Body()
		switch {
		case c.Dead():
			e.say("%s is dead.", capThe(t))
		case !isPlayer(e, t):
			e.say("%s looks %s.", capThe(t), healthWord(c))
		}
		if !isPlayer(e, t) {
			var held []string
			for _, slot := range world.Slots {
				if g := c.Gear[slot]; g != nil {
					held = append(held, g.Core().Indefinite())
				}
			}
			if len(held) > 0 {
				e.say("%s has %s.", capThe(t), joinAnd(dedupe(held)))
			}
		}
	case *world.Weapon:
		e.say("Might %d, sleight %d, sharpness %d, %s.", x.Might, x.Sleight, x.Sharpness, e.Dict.DamageLabel(x.DamageType))
		if x.TwoHanded {
			e.say("It takes both hands to wield.")
		}
	case *world.Armor:
		e.say("Protection %d, worn on the %s.", x.Prot, x.Slot)
	case *world.Shield:
		e.say("Protection %d.", x.Prot)
	case world.Readable:
		e.say("There is writing on it.")
	}
	if o, ok := t.(world.Openable); ok {
		state := "closed"
		if o.IsOpen() {
			state = "open"
		}
		if l, ok := t.(world.Lockable); ok && l.IsLocked() {
			state = "locked"
		}
		e.say("%s is %s.", capThe(t), state)
	}
	if h, ok := t.(world.Holder); ok && world.Accessible(t) {
		if _, isBeing := t.(world.Being); !isBeing {
			var inside []string
			for _, c := range h.Contents() {
				inside = append(inside, c.Core().Indefinite())
			}
			if len(inside) == 0 {
				e.say("It is empty.")
			} else {
				e.say("Inside you see %s.", joinAnd(inside))
			}
		}
	}
	if s := strings.Join(b.Status.Names(), ", "); s != "" && !isPlayer(e, t) {
		e.say("(%s)", s)
	}
}

func healthWord(c *world.Creature) string {
	pct := 100 * c.HP / max(1, c.MXHP())
	switch {
	case pct >= 90:
		return "unhurt"
	case pct >= 60:
		return "lightly wounded"
	case pct >= 30:
		return "badly wounded"
	}
	return "near death"
}

// lookDir peeks into the neighbouring room in a direction.
func lookDir(e *Engine, dir string) result {
	w := e.World
	x, ok := w.Exit(w.Here(), dir)
	if !ok {
		e.say("There is nothing to see to the %s.", dir)
		return instant
	}
	if x.Blocked() != "" {
		if _, isWindow := x.Via.(*world.Window); !isWindow {
			e.say("%s blocks the view %s.", capThe(x.Via), dir)
			return instant
		}
	}
	e.say("To the %s you see %s.", dir, x.To.Name)
	var seen []string
	for _, b := range x.To.Living() {
		if !b.Body().Status.Has("hiding") {
			seen = append(seen, b.Core().Indefinite())
		}
	}
	if len(seen) > 0 {
		e.say("You can make out %s.", joinAnd(seen))
	}
	return instant
}

// timeLine is the clock, the sky and anything strange in it.
func (e *Engine) timeLine() {
	t := e.World.Game.Time
	sky := tick.Sky(t)
	e.say("It is %s.", tick.Clockface(t))
	if text, ok := e.Dict.TimeOfDay[tick.Hour(t)]; ok {
		e.say("%s", text)
	}
	e.say("The moon is %s.", tick.MoonName(sky.Moon))
	switch {
	case sky.Eclipse:
		e.say("[m]The sun is eclipsed.[/]")
	case sky.Meteors:
		e.say("[o]Meteors streak across the sky.[/]")
	case sky.Aurora:
		e.say("[g]An aurora shimmers overhead.[/]")
	}
}
