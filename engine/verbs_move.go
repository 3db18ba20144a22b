package engine

import (
	"go.uber.org/zap"

	"github.com/nathoo/serpens/engine/behavior"
	"github.com/nathoo/serpens/engine/resolve"
	"github.com/nathoo/serpens/engine/world"
	"github.com/nathoo/serpens/types"
)

// ClimbBonus is added to a wall's difficulty when jumping it instead.
const ClimbBonus = 5

// immobile reports, and says, why the player cannot walk anywhere.
func (e *Engine) immobile() bool {
	p := e.World.Player
	switch {
	case p.Status.Has("restrained"):
		e.say("You are held fast.")
	case p.Carrier != 0:
		carrier, _ := e.World.CarrierOf(p.Body())
		e.say("You can't walk while %s carries you.", the(carrier))
	default:
		return false
	}
	return true
}

// exitFor finds the way out a term names: a direction, a neighbouring
// room or a portal in the room.
func (e *Engine) exitFor(term string) (world.Exit, bool) {
	w := e.World
	here := w.Here()
	if dir := e.Dict.ExpandDirection(term); dir != "" {
		return w.Exit(here, dir)
	}
	for _, x := range w.Exits(here) {
		if x.To.Key() == term {
			return x, true
		}
	}
	cands := e.resolver.Candidates(term, resolve.ScopeRoom, resolve.Visible)
	for _, t := range cands {
		if x, ok := w.ExitVia(here, t); ok {
			w.Refer(t)
			return x, true
		}
	}
	return world.Exit{}, false
}

func goVerb(e *Engine, in types.Intent) result {
	if in.Direct == "" {
		e.say("Go where?")
		return rejected
	}
	if e.immobile() {
		return rejected
	}
	x, ok := e.exitFor(in.Direct)
	if !ok {
		e.say("You can't go that way.")
		return rejected
	}
	if !e.passable(x) {
		return rejected
	}
	return e.moveTo(x.To, x.Dir)
}

// passable says why an exit cannot be walked through.
func (e *Engine) passable(x world.Exit) bool {
	switch x.Blocked() {
	case "":
		return true
	case "climb":
		e.say("%s is in the way. You might be able to climb it.", capThe(x.Via))
	case "locked":
		e.say("%s is locked.", capThe(x.Via))
	default:
		e.say("%s is closed.", capThe(x.Via))
	}
	return false
}

// moveTo takes the player, and whatever travels with them, into room.
func (e *Engine) moveTo(room *world.Room, dir string) result {
	w, p := e.World, e.World.Player
	from := w.Here()
	if err := w.Travel(p, room); err != nil {
		e.report(err)
		return rejected
	}
	w.Game.Previous, w.Game.Current = from.Key(), room.Key()
	p.Status.Remove("sitting")
	p.Status.Remove("lying")
	if behavior.Unhide(p) {
		e.say("You step out of hiding.")
	}
	e.Logger.Debug("player moved", zap.String("from", from.Key()), zap.String("to", room.Key()), zap.String("dir", dir))
	if steed, ok := w.Steed(p.Body()); ok {
		e.say("You ride %s %s.", the(steed), dir)
	} else if dir != "" {
		e.say("You go %s.", dir)
	}
	e.describe(room, true)
	if room.Sky() {
		if _, err := behavior.Fall(w, p); err != nil {
			e.report(err)
		}
	}
	return acted
}

func back(e *Engine, _ types.Intent) result {
	w := e.World
	if w.Game.Previous == "" || w.Game.Previous == w.Game.Current {
		e.say("You have nowhere to go back to.")
		return rejected
	}
	if e.immobile() {
		return rejected
	}
	var blocked *world.Exit
	for _, x := range w.Exits(w.Here()) {
		if x.To.Key() != w.Game.Previous {
			continue
		}
		if x.Blocked() == "" {
			return e.moveTo(x.To, x.Dir)
		}
		if blocked == nil {
			x := x
			blocked = &x
		}
	}
	if blocked != nil {
		e.passable(*blocked)
		return rejected
	}
	e.say("You can't find the way back.")
	return rejected
}

func climb(e *Engine, in types.Intent) result {
	w, p := e.World, e.World.Player
	term := in.Direct
	if term == "" {
		term = in.Prep
	}
	if term == "" {
		term = "up"
	}
	if x, ok := e.exitFor(term); ok {
		if e.immobile() {
			return rejected
		}
		wall, isWall := x.Via.(*world.Wall)
		if !isWall {
			if !e.passable(x) {
				return rejected
			}
			return e.moveTo(x.To, x.Dir)
		}
		if p.Trait("str")+p.Trait("skl")+w.RNG.Roll(20) < wall.Difficulty {
			e.say("You try to climb %s but slip back down.", the(wall))
			return acted
		}
		e.say("You climb over %s.", the(wall))
		return e.moveTo(x.To, x.Dir)
	}
	t := e.find(term, resolve.ScopeRoom, resolve.Visible)
	if t == nil {
		return rejected
	}
	switch t.(type) {
	case world.Being:
		return ride(e, types.Intent{Verb: "ride", Direct: in.Direct})
	case world.Sittable:
		return sit(e, types.Intent{Verb: "lay", Direct: in.Direct})
	}
	e.say("You can't climb %s.", the(t))
	return rejected
}

func jump(e *Engine, in types.Intent) result {
	w, p := e.World, e.World.Player
	term := in.Direct
	if term == "" && in.Prep != "" && e.Dict.IsDirection(in.Prep) {
		term = in.Prep
	}
	if term == "" {
		e.say("You jump up and down.")
		return acted
	}
	x, ok := e.exitFor(term)
	if !ok {
		e.say("You can't jump that way.")
		return rejected
	}
	if e.immobile() {
		return rejected
	}
	if wall, isWall := x.Via.(*world.Wall); isWall {
		if p.Trait("spd")+p.Trait("skl")+w.RNG.Roll(20) < wall.Difficulty+ClimbBonus {
			dealt, _ := w.Damage(p, w.RNG.Roll(4), "b")
			e.say("You leap at %s and fall short. (%d damage)", the(wall), dealt)
			return acted
		}
		e.say("You vault over %s.", the(wall))
		return e.moveTo(x.To, x.Dir)
	}
	if !e.passable(x) {
		return rejected
	}
	e.say("You leap %s.", x.Dir)
	return e.moveTo(x.To, "")
}
