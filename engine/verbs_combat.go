package engine

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/nathoo/serpens/engine/behavior"
	"github.com/nathoo/serpens/engine/effects"
	"github.com/nathoo/serpens/engine/resolve"
	"github.com/nathoo/serpens/engine/world"
	"github.com/nathoo/serpens/types"
)

func attack(e *Engine, in types.Intent) result {
	if in.Direct == "" {
		e.say("Attack what?")
		return rejected
	}
	w, p := e.World, e.World.Player
	t := e.find(in.Direct, resolve.ScopeRoom, resolve.Visible)
	if t == nil {
		return rejected
	}
	b, ok := t.(world.Being)
	if !ok {
		e.say("Attacking %s would achieve nothing. Try breaking it.", the(t))
		return rejected
	}
	if b.Body().Dead() {
		e.say("%s is already dead.", capThe(t))
		return rejected
	}

	var wp *world.Weapon
	switch {
	case in.Indirect == "":
	case bareHands[in.Indirect]:
		wp = p.NaturalWeapon()
	default:
		it := e.find(in.Indirect, resolve.ScopePlayer, resolve.Accessible)
		if it == nil {
			return rejected
		}
		if !p.Has(it) {
			e.say("You need to be holding %s to fight with it.", the(it))
			return rejected
		}
		wp = world.AsWeapon(it)
	}

	if behavior.Unhide(p) {
		e.say("You leap out of hiding!")
	}
	out := behavior.Attack(w, p, b, wp)
	e.Logger.Debug("attack",
		zap.String("target", b.Core().Name),
		zap.Int("swings", out.Swings),
		zap.Int("hits", out.Hits),
		zap.Int("dealt", out.Dealt),
		zap.Bool("killed", out.Killed),
	)
	return acted
}

func throw(e *Engine, in types.Intent) result {
	if in.Direct == "" {
		e.say("Throw what?")
		return rejected
	}
	if in.Indirect == "" {
		e.say("Throw %s where?", in.Direct)
		return rejected
	}
	w, p := e.World, e.World.Player
	t := e.find(in.Direct, resolve.ScopePlayer, resolve.Accessible)
	if t == nil {
		return rejected
	}
	var target world.Thing
	dir := e.Dict.ExpandDirection(in.Indirect)
	if dir == "" {
		if target = e.find(in.Indirect, resolve.ScopeRoom, resolve.Visible); target == nil {
			return rejected
		}
		if target.Core() == t.Core() {
			e.say("You can't throw %s at itself.", the(t))
			return rejected
		}
	}
	if p.SlotOf(t) != "" {
		_ = p.Unequip(t)
	}
	behavior.Unhide(p)

	var err error
	if dir != "" {
		err = behavior.ThrowDir(w, p, t, dir)
	} else {
		err = behavior.ThrowAt(w, p, t, target)
	}
	e.burden()
	switch {
	case errors.Is(err, world.ErrTooHeavy):
		return acted
	case err != nil:
		e.report(err)
		return rejected
	}
	return acted
}

func cast(e *Engine, in types.Intent) result {
	w, p := e.World, e.World.Player
	if in.Direct == "" {
		if len(p.Spells) == 0 {
			e.say("You don't know any spells.")
		} else {
			e.say("Cast what? You know %s.", joinAnd(p.Spells))
		}
		return rejected
	}
	name := strings.ToLower(in.Direct)
	if _, ok := e.Effects.Spells.Lookup(name); !ok {
		e.say("There is no spell called %s.", name)
		return rejected
	}
	var target world.Thing
	if in.Indirect != "" {
		if target = e.find(in.Indirect, resolve.ScopeBoth, resolve.Visible); target == nil {
			return rejected
		}
	}
	wasAlive := false
	if b, ok := target.(world.Being); ok {
		wasAlive = !b.Body().Dead()
	}

	took, err := e.Effects.Spells.Cast(w, p, name, target)
	switch {
	case errors.Is(err, effects.ErrNotKnown):
		e.say("You haven't learned %s.", name)
		return rejected
	case errors.Is(err, effects.ErrNoMana):
		e.say("You don't have enough MP to cast %s.", name)
		return rejected
	case errors.Is(err, effects.ErrNeedsTarget):
		e.say("Cast %s at what?", name)
		return rejected
	case err != nil:
		e.report(err)
		return rejected
	}
	e.Logger.Debug("cast", zap.String("spell", name), zap.Bool("took", took))
	if b, ok := target.(world.Being); ok && took && !isPlayer(e, b) {
		c := b.Body()
		switch {
		case wasAlive && c.Dead():
			xp := behavior.XPFor(c)
			p.GainXP(xp)
			e.say("You gain %d XP.", xp)
		case !c.Dead():
			c.Hostile = true
		}
	}
	return acted
}

// learn studies a spell from something with the spell written on it.
func learn(e *Engine, in types.Intent) result {
	p := e.World.Player
	if in.Direct == "" {
		e.say("Learn what?")
		return rejected
	}
	name := strings.ToLower(in.Direct)
	sp, ok := e.Effects.Spells.Lookup(name)
	if !ok {
		e.say("There is no spell called %s.", name)
		return rejected
	}
	if p.Knows(name) {
		e.say("You already know %s.", name)
		return rejected
	}
	var source world.Thing
	scan := func(t world.Thing) {
		if r, ok := t.(world.Readable); ok && source == nil && strings.Contains(strings.ToLower(r.ReadText()), name) {
			source = t
		}
	}
	world.Walk(p, scan)
	world.Walk(e.World.Here(), scan)
	if source == nil {
		e.say("You have nothing to learn %s from.", name)
		return rejected
	}
	if !p.Learn(name) {
		e.say("Your mind cannot hold another spell.")
		return rejected
	}
	e.say("You study %s and learn %s. %s", the(source), name, sp.Desc)
	return acted
}

func restrain(e *Engine, in types.Intent) result {
	if in.Direct == "" {
		e.say("Restrain whom?")
		return rejected
	}
	b := e.findBeing(in.Direct)
	if b == nil {
		return rejected
	}
	_, err := behavior.Restrain(e.World, e.World.Player, b)
	switch {
	case errors.Is(err, behavior.ErrSelf):
		e.say("You can't restrain yourself.")
		return rejected
	case errors.Is(err, behavior.ErrDeadTarget):
		e.say("%s is already dead.", capThe(b))
		return rejected
	case err != nil:
		e.report(err)
		return rejected
	}
	return acted
}

func carry(e *Engine, in types.Intent) result {
	if in.Direct == "" {
		e.say("Carry what?")
		return rejected
	}
	t := e.find(in.Direct, resolve.ScopeRoom, resolve.Visible)
	if t == nil {
		return rejected
	}
	b, ok := t.(world.Being)
	if !ok {
		return take(e, types.Intent{Verb: "take", Direct: in.Direct})
	}
	err := behavior.Carry(e.World, e.World.Player, b)
	switch {
	case errors.Is(err, behavior.ErrSelf):
		e.say("You can't carry yourself.")
	case errors.Is(err, behavior.ErrBusy):
		e.say("You can't carry %s right now.", the(b))
	case errors.Is(err, world.ErrNoHands):
		e.say("You have no hands to carry with.")
	case errors.Is(err, world.ErrTooHeavy):
		e.say("%s is too heavy to carry.", capThe(b))
	case errors.Is(err, behavior.ErrUnwilling):
		e.say("%s won't let you pick them up.", capThe(b))
	case err != nil:
		e.report(err)
	default:
		e.burden()
		return acted
	}
	return rejected
}

func release(e *Engine, _ types.Intent) result {
	if err := behavior.Release(e.World, e.World.Player); err != nil {
		if errors.Is(err, world.ErrNotHeld) {
			e.say("You aren't carrying anyone.")
		} else {
			e.report(err)
		}
		return rejected
	}
	e.burden()
	return acted
}

func ride(e *Engine, in types.Intent) result {
	if in.Direct == "" {
		e.say("Ride what?")
		return rejected
	}
	b := e.findBeing(in.Direct)
	if b == nil {
		return rejected
	}
	err := behavior.Ride(e.World, e.World.Player, b)
	switch {
	case errors.Is(err, behavior.ErrSelf):
		e.say("You can't ride yourself.")
	case errors.Is(err, behavior.ErrNotRideable):
		e.say("You can't ride %s.", the(b))
	case errors.Is(err, behavior.ErrBusy):
		e.say("You can't climb onto %s right now.", the(b))
	case errors.Is(err, behavior.ErrUnwilling):
		e.say("%s won't let you on.", capThe(b))
	case err != nil:
		e.report(err)
	default:
		return acted
	}
	return rejected
}

func dismount(e *Engine, _ types.Intent) result {
	if err := behavior.Dismount(e.World, e.World.Player); err != nil {
		if errors.Is(err, world.ErrNotHeld) {
			e.say("You aren't riding anything.")
		} else {
			e.report(err)
		}
		return rejected
	}
	return acted
}

func hide(e *Engine, _ types.Intent) result {
	p := e.World.Player
	if p.Status.Has("hiding") {
		e.say("You are already hidden.")
		return rejected
	}
	if err := behavior.Hide(e.World, p); err != nil {
		e.say("You can't hide with company in tow.")
		return rejected
	}
	return acted
}

func search(e *Engine, _ types.Intent) result {
	w, p := e.World, e.World.Player
	room := w.Here()
	found := false
	world.Walk(room, func(t world.Thing) {
		if b, ok := t.(world.Being); ok {
			if !isPlayer(e, b) && b.Body().Status.Has("hiding") && behavior.Spotted(w, p, b) {
				behavior.Unhide(b)
				e.say("You spot %s!", the(b))
				found = true
			}
			return
		}
		if t.Core().Status.Has("hidden") && w.RNG.Chance(max(10, p.KNWL())) {
			t.Core().Status.Remove("hidden")
			e.say("You find %s.", t.Core().Indefinite())
			found = true
		}
	})
	if !found {
		e.say("You search around but find nothing of note.")
	}
	return acted
}
