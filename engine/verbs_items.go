package engine

import (
	"errors"
	"strings"

	"github.com/nathoo/serpens/engine/behavior"
	"github.com/nathoo/serpens/engine/resolve"
	"github.com/nathoo/serpens/engine/world"
	"github.com/nathoo/serpens/types"
)

func take(e *Engine, in types.Intent) result {
	if in.Direct == "" {
		e.say("Take what?")
		return rejected
	}
	w, p := e.World, e.World.Player
	t := e.find(in.Direct, resolve.ScopeRoom, resolve.Unlocked)
	if t == nil {
		return rejected
	}
	if _, ok := t.(world.Being); ok {
		e.say("You can't pick up %s like that. Try carrying it.", the(t))
		return rejected
	}
	if t.Core().Fixed {
		e.say("%s is fixed in place.", capThe(t))
		return rejected
	}
	from := t.Core().Parent()
	if owner, ok := from.(world.Being); ok && !owner.Body().Dead() {
		e.say("%s won't let you have %s.", capThe(owner), the(t))
		return rejected
	}
	if o, ok := from.(world.Openable); ok && !o.IsOpen() {
		e.say("%s is closed.", holderCap(from))
		return rejected
	}
	if p.INVW()+t.Weight() > 2*p.BRDN() {
		e.say("%s is too heavy for you to lift.", capThe(t))
		return rejected
	}
	if g, ok := t.(*world.Serpens); ok {
		p.Money += g.Value()
		w.Destroy(g)
		e.say("You pick up %d serpens.", g.Value())
		return acted
	}
	if _, err := w.Put(t, p); err != nil {
		e.report(err)
		return rejected
	}
	t.Core().Status.Remove("hidden")
	if _, inRoom := from.(*world.Room); inRoom {
		e.say("You take %s.", the(t))
	} else {
		e.say("You take %s from %s.", the(t), holderPhrase(from))
	}
	e.burden()
	return acted
}

func holderCap(h world.Holder) string { return world.Capitalize(holderPhrase(h)) }

func drop(e *Engine, in types.Intent) result {
	if in.Direct == "" {
		e.say("Drop what?")
		return rejected
	}
	w, p := e.World, e.World.Player
	if carried, ok := w.Carried(p.Body()); ok && carried.Core().Named(in.Direct) {
		return release(e, in)
	}
	t := e.find(in.Direct, resolve.ScopePlayer, resolve.Accessible)
	if t == nil {
		return rejected
	}
	if p.SlotOf(t) != "" {
		if err := p.Unequip(t); err != nil {
			e.report(err)
			return rejected
		}
	}
	room := w.Here()
	if _, err := w.Put(t, room); err != nil {
		e.report(err)
		return rejected
	}
	e.say("You drop %s.", the(t))
	if room.Sky() {
		if _, err := behavior.Fall(w, t); err != nil {
			e.report(err)
		}
	}
	e.burden()
	return acted
}

func put(e *Engine, in types.Intent) result {
	if in.Direct == "" {
		e.say("Put what?")
		return rejected
	}
	if in.Indirect == "" {
		e.say("Put %s where?", in.Direct)
		return rejected
	}
	w, p := e.World, e.World.Player
	t := e.find(in.Direct, resolve.ScopePlayer, resolve.Accessible)
	if t == nil {
		return rejected
	}
	dest := e.find(in.Indirect, resolve.ScopeBoth, resolve.Accessible)
	if dest == nil {
		return rejected
	}
	if h, ok := t.(world.Holder); dest.Core() == t.Core() || (ok && world.HeldBy(dest, h)) {
		e.say("You can't put %s inside itself.", the(t))
		return rejected
	}
	if _, ok := dest.(world.Being); ok {
		return give(e, types.Intent{Verb: "give", Direct: in.Direct, Indirect: in.Indirect})
	}
	store, ok := dest.(world.Storage)
	if !ok {
		e.say("You can't put anything in %s.", the(dest))
		return rejected
	}
	if !world.Accessible(dest) {
		e.say("%s is closed.", capThe(dest))
		return rejected
	}
	if err := store.CanHold(t); err != nil {
		if errors.Is(err, world.ErrFull) {
			e.say("There is no room in %s for %s.", the(dest), the(t))
		} else {
			e.report(err)
		}
		return rejected
	}
	if p.SlotOf(t) != "" {
		_ = p.Unequip(t)
	}
	if _, err := w.Put(t, store); err != nil {
		e.report(err)
		return rejected
	}
	e.say("You put %s in %s.", the(t), the(dest))
	e.burden()
	return acted
}

func inventory(e *Engine, _ types.Intent) result {
	p := e.World.Player
	if len(p.Inventory) == 0 {
		e.say("You are carrying nothing.")
	} else {
		e.say("You are carrying:")
		for _, t := range p.Inventory {
			line := "  " + t.Core().Indefinite()
			if slot := p.SlotOf(t); slot != "" {
				line += " (" + slotLabel(slot) + ")"
			}
			e.say("%s", line)
		}
	}
	if carried, ok := e.World.Carried(p.Body()); ok {
		e.say("You hold %s in your arms.", the(carried))
	}
	e.say("Serpens: %d. Load: %d/%d.", p.Money, p.INVW(), p.BRDN())
	return instant
}

func slotLabel(slot string) string {
	switch slot {
	case world.SlotLeft:
		return "left hand"
	case world.SlotRight:
		return "right hand"
	}
	return slot
}

// handFrom reads "left" or "right" out of a term such as "left hand".
func handFrom(term string) string {
	switch {
	case strings.Contains(term, "left"):
		return world.SlotLeft
	case strings.Contains(term, "right"):
		return world.SlotRight
	}
	return ""
}

func equip(e *Engine, in types.Intent) result {
	if in.Direct == "" {
		e.say("Equip what?")
		return rejected
	}
	p := e.World.Player
	t := e.find(in.Direct, resolve.ScopeBoth, resolve.Accessible)
	if t == nil {
		return rejected
	}
	if !p.Has(t) {
		if r := take(e, types.Intent{Verb: "take", Direct: in.Direct}); r == rejected || !p.Has(t) {
			return rejected
		}
	}
	if p.SlotOf(t) != "" {
		e.say("%s is already equipped.", capThe(t))
		return rejected
	}
	err := p.Equip(t, handFrom(in.Indirect))
	switch {
	case errors.Is(err, world.ErrNoHands) && !p.Hands:
		e.say("You have no hands.")
		return rejected
	case errors.Is(err, world.ErrNoHands):
		e.say("Your hands are full.")
		return rejected
	case err != nil:
		e.report(err)
		return rejected
	}
	e.say("You equip %s (%s).", the(t), slotLabel(p.SlotOf(t)))
	return acted
}

func unequip(e *Engine, in types.Intent) result {
	if in.Direct == "" {
		e.say("Unequip what?")
		return rejected
	}
	p := e.World.Player
	t := e.find(in.Direct, resolve.ScopePlayer, resolve.Visible)
	if t == nil {
		return rejected
	}
	if err := p.Unequip(t); err != nil {
		if errors.Is(err, world.ErrNotEquipped) {
			e.say("%s is not equipped.", capThe(t))
		} else {
			e.report(err)
		}
		return rejected
	}
	e.say("You unequip %s.", the(t))
	return acted
}

func consume(e *Engine, in types.Intent) result {
	if in.Direct == "" {
		e.say("%s what?", world.Capitalize(in.Verb))
		return rejected
	}
	w, p := e.World, e.World.Player
	t := e.find(in.Direct, resolve.ScopeBoth, resolve.Accessible)
	if t == nil {
		return rejected
	}
	c, ok := t.(world.Consumable)
	if !ok || c.ConsumeVerb() != in.Verb {
		e.say("You can't %s %s.", in.Verb, the(t))
		return rejected
	}
	if owner, ok := t.Core().Parent().(world.Being); ok && !isPlayer(e, owner) && !owner.Body().Dead() {
		e.say("%s won't let you.", capThe(owner))
		return rejected
	}
	e.say("You %s %s.", in.Verb, the(t))
	if f, ok := t.(*world.Food); ok {
		p.LastAte = w.Game.Time
		p.Status.Remove("hungry")
		p.Status.Remove("starving")
		if f.Heal > 0 {
			e.say("You feel better. (+%d HP)", p.Heal(f.Heal))
		}
	}
	if taste := t.Core().TasteText(); taste != "" {
		e.say("%s", taste)
	}
	effs := c.ConsumeEffects()
	if _, isPool := t.(*world.Pool); !isPool {
		if p.SlotOf(t) != "" {
			_ = p.Unequip(t)
		}
		w.Destroy(t)
	}
	w.Fire(p, effs)
	e.burden()
	return acted
}

func read(e *Engine, in types.Intent) result {
	if in.Direct == "" {
		e.say("Read what?")
		return rejected
	}
	t := e.find(in.Direct, resolve.ScopeBoth, resolve.Visible)
	if t == nil {
		return rejected
	}
	r, ok := t.(world.Readable)
	if !ok || r.ReadText() == "" {
		e.say("There is nothing written on %s.", the(t))
		return rejected
	}
	e.say("%s reads:", capThe(t))
	for _, line := range strings.Split(r.ReadText(), "\n") {
		e.say("  %s", line)
	}
	return instant
}

func use(e *Engine, in types.Intent) result {
	if in.Direct == "" {
		e.say("Use what?")
		return rejected
	}
	w, p := e.World, e.World.Player
	t := e.find(in.Direct, resolve.ScopeBoth, resolve.Accessible)
	if t == nil {
		return rejected
	}
	switch x := t.(type) {
	case world.Activatable:
		e.say("You use %s.", the(t))
		if s, ok := x.(*world.Switch); ok {
			state := "off"
			if !s.On {
				state = "on"
			}
			e.say("%s clicks %s.", capThe(t), state)
		}
		w.Fire(x, x.Activate())
		if tm, ok := x.(*world.Timer); ok && tm.Active {
			e.say("%s begins to tick.", capThe(t))
		}
		return acted
	case world.Consumable:
		return consume(e, types.Intent{Verb: x.ConsumeVerb(), Direct: in.Direct})
	case world.Sittable:
		return sit(e, types.Intent{Verb: "lay", Direct: in.Direct})
	case world.Readable:
		return read(e, in)
	case *world.Key:
		if in.Indirect != "" {
			return unlock(e, types.Intent{Verb: "unlock", Direct: in.Indirect, Indirect: in.Direct})
		}
	}
	if world.AsWeapon(t) != nil && p.Has(t) && p.SlotOf(t) == "" {
		return equip(e, in)
	}
	e.say("You can't think of a way to use %s.", the(t))
	return rejected
}

func breakVerb(e *Engine, in types.Intent) result {
	if in.Direct == "" {
		e.say("Break what?")
		return rejected
	}
	w, p := e.World, e.World.Player
	t := e.find(in.Direct, resolve.ScopeBoth, resolve.Accessible)
	if t == nil {
		return rejected
	}
	if _, ok := t.(world.Being); ok {
		return attack(e, in)
	}
	if win, ok := t.(*world.Window); ok {
		if win.Broken {
			e.say("%s is already broken.", capThe(t))
			return rejected
		}
		win.Broken = true
		e.say("You smash %s. Glass sprays everywhere.", the(t))
		return acted
	}
	b := t.Core()
	if !b.Breakable() {
		e.say("You can't break %s.", the(t))
		return rejected
	}
	force := p.Trait("str") + p.Weapon().Might + w.RNG.Roll(6)
	if force <= b.Durability {
		e.say("You strike %s but it holds.", the(t))
		return acted
	}
	room := world.RoomOf(t)
	if h, ok := t.(world.Holder); ok && room != nil {
		for _, inner := range append([]world.Thing(nil), h.Contents()...) {
			if _, err := w.Put(inner, room); err != nil {
				e.report(err)
			}
		}
	}
	if p.SlotOf(t) != "" {
		_ = p.Unequip(t)
	}
	w.Destroy(t)
	e.say("You break %s.", the(t))
	e.burden()
	return acted
}
