package behavior

import (
	"fmt"

	"github.com/nathoo/serpens/engine/dice"
	"github.com/nathoo/serpens/engine/world"
)

// wallWeight is the weight of "nothing in particular" when a miss picks
// something to ricochet into.
const wallWeight = 100

// Missile is a thrown object in flight.
type Missile struct {
	Item      world.Thing
	Might     int
	Sharpness int
	Tag       string
	Speed     int
	Aim       int
}

// NewMissile prepares t to be thrown by thrower. Real projectiles keep
// their might; anything else hits like an improvised weapon.
func NewMissile(w *world.World, thrower world.Being, t world.Thing) Missile {
	c := thrower.Body()
	m := Missile{Item: t}
	switch p := t.(type) {
	case *world.Projectile:
		m.Might, m.Sharpness, m.Tag = p.Might, p.Sharpness, p.DamageType
	case *world.Weapon:
		m.Might, m.Sharpness, m.Tag = p.Might, p.Sharpness, p.DamageType
	default:
		wp := world.AsWeapon(t)
		m.Might, m.Tag = wp.Might, wp.DamageType
	}
	str := max(1, c.Trait("str"))
	force := max(1, str/2-t.Weight()/4/str)
	m.Speed = dice.Clamp(w.RNG.DiceRoll(1, force, 0), 1, c.Trait("spd")+2)
	m.Aim = c.ACCU()
	if t.Core().Status.Has("homing") {
		m.Aim = 90
	}
	return m
}

// CanThrow refuses objects heavier than STR·4.
func CanThrow(thrower world.Being, t world.Thing) error {
	if t.Weight() > thrower.Body().Trait("str")*4 {
		return fmt.Errorf("%s: %w", t.Core().Name, world.ErrTooHeavy)
	}
	return nil
}

// ThrowAt throws t at target, an object in the thrower's room. A too-heavy
// missile falls at the thrower's feet.
func ThrowAt(w *world.World, thrower world.Being, t world.Thing, target world.Thing) error {
	room := world.RoomOf(thrower)
	if err := CanThrow(thrower, t); err != nil {
		return drop(w, t, room, err)
	}
	m := NewMissile(w, thrower, t)
	w.SayAt(room, "%s %s %s at %s.", Who(w, thrower), conj(w, thrower, "throw", "throws"), t.Core().Definite(), who(w, target))
	dest := world.RoomOf(target)
	if dest == nil {
		dest = room
	}
	if _, err := w.Put(t, dest); err != nil {
		return err
	}
	Bombard(w, thrower, target, m, 1)
	return nil
}

// ThrowDir throws t out of the thrower's room in direction dir. Through an
// open way the missile lands in the next room; otherwise it bounces back.
func ThrowDir(w *world.World, thrower world.Being, t world.Thing, dir string) error {
	room := world.RoomOf(thrower)
	if err := CanThrow(thrower, t); err != nil {
		return drop(w, t, room, err)
	}
	w.SayAt(room, "%s %s %s %s.", Who(w, thrower), conj(w, thrower, "throw", "throws"), t.Core().Definite(), dir)
	e, ok := w.Exit(room, dir)
	switch {
	case !ok:
		_, err := w.Put(t, room)
		w.SayAt(room, "%s hits the wall and falls.", world.Capitalize(t.Core().Definite()))
		return err
	case e.Blocked() != "":
		_, err := w.Put(t, room)
		w.SayAt(room, "%s bounces off %s.", world.Capitalize(t.Core().Definite()), e.Via.Core().Definite())
		return err
	}
	return Transfer(w, t, e.To)
}

func drop(w *world.World, t world.Thing, room *world.Room, cause error) error {
	if _, err := w.Put(t, room); err != nil {
		return err
	}
	w.SayAt(room, "%s is too heavy to throw. It falls to the ground.", world.Capitalize(t.Core().Definite()))
	return cause
}

// Transfer moves a flying object into room and lets it fall if the room
// hangs in the sky.
func Transfer(w *world.World, t world.Thing, room *world.Room) error {
	landed, err := w.Put(t, room)
	if err != nil {
		return err
	}
	w.SayAt(room, "%s flies in.", world.Capitalize(t.Core().Indefinite()))
	if room.Sky() {
		_, err = Fall(w, landed)
	}
	return err
}

// Bombard rolls whether m strikes target. A miss may ricochet into
// something else in the room; bounces limits how often.
func Bombard(w *world.World, thrower world.Being, target world.Thing, m Missile, bounces int) bool {
	evsn := 0
	if b, ok := target.(world.Being); ok {
		evsn = b.Body().EVSN()
	}
	odds := dice.Clamp(m.Aim+m.Speed-evsn, 1, 99)
	if w.RNG.Percent() < odds {
		Collide(w, thrower, target, m)
		return true
	}
	room := world.RoomOf(m.Item)
	w.SayAt(room, "%s misses %s.", world.Capitalize(m.Item.Core().Definite()), who(w, target))
	if bounces <= 0 || room == nil {
		return false
	}
	if next := ricochet(w, room, m.Item, target); next != nil {
		w.SayAt(room, "It ricochets toward %s!", who(w, next))
		return Bombard(w, thrower, next, m, bounces-1)
	}
	return false
}

// ricochet samples something in room weighted by weight, with a heavy
// chance of hitting nothing at all.
func ricochet(w *world.World, room *world.Room, missile, skip world.Thing) world.Thing {
	var pool []world.Thing
	weights := []int{wallWeight}
	for _, t := range room.Contents() {
		if t.Core() == missile.Core() || t.Core() == skip.Core() {
			continue
		}
		pool = append(pool, t)
		weights = append(weights, max(1, t.Weight()))
	}
	i := w.RNG.WeightedSelect(weights)
	if i <= 0 {
		return nil
	}
	return pool[i-1]
}

// Collide applies a hit: might times speed, doubled on a sharp critical.
// The missile takes backlash when it is breakable.
func Collide(w *world.World, thrower world.Being, target world.Thing, m Missile) {
	room := world.RoomOf(m.Item)
	dmg := m.Might * m.Speed
	crit := m.Sharpness > 0 && w.RNG.Chance(thrower.Body().CriticalWith(m.Sharpness))
	if crit {
		dmg *= 2
		w.SayAt(room, "A critical hit!")
	}
	if b, ok := target.(world.Being); ok {
		dealt, died := w.Damage(b, max(0, dmg-b.Body().DFNS()), m.Tag)
		if dealt > 0 && !died {
			w.SayAt(room, "%s hits %s for %d damage.", world.Capitalize(m.Item.Core().Definite()), who(w, target), dealt)
		}
		if !isPlayer(w, target) && !b.Body().Dead() {
			b.Body().Hostile = true
		}
		if died && isPlayer(w, thrower) {
			xp := XPFor(b.Body())
			w.Player.GainXP(xp)
			w.Say("You gain %d XP.", xp)
		}
	} else {
		w.SayAt(room, "%s strikes %s.", world.Capitalize(m.Item.Core().Definite()), target.Core().Definite())
		if tb := target.Core(); tb.Breakable() {
			tb.Durability -= dmg
			if tb.Durability < 0 {
				w.SayAt(room, "%s breaks!", world.Capitalize(tb.Definite()))
				w.Destroy(target)
			}
		}
	}
	backlash(w, target, m)
}

func backlash(w *world.World, target world.Thing, m Missile) {
	mb := m.Item.Core()
	if !mb.Breakable() || mb.Parent() == nil {
		return
	}
	hard := target.Core().Durability
	if hard < 0 {
		hard = m.Speed * 2
	}
	mb.Durability -= max(0, hard-mb.Durability/2)
	if mb.Durability < 0 {
		w.SayAt(world.RoomOf(m.Item), "%s shatters.", world.Capitalize(mb.Definite()))
		w.Destroy(m.Item)
	}
}

// Fall drops t down through sky rooms until it reaches ground. Creatures
// take damage by the distance fallen. It returns the landing room.
func Fall(w *world.World, t world.Thing) (*world.Room, error) {
	room := world.RoomOf(t)
	if room == nil {
		return nil, nil
	}
	start := room.Altitude
	for room.Sky() {
		next, ok := w.Room(room.Links["down"])
		if !ok {
			break
		}
		room = next
	}
	dist := start - room.Altitude
	if dist <= 0 {
		return room, nil
	}
	b, isBeing := t.(world.Being)
	if !isBeing {
		if _, err := w.Put(t, room); err != nil {
			return nil, err
		}
		w.SayAt(room, "%s falls from above.", world.Capitalize(t.Core().Indefinite()))
		return room, nil
	}
	if b.Body().Status.Has("flying") {
		return world.RoomOf(t), nil
	}
	if err := w.Travel(b, room); err != nil {
		return nil, err
	}
	if isPlayer(w, t) {
		w.Game.Previous = w.Game.Current
		w.Game.Current = room.Key()
		w.Say("You fall!")
	} else {
		w.SayAt(room, "%s falls from above.", world.Capitalize(t.Core().Indefinite()))
	}
	w.Damage(b, w.RNG.DiceRoll(dist, 6, 0), "")
	return room, nil
}
