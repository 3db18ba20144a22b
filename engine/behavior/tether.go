package behavior

import (
	"errors"
	"fmt"

	"github.com/nathoo/serpens/engine/world"
)

// Tether errors.
var (
	ErrUnwilling   = errors.New("unwilling")
	ErrNotRideable = errors.New("cannot be ridden")
	ErrBusy        = errors.New("already occupied")
	ErrSelf        = errors.New("cannot do that to yourself")
	ErrDeadTarget  = errors.New("already dead")
)

// RestrainTime is how long a successful restraint holds.
const RestrainTime = 5

func willing(c *world.Creature) bool {
	return c.Dead() || !c.Hostile || c.Status.Has("restrained")
}

// Carry makes carrier pick target up. A living hostile creature must be
// restrained first; the load must fit within the carrier's burden.
func Carry(w *world.World, carrier, target world.Being) error {
	cb, tb := carrier.Body(), target.Body()
	switch {
	case cb.Core() == tb.Core():
		return ErrSelf
	case cb.Carrying != 0 || tb.Carrier != 0:
		return ErrBusy
	case !cb.Hands:
		return world.ErrNoHands
	case cb.INVW()+target.Weight() > cb.BRDN():
		return fmt.Errorf("%s: %w", tb.Name, world.ErrTooHeavy)
	case !willing(tb):
		return fmt.Errorf("%s: %w", tb.Name, ErrUnwilling)
	}
	if err := w.LinkCarry(carrier, target); err != nil {
		return err
	}
	cb.UpdateBurden()
	w.SayAt(world.RoomOf(carrier), "%s %s up %s.", Who(w, carrier), conj(w, carrier, "pick", "picks"), who(w, target))
	return nil
}

// Release sets down whatever carrier holds.
func Release(w *world.World, carrier world.Being) error {
	cb := carrier.Body()
	target, ok := w.Carried(cb)
	if !ok {
		return world.ErrNotHeld
	}
	w.UnlinkCarry(carrier)
	cb.UpdateBurden()
	w.SayAt(world.RoomOf(carrier), "%s %s down %s.", Who(w, carrier), conj(w, carrier, "set", "sets"), who(w, target))
	return nil
}

// Ride puts rider on steed.
func Ride(w *world.World, rider, steed world.Being) error {
	rb, sb := rider.Body(), steed.Body()
	switch {
	case rb.Core() == sb.Core():
		return ErrSelf
	case !sb.Rideable || sb.Dead():
		return fmt.Errorf("%s: %w", sb.Name, ErrNotRideable)
	case rb.Riding != 0 || sb.Rider != 0 || rb.Carrier != 0:
		return ErrBusy
	case !willing(sb):
		return fmt.Errorf("%s: %w", sb.Name, ErrUnwilling)
	}
	if err := w.LinkRide(rider, steed); err != nil {
		return err
	}
	w.SayAt(world.RoomOf(rider), "%s %s onto %s.", Who(w, rider), conj(w, rider, "climb", "climbs"), who(w, steed))
	return nil
}

// Dismount takes rider off its steed.
func Dismount(w *world.World, rider world.Being) error {
	steed, ok := w.Steed(rider.Body())
	if !ok {
		return world.ErrNotHeld
	}
	w.UnlinkRide(rider)
	w.SayAt(world.RoomOf(rider), "%s %s off %s.", Who(w, rider), conj(w, rider, "climb", "climbs"), who(w, steed))
	return nil
}

// Restrain wrestles target into submission: RSTR plus a d20 on each side.
// It reports whether the hold succeeded.
func Restrain(w *world.World, actor, target world.Being) (bool, error) {
	ab, tb := actor.Body(), target.Body()
	switch {
	case ab.Core() == tb.Core():
		return false, ErrSelf
	case tb.Dead():
		return false, fmt.Errorf("%s: %w", tb.Name, ErrDeadTarget)
	}
	room := world.RoomOf(actor)
	mine := ab.RSTR() + w.RNG.Roll(20)
	theirs := tb.RSTR() + w.RNG.Roll(20)
	if mine <= theirs {
		w.SayAt(room, "%s %s free of %s.", Who(w, target), conj(w, target, "struggle", "struggles"), who(w, actor))
		if !isPlayer(w, target) {
			tb.Hostile = true
		}
		return false, nil
	}
	tb.Status.Add("restrained", RestrainTime)
	w.SayAt(room, "%s %s %s.", Who(w, actor), conj(w, actor, "restrain", "restrains"), who(w, target))
	return true, nil
}

// Hide conceals c until it acts or is spotted.
func Hide(w *world.World, b world.Being) error {
	c := b.Body()
	if c.Carrying != 0 || c.Carrier != 0 || c.Riding != 0 || c.Rider != 0 {
		return ErrBusy
	}
	c.Status.Add("hiding", world.Concealed)
	if isPlayer(w, b) {
		w.Say("You hide.")
	}
	return nil
}

// Unhide reveals c.
func Unhide(b world.Being) bool {
	return b.Body().Status.Remove("hiding")
}

// Spotted reports whether observer notices hider: always when hider is not
// hiding, otherwise when d100 <= observer KNWL - hider STLH.
func Spotted(w *world.World, observer, hider world.Being) bool {
	hb := hider.Body()
	if !hb.Status.Has("hiding") {
		return true
	}
	return w.RNG.Percent() <= observer.Body().KNWL()-hb.STLH()
}
