package world

import (
	"fmt"
	"strings"
)

// CheckInvariants verifies the structural rules of the object graph and
// returns every violation found.
func CheckInvariants(w *World) []error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, &InvariantError{Msg: fmt.Sprintf(format, args...)})
	}

	seen := map[ID]string{}
	var walk func(h Holder, where string)
	walk = func(h Holder, where string) {
		for _, t := range h.Contents() {
			b := t.Core()
			if b.parent == nil || !sameHolder(b.parent, h) {
				fail("%s is listed in %s but its parent is %v", b.Name, where, holderName(b.parent))
			}
			if b.id == 0 {
				fail("%s in %s is not registered", b.Name, where)
			} else {
				if prev, dup := seen[b.id]; dup {
					fail("%s (id %d) appears in both %s and %s", b.Name, b.id, prev, where)
				}
				seen[b.id] = where
				if reg, ok := w.Registry.Lookup(b.id); !ok || reg.Core() != b {
					fail("registry entry %d does not match %s", b.id, b.Name)
				}
			}
			for _, st := range b.Status {
				if !ValidDuration(st.Duration) {
					fail("%s has status %s with duration %d", b.Name, st.Name, st.Duration)
				}
			}
			if inner, ok := t.(Holder); ok {
				walk(inner, b.Name)
			}
		}
	}

	for key, r := range w.Rooms {
		if key != strings.ToLower(key) || key != r.Key() {
			fail("room %q is filed under %q", r.Name, key)
		}
		for _, st := range r.Status {
			if !ValidDuration(st.Duration) {
				fail("room %s has status %s with duration %d", r.Name, st.Name, st.Duration)
			}
		}
		for dir, to := range r.Links {
			if dict.ExpandDirection(dir) != dir {
				fail("room %s links through unknown direction %q", r.Name, dir)
			}
			if _, ok := w.Room(to); !ok {
				fail("room %s links %s to unknown room %q", r.Name, dir, to)
			}
		}
		walk(r, r.Name)
	}

	for _, t := range w.Registry.All() {
		if b, ok := t.(Being); ok {
			errs = append(errs, checkCreature(w, b)...)
		}
		if p, ok := t.(Traversable); ok {
			errs = append(errs, checkPortal(w, p)...)
		}
	}
	return errs
}

func holderName(h Holder) string {
	if h == nil {
		return "nothing"
	}
	return h.HolderName()
}

func checkCreature(w *World, b Being) []error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, &InvariantError{Msg: fmt.Sprintf(format, args...)})
	}
	c := b.Body()

	pairs := []struct {
		out, back string
		id        ID
		get       func(*Creature) ID
	}{
		{"carries", "carrier", c.Carrying, func(o *Creature) ID { return o.Carrier }},
		{"is carried by", "carrying", c.Carrier, func(o *Creature) ID { return o.Carrying }},
		{"rides", "rider", c.Riding, func(o *Creature) ID { return o.Rider }},
		{"is ridden by", "riding", c.Rider, func(o *Creature) ID { return o.Riding }},
	}
	for _, p := range pairs {
		if p.id == 0 {
			continue
		}
		other, ok := w.Registry.Being(p.id)
		if !ok {
			fail("%s %s missing creature %d", c.Name, p.out, p.id)
			continue
		}
		if p.get(other.Body()) != c.ID() {
			fail("%s %s %s, but its %s link does not point back", c.Name, p.out, other.Core().Name, p.back)
		}
		if !sameHolder(other.Core().parent, c.parent) {
			fail("%s %s %s in a different place", c.Name, p.out, other.Core().Name)
		}
	}

	dead := c.Status.Has("dead")
	if dead != (c.TimeOfDeath >= 0) || dead != (c.HP == 0) {
		fail("%s: dead=%v timeOfDeath=%d hp=%d disagree", c.Name, dead, c.TimeOfDeath, c.HP)
	}
	if c.HP < 0 || c.MP < 0 {
		fail("%s has negative hp or mp", c.Name)
	}
	for _, s := range Slots {
		g := c.Gear[s]
		if g != nil && !c.Has(g) {
			fail("%s has %s equipped in %s but not in inventory", c.Name, g.Core().Name, s)
		}
	}
	if c.Carrying != 0 && c.Gear[SlotLeft] != nil {
		fail("%s carries a creature with a full left hand", c.Name)
	}
	return errs
}

func checkPortal(w *World, p Traversable) []error {
	var errs []error
	for dir, l := range p.PortalLinks() {
		if dict.ExpandDirection(dir) != dir {
			errs = append(errs, &InvariantError{Msg: fmt.Sprintf("portal %s uses unknown direction %q", p.Core().Name, dir)})
		}
		_, far, err := w.LinkTarget(l)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if far == nil {
			continue
		}
		mutual := false
		for _, back := range far.PortalLinks() {
			if back.Portal == p.Core().ID() {
				mutual = true
			}
		}
		if !mutual {
			errs = append(errs, &InvariantError{Msg: fmt.Sprintf("portal %s links to %s, which does not link back", p.Core().Name, far.Core().Name)})
		}
	}
	return errs
}
