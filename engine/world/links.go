package world

import "fmt"

// Carried returns the creature c is carrying, if any.
func (w *World) Carried(c *Creature) (Being, bool) { return w.Registry.Being(c.Carrying) }

// CarrierOf returns whoever carries c.
func (w *World) CarrierOf(c *Creature) (Being, bool) { return w.Registry.Being(c.Carrier) }

// Steed returns the creature c is riding.
func (w *World) Steed(c *Creature) (Being, bool) { return w.Registry.Being(c.Riding) }

// RiderOf returns the creature riding c.
func (w *World) RiderOf(c *Creature) (Being, bool) { return w.Registry.Being(c.Rider) }

// tethered reports whether b is already joined to target through any chain
// of carry and ride links.
func (w *World) tethered(b, target Being) bool {
	seen := map[ID]bool{}
	var walk func(c *Creature) bool
	walk = func(c *Creature) bool {
		if c.ID() == target.Core().ID() {
			return true
		}
		if seen[c.ID()] {
			return false
		}
		seen[c.ID()] = true
		for _, id := range []ID{c.Carrying, c.Carrier, c.Riding, c.Rider} {
			if next, ok := w.Registry.Being(id); ok && walk(next.Body()) {
				return true
			}
		}
		return false
	}
	return walk(b.Body())
}

// LinkCarry makes carrier carry target. The carried creature stays in the
// carrier's room and occupies the left hand.
func (w *World) LinkCarry(carrier, target Being) error {
	cb, tb := carrier.Body(), target.Body()
	if cb.Carrying != 0 || tb.Carrier != 0 {
		return &InvariantError{Msg: fmt.Sprintf("%s cannot carry %s: already tethered", cb.Name, tb.Name)}
	}
	if w.tethered(carrier, target) {
		return &InvariantError{Msg: fmt.Sprintf("tether loop between %s and %s", cb.Name, tb.Name)}
	}
	if cb.parent != nil && !sameHolder(tb.parent, cb.parent) {
		if err := Move(target, cb.parent); err != nil {
			return err
		}
	}
	cb.FreeLeftHand()
	cb.Carrying = tb.ID()
	cb.carried = target
	tb.Carrier = cb.ID()
	tb.Status.Add("carried", Sticky)
	return nil
}

// UnlinkCarry releases whatever carrier holds.
func (w *World) UnlinkCarry(carrier Being) {
	cb := carrier.Body()
	if t, ok := w.Carried(cb); ok {
		t.Body().Carrier = 0
		t.Body().Status.Remove("carried")
	}
	cb.Carrying = 0
	cb.carried = nil
}

// LinkRide puts rider on steed.
func (w *World) LinkRide(rider, steed Being) error {
	rb, sb := rider.Body(), steed.Body()
	if rb.Riding != 0 || sb.Rider != 0 {
		return &InvariantError{Msg: fmt.Sprintf("%s cannot ride %s: already tethered", rb.Name, sb.Name)}
	}
	if w.tethered(rider, steed) {
		return &InvariantError{Msg: fmt.Sprintf("tether loop between %s and %s", rb.Name, sb.Name)}
	}
	if sb.parent != nil && !sameHolder(rb.parent, sb.parent) {
		if err := Move(rider, sb.parent); err != nil {
			return err
		}
	}
	rb.Riding = sb.ID()
	sb.Rider = rb.ID()
	rb.Status.Add("riding", Sticky)
	return nil
}

// UnlinkRide takes rider off its steed.
func (w *World) UnlinkRide(rider Being) {
	rb := rider.Body()
	if s, ok := w.Steed(rb); ok {
		s.Body().Rider = 0
	}
	rb.Riding = 0
	rb.Status.Remove("riding")
}

// UnlinkAll severs every carry and ride link touching b.
func (w *World) UnlinkAll(b Being) {
	c := b.Body()
	w.UnlinkCarry(b)
	if carrier, ok := w.CarrierOf(c); ok {
		w.UnlinkCarry(carrier)
	}
	c.Carrier = 0
	w.UnlinkRide(b)
	if rider, ok := w.RiderOf(c); ok {
		w.UnlinkRide(rider)
	}
	c.Rider = 0
}

// Relink rebuilds the cached carry pointers after a load.
func (w *World) Relink() error {
	for _, t := range w.Registry.All() {
		b, ok := t.(Being)
		if !ok {
			continue
		}
		c := b.Body()
		c.carried = nil
		if c.Carrying == 0 {
			continue
		}
		carried, ok := w.Carried(c)
		if !ok {
			return &InvariantError{Msg: fmt.Sprintf("%s carries missing creature %d", c.Name, c.Carrying)}
		}
		c.carried = carried
	}
	return nil
}

// Travel moves b to room together with anything it carries, its steed and
// its rider.
func (w *World) Travel(b Being, room *Room) error {
	group := []Being{b}
	seen := map[ID]bool{b.Core().ID(): true}
	for i := 0; i < len(group); i++ {
		c := group[i].Body()
		for _, id := range []ID{c.Carrying, c.Riding, c.Rider} {
			if id == 0 || seen[id] {
				continue
			}
			if other, ok := w.Registry.Being(id); ok {
				seen[id] = true
				group = append(group, other)
			}
		}
	}
	for _, g := range group {
		if err := Move(g, room); err != nil {
			return err
		}
	}
	return nil
}
