package world

import (
	"sort"
	"strings"
)

// Room kinds.
const (
	RoomRoad    = "road"
	RoomShelter = "shelter"
	RoomNone    = "none"
)

// Room is a location. Rooms are keyed by lowercased name and never
// registered by ID.
type Room struct {
	Name      string
	Domain    string
	Desc      string
	Links     map[string]string // direction -> room key
	Fixtures  []Thing
	Items     []Thing
	Creatures []Being
	Size      int
	Type      string
	Altitude  int // <= -1 indoor, 0 outdoor, > 0 sky
	Passprep  string
	Status    Statuses
}

// NewRoom creates an empty room.
func NewRoom(name, domain, desc string) *Room {
	return &Room{
		Name:     name,
		Domain:   domain,
		Desc:     desc,
		Links:    map[string]string{},
		Size:     100,
		Type:     RoomNone,
		Passprep: "through",
	}
}

// Key is the room's registry key.
func (r *Room) Key() string { return strings.ToLower(r.Name) }

func (r *Room) HolderName() string { return r.Name }

// Contents lists fixtures, then items, then creatures.
func (r *Room) Contents() []Thing {
	out := make([]Thing, 0, len(r.Fixtures)+len(r.Items)+len(r.Creatures))
	out = append(out, r.Fixtures...)
	out = append(out, r.Items...)
	for _, c := range r.Creatures {
		out = append(out, c)
	}
	return out
}

func (r *Room) accept(t Thing) {
	switch {
	case isBeing(t):
		r.Creatures = append(r.Creatures, t.(Being))
	case t.Core().Fixed:
		r.Fixtures = append(r.Fixtures, t)
	default:
		r.Items = append(r.Items, t)
	}
}

func (r *Room) release(t Thing) bool {
	if isBeing(t) {
		for i, c := range r.Creatures {
			if c.Core() == t.Core() {
				r.Creatures = append(r.Creatures[:i], r.Creatures[i+1:]...)
				return true
			}
		}
		return false
	}
	var ok bool
	if t.Core().Fixed {
		r.Fixtures, ok = removeThing(r.Fixtures, t)
		if ok {
			return true
		}
	}
	r.Items, ok = removeThing(r.Items, t)
	return ok
}

func isBeing(t Thing) bool {
	_, ok := t.(Being)
	return ok
}

// Indoor reports whether the room is under a roof.
func (r *Room) Indoor() bool { return r.Altitude <= -1 }

// Sky reports whether the room hangs in the air; things fall from it.
func (r *Room) Sky() bool { return r.Altitude > 0 }

// Portals returns the traversable fixtures.
func (r *Room) Portals() []Traversable {
	var out []Traversable
	for _, f := range r.Fixtures {
		if p, ok := f.(Traversable); ok {
			out = append(out, p)
		}
	}
	return out
}

// Living returns the creatures that are not dead.
func (r *Room) Living() []Being {
	var out []Being
	for _, c := range r.Creatures {
		if !c.Body().Dead() {
			out = append(out, c)
		}
	}
	return out
}

// SortByMovement orders creatures by MVMT descending; ties keep their order.
func (r *Room) SortByMovement() {
	sort.SliceStable(r.Creatures, func(i, j int) bool {
		return r.Creatures[i].Body().MVMT() > r.Creatures[j].Body().MVMT()
	})
}

// Gold returns the room's loose gold stack, if any.
func (r *Room) Gold() *Serpens {
	for _, t := range r.Items {
		if g, ok := t.(*Serpens); ok {
			return g
		}
	}
	return nil
}
