// Package world holds the object model: rooms, items, creatures, the ID
// registry and the World that owns them all.
package world

import (
	"fmt"
	"strings"
)

// Thing is any item or creature. Rooms are not Things.
type Thing interface {
	Core() *Base
	Class() string
	Weight() int
}

// Holder is anything that owns other Things: rooms, containers and creatures.
type Holder interface {
	Contents() []Thing
	HolderName() string
	accept(t Thing)
	release(t Thing) bool
}

// Base carries the fields every item and creature shares.
type Base struct {
	id          ID
	parent      Holder
	Name        string
	Desc        string
	BaseWeight  int
	Durability  int // -1 is unbreakable
	Composition string
	Status      Statuses
	Aliases     []string
	Plural      string
	Determiner  string
	Pronoun     string
	Fixed       bool
	Longevity   int
	Despawn     int
	Scent       string
	Taste       string
	Texture     string
}

// Core returns the shared fields. Every concrete kind gets it by embedding.
func (b *Base) Core() *Base { return b }

// ID returns the registry identity, zero until registered.
func (b *Base) ID() ID { return b.id }

// SetID assigns an identity read from a save; Registry.Adopt must follow.
func (b *Base) SetID(id ID) { b.id = id }

// Parent returns the holder that owns this object, or nil.
func (b *Base) Parent() Holder { return b.parent }

// Weight is the object's own weight.
func (b *Base) Weight() int { return b.BaseWeight }

// Named reports whether term is this object's name, plural or an alias.
func (b *Base) Named(term string) bool {
	term = strings.ToLower(term)
	if strings.ToLower(b.Name) == term || (b.Plural != "" && strings.ToLower(b.Plural) == term) {
		return true
	}
	for _, a := range b.Aliases {
		if strings.ToLower(a) == term {
			return true
		}
	}
	return false
}

// Nouns returns every name the object answers to.
func (b *Base) Nouns() []string {
	out := []string{strings.ToLower(b.Name)}
	if b.Plural != "" {
		out = append(out, strings.ToLower(b.Plural))
	}
	for _, a := range b.Aliases {
		out = append(out, strings.ToLower(a))
	}
	return out
}

// Indefinite returns "a sword", "an apple", "some bread" or a proper name.
func (b *Base) Indefinite() string {
	switch b.Determiner {
	case "":
		return "the " + b.Name
	case "-":
		return b.Name
	}
	return b.Determiner + " " + b.Name
}

// Definite returns "the sword" or a proper name.
func (b *Base) Definite() string {
	if b.Determiner == "-" {
		return b.Name
	}
	return "the " + b.Name
}

// Breakable reports whether the object can be destroyed.
func (b *Base) Breakable() bool { return b.Durability >= 0 }

func (b *Base) String() string {
	return fmt.Sprintf("%s#%d", b.Name, b.id)
}

// Sensory descriptions default to the composition's entries in the dictionary.
func (b *Base) describeSense(own string, table map[string]string) string {
	if own != "" {
		return own
	}
	if s, ok := table[b.Composition]; ok {
		return s
	}
	return ""
}

// TextureText, TasteText and ScentText return the sensory lines for the object.
func (b *Base) TextureText() string { return b.describeSense(b.Texture, dict.Textures) }
func (b *Base) TasteText() string   { return b.describeSense(b.Taste, dict.Tastes) }
func (b *Base) ScentText() string   { return b.describeSense(b.Scent, dict.Scents) }

func newBase(name, desc string, weight int, composition string) Base {
	det := "a"
	if name != "" && strings.ContainsRune("aeiou", rune(strings.ToLower(name)[0])) {
		det = "an"
	}
	return Base{
		Name:        name,
		Desc:        desc,
		BaseWeight:  weight,
		Durability:  -1,
		Composition: composition,
		Determiner:  det,
		Pronoun:     "it",
	}
}

// Attach records t as a child of h without detaching it from anything.
// Loaders use it to rebuild parents; gameplay uses Move.
func Attach(t Thing, h Holder) {
	h.accept(t)
	t.Core().parent = h
}

// Detach removes t from its parent. It reports false if t was unowned.
func Detach(t Thing) bool {
	b := t.Core()
	if b.parent == nil {
		return false
	}
	ok := b.parent.release(t)
	b.parent = nil
	return ok
}

// Move transfers t into dest, keeping every object in exactly one holder.
// Moving a holder into itself or one of its own descendants is refused.
func Move(t Thing, dest Holder) error {
	if h, ok := t.(Holder); ok {
		if holderContains(h, dest) {
			return &InvariantError{Msg: fmt.Sprintf("cannot put %s inside itself", t.Core().Name)}
		}
	}
	Detach(t)
	Attach(t, dest)
	return nil
}

// holderContains reports whether dest is h or nested somewhere inside h.
func holderContains(h Holder, dest Holder) bool {
	if dest == nil {
		return false
	}
	if sameHolder(h, dest) {
		return true
	}
	for _, c := range h.Contents() {
		if inner, ok := c.(Holder); ok && holderContains(inner, dest) {
			return true
		}
	}
	return false
}

func sameHolder(a, b Holder) bool {
	at, aok := a.(Thing)
	bt, bok := b.(Thing)
	if aok && bok {
		return at.Core() == bt.Core()
	}
	return a == b
}

// Ancestors walks the parent chain of t, nearest first.
func Ancestors(t Thing) []Holder {
	var out []Holder
	seen := map[Holder]bool{}
	for h := t.Core().parent; h != nil; {
		if seen[h] {
			break
		}
		seen[h] = true
		out = append(out, h)
		ht, ok := h.(Thing)
		if !ok {
			break
		}
		h = ht.Core().parent
	}
	return out
}

// RoomOf returns the room t ultimately sits in, or nil.
func RoomOf(t Thing) *Room {
	for _, h := range Ancestors(t) {
		if r, ok := h.(*Room); ok {
			return r
		}
	}
	return nil
}

// HeldBy reports whether holder appears anywhere in t's parent chain.
func HeldBy(t Thing, holder Holder) bool {
	for _, h := range Ancestors(t) {
		if sameHolder(h, holder) {
			return true
		}
	}
	return false
}

func removeThing(list []Thing, t Thing) ([]Thing, bool) {
	for i, x := range list {
		if x.Core() == t.Core() {
			return append(list[:i], list[i+1:]...), true
		}
	}
	return list, false
}

// Walk visits every object nested under h, depth first, parents before
// children.
func Walk(h Holder, fn func(Thing)) {
	for _, t := range h.Contents() {
		fn(t)
		if inner, ok := t.(Holder); ok {
			Walk(inner, fn)
		}
	}
}
