package engine

import (
	"slices"
	"strings"

	"github.com/nathoo/serpens/engine/world"
)

// bareHands are the words that mean fighting without a weapon.
var bareHands = map[string]bool{
	"fist": true, "fists": true, "hand": true, "hands": true,
	"bare hands": true, "bare hand": true,
}

// lexicon tells the parser which phrases name something the player could
// mean: anything in the rendered rooms or carried.
type lexicon struct{ e *Engine }

func (l lexicon) Meaningful(phrase string) bool {
	w := l.e.World
	phrase = strings.ToLower(phrase)
	if bareHands[phrase] || phrase == "left hand" || phrase == "right hand" {
		return true
	}
	if _, ok := w.Room(phrase); ok {
		return true
	}
	if world.IsKind(phrase) || slices.Contains(l.e.Effects.Spells.Names(), phrase) {
		return true
	}
	found := false
	check := func(t world.Thing) {
		if !found && t.Core().Named(phrase) {
			found = true
		}
	}
	if w.Player != nil {
		world.Walk(w.Player, check)
	}
	if here := w.Here(); here != nil {
		world.Walk(here, check)
	}
	for _, key := range w.Game.Rendered {
		if found {
			break
		}
		if r, ok := w.Room(key); ok {
			world.Walk(r, check)
		}
	}
	return found
}

// referent is the parser's view of the pronoun slots: the name of the
// object the slot points at.
func (e *Engine) referent(slot string) string {
	t, ok := e.World.Referent(slot)
	if !ok {
		return ""
	}
	if isPlayer(e, t) {
		return ""
	}
	return strings.ToLower(t.Core().Name)
}
