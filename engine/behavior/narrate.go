// Package behavior holds what creatures do: fighting, throwing, falling,
// carrying, riding, hiding and the per-tick choices of non-player creatures.
package behavior

import (
	"github.com/nathoo/serpens/engine/world"
)

func isPlayer(w *world.World, t world.Thing) bool {
	return t != nil && w.Player != nil && t.Core() == w.Player.Core()
}

// who names t as a sentence subject or object: "you" for the player.
func who(w *world.World, t world.Thing) string {
	if isPlayer(w, t) {
		return "you"
	}
	return t.Core().Definite()
}

// Who is who, capitalized for the start of a line.
func Who(w *world.World, t world.Thing) string {
	return world.Capitalize(who(w, t))
}

// conj picks the verb form for t: "attack" for the player, "attacks" otherwise.
func conj(w *world.World, t world.Thing, plain, third string) string {
	if isPlayer(w, t) {
		return plain
	}
	return third
}

func possessive(w *world.World, t world.Thing) string {
	if isPlayer(w, t) {
		return "your"
	}
	switch t.Core().Pronoun {
	case "he":
		return "his"
	case "she":
		return "her"
	case "they":
		return "their"
	}
	return "its"
}

// weaponPhrase is "your hand", "its fangs" or "his sword".
func weaponPhrase(w *world.World, wielder world.Thing, wp *world.Weapon) string {
	return possessive(w, wielder) + " " + wp.Name
}
