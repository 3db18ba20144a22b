package behavior

import (
	"go.uber.org/zap"

	"github.com/nathoo/serpens/engine/dice"
	"github.com/nathoo/serpens/engine/world"
)

// Outcome summarizes one salvo.
type Outcome struct {
	Swings int
	Hits   int
	Dealt  int
	Killed bool
	XP     int
}

// DamageCalc is max(0, atk - dfns), doubled on a critical hit.
func DamageCalc(atk, dfns int, crit bool) int {
	dmg := max(0, atk-dfns)
	if crit {
		dmg *= 2
	}
	return dmg
}

// Swings is how many blows a salvo lands: the attacker's speed over the
// target's, at least one.
func Swings(attacker, target *world.Creature) int {
	return max(1, attacker.ATSP()/max(1, target.ATSP()))
}

// XPFor is the experience a kill is worth.
func XPFor(c *world.Creature) int { return 10 * c.LV() }

// Attack runs a salvo from attacker against target. With a nil weapon the
// attacker fights with whatever it holds, and a second weapon follows up
// each primary blow. Attacking makes the target hostile.
func Attack(w *world.World, attacker, target world.Being, weapon *world.Weapon) Outcome {
	a, t := attacker.Body(), target.Body()
	var second *world.Weapon
	if weapon == nil {
		weapon, second = a.Weapons()
	}
	room := world.RoomOf(attacker)
	w.SayAt(room, "%s %s %s with %s.", Who(w, attacker), conj(w, attacker, "attack", "attacks"),
		who(w, target), weaponPhrase(w, attacker, weapon))

	var out Outcome
	n := Swings(a, t)
	for i := 0; i < n && !t.Dead(); i++ {
		strike(w, attacker, target, weapon, &out)
		if second != nil && !t.Dead() {
			strike(w, attacker, target, second, &out)
		}
	}
	if !t.Dead() && !isPlayer(w, target) {
		t.Hostile = true
	}
	out.Killed = t.Dead()
	w.Logger.Debug("salvo",
		zap.String("attacker", a.Name), zap.String("target", t.Name),
		zap.Int("swings", out.Swings), zap.Int("hits", out.Hits), zap.Int("dealt", out.Dealt))

	if out.Killed && isPlayer(w, attacker) {
		out.XP = XPFor(t)
		levels := w.Player.GainXP(out.XP)
		w.Say("You gain %d XP.", out.XP)
		if levels > 0 {
			w.Say("You are now level %d!", w.Player.LV())
		}
	}
	return out
}

func strike(w *world.World, attacker, target world.Being, wp *world.Weapon, out *Outcome) {
	a, t := attacker.Body(), target.Body()
	room := world.RoomOf(attacker)
	out.Swings++

	odds := dice.Clamp(a.AccuracyWith(wp)-t.EVSN(), 1, 99)
	if !w.RNG.Chance(odds) {
		switch {
		case isPlayer(w, attacker):
			w.Say("Aw it missed.")
		case isPlayer(w, target):
			w.Say("%s misses you.", Who(w, attacker))
		default:
			w.SayAt(room, "%s misses %s.", Who(w, attacker), who(w, target))
		}
		return
	}
	out.Hits++

	crit := w.RNG.Chance(a.CriticalWith(wp.Sharpness))
	dmg := DamageCalc(a.AttackWith(w.RNG, wp), t.DFNS(), crit)
	if crit {
		w.SayAt(room, "A critical hit!")
		if !wp.Improvised && wp.Dull() {
			w.SayAt(room, "%s %s dulls.", world.Capitalize(possessive(w, attacker)), wp.Name)
		}
	}
	hp := t.HP
	dealt, _ := w.Damage(target, dmg, wp.DamageType)
	out.Dealt += dealt
	switch {
	case dealt == 0:
		w.SayAt(room, "The blow glances off %s.", who(w, target))
	case isPlayer(w, target):
		w.Say("%s %s you for %d damage. (%d/%d HP)", Who(w, attacker), conj(w, attacker, "hit", "hits"), dealt, t.HP, t.MXHP())
	default:
		w.SayAt(room, "%s %s %s for %d damage.", Who(w, attacker), conj(w, attacker, "hit", "hits"), who(w, target), dealt)
	}
	if dealt > 0 && hp > 1 && t.HP == 1 && wp.DamageType == "b" {
		w.SayAt(room, "%s %s dazed.", Who(w, target), conj(w, target, "are", "is"))
	}
}
