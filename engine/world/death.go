package world

import (
	"go.uber.org/zap"

	"github.com/nathoo/serpens/engine/dice"
)

// CorpseLifetime is how many ticks a corpse lingers outside the current
// room before it is reaped.
const CorpseLifetime = 299

// Damage applies a hit to b and kills it if its HP reaches zero. It
// returns the HP lost and whether b died.
func (w *World) Damage(b Being, amount int, tag string) (int, bool) {
	c := b.Body()
	dealt := c.TakeDamage(amount, tag)
	if c.HP == 0 && !c.Dead() {
		w.Kill(b)
		return dealt, true
	}
	return dealt, false
}

// Kill marks b dead, cuts its tethers and drops its purse as gold. The
// corpse stays where it fell.
func (w *World) Kill(b Being) *Serpens {
	c := b.Body()
	c.HP = 0
	c.Status.Add("dead", Permanent)
	c.TimeOfDeath = w.Game.Time
	c.Hostile = false
	w.UnlinkAll(b)
	w.SayAt(RoomOf(b), "%s died.", Capitalize(c.Definite()))
	w.Logger.Debug("creature died", zap.String("name", c.Name), zap.Uint64("id", uint64(c.ID())))

	if _, isPlayer := b.(*Player); isPlayer {
		w.Game.Mode = ModeDead
		return nil
	}
	holder := c.parent
	if holder == nil {
		return nil
	}
	looter := 1
	if w.Player != nil {
		looter = w.Player.LOOT()
	}
	value := dice.Clamp(w.RNG.DiceRoll(3, looter, -2), 1, max(1, 3*looter-2))
	// The creature's own purse comes on top of the loot roll.
	value += c.Money
	c.Money = 0
	gold, _ := w.Spawn(NewSerpens(value), holder).(*Serpens)
	return gold
}

// Revive brings a dead creature back with the given HP.
func (w *World) Revive(b Being, hp int) {
	c := b.Body()
	if !c.Dead() {
		return
	}
	c.Status.Remove("dead")
	c.TimeOfDeath = -1
	c.HP = max(1, min(hp, c.MXHP()))
	if _, isPlayer := b.(*Player); isPlayer {
		w.Game.Mode = ModePlay
	}
}

// Rotten reports whether a corpse has lingered past its lifetime.
func (w *World) Rotten(c *Creature) bool {
	return c.Dead() && c.TimeOfDeath >= 0 && w.Game.Time-c.TimeOfDeath > CorpseLifetime
}
