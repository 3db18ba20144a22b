package effects

import (
	"errors"
	"fmt"
	"sort"

	"github.com/nathoo/serpens/engine/world"
)

// Spell errors.
var (
	ErrUnknownSpell = errors.New("no such spell")
	ErrNotKnown     = errors.New("spell not learned")
	ErrNoMana       = errors.New("not enough MP")
	ErrNeedsTarget  = errors.New("spell needs a target")
)

// Spell is a castable effect with an MP cost. Cast runs only after the
// cost is paid and the casting roll succeeds.
type Spell struct {
	Name   string
	Cost   int
	Target bool // needs something to aim at
	Desc   string
	Cast   func(w *world.World, caster world.Being, target world.Thing) error
}

// Spells is the registry of castable spells.
type Spells struct {
	byName map[string]Spell
}

// NewSpells returns the registry with the built-in spells.
func NewSpells() *Spells {
	s := &Spells{byName: map[string]Spell{}}
	for _, sp := range builtinSpells() {
		s.Register(sp)
	}
	return s
}

// Register adds or replaces a spell.
func (s *Spells) Register(sp Spell) {
	s.byName[sp.Name] = sp
}

// Lookup returns a spell by name.
func (s *Spells) Lookup(name string) (Spell, bool) {
	sp, ok := s.byName[name]
	return sp, ok
}

// Names lists the spells, sorted.
func (s *Spells) Names() []string {
	out := make([]string, 0, len(s.byName))
	for n := range s.byName {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Cast has caster cast the named spell. The player may only cast spells
// it has learned. MP is spent even when the casting roll fails; it reports
// whether the spell took effect.
func (s *Spells) Cast(w *world.World, caster world.Being, name string, target world.Thing) (bool, error) {
	sp, ok := s.byName[name]
	if !ok {
		return false, fmt.Errorf("%s: %w", name, ErrUnknownSpell)
	}
	if p, isPlayer := caster.(*world.Player); isPlayer && !p.Knows(name) {
		return false, fmt.Errorf("%s: %w", name, ErrNotKnown)
	}
	if sp.Target && target == nil {
		return false, fmt.Errorf("%s: %w", name, ErrNeedsTarget)
	}
	c := caster.Body()
	if !c.SpendMP(sp.Cost) {
		return false, fmt.Errorf("%s: %w", name, ErrNoMana)
	}
	if !w.RNG.Chance(min(95, c.CAST())) {
		w.SayAt(world.RoomOf(caster), "The %s spell fizzles.", name)
		return false, nil
	}
	if err := sp.Cast(w, caster, target); err != nil {
		return false, err
	}
	return true, nil
}

func builtinSpells() []Spell {
	return []Spell{
		{
			Name: "heal", Cost: 4, Desc: "Close your wounds.",
			Cast: func(w *world.World, caster world.Being, _ world.Thing) error {
				n := caster.Body().Heal(max(1, caster.Body().POWR()/2))
				w.SayAt(world.RoomOf(caster), "Warmth spreads through %s. (+%d HP)", subject(w, caster), n)
				return nil
			},
		},
		{
			Name: "mend", Cost: 3, Target: true, Desc: "Repair a broken or dulled object.",
			Cast: func(w *world.World, caster world.Being, target world.Thing) error {
				switch t := target.(type) {
				case *world.Window:
					t.Broken = false
				case *world.Weapon:
					t.Sharpness++
				default:
					w.Say("Nothing about %s needs mending.", target.Core().Definite())
					return nil
				}
				w.Say("%s looks as good as new.", world.Capitalize(target.Core().Definite()))
				return nil
			},
		},
		{
			Name: "fireball", Cost: 6, Target: true, Desc: "Hurl fire at a creature.",
			Cast: func(w *world.World, caster world.Being, target world.Thing) error {
				b, ok := target.(world.Being)
				if !ok {
					w.Say("The flames wash harmlessly over %s.", target.Core().Definite())
					return nil
				}
				dmg := w.RNG.DiceRoll(1+caster.Body().POWR()/10, 6, 0)
				dealt, died := w.Damage(b, dmg, "f")
				if !died {
					b.Body().Status.Add("burning", 3)
				}
				w.SayAt(world.RoomOf(caster), "Fire engulfs %s! (%d damage)", b.Core().Definite(), dealt)
				return nil
			},
		},
		{
			Name: "shield", Cost: 4, Desc: "Harden your skin.",
			Cast: func(w *world.World, caster world.Being, _ world.Thing) error {
				caster.Body().Status.Add("shielded", 20)
				w.SayAt(world.RoomOf(caster), "A shimmering ward surrounds %s.", subject(w, caster))
				return nil
			},
		},
		{
			Name: "light", Cost: 2, Desc: "Light the room around you.",
			Cast: func(w *world.World, caster world.Being, _ world.Thing) error {
				return light(w, caster, Params{"duration": 100})
			},
		},
		{
			Name: "haste", Cost: 5, Desc: "Move faster for a while.",
			Cast: func(w *world.World, caster world.Being, _ world.Thing) error {
				caster.Body().Status.Add("hastened", 20)
				w.SayAt(world.RoomOf(caster), "Everything around %s slows down.", subject(w, caster))
				return nil
			},
		},
	}
}

func subject(w *world.World, b world.Being) string {
	if w.Player != nil && b.Core() == w.Player.Core() {
		return "you"
	}
	return b.Core().Definite()
}
