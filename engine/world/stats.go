package world

import (
	"strings"

	"github.com/nathoo/serpens/engine/dice"
)

// AbilityNames lists the derived stats alphabetically.
var AbilityNames = []string{
	"ACCU", "ATCK", "ATSP", "BLCK", "BRDN", "CAST", "CHRM", "CRIT",
	"DFNS", "ENDR", "EVSN", "FORT", "INVW", "KNWL", "LOOT", "LV",
	"MVMT", "MXHP", "MXMP", "POWR", "RSTR", "SPLS", "STLH", "TOLL",
}

func (c *Creature) str() int { return c.Trait("str") }
func (c *Creature) spd() int { return c.Trait("spd") }
func (c *Creature) skl() int { return c.Trait("skl") }
func (c *Creature) stm() int { return c.Trait("stm") }
func (c *Creature) con() int { return c.Trait("con") }
func (c *Creature) cha() int { return c.Trait("cha") }
func (c *Creature) intl() int { return c.Trait("int") }
func (c *Creature) wis() int { return c.Trait("wis") }
func (c *Creature) fth() int { return c.Trait("fth") }
func (c *Creature) lck() int { return c.Trait("lck") }

func (c *Creature) handheldWeight() int {
	w := 0
	for _, s := range []string{SlotLeft, SlotRight} {
		if g := c.Gear[s]; g != nil {
			w += g.Weight()
		}
	}
	return w
}

func (c *Creature) resting() bool {
	return c.Status.HasAny("sitting", "laying", "sleeping")
}

// ACCU is hit chance before the target's evasion.
func (c *Creature) ACCU() int { return c.AccuracyWith(c.Weapon()) }

// AccuracyWith is ACCU for a specific weapon.
func (c *Creature) AccuracyWith(w *Weapon) int {
	return max(0, 60+2*c.skl()+c.lck()+w.Sleight)
}

// ATCK rolls STR dice of the weapon's might.
func (c *Creature) ATCK(rng *dice.RNG) int { return c.AttackWith(rng, c.Weapon()) }

// AttackWith is ATCK for a specific weapon.
func (c *Creature) AttackWith(rng *dice.RNG, w *Weapon) int {
	return max(0, rng.DiceRoll(c.str(), max(1, w.Might), c.atkMod()))
}

// MeanATCK is the expected ATCK, for display.
func (c *Creature) MeanATCK() int {
	return max(0, c.str()*(max(1, c.Weapon().Might)+1)/2+c.atkMod())
}

func (c *Creature) atkMod() int {
	if c.Status.Has("enraged") {
		return c.str() / 2
	}
	return 0
}

// ATSP is attack speed: speed less what heavy hand gear costs.
func (c *Creature) ATSP() int {
	return max(0, c.spd()-max(0, c.handheldWeight()/4-c.con()))
}

// BLCK is the chance to turn a blow with a shield.
func (c *Creature) BLCK() int {
	prot := 0
	s1, s2 := c.Shields()
	if s1 != nil {
		prot += s1.Prot
	}
	if s2 != nil {
		prot += s2.Prot
	}
	return max(0, c.skl()+c.str()/2+prot)
}

// BRDN is how much weight can be carried before being hindered.
func (c *Creature) BRDN() int {
	return max(1, 12*c.con()+6*c.str()+3*c.fth()+c.BaseWeight)
}

// CAST is spell success chance.
func (c *Creature) CAST() int { return max(0, 50+2*c.intl()+c.wis()) }

// CHRM is how persuasive the creature is.
func (c *Creature) CHRM() int { return max(0, c.cha()+c.Love-c.Fear) }

// CRIT is critical hit chance.
func (c *Creature) CRIT() int { return c.CriticalWith(c.Weapon().Sharpness) }

// CriticalWith is CRIT for an edge of the given sharpness.
func (c *Creature) CriticalWith(sharpness int) int {
	return max(0, c.skl()+c.lck()+sharpness)
}

// DFNS subtracts from every incoming blow.
func (c *Creature) DFNS() int {
	prot := 0
	seen := map[*Base]bool{}
	for _, s := range Slots {
		g := c.Gear[s]
		if g == nil || seen[g.Core()] {
			continue
		}
		seen[g.Core()] = true
		switch it := g.(type) {
		case *Armor:
			prot += it.Prot
		case *Shield:
			prot += it.Prot
		}
	}
	return max(0, 2*c.con()+prot)
}

// ENDR is stamina against hunger, fatigue and slow regeneration.
func (c *Creature) ENDR() int { return max(1, 2*c.stm()+c.con()) }

// EVSN is dodge chance; resting creatures barely dodge.
func (c *Creature) EVSN() int {
	if c.resting() {
		return 10
	}
	return max(0, 2*c.ATSP()+c.lck()+c.spd())
}

// FORT is resistance to harmful conditions.
func (c *Creature) FORT() int { return max(0, 2*c.fth()+c.lck()) }

// INVW is the weight of the inventory plus any carried creature.
func (c *Creature) INVW() int {
	w := 0
	for _, t := range c.Inventory {
		w += t.Weight()
	}
	if c.carried != nil {
		w += c.carried.Weight()
	}
	return w
}

// KNWL is perception and lore.
func (c *Creature) KNWL() int { return max(0, 2*c.intl()+c.wis()) }

// LOOT scales the gold this creature finds on the fallen.
func (c *Creature) LOOT() int { return max(1, (2*c.lck()+c.cha())/10) }

// LV is the creature's level.
func (c *Creature) LV() int { return max(1, c.Level) }

// MVMT is movement: turn order and flight.
func (c *Creature) MVMT() int { return max(0, c.spd()+c.stm()+10-c.TOLL()) }

// MXHP is maximum HP.
func (c *Creature) MXHP() int {
	lv := c.LV()
	return lv*c.con() + (lv/10+1)*c.stm() + 1
}

// MXMP is maximum MP.
func (c *Creature) MXMP() int {
	lv := c.LV()
	return lv*c.wis() + (lv/10+1)*c.intl()
}

// POWR is spell strength.
func (c *Creature) POWR() int { return max(0, c.intl()+c.wis()+c.fth()/2) }

// RSTR is strength in grappling and restraint.
func (c *Creature) RSTR() int { return max(0, c.str()+c.skl()/2+c.BaseWeight/10) }

// SPLS is how many spells can be known.
func (c *Creature) SPLS() int { return 1 + c.intl()/5 }

// STLH is how hard the creature is to notice.
func (c *Creature) STLH() int { return max(0, c.skl()+c.spd()-c.INVW()/10) }

// TOLL is the movement cost of burden and armor.
func (c *Creature) TOLL() int {
	invToll := max(0, c.INVW()-c.BRDN()/2) / 10
	gearToll := 0
	for _, s := range []string{SlotHead, SlotBody, SlotLegs} {
		if a, ok := c.Gear[s].(*Armor); ok {
			gearToll += a.Weight()
		}
	}
	return invToll + gearToll/10
}

// Ability returns a derived stat by name. ATCK reports its mean.
func (c *Creature) Ability(name string) (int, bool) {
	switch strings.ToUpper(name) {
	case "ACCU":
		return c.ACCU(), true
	case "ATCK":
		return c.MeanATCK(), true
	case "ATSP":
		return c.ATSP(), true
	case "BLCK":
		return c.BLCK(), true
	case "BRDN":
		return c.BRDN(), true
	case "CAST":
		return c.CAST(), true
	case "CHRM":
		return c.CHRM(), true
	case "CRIT":
		return c.CRIT(), true
	case "DFNS":
		return c.DFNS(), true
	case "ENDR":
		return c.ENDR(), true
	case "EVSN":
		return c.EVSN(), true
	case "FORT":
		return c.FORT(), true
	case "INVW":
		return c.INVW(), true
	case "KNWL":
		return c.KNWL(), true
	case "LOOT":
		return c.LOOT(), true
	case "LV":
		return c.LV(), true
	case "MVMT":
		return c.MVMT(), true
	case "MXHP":
		return c.MXHP(), true
	case "MXMP":
		return c.MXMP(), true
	case "POWR":
		return c.POWR(), true
	case "RSTR":
		return c.RSTR(), true
	case "SPLS":
		return c.SPLS(), true
	case "STLH":
		return c.STLH(), true
	case "TOLL":
		return c.TOLL(), true
	}
	return 0, false
}

// Abilities returns every derived stat by name.
func (c *Creature) Abilities() map[string]int {
	out := make(map[string]int, len(AbilityNames))
	for _, n := range AbilityNames {
		out[n], _ = c.Ability(n)
	}
	return out
}
