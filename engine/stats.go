package engine

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/nathoo/serpens/engine/tick"
	"github.com/nathoo/serpens/engine/world"
	"github.com/nathoo/serpens/types"
)

// statTable holds the short commands that report on the player and game.
// None of them take time.
func statTable() map[string]handler {
	return map[string]handler{
		"hp": func(e *Engine, _ types.Intent) result {
			p := e.World.Player
			e.say("HP: %d/%d", p.HP, p.MXHP())
			return instant
		},
		"mp": func(e *Engine, _ types.Intent) result {
			p := e.World.Player
			e.say("MP: %d/%d", p.MP, p.MXMP())
			return instant
		},
		"lv": func(e *Engine, _ types.Intent) result {
			e.say("Level %d", e.World.Player.LV())
			return instant
		},
		"xp": func(e *Engine, _ types.Intent) result {
			p := e.World.Player
			e.say("XP: %d (level %d)", p.XP, p.LV())
			return instant
		},
		"rp": func(e *Engine, _ types.Intent) result {
			e.say("Reputation: %d", e.World.Player.RP)
			return instant
		},
		"money": func(e *Engine, _ types.Intent) result {
			e.say("You have %d serpens.", e.World.Player.Money)
			return instant
		},
		"gear":      gear,
		"status":    status,
		"stats":     stats,
		"traits":    traits,
		"abilities": abilities,
		"spells":    spells,
		"time": func(e *Engine, _ types.Intent) result {
			e.timeLine()
			return instant
		},
		"here": func(e *Engine, _ types.Intent) result {
			e.describe(e.World.Here(), true)
			return instant
		},
		"room": func(e *Engine, _ types.Intent) result {
			e.say("You are in %s.", e.World.Here().Name)
			return instant
		},
		"commands": help,
		"examples": func(e *Engine, _ types.Intent) result {
			e.say("Try things like:")
			for _, ex := range e.Dict.Examples {
				e.say("  %s", ex)
			}
			return instant
		},
		"info": func(e *Engine, _ types.Intent) result {
			w := e.World
			e.say("%s, level %d, in %s. %s.", w.Player.Name, w.Player.LV(),
				w.Here().Name, world.Capitalize(tick.Clockface(w.Game.Time)))
			if w.Game.Cheats {
				e.say("Cheats are on.")
			}
			return instant
		},
		"quit": func(e *Engine, _ types.Intent) result {
			e.World.Game.Mode = world.ModeQuit
			e.say("Farewell.")
			return instant
		},
		"save": saveGame,
	}
}

func gear(e *Engine, _ types.Intent) result {
	p := e.World.Player
	for _, slot := range world.Slots {
		name := "nothing"
		if t, ok := p.Gear[slot]; ok && t != nil {
			name = t.Core().Indefinite()
		}
		e.say("%-10s %s", slotLabel(slot)+":", name)
	}
	return instant
}

func status(e *Engine, _ types.Intent) result {
	names := e.World.Player.Status.Names()
	if len(names) == 0 {
		e.say("You feel fine.")
		return instant
	}
	e.say("You are %s.", joinAnd(names))
	return instant
}

func stats(e *Engine, in types.Intent) result {
	p := e.World.Player
	e.say("%s, level %d", p.Name, p.LV())
	e.say("HP %d/%d  MP %d/%d  XP %d  RP %d", p.HP, p.MXHP(), p.MP, p.MXMP(), p.XP, p.RP)
	traits(e, in)
	return instant
}

func traits(e *Engine, _ types.Intent) result {
	p := e.World.Player
	parts := make([]string, 0, len(world.TraitNames))
	for _, n := range world.TraitNames {
		parts = append(parts, fmt.Sprintf("%s %d", strings.ToUpper(n), p.Trait(n)))
	}
	e.say("%s", strings.Join(parts, "  "))
	return instant
}

func abilities(e *Engine, _ types.Intent) result {
	p := e.World.Player
	var row []string
	for i, n := range world.AbilityNames {
		v, _ := p.Ability(n)
		row = append(row, fmt.Sprintf("%s %3d", n, v))
		if (i+1)%5 == 0 {
			e.say("%s", strings.Join(row, "  "))
			row = row[:0]
		}
	}
	if len(row) > 0 {
		e.say("%s", strings.Join(row, "  "))
	}
	return instant
}

func spells(e *Engine, _ types.Intent) result {
	p := e.World.Player
	if len(p.Spells) == 0 {
		e.say("You don't know any spells.")
		return instant
	}
	for _, name := range p.Spells {
		if sp, ok := e.Effects.Spells.Lookup(name); ok {
			e.say("%s (%d MP): %s", name, sp.Cost, sp.Desc)
		}
	}
	e.say("You can hold %d spells.", p.SPLS())
	return instant
}

func saveGame(e *Engine, _ types.Intent) result {
	if e.Slots == nil || e.SaveName == "" {
		e.say("This game can't be saved.")
		return rejected
	}
	if err := e.Slots.Save(e.World, e.SaveName); err != nil {
		e.Logger.Error("save failed", zap.String("name", e.SaveName), zap.Error(err))
		e.say("The game could not be saved.")
		return rejected
	}
	e.Logger.Info("game saved", zap.String("name", e.SaveName), zap.Int("time", e.World.Game.Time))
	e.say("Game saved as %s.", e.SaveName)
	return instant
}

// query answers a command that is just a trait or ability name.
func (e *Engine) query(cmd string) bool {
	word := strings.ToLower(strings.TrimSpace(cmd))
	if word == "" || strings.ContainsRune(word, ' ') || e.Dict.IsStatCommand(word) {
		return false
	}
	p := e.World.Player
	if _, ok := p.Traits.Get(word); ok {
		e.say("%s: %d", strings.ToUpper(word), p.Trait(word))
		return true
	}
	if v, ok := p.Ability(word); ok {
		e.say("%s: %d", strings.ToUpper(word), v)
		return true
	}
	return false
}
