package engine

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/nathoo/serpens/engine/world"
)

// cheat runs a backslash command. Cheats never take time.
func (e *Engine) cheat(line string) bool {
	w, p := e.World, e.World.Player
	if !e.Cheats && !w.Game.Cheats {
		e.say("Cheats are disabled.")
		e.failed()
		return false
	}
	fields := strings.Fields(strings.ToLower(strings.TrimPrefix(line, `\`)))
	if len(fields) == 0 {
		return false
	}
	code, args := fields[0], fields[1:]
	arg := strings.Join(args, " ")
	e.Logger.Info("cheat", zap.String("code", code), zap.Strings("args", args))

	switch code {
	case "get":
		t, ok := world.NewItem(arg)
		if !ok {
			e.say("No such item kind: %s.", arg)
			return false
		}
		w.Spawn(t, p)
		e.say("%s appears in your pack.", world.Capitalize(t.Core().Indefinite()))
		e.burden()
	case "spn":
		b, ok := world.NewCreature(arg)
		if !ok {
			e.say("No such creature kind: %s.", arg)
			return false
		}
		w.Spawn(b, w.Here())
		e.say("%s appears.", world.Capitalize(b.Core().Indefinite()))
	case "set":
		if len(args) != 2 {
			e.say(`Usage: \set <trait> <value>`)
			return false
		}
		n, err := strconv.Atoi(args[1])
		if err != nil || !p.Traits.Set(args[0], n) {
			e.say("Can't set %s to %s.", args[0], args[1])
			return false
		}
		p.HP = min(p.HP, p.MXHP())
		e.say("%s is now %d.", strings.ToUpper(args[0]), p.Trait(args[0]))
	case "tpt":
		room, ok := w.Room(arg)
		if !ok {
			e.say("No room called %s.", arg)
			return false
		}
		if err := w.Travel(p, room); err != nil {
			e.report(err)
			return false
		}
		w.Game.Previous, w.Game.Current = w.Game.Current, strings.ToLower(room.Name)
		e.describe(room, true)
	case "zap":
		b := e.findBeing(arg)
		if b == nil {
			return false
		}
		if isPlayer(e, b) {
			e.say("Not yourself.")
			return false
		}
		w.Kill(b)
	case "lrn":
		if _, ok := e.Effects.Spells.Lookup(arg); !ok {
			e.say("There is no spell called %s.", arg)
			return false
		}
		if !p.Knows(arg) {
			p.Spells = append(p.Spells, arg)
		}
		e.say("You know %s.", arg)
	case "pot":
		p.Heal(p.MXHP())
		p.RestoreMP(p.MXMP())
		e.say("You are fully restored.")
	case "mod":
		if len(args) == 0 {
			e.say(`Usage: \mod <status> [duration]`)
			return false
		}
		dur := world.Permanent
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				e.say("Bad duration %s.", args[1])
				return false
			}
			dur = n
		}
		if strings.HasPrefix(args[0], "-") {
			p.Status.Remove(strings.TrimPrefix(args[0], "-"))
			e.say("Removed %s.", strings.TrimPrefix(args[0], "-"))
			return false
		}
		p.Status.Add(args[0], dur)
		e.say("You are now %s.", args[0])
	case "tst":
		errs := world.CheckInvariants(w)
		if len(errs) == 0 {
			e.say("World is consistent: %d rooms, %d objects.", len(w.Rooms), w.Registry.Len())
			return false
		}
		for _, err := range errs {
			e.say("%v", err)
		}
	default:
		e.say(`Unknown cheat \%s.`, code)
	}
	return false
}
