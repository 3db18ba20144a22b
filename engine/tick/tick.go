// Package tick advances the game clock: statuses, hunger, regeneration,
// corpses, spawning and the sky.
package tick

import (
	"strings"

	"go.uber.org/zap"

	"github.com/nathoo/serpens/engine/world"
)

// RenderDepth is how many steps from the current room the world stays live.
const RenderDepth = 3

// Render returns the keys of every room within RenderDepth steps of the
// current room, nearest first.
func Render(w *world.World) []string {
	start := w.Here()
	if start == nil {
		return nil
	}
	seen := map[string]bool{start.Key(): true}
	out := []string{start.Key()}
	frontier := []*world.Room{start}
	for depth := 0; depth < RenderDepth; depth++ {
		var next []*world.Room
		for _, r := range frontier {
			for _, n := range w.Neighbors(r) {
				if seen[n.Key()] {
					continue
				}
				seen[n.Key()] = true
				out = append(out, n.Key())
				next = append(next, n)
			}
		}
		frontier = next
	}
	return out
}

// PassTime advances the world by t ticks.
func PassTime(w *world.World, t int) {
	for range t {
		step(w)
	}
}

func step(w *world.World) {
	prevHour := Hour(w.Game.Time)
	prevSky := Sky(w.Game.Time)
	w.Game.Time++
	w.Game.Rendered = Render(w)

	for _, key := range w.Game.Rendered {
		room, ok := w.Room(key)
		if !ok {
			continue
		}
		ageRoom(w, room)
	}
	hunger(w)
	for _, key := range w.Game.Rendered {
		if room, ok := w.Room(key); ok {
			for _, b := range room.Living() {
				periodic(w, b)
				regenerate(b)
			}
		}
	}
	reap(w)
	populate(w)
	for _, room := range w.Rooms {
		room.SortByMovement()
	}

	if hour := Hour(w.Game.Time); hour != prevHour {
		if text, ok := world.Dict().TimeOfDay[hour]; ok && outdoors(w) {
			w.Say("%s", text)
		}
	}
	if outdoors(w) {
		for _, line := range omens(prevSky, Sky(w.Game.Time)) {
			w.Say("%s", line)
		}
	}
}

func outdoors(w *world.World) bool {
	here := w.Here()
	return here != nil && !here.Indoor()
}

// imbues reports whether a room status passes on to the creatures inside.
func imbues(name string) bool {
	d := world.Dict()
	_, mods := d.TraitMods[name]
	_, hurts := d.PeriodicDamage[name]
	return mods || hurts
}

// ageRoom ticks statuses on the room and everything in it, counts down
// despawn timers and advances timers.
func ageRoom(w *world.World, room *world.Room) {
	room.Status.Tick()
	current := room.Key() == strings.ToLower(w.Game.Current)

	var doomed []world.Thing
	world.Walk(room, func(t world.Thing) {
		b := t.Core()
		expired := b.Status.Tick()
		if isPlayer(w, t) {
			for _, name := range expired {
				w.Say("You are no longer %s.", name)
			}
		}
		if being, ok := t.(world.Being); ok {
			c := being.Body()
			c.Status.RemoveImbued(room.Status)
			for _, st := range room.Status {
				if imbues(st.Name) {
					c.Status.Add(st.Name, world.Imbued)
				}
			}
		}
		if timer, ok := t.(*world.Timer); ok {
			w.Fire(timer, timer.Advance(1))
		}
		if b.Longevity > 0 {
			b.Despawn--
			if b.Despawn <= 0 && !current {
				doomed = append(doomed, t)
			}
		}
	})
	for _, t := range doomed {
		if t.Core().Parent() == nil {
			continue
		}
		w.Logger.Debug("despawn", zap.String("item", t.Core().Name), zap.String("room", room.Key()))
		w.Destroy(t)
	}
}

func periodic(w *world.World, b world.Being) {
	c := b.Body()
	for _, st := range append(world.Statuses(nil), c.Status...) {
		pd, ok := world.Dict().PeriodicDamage[st.Name]
		if !ok || c.Dead() {
			continue
		}
		dealt, _ := w.Damage(b, pd.Amount, pd.Type)
		if dealt > 0 && isPlayer(w, b) && !c.Dead() {
			w.Say("You take %d damage from being %s. (%d/%d HP)", dealt, st.Name, c.HP, c.MXHP())
		}
	}
}

// Hunger and fatigue thresholds, in multiples of ENDR.
const (
	hungryAt   = 20
	starvingAt = 40
	tiredAt    = 30
	fatiguedAt = 50
)

func hunger(w *world.World) {
	p := w.Player
	if p == nil || p.Dead() {
		return
	}
	endr := p.ENDR()
	need(w, w.Game.Time-p.LastAte, endr, "hungry", "starving", hungryAt, starvingAt)
	need(w, w.Game.Time-p.LastSlept, endr, "tired", "fatigued", tiredAt, fatiguedAt)
}

// need keeps at most one of mild and severe on the player, announcing
// each change.
func need(w *world.World, since, endr int, mild, severe string, mildAt, severeAt int) {
	s := &w.Player.Status
	want := ""
	switch {
	case since >= endr*severeAt:
		want = severe
	case since >= endr*mildAt:
		want = mild
	}
	for _, name := range []string{mild, severe} {
		if name != want {
			s.Remove(name)
		}
	}
	if want != "" && !s.Has(want) {
		s.Add(want, world.Sticky)
		w.Say("You are %s.", want)
	}
}

// RegenInterval is how many ticks a creature waits between regaining a
// point of health and mana. Zero means it does not regenerate.
func RegenInterval(c *world.Creature) int {
	if c.Status.HasAny("hungry", "starving") {
		return 0
	}
	n := max(1, 50-c.ENDR())
	if c.Status.HasAny("cozy", "mending") {
		n = max(1, n/2)
	}
	return n
}

func regenerate(b world.Being) {
	c := b.Body()
	n := RegenInterval(c)
	if n == 0 || c.Dead() {
		return
	}
	c.RegenTimer++
	if c.RegenTimer >= n {
		c.RegenTimer = 0
		c.Heal(1)
		c.RestoreMP(1)
	}
}

// reap removes corpses that have lingered too long outside the current room.
func reap(w *world.World) {
	for _, room := range w.Rooms {
		if room.Key() == strings.ToLower(w.Game.Current) {
			continue
		}
		for _, b := range append([]world.Being(nil), room.Creatures...) {
			if w.Rotten(b.Body()) {
				w.Logger.Debug("reap", zap.String("creature", b.Core().Name), zap.String("room", room.Key()))
				w.Destroy(b)
			}
		}
	}
}

// populate gives each empty room other than the current one a chance to
// gain one creature from its domain's spawn pool.
func populate(w *world.World) {
	pools := world.Dict().SpawnPools
	for _, key := range w.RoomKeys() {
		room := w.Rooms[key]
		if len(room.Creatures) > 0 || key == strings.ToLower(w.Game.Current) {
			continue
		}
		for _, entry := range pools[room.Domain] {
			if !w.RNG.Chance(entry.Chance) {
				continue
			}
			b, ok := world.NewCreature(entry.Kind)
			if !ok {
				w.Logger.Warn("unknown spawn kind", zap.String("kind", entry.Kind), zap.String("domain", room.Domain))
				break
			}
			w.Spawn(b, room)
			break
		}
	}
}

func isPlayer(w *world.World, t world.Thing) bool {
	return w.Player != nil && t.Core() == w.Player.Core()
}
