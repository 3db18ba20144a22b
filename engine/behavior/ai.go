package behavior

import (
	"github.com/nathoo/serpens/engine/world"
)

// WanderChance is the percent chance an idle creature leaves its room on
// a given tick.
const WanderChance = 10

// Act gives a non-player creature its turn. Hostile creatures attack the
// player when they share a room; others may wander off by a random open
// exit. Persons stay put.
func Act(w *world.World, b world.Being) {
	c := b.Body()
	if isPlayer(w, b) || c.Dead() || c.Carrier != 0 || c.Riding != 0 {
		return
	}
	if c.Status.HasAny("restrained", "sleeping", "stunned") {
		return
	}
	room := world.RoomOf(b)
	if room == nil {
		return
	}
	if c.Hostile && w.Player != nil && !w.Player.Dead() && world.RoomOf(w.Player) == room {
		if Spotted(w, b, w.Player) {
			Unhide(w.Player)
			Attack(w, b, w.Player, nil)
			return
		}
	}
	if _, isPerson := b.(*world.Person); isPerson || c.Rider != 0 {
		return
	}
	if !w.RNG.Chance(WanderChance) {
		return
	}
	wander(w, b, room)
}

func wander(w *world.World, b world.Being, room *world.Room) {
	var open []world.Exit
	for _, e := range w.Exits(room) {
		if e.Blocked() != "" {
			continue
		}
		if e.To.Key() == w.Game.Current && !b.Body().Hostile {
			continue
		}
		open = append(open, e)
	}
	if len(open) == 0 {
		return
	}
	e := open[w.RNG.Intn(len(open))]
	if err := w.Travel(b, e.To); err != nil {
		return
	}
	w.SayAt(room, "%s leaves %s.", Who(w, b), e.Dir)
	w.SayAt(e.To, "%s arrives.", world.Capitalize(b.Core().Indefinite()))
}
