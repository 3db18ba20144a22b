package loader

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	json "github.com/goccy/go-json"

	"github.com/nathoo/serpens/engine/dice"
	"github.com/nathoo/serpens/engine/save"
	"github.com/nathoo/serpens/engine/world"
)

// Game is compiled game content. It holds records, not live objects, so
// every NewWorld starts from the same state.
type Game struct {
	Title   string
	Author  string
	Version string
	Intro   string
	Start   string
	Time    int
	Events  []string

	// Warnings are validation findings that do not stop the game.
	Warnings []string

	rooms  []byte
	player []byte
}

// Rooms decodes the room records.
func (g *Game) Rooms() (map[string]*save.RoomRecord, error) {
	rooms := map[string]*save.RoomRecord{}
	if err := json.Unmarshal(g.rooms, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// Player decodes the player record.
func (g *Game) Player() (*save.Record, error) {
	var pr save.Record
	if err := json.Unmarshal(g.player, &pr); err != nil {
		return nil, err
	}
	return &pr, nil
}

// NewWorld builds a fresh world from the content.
func (g *Game) NewWorld(rng *dice.RNG) (*world.World, error) {
	rooms, err := g.Rooms()
	if err != nil {
		return nil, fmt.Errorf("decoding rooms: %w", err)
	}
	pr, err := g.Player()
	if err != nil {
		return nil, fmt.Errorf("decoding player: %w", err)
	}

	w := world.New(rng)
	w.Game.Time = g.Time
	w.Game.Current = g.Start
	w.Game.Previous = g.Start
	for _, ev := range g.Events {
		w.Game.Events.Add(ev)
	}

	keys := slices.Sorted(maps.Keys(rooms))
	for _, key := range keys {
		if err := w.AddRoom(save.DecodeRoom(rooms[key])); err != nil {
			return nil, err
		}
	}
	for _, key := range keys {
		room, _ := w.Room(key)
		if err := save.BuildRoom(w, room, rooms[key]); err != nil {
			return nil, err
		}
	}

	start, ok := w.Room(g.Start)
	if !ok {
		return nil, fmt.Errorf("start room %q does not exist", g.Start)
	}
	t, err := save.Build(w, pr, start)
	if err != nil {
		return nil, fmt.Errorf("player: %w", err)
	}
	p, ok := t.(*world.Player)
	if !ok {
		return nil, fmt.Errorf("player is a %s", t.Class())
	}
	w.Player = p

	// Content rarely states HP; creatures start at full health.
	for _, t := range w.Registry.All() {
		b, ok := t.(world.Being)
		if !ok {
			continue
		}
		c := b.Body()
		if c.HP == 0 && !c.Dead() {
			c.HP = c.MXHP()
		}
		if c.MP == 0 {
			c.MP = c.MXMP()
		}
	}

	if err := w.Relink(); err != nil {
		return nil, err
	}
	if errs := world.CheckInvariants(w); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return w, nil
}
