package world

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/nathoo/serpens/content"
	"github.com/nathoo/serpens/engine/dice"
	"github.com/nathoo/serpens/engine/events"
	"github.com/nathoo/serpens/types"
)

// Game modes.
const (
	ModePlay = "play"
	ModeDead = "dead"
	ModeQuit = "quit"
)

// Narrator receives narration. A types.Console satisfies it.
type Narrator interface {
	Print(text string)
}

// Effector applies named effects; the effects package provides it.
type Effector interface {
	Apply(w *World, source Thing, effs []types.Effect) error
}

// Game is the header of a running game: clock, location and referents.
type Game struct {
	Mode     string
	Time     int
	Current  string
	Previous string
	It       ID
	He       ID
	She      ID
	They     ID
	Rendered []string
	Events   *events.Set
	Silent   bool
	Cheats   bool
}

// World owns every room and object of one game.
type World struct {
	Rooms    map[string]*Room
	Player   *Player
	Game     *Game
	Registry *Registry
	RNG      *dice.RNG
	Out      Narrator
	Effects  Effector
	Logger   *zap.Logger
}

type discard struct{}

func (discard) Print(string) {}

// New creates an empty world with a fresh game header.
func New(rng *dice.RNG) *World {
	if rng == nil {
		rng = dice.NewRNG(1)
	}
	return &World{
		Rooms:    map[string]*Room{},
		Game:     &Game{Mode: ModePlay, Events: events.NewSet(), Silent: true},
		Registry: NewRegistry(),
		RNG:      rng,
		Out:      discard{},
		Logger:   zap.NewNop(),
	}
}

// AddRoom registers a room under its lowercased name.
func (w *World) AddRoom(r *Room) error {
	if _, dup := w.Rooms[r.Key()]; dup {
		return &InvariantError{Msg: fmt.Sprintf("duplicate room %q", r.Name)}
	}
	w.Rooms[r.Key()] = r
	return nil
}

// Room looks a room up by name, case-insensitively.
func (w *World) Room(name string) (*Room, bool) {
	r, ok := w.Rooms[strings.ToLower(name)]
	return r, ok
}

// RoomKeys returns the room keys, sorted.
func (w *World) RoomKeys() []string {
	keys := make([]string, 0, len(w.Rooms))
	for k := range w.Rooms {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Here is the player's current room.
func (w *World) Here() *Room {
	r, _ := w.Room(w.Game.Current)
	return r
}

// Say narrates to the player.
func (w *World) Say(format string, args ...any) {
	if len(args) == 0 {
		w.Out.Print(format)
		return
	}
	w.Out.Print(fmt.Sprintf(format, args...))
}

// SayAt narrates something happening in room. Events outside the current
// room are heard only when the game is not silent.
func (w *World) SayAt(room *Room, format string, args ...any) {
	if room == nil {
		return
	}
	if room.Key() != strings.ToLower(w.Game.Current) && w.Game.Silent {
		return
	}
	w.Say(format, args...)
}

// Capitalize upper-cases the first letter of a narration line.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Spawn registers a new object and places it in dest. Gold merges into an
// existing stack; the surviving stack is returned.
func (w *World) Spawn(t Thing, dest Holder) Thing {
	w.RegisterTree(t)
	out, err := w.Put(t, dest)
	if err != nil {
		w.Logger.Error("spawn failed", zap.Error(err), zap.Stack("stack"))
		return t
	}
	return out
}

// RegisterTree registers t and every unregistered object nested in it.
func (w *World) RegisterTree(t Thing) {
	if t.Core().ID() == 0 {
		w.Registry.Register(t)
	}
	if h, ok := t.(Holder); ok {
		for _, inner := range h.Contents() {
			w.RegisterTree(inner)
		}
	}
}

// Put moves t into dest, merging gold stacks. It returns whichever object
// ends up holding t's substance.
func (w *World) Put(t Thing, dest Holder) (Thing, error) {
	if g, ok := t.(*Serpens); ok {
		for _, other := range dest.Contents() {
			stack, ok := other.(*Serpens)
			if !ok || stack.Core() == g.Core() {
				continue
			}
			stack.BaseWeight += g.BaseWeight
			Detach(g)
			w.Registry.Unregister(g.ID())
			return stack, nil
		}
	}
	if err := Move(t, dest); err != nil {
		return nil, err
	}
	return t, nil
}

// Destroy removes t and everything inside it from the world.
func (w *World) Destroy(t Thing) {
	if h, ok := t.(Holder); ok {
		for _, inner := range append([]Thing(nil), h.Contents()...) {
			w.Destroy(inner)
		}
	}
	if b, ok := t.(Being); ok {
		w.UnlinkAll(b)
	}
	Detach(t)
	w.Registry.Unregister(t.Core().ID())
	w.forget(t.Core().ID())
}

func (w *World) forget(id ID) {
	g := w.Game
	for _, slot := range []*ID{&g.It, &g.He, &g.She, &g.They} {
		if *slot == id {
			*slot = 0
		}
	}
}

// Refer records t as the latest referent for pronouns.
func (w *World) Refer(t Thing) {
	id := t.Core().ID()
	w.Game.It = id
	switch t.Core().Pronoun {
	case "he":
		w.Game.He = id
	case "she":
		w.Game.She = id
	}
	if _, ok := t.(Being); ok {
		w.Game.They = id
	}
}

// Referent returns the object a pronoun slot points at, if it still exists.
func (w *World) Referent(slot string) (Thing, bool) {
	var id ID
	switch slot {
	case "it":
		id = w.Game.It
	case "he":
		id = w.Game.He
	case "she":
		id = w.Game.She
	case "they":
		id = w.Game.They
	}
	return w.Registry.Lookup(id)
}

// LinkTarget resolves a portal link to its destination room and, for
// paired portals, the far portal.
func (w *World) LinkTarget(l Link) (*Room, Traversable, error) {
	if l.Portal != 0 {
		t, ok := w.Registry.Lookup(l.Portal)
		if !ok {
			return nil, nil, &InvariantError{Msg: fmt.Sprintf("portal link %d has no target", l.Portal)}
		}
		far, ok := t.(Traversable)
		if !ok {
			return nil, nil, &InvariantError{Msg: fmt.Sprintf("portal link %d targets %s, not a portal", l.Portal, t.Core().Name)}
		}
		r := RoomOf(far)
		if r == nil {
			return nil, nil, &InvariantError{Msg: fmt.Sprintf("portal %s is not in a room", far.Core().Name)}
		}
		return r, far, nil
	}
	r, ok := w.Room(l.Room)
	if !ok {
		return nil, nil, &InvariantError{Msg: fmt.Sprintf("link to unknown room %q", l.Room)}
	}
	return r, nil, nil
}

// Exits lists every way out of room, sorted by direction. Plain room
// links come first; a portal in the same direction adds a second exit.
func (w *World) Exits(room *Room) []Exit {
	var out []Exit
	for dir, key := range room.Links {
		if to, ok := w.Room(key); ok {
			out = append(out, Exit{Dir: dir, To: to})
		}
	}
	for _, p := range room.Portals() {
		for dir, l := range p.PortalLinks() {
			to, far, err := w.LinkTarget(l)
			if err != nil {
				w.Logger.Warn("dangling portal", zap.Error(err))
				continue
			}
			out = append(out, Exit{Dir: dir, To: to, Via: p, Target: far})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Dir < out[j].Dir })
	return out
}

// Exit finds the way out of room in direction dir. A plain room link wins
// over a portal.
func (w *World) Exit(room *Room, dir string) (Exit, bool) {
	var found *Exit
	for _, e := range w.Exits(room) {
		if e.Dir != dir {
			continue
		}
		if e.Via == nil {
			return e, true
		}
		if found == nil {
			e := e
			found = &e
		}
	}
	if found != nil {
		return *found, true
	}
	return Exit{}, false
}

// ExitVia finds the exit that goes through a specific portal.
func (w *World) ExitVia(room *Room, portal Thing) (Exit, bool) {
	for _, e := range w.Exits(room) {
		if e.Via != nil && e.Via.Core() == portal.Core() {
			return e, true
		}
	}
	return Exit{}, false
}

// Neighbors returns the rooms one step from room, whether or not the
// portal between them is currently open.
func (w *World) Neighbors(room *Room) []*Room {
	seen := map[string]bool{}
	var out []*Room
	for _, e := range w.Exits(room) {
		if seen[e.To.Key()] {
			continue
		}
		seen[e.To.Key()] = true
		out = append(out, e.To)
	}
	return out
}

// Fire runs effects through the configured effector, logging failures.
func (w *World) Fire(source Thing, effs []types.Effect) {
	if w.Effects == nil || len(effs) == 0 {
		return
	}
	if err := w.Effects.Apply(w, source, effs); err != nil {
		w.Logger.Error("effect failed", zap.Error(err))
	}
}

// Dict returns the content table.
func (w *World) Dict() *content.Dict { return dict }
