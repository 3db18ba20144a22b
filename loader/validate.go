package loader

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/nathoo/serpens/content"
	"github.com/nathoo/serpens/engine/dialogue"
	"github.com/nathoo/serpens/engine/effects"
	"github.com/nathoo/serpens/engine/save"
	"github.com/nathoo/serpens/engine/world"
	"github.com/nathoo/serpens/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// validator walks the compiled records.
type validator struct {
	dict    *content.Dict
	effects *effects.Registry
	rooms   map[string]*save.RoomRecord
	portals map[world.ID]portalRef
	ve      ValidationError
}

type portalRef struct {
	room string
	rec  *save.Record
}

func (v *validator) errorf(format string, args ...any) {
	v.ve.Errors = append(v.ve.Errors, fmt.Sprintf(format, args...))
}

func (v *validator) warnf(format string, args ...any) {
	v.ve.Warnings = append(v.ve.Warnings, fmt.Sprintf(format, args...))
}

// validate checks the compiled game for referential integrity. Warnings
// are kept on the game; errors fail the load.
func validate(g *Game, dict *content.Dict) error {
	rooms, err := g.Rooms()
	if err != nil {
		return err
	}
	player, err := g.Player()
	if err != nil {
		return err
	}
	v := &validator{
		dict:    dict,
		effects: effects.New(),
		rooms:   rooms,
		portals: map[world.ID]portalRef{},
	}

	if g.Title == "" {
		v.errorf("Game.title is required")
	}
	if g.Start == "" {
		v.errorf("Game.start is required")
	} else if _, ok := rooms[g.Start]; !ok {
		v.errorf("start room %q not found in defined rooms", g.Start)
	}

	keys := slices.Sorted(maps.Keys(rooms))
	for _, key := range keys {
		rr := rooms[key]
		for _, group := range [][]*save.Record{rr.Fixtures, rr.Items, rr.Creatures} {
			for _, r := range group {
				v.indexPortals(key, r)
			}
		}
	}
	for _, key := range keys {
		v.room(key, rooms[key])
	}
	v.record("player", player)
	v.spawnPools()

	if g.Start != "" {
		for _, key := range v.unreachable(g.Start) {
			v.warnf("room %q cannot be reached from the start", key)
		}
	}

	g.Warnings = v.ve.Warnings
	if len(v.ve.Errors) > 0 {
		return &v.ve
	}
	return nil
}

func (v *validator) indexPortals(room string, r *save.Record) {
	if r.ID != 0 && r.Links != nil {
		v.portals[r.ID] = portalRef{room: room, rec: r}
	}
	for _, inner := range r.Items {
		v.indexPortals(room, inner)
	}
}

func (v *validator) direction(where, dir string) {
	if v.dict.ExpandDirection(dir) != dir {
		v.errorf("%s: unknown direction %q", where, dir)
	}
}

func (v *validator) room(key string, rr *save.RoomRecord) {
	where := "room " + rr.Name
	for dir, to := range rr.Links {
		v.direction(where, dir)
		if _, ok := v.rooms[strings.ToLower(to)]; !ok {
			v.errorf("%s: exit %s points to undefined room %q", where, dir, to)
		}
	}
	for _, s := range rr.Status {
		if !world.ValidDuration(s.Duration) {
			v.errorf("%s: status %s has bad duration %d", where, s.Name, s.Duration)
		}
	}
	for _, group := range [][]*save.Record{rr.Fixtures, rr.Items, rr.Creatures} {
		for _, r := range group {
			v.record(where, r)
		}
	}
}

func (v *validator) record(where string, r *save.Record) {
	if r == nil {
		return
	}
	where = fmt.Sprintf("%s: %s", where, r.Name)
	for dir, l := range r.Links {
		v.direction(where, dir)
		if l.Portal != 0 {
			v.pairing(where, r, l.Portal)
		} else if _, ok := v.rooms[strings.ToLower(l.Room)]; !ok {
			v.errorf("%s: link %s points to undefined room %q", where, dir, l.Room)
		}
	}
	for _, effs := range [][]types.Effect{r.Effects, r.OnEffects, r.OffEffects} {
		for _, e := range effs {
			if !v.effects.Known(e.Type) {
				v.errorf("%s: unknown effect type %q", where, e.Type)
			}
		}
	}
	if r.Dialogue != nil {
		if err := dialogue.Check(r.Name, r.Dialogue, v.dict.HasTrite); err != nil {
			v.errorf("%s: %v", where, err)
		}
		if r.Class != "Person" {
			v.warnf("%s: only a Person can hold a conversation", where)
		}
	}
	if r.Traits != nil {
		for _, name := range world.TraitNames {
			if n, _ := r.Traits.Get(name); n < 1 || n > 20 {
				v.errorf("%s: trait %s is %d, want 1 to 20", where, strings.ToUpper(name), n)
			}
		}
	}
	if r.KeyID != 0 && !slices.Contains([]string{"Key", "Lockbox", "Door", "Window"}, r.Class) {
		v.warnf("%s: keyId has no use on a %s", where, r.Class)
	}
	for _, inner := range r.Items {
		v.record(where, inner)
	}
}

// pairing checks that a portal link names a portal that links back.
func (v *validator) pairing(where string, r *save.Record, far world.ID) {
	ref, ok := v.portals[far]
	if !ok {
		v.errorf("%s: links to portal %d, which is not a placed portal", where, far)
		return
	}
	for _, back := range ref.rec.Links {
		if back.Portal == r.ID {
			return
		}
	}
	v.errorf("%s: links to %s in %s, which does not link back", where, ref.rec.Name, ref.room)
}

func (v *validator) spawnPools() {
	for pool, entries := range v.dict.SpawnPools {
		for _, e := range entries {
			if _, ok := world.NewCreature(e.Kind); !ok {
				v.errorf("spawn pool %s: unknown creature kind %q", pool, e.Kind)
			}
		}
	}
}

// unreachable lists rooms no path of links or portals leads to.
func (v *validator) unreachable(start string) []string {
	seen := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		key := queue[0]
		queue = queue[1:]
		rr, ok := v.rooms[key]
		if !ok {
			continue
		}
		next := make([]string, 0, len(rr.Links))
		for _, to := range rr.Links {
			next = append(next, strings.ToLower(to))
		}
		for _, group := range [][]*save.Record{rr.Fixtures, rr.Items} {
			for _, r := range group {
				for _, l := range r.Links {
					if l.Portal != 0 {
						if ref, ok := v.portals[l.Portal]; ok {
							next = append(next, ref.room)
						}
					} else {
						next = append(next, strings.ToLower(l.Room))
					}
				}
				next = append(next, v.teleports(r)...)
			}
		}
		for _, n := range next {
			if !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	var out []string
	for key := range v.rooms {
		if !seen[key] {
			out = append(out, key)
		}
	}
	slices.Sort(out)
	return out
}

// teleports lists rooms a fixture's effects can send the player to or
// open a way into.
func (v *validator) teleports(r *save.Record) []string {
	var out []string
	for _, effs := range [][]types.Effect{r.Effects, r.OnEffects, r.OffEffects} {
		for _, e := range effs {
			p := effects.Params(e.Params)
			switch e.Type {
			case "teleport":
				out = append(out, strings.ToLower(p.String("room")))
			case "link":
				out = append(out, strings.ToLower(p.String("to")))
			}
		}
	}
	return out
}
