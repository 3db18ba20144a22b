// Package loader compiles Lua game content into the same records the save
// codec reads, so a new game and a loaded one are built by one decoder.
// The Lua VM is discarded after loading; nothing runs Lua during play.
package loader

import (
	"fmt"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/serpens/engine/save"
	"github.com/nathoo/serpens/engine/world"
)

// portalMark prefixes a tagged portal name in a link target.
const portalMark = "@"

// tagBase keeps tagged portal ids clear of the ids handed out at build time.
const tagBase = world.ID(1) << 32

// rawRoom holds a room table before compilation.
type rawRoom struct {
	name  string
	table *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	if n, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return int(n)
	}
	return 0
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	if t, ok := tbl.RawGetString(key).(*lua.LTable); ok {
		return t
	}
	return nil
}

// toGoValue converts a Lua value to a Go value recursively.
func toGoValue(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		f := float64(val)
		if f == float64(int(f)) {
			return int(f)
		}
		return f
	case lua.LString:
		return string(val)
	case *lua.LTable:
		// Sequential integer keys from 1 make an array.
		if n := val.MaxN(); n > 0 {
			arr := make([]any, 0, n)
			for i := 1; i <= n; i++ {
				arr = append(arr, toGoValue(val.RawGetInt(i)))
			}
			return arr
		}
		m := map[string]any{}
		val.ForEach(func(k, v lua.LValue) {
			if ks, ok := k.(lua.LString); ok {
				m[string(ks)] = toGoValue(v)
			}
		})
		return m
	}
	return nil
}

// asList reads a value that should be an array. An empty Lua table comes
// through as an empty map and counts as an empty list.
func asList(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case map[string]any:
		return nil, len(x) == 0
	case nil:
		return nil, true
	}
	return nil, false
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// toMap round-trips a value through JSON into a generic map.
func toMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// compiler turns collected Lua tables into generic record maps. Problems
// are collected rather than returned so one load reports all of them.
type compiler struct {
	tags  map[string]world.ID
	trees map[string]map[string]any
	errs  []string
}

func (c *compiler) errorf(format string, args ...any) {
	c.errs = append(c.errs, fmt.Sprintf(format, args...))
}

// compile converts all collected Lua data into a Game.
func compile(coll *collector) (*Game, error) {
	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}
	c := &compiler{tags: map[string]world.ID{}, trees: map[string]map[string]any{}}
	c.errs = append(c.errs, coll.errs...)

	g := &Game{
		Title:   getString(coll.game, "title"),
		Author:  getString(coll.game, "author"),
		Version: getString(coll.game, "version"),
		Intro:   getString(coll.game, "intro"),
		Start:   strings.ToLower(getString(coll.game, "start")),
		Time:    getInt(coll.game, "time"),
	}
	if evs, ok := asList(toGoValue(coll.game.RawGetString("events"))); ok {
		for _, ev := range evs {
			if s, ok := ev.(string); ok {
				g.Events = append(g.Events, s)
			}
		}
	}

	names := make([]string, 0, len(coll.dialogues))
	for name := range coll.dialogues {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		m, _ := asMap(toGoValue(coll.dialogues[name]))
		c.trees[strings.ToLower(name)] = c.tree(name, m)
	}

	// Tags first, so links can point at portals in rooms not yet compiled.
	raw := make([]map[string]any, len(coll.rooms))
	for i, r := range coll.rooms {
		raw[i], _ = asMap(toGoValue(r.table))
		c.collectTags(raw[i])
	}

	rooms := map[string]any{}
	for i, r := range coll.rooms {
		key := strings.ToLower(r.name)
		if _, dup := rooms[key]; dup {
			c.errorf("room %q defined more than once", r.name)
			continue
		}
		rooms[key] = c.room(r.name, raw[i])
	}

	var player map[string]any
	if pt := getTable(coll.game, "player"); pt != nil {
		m, _ := asMap(toGoValue(pt))
		if _, ok := m["kind"]; !ok {
			m["kind"] = "Player"
		}
		player = c.record(m, "player")
	} else {
		player = c.record(map[string]any{"kind": "Player", "name": "Wanderer"}, "player")
	}

	if len(c.errs) > 0 {
		return nil, &ValidationError{Errors: c.errs}
	}
	var err error
	if g.rooms, err = json.Marshal(rooms); err != nil {
		return nil, err
	}
	if g.player, err = json.Marshal(player); err != nil {
		return nil, err
	}
	return g, nil
}

// collectTags assigns an id to every tagged object in a room.
func (c *compiler) collectTags(room map[string]any) {
	var walk func(v any)
	walk = func(v any) {
		list, _ := asList(v)
		for _, el := range list {
			m, ok := asMap(el)
			if !ok {
				continue
			}
			if tag, ok := m["tag"].(string); ok {
				if _, dup := c.tags[tag]; dup {
					c.errorf("tag %q used more than once", tag)
				} else {
					c.tags[tag] = tagBase + world.ID(len(c.tags))
				}
			}
			walk(m["items"])
		}
	}
	for _, group := range []string{"fixtures", "items", "creatures"} {
		walk(room[group])
	}
}

func (c *compiler) room(name string, m map[string]any) map[string]any {
	out := map[string]any{"__class__": "Room", "name": name}
	where := "room " + name
	for k, v := range m {
		switch k {
		case "links":
			links, ok := asMap(v)
			if !ok && v != nil {
				c.errorf("%s: links must be a table", where)
				continue
			}
			lower := map[string]any{}
			for dir, to := range links {
				s, ok := to.(string)
				if !ok {
					c.errorf("%s: link %s must name a room", where, dir)
					continue
				}
				lower[dir] = strings.ToLower(s)
			}
			out["links"] = lower
		case "status":
			out["status"] = c.statuses(v, where)
		case "fixtures", "items", "creatures":
			list, ok := asList(v)
			if !ok {
				c.errorf("%s: %s must be a list", where, k)
				continue
			}
			var recs []any
			for i, el := range list {
				em, ok := asMap(el)
				if !ok {
					c.errorf("%s: %s[%d] must be a table", where, k, i+1)
					continue
				}
				r := c.record(em, fmt.Sprintf("%s %s[%d]", where, k, i+1))
				if r == nil {
					continue
				}
				if k == "fixtures" {
					r["fixed"] = true
				}
				recs = append(recs, r)
			}
			out[k] = recs
		case "description":
			out["desc"] = v
		default:
			out[k] = v
		}
	}
	return out
}

// template is the record a content table starts from: a factory object
// for a kind such as "red potion", or a blank object of a class such as
// "Lockbox".
func (c *compiler) template(kind, name, where string) map[string]any {
	var t world.Thing
	if blank, ok := world.Blank(kind); ok {
		if name == "" {
			c.errorf("%s: a %s needs a name", where, kind)
			return nil
		}
		classic := *blank.Core()
		*blank.Core() = world.NewPlainItem(name, "", 0, "").Base
		blank.Core().Durability = classic.Durability
		blank.Core().Pronoun = classic.Pronoun
		if b, ok := blank.(world.Being); ok {
			b.Body().Traits = world.Traits{STR: 10, SPD: 10, SKL: 10, STM: 10, CON: 10, CHA: 10, INT: 10, WIS: 10, FTH: 10, LCK: 10}
			b.Body().Level = 1
		}
		t = blank
	} else if it, ok := world.NewItem(kind); ok {
		t = it
	} else if b, ok := world.NewCreature(kind); ok {
		t = b
	} else {
		c.errorf("%s: unknown kind %q", where, kind)
		return nil
	}
	m, err := toMap(save.EncodeThing(t))
	if err != nil {
		c.errorf("%s: %v", where, err)
		return nil
	}
	return m
}

// record compiles one item or creature table.
func (c *compiler) record(m map[string]any, where string) map[string]any {
	kind, _ := m["kind"].(string)
	name, _ := m["name"].(string)
	if kind == "" {
		c.errorf("%s: missing kind", where)
		return nil
	}
	if name != "" {
		where = fmt.Sprintf("%s (%s)", where, name)
	}
	out := c.template(kind, name, where)
	if out == nil {
		return nil
	}
	for k, v := range m {
		switch k {
		case "kind":
		case "tag":
			if tag, ok := v.(string); ok {
				out["id"] = c.tags[tag]
			}
		case "items":
			list, ok := asList(v)
			if !ok {
				c.errorf("%s: items must be a list", where)
				continue
			}
			prev, _ := asList(out["items"])
			for i, el := range list {
				em, ok := asMap(el)
				if !ok {
					c.errorf("%s: items[%d] must be a table", where, i+1)
					continue
				}
				if r := c.record(em, fmt.Sprintf("%s items[%d]", where, i+1)); r != nil {
					prev = append(prev, r)
				}
			}
			out["items"] = prev
		case "links":
			out["links"] = c.links(v, where)
		case "effects", "onEffects", "offEffects":
			out[k] = c.effects(v, where)
		case "status":
			out["status"] = c.statuses(v, where)
		case "traits":
			tr, _ := asMap(out["traits"])
			if tr == nil {
				tr = map[string]any{}
			}
			given, ok := asMap(v)
			if !ok {
				c.errorf("%s: traits must be a table", where)
				continue
			}
			for t, n := range given {
				tr[strings.ToUpper(t)] = n
			}
			out["traits"] = tr
		case "dialogue":
			switch d := v.(type) {
			case string:
				tree, ok := c.trees[strings.ToLower(d)]
				if !ok {
					c.errorf("%s: unknown dialogue %q", where, d)
					continue
				}
				out["dialogue"] = tree
			case map[string]any:
				out["dialogue"] = c.tree(where, d)
			}
		case "description":
			out["desc"] = v
		default:
			out[k] = v
		}
	}
	// Check the shape now so errors name the content, not the build.
	var probe save.Record
	data, err := json.Marshal(out)
	if err == nil {
		err = json.Unmarshal(data, &probe)
	}
	if err != nil {
		c.errorf("%s: %v", where, err)
	}
	return out
}

func (c *compiler) links(v any, where string) map[string]any {
	links, ok := asMap(v)
	if !ok {
		if v != nil {
			c.errorf("%s: links must be a table", where)
		}
		return nil
	}
	out := map[string]any{}
	for dir, to := range links {
		s, ok := to.(string)
		if !ok {
			c.errorf("%s: link %s must be a room or Portal(tag)", where, dir)
			continue
		}
		if tag, isTag := strings.CutPrefix(s, portalMark); isTag {
			id, ok := c.tags[tag]
			if !ok {
				c.errorf("%s: link %s names unknown portal %q", where, dir, tag)
				continue
			}
			out[dir] = id
			continue
		}
		out[dir] = strings.ToLower(s)
	}
	return out
}

// effects turns flat effect tables {type = "message", text = "..."} into
// {type, params}.
func (c *compiler) effects(v any, where string) []any {
	list, ok := asList(v)
	if !ok {
		c.errorf("%s: effects must be a list", where)
		return nil
	}
	var out []any
	for i, el := range list {
		m, ok := asMap(el)
		if !ok {
			c.errorf("%s: effect %d must be a table", where, i+1)
			continue
		}
		typ, _ := m["type"].(string)
		params := map[string]any{}
		for k, p := range m {
			if k != "type" {
				params[k] = p
			}
		}
		out = append(out, map[string]any{"type": typ, "params": params})
	}
	return out
}

// statuses accepts {"dark", {name = "wet", duration = 5}}; a bare name is
// permanent.
func (c *compiler) statuses(v any, where string) []any {
	list, ok := asList(v)
	if !ok {
		c.errorf("%s: status must be a list", where)
		return nil
	}
	var out []any
	for _, el := range list {
		switch s := el.(type) {
		case string:
			out = append(out, map[string]any{"name": s, "duration": world.Permanent})
		case map[string]any:
			if _, ok := s["duration"]; !ok {
				s["duration"] = world.Permanent
			}
			out = append(out, s)
		default:
			c.errorf("%s: bad status %v", where, el)
		}
	}
	return out
}

// tree fills in what a fresh dialogue tree needs.
func (c *compiler) tree(where string, m map[string]any) map[string]any {
	if m == nil {
		c.errorf("%s: dialogue must be a table", where)
		return nil
	}
	if _, ok := m["lastParley"]; !ok {
		m["lastParley"] = -1
	}
	if _, ok := m["visitCounts"]; !ok {
		m["visitCounts"] = map[string]any{}
	}
	if r, ok := m["reactions"]; ok {
		if rm, ok := asMap(r); !ok || rm == nil {
			c.errorf("%s: reactions must be a table", where)
		}
	}
	return m
}
