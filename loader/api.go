package loader

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerEffectHelpers(L)
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Game { title = "...", start = "...", player = {...} }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		if coll.game != nil {
			coll.errs = append(coll.errs, "Game{} defined more than once")
		}
		coll.game = tbl
		return 0
	}))

	// Room "name" { ... } is curried: Room("name") returns a function that
	// takes the table.
	L.SetGlobal("Room", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.rooms = append(coll.rooms, rawRoom{name: name, table: tbl})
			return 0
		}))
		return 1
	}))

	// Dialogue "name" { colloquy = {...}, chatter = {...}, ... }
	L.SetGlobal("Dialogue", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			if _, dup := coll.dialogues[name]; dup {
				coll.errs = append(coll.errs, fmt.Sprintf("dialogue %q defined more than once", name))
			}
			coll.dialogues[name] = tbl
			return 0
		}))
		return 1
	}))

	// Portal("tag") names a tagged portal as a link target.
	L.SetGlobal("Portal", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(portalMark + L.CheckString(1)))
		return 1
	}))
}

// effect builds an effect table {type = name, ...} from positional args
// bound to the given parameter names. Missing trailing args are left out.
func effect(L *lua.LState, name string, params ...string) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString(name))
		for i, p := range params {
			if v := L.Get(i + 1); v != lua.LNil {
				tbl.RawSetString(p, v)
			}
		}
		L.Push(tbl)
		return 1
	})
}

func registerEffectHelpers(L *lua.LState) {
	L.SetGlobal("Message", effect(L, "message", "text", "local"))
	L.SetGlobal("Open", effect(L, "open", "target"))
	L.SetGlobal("Close", effect(L, "close", "target"))
	L.SetGlobal("Toggle", effect(L, "toggle", "target"))
	L.SetGlobal("Lock", effect(L, "lock", "target"))
	L.SetGlobal("Unlock", effect(L, "unlock", "target"))
	L.SetGlobal("Link", effect(L, "link", "room", "dir", "to"))
	L.SetGlobal("Unlink", effect(L, "unlink", "room", "dir"))
	L.SetGlobal("Spawn", effect(L, "spawn", "kind", "count", "room"))
	L.SetGlobal("Teleport", effect(L, "teleport", "room", "text"))
	L.SetGlobal("Status", effect(L, "status", "name", "duration", "target"))
	L.SetGlobal("RoomStatus", effect(L, "room_status", "name", "duration", "room"))
	L.SetGlobal("Damage", effect(L, "damage", "amount", "type", "target"))
	L.SetGlobal("Heal", effect(L, "heal", "amount", "target"))
	L.SetGlobal("Restore", effect(L, "restore", "amount", "target"))
	L.SetGlobal("Light", effect(L, "light", "room", "on", "duration"))
}
