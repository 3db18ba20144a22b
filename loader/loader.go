package loader

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/serpens/content"
	"github.com/nathoo/serpens/engine/dice"
	"github.com/nathoo/serpens/engine/world"
)

//go:embed default/*.lua
var defaultGame embed.FS

// collector accumulates Lua definitions during file execution.
type collector struct {
	game      *lua.LTable
	rooms     []rawRoom
	dialogues map[string]*lua.LTable
	errs      []string
}

// Load reads all .lua files from dir, compiles them into a Game and
// validates it. The Lua VM is discarded after loading.
func Load(dir string, dict *content.Dict) (*Game, error) {
	return LoadFS(os.DirFS(dir), dict)
}

// Default loads the game that ships with serpens.
func Default(dict *content.Dict) (*Game, error) {
	sub, err := fs.Sub(defaultGame, "default")
	if err != nil {
		return nil, err
	}
	return LoadFS(sub, dict)
}

// LoadFS is Load over any file system. Files run in order: game.lua first,
// the rest alphabetically.
func LoadFS(fsys fs.FS, dict *content.Dict) (*Game, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("reading game directory: %w", err)
	}
	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 {
		return nil, fmt.Errorf("no .lua files found")
	}
	luaFiles = sortedLuaFiles(luaFiles)

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	openSafeLibs(L)
	sandbox(L)

	coll := &collector{dialogues: map[string]*lua.LTable{}}
	registerAPI(L, coll)

	for _, f := range luaFiles {
		data, err := fs.ReadFile(fsys, f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f, err)
		}
		fn, err := L.Load(bytes.NewReader(data), path.Base(f))
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", f, err)
		}
		L.Push(fn)
		if err := L.PCall(0, lua.MultRet, nil); err != nil {
			return nil, fmt.Errorf("executing %s: %w", f, err)
		}
	}

	world.UseDict(dict)
	g, err := compile(coll)
	if err != nil {
		return nil, fmt.Errorf("compiling game data: %w", err)
	}
	if err := validate(g, dict); err != nil {
		return nil, err
	}
	// A trial build catches anything the records decode but cannot place.
	if _, err := g.NewWorld(dice.NewRNG(0)); err != nil {
		return nil, fmt.Errorf("building game world: %w", err)
	}
	return g, nil
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes dangerous globals and functions.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage", "require", "module",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	// Content must not reseed: the game owns the RNG.
	if tbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		tbl.RawSetString("randomseed", lua.LNil)
		tbl.RawSetString("random", lua.LNil)
	}
}

// sortedLuaFiles returns game.lua first and the rest sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var gameFile string
	var others []string
	for _, f := range files {
		if f == "game.lua" {
			gameFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if gameFile != "" {
		return append([]string{gameFile}, others...)
	}
	return others
}
