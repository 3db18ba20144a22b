package loader

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/serpens/content"
	"github.com/nathoo/serpens/engine"
	"github.com/nathoo/serpens/engine/dice"
	"github.com/nathoo/serpens/engine/world"
)

const tinyGame = `
Game { title = "Tiny", start = "Hall" }
Room "Hall" { description = "A hall.", links = { south = "Yard" } }
Room "Yard" { description = "A yard.", links = { north = "Hall" } }
`

func loadSources(t *testing.T, files map[string]string) (*Game, error) {
	t.Helper()
	fsys := fstest.MapFS{}
	for name, src := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(src)}
	}
	return LoadFS(fsys, content.MustDefault())
}

func mustLoad(t *testing.T, src string) *Game {
	t.Helper()
	g, err := loadSources(t, map[string]string{"game.lua": src})
	require.NoError(t, err)
	return g
}

func fixture(t *testing.T, room *world.Room, name string) world.Thing {
	t.Helper()
	for _, f := range room.Fixtures {
		if f.Core().Name == name {
			return f
		}
	}
	t.Fatalf("no fixture %q in %s", name, room.Name)
	return nil
}

func TestLoadMinimalGame(t *testing.T) {
	g := mustLoad(t, tinyGame)
	assert.Equal(t, "Tiny", g.Title)
	assert.Equal(t, "hall", g.Start)
	assert.Empty(t, g.Warnings)

	w, err := g.NewWorld(dice.NewRNG(1))
	require.NoError(t, err)
	hall, ok := w.Room("hall")
	require.True(t, ok)
	assert.Equal(t, "A hall.", hall.Desc)
	assert.Equal(t, "yard", hall.Links["south"])
	require.NotNil(t, w.Player)
	assert.Equal(t, "Wanderer", w.Player.Name)
	assert.Same(t, hall, world.RoomOf(w.Player))
	assert.Equal(t, w.Player.MXHP(), w.Player.HP)
}

func TestDefaultGame(t *testing.T) {
	dict := content.MustDefault()
	g, err := Default(dict)
	require.NoError(t, err)
	assert.Equal(t, "The Hollow Road", g.Title)
	assert.Empty(t, g.Warnings)

	w, err := g.NewWorld(dice.NewRNG(3))
	require.NoError(t, err)
	assert.Empty(t, world.CheckInvariants(w))
	assert.Equal(t, "cottage", w.Game.Current)
	assert.Equal(t, 150, w.Game.Time)
	assert.Equal(t, 11, w.Player.Traits.STR)
	assert.Equal(t, 10, w.Player.Traits.WIS)
	assert.Len(t, w.Player.Inventory, 2)

	cottage, _ := w.Room("cottage")
	square, _ := w.Room("square")
	inner := fixture(t, cottage, "oak door").(*world.Door)
	outer := fixture(t, square, "cottage door").(*world.Door)
	assert.Equal(t, outer.ID(), inner.Links["south"].Portal)
	assert.Equal(t, inner.ID(), outer.Links["north"].Portal)
	assert.True(t, inner.Fixed)

	inn, _ := w.Room("inn")
	chest := fixture(t, inn, "old chest").(*world.Lockbox)
	assert.True(t, chest.Locked)
	assert.Equal(t, 7, chest.KeyID)
	assert.Len(t, chest.Items, 2)

	var dorn *world.Person
	for _, c := range inn.Creatures {
		if p, ok := c.(*world.Person); ok {
			dorn = p
		}
	}
	require.NotNil(t, dorn)
	assert.Equal(t, "he", dorn.Pronoun)
	assert.Equal(t, 12, dorn.Traits.CHA)
	require.NotNil(t, dorn.Tree)
	assert.Equal(t, -1, dorn.Tree.LastParley)
	assert.Contains(t, dorn.Tree.Colloquy.Remark, "Sleeping Serpent")
	require.Len(t, dorn.Inventory, 1)
	assert.Equal(t, 7, dorn.Inventory[0].(*world.Key).KeyID)

	hollow, _ := w.Room("hollow")
	assert.True(t, hollow.Status.Has("dark"))
}

func TestNewWorldStartsFresh(t *testing.T) {
	g, err := Default(content.MustDefault())
	require.NoError(t, err)
	a, err := g.NewWorld(dice.NewRNG(1))
	require.NoError(t, err)
	b, err := g.NewWorld(dice.NewRNG(1))
	require.NoError(t, err)

	road, _ := a.Room("road")
	for len(road.Items) > 0 {
		a.Destroy(road.Items[0])
	}
	a.Player.Traits.STR = 20

	other, _ := b.Room("road")
	assert.Len(t, other.Items, 2)
	assert.Equal(t, 11, b.Player.Traits.STR)
}

func TestDefaultGameIsPlayable(t *testing.T) {
	dict := content.MustDefault()
	g, err := Default(dict)
	require.NoError(t, err)
	w, err := g.NewWorld(dice.NewRNG(5))
	require.NoError(t, err)

	console := engine.NewScriptConsole("open door", "south", "west", "look")
	e := engine.New(w, dict, console, engine.Options{})
	for len(console.Lines) > 0 || len(e.Queued()) > 0 {
		require.NoError(t, e.Turn())
	}
	assert.Equal(t, "inn", w.Game.Current)
	assert.Contains(t, console.Text(), "Sleeping Serpent")
}

func TestLoadFailures(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"no game", `Room "Hall" {}`, "no Game{} definition"},
		{"two games", tinyGame + `Game { title = "Again", start = "Hall" }`, "defined more than once"},
		{"syntax", `Game { title = `, "parsing game.lua"},
		{"sandbox", `dofile("/etc/passwd")`, "executing game.lua"},
		{"missing title", `Game { start = "Hall" } Room "Hall" {}`, "Game.title is required"},
		{"missing start", `Game { title = "T" } Room "Hall" {}`, "Game.start is required"},
		{"unknown start", `Game { title = "T", start = "Nowhere" } Room "Hall" {}`, `start room "nowhere"`},
		{"duplicate room", tinyGame + `Room "hall" {}`, `room "hall" defined more than once`},
		{"bad exit", `Game { title = "T", start = "Hall" } Room "Hall" { links = { north = "Attic" } }`, `undefined room "attic"`},
		{"bad direction", `Game { title = "T", start = "Hall" } Room "Hall" { links = { sideways = "Hall" } }`, `unknown direction "sideways"`},
		{"unknown kind", `Game { title = "T", start = "Hall" } Room "Hall" { items = { { kind = "unicorn horn" } } }`, `unknown kind "unicorn horn"`},
		{"class without name", `Game { title = "T", start = "Hall" } Room "Hall" { items = { { kind = "Sign" } } }`, "needs a name"},
		{"unknown effect", `Game { title = "T", start = "Hall" } Room "Hall" { fixtures = {
			{ kind = "Controller", name = "button", effects = { { type = "explode" } } } } }`, `unknown effect type "explode"`},
		{"unknown dialogue", `Game { title = "T", start = "Hall" } Room "Hall" { creatures = {
			{ kind = "Person", name = "Ida", dialogue = "ida" } } }`, `unknown dialogue "ida"`},
		{"dialogue without chatter", `Game { title = "T", start = "Hall" }
			Dialogue "ida" { colloquy = { remark = "Hi." } }
			Room "Hall" { creatures = { { kind = "Person", name = "Ida", dialogue = "ida" } } }`, "chatter branch is missing"},
		{"trait out of range", `Game { title = "T", start = "Hall" } Room "Hall" { creatures = {
			{ kind = "goblin", traits = { str = 30 } } } }`, "trait STR is 30"},
		{"unknown portal", `Game { title = "T", start = "Hall" } Room "Hall" { fixtures = {
			{ kind = "Door", name = "door", links = { north = Portal("nowhere") } } } }`, `unknown portal "nowhere"`},
		{"one-way portal", `Game { title = "T", start = "Hall" }
			Room "Hall" { links = { south = "Yard" }, fixtures = {
				{ kind = "Door", tag = "a", name = "red door", links = { north = Portal("b") } } } }
			Room "Yard" { links = { north = "Hall" }, fixtures = {
				{ kind = "Door", tag = "b", name = "blue door", links = { south = "Hall" } } } }`, "does not link back"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadSources(t, map[string]string{"game.lua": tt.src})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidationCollectsEveryError(t *testing.T) {
	_, err := loadSources(t, map[string]string{"game.lua": `
		Game { start = "Hall" }
		Room "Hall" { links = { north = "Attic", south = "Cellar" } }`})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Errors, 3)
}

func TestUnreachableRoomWarns(t *testing.T) {
	g := mustLoad(t, tinyGame+`Room "Attic" { description = "Dusty." }`)
	require.Len(t, g.Warnings, 1)
	assert.Contains(t, g.Warnings[0], "attic")
}

func TestLinkEffectsCountAsPaths(t *testing.T) {
	g := mustLoad(t, `
		Game { title = "T", start = "Hall" }
		Room "Hall" { fixtures = {
			{ kind = "Controller", name = "lever", effects = { Link("Hall", "down", "Vault") } } } }
		Room "Vault" { links = { up = "Hall" } }`)
	assert.Empty(t, g.Warnings)
}

func TestMathRandomIsRemoved(t *testing.T) {
	_, err := loadSources(t, map[string]string{"game.lua": tinyGame + `local x = math.random(6)`})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "executing game.lua")
}

func TestFilesLoadGameFirst(t *testing.T) {
	g, err := loadSources(t, map[string]string{
		"a_rooms.lua": `Room "Hall" { description = TITLE }`,
		"game.lua":    `TITLE = "From game.lua" Game { title = TITLE, start = "Hall" }`,
	})
	require.NoError(t, err)
	w, err := g.NewWorld(dice.NewRNG(1))
	require.NoError(t, err)
	hall, _ := w.Room("hall")
	assert.Equal(t, "From game.lua", hall.Desc)
}

func TestSortedLuaFiles(t *testing.T) {
	got := sortedLuaFiles([]string{"rooms.lua", "game.lua", "npcs.lua", "a.lua"})
	assert.Equal(t, []string{"game.lua", "a.lua", "npcs.lua", "rooms.lua"}, got)
	assert.Equal(t, []string{"x.lua"}, sortedLuaFiles([]string{"x.lua"}))
}

func TestNoLuaFiles(t *testing.T) {
	_, err := LoadFS(fstest.MapFS{"readme.txt": {Data: []byte("hi")}}, content.MustDefault())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "no .lua files"))
}
