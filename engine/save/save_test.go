package save

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/serpens/engine/dialogue"
	"github.com/nathoo/serpens/engine/dice"
	"github.com/nathoo/serpens/engine/world"
)

func average() world.Traits {
	return world.Traits{STR: 10, SPD: 10, SKL: 10, STM: 10, CON: 10, CHA: 10, INT: 10, WIS: 10, FTH: 10, LCK: 10}
}

// populated builds a two-room world exercising every kind of reference a
// save has to carry: paired doors, nested containers, gear, a carry link,
// a speaker with dialogue history and world events.
func populated(t *testing.T) *world.World {
	t.Helper()
	w := world.New(dice.NewRNG(7))
	hall := world.NewRoom("Hall", "castle", "A long hall.")
	hall.Altitude = -1
	hall.Links["north"] = "yard"
	yard := world.NewRoom("Yard", "village", "A muddy yard.")
	yard.Links["south"] = "hall"
	yard.Status.Add("cozy", world.Permanent)
	require.NoError(t, w.AddRoom(hall))
	require.NoError(t, w.AddRoom(yard))

	mk := func(kind string, dest world.Holder) world.Thing {
		it, ok := world.NewItem(kind)
		require.True(t, ok, kind)
		return w.Spawn(it, dest)
	}

	near := world.NewDoor("door", "An oak door.", 3)
	far := world.NewDoor("door", "An oak door.", 3)
	w.Spawn(near, hall)
	w.Spawn(far, yard)
	world.Pair(near, "east", far, "west")
	near.Locked, far.Locked = true, true

	chest := mk("chest", hall).(*world.Box)
	mk("red potion", chest)

	p := world.NewPlayer("Ash", average())
	w.Spawn(p, hall)
	w.Player = p
	sword := mk("sword", p)
	armor := mk("leather armor", p)
	sack := mk("sack", p)
	mk("bread", sack.(world.Holder))
	require.NoError(t, p.Equip(sword, world.SlotRight))
	require.NoError(t, p.Equip(armor, ""))
	p.XP = 30
	p.Spells = []string{"heal"}
	p.Status.Add("poisoned", 5)

	hare, _ := world.NewCreature("brown hare")
	w.Spawn(hare, hall)
	require.NoError(t, w.LinkCarry(p, hare))

	goblin, _ := world.NewCreature("goblin")
	w.Spawn(goblin, yard)
	dagger := mk("dagger", goblin)
	require.NoError(t, goblin.Body().Equip(dagger, ""))

	tree := dialogue.NewTree()
	tree.Chatter = &dialogue.Node{Trites: []string{"greeting"}}
	tree.Visits["chatter"] = 2
	tree.LastParley = 40
	dorn := world.NewPerson("Dorn", "A gruff guard.", "he", average(), 3, tree)
	dorn.Rapport = 4
	w.Spawn(dorn, yard)
	dorn.Remember("met the player")

	w.Spawn(world.NewSerpens(12), yard)

	w.Game.Current = "hall"
	w.Game.Previous = "yard"
	w.Game.Time = 123
	w.Game.Events.Add("bridge burned")
	for range 5 {
		w.RNG.Roll(20)
	}
	require.Empty(t, world.CheckInvariants(w))
	return w
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	orig := populated(t)
	dir := t.TempDir()
	require.NoError(t, Save(orig, dir))

	loaded, err := Load(dir)
	require.NoError(t, err)

	again := t.TempDir()
	require.NoError(t, Save(loaded, again))
	for _, f := range []string{WorldFile, PlayerFile, GameFile} {
		assert.Equal(t, readFile(t, filepath.Join(dir, f)), readFile(t, filepath.Join(again, f)), f)
	}

	assert.Equal(t, orig.Registry.Len(), loaded.Registry.Len())
	assert.Equal(t, 123, loaded.Game.Time)
	assert.Equal(t, "yard", loaded.Game.Previous)
	assert.True(t, loaded.Game.Events.Has("bridge burned"))
	assert.Equal(t, orig.RNG.Roll(1000), loaded.RNG.Roll(1000))

	p := loaded.Player
	assert.Equal(t, orig.Player.ID(), p.ID())
	assert.Equal(t, 30, p.XP)
	assert.Equal(t, []string{"heal"}, p.Spells)
	right := p.Gear[world.SlotRight]
	require.NotNil(t, right)
	assert.Equal(t, "sword", right.Core().Name)
	assert.True(t, p.Has(right))
	assert.Equal(t, "leather armor", p.Gear[world.SlotBody].Core().Name)
	assert.Nil(t, p.Gear[world.SlotLeft])

	hare, ok := loaded.Carried(p.Body())
	require.True(t, ok)
	assert.Equal(t, "brown hare", hare.Core().Name)
	assert.Equal(t, p.ID(), hare.Body().Carrier)

	hall, _ := loaded.Room("hall")
	exit, ok := loaded.Exit(hall, "east")
	require.True(t, ok)
	assert.Equal(t, "yard", exit.To.Key())
	assert.Equal(t, "locked", exit.Blocked())

	var dorn *world.Person
	for _, th := range loaded.Registry.All() {
		if pp, ok := th.(*world.Person); ok {
			dorn = pp
		}
	}
	require.NotNil(t, dorn)
	assert.Equal(t, 2, dorn.Tree.Visits["chatter"])
	assert.Equal(t, 40, dorn.Tree.LastParley)
	assert.Equal(t, 4, dorn.Rapport)
	assert.True(t, dorn.Memories.Has("met the player"))

	assert.Empty(t, world.CheckInvariants(loaded))
}

func TestSaveFormat(t *testing.T) {
	w := populated(t)
	dir := t.TempDir()
	require.NoError(t, Save(w, dir))

	text := readFile(t, filepath.Join(dir, WorldFile))
	assert.Contains(t, text, "\n\t\"rooms\": {")
	assert.Contains(t, text, `"__class__": "set"`)
	assert.Contains(t, text, `"__class__": "Door"`)
	assert.NotContains(t, text, `"Ash"`, "the player is stored on its own")

	lines := strings.Split(strings.TrimSpace(readFile(t, filepath.Join(dir, GameFile))), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, []string{"play", "hall", "yard", "123"}, lines[:4])
}

func TestGearEncoding(t *testing.T) {
	w := populated(t)
	r := EncodeThing(w.Player)

	require.Contains(t, r.Gear, world.SlotLeft)
	assert.Equal(t, &GearRef{Carrying: true}, r.Gear[world.SlotLeft])
	assert.Equal(t, &GearRef{Index: 0}, r.Gear[world.SlotRight])
	assert.Nil(t, r.Gear[world.SlotHead])

	data, err := json.Marshal(r.Gear)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"left":"carrying"`)
	assert.Contains(t, string(data), `"head":null`)

	tests := []struct {
		in      string
		want    GearRef
		wantErr bool
	}{
		{`"carrying"`, GearRef{Carrying: true}, false},
		{`2`, GearRef{Index: 2}, false},
		{`"left"`, GearRef{}, true},
		{`true`, GearRef{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var g GearRef
			err := json.Unmarshal([]byte(tt.in), &g)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, g)
		})
	}
}

func TestLinkEncoding(t *testing.T) {
	data, err := json.Marshal(map[string]LinkRef{"up": {Room: "tower"}, "east": {Portal: 9}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"up":"tower","east":9}`, string(data))

	var got map[string]LinkRef
	require.NoError(t, json.Unmarshal([]byte(`{"up":"Tower","east":9}`), &got))
	assert.Equal(t, LinkRef{Room: "tower"}, got["up"])
	assert.Equal(t, LinkRef{Portal: 9}, got["east"])

	assert.Error(t, json.Unmarshal([]byte(`{"up":[1]}`), &got))
}

func TestLoadFourLineHeader(t *testing.T) {
	w := populated(t)
	dir := t.TempDir()
	require.NoError(t, Save(w, dir))
	path := filepath.Join(dir, GameFile)
	require.NoError(t, os.WriteFile(path, []byte("play\nhall\nyard\n123\n"), 0o644))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 123, loaded.Game.Time)
	assert.NotNil(t, loaded.RNG)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.ErrorIs(t, err, ErrNoSave)

	tests := []struct {
		name, file, content string
	}{
		{"bad json", WorldFile, "{"},
		{"bad time", GameFile, "play\nhall\nyard\nnoon\n"},
		{"short header", GameFile, "play\nhall\n"},
		{"unknown room", GameFile, "play\ncellar\nyard\n5\n"},
		{"unknown class", PlayerFile, `{"__class__": "Ghost", "name": "Ash"}`},
		{"not a player", PlayerFile, `{"__class__": "Item", "name": "rock"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, Save(populated(t), dir))
			require.NoError(t, os.WriteFile(filepath.Join(dir, tt.file), []byte(tt.content), 0o644))

			_, err := Load(dir)
			var ce *CorruptError
			assert.ErrorAs(t, err, &ce)
		})
	}
}

func TestLoadRejectsDanglingCarry(t *testing.T) {
	w := populated(t)
	dir := t.TempDir()
	require.NoError(t, Save(w, dir))

	path := filepath.Join(dir, PlayerFile)
	var r Record
	require.NoError(t, json.Unmarshal([]byte(readFile(t, path)), &r))
	r.Carrying = 9999
	data, err := json.MarshalIndent(r, "", "\t")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err = Load(dir)
	var ce *CorruptError
	assert.ErrorAs(t, err, &ce)
}

func TestBuildRegistersFreshRecords(t *testing.T) {
	w := world.New(dice.NewRNG(1))
	room := world.NewRoom("Cell", "castle", "A cell.")
	require.NoError(t, w.AddRoom(room))

	rec := &Record{
		Class:      "Box",
		Name:       "crate",
		Durability: -1,
		Open:       true,
		Items: []*Record{
			{Class: "Weapon", Name: "club", Durability: -1, Might: 3, DamageType: "b"},
			{Class: "Serpens", Name: "gold", Weight: 5},
		},
	}
	th, err := Build(w, rec, room)
	require.NoError(t, err)
	crate, ok := th.(*world.Box)
	require.True(t, ok)
	assert.NotZero(t, crate.ID())
	require.Len(t, crate.Items, 2)
	for _, inner := range crate.Items {
		assert.NotZero(t, inner.Core().ID())
		assert.Same(t, crate.Core(), inner.Core().Parent().(world.Thing).Core())
	}
	assert.Equal(t, 3, w.Registry.Len())
	assert.Empty(t, world.CheckInvariants(w))

	_, err = Build(w, &Record{Class: "Sword", Name: "x"}, room)
	assert.Error(t, err)
	_, err = Build(w, &Record{Class: "Item", Name: "pebble", Items: []*Record{{Class: "Item", Name: "dust"}}}, room)
	assert.Error(t, err)
}

func TestSlots(t *testing.T) {
	s := Slots{Dir: filepath.Join(t.TempDir(), "saves")}
	names, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, names)

	w := populated(t)
	require.NoError(t, s.Save(w, "beta"))
	require.NoError(t, s.Save(w, "Alpha"))
	names, err = s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, names)
	assert.True(t, s.Exists("ALPHA"))
	assert.False(t, s.Exists("gamma"))

	loaded, err := s.Load("alpha")
	require.NoError(t, err)
	assert.Equal(t, "Ash", loaded.Player.Name)

	_, err = s.Load("gamma")
	assert.ErrorIs(t, err, ErrNoSave)
	assert.ErrorIs(t, s.Delete("gamma"), ErrNoSave)
	assert.ErrorIs(t, s.Save(w, "../escape"), ErrBadName)
	assert.ErrorIs(t, s.Delete(""), ErrBadName)

	require.NoError(t, s.Delete("beta"))
	n, err := s.DeleteAll()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	names, err = s.List()
	require.NoError(t, err)
	assert.Empty(t, names)
}
