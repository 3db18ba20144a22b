package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/nathoo/serpens/content"
	"github.com/nathoo/serpens/engine/dialogue"
	"github.com/nathoo/serpens/engine/dice"
	"github.com/nathoo/serpens/engine/save"
	"github.com/nathoo/serpens/engine/world"
)

func average() world.Traits {
	return world.Traits{STR: 10, SPD: 10, SKL: 10, STM: 10, CON: 10, CHA: 10, INT: 10, WIS: 10, FTH: 10, LCK: 10}
}

// testGame builds a hall with a yard to the south and an engine reading
// from a script.
func testGame(t *testing.T, opts Options, lines ...string) (*Engine, *ScriptConsole) {
	t.Helper()
	dict := content.MustDefault()
	world.UseDict(dict)
	w := world.New(dice.NewRNG(7))
	hall := world.NewRoom("Hall", "keep", "A draughty stone hall.")
	yard := world.NewRoom("Yard", "keep", "A muddy yard.")
	hall.Altitude, yard.Altitude = -1, 0
	hall.Links["south"] = "yard"
	yard.Links["north"] = "hall"
	require.NoError(t, w.AddRoom(hall))
	require.NoError(t, w.AddRoom(yard))
	w.Player = world.NewPlayer("Ash", average())
	w.Spawn(w.Player, hall)
	w.Game.Current = "hall"

	console := NewScriptConsole(lines...)
	return New(w, dict, console, opts), console
}

func (e *Engine) room(t *testing.T, name string) *world.Room {
	t.Helper()
	r, ok := e.World.Room(name)
	require.True(t, ok, name)
	return r
}

func spawnItem(t *testing.T, e *Engine, kind string, dest world.Holder) world.Thing {
	t.Helper()
	it, ok := world.NewItem(kind)
	require.True(t, ok, kind)
	return e.World.Spawn(it, dest)
}

func spawnCreature(t *testing.T, e *Engine, kind string, dest world.Holder) world.Being {
	t.Helper()
	b, ok := world.NewCreature(kind)
	require.True(t, ok, kind)
	e.World.Spawn(b, dest)
	return b
}

// play runs every scripted line as a full turn.
func play(t *testing.T, e *Engine, c *ScriptConsole, lines ...string) {
	t.Helper()
	c.Feed(lines...)
	for len(c.Lines) > 0 || len(e.queue) > 0 {
		require.NoError(t, e.Turn())
	}
}

func TestTakeAndDrop(t *testing.T) {
	e, c := testGame(t, Options{})
	hall := e.room(t, "hall")
	potion := spawnItem(t, e, "red potion", hall)

	play(t, e, c, "take red potion")
	assert.Contains(t, c.Text(), "You take the red potion")
	assert.True(t, e.World.Player.Has(potion))

	play(t, e, c, "drop red potion")
	assert.Contains(t, c.Text(), "You drop the red potion")
	assert.Same(t, hall, world.RoomOf(potion))
	assert.Zero(t, e.World.Player.INVW())
}

func TestAttackBareHanded(t *testing.T) {
	e, c := testGame(t, Options{})
	python := spawnCreature(t, e, "green python", e.room(t, "hall"))
	python.Body().HP = 12
	before := e.World.Game.Time

	play(t, e, c, "attack green python with fist")

	assert.Contains(t, c.Text(), "You attack the green python with your hand")
	assert.Equal(t, before+1, e.World.Game.Time)
}

func TestLockOpenUnlock(t *testing.T) {
	e, c := testGame(t, Options{})
	box := spawnItem(t, e, "lockbox", e.room(t, "hall")).(*world.Lockbox)
	spawnItem(t, e, "key", e.World.Player)

	play(t, e, c, "lock lockbox with key")
	assert.Contains(t, c.Text(), "You lock the lockbox")
	assert.True(t, box.IsLocked())

	c.Reset()
	play(t, e, c, "open lockbox")
	assert.Contains(t, c.Text(), "the lockbox is locked")
	assert.False(t, box.IsOpen())

	play(t, e, c, "unlock lockbox with key")
	assert.Contains(t, c.Text(), "You unlock the lockbox")
	assert.False(t, box.IsLocked())
}

func TestTalkBuildsRapport(t *testing.T) {
	e, c := testGame(t, Options{})
	tree := dialogue.NewTree()
	tree.Colloquy = &dialogue.Node{Remark: "I'm Dorn. I keep the gate.", VisitLimit: 1}
	tree.Chatter = &dialogue.Node{Remark: "Hm."}
	dorn := world.NewPerson("Dorn", "A gruff guard.", "he", average(), 2, tree)
	e.World.Spawn(dorn, e.room(t, "hall"))

	play(t, e, c, "talk to dorn")

	assert.Contains(t, c.Text(), "Dorn: I'm Dorn. I keep the gate.")
	assert.Equal(t, 1, dorn.Rapport)
	assert.True(t, dorn.Memories.Has("met"))

	ref, ok := e.World.Referent("he")
	require.True(t, ok)
	assert.Same(t, dorn.Core(), ref.Core())

	play(t, e, c, "talk to dorn")
	assert.Contains(t, c.Text(), "Dorn: Hm.")
	assert.Equal(t, 1, dorn.Rapport, "chatter does not build rapport")
}

func TestChatterLeavesRapport(t *testing.T) {
	e, c := testGame(t, Options{})
	tree := dialogue.NewTree()
	tree.Chatter = &dialogue.Node{Remark: "Hm."}
	dorn := world.NewPerson("Dorn", "A gruff guard.", "he", average(), 2, tree)
	e.World.Spawn(dorn, e.room(t, "hall"))

	play(t, e, c, "talk to dorn", "talk to dorn", "talk to dorn")

	assert.Equal(t, 3, strings.Count(c.Text(), "Dorn: Hm."))
	assert.Zero(t, dorn.Rapport)
	assert.True(t, dorn.Memories.Has("met"))
}

func TestTalkRefusals(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, e *Engine)
		cmd   string
		want  string
	}{
		{"nobody named", func(*testing.T, *Engine) {}, "talk", "Talk to whom?"},
		{"an animal", func(t *testing.T, e *Engine) {
			spawnCreature(t, e, "brown hare", e.room(t, "hall"))
		}, "talk to hare", "stares at you blankly"},
		{"the dead", func(t *testing.T, e *Engine) {
			g := spawnCreature(t, e, "goblin", e.room(t, "hall"))
			g.Body().Status.Add("dead", world.Permanent)
		}, "talk to goblin", "is in no state to talk"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, c := testGame(t, Options{})
			tt.setup(t, e)
			assert.False(t, e.Step(tt.cmd))
			assert.Contains(t, c.Text(), tt.want)
		})
	}
}

func TestThrowThroughOpenDoor(t *testing.T) {
	e, c := testGame(t, Options{})
	hall, yard := e.room(t, "hall"), e.room(t, "yard")
	delete(hall.Links, "south")
	delete(yard.Links, "north")
	near := world.NewDoor("door", "An oak door.", 0)
	far := world.NewDoor("door", "An oak door.", 0)
	e.World.Spawn(near, hall)
	e.World.Spawn(far, yard)
	world.Pair(near, "south", far, "north")
	near.Open, far.Open = true, true
	rock := spawnItem(t, e, "rock", e.World.Player)

	play(t, e, c, "throw rock south")

	assert.Contains(t, c.Text(), "You throw the rock south")
	assert.Same(t, yard, world.RoomOf(rock))
}

func TestKillDropsLootAndAwardsXP(t *testing.T) {
	e, c := testGame(t, Options{})
	p := e.World.Player
	p.Traits = world.Traits{STR: 20, SPD: 20, SKL: 20, STM: 20, CON: 20, CHA: 10, INT: 10, WIS: 10, FTH: 10, LCK: 10}
	p.HP = p.MXHP()
	hall := e.room(t, "hall")
	hare := spawnCreature(t, e, "brown hare", hall)
	hare.Body().HP = 1

	for i := 0; i < 50 && !hare.Body().Dead(); i++ {
		play(t, e, c, "attack hare")
	}

	require.True(t, hare.Body().Dead())
	assert.Contains(t, c.Text(), "died.")
	assert.Contains(t, c.Text(), "You gain")
	assert.Positive(t, p.XP)
	var gold *world.Serpens
	for _, it := range hall.Items {
		if s, ok := it.(*world.Serpens); ok {
			gold = s
		}
	}
	require.NotNil(t, gold)
	assert.GreaterOrEqual(t, gold.Value(), 1)
	assert.LessOrEqual(t, gold.Value(), max(1, 3*p.LOOT()-2))
}

func TestChainedCommandsQueue(t *testing.T) {
	e, c := testGame(t, Options{})
	hall := e.room(t, "hall")
	rock := spawnItem(t, e, "rock", hall)

	assert.True(t, e.Step("take rock and drop rock"))
	assert.Equal(t, []string{"drop rock"}, e.Queued())
	assert.True(t, e.World.Player.Has(rock))

	play(t, e, c)
	assert.Empty(t, e.Queued())
	assert.Same(t, hall, world.RoomOf(rock))
}

func TestFailureClearsQueue(t *testing.T) {
	e, c := testGame(t, Options{})

	assert.False(t, e.Step("take unicorn and wait"))

	assert.Empty(t, e.Queued())
	assert.Contains(t, c.Text(), "unicorn")
}

func TestAgainRepeatsLastCommand(t *testing.T) {
	e, c := testGame(t, Options{})

	assert.False(t, e.Step("again"))
	assert.Contains(t, c.Text(), "There is nothing to repeat.")

	play(t, e, c, "wait", "g")
	assert.Equal(t, 2, strings.Count(c.Text(), "Time passes."))
	assert.Equal(t, 2, e.World.Game.Time)
}

func TestHelpHintAfterThreeFailures(t *testing.T) {
	e, c := testGame(t, Options{})

	play(t, e, c, "xyzzy", "frobnicate", "plugh")

	assert.Contains(t, c.Text(), "'xyzzy' is not a valid verb")
	assert.Equal(t, 1, strings.Count(c.Text(), "Type 'help'"))
	assert.Zero(t, e.World.Game.Time)
}

func TestLexiconCoversRenderedRooms(t *testing.T) {
	e, _ := testGame(t, Options{})
	e.World.Spawn(world.NewPlainItem("salt and pepper", "A twist of salt and pepper.", 1, "salt"), e.room(t, "yard"))
	lex := lexicon{e: e}

	e.World.Game.Rendered = nil
	assert.False(t, lex.Meaningful("salt and pepper"))

	e.World.Game.Rendered = []string{"hall", "yard"}
	assert.True(t, lex.Meaningful("salt and pepper"))
}

func TestTakeNameWithAnd(t *testing.T) {
	e, c := testGame(t, Options{})
	jar := e.World.Spawn(world.NewPlainItem("salt and pepper", "A twist of salt and pepper.", 1, "salt"), e.room(t, "hall"))

	play(t, e, c, "take salt and pepper and wait")

	assert.True(t, e.World.Player.Has(jar))
	assert.Contains(t, c.Text(), "Time passes.")
	assert.Equal(t, 2, e.World.Game.Time)
}

func TestParseErrorLines(t *testing.T) {
	e, c := testGame(t, Options{})

	play(t, e, c, "!!!")
	assert.Contains(t, c.Text(), "Command not understood")

	c.Reset()
	play(t, e, c, "frobnicate the door")
	assert.Contains(t, c.Text(), "'frobnicate' is not a valid verb")
}

func TestMovementAndBack(t *testing.T) {
	e, c := testGame(t, Options{})

	play(t, e, c, "s")
	assert.Equal(t, "yard", e.World.Game.Current)
	assert.Equal(t, "hall", e.World.Game.Previous)
	assert.Contains(t, c.Text(), "You go south.")

	play(t, e, c, "back")
	assert.Equal(t, "hall", e.World.Game.Current)

	c.Reset()
	assert.False(t, e.Step("go west"))
	assert.Contains(t, c.Text(), "You can't go that way.")
}

func TestPairedDoorsStayInSync(t *testing.T) {
	e, c := testGame(t, Options{})
	hall, yard := e.room(t, "hall"), e.room(t, "yard")
	delete(hall.Links, "south")
	delete(yard.Links, "north")
	near := world.NewDoor("door", "An oak door.", 1)
	far := world.NewDoor("door", "An oak door.", 1)
	e.World.Spawn(near, hall)
	e.World.Spawn(far, yard)
	world.Pair(near, "south", far, "north")
	near.Locked, far.Locked = true, true
	spawnItem(t, e, "key", e.World.Player)

	play(t, e, c, "s")
	assert.Equal(t, "hall", e.World.Game.Current)
	assert.Contains(t, c.Text(), "is locked")

	play(t, e, c, "unlock door", "open door")
	assert.False(t, far.Locked)
	assert.True(t, far.Open)

	play(t, e, c, "s")
	assert.Equal(t, "yard", e.World.Game.Current)

	play(t, e, c, "close door")
	assert.False(t, near.Open)
}

func TestStatQueriesTakeNoTime(t *testing.T) {
	e, c := testGame(t, Options{})
	p := e.World.Player

	for _, cmd := range []string{"hp", "str", "mvmt", "traits", "abilities", "inventory", "time", "money"} {
		assert.False(t, e.Step(cmd), cmd)
	}

	assert.Contains(t, c.Text(), "HP: ")
	assert.Contains(t, c.Text(), "STR: 10")
	assert.Contains(t, c.Text(), "MVMT: ")
	assert.Contains(t, c.Text(), "You have 0 serpens.")
	assert.Zero(t, e.World.Game.Time)
	assert.Equal(t, p.MXHP(), p.HP)
}

func TestCheatsAreGated(t *testing.T) {
	e, c := testGame(t, Options{})
	e.World.Player.HP = 1

	assert.False(t, e.Step(`\pot`))
	assert.Contains(t, c.Text(), "Cheats are disabled.")
	assert.Equal(t, 1, e.World.Player.HP)

	e, c = testGame(t, Options{Cheats: true})
	e.World.Player.HP = 1
	assert.False(t, e.Step(`\pot`))
	assert.Contains(t, c.Text(), "fully restored")
	assert.Equal(t, e.World.Player.MXHP(), e.World.Player.HP)

	assert.False(t, e.Step(`\get dagger`))
	assert.NotEmpty(t, e.World.Player.Inventory)

	assert.False(t, e.Step(`\tpt yard`))
	assert.Equal(t, "yard", e.World.Game.Current)

	c.Reset()
	assert.False(t, e.Step(`\tst`))
	assert.Contains(t, c.Text(), "World is consistent")
}

func TestSaveCommand(t *testing.T) {
	slots := &save.Slots{Dir: t.TempDir()}
	e, c := testGame(t, Options{Slots: slots, SaveName: "ash"})
	spawnItem(t, e, "rock", e.World.Player)

	assert.False(t, e.Step("save"))
	assert.Contains(t, c.Text(), "Game saved as ash.")
	require.True(t, slots.Exists("ash"))

	w, err := slots.Load("ash")
	require.NoError(t, err)
	require.Len(t, w.Player.Inventory, 1)
	assert.Equal(t, "rock", w.Player.Inventory[0].Core().Name)
}

func TestSaveWithoutSlot(t *testing.T) {
	e, c := testGame(t, Options{})

	assert.False(t, e.Step("save"))
	assert.Contains(t, c.Text(), "can't be saved")
}

func TestRunStopsOnQuitAndEOF(t *testing.T) {
	e, c := testGame(t, Options{}, "look", "quit", "wait")
	require.NoError(t, e.Run(context.Background()))
	assert.Equal(t, world.ModeQuit, e.World.Game.Mode)
	assert.Equal(t, []string{"wait"}, c.Lines)

	e, _ = testGame(t, Options{}, "wait")
	require.NoError(t, e.Run(context.Background()))
	assert.Equal(t, 1, e.World.Game.Time)
}

func TestRunHonoursCancel(t *testing.T) {
	e, _ := testGame(t, Options{}, "wait")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, e.Run(ctx), context.Canceled)
}

func TestGiveFoodToAnimal(t *testing.T) {
	e, c := testGame(t, Options{})
	wolf := spawnCreature(t, e, "grey wolf", e.room(t, "hall"))
	bread := spawnItem(t, e, "bread", e.World.Player)

	play(t, e, c, "give bread to wolf")

	assert.Contains(t, c.Text(), "eats the bread")
	assert.False(t, wolf.Body().Hostile)
	assert.False(t, e.World.Player.Has(bread))
}

func TestEquipAndInventory(t *testing.T) {
	e, c := testGame(t, Options{})
	spawnItem(t, e, "sword", e.room(t, "hall"))

	play(t, e, c, "equip sword")
	assert.Contains(t, c.Text(), "You equip the sword")

	c.Reset()
	assert.False(t, e.Step("inventory"))
	assert.Contains(t, c.Text(), "a sword (")
}

// Arbitrary command streams never panic, and time only moves forward.
func TestStepNeverPanics(t *testing.T) {
	words := []string{"take", "drop", "rock", "go", "south", "north", "attack", "hare", "with",
		"fist", "and", "open", "it", "look", "wait", "xyzzy", "the", "eat", "bread", "back", "throw", "up"}
	rapid.Check(t, func(rt *rapid.T) {
		e, _ := testGame(t, Options{})
		spawnItem(t, e, "rock", e.room(t, "hall"))
		spawnItem(t, e, "bread", e.World.Player)
		spawnCreature(t, e, "brown hare", e.room(t, "yard"))
		cmds := rapid.SliceOfN(rapid.SliceOfN(rapid.SampledFrom(words), 1, 5), 1, 10).Draw(rt, "cmds")
		last := 0
		for _, cmd := range cmds {
			if e.Step(strings.Join(cmd, " ")) {
				e.Advance()
			}
			if e.World.Game.Time < last {
				rt.Fatalf("time went backwards: %d < %d", e.World.Game.Time, last)
			}
			last = e.World.Game.Time
		}
		if errs := world.CheckInvariants(e.World); len(errs) > 0 {
			rt.Fatalf("invariants broken: %v", errs)
		}
	})
}

func TestNarrationKeepsPercentSigns(t *testing.T) {
	e, c := testGame(t, Options{})
	e.room(t, "hall").Desc = "Soot covers 100% of the walls."

	play(t, e, c, "look")

	assert.Contains(t, c.Text(), "Soot covers 100% of the walls.")
	assert.NotContains(t, c.Text(), "%!")
}
