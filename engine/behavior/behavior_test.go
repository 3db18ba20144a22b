package behavior

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/nathoo/serpens/engine/dice"
	"github.com/nathoo/serpens/engine/world"
)

type recorder struct{ lines []string }

func (r *recorder) Print(text string) { r.lines = append(r.lines, text) }

func (r *recorder) String() string { return strings.Join(r.lines, "\n") }

func average() world.Traits {
	return world.Traits{STR: 10, SPD: 10, SKL: 10, STM: 10, CON: 10, CHA: 10, INT: 10, WIS: 10, FTH: 10, LCK: 10}
}

// arena builds a field with a meadow to the south and the sky above it.
func arena(t *testing.T, seed int64) (*world.World, *recorder) {
	t.Helper()
	w := world.New(dice.NewRNG(seed))
	out := &recorder{}
	w.Out = out
	field := world.NewRoom("Field", "plains", "An open field.")
	meadow := world.NewRoom("Meadow", "plains", "A quiet meadow.")
	sky := world.NewRoom("Sky", "plains", "Nothing but air.")
	sky.Altitude = 2
	field.Links["south"] = "meadow"
	meadow.Links["north"] = "field"
	field.Links["up"] = "sky"
	sky.Links["down"] = "field"
	for _, r := range []*world.Room{field, meadow, sky} {
		require.NoError(t, w.AddRoom(r))
	}
	w.Player = world.NewPlayer("Ash", average())
	w.Spawn(w.Player, field)
	w.Game.Current = "field"
	return w, out
}

func spawn(t *testing.T, w *world.World, kind string, room string) world.Being {
	t.Helper()
	b, ok := world.NewCreature(kind)
	require.True(t, ok, kind)
	r, ok := w.Room(room)
	require.True(t, ok, room)
	w.Spawn(b, r)
	return b
}

func item(t *testing.T, w *world.World, kind string, dest world.Holder) world.Thing {
	t.Helper()
	it, ok := world.NewItem(kind)
	require.True(t, ok, kind)
	return w.Spawn(it, dest)
}

func TestDamageCalc(t *testing.T) {
	tests := []struct {
		name      string
		atk, dfns int
		crit      bool
		want      int
	}{
		{"plain", 10, 4, false, 6},
		{"crit doubles", 10, 4, true, 12},
		{"armor soaks all", 3, 8, false, 0},
		{"crit of nothing", 3, 8, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DamageCalc(tt.atk, tt.dfns, tt.crit))
		})
	}
}

func TestDamageCalcNeverNegative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		atk := rapid.IntRange(0, 200).Draw(t, "atk")
		dfns := rapid.IntRange(0, 200).Draw(t, "dfns")
		crit := rapid.Bool().Draw(t, "crit")
		if DamageCalc(atk, dfns, crit) < 0 {
			t.Fatalf("negative damage for %d vs %d", atk, dfns)
		}
	})
}

func TestSwings(t *testing.T) {
	fast := &world.Creature{Traits: world.Traits{SPD: 20, STR: 10}}
	slow := &world.Creature{Traits: world.Traits{SPD: 2, STR: 10}}
	assert.GreaterOrEqual(t, Swings(fast, slow), 1)
	assert.Equal(t, 1, Swings(slow, fast))
	assert.GreaterOrEqual(t, Swings(fast, slow), Swings(slow, fast))
}

func TestAttackNarratesSalvo(t *testing.T) {
	w, out := arena(t, 3)
	python := spawn(t, w, "green python", "field")
	python.Body().Hostile = false

	res := Attack(w, w.Player, python, nil)

	require.NotEmpty(t, out.lines)
	assert.True(t, strings.HasPrefix(out.lines[0], "You attack the green python with your hand"), out.lines[0])
	assert.GreaterOrEqual(t, res.Swings, 1)
	if res.Hits < res.Swings {
		assert.Contains(t, out.String(), "Aw it missed.")
	}
	if !res.Killed {
		assert.True(t, python.Body().Hostile)
		assert.Equal(t, python.Body().MXHP()-res.Dealt, python.Body().HP)
	}
}

func TestAttackUntilDeathAwardsXP(t *testing.T) {
	w, out := arena(t, 11)
	python := spawn(t, w, "green python", "field")
	python.Body().HP = 1
	sword := item(t, w, "sword", w.Player)
	require.NoError(t, w.Player.Equip(sword, world.SlotRight))

	var res Outcome
	for i := 0; i < 50 && !python.Body().Dead(); i++ {
		res = Attack(w, w.Player, python, nil)
	}
	require.True(t, python.Body().Dead())
	assert.True(t, res.Killed)
	assert.Equal(t, XPFor(python.Body()), res.XP)
	assert.Equal(t, res.XP, w.Player.XP)
	assert.Contains(t, out.String(), "The green python died.")
}

func TestAttackWithTwoWeaponsFollowsUp(t *testing.T) {
	w, out := arena(t, 4)
	python := spawn(t, w, "green python", "field")
	python.Body().HP = 100000
	sword := item(t, w, "sword", w.Player)
	dagger := item(t, w, "dagger", w.Player)
	require.NoError(t, w.Player.Equip(sword, world.SlotRight))
	require.NoError(t, w.Player.Equip(dagger, world.SlotLeft))

	primary, second := w.Player.Weapons()
	require.NotNil(t, second)
	assert.Equal(t, "sword", primary.Name)
	assert.Equal(t, "dagger", second.Name)

	want := 2 * Swings(w.Player.Body(), python.Body())
	res := Attack(w, w.Player, python, nil)

	assert.Equal(t, want, res.Swings)
	assert.False(t, res.Killed)
	assert.Contains(t, out.lines[0], "with your sword")
}

func TestAttackWithOneWeaponSwingsOnce(t *testing.T) {
	w, _ := arena(t, 4)
	python := spawn(t, w, "green python", "field")
	python.Body().HP = 100000
	sword := item(t, w, "sword", w.Player)
	require.NoError(t, w.Player.Equip(sword, world.SlotRight))

	want := Swings(w.Player.Body(), python.Body())
	res := Attack(w, w.Player, python, nil)
	assert.Equal(t, want, res.Swings)
}

func TestMonsterAttackNamesPlayer(t *testing.T) {
	w, out := arena(t, 5)
	wolf := spawn(t, w, "grey wolf", "field")

	Attack(w, wolf, w.Player, nil)

	assert.True(t, strings.HasPrefix(out.lines[0], "The grey wolf attacks you with its teeth"), out.lines[0])
	assert.False(t, w.Player.Hostile)
}

func TestThrowDirTransfers(t *testing.T) {
	w, out := arena(t, 1)
	rock := item(t, w, "rock", w.Player)

	require.NoError(t, ThrowDir(w, w.Player, rock, "south"))

	assert.Contains(t, out.String(), "You throw the rock south")
	meadow, _ := w.Room("meadow")
	assert.Same(t, meadow, world.RoomOf(rock))
	assert.False(t, w.Player.Has(rock))
}

func TestThrowDirIntoWall(t *testing.T) {
	w, out := arena(t, 1)
	rock := item(t, w, "rock", w.Player)

	require.NoError(t, ThrowDir(w, w.Player, rock, "west"))

	assert.Contains(t, out.String(), "hits the wall and falls")
	assert.Same(t, w.Here(), world.RoomOf(rock))
}

func TestThrowDirBounceOffClosedDoor(t *testing.T) {
	w, out := arena(t, 1)
	field, _ := w.Room("field")
	meadow, _ := w.Room("meadow")
	delete(field.Links, "south")
	delete(meadow.Links, "north")
	near := world.NewDoor("gate", "A wooden gate.", 0)
	far := world.NewDoor("gate", "A wooden gate.", 0)
	w.Spawn(near, field)
	w.Spawn(far, meadow)
	world.Pair(near, "south", far, "north")
	rock := item(t, w, "rock", w.Player)

	require.NoError(t, ThrowDir(w, w.Player, rock, "south"))

	assert.Contains(t, out.String(), "bounces off the gate")
	assert.Same(t, field, world.RoomOf(rock))
}

func TestThrowTooHeavy(t *testing.T) {
	w, out := arena(t, 1)
	chest := item(t, w, "chest", w.Player)
	w.Player.Traits.STR = 2

	err := ThrowDir(w, w.Player, chest, "south")

	require.ErrorIs(t, err, world.ErrTooHeavy)
	assert.Contains(t, out.String(), "too heavy to throw")
	assert.Same(t, w.Here(), world.RoomOf(chest))
}

func TestThrowIntoSkyFalls(t *testing.T) {
	w, out := arena(t, 1)
	rock := item(t, w, "rock", w.Player)

	require.NoError(t, ThrowDir(w, w.Player, rock, "up"))

	assert.Same(t, w.Here(), world.RoomOf(rock))
	assert.Contains(t, out.String(), "falls from above")
}

func TestThrowAtHitsOrMisses(t *testing.T) {
	w, out := arena(t, 9)
	hare := spawn(t, w, "brown hare", "field")
	dart := item(t, w, "dart", w.Player)

	require.NoError(t, ThrowAt(w, w.Player, dart, hare))

	assert.Contains(t, out.String(), "You throw the dart at the brown hare.")
	assert.Same(t, w.Here(), world.RoomOf(dart))
	if hare.Body().HP < hare.Body().MXHP() && !hare.Body().Dead() {
		assert.True(t, hare.Body().Hostile)
	}
}

func TestBombardMissRicochets(t *testing.T) {
	bounced := 0
	for seed := int64(1); seed <= 200; seed++ {
		w, out := arena(t, seed)
		hare := spawn(t, w, "brown hare", "field")
		rock := item(t, w, "rock", w.Here())
		item(t, w, "chest", w.Here())
		m := Missile{Item: rock, Might: 1, Speed: 1, Aim: -1000}

		assert.False(t, Bombard(w, w.Player, hare, m, 1), "seed %d", seed)

		require.NotEmpty(t, out.lines)
		assert.Equal(t, "The rock misses the brown hare.", out.lines[0])
		if len(out.lines) == 1 {
			continue
		}
		bounced++
		require.Len(t, out.lines, 3, "seed %d: one bounce, then a second miss", seed)
		var next string
		switch out.lines[1] {
		case "It ricochets toward the chest!":
			next = "the chest"
		case "It ricochets toward you!":
			next = "you"
		default:
			t.Fatalf("seed %d: unexpected ricochet %q", seed, out.lines[1])
		}
		assert.Equal(t, "The rock misses "+next+".", out.lines[2])
	}
	assert.Positive(t, bounced, "some seed ricochets")
}

func TestBombardWithoutBouncesStops(t *testing.T) {
	w, out := arena(t, 1)
	hare := spawn(t, w, "brown hare", "field")
	rock := item(t, w, "rock", w.Here())
	item(t, w, "chest", w.Here())

	assert.False(t, Bombard(w, w.Player, hare, Missile{Item: rock, Might: 1, Speed: 1, Aim: -1000}, 0))
	assert.Equal(t, []string{"The rock misses the brown hare."}, out.lines)
}

func TestRicochetSkipsMissileAndTarget(t *testing.T) {
	w, _ := arena(t, 2)
	hare := spawn(t, w, "brown hare", "field")
	rock := item(t, w, "rock", w.Here())
	chest := item(t, w, "chest", w.Here())

	for i := 0; i < 100; i++ {
		next := ricochet(w, w.Here(), rock, hare)
		if next == nil {
			continue
		}
		assert.NotSame(t, rock.Core(), next.Core())
		assert.NotSame(t, hare.Core(), next.Core())
		assert.Contains(t, []*world.Base{chest.Core(), w.Player.Core()}, next.Core())
	}
}

func TestFallHurtsPlayer(t *testing.T) {
	w, out := arena(t, 4)
	sky, _ := w.Room("sky")
	require.NoError(t, w.Travel(w.Player, sky))
	w.Game.Current = "sky"
	w.Player.HP = 1000

	landed, err := Fall(w, w.Player)

	require.NoError(t, err)
	assert.Equal(t, "field", landed.Key())
	assert.Equal(t, "field", w.Game.Current)
	assert.Equal(t, "sky", w.Game.Previous)
	assert.Less(t, w.Player.HP, 1000)
	assert.Contains(t, out.String(), "You fall!")
}

func TestFlyersDoNotFall(t *testing.T) {
	w, _ := arena(t, 4)
	bat := spawn(t, w, "cave bat", "sky")
	bat.Body().Status.Add("flying", world.Permanent)

	landed, err := Fall(w, bat)

	require.NoError(t, err)
	assert.Equal(t, "sky", landed.Key())
}

func TestCarryAndRelease(t *testing.T) {
	w, out := arena(t, 2)
	hare := spawn(t, w, "brown hare", "field")

	require.NoError(t, Carry(w, w.Player, hare))
	assert.Contains(t, out.String(), "You pick up the brown hare.")
	carried, ok := w.Carried(w.Player.Body())
	require.True(t, ok)
	assert.Same(t, hare.Body(), carried.Body())
	assert.ErrorIs(t, Carry(w, w.Player, hare), ErrBusy)

	require.NoError(t, Release(w, w.Player))
	assert.Contains(t, out.String(), "You set down the brown hare.")
	assert.ErrorIs(t, Release(w, w.Player), world.ErrNotHeld)
}

func TestCarryRefusals(t *testing.T) {
	w, _ := arena(t, 2)
	wolf := spawn(t, w, "grey wolf", "field")
	horse := spawn(t, w, "horse", "field")

	assert.ErrorIs(t, Carry(w, w.Player, w.Player), ErrSelf)
	assert.ErrorIs(t, Carry(w, w.Player, wolf), ErrUnwilling)
	assert.ErrorIs(t, Carry(w, w.Player, horse), world.ErrTooHeavy)

	wolf.Body().Status.Add("restrained", RestrainTime)
	assert.NoError(t, Carry(w, w.Player, wolf))
}

func TestRideAndDismount(t *testing.T) {
	w, out := arena(t, 2)
	horse := spawn(t, w, "horse", "field")
	hare := spawn(t, w, "brown hare", "field")

	assert.ErrorIs(t, Ride(w, w.Player, hare), ErrNotRideable)
	require.NoError(t, Ride(w, w.Player, horse))
	assert.Contains(t, out.String(), "You climb onto the horse.")
	assert.ErrorIs(t, Hide(w, w.Player), ErrBusy)

	meadow, _ := w.Room("meadow")
	require.NoError(t, w.Travel(w.Player, meadow))
	assert.Same(t, meadow, world.RoomOf(horse))

	require.NoError(t, Dismount(w, w.Player))
	assert.Zero(t, w.Player.Riding)
	assert.Zero(t, horse.Body().Rider)
}

func TestRestrain(t *testing.T) {
	w, _ := arena(t, 8)
	hare := spawn(t, w, "brown hare", "field")
	w.Player.Traits.STR = 100

	ok, err := Restrain(w, w.Player, hare)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, hare.Body().Status.Has("restrained"))

	w.Kill(hare)
	_, err = Restrain(w, w.Player, hare)
	assert.ErrorIs(t, err, ErrDeadTarget)
}

func TestHideAndSpotted(t *testing.T) {
	w, out := arena(t, 6)
	wolf := spawn(t, w, "grey wolf", "field")

	assert.True(t, Spotted(w, wolf, w.Player))
	require.NoError(t, Hide(w, w.Player))
	assert.Contains(t, out.String(), "You hide.")
	assert.True(t, w.Player.Status.Has("hiding"))

	// A dull observer never beats a stealthy hider.
	wolf.Body().Traits.INT, wolf.Body().Traits.WIS = 0, 0
	w.Player.Traits.SKL = 50
	for range 20 {
		assert.False(t, Spotted(w, wolf, w.Player))
	}
	assert.True(t, Unhide(w.Player))
	assert.False(t, Unhide(w.Player))
}

func TestActHostileAttacks(t *testing.T) {
	w, out := arena(t, 12)
	w.Player.HP = 1000
	spawn(t, w, "grey wolf", "field")

	Act(w, mustBeing(t, w, "grey wolf"))

	assert.True(t, strings.HasPrefix(out.lines[0], "The grey wolf attacks you"), out.String())
}

func TestActSkipsRestrainedAndDead(t *testing.T) {
	w, out := arena(t, 12)
	wolf := spawn(t, w, "grey wolf", "field")
	wolf.Body().Status.Add("restrained", RestrainTime)

	Act(w, wolf)
	assert.Empty(t, out.lines)

	w.Kill(wolf)
	out.lines = nil
	Act(w, wolf)
	assert.Empty(t, out.lines)
}

func TestActWandersAwayFromPlayer(t *testing.T) {
	w, _ := arena(t, 12)
	hare := spawn(t, w, "brown hare", "meadow")
	meadow, _ := w.Room("meadow")

	// The only way out leads to the player, so a peaceful hare stays.
	for range 200 {
		Act(w, hare)
	}
	assert.Same(t, meadow, world.RoomOf(hare))
}

func TestActPersonsIdle(t *testing.T) {
	w, _ := arena(t, 12)
	dorn := world.NewPerson("Dorn", "A grizzled guard.", "he", average(), 2, nil)
	meadow, _ := w.Room("meadow")
	w.Spawn(dorn, meadow)
	w.Game.Current = "sky"

	for range 200 {
		Act(w, dorn)
	}
	assert.Same(t, meadow, world.RoomOf(dorn))
}

func mustBeing(t *testing.T, w *world.World, name string) world.Being {
	t.Helper()
	for _, b := range w.Here().Living() {
		if b.Core().Named(name) {
			return b
		}
	}
	t.Fatalf("no %s here", name)
	return nil
}
