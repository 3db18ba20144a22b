package effects

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/serpens/engine/dice"
	"github.com/nathoo/serpens/engine/world"
	"github.com/nathoo/serpens/types"
)

type recorder struct{ lines []string }

func (r *recorder) Print(text string) { r.lines = append(r.lines, text) }

func (r *recorder) String() string { return strings.Join(r.lines, "\n") }

func average() world.Traits {
	return world.Traits{STR: 10, SPD: 10, SKL: 10, STM: 10, CON: 10, CHA: 10, INT: 10, WIS: 10, FTH: 10, LCK: 10}
}

func testSetup(t *testing.T) (*world.World, *Registry, *recorder) {
	t.Helper()
	w := world.New(dice.NewRNG(7))
	out := &recorder{}
	w.Out = out
	hall := world.NewRoom("Hall", "castle", "A grand hall.")
	vault := world.NewRoom("Vault", "castle", "A cold vault.")
	require.NoError(t, w.AddRoom(hall))
	require.NoError(t, w.AddRoom(vault))
	w.Player = world.NewPlayer("Ash", average())
	w.Spawn(w.Player, hall)
	w.Game.Current = "hall"
	r := New()
	w.Effects = r
	return w, r, out
}

func eff(kind string, params map[string]any) types.Effect {
	return types.Effect{Type: kind, Params: params}
}

func TestApply_Message(t *testing.T) {
	w, r, out := testSetup(t)
	require.NoError(t, r.Apply(w, nil, []types.Effect{eff("message", map[string]any{"text": "A bell tolls."})}))
	assert.Equal(t, []string{"A bell tolls."}, out.lines)
}

func TestApply_UnknownEffect(t *testing.T) {
	w, r, _ := testSetup(t)
	err := r.Apply(w, nil, []types.Effect{eff("explode", nil)})
	var ue *UnknownEffectError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "explode", ue.Name)
}

func TestApply_SwitchOpensDoor(t *testing.T) {
	w, _, out := testSetup(t)
	hall, _ := w.Room("hall")
	door := world.NewDoor("iron door", "A heavy iron door.", 3)
	door.Locked = true
	w.Spawn(door, hall)

	lever := &world.Switch{
		OnEffects:  []types.Effect{eff("open", map[string]any{"target": "iron door"})},
		OffEffects: []types.Effect{eff("close", map[string]any{"target": "iron door"})},
	}
	lever.Name = "lever"
	lever.Fixed = true
	w.Spawn(lever, hall)

	w.Fire(lever, lever.Activate())
	assert.True(t, door.Open)
	assert.False(t, door.Locked)
	assert.Contains(t, out.String(), "The iron door opens.")

	w.Fire(lever, lever.Activate())
	assert.False(t, door.Open)
}

func TestApply_Toggle(t *testing.T) {
	w, r, _ := testSetup(t)
	hall, _ := w.Room("hall")
	chest, _ := world.NewItem("chest")
	w.Spawn(chest, hall)
	box := chest.(*world.Box)

	toggleChest := []types.Effect{eff("toggle", map[string]any{"target": "chest"})}
	require.NoError(t, r.Apply(w, nil, toggleChest))
	assert.True(t, box.Open)
	require.NoError(t, r.Apply(w, nil, toggleChest))
	assert.False(t, box.Open)
}

func TestApply_LockUnlock(t *testing.T) {
	w, r, _ := testSetup(t)
	hall, _ := w.Room("hall")
	lb, _ := world.NewItem("lockbox")
	w.Spawn(lb, hall)
	box := lb.(*world.Lockbox)
	box.Open = true

	require.NoError(t, r.Apply(w, lb, []types.Effect{eff("lock", nil)}))
	assert.True(t, box.Locked)
	assert.False(t, box.Open)
	require.NoError(t, r.Apply(w, lb, []types.Effect{eff("unlock", nil)}))
	assert.False(t, box.Locked)
}

func TestApply_LinkAndUnlink(t *testing.T) {
	w, r, _ := testSetup(t)
	hall, _ := w.Room("hall")
	vault, _ := w.Room("vault")

	require.NoError(t, r.Apply(w, nil, []types.Effect{eff("link", map[string]any{"room": "hall", "dir": "d", "to": "vault"})}))
	assert.Equal(t, "vault", hall.Links["down"])
	assert.Equal(t, "hall", vault.Links["up"])
	assert.Empty(t, world.CheckInvariants(w))

	require.NoError(t, r.Apply(w, nil, []types.Effect{eff("unlink", map[string]any{"room": "hall", "dir": "down"})}))
	assert.NotContains(t, hall.Links, "down")
	assert.NotContains(t, vault.Links, "up")
}

func TestApply_SpawnAndTeleport(t *testing.T) {
	w, r, _ := testSetup(t)
	vault, _ := w.Room("vault")

	require.NoError(t, r.Apply(w, nil, []types.Effect{
		eff("spawn", map[string]any{"kind": "goblin", "room": "vault", "count": float64(2)}),
		eff("spawn", map[string]any{"kind": "rock", "room": "vault"}),
	}))
	assert.Len(t, vault.Creatures, 2)
	assert.Len(t, vault.Items, 1)

	require.NoError(t, r.Apply(w, nil, []types.Effect{eff("teleport", map[string]any{"room": "vault"})}))
	assert.Equal(t, "vault", w.Game.Current)
	assert.Equal(t, "hall", w.Game.Previous)
	assert.Equal(t, vault, world.RoomOf(w.Player))
	assert.Empty(t, world.CheckInvariants(w))

	err := r.Apply(w, nil, []types.Effect{eff("spawn", map[string]any{"kind": "dragon"})})
	var te *TargetError
	assert.ErrorAs(t, err, &te)
}

func TestApply_PotionEffects(t *testing.T) {
	w, r, _ := testSetup(t)
	p := w.Player
	p.HP = 5
	p.MP = 0

	red, _ := world.NewItem("red potion")
	blue, _ := world.NewItem("blue potion")
	green, _ := world.NewItem("green potion")
	for _, it := range []world.Thing{red, blue, green} {
		w.Spawn(it, p)
		require.NoError(t, r.Apply(w, p, it.(world.Consumable).ConsumeEffects()))
	}
	assert.Equal(t, 15, p.HP)
	assert.Equal(t, 10, p.MP)
	d, ok := p.Status.Duration("strengthened")
	require.True(t, ok)
	assert.Equal(t, 30, d)
}

func TestApply_DamageKills(t *testing.T) {
	w, r, out := testSetup(t)
	hall, _ := w.Room("hall")
	hare, _ := world.NewCreature("brown hare")
	w.Spawn(hare, hall)

	require.NoError(t, r.Apply(w, nil, []types.Effect{eff("damage", map[string]any{"target": "hare", "amount": 100, "type": "s"})}))
	assert.True(t, hare.Body().Dead())
	assert.Contains(t, out.String(), "The brown hare died.")
}

func TestApply_RoomStatusAndLight(t *testing.T) {
	w, r, _ := testSetup(t)
	hall, _ := w.Room("hall")

	require.NoError(t, r.Apply(w, nil, []types.Effect{eff("room_status", map[string]any{"name": "flooded", "duration": 5})}))
	d, _ := hall.Status.Duration("flooded")
	assert.Equal(t, 5, d)

	require.NoError(t, r.Apply(w, nil, []types.Effect{eff("light", map[string]any{"on": false})}))
	assert.True(t, hall.Status.Has("dark"))
	require.NoError(t, r.Apply(w, nil, []types.Effect{eff("light", nil)}))
	assert.False(t, hall.Status.Has("dark"))
	assert.True(t, hall.Status.Has("lit"))
}

func TestApply_StopsAtFirstFailure(t *testing.T) {
	w, r, out := testSetup(t)
	err := r.Apply(w, nil, []types.Effect{
		eff("open", map[string]any{"target": "nothing here"}),
		eff("message", map[string]any{"text": "never"}),
	})
	assert.Error(t, err)
	assert.Empty(t, out.lines)
}

func TestParams(t *testing.T) {
	p := Params{"a": 3, "b": float64(4), "c": int64(5), "s": "x", "t": true}
	assert.Equal(t, 3, p.Int("a", 0))
	assert.Equal(t, 4, p.Int("b", 0))
	assert.Equal(t, 5, p.Int("c", 0))
	assert.Equal(t, 9, p.Int("missing", 9))
	assert.Equal(t, "x", p.String("s"))
	assert.True(t, p.Bool("t", false))
	assert.True(t, p.Bool("missing", true))
}

func TestRegistryNames(t *testing.T) {
	r := New()
	assert.True(t, r.Known("room_status"))
	assert.False(t, r.Known("eval"))
	assert.Contains(t, r.Names(), "teleport")
	assert.Equal(t, []string{"fireball", "haste", "heal", "light", "mend", "shield"}, r.Spells.Names())
}
