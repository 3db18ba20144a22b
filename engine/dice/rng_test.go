package dice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestRNG_Deterministic(t *testing.T) {
	rng1 := NewRNG(42)
	rng2 := NewRNG(42)

	for i := 0; i < 20; i++ {
		a := rng1.Roll(6)
		b := rng2.Roll(6)
		require.Equal(t, a, b, "roll %d differs for the same seed", i)
	}
}

func TestRNG_Roll_OneSided(t *testing.T) {
	rng := NewRNG(1)
	for i := 0; i < 10; i++ {
		assert.Equal(t, 1, rng.Roll(1))
	}
}

func TestRNG_Roll_Range_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Int64().Draw(rt, "seed")
		sides := rapid.IntRange(1, 200).Draw(rt, "sides")
		rng := NewRNG(seed)
		r := rng.Roll(sides)
		if r < 1 || r > sides {
			rt.Fatalf("Roll(%d) = %d out of range", sides, r)
		}
	})
}

func TestRNG_DiceRoll_Bounds_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 20).Draw(rt, "n")
		sides := rapid.IntRange(1, 12).Draw(rt, "sides")
		mod := rapid.IntRange(-10, 10).Draw(rt, "mod")
		got := NewRNG(rapid.Int64().Draw(rt, "seed")).DiceRoll(n, sides, mod)
		if got < n+mod || got > n*sides+mod {
			rt.Fatalf("DiceRoll(%d,%d,%d) = %d", n, sides, mod, got)
		}
	})
}

func TestRNG_WeightedSelect_Distribution(t *testing.T) {
	rng := NewRNG(12345)
	weights := []int{70, 20, 10}
	counts := [3]int{}

	const trials = 10000
	for i := 0; i < trials; i++ {
		idx := rng.WeightedSelect(weights)
		require.True(t, idx >= 0 && idx <= 2, "index out of range: %d", idx)
		counts[idx]++
	}

	assert.InDelta(t, 7000, counts[0], 1000)
	assert.InDelta(t, 2000, counts[1], 1000)
	assert.InDelta(t, 1000, counts[2], 800)
}

func TestRNG_WeightedSelect_SkipsZeroWeights(t *testing.T) {
	rng := NewRNG(7)
	for i := 0; i < 100; i++ {
		assert.Equal(t, 1, rng.WeightedSelect([]int{0, 5, 0}))
	}
	assert.Equal(t, -1, rng.WeightedSelect([]int{0, 0}))
}

func TestRestoreRNG_MatchesPosition(t *testing.T) {
	orig := NewRNG(99)
	for i := 0; i < 17; i++ {
		orig.Roll(20)
	}
	restored := RestoreRNG(orig.Seed(), orig.Position())
	for i := 0; i < 10; i++ {
		require.Equal(t, orig.Roll(100), restored.Roll(100))
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1, Clamp(-5, 1, 99))
	assert.Equal(t, 99, Clamp(120, 1, 99))
	assert.Equal(t, 50, Clamp(50, 1, 99))
}
