// Package dice provides the deterministic random source shared by combat,
// spawning and dialogue sampling.
package dice

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"
)

// RNG wraps math/rand.Rand with deterministic position tracking.
// Position increments with every draw, enabling save/restore.
type RNG struct {
	seed   int64
	src    *rand.Rand
	pos    int64
	logger *zap.Logger
}

// NewRNG creates a new deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		seed:   seed,
		src:    rand.New(rand.NewSource(seed)),
		logger: zap.NewNop(),
	}
}

// RestoreRNG creates an RNG and advances it to the given position.
// This reproduces the exact RNG state for save/load.
func RestoreRNG(seed int64, position int64) *RNG {
	rng := NewRNG(seed)
	for i := int64(0); i < position; i++ {
		rng.src.Int63()
	}
	rng.pos = position
	return rng
}

// WithLogger attaches a logger that records every dice roll at debug level.
func (r *RNG) WithLogger(logger *zap.Logger) *RNG {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// Seed returns the seed the RNG was created from.
func (r *RNG) Seed() int64 { return r.seed }

// Position returns the number of draws made since creation.
func (r *RNG) Position() int64 { return r.pos }

// Intn returns an integer in [0, n). n <= 0 yields 0 without drawing.
func (r *RNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	r.pos++
	return int(r.src.Int63() % int64(n))
}

// Roll returns a random integer in [1, sides]. sides < 1 is treated as 1.
func (r *RNG) Roll(sides int) int {
	if sides < 1 {
		sides = 1
	}
	return r.Intn(sides) + 1
}

// DiceRoll rolls n dice of the given sides and adds mod: "ndS+mod".
// n < 1 rolls nothing and returns mod.
func (r *RNG) DiceRoll(n, sides, mod int) int {
	total := mod
	rolls := make([]int, 0, max(n, 0))
	for i := 0; i < n; i++ {
		d := r.Roll(sides)
		rolls = append(rolls, d)
		total += d
	}
	r.logger.Debug("dice roll",
		zap.String("expression", fmt.Sprintf("%dd%d%+d", n, sides, mod)),
		zap.Ints("dice", rolls),
		zap.Int("total", total),
	)
	return total
}

// Percent returns a d100 roll in [1, 100].
func (r *RNG) Percent() int {
	return r.Roll(100)
}

// Chance reports whether a d100 roll lands at or under p.
func (r *RNG) Chance(p int) bool {
	return r.Percent() <= p
}

// WeightedSelect returns an index chosen by weighted random selection.
// Non-positive weights never win; if every weight is non-positive the
// result is -1.
func (r *RNG) WeightedSelect(weights []int) int {
	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total == 0 {
		return -1
	}
	roll := r.Intn(total)
	cumulative := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		cumulative += w
		if roll < cumulative {
			return i
		}
	}
	return len(weights) - 1
}

// Shuffle permutes n elements through swap.
func (r *RNG) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		swap(i, j)
	}
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
