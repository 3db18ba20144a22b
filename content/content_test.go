package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultParses(t *testing.T) {
	d, err := Default()
	require.NoError(t, err)
	assert.NotEmpty(t, d.Verbs)
	assert.NotEmpty(t, d.Prepositions)
	assert.NotEmpty(t, d.SpawnPools)
}

func TestCanonical(t *testing.T) {
	d := MustDefault()
	tests := []struct {
		word string
		want string
	}{
		{"take", "take"},
		{"pick up", "take"},
		{"get", "take"},
		{"x", "examine"},
		{"put down", "drop"},
		{"l", "look"},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			got, ok := d.Canonical(tt.word)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := d.Canonical("frobnicate")
	assert.False(t, ok)
}

func TestMultiWordVerbsLongestFirst(t *testing.T) {
	d := MustDefault()
	verbs := d.MultiWordVerbs()
	require.NotEmpty(t, verbs)
	for i := 1; i < len(verbs); i++ {
		assert.GreaterOrEqual(t,
			strings.Count(verbs[i-1], " "), strings.Count(verbs[i], " "),
			"%q listed before %q", verbs[i-1], verbs[i])
	}
}

func TestDirections(t *testing.T) {
	d := MustDefault()
	assert.Equal(t, "north", d.ExpandDirection("n"))
	assert.Equal(t, "southwest", d.ExpandDirection("sw"))
	assert.Equal(t, "up", d.ExpandDirection("u"))
	assert.Equal(t, "east", d.ExpandDirection("east"))
	assert.Equal(t, "", d.ExpandDirection("sideways"))
	assert.True(t, d.IsDirection("d"))
	assert.Len(t, d.LongDirections(), 10)
}

func TestOpposite(t *testing.T) {
	for _, dir := range MustDefault().LongDirections() {
		opp := Opposite(dir)
		require.NotEmpty(t, opp, dir)
		assert.Equal(t, dir, Opposite(opp))
	}
	assert.Equal(t, "", Opposite("inward"))
}

func TestPrepositionSet(t *testing.T) {
	d := MustDefault()
	for _, p := range []string{"above", "away from", "out of", "using", "with", "onto", "u", "d"} {
		assert.True(t, d.IsPreposition(p), p)
	}
	assert.False(t, d.IsPreposition("sword"))
}

func TestWordClasses(t *testing.T) {
	d := MustDefault()
	assert.True(t, d.IsArticle("the"))
	assert.True(t, d.IsCancel(" nevermind "))
	assert.True(t, d.IsStatCommand("hp"))
	assert.True(t, d.IsEmote("dance"))

	slot, ok := d.Pronoun("him")
	require.True(t, ok)
	assert.Equal(t, "he", slot)
}

func TestDamageLabelAndTrites(t *testing.T) {
	d := MustDefault()
	assert.NotEqual(t, "pure", d.DamageLabel("b"))
	assert.Equal(t, "pure", d.DamageLabel("?"))
	assert.True(t, d.HasTrite("greeting"))
	assert.False(t, d.HasTrite("limericks"))
	assert.Positive(t, d.TraitMod("strengthened", "str"))
	assert.Zero(t, d.TraitMod("strengthened", "nonsense"))
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load([]byte("verbs:\n  look: [l]\nbogus: 1\n"))
	assert.Error(t, err)
}

func TestLoadRejectsSynonymClash(t *testing.T) {
	_, err := Load([]byte("verbs:\n  take: [grab]\n  seize: [grab]\n"))
	assert.Error(t, err)
}
