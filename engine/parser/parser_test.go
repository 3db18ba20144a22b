package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/nathoo/serpens/content"
	"github.com/nathoo/serpens/types"
)

type names map[string]bool

func (n names) Meaningful(phrase string) bool { return n[phrase] }

func newParser(t *testing.T) *Parser {
	t.Helper()
	d, err := content.Default()
	require.NoError(t, err)
	lex := names{"rusty key": true, "iron door": true, "green python": true, "old book": true, "red potion": true, "bread and butter": true}
	refs := func(slot string) string {
		if slot == "it" {
			return "old book"
		}
		return ""
	}
	return New(d, lex, refs)
}

func TestParse(t *testing.T) {
	p := newParser(t)
	tests := []struct {
		name  string
		input string
		want  types.Intent
	}{
		{"look", "look", types.Intent{Verb: "look"}},
		{"l alias", "l", types.Intent{Verb: "look"}},
		{"i alias", "i", types.Intent{Verb: "inventory"}},
		{"x sword", "x sword", types.Intent{Verb: "examine", Direct: "sword"}},
		{"get key", "get key", types.Intent{Verb: "take", Direct: "key"}},
		{"hit goblin", "hit goblin", types.Intent{Verb: "attack", Direct: "goblin"}},

		{"n", "n", types.Intent{Verb: "go", Direct: "north"}},
		{"sw", "sw", types.Intent{Verb: "go", Direct: "southwest"}},
		{"u", "u", types.Intent{Verb: "go", Direct: "up"}},
		{"north", "north", types.Intent{Verb: "go", Direct: "north"}},
		{"go north", "go north", types.Intent{Verb: "go", Direct: "north"}},
		{"go up", "go up", types.Intent{Verb: "go", Direct: "up"}},
		{"walk e", "walk e", types.Intent{Verb: "go", Direct: "east"}},
		{"downstairs", "go downstairs", types.Intent{Verb: "go", Prep: "down", Direct: "stairs"}},

		{"multi-word object", "take rusty key", types.Intent{Verb: "take", Direct: "rusty key"}},
		{"object and target", "unlock the iron door with the rusty key",
			types.Intent{Verb: "unlock", Direct: "iron door", Prep: "with", Indirect: "rusty key"}},
		{"attack with my weapon", "attack the green python with my sword",
			types.Intent{Verb: "attack", Direct: "green python", Prep: "with", Indirect: "my sword"}},
		{"throw direction", "throw rock s", types.Intent{Verb: "throw", Direct: "rock", Indirect: "south"}},
		{"put in", "put the sword in the chest", types.Intent{Verb: "put", Direct: "sword", Prep: "in", Indirect: "chest"}},

		{"look at", "look at painting", types.Intent{Verb: "examine", Direct: "painting"}},
		{"pick up", "pick up the rusty key", types.Intent{Verb: "take", Direct: "rusty key"}},
		{"put down", "put down sword", types.Intent{Verb: "drop", Direct: "sword"}},
		{"talk to", "talk to guard", types.Intent{Verb: "talk", Direct: "guard"}},
		{"get off", "get off", types.Intent{Verb: "dismount"}},

		{"punctuation", "Take the key!", types.Intent{Verb: "take", Direct: "key"}},
		{"shouting", "LOOK AT PAINTING", types.Intent{Verb: "examine", Direct: "painting"}},
		{"pronoun", "read it", types.Intent{Verb: "read", Direct: "old book"}},
		{"unbound pronoun", "attack him", types.Intent{Verb: "attack", Direct: "him"}},
		{"her as pronoun", "talk to her", types.Intent{Verb: "talk", Direct: "her"}},
		{"her as article", "take her sword", types.Intent{Verb: "take", Direct: "sword"}},

		{"stat command", "hp", types.Intent{Verb: "hp"}},
		{"emote", "wave", types.Intent{Verb: "emote", Direct: "wave"}},
		{"emoticon", ":)", types.Intent{Verb: "emote", Direct: "smile"}},
		{"question mark", "?", types.Intent{Verb: "help"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Parse(tt.input)
			require.NoError(t, err)
			got.Words = nil
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseEmpty(t *testing.T) {
	p := newParser(t)
	got, err := p.Parse("   ")
	require.NoError(t, err)
	assert.Equal(t, types.Intent{}, got)

	_, err = p.Parse("!!!")
	assert.ErrorIs(t, err, ErrNotUnderstood)
}

func TestParseUnknownVerb(t *testing.T) {
	p := newParser(t)
	_, err := p.Parse("frobnicate the widget")
	var uv *UnknownVerbError
	require.ErrorAs(t, err, &uv)
	assert.Equal(t, "frobnicate", uv.Word)
	assert.Equal(t, "'frobnicate' is not a valid verb", err.Error())
}

func TestNounifyPrefersLongest(t *testing.T) {
	p := newParser(t)
	got := p.Nounify([]string{"drink", "red", "potion", "from", "my", "old", "book"})
	assert.Equal(t, []string{"drink", "red potion", "from", "my old book"}, got)
}

func TestSplit(t *testing.T) {
	p := newParser(t)
	assert.Equal(t, []string{"take sword", "equip it", "go north"}, p.Split("take sword and equip it then go north"))
	assert.Empty(t, p.Split("and and"))
	assert.Equal(t, []string{"take the bread and butter", "go north"}, p.Split("Take the bread and butter, and go north."))
	assert.Equal(t, []string{"take key", "i"}, p.Split("take key and i"))
	assert.Equal(t, []string{"eat bread and butter"}, p.Split("eat bread and butter"))
	assert.Equal(t, []string{":)"}, p.Split(":)"))
	assert.Equal(t, [][]string{{"a"}, {"b", "c"}}, SplitAnd([]string{"a", "and", "b", "c", "and"}))
}

func TestTokenize(t *testing.T) {
	p := newParser(t)
	assert.Equal(t, []string{"pick up", "key"}, p.Tokenize("Pick up the key."))
	assert.Equal(t, []string{"i"}, p.Tokenize("i"))
	assert.Equal(t, []string{"take", "my", "sword"}, p.Tokenize("take my sword"))
	assert.Nil(t, p.Tokenize("?!"))
}

var vocabulary = []string{
	"take", "the", "a", "my", "her", "pick", "up", "key", "rusty", "door", "with",
	"downstairs", "look", "at", "go", "north", "n", "and", "sword", "in", "chest",
	"Put", "DOWN", "it", "!", "red", "potion",
}

func TestTokenizeIdempotent(t *testing.T) {
	p := newParser(t)
	rapid.Check(t, func(t *rapid.T) {
		words := rapid.SliceOfN(rapid.SampledFrom(vocabulary), 0, 8).Draw(t, "words")
		once := p.Tokenize(strings.Join(words, " "))
		twice := p.Tokenize(strings.Join(once, " "))
		if strings.Join(once, "|") != strings.Join(twice, "|") {
			t.Fatalf("tokenize not idempotent: %q then %q", once, twice)
		}
	})
}

func TestParseNeverPanics(t *testing.T) {
	p := newParser(t)
	rapid.Check(t, func(t *rapid.T) {
		words := rapid.SliceOfN(rapid.SampledFrom(vocabulary), 0, 8).Draw(t, "words")
		in, err := p.Parse(strings.Join(words, " "))
		if err == nil && in.Verb == "" && len(in.Words) > 0 {
			t.Fatalf("parsed %q without a verb", words)
		}
	})
}
