package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type factMap map[string]Value

func (f factMap) Fact(name string) (Value, bool) {
	v, ok := f[name]
	return v, ok
}

func TestEval(t *testing.T) {
	facts := factMap{
		"player.hp":        Int(8),
		"player.str":       Int(12),
		"speaker.love":     Int(3),
		"speaker.memories": List([]string{"met", "gave bread"}),
		"game.night":       Bool(true),
		"player.name":      Str("Ash"),
	}
	tests := []struct {
		src  string
		want Value
	}{
		{"true", Bool(true)},
		{"not false", Bool(true)},
		{"player.hp < 10", Bool(true)},
		{"player.hp >= 10", Bool(false)},
		{"player.str + speaker.love", Int(15)},
		{"player.str - 2 == 10", Bool(true)},
		{"-player.hp", Int(-8)},
		{`"met" in speaker.memories`, Bool(true)},
		{`"stole" not in speaker.memories`, Bool(true)},
		{`"met" in speaker.memories and game.night`, Bool(true)},
		{`"stole" in speaker.memories or speaker.love > 2`, Bool(true)},
		{"(player.hp < 5 or player.str > 20) and true", Bool(false)},
		{`player.name == "ash"`, Bool(true)},
		{"player.hp != 8", Bool(false)},
		{"player.hp < 10 && !game.night", Bool(false)},
		{"unknown.fact", Value{}},
		{"unknown.fact == 0", Bool(true)},
		{"42", Int(42)},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			e, err := Compile(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, e.Eval(facts))
		})
	}
}

func TestCompileErrors(t *testing.T) {
	for _, src := range []string{
		"",
		"player.hp <",
		"(true",
		`"unterminated`,
		"a not b",
		"player.hp # 3",
		"true false",
	} {
		_, err := Compile(src)
		assert.Error(t, err, src)
	}
}

func TestStaticKind(t *testing.T) {
	tests := []struct {
		src  string
		want Kind
	}{
		{"player.hp < 3", KindBool},
		{"player.hp + 3", KindInt},
		{"50", KindInt},
		{`"hello"`, KindString},
		{"speaker.memories", KindList},
		{"player.hp", KindUnknown},
	}
	for _, tt := range tests {
		e, err := Compile(tt.src)
		require.NoError(t, err)
		assert.Equal(t, tt.want, e.Kind(), tt.src)
	}
}

func TestArithmeticProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.IntRange(0, 1000).Draw(t, "a")
		b := rapid.IntRange(0, 1000).Draw(t, "b")
		facts := factMap{"x": Int(a), "y": Int(b)}

		sum, err := Compile("x + y")
		require.NoError(t, err)
		assert.Equal(t, a+b, sum.Eval(facts).N)

		lt, err := Compile("x < y")
		require.NoError(t, err)
		assert.Equal(t, a < b, lt.Eval(facts).B)
	})
}
