package kt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortModifiers(t *testing.T) {
	got := SortModifiers([]Modifier{Val, Override, Public, Val, Open})
	assert.Equal(t, []Modifier{Public, Open, Override, Val}, got)
	assert.Nil(t, SortModifiers(nil))

	in := []Modifier{Data, Public}
	SortModifiers(in)
	assert.Equal(t, []Modifier{Data, Public}, in, "input is not reordered")
}

func TestModifierTokens(t *testing.T) {
	for m := Private; m <= Reified; m++ {
		tok := m.Token()
		require.NotEmpty(t, tok, "modifier %d", m)
		back, ok := ModifierFromToken(tok)
		require.True(t, ok)
		assert.Equal(t, m, back)
	}
	_, ok := ModifierFromToken("fun")
	assert.False(t, ok)
	assert.Empty(t, Modifier(200).Token())
}

func TestBinaryOperatorKind(t *testing.T) {
	for k := OpPlus; k <= OpElvis; k++ {
		require.NotEmpty(t, k.Token())
		back, ok := BinaryOperatorKindFromName(k.String())
		require.True(t, ok, k.String())
		assert.Equal(t, k, back)
	}
	assert.Equal(t, "!in", OpNotIn.Token())
	assert.Equal(t, "UNKNOWN", BinaryOperatorKind(0).String())
	assert.True(t, OpGe.IsComparison())
	assert.False(t, OpEq.IsComparison())
}

func TestContainsModifier(t *testing.T) {
	assert.True(t, ContainsModifier([]Modifier{Var, Vararg}, Vararg))
	assert.False(t, ContainsModifier(nil, Var))
}
