package source

import (
	"context"
	"strings"
	"testing"

	"ktbridge/internal/ir"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spanOf locates the n-th occurrence (0-based) of sub in src.
func spanOf(t *testing.T, src, sub string, n int) ir.Span {
	t.Helper()
	off := 0
	for i := 0; ; i++ {
		idx := strings.Index(src[off:], sub)
		require.GreaterOrEqual(t, idx, 0, "%q not found", sub)
		if i == n {
			return ir.Span{Start: off + idx, End: off + idx + len(sub)}
		}
		off += idx + len(sub)
	}
}

func parse(t *testing.T, src string) *Kotlin {
	t.Helper()
	k, err := NewKotlin(context.Background(), []byte(src))
	require.NoError(t, err)
	return k
}

func TestKotlinExplicitTypes(t *testing.T) {
	src := `package p

val a: Int = 1
val b = 2
fun f(x: Int): Int = x
fun g(x: Int) = x
`
	k := parse(t, src)

	assert.True(t, k.HasExplicitType(spanOf(t, src, "val a: Int = 1", 0)))
	assert.False(t, k.HasExplicitType(spanOf(t, src, "val b = 2", 0)))
	assert.True(t, k.HasExplicitType(spanOf(t, src, "fun f(x: Int): Int = x", 0)))
	assert.False(t, k.HasExplicitType(spanOf(t, src, "fun g(x: Int) = x", 0)))
}

func TestKotlinNamedArguments(t *testing.T) {
	src := `fun main() {
    foo(1, second = 2)
}
`
	k := parse(t, src)
	assert.Equal(t, "", k.NamedArgument(spanOf(t, src, "1", 0)))
	assert.Equal(t, "second", k.NamedArgument(spanOf(t, src, "2", 0)))
}

func TestKotlinCallSyntax(t *testing.T) {
	src := `fun main() {
    val p = 1 to 2
    val l = listOf<Int>()
    val m = listOf(1)
}
`
	k := parse(t, src)
	assert.True(t, k.IsInfixCall(spanOf(t, src, "1 to 2", 0)))
	assert.False(t, k.IsInfixCall(spanOf(t, src, "listOf(1)", 0)))
	assert.True(t, k.HasExplicitTypeArguments(spanOf(t, src, "listOf<Int>()", 0)))
	assert.False(t, k.HasExplicitTypeArguments(spanOf(t, src, "listOf(1)", 0)))
}

func TestKotlinReturnsAndLabels(t *testing.T) {
	src := `fun f(l: List<Int>): Int {
    outer@ while (true) {
        l.forEach { return@forEach }
    }
    return 1
}
`
	k := parse(t, src)
	assert.Equal(t, "outer", k.Label(spanOf(t, src, "while (true)", 0)))
	assert.Equal(t, "outer", k.Label(spanOf(t, src, "outer@ while", 0)))
	assert.Equal(t, "forEach", k.ReturnTarget(spanOf(t, src, "return@forEach", 0)))
	assert.True(t, k.HasReturnKeyword(spanOf(t, src, "return 1", 0)))
	assert.False(t, k.HasReturnKeyword(spanOf(t, src, "1", 0)))
	assert.False(t, k.HasReturnKeyword(ir.Span{Start: 5, End: 5}))
}

func TestKotlinLiteralsAndThis(t *testing.T) {
	src := `val a = 0xFF
val b = 0b101
val c = 1.5e3
val d = """x"""
val e = this.x
`
	k := parse(t, src)
	assert.Equal(t, 16, k.NumberBase(spanOf(t, src, "0xFF", 0)))
	assert.Equal(t, 2, k.NumberBase(spanOf(t, src, "0b101", 0)))
	assert.Equal(t, 10, k.NumberBase(spanOf(t, src, "1.5e3", 0)))
	assert.True(t, k.IsScientific(spanOf(t, src, "1.5e3", 0)))
	assert.False(t, k.IsScientific(spanOf(t, src, "0xFF", 0)))
	assert.True(t, k.IsMultilineString(spanOf(t, src, `"""x"""`, 0)))
	assert.False(t, k.IsImplicitThis(spanOf(t, src, "this", 0)))
	assert.True(t, k.IsImplicitThis(spanOf(t, src, "x", 0)))
	assert.True(t, k.IsImplicitThis(ir.Span{Start: 3, End: 3}))
}

func TestKotlinOutOfRange(t *testing.T) {
	k := parse(t, "val a = 1\n")
	s := ir.Span{Start: 50, End: 60}
	assert.Equal(t, "", k.Text(s))
	assert.Equal(t, "", k.Label(s))
	assert.False(t, k.IsInfixCall(s))
}

func TestTextScanners(t *testing.T) {
	t.Run("named argument", func(t *testing.T) {
		assert.Equal(t, "b", namedArgumentBefore("f(a, b = "))
		assert.Equal(t, "b", namedArgumentBefore("f(`b` = "))
		assert.Equal(t, "", namedArgumentBefore("f(a == "))
		assert.Equal(t, "", namedArgumentBefore("val x = "))
	})
	t.Run("declared type", func(t *testing.T) {
		assert.True(t, declaresTypeText("private val x: Int = 1"))
		assert.True(t, declaresTypeText("val String.size2: Int get() = 2"))
		assert.False(t, declaresTypeText("var y = 2"))
		assert.False(t, declaresTypeText("val (a, b) = p"))
		assert.True(t, declaresTypeText("@JvmStatic override fun f(g: (Int) -> Int): Unit {}"))
		assert.False(t, declaresTypeText("fun f() {}"))
		assert.True(t, declaresTypeText("x: Int"))
	})
	t.Run("labels", func(t *testing.T) {
		assert.Equal(t, "loop", labelPrefix("loop@ for (i in l) {}"))
		assert.Equal(t, "", labelPrefix("return@forEach"))
		assert.Equal(t, "", labelPrefix("break@loop"))
		assert.Equal(t, "loop", labelBefore("fun f() {\n  loop@ "))
		assert.Equal(t, "", labelBefore("fun f() {\n  "))
		assert.Equal(t, "l", returnTarget("return@l 1"))
		assert.Equal(t, "", returnTarget("return 1"))
	})
}

func TestNone(t *testing.T) {
	var h Helper = None{}
	s := ir.Span{Start: 1, End: 4}
	assert.True(t, h.HasExplicitType(s))
	assert.True(t, h.HasReturnKeyword(s))
	assert.False(t, h.IsImplicitThis(s))
	assert.True(t, h.IsImplicitThis(ir.Span{}))
	assert.Equal(t, 10, h.NumberBase(s))
}
