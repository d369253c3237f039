package ct

import (
	"testing"

	"ktbridge/internal/kt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classRef(pkg, name string) *TypeReference {
	r := NewTypeReference(RefClass, name)
	r.SetPackage(NewPackageReference(pkg))
	return r
}

func TestAttachSetsParent(t *testing.T) {
	block := NewBlock()
	inv := NewInvocation(NewExecutableReference("println"))
	inv.AddArgument(NewLiteral("hi"))
	inv.SetType(classRef("kotlin", "Unit"))
	block.AddStatement(inv)

	assert.Same(t, block, inv.Parent())
	assert.Same(t, inv, inv.Executable().Parent())
	assert.Same(t, inv, inv.Arguments()[0].Parent())
	assert.Same(t, inv, inv.Type().Parent())
	require.NoError(t, CheckParents(block))
}

func TestMetadataAdoptsElements(t *testing.T) {
	f := NewField("x")
	getter := NewMethod("")
	getter.SetBody(NewBlock())
	Put(f, KeyPropertyGetter, getter)

	got, ok := Get(f, KeyPropertyGetter)
	require.True(t, ok)
	assert.Same(t, getter, got)
	assert.Same(t, f, getter.Parent())

	vars := []*LocalVariable{NewLocalVariable("a"), NewLocalVariable("b")}
	holder := NewLocalVariable("<destruct>")
	Put(holder, KeyComponents, vars)
	for _, v := range vars {
		assert.Same(t, holder, v.Parent())
	}
	require.NoError(t, CheckParents(holder))
}

func TestMetadataAbsenceIsDefault(t *testing.T) {
	lit := NewLiteral(int64(1))
	assert.False(t, Flag(lit, KeySafeAccess))
	_, ok := Get(lit, KeyModifiers)
	assert.False(t, ok)

	Put(lit, KeyModifiers, []kt.Modifier{kt.Public})
	mods, ok := Get(lit, KeyModifiers)
	require.True(t, ok)
	assert.Equal(t, []kt.Modifier{kt.Public}, mods)
	assert.Equal(t, []MetaKind{MetaModifiers}, lit.Metadata().Kinds())

	Delete(lit, KeyModifiers)
	assert.Zero(t, lit.Metadata().Len())
}

func TestLabelTable(t *testing.T) {
	t.Run("first-class", func(t *testing.T) {
		for _, s := range []Statement{NewBlock(), NewWhile(), NewReturn(), NewInvocation(NewExecutableReference("f"))} {
			assert.True(t, s.SetLabel("l"), s.Kind().String())
			assert.Equal(t, "l", s.Label())
		}
	})
	t.Run("falls back", func(t *testing.T) {
		td := NewTypeDecl(TypeClass, "Local")
		assert.False(t, td.SetLabel("l"))
		assert.Empty(t, td.Label())
	})
}

func TestTypeReferencePlacement(t *testing.T) {
	outer := classRef("pkg", "Outer")
	inner := NewTypeReference(RefClass, "Inner")
	inner.SetPackage(NewPackageReference("pkg"))
	inner.SetDeclaringType(outer)

	assert.Nil(t, inner.Package())
	assert.Equal(t, "pkg.Outer.Inner", inner.QualifiedName())

	inner.SetNullable(true)
	inner.AddTypeArgument(NewTypeReference(RefStar, "*"))
	assert.Equal(t, "pkg.Outer.Inner<*>?", inner.String())

	root := classRef("", "Top")
	assert.Equal(t, "Top", root.QualifiedName())
	assert.True(t, NewTypeReference(RefClass, ErrorTypeName).IsError())
}

func TestTypeMembersKeepOrder(t *testing.T) {
	td := NewTypeDecl(TypeClass, "A")
	f := NewField("a")
	m := NewMethod("b")
	c := NewConstructor()
	td.AddField(f)
	td.AddMethod(m)
	td.AddConstructor(c)

	assert.Equal(t, []Element{f, m, c}, td.Members())
	assert.Equal(t, []*Method{m}, td.Methods())
	assert.Equal(t, ConstructorName, td.Constructors()[0].SimpleName())
	require.NoError(t, CheckParents(td))
}

func TestWalkAndParentOf(t *testing.T) {
	u := NewCompilationUnit("a.kt")
	p := NewPackage("pkg")
	u.SetPackage(p)
	td := NewTypeDecl(TypeClass, "A")
	p.AddType(td)
	m := NewMethod("f")
	td.AddMethod(m)
	body := NewBlock()
	m.SetBody(body)
	ret := NewReturn()
	body.AddStatement(ret)

	var kinds []Kind
	Walk(u, func(e Element) bool {
		kinds = append(kinds, e.Kind())
		return true
	})
	assert.Equal(t, []Kind{KindCompilationUnit, KindPackage, KindType, KindMethod, KindBlock, KindReturn}, kinds)

	owner, ok := ParentOf[*TypeDecl](ret)
	require.True(t, ok)
	assert.Same(t, td, owner)
	assert.Equal(t, []*TypeDecl{td}, u.DeclaredTypes())
}
