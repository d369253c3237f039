package bridge

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ktbridge/internal/ct"
	"ktbridge/internal/export"
	"ktbridge/internal/ir"
	"ktbridge/internal/kt"
	"ktbridge/internal/printer"
	"ktbridge/internal/source"
)

// fakeSource answers helper queries from maps keyed by span.
type fakeSource struct {
	source.None
	inferred bool
	labels   map[ir.Span]string
	infix    map[ir.Span]bool
}

func (f fakeSource) HasExplicitType(ir.Span) bool { return !f.inferred }
func (f fakeSource) Label(s ir.Span) string       { return f.labels[s] }
func (f fakeSource) IsInfixCall(s ir.Span) bool   { return f.infix[s] }

func classType(pkg string, names ...string) *ir.Type {
	return &ir.Type{Kind: ir.TypeClass, Class: &ir.ClassID{Package: pkg, Names: names}}
}

func nullable(t *ir.Type) *ir.Type {
	t.Nullable = true
	return t
}

var (
	intType     = classType("kotlin", "Int")
	booleanType = classType("kotlin", "Boolean")
	unitType    = classType("kotlin", "Unit")
	stringType  = classType("kotlin", "String")
)

func get(name string, kind ir.ValueKind, t *ir.Type) *ir.GetValue {
	return &ir.GetValue{Expr: ir.Expr{Type: t}, Symbol: &ir.ValueSymbol{Name: name, Kind: kind, Type: t}}
}

func param(name string) *ir.GetValue { return get(name, ir.ValueKindParameter, intType) }

func intConst(v int64) *ir.Const {
	return &ir.Const{Expr: ir.Expr{Type: intType}, Kind: ir.ConstInt, Value: v}
}

func fn(name string) *ir.FunctionSymbol {
	return &ir.FunctionSymbol{Name: name, Container: ir.Container{Package: "kotlin", Class: &ir.ClassID{Package: "kotlin", Names: []string{"Int"}}}}
}

func call(origin ir.Origin, callee string, t *ir.Type, recv ir.Expression, args ...ir.Expression) *ir.Call {
	return &ir.Call{
		Expr:             ir.Expr{Type: t, Origin: origin},
		Callee:           fn(callee),
		DispatchReceiver: recv,
		Arguments:        args,
	}
}

func fileWith(decls ...ir.Declaration) *ir.File {
	return &ir.File{Name: "a.kt", Path: "src/a.kt", Package: "pkg", Declarations: decls}
}

func function(name string, body ir.Body) *ir.Function {
	return &ir.Function{
		Name:       name,
		Visibility: ir.VisibilityPublic,
		Modality:   ir.ModalityFinal,
		ReturnType: unitType,
		Body:       body,
	}
}

func convert(t *testing.T, src source.Helper, f *ir.File) *ct.CompilationUnit {
	t.Helper()
	unit, _, err := NewBuilder(nil, DefaultOptions()).ConvertFile(f, src)
	require.NoError(t, err)
	require.NoError(t, ct.CheckParents(unit))
	return unit
}

func topMethod(t *testing.T, unit *ct.CompilationUnit) *ct.Method {
	t.Helper()
	types := unit.DeclaredTypes()
	require.NotEmpty(t, types)
	require.Equal(t, TopLevelName, types[0].SimpleName())
	require.NotEmpty(t, types[0].Methods())
	return types[0].Methods()[0]
}

// convertExpr converts `fun f() = e` and returns the body expression.
func convertExpr(t *testing.T, src source.Helper, e ir.Expression) ct.Expression {
	t.Helper()
	unit := convert(t, src, fileWith(function("f", &ir.ExpressionBody{Expression: e})))
	stmts := topMethod(t, unit).Body().Statements()
	require.Len(t, stmts, 1)
	ret, ok := stmts[0].(*ct.Return)
	require.True(t, ok, "got %s", stmts[0].Kind())
	assert.True(t, ret.Implicit())
	return ret.ReturnedExpression()
}

// convertStmts converts `fun f() { stmts }` and returns the body statements.
func convertStmts(t *testing.T, src source.Helper, stmts ...ir.Statement) []ct.Statement {
	t.Helper()
	body := &ir.BlockBody{Base: ir.Base{Span: ir.Span{Start: 0, End: 100}}, Statements: stmts}
	unit := convert(t, src, fileWith(function("f", body)))
	return topMethod(t, unit).Body().Statements()
}

func TestOperators(t *testing.T) {
	base := classType("pkg", "Base")
	list := classType("kotlin.collections", "List")
	l := get("l", ir.ValueLocal, list)

	tests := []struct {
		name string
		expr func() ir.Expression
		want string
	}{
		{"intrinsic comparison", func() ir.Expression {
			return call(ir.OriginLt, "less", booleanType, nil, param("x"), param("y"))
		}, "x < y"},
		{"compareTo", func() ir.Expression {
			cmp := call(ir.OriginLt, "compareTo", intType, param("a"), param("b"))
			return call(ir.OriginLt, "less", booleanType, nil, cmp, intConst(0))
		}, "a < b"},
		{"identity", func() ir.Expression {
			return call(ir.OriginEqEqEq, "EQEQEQ", booleanType, nil, param("x"), param("y"))
		}, "x === y"},
		{"negated equality", func() ir.Expression {
			eq := call(ir.OriginExclEq, "EQEQ", booleanType, nil, param("x"), param("y"))
			return call(ir.OriginExclEq, "not", booleanType, eq)
		}, "x != y"},
		{"in", func() ir.Expression {
			return call(ir.OriginIn, "contains", booleanType, l, intConst(1))
		}, "1 in l"},
		{"not in", func() ir.Expression {
			contains := call(ir.OriginNotIn, "contains", booleanType, l, intConst(2))
			return call(ir.OriginNotIn, "not", booleanType, contains)
		}, "2 !in l"},
		{"plain call", func() ir.Expression {
			return call(ir.OriginNone, "contains", booleanType, l, intConst(3))
		}, "l.contains(3)"},
		{"unary minus", func() ir.Expression {
			return call(ir.OriginUMinus, "unaryMinus", intType, param("x"))
		}, "-x"},
		{"and", func() ir.Expression {
			return &ir.When{Expr: ir.Expr{Type: booleanType, Origin: ir.OriginAndAnd}, Branches: []*ir.Branch{
				{Condition: get("a", ir.ValueKindParameter, booleanType), Result: get("b", ir.ValueKindParameter, booleanType)},
				{IsElse: true, Result: &ir.Const{Expr: ir.Expr{Type: booleanType}, Kind: ir.ConstBoolean, Value: false}},
			}}
		}, "a && b"},
		{"or", func() ir.Expression {
			return &ir.When{Expr: ir.Expr{Type: booleanType, Origin: ir.OriginOrOr}, Branches: []*ir.Branch{
				{Condition: get("a", ir.ValueKindParameter, booleanType), Result: &ir.Const{Expr: ir.Expr{Type: booleanType}, Kind: ir.ConstBoolean, Value: true}},
				{IsElse: true, Result: get("b", ir.ValueKindParameter, booleanType)},
			}}
		}, "a || b"},
		{"cast", func() ir.Expression {
			return &ir.TypeOperatorCall{Expr: ir.Expr{Type: base}, Operator: ir.OpCast, Argument: param("x"), TypeOperand: nullable(classType("pkg", "Base"))}
		}, "(x as pkg.Base?)"},
		{"safe cast", func() ir.Expression {
			return &ir.TypeOperatorCall{Expr: ir.Expr{Type: base}, Operator: ir.OpSafeCast, Argument: param("x"), TypeOperand: base}
		}, "(x as? pkg.Base)"},
		{"cast chain", func() ir.Expression {
			inner := &ir.TypeOperatorCall{Expr: ir.Expr{Type: base}, Operator: ir.OpCast, Argument: param("x"), TypeOperand: base}
			derived := classType("pkg", "Derived")
			return &ir.TypeOperatorCall{Expr: ir.Expr{Type: derived}, Operator: ir.OpCast, Argument: inner, TypeOperand: derived}
		}, "(x as pkg.Base as pkg.Derived)"},
		{"is", func() ir.Expression {
			return &ir.TypeOperatorCall{Expr: ir.Expr{Type: booleanType}, Operator: ir.OpInstanceOf, Argument: param("x"), TypeOperand: base}
		}, "x is pkg.Base"},
		{"not is", func() ir.Expression {
			return &ir.TypeOperatorCall{Expr: ir.Expr{Type: booleanType}, Operator: ir.OpNotInstanceOf, Argument: param("x"), TypeOperand: nullable(classType("pkg", "Base"))}
		}, "x !is pkg.Base?"},
		{"not-null assertion", func() ir.Expression {
			return call(ir.OriginExclExcl, "CHECK_NOT_NULL", intType, nil, get("n", ir.ValueLocal, nullable(classType("kotlin", "Int"))))
		}, "n!!"},
		{"constructor", func() ir.Expression {
			cls := ir.ClassID{Package: "pkg", Names: []string{"HasOnlyAssignOperators"}}
			ctor := &ir.ConstructorCall{
				Expr:      ir.Expr{Type: &ir.Type{Kind: ir.TypeClass, Class: &cls}},
				Callee:    &ir.FunctionSymbol{Name: "<init>", Kind: ir.FunctionConstructor, Container: ir.Container{Package: "pkg", Class: &cls}},
				Arguments: []ir.Expression{intConst(6)},
			}
			return call(ir.OriginEqEq, "EQEQ", booleanType, nil, get("x", ir.ValueLocal, ctor.Type), ctor)
		}, "x == HasOnlyAssignOperators(6)"},
		{"string template", func() ir.Expression {
			return &ir.StringConcatenation{Expr: ir.Expr{Type: stringType}, Arguments: []ir.Expression{
				&ir.Const{Expr: ir.Expr{Type: stringType}, Kind: ir.ConstString, Value: "a "},
				param("x"),
			}}
		}, `"a $x"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := convertExpr(t, nil, tt.expr())
			assert.Equal(t, tt.want, printer.Print(got))
		})
	}
}

func TestBinaryOperatorMetadata(t *testing.T) {
	e := convertExpr(t, nil, call(ir.OriginEqEqEq, "EQEQEQ", booleanType, nil, param("x"), param("y")))
	op, ok := e.(*ct.BinaryOperator)
	require.True(t, ok)
	assert.Equal(t, ct.BinaryEq, op.OperatorKind())
	k, ok := ct.Get(op, ct.KeyBinaryOperatorKind)
	require.True(t, ok)
	assert.Equal(t, "ID", k.String())
}

func TestElvisAndSafeCall(t *testing.T) {
	nullableInt := nullable(classType("kotlin", "Int"))
	nullableString := nullable(classType("kotlin", "String"))
	isNull := func(tmp string, typ *ir.Type) ir.Expression {
		return call(ir.OriginEqEq, "EQEQ", booleanType, nil, get(tmp, ir.ValueTemporary, typ),
			&ir.Const{Expr: ir.Expr{Type: nullable(classType("kotlin", "Nothing"))}, Kind: ir.ConstNull})
	}

	t.Run("elvis", func(t *testing.T) {
		b := &ir.Block{Expr: ir.Expr{Type: intType, Origin: ir.OriginElvis}, Statements: []ir.Statement{
			&ir.Variable{Name: "tmp0_elvis_lhs", Type: nullableInt, Initializer: get("n", ir.ValueLocal, nullableInt)},
			&ir.When{Expr: ir.Expr{Type: intType}, Branches: []*ir.Branch{
				{Condition: isNull("tmp0_elvis_lhs", nullableInt), Result: intConst(0)},
				{IsElse: true, Result: get("tmp0_elvis_lhs", ir.ValueTemporary, nullableInt)},
			}},
		}}
		e := convertExpr(t, nil, b)
		assert.Equal(t, "n ?: 0", printer.Print(e))
	})

	t.Run("safe call", func(t *testing.T) {
		trim := &ir.Call{
			Expr:              ir.Expr{Type: stringType},
			Callee:            &ir.FunctionSymbol{Name: "trim", Container: ir.Container{Package: "kotlin.text"}},
			ExtensionReceiver: get("tmp0_safe_receiver", ir.ValueTemporary, nullableString),
		}
		b := &ir.Block{Expr: ir.Expr{Type: nullableString, Origin: ir.OriginSafeCall}, Statements: []ir.Statement{
			&ir.Variable{Name: "tmp0_safe_receiver", Type: nullableString, Initializer: get("s", ir.ValueLocal, nullableString)},
			&ir.When{Expr: ir.Expr{Type: nullableString}, Branches: []*ir.Branch{
				{Condition: isNull("tmp0_safe_receiver", nullableString), Result: &ir.Const{Expr: ir.Expr{Type: nullableString}, Kind: ir.ConstNull}},
				{IsElse: true, Result: trim},
			}},
		}}
		e := convertExpr(t, nil, b)
		assert.Equal(t, "s?.trim()", printer.Print(e))
		assert.True(t, e.Type().Nullable())
	})
}

func TestStatements(t *testing.T) {
	src := fakeSource{inferred: true}

	t.Run("compound assignment", func(t *testing.T) {
		x := &ir.ValueSymbol{Name: "x", Kind: ir.ValueLocal, Type: intType}
		stmts := convertStmts(t, src,
			&ir.Variable{Name: "x", Type: intType, IsVar: true, Initializer: intConst(0)},
			&ir.SetValue{
				Expr:   ir.Expr{Type: unitType, Origin: ir.OriginPlusEq},
				Symbol: x,
				Value:  call(ir.OriginPlusEq, "plus", intType, get("x", ir.ValueLocal, intType), intConst(1)),
			},
		)
		require.Len(t, stmts, 2)
		assert.Equal(t, "var x = 0", printer.Print(stmts[0]))
		assert.Equal(t, "x += 1", printer.Print(stmts[1]))
	})

	t.Run("operator assign calls", func(t *testing.T) {
		list := classType("kotlin.collections", "MutableList")
		cases := []struct {
			origin ir.Origin
			callee string
			want   string
		}{
			{ir.OriginPlusEq, "plusAssign", "l += 1"},
			{ir.OriginMinusEq, "minusAssign", "l -= 1"},
		}
		for _, tc := range cases {
			stmts := convertStmts(t, src, call(tc.origin, tc.callee, unitType, get("l", ir.ValueLocal, list), intConst(1)))
			require.Len(t, stmts, 1)
			a, ok := stmts[0].(*ct.OperatorAssignment)
			require.True(t, ok, "got %s", stmts[0].Kind())
			assert.Equal(t, tc.want, printer.Print(a))
		}
	})

	t.Run("postfix increment", func(t *testing.T) {
		i := &ir.ValueSymbol{Name: "i", Kind: ir.ValueLocal, Type: intType}
		b := &ir.Block{Expr: ir.Expr{Type: intType, Origin: ir.OriginPostfixIncr}, Statements: []ir.Statement{
			&ir.Variable{Name: "tmp0", Type: intType, Initializer: get("i", ir.ValueLocal, intType)},
			&ir.SetValue{Expr: ir.Expr{Type: unitType, Origin: ir.OriginPostfixIncr}, Symbol: i,
				Value: call(ir.OriginPostfixIncr, "inc", intType, get("tmp0", ir.ValueTemporary, intType))},
			get("tmp0", ir.ValueTemporary, intType),
		}}
		stmts := convertStmts(t, src, b)
		require.Len(t, stmts, 1)
		assert.Equal(t, "i++", printer.Print(stmts[0]))
	})

	t.Run("destructuring for loop", func(t *testing.T) {
		pair := classType("kotlin", "Pair")
		iterType := classType("kotlin.collections", "Iterator")
		iter := func() *ir.GetValue { return get("tmp0_iterator", ir.ValueTemporary, iterType) }
		loop := &ir.Block{Expr: ir.Expr{Type: unitType, Origin: ir.OriginForLoop}, Statements: []ir.Statement{
			&ir.Variable{Name: "tmp0_iterator", Type: iterType,
				Initializer: call(ir.OriginForLoopIterator, "iterator", iterType, get("pairs", ir.ValueKindParameter, classType("kotlin.collections", "List")))},
			&ir.WhileLoop{
				Expr:      ir.Expr{Type: unitType, Origin: ir.OriginForLoopInnerWhile},
				Label:     "outer",
				Condition: call(ir.OriginNone, "hasNext", booleanType, iter()),
				Body: &ir.Block{Statements: []ir.Statement{
					&ir.Variable{Name: "<destruct>", Type: pair, Initializer: call(ir.OriginForLoopVariable, "next", pair, iter())},
					&ir.Variable{Name: "a", Type: intType, Initializer: call(ir.OriginNone, "component1", intType, get("<destruct>", ir.ValueLocal, pair))},
					&ir.Variable{Name: "b", Type: intType, Initializer: call(ir.OriginNone, "component2", intType, get("<destruct>", ir.ValueLocal, pair))},
					&ir.Block{Expr: ir.Expr{Type: unitType}, Statements: []ir.Statement{&ir.Break{Label: "outer"}}},
				}},
			},
		}}
		stmts := convertStmts(t, src, loop)
		require.Len(t, stmts, 1)
		each, ok := stmts[0].(*ct.ForEach)
		require.True(t, ok)
		assert.Equal(t, "outer", each.Label())
		assert.True(t, ct.Flag(each.Variable(), ct.KeyDestructured))
		assert.Nil(t, each.Variable().DefaultExpression())
		assert.Equal(t, "outer@ for ((a, b) in pairs) {\n    break@outer\n}", printer.Print(each))
	})

	t.Run("reordered arguments", func(t *testing.T) {
		target := &ir.FunctionSymbol{Name: "f", Container: ir.Container{Package: "pkg"}, Parameters: []string{"a", "b"}}
		b := &ir.Block{Expr: ir.Expr{Type: unitType, Origin: ir.OriginArgumentsReordering}, Statements: []ir.Statement{
			&ir.Variable{Name: "tmp0_b", Type: intType, Initializer: &ir.Const{Expr: ir.Expr{Base: ir.Base{Span: ir.Span{Start: 10, End: 11}}, Type: intType}, Kind: ir.ConstInt, Value: int64(2)}},
			&ir.Variable{Name: "tmp1_a", Type: intType, Initializer: &ir.Const{Expr: ir.Expr{Base: ir.Base{Span: ir.Span{Start: 20, End: 21}}, Type: intType}, Kind: ir.ConstInt, Value: int64(1)}},
			&ir.Call{Expr: ir.Expr{Type: unitType}, Callee: target, Arguments: []ir.Expression{
				get("tmp1_a", ir.ValueTemporary, intType),
				get("tmp0_b", ir.ValueTemporary, intType),
			}},
		}}
		stmts := convertStmts(t, src, b)
		require.Len(t, stmts, 1)
		assert.Equal(t, "f(b = 2, a = 1)", printer.Print(stmts[0]))
	})

	t.Run("source label", func(t *testing.T) {
		span := ir.Span{Start: 5, End: 10}
		labelled := fakeSource{inferred: true, labels: map[ir.Span]string{span: "l"}}
		k := call(ir.OriginNone, "run", unitType, nil)
		k.Span = span
		stmts := convertStmts(t, labelled, k, call(ir.OriginNone, "run", unitType, nil))
		require.Len(t, stmts, 2)
		assert.Equal(t, "l", stmts[0].Label())
		assert.Empty(t, stmts[1].Label())
	})

	t.Run("infix", func(t *testing.T) {
		span := ir.Span{Start: 1, End: 7}
		infix := fakeSource{inferred: true, infix: map[ir.Span]bool{span: true}}
		k := call(ir.OriginNone, "to", classType("kotlin", "Pair"), intConst(1), intConst(2))
		k.Span = span
		e := convertExpr(t, infix, k)
		assert.True(t, ct.Flag(e, ct.KeyInfix))
		assert.Equal(t, "1 to 2", printer.Print(e))
	})
}

func TestDeclarations(t *testing.T) {
	cls := ir.ClassID{Package: "pkg", Names: []string{"Point"}}
	point := &ir.Class{
		ID:         cls,
		Name:       "Point",
		Kind:       ir.ClassKindClass,
		Visibility: ir.VisibilityPublic,
		Modality:   ir.ModalityFinal,
		IsData:     true,
		SuperTypes: []*ir.Type{classType("kotlin", "Any")},
		Declarations: []ir.Declaration{
			&ir.Constructor{
				Class:            cls,
				Visibility:       ir.VisibilityPublic,
				IsPrimary:        true,
				HasPrimarySyntax: true,
				ValueParameters:  []*ir.ValueParameter{{Name: "x", Type: intType, Keyword: "val"}},
				Body: &ir.BlockBody{Statements: []ir.Statement{
					&ir.DelegatingConstructorCall{
						Expr:   ir.Expr{Type: unitType},
						Callee: &ir.FunctionSymbol{Name: "<init>", Kind: ir.FunctionConstructor, Container: ir.Container{Package: "kotlin", Class: &ir.ClassID{Package: "kotlin", Names: []string{"Any"}}}},
					},
					&ir.InstanceInitializerCall{Class: cls},
				}},
			},
			&ir.Property{
				Name:       "x",
				Visibility: ir.VisibilityPublic,
				Modality:   ir.ModalityFinal,
				Type:       intType,
				BackingField: &ir.Field{Name: "x", Type: intType, Initializer: &ir.ExpressionBody{
					Expression: &ir.GetValue{Expr: ir.Expr{Type: intType, Origin: ir.OriginInitializeProperty}, Symbol: &ir.ValueSymbol{Name: "x", Kind: ir.ValueKindParameter, Type: intType}},
				}},
				Getter: &ir.Function{Decl: ir.Decl{Origin: ir.DeclDefaultPropertyAccessor}, Name: "<get-x>", ReturnType: intType},
			},
			&ir.Function{Decl: ir.Decl{Origin: ir.DeclDataClassMember}, Name: "component1", ReturnType: intType},
		},
	}
	unit := convert(t, nil, fileWith(point))

	types := unit.DeclaredTypes()
	require.Len(t, types, 1)
	decl := types[0]
	assert.Equal(t, "Point", decl.SimpleName())
	assert.Nil(t, decl.Superclass())
	assert.Empty(t, decl.Methods())

	mods, _ := ct.Get(decl, ct.KeyModifiers)
	assert.Contains(t, mods, kt.Data)

	require.Len(t, decl.Constructors(), 1)
	ctor := decl.Constructors()[0]
	assert.True(t, ct.Flag(ctor, ct.KeyPrimaryConstructor))
	assert.False(t, ctor.Implicit())
	call, ok := ctor.Body().Statements()[0].(*ct.ConstructorCall)
	require.True(t, ok)
	assert.True(t, call.Implicit())

	require.Len(t, decl.Fields(), 1)
	assert.True(t, decl.Fields()[0].Implicit())

	assert.Equal(t, "package pkg\n\ndata class Point(val x: Int)\n", printer.Print(unit))
}

func TestConversionIsDeterministic(t *testing.T) {
	f := fileWith(
		function("f", &ir.ExpressionBody{Expression: call(ir.OriginPlus, "plus", intType, param("x"), intConst(1))}),
		function("g", &ir.BlockBody{Statements: []ir.Statement{
			&ir.Variable{Name: "y", Type: intType, Initializer: intConst(2)},
			call(ir.OriginNone, "println", unitType, nil, get("y", ir.ValueLocal, intType)),
		}}),
	)
	first := convert(t, nil, f)
	second := convert(t, nil, f)
	assert.Equal(t, printer.Print(first), printer.Print(second))

	a, err := export.Marshal(first)
	require.NoError(t, err)
	b, err := export.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}

func TestTailExpressions(t *testing.T) {
	lambda := func(stmts ...ir.Statement) *ir.FunctionExpression {
		return &ir.FunctionExpression{
			Expr: ir.Expr{Type: classType("kotlin", "Function0"), Origin: ir.OriginLambda},
			Function: &ir.Function{
				Name:       "<anonymous>",
				Visibility: ir.VisibilityLocal,
				ReturnType: intType,
				Body:       &ir.BlockBody{Statements: stmts},
			},
		}
	}
	lastOf := func(t *testing.T, e ct.Expression) ct.Statement {
		t.Helper()
		l, ok := e.(*ct.Lambda)
		require.True(t, ok, "got %s", e.Kind())
		stmts := l.Body().Statements()
		require.NotEmpty(t, stmts)
		return stmts[len(stmts)-1]
	}

	t.Run("expression body call", func(t *testing.T) {
		e := convertExpr(t, nil, call(ir.OriginNone, "g", intType, nil))
		assert.Equal(t, ct.KindInvocation, e.Kind())
	})

	t.Run("lambda call", func(t *testing.T) {
		e := convertExpr(t, nil, lambda(call(ir.OriginNone, "g", intType, nil)))
		ret, ok := lastOf(t, e).(*ct.Return)
		require.True(t, ok)
		assert.True(t, ret.Implicit())
		assert.Equal(t, ct.KindInvocation, ret.ReturnedExpression().Kind())
	})

	t.Run("lambda unary operator", func(t *testing.T) {
		e := convertExpr(t, nil, lambda(
			&ir.Variable{Name: "n", Type: intType, Initializer: intConst(1)},
			call(ir.OriginUMinus, "unaryMinus", intType, get("n", ir.ValueLocal, intType)),
		))
		ret, ok := lastOf(t, e).(*ct.Return)
		require.True(t, ok)
		assert.Equal(t, "-n", printer.Print(ret.ReturnedExpression()))
	})

	t.Run("lambda assignment is not a value", func(t *testing.T) {
		x := &ir.ValueSymbol{Name: "x", Kind: ir.ValueLocal, Type: intType}
		e := convertExpr(t, nil, lambda(&ir.SetValue{Expr: ir.Expr{Type: unitType}, Symbol: x, Value: intConst(1)}))
		assert.Equal(t, ct.KindAssignment, lastOf(t, e).Kind())
	})

	t.Run("block body call stays a statement", func(t *testing.T) {
		stmts := convertStmts(t, nil, call(ir.OriginNone, "g", unitType, nil))
		require.Len(t, stmts, 1)
		assert.Equal(t, ct.KindInvocation, stmts[0].Kind())
	})
}

func TestCastType(t *testing.T) {
	base := classType("pkg", "Base")
	e := convertExpr(t, nil, &ir.TypeOperatorCall{Expr: ir.Expr{Type: base}, Operator: ir.OpCast, Argument: param("x"), TypeOperand: base})
	require.NotNil(t, e.Type())
	assert.Equal(t, "pkg.Base", e.Type().QualifiedName())
	require.Len(t, e.TypeCasts(), 1)
}

func TestWhenSubject(t *testing.T) {
	subject := func(init ir.Expression, values ...int64) *ir.Block {
		var branches []*ir.Branch
		for _, v := range values {
			branches = append(branches, &ir.Branch{
				Condition: call(ir.OriginEqEq, "EQEQ", booleanType, nil, get("tmp0_subject", ir.ValueTemporary, intType), intConst(v)),
				Result:    call(ir.OriginNone, "g", unitType, nil),
			})
		}
		branches = append(branches, &ir.Branch{IsElse: true, Result: call(ir.OriginNone, "h", unitType, nil)})
		return &ir.Block{Expr: ir.Expr{Type: unitType, Origin: ir.OriginWhen}, Statements: []ir.Statement{
			&ir.Variable{Name: "tmp0_subject", Type: intType, Initializer: init},
			&ir.When{Expr: ir.Expr{Type: unitType, Origin: ir.OriginWhen}, Branches: branches},
		}}
	}

	t.Run("tested once is inlined", func(t *testing.T) {
		stmts := convertStmts(t, nil, subject(param("x"), 1))
		require.Len(t, stmts, 1)
		i, ok := stmts[0].(*ct.If)
		require.True(t, ok, "got %s", stmts[0].Kind())
		assert.Equal(t, "x == 1", printer.Print(i.Condition()))
	})

	t.Run("tested twice stays a variable", func(t *testing.T) {
		stmts := convertStmts(t, nil, subject(call(ir.OriginNone, "next", intType, nil), 1, 2))
		require.Len(t, stmts, 1)
		b, ok := stmts[0].(*ct.Block)
		require.True(t, ok, "got %s", stmts[0].Kind())
		require.Len(t, b.Statements(), 2)
		v, ok := b.Statements()[0].(*ct.LocalVariable)
		require.True(t, ok)
		assert.Equal(t, "next()", printer.Print(v.DefaultExpression()))
		i, ok := b.Statements()[1].(*ct.If)
		require.True(t, ok)
		assert.Equal(t, "tmp0_subject == 1", printer.Print(i.Condition()))

		calls := 0
		ct.Walk(b, func(e ct.Element) bool {
			if inv, ok := e.(*ct.Invocation); ok && inv.Executable().SimpleName() == "next" {
				calls++
			}
			return true
		})
		assert.Equal(t, 1, calls)
	})
}

func TestDestructuringAndComposites(t *testing.T) {
	pair := classType("kotlin", "Pair")
	src := fakeSource{inferred: true}

	t.Run("destructuring declaration", func(t *testing.T) {
		stmts := convertStmts(t, src, &ir.Composite{Expr: ir.Expr{Type: unitType, Origin: ir.OriginDestructuring}, Statements: []ir.Statement{
			&ir.Variable{Name: "<destruct>", Type: pair, Initializer: get("p", ir.ValueLocal, pair)},
			&ir.Variable{Name: "a", Type: intType, Initializer: call(ir.OriginNone, "component1", intType, get("<destruct>", ir.ValueLocal, pair))},
			&ir.Variable{Name: "b", Type: intType, Initializer: call(ir.OriginNone, "component2", intType, get("<destruct>", ir.ValueLocal, pair))},
		}})
		require.Len(t, stmts, 1)
		holder, ok := stmts[0].(*ct.LocalVariable)
		require.True(t, ok, "got %s", stmts[0].Kind())
		assert.True(t, holder.Implicit())
		assert.True(t, ct.Flag(holder, ct.KeyDestructured))
		comps, ok := ct.Get(holder, ct.KeyComponents)
		require.True(t, ok)
		require.Len(t, comps, 2)
		assert.Nil(t, comps[0].DefaultExpression())
		assert.Equal(t, "val (a, b) = p", printer.Print(holder))
	})

	t.Run("plain composite is flattened", func(t *testing.T) {
		stmts := convertStmts(t, src,
			&ir.Composite{Expr: ir.Expr{Type: unitType}, Statements: []ir.Statement{
				call(ir.OriginNone, "g", unitType, nil),
				call(ir.OriginNone, "h", unitType, nil),
			}},
			call(ir.OriginNone, "k", unitType, nil),
		)
		require.Len(t, stmts, 3)
		for _, st := range stmts {
			assert.Equal(t, ct.KindInvocation, st.Kind())
		}
	})
}

func TestLocalFunction(t *testing.T) {
	span := ir.Span{Start: 30, End: 40}
	local := &ir.Function{
		Decl:       ir.Decl{Base: ir.Base{Span: span}},
		Name:       "g",
		Visibility: ir.VisibilityLocal,
		ReturnType: unitType,
		Body:       &ir.BlockBody{},
	}
	labelled := fakeSource{inferred: true, labels: map[ir.Span]string{span: "l"}}
	stmts := convertStmts(t, labelled, local)
	require.Len(t, stmts, 1)

	wrapper, ok := stmts[0].(*ct.TypeDecl)
	require.True(t, ok, "got %s", stmts[0].Kind())
	assert.True(t, wrapper.Implicit())
	assert.Equal(t, LocalName, wrapper.SimpleName())
	require.Len(t, wrapper.Methods(), 1)
	assert.Equal(t, "g", wrapper.Methods()[0].SimpleName())

	t.Run("label kept in metadata", func(t *testing.T) {
		assert.Empty(t, wrapper.Label())
		l, ok := ct.Get(wrapper, ct.KeyLabel)
		require.True(t, ok)
		assert.Equal(t, "l", l)
	})
}

func TestLoopLabelWithoutSource(t *testing.T) {
	loop := &ir.WhileLoop{
		Expr:      ir.Expr{Type: unitType},
		Label:     "outer",
		Condition: &ir.Const{Expr: ir.Expr{Type: booleanType}, Kind: ir.ConstBoolean, Value: true},
		Body:      &ir.Block{Expr: ir.Expr{Type: unitType}, Statements: []ir.Statement{&ir.Break{Label: "outer"}}},
	}
	stmts := convertStmts(t, nil, loop)
	require.Len(t, stmts, 1)
	w, ok := stmts[0].(*ct.While)
	require.True(t, ok)
	assert.Equal(t, "outer", w.Label())
	_, inMeta := ct.Get(w, ct.KeyLabel)
	assert.False(t, inMeta)
}

func TestTopLevelContainer(t *testing.T) {
	clash := &ir.Class{
		ID:         ir.ClassID{Package: "pkg", Names: []string{TopLevelName}},
		Name:       TopLevelName,
		Kind:       ir.ClassKindClass,
		Visibility: ir.VisibilityPublic,
		Modality:   ir.ModalityFinal,
		SuperTypes: []*ir.Type{classType("kotlin", "Any")},
	}
	unit := convert(t, nil, fileWith(
		function("f", &ir.BlockBody{}),
		clash,
		function("g", &ir.BlockBody{}),
	))

	types := unit.DeclaredTypes()
	require.Len(t, types, 2)
	top := types[0]
	assert.True(t, top.Implicit())
	require.Len(t, top.Methods(), 2)
	assert.Equal(t, "f", top.Methods()[0].SimpleName())
	assert.Equal(t, "g", top.Methods()[1].SimpleName())

	assert.False(t, types[1].Implicit())
	assert.Equal(t, TopLevelName, types[1].SimpleName())
	assert.Empty(t, types[1].Methods())
}

func TestConversionErrors(t *testing.T) {
	b := NewBuilder(nil, DefaultOptions())
	convertBody := func(e ir.Expression) error {
		_, _, err := b.ConvertFile(fileWith(function("f", &ir.ExpressionBody{Expression: e})), nil)
		return err
	}

	t.Run("unhandled node", func(t *testing.T) {
		err := convertBody(&ir.Vararg{Expr: ir.Expr{Type: intType}, ElementType: intType})
		var unhandled *UnhandledNodeError
		require.True(t, errors.As(err, &unhandled))
		assert.Equal(t, "Vararg", unhandled.Node)
		assert.Contains(t, err.Error(), "a.kt")
	})

	t.Run("malformed when", func(t *testing.T) {
		err := convertBody(&ir.When{Expr: ir.Expr{Type: intType}})
		var shape *ShapeError
		require.True(t, errors.As(err, &shape))
		assert.Equal(t, "when", shape.Construct)
	})

	t.Run("write to receiver", func(t *testing.T) {
		err := convertBody(&ir.SetValue{
			Expr:   ir.Expr{Type: unitType},
			Symbol: &ir.ValueSymbol{Name: "<this>", Kind: ir.ValueReceiver},
			Value:  intConst(1),
		})
		var ref *ReferenceKindError
		require.True(t, errors.As(err, &ref))
		assert.Equal(t, "<this>", ref.Name)
	})

	t.Run("missing symbol", func(t *testing.T) {
		err := convertBody(&ir.GetValue{Expr: ir.Expr{Type: intType}})
		var shape *ShapeError
		require.True(t, errors.As(err, &shape))
		assert.Equal(t, "GetValue", shape.Construct)
		assert.Contains(t, shape.Reason, "symbol")
	})

	t.Run("missing branch result", func(t *testing.T) {
		err := convertBody(&ir.When{Expr: ir.Expr{Type: intType}, Branches: []*ir.Branch{{Condition: param("x")}}})
		var shape *ShapeError
		require.True(t, errors.As(err, &shape))
		assert.Contains(t, shape.Reason, "branch result")
	})

	t.Run("nil statement", func(t *testing.T) {
		_, _, err := b.ConvertFile(fileWith(function("f", &ir.BlockBody{Statements: []ir.Statement{nil}})), nil)
		var shape *ShapeError
		require.True(t, errors.As(err, &shape))
	})

	t.Run("no unit on error", func(t *testing.T) {
		unit, _, err := b.ConvertFile(fileWith(function("f", &ir.ExpressionBody{Expression: &ir.When{}})), nil)
		require.Error(t, err)
		assert.Nil(t, unit)
	})
}

func TestUnresolvedTypeWarns(t *testing.T) {
	k := call(ir.OriginNone, "g", nil, nil)
	_, msgs, err := NewBuilder(nil, DefaultOptions()).ConvertFile(fileWith(function("f", &ir.ExpressionBody{Expression: k})), nil)
	require.NoError(t, err)
	require.NotEmpty(t, msgs)
	assert.Equal(t, SeverityWarning, msgs[0].Severity)
	assert.Contains(t, msgs[0].Text, ct.ErrorTypeName)
}
