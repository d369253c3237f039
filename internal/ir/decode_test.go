package ir

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDump = `{
  "format": "1.2.0",
  "file": {
    "kind": "File", "name": "a.kt", "path": "src/a.kt", "package": "pkg",
    "span": {"start": 0, "end": 40}, "lineStarts": [0, 12],
    "declarations": [{
      "kind": "Function", "name": "f", "visibility": "public", "modality": "FINAL",
      "span": {"start": 12, "end": 40},
      "returnType": {"kind": "CLASS", "class": {"package": "kotlin", "names": ["Int"]}},
      "valueParameters": [{
        "kind": "ValueParameter", "name": "x",
        "type": {"kind": "CLASS", "class": {"package": "kotlin", "names": ["Int"]}}
      }],
      "body": {"kind": "BlockBody", "statements": [{
        "kind": "Return", "span": {"start": 20, "end": 38},
        "value": {
          "kind": "Call", "origin": "PLUS",
          "callee": {"name": "plus", "operator": true, "container": {"package": "kotlin", "class": {"package": "kotlin", "names": ["Int"]}}},
          "dispatchReceiver": {"kind": "GetValue", "symbol": {"name": "x", "kind": "PARAMETER"}},
          "arguments": [{"kind": "Const", "constKind": "Int", "value": 1}, null]
        }
      }]}
    }]
  }
}`

func TestDecode(t *testing.T) {
	f, err := Decode(strings.NewReader(sampleDump))
	require.NoError(t, err)

	assert.Equal(t, "pkg", f.Package)
	assert.Equal(t, []int{0, 12}, f.LineStartOffsets)
	require.Len(t, f.Declarations, 1)

	fn, ok := f.Declarations[0].(*Function)
	require.True(t, ok)
	assert.Equal(t, "f", fn.Name)
	assert.True(t, fn.ReturnType.IsClass("kotlin", "Int"))
	require.Len(t, fn.ValueParameters, 1)

	body, ok := fn.Body.(*BlockBody)
	require.True(t, ok)
	ret, ok := body.Statements[0].(*Return)
	require.True(t, ok)
	assert.Equal(t, Span{Start: 20, End: 38}, ret.Pos())

	call, ok := ret.Value.(*Call)
	require.True(t, ok)
	assert.Equal(t, OriginPlus, call.Origin)
	assert.True(t, call.Callee.IsOperator)
	assert.Equal(t, "kotlin.Int", call.Callee.Container.Class.String())
	require.Len(t, call.Arguments, 2)
	assert.Equal(t, int64(1), call.Arguments[0].(*Const).Value)
	assert.Nil(t, call.Arguments[1])
}

func TestDecodeRejects(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"missing format", `{"file": {"kind": "File"}}`, "no format version"},
		{"newer major", `{"format": "2.0.0", "file": {"kind": "File"}}`, "unsupported IR dump format"},
		{"bad version", `{"format": "x", "file": {"kind": "File"}}`, "invalid IR dump format"},
		{"unknown node", `{"format": "1.0.0", "file": {"kind": "File", "declarations": [{"kind": "Typealias"}]}}`, "unknown node kind"},
		{"wrong slot", `{"format": "1.0.0", "file": {"kind": "File", "declarations": [{"kind": "Const", "constKind": "Int", "value": 1}]}}`, "not allowed"},
		{"value read without symbol", `{"format": "1.0.0", "file": {"kind": "File", "declarations": [{"kind": "Function", "name": "f", "body": {"kind": "ExpressionBody", "expression": {"kind": "GetValue"}}}]}}`, "missing symbol"},
		{"empty expression body", `{"format": "1.0.0", "file": {"kind": "File", "declarations": [{"kind": "Function", "name": "f", "body": {"kind": "ExpressionBody"}}]}}`, "missing expression"},
		{"branch without result", `{"format": "1.0.0", "file": {"kind": "File", "declarations": [{"kind": "Function", "name": "f", "body": {"kind": "ExpressionBody", "expression": {"kind": "When", "branches": [{"kind": "Branch", "flags": ["else"]}]}}}]}}`, "missing result"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tc.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestConstValues(t *testing.T) {
	v, err := constValue(ConstChar, []byte(`"é"`))
	require.NoError(t, err)
	assert.Equal(t, 'é', v)

	v, err = constValue(ConstDouble, []byte(`1.5`))
	require.NoError(t, err)
	assert.Equal(t, 1.5, v)

	v, err = constValue(ConstNull, nil)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestClassID(t *testing.T) {
	id := ClassID{Package: "pkg", Names: []string{"Outer", "Inner"}}
	assert.Equal(t, "Inner", id.ShortName())
	outer, ok := id.Outer()
	require.True(t, ok)
	assert.Equal(t, "pkg.Outer", outer.String())
	_, ok = outer.Outer()
	assert.False(t, ok)
}

func TestMissingFieldError(t *testing.T) {
	in := `{"format": "1.0.0", "file": {"kind": "File", "declarations": [{"kind": "Function", "name": "f",
		"body": {"kind": "BlockBody", "statements": [{"kind": "Throw", "span": {"start": 4, "end": 9}}]}}]}}`
	_, err := Decode(strings.NewReader(in))
	var missing *MissingFieldError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "Throw", missing.Node)
	assert.Equal(t, "value", missing.Field)
	assert.Equal(t, Span{Start: 4, End: 9}, missing.Span)
}

func TestMissingField(t *testing.T) {
	sym := &ValueSymbol{Name: "x", Kind: ValueLocal}
	tests := []struct {
		name string
		node Node
		want string
	}{
		{"complete read", &GetValue{Symbol: sym}, ""},
		{"write without value", &SetValue{Symbol: sym}, "value"},
		{"else branch", &Branch{IsElse: true, Result: &GetValue{Symbol: sym}}, ""},
		{"branch without condition", &Branch{Result: &GetValue{Symbol: sym}}, "condition"},
		{"when with nil branch", &When{Branches: []*Branch{nil}}, "branch"},
		{"catch without parameter", &Try{Result: &Block{}, Catches: []*Catch{{Result: &Block{}}}}, "catch parameter"},
		{"cast without operand type", &TypeOperatorCall{Operator: OpCast, Argument: &GetValue{Symbol: sym}}, "type operand"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MissingField(tt.node))
		})
	}
}

func TestCountReads(t *testing.T) {
	read := func() *GetValue { return &GetValue{Symbol: &ValueSymbol{Name: "tmp", Kind: ValueTemporary}} }
	stmts := []Statement{
		&When{Branches: []*Branch{
			{Condition: &Call{Callee: &FunctionSymbol{Name: "EQEQ"}, Arguments: []Expression{read(), nil}}, Result: read()},
			{IsElse: true, Result: &Block{Statements: []Statement{&Return{Value: read()}}}},
		}},
		&GetValue{Symbol: &ValueSymbol{Name: "other"}},
	}
	assert.Equal(t, 3, CountReads(stmts, "tmp"))
	assert.Equal(t, 1, CountReads(stmts, "other"))
	assert.Zero(t, CountReads(nil, "tmp"))
}
