// Package export serialises a ct tree to JSON and validates documents
// against the bundled schema.
package export

import (
	"encoding/json"
	"fmt"

	"ktbridge/internal/ct"
	"ktbridge/internal/kt"
)

// FormatVersion is stamped on every document.
const FormatVersion = "1"

// Document is the top-level JSON object.
type Document struct {
	Format string `json:"format"`
	File   string `json:"file"`
	Root   *Node  `json:"root"`
}

// Node is one element. Fields carries the scalar attributes of the kind,
// Metadata the populated side-table slots and Children the owned subtree in
// source order.
type Node struct {
	Kind     string         `json:"kind"`
	Implicit bool           `json:"implicit,omitempty"`
	Label    string         `json:"label,omitempty"`
	Fields   map[string]any `json:"fields,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Children []*Node        `json:"children,omitempty"`
}

// Marshal renders u as an indented JSON document.
func Marshal(u *ct.CompilationUnit) ([]byte, error) {
	if u == nil {
		return nil, fmt.Errorf("export: nil compilation unit")
	}
	doc := Document{Format: FormatVersion, File: u.FileName(), Root: NodeOf(u)}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", u.FileName(), err)
	}
	return data, nil
}

// NodeOf converts e and its subtree.
func NodeOf(e ct.Element) *Node {
	n := &Node{
		Kind:     e.Kind().String(),
		Implicit: e.Implicit(),
		Fields:   fields(e),
	}
	if s, ok := e.(ct.Statement); ok {
		n.Label = s.Label()
	}
	m := e.Metadata()
	if m.Len() > 0 {
		n.Metadata = make(map[string]any, m.Len())
		for _, k := range m.Kinds() {
			v, _ := m.Value(k)
			n.Metadata[k.String()] = metaValue(v)
		}
	}
	for _, c := range e.Children() {
		n.Children = append(n.Children, NodeOf(c))
	}
	return n
}

func metaValue(v any) any {
	switch x := v.(type) {
	case []kt.Modifier:
		toks := make([]string, len(x))
		for i, m := range x {
			toks[i] = m.Token()
		}
		return toks
	case kt.BinaryOperatorKind:
		return x.String()
	case []*ct.LocalVariable:
		nodes := make([]*Node, len(x))
		for i, l := range x {
			nodes[i] = NodeOf(l)
		}
		return nodes
	case ct.Element:
		return NodeOf(x)
	default:
		return x
	}
}

var binaryNames = map[ct.BinaryOperatorKind]string{
	ct.BinaryOther:      "OTHER",
	ct.BinaryOr:         "OR",
	ct.BinaryAnd:        "AND",
	ct.BinaryEq:         "EQ",
	ct.BinaryNe:         "NE",
	ct.BinaryLt:         "LT",
	ct.BinaryGt:         "GT",
	ct.BinaryLe:         "LE",
	ct.BinaryGe:         "GE",
	ct.BinaryPlus:       "PLUS",
	ct.BinaryMinus:      "MINUS",
	ct.BinaryMul:        "MUL",
	ct.BinaryDiv:        "DIV",
	ct.BinaryMod:        "MOD",
	ct.BinaryInstanceOf: "INSTANCEOF",
}

var refNames = map[ct.RefKind]string{
	ct.RefClass:         "class",
	ct.RefTypeParameter: "typeParameter",
	ct.RefIntersection:  "intersection",
	ct.RefNull:          "null",
	ct.RefStar:          "star",
}

var baseNames = map[ct.LiteralBase]string{
	ct.BaseDecimal:     "decimal",
	ct.BaseHexadecimal: "hexadecimal",
	ct.BaseBinary:      "binary",
}

type named interface{ SimpleName() string }

func fields(e ct.Element) map[string]any {
	f := map[string]any{}
	if n, ok := e.(named); ok {
		f["name"] = n.SimpleName()
	}
	switch x := e.(type) {
	case *ct.CompilationUnit:
		f["file"] = x.FileName()
	case *ct.Package:
		f["qualifiedName"] = x.QualifiedName()
	case *ct.PackageReference:
		f["name"] = x.Name()
	case *ct.TypeDecl:
		f["typeKind"] = x.TypeKind().String()
	case *ct.TypeReference:
		f["refKind"] = refNames[x.RefKind()]
		if x.Nullable() {
			f["nullable"] = true
		}
	case *ct.VariableReference:
		f["varKind"] = x.VarKind().String()
	case *ct.Literal:
		f["value"] = literalValue(x.Value())
		if x.Base() != ct.BaseDecimal {
			f["base"] = baseNames[x.Base()]
		}
	case *ct.BinaryOperator:
		f["operator"] = binaryNames[x.OperatorKind()]
	case *ct.OperatorAssignment:
		f["operator"] = binaryNames[x.OperatorKind()]
	case *ct.UnaryOperator:
		f["operator"] = x.OperatorKind().String()
	case *ct.Break:
		f["target"] = x.TargetLabel()
	case *ct.Continue:
		f["target"] = x.TargetLabel()
	}
	if len(f) == 0 {
		return nil
	}
	return f
}

// literalValue maps runes to one-character strings; JSON has no char type.
func literalValue(v any) any {
	if r, ok := v.(rune); ok {
		return string(r)
	}
	return v
}
