package source

import (
	"context"
	"fmt"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/kotlin"

	"ktbridge/internal/ir"
)

// Kotlin answers Helper queries from the original source, parsed with the
// tree-sitter Kotlin grammar. Queries that the syntax tree cannot settle
// (parse errors, unexpected shapes) fall back to scanning the text.
type Kotlin struct {
	src  []byte
	root *sitter.Node
}

var _ Helper = (*Kotlin)(nil)

// NewKotlin parses src.
func NewKotlin(ctx context.Context, src []byte) (*Kotlin, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(kotlin.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse kotlin source: %w", err)
	}
	return &Kotlin{src: src, root: tree.RootNode()}, nil
}

// OpenKotlin reads and parses the file at path.
func OpenKotlin(ctx context.Context, path string) (*Kotlin, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return NewKotlin(ctx, src)
}

func (k *Kotlin) valid(s ir.Span) bool {
	return s.Start >= 0 && s.End >= s.Start && s.End <= len(k.src)
}

func (k *Kotlin) Text(s ir.Span) string {
	if !k.valid(s) {
		return ""
	}
	return string(k.src[s.Start:s.End])
}

func (k *Kotlin) before(s ir.Span) string {
	if !k.valid(s) {
		return ""
	}
	return string(k.src[:s.Start])
}

func (k *Kotlin) content(n *sitter.Node) string {
	return n.Content(k.src)
}

// covering returns the smallest named node whose range contains s.
func (k *Kotlin) covering(s ir.Span) *sitter.Node {
	if k.root == nil || !k.valid(s) {
		return nil
	}
	n := k.root
	for {
		var next *sitter.Node
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			if int(c.StartByte()) <= s.Start && s.End <= int(c.EndByte()) {
				next = c
				break
			}
		}
		if next == nil {
			return n
		}
		n = next
	}
}

// enclosing climbs from the node covering s to the first ancestor whose type
// is in types, giving up at any type in stop.
func (k *Kotlin) enclosing(s ir.Span, types []string, stop ...string) *sitter.Node {
	for n := k.covering(s); n != nil; n = n.Parent() {
		t := n.Type()
		for _, want := range types {
			if t == want {
				return n
			}
		}
		for _, halt := range stop {
			if t == halt {
				return nil
			}
		}
	}
	return nil
}

var declarationNodes = []string{
	"property_declaration", "function_declaration", "getter", "setter",
	"variable_declaration", "class_parameter", "parameter", "lambda_parameters",
}

func (k *Kotlin) HasExplicitType(s ir.Span) bool {
	n := k.enclosing(s, declarationNodes, "statements", "class_body")
	if n == nil {
		return declaresTypeText(k.Text(s))
	}
	switch n.Type() {
	case "function_declaration", "getter", "setter":
		seenParams := false
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			switch c.Type() {
			case "function_value_parameters", ")":
				seenParams = true
			case ":":
				if seenParams {
					return true
				}
			case "function_body":
				return false
			}
		}
		return false
	case "property_declaration":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			if c.Type() == "variable_declaration" {
				return hasChildType(c, ":")
			}
		}
		return false
	case "class_parameter", "parameter":
		return true
	}
	return hasChildType(n, ":")
}

func hasChildType(n *sitter.Node, typ string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == typ {
			return true
		}
	}
	return false
}

func (k *Kotlin) Label(s ir.Span) string {
	if l := labelPrefix(k.Text(s)); l != "" {
		return l
	}
	return labelBefore(k.before(s))
}

func (k *Kotlin) ReturnTarget(s ir.Span) string {
	return returnTarget(k.Text(s))
}

func (k *Kotlin) HasReturnKeyword(s ir.Span) bool {
	return s.Len() > 0 && hasKeyword(strings.TrimSpace(k.Text(s)), "return")
}

func (k *Kotlin) NamedArgument(s ir.Span) string {
	if n := k.enclosing(s, []string{"value_argument"}, "value_arguments", "statements"); n != nil {
		if n.ChildCount() > 1 && n.Child(1).Type() == "=" {
			id := n.Child(0)
			if id.Type() == "simple_identifier" {
				return strings.Trim(k.content(id), "`")
			}
		}
		return ""
	}
	return namedArgumentBefore(k.before(s))
}

func (k *Kotlin) HasExplicitTypeArguments(s ir.Span) bool {
	call := k.enclosing(s, []string{"call_expression"}, "statements")
	if call == nil {
		return false
	}
	for i := 0; i < int(call.NamedChildCount()); i++ {
		c := call.NamedChild(i)
		if c.Type() == "call_suffix" {
			for j := 0; j < int(c.NamedChildCount()); j++ {
				if c.NamedChild(j).Type() == "type_arguments" {
					return true
				}
			}
		}
	}
	return false
}

func (k *Kotlin) IsInfixCall(s ir.Span) bool {
	n := k.covering(s)
	for n != nil && int(n.StartByte()) == s.Start && int(n.EndByte()) == s.End {
		if n.Type() == "infix_expression" {
			return true
		}
		n = n.Parent()
	}
	return false
}

func (k *Kotlin) IsImplicitThis(s ir.Span) bool {
	if s.Len() <= 0 {
		return true
	}
	return !hasKeyword(strings.TrimSpace(k.Text(s)), "this")
}

func (k *Kotlin) NumberBase(s ir.Span) int { return numberBase(k.Text(s)) }

func (k *Kotlin) IsScientific(s ir.Span) bool { return isScientific(k.Text(s)) }

func (k *Kotlin) IsMultilineString(s ir.Span) bool {
	return strings.HasPrefix(strings.TrimSpace(k.Text(s)), `"""`)
}
