// Package ct is the language-agnostic program model produced by the bridge.
//
// Every node is created through a New* constructor, which wires the node's
// self pointer so that setters can link children back to their parent at the
// moment they are attached. Nodes carry an implicit flag (structural
// placeholders the printer may omit) and a typed metadata side-table for facts
// the model has no first-class slot for.
package ct

import "reflect"

// Kind identifies the concrete node type of an Element.
type Kind uint8

const (
	KindCompilationUnit Kind = iota + 1
	KindPackage
	KindType
	KindField
	KindEnumValue
	KindMethod
	KindConstructor
	KindAnonymousExecutable
	KindParameter
	KindTypeParameter
	KindLocalVariable
	KindCatchVariable
	KindBlock
	KindIf
	KindWhile
	KindDo
	KindForEach
	KindReturn
	KindThrow
	KindTry
	KindCatch
	KindBreak
	KindContinue
	KindLiteral
	KindVariableRead
	KindVariableWrite
	KindFieldRead
	KindFieldWrite
	KindArrayRead
	KindArrayWrite
	KindInvocation
	KindConstructorCall
	KindBinaryOperator
	KindUnaryOperator
	KindAssignment
	KindOperatorAssignment
	KindTypeAccess
	KindThisAccess
	KindSuperAccess
	KindLambda
	KindStatementExpression
	KindPackageReference
	KindTypeReference
	KindExecutableReference
	KindVariableReference
)

var kindNames = map[Kind]string{
	KindCompilationUnit:     "CompilationUnit",
	KindPackage:             "Package",
	KindType:                "Type",
	KindField:               "Field",
	KindEnumValue:           "EnumValue",
	KindMethod:              "Method",
	KindConstructor:         "Constructor",
	KindAnonymousExecutable: "AnonymousExecutable",
	KindParameter:           "Parameter",
	KindTypeParameter:       "TypeParameter",
	KindLocalVariable:       "LocalVariable",
	KindCatchVariable:       "CatchVariable",
	KindBlock:               "Block",
	KindIf:                  "If",
	KindWhile:               "While",
	KindDo:                  "Do",
	KindForEach:             "ForEach",
	KindReturn:              "Return",
	KindThrow:               "Throw",
	KindTry:                 "Try",
	KindCatch:               "Catch",
	KindBreak:               "Break",
	KindContinue:            "Continue",
	KindLiteral:             "Literal",
	KindVariableRead:        "VariableRead",
	KindVariableWrite:       "VariableWrite",
	KindFieldRead:           "FieldRead",
	KindFieldWrite:          "FieldWrite",
	KindArrayRead:           "ArrayRead",
	KindArrayWrite:          "ArrayWrite",
	KindInvocation:          "Invocation",
	KindConstructorCall:     "ConstructorCall",
	KindBinaryOperator:      "BinaryOperator",
	KindUnaryOperator:       "UnaryOperator",
	KindAssignment:          "Assignment",
	KindOperatorAssignment:  "OperatorAssignment",
	KindTypeAccess:          "TypeAccess",
	KindThisAccess:          "ThisAccess",
	KindSuperAccess:         "SuperAccess",
	KindLambda:              "Lambda",
	KindStatementExpression: "StatementExpression",
	KindPackageReference:    "PackageReference",
	KindTypeReference:       "TypeReference",
	KindExecutableReference: "ExecutableReference",
	KindVariableReference:   "VariableReference",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// labelled lists the statement kinds with a first-class label slot. Labels on
// any other kind go to metadata.
var labelled = map[Kind]bool{
	KindBlock:              true,
	KindIf:                 true,
	KindWhile:              true,
	KindDo:                 true,
	KindForEach:            true,
	KindTry:                true,
	KindReturn:             true,
	KindThrow:              true,
	KindInvocation:         true,
	KindConstructorCall:    true,
	KindAssignment:         true,
	KindOperatorAssignment: true,
	KindUnaryOperator:      true,
	KindLocalVariable:      true,
	KindBreak:              true,
	KindContinue:           true,
}

// SupportsLabel reports whether statements of kind k hold a label natively.
func SupportsLabel(k Kind) bool { return labelled[k] }

// Element is implemented by every node of the model.
type Element interface {
	Kind() Kind
	Parent() Element
	SetParent(Element)
	Implicit() bool
	SetImplicit(bool)
	Metadata() *Metadata
	// Children returns the owned child nodes in source order. Metadata
	// values are not included.
	Children() []Element
}

// Statement is an element that can stand in a block.
type Statement interface {
	Element
	Label() string
	// SetLabel stores l in the label slot and reports whether the kind has
	// one. Callers fall back to metadata when it returns false.
	SetLabel(l string) bool
	isStatement()
}

// Expression is an element that has a static type.
type Expression interface {
	Element
	Type() *TypeReference
	SetType(*TypeReference)
	TypeCasts() []*TypeReference
	AddTypeCast(*TypeReference)
	isExpression()
}

// Targeted is an expression with an optional receiver.
type Targeted interface {
	Expression
	Target() Expression
	SetTarget(Expression)
}

type node struct {
	self     Element
	parent   Element
	implicit bool
	meta     Metadata
}

func (n *node) Parent() Element       { return n.parent }
func (n *node) SetParent(p Element)   { n.parent = p }
func (n *node) Implicit() bool        { return n.implicit }
func (n *node) SetImplicit(b bool)    { n.implicit = b }
func (n *node) Metadata() *Metadata   { return &n.meta }
func (n *node) adopt(child Element)   { adopt(n.self, child) }
func (n *node) adoptAll(cs []Element) { adoptAll(n.self, cs) }

type stmtNode struct {
	node
	label string
}

func (s *stmtNode) Label() string { return s.label }
func (s *stmtNode) SetLabel(l string) bool {
	if !SupportsLabel(s.self.Kind()) {
		return false
	}
	s.label = l
	return true
}
func (s *stmtNode) isStatement() {}

type exprNode struct {
	node
	typ   *TypeReference
	casts []*TypeReference
}

func (e *exprNode) Type() *TypeReference { return e.typ }
func (e *exprNode) SetType(t *TypeReference) {
	e.typ = t
	e.adopt(t)
}
func (e *exprNode) TypeCasts() []*TypeReference { return e.casts }
func (e *exprNode) AddTypeCast(t *TypeReference) {
	if t == nil {
		return
	}
	e.casts = append(e.casts, t)
	e.adopt(t)
}
func (e *exprNode) isExpression() {}

func (e *exprNode) typeChildren() []Element {
	out := elems(e.typ)
	for _, c := range e.casts {
		out = append(out, c)
	}
	return out
}

// stmtExprNode backs nodes that are both statements and expressions.
type stmtExprNode struct {
	exprNode
	label string
}

func (s *stmtExprNode) Label() string { return s.label }
func (s *stmtExprNode) SetLabel(l string) bool {
	if !SupportsLabel(s.self.Kind()) {
		return false
	}
	s.label = l
	return true
}
func (s *stmtExprNode) isStatement() {}

func adopt(parent, child Element) {
	if isNil(child) {
		return
	}
	child.SetParent(parent)
}

func adoptAll[E Element](parent Element, children []E) {
	for _, c := range children {
		adopt(parent, c)
	}
}

func isNil(e Element) bool {
	if e == nil {
		return true
	}
	v := reflect.ValueOf(e)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// elems builds a child list, dropping absent slots.
func elems(items ...Element) []Element {
	out := make([]Element, 0, len(items))
	for _, it := range items {
		if !isNil(it) {
			out = append(out, it)
		}
	}
	return out
}

func appendAll[E Element](dst []Element, src []E) []Element {
	for _, e := range src {
		if !isNil(e) {
			dst = append(dst, e)
		}
	}
	return dst
}
