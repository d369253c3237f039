// Package ir models the resolved Kotlin IR of one source file as delivered by
// the compiler plugin's JSON dump.
package ir

// Span is a half-open byte range into the file's source text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (s Span) Len() int { return s.End - s.Start }

// Node is implemented by every IR node.
type Node interface {
	Pos() Span
}

// Statement is anything that can appear in a statement list.
type Statement interface {
	Node
	statement()
}

// Expression is a typed statement.
type Expression interface {
	Statement
	VarargElement
	ExprType() *Type
	ExprOrigin() Origin
	expression()
}

// Declaration is a named member or local declaration.
type Declaration interface {
	Statement
	DeclOrigin() DeclarationOrigin
	declaration()
}

// Body is a function, property or initializer body.
type Body interface {
	Node
	body()
}

// VarargElement is an expression or a spread element of a vararg.
type VarargElement interface {
	Node
	varargElement()
}

type Base struct {
	Span Span
}

func (b Base) Pos() Span { return b.Span }

// Expr is the common part of expressions.
type Expr struct {
	Base
	Type   *Type
	Origin Origin
}

func (e Expr) ExprType() *Type    { return e.Type }
func (e Expr) ExprOrigin() Origin { return e.Origin }
func (Expr) statement()           {}
func (Expr) expression()          {}
func (Expr) varargElement()       {}

// Decl is the common part of declarations.
type Decl struct {
	Base
	Origin DeclarationOrigin
}

func (d Decl) DeclOrigin() DeclarationOrigin { return d.Origin }
func (d Decl) IsFakeOverride() bool          { return d.Origin == DeclFakeOverride }
func (Decl) statement()                      {}
func (Decl) declaration()                    {}

// File is the root of one dump.
type File struct {
	Base
	Name             string
	Path             string
	Package          string
	LineStartOffsets []int
	Declarations     []Declaration
}

type ClassKind string

const (
	ClassKindClass      ClassKind = "CLASS"
	ClassKindInterface  ClassKind = "INTERFACE"
	ClassKindEnum       ClassKind = "ENUM_CLASS"
	ClassKindEnumEntry  ClassKind = "ENUM_ENTRY"
	ClassKindAnnotation ClassKind = "ANNOTATION_CLASS"
	ClassKindObject     ClassKind = "OBJECT"
)

type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityPrivate   Visibility = "private"
	VisibilityProtected Visibility = "protected"
	VisibilityInternal  Visibility = "internal"
	VisibilityLocal     Visibility = "local"
)

type Modality string

const (
	ModalityFinal    Modality = "FINAL"
	ModalityOpen     Modality = "OPEN"
	ModalitySealed   Modality = "SEALED"
	ModalityAbstract Modality = "ABSTRACT"
)

type Class struct {
	Decl
	ID             ClassID
	Name           string
	Kind           ClassKind
	Visibility     Visibility
	Modality       Modality
	IsData         bool
	IsCompanion    bool
	IsInline       bool
	IsInner        bool
	SuperTypes     []*Type
	TypeParameters []*TypeParameter
	Declarations   []Declaration
}

type Property struct {
	Decl
	Name         string
	Visibility   Visibility
	Modality     Modality
	IsVar        bool
	IsConst      bool
	IsLateinit   bool
	IsOverride   bool
	IsDelegated  bool
	Type         *Type
	BackingField *Field
	Getter       *Function
	Setter       *Function
}

// Field is a property's backing field. Origin DeclDelegate marks a
// delegated property's delegate holder.
type Field struct {
	Decl
	Name        string
	Type        *Type
	Initializer *ExpressionBody
}

type Function struct {
	Decl
	Name              string
	Visibility        Visibility
	Modality          Modality
	IsInfix           bool
	IsInline          bool
	IsOperator        bool
	IsOverride        bool
	IsSuspend         bool
	IsTailrec         bool
	ReturnType        *Type
	ExtensionReceiver *Type
	ValueParameters   []*ValueParameter
	TypeParameters    []*TypeParameter
	Body              Body
}

// IsDefaultAccessor reports whether f is a compiler-generated accessor.
func (f *Function) IsDefaultAccessor() bool {
	return f != nil && f.Origin == DeclDefaultPropertyAccessor
}

type Constructor struct {
	Decl
	Class            ClassID
	Visibility       Visibility
	IsPrimary        bool
	HasPrimarySyntax bool
	ValueParameters  []*ValueParameter
	Body             Body
}

type ValueParameter struct {
	Decl
	Name              string
	Type              *Type
	VarargElementType *Type
	DefaultValue      *ExpressionBody
	IsNoinline        bool
	IsCrossinline     bool
	// Keyword is "val" or "var" for primary-constructor properties.
	Keyword string
}

type Variance string

const (
	Invariant   Variance = ""
	VarianceIn  Variance = "in"
	VarianceOut Variance = "out"
)

type TypeParameter struct {
	Decl
	Name       string
	SuperTypes []*Type
	IsReified  bool
	Variance   Variance
}

type Variable struct {
	Decl
	Name        string
	Type        *Type
	Initializer Expression
	IsVar       bool
	IsConst     bool
	IsLateinit  bool
}

type AnonymousInitializer struct {
	Decl
	Body *BlockBody
}

type EnumEntry struct {
	Decl
	Name        string
	Initializer *ExpressionBody
	Class       *Class
}

type BlockBody struct {
	Base
	Statements []Statement
}

func (BlockBody) body() {}

type ExpressionBody struct {
	Base
	Expression Expression
}

func (ExpressionBody) body() {}

type ConstKind string

const (
	ConstNull    ConstKind = "Null"
	ConstBoolean ConstKind = "Boolean"
	ConstChar    ConstKind = "Char"
	ConstByte    ConstKind = "Byte"
	ConstShort   ConstKind = "Short"
	ConstInt     ConstKind = "Int"
	ConstLong    ConstKind = "Long"
	ConstString  ConstKind = "String"
	ConstFloat   ConstKind = "Float"
	ConstDouble  ConstKind = "Double"
)

// Const is a literal. Value is nil, bool, rune, int64, float64 or string
// depending on Kind.
type Const struct {
	Expr
	Kind  ConstKind
	Value any
}

type Call struct {
	Expr
	Callee            *FunctionSymbol
	DispatchReceiver  Expression
	ExtensionReceiver Expression
	// Arguments has one slot per parameter; nil marks an omitted argument.
	Arguments      []Expression
	TypeArguments  []*Type
	SuperQualifier *ClassID
}

type ConstructorCall struct {
	Expr
	Callee        *FunctionSymbol
	Arguments     []Expression
	TypeArguments []*Type
}

type DelegatingConstructorCall struct {
	Expr
	Callee        *FunctionSymbol
	Arguments     []Expression
	TypeArguments []*Type
}

type InstanceInitializerCall struct {
	Expr
	Class ClassID
}

type GetValue struct {
	Expr
	Symbol *ValueSymbol
}

type SetValue struct {
	Expr
	Symbol *ValueSymbol
	Value  Expression
}

type GetField struct {
	Expr
	Symbol   *PropertySymbol
	Receiver Expression
}

type SetField struct {
	Expr
	Symbol   *PropertySymbol
	Receiver Expression
	Value    Expression
}

type GetObjectValue struct {
	Expr
	Class ClassID
}

type Branch struct {
	Base
	Condition Expression
	Result    Expression
	IsElse    bool
}

type When struct {
	Expr
	Branches []*Branch
}

type WhileLoop struct {
	Expr
	Label     string
	Condition Expression
	Body      Expression
}

type DoWhileLoop struct {
	Expr
	Label     string
	Condition Expression
	Body      Expression
}

type Break struct {
	Expr
	Label string
}

type Continue struct {
	Expr
	Label string
}

type Block struct {
	Expr
	Statements []Statement
}

type Composite struct {
	Expr
	Statements []Statement
}

type Return struct {
	Expr
	Value Expression
}

type Throw struct {
	Expr
	Value Expression
}

type Catch struct {
	Base
	Parameter *Variable
	Result    Expression
}

type Try struct {
	Expr
	Result  Expression
	Catches []*Catch
	Finally Expression
}

type TypeOperator string

const (
	OpCast                   TypeOperator = "CAST"
	OpSafeCast               TypeOperator = "SAFE_CAST"
	OpInstanceOf             TypeOperator = "INSTANCEOF"
	OpNotInstanceOf          TypeOperator = "NOT_INSTANCEOF"
	OpImplicitCoercionToUnit TypeOperator = "IMPLICIT_COERCION_TO_UNIT"
	OpImplicitCast           TypeOperator = "IMPLICIT_CAST"
)

type TypeOperatorCall struct {
	Expr
	Operator    TypeOperator
	Argument    Expression
	TypeOperand *Type
}

type SpreadElement struct {
	Base
	Expression Expression
}

func (SpreadElement) varargElement() {}

type Vararg struct {
	Expr
	ElementType *Type
	Elements    []VarargElement
}

type FunctionExpression struct {
	Expr
	Function *Function
}

type StringConcatenation struct {
	Expr
	Arguments []Expression
}
