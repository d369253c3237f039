package ir

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/Masterminds/semver/v3"
)

// FormatConstraint is the range of dump format versions this package reads.
const FormatConstraint = "^1"

// CheckFormat rejects dumps whose format version is outside FormatConstraint.
func CheckFormat(version string) error {
	if version == "" {
		return fmt.Errorf("IR dump has no format version")
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("invalid IR dump format version %q: %w", version, err)
	}
	c, err := semver.NewConstraint(FormatConstraint)
	if err != nil {
		return fmt.Errorf("invalid format constraint: %w", err)
	}
	if !c.Check(v) {
		return fmt.Errorf("unsupported IR dump format %s (want %s)", v, FormatConstraint)
	}
	return nil
}

type dump struct {
	Format string    `json:"format"`
	File   *wireNode `json:"file"`
}

// Decode reads one JSON dump.
func Decode(r io.Reader) (*File, error) {
	var d dump
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("failed to decode IR dump: %w", err)
	}
	if err := CheckFormat(d.Format); err != nil {
		return nil, err
	}
	if d.File == nil || d.File.Kind != "File" {
		return nil, fmt.Errorf("IR dump has no File root")
	}
	b := &builder{}
	f := one[*File](b, d.File)
	if b.err != nil {
		return nil, fmt.Errorf("failed to decode IR dump: %w", b.err)
	}
	return f, nil
}

// DecodeFile reads the dump at path.
func DecodeFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open IR dump: %w", err)
	}
	defer fh.Close()
	return Decode(fh)
}

// wireNode is the flat JSON shape shared by every node kind; "kind" selects
// which fields are meaningful.
type wireNode struct {
	Kind   string   `json:"kind"`
	Span   Span     `json:"span"`
	Origin string   `json:"origin"`
	Type   *Type    `json:"type"`
	Name   string   `json:"name"`
	Flags  []string `json:"flags"`

	Path       string `json:"path"`
	Package    string `json:"package"`
	LineStarts []int  `json:"lineStarts"`

	ClassKind  ClassKind  `json:"classKind"`
	Visibility Visibility `json:"visibility"`
	Modality   Modality   `json:"modality"`
	Class      *ClassID   `json:"class"`
	Variance   Variance   `json:"variance"`
	Keyword    string     `json:"keyword"`

	SuperTypes        []*Type `json:"superTypes"`
	ReturnType        *Type   `json:"returnType"`
	ReceiverType      *Type   `json:"receiverType"`
	VarargElementType *Type   `json:"varargElementType"`
	ElementType       *Type   `json:"elementType"`
	TypeOperand       *Type   `json:"typeOperand"`
	TypeArguments     []*Type `json:"typeArguments"`

	TypeParameters     []*wireNode `json:"typeParameters"`
	ValueParameters    []*wireNode `json:"valueParameters"`
	Declarations       []*wireNode `json:"declarations"`
	Body               *wireNode   `json:"body"`
	BackingField       *wireNode   `json:"backingField"`
	Getter             *wireNode   `json:"getter"`
	Setter             *wireNode   `json:"setter"`
	Initializer        *wireNode   `json:"initializer"`
	DefaultValue       *wireNode   `json:"defaultValue"`
	CorrespondingClass *wireNode   `json:"correspondingClass"`

	ConstKind ConstKind       `json:"constKind"`
	Value     json.RawMessage `json:"value"`

	Callee            *FunctionSymbol `json:"callee"`
	Symbol            *ValueSymbol    `json:"symbol"`
	Field             *PropertySymbol `json:"field"`
	DispatchReceiver  *wireNode       `json:"dispatchReceiver"`
	ExtensionReceiver *wireNode       `json:"extensionReceiver"`
	Receiver          *wireNode       `json:"receiver"`
	Arguments         []*wireNode     `json:"arguments"`
	SuperQualifier    *ClassID        `json:"superQualifier"`

	Branches   []*wireNode `json:"branches"`
	Condition  *wireNode   `json:"condition"`
	Result     *wireNode   `json:"result"`
	Statements []*wireNode `json:"statements"`
	Label      string      `json:"label"`
	Catches    []*wireNode `json:"catches"`
	Parameter  *wireNode   `json:"parameter"`
	Finally    *wireNode   `json:"finally"`

	Operator   TypeOperator `json:"operator"`
	Argument   *wireNode    `json:"argument"`
	Elements   []*wireNode  `json:"elements"`
	Expression *wireNode    `json:"expression"`
	Function   *wireNode    `json:"function"`
}

func (w *wireNode) has(flag string) bool { return slices.Contains(w.Flags, flag) }

func (w *wireNode) base() Base { return Base{Span: w.Span} }

func (w *wireNode) expr() Expr {
	return Expr{Base: w.base(), Type: w.Type, Origin: Origin(w.Origin)}
}

func (w *wireNode) decl() Decl {
	return Decl{Base: w.base(), Origin: DeclarationOrigin(w.Origin)}
}

func (w *wireNode) classID() ClassID {
	if w.Class == nil {
		return ClassID{}
	}
	return *w.Class
}

// builder records the first error met while converting a wire tree.
type builder struct {
	err error
}

func (b *builder) fail(w *wireNode, format string, args ...any) {
	if b.err == nil {
		b.err = fmt.Errorf("%s at %d..%d: %s", w.Kind, w.Span.Start, w.Span.End, fmt.Sprintf(format, args...))
	}
}

func one[T any](b *builder, w *wireNode) T {
	var zero T
	if w == nil || b.err != nil {
		return zero
	}
	n := w.toNode(b)
	if b.err != nil {
		return zero
	}
	if f := MissingField(n); f != "" {
		b.err = &MissingFieldError{Node: w.Kind, Field: f, Span: w.Span}
		return zero
	}
	t, ok := n.(T)
	if !ok {
		b.fail(w, "not allowed as %T", zero)
		return zero
	}
	return t
}

// many keeps nil slots so that omitted call arguments stay positional.
func many[T any](b *builder, ws []*wireNode) []T {
	if ws == nil {
		return nil
	}
	out := make([]T, len(ws))
	for i, w := range ws {
		out[i] = one[T](b, w)
	}
	return out
}

func (b *builder) raw(w *wireNode) *wireNode {
	if len(w.Value) == 0 || string(w.Value) == "null" {
		return nil
	}
	var v wireNode
	if err := json.Unmarshal(w.Value, &v); err != nil {
		b.fail(w, "bad value: %v", err)
		return nil
	}
	return &v
}

func (w *wireNode) toNode(b *builder) Node {
	switch w.Kind {
	case "File":
		return &File{
			Base:             w.base(),
			Name:             w.Name,
			Path:             w.Path,
			Package:          w.Package,
			LineStartOffsets: w.LineStarts,
			Declarations:     many[Declaration](b, w.Declarations),
		}
	case "Class":
		return &Class{
			Decl:           w.decl(),
			ID:             w.classID(),
			Name:           w.Name,
			Kind:           w.ClassKind,
			Visibility:     w.Visibility,
			Modality:       w.Modality,
			IsData:         w.has("data"),
			IsCompanion:    w.has("companion"),
			IsInline:       w.has("inline"),
			IsInner:        w.has("inner"),
			SuperTypes:     w.SuperTypes,
			TypeParameters: many[*TypeParameter](b, w.TypeParameters),
			Declarations:   many[Declaration](b, w.Declarations),
		}
	case "Property":
		return &Property{
			Decl:         w.decl(),
			Name:         w.Name,
			Visibility:   w.Visibility,
			Modality:     w.Modality,
			IsVar:        w.has("var"),
			IsConst:      w.has("const"),
			IsLateinit:   w.has("lateinit"),
			IsOverride:   w.has("override"),
			IsDelegated:  w.has("delegated"),
			Type:         w.Type,
			BackingField: one[*Field](b, w.BackingField),
			Getter:       one[*Function](b, w.Getter),
			Setter:       one[*Function](b, w.Setter),
		}
	case "Field":
		return &Field{
			Decl:        w.decl(),
			Name:        w.Name,
			Type:        w.Type,
			Initializer: one[*ExpressionBody](b, w.Initializer),
		}
	case "Function":
		return &Function{
			Decl:              w.decl(),
			Name:              w.Name,
			Visibility:        w.Visibility,
			Modality:          w.Modality,
			IsInfix:           w.has("infix"),
			IsInline:          w.has("inline"),
			IsOperator:        w.has("operator"),
			IsOverride:        w.has("override"),
			IsSuspend:         w.has("suspend"),
			IsTailrec:         w.has("tailrec"),
			ReturnType:        w.ReturnType,
			ExtensionReceiver: w.ReceiverType,
			ValueParameters:   many[*ValueParameter](b, w.ValueParameters),
			TypeParameters:    many[*TypeParameter](b, w.TypeParameters),
			Body:              one[Body](b, w.Body),
		}
	case "Constructor":
		return &Constructor{
			Decl:             w.decl(),
			Class:            w.classID(),
			Visibility:       w.Visibility,
			IsPrimary:        w.has("primary"),
			HasPrimarySyntax: w.has("primarySyntax"),
			ValueParameters:  many[*ValueParameter](b, w.ValueParameters),
			Body:             one[Body](b, w.Body),
		}
	case "ValueParameter":
		return &ValueParameter{
			Decl:              w.decl(),
			Name:              w.Name,
			Type:              w.Type,
			VarargElementType: w.VarargElementType,
			DefaultValue:      one[*ExpressionBody](b, w.DefaultValue),
			IsNoinline:        w.has("noinline"),
			IsCrossinline:     w.has("crossinline"),
			Keyword:           w.Keyword,
		}
	case "TypeParameter":
		return &TypeParameter{
			Decl:       w.decl(),
			Name:       w.Name,
			SuperTypes: w.SuperTypes,
			IsReified:  w.has("reified"),
			Variance:   w.Variance,
		}
	case "Variable":
		return &Variable{
			Decl:        w.decl(),
			Name:        w.Name,
			Type:        w.Type,
			Initializer: one[Expression](b, w.Initializer),
			IsVar:       w.has("var"),
			IsConst:     w.has("const"),
			IsLateinit:  w.has("lateinit"),
		}
	case "AnonymousInitializer":
		return &AnonymousInitializer{Decl: w.decl(), Body: one[*BlockBody](b, w.Body)}
	case "EnumEntry":
		return &EnumEntry{
			Decl:        w.decl(),
			Name:        w.Name,
			Initializer: one[*ExpressionBody](b, w.Initializer),
			Class:       one[*Class](b, w.CorrespondingClass),
		}
	case "BlockBody":
		return &BlockBody{Base: w.base(), Statements: many[Statement](b, w.Statements)}
	case "ExpressionBody":
		return &ExpressionBody{Base: w.base(), Expression: one[Expression](b, w.Expression)}
	case "Const":
		v, err := constValue(w.ConstKind, w.Value)
		if err != nil {
			b.fail(w, "%v", err)
		}
		return &Const{Expr: w.expr(), Kind: w.ConstKind, Value: v}
	case "Call":
		return &Call{
			Expr:              w.expr(),
			Callee:            w.Callee,
			DispatchReceiver:  one[Expression](b, w.DispatchReceiver),
			ExtensionReceiver: one[Expression](b, w.ExtensionReceiver),
			Arguments:         many[Expression](b, w.Arguments),
			TypeArguments:     w.TypeArguments,
			SuperQualifier:    w.SuperQualifier,
		}
	case "ConstructorCall":
		return &ConstructorCall{
			Expr:          w.expr(),
			Callee:        w.Callee,
			Arguments:     many[Expression](b, w.Arguments),
			TypeArguments: w.TypeArguments,
		}
	case "DelegatingConstructorCall":
		return &DelegatingConstructorCall{
			Expr:          w.expr(),
			Callee:        w.Callee,
			Arguments:     many[Expression](b, w.Arguments),
			TypeArguments: w.TypeArguments,
		}
	case "InstanceInitializerCall":
		return &InstanceInitializerCall{Expr: w.expr(), Class: w.classID()}
	case "GetValue":
		return &GetValue{Expr: w.expr(), Symbol: w.Symbol}
	case "SetValue":
		return &SetValue{Expr: w.expr(), Symbol: w.Symbol, Value: one[Expression](b, b.raw(w))}
	case "GetField":
		return &GetField{Expr: w.expr(), Symbol: w.Field, Receiver: one[Expression](b, w.Receiver)}
	case "SetField":
		return &SetField{
			Expr:     w.expr(),
			Symbol:   w.Field,
			Receiver: one[Expression](b, w.Receiver),
			Value:    one[Expression](b, b.raw(w)),
		}
	case "GetObjectValue":
		return &GetObjectValue{Expr: w.expr(), Class: w.classID()}
	case "Branch":
		return &Branch{
			Base:      w.base(),
			Condition: one[Expression](b, w.Condition),
			Result:    one[Expression](b, w.Result),
			IsElse:    w.has("else"),
		}
	case "When":
		return &When{Expr: w.expr(), Branches: many[*Branch](b, w.Branches)}
	case "WhileLoop":
		return &WhileLoop{
			Expr:      w.expr(),
			Label:     w.Label,
			Condition: one[Expression](b, w.Condition),
			Body:      one[Expression](b, w.Body),
		}
	case "DoWhileLoop":
		return &DoWhileLoop{
			Expr:      w.expr(),
			Label:     w.Label,
			Condition: one[Expression](b, w.Condition),
			Body:      one[Expression](b, w.Body),
		}
	case "Break":
		return &Break{Expr: w.expr(), Label: w.Label}
	case "Continue":
		return &Continue{Expr: w.expr(), Label: w.Label}
	case "Block":
		return &Block{Expr: w.expr(), Statements: many[Statement](b, w.Statements)}
	case "Composite":
		return &Composite{Expr: w.expr(), Statements: many[Statement](b, w.Statements)}
	case "Return":
		return &Return{Expr: w.expr(), Value: one[Expression](b, b.raw(w))}
	case "Throw":
		return &Throw{Expr: w.expr(), Value: one[Expression](b, b.raw(w))}
	case "Catch":
		return &Catch{
			Base:      w.base(),
			Parameter: one[*Variable](b, w.Parameter),
			Result:    one[Expression](b, w.Result),
		}
	case "Try":
		return &Try{
			Expr:    w.expr(),
			Result:  one[Expression](b, w.Result),
			Catches: many[*Catch](b, w.Catches),
			Finally: one[Expression](b, w.Finally),
		}
	case "TypeOperatorCall":
		return &TypeOperatorCall{
			Expr:        w.expr(),
			Operator:    w.Operator,
			Argument:    one[Expression](b, w.Argument),
			TypeOperand: w.TypeOperand,
		}
	case "SpreadElement":
		return &SpreadElement{Base: w.base(), Expression: one[Expression](b, w.Expression)}
	case "Vararg":
		return &Vararg{
			Expr:        w.expr(),
			ElementType: w.ElementType,
			Elements:    many[VarargElement](b, w.Elements),
		}
	case "FunctionExpression":
		return &FunctionExpression{Expr: w.expr(), Function: one[*Function](b, w.Function)}
	case "StringConcatenation":
		return &StringConcatenation{Expr: w.expr(), Arguments: many[Expression](b, w.Arguments)}
	}
	b.fail(w, "unknown node kind")
	return nil
}

func constValue(kind ConstKind, raw json.RawMessage) (any, error) {
	if kind == ConstNull || len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var err error
	switch kind {
	case ConstBoolean:
		var v bool
		err = json.Unmarshal(raw, &v)
		return v, err
	case ConstChar:
		var s string
		if err = json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		r := []rune(s)
		if len(r) != 1 {
			return nil, fmt.Errorf("char constant %q is not one character", s)
		}
		return r[0], nil
	case ConstByte, ConstShort, ConstInt, ConstLong:
		var v int64
		err = json.Unmarshal(raw, &v)
		return v, err
	case ConstFloat, ConstDouble:
		var v float64
		err = json.Unmarshal(raw, &v)
		return v, err
	case ConstString:
		var v string
		err = json.Unmarshal(raw, &v)
		return v, err
	}
	return nil, fmt.Errorf("unknown constant kind %q", kind)
}
