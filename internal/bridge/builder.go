// Package bridge converts the resolved Kotlin IR of one file into a ct tree.
//
// The Builder walks IR depth-first with an explicit type switch over node
// kinds. Desugared constructs (operators, safe calls, elvis, for loops,
// compound assignments) are recognised from their origin tags and rebuilt
// into their surface form before the generic handlers run.
package bridge

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"ktbridge/internal/ct"
	"ktbridge/internal/ir"
	"ktbridge/internal/source"
)

// TopLevelName is the simple name of the implicit type that holds a file's
// top-level functions and properties.
const TopLevelName = "<top-level>"

// LocalName is the simple name of the implicit type wrapping a local
// function.
const LocalName = "<local>"

type Options struct {
	// DetectImplicitTypes marks types and type arguments the source does not
	// spell out as implicit.
	DetectImplicitTypes bool
	// DetectInfix flags calls written in infix form.
	DetectInfix bool
}

func DefaultOptions() Options {
	return Options{DetectImplicitTypes: true, DetectInfix: true}
}

// Builder converts IR files. It holds no per-file state and may be shared
// between goroutines.
type Builder struct {
	logger *zap.Logger
	opts   Options
}

func NewBuilder(logger *zap.Logger, opts Options) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{logger: logger, opts: opts}
}

// ConvertFile builds the compilation unit for f. src answers the syntactic
// questions the IR cannot; nil means no source is available. On error no
// unit is returned, but the messages collected so far are.
func (b *Builder) ConvertFile(f *ir.File, src source.Helper) (*ct.CompilationUnit, []Message, error) {
	if src == nil {
		src = source.None{}
	}
	msgs := NewMessageCollector(b.logger.With(zap.String("file", f.Path)))
	c := &converter{
		file: f,
		src:  src,
		msgs: msgs,
		refs: NewReferenceBuilder(msgs),
		opts: b.opts,
	}
	unit, err := c.visitFile(f)
	if err != nil {
		return nil, msgs.Messages(), fmt.Errorf("failed to convert %s: %w", f.Name, err)
	}
	return unit, msgs.Messages(), nil
}

// converter carries the state of one file conversion.
type converter struct {
	file *ir.File
	src  source.Helper
	msgs *MessageCollector
	refs *ReferenceBuilder
	opts Options
}

// scope is threaded by value through the traversal.
type scope struct {
	// destruct drops variable initializers; component variables of a
	// destructuring declaration are rebuilt without their componentN() call.
	destruct bool
	// temps maps compiler temporaries to their initializers so reads of
	// them are inlined.
	temps map[string]ir.Expression
	// owner is the innermost enclosing class.
	owner *ir.Class
}

func (s scope) inDestruct() scope {
	s.destruct = true
	return s
}

func (s scope) inClass(cl *ir.Class) scope {
	s.owner = cl
	s.destruct = false
	return s
}

// withTemps returns s extended by the leading variables of stmts and the
// statements that follow them. It serves lowerings whose extra reads of a
// temporary are compiler artifacts that are never converted.
func (s scope) withTemps(stmts []ir.Statement) (scope, []ir.Statement) {
	i := 0
	temps := make(map[string]ir.Expression, len(s.temps)+len(stmts))
	for k, v := range s.temps {
		temps[k] = v
	}
	for ; i < len(stmts); i++ {
		v, ok := stmts[i].(*ir.Variable)
		if !ok || v.Initializer == nil {
			break
		}
		temps[v.Name] = v.Initializer
	}
	s.temps = temps
	return s, stmts[i:]
}

// withSingleUseTemps is withTemps for temporaries that hold a value written
// once in source, such as a when subject. Only temporaries read exactly once
// by the following statements are inlined; the others stay in the returned
// statements so that their initializer runs once.
func (s scope) withSingleUseTemps(stmts []ir.Statement) (scope, []ir.Statement) {
	_, rest := s.withTemps(stmts)
	var inline, keep []ir.Statement
	for _, st := range stmts[:len(stmts)-len(rest)] {
		if ir.CountReads(rest, st.(*ir.Variable).Name) == 1 {
			inline = append(inline, st)
		} else {
			keep = append(keep, st)
		}
	}
	s, _ = s.withTemps(inline)
	return s, append(keep, rest...)
}

func (c *converter) visit(n ir.Node, s scope) (Result, error) {
	if n == nil {
		return Result{}, &ShapeError{Construct: "node", Reason: "missing node"}
	}
	if f := ir.MissingField(n); f != "" {
		return Result{}, shapeErr(n, nodeName(n), "missing %s", f)
	}
	switch n := n.(type) {
	case *ir.Class:
		return c.visitClass(n, s)
	case *ir.Property:
		return c.visitProperty(n, s)
	case *ir.Field:
		return c.visitField(n, s)
	case *ir.Function:
		return c.visitFunction(n, s)
	case *ir.Constructor:
		return c.visitConstructor(n, s)
	case *ir.ValueParameter:
		return c.visitValueParameter(n, s)
	case *ir.TypeParameter:
		return definite(c.typeParameter(n)), nil
	case *ir.Variable:
		return c.visitVariable(n, s)
	case *ir.AnonymousInitializer:
		return c.visitAnonymousInitializer(n, s)
	case *ir.EnumEntry:
		return c.visitEnumEntry(n, s)
	case *ir.BlockBody:
		return c.visitBlockBody(n, s)
	case *ir.ExpressionBody:
		return c.visit(n.Expression, s)
	case *ir.Const:
		return c.visitConst(n)
	case *ir.Call:
		return c.visitCall(n, s)
	case *ir.ConstructorCall:
		return c.visitConstructorCall(n, s)
	case *ir.DelegatingConstructorCall:
		return c.visitDelegatingConstructorCall(n, s)
	case *ir.InstanceInitializerCall:
		return absent(), nil
	case *ir.GetValue:
		return c.visitGetValue(n, s)
	case *ir.SetValue:
		return c.visitSetValue(n, s)
	case *ir.GetField:
		return c.visitGetField(n, s)
	case *ir.SetField:
		return c.visitSetField(n, s)
	case *ir.GetObjectValue:
		return c.visitGetObjectValue(n)
	case *ir.When:
		return c.visitWhen(n, s)
	case *ir.WhileLoop:
		return c.visitWhileLoop(n, s)
	case *ir.DoWhileLoop:
		return c.visitDoWhileLoop(n, s)
	case *ir.Break:
		return definite(ct.NewBreak(n.Label)), nil
	case *ir.Continue:
		return definite(ct.NewContinue(n.Label)), nil
	case *ir.Block:
		return c.visitBlock(n, s)
	case *ir.Composite:
		return c.visitComposite(n, s)
	case *ir.Return:
		return c.visitReturn(n, s)
	case *ir.Throw:
		return c.visitThrow(n, s)
	case *ir.Try:
		return c.visitTry(n, s)
	case *ir.TypeOperatorCall:
		return c.visitTypeOperator(n, s)
	case *ir.FunctionExpression:
		return c.visitFunctionExpression(n, s)
	case *ir.StringConcatenation:
		return c.visitStringConcatenation(n, s)
	}
	return Result{}, unhandled(n)
}

// expr visits n where exactly one expression is required.
func (c *converter) expr(n ir.Expression, s scope) (ct.Expression, error) {
	if n == nil {
		return nil, &ShapeError{Construct: "expression", Reason: "missing operand"}
	}
	r, err := c.visit(n, s)
	if err != nil {
		return nil, err
	}
	e, err := r.Single()
	if err != nil {
		var se *ShapeError
		if errors.As(err, &se) {
			se.Span = n.Pos()
		}
		return nil, err
	}
	return asExpression(e)
}

// asExpression coerces a produced node to an expression. Statements are
// wrapped in an implicit StatementExpression typed with the construct's
// static type; an implicit block around a single expression collapses to
// that expression.
func asExpression(e ct.Element) (ct.Expression, error) {
	switch x := e.(type) {
	case ct.Expression:
		return x, nil
	case *ct.Block:
		if stmts := x.Statements(); len(stmts) == 1 && x.Implicit() {
			if inner, ok := stmts[0].(ct.Expression); ok {
				return inner, nil
			}
		}
		return statementExpression(x), nil
	case ct.Statement:
		return statementExpression(x), nil
	}
	return nil, &ShapeError{Construct: "expression", Reason: fmt.Sprintf("%s used as a value", e.Kind())}
}

func statementExpression(s ct.Statement) *ct.StatementExpression {
	se := ct.NewStatementExpression(s)
	se.SetImplicit(true)
	if t, ok := ct.Get(s, ct.KeyStatementType); ok {
		se.SetType(t.Clone())
	}
	return se
}

// asStatement coerces a produced node to a statement. A bare expression
// becomes an implicit return.
func asStatement(e ct.Element) (ct.Statement, error) {
	switch x := e.(type) {
	case ct.Statement:
		return x, nil
	case ct.Expression:
		return implicitReturn(x), nil
	}
	return nil, &ShapeError{Construct: "statement", Reason: fmt.Sprintf("%s used as a statement", e.Kind())}
}

func implicitReturn(e ct.Expression) *ct.Return {
	ret := ct.NewReturn()
	ret.SetImplicit(true)
	ret.SetReturnedExpression(e)
	return ret
}

// valueStatement is the tail of a lambda or an `= expr` body: calls and
// unary operators are values there too. Assignments are not values in
// Kotlin and stay as they are.
func valueStatement(stmt ct.Statement) ct.Statement {
	switch x := stmt.(type) {
	case *ct.Assignment, *ct.OperatorAssignment:
		return stmt
	case ct.Expression:
		return implicitReturn(x)
	}
	return stmt
}

// blockOrSingle returns e as a block, wrapping anything else in an implicit
// one.
func blockOrSingle(e ct.Element) (*ct.Block, error) {
	if b, ok := e.(*ct.Block); ok {
		return b, nil
	}
	if se, ok := e.(*ct.StatementExpression); ok && se.Implicit() {
		if b, ok := se.Statement().(*ct.Block); ok {
			return b, nil
		}
	}
	stmt, err := statementOf(e)
	if err != nil {
		return nil, err
	}
	b := ct.NewBlock()
	b.SetImplicit(true)
	b.AddStatement(stmt)
	return b, nil
}

// statementOf is asStatement that also accepts local functions.
func statementOf(e ct.Element) (ct.Statement, error) {
	if m, ok := e.(*ct.Method); ok {
		return wrapLocalMethod(m), nil
	}
	return asStatement(e)
}

// wrapLocalMethod puts a local function into an implicit single-method type
// so that it can stand in a block.
func wrapLocalMethod(m *ct.Method) *ct.TypeDecl {
	t := ct.NewTypeDecl(ct.TypeClass, LocalName)
	t.SetImplicit(true)
	t.AddMethod(m)
	return t
}

// block visits e and returns it as a block. A nil e gives an empty block.
func (c *converter) block(e ir.Node, s scope) (*ct.Block, error) {
	if e == nil {
		return ct.NewBlock(), nil
	}
	r, err := c.visit(e, s)
	if err != nil {
		return nil, err
	}
	switch elems := r.Elements(); len(elems) {
	case 0:
		b := ct.NewBlock()
		b.SetImplicit(true)
		return b, nil
	case 1:
		return blockOrSingle(elems[0])
	default:
		b := ct.NewBlock()
		b.SetImplicit(true)
		for _, el := range elems {
			stmt, err := statementOf(el)
			if err != nil {
				return nil, err
			}
			b.AddStatement(stmt)
		}
		return b, nil
	}
}

// tailBlock is block for bodies whose last statement yields their value.
func (c *converter) tailBlock(e ir.Node, s scope) (*ct.Block, error) {
	b, err := c.block(e, s)
	if err != nil {
		return nil, err
	}
	if stmts := b.Statements(); len(stmts) > 0 {
		last := len(stmts) - 1
		if v := valueStatement(stmts[last]); v != stmts[last] {
			b.SetStatement(last, v)
		}
	}
	return b, nil
}

// statements converts a statement list, dropping absent results and
// flattening composite ones.
func (c *converter) statements(stmts []ir.Statement, s scope, add func(ct.Statement)) error {
	for _, st := range stmts {
		r, err := c.visit(st, s)
		if err != nil {
			return err
		}
		elems := r.Elements()
		for _, e := range elems {
			stmt, err := statementOf(e)
			if err != nil {
				var se *ShapeError
				if errors.As(err, &se) {
					se.Span = st.Pos()
				}
				return err
			}
			if len(elems) == 1 {
				c.attachLabel(stmt, st, "")
			}
			add(stmt)
		}
	}
	return nil
}

// attachLabel gives stmt the label l, or the one written before n in
// source. Kinds without a label slot keep it in metadata.
func (c *converter) attachLabel(stmt ct.Statement, n ir.Node, l string) {
	if l == "" {
		l = c.src.Label(n.Pos())
	}
	if l == "" || stmt.Label() == l {
		return
	}
	if !stmt.SetLabel(l) {
		ct.Put(stmt, ct.KeyLabel, l)
	}
}

func (c *converter) putType(e ct.Expression, t *ir.Type, at ir.Span) {
	e.SetType(c.refs.TypeRef(t, at))
}

func (c *converter) statementType(stmt ct.Statement, t *ir.Type, at ir.Span) {
	ct.Put(stmt, ct.KeyStatementType, c.refs.TypeRef(t, at))
}

// implicitType reports whether the declaration at span leaves its type to
// inference.
func (c *converter) implicitType(span ir.Span) bool {
	return c.opts.DetectImplicitTypes && !c.src.HasExplicitType(span)
}
