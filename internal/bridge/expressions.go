package bridge

import (
	"regexp"
	"strings"

	"ktbridge/internal/ct"
	"ktbridge/internal/ir"
	"ktbridge/internal/kt"
)

// tmpThis matches the temporaries the compiler introduces for an explicit
// receiver, e.g. `tmp0_this`.
var tmpThis = regexp.MustCompile(`^tmp\d+_this$`)

func (c *converter) visitConst(k *ir.Const) (Result, error) {
	lit := ct.NewLiteral(k.Value)
	if k.Kind == ir.ConstNull {
		lit.SetType(c.refs.NullType())
		return definite(lit), nil
	}
	c.putType(lit, k.Type, k.Span)
	switch k.Kind {
	case ir.ConstByte, ir.ConstShort, ir.ConstInt, ir.ConstLong:
		switch c.src.NumberBase(k.Span) {
		case 16:
			lit.SetBase(ct.BaseHexadecimal)
		case 2:
			lit.SetBase(ct.BaseBinary)
		}
	case ir.ConstFloat, ir.ConstDouble:
		if c.src.IsScientific(k.Span) {
			ct.Put(lit, ct.KeyScientificLiteral, true)
		}
	case ir.ConstString:
		if c.src.IsMultilineString(k.Span) {
			ct.Put(lit, ct.KeyMultilineString, true)
		}
	}
	return definite(lit), nil
}

func (c *converter) thisAccess(t *ir.Type, at ir.Span) *ct.ThisAccess {
	this := ct.NewThisAccess()
	c.putType(this, t, at)
	this.SetImplicit(c.src.IsImplicitThis(at))
	return this
}

func (c *converter) visitGetValue(g *ir.GetValue, s scope) (Result, error) {
	sym := g.Symbol
	if init, ok := s.temps[sym.Name]; ok {
		return c.visit(init, s)
	}
	if sym.Kind == ir.ValueReceiver || tmpThis.MatchString(sym.Name) {
		return definite(c.thisAccess(g.Type, g.Span)), nil
	}
	ref, err := c.refs.ValueRef(sym, g.Span)
	if err != nil {
		return Result{}, err
	}
	read := ct.NewVariableRead(ref)
	c.putType(read, g.Type, g.Span)
	return definite(read), nil
}

// variableWrite is the write target for a value symbol.
func (c *converter) variableWrite(sym *ir.ValueSymbol, at ir.Span) (ct.Expression, error) {
	switch sym.Kind {
	case ir.ValueLocal, ir.ValueTemporary, ir.ValueKindParameter:
	default:
		return nil, &ReferenceKindError{Name: sym.Name, Kind: string(sym.Kind), Span: at}
	}
	ref, err := c.refs.ValueRef(sym, at)
	if err != nil {
		return nil, err
	}
	w := ct.NewVariableWrite(ref)
	c.putType(w, sym.Type, at)
	return w, nil
}

// fieldWrite is the write target for a property, through recv when given.
func (c *converter) fieldWrite(sym *ir.PropertySymbol, recv ir.Expression, at ir.Span, s scope) (ct.Expression, error) {
	w := ct.NewFieldWrite(c.refs.PropertyRef(sym, at))
	if recv != nil {
		target, err := c.target(recv, s)
		if err != nil {
			return nil, err
		}
		if target != nil {
			w.SetTarget(target)
		}
	}
	c.putType(w, sym.Type, at)
	return w, nil
}

// target visits a receiver. Absent receivers give nil.
func (c *converter) target(recv ir.Expression, s scope) (ct.Expression, error) {
	r, err := c.visit(recv, s)
	if err != nil {
		return nil, err
	}
	if r.IsAbsent() {
		return nil, nil
	}
	e, err := r.Single()
	if err != nil {
		return nil, err
	}
	return asExpression(e)
}

func (c *converter) visitSetValue(sv *ir.SetValue, s scope) (Result, error) {
	if sv.Origin.IsAugmentedAssignment() {
		return c.operatorAssignment(sv, sv.Origin, s)
	}
	w, err := c.variableWrite(sv.Symbol, sv.Span)
	if err != nil {
		return Result{}, err
	}
	return c.assignment(w, sv.Value, sv.Symbol.Type, sv.Span, s)
}

func (c *converter) assignment(assigned ct.Expression, value ir.Expression, t *ir.Type, at ir.Span, s scope) (Result, error) {
	v, err := c.expr(value, s)
	if err != nil {
		return Result{}, err
	}
	a := ct.NewAssignment()
	a.SetAssigned(assigned)
	a.SetAssignment(v)
	if t != nil {
		c.putType(a, t, at)
	}
	return definite(a), nil
}

func (c *converter) visitGetField(g *ir.GetField, s scope) (Result, error) {
	read := ct.NewFieldRead(c.refs.PropertyRef(g.Symbol, g.Span))
	if g.Receiver != nil {
		target, err := c.target(g.Receiver, s)
		if err != nil {
			return Result{}, err
		}
		if target != nil {
			read.SetTarget(target)
		}
	}
	c.putType(read, g.Type, g.Span)
	return definite(read), nil
}

func (c *converter) visitSetField(sf *ir.SetField, s scope) (Result, error) {
	if sf.Origin.IsAugmentedAssignment() {
		return c.operatorAssignment(sf, sf.Origin, s)
	}
	w, err := c.fieldWrite(sf.Symbol, sf.Receiver, sf.Span, s)
	if err != nil {
		return Result{}, err
	}
	return c.assignment(w, sf.Value, sf.Symbol.Type, sf.Span, s)
}

func (c *converter) visitGetObjectValue(g *ir.GetObjectValue) (Result, error) {
	if g.Class.Is("kotlin", "Unit") {
		// `return` without a value reads Unit behind the keyword.
		text := strings.TrimSpace(c.src.Text(g.Span))
		if g.Span.Len() == 0 || text == "return" {
			return absent(), nil
		}
	}
	access := ct.NewTypeAccess(c.refs.ClassRef(g.Class))
	c.putType(access, g.Type, g.Span)
	return definite(access), nil
}

func (c *converter) visitWhen(w *ir.When, s scope) (Result, error) {
	switch w.Origin {
	case ir.OriginOrOr:
		return c.shortCircuit(w, kt.OpOr, s)
	case ir.OriginAndAnd:
		return c.shortCircuit(w, kt.OpAnd, s)
	}

	var first, last *ct.If
	for _, b := range w.Branches {
		if b.IsElse {
			if last == nil {
				// A lone else branch is just its result.
				return c.visit(b.Result, s)
			}
			els, err := c.block(b.Result, s)
			if err != nil {
				return Result{}, err
			}
			last.SetElse(els)
			break
		}
		cond, err := c.expr(b.Condition, s)
		if err != nil {
			return Result{}, err
		}
		then, err := c.block(b.Result, s)
		if err != nil {
			return Result{}, err
		}
		i := ct.NewIf()
		i.SetCondition(cond)
		i.SetThen(then)
		c.statementType(i, w.Type, w.Span)
		if last == nil {
			first = i
		} else {
			last.SetElse(i)
		}
		last = i
	}
	if first == nil {
		return Result{}, shapeErr(w, "when", "no branches")
	}
	return definite(first), nil
}

// shortCircuit rebuilds `a || b` from `if (a) true else b` and `a && b`
// from `if (a) b else false`.
func (c *converter) shortCircuit(w *ir.When, kind kt.BinaryOperatorKind, s scope) (Result, error) {
	var branch, els *ir.Branch
	for _, b := range w.Branches {
		switch {
		case b.IsElse && els == nil:
			els = b
		case !b.IsElse && branch == nil:
			branch = b
		}
	}
	if branch == nil {
		return Result{}, shapeErr(w, kind.String(), "no condition branch")
	}
	lhsNode, rhsNode := branch.Condition, branch.Result
	if kind == kt.OpOr {
		if els == nil {
			return Result{}, shapeErr(w, kind.String(), "no else branch")
		}
		rhsNode = els.Result
	}
	lhs, err := c.expr(lhsNode, s)
	if err != nil {
		return Result{}, err
	}
	rhs, err := c.expr(rhsNode, s)
	if err != nil {
		return Result{}, err
	}
	op := c.binary(kind, lhs, rhs)
	c.putType(op, w.Type, w.Span)
	return definite(op), nil
}

func (c *converter) visitWhileLoop(w *ir.WhileLoop, s scope) (Result, error) {
	cond, err := c.expr(w.Condition, s)
	if err != nil {
		return Result{}, err
	}
	body, err := c.block(w.Body, s)
	if err != nil {
		return Result{}, err
	}
	loop := ct.NewWhile()
	loop.SetCondition(cond)
	loop.SetBody(body)
	c.attachLabel(loop, w, w.Label)
	return definite(loop), nil
}

func (c *converter) visitDoWhileLoop(w *ir.DoWhileLoop, s scope) (Result, error) {
	body, err := c.block(w.Body, s)
	if err != nil {
		return Result{}, err
	}
	cond, err := c.expr(w.Condition, s)
	if err != nil {
		return Result{}, err
	}
	loop := ct.NewDo()
	loop.SetBody(body)
	loop.SetCondition(cond)
	c.attachLabel(loop, w, w.Label)
	return definite(loop), nil
}

func (c *converter) visitReturn(r *ir.Return, s scope) (Result, error) {
	ret := ct.NewReturn()
	if r.Value != nil {
		v, err := c.visit(r.Value, s)
		if err != nil {
			return Result{}, err
		}
		if !v.IsAbsent() {
			e, err := v.Single()
			if err != nil {
				return Result{}, err
			}
			expr, err := asExpression(e)
			if err != nil {
				return Result{}, err
			}
			ret.SetReturnedExpression(expr)
		}
	}
	if r.Span.Len() == 0 || !c.src.HasReturnKeyword(r.Span) {
		ret.SetImplicit(true)
	}
	if target := c.src.ReturnTarget(r.Span); target != "" {
		ct.Put(ret, ct.KeyLabel, target)
	}
	return definite(ret), nil
}

func (c *converter) visitThrow(t *ir.Throw, s scope) (Result, error) {
	e, err := c.expr(t.Value, s)
	if err != nil {
		return Result{}, err
	}
	th := ct.NewThrow()
	th.SetThrownExpression(e)
	return definite(th), nil
}

func (c *converter) visitTry(t *ir.Try, s scope) (Result, error) {
	try := ct.NewTry()
	body, err := c.block(t.Result, s)
	if err != nil {
		return Result{}, err
	}
	try.SetBody(body)
	for _, cat := range t.Catches {
		catcher := ct.NewCatch()
		if p := cat.Parameter; p != nil {
			v := ct.NewCatchVariable(p.Name)
			v.SetType(c.refs.TypeRef(p.Type, p.Span))
			catcher.SetParameter(v)
		}
		cb, err := c.block(cat.Result, s)
		if err != nil {
			return Result{}, err
		}
		catcher.SetBody(cb)
		try.AddCatcher(catcher)
	}
	if t.Finally != nil {
		fin, err := c.block(t.Finally, s)
		if err != nil {
			return Result{}, err
		}
		try.SetFinalizer(fin)
	}
	c.statementType(try, t.Type, t.Span)
	return definite(try), nil
}

// visitTypeOperator records casts on the cast expression itself, so that
// `x as A as B` is one expression with two casts in source order.
func (c *converter) visitTypeOperator(t *ir.TypeOperatorCall, s scope) (Result, error) {
	switch t.Operator {
	case ir.OpCast, ir.OpSafeCast:
		arg, err := c.expr(t.Argument, s)
		if err != nil {
			return Result{}, err
		}
		cast := c.refs.TypeRef(t.TypeOperand, t.Span)
		if t.Operator == ir.OpSafeCast {
			ct.Put(cast, ct.KeySafeCast, true)
		}
		arg.AddTypeCast(cast)
		result := t.Type
		if result == nil {
			result = t.TypeOperand
		}
		c.putType(arg, result, t.Span)
		return definite(arg), nil
	case ir.OpInstanceOf, ir.OpNotInstanceOf:
		arg, err := c.expr(t.Argument, s)
		if err != nil {
			return Result{}, err
		}
		kind := kt.OpIs
		if t.Operator == ir.OpNotInstanceOf {
			kind = kt.OpIsNot
		}
		access := ct.NewTypeAccess(c.refs.TypeRef(t.TypeOperand, t.Span))
		op := c.binary(kind, arg, access)
		c.putType(op, t.Type, t.Span)
		return definite(op), nil
	case ir.OpImplicitCoercionToUnit, ir.OpImplicitCast:
		return c.visit(t.Argument, s)
	}
	return Result{}, unhandled(t)
}

func (c *converter) visitFunctionExpression(fe *ir.FunctionExpression, s scope) (Result, error) {
	fn := fe.Function
	lambda := ct.NewLambda()
	for _, p := range fn.ValueParameters {
		param, err := c.parameter(p, s)
		if err != nil {
			return Result{}, err
		}
		if p.Name == "it" && !strings.HasPrefix(strings.TrimSpace(c.src.Text(p.Span)), "it") {
			param.SetImplicit(true)
		}
		lambda.AddParameter(param)
	}
	if fn.Body != nil {
		body, err := c.tailBlock(fn.Body, s)
		if err != nil {
			return Result{}, err
		}
		lambda.SetBody(body)
	}
	c.putType(lambda, fe.Type, fe.Span)
	if fe.Origin == ir.OriginAnonymousFunction {
		ct.Put(lambda, ct.KeyAnonymousFunction, true)
	}
	return definite(lambda), nil
}

// visitStringConcatenation rebuilds a template as a left-leaning `+` chain
// flagged as a string template.
func (c *converter) visitStringConcatenation(sc *ir.StringConcatenation, s scope) (Result, error) {
	if len(sc.Arguments) == 0 {
		lit := ct.NewLiteral("")
		c.putType(lit, sc.Type, sc.Span)
		return definite(lit), nil
	}
	var acc ct.Expression
	for _, a := range sc.Arguments {
		e, err := c.expr(a, s)
		if err != nil {
			return Result{}, err
		}
		if acc == nil {
			acc = e
			continue
		}
		op := c.binary(kt.OpPlus, acc, e)
		c.putType(op, sc.Type, sc.Span)
		acc = op
	}
	ct.Put(acc, ct.KeyStringTemplate, true)
	return definite(acc), nil
}

// visitComposite expands a composite into its statements, except for
// destructuring declarations, which become one placeholder variable.
func (c *converter) visitComposite(cp *ir.Composite, s scope) (Result, error) {
	if cp.Origin == ir.OriginDestructuring {
		return c.destructuring(cp, s)
	}
	var out []ct.Statement
	if err := c.statements(cp.Statements, s, func(st ct.Statement) { out = append(out, st) }); err != nil {
		return Result{}, err
	}
	return composite(out), nil
}

// destructuring turns `val (a, b) = p`, lowered to a container variable
// followed by componentN() reads, into one implicit variable holding the
// destructured expression and the real variables as components.
func (c *converter) destructuring(cp *ir.Composite, s scope) (Result, error) {
	var vars []*ir.Variable
	for _, st := range cp.Statements {
		if v, ok := st.(*ir.Variable); ok {
			vars = append(vars, v)
		}
	}
	if len(vars) == 0 {
		return Result{}, shapeErr(cp, "destructuring declaration", "no variables")
	}
	holder, err := c.localVariable(vars[0], s)
	if err != nil {
		return Result{}, err
	}
	comps, err := c.components(vars[1:], s)
	if err != nil {
		return Result{}, err
	}
	markDestructured(holder, comps)
	return definite(holder), nil
}

func (c *converter) components(vars []*ir.Variable, s scope) ([]*ct.LocalVariable, error) {
	out := make([]*ct.LocalVariable, 0, len(vars))
	for _, v := range vars {
		lv, err := c.localVariable(v, s.inDestruct())
		if err != nil {
			return nil, err
		}
		out = append(out, lv)
	}
	return out, nil
}

func markDestructured(holder *ct.LocalVariable, comps []*ct.LocalVariable) {
	holder.SetImplicit(true)
	ct.Put(holder, ct.KeyDestructured, true)
	ct.Put(holder, ct.KeyComponents, comps)
}
