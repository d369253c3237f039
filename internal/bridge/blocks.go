package bridge

import (
	"ktbridge/internal/ct"
	"ktbridge/internal/ir"
	"ktbridge/internal/kt"
)

// blockRule rebuilds a construct the compiler lowered into a block of
// temporaries, keyed by the block's origin.
type blockRule struct {
	name  string
	match func(ir.Origin) bool
	build func(*converter, *ir.Block, scope) (Result, error)
}

var blockRules []blockRule

func init() {
	is := func(o ir.Origin) func(ir.Origin) bool {
		return func(x ir.Origin) bool { return x == o }
	}
	blockRules = []blockRule{
		{"for loop", is(ir.OriginForLoop), (*converter).forLoop},
		{"reordered arguments", is(ir.OriginArgumentsReordering), (*converter).reorderedCall},
		{"elvis", is(ir.OriginElvis), (*converter).elvis},
		{"safe call", is(ir.OriginSafeCall), (*converter).safeCall},
		{"increment", ir.Origin.IsIncrementOrDecrement, (*converter).increment},
		{"compound assignment", ir.Origin.IsAugmentedAssignment, (*converter).blockOperatorAssignment},
		{"when subject", is(ir.OriginWhen), (*converter).whenSubject},
	}
}

func (c *converter) visitBlock(b *ir.Block, s scope) (Result, error) {
	for _, r := range blockRules {
		if r.match(b.Origin) {
			return r.build(c, b, s)
		}
	}
	return c.plainBlock(b.Statements, b, s)
}

func (c *converter) plainBlock(stmts []ir.Statement, b *ir.Block, s scope) (Result, error) {
	block := ct.NewBlock()
	if err := c.statements(stmts, s, block.AddStatement); err != nil {
		return Result{}, err
	}
	c.statementType(block, b.Type, b.Span)
	return definite(block), nil
}

// forLoop rebuilds
//
//	val it = xs.iterator()
//	while (it.hasNext()) { val x = it.next(); body }
//
// as `for (x in xs) body`. With destructuring the loop variable is followed
// by its componentN() variables, which become the components of an implicit
// placeholder.
func (c *converter) forLoop(b *ir.Block, s scope) (Result, error) {
	if len(b.Statements) < 2 {
		return Result{}, shapeErr(b, "for loop", "%d statements", len(b.Statements))
	}
	iter, ok := b.Statements[0].(*ir.Variable)
	if !ok || iter.Initializer == nil {
		return Result{}, shapeErr(b, "for loop", "no iterator variable")
	}
	loop, ok := b.Statements[1].(*ir.WhileLoop)
	if !ok {
		return Result{}, shapeErr(b, "for loop", "no inner loop")
	}
	iterable, err := c.expr(iter.Initializer, s)
	if err != nil {
		return Result{}, err
	}

	var inner []ir.Statement
	switch body := loop.Body.(type) {
	case *ir.Block:
		inner = body.Statements
	case nil:
	default:
		inner = []ir.Statement{body}
	}
	var vars []*ir.Variable
	for _, st := range inner {
		v, ok := st.(*ir.Variable)
		if !ok {
			break
		}
		vars = append(vars, v)
	}
	if len(vars) == 0 {
		return Result{}, shapeErr(b, "for loop", "no loop variable")
	}

	each := ct.NewForEach()
	variable, err := c.localVariable(vars[0], s.inDestruct())
	if err != nil {
		return Result{}, err
	}
	if len(vars) > 1 {
		comps, err := c.components(vars[1:], s)
		if err != nil {
			return Result{}, err
		}
		markDestructured(variable, comps)
	}
	each.SetVariable(variable)
	each.SetExpression(iterable)

	var body *ct.Block
	if len(inner) > len(vars) {
		body, err = c.block(inner[len(vars)], s)
		if err != nil {
			return Result{}, err
		}
	} else {
		body = ct.NewBlock()
	}
	each.SetBody(body)
	c.attachLabel(each, loop, loop.Label)
	return definite(each), nil
}

// reorderedCall undoes the evaluation of named arguments into temporaries.
func (c *converter) reorderedCall(b *ir.Block, s scope) (Result, error) {
	inner, rest := s.withTemps(b.Statements)
	if len(rest) != 1 {
		return Result{}, shapeErr(b, "reordered call", "%d statements after temporaries", len(rest))
	}
	var fa functionAccess
	switch k := rest[0].(type) {
	case *ir.Call:
		if k.Origin != ir.OriginNone {
			// Operators keep their shape; only the operands were hoisted.
			return c.visit(k, inner)
		}
		fa = callAccess(k)
	case *ir.ConstructorCall:
		fa = functionAccess{node: k, callee: k.Callee, args: k.Arguments, typeArgs: k.TypeArguments, constructor: true}
	default:
		return c.visit(rest[0], inner)
	}
	fa.reordered = true
	return c.invocation(fa, inner)
}

func lastWhen(b *ir.Block) (*ir.When, bool) {
	if len(b.Statements) == 0 {
		return nil, false
	}
	w, ok := b.Statements[len(b.Statements)-1].(*ir.When)
	return w, ok
}

// elvis rebuilds `a ?: b` from
//
//	val tmp = a
//	when { tmp == null -> b; else -> tmp }
func (c *converter) elvis(b *ir.Block, s scope) (Result, error) {
	w, ok := lastWhen(b)
	if !ok || len(b.Statements) != 2 || len(w.Branches) == 0 {
		return Result{}, shapeErr(b, "elvis", "unexpected lowering")
	}
	tmp, ok := b.Statements[0].(*ir.Variable)
	if !ok || tmp.Initializer == nil {
		return Result{}, shapeErr(b, "elvis", "no left operand")
	}
	lhs, err := c.expr(tmp.Initializer, s)
	if err != nil {
		return Result{}, err
	}
	inner, _ := s.withTemps(b.Statements[:1])
	rhs, err := c.expr(w.Branches[0].Result, inner)
	if err != nil {
		return Result{}, err
	}
	op := c.binary(kt.OpElvis, lhs, rhs)
	c.putType(op, w.Type, w.Span)
	return definite(op), nil
}

// safeCall rebuilds `a?.f()` from
//
//	val tmp = a
//	when { tmp == null -> null; else -> tmp.f() }
func (c *converter) safeCall(b *ir.Block, s scope) (Result, error) {
	w, ok := lastWhen(b)
	if !ok {
		return Result{}, shapeErr(b, "safe call", "no null check")
	}
	var els *ir.Branch
	for _, br := range w.Branches {
		if br.IsElse {
			els = br
		}
	}
	if els == nil {
		return Result{}, shapeErr(b, "safe call", "no else branch")
	}
	inner, _ := s.withTemps(b.Statements[:len(b.Statements)-1])
	r, err := c.visit(els.Result, inner)
	if err != nil {
		return Result{}, err
	}
	e, err := r.Single()
	if err != nil {
		return Result{}, err
	}
	var access ct.Targeted
	switch x := e.(type) {
	case *ct.Assignment:
		access, _ = x.Assigned().(ct.Targeted)
	case *ct.OperatorAssignment:
		access, _ = x.Assigned().(ct.Targeted)
	case ct.Targeted:
		access = x
		c.putType(x, b.Type, b.Span)
	}
	if access == nil {
		return Result{}, shapeErr(b, "safe call", "%s has no receiver", e.Kind())
	}
	ct.Put(access, ct.KeySafeAccess, true)
	return definite(e), nil
}

// increment rebuilds `x++`, `a.p--`, `a[i]++` and the prefix forms. The
// compiler spells them as a read into a temporary, a write of inc()/dec()
// and a read of the result.
func (c *converter) increment(b *ir.Block, s scope) (Result, error) {
	kind, _ := UnaryKindForOrigin(b.Origin)
	inner, rest := s.withTemps(b.Statements)
	write := findWrite(rest)
	if write == nil {
		return Result{}, shapeErr(b, "increment", "no write")
	}
	operand, err := c.writeTarget(write, inner)
	if err != nil {
		return Result{}, err
	}
	op := ct.NewUnaryOperator(kind)
	op.SetOperand(operand)
	c.putType(op, b.Type, b.Span)
	return definite(op), nil
}

func (c *converter) blockOperatorAssignment(b *ir.Block, s scope) (Result, error) {
	return c.operatorAssignment(b, b.Origin, s)
}

// whenSubject inlines the subject temporary of `when (x) { ... }` into the
// branch condition when a single branch tests it. A subject tested by
// several branches stays a local variable.
func (c *converter) whenSubject(b *ir.Block, s scope) (Result, error) {
	inner, rest := s.withSingleUseTemps(b.Statements)
	if len(rest) == 1 {
		return c.visit(rest[0], inner)
	}
	return c.plainBlock(rest, b, inner)
}

// findWrite returns the first write in stmts, searching nested blocks.
func findWrite(stmts []ir.Statement) ir.Expression {
	for _, st := range stmts {
		switch x := st.(type) {
		case *ir.SetValue, *ir.SetField:
			return x.(ir.Expression)
		case *ir.Call:
			if x.Callee.IsSetter() || isOperatorSet(x) {
				return x
			}
		case *ir.Block:
			if w := findWrite(x.Statements); w != nil {
				return w
			}
		}
	}
	return nil
}

// writeTarget is the assigned side of a write found in a lowered block.
func (c *converter) writeTarget(write ir.Expression, s scope) (ct.Expression, error) {
	switch w := write.(type) {
	case *ir.SetValue:
		return c.variableWrite(w.Symbol, w.Span)
	case *ir.SetField:
		return c.fieldWrite(w.Symbol, w.Receiver, w.Span, s)
	case *ir.Call:
		if isOperatorSet(w) {
			return c.arrayWrite(w, s)
		}
		if w.Callee.IsSetter() {
			return c.fieldWrite(AccessorProperty(w.Callee), receiverOf(w), w.Span, s)
		}
	}
	return nil, shapeErr(write, "assignment", "%s is not a write", nodeName(write))
}

// writtenValue is the value a write stores.
func writtenValue(write ir.Expression) ir.Expression {
	switch w := write.(type) {
	case *ir.SetValue:
		return w.Value
	case *ir.SetField:
		return w.Value
	case *ir.Call:
		if n := len(w.Arguments); n > 0 {
			return w.Arguments[n-1]
		}
	}
	return nil
}

// operatorAssignment builds `a op= b` for every lowering of a compound
// assignment: a direct plusAssign() style call, `a = a.plus(b)` on a
// variable, field or setter, and the block forms used for indexed and
// qualified targets.
func (c *converter) operatorAssignment(n ir.Expression, o ir.Origin, s scope) (Result, error) {
	kind, ok := BinaryKindForOrigin(o)
	if !ok {
		return Result{}, unhandled(n)
	}
	assigned, value, err := c.augmentedOperands(n, s)
	if err != nil {
		return Result{}, err
	}
	a := ct.NewOperatorAssignment(GenericBinaryKind(kind))
	a.SetAssigned(assigned)
	a.SetAssignment(value)
	ct.Put(a, ct.KeyBinaryOperatorKind, kind)
	if t := assigned.Type(); t != nil {
		a.SetType(t.Clone())
	}
	return definite(a), nil
}

func (c *converter) augmentedOperands(n ir.Expression, s scope) (ct.Expression, ct.Expression, error) {
	switch x := n.(type) {
	case *ir.Block:
		inner, rest := s.withTemps(x.Statements)
		var last ir.Expression
		for _, st := range rest {
			switch w := st.(type) {
			case *ir.SetValue, *ir.SetField, *ir.Block:
				last = w.(ir.Expression)
			case *ir.Call:
				if w.Callee.IsSetter() || isOperatorSet(w) || w.Origin.IsAugmentedAssignment() {
					last = w
				}
			}
		}
		if last == nil {
			return nil, nil, shapeErr(x, "compound assignment", "no write")
		}
		return c.augmentedOperands(last, inner)
	case *ir.Call:
		if !x.Callee.IsSetter() && !isOperatorSet(x) {
			// a.plusAssign(b)
			recv := receiverOf(x)
			if recv == nil || len(x.Arguments) == 0 {
				return nil, nil, shapeErr(x, "compound assignment", "no operands")
			}
			lhs, err := c.expr(recv, s)
			if err != nil {
				return nil, nil, err
			}
			rhs, err := c.expr(x.Arguments[0], s)
			if err != nil {
				return nil, nil, err
			}
			return lhs, rhs, nil
		}
	}
	assigned, err := c.writeTarget(n, s)
	if err != nil {
		return nil, nil, err
	}
	operand, err := operatorOperand(n, writtenValue(n))
	if err != nil {
		return nil, nil, err
	}
	value, err := c.expr(operand, s)
	if err != nil {
		return nil, nil, err
	}
	return assigned, value, nil
}

// operatorOperand extracts b from the stored value `a.plus(b)` or
// `plus(a, b)`.
func operatorOperand(write, v ir.Expression) (ir.Expression, error) {
	call, ok := v.(*ir.Call)
	if !ok {
		return nil, shapeErr(write, "compound assignment", "value is not an operator call")
	}
	switch len(call.Arguments) {
	case 1:
		return call.Arguments[0], nil
	case 2:
		return call.Arguments[1], nil
	}
	return nil, shapeErr(write, "compound assignment", "%d operands", len(call.Arguments))
}
