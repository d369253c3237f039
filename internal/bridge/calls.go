package bridge

import (
	"sort"

	"ktbridge/internal/ct"
	"ktbridge/internal/ir"
)

// callRule rebuilds one desugared call shape. Rules are tried in order and
// the first match wins; the order matters because shapes overlap, e.g. a
// getter call may also carry a GET_PROPERTY origin.
type callRule struct {
	name  string
	match func(*ir.Call) bool
	build func(*converter, *ir.Call, scope) (Result, error)
}

var callRules []callRule

func init() {
	callRules = []callRule{
		{"getter", func(k *ir.Call) bool { return k.Callee.IsGetter() }, (*converter).propertyRead},
		{"indexed assignment", isIndexedAssignment, (*converter).indexedAssignment},
		{"not-null assertion", origin(ir.OriginExclExcl), (*converter).checkedNotNull},
		{"property reference", func(k *ir.Call) bool {
			return k.Origin == ir.OriginGetProperty && k.Callee != nil && k.Callee.Property != nil
		}, (*converter).propertyRead},
		{"indexed read", origin(ir.OriginGetArrayElement), (*converter).indexedRead},
		{"for-loop iterable", origin(ir.OriginForLoopIterator), (*converter).iterable},
		{"compound assignment", func(k *ir.Call) bool { return k.Origin.IsAugmentedAssignment() }, (*converter).callOperatorAssignment},
		{"assignment", origin(ir.OriginEq), (*converter).setterAssignment},
		{"increment", func(k *ir.Call) bool {
			return k.Origin.IsIncrementOrDecrement() && k.Callee.IsSetter()
		}, (*converter).incrementWrite},
		{"unary operator", func(k *ir.Call) bool { return k.Origin.IsUnary() }, (*converter).visitUnaryOperator},
		{"binary operator", func(k *ir.Call) bool { return k.Origin.IsBinary() }, (*converter).visitBinaryOperator},
	}
}

func origin(o ir.Origin) func(*ir.Call) bool {
	return func(k *ir.Call) bool { return k.Origin == o }
}

func isOperatorSet(k *ir.Call) bool {
	return k.Callee != nil && k.Callee.Name == "set" && k.Callee.IsOperator
}

func isIndexedAssignment(k *ir.Call) bool {
	return k.Origin == ir.OriginEq && isOperatorSet(k)
}

func (c *converter) visitCall(k *ir.Call, s scope) (Result, error) {
	for _, r := range callRules {
		if r.match(k) {
			return r.build(c, k, s)
		}
	}
	return c.invocation(callAccess(k), s)
}

func (c *converter) propertyRead(k *ir.Call, s scope) (Result, error) {
	read := ct.NewFieldRead(c.refs.PropertyRef(AccessorProperty(k.Callee), k.Span))
	if recv := receiverOf(k); recv != nil {
		target, err := c.target(recv, s)
		if err != nil {
			return Result{}, err
		}
		if target != nil {
			read.SetTarget(target)
		}
	}
	c.putType(read, k.Type, k.Span)
	return definite(read), nil
}

// arrayWrite is `recv[indices...]` as an assignment target.
func (c *converter) arrayWrite(k *ir.Call, s scope) (*ct.ArrayWrite, error) {
	if len(k.Arguments) < 2 {
		return nil, shapeErr(k, "indexed assignment", "%d arguments to set", len(k.Arguments))
	}
	w := ct.NewArrayWrite()
	if recv := receiverOf(k); recv != nil {
		target, err := c.target(recv, s)
		if err != nil {
			return nil, err
		}
		if target != nil {
			w.SetTarget(target)
		}
	}
	for _, a := range k.Arguments[:len(k.Arguments)-1] {
		idx, err := c.expr(a, s)
		if err != nil {
			return nil, err
		}
		w.AddIndex(idx)
	}
	c.putType(w, k.Arguments[len(k.Arguments)-1].ExprType(), k.Span)
	return w, nil
}

func (c *converter) indexedAssignment(k *ir.Call, s scope) (Result, error) {
	w, err := c.arrayWrite(k, s)
	if err != nil {
		return Result{}, err
	}
	value := k.Arguments[len(k.Arguments)-1]
	return c.assignment(w, value, value.ExprType(), k.Span, s)
}

func (c *converter) indexedRead(k *ir.Call, s scope) (Result, error) {
	read := ct.NewArrayRead()
	if recv := receiverOf(k); recv != nil {
		target, err := c.target(recv, s)
		if err != nil {
			return Result{}, err
		}
		if target != nil {
			read.SetTarget(target)
		}
	}
	for _, a := range k.Arguments {
		idx, err := c.expr(a, s)
		if err != nil {
			return Result{}, err
		}
		read.AddIndex(idx)
	}
	c.putType(read, k.Type, k.Span)
	return definite(read), nil
}

func (c *converter) checkedNotNull(k *ir.Call, s scope) (Result, error) {
	if len(k.Arguments) == 0 || k.Arguments[0] == nil {
		return Result{}, shapeErr(k, "not-null assertion", "no operand")
	}
	e, err := c.expr(k.Arguments[0], s)
	if err != nil {
		return Result{}, err
	}
	ct.Put(e, ct.KeyCheckedNotNull, true)
	return definite(e), nil
}

// iterable unwraps `l.iterator()` of a for loop to `l`.
func (c *converter) iterable(k *ir.Call, s scope) (Result, error) {
	recv := receiverOf(k)
	if recv == nil {
		return Result{}, shapeErr(k, "for loop", "iterator() without receiver")
	}
	return c.visit(recv, s)
}

func (c *converter) setterAssignment(k *ir.Call, s scope) (Result, error) {
	if !k.Callee.IsSetter() {
		r, err := c.invocation(callAccess(k), s)
		if err != nil {
			return Result{}, err
		}
		for _, e := range r.Elements() {
			ct.Put(e, ct.KeySetAsOperator, true)
		}
		return r, nil
	}
	if len(k.Arguments) != 1 {
		return Result{}, shapeErr(k, "assignment", "%d arguments to setter", len(k.Arguments))
	}
	w, err := c.fieldWrite(AccessorProperty(k.Callee), receiverOf(k), k.Span, s)
	if err != nil {
		return Result{}, err
	}
	return c.assignment(w, k.Arguments[0], k.Type, k.Span, s)
}

func (c *converter) incrementWrite(k *ir.Call, s scope) (Result, error) {
	w, err := c.fieldWrite(AccessorProperty(k.Callee), receiverOf(k), k.Span, s)
	if err != nil {
		return Result{}, err
	}
	return definite(w), nil
}

func (c *converter) callOperatorAssignment(k *ir.Call, s scope) (Result, error) {
	return c.operatorAssignment(k, k.Origin, s)
}

// functionAccess is the common shape of calls and constructor calls.
type functionAccess struct {
	node        ir.Expression
	callee      *ir.FunctionSymbol
	dispatch    ir.Expression
	extension   ir.Expression
	args        []ir.Expression
	typeArgs    []*ir.Type
	super       *ir.ClassID
	constructor bool
	// reordered marks calls whose arguments were evaluated into
	// temporaries; they are put back in source order.
	reordered bool
}

func callAccess(k *ir.Call) functionAccess {
	return functionAccess{
		node:      k,
		callee:    k.Callee,
		dispatch:  k.DispatchReceiver,
		extension: k.ExtensionReceiver,
		args:      k.Arguments,
		typeArgs:  k.TypeArguments,
		super:     k.SuperQualifier,
	}
}

func (c *converter) visitConstructorCall(k *ir.ConstructorCall, s scope) (Result, error) {
	return c.invocation(functionAccess{
		node:        k,
		callee:      k.Callee,
		args:        k.Arguments,
		typeArgs:    k.TypeArguments,
		constructor: true,
	}, s)
}

func (c *converter) visitDelegatingConstructorCall(k *ir.DelegatingConstructorCall, s scope) (Result, error) {
	call := ct.NewConstructorCall(c.refs.ExecutableRef(k.Callee, k.Type, k.Span))
	args, err := c.arguments(functionAccess{node: k, callee: k.Callee, args: k.Arguments}, s)
	if err != nil {
		return Result{}, err
	}
	call.SetArguments(args)
	for _, t := range k.TypeArguments {
		call.AddTypeArgument(c.refs.TypeRef(t, k.Span))
	}
	c.putType(call, k.Type, k.Span)
	if k.Callee != nil && k.Callee.Container.Class != nil {
		if cls := *k.Callee.Container.Class; cls.Is("kotlin", "Any") || cls.Is("kotlin", "Enum") {
			call.SetImplicit(true)
		}
	}
	return definite(call), nil
}

// invocation builds the plain call, the fallback for every call shape no
// rule claims.
func (c *converter) invocation(fa functionAccess, s scope) (Result, error) {
	span := fa.node.Pos()
	inv := ct.NewInvocation(c.refs.ExecutableRef(fa.callee, fa.node.ExprType(), span))

	switch {
	case fa.super != nil:
		sup := ct.NewSuperAccess()
		sup.SetType(c.refs.ClassRef(*fa.super))
		inv.SetTarget(sup)
	case fa.constructor:
		if cls := fa.node.ExprType(); cls != nil && cls.Class != nil {
			if outer, ok := cls.Class.Outer(); ok {
				inv.SetTarget(ct.NewTypeAccess(c.refs.ClassRef(outer)))
			}
		}
	default:
		recv := fa.extension
		if recv == nil {
			recv = fa.dispatch
		}
		if recv != nil {
			target, err := c.target(recv, s)
			if err != nil {
				return Result{}, err
			}
			if target != nil {
				inv.SetTarget(target)
			}
		}
	}

	args, err := c.arguments(fa, s)
	if err != nil {
		return Result{}, err
	}
	inv.SetArguments(args)

	implicitTypeArgs := c.opts.DetectImplicitTypes && !c.src.HasExplicitTypeArguments(span)
	for _, t := range fa.typeArgs {
		ref := c.refs.TypeRef(t, span)
		ref.SetImplicit(implicitTypeArgs)
		inv.AddTypeArgument(ref)
	}

	if c.opts.DetectInfix && c.src.IsInfixCall(span) {
		ct.Put(inv, ct.KeyInfix, true)
	}
	if fa.node.ExprOrigin() == ir.OriginInvoke {
		ct.Put(inv, ct.KeyInvokeOperator, true)
	}
	c.putType(inv, fa.node.ExprType(), span)
	return definite(inv), nil
}

type argument struct {
	expr ct.Expression
	span ir.Span
}

// arguments converts the value arguments. Omitted slots are skipped and
// varargs are expanded in place, flagging spread elements.
func (c *converter) arguments(fa functionAccess, s scope) ([]ct.Expression, error) {
	var args []argument
	for i, a := range fa.args {
		if a == nil {
			continue
		}
		span := resolvedSpan(a, s)
		if va, ok := a.(*ir.Vararg); ok {
			for _, el := range va.Elements {
				arg, err := c.varargElement(el, s)
				if err != nil {
					return nil, err
				}
				args = append(args, argument{arg, el.Pos()})
			}
			continue
		}
		e, err := c.expr(a, s)
		if err != nil {
			return nil, err
		}
		name := c.src.NamedArgument(span)
		if name == "" && fa.reordered && fa.callee != nil && i < len(fa.callee.Parameters) {
			name = fa.callee.Parameters[i]
		}
		if name != "" {
			ct.Put(e, ct.KeyNamedArgument, name)
		}
		args = append(args, argument{e, span})
	}
	if fa.reordered {
		sort.SliceStable(args, func(i, j int) bool { return args[i].span.Start < args[j].span.Start })
	}
	out := make([]ct.Expression, len(args))
	for i, a := range args {
		out[i] = a.expr
	}
	return out, nil
}

func (c *converter) varargElement(el ir.VarargElement, s scope) (ct.Expression, error) {
	switch el := el.(type) {
	case *ir.SpreadElement:
		e, err := c.expr(el.Expression, s)
		if err != nil {
			return nil, err
		}
		ct.Put(e, ct.KeySpread, true)
		return e, nil
	case ir.Expression:
		return c.expr(el, s)
	}
	return nil, unhandled(el)
}

// resolvedSpan is the source span of e, looking through temporaries.
func resolvedSpan(e ir.Expression, s scope) ir.Span {
	for {
		g, ok := e.(*ir.GetValue)
		if !ok {
			return e.Pos()
		}
		init, ok := s.temps[g.Symbol.Name]
		if !ok {
			return e.Pos()
		}
		e = init
	}
}
