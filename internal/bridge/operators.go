package bridge

import (
	"ktbridge/internal/ct"
	"ktbridge/internal/ir"
	"ktbridge/internal/kt"
)

var binaryOrigins = map[ir.Origin]kt.BinaryOperatorKind{
	ir.OriginPlus:     kt.OpPlus,
	ir.OriginMinus:    kt.OpMinus,
	ir.OriginMul:      kt.OpMul,
	ir.OriginDiv:      kt.OpDiv,
	ir.OriginPerc:     kt.OpMod,
	ir.OriginRange:    kt.OpRangeTo,
	ir.OriginEqEq:     kt.OpEq,
	ir.OriginExclEq:   kt.OpNe,
	ir.OriginEqEqEq:   kt.OpID,
	ir.OriginExclEqEq: kt.OpNID,
	ir.OriginLt:       kt.OpLt,
	ir.OriginGt:       kt.OpGt,
	ir.OriginLtEq:     kt.OpLe,
	ir.OriginGtEq:     kt.OpGe,
	ir.OriginIn:       kt.OpIn,
	ir.OriginNotIn:    kt.OpNotIn,
	ir.OriginAndAnd:   kt.OpAnd,
	ir.OriginOrOr:     kt.OpOr,
	ir.OriginElvis:    kt.OpElvis,

	ir.OriginPlusEq:  kt.OpPlus,
	ir.OriginMinusEq: kt.OpMinus,
	ir.OriginMultEq:  kt.OpMul,
	ir.OriginDivEq:   kt.OpDiv,
	ir.OriginPercEq:  kt.OpMod,
}

// BinaryKindForOrigin returns the Kotlin operator an origin was lowered
// from. Compound-assignment origins yield their underlying operator.
func BinaryKindForOrigin(o ir.Origin) (kt.BinaryOperatorKind, bool) {
	k, ok := binaryOrigins[o]
	return k, ok
}

// GenericBinaryKind projects a Kotlin operator onto the generic vocabulary.
// Operators without a generic counterpart become ct.BinaryOther; the exact
// kind then lives only in metadata.
func GenericBinaryKind(k kt.BinaryOperatorKind) ct.BinaryOperatorKind {
	switch k {
	case kt.OpPlus:
		return ct.BinaryPlus
	case kt.OpMinus:
		return ct.BinaryMinus
	case kt.OpMul:
		return ct.BinaryMul
	case kt.OpDiv:
		return ct.BinaryDiv
	case kt.OpMod:
		return ct.BinaryMod
	case kt.OpEq, kt.OpID:
		return ct.BinaryEq
	case kt.OpNe, kt.OpNID:
		return ct.BinaryNe
	case kt.OpLt:
		return ct.BinaryLt
	case kt.OpGt:
		return ct.BinaryGt
	case kt.OpLe:
		return ct.BinaryLe
	case kt.OpGe:
		return ct.BinaryGe
	case kt.OpAnd:
		return ct.BinaryAnd
	case kt.OpOr:
		return ct.BinaryOr
	case kt.OpIs:
		return ct.BinaryInstanceOf
	}
	return ct.BinaryOther
}

// UnaryKindForOrigin covers the prefix operators and the increments.
func UnaryKindForOrigin(o ir.Origin) (ct.UnaryOperatorKind, bool) {
	switch o {
	case ir.OriginUPlus:
		return ct.UnaryPos, true
	case ir.OriginUMinus:
		return ct.UnaryNeg, true
	case ir.OriginExcl:
		return ct.UnaryNot, true
	case ir.OriginPrefixIncr:
		return ct.UnaryPreInc, true
	case ir.OriginPrefixDecr:
		return ct.UnaryPreDec, true
	case ir.OriginPostfixIncr:
		return ct.UnaryPostInc, true
	case ir.OriginPostfixDecr:
		return ct.UnaryPostDec, true
	}
	return 0, false
}

func receiverOf(c *ir.Call) ir.Expression {
	if c.DispatchReceiver != nil {
		return c.DispatchReceiver
	}
	return c.ExtensionReceiver
}

// binaryOperands recovers the source-order operands of an operator call.
// Intrinsics take both operands as arguments, member operators take the
// left one as receiver, and negated forms (`!=`, `!in`, `!==`) wrap the
// positive call as the receiver of `not()`.
func binaryOperands(c *ir.Call, kind kt.BinaryOperatorKind) (ir.Expression, ir.Expression, error) {
	var lhs, rhs ir.Expression
	switch args := c.Arguments; {
	case len(args) == 2:
		lhs, rhs = args[0], args[1]
	case len(args) == 1 && receiverOf(c) != nil:
		lhs, rhs = receiverOf(c), args[0]
	case len(args) == 0:
		inner, ok := receiverOf(c).(*ir.Call)
		if !ok {
			return nil, nil, shapeErr(c, "binary operator", "no operands for %s", kind)
		}
		return binaryOperands(inner, kind)
	default:
		return nil, nil, shapeErr(c, "binary operator", "%d arguments for %s", len(args), kind)
	}
	if lhs == nil || rhs == nil {
		return nil, nil, shapeErr(c, "binary operator", "missing operand for %s", kind)
	}
	if kind == kt.OpIn || kind == kt.OpNotIn {
		// `a in b` is lowered to `b.contains(a)`.
		lhs, rhs = rhs, lhs
	}
	if kind.IsComparison() {
		lhs, rhs = unwrapCompareTo(lhs, rhs)
	}
	return lhs, rhs, nil
}

// unwrapCompareTo turns `a.compareTo(b) < 0` back into `a < b`.
func unwrapCompareTo(lhs, rhs ir.Expression) (ir.Expression, ir.Expression) {
	cmp, ok := lhs.(*ir.Call)
	if !ok || cmp.Callee == nil || cmp.Callee.Name != "compareTo" || len(cmp.Arguments) != 1 {
		return lhs, rhs
	}
	zero, ok := rhs.(*ir.Const)
	if !ok || !isZero(zero.Value) {
		return lhs, rhs
	}
	recv := receiverOf(cmp)
	if recv == nil || cmp.Arguments[0] == nil {
		return lhs, rhs
	}
	return recv, cmp.Arguments[0]
}

func isZero(v any) bool {
	switch x := v.(type) {
	case int64:
		return x == 0
	case int:
		return x == 0
	case float64:
		return x == 0
	}
	return false
}

// visitBinaryOperator builds the operator for a call carrying a binary
// origin. The generic kind is the nominal one; the exact Kotlin operator is
// stored under ct.KeyBinaryOperatorKind.
func (c *converter) visitBinaryOperator(call *ir.Call, s scope) (Result, error) {
	kind, ok := BinaryKindForOrigin(call.Origin)
	if !ok {
		return Result{}, unhandled(call)
	}
	l, r, err := binaryOperands(call, kind)
	if err != nil {
		return Result{}, err
	}
	lhs, err := c.expr(l, s)
	if err != nil {
		return Result{}, err
	}
	rhs, err := c.expr(r, s)
	if err != nil {
		return Result{}, err
	}
	op := c.binary(kind, lhs, rhs)
	op.SetType(c.refs.TypeRef(call.Type, call.Span))
	return definite(op), nil
}

func (c *converter) binary(kind kt.BinaryOperatorKind, lhs, rhs ct.Expression) *ct.BinaryOperator {
	op := ct.NewBinaryOperator(GenericBinaryKind(kind))
	op.SetLeft(lhs)
	op.SetRight(rhs)
	ct.Put(op, ct.KeyBinaryOperatorKind, kind)
	return op
}

func (c *converter) visitUnaryOperator(call *ir.Call, s scope) (Result, error) {
	kind, ok := UnaryKindForOrigin(call.Origin)
	if !ok {
		return Result{}, unhandled(call)
	}
	operand := receiverOf(call)
	if operand == nil && len(call.Arguments) == 1 {
		operand = call.Arguments[0]
	}
	if operand == nil {
		return Result{}, shapeErr(call, "unary operator", "no operand for %s", kind)
	}
	e, err := c.expr(operand, s)
	if err != nil {
		return Result{}, err
	}
	op := ct.NewUnaryOperator(kind)
	op.SetOperand(e)
	op.SetType(c.refs.TypeRef(call.Type, call.Span))
	return definite(op), nil
}
