package ir

import "fmt"

// MissingFieldError reports a node that lacks a child or symbol every node
// of its kind carries.
type MissingFieldError struct {
	Node  string
	Field string
	Span  Span
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s at %d..%d: missing %s", e.Node, e.Span.Start, e.Span.End, e.Field)
}

// MissingField names the first required child or symbol n lacks, or returns
// "" when n is complete. Branches of a when and catches of a try are checked
// with their parent.
func MissingField(n Node) string {
	switch n := n.(type) {
	case *ExpressionBody:
		if n.Expression == nil {
			return "expression"
		}
	case *AnonymousInitializer:
		if n.Body == nil {
			return "body"
		}
	case *Call:
		if n.Callee == nil {
			return "callee"
		}
	case *ConstructorCall:
		if n.Callee == nil {
			return "callee"
		}
	case *DelegatingConstructorCall:
		if n.Callee == nil {
			return "callee"
		}
	case *GetValue:
		if n.Symbol == nil {
			return "symbol"
		}
	case *SetValue:
		if n.Symbol == nil {
			return "symbol"
		}
		if n.Value == nil {
			return "value"
		}
	case *GetField:
		if n.Symbol == nil {
			return "field"
		}
	case *SetField:
		if n.Symbol == nil {
			return "field"
		}
		if n.Value == nil {
			return "value"
		}
	case *Branch:
		if n.Result == nil {
			return "result"
		}
		if n.Condition == nil && !n.IsElse {
			return "condition"
		}
	case *When:
		for _, b := range n.Branches {
			if b == nil {
				return "branch"
			}
			if f := MissingField(b); f != "" {
				return "branch " + f
			}
		}
	case *WhileLoop:
		if n.Condition == nil {
			return "condition"
		}
	case *DoWhileLoop:
		if n.Condition == nil {
			return "condition"
		}
	case *Throw:
		if n.Value == nil {
			return "value"
		}
	case *Catch:
		if n.Parameter == nil {
			return "parameter"
		}
		if n.Result == nil {
			return "result"
		}
	case *Try:
		if n.Result == nil {
			return "result"
		}
		for _, c := range n.Catches {
			if c == nil {
				return "catch"
			}
			if f := MissingField(c); f != "" {
				return "catch " + f
			}
		}
	case *TypeOperatorCall:
		if n.Argument == nil {
			return "argument"
		}
		if n.TypeOperand == nil {
			return "type operand"
		}
	case *SpreadElement:
		if n.Expression == nil {
			return "expression"
		}
	case *FunctionExpression:
		if n.Function == nil {
			return "function"
		}
	}
	return ""
}
