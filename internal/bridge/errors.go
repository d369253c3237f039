package bridge

import (
	"fmt"
	"strings"

	"ktbridge/internal/ir"
)

// UnhandledNodeError reports an IR construct the builder has no translation
// for. Conversion of the file stops.
type UnhandledNodeError struct {
	Node string
	Span ir.Span
}

func (e *UnhandledNodeError) Error() string {
	return fmt.Sprintf("unhandled IR node %s at %d..%d", e.Node, e.Span.Start, e.Span.End)
}

// ShapeError reports IR that does not have the shape a reconstruction rule
// relies on, e.g. a short-circuit condition without a non-else branch.
type ShapeError struct {
	Construct string
	Reason    string
	Span      ir.Span
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("malformed %s at %d..%d: %s", e.Construct, e.Span.Start, e.Span.End, e.Reason)
}

// ReferenceKindError reports a write whose target is neither a field, a
// parameter nor a local variable.
type ReferenceKindError struct {
	Name string
	Kind string
	Span ir.Span
}

func (e *ReferenceKindError) Error() string {
	return fmt.Sprintf("cannot write to %s %q at %d..%d", e.Kind, e.Name, e.Span.Start, e.Span.End)
}

func nodeName(n ir.Node) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", n), "*ir.")
}

func unhandled(n ir.Node) error {
	return &UnhandledNodeError{Node: nodeName(n), Span: n.Pos()}
}

func shapeErr(n ir.Node, construct, format string, args ...any) error {
	return &ShapeError{Construct: construct, Reason: fmt.Sprintf(format, args...), Span: n.Pos()}
}
