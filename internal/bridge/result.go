package bridge

import (
	"fmt"

	"ktbridge/internal/ct"
)

// ResultKind tells how many nodes a handler produced.
type ResultKind uint8

const (
	// Absent means the construct has no representation in the tree.
	Absent ResultKind = iota
	// Definite is exactly one node.
	Definite
	// Composite is zero or more nodes standing for one IR construct.
	Composite
)

func (k ResultKind) String() string {
	switch k {
	case Definite:
		return "definite"
	case Composite:
		return "composite"
	}
	return "absent"
}

// Result is what a handler produced for one IR node. Failures travel as the
// accompanying error, never inside the Result.
type Result struct {
	kind  ResultKind
	elems []ct.Element
}

func definite(e ct.Element) Result { return Result{kind: Definite, elems: []ct.Element{e}} }

func composite[E ct.Element](es []E) Result {
	out := make([]ct.Element, len(es))
	for i, e := range es {
		out[i] = e
	}
	return Result{kind: Composite, elems: out}
}

func absent() Result { return Result{} }

func (r Result) Kind() ResultKind       { return r.kind }
func (r Result) IsAbsent() bool         { return r.kind == Absent }
func (r Result) Elements() []ct.Element { return r.elems }

// Single unwraps a result that must hold exactly one node. It fails with a
// ShapeError for absent results and for composites of any other size.
func (r Result) Single() (ct.Element, error) {
	if len(r.elems) != 1 {
		return nil, &ShapeError{
			Construct: "result",
			Reason:    fmt.Sprintf("expected one node, got %s result with %d", r.kind, len(r.elems)),
		}
	}
	return r.elems[0], nil
}
