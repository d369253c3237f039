package ct

import "fmt"

// Walk visits e and its descendants depth-first. Returning false from fn
// skips the children of the current node.
func Walk(e Element, fn func(Element) bool) {
	if isNil(e) || !fn(e) {
		return
	}
	for _, c := range e.Children() {
		Walk(c, fn)
	}
}

// WalkWithMetadata is Walk that also descends into element-valued metadata.
func WalkWithMetadata(e Element, fn func(Element) bool) {
	if isNil(e) || !fn(e) {
		return
	}
	for _, c := range e.Children() {
		WalkWithMetadata(c, fn)
	}
	for _, c := range MetadataElements(e) {
		WalkWithMetadata(c, fn)
	}
}

// MetadataElements returns the nodes stored in e's metadata.
func MetadataElements(e Element) []Element {
	var out []Element
	m := e.Metadata()
	for _, k := range m.Kinds() {
		v, _ := m.Value(k)
		switch x := v.(type) {
		case Element:
			if !isNil(x) {
				out = append(out, x)
			}
		case []*LocalVariable:
			out = appendAll(out, x)
		}
	}
	return out
}

// CheckParents verifies that every node under root points back at its owner.
func CheckParents(root Element) error {
	var err error
	var check func(parent Element)
	check = func(parent Element) {
		kids := append(parent.Children(), MetadataElements(parent)...)
		for _, c := range kids {
			if err != nil {
				return
			}
			if c.Parent() != parent {
				err = fmt.Errorf("%s under %s has parent %v", c.Kind(), parent.Kind(), describe(c.Parent()))
				return
			}
			check(c)
		}
	}
	check(root)
	return err
}

func describe(e Element) string {
	if isNil(e) {
		return "<nil>"
	}
	return e.Kind().String()
}

// ParentOf walks up from e to the nearest ancestor of type T.
func ParentOf[T Element](e Element) (T, bool) {
	var zero T
	for p := e.Parent(); !isNil(p); p = p.Parent() {
		if t, ok := p.(T); ok {
			return t, true
		}
	}
	return zero, false
}
