package ir

import "strings"

// ClassID identifies a class by package and the chain of enclosing class
// names, outermost first.
type ClassID struct {
	Package string   `json:"package"`
	Names   []string `json:"names"`
}

func (c ClassID) ShortName() string {
	if len(c.Names) == 0 {
		return ""
	}
	return c.Names[len(c.Names)-1]
}

// Outer returns the enclosing class, or false for top-level classes.
func (c ClassID) Outer() (ClassID, bool) {
	if len(c.Names) < 2 {
		return ClassID{}, false
	}
	return ClassID{Package: c.Package, Names: c.Names[:len(c.Names)-1]}, true
}

func (c ClassID) IsZero() bool { return len(c.Names) == 0 }

func (c ClassID) String() string {
	n := strings.Join(c.Names, ".")
	if c.Package == "" {
		return n
	}
	return c.Package + "." + n
}

// Is reports whether c names pkg.name (a top-level class).
func (c ClassID) Is(pkg, name string) bool {
	return c.Package == pkg && len(c.Names) == 1 && c.Names[0] == name
}

type TypeKind string

const (
	TypeClass         TypeKind = "CLASS"
	TypeTypeParameter TypeKind = "TYPE_PARAMETER"
	TypeError         TypeKind = "ERROR"
)

// Type is a resolved Kotlin type.
type Type struct {
	Kind      TypeKind        `json:"kind"`
	Class     *ClassID        `json:"class,omitempty"`
	Name      string          `json:"name,omitempty"`
	Nullable  bool            `json:"nullable,omitempty"`
	// Interface marks class types whose classifier is an interface.
	Interface bool            `json:"interface,omitempty"`
	Arguments []*TypeArgument `json:"arguments,omitempty"`
	// Bounds holds the upper bounds of a type parameter.
	Bounds    []*Type         `json:"bounds,omitempty"`
}

// TypeArgument is a projection; Star arguments carry no type.
type TypeArgument struct {
	Star     bool     `json:"star,omitempty"`
	Variance Variance `json:"variance,omitempty"`
	Type     *Type    `json:"type,omitempty"`
}

// IsClass reports whether t is the class pkg.name.
func (t *Type) IsClass(pkg, name string) bool {
	return t != nil && t.Kind == TypeClass && t.Class != nil && t.Class.Is(pkg, name)
}

func (t *Type) IsUnit() bool        { return t.IsClass("kotlin", "Unit") }
func (t *Type) IsNothing() bool     { return t.IsClass("kotlin", "Nothing") }
func (t *Type) IsAny() bool         { return t.IsClass("kotlin", "Any") }
func (t *Type) IsNullableAny() bool { return t.IsAny() && t.Nullable }

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	var b strings.Builder
	switch t.Kind {
	case TypeClass:
		if t.Class != nil {
			b.WriteString(t.Class.String())
		}
	case TypeTypeParameter:
		b.WriteString(t.Name)
	default:
		b.WriteString("<error>")
	}
	if len(t.Arguments) > 0 {
		b.WriteByte('<')
		for i, a := range t.Arguments {
			if i > 0 {
				b.WriteString(", ")
			}
			switch {
			case a.Star:
				b.WriteByte('*')
			case a.Variance != Invariant:
				b.WriteString(string(a.Variance) + " " + a.Type.String())
			default:
				b.WriteString(a.Type.String())
			}
		}
		b.WriteByte('>')
	}
	if t.Nullable {
		b.WriteByte('?')
	}
	return b.String()
}

type FunctionKind string

const (
	FunctionPlain       FunctionKind = "FUNCTION"
	FunctionGetter      FunctionKind = "GETTER"
	FunctionSetter      FunctionKind = "SETTER"
	FunctionConstructor FunctionKind = "CONSTRUCTOR"
)

// Container is the logical owner of a symbol: a class when Class is set,
// otherwise the package.
type Container struct {
	Package string   `json:"package"`
	Class   *ClassID `json:"class,omitempty"`
}

func (c Container) IsClass() bool { return c.Class != nil }

type FunctionSymbol struct {
	Name           string          `json:"name"`
	Kind           FunctionKind    `json:"kind,omitempty"`
	IsOperator     bool            `json:"operator,omitempty"`
	IsInfix        bool            `json:"infix,omitempty"`
	Property       *PropertySymbol `json:"property,omitempty"`
	Container      Container       `json:"container"`
	ReturnType     *Type           `json:"returnType,omitempty"`
	Parameters     []string        `json:"parameters,omitempty"`
	ParameterTypes []*Type         `json:"parameterTypes,omitempty"`
	TypeParameters []string        `json:"typeParameters,omitempty"`
}

func (f *FunctionSymbol) IsGetter() bool { return f != nil && f.Kind == FunctionGetter }
func (f *FunctionSymbol) IsSetter() bool { return f != nil && f.Kind == FunctionSetter }

type PropertySymbol struct {
	Name      string    `json:"name"`
	Container Container `json:"container"`
	Type      *Type     `json:"type,omitempty"`
}

type ValueKind string

const (
	ValueLocal         ValueKind = "LOCAL"
	ValueKindParameter ValueKind = "PARAMETER"
	ValueReceiver      ValueKind = "RECEIVER"
	ValueCatch         ValueKind = "CATCH"
	ValueTemporary     ValueKind = "TEMPORARY"
)

type ValueSymbol struct {
	Name string    `json:"name"`
	Kind ValueKind `json:"kind"`
	Type *Type     `json:"type,omitempty"`
}
