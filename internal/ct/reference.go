package ct

import (
	"strings"

	"ktbridge/internal/kt"
)

// PackageReference names a package. The empty name is the root package.
type PackageReference struct {
	node
	name string
}

func NewPackageReference(name string) *PackageReference {
	r := &PackageReference{name: name}
	r.self = r
	return r
}

func (r *PackageReference) Kind() Kind          { return KindPackageReference }
func (r *PackageReference) Children() []Element { return nil }
func (r *PackageReference) Name() string        { return r.name }
func (r *PackageReference) IsRoot() bool        { return r.name == "" }

// RefKind distinguishes the shapes a TypeReference can take.
type RefKind uint8

const (
	RefClass RefKind = iota + 1
	RefTypeParameter
	RefIntersection
	RefNull
	RefStar
)

// ErrorTypeName is the simple name of the sentinel reference produced for
// types that could not be resolved.
const ErrorTypeName = "ErrorType"

// TypeReference points at a type. Class references hang off either a package
// or a declaring type, never both.
type TypeReference struct {
	node
	refKind       RefKind
	simpleName    string
	pkg           *PackageReference
	declaringType *TypeReference
	nullable      bool
	args          []*TypeReference
	bounds        []*TypeReference
}

func NewTypeReference(kind RefKind, simpleName string) *TypeReference {
	r := &TypeReference{refKind: kind, simpleName: simpleName}
	r.self = r
	return r
}

func (r *TypeReference) Kind() Kind                      { return KindTypeReference }
func (r *TypeReference) RefKind() RefKind                { return r.refKind }
func (r *TypeReference) SimpleName() string              { return r.simpleName }
func (r *TypeReference) Package() *PackageReference      { return r.pkg }
func (r *TypeReference) DeclaringType() *TypeReference   { return r.declaringType }
func (r *TypeReference) Nullable() bool                  { return r.nullable }
func (r *TypeReference) SetNullable(b bool)              { r.nullable = b }
func (r *TypeReference) TypeArguments() []*TypeReference { return r.args }
func (r *TypeReference) Bounds() []*TypeReference        { return r.bounds }

// SetPackage places the reference in p and clears any declaring type.
func (r *TypeReference) SetPackage(p *PackageReference) {
	r.declaringType = nil
	r.pkg = p
	r.adopt(p)
}

// SetDeclaringType nests the reference in t and clears any package.
func (r *TypeReference) SetDeclaringType(t *TypeReference) {
	r.pkg = nil
	r.declaringType = t
	r.adopt(t)
}

func (r *TypeReference) AddTypeArgument(a *TypeReference) {
	r.args = append(r.args, a)
	r.adopt(a)
}

func (r *TypeReference) AddBound(b *TypeReference) {
	r.bounds = append(r.bounds, b)
	r.adopt(b)
}

func (r *TypeReference) Children() []Element {
	out := elems(r.pkg, r.declaringType)
	out = appendAll(out, r.args)
	return appendAll(out, r.bounds)
}

// QualifiedName joins the package and declaring-type chain with dots.
func (r *TypeReference) QualifiedName() string {
	switch {
	case r.declaringType != nil:
		return r.declaringType.QualifiedName() + "." + r.simpleName
	case r.pkg != nil && !r.pkg.IsRoot():
		return r.pkg.Name() + "." + r.simpleName
	}
	return r.simpleName
}

// IsError reports whether r is the unresolved-type sentinel.
func (r *TypeReference) IsError() bool {
	return r.refKind == RefClass && r.simpleName == ErrorTypeName && r.pkg == nil && r.declaringType == nil
}

func (r *TypeReference) String() string {
	var b strings.Builder
	switch r.refKind {
	case RefStar:
		return "*"
	case RefNull:
		return "Nothing?"
	case RefIntersection:
		for i, t := range r.bounds {
			if i > 0 {
				b.WriteString(" & ")
			}
			b.WriteString(t.String())
		}
		return b.String()
	case RefTypeParameter:
		b.WriteString(r.simpleName)
	default:
		b.WriteString(r.QualifiedName())
	}
	if len(r.args) > 0 {
		b.WriteByte('<')
		for i, a := range r.args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(a.String())
		}
		b.WriteByte('>')
	}
	if r.nullable {
		b.WriteByte('?')
	}
	return b.String()
}

// ConstructorName is the simple name of every constructor reference.
const ConstructorName = "<init>"

// ExecutableReference points at a function or constructor.
type ExecutableReference struct {
	node
	simpleName    string
	declaringType *TypeReference
	typ           *TypeReference
	params        []*TypeReference
}

func NewExecutableReference(simpleName string) *ExecutableReference {
	r := &ExecutableReference{simpleName: simpleName}
	r.self = r
	return r
}

func (r *ExecutableReference) Kind() Kind                    { return KindExecutableReference }
func (r *ExecutableReference) SimpleName() string            { return r.simpleName }
func (r *ExecutableReference) IsConstructor() bool           { return r.simpleName == ConstructorName }
func (r *ExecutableReference) DeclaringType() *TypeReference { return r.declaringType }
func (r *ExecutableReference) Type() *TypeReference          { return r.typ }
func (r *ExecutableReference) Parameters() []*TypeReference  { return r.params }

func (r *ExecutableReference) SetDeclaringType(t *TypeReference) {
	r.declaringType = t
	r.adopt(t)
}

func (r *ExecutableReference) SetType(t *TypeReference) {
	r.typ = t
	r.adopt(t)
}

func (r *ExecutableReference) AddParameter(t *TypeReference) {
	r.params = append(r.params, t)
	r.adopt(t)
}

func (r *ExecutableReference) Children() []Element {
	return appendAll(elems(r.declaringType, r.typ), r.params)
}

// VarRefKind is the kind of variable a VariableReference points at.
type VarRefKind uint8

const (
	VarField VarRefKind = iota + 1
	VarParameter
	VarLocal
	VarCatch
)

func (k VarRefKind) String() string {
	switch k {
	case VarField:
		return "field"
	case VarParameter:
		return "parameter"
	case VarLocal:
		return "local"
	case VarCatch:
		return "catch"
	}
	return "unknown"
}

// VariableReference points at a field, parameter, local or catch variable.
type VariableReference struct {
	node
	varKind       VarRefKind
	simpleName    string
	typ           *TypeReference
	declaringType *TypeReference
}

func NewVariableReference(kind VarRefKind, simpleName string) *VariableReference {
	r := &VariableReference{varKind: kind, simpleName: simpleName}
	r.self = r
	return r
}

func (r *VariableReference) Kind() Kind                    { return KindVariableReference }
func (r *VariableReference) VarKind() VarRefKind           { return r.varKind }
func (r *VariableReference) SimpleName() string            { return r.simpleName }
func (r *VariableReference) Type() *TypeReference          { return r.typ }
func (r *VariableReference) DeclaringType() *TypeReference { return r.declaringType }

func (r *VariableReference) SetType(t *TypeReference) {
	r.typ = t
	r.adopt(t)
}

// SetDeclaringType is only meaningful for field references.
func (r *VariableReference) SetDeclaringType(t *TypeReference) {
	r.declaringType = t
	r.adopt(t)
}

func (r *VariableReference) Children() []Element {
	return elems(r.declaringType, r.typ)
}

// Clone copies r and its nested references. Modifier metadata is carried
// over; the copy has no parent.
func (r *TypeReference) Clone() *TypeReference {
	if r == nil {
		return nil
	}
	c := NewTypeReference(r.refKind, r.simpleName)
	c.nullable = r.nullable
	c.implicit = r.implicit
	if r.pkg != nil {
		c.SetPackage(NewPackageReference(r.pkg.name))
	}
	if r.declaringType != nil {
		c.SetDeclaringType(r.declaringType.Clone())
	}
	for _, a := range r.args {
		c.AddTypeArgument(a.Clone())
	}
	for _, b := range r.bounds {
		c.AddBound(b.Clone())
	}
	if mods, ok := Get(r, KeyModifiers); ok {
		Put(c, KeyModifiers, append([]kt.Modifier(nil), mods...))
	}
	return c
}
